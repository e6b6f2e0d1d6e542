// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Defaults applied when a field is left empty
const (
	DefaultStrategy      = "simple-append"
	DefaultLockPrefix    = "~$"
	DefaultCharsPerPage  = 2000
	DefaultTOCTitle      = "目录"
	DefaultTOCFont       = "宋体"
	DefaultTOCSize       = 16
	DefaultTOCTabStop    = 450
	DefaultCallTimeout   = 2 * time.Minute
	DefaultTerminateWait = 3 * time.Second
	DefaultOfficeBinary  = "soffice"
)

// 🔄 Converter modes for legacy documents
const (
	ConverterAuto   = "auto"   // host first, then office
	ConverterHost   = "host"   // live host only
	ConverterOffice = "office" // headless office suite only
	ConverterNone   = "none"   // legacy documents are skipped
)

// DefaultExtensions are the document extensions picked up by the selector.
var DefaultExtensions = []string{".doc", ".docx"}

// 📂 SelectionArgs controls which files of a directory are merged
type SelectionArgs struct {
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`   // Accepted extensions, dot prefixed
	LockPrefix string   `json:"lock_prefix,omitempty" yaml:"lock_prefix,omitempty"` // Prefix of editor lock files
	Ignore     []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`           // Glob patterns matched on base names
}

// 📄 PaginationArgs tunes the structural page estimate
type PaginationArgs struct {
	CharsPerPage int `json:"chars_per_page,omitempty" yaml:"chars_per_page,omitempty"`
}

// 📑 TOCArgs controls how the table of contents looks
type TOCArgs struct {
	Title              string  `json:"title,omitempty" yaml:"title,omitempty"`
	Font               string  `json:"font,omitempty" yaml:"font,omitempty"`
	TitleSize          float64 `json:"title_size,omitempty" yaml:"title_size,omitempty"` // points
	EntrySize          float64 `json:"entry_size,omitempty" yaml:"entry_size,omitempty"` // points
	TabStop            float64 `json:"tab_stop,omitempty" yaml:"tab_stop,omitempty"`     // points from the left margin
	StructuralFallback *bool   `json:"structural_fallback,omitempty" yaml:"structural_fallback,omitempty"`
}

// 🖥️ HostArgs controls the live document host
type HostArgs struct {
	CallTimeout   string `json:"call_timeout,omitempty" yaml:"call_timeout,omitempty"`
	TerminateWait string `json:"terminate_wait,omitempty" yaml:"terminate_wait,omitempty"`
	Converter     string `json:"converter,omitempty" yaml:"converter,omitempty"`
	OfficeBinary  string `json:"office_binary,omitempty" yaml:"office_binary,omitempty"`

	callTimeout   time.Duration
	terminateWait time.Duration
}

// 📚 Config represents the complete configuration
type Config struct {
	Strategy   string         `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Selection  SelectionArgs  `json:"selection,omitempty" yaml:"selection,omitempty"`
	Pagination PaginationArgs `json:"pagination,omitempty" yaml:"pagination,omitempty"`
	TOC        TOCArgs        `json:"toc,omitempty" yaml:"toc,omitempty"`
	Host       HostArgs       `json:"host,omitempty" yaml:"host,omitempty"`

	location string
}

// 🏭 Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	if err := Validate(context.Background(), cfg); err != nil {
		// defaults are always valid
		panic(err)
	}
	return cfg
}

// 🔍 Validate fills defaults and checks field values
func Validate(ctx context.Context, cfg *Config) error {
	zerolog.Ctx(ctx).Debug().Str("location", cfg.location).Msg("validating configuration")

	cfg.Strategy = strings.TrimSpace(cfg.Strategy)
	if cfg.Strategy == "" {
		cfg.Strategy = DefaultStrategy
	}

	if len(cfg.Selection.Extensions) == 0 {
		cfg.Selection.Extensions = append([]string(nil), DefaultExtensions...)
	}
	for i, ext := range cfg.Selection.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" || ext == "." {
			return errors.Errorf("selection.extensions[%d] is empty", i)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Selection.Extensions[i] = ext
	}
	if cfg.Selection.LockPrefix == "" {
		cfg.Selection.LockPrefix = DefaultLockPrefix
	}

	if cfg.Pagination.CharsPerPage < 0 {
		return errors.Errorf("pagination.chars_per_page must not be negative")
	}
	if cfg.Pagination.CharsPerPage == 0 {
		cfg.Pagination.CharsPerPage = DefaultCharsPerPage
	}

	if err := validateTOC(&cfg.TOC); err != nil {
		return err
	}
	if err := validateHost(&cfg.Host); err != nil {
		return err
	}

	return nil
}

func validateTOC(toc *TOCArgs) error {
	if toc.Title == "" {
		toc.Title = DefaultTOCTitle
	}
	if toc.Font == "" {
		toc.Font = DefaultTOCFont
	}
	for name, v := range map[string]*float64{
		"toc.title_size": &toc.TitleSize,
		"toc.entry_size": &toc.EntrySize,
		"toc.tab_stop":   &toc.TabStop,
	} {
		if *v < 0 {
			return errors.Errorf("%s must not be negative", name)
		}
	}
	if toc.TitleSize == 0 {
		toc.TitleSize = DefaultTOCSize
	}
	if toc.EntrySize == 0 {
		toc.EntrySize = DefaultTOCSize
	}
	if toc.TabStop == 0 {
		toc.TabStop = DefaultTOCTabStop
	}
	if toc.StructuralFallback == nil {
		enabled := true
		toc.StructuralFallback = &enabled
	}
	return nil
}

func validateHost(host *HostArgs) error {
	var err error
	host.callTimeout, err = parseDuration("host.call_timeout", host.CallTimeout, DefaultCallTimeout)
	if err != nil {
		return err
	}
	host.terminateWait, err = parseDuration("host.terminate_wait", host.TerminateWait, DefaultTerminateWait)
	if err != nil {
		return err
	}

	host.Converter = strings.ToLower(strings.TrimSpace(host.Converter))
	switch host.Converter {
	case "":
		host.Converter = ConverterAuto
	case ConverterAuto, ConverterHost, ConverterOffice, ConverterNone:
	default:
		return errors.Errorf("host.converter %q is not one of auto, host, office, none", host.Converter)
	}

	if host.OfficeBinary == "" {
		host.OfficeBinary = DefaultOfficeBinary
	}
	return nil
}

func parseDuration(field, raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Errorf("parsing %s: %w", field, err)
	}
	if d < 0 {
		return 0, errors.Errorf("%s must not be negative", field)
	}
	return d, nil
}

// ⏱️ CallTimeoutDuration is the bounded wait applied to every host call
func (h HostArgs) CallTimeoutDuration() time.Duration {
	if h.callTimeout == 0 && h.CallTimeout == "" {
		return DefaultCallTimeout
	}
	return h.callTimeout
}

// ⏱️ TerminateWaitDuration is how long to wait after killing stale hosts
func (h HostArgs) TerminateWaitDuration() time.Duration {
	if h.terminateWait == 0 && h.TerminateWait == "" {
		return DefaultTerminateWait
	}
	return h.terminateWait
}

// StructuralTOC reports whether the structural editor may stand in for the host.
func (t TOCArgs) StructuralTOC() bool {
	return t.StructuralFallback == nil || *t.StructuralFallback
}

// 📍 Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("strategy=%s extensions=%s chars_per_page=%d converter=%s",
		cfg.Strategy,
		strings.Join(cfg.Selection.Extensions, ","),
		cfg.Pagination.CharsPerPage,
		cfg.Host.Converter)
}
