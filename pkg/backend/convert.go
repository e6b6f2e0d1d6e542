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

package backend

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/config"
)

// 🔄 Converter turns a legacy .doc file into a .docx file at dst
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// Chain tries each converter in order until one succeeds.
type Chain []Converter

func (c Chain) Convert(ctx context.Context, src, dst string) error {
	if len(c) == 0 {
		return errors.Errorf("%s: no converter configured: %w", filepath.Base(src), ErrFormatConversion)
	}
	var errs []string
	for _, conv := range c {
		err := conv.Convert(ctx, src, dst)
		if err == nil {
			return nil
		}
		zerolog.Ctx(ctx).Debug().Err(err).Str("source", src).Msg("converter failed, trying next")
		errs = append(errs, err.Error())
		_ = os.Remove(dst)
	}
	return errors.Errorf("%s: %s: %w", filepath.Base(src), strings.Join(errs, "; "), ErrFormatConversion)
}

// HostConverter converts through a live host session opened for the
// conversion only.
type HostConverter struct {
	Host Host
}

func (c HostConverter) Convert(ctx context.Context, src, dst string) error {
	if c.Host == nil || !c.Host.Available(ctx) {
		return errors.Errorf("host conversion: %w", ErrHostUnavailable)
	}
	return WithSession(ctx, c.Host, func(s Session) error {
		return s.Convert(ctx, src, dst)
	})
}

// OfficeConverter converts with a headless office suite:
// soffice --headless --convert-to docx --outdir <dir> <src>
type OfficeConverter struct {
	Binary string

	// run executes the binary, swapped in tests
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewOfficeConverter(binary string) *OfficeConverter {
	return &OfficeConverter{Binary: binary}
}

func (c *OfficeConverter) Convert(ctx context.Context, src, dst string) error {
	run := c.run
	if run == nil {
		bin, err := exec.LookPath(c.Binary)
		if err != nil {
			return errors.Errorf("office binary %q: %w", c.Binary, err)
		}
		run = func(ctx context.Context, _ string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, bin, args...).CombinedOutput()
		}
	}

	outDir, err := os.MkdirTemp(filepath.Dir(dst), ".convert-*")
	if err != nil {
		return errors.Errorf("creating conversion dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	out, err := run(ctx, c.Binary, "--headless", "--convert-to", "docx", "--outdir", outDir, src)
	if err != nil {
		return errors.Errorf("running %s: %v: %s", c.Binary, err, strings.TrimSpace(string(out)))
	}

	produced := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".docx")
	if _, err := os.Stat(produced); err != nil {
		return errors.Errorf("%s produced no output: %s", c.Binary, strings.TrimSpace(string(out)))
	}
	if err := os.Rename(produced, dst); err != nil {
		return errors.Errorf("moving converted file: %w", err)
	}
	return nil
}

// NewConverter builds the converter chain for a host.converter mode.
func NewConverter(mode string, host Host, officeBinary string) Converter {
	switch mode {
	case config.ConverterHost:
		return Chain{HostConverter{Host: host}}
	case config.ConverterOffice:
		return Chain{NewOfficeConverter(officeBinary)}
	case config.ConverterNone:
		return Chain{}
	default:
		return Chain{HostConverter{Host: host}, NewOfficeConverter(officeBinary)}
	}
}
