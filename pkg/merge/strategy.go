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

// Package merge implements the merge strategies. Every strategy walks the
// ordered sources once, appends each one to a new document and records where
// it starts.
package merge

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/selector"
	"github.com/walteh/docmerge/pkg/status"
)

var (
	ErrNothingMerged   = errors.Base("no source document could be merged")
	ErrUnknownStrategy = errors.Base("unknown merge strategy")
	ErrRollback        = errors.Base("merged document could not be restored")
)

// ID names a strategy.
type ID string

const (
	SimpleAppend       ID = "simple-append"
	FormatPreserving   ID = "format-preserving"
	LiveHost           ID = "live-host"
	CompositionLibrary ID = "composition-library"
)

var aliases = map[string]ID{
	"simple":      SimpleAppend,
	"format":      FormatPreserving,
	"word_api":    LiveHost,
	"docxcompose": CompositionLibrary,
}

// IDs lists every strategy in display order.
func IDs() []ID {
	return []ID{SimpleAppend, FormatPreserving, LiveHost, CompositionLibrary}
}

// ParseID resolves a strategy name or one of its legacy aliases.
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, id := range IDs() {
		if string(id) == s {
			return id, nil
		}
	}
	if id, ok := aliases[s]; ok {
		return id, nil
	}
	return "", errors.Errorf("%q: %w", s, ErrUnknownStrategy)
}

// Tier returns the backend tier the strategy needs.
func (id ID) Tier() backend.Tier {
	if id == LiveHost {
		return backend.TierLive
	}
	return backend.TierStructural
}

// Description is a one line summary of the strategy.
func (id ID) Description() string {
	switch id {
	case SimpleAppend:
		return "copies plain paragraphs, fastest, drops formatting"
	case FormatPreserving:
		return "splices whole documents with styles and numbering"
	case LiveHost:
		return "copies through the live document host with exact page numbers"
	case CompositionLibrary:
		return "validates sources in parallel, then splices them in order"
	default:
		return ""
	}
}

// 🧩 Strategy merges an ordered list of sources into one document
type Strategy interface {
	ID() ID
	// Merge writes the merged document to outputPath. It fails with
	// ErrNothingMerged, and writes nothing, when every source was skipped.
	Merge(ctx context.Context, sources []selector.SourceDocument, outputPath string) (*Result, error)
}

// Skip records a source left out of the output.
type Skip struct {
	Source selector.SourceDocument
	Err    error
}

// 📦 Result is the outcome of one merge
type Result struct {
	Strategy   ID
	OutputPath string
	PageMap    PageMap
	Merged     []selector.SourceDocument
	Skipped    []Skip
	Pages      int // last known page count, estimated on the structural tier
}

// ⚙️ Options are the collaborators of a strategy
type Options struct {
	// Backend must match the strategy tier.
	Backend backend.Backend
	// Converter normalizes sources the backend cannot open.
	Converter backend.Converter
	// Workspace tracks temporary artifacts. A private one is used when nil.
	Workspace *status.Manager
	// CharsPerPage drives the structural page estimate.
	CharsPerPage int
	// Validators bounds the parallel validation of composition-library.
	Validators int
}

// OptionsFromConfig fills the tunables from a configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CharsPerPage: cfg.Pagination.CharsPerPage,
	}
}

// New returns the strategy named id.
func New(id ID, opts Options) (Strategy, error) {
	if opts.Backend == nil {
		return nil, errors.Errorf("strategy %s: no backend", id)
	}
	if opts.Backend.Tier() != id.Tier() {
		return nil, errors.Errorf("strategy %s needs the %s tier, got %s", id, id.Tier(), opts.Backend.Tier())
	}
	if opts.Converter == nil {
		opts.Converter = backend.Chain{}
	}
	if opts.CharsPerPage <= 0 {
		opts.CharsPerPage = config.DefaultCharsPerPage
	}
	if opts.Validators <= 0 {
		opts.Validators = defaultValidators
	}

	sk := skeleton{id: id, opts: opts}
	switch id {
	case SimpleAppend:
		return &simpleAppend{sk}, nil
	case FormatPreserving:
		return &formatPreserving{sk}, nil
	case LiveHost:
		return &liveHost{sk}, nil
	case CompositionLibrary:
		return &compositionLibrary{sk}, nil
	default:
		return nil, errors.Errorf("%q: %w", id, ErrUnknownStrategy)
	}
}
