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

// Package selector picks the documents of a directory that take part in a merge.
package selector

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/text"
)

var (
	ErrDirectory   = errors.Base("input directory is missing or not a directory")
	ErrNoDocuments = errors.Base("no mergeable documents found")
)

// 📄 SourceDocument is one input of a merge run
type SourceDocument struct {
	Path        string // cleaned absolute path
	DisplayName string // name shown in the table of contents
	Order       int    // 0-based merge position
}

// 🎛️ Options controls which entries are candidates
type Options struct {
	Extensions []string // dot prefixed, compared case-insensitively
	LockPrefix string   // names starting with this are editor lock files
	Ignore     []string // doublestar patterns matched on the base name
}

// OptionsFromConfig builds selector options from the selection config.
func OptionsFromConfig(args config.SelectionArgs) Options {
	return Options{
		Extensions: args.Extensions,
		LockPrefix: args.LockPrefix,
		Ignore:     args.Ignore,
	}
}

func (o Options) withDefaults() Options {
	if len(o.Extensions) == 0 {
		o.Extensions = config.DefaultExtensions
	}
	if o.LockPrefix == "" {
		o.LockPrefix = config.DefaultLockPrefix
	}
	return o
}

// 🔍 Select lists the mergeable documents directly inside dir, sorted by path.
// Subdirectories are never descended into.
func Select(ctx context.Context, dir string, opts Options) ([]SourceDocument, error) {
	logger := zerolog.Ctx(ctx)
	opts = opts.withDefaults()

	abs, err := ValidateDirectory(dir)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var paths []string

	err = doublestar.GlobWalk(os.DirFS(abs), "*", func(name string, d fs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if !opts.accepts(name) {
			return nil
		}
		if opts.ignored(ctx, name) {
			logger.Debug().Str("file", name).Msg("file ignored by pattern")
			return nil
		}
		full := filepath.Clean(filepath.Join(abs, name))
		if _, dup := seen[full]; dup {
			return nil
		}
		seen[full] = struct{}{}
		paths = append(paths, full)
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", abs, err)
	}

	if len(paths) == 0 {
		return nil, errors.Errorf("%s: %w", abs, ErrNoDocuments)
	}

	sort.Strings(paths)

	docs := make([]SourceDocument, len(paths))
	for i, p := range paths {
		docs[i] = SourceDocument{
			Path:        p,
			DisplayName: text.DisplayName(p),
			Order:       i,
		}
	}

	logger.Debug().Str("directory", abs).Int("documents", len(docs)).Msg("selected documents")
	return docs, nil
}

// ValidateDirectory returns the cleaned absolute form of dir, or ErrDirectory.
func ValidateDirectory(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.Errorf("empty path: %w", ErrDirectory)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Errorf("resolving %s: %w", dir, ErrDirectory)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Errorf("%s: %v: %w", abs, err, ErrDirectory)
	}
	if !info.IsDir() {
		return "", errors.Errorf("%s is a file: %w", abs, ErrDirectory)
	}
	return filepath.Clean(abs), nil
}

func (o Options) accepts(name string) bool {
	if strings.HasPrefix(name, o.LockPrefix) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range o.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

func (o Options) ignored(ctx context.Context, name string) bool {
	for _, pattern := range o.Ignore {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("file", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// IsLegacy reports whether path is in the pre-OOXML binary format.
func IsLegacy(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".doc")
}
