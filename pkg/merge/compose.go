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

package merge

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/selector"
)

const defaultValidators = 4

// compositionLibrary checks every source up front, in parallel, then splices
// the valid ones in order.
type compositionLibrary struct {
	skeleton
}

func (s *compositionLibrary) Merge(ctx context.Context, sources []selector.SourceDocument, outputPath string) (*Result, error) {
	rejected, err := s.validate(ctx, sources)
	if err != nil {
		return nil, err
	}
	return s.run(ctx, s, sources, outputPath, rejected)
}

func (s *compositionLibrary) prepare(ctx context.Context, src backend.Handle) error {
	return nil
}

func (s *compositionLibrary) appendTo(ctx context.Context, target, src backend.Handle) error {
	return copyPaste(ctx, s.opts.Backend, target, src)
}

// validate opens every directly readable source once. Sources that need
// conversion are checked when they are converted.
func (s *compositionLibrary) validate(ctx context.Context, sources []selector.SourceDocument) (map[int]error, error) {
	be := s.opts.Backend

	var (
		mu       sync.Mutex
		rejected = map[int]error{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Validators)
	for _, src := range sources {
		src := src
		if !be.CanOpen(src.Path) {
			continue
		}
		g.Go(func() error {
			if err := s.check(gctx, src); err != nil {
				zerolog.Ctx(ctx).Debug().Err(err).Str("source", src.Path).Msg("source rejected")
				mu.Lock()
				rejected[src.Order] = err
				mu.Unlock()
			}
			// a bad source never stops the others
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("validating sources: %w", err)
	}
	return rejected, nil
}

func (s *compositionLibrary) check(ctx context.Context, src selector.SourceDocument) error {
	be := s.opts.Backend
	h, err := be.OpenDocument(ctx, src.Path)
	if err != nil {
		return errors.Errorf("opening %s: %w", filepath.Base(src.Path), err)
	}
	defer be.Close(ctx, h, true)

	if _, err := be.TextLength(ctx, h); err != nil {
		return errors.Errorf("reading %s: %w", filepath.Base(src.Path), err)
	}
	return nil
}
