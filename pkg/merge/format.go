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

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/selector"
)

// formatPreserving splices whole documents on the structural tier, with
// their revisions accepted first.
type formatPreserving struct {
	skeleton
}

func (s *formatPreserving) Merge(ctx context.Context, sources []selector.SourceDocument, outputPath string) (*Result, error) {
	return s.run(ctx, s, sources, outputPath, nil)
}

func (s *formatPreserving) prepare(ctx context.Context, src backend.Handle) error {
	return acceptRevisions(ctx, s.opts.Backend, src)
}

func (s *formatPreserving) appendTo(ctx context.Context, target, src backend.Handle) error {
	return copyPaste(ctx, s.opts.Backend, target, src)
}

// acceptRevisions leaves the source without tracked changes so they are not
// carried into the merged document.
func acceptRevisions(ctx context.Context, be backend.Backend, h backend.Handle) error {
	if err := be.AcceptAllRevisions(ctx, h); err != nil {
		return err
	}
	return be.DisableChangeTracking(ctx, h)
}

func copyPaste(ctx context.Context, be backend.Backend, target, src backend.Handle) error {
	buf, err := be.CopyContentRange(ctx, src)
	if err != nil {
		return err
	}
	return be.PasteAtEnd(ctx, target, buf)
}
