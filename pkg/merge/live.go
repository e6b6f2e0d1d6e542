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

// liveHost copies through a live host session. Page numbers come from the
// host layout.
type liveHost struct {
	skeleton
}

func (s *liveHost) Merge(ctx context.Context, sources []selector.SourceDocument, outputPath string) (*Result, error) {
	return s.run(ctx, s, sources, outputPath, nil)
}

func (s *liveHost) prepare(ctx context.Context, src backend.Handle) error {
	return acceptRevisions(ctx, s.opts.Backend, src)
}

func (s *liveHost) appendTo(ctx context.Context, target, src backend.Handle) error {
	return copyPaste(ctx, s.opts.Backend, target, src)
}
