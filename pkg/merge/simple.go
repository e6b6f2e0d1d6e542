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

// simpleAppend copies plain paragraphs on the structural tier.
type simpleAppend struct {
	skeleton
}

func (s *simpleAppend) Merge(ctx context.Context, sources []selector.SourceDocument, outputPath string) (*Result, error) {
	return s.run(ctx, s, sources, outputPath, nil)
}

func (s *simpleAppend) prepare(ctx context.Context, src backend.Handle) error {
	return nil
}

func (s *simpleAppend) appendTo(ctx context.Context, target, src backend.Handle) error {
	return s.opts.Backend.AppendParagraphs(ctx, target, src)
}
