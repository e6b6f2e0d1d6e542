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

package operation

import (
	"context"

	"github.com/walteh/docmerge/pkg/selector"
)

// 📋 ListOperation reports what a merge of a directory would pick up. It is
// local and read-only.
type ListOperation struct {
	BaseOperation
	dir       string
	documents []selector.SourceDocument
}

// 📋 NewListOperation creates a listing of dir
func NewListOperation(dir string, opts Options) *ListOperation {
	return &ListOperation{
		BaseOperation: NewBaseOperation(opts),
		dir:           dir,
	}
}

// Documents returns the selection of the last Execute, in merge order.
func (op *ListOperation) Documents() []selector.SourceDocument {
	return op.documents
}

// 🏃 Execute selects the documents without touching them
func (op *ListOperation) Execute(ctx context.Context) error {
	docs, err := selector.Select(ctx, op.dir, selector.OptionsFromConfig(op.Config.Selection))
	if err != nil {
		return err
	}
	op.documents = docs
	return nil
}

// NeedsConversion reports whether doc must be converted before it can be merged.
func NeedsConversion(doc selector.SourceDocument) bool {
	return selector.IsLegacy(doc.Path)
}
