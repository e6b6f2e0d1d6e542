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

// Package backend defines the document capabilities a merge needs and the two
// tiers that provide them: structural package editing and a live host.
package backend

import (
	"context"
	"fmt"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrFormatConversion = errors.Base("legacy document conversion failed")
	ErrDocumentOpen     = errors.Base("document could not be opened")
	ErrHostUnavailable  = errors.Base("live document host is not available")
	ErrUnsupported      = errors.Base("operation not supported by this backend")
)

// 🏷️ Tier tells strategies what a backend can do
type Tier int

const (
	// TierStructural edits packages directly and cannot paginate.
	TierStructural Tier = iota
	// TierLive drives a running document host with authoritative layout.
	TierLive
)

func (t Tier) String() string {
	switch t {
	case TierStructural:
		return "structural"
	case TierLive:
		return "live"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Position is where a bookmark goes in the target.
type Position int

const (
	PositionEnd Position = iota
	PositionStart
)

// Handle is an open document owned by one backend.
type Handle interface {
	Path() string
}

// Buffer is copied content waiting to be pasted.
type Buffer interface {
	Source() string
}

// Checkpoint is an opaque mark of a target's end, taken by Checkpoint and
// consumed by Rollback.
type Checkpoint any

// 📚 Backend is the capability set strategies merge through
type Backend interface {
	Tier() Tier
	// CanOpen reports whether path can be opened without conversion.
	CanOpen(path string) bool

	NewDocument(ctx context.Context) (Handle, error)
	OpenDocument(ctx context.Context, path string) (Handle, error)
	TextLength(ctx context.Context, h Handle) (int, error)
	AppendParagraphs(ctx context.Context, target, src Handle) error
	CopyContentRange(ctx context.Context, h Handle) (Buffer, error)
	PasteAtEnd(ctx context.Context, target Handle, buf Buffer) error
	InsertPageBreak(ctx context.Context, target Handle) error
	AddBookmark(ctx context.Context, target Handle, anchor string, pos Position) error
	// ReserveAnchors keeps anchor names for AddBookmark; pasted content never
	// brings bookmarks with these names along.
	ReserveAnchors(ctx context.Context, target Handle, anchors []string) error
	// Checkpoint marks the current end of target. Rollback removes everything
	// added after the mark, bookmarks included.
	Checkpoint(ctx context.Context, target Handle) (Checkpoint, error)
	Rollback(ctx context.Context, target Handle, cp Checkpoint) error
	// CurrentPageCount is authoritative on the live tier and ErrUnsupported
	// on the structural one.
	CurrentPageCount(ctx context.Context, target Handle) (int, error)
	AcceptAllRevisions(ctx context.Context, h Handle) error
	DisableChangeTracking(ctx context.Context, h Handle) error
	Save(ctx context.Context, target Handle, path string) error
	Close(ctx context.Context, h Handle, discardChanges bool) error
}

// TempArtifactName is the name a converted legacy source gets beside the
// output: temp_<index>_<base>x, so a.doc becomes temp_0_a.docx.
func TempArtifactName(outputDir string, index int, source string) string {
	return filepath.Join(outputDir, fmt.Sprintf("temp_%d_%sx", index, filepath.Base(source)))
}
