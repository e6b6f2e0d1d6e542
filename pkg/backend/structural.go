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
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/docx"
)

// 🧱 Structural edits .docx packages in memory
type Structural struct{}

var _ Backend = Structural{}

type structuralHandle struct {
	path string
	doc  *docx.Document
}

func (h *structuralHandle) Path() string { return h.path }

type structuralBuffer struct {
	source string
	doc    *docx.Document
}

func (b *structuralBuffer) Source() string { return b.source }

func structural(h Handle) (*structuralHandle, error) {
	sh, ok := h.(*structuralHandle)
	if !ok || sh == nil || sh.doc == nil {
		return nil, errors.Errorf("handle %T is not a structural document", h)
	}
	return sh, nil
}

func (Structural) Tier() Tier { return TierStructural }

func (Structural) CanOpen(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".docx")
}

func (Structural) NewDocument(ctx context.Context) (Handle, error) {
	return &structuralHandle{doc: docx.New()}, nil
}

func (Structural) OpenDocument(ctx context.Context, path string) (Handle, error) {
	doc, err := docx.Open(path)
	if err != nil {
		return nil, errors.Errorf("%v: %w", err, ErrDocumentOpen)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Int("parts", len(doc.Parts())).Msg("opened document")
	return &structuralHandle{path: path, doc: doc}, nil
}

func (Structural) TextLength(ctx context.Context, h Handle) (int, error) {
	sh, err := structural(h)
	if err != nil {
		return 0, err
	}
	n, err := sh.doc.TextLength()
	if err != nil {
		return 0, errors.Errorf("measuring %s: %w", filepath.Base(sh.path), err)
	}
	return n, nil
}

// AppendParagraphs copies the plain text of every paragraph of src.
func (Structural) AppendParagraphs(ctx context.Context, target, src Handle) error {
	dst, err := structural(target)
	if err != nil {
		return err
	}
	from, err := structural(src)
	if err != nil {
		return err
	}
	paras, err := from.doc.Paragraphs()
	if err != nil {
		return errors.Errorf("reading %s: %w", filepath.Base(from.path), err)
	}
	for _, p := range paras {
		dst.doc.AddParagraph(p)
	}
	return nil
}

// CopyContentRange snapshots the whole document for a later composing paste.
func (Structural) CopyContentRange(ctx context.Context, h Handle) (Buffer, error) {
	sh, err := structural(h)
	if err != nil {
		return nil, err
	}
	return &structuralBuffer{source: sh.path, doc: sh.doc}, nil
}

// PasteAtEnd composes the copied document onto the target, keeping styles,
// numbering and images.
func (Structural) PasteAtEnd(ctx context.Context, target Handle, buf Buffer) error {
	dst, err := structural(target)
	if err != nil {
		return err
	}
	sb, ok := buf.(*structuralBuffer)
	if !ok || sb == nil {
		return errors.Errorf("buffer %T is not a structural buffer", buf)
	}
	if err := dst.doc.Compose(sb.doc); err != nil {
		return errors.Errorf("composing %s: %w", filepath.Base(sb.source), err)
	}
	return nil
}

func (Structural) InsertPageBreak(ctx context.Context, target Handle) error {
	sh, err := structural(target)
	if err != nil {
		return err
	}
	sh.doc.AddPageBreak()
	return nil
}

func (Structural) AddBookmark(ctx context.Context, target Handle, anchor string, pos Position) error {
	sh, err := structural(target)
	if err != nil {
		return err
	}
	if pos == PositionStart {
		return sh.doc.PrependBookmark(anchor)
	}
	return sh.doc.AddBookmark(anchor)
}

func (Structural) ReserveAnchors(ctx context.Context, target Handle, anchors []string) error {
	sh, err := structural(target)
	if err != nil {
		return err
	}
	sh.doc.ReserveBookmarks(anchors...)
	return nil
}

func (Structural) Checkpoint(ctx context.Context, target Handle) (Checkpoint, error) {
	sh, err := structural(target)
	if err != nil {
		return nil, err
	}
	return sh.doc.Mark(), nil
}

func (Structural) Rollback(ctx context.Context, target Handle, cp Checkpoint) error {
	sh, err := structural(target)
	if err != nil {
		return err
	}
	m, ok := cp.(docx.Mark)
	if !ok {
		return errors.Errorf("checkpoint %T is not a structural mark", cp)
	}
	sh.doc.Restore(m)
	return nil
}

func (Structural) CurrentPageCount(ctx context.Context, target Handle) (int, error) {
	return 0, errors.Errorf("structural page count: %w", ErrUnsupported)
}

func (Structural) AcceptAllRevisions(ctx context.Context, h Handle) error {
	sh, err := structural(h)
	if err != nil {
		return err
	}
	return sh.doc.AcceptRevisions()
}

func (Structural) DisableChangeTracking(ctx context.Context, h Handle) error {
	sh, err := structural(h)
	if err != nil {
		return err
	}
	return sh.doc.DisableTracking()
}

func (Structural) Save(ctx context.Context, target Handle, path string) error {
	sh, err := structural(target)
	if err != nil {
		return err
	}
	if err := sh.doc.Save(path); err != nil {
		return err
	}
	sh.path = path
	return nil
}

// Close drops the in-memory package; there is nothing to flush.
func (Structural) Close(ctx context.Context, h Handle, discardChanges bool) error {
	sh, err := structural(h)
	if err != nil {
		return err
	}
	sh.doc = nil
	return nil
}
