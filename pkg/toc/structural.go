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

package toc

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/docx"
)

// 🧱 StructuralEditor writes the table as package markup. It is the fallback
// when no live host can open the document.
type StructuralEditor struct{}

var _ Editor = StructuralEditor{}

func (StructuralEditor) Open(ctx context.Context, path string) (Session, error) {
	doc, err := docx.Open(path)
	if err != nil {
		return nil, err
	}
	return &structuralSession{path: path, doc: doc}, nil
}

type block struct {
	text   string
	format docx.Format
	anchor string
	brk    bool
}

// structuralSession collects the blocks and prepends them on Save.
type structuralSession struct {
	path   string
	doc    *docx.Document
	blocks []block
}

func (s *structuralSession) last() (*block, error) {
	if len(s.blocks) == 0 || s.blocks[len(s.blocks)-1].brk {
		return nil, errors.Errorf("no entry inserted")
	}
	return &s.blocks[len(s.blocks)-1], nil
}

func (s *structuralSession) InsertTitle(ctx context.Context, title string, style Style) error {
	s.blocks = append(s.blocks, block{
		text: title,
		format: docx.Format{
			Align:         docx.AlignCenter,
			Bold:          true,
			Font:          style.Font,
			SizePt:        style.TitleSizePt,
			SingleSpacing: true,
		},
	})
	return nil
}

func (s *structuralSession) InsertEntry(ctx context.Context, line Line) error {
	s.blocks = append(s.blocks, block{text: line.Text})
	return nil
}

func (s *structuralSession) FormatEntry(ctx context.Context, style Style) error {
	b, err := s.last()
	if err != nil {
		return err
	}
	b.format = docx.Format{
		Font:          style.Font,
		SizePt:        style.EntrySizePt,
		SingleSpacing: true,
		TabStops:      []docx.TabStop{{Pos: style.TabStopPt, Align: docx.AlignRight, Leader: "dot"}},
	}
	return nil
}

func (s *structuralSession) LinkEntry(ctx context.Context, anchor string) error {
	b, err := s.last()
	if err != nil {
		return err
	}
	if !s.doc.HasBookmark(anchor) {
		return errors.Errorf("bookmark %q not found: %w", anchor, ErrHyperlink)
	}
	b.anchor = anchor
	return nil
}

func (s *structuralSession) InsertPageBreak(ctx context.Context) error {
	s.blocks = append(s.blocks, block{brk: true})
	return nil
}

func (s *structuralSession) Save(ctx context.Context) error {
	if s.doc == nil {
		return errors.Errorf("session is closed")
	}
	els := make([]docx.Element, 0, len(s.blocks))
	for _, b := range s.blocks {
		switch {
		case b.brk:
			els = append(els, docx.PageBreak())
		case b.anchor != "":
			els = append(els, docx.LinkedParagraph(b.format, b.text, b.anchor))
		default:
			els = append(els, docx.FormattedParagraph(b.format, b.text))
		}
	}
	s.doc.Prepend(els...)
	s.blocks = nil
	return s.doc.Save(s.path)
}

func (s *structuralSession) Close(ctx context.Context) error {
	s.doc = nil
	s.blocks = nil
	return nil
}
