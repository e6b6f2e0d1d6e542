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

package docx

import (
	"encoding/xml"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

// Elements returns the body children in order, without the final section
// properties.
func (d *Document) Elements() []Element {
	return append([]Element(nil), d.doc.children...)
}

// Append adds elements at the end of the body.
func (d *Document) Append(els ...Element) {
	d.doc.children = append(d.doc.children, els...)
}

// Prepend adds elements at the start of the body, keeping their order.
func (d *Document) Prepend(els ...Element) {
	d.doc.children = append(append([]Element(nil), els...), d.doc.children...)
}

// AddParagraph appends a plain paragraph. Tabs and newlines become w:tab and
// w:br.
func (d *Document) AddParagraph(text string) {
	d.Append(Paragraph(text))
}

// AddPageBreak appends a paragraph holding a single page break.
func (d *Document) AddPageBreak() {
	d.Append(PageBreak())
}

// AddBookmark places an empty body-level bookmark at the current end of the
// body.
func (d *Document) AddBookmark(name string) error {
	start, end, err := d.newBookmark(name)
	if err != nil {
		return err
	}
	d.Append(start, end)
	return nil
}

// PrependBookmark places an empty body-level bookmark before all content.
func (d *Document) PrependBookmark(name string) error {
	start, end, err := d.newBookmark(name)
	if err != nil {
		return err
	}
	d.Prepend(start, end)
	return nil
}

func (d *Document) newBookmark(name string) (Element, Element, error) {
	if name == "" {
		return nil, nil, errors.New("bookmark name is empty")
	}
	if d.HasBookmark(name) {
		return nil, nil, errors.Errorf("bookmark %q already exists", name)
	}
	start, end := bookmarkPair(d.nextBookmarkID, name)
	d.nextBookmarkID++
	d.bookmarks[name] = struct{}{}
	return start, end, nil
}

// Paragraphs returns the text of every top-level paragraph.
func (d *Document) Paragraphs() ([]string, error) {
	var out []string
	for _, el := range d.doc.children {
		if el.Name() != "p" {
			continue
		}
		text, err := paragraphText(el)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

// TextLength is the number of characters across all top-level paragraphs.
func (d *Document) TextLength() (int, error) {
	paras, err := d.Paragraphs()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range paras {
		n += utf8.RuneCountInString(p)
	}
	return n, nil
}

// paragraphText flattens a w:p the way a reader sees it: w:t text, w:tab as a
// tab and line breaks as a newline. Page and column breaks carry no text. Text boxes are not part of the paragraph.
func paragraphText(el Element) (string, error) {
	var sb strings.Builder
	err := walk(el, func(tok xml.Token, stack []string) {
		for _, name := range stack {
			if name == "txbxContent" {
				return
			}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if parent(stack) != "r" {
				return
			}
			switch t.Name.Local {
			case "tab":
				sb.WriteByte('\t')
			case "br":
				if typ, ok := attr(t, "type"); ok && typ != "textWrapping" {
					return
				}
				sb.WriteByte('\n')
			case "cr":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if len(stack) >= 2 && stack[len(stack)-1] == "t" && stack[len(stack)-2] == "r" {
				sb.Write(t)
			}
		}
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// parent is the local name enclosing the innermost element of stack.
func parent(stack []string) string {
	if len(stack) < 2 {
		return ""
	}
	return stack[len(stack)-2]
}
