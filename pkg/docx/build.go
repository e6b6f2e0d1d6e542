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
	"bytes"
	"strconv"
	"strings"
)

// Paragraph alignments
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// 📏 TabStop is a custom tab stop, positions in points from the left margin
type TabStop struct {
	Pos    float64
	Align  string // left, center, right
	Leader string // none, dot, hyphen, underscore
}

// 🖋️ Format is the paragraph and run formatting a builder applies
type Format struct {
	Align         string
	Bold          bool
	Font          string
	SizePt        float64
	SingleSpacing bool
	TabStops      []TabStop
	CharStyle     string // run style id, for example Hyperlink
}

// Paragraph builds an unformatted paragraph.
func Paragraph(text string) Element {
	return FormattedParagraph(Format{}, text)
}

// FormattedParagraph builds a paragraph with one run holding text.
func FormattedParagraph(f Format, text string) Element {
	var buf bytes.Buffer
	buf.WriteString("<w:p>")
	writeParagraphProperties(&buf, f)
	writeRun(&buf, f, text)
	buf.WriteString("</w:p>")
	return Element(buf.Bytes())
}

// LinkedParagraph builds a paragraph whose whole text is a hyperlink to the
// bookmark anchor.
func LinkedParagraph(f Format, text, anchor string) Element {
	var buf bytes.Buffer
	buf.WriteString("<w:p>")
	writeParagraphProperties(&buf, f)
	buf.WriteString(`<w:hyperlink w:anchor="`)
	buf.WriteString(attrEscaper.Replace(anchor))
	buf.WriteString(`" w:history="1">`)
	if f.CharStyle == "" {
		f.CharStyle = "Hyperlink"
	}
	writeRun(&buf, f, text)
	buf.WriteString("</w:hyperlink></w:p>")
	return Element(buf.Bytes())
}

// PageBreak builds a paragraph holding a single page break.
func PageBreak() Element {
	return Element(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)
}

func bookmarkPair(id int, name string) (Element, Element) {
	sid := strconv.Itoa(id)
	start := `<w:bookmarkStart w:id="` + sid + `" w:name="` + attrEscaper.Replace(name) + `"/>`
	end := `<w:bookmarkEnd w:id="` + sid + `"/>`
	return Element(start), Element(end)
}

func writeParagraphProperties(buf *bytes.Buffer, f Format) {
	var ppr bytes.Buffer
	if len(f.TabStops) > 0 {
		ppr.WriteString("<w:tabs>")
		for _, ts := range f.TabStops {
			align := ts.Align
			if align == "" {
				align = AlignLeft
			}
			ppr.WriteString(`<w:tab w:val="` + align + `"`)
			if ts.Leader != "" {
				ppr.WriteString(` w:leader="` + ts.Leader + `"`)
			}
			ppr.WriteString(` w:pos="` + strconv.Itoa(twips(ts.Pos)) + `"/>`)
		}
		ppr.WriteString("</w:tabs>")
	}
	if f.SingleSpacing {
		ppr.WriteString(`<w:spacing w:before="0" w:after="0" w:line="240" w:lineRule="auto"/>`)
	}
	if f.Align != "" {
		ppr.WriteString(`<w:jc w:val="` + f.Align + `"/>`)
	}
	if ppr.Len() == 0 {
		return
	}
	buf.WriteString("<w:pPr>")
	buf.Write(ppr.Bytes())
	buf.WriteString("</w:pPr>")
}

func writeRunProperties(buf *bytes.Buffer, f Format) {
	var rpr bytes.Buffer
	if f.CharStyle != "" {
		rpr.WriteString(`<w:rStyle w:val="` + attrEscaper.Replace(f.CharStyle) + `"/>`)
	}
	if f.Font != "" {
		font := attrEscaper.Replace(f.Font)
		rpr.WriteString(`<w:rFonts w:ascii="` + font + `" w:hAnsi="` + font + `" w:eastAsia="` + font + `" w:cs="` + font + `"/>`)
	}
	if f.Bold {
		rpr.WriteString("<w:b/><w:bCs/>")
	}
	if f.SizePt > 0 {
		half := strconv.Itoa(int(f.SizePt*2 + 0.5))
		rpr.WriteString(`<w:sz w:val="` + half + `"/><w:szCs w:val="` + half + `"/>`)
	}
	if rpr.Len() == 0 {
		return
	}
	buf.WriteString("<w:rPr>")
	buf.Write(rpr.Bytes())
	buf.WriteString("</w:rPr>")
}

// writeRun writes text as one run; tabs and newlines become w:tab and w:br.
func writeRun(buf *bytes.Buffer, f Format, text string) {
	if text == "" {
		return
	}
	buf.WriteString("<w:r>")
	writeRunProperties(buf, f)
	var seg strings.Builder
	flush := func() {
		if seg.Len() == 0 {
			return
		}
		buf.WriteString(`<w:t xml:space="preserve">`)
		buf.WriteString(textEscaper.Replace(seg.String()))
		buf.WriteString("</w:t>")
		seg.Reset()
	}
	for _, r := range text {
		switch {
		case r == '\t':
			flush()
			buf.WriteString("<w:tab/>")
		case r == '\n':
			flush()
			buf.WriteString("<w:br/>")
		case r == '\r':
		case isXMLInvalid(r):
		default:
			seg.WriteRune(r)
		}
	}
	flush()
	buf.WriteString("</w:r>")
}

// isXMLInvalid reports characters XML 1.0 cannot carry.
func isXMLInvalid(r rune) bool {
	return (r < 0x20 && r != '\t' && r != '\n' && r != '\r') || r == 0xFFFE || r == 0xFFFF
}

func twips(pt float64) int {
	return int(pt*20 + 0.5)
}
