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
	"encoding/xml"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Element is the raw XML of one child of a container element, for example a
// w:p or w:tbl inside w:body.
type Element []byte

// Name returns the local name of the element's root tag.
func (e Element) Name() string {
	d := xml.NewDecoder(bytes.NewReader(e))
	for {
		tok, err := d.RawToken()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local
		}
	}
}

// part is an XML part split around one container element. Children of the
// container are kept as raw bytes so content we never touch round-trips as is.
type part struct {
	prolog   []byte
	root     xml.StartElement
	between  []byte // after the root start tag, through the container start tag
	children []Element
	trailing Element // kept after the children, used for the body sectPr
	tail     []byte  // container end tag to end of data
}

// splitPart splits data around the element reached by following path from the
// root. path[0] names the root element.
func splitPart(data []byte, path ...string) (*part, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	p := &part{}

	depth, level := 0, 0
	var rootEnd int64
	childStart := int64(-1)

	for {
		start := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("parsing xml: %w", err)
		}
		end := d.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 1 {
				if t.Name.Local != path[0] {
					return nil, errors.Errorf("unexpected root element %q, want %q", t.Name.Local, path[0])
				}
				p.prolog = clone(data[:start])
				p.root = t.Copy()
				rootEnd = end
			}
			if level == depth-1 && level < len(path) && t.Name.Local == path[level] {
				level++
				if level == len(path) {
					selfClosing := bytes.HasSuffix(bytes.TrimSpace(data[start:end]), []byte("/>"))
					if depth > 1 {
						if selfClosing {
							var buf bytes.Buffer
							buf.Write(data[rootEnd:start])
							writeToken(&buf, t)
							p.between = buf.Bytes()
						} else {
							p.between = clone(data[rootEnd:end])
						}
					}
					if selfClosing {
						p.tail = append([]byte("</"+qname(t.Name)+">"), data[end:]...)
						if depth == 1 {
							// the self closed root has no separate end tag left in data
							p.tail = []byte("</" + qname(t.Name) + ">")
						}
						return p, nil
					}
				}
				continue
			}
			if level == len(path) && depth == level+1 {
				childStart = start
			}
		case xml.EndElement:
			if level == len(path) && depth == level+1 && childStart >= 0 {
				p.children = append(p.children, Element(clone(data[childStart:end])))
				childStart = -1
			}
			if level == len(path) && depth == level {
				p.tail = clone(data[start:])
				return p, nil
			}
			depth--
		}
	}

	return nil, errors.Errorf("element %s not found", strings.Join(path, "/"))
}

// bytes renders the part back to XML.
func (p *part) bytes() []byte {
	var buf bytes.Buffer
	buf.Write(p.prolog)
	writeToken(&buf, p.root)
	buf.Write(p.between)
	for _, c := range p.children {
		buf.Write(c)
	}
	buf.Write(p.trailing)
	buf.Write(p.tail)
	return buf.Bytes()
}

// declare copies the namespace declarations of src that p's root lacks and
// unions the mc:Ignorable prefixes.
func (p *part) declare(src xml.StartElement) {
	declared := map[string]bool{}
	for _, a := range p.root.Attr {
		if a.Name.Space == "xmlns" {
			declared[a.Name.Local] = true
		}
	}
	for _, a := range src.Attr {
		if a.Name.Space == "xmlns" && !declared[a.Name.Local] {
			p.root.Attr = append(p.root.Attr, a)
			declared[a.Name.Local] = true
		}
	}

	var ignorable []string
	seen := map[string]bool{}
	collect := func(attrs []xml.Attr) {
		for _, a := range attrs {
			if a.Name.Space == "mc" && a.Name.Local == "Ignorable" {
				for _, prefix := range strings.Fields(a.Value) {
					if declared[prefix] && !seen[prefix] {
						seen[prefix] = true
						ignorable = append(ignorable, prefix)
					}
				}
			}
		}
	}
	collect(p.root.Attr)
	collect(src.Attr)
	if len(ignorable) == 0 || !declared["mc"] {
		return
	}

	value := strings.Join(ignorable, " ")
	for i, a := range p.root.Attr {
		if a.Name.Space == "mc" && a.Name.Local == "Ignorable" {
			p.root.Attr[i].Value = value
			return
		}
	}
	p.root.Attr = append(p.root.Attr, xml.Attr{Name: xml.Name{Space: "mc", Local: "Ignorable"}, Value: value})
}

// prefixesFor returns the prefixes the root binds to namespace uri.
func (p *part) prefixesFor(uri string) map[string]bool {
	out := map[string]bool{}
	for _, a := range p.root.Attr {
		if a.Name.Space == "xmlns" && a.Value == uri {
			out[a.Name.Local] = true
		}
	}
	return out
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\t", "&#x9;", "\n", "&#xA;", "\r", "&#xD;")
)

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// writeToken writes a raw token keeping prefixes exactly as read.
func writeToken(buf *bytes.Buffer, tok xml.Token) {
	switch t := tok.(type) {
	case xml.StartElement:
		buf.WriteByte('<')
		buf.WriteString(qname(t.Name))
		for _, a := range t.Attr {
			buf.WriteByte(' ')
			buf.WriteString(qname(a.Name))
			buf.WriteString(`="`)
			buf.WriteString(attrEscaper.Replace(a.Value))
			buf.WriteByte('"')
		}
		buf.WriteByte('>')
	case xml.EndElement:
		buf.WriteString("</")
		buf.WriteString(qname(t.Name))
		buf.WriteByte('>')
	case xml.CharData:
		buf.WriteString(textEscaper.Replace(string(t)))
	case xml.Comment:
		buf.WriteString("<!--")
		buf.Write(t)
		buf.WriteString("-->")
	case xml.ProcInst:
		buf.WriteString("<?")
		buf.WriteString(t.Target)
		if len(t.Inst) > 0 {
			buf.WriteByte(' ')
			buf.Write(t.Inst)
		}
		buf.WriteString("?>")
	case xml.Directive:
		buf.WriteString("<!")
		buf.Write(t)
		buf.WriteByte('>')
	}
}

type action int

const (
	keep   action = iota
	drop          // the element and its subtree
	unwrap        // the tags only, children stay
)

// rewrite streams e through fn. fn may edit a start element in place and
// decides whether it is kept, dropped with its subtree or unwrapped.
func rewrite(e Element, fn func(se *xml.StartElement) action) (Element, error) {
	d := xml.NewDecoder(bytes.NewReader(e))
	var buf bytes.Buffer
	skip := 0
	var unwrapped []bool

	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("rewriting element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skip > 0 {
				skip++
				continue
			}
			t = t.Copy()
			switch fn(&t) {
			case drop:
				skip = 1
				continue
			case unwrap:
				unwrapped = append(unwrapped, true)
				continue
			}
			unwrapped = append(unwrapped, false)
			writeToken(&buf, t)
		case xml.EndElement:
			if skip > 0 {
				skip--
				continue
			}
			if n := len(unwrapped); n > 0 {
				u := unwrapped[n-1]
				unwrapped = unwrapped[:n-1]
				if u {
					continue
				}
			}
			writeToken(&buf, t)
		default:
			if skip > 0 {
				continue
			}
			writeToken(&buf, t)
		}
	}

	if len(bytes.TrimSpace(buf.Bytes())) == 0 {
		return nil, nil
	}
	return Element(buf.Bytes()), nil
}

// walk calls fn for every token of e with the stack of open local names,
// innermost last.
func walk(e Element, fn func(tok xml.Token, stack []string)) error {
	d := xml.NewDecoder(bytes.NewReader(e))
	var stack []string
	for {
		tok, err := d.RawToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Errorf("reading element: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
			fn(t, stack)
		case xml.EndElement:
			fn(t, stack)
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			fn(t, stack)
		}
	}
}

func attr(se xml.StartElement, local string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

func setAttr(se *xml.StartElement, local, value string) {
	for i, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			se.Attr[i].Value = value
			return
		}
	}
}

// rootAttr returns an attribute of the element's root tag.
func (e Element) rootAttr(local string) (string, bool) {
	d := xml.NewDecoder(bytes.NewReader(e))
	for {
		tok, err := d.RawToken()
		if err != nil {
			return "", false
		}
		if se, ok := tok.(xml.StartElement); ok {
			return attr(se, local)
		}
	}
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
