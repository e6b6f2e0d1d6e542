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

// Package docx edits WordprocessingML packages at the XML level: reading
// paragraph text, appending generated content and splicing one document into
// another. It never computes layout.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var ErrNotDocument = errors.Base("not a word document package")

const (
	nsMain         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationship = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeBase           = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	relTypeOfficeDocument = relTypeBase + "officeDocument"
	relTypeStyles         = relTypeBase + "styles"
	relTypeNumbering      = relTypeBase + "numbering"

	ctMain      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"

	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"

	firstBookmarkID = 10000
)

// 📄 Document is an opened .docx package held in memory
type Document struct {
	names    []string // part names in package order
	parts    map[string][]byte
	mainPart string
	doc      *part

	bookmarks      map[string]struct{}
	reserved       map[string]struct{} // held for AddBookmark, never composed in
	nextBookmarkID int
	nextDocPrID    int
}

// Open reads the package at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Parse reads a package from memory.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Errorf("reading zip: %v: %w", err, ErrNotDocument)
	}

	d := &Document{parts: map[string][]byte{}}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Errorf("opening part %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Errorf("reading part %s: %w", f.Name, err)
		}
		name := strings.TrimPrefix(f.Name, "/")
		if _, dup := d.parts[name]; !dup {
			d.names = append(d.names, name)
		}
		d.parts[name] = b
	}

	if _, ok := d.parts[contentTypesPart]; !ok {
		return nil, errors.Errorf("missing %s: %w", contentTypesPart, ErrNotDocument)
	}

	d.mainPart = "word/document.xml"
	if rels, err := d.relationships(""); err == nil {
		for _, r := range rels.Rels {
			if r.Type == relTypeOfficeDocument {
				d.mainPart = resolveTarget("", r.Target)
				break
			}
		}
	}

	main, ok := d.parts[d.mainPart]
	if !ok {
		return nil, errors.Errorf("missing main part %s: %w", d.mainPart, ErrNotDocument)
	}
	d.doc, err = splitPart(main, "document", "body")
	if err != nil {
		return nil, errors.Errorf("parsing %s: %v: %w", d.mainPart, err, ErrNotDocument)
	}
	if n := len(d.doc.children); n > 0 && d.doc.children[n-1].Name() == "sectPr" {
		d.doc.trailing = d.doc.children[n-1]
		d.doc.children = d.doc.children[:n-1]
	}

	if err := d.scan(); err != nil {
		return nil, errors.Errorf("scanning body: %v: %w", err, ErrNotDocument)
	}
	return d, nil
}

// scan records existing bookmark names and the next free ids.
func (d *Document) scan() error {
	d.bookmarks = map[string]struct{}{}
	maxBookmark, maxDocPr := firstBookmarkID-1, 0
	for _, el := range d.doc.children {
		err := walk(el, func(tok xml.Token, _ []string) {
			se, ok := tok.(xml.StartElement)
			if !ok {
				return
			}
			switch se.Name.Local {
			case "bookmarkStart":
				if name, ok := attr(se, "name"); ok {
					d.bookmarks[name] = struct{}{}
				}
				if id, ok := intAttr(se, "id"); ok && id > maxBookmark {
					maxBookmark = id
				}
			case "docPr":
				if id, ok := intAttr(se, "id"); ok && id > maxDocPr {
					maxDocPr = id
				}
			}
		})
		if err != nil {
			return err
		}
	}
	d.nextBookmarkID = maxBookmark + 1
	d.nextDocPrID = maxDocPr + 1
	return nil
}

// 💾 Save writes the package to path atomically.
func (d *Document) Save(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := d.WriteTo(tmp); err != nil {
		tmp.Close()
		return errors.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// WriteTo writes the package as a zip archive.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.parts[d.mainPart] = d.doc.bytes()

	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, name := range d.names {
		f, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return cw.n, errors.Errorf("creating part %s: %w", name, err)
		}
		if _, err := f.Write(d.parts[name]); err != nil {
			return cw.n, errors.Errorf("writing part %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, errors.Errorf("closing zip: %w", err)
	}
	return cw.n, nil
}

// Bytes returns the serialized package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Parts lists the package part names in order.
func (d *Document) Parts() []string {
	return append([]string(nil), d.names...)
}

// Part returns the raw bytes of a part.
func (d *Document) Part(name string) ([]byte, bool) {
	if name == d.mainPart {
		return d.doc.bytes(), true
	}
	b, ok := d.parts[name]
	return b, ok
}

func (d *Document) setPart(name string, data []byte) {
	if _, ok := d.parts[name]; !ok {
		d.names = append(d.names, name)
	}
	d.parts[name] = data
}

// 🔗 relationships

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationships struct {
	XMLName xml.Name       `xml:"http://schemas.openxmlformats.org/package/2006/relationships Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

func (r *relationships) byID(id string) (relationship, bool) {
	for _, rel := range r.Rels {
		if rel.ID == id {
			return rel, true
		}
	}
	return relationship{}, false
}

func (r *relationships) byType(typ string) (relationship, bool) {
	for _, rel := range r.Rels {
		if rel.Type == typ {
			return rel, true
		}
	}
	return relationship{}, false
}

// add appends a relationship under a fresh id and returns the id.
func (r *relationships) add(typ, target, mode string) string {
	used := map[string]bool{}
	for _, rel := range r.Rels {
		used[rel.ID] = true
	}
	n := len(r.Rels) + 1
	for used["rId"+strconv.Itoa(n)] {
		n++
	}
	id := "rId" + strconv.Itoa(n)
	r.Rels = append(r.Rels, relationship{ID: id, Type: typ, Target: target, TargetMode: mode})
	return id
}

func relsPartFor(name string) string {
	if name == "" {
		return packageRelsPart
	}
	return path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
}

func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// relativeTarget expresses partName as a target seen from source.
func relativeTarget(source, partName string) string {
	dir := path.Dir(source)
	if dir == "." {
		return partName
	}
	if strings.HasPrefix(partName, dir+"/") {
		return strings.TrimPrefix(partName, dir+"/")
	}
	return "/" + partName
}

func readRelationships(parts map[string][]byte, name string) (*relationships, error) {
	data, ok := parts[relsPartFor(name)]
	if !ok {
		return &relationships{}, nil
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, errors.Errorf("parsing relationships of %q: %w", name, err)
	}
	return &rels, nil
}

func (d *Document) relationships(name string) (*relationships, error) {
	return readRelationships(d.parts, name)
}

func marshalXML(v any) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, errors.Errorf("marshaling xml: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// 🏷️ content types

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentTypes struct {
	XMLName   xml.Name     `xml:"http://schemas.openxmlformats.org/package/2006/content-types Types"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

func readContentTypes(parts map[string][]byte) (*contentTypes, error) {
	var ct contentTypes
	if err := xml.Unmarshal(parts[contentTypesPart], &ct); err != nil {
		return nil, errors.Errorf("parsing content types: %w", err)
	}
	return &ct, nil
}

func (ct *contentTypes) override(name string) (string, bool) {
	for _, o := range ct.Overrides {
		if strings.TrimPrefix(o.PartName, "/") == name {
			return o.ContentType, true
		}
	}
	return "", false
}

func (ct *contentTypes) byExtension(ext string) (string, bool) {
	for _, def := range ct.Defaults {
		if strings.EqualFold(def.Extension, ext) {
			return def.ContentType, true
		}
	}
	return "", false
}

// typeOf returns the content type of a part.
func (ct *contentTypes) typeOf(name string) string {
	if t, ok := ct.override(name); ok {
		return t
	}
	t, _ := ct.byExtension(strings.TrimPrefix(path.Ext(name), "."))
	return t
}

// register makes sure name resolves to typ.
func (ct *contentTypes) register(name, typ string) {
	if typ == "" || ct.typeOf(name) == typ {
		return
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if _, ok := ct.byExtension(ext); !ok && ext != "" && !strings.HasSuffix(typ, "+xml") {
		ct.Defaults = append(ct.Defaults, ctDefault{Extension: ext, ContentType: typ})
		return
	}
	ct.Overrides = append(ct.Overrides, ctOverride{PartName: "/" + name, ContentType: typ})
}

// 🔖 Bookmarks returns the bookmark names found in the body, sorted.
func (d *Document) Bookmarks() []string {
	out := make([]string, 0, len(d.bookmarks))
	for name := range d.bookmarks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// HasBookmark reports whether a bookmark named name exists in the body.
func (d *Document) HasBookmark(name string) bool {
	_, ok := d.bookmarks[name]
	return ok
}

func intAttr(se xml.StartElement, local string) (int, bool) {
	v, ok := attr(se, local)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}
