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
	"maps"
	"path"
	"strconv"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// relationship types that describe document wide parts; a body never carries
// its own copy of them
var sharedPartTypes = map[string]bool{
	relTypeStyles:                    true,
	relTypeNumbering:                 true,
	relTypeBase + "settings":         true,
	relTypeBase + "webSettings":      true,
	relTypeBase + "fontTable":        true,
	relTypeBase + "theme":            true,
	relTypeBase + "footnotes":        true,
	relTypeBase + "endnotes":         true,
	relTypeBase + "comments":         true,
	relTypeBase + "customXml":        true,
	relTypeBase + "glossaryDocument": true,
}

// references into parts that are not carried over
var droppedElements = map[string]bool{
	"footnoteReference": true,
	"endnoteReference":  true,
	"commentReference":  true,
	"commentRangeStart": true,
	"commentRangeEnd":   true,
}

// 🧩 Compose splices the body of src onto the end of d. Styles missing from d,
// numbering definitions and the parts the body references (images, embedded
// objects, headers of inner sections) come along; ids are remapped so
// nothing collides. src's final section properties are dropped. d is left
// unchanged when Compose fails.
func (d *Document) Compose(src *Document) error {
	c := &composer{
		dst:    d,
		src:    src,
		parts:  maps.Clone(d.parts),
		names:  append([]string(nil), d.names...),
		copied: map[string]string{},
	}
	return c.run()
}

type composer struct {
	dst, src *Document
	parts    map[string][]byte
	names    []string
	copied   map[string]string // src part name -> dst part name

	dstCT, srcCT     *contentTypes
	dstRels, srcRels *relationships

	numIDs      map[string]string
	relIDs      map[string]string
	relPrefixes map[string]bool
	bookmarkIDs map[string]string
	bookmarks   []string

	nextBookmarkID, nextDocPrID int
}

func (c *composer) run() error {
	var err error
	if c.dstCT, err = readContentTypes(c.parts); err != nil {
		return err
	}
	if c.srcCT, err = readContentTypes(c.src.parts); err != nil {
		return err
	}
	if c.dstRels, err = readRelationships(c.parts, c.dst.mainPart); err != nil {
		return err
	}
	if c.srcRels, err = readRelationships(c.src.parts, c.src.mainPart); err != nil {
		return err
	}

	if err := c.mergeNumbering(); err != nil {
		return errors.Errorf("merging numbering: %w", err)
	}
	if err := c.mergeStyles(); err != nil {
		return errors.Errorf("merging styles: %w", err)
	}
	if err := c.mergeRelationships(); err != nil {
		return errors.Errorf("merging relationships: %w", err)
	}
	c.planBookmarks()

	body := make([]Element, 0, len(c.src.doc.children))
	for _, el := range c.src.doc.children {
		out, err := rewrite(el, c.rewriteBody)
		if err != nil {
			return errors.Errorf("rewriting body: %w", err)
		}
		if out != nil {
			body = append(body, out)
		}
	}

	rels, err := marshalXML(c.dstRels)
	if err != nil {
		return err
	}
	c.setPart(relsPartFor(c.dst.mainPart), rels)
	ct, err := marshalXML(c.dstCT)
	if err != nil {
		return err
	}
	c.setPart(contentTypesPart, ct)

	// commit
	c.dst.parts = c.parts
	c.dst.names = c.names
	c.dst.doc.declare(c.src.doc.root)
	c.dst.doc.children = append(c.dst.doc.children, body...)
	for _, name := range c.bookmarks {
		c.dst.bookmarks[name] = struct{}{}
	}
	c.dst.nextBookmarkID = c.nextBookmarkID
	c.dst.nextDocPrID = c.nextDocPrID
	return nil
}

func (c *composer) setPart(name string, data []byte) {
	if _, ok := c.parts[name]; !ok {
		c.names = append(c.names, name)
	}
	c.parts[name] = data
}

// sharedPart returns the part of the given relationship type of the target,
// creating an empty one when missing.
func (c *composer) sharedPart(relType, partName, contentType, root string) (string, error) {
	if rel, ok := c.dstRels.byType(relType); ok {
		return resolveTarget(c.dst.mainPart, rel.Target), nil
	}
	name := path.Join(path.Dir(c.dst.mainPart), partName)
	c.setPart(name, []byte(xml.Header+`<w:`+root+` xmlns:w="`+nsMain+`"></w:`+root+`>`))
	c.dstRels.add(relType, relativeTarget(c.dst.mainPart, name), "")
	c.dstCT.register(name, contentType)
	return name, nil
}

func (c *composer) srcSharedPart(relType string) (*part, bool, error) {
	rel, ok := c.srcRels.byType(relType)
	if !ok {
		return nil, false, nil
	}
	data, ok := c.src.parts[resolveTarget(c.src.mainPart, rel.Target)]
	if !ok {
		return nil, false, nil
	}
	root := "styles"
	if relType == relTypeNumbering {
		root = "numbering"
	}
	p, err := splitPart(data, root)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// mergeNumbering appends the source list definitions under fresh ids. All
// w:abstractNum elements stay ahead of all w:num elements.
func (c *composer) mergeNumbering() error {
	c.numIDs = map[string]string{}

	srcNum, ok, err := c.srcSharedPart(relTypeNumbering)
	if err != nil || !ok {
		return err
	}

	name, err := c.sharedPart(relTypeNumbering, "numbering.xml", ctNumbering, "numbering")
	if err != nil {
		return err
	}
	dstNum, err := splitPart(c.parts[name], "numbering")
	if err != nil {
		return err
	}

	var pics, abstracts, nums, rest []Element
	maxAbstract, maxNum := -1, -1
	for _, el := range dstNum.children {
		switch el.Name() {
		case "numPicBullet":
			pics = append(pics, el)
		case "abstractNum":
			abstracts = append(abstracts, el)
			maxAbstract = max(maxAbstract, idOf(el, "abstractNumId"))
		case "num":
			nums = append(nums, el)
			maxNum = max(maxNum, idOf(el, "numId"))
		default:
			rest = append(rest, el)
		}
	}
	abstractOffset, numOffset := maxAbstract+1, maxNum+1

	shift := func(v string, by int) string {
		n, err := strconv.Atoi(v)
		if err != nil {
			return v
		}
		return strconv.Itoa(n + by)
	}

	for _, el := range srcNum.children {
		switch el.Name() {
		case "abstractNum":
			out, err := rewrite(el, func(se *xml.StartElement) action {
				switch se.Name.Local {
				case "abstractNum":
					if v, ok := attr(*se, "abstractNumId"); ok {
						setAttr(se, "abstractNumId", shift(v, abstractOffset))
					}
				case "lvlPicBulletId":
					return drop
				}
				return keep
			})
			if err != nil {
				return err
			}
			abstracts = append(abstracts, out)
		case "num":
			if v, ok := el.rootAttr("numId"); ok {
				c.numIDs[v] = shift(v, numOffset)
			}
			out, err := rewrite(el, func(se *xml.StartElement) action {
				switch se.Name.Local {
				case "num":
					if v, ok := attr(*se, "numId"); ok {
						setAttr(se, "numId", shift(v, numOffset))
					}
				case "abstractNumId":
					if v, ok := attr(*se, "val"); ok {
						setAttr(se, "val", shift(v, abstractOffset))
					}
				}
				return keep
			})
			if err != nil {
				return err
			}
			nums = append(nums, out)
		}
	}

	dstNum.declare(srcNum.root)
	dstNum.children = append(append(append(pics, abstracts...), nums...), rest...)
	c.setPart(name, dstNum.bytes())
	return nil
}

// mergeStyles copies the source styles whose id the target lacks.
func (c *composer) mergeStyles() error {
	srcStyles, ok, err := c.srcSharedPart(relTypeStyles)
	if err != nil || !ok {
		return err
	}

	name, err := c.sharedPart(relTypeStyles, "styles.xml", ctStyles, "styles")
	if err != nil {
		return err
	}
	dstStyles, err := splitPart(c.parts[name], "styles")
	if err != nil {
		return err
	}

	have := map[string]bool{}
	for _, el := range dstStyles.children {
		if el.Name() == "style" {
			if id, ok := el.rootAttr("styleId"); ok {
				have[id] = true
			}
		}
	}

	added := 0
	for _, el := range srcStyles.children {
		if el.Name() != "style" {
			continue
		}
		id, ok := el.rootAttr("styleId")
		if !ok || have[id] {
			continue
		}
		out, err := rewrite(el, c.remapNumbering)
		if err != nil {
			return err
		}
		dstStyles.children = append(dstStyles.children, out)
		have[id] = true
		added++
	}
	if added == 0 {
		return nil
	}

	dstStyles.declare(srcStyles.root)
	c.setPart(name, dstStyles.bytes())
	return nil
}

func (c *composer) remapNumbering(se *xml.StartElement) action {
	if se.Name.Local == "numId" {
		if v, ok := attr(*se, "val"); ok && v != "0" {
			if nv, ok := c.numIDs[v]; ok {
				setAttr(se, "val", nv)
			}
		}
	}
	return keep
}

// mergeRelationships gives every relationship the body references a home in
// the target, copying internal parts with their own relationships.
func (c *composer) mergeRelationships() error {
	c.relIDs = map[string]string{}
	c.relPrefixes = c.src.doc.prefixesFor(nsRelationship)
	c.relPrefixes["r"] = true

	var ids []string
	for _, el := range c.src.doc.children {
		err := walk(el, func(tok xml.Token, _ []string) {
			se, ok := tok.(xml.StartElement)
			if !ok {
				return
			}
			for _, a := range se.Attr {
				if isRelAttr(a, c.relPrefixes) {
					if _, seen := c.relIDs[a.Value]; !seen {
						c.relIDs[a.Value] = ""
						ids = append(ids, a.Value)
					}
				}
			}
		})
		if err != nil {
			return err
		}
	}

	for _, id := range ids {
		rel, ok := c.srcRels.byID(id)
		if !ok || sharedPartTypes[rel.Type] {
			continue
		}
		if rel.TargetMode == "External" {
			c.relIDs[id] = c.dstRels.add(rel.Type, rel.Target, rel.TargetMode)
			continue
		}
		name, err := c.copyPart(resolveTarget(c.src.mainPart, rel.Target))
		if err != nil {
			return err
		}
		if name == "" {
			continue
		}
		c.relIDs[id] = c.dstRels.add(rel.Type, relativeTarget(c.dst.mainPart, name), "")
	}
	return nil
}

func isRelAttr(a xml.Attr, prefixes map[string]bool) bool {
	if prefixes[a.Name.Space] {
		return true
	}
	return a.Name.Space == "o" && a.Name.Local == "relid"
}

// copyPart copies a source part, and whatever its relationships point at,
// under a name free in the target. It returns "" for parts missing from the
// source.
func (c *composer) copyPart(srcName string) (string, error) {
	if name, ok := c.copied[srcName]; ok {
		return name, nil
	}
	data, ok := c.src.parts[srcName]
	if !ok {
		return "", nil
	}

	name := c.freeName(srcName)
	c.copied[srcName] = name
	c.setPart(name, data)
	c.dstCT.register(name, c.srcCT.typeOf(srcName))

	rels, err := readRelationships(c.src.parts, srcName)
	if err != nil {
		return "", err
	}
	if len(rels.Rels) == 0 {
		return name, nil
	}
	for i, rel := range rels.Rels {
		if rel.TargetMode == "External" {
			continue
		}
		child, err := c.copyPart(resolveTarget(srcName, rel.Target))
		if err != nil {
			return "", err
		}
		if child != "" {
			rels.Rels[i].Target = relativeTarget(name, child)
		}
	}
	out, err := marshalXML(rels)
	if err != nil {
		return "", err
	}
	c.setPart(relsPartFor(name), out)
	return name, nil
}

func (c *composer) freeName(name string) string {
	if _, taken := c.parts[name]; !taken {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := stem + "_" + strconv.Itoa(i) + ext
		if _, taken := c.parts[candidate]; !taken {
			return candidate
		}
	}
}

// planBookmarks drops source bookmarks whose name the target already uses or
// has reserved, and assigns fresh ids to the rest.
func (c *composer) planBookmarks() {
	c.bookmarkIDs = map[string]string{}
	c.nextBookmarkID = c.dst.nextBookmarkID
	c.nextDocPrID = c.dst.nextDocPrID

	taken := map[string]bool{}
	for name := range c.dst.bookmarks {
		taken[name] = true
	}
	for name := range c.dst.reserved {
		taken[name] = true
	}
	for _, el := range c.src.doc.children {
		_ = walk(el, func(tok xml.Token, _ []string) {
			se, ok := tok.(xml.StartElement)
			if !ok || se.Name.Local != "bookmarkStart" {
				return
			}
			id, okID := attr(se, "id")
			name, okName := attr(se, "name")
			if !okID || !okName || taken[name] {
				return
			}
			if _, dup := c.bookmarkIDs[id]; dup {
				return
			}
			taken[name] = true
			c.bookmarks = append(c.bookmarks, name)
			c.bookmarkIDs[id] = strconv.Itoa(c.nextBookmarkID)
			c.nextBookmarkID++
		})
	}
}

func (c *composer) rewriteBody(se *xml.StartElement) action {
	local := se.Name.Local
	if droppedElements[local] {
		return drop
	}

	switch local {
	case "bookmarkStart", "bookmarkEnd":
		id, _ := attr(*se, "id")
		nid, ok := c.bookmarkIDs[id]
		if !ok {
			return drop
		}
		setAttr(se, "id", nid)
	case "numId":
		c.remapNumbering(se)
	case "docPr":
		setAttr(se, "id", strconv.Itoa(c.nextDocPrID))
		c.nextDocPrID++
	}

	kept := se.Attr[:0]
	for _, a := range se.Attr {
		if isRelAttr(a, c.relPrefixes) {
			nid := c.relIDs[a.Value]
			if nid == "" {
				continue
			}
			a.Value = nid
		}
		kept = append(kept, a)
	}
	se.Attr = kept
	return keep
}

func idOf(el Element, local string) int {
	v, ok := el.rootAttr(local)
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}
