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
	"slices"
)

// ReserveBookmarks holds names for later AddBookmark calls. Composed
// documents drop their own bookmarks with these names.
func (d *Document) ReserveBookmarks(names ...string) {
	if d.reserved == nil {
		d.reserved = map[string]struct{}{}
	}
	for _, name := range names {
		d.reserved[name] = struct{}{}
	}
}

// Mark is a snapshot of a document's end, restored by Restore.
type Mark struct {
	children       int
	rootAttr       []xml.Attr
	names          []string
	parts          map[string][]byte
	bookmarks      map[string]struct{}
	nextBookmarkID int
	nextDocPrID    int
}

// Mark records the body length and everything a later Append, AddBookmark or
// Compose can change.
func (d *Document) Mark() Mark {
	return Mark{
		children:       len(d.doc.children),
		rootAttr:       slices.Clone(d.doc.root.Attr),
		names:          slices.Clone(d.names),
		parts:          maps.Clone(d.parts),
		bookmarks:      maps.Clone(d.bookmarks),
		nextBookmarkID: d.nextBookmarkID,
		nextDocPrID:    d.nextDocPrID,
	}
}

// Restore drops everything added to the end of the body since m was taken.
// Content prepended in between is not tracked.
func (d *Document) Restore(m Mark) {
	d.doc.children = slices.Clip(d.doc.children[:min(m.children, len(d.doc.children))])
	d.doc.root.Attr = slices.Clone(m.rootAttr)
	d.names = slices.Clone(m.names)
	d.parts = maps.Clone(m.parts)
	d.bookmarks = maps.Clone(m.bookmarks)
	d.nextBookmarkID = m.nextBookmarkID
	d.nextDocPrID = m.nextDocPrID
}
