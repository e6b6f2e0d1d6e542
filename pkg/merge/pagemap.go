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

package merge

import (
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Anchor returns the bookmark name of the candidate at index.
func Anchor(index int) string {
	return fmt.Sprintf("bookmark_%d", index+1)
}

// 📍 Entry maps one merged source to its first page and its bookmark
type Entry struct {
	SourcePath  string `json:"source_path"`
	DisplayName string `json:"display_name"`
	Order       int    `json:"order"`
	StartPage   int    `json:"start_page"`
	Anchor      string `json:"anchor"`
}

// 🗺️ PageMap holds the entries of one run in merge order. It is built by a
// strategy and returned by value; nothing survives between runs.
type PageMap struct {
	entries []Entry
	byPath  map[string]int
}

// NewPageMap builds a page map from entries already in merge order.
func NewPageMap(entries ...Entry) PageMap {
	var m PageMap
	for _, e := range entries {
		m.add(e)
	}
	return m
}

func (m *PageMap) add(e Entry) {
	if m.byPath == nil {
		m.byPath = map[string]int{}
	}
	m.byPath[e.SourcePath] = len(m.entries)
	m.entries = append(m.entries, e)
}

// Len returns the number of mapped sources.
func (m PageMap) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in merge order.
func (m PageMap) Entries() []Entry {
	return append([]Entry(nil), m.entries...)
}

// Lookup returns the entry of a source path.
func (m PageMap) Lookup(path string) (Entry, bool) {
	i, ok := m.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Validate checks that anchors are unique and start pages never decrease.
func (m PageMap) Validate() error {
	seen := make(map[string]string, len(m.entries))
	for i, e := range m.entries {
		if e.StartPage < 0 {
			return errors.Errorf("entry %s has negative start page %d", e.SourcePath, e.StartPage)
		}
		if prev, ok := seen[e.Anchor]; ok {
			return errors.Errorf("anchor %s is used by %s and %s", e.Anchor, prev, e.SourcePath)
		}
		seen[e.Anchor] = e.SourcePath
		if i > 0 && e.StartPage < m.entries[i-1].StartPage {
			return errors.Errorf("entry %s starts on page %d before %s on page %d",
				e.SourcePath, e.StartPage, m.entries[i-1].SourcePath, m.entries[i-1].StartPage)
		}
	}
	return nil
}

// Pages returns the start pages in merge order.
func (m PageMap) Pages() []int {
	out := make([]int, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.StartPage
	}
	return out
}
