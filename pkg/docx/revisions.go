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

	"gitlab.com/tozd/go/errors"
)

var rejectedMarkup = map[string]bool{
	"del":                    true,
	"moveFrom":               true,
	"moveFromRangeStart":     true,
	"moveFromRangeEnd":       true,
	"moveToRangeStart":       true,
	"moveToRangeEnd":         true,
	"pPrChange":              true,
	"rPrChange":              true,
	"sectPrChange":           true,
	"tblPrChange":            true,
	"tblPrExChange":          true,
	"tblGridChange":          true,
	"trPrChange":             true,
	"tcPrChange":             true,
	"numberingChange":        true,
	"customXmlDelRangeStart": true,
	"customXmlDelRangeEnd":   true,
	"customXmlInsRangeStart": true,
	"customXmlInsRangeEnd":   true,
}

// AcceptRevisions accepts every tracked change in the body: insertions and
// moves keep their content, deletions and property change records go away.
func (d *Document) AcceptRevisions() error {
	out := make([]Element, 0, len(d.doc.children))
	for _, el := range d.doc.children {
		accepted, err := rewrite(el, func(se *xml.StartElement) action {
			local := se.Name.Local
			if rejectedMarkup[local] {
				return drop
			}
			if local == "ins" || local == "moveTo" {
				return unwrap
			}
			return keep
		})
		if err != nil {
			return errors.Errorf("accepting revisions: %w", err)
		}
		if accepted != nil {
			out = append(out, accepted)
		}
	}
	d.doc.children = out
	return nil
}

// DisableTracking switches off change tracking in the document settings.
func (d *Document) DisableTracking() error {
	rels, err := d.relationships(d.mainPart)
	if err != nil {
		return err
	}
	rel, ok := rels.byType(relTypeBase + "settings")
	if !ok {
		return nil
	}
	name := resolveTarget(d.mainPart, rel.Target)
	data, ok := d.parts[name]
	if !ok {
		return nil
	}

	settings, err := splitPart(data, "settings")
	if err != nil {
		return errors.Errorf("parsing settings: %w", err)
	}
	kept := settings.children[:0]
	changed := false
	for _, el := range settings.children {
		if el.Name() == "trackRevisions" {
			changed = true
			continue
		}
		kept = append(kept, el)
	}
	if !changed {
		return nil
	}
	settings.children = kept
	d.setPart(name, settings.bytes())
	return nil
}
