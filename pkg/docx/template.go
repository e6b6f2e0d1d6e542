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

const templateContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="` + ctMain + `"/><Override PartName="/word/styles.xml" ContentType="` + ctStyles + `"/></Types>`

const templatePackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="` + relTypeOfficeDocument + `" Target="word/document.xml"/></Relationships>`

const templateDocumentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="` + relTypeStyles + `" Target="styles.xml"/></Relationships>`

// A4 portrait with the usual Chinese office margins.
const templateDocument = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="` + nsMain + `" xmlns:r="` + nsRelationship + `"><w:body><w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1800" w:bottom="1440" w:left="1800" w:header="851" w:footer="992" w:gutter="0"/></w:sectPr></w:body></w:document>`

const templateStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="` + nsMain + `"><w:docDefaults><w:rPrDefault><w:rPr><w:sz w:val="21"/><w:szCs w:val="21"/><w:lang w:val="en-US" w:eastAsia="zh-CN"/></w:rPr></w:rPrDefault><w:pPrDefault/></w:docDefaults><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style><w:style w:type="character" w:default="1" w:styleId="DefaultParagraphFont"><w:name w:val="Default Paragraph Font"/><w:uiPriority w:val="1"/><w:semiHidden/></w:style><w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/><w:basedOn w:val="DefaultParagraphFont"/><w:uiPriority w:val="99"/><w:unhideWhenUsed/><w:rPr><w:color w:val="0563C1"/><w:u w:val="single"/></w:rPr></w:style></w:styles>`

// 🏭 New returns an empty document with default styles.
func New() *Document {
	parts := map[string][]byte{
		contentTypesPart:               []byte(templateContentTypes),
		packageRelsPart:                []byte(templatePackageRels),
		"word/document.xml":            []byte(templateDocument),
		"word/_rels/document.xml.rels": []byte(templateDocumentRels),
		"word/styles.xml":              []byte(templateStyles),
	}
	names := []string{contentTypesPart, packageRelsPart, "word/document.xml", "word/_rels/document.xml.rels", "word/styles.xml"}

	doc, err := splitPart(parts["word/document.xml"], "document", "body")
	if err != nil {
		// the template is a constant
		panic(err)
	}
	doc.trailing = doc.children[len(doc.children)-1]
	doc.children = nil

	return &Document{
		names:          names,
		parts:          parts,
		mainPart:       "word/document.xml",
		doc:            doc,
		bookmarks:      map[string]struct{}{},
		nextBookmarkID: firstBookmarkID,
		nextDocPrID:    1,
	}
}
