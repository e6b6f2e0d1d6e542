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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeSkipsReservedBookmarks(t *testing.T) {
	dst := New()
	dst.ReserveBookmarks("bookmark_1", "bookmark_2")

	src := New()
	src.AddParagraph("a")
	require.NoError(t, src.AddBookmark("bookmark_2"), "adding source bookmark should succeed")
	require.NoError(t, src.AddBookmark("own"), "adding source bookmark should succeed")

	require.NoError(t, dst.Compose(src), "compose should succeed")
	assert.Equal(t, []string{"own"}, dst.Bookmarks(), "reserved names should not be composed in")

	require.NoError(t, dst.AddBookmark("bookmark_2"), "a reserved name should stay free for the target")
	assert.Equal(t, []string{"bookmark_2", "own"}, dst.Bookmarks())

	main := partString(t, dst, dst.mainPart)
	assert.Equal(t, 1, strings.Count(main, `w:name="bookmark_2"`), "one bookmark_2 in the body")
}

func TestMarkRestore(t *testing.T) {
	dst := New()
	dst.AddParagraph("kept")
	require.NoError(t, dst.AddBookmark("bookmark_1"), "adding bookmark should succeed")
	partsBefore := dst.Parts()

	m := dst.Mark()
	dst.AddPageBreak()
	require.NoError(t, dst.AddBookmark("bookmark_2"), "adding bookmark should succeed")
	require.NoError(t, dst.Compose(sourcePackage(t)), "compose should succeed")
	require.Contains(t, dst.Parts(), "word/numbering.xml", "compose should bring numbering along")

	dst.Restore(m)

	paras, err := dst.Paragraphs()
	require.NoError(t, err, "reading paragraphs should succeed")
	assert.Equal(t, []string{"kept"}, paras, "body should be back to the mark")
	assert.Equal(t, []string{"bookmark_1"}, dst.Bookmarks(), "later bookmarks should be gone")
	assert.Equal(t, partsBefore, dst.Parts(), "composed parts should be gone")

	require.NoError(t, dst.AddBookmark("bookmark_2"), "a rolled back name should be free again")
	require.NoError(t, dst.Compose(sourcePackage(t)), "compose after restore should succeed")

	data, err := dst.Bytes()
	require.NoError(t, err, "serializing should succeed")
	merged, err := Parse(data)
	require.NoError(t, err, "restored package should parse")
	assert.Equal(t, []string{"bookmark_1", "bookmark_2", "intro"}, merged.Bookmarks())
}
