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

package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/docx"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeDocx(t *testing.T, path string, paras ...string) {
	t.Helper()
	doc := docx.New()
	for _, p := range paras {
		doc.AddParagraph(p)
	}
	require.NoError(t, doc.Save(path))
}

func TestStructuralCanOpen(t *testing.T) {
	var be Structural
	assert.True(t, be.CanOpen("/d/a.docx"))
	assert.True(t, be.CanOpen("/d/A.DOCX"), "extension match is case insensitive")
	assert.False(t, be.CanOpen("/d/a.doc"), "legacy files need conversion")
	assert.Equal(t, TierStructural, be.Tier())
}

func TestStructuralOpenFailure(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	var be Structural

	bad := filepath.Join(dir, "bad.docx")
	require.NoError(t, os.WriteFile(bad, []byte("garbage"), 0o644))

	_, err := be.OpenDocument(ctx, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentOpen), "corrupt file should be a document open error")

	_, err = be.OpenDocument(ctx, filepath.Join(dir, "missing.docx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDocumentOpen), "missing file should be a document open error")
}

func TestStructuralMerge(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	var be Structural

	writeDocx(t, filepath.Join(dir, "a.docx"), "first", "second")
	writeDocx(t, filepath.Join(dir, "b.docx"), "third")

	target, err := be.NewDocument(ctx)
	require.NoError(t, err)

	a, err := be.OpenDocument(ctx, filepath.Join(dir, "a.docx"))
	require.NoError(t, err)
	n, err := be.TextLength(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, len("firstsecond"), n, "length counts paragraph text")

	require.NoError(t, be.AddBookmark(ctx, target, "bookmark_1", PositionEnd))
	require.NoError(t, be.AppendParagraphs(ctx, target, a))
	require.NoError(t, be.Close(ctx, a, true))

	b, err := be.OpenDocument(ctx, filepath.Join(dir, "b.docx"))
	require.NoError(t, err)
	require.NoError(t, be.InsertPageBreak(ctx, target))
	require.NoError(t, be.AddBookmark(ctx, target, "bookmark_2", PositionEnd))
	buf, err := be.CopyContentRange(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.docx"), buf.Source())
	require.NoError(t, be.PasteAtEnd(ctx, target, buf))
	require.NoError(t, be.Close(ctx, b, true))

	require.NoError(t, be.AddBookmark(ctx, target, "top", PositionStart))

	_, err = be.CurrentPageCount(ctx, target)
	assert.True(t, errors.Is(err, ErrUnsupported), "structural backend cannot paginate")

	out := filepath.Join(dir, "out.docx")
	require.NoError(t, be.Save(ctx, target, out))
	assert.Equal(t, out, target.Path(), "saving should set the handle path")
	require.NoError(t, be.Close(ctx, target, false))

	doc, err := docx.Open(out)
	require.NoError(t, err)
	paras, err := doc.Paragraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "", "third"}, paras)
	assert.Equal(t, []string{"bookmark_1", "bookmark_2", "top"}, doc.Bookmarks())

	elements := doc.Elements()
	require.NotEmpty(t, elements)
	assert.Equal(t, "bookmarkStart", elements[0].Name(), "start bookmark should come first")
}

func TestStructuralClosedHandle(t *testing.T) {
	ctx := testContext(t)
	var be Structural

	h, err := be.NewDocument(ctx)
	require.NoError(t, err)
	require.NoError(t, be.Close(ctx, h, true))

	_, err = be.TextLength(ctx, h)
	assert.Error(t, err, "a closed handle should be refused")
	assert.Error(t, be.InsertPageBreak(ctx, h))
}

func TestStructuralRevisions(t *testing.T) {
	ctx := testContext(t)
	var be Structural

	h, err := be.NewDocument(ctx)
	require.NoError(t, err)
	require.NoError(t, be.AcceptAllRevisions(ctx, h))
	require.NoError(t, be.DisableChangeTracking(ctx, h))
}

func TestTempArtifactName(t *testing.T) {
	got := TempArtifactName("/out", 3, "/in/《报告》.doc")
	assert.Equal(t, filepath.Join("/out", "temp_3_《报告》.docx"), got)
}
