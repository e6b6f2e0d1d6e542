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
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/backend/backendtest"
	"github.com/walteh/docmerge/pkg/docx"
	"github.com/walteh/docmerge/pkg/log"
	"github.com/walteh/docmerge/pkg/selector"
)

func testContext(t *testing.T) (context.Context, *log.Logger) {
	t.Helper()
	lg := log.Discard()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())
	return log.NewContext(ctx, lg), lg
}

func writeDocx(t *testing.T, path string, paras ...string) {
	t.Helper()
	doc := docx.New()
	for _, p := range paras {
		doc.AddParagraph(p)
	}
	require.NoError(t, doc.Save(path), "writing fixture %s", path)
}

func sourcesOf(t *testing.T, dir string) []selector.SourceDocument {
	t.Helper()
	docs, err := selector.Select(context.Background(), dir, selector.Options{})
	require.NoError(t, err, "selecting sources")
	return docs
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    ID
		wantErr bool
	}{
		{in: "simple-append", want: SimpleAppend},
		{in: " Format-Preserving ", want: FormatPreserving},
		{in: "live-host", want: LiveHost},
		{in: "composition-library", want: CompositionLibrary},
		{in: "simple", want: SimpleAppend},
		{in: "format", want: FormatPreserving},
		{in: "word_api", want: LiveHost},
		{in: "docxcompose", want: CompositionLibrary},
		{in: "pandoc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if tt.wantErr {
				require.Error(t, err, "parsing should fail")
				assert.True(t, errors.Is(err, ErrUnknownStrategy), "error should be ErrUnknownStrategy")
				return
			}
			require.NoError(t, err, "parsing should succeed")
			assert.Equal(t, tt.want, got, "id should match")
		})
	}
}

func TestNewChecksTier(t *testing.T) {
	_, err := New(LiveHost, Options{Backend: backend.Structural{}})
	require.Error(t, err, "live strategy should refuse a structural backend")

	_, err = New(SimpleAppend, Options{Backend: backendtest.New(backend.TierLive)})
	require.Error(t, err, "structural strategy should refuse a live backend")

	_, err = New(SimpleAppend, Options{})
	require.Error(t, err, "a backend is required")

	s, err := New(CompositionLibrary, Options{Backend: backend.Structural{}})
	require.NoError(t, err)
	assert.Equal(t, CompositionLibrary, s.ID(), "id should be kept")
}

func TestStructuralSkipSemantics(t *testing.T) {
	for _, id := range []ID{SimpleAppend, FormatPreserving, CompositionLibrary} {
		t.Run(string(id), func(t *testing.T) {
			ctx, lg := testContext(t)
			dir := t.TempDir()
			out := filepath.Join(t.TempDir(), "merged.docx")

			writeDocx(t, filepath.Join(dir, "a.docx"), "alpha")
			writeDocx(t, filepath.Join(dir, "b.docx"), "bravo")
			require.NoError(t, os.WriteFile(filepath.Join(dir, "c.docx"), []byte("not a zip"), 0o644))
			writeDocx(t, filepath.Join(dir, "d.docx"), "delta")

			s, err := New(id, Options{Backend: backend.Structural{}})
			require.NoError(t, err)

			res, err := s.Merge(ctx, sourcesOf(t, dir), out)
			require.NoError(t, err, "merge should succeed with one corrupt source")

			assert.Equal(t, 3, res.PageMap.Len(), "page map should hold the merged sources")
			require.Len(t, res.Skipped, 1, "one source should be skipped")
			assert.Equal(t, "c.docx", filepath.Base(res.Skipped[0].Source.Path), "corrupt source should be skipped")
			assert.True(t, errors.Is(res.Skipped[0].Err, backend.ErrDocumentOpen), "skip should be an open error")
			assert.Equal(t, 1, lg.SkipCount(), "log should record exactly one skip")
			require.NoError(t, res.PageMap.Validate(), "page map should be consistent")

			var anchors []string
			for _, e := range res.PageMap.Entries() {
				anchors = append(anchors, e.Anchor)
			}
			assert.Equal(t, []string{"bookmark_1", "bookmark_2", "bookmark_4"}, anchors, "anchors follow candidate order")

			merged, err := docx.Open(out)
			require.NoError(t, err, "output should be a valid package")
			paras, err := merged.Paragraphs()
			require.NoError(t, err)
			body := strings.Join(paras, "|")
			assert.Less(t, strings.Index(body, "alpha"), strings.Index(body, "bravo"), "sources keep their order")
			assert.Less(t, strings.Index(body, "bravo"), strings.Index(body, "delta"), "sources keep their order")
			assert.NotContains(t, body, "not a zip", "skipped source should not be merged")
			for _, a := range anchors {
				assert.True(t, merged.HasBookmark(a), "output should carry bookmark %s", a)
			}
		})
	}
}

func TestStructuralPageEstimate(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.docx")

	writeDocx(t, filepath.Join(dir, "a.docx"), strings.Repeat("x", 5000))
	writeDocx(t, filepath.Join(dir, "b.docx"), "short")
	writeDocx(t, filepath.Join(dir, "c.docx"), strings.Repeat("y", 1999))

	s, err := New(SimpleAppend, Options{Backend: backend.Structural{}})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 2, 3}, res.PageMap.Pages(), "pages advance by max(1, length/2000)")
	assert.Equal(t, 4, res.Pages, "last estimate should count the final source")
}

func TestLivePageCounts(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.docx")

	fake := backendtest.New(backend.TierLive)
	require.NoError(t, fake.Add(filepath.Join(dir, "a.docx"), backendtest.Source{Paragraphs: []string{"a"}, Pages: 2}))
	require.NoError(t, fake.Add(filepath.Join(dir, "b.docx"), backendtest.Source{Paragraphs: []string{"b"}, Pages: 1}))
	require.NoError(t, fake.Add(filepath.Join(dir, "c.docx"), backendtest.Source{Paragraphs: []string{"c"}, Pages: 3}))

	s, err := New(LiveHost, Options{Backend: fake})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 4}, res.PageMap.Pages(), "live pages come from the host")
	assert.Equal(t, 6, res.Pages, "final page count should be re-queried")

	saved := fake.Saved[out]
	require.NotNil(t, saved, "output should be saved")
	assert.Equal(t, 2, saved.Breaks, "one break between each pair of sources")
	assert.Len(t, saved.Bookmarks, 3, "every merged source gets a bookmark")
	assert.Empty(t, fake.OpenHandles(), "every handle should be closed")
}

func TestPasteFailureLeavesSourceUnmapped(t *testing.T) {
	ctx, lg := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.docx")

	fake := backendtest.New(backend.TierLive)
	require.NoError(t, fake.Add(filepath.Join(dir, "a.docx"), backendtest.Source{Paragraphs: []string{"a"}, Pages: 1}))
	require.NoError(t, fake.Add(filepath.Join(dir, "b.docx"), backendtest.Source{Paragraphs: []string{"b"}, Pages: 1, PasteErr: errors.New("clipboard busy")}))
	require.NoError(t, fake.Add(filepath.Join(dir, "c.docx"), backendtest.Source{Paragraphs: []string{"c"}, Pages: 1}))

	s, err := New(LiveHost, Options{Backend: fake})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.NoError(t, err)

	_, ok := res.PageMap.Lookup(filepath.Join(dir, "b.docx"))
	assert.False(t, ok, "failed source should not be mapped")
	assert.Equal(t, 2, res.PageMap.Len(), "other sources should be mapped")
	assert.Equal(t, 1, lg.SkipCount(), "one skip should be logged")
	require.NoError(t, res.PageMap.Validate())
	assert.Equal(t, []int{1, 2}, res.PageMap.Pages(), "c should start right after a")
	assert.Equal(t, 1, fake.Rollbacks, "the failed source should be rolled back")

	saved, ok := fake.Saved[out]
	require.True(t, ok, "merged document should be saved")
	assert.Equal(t, 1, saved.Breaks, "only the break before c should remain")
	assert.Equal(t, 2, saved.Pages)
	assert.Equal(t, []string{"a", "", "c"}, saved.Paragraphs, "no blank page for b")
	assert.Equal(t, []backendtest.Bookmark{
		{Name: "bookmark_1", Paragraph: 0},
		{Name: "bookmark_3", Paragraph: 2},
	}, saved.Bookmarks, "b should leave no bookmark behind")
	assert.Equal(t, []string{"bookmark_1", "bookmark_2", "bookmark_3"}, saved.Reserved, "every anchor should be reserved up front")
}

func TestFailedRollbackAborts(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.docx")

	fake := backendtest.New(backend.TierLive)
	fake.RollbackErr = errors.New("host stopped responding")
	require.NoError(t, fake.Add(filepath.Join(dir, "a.docx"), backendtest.Source{Paragraphs: []string{"a"}, Pages: 1}))
	require.NoError(t, fake.Add(filepath.Join(dir, "b.docx"), backendtest.Source{Paragraphs: []string{"b"}, Pages: 1, PasteErr: errors.New("clipboard busy")}))
	require.NoError(t, fake.Add(filepath.Join(dir, "c.docx"), backendtest.Source{Paragraphs: []string{"c"}, Pages: 1}))

	s, err := New(LiveHost, Options{Backend: fake})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.Error(t, err, "a target that cannot be restored should stop the merge")
	assert.True(t, errors.Is(err, ErrRollback), "error should be ErrRollback, got %v", err)
	require.NotNil(t, res)
	assert.Equal(t, 1, res.PageMap.Len(), "only a was merged")
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "b.docx", filepath.Base(res.Skipped[0].Source.Path))
	assert.Empty(t, fake.Saved, "nothing should be saved")
	assert.NotContains(t, fake.Opened, filepath.Join(dir, "c.docx"), "later sources should not be opened")
}

// writeBrokenStyles writes a package that opens fine but whose styles part
// cannot be parsed, so composing it fails.
func writeBrokenStyles(t *testing.T, path, para string) {
	t.Helper()
	doc := docx.New()
	doc.AddParagraph(para)
	data, err := doc.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		if strings.TrimPrefix(f.Name, "/") == "word/styles.xml" {
			_, err = w.Write([]byte("<w:styles><broken"))
			require.NoError(t, err)
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		_, err = io.Copy(w, rc)
		rc.Close()
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestStructuralComposeFailureRollsBack(t *testing.T) {
	ctx, lg := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.docx")

	writeDocx(t, filepath.Join(dir, "a.docx"), "alpha")
	writeBrokenStyles(t, filepath.Join(dir, "b.docx"), "bravo")
	writeDocx(t, filepath.Join(dir, "c.docx"), "charlie")

	s, err := New(FormatPreserving, Options{Backend: backend.Structural{}})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1, "b should be skipped")
	assert.Equal(t, "b.docx", filepath.Base(res.Skipped[0].Source.Path))
	assert.Equal(t, 1, lg.SkipCount())
	assert.Equal(t, []int{0, 1}, res.PageMap.Pages(), "c should follow a directly")

	merged, err := docx.Open(out)
	require.NoError(t, err)
	paras, err := merged.Paragraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "", "charlie"}, paras, "one page break between a and c")
	assert.Equal(t, []string{"bookmark_1", "bookmark_3"}, merged.Bookmarks(), "b should leave no bookmark behind")

	main, ok := merged.Part("word/document.xml")
	require.True(t, ok)
	assert.Equal(t, 1, strings.Count(string(main), `w:type="page"`), "one page break expected")
}

func TestSourceBookmarkNamedLikeAnchor(t *testing.T) {
	for _, id := range []ID{FormatPreserving, CompositionLibrary} {
		t.Run(string(id), func(t *testing.T) {
			ctx, lg := testContext(t)
			dir := t.TempDir()
			out := filepath.Join(t.TempDir(), "merged.docx")

			a := docx.New()
			a.AddParagraph("a")
			require.NoError(t, a.AddBookmark("bookmark_2"), "adding source bookmark should succeed")
			require.NoError(t, a.Save(filepath.Join(dir, "a.docx")))
			writeDocx(t, filepath.Join(dir, "b.docx"), "b")

			s, err := New(id, Options{Backend: backend.Structural{}})
			require.NoError(t, err)

			res, err := s.Merge(ctx, sourcesOf(t, dir), out)
			require.NoError(t, err)

			assert.Equal(t, 2, res.PageMap.Len(), "both sources should be mapped")
			assert.Empty(t, res.Skipped, "no source should be skipped")
			assert.Equal(t, 0, lg.SkipCount())

			merged, err := docx.Open(out)
			require.NoError(t, err)
			assert.Equal(t, []string{"bookmark_1", "bookmark_2"}, merged.Bookmarks())

			main, ok := merged.Part("word/document.xml")
			require.True(t, ok)
			body := string(main)
			assert.Equal(t, 1, strings.Count(body, `w:name="bookmark_2"`), "only the anchor for b should carry the name")
			assert.Less(t, strings.Index(body, ">a<"), strings.Index(body, `w:name="bookmark_2"`), "bookmark_2 should point at b, after a's text")
		})
	}
}

func TestNothingMerged(t *testing.T) {
	ctx, lg := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.docx")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.docx"), []byte("junk"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.docx"), []byte("junk"), 0o644))

	s, err := New(FormatPreserving, Options{Backend: backend.Structural{}})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.Error(t, err, "merge should fail")
	assert.True(t, errors.Is(err, ErrNothingMerged), "error should be ErrNothingMerged")
	assert.Len(t, res.Skipped, 2, "both sources should be skipped")
	assert.Equal(t, 2, lg.SkipCount())
	assert.NoFileExists(t, out, "no output should be written")
}

func TestLegacyConversion(t *testing.T) {
	ctx, lg := testContext(t)
	dir := t.TempDir()
	outDir := t.TempDir()
	out := filepath.Join(outDir, "merged.docx")

	fake := backendtest.New(backend.TierStructural)
	require.NoError(t, fake.Add(filepath.Join(dir, "a.doc"), backendtest.Source{Paragraphs: []string{"legacy"}}))
	require.NoError(t, fake.Add(filepath.Join(dir, "b.doc"), backendtest.Source{ConvertErr: errors.New("unreadable")}))
	require.NoError(t, fake.Add(filepath.Join(dir, "c.docx"), backendtest.Source{Paragraphs: []string{"modern"}}))

	s, err := New(SimpleAppend, Options{Backend: fake, Converter: backend.Chain{fake}})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.NoError(t, err)

	assert.Equal(t, 2, res.PageMap.Len(), "converted and modern sources should be merged")
	require.Len(t, res.Skipped, 1)
	assert.True(t, errors.Is(res.Skipped[0].Err, backend.ErrFormatConversion), "failed conversion should be a format error")
	assert.Equal(t, 1, lg.SkipCount())

	assert.Contains(t, fake.Opened, backend.TempArtifactName(outDir, 0, filepath.Join(dir, "a.doc")),
		"converted artifact should be opened instead of the legacy file")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), "temp_"), "temporary artifact %s should be removed", e.Name())
	}
	assert.FileExists(t, out)
}

func TestCompositionRejectsUpFront(t *testing.T) {
	ctx, lg := testContext(t)
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "merged.docx")

	fake := backendtest.New(backend.TierStructural)
	require.NoError(t, fake.Add(filepath.Join(dir, "a.docx"), backendtest.Source{Paragraphs: []string{"a"}}))
	require.NoError(t, fake.Add(filepath.Join(dir, "b.docx"), backendtest.Source{OpenErr: errors.New("locked")}))
	require.NoError(t, fake.Add(filepath.Join(dir, "c.docx"), backendtest.Source{Paragraphs: []string{"c"}}))

	s, err := New(CompositionLibrary, Options{Backend: fake, Validators: 2})
	require.NoError(t, err)

	res, err := s.Merge(ctx, sourcesOf(t, dir), out)
	require.NoError(t, err)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "b.docx", filepath.Base(res.Skipped[0].Source.Path))
	assert.Equal(t, 1, lg.SkipCount(), "a rejected source is logged once")
	assert.Equal(t, []int{0, 1}, res.PageMap.Pages())
	assert.Equal(t, []string{"a", "", "c"}, fake.Saved[out].Paragraphs, "break between merged sources only")
}

func TestMergeIsIdempotent(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	outDir := t.TempDir()

	writeDocx(t, filepath.Join(dir, "《一》.docx"), strings.Repeat("a", 4100))
	writeDocx(t, filepath.Join(dir, "《二》.docx"), "b")
	writeDocx(t, filepath.Join(dir, "三.docx"), "c")

	s, err := New(FormatPreserving, Options{Backend: backend.Structural{}})
	require.NoError(t, err)

	first, err := s.Merge(ctx, sourcesOf(t, dir), filepath.Join(outDir, "one.docx"))
	require.NoError(t, err)
	second, err := s.Merge(ctx, sourcesOf(t, dir), filepath.Join(outDir, "two.docx"))
	require.NoError(t, err)

	assert.Equal(t, first.PageMap.Entries(), second.PageMap.Entries(), "same input should give the same page map")
}

func TestPageMapValidate(t *testing.T) {
	build := func(entries ...Entry) PageMap {
		var pm PageMap
		for _, e := range entries {
			pm.add(e)
		}
		return pm
	}

	tests := []struct {
		name    string
		pm      PageMap
		wantErr string
	}{
		{
			name: "valid",
			pm: build(
				Entry{SourcePath: "a", StartPage: 0, Anchor: "bookmark_1"},
				Entry{SourcePath: "b", StartPage: 0, Anchor: "bookmark_2"},
				Entry{SourcePath: "c", StartPage: 3, Anchor: "bookmark_4"},
			),
		},
		{
			name: "duplicate_anchor",
			pm: build(
				Entry{SourcePath: "a", StartPage: 0, Anchor: "bookmark_1"},
				Entry{SourcePath: "b", StartPage: 1, Anchor: "bookmark_1"},
			),
			wantErr: "anchor bookmark_1",
		},
		{
			name: "decreasing_page",
			pm: build(
				Entry{SourcePath: "a", StartPage: 4, Anchor: "bookmark_1"},
				Entry{SourcePath: "b", StartPage: 2, Anchor: "bookmark_2"},
			),
			wantErr: "before a",
		},
		{
			name:    "negative_page",
			pm:      build(Entry{SourcePath: "a", StartPage: -1, Anchor: "bookmark_1"}),
			wantErr: "negative",
		},
		{
			name: "empty",
			pm:   PageMap{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pm.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPageMapLookup(t *testing.T) {
	var pm PageMap
	pm.add(Entry{SourcePath: "/d/a.docx", StartPage: 2, Anchor: "bookmark_1"})

	e, ok := pm.Lookup("/d/a.docx")
	require.True(t, ok)
	assert.Equal(t, 2, e.StartPage)

	_, ok = pm.Lookup("/d/missing.docx")
	assert.False(t, ok)

	entries := pm.Entries()
	entries[0].StartPage = 99
	assert.Equal(t, []int{2}, pm.Pages(), "entries should be a copy")
}
