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

package operation_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/gen/mockery"
	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/backend/backendtest"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/docx"
	"github.com/walteh/docmerge/pkg/log"
	"github.com/walteh/docmerge/pkg/merge"
	"github.com/walteh/docmerge/pkg/operation"
	"github.com/walteh/docmerge/pkg/selector"
	"github.com/walteh/docmerge/pkg/toc"
)

func testContext(t *testing.T) (context.Context, *log.Logger) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	lg := log.Discard()
	ctx := log.NewContext(logger.WithContext(context.Background()), lg)
	return ctx, lg
}

// recorder keeps every notification it receives.
type recorder struct {
	mu    sync.Mutex
	notes []operation.Notification
}

func (r *recorder) Notify(ctx context.Context, n operation.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recorder) all() []operation.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]operation.Notification(nil), r.notes...)
}

func writeDocx(t *testing.T, path string, paras ...string) {
	t.Helper()
	doc := docx.New()
	for _, p := range paras {
		doc.AddParagraph(p)
	}
	require.NoError(t, doc.Save(path))
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, operation.OutputDirName, "temp_*"))
	require.NoError(t, err)
	return matches
}

func fastConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{Host: config.HostArgs{TerminateWait: "1ms"}}
	require.NoError(t, config.Validate(context.Background(), cfg))
	return cfg
}

func TestMergeEmptyDirectory(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	rec := &recorder{}

	op := operation.NewMergeOperation(dir, operation.Options{Notifier: rec, Platform: "linux"})
	err := op.Execute(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, selector.ErrNoDocuments), "empty directory should fail with no documents")
	assert.NoDirExists(t, filepath.Join(dir, operation.OutputDirName), "no output directory should be created")

	notes := rec.all()
	require.Len(t, notes, 1, "exactly one terminal notification")
	assert.Equal(t, operation.LevelError, notes[0].Level)
	assert.Equal(t, err, op.Report().Err)
}

func TestMergeMissingDirectory(t *testing.T) {
	ctx, _ := testContext(t)
	rec := &recorder{}

	op := operation.NewMergeOperation(filepath.Join(t.TempDir(), "nope"), operation.Options{Notifier: rec})
	err := op.Execute(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, selector.ErrDirectory))
	assert.Len(t, rec.all(), 1)
}

func TestMergeStructuralEndToEnd(t *testing.T) {
	ctx, lg := testContext(t)
	dir := t.TempDir()

	writeDocx(t, filepath.Join(dir, "a.docx"), "first")
	writeDocx(t, filepath.Join(dir, "b.docx"), "second")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.docx"), []byte("corrupt"), 0o644))
	writeDocx(t, filepath.Join(dir, "d.docx"), "fourth")
	writeDocx(t, filepath.Join(dir, "~$a.docx"), "lock")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	rec := &recorder{}

	op := operation.NewMergeOperation(dir, operation.Options{Notifier: rec, Platform: "linux"})
	require.NoError(t, op.Execute(ctx))

	rep := op.Report()
	require.NotNil(t, rep.Merge)
	assert.Equal(t, merge.SimpleAppend, rep.Strategy)
	assert.Equal(t, filepath.Join(dir, operation.OutputDirName, operation.OutputFileName), rep.Output)
	assert.NotEmpty(t, rep.RunID)

	assert.Equal(t, 3, rep.Merge.PageMap.Len(), "corrupt source should be skipped")
	require.Len(t, rep.Merge.Skipped, 1)
	assert.Equal(t, "c", rep.Merge.Skipped[0].Source.DisplayName)
	assert.Equal(t, 1, lg.SkipCount(), "exactly one skip event should be logged")
	require.NoError(t, rep.Merge.PageMap.Validate())

	require.NoError(t, rep.TOCError)
	require.NotNil(t, rep.TOC)
	assert.Equal(t, 3, rep.TOC.Linked)
	assert.Empty(t, rep.TOC.Degraded)

	out, err := docx.Open(rep.Output)
	require.NoError(t, err)
	paras, err := out.Paragraphs()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(paras), 4)
	assert.Equal(t, []string{config.DefaultTOCTitle, "a\t1", "b\t2", "d\t3"}, paras[:4])
	assert.Contains(t, paras, "first")
	assert.Contains(t, paras, "second")
	assert.Contains(t, paras, "fourth")
	assert.NotContains(t, paras, "lock")

	assert.Empty(t, tempFiles(t, dir))

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, operation.LevelSuccess, notes[0].Level)
	assert.Contains(t, notes[0].Message, "merged 3 documents")
	assert.Contains(t, notes[0].Message, "1 skipped")
}

func TestMergeNothingMerged(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.docx"), []byte("corrupt"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.docx"), []byte("corrupt"), 0o644))

	op := operation.NewMergeOperation(dir, operation.Options{Platform: "linux"})
	err := op.Execute(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, merge.ErrNothingMerged))
	assert.NoFileExists(t, filepath.Join(dir, operation.OutputDirName, operation.OutputFileName))
	assert.NoDirExists(t, filepath.Join(dir, operation.OutputDirName), "empty output directory should be removed")
}

func TestMergeUnknownStrategy(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "first")

	op := operation.NewMergeOperation(dir, operation.Options{Strategy: "fastest"})
	err := op.Execute(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, merge.ErrUnknownStrategy))
	assert.NoDirExists(t, filepath.Join(dir, operation.OutputDirName))
}

func TestMergeLiveHostRequired(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "first")
	rec := &recorder{}

	op := operation.NewMergeOperation(dir, operation.Options{
		Strategy: string(merge.LiveHost),
		Notifier: rec,
	})
	err := op.Execute(ctx)

	require.Error(t, err)
	assert.True(t, errors.Is(err, backend.ErrHostUnavailable), "live-host without a host should be fatal")
	assert.NoDirExists(t, filepath.Join(dir, operation.OutputDirName))
	require.Len(t, rec.all(), 1)
	assert.Equal(t, operation.LevelError, rec.all()[0].Level)
}

func liveFixture(t *testing.T, dir string) *backendtest.Host {
	t.Helper()
	be := backendtest.New(backend.TierLive)
	require.NoError(t, be.Add(filepath.Join(dir, "a.docx"), backendtest.Source{Paragraphs: []string{"a1", "a2"}, Pages: 2}))
	require.NoError(t, be.Add(filepath.Join(dir, "b.doc"), backendtest.Source{Paragraphs: []string{"b1"}, Pages: 1}))
	require.NoError(t, be.Add(filepath.Join(dir, "c.docx"), backendtest.Source{Paragraphs: []string{"c1"}, Pages: 3}))
	return &backendtest.Host{Backend: be}
}

func TestMergeLiveUpgrade(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	host := liveFixture(t, dir)
	rec := &recorder{}

	op := operation.NewMergeOperation(dir, operation.Options{
		Config:   fastConfig(t),
		Host:     host,
		Notifier: rec,
		Platform: "windows",
	})
	require.NoError(t, op.Execute(ctx))

	rep := op.Report()
	assert.Equal(t, merge.LiveHost, rep.Strategy, "simple-append should be upgraded when the host is there")
	assert.Equal(t, 1, host.Starts)
	assert.Equal(t, 1, host.Backend.Quits, "the session should be quit")
	assert.Empty(t, host.Backend.OpenHandles(), "every document should be closed")

	require.Equal(t, 3, rep.Merge.PageMap.Len())
	pages := []int{}
	for _, e := range rep.Merge.PageMap.Entries() {
		pages = append(pages, e.StartPage)
	}
	assert.Equal(t, []int{1, 3, 4}, pages, "live pages come from the host")

	assert.Equal(t, []string{filepath.Join(dir, "b.doc")}, host.Backend.Converts)
	assert.Empty(t, tempFiles(t, dir), "converted copies should be removed")

	// without a live editor the structural one cannot read the fake output
	require.Error(t, rep.TOCError)
	assert.True(t, errors.Is(rep.TOCError, toc.ErrSynthesis))
	assert.FileExists(t, rep.Output, "the document is delivered without a table of contents")

	notes := rec.all()
	require.Len(t, notes, 1)
	assert.Equal(t, operation.LevelSuccess, notes[0].Level)
	assert.Contains(t, notes[0].Message, "without table of contents")
}

func TestMergeNoUpgradeOffPlatform(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "first")
	host := &backendtest.Host{Backend: backendtest.New(backend.TierLive)}

	op := operation.NewMergeOperation(dir, operation.Options{Host: host, Platform: "linux"})
	require.NoError(t, op.Execute(ctx))

	assert.Equal(t, merge.SimpleAppend, op.Report().Strategy)
	assert.Zero(t, host.Starts)
}

func TestMergeLiveEditorFailure(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	host := liveFixture(t, dir)

	editor := mockery.NewMockEditor_toc(t)
	editor.EXPECT().Open(mock.Anything, filepath.Join(dir, operation.OutputDirName, operation.OutputFileName)).
		Return(nil, assert.AnError)

	op := operation.NewMergeOperation(dir, operation.Options{
		Config:   fastConfig(t),
		Host:     host,
		Editor:   editor,
		Strategy: string(merge.LiveHost),
	})
	require.NoError(t, op.Execute(ctx), "a failed table of contents does not fail the run")

	rep := op.Report()
	require.Error(t, rep.TOCError)
	assert.True(t, errors.Is(rep.TOCError, toc.ErrSynthesis))
	assert.GreaterOrEqual(t, host.Terminations, 1, "stale hosts should be terminated before synthesis")
}

type panicHost struct {
	backend.NoHost
}

func (panicHost) Available(ctx context.Context) bool {
	panic("probe exploded")
}

func TestMergeRecoversPanic(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "first")
	rec := &recorder{}

	op := operation.NewMergeOperation(dir, operation.Options{Host: panicHost{}, Notifier: rec})

	var err error
	require.NotPanics(t, func() { err = op.Execute(ctx) })
	require.Error(t, err)
	assert.True(t, errors.Is(err, operation.ErrPanic))
	assert.Contains(t, err.Error(), "probe exploded")
	require.Len(t, rec.all(), 1)
	assert.Equal(t, operation.LevelError, rec.all()[0].Level)
}

func TestMergeIdempotent(t *testing.T) {
	ctx, _ := testContext(t)
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "a.docx"), "first")
	writeDocx(t, filepath.Join(dir, "b.docx"), "second")

	run := func() merge.PageMap {
		op := operation.NewMergeOperation(dir, operation.Options{Platform: "linux"})
		require.NoError(t, op.Execute(ctx))
		return op.Report().Merge.PageMap
	}

	first, second := run(), run()
	assert.Equal(t, first.Entries(), second.Entries(), "the output directory should not be picked up as a source")
}
