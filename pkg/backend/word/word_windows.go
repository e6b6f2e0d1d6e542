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

//go:build windows

package word

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/host"
	"github.com/walteh/docmerge/pkg/toc"
)

// Available reports whether Word is registered on this machine.
func (h *Host) Available(ctx context.Context) bool {
	t, err := host.Start(ctx, h.callTimeout, coInitialize, ole.CoUninitialize)
	if err != nil {
		return false
	}
	defer t.Close()

	err = t.Do(ctx, "probe", func() error {
		_, err := oleutil.ClassIDFrom(progID)
		return err
	})
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("word is not registered")
		return false
	}
	return true
}

func coInitialize() error {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		// S_FALSE means the apartment already exists
		var oleErr *ole.OleError
		if errors.As(err, &oleErr) && oleErr.Code() == 1 {
			return nil
		}
		return err
	}
	return nil
}

// Start launches a hidden Word instance on its own thread.
func (h *Host) Start(ctx context.Context) (backend.Session, error) {
	var app *ole.IDispatch

	setup := func() error {
		if err := coInitialize(); err != nil {
			return err
		}
		unknown, err := oleutil.CreateObject(progID)
		if err != nil {
			return err
		}
		defer unknown.Release()
		app, err = unknown.QueryInterface(ole.IID_IDispatch)
		if err != nil {
			return err
		}
		if _, err := oleutil.PutProperty(app, "Visible", false); err != nil {
			return err
		}
		_, err = oleutil.PutProperty(app, "DisplayAlerts", wdAlertsNone)
		return err
	}
	teardown := func() {
		if app != nil {
			app.Release()
		}
		ole.CoUninitialize()
	}

	t, err := host.Start(ctx, h.callTimeout, setup, teardown)
	if err != nil {
		return nil, errors.Errorf("starting %s: %v: %w", progID, err, backend.ErrHostUnavailable)
	}
	zerolog.Ctx(ctx).Debug().Msg("word session started")
	return &session{t: t, app: app}, nil
}

// Terminate kills every running Word process.
func (h *Host) Terminate(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "taskkill", "/f", "/im", "WINWORD.EXE").CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		// 128: no such process
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 128 {
			return nil
		}
		return errors.Errorf("taskkill: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// document is an open Word document.
type document struct {
	path string
	disp *ole.IDispatch
}

func (d *document) Path() string { return d.path }

// rangeBuffer is the content range of a source document.
type rangeBuffer struct {
	source string
	rng    *ole.IDispatch
}

func (b *rangeBuffer) Source() string { return b.source }

// 🧵 session is one Word instance. All calls go through its thread.
type session struct {
	t   *host.Thread
	app *ole.IDispatch
}

var _ backend.Session = (*session)(nil)

func (s *session) do(ctx context.Context, name string, fn func() error) error {
	return s.t.Do(ctx, name, fn)
}

func handle(h backend.Handle) (*document, error) {
	d, ok := h.(*document)
	if !ok || d == nil || d.disp == nil {
		return nil, errors.Errorf("handle %T is not a word document", h)
	}
	return d, nil
}

// get returns a property holding a COM object. The caller releases it.
func get(d *ole.IDispatch, name string, args ...interface{}) (*ole.IDispatch, error) {
	v, err := oleutil.GetProperty(d, name, args...)
	if err != nil {
		return nil, errors.Errorf("%s: %w", name, err)
	}
	return v.ToIDispatch(), nil
}

func call(d *ole.IDispatch, name string, args ...interface{}) error {
	v, err := oleutil.CallMethod(d, name, args...)
	if err != nil {
		return errors.Errorf("%s: %w", name, err)
	}
	return v.Clear()
}

func put(d *ole.IDispatch, name string, args ...interface{}) error {
	if _, err := oleutil.PutProperty(d, name, args...); err != nil {
		return errors.Errorf("%s: %w", name, err)
	}
	return nil
}

func toInt(v *ole.VARIANT) int {
	switch n := v.Value().(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int16:
		return int(n)
	case uint32:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// endRange returns a collapsed range at the start or the end of the body.
func endRange(doc *ole.IDispatch, where int) (*ole.IDispatch, error) {
	rng, err := get(doc, "Content")
	if err != nil {
		return nil, err
	}
	if err := call(rng, "Collapse", where); err != nil {
		rng.Release()
		return nil, err
	}
	return rng, nil
}

func (s *session) Tier() backend.Tier { return backend.TierLive }

// CanOpen is true for both formats, Word reads legacy files natively.
func (s *session) CanOpen(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".doc" || ext == ".docx"
}

func (s *session) documents() (*ole.IDispatch, error) {
	return get(s.app, "Documents")
}

func (s *session) NewDocument(ctx context.Context) (backend.Handle, error) {
	return host.Call(ctx, s.t, "Documents.Add", func() (backend.Handle, error) {
		docs, err := s.documents()
		if err != nil {
			return nil, err
		}
		defer docs.Release()
		v, err := oleutil.CallMethod(docs, "Add")
		if err != nil {
			return nil, err
		}
		return &document{disp: v.ToIDispatch()}, nil
	})
}

func (s *session) open(path string) (*document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	docs, err := s.documents()
	if err != nil {
		return nil, err
	}
	defer docs.Release()
	// FileName, ConfirmConversions, ReadOnly, AddToRecentFiles
	v, err := oleutil.CallMethod(docs, "Open", abs, false, false, false)
	if err != nil {
		return nil, err
	}
	return &document{path: abs, disp: v.ToIDispatch()}, nil
}

func (s *session) OpenDocument(ctx context.Context, path string) (backend.Handle, error) {
	doc, err := host.Call(ctx, s.t, "Documents.Open", func() (*document, error) {
		return s.open(path)
	})
	if err != nil {
		return nil, errors.Errorf("%s: %v: %w", filepath.Base(path), err, backend.ErrDocumentOpen)
	}
	return doc, nil
}

func (s *session) TextLength(ctx context.Context, h backend.Handle) (int, error) {
	d, err := handle(h)
	if err != nil {
		return 0, err
	}
	return host.Call(ctx, s.t, "Content.Text", func() (int, error) {
		rng, err := get(d.disp, "Content")
		if err != nil {
			return 0, err
		}
		defer rng.Release()
		v, err := oleutil.GetProperty(rng, "Text")
		if err != nil {
			return 0, err
		}
		return utf8.RuneCountInString(v.ToString()), nil
	})
}

func (s *session) AppendParagraphs(ctx context.Context, target, src backend.Handle) error {
	dst, err := handle(target)
	if err != nil {
		return err
	}
	from, err := handle(src)
	if err != nil {
		return err
	}
	return s.do(ctx, "InsertAfter", func() error {
		srcRange, err := get(from.disp, "Content")
		if err != nil {
			return err
		}
		defer srcRange.Release()
		v, err := oleutil.GetProperty(srcRange, "Text")
		if err != nil {
			return err
		}
		dstRange, err := get(dst.disp, "Content")
		if err != nil {
			return err
		}
		defer dstRange.Release()
		return call(dstRange, "InsertAfter", v.ToString())
	})
}

func (s *session) CopyContentRange(ctx context.Context, h backend.Handle) (backend.Buffer, error) {
	d, err := handle(h)
	if err != nil {
		return nil, err
	}
	return host.Call(ctx, s.t, "Content", func() (backend.Buffer, error) {
		rng, err := get(d.disp, "Content")
		if err != nil {
			return nil, err
		}
		return &rangeBuffer{source: d.path, rng: rng}, nil
	})
}

// PasteAtEnd transfers the formatted text of the buffer, the clipboard is
// never touched.
func (s *session) PasteAtEnd(ctx context.Context, target backend.Handle, buf backend.Buffer) error {
	dst, err := handle(target)
	if err != nil {
		return err
	}
	rb, ok := buf.(*rangeBuffer)
	if !ok || rb == nil || rb.rng == nil {
		return errors.Errorf("buffer %T is not a word range", buf)
	}
	return s.do(ctx, "FormattedText", func() error {
		defer rb.rng.Release()
		end, err := endRange(dst.disp, wdCollapseEnd)
		if err != nil {
			return err
		}
		defer end.Release()
		return put(end, "FormattedText", rb.rng)
	})
}

func (s *session) InsertPageBreak(ctx context.Context, target backend.Handle) error {
	dst, err := handle(target)
	if err != nil {
		return err
	}
	return s.do(ctx, "InsertBreak", func() error {
		end, err := endRange(dst.disp, wdCollapseEnd)
		if err != nil {
			return err
		}
		defer end.Release()
		return call(end, "InsertBreak", wdPageBreak)
	})
}

func (s *session) AddBookmark(ctx context.Context, target backend.Handle, anchor string, pos backend.Position) error {
	dst, err := handle(target)
	if err != nil {
		return err
	}
	where := wdCollapseEnd
	if pos == backend.PositionStart {
		where = wdCollapseStart
	}
	return s.do(ctx, "Bookmarks.Add", func() error {
		rng, err := endRange(dst.disp, where)
		if err != nil {
			return err
		}
		defer rng.Release()
		marks, err := get(dst.disp, "Bookmarks")
		if err != nil {
			return err
		}
		defer marks.Release()
		return call(marks, "Add", anchor, rng)
	})
}

// Word's Bookmarks.Add moves an existing bookmark, so anchors need no
// reservation on this tier.
func (s *session) ReserveAnchors(ctx context.Context, target backend.Handle, anchors []string) error {
	_, err := handle(target)
	return err
}

// checkpoint is the content end and the bookmarks present when it was taken.
type checkpoint struct {
	end   int
	marks map[string]bool
}

func contentEnd(doc *ole.IDispatch) (int, error) {
	rng, err := get(doc, "Content")
	if err != nil {
		return 0, err
	}
	defer rng.Release()
	v, err := oleutil.GetProperty(rng, "End")
	if err != nil {
		return 0, errors.Errorf("End: %w", err)
	}
	return toInt(v), nil
}

// bookmarkNames returns every bookmark name, indexed from 1 like the
// collection.
func bookmarkNames(doc *ole.IDispatch) ([]string, error) {
	marks, err := get(doc, "Bookmarks")
	if err != nil {
		return nil, err
	}
	defer marks.Release()
	v, err := oleutil.GetProperty(marks, "Count")
	if err != nil {
		return nil, errors.Errorf("Count: %w", err)
	}
	names := make([]string, toInt(v))
	for i := range names {
		mark, err := get(marks, "Item", i+1)
		if err != nil {
			return nil, err
		}
		name, err := oleutil.GetProperty(mark, "Name")
		mark.Release()
		if err != nil {
			return nil, errors.Errorf("Name: %w", err)
		}
		names[i] = name.ToString()
	}
	return names, nil
}

func (s *session) Checkpoint(ctx context.Context, target backend.Handle) (backend.Checkpoint, error) {
	dst, err := handle(target)
	if err != nil {
		return nil, err
	}
	return host.Call(ctx, s.t, "Checkpoint", func() (backend.Checkpoint, error) {
		end, err := contentEnd(dst.disp)
		if err != nil {
			return nil, err
		}
		names, err := bookmarkNames(dst.disp)
		if err != nil {
			return nil, err
		}
		cp := checkpoint{end: end, marks: map[string]bool{}}
		for _, name := range names {
			cp.marks[name] = true
		}
		return cp, nil
	})
}

// Rollback deletes the text after the checkpoint, keeping the final
// paragraph mark, then every bookmark added since.
func (s *session) Rollback(ctx context.Context, target backend.Handle, c backend.Checkpoint) error {
	dst, err := handle(target)
	if err != nil {
		return err
	}
	cp, ok := c.(checkpoint)
	if !ok {
		return errors.Errorf("checkpoint %T is not a word checkpoint", c)
	}
	return s.do(ctx, "Rollback", func() error {
		end, err := contentEnd(dst.disp)
		if err != nil {
			return err
		}
		if end > cp.end {
			v, err := oleutil.CallMethod(dst.disp, "Range", cp.end-1, end-1)
			if err != nil {
				return errors.Errorf("Range: %w", err)
			}
			rng := v.ToIDispatch()
			err = call(rng, "Delete")
			rng.Release()
			if err != nil {
				return err
			}
		}

		names, err := bookmarkNames(dst.disp)
		if err != nil {
			return err
		}
		marks, err := get(dst.disp, "Bookmarks")
		if err != nil {
			return err
		}
		defer marks.Release()
		for _, name := range names {
			if cp.marks[name] {
				continue
			}
			mark, err := get(marks, "Item", name)
			if err != nil {
				return err
			}
			err = call(mark, "Delete")
			mark.Release()
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *session) CurrentPageCount(ctx context.Context, target backend.Handle) (int, error) {
	dst, err := handle(target)
	if err != nil {
		return 0, err
	}
	return host.Call(ctx, s.t, "ComputeStatistics", func() (int, error) {
		v, err := oleutil.CallMethod(dst.disp, "ComputeStatistics", wdStatisticPages)
		if err != nil {
			return 0, err
		}
		return toInt(v), nil
	})
}

func (s *session) AcceptAllRevisions(ctx context.Context, h backend.Handle) error {
	d, err := handle(h)
	if err != nil {
		return err
	}
	return s.do(ctx, "Revisions.AcceptAll", func() error {
		revs, err := get(d.disp, "Revisions")
		if err != nil {
			return err
		}
		defer revs.Release()
		return call(revs, "AcceptAll")
	})
}

func (s *session) DisableChangeTracking(ctx context.Context, h backend.Handle) error {
	d, err := handle(h)
	if err != nil {
		return err
	}
	return s.do(ctx, "TrackRevisions", func() error {
		return put(d.disp, "TrackRevisions", false)
	})
}

func (s *session) Save(ctx context.Context, target backend.Handle, path string) error {
	dst, err := handle(target)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving %s: %w", path, err)
	}
	err = s.do(ctx, "SaveAs2", func() error {
		return call(dst.disp, "SaveAs2", abs, wdFormatDocumentDefault)
	})
	if err != nil {
		return err
	}
	dst.path = abs
	return nil
}

func (s *session) Close(ctx context.Context, h backend.Handle, discardChanges bool) error {
	d, err := handle(h)
	if err != nil {
		return err
	}
	mode := wdSaveChanges
	if discardChanges {
		mode = wdDoNotSaveChanges
	}
	err = s.do(ctx, "Close", func() error {
		defer d.disp.Release()
		return call(d.disp, "Close", mode)
	})
	d.disp = nil
	return err
}

// Convert opens a legacy document and saves it in the current format.
func (s *session) Convert(ctx context.Context, src, dst string) error {
	abs, err := filepath.Abs(dst)
	if err != nil {
		return err
	}
	return s.do(ctx, "Convert", func() error {
		doc, err := s.open(src)
		if err != nil {
			return err
		}
		defer func() {
			_ = call(doc.disp, "Close", wdDoNotSaveChanges)
			doc.disp.Release()
		}()
		return call(doc.disp, "SaveAs2", abs, wdFormatDocumentDefault)
	})
}

// Quit closes Word and stops the thread. A stuck thread is left behind, the
// process is killed by Terminate.
func (s *session) Quit(ctx context.Context) error {
	defer s.t.Close()
	if s.t.Stuck() {
		return errors.Errorf("quitting %s: %w", progID, host.ErrStuck)
	}
	return s.do(ctx, "Quit", func() error {
		return call(s.app, "Quit", wdDoNotSaveChanges)
	})
}

// Open starts a session and opens path for table insertion. Closing the toc
// session also quits Word.
func (e *Editor) Open(ctx context.Context, path string) (toc.Session, error) {
	bs, err := e.host.Start(ctx)
	if err != nil {
		return nil, err
	}
	s := bs.(*session)
	h, err := s.OpenDocument(ctx, path)
	if err != nil {
		_ = s.Quit(ctx)
		return nil, err
	}
	return &tocSession{s: s, doc: h.(*document)}, nil
}

// tocSession inserts blocks at a cursor that starts at the top of the
// document and moves past every inserted block.
type tocSession struct {
	s         *session
	doc       *document
	pos       int
	lastStart int
	lastEnd   int
	hasEntry  bool
}

var _ toc.Session = (*tocSession)(nil)

// insert writes text plus a paragraph mark at the cursor and returns the
// range that now holds it. The caller releases it.
func (ts *tocSession) insert(text string) (*ole.IDispatch, error) {
	v, err := oleutil.CallMethod(ts.doc.disp, "Range", ts.pos, ts.pos)
	if err != nil {
		return nil, errors.Errorf("Range: %w", err)
	}
	rng := v.ToIDispatch()
	if err := put(rng, "Text", text+"\r"); err != nil {
		rng.Release()
		return nil, err
	}
	start, err := oleutil.GetProperty(rng, "Start")
	if err != nil {
		rng.Release()
		return nil, err
	}
	end, err := oleutil.GetProperty(rng, "End")
	if err != nil {
		rng.Release()
		return nil, err
	}
	ts.lastStart, ts.lastEnd = toInt(start), toInt(end)
	ts.pos = ts.lastEnd
	return rng, nil
}

func formatRange(rng *ole.IDispatch, font string, sizePt float64, bold bool, align int) error {
	f, err := get(rng, "Font")
	if err != nil {
		return err
	}
	defer f.Release()
	if err := put(f, "Name", font); err != nil {
		return err
	}
	if err := put(f, "Size", sizePt); err != nil {
		return err
	}
	if err := put(f, "Bold", bold); err != nil {
		return err
	}

	pf, err := get(rng, "ParagraphFormat")
	if err != nil {
		return err
	}
	defer pf.Release()
	if err := put(pf, "Alignment", align); err != nil {
		return err
	}
	if err := put(pf, "SpaceBefore", 0); err != nil {
		return err
	}
	if err := put(pf, "SpaceAfter", 0); err != nil {
		return err
	}
	return put(pf, "LineSpacingRule", wdLineSpaceSingle)
}

func (ts *tocSession) InsertTitle(ctx context.Context, title string, style toc.Style) error {
	return ts.s.do(ctx, "InsertTitle", func() error {
		rng, err := ts.insert(title)
		if err != nil {
			return err
		}
		defer rng.Release()
		return formatRange(rng, style.Font, style.TitleSizePt, true, wdAlignParagraphCenter)
	})
}

func (ts *tocSession) InsertEntry(ctx context.Context, line toc.Line) error {
	err := ts.s.do(ctx, "InsertEntry", func() error {
		rng, err := ts.insert(line.Text)
		if err != nil {
			return err
		}
		rng.Release()
		return nil
	})
	ts.hasEntry = err == nil
	return err
}

func (ts *tocSession) lastRange(withMark bool) (*ole.IDispatch, error) {
	if !ts.hasEntry {
		return nil, errors.Errorf("no entry inserted")
	}
	end := ts.lastEnd
	if !withMark {
		end--
	}
	v, err := oleutil.CallMethod(ts.doc.disp, "Range", ts.lastStart, end)
	if err != nil {
		return nil, errors.Errorf("Range: %w", err)
	}
	return v.ToIDispatch(), nil
}

func (ts *tocSession) FormatEntry(ctx context.Context, style toc.Style) error {
	return ts.s.do(ctx, "FormatEntry", func() error {
		rng, err := ts.lastRange(true)
		if err != nil {
			return err
		}
		defer rng.Release()
		if err := formatRange(rng, style.Font, style.EntrySizePt, false, wdAlignParagraphLeft); err != nil {
			return err
		}

		pf, err := get(rng, "ParagraphFormat")
		if err != nil {
			return err
		}
		defer pf.Release()
		stops, err := get(pf, "TabStops")
		if err != nil {
			return err
		}
		defer stops.Release()
		if err := call(stops, "ClearAll"); err != nil {
			return err
		}
		// Position, Alignment, Leader
		return call(stops, "Add", style.TabStopPt, wdAlignTabRight, wdTabLeaderDots)
	})
}

func (ts *tocSession) LinkEntry(ctx context.Context, anchor string) error {
	return ts.s.do(ctx, "Hyperlinks.Add", func() error {
		marks, err := get(ts.doc.disp, "Bookmarks")
		if err != nil {
			return err
		}
		defer marks.Release()
		exists, err := oleutil.CallMethod(marks, "Exists", anchor)
		if err != nil {
			return errors.Errorf("Bookmarks.Exists: %w", err)
		}
		if ok, _ := exists.Value().(bool); !ok {
			return errors.Errorf("bookmark %q not found: %w", anchor, toc.ErrHyperlink)
		}

		rng, err := ts.lastRange(false)
		if err != nil {
			return err
		}
		defer rng.Release()
		links, err := get(ts.doc.disp, "Hyperlinks")
		if err != nil {
			return err
		}
		defer links.Release()
		// Anchor, Address, SubAddress
		return call(links, "Add", rng, "", anchor)
	})
}

func (ts *tocSession) InsertPageBreak(ctx context.Context) error {
	return ts.s.do(ctx, "InsertBreak", func() error {
		v, err := oleutil.CallMethod(ts.doc.disp, "Range", ts.pos, ts.pos)
		if err != nil {
			return errors.Errorf("Range: %w", err)
		}
		rng := v.ToIDispatch()
		defer rng.Release()
		return call(rng, "InsertBreak", wdPageBreak)
	})
}

func (ts *tocSession) Save(ctx context.Context) error {
	return ts.s.do(ctx, "Save", func() error {
		return call(ts.doc.disp, "Save")
	})
}

func (ts *tocSession) Close(ctx context.Context) error {
	var errs []string
	if ts.doc.disp != nil {
		if err := ts.s.Close(ctx, ts.doc, true); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := ts.s.Quit(ctx); err != nil {
		errs = append(errs, err.Error())
	}
	if len(errs) > 0 {
		return errors.Errorf("closing word session: %s", strings.Join(errs, "; "))
	}
	return nil
}
