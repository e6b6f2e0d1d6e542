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

// Package backendtest provides an in-memory backend and host for tests.
package backendtest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
)

// Source is a document the fake can open.
type Source struct {
	Paragraphs []string
	Pages      int // pages the content spans on the live tier, at least 1
	OpenErr    error
	PasteErr   error
	ConvertErr error
}

// Bookmark is a bookmark placed in a fake document.
type Bookmark struct {
	Name      string
	Paragraph int // paragraph index the bookmark precedes
}

// Doc is a fake open document.
type Doc struct {
	path       string
	Paragraphs []string
	Bookmarks  []Bookmark
	Reserved   []string
	Pages      int
	Breaks     int
	Accepted   bool
	Untracked  bool
	Closed     bool
	Discarded  bool
}

func (d *Doc) Path() string { return d.path }

type checkpoint struct {
	paragraphs, bookmarks, pages, breaks int
}

type buffer struct {
	source string
	paras  []string
	pages  int
}

func (b *buffer) Source() string { return b.source }

// 🧪 Backend is an in-memory backend.Backend and backend.Session
type Backend struct {
	mu sync.Mutex

	TierValue backend.Tier
	Sources   map[string]Source
	// Legacy lets the backend open .doc files without conversion.
	Legacy bool

	Saved    map[string]*Doc
	Opened   []string
	Docs     []*Doc
	Quits    int
	Converts []string

	Rollbacks   int
	RollbackErr error
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.Session = (*Backend)(nil)
)

// New returns a fake backend of the given tier.
func New(tier backend.Tier) *Backend {
	return &Backend{
		TierValue: tier,
		Sources:   map[string]Source{},
		Saved:     map[string]*Doc{},
	}
}

// Add registers a source and writes a placeholder file for it on disk.
func (b *Backend) Add(path string, src Source) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sources[path] = src
	return os.WriteFile(path, []byte(strings.Join(src.Paragraphs, "\n")), 0o644)
}

func (b *Backend) doc(h backend.Handle) (*Doc, error) {
	d, ok := h.(*Doc)
	if !ok || d == nil {
		return nil, errors.Errorf("handle %T is not a fake document", h)
	}
	if d.Closed {
		return nil, errors.Errorf("document %s is closed", d.path)
	}
	return d, nil
}

func (b *Backend) Tier() backend.Tier { return b.TierValue }

func (b *Backend) CanOpen(path string) bool {
	return b.Legacy || !strings.EqualFold(filepath.Ext(path), ".doc")
}

func (b *Backend) NewDocument(ctx context.Context) (backend.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d := &Doc{}
	if b.TierValue == backend.TierLive {
		// a new host document already shows its first page
		d.Pages = 1
	}
	b.Docs = append(b.Docs, d)
	return d, nil
}

func (b *Backend) OpenDocument(ctx context.Context, path string) (backend.Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	src, ok := b.Sources[path]
	if !ok {
		return nil, errors.Errorf("%s: no such source: %w", path, backend.ErrDocumentOpen)
	}
	if src.OpenErr != nil {
		return nil, errors.Errorf("%s: %v: %w", path, src.OpenErr, backend.ErrDocumentOpen)
	}
	b.Opened = append(b.Opened, path)
	d := &Doc{path: path, Paragraphs: append([]string(nil), src.Paragraphs...), Pages: max(src.Pages, 1)}
	b.Docs = append(b.Docs, d)
	return d, nil
}

func (b *Backend) TextLength(ctx context.Context, h backend.Handle) (int, error) {
	d, err := b.doc(h)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, p := range d.Paragraphs {
		n += len([]rune(p))
	}
	return n, nil
}

func (b *Backend) AppendParagraphs(ctx context.Context, target, src backend.Handle) error {
	dst, err := b.doc(target)
	if err != nil {
		return err
	}
	from, err := b.doc(src)
	if err != nil {
		return err
	}
	if perr := b.Sources[from.path].PasteErr; perr != nil {
		return perr
	}
	dst.Paragraphs = append(dst.Paragraphs, from.Paragraphs...)
	dst.Pages += from.Pages - 1
	return nil
}

func (b *Backend) CopyContentRange(ctx context.Context, h backend.Handle) (backend.Buffer, error) {
	d, err := b.doc(h)
	if err != nil {
		return nil, err
	}
	return &buffer{source: d.path, paras: append([]string(nil), d.Paragraphs...), pages: d.Pages}, nil
}

func (b *Backend) PasteAtEnd(ctx context.Context, target backend.Handle, buf backend.Buffer) error {
	dst, err := b.doc(target)
	if err != nil {
		return err
	}
	fb, ok := buf.(*buffer)
	if !ok {
		return errors.Errorf("buffer %T is not a fake buffer", buf)
	}
	if perr := b.Sources[fb.source].PasteErr; perr != nil {
		return perr
	}
	dst.Paragraphs = append(dst.Paragraphs, fb.paras...)
	dst.Pages += fb.pages - 1
	return nil
}

func (b *Backend) InsertPageBreak(ctx context.Context, target backend.Handle) error {
	d, err := b.doc(target)
	if err != nil {
		return err
	}
	d.Breaks++
	d.Pages++
	d.Paragraphs = append(d.Paragraphs, "")
	return nil
}

func (b *Backend) AddBookmark(ctx context.Context, target backend.Handle, anchor string, pos backend.Position) error {
	d, err := b.doc(target)
	if err != nil {
		return err
	}
	for _, bm := range d.Bookmarks {
		if bm.Name == anchor {
			return errors.Errorf("bookmark %q already exists", anchor)
		}
	}
	at := len(d.Paragraphs)
	if pos == backend.PositionStart {
		at = 0
	}
	d.Bookmarks = append(d.Bookmarks, Bookmark{Name: anchor, Paragraph: at})
	return nil
}

func (b *Backend) ReserveAnchors(ctx context.Context, target backend.Handle, anchors []string) error {
	d, err := b.doc(target)
	if err != nil {
		return err
	}
	d.Reserved = append(d.Reserved, anchors...)
	return nil
}

func (b *Backend) Checkpoint(ctx context.Context, target backend.Handle) (backend.Checkpoint, error) {
	d, err := b.doc(target)
	if err != nil {
		return nil, err
	}
	return checkpoint{len(d.Paragraphs), len(d.Bookmarks), d.Pages, d.Breaks}, nil
}

func (b *Backend) Rollback(ctx context.Context, target backend.Handle, cp backend.Checkpoint) error {
	d, err := b.doc(target)
	if err != nil {
		return err
	}
	c, ok := cp.(checkpoint)
	if !ok {
		return errors.Errorf("checkpoint %T is not a fake checkpoint", cp)
	}
	if b.RollbackErr != nil {
		return b.RollbackErr
	}
	d.Paragraphs = d.Paragraphs[:c.paragraphs]
	d.Bookmarks = d.Bookmarks[:c.bookmarks]
	d.Pages = c.pages
	d.Breaks = c.breaks
	b.Rollbacks++
	return nil
}

func (b *Backend) CurrentPageCount(ctx context.Context, target backend.Handle) (int, error) {
	if b.TierValue != backend.TierLive {
		return 0, errors.Errorf("fake page count: %w", backend.ErrUnsupported)
	}
	d, err := b.doc(target)
	if err != nil {
		return 0, err
	}
	return d.Pages, nil
}

func (b *Backend) AcceptAllRevisions(ctx context.Context, h backend.Handle) error {
	d, err := b.doc(h)
	if err != nil {
		return err
	}
	d.Accepted = true
	return nil
}

func (b *Backend) DisableChangeTracking(ctx context.Context, h backend.Handle) error {
	d, err := b.doc(h)
	if err != nil {
		return err
	}
	d.Untracked = true
	return nil
}

// Save records a snapshot and writes the paragraphs to path.
func (b *Backend) Save(ctx context.Context, target backend.Handle, path string) error {
	d, err := b.doc(target)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	snapshot := *d
	snapshot.Paragraphs = append([]string(nil), d.Paragraphs...)
	snapshot.Bookmarks = append([]Bookmark(nil), d.Bookmarks...)
	b.Saved[path] = &snapshot
	d.path = path
	return os.WriteFile(path, []byte(strings.Join(d.Paragraphs, "\n")), 0o644)
}

func (b *Backend) Close(ctx context.Context, h backend.Handle, discardChanges bool) error {
	d, ok := h.(*Doc)
	if !ok || d == nil {
		return errors.Errorf("handle %T is not a fake document", h)
	}
	d.Closed = true
	d.Discarded = discardChanges
	return nil
}

// Convert copies the registered source to dst as a new source.
func (b *Backend) Convert(ctx context.Context, src, dst string) error {
	b.mu.Lock()
	s, ok := b.Sources[src]
	b.Converts = append(b.Converts, src)
	b.mu.Unlock()
	if !ok {
		return errors.Errorf("%s: no such source", src)
	}
	if s.ConvertErr != nil {
		return s.ConvertErr
	}
	s.ConvertErr = nil
	return b.Add(dst, s)
}

func (b *Backend) Quit(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Quits++
	return nil
}

// OpenHandles returns documents that were never closed.
func (b *Backend) OpenHandles() []*Doc {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []*Doc
	for _, d := range b.Docs {
		if !d.Closed {
			out = append(out, d)
		}
	}
	return out
}

// 🖥️ Host hands out the fake backend as its session
type Host struct {
	Backend      *Backend
	Unavailable  bool
	StartErr     error
	Starts       int
	Terminations int
	mu           sync.Mutex
}

var _ backend.Host = (*Host)(nil)

func (h *Host) Available(ctx context.Context) bool { return !h.Unavailable }

func (h *Host) Start(ctx context.Context) (backend.Session, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Unavailable {
		return nil, errors.Errorf("fake host: %w", backend.ErrHostUnavailable)
	}
	if h.StartErr != nil {
		return nil, h.StartErr
	}
	h.Starts++
	return h.Backend, nil
}

func (h *Host) Terminate(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Terminations++
	return nil
}
