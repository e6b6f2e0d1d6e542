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

// Package toc writes the table of contents at the start of a merged
// document: a title, one linked line per merged source and a page break.
package toc

import (
	"context"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/merge"
)

var (
	ErrHyperlink  = errors.Base("toc entry hyperlink failed")
	ErrFormatting = errors.Base("toc entry formatting failed")
	ErrSynthesis  = errors.Base("table of contents synthesis failed")
)

// 🖋️ Style is how the table looks, sizes and positions in points
type Style struct {
	Title       string
	Font        string
	TitleSizePt float64
	EntrySizePt float64
	TabStopPt   float64
}

// StyleFromConfig returns the style of a validated toc section.
func StyleFromConfig(args config.TOCArgs) Style {
	return Style{
		Title:       args.Title,
		Font:        args.Font,
		TitleSizePt: args.TitleSize,
		EntrySizePt: args.EntrySize,
		TabStopPt:   args.TabStop,
	}
}

// DefaultStyle is the style of the default configuration.
func DefaultStyle() Style {
	return StyleFromConfig(config.Default().TOC)
}

// Line is one entry of the table.
type Line struct {
	Source string
	Text   string // display name, a tab, then the page
	Anchor string
}

// LineFor renders a page map entry. The page is shifted by one for the page
// the table itself takes.
func LineFor(e merge.Entry) Line {
	return Line{
		Source: e.SourcePath,
		Text:   e.DisplayName + "\t" + strconv.Itoa(e.StartPage+1),
		Anchor: e.Anchor,
	}
}

// ✏️ Editor opens a saved document for table insertion
type Editor interface {
	Open(ctx context.Context, path string) (Session, error)
}

// Session inserts the table block by block at the start of the document.
// Format and Link act on the entry inserted last.
type Session interface {
	InsertTitle(ctx context.Context, title string, style Style) error
	InsertEntry(ctx context.Context, line Line) error
	FormatEntry(ctx context.Context, style Style) error
	LinkEntry(ctx context.Context, anchor string) error
	InsertPageBreak(ctx context.Context) error
	Save(ctx context.Context) error
	Close(ctx context.Context) error
}

// Terminator force-stops stale host instances that could hold a file lock.
type Terminator interface {
	Terminate(ctx context.Context) error
}

// Degraded is an entry kept without its link or formatting. There is one per
// line; Err matches ErrFormatting, ErrHyperlink or both.
type Degraded struct {
	Line Line
	Err  error
}

// 📑 Report describes the table that was written
type Report struct {
	Path     string
	Entries  []Line
	Linked   int
	Degraded []Degraded
}

// 🏗️ Synthesizer writes tables of contents through an Editor
type Synthesizer struct {
	Editor        Editor
	Terminator    Terminator // optional
	TerminateWait time.Duration
	Style         Style
}

// Synthesize writes the table for pm into the document at path. Entry level
// failures degrade the entry and are listed in the report; any other failure
// is an ErrSynthesis and leaves the saved document as it was.
func (s *Synthesizer) Synthesize(ctx context.Context, path string, pm merge.PageMap) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	if pm.Len() == 0 {
		return nil, errors.Errorf("empty page map: %w", ErrSynthesis)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Errorf("%v: %w", err, ErrSynthesis)
	}
	if s.Editor == nil {
		return nil, errors.Errorf("no editor: %w", ErrSynthesis)
	}

	s.terminate(ctx, "before opening")
	defer s.terminate(ctx, "after synthesis")

	if err := s.wait(ctx); err != nil {
		return nil, errors.Errorf("waiting for host shutdown: %v: %w", err, ErrSynthesis)
	}

	sess, err := s.Editor.Open(ctx, path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %v: %w", path, err, ErrSynthesis)
	}
	defer func() {
		if cerr := sess.Close(ctx); cerr != nil {
			logger.Warn().Err(cerr).Str("path", path).Msg("closing toc session")
		}
	}()

	style := s.Style
	if style == (Style{}) {
		style = DefaultStyle()
	}

	if err := sess.InsertTitle(ctx, style.Title, style); err != nil {
		return nil, errors.Errorf("inserting title: %v: %w", err, ErrSynthesis)
	}

	entries := pm.Entries()
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Order < entries[j].Order })

	rep := &Report{Path: path}
	for _, e := range entries {
		line := LineFor(e)
		if err := sess.InsertEntry(ctx, line); err != nil {
			return nil, errors.Errorf("inserting entry %s: %v: %w", e.DisplayName, err, ErrSynthesis)
		}
		rep.Entries = append(rep.Entries, line)

		var failed []error
		if err := sess.FormatEntry(ctx, style); err != nil {
			failed = append(failed, errors.Errorf("%v: %w", err, ErrFormatting))
			logger.Warn().Err(err).Str("entry", e.DisplayName).Msg("toc entry left unformatted")
		}

		if err := sess.LinkEntry(ctx, line.Anchor); err != nil {
			failed = append(failed, errors.Errorf("%v: %w", err, ErrHyperlink))
			logger.Warn().Err(err).Str("entry", e.DisplayName).Str("anchor", line.Anchor).Msg("toc entry left without a link")
		} else {
			rep.Linked++
		}

		if len(failed) > 0 {
			rep.Degraded = append(rep.Degraded, Degraded{Line: line, Err: errors.Join(failed...)})
		}
	}

	if err := sess.InsertPageBreak(ctx); err != nil {
		return nil, errors.Errorf("inserting page break: %v: %w", err, ErrSynthesis)
	}
	if err := sess.Save(ctx); err != nil {
		return nil, errors.Errorf("saving: %v: %w", err, ErrSynthesis)
	}

	logger.Info().
		Int("entries", len(rep.Entries)).
		Int("linked", rep.Linked).
		Int("degraded", len(rep.Degraded)).
		Msg("table of contents written")

	return rep, nil
}

func (s *Synthesizer) terminate(ctx context.Context, when string) {
	if s.Terminator == nil {
		return
	}
	// best effort, cleanup must not fail the run
	if err := s.Terminator.Terminate(context.WithoutCancel(ctx)); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("when", when).Msg("terminating host instances")
	}
}

func (s *Synthesizer) wait(ctx context.Context) error {
	if s.Terminator == nil || s.TerminateWait <= 0 {
		return nil
	}
	timer := time.NewTimer(s.TerminateWait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
