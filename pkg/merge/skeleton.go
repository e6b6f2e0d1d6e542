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
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/log"
	"github.com/walteh/docmerge/pkg/selector"
	"github.com/walteh/docmerge/pkg/status"
)

// variant is what differs between strategies: how an opened source is
// prepared and how it lands in the target.
type variant interface {
	prepare(ctx context.Context, src backend.Handle) error
	appendTo(ctx context.Context, target, src backend.Handle) error
}

// skeleton is the loop every strategy shares.
type skeleton struct {
	id   ID
	opts Options
}

func (s *skeleton) ID() ID { return s.id }

func (s *skeleton) live() bool {
	return s.opts.Backend.Tier() == backend.TierLive
}

// progress tracks the merged document while sources are appended.
type progress struct {
	target  backend.Handle
	page    int
	pm      PageMap
	merged  int
	workDir string
}

// run merges sources in order. rejected holds sources refused before the
// loop, keyed by order.
func (s *skeleton) run(ctx context.Context, v variant, sources []selector.SourceDocument, outputPath string, rejected map[int]error) (res *Result, err error) {
	be := s.opts.Backend
	lg := log.FromContext(ctx)
	logger := zerolog.Ctx(ctx).With().Str("strategy", string(s.id)).Logger()
	ctx = logger.WithContext(ctx)

	ws := s.opts.Workspace
	if ws == nil {
		ws = status.New(filepath.Dir(outputPath), &logger)
	}
	defer func() {
		if cerr := ws.Cleanup(ctx); cerr != nil {
			logger.Warn().Err(cerr).Msg("temporary files left behind")
		}
	}()

	res = &Result{Strategy: s.id, OutputPath: outputPath}

	target, err := be.NewDocument(ctx)
	if err != nil {
		return nil, errors.Errorf("creating merged document: %w", err)
	}
	saved := false
	defer func() {
		if cerr := be.Close(ctx, target, !saved); cerr != nil {
			logger.Warn().Err(cerr).Msg("closing merged document")
		}
	}()

	anchors := make([]string, len(sources))
	for i, src := range sources {
		anchors[i] = Anchor(src.Order)
	}
	if err := be.ReserveAnchors(ctx, target, anchors); err != nil {
		return nil, errors.Errorf("reserving anchors: %w", err)
	}

	p := &progress{target: target, workDir: filepath.Dir(outputPath)}
	if s.live() {
		// the live counter already includes the first blank page
		p.page = 1
	}

	ws.StartOperation(ctx, len(sources))
	for i, src := range sources {
		serr, ok := rejected[src.Order]
		if !ok {
			serr = s.mergeOne(ctx, v, ws, p, src)
		}
		if errors.Is(serr, ErrRollback) {
			res.Skipped = append(res.Skipped, Skip{Source: src, Err: serr})
			res.PageMap = p.pm
			res.Pages = p.page
			return res, serr
		}
		if serr != nil {
			res.Skipped = append(res.Skipped, Skip{Source: src, Err: serr})
			lg.LogSourceOperation(ctx, log.SourceOperation{
				Path:        src.Path,
				DisplayName: src.DisplayName,
				Order:       src.Order,
				Status:      log.StatusSkipped,
				Reason:      serr.Error(),
			})
		} else {
			res.Merged = append(res.Merged, src)
		}
		ws.UpdateProgress(ctx, i+1)
	}
	ws.FinishOperation(ctx)

	res.PageMap = p.pm
	res.Pages = p.page

	if p.merged == 0 {
		return res, errors.Errorf("%d sources: %w", len(sources), ErrNothingMerged)
	}

	if err := be.Save(ctx, target, outputPath); err != nil {
		return res, errors.Errorf("saving merged document: %w", err)
	}
	saved = true

	logger.Info().
		Int("merged", p.merged).
		Int("skipped", len(res.Skipped)).
		Int("pages", p.page).
		Str("output", outputPath).
		Msg("merged document saved")

	return res, nil
}

// mergeOne appends one source. Any error means the source is skipped and the
// target is rolled back to where it was, unless the error is ErrRollback.
func (s *skeleton) mergeOne(ctx context.Context, v variant, ws *status.Manager, p *progress, src selector.SourceDocument) error {
	be := s.opts.Backend
	lg := log.FromContext(ctx)

	path, err := s.normalize(ctx, ws, p, src)
	if err != nil {
		return err
	}

	h, err := be.OpenDocument(ctx, path)
	if err != nil {
		return errors.Errorf("opening %s: %w", filepath.Base(src.Path), err)
	}
	defer func() {
		if cerr := be.Close(ctx, h, true); cerr != nil {
			zerolog.Ctx(ctx).Debug().Err(cerr).Str("source", src.Path).Msg("closing source")
		}
	}()

	if err := v.prepare(ctx, h); err != nil {
		return errors.Errorf("preparing %s: %w", filepath.Base(src.Path), err)
	}

	length, err := be.TextLength(ctx, h)
	if err != nil {
		return errors.Errorf("measuring %s: %w", filepath.Base(src.Path), err)
	}

	cp, err := be.Checkpoint(ctx, p.target)
	if err != nil {
		return errors.Errorf("checkpoint before %s: %w", filepath.Base(src.Path), err)
	}
	start, anchor, err := s.place(ctx, v, p, src, h)
	if err != nil {
		if rerr := be.Rollback(ctx, p.target, cp); rerr != nil {
			return errors.Errorf("%v: rolling back %s: %v: %w", err, filepath.Base(src.Path), rerr, ErrRollback)
		}
		return err
	}

	p.pm.add(Entry{
		SourcePath:  src.Path,
		DisplayName: src.DisplayName,
		Order:       src.Order,
		StartPage:   start,
		Anchor:      anchor,
	})
	p.merged++

	if s.live() {
		if p.page, err = be.CurrentPageCount(ctx, p.target); err != nil {
			// the entry is already in place, the next source re-reads the count
			zerolog.Ctx(ctx).Warn().Err(err).Msg("reading page count")
			p.page = start
		}
	} else {
		p.page = start + max(1, length/s.opts.CharsPerPage)
	}

	lg.LogSourceOperation(ctx, log.SourceOperation{
		Path:        src.Path,
		DisplayName: src.DisplayName,
		Order:       src.Order,
		Status:      log.StatusMerged,
		Page:        start,
	})
	return nil
}

// place writes the page break, the anchor and the content of one source into
// the target. It returns the page the source starts on.
func (s *skeleton) place(ctx context.Context, v variant, p *progress, src selector.SourceDocument, h backend.Handle) (start int, anchor string, err error) {
	be := s.opts.Backend

	if p.merged > 0 {
		if err := be.InsertPageBreak(ctx, p.target); err != nil {
			return 0, "", errors.Errorf("page break before %s: %w", filepath.Base(src.Path), err)
		}
	}

	start = p.page
	if s.live() {
		if start, err = be.CurrentPageCount(ctx, p.target); err != nil {
			return 0, "", errors.Errorf("page count before %s: %w", filepath.Base(src.Path), err)
		}
	}

	anchor = Anchor(src.Order)
	if err := be.AddBookmark(ctx, p.target, anchor, backend.PositionEnd); err != nil {
		return 0, "", errors.Errorf("bookmark %s: %w", anchor, err)
	}

	if err := v.appendTo(ctx, p.target, h); err != nil {
		return 0, "", errors.Errorf("appending %s: %w", filepath.Base(src.Path), err)
	}
	return start, anchor, nil
}

// normalize returns a path the backend can open, converting legacy sources
// into a tracked temporary artifact beside the output.
func (s *skeleton) normalize(ctx context.Context, ws *status.Manager, p *progress, src selector.SourceDocument) (string, error) {
	if s.opts.Backend.CanOpen(src.Path) {
		return src.Path, nil
	}

	tmp := backend.TempArtifactName(p.workDir, src.Order, src.Path)
	ws.TrackArtifact(ctx, tmp)
	if err := s.opts.Converter.Convert(ctx, src.Path, tmp); err != nil {
		return "", errors.Errorf("converting %s: %w", filepath.Base(src.Path), err)
	}

	log.FromContext(ctx).LogSourceOperation(ctx, log.SourceOperation{
		Path:        src.Path,
		DisplayName: src.DisplayName,
		Order:       src.Order,
		Status:      log.StatusConverted,
		Reason:      filepath.Base(tmp),
	})
	return tmp, nil
}
