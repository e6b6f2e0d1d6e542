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

package operation

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/log"
	"github.com/walteh/docmerge/pkg/merge"
	"github.com/walteh/docmerge/pkg/selector"
	"github.com/walteh/docmerge/pkg/status"
	"github.com/walteh/docmerge/pkg/toc"
)

// liveOS is the platform the live host runs on.
const liveOS = "windows"

// 📋 Report is what a merge run produced
type Report struct {
	RunID     string
	Directory string
	Strategy  merge.ID
	Output    string
	Merge     *merge.Result
	TOC       *toc.Report
	// TOCError is set when the document was delivered without a table of contents.
	TOCError error
	Err      error
}

// 🔀 MergeOperation merges every document of one directory
type MergeOperation struct {
	BaseOperation
	dir    string
	report *Report
}

// 🏭 NewMergeOperation creates a merge of dir
func NewMergeOperation(dir string, opts Options) *MergeOperation {
	return &MergeOperation{
		BaseOperation: NewBaseOperation(opts),
		dir:           dir,
	}
}

// Report returns the report of the last Execute, or nil before the first.
func (op *MergeOperation) Report() *Report {
	return op.report
}

// 🏃 Execute runs selection, merge and table of contents synthesis. The
// notifier is told the outcome exactly once, panics included.
func (op *MergeOperation) Execute(ctx context.Context) (err error) {
	rep := &Report{RunID: uuid.NewString(), Directory: op.dir}
	op.report = rep

	logger := zerolog.Ctx(ctx).With().Str("run_id", rep.RunID).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("stack", string(debug.Stack())).Msgf("panic: %v", r)
			err = errors.Errorf("%v: %w", r, ErrPanic)
		}
		rep.Err = err
		op.finish(ctx, rep)
	}()

	return op.execute(ctx, rep)
}

func (op *MergeOperation) execute(ctx context.Context, rep *Report) (err error) {
	logger := zerolog.Ctx(ctx)
	lg := log.FromContext(ctx)

	dir, err := selector.ValidateDirectory(op.dir)
	if err != nil {
		return err
	}
	rep.Directory = dir

	available := op.Host.Available(ctx)
	id, err := op.resolveStrategy(ctx, available)
	if err != nil {
		return err
	}
	rep.Strategy = id

	outDir := filepath.Join(dir, OutputDirName)
	rep.Output = filepath.Join(outDir, OutputFileName)

	lg.StartRun(ctx, log.RunOperation{
		Directory: dir,
		Strategy:  string(id),
		Output:    rep.Output,
		RunID:     rep.RunID,
	})
	defer lg.EndRun(ctx)

	sources, err := selector.Select(ctx, dir, selector.OptionsFromConfig(op.Config.Selection))
	if err != nil {
		return err
	}

	ws := status.New(outDir, logger)
	if err := ws.EnsureDir(ctx); err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Cleanup(ctx); cerr != nil {
			logger.Warn().Err(cerr).Msg("temporary files left behind")
		}
		if err == nil {
			return
		}
		if _, rerr := ws.RemoveDirIfEmpty(ctx); rerr != nil {
			logger.Warn().Err(rerr).Msg("removing empty output directory")
		}
	}()

	res, err := op.merge(ctx, id, sources, rep.Output, ws)
	rep.Merge = res
	if err != nil {
		return err
	}

	rep.TOC, rep.TOCError = op.synthesize(ctx, available, rep.Output, res.PageMap)
	if rep.TOCError != nil {
		logger.Warn().Err(rep.TOCError).Msg("delivering merged document without table of contents")
	}

	return nil
}

// resolveStrategy applies the platform upgrade and the host requirement.
func (op *MergeOperation) resolveStrategy(ctx context.Context, available bool) (merge.ID, error) {
	raw := op.Strategy
	if raw == "" {
		raw = op.Config.Strategy
	}
	id, err := merge.ParseID(raw)
	if err != nil {
		return "", err
	}

	if id == merge.SimpleAppend && op.Platform == liveOS && available {
		zerolog.Ctx(ctx).Info().Str("from", string(id)).Str("to", string(merge.LiveHost)).Msg("live host available, upgrading strategy")
		id = merge.LiveHost
	}

	if id.Tier() == backend.TierLive && !available {
		return "", errors.Errorf("strategy %s: %w", id, backend.ErrHostUnavailable)
	}
	return id, nil
}

func (op *MergeOperation) merge(ctx context.Context, id merge.ID, sources []selector.SourceDocument, out string, ws *status.Manager) (*merge.Result, error) {
	opts := merge.OptionsFromConfig(op.Config)
	opts.Workspace = ws

	if id.Tier() == backend.TierLive {
		return op.mergeLive(ctx, id, opts, sources, out)
	}

	opts.Backend = backend.Structural{}
	opts.Converter = op.converter(nil)
	strat, err := merge.New(id, opts)
	if err != nil {
		return nil, err
	}
	return strat.Merge(ctx, sources, out)
}

// mergeLive runs a live strategy inside one host session. A session that
// does not quit cleanly is force-terminated.
func (op *MergeOperation) mergeLive(ctx context.Context, id merge.ID, opts merge.Options, sources []selector.SourceDocument, out string) (*merge.Result, error) {
	logger := zerolog.Ctx(ctx)

	s, err := op.Host.Start(ctx)
	if err != nil {
		return nil, errors.Errorf("starting live host: %w", err)
	}
	defer func() {
		cleanupCtx := context.WithoutCancel(ctx)
		if qerr := s.Quit(cleanupCtx); qerr != nil {
			logger.Warn().Err(qerr).Msg("quitting live host, terminating it")
			if terr := op.Host.Terminate(cleanupCtx); terr != nil {
				logger.Error().Err(terr).Msg("terminating live host")
			}
		}
	}()

	opts.Backend = s
	opts.Converter = op.converter(s)
	strat, err := merge.New(id, opts)
	if err != nil {
		return nil, err
	}
	return strat.Merge(ctx, sources, out)
}

// converter builds the legacy converter chain. A running session converts
// in place of a fresh host.
func (op *MergeOperation) converter(s backend.Session) backend.Converter {
	args := op.Config.Host
	if s == nil {
		return backend.NewConverter(args.Converter, op.Host, args.OfficeBinary)
	}
	switch args.Converter {
	case config.ConverterNone:
		return backend.Chain{}
	case config.ConverterOffice:
		return backend.Chain{backend.NewOfficeConverter(args.OfficeBinary)}
	case config.ConverterHost:
		return backend.Chain{s}
	default:
		return backend.Chain{s, backend.NewOfficeConverter(args.OfficeBinary)}
	}
}

// synthesize writes the table of contents with the live editor when the host
// is there, and with the structural editor otherwise.
func (op *MergeOperation) synthesize(ctx context.Context, available bool, out string, pm merge.PageMap) (*toc.Report, error) {
	synth := &toc.Synthesizer{
		Style:         toc.StyleFromConfig(op.Config.TOC),
		TerminateWait: op.Config.Host.TerminateWaitDuration(),
	}

	switch {
	case available && op.Editor != nil:
		synth.Editor = op.Editor
		synth.Terminator = op.Host
	case op.Config.TOC.StructuralTOC():
		synth.Editor = toc.StructuralEditor{}
	default:
		return nil, errors.Errorf("no table of contents editor: %v: %w", backend.ErrHostUnavailable, toc.ErrSynthesis)
	}

	return synth.Synthesize(ctx, out, pm)
}

// finish turns the outcome into one log line and one notification.
func (op *MergeOperation) finish(ctx context.Context, rep *Report) {
	lg := log.FromContext(ctx)

	if rep.Err != nil {
		msg := fmt.Sprintf("merge failed: %v", rep.Err)
		lg.Error(msg)
		op.Notifier.Notify(ctx, Notification{
			Level:   LevelError,
			Title:   "Merge failed",
			Message: msg,
			Err:     rep.Err,
		})
		return
	}

	merged, skipped := 0, 0
	if rep.Merge != nil {
		merged, skipped = len(rep.Merge.Merged), len(rep.Merge.Skipped)
	}
	msg := fmt.Sprintf("merged %d documents into %s", merged, rep.Output)
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", skipped)
	}
	if rep.TOCError != nil {
		lg.Warning(fmt.Sprintf("table of contents not written: %v", rep.TOCError))
		msg += ", without table of contents"
	}
	lg.Success(msg)
	op.Notifier.Notify(ctx, Notification{
		Level:   LevelSuccess,
		Title:   "Merge complete",
		Message: msg,
	})
}
