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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	sourceIndent = 4  // spaces to indent source entries
	nameWidth    = 35 // Base width for display name
	statusWidth  = 10 // Width for status text
)

// 🏷️ SourceStatus is the outcome of one source document
type SourceStatus string

const (
	StatusMerged    SourceStatus = "merged"
	StatusConverted SourceStatus = "converted"
	StatusSkipped   SourceStatus = "skipped"
)

// 🎯 SourceOperation represents what happened to one source document
type SourceOperation struct {
	Path        string       // Source path
	DisplayName string       // Name shown in the table of contents
	Order       int          // Position in the selection
	Status      SourceStatus // Outcome
	Page        int          // Start page, only for merged sources
	Reason      string       // Why a source was skipped
}

// 📦 RunOperation describes one merge run
type RunOperation struct {
	Directory string
	Strategy  string
	Output    string
	RunID     string
}

// 🎯 Logger is the progress channel of a merge run. Every line goes to the
// console, to zerolog and to an ordered transcript.
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunOperation
	operations []SourceOperation
	lines      []string
	skips      int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔇 Discard returns a logger that only keeps the transcript
func Discard() *Logger {
	return &Logger{
		zlog:    zerolog.Nop(),
		console: io.Discard,
	}
}

// WithZerolog mirrors structured events into z instead of the default console writer.
func (l *Logger) WithZerolog(z zerolog.Logger) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.zlog = z
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a discarding one
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return Discard()
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func statusStyle(status SourceStatus) (rune, color.Attribute) {
	switch status {
	case StatusMerged:
		return '✓', color.FgGreen
	case StatusConverted:
		return '⟳', color.FgBlue
	case StatusSkipped:
		return '✗', color.FgYellow
	default:
		return '•', color.FgCyan
	}
}

// 📝 formatSourceOperation formats a source operation for display
func formatSourceOperation(op SourceOperation, colored bool) string {
	symbol, symbolColor := statusStyle(op.Status)

	name := op.DisplayName
	if name == "" {
		name = op.Path
	}

	detail := op.Reason
	if op.Status == StatusMerged {
		detail = fmt.Sprintf("page %d", op.Page)
	}

	sym := string(symbol)
	if colored {
		sym = color.New(symbolColor).Sprint(sym)
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", sourceIndent),
		sym,
		fmt.Sprintf("%-*s", nameWidth, name),
		fmt.Sprintf("%-*s", statusWidth, op.Status),
		detail)
	return strings.TrimRight(line, " ")
}

// record writes a console line and keeps its plain form; callers hold mu
func (l *Logger) record(plain, colored string) {
	l.lines = append(l.lines, plain)
	fmt.Fprintln(l.console, colored)
}

// 📝 LogSourceOperation logs what happened to one source
func (l *Logger) LogSourceOperation(ctx context.Context, op SourceOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)
	if op.Status == StatusSkipped {
		l.skips++
	}

	l.record(formatSourceOperation(op, false), formatSourceOperation(op, true))

	ev := l.zlog.Info()
	if op.Status == StatusSkipped {
		ev = l.zlog.Warn()
	}
	ev.
		Str("source", op.Path).
		Str("display_name", op.DisplayName).
		Int("order", op.Order).
		Str("status", string(op.Status)).
		Int("page", op.Page).
		Str("reason", op.Reason).
		Msg("source operation")
}

// 📝 StartRun starts a new merge run and resets the per-run state
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.operations = nil
	l.skips = 0

	l.record(fmt.Sprintf("[merging %s]", op.Directory),
		fmt.Sprintf("[merging %s]", color.New(color.FgCyan).Sprint(op.Directory)))

	l.record(fmt.Sprintf("◆ %s • %s", op.Strategy, op.RunID),
		fmt.Sprintf("%s %s %s %s",
			color.New(color.FgMagenta).Sprint("◆"),
			color.New(color.Bold).Sprint(op.Strategy),
			color.New(color.Faint).Sprint("•"),
			color.New(color.FgYellow).Sprint(op.RunID)))

	l.zlog.Info().
		Str("directory", op.Directory).
		Str("strategy", op.Strategy).
		Str("output", op.Output).
		Str("run_id", op.RunID).
		Msg("starting merge run")
}

// 📝 EndRun ends the current merge run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return
	}

	l.zlog.Info().
		Str("run_id", l.currentRun.RunID).
		Int("sources", len(l.operations)).
		Int("skipped", l.skips).
		Msg("merge run complete")

	l.currentRun = nil
}

// Operations returns the source operations of the current or last run.
func (l *Logger) Operations() []SourceOperation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]SourceOperation(nil), l.operations...)
}

// Lines returns every status line written so far, in order and without color.
func (l *Logger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// SkipCount returns the number of skip events of the current or last run.
func (l *Logger) SkipCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.skips
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("", "")
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("docmerge")
	l.lines = append(l.lines, "docmerge • "+msg)
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("✅ "+msg, fmt.Sprintf("✅ %s", color.New(color.FgGreen).Sprint(msg)))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("⚠️  "+msg, fmt.Sprintf("⚠️  %s", color.New(color.FgYellow).Sprint(msg)))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("❌ "+msg, fmt.Sprintf("❌ %s", color.New(color.FgRed).Sprint(msg)))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("ℹ️  "+msg, fmt.Sprintf("ℹ️  %s", color.New(color.FgCyan).Sprint(msg)))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
