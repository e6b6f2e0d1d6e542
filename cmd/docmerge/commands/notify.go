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

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/operation"
)

// ErrReported marks errors the user has already been shown.
var ErrReported = errors.Base("failure already reported")

// reportedError keeps the cause of a failure the notifier already printed.
type reportedError struct {
	err error
}

func (e reportedError) Error() string        { return e.err.Error() }
func (e reportedError) Unwrap() error        { return e.err }
func (e reportedError) Is(target error) bool { return target == ErrReported }

// 📣 consoleNotifier prints terminal notifications with pterm
type consoleNotifier struct {
	w io.Writer
}

var _ operation.Notifier = consoleNotifier{}

func newNotifier(w io.Writer) consoleNotifier {
	return consoleNotifier{w: w}
}

func (n consoleNotifier) Notify(ctx context.Context, note operation.Notification) {
	printer := pterm.Success.WithPrefix(pterm.Prefix{Text: "✅", Style: pterm.Success.Prefix.Style})
	if note.Level == operation.LevelError {
		printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌", Style: pterm.Error.Prefix.Style})
	}
	fmt.Fprint(n.w, printer.Sprintln(note.Title+": "+note.Message))
}
