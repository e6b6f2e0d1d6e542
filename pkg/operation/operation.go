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
	"runtime"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/toc"
)

// 📁 Fixed output location, relative to the input directory
const (
	OutputDirName  = "合并结果"
	OutputFileName = "合并完成文档.docx"
)

var (
	ErrPanic         = errors.Base("merge run panicked")
	ErrRunInProgress = errors.Base("a merge run is already in progress")
)

// 🎯 Operation is one unit of work driven by a Runner
type Operation interface {
	Execute(ctx context.Context) error
}

// 🔔 Level of a terminal notification
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelSuccess {
		return "success"
	}
	return "error"
}

// Notification is the one terminal message of a run.
type Notification struct {
	Level   Level
	Title   string
	Message string
	Err     error
}

// 📣 Notifier shows terminal notifications to the user
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

type discardNotifier struct{}

func (discardNotifier) Notify(context.Context, Notification) {}

// 🔧 Options contains the collaborators of an operation
type Options struct {
	// Config is the validated run configuration. Defaults are used when nil.
	Config *config.Config
	// Host is the live document application. NoHost when nil.
	Host backend.Host
	// Editor writes the table of contents through the live host.
	Editor toc.Editor
	// Notifier receives the terminal notification of a run.
	Notifier Notifier
	// Strategy overrides Config.Strategy when set.
	Strategy string
	// Platform is the operating system the run is on. runtime.GOOS when empty.
	Platform string
}

// 🧱 BaseOperation holds what every operation shares
type BaseOperation struct {
	Config   *config.Config
	Host     backend.Host
	Editor   toc.Editor
	Notifier Notifier
	Strategy string
	Platform string
}

// 🏗️ NewBaseOperation fills in defaults for missing options
func NewBaseOperation(opts Options) BaseOperation {
	base := BaseOperation{
		Config:   opts.Config,
		Host:     opts.Host,
		Editor:   opts.Editor,
		Notifier: opts.Notifier,
		Strategy: opts.Strategy,
		Platform: opts.Platform,
	}
	if base.Config == nil {
		base.Config = config.Default()
	}
	if base.Host == nil {
		base.Host = backend.NoHost{}
	}
	if base.Notifier == nil {
		base.Notifier = discardNotifier{}
	}
	if base.Platform == "" {
		base.Platform = runtime.GOOS
	}
	return base
}
