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
	"runtime/debug"
	"sync/atomic"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes one operation at a time
type OperationRunner struct {
	logger  *zerolog.Logger
	async   bool
	running atomic.Bool
}

// 🏗️ NewRunner creates a new runner. An async runner executes on a
// background goroutine so the caller stays responsive.
func NewRunner(logger *zerolog.Logger, async bool) *OperationRunner {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OperationRunner{
		logger: logger,
		async:  async,
	}
}

// Running reports whether an operation is in flight.
func (r *OperationRunner) Running() bool {
	return r.running.Load()
}

// 🏃 Run executes an operation and waits for it. A second Run while one is in
// flight fails with ErrRunInProgress.
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	done, err := r.Start(ctx, op)
	if err != nil {
		return err
	}
	return <-done
}

// ⚡ Start launches an operation and returns a channel that receives its
// result once.
func (r *OperationRunner) Start(ctx context.Context, op Operation) (<-chan error, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, errors.WithStack(ErrRunInProgress)
	}

	done := make(chan error, 1)
	if !r.async {
		done <- r.execute(ctx, op)
		return done, nil
	}

	go func() {
		done <- r.execute(ctx, op)
	}()
	return done, nil
}

// execute runs op and converts a panic into ErrPanic.
func (r *OperationRunner) execute(ctx context.Context, op Operation) (err error) {
	defer r.running.Store(false)
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("stack", string(debug.Stack())).Msgf("operation panicked: %v", rec)
			err = errors.Errorf("%v: %w", rec, ErrPanic)
		}
	}()

	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("executing operation: %w", err)
	}
	return nil
}
