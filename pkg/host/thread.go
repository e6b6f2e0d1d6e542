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

// Package host runs calls into a single-threaded automation host on one
// OS-locked goroutine, with a bounded wait on every call.
package host

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrTimeout = errors.Base("host call timed out")
	ErrStuck   = errors.Base("host thread is stuck after an abandoned call")
	ErrClosed  = errors.Base("host thread is closed")
)

type call struct {
	name   string
	fn     func() error
	result chan error
}

// 🧵 Thread owns one locked OS thread. Calls run one at a time in submission
// order.
type Thread struct {
	calls   chan call
	done    chan struct{}
	exited  chan struct{}
	timeout time.Duration
	stuck   atomic.Bool
	once    sync.Once
}

// Start locks a new goroutine to its OS thread and runs setup on it. teardown
// runs on the same thread when the thread is closed. A zero timeout means
// calls wait forever.
func Start(ctx context.Context, timeout time.Duration, setup func() error, teardown func()) (*Thread, error) {
	t := &Thread{
		calls:   make(chan call),
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
		timeout: timeout,
	}

	ready := make(chan error, 1)
	go t.loop(ctx, setup, teardown, ready)

	select {
	case err := <-ready:
		if err != nil {
			return nil, err
		}
		return t, nil
	case <-ctx.Done():
		t.stuck.Store(true)
		t.Close()
		return nil, errors.Errorf("starting host thread: %w", ctx.Err())
	}
}

func (t *Thread) loop(ctx context.Context, setup func() error, teardown func(), ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(t.exited)

	if setup != nil {
		if err := protect("setup", setup); err != nil {
			ready <- errors.Errorf("setting up host thread: %w", err)
			return
		}
	}
	if teardown != nil {
		defer func() {
			if err := protect("teardown", func() error { teardown(); return nil }); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("host thread teardown failed")
			}
		}()
	}
	ready <- nil

	for {
		select {
		case c := <-t.calls:
			c.result <- protect(c.name, c.fn)
		case <-t.done:
			return
		}
	}
}

// protect turns a panic inside fn into an error.
func protect(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("%s panicked: %v", name, r)
		}
	}()
	return fn()
}

// Do runs fn on the thread and waits for it, at most for the thread timeout.
// A call that times out or is cancelled is abandoned and marks the thread
// stuck; every later call fails with ErrStuck.
func (t *Thread) Do(ctx context.Context, name string, fn func() error) error {
	if t.stuck.Load() {
		return errors.Errorf("%s: %w", name, ErrStuck)
	}

	var deadline <-chan time.Time
	if t.timeout > 0 {
		timer := time.NewTimer(t.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	c := call{name: name, fn: fn, result: make(chan error, 1)}

	select {
	case t.calls <- c:
	case <-t.done:
		return errors.Errorf("%s: %w", name, ErrClosed)
	case <-ctx.Done():
		return errors.Errorf("%s: %w", name, ctx.Err())
	case <-deadline:
		t.stuck.Store(true)
		return errors.Errorf("%s: waited %s for the host: %w", name, t.timeout, ErrTimeout)
	}

	select {
	case err := <-c.result:
		return err
	case <-ctx.Done():
		t.stuck.Store(true)
		return errors.Errorf("%s: %w", name, ctx.Err())
	case <-deadline:
		t.stuck.Store(true)
		zerolog.Ctx(ctx).Error().Str("call", name).Dur("timeout", t.timeout).Msg("host call abandoned")
		return errors.Errorf("%s: no answer after %s: %w", name, t.timeout, ErrTimeout)
	}
}

// Stuck reports whether a call was abandoned.
func (t *Thread) Stuck() bool {
	return t.stuck.Load()
}

// Close stops the thread after the running call, if any. It does not wait
// for a stuck call.
func (t *Thread) Close() {
	t.once.Do(func() { close(t.done) })
	if t.stuck.Load() {
		return
	}
	<-t.exited
}

// Call runs fn on the thread and returns its value.
func Call[T any](ctx context.Context, t *Thread, name string, fn func() (T, error)) (T, error) {
	var out T
	err := t.Do(ctx, name, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		// an abandoned call may still write out
		var zero T
		return zero, err
	}
	return out, nil
}
