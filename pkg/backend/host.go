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

package backend

import (
	"context"

	"gitlab.com/tozd/go/errors"
)

// 🖥️ Host is an installed document application that can be driven live
type Host interface {
	// Available reports whether the application can be started here.
	Available(ctx context.Context) bool
	// Start launches a session. Every session must be ended with Quit.
	Start(ctx context.Context) (Session, error)
	// Terminate force-kills every running instance of the application.
	Terminate(ctx context.Context) error
}

// Session is one running host application.
type Session interface {
	Backend
	Converter
	Quit(ctx context.Context) error
}

// NoHost is the Host of machines without a live document application.
type NoHost struct{}

var _ Host = NoHost{}

func (NoHost) Available(ctx context.Context) bool { return false }

func (NoHost) Start(ctx context.Context) (Session, error) {
	return nil, errors.Errorf("starting host: %w", ErrHostUnavailable)
}

func (NoHost) Terminate(ctx context.Context) error { return nil }

// WithSession starts a session, runs fn and always quits the session.
func WithSession(ctx context.Context, h Host, fn func(Session) error) (err error) {
	s, err := h.Start(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if qerr := s.Quit(ctx); qerr != nil && err == nil {
			err = errors.Errorf("quitting host session: %w", qerr)
		}
	}()
	return fn(s)
}
