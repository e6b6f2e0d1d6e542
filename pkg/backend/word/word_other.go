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

//go:build !windows

package word

import (
	"context"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/toc"
)

func (h *Host) Available(ctx context.Context) bool { return false }

func (h *Host) Start(ctx context.Context) (backend.Session, error) {
	return nil, errors.Errorf("%s needs windows: %w", progID, backend.ErrHostUnavailable)
}

func (h *Host) Terminate(ctx context.Context) error { return nil }

func (e *Editor) Open(ctx context.Context, path string) (toc.Session, error) {
	return nil, errors.Errorf("%s needs windows: %w", progID, backend.ErrHostUnavailable)
}
