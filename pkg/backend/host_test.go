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

package backend_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/gen/mockery"
	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/backend/backendtest"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func TestChain(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.doc")
	dst := filepath.Join(dir, "temp_0_a.docx")

	t.Run("first_success_wins", func(t *testing.T) {
		first := mockery.NewMockConverter_backend(t)
		second := mockery.NewMockConverter_backend(t)
		first.EXPECT().Convert(ctx, src, dst).Return(nil).Once()

		require.NoError(t, backend.Chain{first, second}.Convert(ctx, src, dst))
	})

	t.Run("falls_through_and_cleans_partial_output", func(t *testing.T) {
		first := mockery.NewMockConverter_backend(t)
		second := mockery.NewMockConverter_backend(t)
		first.EXPECT().Convert(ctx, src, dst).RunAndReturn(func(ctx context.Context, src, dst string) error {
			require.NoError(t, os.WriteFile(dst, []byte("partial"), 0o644))
			return errors.New("crashed halfway")
		}).Once()
		second.EXPECT().Convert(ctx, src, dst).RunAndReturn(func(ctx context.Context, src, dst string) error {
			assert.NoFileExists(t, dst, "partial output should be removed before the next converter")
			return os.WriteFile(dst, []byte("ok"), 0o644)
		}).Once()

		require.NoError(t, backend.Chain{first, second}.Convert(ctx, src, dst))
		assert.FileExists(t, dst)
		require.NoError(t, os.Remove(dst))
	})

	t.Run("all_fail", func(t *testing.T) {
		first := mockery.NewMockConverter_backend(t)
		second := mockery.NewMockConverter_backend(t)
		first.EXPECT().Convert(ctx, src, dst).Return(errors.New("no host"))
		second.EXPECT().Convert(ctx, src, dst).Return(errors.New("no office"))

		err := backend.Chain{first, second}.Convert(ctx, src, dst)
		require.Error(t, err)
		assert.True(t, errors.Is(err, backend.ErrFormatConversion))
		assert.Contains(t, err.Error(), "no host")
		assert.Contains(t, err.Error(), "no office")
	})
}

func TestHostConverter(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "a.doc")
	dst := filepath.Join(dir, "temp_0_a.docx")

	t.Run("uses_a_scoped_session", func(t *testing.T) {
		fake := backendtest.New(backend.TierLive)
		require.NoError(t, fake.Add(src, backendtest.Source{Paragraphs: []string{"legacy"}}))

		h := mockery.NewMockHost_backend(t)
		h.EXPECT().Available(ctx).Return(true)
		h.EXPECT().Start(ctx).Return(fake, nil).Once()

		require.NoError(t, backend.HostConverter{Host: h}.Convert(ctx, src, dst))
		assert.FileExists(t, dst)
		assert.Equal(t, 1, fake.Quits, "the session should be quit after converting")
	})

	t.Run("unavailable", func(t *testing.T) {
		h := mockery.NewMockHost_backend(t)
		h.EXPECT().Available(mock.Anything).Return(false)

		err := backend.HostConverter{Host: h}.Convert(ctx, src, dst)
		assert.True(t, errors.Is(err, backend.ErrHostUnavailable))
	})
}

func TestWithSession(t *testing.T) {
	ctx := testContext(t)

	t.Run("quits_on_error", func(t *testing.T) {
		fake := backendtest.New(backend.TierLive)
		h := &backendtest.Host{Backend: fake}

		err := backend.WithSession(ctx, h, func(s backend.Session) error {
			return errors.New("boom")
		})
		require.Error(t, err)
		assert.Equal(t, 1, fake.Quits, "the session should be quit on the error path")
	})

	t.Run("start_failure", func(t *testing.T) {
		h := mockery.NewMockHost_backend(t)
		h.EXPECT().Start(ctx).Return(nil, errors.New("no license"))

		called := false
		err := backend.WithSession(ctx, h, func(s backend.Session) error {
			called = true
			return nil
		})
		require.Error(t, err)
		assert.False(t, called, "fn should not run without a session")
	})

	t.Run("no_host", func(t *testing.T) {
		err := backend.WithSession(ctx, backend.NoHost{}, func(s backend.Session) error { return nil })
		assert.True(t, errors.Is(err, backend.ErrHostUnavailable))
		assert.False(t, backend.NoHost{}.Available(ctx))
	})
}
