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

package status

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📊 ArtifactState represents the lifecycle of a temporary artifact
type ArtifactState int

const (
	ArtifactTracked ArtifactState = iota // Registered, may exist on disk
	ArtifactRemoved                      // Deleted or never created
	ArtifactFailed                       // Deletion failed
)

// String returns a string representation of ArtifactState
func (s ArtifactState) String() string {
	switch s {
	case ArtifactTracked:
		return "tracked"
	case ArtifactRemoved:
		return "removed"
	case ArtifactFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Artifact is a temporary file created during a run
type Artifact struct {
	Path  string        // Absolute path
	State ArtifactState // Current state
	Error error         // Last deletion error
}

// 🧹 ArtifactTracker registers temporary files and removes them at the end
// of a run
type ArtifactTracker interface {
	TrackArtifact(ctx context.Context, path string)
	Cleanup(ctx context.Context) error
}

// 📈 ProgressReporter reports per-source progress
type ProgressReporter interface {
	StartOperation(ctx context.Context, total int)
	UpdateProgress(ctx context.Context, processed int)
	FinishOperation(ctx context.Context)
}

// cleanupWorkers bounds parallel deletions
const cleanupWorkers = 4

// 🔧 Manager owns the output directory of one run: it creates it, tracks
// temporary artifacts and reports progress
type Manager struct {
	baseDir   string          // Output directory
	logger    *zerolog.Logger // Logger for status updates
	formatter FileFormatter   // Formatter for status messages

	mu         sync.RWMutex
	artifacts  map[string]Artifact
	createdDir bool

	// Progress tracking
	total     int
	processed int
}

var (
	_ ArtifactTracker  = (*Manager)(nil)
	_ ProgressReporter = (*Manager)(nil)
)

// 🏭 New creates a new status manager rooted at baseDir
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFileFormatter(),
		artifacts: make(map[string]Artifact),
	}
}

// BaseDir returns the managed directory.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// 🔒 Path returns the absolute path of name inside the managed directory
func (m *Manager) Path(name string) string {
	return filepath.Join(m.baseDir, name)
}

// EnsureDir creates the managed directory and remembers whether it existed.
func (m *Manager) EnsureDir(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := os.Stat(m.baseDir); os.IsNotExist(err) {
		m.createdDir = true
	} else if err != nil {
		return errors.Errorf("checking directory: %w", err)
	}

	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// RemoveDirIfEmpty removes the managed directory when this manager created
// it and nothing was left inside.
func (m *Manager) RemoveDirIfEmpty(ctx context.Context) (bool, error) {
	m.mu.RLock()
	created := m.createdDir
	m.mu.RUnlock()
	if !created {
		return false, nil
	}

	entries, err := os.ReadDir(m.baseDir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Errorf("reading directory: %w", err)
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(m.baseDir); err != nil {
		return false, errors.Errorf("removing directory: %w", err)
	}
	m.logger.Debug().Str("dir", m.baseDir).Msg("removed empty output directory")
	return true, nil
}

// FileExists reports whether path exists.
func (m *Manager) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("checking file existence: %w", err)
}

// ArtifactTracker interface implementation

func (m *Manager) TrackArtifact(ctx context.Context, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.artifacts[path] = Artifact{Path: path, State: ArtifactTracked}
	m.logger.Debug().Str("path", path).Msg(m.formatter.FormatArtifact(filepath.Base(path), ArtifactTracked))
}

// Artifacts lists the tracked artifacts sorted by path.
func (m *Manager) Artifacts() []Artifact {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Artifact, 0, len(m.artifacts))
	for _, a := range m.artifacts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// 🧹 Cleanup deletes every tracked artifact that is still on disk. It may be
// called any number of times. Failures are recorded on the artifact, logged
// and returned together, but never stop the other deletions.
func (m *Manager) Cleanup(ctx context.Context) error {
	m.mu.RLock()
	pending := make([]string, 0, len(m.artifacts))
	for path, a := range m.artifacts {
		if a.State != ArtifactRemoved {
			pending = append(pending, path)
		}
	}
	m.mu.RUnlock()

	if len(pending) == 0 {
		return nil
	}
	sort.Strings(pending)

	var (
		failMu sync.Mutex
		failed []string
	)

	// cleanup runs even after the run context was cancelled
	g, _ := errgroup.WithContext(context.WithoutCancel(ctx))
	g.SetLimit(cleanupWorkers)
	for _, path := range pending {
		path := path
		g.Go(func() error {
			err := os.Remove(path)
			if os.IsNotExist(err) {
				err = nil
			}

			m.mu.Lock()
			state := ArtifactRemoved
			if err != nil {
				state = ArtifactFailed
			}
			m.artifacts[path] = Artifact{Path: path, State: state, Error: err}
			m.mu.Unlock()

			if err != nil {
				m.logger.Warn().Err(err).Str("path", path).Msg(m.formatter.FormatArtifact(filepath.Base(path), ArtifactFailed))
				failMu.Lock()
				failed = append(failed, filepath.Base(path))
				failMu.Unlock()
				return nil
			}
			m.logger.Debug().Str("path", path).Msg(m.formatter.FormatArtifact(filepath.Base(path), ArtifactRemoved))
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		sort.Strings(failed)
		return errors.Errorf("removing temporary files: %s", strings.Join(failed, ", "))
	}
	return nil
}

// ProgressReporter interface implementation

func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	msg := m.formatter.FormatProgress(0, total)
	m.logger.Info().Int("total", total).Msg(msg)
}

func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	msg := m.formatter.FormatProgress(processed, m.total)
	m.logger.Info().
		Int("processed", processed).
		Int("total", m.total).
		Msg(msg)
}

// FinishOperation reports completion unless the last update already did.
func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.processed == m.total {
		return
	}
	m.processed = m.total
	msg := m.formatter.FormatProgress(m.total, m.total)
	m.logger.Info().
		Int("processed", m.total).
		Int("total", m.total).
		Msg(msg)
}

// Progress returns the processed and total counters.
func (m *Manager) Progress() (int, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.processed, m.total
}
