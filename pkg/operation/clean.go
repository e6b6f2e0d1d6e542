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
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/pkg/selector"
	"github.com/walteh/docmerge/pkg/status"
)

// tempPattern matches conversion artifacts of interrupted runs.
const tempPattern = "temp_*"

// 🧹 CleanOperation removes conversion artifacts a killed run left in the
// output directory
type CleanOperation struct {
	BaseOperation
	dir       string
	artifacts []status.Artifact
}

// 🧹 NewCleanOperation creates a clean of dir
func NewCleanOperation(dir string, opts Options) *CleanOperation {
	return &CleanOperation{
		BaseOperation: NewBaseOperation(opts),
		dir:           dir,
	}
}

// Artifacts returns what the last Execute found and what happened to each.
func (op *CleanOperation) Artifacts() []status.Artifact {
	return op.artifacts
}

// 🏃 Execute runs the clean operation
func (op *CleanOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	dir, err := selector.ValidateDirectory(op.dir)
	if err != nil {
		return err
	}
	outDir := filepath.Join(dir, OutputDirName)

	names, err := doublestar.Glob(os.DirFS(outDir), tempPattern)
	if err != nil {
		return errors.Errorf("listing temporary files: %w", err)
	}

	ws := status.New(outDir, logger)
	for _, name := range names {
		ws.TrackArtifact(ctx, ws.Path(name))
	}

	ws.StartOperation(ctx, len(names))
	err = ws.Cleanup(ctx)
	ws.UpdateProgress(ctx, len(names))
	ws.FinishOperation(ctx)

	op.artifacts = ws.Artifacts()
	if err != nil {
		return errors.Errorf("cleaning %s: %w", outDir, err)
	}

	logger.Debug().Int("removed", len(names)).Str("directory", outDir).Msg("temporary files cleaned")
	return nil
}
