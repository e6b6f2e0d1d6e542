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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/cmd/docmerge/commands"
	"github.com/walteh/docmerge/pkg/backend"
	"github.com/walteh/docmerge/pkg/docx"
	"github.com/walteh/docmerge/pkg/operation"
	"github.com/walteh/docmerge/pkg/selector"
)

func init() {
	pterm.DisableStyling()
}

// execute runs the command line without a live host.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root, o := newRootCmd()
	o.Host = backend.NoHost{}

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDocx(t *testing.T, path string, paras ...string) {
	t.Helper()
	doc := docx.New()
	for _, p := range paras {
		doc.AddParagraph(p)
	}
	require.NoError(t, doc.Save(path))
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, dir string) []string
		wantErr     error
		errContains string
		validate    func(t *testing.T, dir, out string)
	}{
		{
			name: "merge_structural",
			setup: func(t *testing.T, dir string) []string {
				writeDocx(t, filepath.Join(dir, "《第一章》.docx"), "one")
				writeDocx(t, filepath.Join(dir, "b.docx"), "two")
				return []string{"merge", dir}
			},
			validate: func(t *testing.T, dir, out string) {
				assert.FileExists(t, filepath.Join(dir, operation.OutputDirName, operation.OutputFileName))
				assert.Contains(t, out, "Merge complete")
				assert.Contains(t, out, "第一章")
				assert.Contains(t, out, "bookmark_2")
			},
		},
		{
			name: "merge_with_strategy_flag",
			setup: func(t *testing.T, dir string) []string {
				writeDocx(t, filepath.Join(dir, "a.docx"), "one")
				return []string{"merge", "--strategy", "docxcompose", dir}
			},
			validate: func(t *testing.T, dir, out string) {
				assert.FileExists(t, filepath.Join(dir, operation.OutputDirName, operation.OutputFileName))
			},
		},
		{
			name: "merge_empty_directory",
			setup: func(t *testing.T, dir string) []string {
				return []string{"merge", dir}
			},
			wantErr: selector.ErrNoDocuments,
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, "Merge failed")
				assert.NoDirExists(t, filepath.Join(dir, operation.OutputDirName))
			},
		},
		{
			name: "merge_live_without_host",
			setup: func(t *testing.T, dir string) []string {
				writeDocx(t, filepath.Join(dir, "a.docx"), "one")
				return []string{"merge", "-s", "live-host", dir}
			},
			wantErr: backend.ErrHostUnavailable,
		},
		{
			name: "merge_needs_directory",
			setup: func(t *testing.T, dir string) []string {
				return []string{"merge"}
			},
			errContains: "accepts 1 arg",
		},
		{
			name: "list",
			setup: func(t *testing.T, dir string) []string {
				writeDocx(t, filepath.Join(dir, "b.docx"), "two")
				require.NoError(t, os.WriteFile(filepath.Join(dir, "a.doc"), []byte("legacy"), 0o644))
				return []string{"list", dir}
			},
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, filepath.Join(dir, "a.doc"))
				assert.Contains(t, out, filepath.Join(dir, "b.docx"))
				assert.Contains(t, out, "yes", "legacy file should be flagged for conversion")
				assert.NoDirExists(t, filepath.Join(dir, operation.OutputDirName), "list should not write")
			},
		},
		{
			name: "clean",
			setup: func(t *testing.T, dir string) []string {
				outDir := filepath.Join(dir, operation.OutputDirName)
				require.NoError(t, os.MkdirAll(outDir, 0o755))
				require.NoError(t, os.WriteFile(filepath.Join(outDir, "temp_0_a.docx"), []byte("x"), 0o644))
				return []string{"clean", dir}
			},
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, "removed 1 temporary files")
				assert.NoFileExists(t, filepath.Join(dir, operation.OutputDirName, "temp_0_a.docx"))
			},
		},
		{
			name: "strategies",
			setup: func(t *testing.T, dir string) []string {
				return []string{"strategies"}
			},
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, "simple-append (default)")
				assert.Contains(t, out, "composition-library")
				assert.Contains(t, out, "live host: not available")
			},
		},
		{
			name: "strategies_from_config",
			setup: func(t *testing.T, dir string) []string {
				cfg := filepath.Join(dir, "docmerge.yaml")
				require.NoError(t, os.WriteFile(cfg, []byte("strategy: format-preserving\n"), 0o644))
				return []string{"strategies", "--config", cfg}
			},
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, "format-preserving (default)")
			},
		},
		{
			name: "invalid_config",
			setup: func(t *testing.T, dir string) []string {
				cfg := filepath.Join(dir, "docmerge.yaml")
				require.NoError(t, os.WriteFile(cfg, []byte("invalid: yaml: :"), 0o644))
				return []string{"strategies", "--config", cfg}
			},
			errContains: "loading config",
		},
		{
			name: "version",
			setup: func(t *testing.T, dir string) []string {
				return []string{"version"}
			},
			validate: func(t *testing.T, dir, out string) {
				assert.Contains(t, out, "docmerge ")
				assert.Contains(t, out, "composition-library", "strategies should be listed")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := tt.setup(t, dir)

			out, err := execute(t, args...)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, errors.Is(err, commands.ErrReported), "merge failures are shown by the notifier")
			case tt.errContains != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
			default:
				require.NoError(t, err)
			}

			if tt.validate != nil {
				tt.validate(t, dir, out)
			}
		})
	}
}

func TestBuildFrom(t *testing.T) {
	t.Run("no_build_info", func(t *testing.T) {
		b := buildFrom(nil)
		assert.Equal(t, "dev", b.Version)
		assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, b.Target)
		assert.Len(t, b.Strategies, 4, "every strategy should be listed")
		assert.Equal(t, "docmerge dev "+runtime.Version()+" "+b.Target, b.String())
	})

	t.Run("vcs_stamp", func(t *testing.T) {
		b := buildFrom(&debug.BuildInfo{
			Main: debug.Module{Version: "v0.3.0"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "4f2a9c1e03b7d5e6f7a8b9c0d1e2f3a4b5c6d7e8"},
				{Key: "vcs.modified", Value: "true"},
				{Key: "vcs.time", Value: "2025-03-01T22:15:00+08:00"},
			},
		})
		assert.Equal(t, "v0.3.0", b.Version)
		assert.Equal(t, "4f2a9c1e03b7", b.Commit, "commit should be shortened")
		assert.Equal(t, "2025-03-01", b.Committed, "commit date should be in UTC")
		assert.Contains(t, b.String(), "docmerge v0.3.0 (4f2a9c1e03b7+dirty, 2025-03-01)")
	})

	t.Run("devel_version", func(t *testing.T) {
		b := buildFrom(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, "dev", b.Version)
		assert.Empty(t, b.Commit)
	})
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)

	var b build
	require.NoError(t, json.Unmarshal([]byte(out), &b), "output should be JSON: %s", out)
	assert.Equal(t, runtime.Version(), b.Toolchain)
	assert.Contains(t, b.Strategies, "live-host")
}
