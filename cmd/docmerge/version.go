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
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/walteh/docmerge/pkg/merge"
)

// build is what the version command reports about this binary.
type build struct {
	Version    string    `json:"version"`
	Commit     string    `json:"commit,omitempty"`
	Dirty      bool      `json:"dirty,omitempty"`
	Committed  string    `json:"committed,omitempty"` // commit date, UTC
	Toolchain  string    `json:"toolchain"`
	Target     string    `json:"target"`
	Strategies []string  `json:"strategies"`
}

// buildFrom reads the module version and vcs stamp; bi may be nil when the
// binary carries no build info.
func buildFrom(bi *debug.BuildInfo) build {
	b := build{
		Version:   "dev",
		Toolchain: runtime.Version(),
		Target:    runtime.GOOS + "/" + runtime.GOARCH,
	}
	for _, id := range merge.IDs() {
		b.Strategies = append(b.Strategies, string(id))
	}
	if bi == nil {
		return b
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		b.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Commit = s.Value[:min(12, len(s.Value))]
		case "vcs.modified":
			b.Dirty = s.Value == "true"
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
				b.Committed = t.UTC().Format(time.DateOnly)
			}
		}
	}
	return b
}

func currentBuild() build {
	bi, _ := debug.ReadBuildInfo()
	return buildFrom(bi)
}

// String is the one-line form, e.g.
// "docmerge v0.3.0 (4f2a9c1e03b7+dirty, 2025-03-01) go1.23.5 windows/amd64".
func (b build) String() string {
	var stamp []string
	if b.Commit != "" {
		c := b.Commit
		if b.Dirty {
			c += "+dirty"
		}
		stamp = append(stamp, c)
	}
	if b.Committed != "" {
		stamp = append(stamp, b.Committed)
	}
	s := "docmerge " + b.Version
	if len(stamp) > 0 {
		s += " (" + strings.Join(stamp, ", ") + ")"
	}
	return s + " " + b.Toolchain + " " + b.Target
}

func newVersionCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the docmerge build and its merge strategies",
		Args:  cobra.NoArgs,
		// the version needs neither config nor host
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(b)
			}
			_, err := fmt.Fprintf(out, "📄 %s\n   strategies: %s\n", b, strings.Join(b.Strategies, ", "))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the build as JSON")
	return cmd
}
