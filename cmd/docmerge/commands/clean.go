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

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/operation"
	"github.com/walteh/docmerge/pkg/status"
)

// NewCleanCmd creates a new clean command
func NewCleanCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <dir>",
		Short: "Remove temporary files an interrupted merge left behind",
		Long: `Clean removes the temp_* conversion copies from <dir>/合并结果.
The merged document itself is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := operation.NewCleanOperation(args[0], operation.Options{Config: o.Config})
			err := op.Execute(cmd.Context())

			removed := 0
			for _, a := range op.Artifacts() {
				if a.State == status.ArtifactRemoved {
					removed++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🧹 removed %d temporary files\n", removed)

			if err != nil {
				return errors.Errorf("cleaning %s: %w", args[0], err)
			}
			return nil
		},
	}

	return cmd
}
