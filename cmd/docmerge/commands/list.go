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

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/operation"
)

// NewListCmd creates a new list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <dir>",
		Short: "Show which documents a merge would pick up",
		Long: `List prints the documents of <dir> in merge order together with the name
their table of contents entry will get. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := operation.NewListOperation(args[0], operation.Options{Config: o.Config})
			if err := op.Execute(cmd.Context()); err != nil {
				return errors.Errorf("listing %s: %w", args[0], err)
			}

			data := pterm.TableData{{"#", "Name", "File", "Convert"}}
			for _, d := range op.Documents() {
				convert := ""
				if operation.NeedsConversion(d) {
					convert = "yes"
				}
				data = append(data, []string{fmt.Sprint(d.Order + 1), d.DisplayName, d.Path, convert})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering documents: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	return cmd
}
