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
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/merge"
	"github.com/walteh/docmerge/pkg/operation"
)

// NewMergeCmd creates a new merge command
func NewMergeCmd(o *opts.RootOpts) *cobra.Command {
	var strategy string

	ids := make([]string, 0, len(merge.IDs()))
	for _, id := range merge.IDs() {
		ids = append(ids, string(id))
	}

	cmd := &cobra.Command{
		Use:   "merge <dir>",
		Short: "Merge every document of a folder",
		Long: `Merge combines the documents directly inside <dir> into
<dir>/合并结果/合并完成文档.docx.
It will:
1. Select the .doc and .docx files in file name order
2. Convert legacy documents to temporary copies
3. Append each document behind a page break and a bookmark
4. Prepend a table of contents linking to every document
5. Remove the temporary copies`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			op := operation.NewMergeOperation(args[0], operation.Options{
				Config:   o.Config,
				Host:     o.Host,
				Editor:   o.Editor,
				Notifier: newNotifier(cmd.OutOrStdout()),
				Strategy: strategy,
			})

			runner := operation.NewRunner(zerolog.Ctx(ctx), true)
			if err := runner.Run(ctx, op); err != nil {
				return reportedError{err: err}
			}

			rep := op.Report()
			if rep == nil || rep.Merge == nil {
				return nil
			}

			data := pterm.TableData{{"#", "Document", "Page", "Anchor"}}
			for _, e := range rep.Merge.PageMap.Entries() {
				data = append(data, []string{
					fmt.Sprint(e.Order + 1),
					e.DisplayName,
					fmt.Sprint(e.StartPage + 1),
					e.Anchor,
				})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering page map: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)
			return nil
		},
	}

	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "merge strategy, one of: "+strings.Join(ids, ", "))

	return cmd
}
