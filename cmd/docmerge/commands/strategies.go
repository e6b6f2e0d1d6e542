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
	"github.com/walteh/docmerge/pkg/merge"
)

// NewStrategiesCmd creates a new strategies command
func NewStrategiesCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the merge strategies and whether Word is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			def, _ := merge.ParseID(o.Config.Strategy)

			data := pterm.TableData{{"Strategy", "Tier", "Description"}}
			for _, id := range merge.IDs() {
				name := string(id)
				if id == def {
					name += " (default)"
				}
				data = append(data, []string{name, id.Tier().String(), id.Description()})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return errors.Errorf("rendering strategies: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), table)

			if o.Host.Available(ctx) {
				fmt.Fprintln(cmd.OutOrStdout(), "🖥️  live host: available")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "🖥️  live host: not available, live-host cannot run and legacy files need an office converter")
			}
			return nil
		},
	}

	return cmd
}
