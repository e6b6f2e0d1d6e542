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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/docmerge/cmd/docmerge/commands"
	"github.com/walteh/docmerge/cmd/docmerge/opts"
	"github.com/walteh/docmerge/pkg/backend/word"
	"github.com/walteh/docmerge/pkg/config"
	"github.com/walteh/docmerge/pkg/log"
)

// newRootCmd builds the command tree. The returned options are filled in
// before any sub command runs.
func newRootCmd() (*cobra.Command, *opts.RootOpts) {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "docmerge",
		Short: "Merge the documents of a folder into one, with a table of contents",
		Long: `docmerge merges every Word document of a folder, in file name order, into
合并结果/合并完成文档.docx and prepends a linked table of contents.

Legacy .doc files are converted first. When Word is installed the merge and the
table of contents are done through Word itself; everywhere else the documents
are edited directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd, o)
			return loadRootOpts(cmd, o)
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewMergeCmd(o),
		commands.NewListCmd(o),
		commands.NewCleanCmd(o),
		commands.NewStrategiesCmd(o),
		newVersionCmd(),
	)

	return rootCmd, o
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", "", "config file path (.yaml, .json, .hcl or .docmerge)")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog and the progress log based on flags
func setupLogging(cmd *cobra.Command, o *opts.RootOpts) {
	level := zerolog.InfoLevel
	if o.Debug {
		level = zerolog.DebugLevel
	}
	z := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()
	o.Logger = log.New(cmd.OutOrStdout(), level).WithZerolog(z)

	ctx := log.NewContext(z.WithContext(cmd.Context()), o.Logger)
	cmd.SetContext(ctx)
}

// loadRootOpts loads the config and connects the live host
func loadRootOpts(cmd *cobra.Command, o *opts.RootOpts) error {
	cfg, err := config.LoadConfig(cmd.Context(), o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg

	if o.Host == nil {
		host := word.New(cfg.Host.CallTimeoutDuration())
		o.Host = host
		o.Editor = host.Editor()
	}
	return nil
}
