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
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/walteh/replacerc/pkg/log"
	"github.com/walteh/replacerc/pkg/rewrite"
	"github.com/walteh/replacerc/pkg/run"
	"github.com/walteh/replacerc/pkg/validation"
	"gitlab.com/tozd/go/errors"
)

const rootLongDescription = `Find and replace text in every file under a directory.

The search text is a regular expression unless --fixed-strings is given.
Capture groups such as $1 can be used in the replacement when searching
with a regular expression. Leaving the replacement out deletes every match.

Defaults can be kept in .replacerc.yaml, .replacerc.yml, .replacerc.json or
.replacerc.hcl in the working directory, and in REPLACERC_* environment
variables. Flags take precedence over both.`

// 🏗️ newRootCmd creates the replacerc command with its own settings
func newRootCmd() *cobra.Command {
	v := viper.New()
	info := GetVersionInfo()

	cmd := &cobra.Command{
		Use:           "replacerc <search> [replacement]",
		Short:         "Find and replace CLI",
		Long:          rootLongDescription,
		Args:          cobra.RangeArgs(1, 2),
		Version:       info.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return loadSettings(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplace(cmd, v, args)
		},
	}
	cmd.SetVersionTemplate(FormatVersion(info))

	configureRootFlags(cmd.Flags())
	return cmd
}

func configureRootFlags(flags *pflag.FlagSet) {
	flags.StringP(directoryFlagName, "d", ".", "directory in which to search")
	flags.BoolP(fixedStringsFlagName, "f", false, "search with plain strings, rather than regex")
	flags.BoolP(matchWholeWordFlagName, "w", false, "only match when the search string forms an entire word")
	flags.BoolP(caseInsensitiveFlagName, "i", false, "ignore case when matching the search string")
	flags.StringP(includeFilesFlagName, "I", "", "glob patterns, separated by commas, that file paths must match")
	flags.StringP(excludeFilesFlagName, "E", "", "glob patterns, separated by commas, that file paths must not match")
	flags.BoolP(hiddenFlagName, ".", false, "include hidden files and directories, such as those whose name starts with a dot")
	flags.BoolP(advancedRegexFlagName, "a", false, "use advanced regex features (including negative look-ahead), at the cost of performance")
	flags.String(logLevelFlagName, defaultLogLevel, "log level (trace, debug, info, warn, error)")
	flags.String(logFileFlagName, "", "also write logs to this file, rotated when it grows")
	flags.StringP(configFlagName, "c", "", "config file (default: .replacerc.{yaml,yml,json,hcl} in the working directory)")
	flags.Int(parallelFlagName, 0, "files to rewrite at once (default: number of CPUs)")
	flags.Int64(inMemoryThresholdFlagName, rewrite.DefaultInMemoryThreshold, "largest file in bytes rewritten in one pass; larger files are streamed line by line")
	flags.Duration(regexTimeoutFlagName, 0, "time limit for one advanced regex evaluation (default 5s)")
	flags.Bool(errorTableFlagName, false, "list errors as a table")
	flags.BoolP(verboseFlagName, "v", false, "print one line per changed file")
}

func runReplace(cmd *cobra.Command, v *viper.Viper, args []string) error {
	logger, closer, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	ctx := logger.WithContext(cmd.Context())

	cfg, err := searchConfig(v, args)
	if err != nil {
		return err
	}

	if v.GetBool(verboseFlagName) {
		ctx = log.NewContext(ctx, log.New(cmd.OutOrStdout(), logger))
	}

	summary, err := run.FindAndReplace(ctx, cfg, runOptions(v))

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		verrs.Report(newPtermErrorHandler(cmd.ErrOrStderr()))
		return errReported
	}
	if err != nil {
		return errors.Errorf("replacing in %s: %w", cfg.Directory, err)
	}

	printSummary(cmd.OutOrStdout(), summary, v.GetBool(errorTableFlagName))
	if summary.NumErrors() > 0 {
		return errReported
	}
	return nil
}
