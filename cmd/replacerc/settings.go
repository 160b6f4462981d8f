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
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/walteh/replacerc/pkg/config"
	"github.com/walteh/replacerc/pkg/run"
	"github.com/walteh/replacerc/pkg/validation"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	envPrefix = "REPLACERC"

	directoryFlagName         = "directory"
	fixedStringsFlagName      = "fixed-strings"
	matchWholeWordFlagName    = "match-whole-word"
	caseInsensitiveFlagName   = "case-insensitive"
	includeFilesFlagName      = "include-files"
	excludeFilesFlagName      = "exclude-files"
	hiddenFlagName            = "hidden"
	advancedRegexFlagName     = "advanced-regex"
	logLevelFlagName          = "log-level"
	logFileFlagName           = "log-file"
	configFlagName            = "config"
	parallelFlagName          = "parallel"
	inMemoryThresholdFlagName = "in-memory-threshold"
	regexTimeoutFlagName      = "regex-timeout"
	errorTableFlagName        = "error-table"
	verboseFlagName           = "verbose"

	defaultLogLevel = "info"

	logMaxSize    = 10 // megabytes
	logMaxBackups = 3
	logMaxAge     = 28 // days
)

// loadSettings layers the config file, the environment and the command line
// flags into v, in increasing order of precedence.
func loadSettings(cmd *cobra.Command, v *viper.Viper) error {
	path, err := cmd.Flags().GetString(configFlagName)
	if err != nil {
		return errors.Errorf("reading --%s: %w", configFlagName, err)
	}
	if path == "" {
		path = config.Find(".")
	}

	if path != "" {
		opts, err := config.Load(cmd.Context(), path)
		if err != nil {
			return errors.Errorf("loading %s: %w", path, err)
		}
		if err := v.MergeConfigMap(opts.Settings()); err != nil {
			return errors.Errorf("merging %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return errors.Errorf("binding flags: %w", err)
	}
	return nil
}

// newLogger builds the zerolog logger for a run. The returned closer releases
// the log file and is nil when there is none.
func newLogger(v *viper.Viper, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(v.GetString(logLevelFlagName))
	if err != nil {
		return zerolog.Nop(), nil, errors.Errorf("invalid log level %q: %w", v.GetString(logLevelFlagName), err)
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.Kitchen}}
	var closer io.Closer

	if file := v.GetString(logFileFlagName); file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   true,
		}
		writers = append(writers, lj)
		closer = lj
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return logger, closer, nil
}

// searchConfig builds the validation input from positional arguments and
// layered settings.
func searchConfig(v *viper.Viper, args []string) (validation.Config, error) {
	cfg := validation.Config{
		SearchText:     args[0],
		FixedStrings:   v.GetBool(fixedStringsFlagName),
		AdvancedRegex:  v.GetBool(advancedRegexFlagName),
		IncludeGlobs:   v.GetString(includeFilesFlagName),
		ExcludeGlobs:   v.GetString(excludeFilesFlagName),
		MatchWholeWord: v.GetBool(matchWholeWordFlagName),
		MatchCase:      !v.GetBool(caseInsensitiveFlagName),
		IncludeHidden:  v.GetBool(hiddenFlagName),
		Directory:      v.GetString(directoryFlagName),
		RegexTimeout:   v.GetDuration(regexTimeoutFlagName),
	}
	if len(args) > 1 {
		cfg.ReplacementText = args[1]
	}

	info, err := os.Stat(cfg.Directory)
	if err != nil || !info.IsDir() {
		return cfg, errors.Errorf("Directory '%s' does not exist. Please provide a valid directory path.", cfg.Directory)
	}

	return cfg, nil
}

func runOptions(v *viper.Viper) run.Options {
	return run.Options{
		Parallel:          v.GetInt(parallelFlagName),
		InMemoryThreshold: v.GetInt64(inMemoryThresholdFlagName),
	}
}
