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

package config

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the options from bytes
	Parse(ctx context.Context, data []byte) (*Options, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Options are the defaults a project keeps in its .replacerc file.
// Command line flags and environment variables take precedence over them.
type Options struct {
	FixedStrings      bool     `json:"fixed_strings,omitempty" yaml:"fixed_strings,omitempty" hcl:"fixed_strings,optional"`
	AdvancedRegex     bool     `json:"advanced_regex,omitempty" yaml:"advanced_regex,omitempty" hcl:"advanced_regex,optional"`
	MatchWholeWord    bool     `json:"match_whole_word,omitempty" yaml:"match_whole_word,omitempty" hcl:"match_whole_word,optional"`
	CaseInsensitive   bool     `json:"case_insensitive,omitempty" yaml:"case_insensitive,omitempty" hcl:"case_insensitive,optional"`
	IncludeFiles      []string `json:"include_files,omitempty" yaml:"include_files,omitempty" hcl:"include_files,optional"`
	ExcludeFiles      []string `json:"exclude_files,omitempty" yaml:"exclude_files,omitempty" hcl:"exclude_files,optional"`
	Hidden            bool     `json:"hidden,omitempty" yaml:"hidden,omitempty" hcl:"hidden,optional"`
	Parallel          int      `json:"parallel,omitempty" yaml:"parallel,omitempty" hcl:"parallel,optional"`
	InMemoryThreshold int64    `json:"in_memory_threshold,omitempty" yaml:"in_memory_threshold,omitempty" hcl:"in_memory_threshold,optional"`
	RegexTimeout      string   `json:"regex_timeout,omitempty" yaml:"regex_timeout,omitempty" hcl:"regex_timeout,optional"` // e.g. "2s"
	LogLevel          string   `json:"log_level,omitempty" yaml:"log_level,omitempty" hcl:"log_level,optional"`
	LogFile           string   `json:"log_file,omitempty" yaml:"log_file,omitempty" hcl:"log_file,optional"`
}

// 🔍 Validate checks the options and fills in defaults
func (o *Options) Validate() error {
	if o.Parallel < 0 {
		return errors.Errorf("parallel must not be negative, got %d", o.Parallel)
	}
	if o.InMemoryThreshold < 0 {
		return errors.Errorf("in_memory_threshold must not be negative, got %d", o.InMemoryThreshold)
	}

	if o.RegexTimeout != "" {
		d, err := time.ParseDuration(o.RegexTimeout)
		if err != nil {
			return errors.Errorf("parsing regex_timeout: %w", err)
		}
		if d < 0 {
			return errors.Errorf("regex_timeout must not be negative, got %s", o.RegexTimeout)
		}
	}

	if o.LogLevel == "" {
		o.LogLevel = zerolog.InfoLevel.String()
	}
	if _, err := zerolog.ParseLevel(o.LogLevel); err != nil {
		return errors.Errorf("parsing log_level: %w", err)
	}

	for _, g := range o.IncludeFiles {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("include_files: invalid glob pattern %q", g)
		}
	}
	for _, g := range o.ExcludeFiles {
		if !doublestar.ValidatePattern(g) {
			return errors.Errorf("exclude_files: invalid glob pattern %q", g)
		}
	}

	return nil
}

// ⏱️ Timeout returns the parsed regex_timeout, zero when unset
func (o *Options) Timeout() time.Duration {
	d, _ := time.ParseDuration(o.RegexTimeout)
	return d
}

// 🗺️ Settings returns the options that are set, keyed by command line flag
// name, ready to be layered under flags and environment variables. Durations
// are parsed, so call Validate first.
func (o *Options) Settings() map[string]any {
	m := map[string]any{}
	set := func(key string, v any, ok bool) {
		if ok {
			m[key] = v
		}
	}

	set("fixed-strings", o.FixedStrings, o.FixedStrings)
	set("advanced-regex", o.AdvancedRegex, o.AdvancedRegex)
	set("match-whole-word", o.MatchWholeWord, o.MatchWholeWord)
	set("case-insensitive", o.CaseInsensitive, o.CaseInsensitive)
	set("include-files", strings.Join(o.IncludeFiles, ","), len(o.IncludeFiles) > 0)
	set("exclude-files", strings.Join(o.ExcludeFiles, ","), len(o.ExcludeFiles) > 0)
	set("hidden", o.Hidden, o.Hidden)
	set("parallel", o.Parallel, o.Parallel > 0)
	set("in-memory-threshold", o.InMemoryThreshold, o.InMemoryThreshold > 0)
	set("regex-timeout", o.Timeout(), o.Timeout() > 0)
	set("log-level", o.LogLevel, o.LogLevel != "")
	set("log-file", o.LogFile, o.LogFile != "")

	return m
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Options, error) {
	var opts Options
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}
	return &opts, nil
}
