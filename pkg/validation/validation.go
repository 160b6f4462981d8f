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

package validation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/replacerc/pkg/pattern"
	"github.com/walteh/replacerc/pkg/walk"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Config is the raw, unchecked search configuration
type Config struct {
	SearchText      string
	ReplacementText string
	FixedStrings    bool
	AdvancedRegex   bool
	IncludeGlobs    string // comma-separated
	ExcludeGlobs    string // comma-separated
	MatchWholeWord  bool
	MatchCase       bool
	IncludeHidden   bool
	Directory       string
	RegexTimeout    time.Duration
}

// 🎯 Searcher is a validated configuration, ready to run
type Searcher struct {
	Pattern     *pattern.Pattern
	Replacement string
	Walker      *walk.Walker
}

// ✅ Validate checks every independent part of cfg and returns a Searcher
// only if all of them succeed. Validation failures are returned together as
// Errors; any other error is returned as is.
func Validate(cfg Config) (*Searcher, error) {
	var errs Errors

	p, err := parseSearchText(cfg)
	if err != nil {
		var cerr *pattern.CompileError
		if !errors.As(err, &cerr) {
			return nil, errors.Errorf("compiling search text: %w", err)
		}
		errs = append(errs, Error{Category: CategorySearchText, Summary: "Couldn't parse regex", Detail: cerr.Error()})
	}

	include, err := ParseGlobs(cfg.IncludeGlobs)
	if err != nil {
		errs = append(errs, Error{Category: CategoryIncludeGlobs, Summary: "Couldn't parse glob pattern", Detail: err.Error()})
	}

	exclude, err := ParseGlobs(cfg.ExcludeGlobs)
	if err != nil {
		errs = append(errs, Error{Category: CategoryExcludeGlobs, Summary: "Couldn't parse glob pattern", Detail: err.Error()})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	dir := cfg.Directory
	if dir == "" {
		dir = "."
	}

	return &Searcher{
		Pattern:     p,
		Replacement: cfg.ReplacementText,
		Walker: &walk.Walker{
			Root:          filepath.Clean(dir),
			Include:       include,
			Exclude:       exclude,
			IncludeHidden: cfg.IncludeHidden,
		},
	}, nil
}

// ValidateWithHandler is Validate that also reports each failure to h
func ValidateWithHandler(cfg Config, h ErrorHandler) (*Searcher, error) {
	s, err := Validate(cfg)
	var errs Errors
	if errors.As(err, &errs) {
		errs.Report(h)
	}
	return s, err
}

func parseSearchText(cfg Config) (*pattern.Pattern, error) {
	mode := pattern.ModeRegex
	switch {
	case cfg.FixedStrings:
		mode = pattern.ModeLiteral
	case cfg.AdvancedRegex:
		mode = pattern.ModeAdvanced
	}

	return pattern.Compile(cfg.SearchText, mode, pattern.Options{
		WholeWord: cfg.MatchWholeWord,
		MatchCase: cfg.MatchCase,
		Timeout:   cfg.RegexTimeout,
	})
}

// 🌐 ParseGlobs splits a comma-separated glob list, dropping empty entries,
// and rejects any malformed pattern.
func ParseGlobs(list string) ([]string, error) {
	var globs, bad []string
	for _, g := range strings.Split(list, ",") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if !doublestar.ValidatePattern(g) {
			bad = append(bad, g)
			continue
		}
		globs = append(globs, g)
	}

	if len(bad) > 0 {
		quoted := make([]string, len(bad))
		for i, g := range bad {
			quoted[i] = fmt.Sprintf("%q", g)
		}
		return nil, errors.Errorf("invalid glob pattern: %s", strings.Join(quoted, ", "))
	}
	return globs, nil
}

// 🚶 WalkFiles calls fn for every file the searcher would process
func (s *Searcher) WalkFiles(ctx context.Context, fn func(path string) error) error {
	return s.Walker.Walk(ctx, fn)
}
