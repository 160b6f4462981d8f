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

package pattern

import (
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
	"gitlab.com/tozd/go/errors"
)

// DefaultMatchTimeout bounds a single backtracking regex evaluation.
const DefaultMatchTimeout = 5 * time.Second

// 🔤 Mode selects the matching engine
type Mode int

const (
	ModeLiteral  Mode = iota // plain substring equality
	ModeRegex                // RE2, linear time
	ModeAdvanced             // backtracking, supports lookaround
)

// String returns a string representation of Mode
func (m Mode) String() string {
	switch m {
	case ModeLiteral:
		return "literal"
	case ModeRegex:
		return "regex"
	case ModeAdvanced:
		return "advanced_regex"
	default:
		return "unknown"
	}
}

// 🔧 Options are baked into a Pattern at compile time
type Options struct {
	WholeWord bool          // only match when not adjacent to another word character
	MatchCase bool          // false folds case
	Timeout   time.Duration // backtracking evaluation budget, zero uses DefaultMatchTimeout
}

// 🎯 Pattern is an immutable, compiled search pattern.
//
// Exactly one of the engine fields is in use. A literal pattern without
// whole-word or case folding matches by substring. Whole-word literal and
// regex patterns run on bounded, since RE2 has no lookaround.
type Pattern struct {
	mode Mode
	text string

	literal  *regexp.Regexp
	regex    *regexp.Regexp
	bounded  *regexp2.Regexp
	advanced *regexp2.Regexp
}

// ❌ CompileError reports malformed search text
type CompileError struct {
	Mode Mode
	Text string
	Err  error
}

func (e *CompileError) Error() string {
	return e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// 🏭 Compile turns raw search text into a Pattern.
//
// Literal text never fails to compile. Empty text compiles in every mode but
// the resulting Pattern matches nothing. Regex text is always checked on its
// own before any whole-word wrapping is applied.
func Compile(text string, mode Mode, opts Options) (*Pattern, error) {
	p := &Pattern{mode: mode, text: text}

	switch mode {
	case ModeLiteral:
		switch {
		case opts.WholeWord:
			p.bounded = regexp2.MustCompile(wordBounded(regexp.QuoteMeta(text)), boundedFlags(opts))
			p.bounded.MatchTimeout = matchTimeout(opts)
		case !opts.MatchCase:
			p.literal = regexp.MustCompile("(?i)" + regexp.QuoteMeta(text))
		}
	case ModeRegex:
		expr := text
		if !opts.MatchCase {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &CompileError{Mode: mode, Text: text, Err: err}
		}
		if !opts.WholeWord {
			p.regex = re
			break
		}
		bounded, err := regexp2.Compile(wordBounded(text), boundedFlags(opts))
		if err != nil {
			return nil, &CompileError{Mode: mode, Text: text, Err: err}
		}
		bounded.MatchTimeout = matchTimeout(opts)
		p.bounded = bounded
	case ModeAdvanced:
		var flags regexp2.RegexOptions
		if !opts.MatchCase {
			flags |= regexp2.IgnoreCase
		}
		re, err := regexp2.Compile(text, flags)
		if err != nil {
			return nil, &CompileError{Mode: mode, Text: text, Err: err}
		}
		if opts.WholeWord {
			re, err = regexp2.Compile(wordBounded(text), flags)
			if err != nil {
				return nil, &CompileError{Mode: mode, Text: text, Err: err}
			}
		}
		re.MatchTimeout = matchTimeout(opts)
		p.advanced = re
	default:
		return nil, errors.Errorf("unknown pattern mode %d", mode)
	}

	return p, nil
}

// wordBounded rejects matches that touch a word character on either side
func wordBounded(expr string) string {
	return `(?<!\w)(?:` + expr + `)(?!\w)`
}

// boundedFlags keeps RE2 syntax and ASCII word characters for whole-word
// literal and regex patterns
func boundedFlags(opts Options) regexp2.RegexOptions {
	flags := regexp2.RegexOptions(regexp2.RE2)
	if !opts.MatchCase {
		flags |= regexp2.IgnoreCase
	}
	return flags
}

func matchTimeout(opts Options) time.Duration {
	if opts.Timeout <= 0 {
		return DefaultMatchTimeout
	}
	return opts.Timeout
}

// Mode returns the engine the pattern was compiled for
func (p *Pattern) Mode() Mode {
	return p.mode
}

// Text returns the raw search text
func (p *Pattern) Text() string {
	return p.text
}

// IsEmpty reports whether the search text was empty
func (p *Pattern) IsEmpty() bool {
	return p.text == ""
}

func (p *Pattern) String() string {
	return p.mode.String() + ":" + p.text
}
