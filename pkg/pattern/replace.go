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
	"context"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Match reports whether text contains a match.
//
// Only the backtracking engine can return an error, for example when an
// evaluation exceeds its timeout.
func (p *Pattern) Match(text string) (bool, error) {
	if text == "" || p.IsEmpty() {
		return false, nil
	}

	if p.bounded != nil {
		ok, err := p.bounded.MatchString(text)
		if err != nil {
			return false, errors.Errorf("evaluating whole-word pattern: %w", err)
		}
		return ok, nil
	}

	switch p.mode {
	case ModeLiteral:
		if p.literal != nil {
			return p.literal.MatchString(text), nil
		}
		return strings.Contains(text, p.text), nil
	case ModeRegex:
		return p.regex.MatchString(text), nil
	case ModeAdvanced:
		ok, err := p.advanced.MatchString(text)
		if err != nil {
			return false, errors.Errorf("evaluating advanced regex: %w", err)
		}
		return ok, nil
	default:
		panic("pattern: unhandled mode " + p.mode.String())
	}
}

// 🔄 ReplaceIfMatch returns text with every non-overlapping match substituted
// by replacement, or false when nothing matched.
//
// Regex modes expand capture group references ($1, ${name}) in replacement;
// literal mode inserts it verbatim. Empty text and empty patterns never match.
// Backtracking failures are logged and treated as no match.
func (p *Pattern) ReplaceIfMatch(ctx context.Context, text, replacement string) (string, bool) {
	out, ok, err := p.replace(text, replacement)
	if err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("pattern", p.text).
			Stringer("mode", p.mode).
			Msg("regex evaluation failed, treating as no match")
		return "", false
	}
	return out, ok
}

func (p *Pattern) replace(text, replacement string) (string, bool, error) {
	matched, err := p.Match(text)
	if err != nil || !matched {
		return "", false, err
	}

	if p.bounded != nil {
		return p.replaceBounded(text, replacement)
	}

	switch p.mode {
	case ModeLiteral:
		if p.literal != nil {
			return p.literal.ReplaceAllLiteralString(text, replacement), true, nil
		}
		return strings.ReplaceAll(text, p.text, replacement), true, nil
	case ModeRegex:
		return p.regex.ReplaceAllString(text, replacement), true, nil
	case ModeAdvanced:
		out, err := p.advanced.Replace(text, replacement, -1, -1)
		if err != nil {
			return "", false, errors.Errorf("replacing with advanced regex: %w", err)
		}
		return out, true, nil
	default:
		panic("pattern: unhandled mode " + p.mode.String())
	}
}

func (p *Pattern) replaceBounded(text, replacement string) (string, bool, error) {
	var (
		out string
		err error
	)
	if p.mode == ModeLiteral {
		out, err = p.bounded.ReplaceFunc(text, func(regexp2.Match) string { return replacement }, -1, -1)
	} else {
		out, err = p.bounded.Replace(text, replacement, -1, -1)
	}
	if err != nil {
		return "", false, errors.Errorf("replacing whole-word pattern: %w", err)
	}
	return out, true, nil
}
