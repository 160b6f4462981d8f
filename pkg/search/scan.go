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

package search

import (
	"context"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/replacerc/pkg/lines"
	"github.com/walteh/replacerc/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

// 🏭 NewCandidate computes the replacement for res and returns a Candidate,
// or false when the pattern no longer matches the captured line.
func NewCandidate(ctx context.Context, res FileResult, p *pattern.Pattern, replacement string) (*Candidate, bool) {
	out, ok := p.ReplaceIfMatch(ctx, res.Line, replacement)
	if !ok {
		return nil, false
	}
	return &Candidate{FileResult: res, Replacement: out}, true
}

// 📂 ScanFile runs the scanning pass over the file at path and returns a
// Candidate for every matching line. Lines that are not valid UTF-8 never match.
func ScanFile(ctx context.Context, path string, p *pattern.Pattern, replacement string) ([]*Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	candidates, err := ScanReader(ctx, path, f, p, replacement)
	if err != nil {
		return nil, errors.Errorf("scanning %s: %w", path, err)
	}
	return candidates, nil
}

// ScanReader is ScanFile over an arbitrary reader, attributing results to path
func ScanReader(ctx context.Context, path string, r io.Reader, p *pattern.Pattern, replacement string) ([]*Candidate, error) {
	var candidates []*Candidate

	lr := lines.NewReader(r)
	for lr.Next() {
		line := lr.Line()
		if !utf8.Valid(line.Content) {
			continue
		}

		res := FileResult{
			Path: path,
			Result: Result{
				LineNumber: line.Number,
				Line:       string(line.Content),
				LineEnding: line.Ending,
				Included:   true,
			},
		}
		if c, ok := NewCandidate(ctx, res, p, replacement); ok {
			candidates = append(candidates, c)
		}
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Trace().
		Str("path", path).
		Int("matches", len(candidates)).
		Msg("scanned file")

	return candidates, nil
}

// 🧵 ScanString returns the lines of text that the pattern matches
func ScanString(ctx context.Context, text string, p *pattern.Pattern) []Result {
	var results []Result

	lr := lines.NewReader(strings.NewReader(text))
	for lr.Next() {
		line := lr.Line()
		ok, err := p.Match(string(line.Content))
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int("line", line.Number).Msg("match failed, treating as no match")
			continue
		}
		if !ok {
			continue
		}
		results = append(results, Result{
			LineNumber: line.Number,
			Line:       string(line.Content),
			LineEnding: line.Ending,
			Included:   true,
		})
	}

	return results
}
