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

package rewrite

import (
	"bytes"
	"context"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/replacerc/pkg/lines"
	"github.com/walteh/replacerc/pkg/pattern"
	"github.com/walteh/replacerc/pkg/search"
	"gitlab.com/tozd/go/errors"
)

// DefaultInMemoryThreshold is the largest file rewritten as a single unit
const DefaultInMemoryThreshold int64 = 100 * 1024 * 1024

var errNotUTF8 = errors.Base("content is not valid UTF-8")

// 🧭 Strategy is the way a file was rewritten
type Strategy int

const (
	StrategyInMemory  Strategy = iota // whole file as one unit
	StrategyStreaming                 // line by line
)

// String returns a string representation of Strategy
func (s Strategy) String() string {
	if s == StrategyInMemory {
		return "in_memory"
	}
	return "streaming"
}

// 📋 Report describes what happened to one file
type Report struct {
	Path       string
	Strategy   Strategy
	Changed    bool                // new content was renamed over the file
	Candidates []*search.Candidate // streaming only, each carrying an outcome once visited
}

// 🏗️ Engine rewrites files in place through a temporary sibling file.
//
// The engine holds no per-file state and is safe for concurrent use on
// different files. Concurrent rewrites of the same file are not coordinated:
// the last rename wins.
type Engine struct {
	InMemoryThreshold int64
}

// 🏭 New creates a new engine. A non-positive threshold uses DefaultInMemoryThreshold.
func New(inMemoryThreshold int64) *Engine {
	if inMemoryThreshold <= 0 {
		inMemoryThreshold = DefaultInMemoryThreshold
	}
	return &Engine{InMemoryThreshold: inMemoryThreshold}
}

// 🔄 ReplaceAllInFile replaces every match of p in the file at path.
//
// Files no larger than the threshold are rewritten as a single unit. When
// that fails for any reason, or the file is larger, the file is scanned and
// rewritten line by line.
func (e *Engine) ReplaceAllInFile(ctx context.Context, path string, p *pattern.Pattern, replacement string) (*Report, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", path).Logger()

	if _, err := parentDir(path); err != nil {
		return nil, err
	}

	if e.fitsInMemory(path) {
		changed, err := e.replaceInMemory(ctx, path, p, replacement)
		if err == nil {
			return &Report{Path: path, Strategy: StrategyInMemory, Changed: changed}, nil
		}
		logger.Debug().Err(err).Msg("in-memory replacement failed, falling back to streaming")
	}

	candidates, err := search.ScanFile(ctx, path, p, replacement)
	if err != nil {
		return nil, err
	}

	report := &Report{Path: path, Strategy: StrategyStreaming, Candidates: candidates}
	if len(candidates) == 0 {
		return report, nil
	}

	if err := e.ReplaceInFile(ctx, candidates); err != nil {
		return nil, err
	}

	for _, c := range candidates {
		if c.Outcome != nil && c.Outcome.OK() {
			report.Changed = true
			break
		}
	}

	return report, nil
}

func (e *Engine) fitsInMemory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() <= e.InMemoryThreshold
}

// replaceInMemory rewrites the file if p matches its content, reporting whether it did
func (e *Engine) replaceInMemory(ctx context.Context, path string, p *pattern.Pattern, replacement string) (bool, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return false, errors.Errorf("reading file: %w", err)
	}
	if !utf8.Valid(content) {
		return false, errNotUTF8
	}

	updated, ok := p.ReplaceIfMatch(ctx, string(content), replacement)
	if !ok {
		return false, nil
	}

	err = writeAtomic(path, func(w io.Writer) error {
		if _, err := io.WriteString(w, updated); err != nil {
			return errors.Errorf("writing temp file: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ✍️ ReplaceInFile performs the rewrite pass for candidates that all belong to
// the same file.
//
// A candidate whose line still reads exactly as scanned gets its replacement
// and a success outcome; one whose line changed keeps the on-disk line and a
// "File changed since last search" outcome. Candidates whose line is never
// reached keep a nil outcome. Non-included candidates are ignored. Two
// included candidates for the same line are rejected before the file is
// touched. If the
// rewrite fails, every included candidate is marked failed so no success is
// reported for a file that was not written.
func (e *Engine) ReplaceInFile(ctx context.Context, candidates []*search.Candidate) (err error) {
	if len(candidates) == 0 {
		return nil
	}

	path := candidates[0].Path
	byLine := make(map[int]*search.Candidate, len(candidates))
	for _, c := range candidates {
		if c.Path != path {
			return errors.Errorf("candidates span multiple files: %s and %s", path, c.Path)
		}
		if !c.Included {
			continue
		}
		if prev, ok := byLine[c.LineNumber]; ok && prev != c {
			return errors.Errorf("%w: %s line %d", ErrDuplicateLine, path, c.LineNumber)
		}
		byLine[c.LineNumber] = c
	}

	defer func() {
		if err != nil {
			for _, c := range byLine {
				c.SetOutcome(search.Failed("Failed to write file: " + err.Error()))
			}
		}
	}()

	if _, err = parentDir(path); err != nil {
		return err
	}

	input, err := os.Open(path)
	if err != nil {
		return errors.Errorf("opening %s: %w", path, err)
	}
	defer input.Close()

	var changed, mismatched int
	err = writeAtomic(path, func(w io.Writer) error {
		lr := lines.NewReader(input)
		for lr.Next() {
			line := lr.Line()
			content := line.Content

			if c, ok := byLine[line.Number]; ok {
				if bytes.Equal(content, []byte(c.Line)) {
					content = []byte(c.Replacement)
					c.SetOutcome(search.Success)
					changed++
				} else {
					c.SetOutcome(search.Failed(search.ReasonFileChanged))
					mismatched++
				}
			}

			if _, err := w.Write(content); err != nil {
				return errors.Errorf("writing temp file: %w", err)
			}
			if _, err := w.Write(line.Ending.Bytes()); err != nil {
				return errors.Errorf("writing temp file: %w", err)
			}
		}
		return lr.Err()
	})
	if err != nil {
		return errors.Errorf("rewriting %s: %w", path, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Int("replaced", changed).
		Int("changed_since_search", mismatched).
		Msg("rewrote file")

	return nil
}
