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

package stats

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/replacerc/pkg/search"
	"gitlab.com/tozd/go/errors"
)

func init() {
	color.NoColor = true
}

func newCandidate(path string, line int, included bool, outcome *search.Outcome) *search.Candidate {
	return &search.Candidate{
		FileResult: search.FileResult{
			Path:   path,
			Result: search.Result{LineNumber: line, Line: "line", Included: included},
		},
		Replacement: "replacement",
		Outcome:     outcome,
	}
}

func outcome(o search.Outcome) *search.Outcome {
	return &o
}

func TestCalculate(t *testing.T) {
	candidates := []*search.Candidate{
		newCandidate("a.txt", 1, true, outcome(search.Success)),
		newCandidate("a.txt", 2, true, outcome(search.Failed(search.ReasonFileChanged))),
		newCandidate("a.txt", 3, true, nil),
		newCandidate("a.txt", 4, true, outcome(search.Success)),
	}

	got := Calculate(candidates)

	assert.Equal(t, 2, got.NumSuccesses)
	require.Len(t, got.Errors, 2)
	assert.Equal(t, 2, got.Errors[0].LineNumber)
	assert.Equal(t, search.ReasonFileChanged, got.Errors[0].Outcome.Err)
	assert.Equal(t, 3, got.Errors[1].LineNumber)
	assert.Equal(t, search.ReasonNotFound, got.Errors[1].Outcome.Err)
	assert.Nil(t, candidates[2].Outcome, "input candidates are not mutated")
	assert.Equal(t, len(candidates), got.Total(), "every candidate is accounted for")
}

func TestCalculateEmpty(t *testing.T) {
	got := Calculate(nil)
	assert.Zero(t, got.NumSuccesses)
	assert.Empty(t, got.Errors)
}

func TestCalculatePanicsOnExcluded(t *testing.T) {
	assert.Panics(t, func() {
		Calculate([]*search.Candidate{newCandidate("a.txt", 1, false, outcome(search.Success))})
	})
}

func TestMergeIsOrderIndependent(t *testing.T) {
	a := Calculate([]*search.Candidate{
		newCandidate("b.txt", 5, true, nil),
		newCandidate("b.txt", 6, true, outcome(search.Success)),
	})
	b := Calculate([]*search.Candidate{
		newCandidate("a.txt", 9, true, outcome(search.Failed(search.ReasonFileChanged))),
		newCandidate("a.txt", 1, true, outcome(search.Success)),
	})
	c := Calculate([]*search.Candidate{newCandidate("c.txt", 1, true, nil)})

	left := a.Merge(b).Merge(c)
	right := c.Merge(b.Merge(a))

	assert.Equal(t, left, right)
	assert.Equal(t, 2, left.NumSuccesses)
	require.Len(t, left.Errors, 3)
	assert.Equal(t, "a.txt:9", left.Errors[0].Location())
	assert.Equal(t, "b.txt:5", left.Errors[1].Location())
	assert.Equal(t, "c.txt:1", left.Errors[2].Location())
}

func TestFormat(t *testing.T) {
	ignored := 2
	none := 1

	tests := []struct {
		name     string
		success  int
		ignored  *int
		errors   []*search.Candidate
		want     string
		contains []string
	}{
		{
			name: "no_errors", success: 5, ignored: &ignored, errors: []*search.Candidate{},
			want: "Successful replacements (lines): 5\nIgnored (lines): 2\nErrors: 0",
		},
		{
			name: "no_ignored_count", success: 7, errors: []*search.Candidate{},
			want: "Successful replacements (lines): 7\nErrors: 0",
		},
		{
			name: "no_error_list", success: 1,
			want: "Successful replacements (lines): 1",
		},
		{
			name: "with_errors", success: 3, ignored: &none,
			errors: []*search.Candidate{newCandidate("file.txt", 10, true, outcome(search.Failed("Test error")))},
			contains: []string{
				"Successful replacements (lines): 3",
				"Ignored (lines): 1",
				"Errors: 1",
				"file.txt:10",
				"Test error",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.success, tt.ignored, tt.errors)
			if tt.want != "" {
				assert.Equal(t, tt.want, got)
			}
			for _, c := range tt.contains {
				assert.Contains(t, got, c)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	t.Run("singular", func(t *testing.T) {
		assert.Equal(t, "Success: 1 file updated", Summary{FilesUpdated: 1}.String())
	})

	t.Run("plural", func(t *testing.T) {
		assert.Equal(t, "Success: 0 files updated", Summary{}.String())
	})

	t.Run("with_errors", func(t *testing.T) {
		s := Summary{
			FilesUpdated: 2,
			FileErrors:   []FileError{{Path: "locked.txt", Err: errors.New("permission denied")}},
			Lines:        Calculate([]*search.Candidate{newCandidate("a.txt", 3, true, nil)}),
		}
		assert.Equal(t, 2, s.NumErrors())
		assert.Equal(t,
			"Success: 2 files updated\nErrors: 2\nlocked.txt: permission denied\na.txt:3: Failed to find search result in file",
			s.String())
		assert.Equal(t, "Success: 2 files updated\nErrors: 2", s.Headline())
	})

	t.Run("merge", func(t *testing.T) {
		x := Summary{FilesUpdated: 1, FileErrors: []FileError{{Path: "z", Err: errors.New("boom")}}}
		y := Summary{FilesUpdated: 3, FileErrors: []FileError{{Path: "a", Err: errors.New("bang")}}}
		assert.Equal(t, x.Merge(y), y.Merge(x))
		assert.Equal(t, 4, x.Merge(y).FilesUpdated)
		assert.Equal(t, "a", x.Merge(y).FileErrors[0].Path)
	})
}
