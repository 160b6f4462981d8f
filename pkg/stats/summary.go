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
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/fatih/color"
)

// ❌ FileError is an I/O failure that stopped one file from being rewritten
type FileError struct {
	Path string
	Err  error
}

// 📦 Summary is the outcome of a whole-tree run
type Summary struct {
	FilesUpdated int
	Lines        Stats
	FileErrors   []FileError
}

// NumErrors counts file-level and line-level errors
func (s Summary) NumErrors() int {
	return len(s.FileErrors) + len(s.Lines.Errors)
}

// 🔗 Merge combines two partial summaries independently of argument order
func (s Summary) Merge(o Summary) Summary {
	out := Summary{
		FilesUpdated: s.FilesUpdated + o.FilesUpdated,
		Lines:        s.Lines.Merge(o.Lines),
		FileErrors:   make([]FileError, 0, len(s.FileErrors)+len(o.FileErrors)),
	}
	out.FileErrors = append(out.FileErrors, s.FileErrors...)
	out.FileErrors = append(out.FileErrors, o.FileErrors...)
	slices.SortStableFunc(out.FileErrors, func(a, b FileError) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Err.Error(), b.Err.Error()))
	})
	return out
}

// Headline renders the counts of the summary without the error list
func (s Summary) Headline() string {
	plural := "s"
	if s.FilesUpdated == 1 {
		plural = ""
	}
	out := fmt.Sprintf("Success: %d file%s updated", s.FilesUpdated, plural)
	if n := s.NumErrors(); n > 0 {
		out += fmt.Sprintf("\nErrors: %d", n)
	}
	return out
}

// String renders the human-readable run summary
func (s Summary) String() string {
	var b strings.Builder
	b.WriteString(s.Headline())
	for _, fe := range s.FileErrors {
		fmt.Fprintf(&b, "\n%s: %s", fe.Path, color.RedString(fe.Err.Error()))
	}
	for _, le := range s.Lines.Errors {
		fmt.Fprintf(&b, "\n%s: %s", le.Location(), color.RedString(le.Outcome.Err))
	}

	return b.String()
}
