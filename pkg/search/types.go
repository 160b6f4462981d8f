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
	"fmt"

	"github.com/walteh/replacerc/pkg/lines"
)

// Reasons attached to failed outcomes
const (
	ReasonFileChanged = "File changed since last search"
	ReasonNotFound    = "Failed to find search result in file"
)

// 🏁 Outcome is the result of writing one candidate back to disk
type Outcome struct {
	Err string // empty on success
}

// Success marks a candidate whose replacement was written
var Success = Outcome{}

// Failed marks a candidate that could not be replaced
func Failed(reason string) Outcome {
	if reason == "" {
		reason = "unknown error"
	}
	return Outcome{Err: reason}
}

// OK reports whether the outcome is a success
func (o Outcome) OK() bool {
	return o.Err == ""
}

func (o Outcome) String() string {
	if o.OK() {
		return "success"
	}
	return "error: " + o.Err
}

// 🔎 Result is one matching line found by a scan
type Result struct {
	LineNumber int          // 1-indexed
	Line       string       // original content, without terminator
	LineEnding lines.Ending // original terminator
	Included   bool         // only included results may be replaced
}

// 📄 FileResult is a Result that belongs to a file on disk
type FileResult struct {
	Path string
	Result
}

// Location returns path:line
func (r FileResult) Location() string {
	return fmt.Sprintf("%s:%d", r.Path, r.LineNumber)
}

// ✏️ Candidate is a FileResult with its cached replacement text.
//
// Outcome is nil until the rewrite pass visits the line.
type Candidate struct {
	FileResult
	Replacement string
	Outcome     *Outcome
}

// SetOutcome records the write result for the candidate
func (c *Candidate) SetOutcome(o Outcome) {
	c.Outcome = &o
}
