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
	"github.com/walteh/replacerc/pkg/search"
)

// 📊 Stats folds the outcomes of many candidates
type Stats struct {
	NumSuccesses int
	Errors       []*search.Candidate // each carries a failed outcome
}

// 🧮 Calculate folds candidates into Stats.
//
// A candidate the rewrite pass never reached is reported with
// search.ReasonNotFound. Every candidate must be included; folding one that
// is not is a programming error and panics.
func Calculate(candidates []*search.Candidate) Stats {
	var s Stats
	for _, c := range candidates {
		if !c.Included {
			panic(fmt.Sprintf("stats: expected only included results, found %s", c.Location()))
		}

		switch {
		case c.Outcome == nil:
			missing := *c
			missing.SetOutcome(search.Failed(search.ReasonNotFound))
			s.Errors = append(s.Errors, &missing)
		case c.Outcome.OK():
			s.NumSuccesses++
		default:
			s.Errors = append(s.Errors, c)
		}
	}
	return s
}

// Total is the number of outcomes accounted for
func (s Stats) Total() int {
	return s.NumSuccesses + len(s.Errors)
}

// 🔗 Merge combines two partial results. The result does not depend on the
// order of arguments: errors are ordered by path then line.
func (s Stats) Merge(o Stats) Stats {
	out := Stats{
		NumSuccesses: s.NumSuccesses + o.NumSuccesses,
		Errors:       make([]*search.Candidate, 0, len(s.Errors)+len(o.Errors)),
	}
	out.Errors = append(out.Errors, s.Errors...)
	out.Errors = append(out.Errors, o.Errors...)
	slices.SortStableFunc(out.Errors, compareCandidates)
	return out
}

func compareCandidates(a, b *search.Candidate) int {
	return cmp.Or(
		cmp.Compare(a.Path, b.Path),
		cmp.Compare(a.LineNumber, b.LineNumber),
		cmp.Compare(a.Outcome.Err, b.Outcome.Err),
	)
}

// 📝 Format renders a line-level replacement report. ignored and errors are
// only shown when non-nil.
func Format(numSuccesses int, ignored *int, errors []*search.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Successful replacements (lines): %d", numSuccesses)

	if ignored != nil {
		fmt.Fprintf(&b, "\nIgnored (lines): %d", *ignored)
	}

	if errors != nil {
		fmt.Fprintf(&b, "\nErrors: %d", len(errors))
		for _, e := range errors {
			reason := ""
			if e.Outcome != nil {
				reason = e.Outcome.Err
			}
			fmt.Fprintf(&b, "\n%s:\n  %s", e.Location(), color.RedString(reason))
		}
	}

	return b.String()
}
