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

package main

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"
	"github.com/walteh/replacerc/pkg/stats"
	"github.com/walteh/replacerc/pkg/validation"
	"gitlab.com/tozd/go/errors"
)

// errReported marks a failure that has already been printed
var errReported = errors.Base("errors already reported")

// 🖨️ ptermErrorHandler prints validation errors as they are reported
type ptermErrorHandler struct {
	printer *pterm.PrefixPrinter
}

func newPtermErrorHandler(w io.Writer) *ptermErrorHandler {
	return &ptermErrorHandler{printer: pterm.Error.WithWriter(w)}
}

func (h *ptermErrorHandler) print(c validation.Category, summary, detail string) {
	h.printer.Println(fmt.Sprintf("%s: %s\n%s", c.Title(), summary, detail))
}

func (h *ptermErrorHandler) HandleSearchTextError(summary, detail string) {
	h.print(validation.CategorySearchText, summary, detail)
}

func (h *ptermErrorHandler) HandleIncludeFilesError(summary, detail string) {
	h.print(validation.CategoryIncludeGlobs, summary, detail)
}

func (h *ptermErrorHandler) HandleExcludeFilesError(summary, detail string) {
	h.print(validation.CategoryExcludeGlobs, summary, detail)
}

// printSummary writes the run summary, listing errors inline or as a table
func printSummary(w io.Writer, s stats.Summary, table bool) {
	if s.NumErrors() == 0 {
		pterm.Success.WithWriter(w).Println(s.String())
		return
	}

	if !table {
		pterm.Warning.WithWriter(w).Println(s.String())
		return
	}

	pterm.Warning.WithWriter(w).Println(s.Headline())
	fmt.Fprint(w, renderErrorTable(s))
}

func renderErrorTable(s stats.Summary) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Path", "Line", "Error"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT})

	for _, fe := range s.FileErrors {
		table.Append([]string{fe.Path, "", fe.Err.Error()})
	}
	for _, le := range s.Lines.Errors {
		table.Append([]string{le.Path, strconv.Itoa(le.LineNumber), le.Outcome.Err})
	}

	table.Render()
	return buf.String()
}
