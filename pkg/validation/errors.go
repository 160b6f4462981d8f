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
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🏷️ Category names the configuration input a validation error belongs to
type Category int

const (
	CategorySearchText Category = iota
	CategoryIncludeGlobs
	CategoryExcludeGlobs
)

// Title is the human-readable heading for the category
func (c Category) Title() string {
	switch c {
	case CategorySearchText:
		return "Failed to parse search text"
	case CategoryIncludeGlobs:
		return "Failed to parse include globs"
	case CategoryExcludeGlobs:
		return "Failed to parse exclude globs"
	default:
		return "Invalid configuration"
	}
}

// ⚠️ Error is one failed check
type Error struct {
	Category Category
	Summary  string // short description, e.g. "Couldn't parse regex"
	Detail   string // underlying parser message
}

// 📚 Errors is the non-empty set of failed checks from one validation pass
type Errors []Error

func (e Errors) Error() string {
	h := NewSimpleErrorHandler()
	e.Report(h)
	msg, _ := h.ErrorsStr()
	return msg
}

// Report hands every error to the handler method for its category
func (e Errors) Report(h ErrorHandler) {
	for _, err := range e {
		switch err.Category {
		case CategorySearchText:
			h.HandleSearchTextError(err.Summary, err.Detail)
		case CategoryIncludeGlobs:
			h.HandleIncludeFilesError(err.Summary, err.Detail)
		case CategoryExcludeGlobs:
			h.HandleExcludeFilesError(err.Summary, err.Detail)
		}
	}
}

// ByCategory returns the errors belonging to c
func (e Errors) ByCategory(c Category) Errors {
	var out Errors
	for _, err := range e {
		if err.Category == c {
			out = append(out, err)
		}
	}
	return out
}

// 🎛️ ErrorHandler receives validation errors, one method per category
type ErrorHandler interface {
	HandleSearchTextError(summary, detail string)
	HandleIncludeFilesError(summary, detail string)
	HandleExcludeFilesError(summary, detail string)
}

// 📥 SimpleErrorHandler collects errors as formatted strings
type SimpleErrorHandler struct {
	Errors []string
}

// NewSimpleErrorHandler creates an empty handler
func NewSimpleErrorHandler() *SimpleErrorHandler {
	return &SimpleErrorHandler{}
}

// ErrorsStr renders every collected error, or false when there are none
func (h *SimpleErrorHandler) ErrorsStr() (string, bool) {
	if len(h.Errors) == 0 {
		return "", false
	}
	return fmt.Sprintf("Validation errors:\n%s", strings.Join(h.Errors, "\n")), true
}

func (h *SimpleErrorHandler) push(title, detail string) {
	h.Errors = append(h.Errors, fmt.Sprintf("\n%s:\n%s", color.RedString(title), detail))
}

func (h *SimpleErrorHandler) HandleSearchTextError(_, detail string) {
	h.push(CategorySearchText.Title(), detail)
}

func (h *SimpleErrorHandler) HandleIncludeFilesError(_, detail string) {
	h.push(CategoryIncludeGlobs.Title(), detail)
}

func (h *SimpleErrorHandler) HandleExcludeFilesError(_, detail string) {
	h.push(CategoryExcludeGlobs.Title(), detail)
}
