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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent file entries
	nameWidth     = 35 // Base width for filename
	strategyWidth = 12 // Width for rewrite strategy
	statusWidth   = 10 // Width for status text
)

// 🚦 FileStatus is what happened to one file during a run
type FileStatus int

const (
	StatusUnchanged FileStatus = iota
	StatusUpdated
	StatusFailed
)

func (s FileStatus) String() string {
	switch s {
	case StatusUpdated:
		return "UPDATED"
	case StatusFailed:
		return "FAILED"
	default:
		return "no change"
	}
}

// 🎯 FileOperation represents a file rewrite for logging
type FileOperation struct {
	Path     string     // File path
	Strategy string     // in_memory or streaming
	Status   FileStatus // Operation status
	Replaced int        // Number of lines replaced, streaming only
	Err      error      // Set when Status is StatusFailed
}

// 📦 RunOperation represents a whole-tree run for logging
type RunOperation struct {
	Directory string // Root of the walk
	Pattern   string // Search text as given
	Mode      string // literal, regex or advanced_regex
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunOperation
	operations []FileOperation
}

// 🏭 New creates a new logger that prints to console and records to zlog
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or nil if there is none
func FromContext(ctx context.Context) *Logger {
	logger, _ := ctx.Value(contextKey{}).(*Logger)
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch op.Status {
	case StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case StatusUpdated:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", strategyWidth, op.Strategy)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))

	switch {
	case op.Err != nil:
		line += " " + color.RedString(op.Err.Error())
	case op.Replaced > 0:
		line += fmt.Sprintf(" %d line(s)", op.Replaced)
	}
	return line
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	ev := l.zlog.Debug()
	if op.Err != nil {
		ev = l.zlog.Warn().Err(op.Err)
	}
	ev.Str("file", op.Path).
		Str("strategy", op.Strategy).
		Str("status", op.Status.String()).
		Int("replaced", op.Replaced).
		Msg("file operation")
}

// 📝 StartRun starts a new run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.operations = nil

	l.header("replacing in " + op.Directory)

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Pattern),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(op.Mode))

	l.zlog.Debug().
		Str("directory", op.Directory).
		Str("pattern", op.Pattern).
		Str("mode", op.Mode).
		Msg("starting run")
}

// 📝 EndRun ends the current run and returns the operations it logged
func (l *Logger) EndRun(ctx context.Context) []FileOperation {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return nil
	}

	ops := l.operations
	l.zlog.Debug().
		Str("directory", l.currentRun.Directory).
		Int("files", len(ops)).
		Msg("run complete")

	l.currentRun = nil
	l.operations = nil
	return ops
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// header prints a title line, the caller holds l.mu
func (l *Logger) header(msg string) {
	name := color.New(color.Bold, color.FgCyan).Sprint("replacerc")
	fmt.Fprintf(l.console, "%s %s\n", name, color.New(color.Faint).Sprint("• "+msg))
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}
