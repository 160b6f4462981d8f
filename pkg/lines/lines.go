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

package lines

import (
	"bufio"
	"bytes"
	"io"

	"gitlab.com/tozd/go/errors"
)

// ↩️ Ending is the exact terminator that followed a line
type Ending int

const (
	EndingNone Ending = iota // last line, no terminator
	EndingLF                 // \n
	EndingCRLF               // \r\n
)

// Bytes returns the terminator bytes
func (e Ending) Bytes() []byte {
	switch e {
	case EndingLF:
		return []byte("\n")
	case EndingCRLF:
		return []byte("\r\n")
	default:
		return nil
	}
}

// String returns a string representation of Ending
func (e Ending) String() string {
	switch e {
	case EndingLF:
		return "lf"
	case EndingCRLF:
		return "crlf"
	default:
		return "none"
	}
}

// 📄 Line is one line of input together with its terminator
type Line struct {
	Number  int    // 1-indexed
	Content []byte // without terminator
	Ending  Ending
}

// Raw returns the content followed by the original terminator
func (l Line) Raw() []byte {
	out := make([]byte, 0, len(l.Content)+2)
	out = append(out, l.Content...)
	return append(out, l.Ending.Bytes()...)
}

// 📖 Reader splits a byte stream into lines without normalising endings.
//
// It follows the bufio.Scanner calling convention:
//
//	r := lines.NewReader(f)
//	for r.Next() {
//		line := r.Line()
//	}
//	if err := r.Err(); err != nil { ... }
//
// A terminator at end of stream does not produce a trailing empty line; a
// final segment without terminator is returned with EndingNone. A lone \r is
// content, not a terminator.
type Reader struct {
	br   *bufio.Reader
	line Line
	num  int
	err  error
	done bool
}

// 🏭 NewReader creates a new line reader
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// Next advances to the next line, returning false at end of input or on error
func (r *Reader) Next() bool {
	if r.done {
		return false
	}

	raw, err := r.br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		r.err = errors.Errorf("reading line %d: %w", r.num+1, err)
		r.done = true
		return false
	}
	if errors.Is(err, io.EOF) {
		r.done = true
		if len(raw) == 0 {
			return false
		}
	}

	r.num++
	r.line = Line{Number: r.num}
	switch {
	case bytes.HasSuffix(raw, []byte("\r\n")):
		r.line.Content = raw[:len(raw)-2]
		r.line.Ending = EndingCRLF
	case bytes.HasSuffix(raw, []byte("\n")):
		r.line.Content = raw[:len(raw)-1]
		r.line.Ending = EndingLF
	default:
		r.line.Content = raw
		r.line.Ending = EndingNone
	}

	return true
}

// Line returns the current line. The content is owned by the caller.
func (r *Reader) Line() Line {
	return r.line
}

// Err returns the first non-EOF error encountered
func (r *Reader) Err() error {
	return r.err
}

// 📚 ReadAll reads every line from r
func ReadAll(r io.Reader) ([]Line, error) {
	var out []Line
	lr := NewReader(r)
	for lr.Next() {
		out = append(out, lr.Line())
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
