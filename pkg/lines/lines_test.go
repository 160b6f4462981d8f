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
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type want struct {
	content string
	ending  Ending
}

func TestReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []want
	}{
		{name: "empty_input", input: "", want: nil},
		{name: "single_unterminated", input: "abc", want: []want{{"abc", EndingNone}}},
		{name: "single_lf", input: "abc\n", want: []want{{"abc", EndingLF}}},
		{name: "single_crlf", input: "abc\r\n", want: []want{{"abc", EndingCRLF}}},
		{
			name:  "trailing_empty_lines",
			input: "a\n\n",
			want:  []want{{"a", EndingLF}, {"", EndingLF}},
		},
		{
			name:  "lone_cr_is_content",
			input: "a\rb\nc\r",
			want:  []want{{"a\rb", EndingLF}, {"c\r", EndingNone}},
		},
		{
			name:  "mixed_endings",
			input: "\n\r\nline 1\nold text\r\nline 3\nline 4\r\nline 5\r\n\n\n",
			want: []want{
				{"", EndingLF},
				{"", EndingCRLF},
				{"line 1", EndingLF},
				{"old text", EndingCRLF},
				{"line 3", EndingLF},
				{"line 4", EndingCRLF},
				{"line 5", EndingCRLF},
				{"", EndingLF},
				{"", EndingLF},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadAll(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))

			var roundTrip bytes.Buffer
			for i, line := range got {
				assert.Equal(t, i+1, line.Number, "line numbers are 1-indexed")
				assert.Equal(t, tt.want[i].content, string(line.Content))
				assert.Equal(t, tt.want[i].ending, line.Ending)
				roundTrip.Write(line.Raw())
			}
			assert.Equal(t, tt.input, roundTrip.String(), "lines should round-trip byte for byte")
		})
	}
}

func TestReaderOneByteAtATime(t *testing.T) {
	input := "x\r\ny\nz"
	got, err := ReadAll(iotest.OneByteReader(strings.NewReader(input)))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, EndingCRLF, got[0].Ending)
	assert.Equal(t, EndingLF, got[1].Ending)
	assert.Equal(t, EndingNone, got[2].Ending)
}

func TestReaderError(t *testing.T) {
	r := NewReader(iotest.ErrReader(assert.AnError))
	assert.False(t, r.Next())
	require.Error(t, r.Err())
	assert.ErrorIs(t, r.Err(), assert.AnError)
	assert.False(t, r.Next(), "reader stays exhausted after an error")
}

func TestEndingBytes(t *testing.T) {
	assert.Nil(t, EndingNone.Bytes())
	assert.Equal(t, []byte("\n"), EndingLF.Bytes())
	assert.Equal(t, []byte("\r\n"), EndingCRLF.Bytes())
	assert.Equal(t, "crlf", EndingCRLF.String())
}
