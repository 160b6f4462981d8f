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

package run

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/replacerc/pkg/log"
	"github.com/walteh/replacerc/pkg/validation"
	"gitlab.com/tozd/go/errors"
)

func init() {
	color.NoColor = true
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(b)
}

func TestFindAndReplace(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		wantSuccess int
	}{
		{
			name:        "in_memory",
			opts:        Options{Parallel: 2},
			wantSuccess: 0,
		},
		{
			name:        "streaming",
			opts:        Options{Parallel: 2, InMemoryThreshold: 1},
			wantSuccess: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			root := t.TempDir()
			writeFiles(t, root, map[string]string{
				"a.txt":         "foo bar\nfoo\r\nkeep",
				"b.txt":         "nothing here\n",
				"sub/c.txt":     "foo",
				".hidden/d.txt": "foo\n",
			})

			summary, err := FindAndReplace(ctx, validation.Config{
				SearchText:      "foo",
				ReplacementText: "baz",
				FixedStrings:    true,
				MatchCase:       true,
				Directory:       root,
			}, tt.opts)
			require.NoError(t, err)

			assert.Equal(t, 2, summary.FilesUpdated)
			assert.Equal(t, tt.wantSuccess, summary.Lines.NumSuccesses)
			assert.Equal(t, 0, summary.NumErrors())
			assert.Equal(t, "Success: 2 files updated", summary.String())

			assert.Equal(t, "baz bar\nbaz\r\nkeep", readFile(t, root, "a.txt"))
			assert.Equal(t, "nothing here\n", readFile(t, root, "b.txt"))
			assert.Equal(t, "baz", readFile(t, root, "sub/c.txt"))
			assert.Equal(t, "foo\n", readFile(t, root, ".hidden/d.txt"))
		})
	}
}

func TestFindAndReplaceGlobs(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"src/lib.rs":    "let old = 1;\n",
		"src/main.go":   "old\n",
		"target/out.rs": "old\n",
	})

	summary, err := FindAndReplace(ctx, validation.Config{
		SearchText:      `\bold\b`,
		ReplacementText: "new",
		MatchCase:       true,
		IncludeGlobs:    "*.rs",
		ExcludeGlobs:    "target",
		Directory:       root,
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.FilesUpdated)
	assert.Equal(t, "let new = 1;\n", readFile(t, root, "src/lib.rs"))
	assert.Equal(t, "old\n", readFile(t, root, "src/main.go"))
	assert.Equal(t, "old\n", readFile(t, root, "target/out.rs"))
}

func TestFindAndReplaceManyFiles(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()

	files := map[string]string{}
	for i := range 40 {
		files[fmt.Sprintf("dir%d/file%d.txt", i%5, i)] = fmt.Sprintf("value %d\nvalue again\n", i)
	}
	writeFiles(t, root, files)

	for _, opts := range []Options{{Parallel: 1}, {Parallel: 8}, {Parallel: 8, InMemoryThreshold: 1}} {
		summary, err := FindAndReplace(ctx, validation.Config{
			SearchText:      "value",
			ReplacementText: "VALUE",
			FixedStrings:    true,
			MatchCase:       true,
			Directory:       root,
		}, opts)
		require.NoError(t, err)

		// only the first pass changes anything
		if opts.Parallel == 1 {
			assert.Equal(t, 40, summary.FilesUpdated)
		} else {
			assert.Equal(t, 0, summary.FilesUpdated)
		}
		assert.Equal(t, 0, summary.NumErrors())
	}

	assert.Equal(t, "VALUE 7\nVALUE again\n", readFile(t, root, "dir2/file7.txt"))
}

func TestFindAndReplaceValidationErrors(t *testing.T) {
	ctx := testContext(t)

	_, err := FindAndReplace(ctx, validation.Config{
		SearchText:   "[invalid regex",
		IncludeGlobs: "[invalid",
		Directory:    t.TempDir(),
	}, Options{})
	require.Error(t, err)

	var errs validation.Errors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 2)
	assert.Contains(t, err.Error(), "Failed to parse search text")
	assert.Contains(t, err.Error(), "Failed to parse include globs")
}

func TestFindAndReplaceMissingDirectory(t *testing.T) {
	_, err := FindAndReplace(testContext(t), validation.Config{
		SearchText: "x",
		Directory:  filepath.Join(t.TempDir(), "missing"),
	}, Options{})
	require.Error(t, err)
}

func TestWalkFilesAndReplaceCancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "foo\n"})

	s, err := validation.Validate(validation.Config{SearchText: "foo", ReplacementText: "bar", Directory: root})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	summary, err := WalkFilesAndReplace(ctx, s, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.FilesUpdated)
	assert.Equal(t, "foo\n", readFile(t, root, "a.txt"))
}

func TestWalkFilesAndReplaceLogsFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt": "foo\n",
		"b.txt": "bar\n",
	})

	buf := &bytes.Buffer{}
	ctx := log.NewContext(testContext(t), log.New(buf, zerolog.Nop()))

	s, err := validation.Validate(validation.Config{SearchText: "foo", ReplacementText: "bar", Directory: root})
	require.NoError(t, err)

	summary, err := WalkFilesAndReplace(ctx, s, Options{Parallel: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.FilesUpdated)

	out := buf.String()
	assert.Contains(t, out, "replacing in "+root)
	assert.Contains(t, out, filepath.Join(root, "a.txt"))
	assert.Contains(t, out, "UPDATED")
	assert.NotContains(t, out, filepath.Join(root, "b.txt"))
}

func TestWalkFilesAndReplaceWarnsWhenStoppedEarly(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "foo\n"})

	buf := &bytes.Buffer{}
	ctx, cancel := context.WithCancel(log.NewContext(testContext(t), log.New(buf, zerolog.Nop())))
	cancel()

	s, err := validation.Validate(validation.Config{SearchText: "foo", ReplacementText: "bar", Directory: root})
	require.NoError(t, err)

	_, err = WalkFilesAndReplace(ctx, s, Options{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, buf.String(), "stopped before every file was visited")
}

func TestReplaceString(t *testing.T) {
	tests := []struct {
		name  string
		cfg   validation.Config
		input string
		want  string
	}{
		{
			name:  "regex_with_capture",
			cfg:   validation.Config{SearchText: `(\w+)@example\.com`, ReplacementText: "$1@test.org", MatchCase: true},
			input: "mail alice@example.com\nand bob@example.com",
			want:  "mail alice@test.org\nand bob@test.org",
		},
		{
			name:  "no_match_returns_input",
			cfg:   validation.Config{SearchText: "absent", ReplacementText: "x", MatchCase: true},
			input: "unchanged text",
			want:  "unchanged text",
		},
		{
			name:  "fixed_strings_do_not_expand",
			cfg:   validation.Config{SearchText: "a.b", ReplacementText: "$0", FixedStrings: true, MatchCase: true},
			input: "a.b axb",
			want:  "$0 axb",
		},
		{
			name:  "case_insensitive",
			cfg:   validation.Config{SearchText: "hello", ReplacementText: "bye"},
			input: "Hello HELLO",
			want:  "bye bye",
		},
		{
			name:  "advanced_lookahead",
			cfg:   validation.Config{SearchText: `foo(?=bar)`, ReplacementText: "X", AdvancedRegex: true, MatchCase: true},
			input: "foobar foobaz",
			want:  "Xbar foobaz",
		},
		{
			name:  "empty_search_is_noop",
			cfg:   validation.Config{SearchText: "", ReplacementText: "x"},
			input: "text",
			want:  "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReplaceString(testContext(t), tt.cfg, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceStringInvalid(t *testing.T) {
	_, err := ReplaceString(testContext(t), validation.Config{SearchText: "(unclosed"}, "input")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to parse search text")
}
