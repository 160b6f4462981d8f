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

package walk

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🚶 Walker yields candidate files below Root.
//
// Globs without a slash match the base name at any depth; globs with a slash
// match the slash-separated path relative to Root. A file is yielded when it
// matches at least one Include glob (or Include is empty) and neither it nor
// any parent directory matches an Exclude glob. Hidden entries, symlinks and
// binary files are skipped.
type Walker struct {
	Root          string
	Include       []string
	Exclude       []string
	IncludeHidden bool
}

// 🔁 Walk calls fn for every candidate file. It stops early when ctx is done
// or fn returns an error; unreadable entries are logged and skipped.
func (w *Walker) Walk(ctx context.Context, fn func(path string) error) error {
	logger := zerolog.Ctx(ctx)

	info, err := os.Stat(w.Root)
	if err != nil {
		return errors.Errorf("reading root %s: %w", w.Root, err)
	}
	if !info.IsDir() {
		return errors.Errorf("root %s is not a directory", w.Root)
	}

	return filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			logger.Warn().Err(walkErr).Str("path", path).Msg("skipping unreadable entry")
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		if path == w.Root {
			return nil
		}

		rel, err := filepath.Rel(w.Root, path)
		if err != nil {
			return errors.Errorf("relative path for %s: %w", path, err)
		}
		rel = filepath.ToSlash(rel)

		if skip := w.skip(d, rel); skip {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !w.included(rel) {
			return nil
		}

		binary, err := isBinaryFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
			return nil
		}
		if binary {
			logger.Trace().Str("path", path).Msg("skipping binary file")
			return nil
		}

		return fn(path)
	})
}

// 📋 Files collects every candidate path
func (w *Walker) Files(ctx context.Context) ([]string, error) {
	var files []string
	err := w.Walk(ctx, func(path string) error {
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func (w *Walker) skip(d fs.DirEntry, rel string) bool {
	if !w.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
		return true
	}
	if d.Type()&fs.ModeSymlink != 0 {
		return true
	}
	if !d.IsDir() && !d.Type().IsRegular() {
		return true
	}
	for _, g := range w.Exclude {
		if matchGlob(g, rel) {
			return true
		}
	}
	return false
}

func (w *Walker) included(rel string) bool {
	if len(w.Include) == 0 {
		return true
	}
	for _, g := range w.Include {
		if matchGlob(g, rel) {
			return true
		}
	}
	return false
}

func matchGlob(glob, rel string) bool {
	target := rel
	if !strings.Contains(glob, "/") {
		target = rel[strings.LastIndex(rel, "/")+1:]
	}
	ok, err := doublestar.Match(glob, target)
	return err == nil && ok
}

// 🔍 isBinaryFile reports whether the first 512 bytes contain a NUL byte
func isBinaryFile(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	buffer := make([]byte, 512)
	count, readErr := file.Read(buffer)
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return false, readErr
	}

	for _, b := range buffer[:count] {
		if b == 0 {
			return true, nil
		}
	}

	return false, nil
}
