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

package rewrite

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// ErrNoParentDir is returned for targets whose directory cannot be resolved
var ErrNoParentDir = errors.Base("target path has no parent directory")

// ErrDuplicateLine is returned when two included candidates target one line
var ErrDuplicateLine = errors.Base("more than one candidate for line")

// 📁 parentDir returns the directory that will hold the temporary file
func parentDir(path string) (string, error) {
	clean := filepath.Clean(path)
	dir := filepath.Dir(clean)
	if dir == clean {
		return "", errors.Errorf("%w: cannot create temp file for '%s'", ErrNoParentDir, path)
	}
	return dir, nil
}

// 💾 writeAtomic streams fill into a temporary sibling of path and renames it
// over path. The target keeps its permission bits. On failure the temporary
// file is removed and path is left untouched.
func writeAtomic(path string, fill func(w io.Writer) error) (err error) {
	dir, err := parentDir(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("checking target: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath) // Clean up temp file
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := fill(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		return errors.Errorf("setting temp file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}

	// Rename temp file to target (atomic operation)
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
