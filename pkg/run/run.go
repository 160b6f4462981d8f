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
	"context"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/replacerc/pkg/log"
	"github.com/walteh/replacerc/pkg/rewrite"
	"github.com/walteh/replacerc/pkg/stats"
	"github.com/walteh/replacerc/pkg/validation"
	"golang.org/x/sync/errgroup"
)

// ⚙️ Options tunes a whole-tree run
type Options struct {
	Parallel          int   // concurrent file rewrites, runtime.NumCPU() when not positive
	InMemoryThreshold int64 // see rewrite.New
}

// 🌳 FindAndReplace validates cfg and rewrites every matching file under its
// directory. Validation failures are returned as validation.Errors.
func FindAndReplace(ctx context.Context, cfg validation.Config, opts Options) (stats.Summary, error) {
	s, err := validation.Validate(cfg)
	if err != nil {
		return stats.Summary{}, err
	}
	return WalkFilesAndReplace(ctx, s, opts)
}

// 🏃 WalkFilesAndReplace rewrites every file the searcher walks, in parallel.
//
// Per-file failures are recorded in the summary and never stop the run. When
// ctx is done no further files are started; rewrites already in flight run to
// completion and the partial summary is returned with the walk error.
func WalkFilesAndReplace(ctx context.Context, s *validation.Searcher, opts Options) (stats.Summary, error) {
	limit := opts.Parallel
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	engine := rewrite.New(opts.InMemoryThreshold)
	console := log.FromContext(ctx)

	if console != nil {
		console.StartRun(ctx, log.RunOperation{
			Directory: s.Walker.Root,
			Pattern:   s.Pattern.Text(),
			Mode:      s.Pattern.Mode().String(),
		})
	}

	var (
		mu      sync.Mutex
		summary stats.Summary
		group   errgroup.Group
	)
	group.SetLimit(limit)

	walkErr := s.WalkFiles(ctx, func(path string) error {
		group.Go(func() error {
			partial := replaceFile(ctx, engine, s, path)

			mu.Lock()
			summary = summary.Merge(partial)
			mu.Unlock()
			return nil
		})
		return nil
	})

	// workers never return errors
	_ = group.Wait()

	if console != nil {
		if walkErr != nil {
			console.Warning("stopped before every file was visited: " + walkErr.Error())
		}
		if len(console.EndRun(ctx)) > 0 {
			console.LogNewline()
		}
	}

	zerolog.Ctx(ctx).Debug().
		Int("files_updated", summary.FilesUpdated).
		Int("errors", summary.NumErrors()).
		Msg("run finished")

	return summary, walkErr
}

func replaceFile(ctx context.Context, engine *rewrite.Engine, s *validation.Searcher, path string) stats.Summary {
	console := log.FromContext(ctx)

	report, err := engine.ReplaceAllInFile(ctx, path, s.Pattern, s.Replacement)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("path", path).Msg("file failed")
		if console != nil {
			console.LogFileOperation(ctx, log.FileOperation{Path: path, Status: log.StatusFailed, Err: err})
		}
		return stats.Summary{FileErrors: []stats.FileError{{Path: path, Err: err}}}
	}

	partial := stats.Summary{Lines: stats.Calculate(report.Candidates)}
	if report.Changed {
		partial.FilesUpdated = 1
	}

	if console != nil && (report.Changed || partial.Lines.Total() > 0) {
		status := log.StatusUnchanged
		if report.Changed {
			status = log.StatusUpdated
		}
		console.LogFileOperation(ctx, log.FileOperation{
			Path:     path,
			Strategy: report.Strategy.String(),
			Status:   status,
			Replaced: partial.Lines.NumSuccesses,
		})
	}

	return partial
}

// ✂️ ReplaceString applies cfg's search and replacement to input as a single
// unit. Input is returned unchanged when nothing matches. Glob and directory
// settings are validated but otherwise unused.
func ReplaceString(ctx context.Context, cfg validation.Config, input string) (string, error) {
	s, err := validation.Validate(cfg)
	if err != nil {
		return "", err
	}

	out, ok := s.Pattern.ReplaceIfMatch(ctx, input, s.Replacement)
	if !ok {
		return input, nil
	}
	return out, nil
}
