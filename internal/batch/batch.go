// Package batch runs the grid pipeline over many files at once.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/gruppe-adler/hexpop/internal/asc"
	"github.com/gruppe-adler/hexpop/internal/hexgrid"
	"github.com/gruppe-adler/hexpop/internal/hexmap"
)

// Options configures Run.
type Options struct {
	// Workers is the number of files parsed at the same time. Zero means
	// one per CPU.
	Workers     int
	Resolutions hexgrid.Resolutions
	Log         logrus.FieldLogger
}

// FileResult is the outcome of one file. Cells is nil if Err is set.
type FileResult struct {
	Path     string
	Cells    hexgrid.CoarseMap
	Stats    asc.Stats
	Duration time.Duration
	Err      error
}

// Report holds one result per input, in input order.
type Report struct {
	Results []FileResult
}

// Run parses every path with its own pipeline. A failing file does not
// stop the others. Once ctx is done no new file is started and the
// remaining ones report ctx.Err().
func Run(ctx context.Context, paths []string, idx hexgrid.Indexer, opts Options) Report {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	res := opts.Resolutions
	if res == (hexgrid.Resolutions{}) {
		res = hexgrid.DefaultResolutions()
	}
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	results := make([]FileResult, len(paths))
	sem := semaphore.NewWeighted(int64(workers))
	wg := sync.WaitGroup{}

	for i, path := range paths {
		results[i].Path = path

		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i].Err = err
			continue
		}

		wg.Add(1)
		go func(r *FileResult) {
			defer wg.Done()
			defer sem.Release(1)

			fileLog := log.WithField("file", r.Path)
			fileLog.Info("Parsing grid")

			start := time.Now()
			r.Cells, r.Stats, r.Err = asc.ParseFile(r.Path, idx,
				asc.WithResolutions(res),
				asc.WithLogger(fileLog),
			)
			r.Duration = time.Since(start)

			if r.Err != nil {
				fileLog.WithError(r.Err).Error("Failed to parse grid")
				return
			}
			fileLog.WithFields(logrus.Fields{
				"cells":    len(r.Cells),
				"retained": r.Stats.Retained,
				"duration": r.Duration.String(),
			}).Info("Parsed grid")
		}(&results[i])
	}

	wg.Wait()

	return Report{Results: results}
}

// Succeeded returns the results without error.
func (r Report) Succeeded() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.Err == nil {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the results with an error.
func (r Report) Failed() []FileResult {
	var out []FileResult
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of all failed files, or returns nil.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
	}
	return errors.Join(errs...)
}

// Merged unions the maps of all successful files in input order.
func (r Report) Merged() hexmap.Map {
	maps := make([]hexgrid.CoarseMap, 0, len(r.Results))
	for _, res := range r.Succeeded() {
		maps = append(maps, res.Cells)
	}
	return hexmap.Merge(maps...)
}
