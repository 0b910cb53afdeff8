package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/rtjson/internal/logging"
)

// Runner compiles discovered files with a bounded pool of workers.
type Runner struct {
	// Pipeline is shared by all workers.
	Pipeline *Pipeline
}

// New creates a Runner around pipeline.
func New(pipeline *Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and compiles them concurrently.
// Per-file failures are recorded in the result; only discovery errors and
// cancellation are returned. Outcomes are ordered by path whatever order
// the workers finish in.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	if len(files) == 0 {
		return result, nil
	}

	pipeline := r.Pipeline
	if pipeline == nil {
		pipeline = NewPipeline(opts.Config, opts.Logger)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	outcomes := make([]*FileOutcome, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			fileCtx := logging.WithFields(groupCtx, opts.Logger, logging.FieldPath, path)
			res, err := pipeline.ProcessFile(fileCtx, path, opts.DryRun)
			outcomes[i] = &FileOutcome{Path: path, Result: res, Error: err}
			if logger, ok := logging.Attached(fileCtx); ok {
				if err != nil {
					logger.Debug("file failed", logging.FieldError, err)
				} else {
					logger.Debug("file compiled", logging.FieldBlocks, res.Blocks, "status", res.Status)
				}
			}
			return nil
		})
	}
	_ = group.Wait()

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}
