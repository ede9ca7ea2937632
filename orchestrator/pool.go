// Package orchestrator runs indexed tasks on a bounded worker pool.
//
// Results are stored by task index, so the result slice always matches the
// input order regardless of completion order.
package orchestrator

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"mediaopt/models"
)

// DefaultWorkers is used when Options.Workers is not positive.
const DefaultWorkers = 4

// TaskFunc processes the task at index.
type TaskFunc func(ctx context.Context, index int) error

// TaskStatus represents the final state of a task.
type TaskStatus int

const (
	TaskPending TaskStatus = iota // Never started
	TaskCompleted
	TaskFailed
	TaskSkipped // Not started because the run was cancelled or aborted
)

func (s TaskStatus) String() string {
	switch s {
	case TaskCompleted:
		return "completed"
	case TaskFailed:
		return "failed"
	case TaskSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

// Result records the outcome of one task.
type Result struct {
	Index    int
	Status   TaskStatus
	Err      error
	Duration time.Duration
}

// Options configures a run.
type Options struct {
	Workers int

	// StopOnError cancels the remaining tasks on the first failure and makes
	// Run return that failure.
	StopOnError bool

	// OnProgress receives a snapshot after every finished task and once more
	// when the run ends. Calls are serialized.
	OnProgress models.ProgressCallback

	// Label names a task in progress reports. Defaults to the index.
	Label func(index int) string
}

// Stats summarizes a finished run.
type Stats struct {
	Total     int
	Completed int
	Failed    int
	Skipped   int
}

// Summarize counts results by status.
func Summarize(results []Result) Stats {
	s := Stats{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case TaskCompleted:
			s.Completed++
		case TaskFailed:
			s.Failed++
		case TaskSkipped, TaskPending:
			s.Skipped++
		}
	}
	return s
}

// Run executes fn for every index in [0, n) on at most opts.Workers
// goroutines and waits for all of them.
//
// Without StopOnError every task runs and failures are only recorded in the
// results; the returned error is non-nil only when ctx is cancelled. With
// StopOnError the first failure is returned.
//
// Example:
//
//	results, err := orchestrator.Run(ctx, len(files), orchestrator.Options{Workers: 4},
//		func(ctx context.Context, i int) error {
//			return analyze(ctx, files[i])
//		})
func Run(ctx context.Context, n int, opts Options, fn TaskFunc) ([]Result, error) {
	results := make([]Result, n)
	for i := range results {
		results[i].Index = i
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	label := opts.Label
	if label == nil {
		label = strconv.Itoa
	}

	var g *errgroup.Group
	runCtx := ctx
	if opts.StopOnError {
		g, runCtx = errgroup.WithContext(ctx)
	} else {
		g = &errgroup.Group{}
	}
	g.SetLimit(workers)

	progress := models.NewBatchProgress(n)
	var mu sync.Mutex
	report := func(index int, failed bool) {
		mu.Lock()
		defer mu.Unlock()
		progress.Advance(label(index), failed)
		if opts.OnProgress != nil {
			snapshot := *progress
			opts.OnProgress(&snapshot)
		}
	}

	for i := 0; i < n; i++ {
		if runCtx.Err() != nil {
			results[i].Status = TaskSkipped
			results[i].Err = runCtx.Err()
			continue
		}
		g.Go(func() error {
			if err := runCtx.Err(); err != nil {
				results[i].Status = TaskSkipped
				results[i].Err = err
				return nil
			}

			start := time.Now()
			err := fn(runCtx, i)
			results[i].Duration = time.Since(start)
			if err != nil {
				results[i].Status = TaskFailed
				results[i].Err = err
			} else {
				results[i].Status = TaskCompleted
			}
			report(i, err != nil)

			if opts.StopOnError {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	mu.Lock()
	switch {
	case ctx.Err() != nil:
		progress.State = models.ProgressStateCancelled
	case err != nil:
		progress.State = models.ProgressStateFailed
	default:
		progress.State = models.ProgressStateCompleted
	}
	progress.UpdatedAt = time.Now()
	if opts.OnProgress != nil {
		snapshot := *progress
		opts.OnProgress(&snapshot)
	}
	mu.Unlock()

	return results, err
}
