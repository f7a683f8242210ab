package convert

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunState is the lifecycle of a Runner
type RunState int32

const (
	StateIdle RunState = iota
	StateRunning
	StateCompleted
)

func (s RunState) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// ProgressEvent is emitted once per finished file.
// Completed runs 1..Total without gaps or repeats.
type ProgressEvent struct {
	Completed int
	Total     int
	Outcome   ConversionOutcome
}

// BatchResult aggregates every outcome of a run
type BatchResult struct {
	Total     int
	Succeeded int
	Failed    int

	// Outcomes and Failures are in batch (input) order
	Outcomes []ConversionOutcome
	Failures []ConversionOutcome

	InputBytes  int64 // successful conversions only
	OutputBytes int64
	Elapsed     time.Duration
}

// RunOptions configures a Runner
type RunOptions struct {
	// OutputDir receives all JPEGs; empty writes beside each input
	OutputDir string
	// Jobs caps concurrent conversions; zero means one per CPU
	Jobs int
	// Timeout bounds each decode and encode; zero disables it
	Timeout time.Duration
	Logger  *slog.Logger
}

// Runner drives ConversionWorker over a batch. It owns the only shared
// mutable state of a run: the completed count and the outcome slice.
type Runner struct {
	codec ImageCodec
	opts  RunOptions
	log   *slog.Logger
	state atomic.Int32
}

// NewRunner creates an idle runner.
func NewRunner(codec ImageCodec, opts RunOptions) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		codec: codec,
		opts:  opts,
		log:   logger.With(slog.String("component", "runner")),
	}
}

// State reports where the runner is in its lifecycle.
func (r *Runner) State() RunState {
	return RunState(r.state.Load())
}

// Run converts files and returns the aggregate result.
//
// onProgress, if not nil, is called exactly once per file, serially and with
// a strictly increasing Completed count. It must not block for long since
// workers wait on it. Cancelling ctx stops new conversions from starting;
// conversions already in flight finish (a stage timeout still applies),
// and files never started are
// reported as cancelled so every file still has an outcome.
func (r *Runner) Run(ctx context.Context, files []ConvertibleFile, onProgress func(ProgressEvent)) BatchResult {
	r.state.Store(int32(StateRunning))
	defer r.state.Store(int32(StateCompleted))

	start := time.Now()
	total := len(files)
	if total == 0 {
		return BatchResult{}
	}

	jobs := r.poolSize(total)
	r.log.Info("batch started", "files", total, "jobs", jobs, "output_dir", r.opts.OutputDir)

	outcomes := make([]ConversionOutcome, total)
	var (
		mu        sync.Mutex
		completed int
	)
	record := func(o ConversionOutcome) {
		mu.Lock()
		defer mu.Unlock()

		outcomes[o.Index] = o
		completed++
		r.logOutcome(o)
		if onProgress != nil {
			onProgress(ProgressEvent{Completed: completed, Total: total, Outcome: o})
		}
	}

	workerOpts := WorkerOptions{Timeout: r.opts.Timeout}

	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, file := range files {
		target := ResolveOutput(file, r.opts.OutputDir)

		if err := ctx.Err(); err != nil {
			record(ConversionOutcome{
				Index:  i,
				File:   file,
				Target: target,
				Reason: ReasonCancelled,
				Err:    err,
			})
			continue
		}

		// Blocks while all workers are busy
		g.Go(func() error {
			o := Convert(ctx, file, target, r.codec, workerOpts)
			o.Index = i
			record(o)
			return nil
		})
	}
	_ = g.Wait()

	result := BatchResult{
		Total:    total,
		Outcomes: outcomes,
		Elapsed:  time.Since(start),
	}
	for _, o := range outcomes {
		if o.Success {
			result.Succeeded++
			result.InputBytes += o.InputBytes
			result.OutputBytes += o.OutputBytes
			continue
		}
		result.Failed++
		result.Failures = append(result.Failures, o)
	}

	r.log.Info("batch completed",
		"succeeded", result.Succeeded,
		"failed", result.Failed,
		"elapsed", result.Elapsed)
	return result
}

func (r *Runner) poolSize(total int) int {
	jobs := r.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return min(jobs, total)
}

func (r *Runner) logOutcome(o ConversionOutcome) {
	if o.Success {
		r.log.Debug("converted",
			"input", o.File.Path,
			"output", o.Target.Path,
			"bytes_in", o.InputBytes,
			"bytes_out", o.OutputBytes,
			"elapsed", o.Elapsed)
		return
	}
	r.log.Warn("conversion failed",
		"input", o.File.Path,
		"output", o.Target.Path,
		"reason", string(o.Reason),
		"error", o.Err)
}

// Run converts files with default options: one worker per CPU, no timeout.
func Run(ctx context.Context, files []ConvertibleFile, outputDir string, codec ImageCodec, onProgress func(ProgressEvent)) BatchResult {
	return NewRunner(codec, RunOptions{OutputDir: outputDir}).Run(ctx, files, onProgress)
}
