package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"time"
)

// FailureReason classifies a failed conversion
type FailureReason string

const (
	ReasonNone         FailureReason = ""
	ReasonDecodeFailed FailureReason = "decode-failed"
	ReasonEncodeFailed FailureReason = "encode-failed"
	ReasonTimeout      FailureReason = "timeout"
	ReasonCancelled    FailureReason = "cancelled"
)

// ConversionOutcome is the result of converting one file. Exactly one is
// produced for every file accepted into a batch.
type ConversionOutcome struct {
	Index   int // position in the batch
	File    ConvertibleFile
	Target  OutputTarget
	Success bool
	Reason  FailureReason
	Err     error

	InputBytes  int64
	OutputBytes int64
	Elapsed     time.Duration
}

// WorkerOptions tunes a single conversion
type WorkerOptions struct {
	// Timeout bounds each of decode and encode. Zero disables it.
	Timeout time.Duration
}

var errStageTimeout = errors.New("timed out")

// Convert decodes file and writes it to target as JPEG at DefaultQuality.
// It never panics and never returns an error: every failure is captured in
// the outcome. A failed encode may leave a partial file at target.
func Convert(ctx context.Context, file ConvertibleFile, target OutputTarget, codec ImageCodec, opts WorkerOptions) ConversionOutcome {
	start := time.Now()
	out := ConversionOutcome{File: file, Target: target}
	finish := func(reason FailureReason, err error) ConversionOutcome {
		out.Reason = reason
		out.Err = err
		out.Success = reason == ReasonNone
		out.Elapsed = time.Since(start)
		return out
	}

	if err := ctx.Err(); err != nil {
		return finish(ReasonCancelled, err)
	}
	// Once started, a conversion runs to completion; only the stage
	// deadline can abandon it.
	ctx = context.WithoutCancel(ctx)

	if info, err := os.Stat(file.Path); err == nil {
		out.InputBytes = info.Size()
	}

	img, err := runStage(ctx, opts.Timeout, func(ctx context.Context) (image.Image, error) {
		return codec.Decode(ctx, file.Path)
	})
	if err == nil && img == nil {
		err = errors.New("decoder returned no image")
	}
	if err != nil {
		return finish(classify(err, ReasonDecodeFailed), err)
	}

	_, err = runStage(ctx, opts.Timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, codec.EncodeJPEG(ctx, img, DefaultJPEGOptions(), target.Path)
	})
	if err != nil {
		return finish(classify(err, ReasonEncodeFailed), err)
	}

	if info, err := os.Stat(target.Path); err == nil {
		out.OutputBytes = info.Size()
	}
	return finish(ReasonNone, nil)
}

func classify(err error, stage FailureReason) FailureReason {
	switch {
	case errors.Is(err, errStageTimeout):
		return ReasonTimeout
	case errors.Is(err, context.Canceled):
		return ReasonCancelled
	}
	return stage
}

// runStage calls fn, converting panics into errors. With a positive timeout
// fn runs on its own goroutine and is abandoned if it outlives the deadline.
func runStage[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return guard(ctx, fn)
	}

	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := guard(stageCtx, fn)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		if r.err != nil && errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
			return r.v, fmt.Errorf("%w after %s: %w", errStageTimeout, timeout, r.err)
		}
		return r.v, r.err
	case <-stageCtx.Done():
		var zero T
		return zero, fmt.Errorf("%w after %s", errStageTimeout, timeout)
	}
}

func guard[T any](ctx context.Context, fn func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("codec panic: %v", r)
		}
	}()
	return fn(ctx)
}
