package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// NewDebugLogger opens path for appending and returns a debug-level text logger
// writing to it with the run ID attached. An empty path yields a logger that
// discards everything. The returned close function is always non-nil.
func NewDebugLogger(path, runID string) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open debug log: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if runID != "" {
		logger = logger.With("run_id", runID)
	}
	return logger, f.Close, nil
}
