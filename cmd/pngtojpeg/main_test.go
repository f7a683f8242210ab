package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linuxmatters/pngtojpeg/internal/convert"
)

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// baseArgs points the config at a file that does not exist so the user's
// own settings never leak into tests.
func baseArgs(t *testing.T, paths ...string) *CLI {
	t.Helper()
	return &CLI{
		Config: filepath.Join(t.TempDir(), "absent.toml"),
		Plain:  true,
		Paths:  paths,
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		result convert.BatchResult
		want   int
	}{
		{"all_ok", convert.BatchResult{Total: 2, Succeeded: 2}, exitOK},
		{"empty", convert.BatchResult{}, exitOK},
		{"some_failed", convert.BatchResult{Total: 2, Succeeded: 1, Failed: 1}, exitFailures},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.result); got != tt.want {
				t.Errorf("exitCode(%+v) = %d, want %d", tt.result, got, tt.want)
			}
		})
	}
}

func TestRun_ConvertsIntoOutputDir(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "jpegs")
	writeTestPNG(t, filepath.Join(in, "a.png"))
	writeTestPNG(t, filepath.Join(in, "b.PNG"))
	if err := os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	args := baseArgs(t, in)
	args.Output = out
	args.Logs = true

	if code := run(args); code != exitOK {
		t.Fatalf("run = %d, want %d", code, exitOK)
	}
	for _, name := range []string{"a.jpg", "b.jpg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	reports, _ := filepath.Glob(filepath.Join(out, "pngtojpeg-*.log"))
	if len(reports) != 1 {
		t.Errorf("found %d reports, want 1", len(reports))
	}
}

func TestRun_FailureExitCode(t *testing.T) {
	in := t.TempDir()
	writeTestPNG(t, filepath.Join(in, "good.png"))
	if err := os.WriteFile(filepath.Join(in, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run(baseArgs(t, in)); code != exitFailures {
		t.Fatalf("run = %d, want %d", code, exitFailures)
	}
	if _, err := os.Stat(filepath.Join(in, "good.jpg")); err != nil {
		t.Errorf("good.jpg not written beside its input: %v", err)
	}
	if _, err := os.Stat(filepath.Join(in, "bad.jpg")); err == nil {
		t.Error("bad.jpg written for an undecodable input")
	}
}

func TestRun_NothingToConvert(t *testing.T) {
	in := t.TempDir()
	if err := os.WriteFile(filepath.Join(in, "readme.md"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if code := run(baseArgs(t, in)); code != exitOK {
		t.Errorf("run = %d, want %d", code, exitOK)
	}
}

func TestRun_TooManyFiles(t *testing.T) {
	in := t.TempDir()
	for i := 0; i <= convert.MaxBatchSize; i++ {
		if err := os.WriteFile(filepath.Join(in, fmt.Sprintf("%03d.png", i)), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if code := run(baseArgs(t, in)); code != exitUsage {
		t.Fatalf("run = %d, want %d", code, exitUsage)
	}
	matches, _ := filepath.Glob(filepath.Join(in, "*.jpg"))
	if len(matches) != 0 {
		t.Errorf("%d outputs written for a rejected batch", len(matches))
	}
}

func TestRun_BadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfgPath, []byte("jobs = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	args := baseArgs(t, t.TempDir())
	args.Config = cfgPath

	if code := run(args); code != exitUsage {
		t.Errorf("run = %d, want %d", code, exitUsage)
	}
}

type failingLock struct{ err error }

func (l failingLock) Release() error { return l.err }

func TestReleaseLockLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	releaseLock(logger, failingLock{})
	if buf.Len() != 0 {
		t.Errorf("clean release logged %q, want nothing", buf.String())
	}

	releaseLock(logger, failingLock{err: errors.New("bad file descriptor")})
	for _, s := range []string{"level=WARN", "lock release failed", "bad file descriptor"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("log %q missing %q", buf.String(), s)
		}
	}
}
