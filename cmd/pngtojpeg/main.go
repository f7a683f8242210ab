package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/linuxmatters/pngtojpeg/internal/batchlock"
	"github.com/linuxmatters/pngtojpeg/internal/cli"
	"github.com/linuxmatters/pngtojpeg/internal/config"
	"github.com/linuxmatters/pngtojpeg/internal/convert"
	"github.com/linuxmatters/pngtojpeg/internal/locale"
	"github.com/linuxmatters/pngtojpeg/internal/logging"
	"github.com/linuxmatters/pngtojpeg/internal/ui"
)

var (
	version = "0.0.1"
)

// Process exit codes
const (
	exitOK       = 0
	exitUsage    = 1
	exitFailures = 2
)

// CLI defines the command-line interface
type CLI struct {
	Version  bool          `short:"v" help:"Show version information"`
	Config   string        `short:"c" type:"path" help:"Path to TOML config file (optional)"`
	Output   string        `short:"o" type:"path" help:"Write JPEGs into this directory instead of beside each PNG"`
	Jobs     int           `short:"j" help:"Files to convert in parallel (0 = one per CPU)"`
	Timeout  time.Duration `help:"Give up on a file when decoding or encoding takes longer than this (0 = no limit)"`
	Logs     bool          `help:"Save a batch report"`
	DebugLog string        `name:"debug-log" type:"path" help:"Append debug logging to this file"`
	Plain    bool          `help:"Print one line per file instead of the interactive view"`
	Paths    []string      `arg:"" name:"paths" help:"PNG files or directories to convert" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("pngtojpeg"),
		kong.Description("Batch PNG to JPEG converter"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(exitOK)
	}

	// Validate input
	if len(cliArgs.Paths) == 0 {
		cli.PrintError("No input paths specified")
		ctx.PrintUsage(false)
		os.Exit(exitUsage)
	}

	os.Exit(run(cliArgs))
}

// run converts everything named on the command line and returns the exit code
func run(cliArgs *CLI) int {
	cfg, cfgPath, cfgFound, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		return exitUsage
	}
	err = cfg.Apply(config.Overrides{
		OutputDir: cliArgs.Output,
		Jobs:      cliArgs.Jobs,
		Timeout:   cliArgs.Timeout,
		Logs:      cliArgs.Logs,
		DebugLog:  cliArgs.DebugLog,
	})
	if err != nil {
		cli.PrintError(err.Error())
		return exitUsage
	}
	timeout, _ := cfg.TimeoutDuration()

	runID := uuid.NewString()
	logger, closeLog, err := logging.NewDebugLogger(cfg.DebugLog, runID)
	if err != nil {
		cli.PrintError(err.Error())
		return exitUsage
	}
	defer closeLog()
	logger.Debug("starting", "version", version, "config", cfgPath, "config_found", cfgFound, "paths", len(cliArgs.Paths))

	files, err := convert.Prepare(cliArgs.Paths, convert.MaxBatchSize)
	if err != nil {
		logger.Warn("batch rejected", "error", err)
		cli.PrintError(err.Error())
		return exitUsage
	}
	if len(files) == 0 {
		cli.PrintWarning("No PNG files found")
		return exitOK
	}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			cli.PrintError(fmt.Sprintf("create output directory: %v", err))
			return exitUsage
		}
		lock, err := batchlock.Acquire(cfg.OutputDir)
		if err != nil {
			cli.PrintError(err.Error())
			if errors.Is(err, batchlock.ErrBusy) {
				logger.Warn("output directory busy", "dir", cfg.OutputDir)
			}
			return exitUsage
		}
		defer releaseLock(logger, lock)
	}

	warnCollisions(files, cfg.OutputDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner := convert.NewRunner(convert.StdCodec{}, convert.RunOptions{
		OutputDir: cfg.OutputDir,
		Jobs:      cfg.Jobs,
		Timeout:   timeout,
		Logger:    logger,
	})

	start := time.Now()
	var result convert.BatchResult
	summaryShown := false
	if useTUI(cliArgs.Plain) {
		result, summaryShown, err = runInteractive(ctx, cancel, runner, files)
		if err != nil {
			logger.Error("ui failed", "error", err)
			cli.PrintError(fmt.Sprintf("UI error: %v", err))
		}
	} else {
		result = runner.Run(ctx, files, func(ev convert.ProgressEvent) {
			cli.PrintProgress(os.Stdout, ev)
		})
	}
	end := time.Now()

	if cfg.Logs {
		writeReport(logger, logging.ReportData{
			RunID:     runID,
			StartTime: start,
			EndTime:   end,
			OutputDir: cfg.OutputDir,
			Jobs:      cfg.Jobs,
			Timeout:   timeout,
			Result:    result,
			Zone:      locale.Local(),
		})
	}

	if summaryShown {
		// The interactive view already listed the failures
		fmt.Println(cli.Summary(result))
	} else {
		cli.PrintSummary(os.Stdout, result)
	}
	return exitCode(result)
}

// runInteractive drives the batch behind the Bubbletea view. The bool reports
// whether the view reached its completion summary.
func runInteractive(ctx context.Context, cancel context.CancelFunc, runner *convert.Runner, files []convert.ConvertibleFile) (convert.BatchResult, bool, error) {
	p := tea.NewProgram(ui.NewModel(files, cancel))

	done := make(chan convert.BatchResult, 1)
	go func() {
		p.Send(ui.BatchStartMsg{Total: len(files)})
		result := runner.Run(ctx, files, func(ev convert.ProgressEvent) {
			p.Send(ui.ProgressMsg{Event: ev})
		})
		done <- result
		p.Send(ui.AllCompleteMsg{Result: result})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
	}
	result := <-done

	m, ok := final.(ui.Model)
	return result, ok && m.Done, err
}

// releaseLock drops the output-directory lock, logging any failure.
func releaseLock(logger *slog.Logger, lock interface{ Release() error }) {
	if err := lock.Release(); err != nil {
		logger.Warn("lock release failed", "error", err)
	}
}

func writeReport(logger *slog.Logger, data logging.ReportData) {
	path, err := logging.GenerateReport(data)
	if err != nil {
		logger.Warn("report failed", "error", err)
		cli.PrintWarning(fmt.Sprintf("could not write report: %v", err))
		return
	}
	fmt.Printf("%s %s\n", cli.KeyStyle.Render("Report:"), path)
}

// warnCollisions reports outputs that more than one input would write.
// Whichever conversion finishes last wins; nothing is renamed.
func warnCollisions(files []convert.ConvertibleFile, outputDir string) {
	collisions := convert.FindCollisions(files, outputDir)
	if len(collisions) == 0 {
		return
	}
	targets := make([]string, 0, len(collisions))
	for target := range collisions {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	cli.PrintCollisions(os.Stderr, targets, collisions)
}

func useTUI(plain bool) bool {
	if plain {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func exitCode(result convert.BatchResult) int {
	if result.Failed > 0 {
		return exitFailures
	}
	return exitOK
}
