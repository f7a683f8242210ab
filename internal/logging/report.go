// Package logging handles debug logging and batch reports for conversion runs

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/linuxmatters/pngtojpeg/internal/convert"
	"github.com/linuxmatters/pngtojpeg/internal/locale"
)

// reportTimeFormat is used in report filenames so they sort chronologically
const reportTimeFormat = "20060102-150405"

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate a batch report
type ReportData struct {
	RunID     string
	StartTime time.Time
	EndTime   time.Time
	OutputDir string // empty means outputs were written beside their inputs
	Jobs      int
	Timeout   time.Duration
	Result    convert.BatchResult
	Zone      locale.Zone
}

// ReportPath returns where GenerateReport writes for data: the output
// directory when one is set, otherwise the working directory.
func ReportPath(data ReportData) string {
	dir := data.OutputDir
	if dir == "" {
		dir = "."
	}
	stamp := data.EndTime
	if stamp.IsZero() {
		stamp = time.Now()
	}
	return filepath.Join(dir, "pngtojpeg-"+stamp.Format(reportTimeFormat)+".log")
}

// GenerateReport creates a batch report and returns its path.
//
// Report structure:
// 1. Header - run ID, timestamp and locale
// 2. Batch Summary - counts, sizes and timing
// 3. Failures - one line per failed file with its reason
// 4. Files - per-file table in input order
func GenerateReport(data ReportData) (string, error) {
	logPath := ReportPath(data)

	f, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create log file: %w", err)
	}

	writeReportHeader(f, data)
	writeBatchSummary(f, data)
	writeFailures(f, data.Result)
	writeFileTable(f, data.Result)

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write log file: %w", err)
	}
	return logPath, nil
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "PNG to JPEG Batch Report")
	fmt.Fprintln(w, "========================")
	fmt.Fprintf(w, "Run: %s\n", data.RunID)
	fmt.Fprintf(w, "Finished: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Timezone: %s\n", data.Zone)
	if data.OutputDir != "" {
		fmt.Fprintf(w, "Output: %s\n", data.OutputDir)
	} else {
		fmt.Fprintln(w, "Output: beside each input")
	}
	fmt.Fprintln(w, "")
}

// writeBatchSummary outputs totals, sizes and timing for the whole batch.
func writeBatchSummary(w io.Writer, data ReportData) {
	r := data.Result
	writeSection(w, "Batch Summary")

	fmt.Fprintf(w, "Files:      %d\n", r.Total)
	fmt.Fprintf(w, "Converted:  %d\n", r.Succeeded)
	fmt.Fprintf(w, "Failed:     %d\n", r.Failed)

	jobs := "auto"
	if data.Jobs > 0 {
		jobs = fmt.Sprintf("%d", data.Jobs)
	}
	fmt.Fprintf(w, "Workers:    %s\n", jobs)
	if data.Timeout > 0 {
		fmt.Fprintf(w, "Timeout:    %s per stage\n", data.Timeout)
	}

	if r.InputBytes > 0 {
		fmt.Fprintf(w, "Read:       %s\n", humanize.Bytes(uint64(r.InputBytes)))
	}
	if r.OutputBytes > 0 {
		fmt.Fprintf(w, "Written:    %s (%s)\n", humanize.Bytes(uint64(r.OutputBytes)), formatSaving(r.InputBytes, r.OutputBytes))
	}

	total := data.EndTime.Sub(data.StartTime)
	if total <= 0 {
		total = r.Elapsed
	}
	fmt.Fprintf(w, "Total:      %s", formatDuration(total))
	if r.Succeeded > 0 && total > 0 {
		fmt.Fprintf(w, " (%.1f files/s)", float64(r.Succeeded)/total.Seconds())
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "")
}

// writeFailures lists failed files in input order; omitted when all succeeded.
func writeFailures(w io.Writer, r convert.BatchResult) {
	if len(r.Failures) == 0 {
		return
	}
	writeSection(w, "Failures")
	for _, o := range r.Failures {
		line := fmt.Sprintf("%s: %s", o.File.Path, o.Reason)
		if o.Err != nil {
			line += " (" + o.Err.Error() + ")"
		}
		fmt.Fprintf(w, "- %s\n", wrapText(line, 78, "  "))
	}
	fmt.Fprintln(w, "")
}

func writeFileTable(w io.Writer, r convert.BatchResult) {
	if len(r.Outcomes) == 0 {
		return
	}
	writeSection(w, "Files")
	t := NewFileTable()
	for _, o := range r.Outcomes {
		t.AddOutcome(o)
	}
	fmt.Fprintln(w, t.String())
}
