// This file contains the per-file results table used by batch reports.

package logging

import (
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/linuxmatters/pngtojpeg/internal/convert"
)

// MissingValue is the placeholder for sizes or timings that were never measured
const MissingValue = "-"

// FileRow is a single converted (or failed) file in the results table.
// Values are pre-formatted so the table only handles layout.
type FileRow struct {
	Input  string
	Output string
	Status string
	Before string
	After  string
	Saved  string
	Time   string
}

// FileTable lays out one row per file in input order
type FileTable struct {
	Rows []FileRow
}

// NewFileTable creates an empty table.
func NewFileTable() *FileTable {
	return &FileTable{}
}

// AddOutcome appends a row describing one conversion outcome.
func (t *FileTable) AddOutcome(o convert.ConversionOutcome) {
	row := FileRow{
		Input:  filepath.Base(o.File.Path),
		Output: MissingValue,
		Status: "ok",
		Before: formatBytes(o.InputBytes),
		After:  MissingValue,
		Saved:  MissingValue,
		Time:   MissingValue,
	}
	if o.Target.Path != "" {
		row.Output = filepath.Base(o.Target.Path)
	}
	if !o.Success {
		row.Status = string(o.Reason)
	} else {
		row.After = formatBytes(o.OutputBytes)
		row.Saved = formatSaving(o.InputBytes, o.OutputBytes)
	}
	if o.Elapsed > 0 {
		row.Time = formatElapsed(o.Elapsed)
	}
	t.Rows = append(t.Rows, row)
}

// String renders the table with rounded borders; sizes and timings are right-aligned.
func (t *FileTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Input", "Output", "Status", "Before", "After", "Saved", "Time"})
	for _, r := range t.Rows {
		tw.AppendRow(table.Row{r.Input, r.Output, r.Status, r.Before, r.After, r.Saved, r.Time})
	}

	configs := make([]table.ColumnConfig, 0, 7)
	for i := 1; i <= 7; i++ {
		align := text.AlignLeft
		if i >= 4 {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// formatBytes renders a size using SI units; zero means unmeasured.
func formatBytes(n int64) string {
	if n <= 0 {
		return MissingValue
	}
	return humanize.Bytes(uint64(n))
}

// formatSaving returns the size reduction as a signed percentage
func formatSaving(before, after int64) string {
	if before <= 0 || after <= 0 {
		return MissingValue
	}
	return humanize.FormatFloat("#.#", 100*(1-float64(after)/float64(before))) + "%"
}

// formatElapsed shows sub-second timings in milliseconds.
func formatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return formatDuration(d)
}
