package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// maxQueueLines bounds the file list when the terminal height is unknown
const maxQueueLines = 12

// renderProcessingView renders the main conversion view
func renderProcessingView(m Model) string {
	var b strings.Builder

	// Header
	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	// File queue
	b.WriteString(renderFileQueue(m))
	b.WriteString("\n")

	// Overall progress
	b.WriteString(renderOverallProgress(m))
	b.WriteString("\n")

	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("q to cancel")
	b.WriteString(hint)

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#A40000")).
		Render("pngtojpeg - Batch PNG to JPEG Converter")

	subtitle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Italic(true).
		Render(fmt.Sprintf("Converting %d file(s)", m.TotalFiles))

	return title + "\n" + subtitle
}

// renderFileQueue renders the list of files with their status. Long batches
// show the most recently finished files followed by a count of the rest.
func renderFileQueue(m Model) string {
	limit := maxQueueLines
	if m.Height > 0 {
		limit = max(m.Height-10, 3)
	}

	visible := visibleFiles(m.Files, limit)

	var b strings.Builder
	for _, i := range visible {
		b.WriteString(renderFileEntry(m.Files[i]))
		b.WriteString("\n")
	}
	if hidden := len(m.Files) - len(visible); hidden > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).
			Render(fmt.Sprintf("   … and %d more", hidden)))
		b.WriteString("\n")
	}

	return b.String()
}

// visibleFiles picks up to limit indices: failures first, then finished
// files, then the head of the queue, returned in input order.
func visibleFiles(files []FileProgress, limit int) []int {
	if len(files) <= limit {
		idx := make([]int, len(files))
		for i := range files {
			idx[i] = i
		}
		return idx
	}

	chosen := make(map[int]bool, limit)
	pick := func(match func(FileProgress) bool) {
		for i := len(files) - 1; i >= 0 && len(chosen) < limit; i-- {
			if !chosen[i] && match(files[i]) {
				chosen[i] = true
			}
		}
	}
	pick(func(f FileProgress) bool { return f.Status == StatusFailed })
	pick(func(f FileProgress) bool { return f.Status == StatusDone || f.Status == StatusCancelled })
	for i := 0; i < len(files) && len(chosen) < limit; i++ {
		chosen[i] = true
	}

	idx := make([]int, 0, len(chosen))
	for i := range files {
		if chosen[i] {
			idx = append(idx, i)
		}
	}
	return idx
}

// renderFileEntry renders a single file entry in the queue
func renderFileEntry(file FileProgress) string {
	fileName := filepath.Base(file.InputPath)

	switch file.Status {
	case StatusDone:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
		return fmt.Sprintf(" %s %s → %s (%s)", icon, fileName, filepath.Base(file.OutputPath),
			file.Elapsed.Round(time.Millisecond))

	case StatusFailed:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		return fmt.Sprintf(" %s %s: %s", icon, fileName, file.Reason)

	case StatusCancelled:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("-")
		return fmt.Sprintf(" %s %s: cancelled", icon, fileName)

	default:
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Render("○")
		return fmt.Sprintf(" %s %s", icon, fileName)
	}
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %3d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#888888")).
		Padding(0, 1).
		Width(60)

	var progress float64
	if m.TotalFiles > 0 {
		progress = float64(m.finished()) / float64(m.TotalFiles)
	}

	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render(spinnerFrames[m.spinnerIndex])

	var content strings.Builder
	content.WriteString(fmt.Sprintf("%s %s [%s]\n", spinner, renderProgressBar(progress, 36), formatElapsed(time.Since(m.StartTime))))
	content.WriteString(fmt.Sprintf("%d/%d done", m.finished(), m.TotalFiles))
	if m.FailedFiles > 0 {
		content.WriteString(fmt.Sprintf(", %d failed", m.FailedFiles))
	}

	return box.Render(content.String())
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	r := m.Result
	headerText := "✨ Conversion Complete!"
	colour := "#00AA00"
	if r.Failed > 0 {
		headerText = "Conversion finished with errors"
		colour = "#FFA500"
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colour)).Render(headerText)
	b.WriteString(header)
	b.WriteString("\n\n")

	for _, o := range r.Failures {
		icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000")).Render("✗")
		b.WriteString(fmt.Sprintf(" %s %s: %s\n", icon, o.File.Path, o.Reason))
	}
	if len(r.Failures) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", 60))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d files converted successfully, %d failed (%s)\n",
		r.Succeeded, r.Failed, formatElapsed(r.Elapsed)))

	return b.String()
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
