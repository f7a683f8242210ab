package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/pngtojpeg/internal/convert"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#A40000") // Brand red
	warnColor    = lipgloss.Color("#FFA500") // Orange
	okColor      = lipgloss.Color("#00AA00") // Green
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warnColor)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(okColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("pngtojpeg"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a non-fatal warning
func PrintWarning(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle.Render("Warning:"), message)
}

// PrintCollisions warns about output paths claimed by more than one input.
// Targets are printed in the order given.
func PrintCollisions(w io.Writer, targets []string, collisions map[string][]string) {
	for _, target := range targets {
		inputs := collisions[target]
		fmt.Fprintf(w, "%s %d inputs write to %s\n", WarningStyle.Render("Warning:"), len(inputs), target)
		for _, in := range inputs {
			fmt.Fprintf(w, "  %s\n", KeyStyle.Render(in))
		}
	}
}

// PrintProgress writes one line per finished file, for non-interactive output
func PrintProgress(w io.Writer, ev convert.ProgressEvent) {
	o := ev.Outcome
	counter := KeyStyle.Render(fmt.Sprintf("[%d/%d]", ev.Completed, ev.Total))
	if o.Success {
		fmt.Fprintf(w, "%s %s %s → %s\n", counter, SuccessStyle.Render("✓"), o.File.Path, filepath.Base(o.Target.Path))
		return
	}
	fmt.Fprintf(w, "%s %s %s: %s\n", counter, ErrorStyle.Render("✗"), o.File.Path, o.Reason)
}

// PrintSummary writes the closing line of a batch and lists each failure
func PrintSummary(w io.Writer, r convert.BatchResult) {
	for _, o := range r.Failures {
		detail := string(o.Reason)
		if o.Err != nil {
			detail += ": " + o.Err.Error()
		}
		fmt.Fprintf(w, "%s %s (%s)\n", ErrorStyle.Render("Failed:"), o.File.Path, detail)
	}

	style := SuccessStyle
	if r.Failed > 0 {
		style = WarningStyle
	}
	fmt.Fprintln(w, style.Render(Summary(r)))
}

// Summary is the one-line batch outcome.
func Summary(r convert.BatchResult) string {
	return fmt.Sprintf("%d files converted successfully, %d failed", r.Succeeded, r.Failed)
}
