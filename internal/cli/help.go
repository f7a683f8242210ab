package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

// Help text styles share the palette in styles.go
var (
	helpTitleStyle   = TitleStyle
	helpDescStyle    = lipgloss.NewStyle().Foreground(warnColor).Italic(true).MarginBottom(1)
	helpHeadingStyle = lipgloss.NewStyle().Bold(true).Foreground(warnColor).MarginTop(1)
	helpFlagStyle    = lipgloss.NewStyle().Bold(true).Foreground(okColor)
	helpNameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00AAAA"))
	helpDefaultStyle = lipgloss.NewStyle().Italic(true).Foreground(mutedColor)
)

// helpEntry is one line of a help section: a styled name and its description
type helpEntry struct {
	name   string
	detail string
}

var exitCodeEntries = []helpEntry{
	{"0", "every file converted, or nothing to convert"},
	{"1", "bad configuration, too many files or output directory busy"},
	{"2", "one or more files failed to convert"},
}

// StyledHelpPrinter returns a kong help printer that renders usage, paths,
// flags and exit codes with Lipgloss. The description comes from kong.Description.
func StyledHelpPrinter(_ kong.HelpOptions) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render(ctx.Model.Name))
		sb.WriteString("\n")
		if ctx.Model.Help != "" {
			sb.WriteString(helpDescStyle.Render(ctx.Model.Help))
			sb.WriteString("\n")
		}

		writeHelpSection(&sb, "Usage:", helpStyle{}, []helpEntry{
			{name: ctx.Model.Name + " [flags] <paths> ..."},
		})
		writeHelpSection(&sb, "Arguments:", helpStyle{name: helpNameStyle}, positionalEntries(ctx.Model.Node))
		writeHelpSection(&sb, "Flags:", helpStyle{name: helpFlagStyle}, flagEntries(ctx.Model.Node))
		writeHelpSection(&sb, "Exit codes:", helpStyle{name: helpNameStyle}, exitCodeEntries)

		sb.WriteString("\n")
		_, err := fmt.Fprint(ctx.Stdout, sb.String())
		return err
	}
}

type helpStyle struct {
	name lipgloss.Style
}

// writeHelpSection writes a heading and its entries; empty sections are skipped
func writeHelpSection(w io.Writer, heading string, style helpStyle, entries []helpEntry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", helpHeadingStyle.Render(heading))
	for _, e := range entries {
		line := "  " + style.name.Render(e.name)
		if e.detail != "" {
			line += "  " + e.detail
		}
		fmt.Fprintln(w, line)
	}
}

func positionalEntries(node *kong.Node) []helpEntry {
	entries := make([]helpEntry, 0, len(node.Positional))
	for _, arg := range node.Positional {
		entries = append(entries, helpEntry{name: arg.Summary(), detail: arg.Help})
	}
	return entries
}

// flagEntries lists -h first, then the model's flags in declaration order.
// Boolean flags never show their false default.
func flagEntries(node *kong.Node) []helpEntry {
	entries := []helpEntry{{name: "-h, --help", detail: "Show context-sensitive help."}}

	for _, f := range node.Flags {
		if f.Name == "help" {
			continue
		}

		name := "--" + f.Name
		if f.Short != 0 {
			name = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() && f.PlaceHolder != "" {
			name += "=" + strings.ToUpper(f.PlaceHolder)
		}

		detail := f.Help
		if f.Default != "" && !(f.IsBool() && f.Default == "false") {
			detail += " " + helpDefaultStyle.Render("(default: "+f.Default+")")
		}
		entries = append(entries, helpEntry{name: name, detail: detail})
	}
	return entries
}
