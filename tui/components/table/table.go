// Package table renders themed lipgloss tables for the shell pages and the
// CLI listings.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/tabdeck/tui/theme"
)

// Options configures a styled table.
type Options struct {
	Bordered      bool
	AlternateRows bool
	Theme         *theme.Theme
}

// DefaultOptions returns bordered tables with alternating rows where the
// theme supports them.
func DefaultOptions() Options {
	return Options{
		Bordered:      true,
		AlternateRows: true,
		Theme:         theme.DefaultTheme,
	}
}

// New creates an empty table styled by opts. Header cells use the theme's
// header style; lipgloss numbers data rows from 0 once headers are set.
func New(opts Options) *ltable.Table {
	t := opts.Theme
	if t == nil {
		t = theme.DefaultTheme
	}

	table := ltable.New()
	if opts.Bordered {
		table = table.
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(t.Colors.Border))
	}
	return table.StyleFunc(func(row, col int) lipgloss.Style {
		if row == ltable.HeaderRow {
			return t.TableHeader.Padding(0, 1)
		}
		style := t.TableRow.Padding(0, 1)
		if opts.AlternateRows && t.UseAlternatingRows && row%2 == 1 {
			style = style.Background(t.Colors.SubtleBackground)
		}
		return style
	})
}

// SimpleTable renders headers and rows with the default options.
func SimpleTable(headers []string, rows [][]string) string {
	return New(DefaultOptions()).Headers(headers...).Rows(rows...).String()
}

// StatusTable renders label/value pairs without a border.
func StatusTable(items [][]string) string {
	table := New(Options{Theme: theme.DefaultTheme})
	for _, item := range items {
		if len(item) < 2 {
			continue
		}
		table = table.Row(theme.DefaultTheme.Muted.Render(item[0]+":"), item[1])
	}
	return table.String()
}

// SelectableTable renders a table with an arrow left of the selected data
// row. A negative index selects nothing.
func SelectableTable(headers []string, rows [][]string, selected int) string {
	out := New(DefaultOptions()).Headers(headers...).Rows(rows...).String()
	lines := strings.Split(out, "\n")

	// Top border, then header and separator when headers are present.
	first := 1
	if len(headers) > 0 {
		first = 3
	}
	target := -1
	if selected >= 0 && selected < len(rows) {
		target = first + selected
	}

	arrow := theme.DefaultTheme.Highlight.Render(theme.DefaultIcons.Get("arrow"))
	pad := strings.Repeat(" ", lipgloss.Width(arrow))
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == target {
			b.WriteString(arrow + " " + line)
		} else {
			b.WriteString(pad + " " + line)
		}
	}
	return b.String()
}
