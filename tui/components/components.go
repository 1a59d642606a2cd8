// Package components holds small render helpers shared by the shell pages.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/tui/theme"
)

// TabItem is one entry of a tab bar.
type TabItem struct {
	Label    string
	Icon     string
	Active   bool
	Closable bool
}

// RenderTabs renders a tab bar. Closable tabs get a close marker.
func RenderTabs(items []TabItem) string {
	t := theme.DefaultTheme
	closeIcon := theme.DefaultIcons.Get("close")

	rendered := make([]string, 0, len(items))
	for _, item := range items {
		label := item.Label
		if item.Icon != "" {
			label = item.Icon + " " + label
		}
		if item.Closable {
			label += " " + closeIcon
		}
		style := t.TabInactive
		if item.Active {
			style = t.TabActive
		}
		rendered = append(rendered, style.Render(label))
	}
	return t.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

// RenderStatusBar puts left and right on one line of the given width.
func RenderStatusBar(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return theme.DefaultTheme.StatusBar.Render(left)
	}
	return theme.DefaultTheme.StatusBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderDivider creates a horizontal divider.
func RenderDivider(width int) string {
	if width < 0 {
		width = 0
	}
	return lipgloss.NewStyle().
		Foreground(theme.DefaultTheme.Colors.Border).
		Render(strings.Repeat("─", width))
}

// RenderBox draws content in a rounded box with an optional title line.
func RenderBox(title, content string, width int) string {
	t := theme.DefaultTheme
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Colors.Border).
		Padding(0, 1)
	if width > 2 {
		box = box.Width(width - 2)
	}
	if title != "" {
		content = lipgloss.JoinVertical(lipgloss.Left, t.Highlight.Render(title), content)
	}
	return box.Render(content)
}

// RenderStats lays out label/value cards side by side.
func RenderStats(items [][2]string) string {
	t := theme.DefaultTheme
	cards := make([]string, 0, len(items))
	for _, item := range items {
		card := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Colors.Border).
			Padding(0, 2).
			Render(lipgloss.JoinVertical(lipgloss.Left, t.Bold.Render(item[1]), t.Muted.Render(item[0])))
		cards = append(cards, card)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// RenderList creates a bulleted or numbered list.
func RenderList(items []string, ordered bool) string {
	t := theme.DefaultTheme
	lines := make([]string, 0, len(items))
	for i, item := range items {
		prefix := t.Highlight.Render(theme.DefaultIcons.Get("bullet"))
		if ordered {
			prefix = t.Highlight.Render(fmt.Sprintf("%2d.", i+1))
		}
		lines = append(lines, prefix+" "+item)
	}
	return strings.Join(lines, "\n")
}

// RenderProgress draws a bar for percent in [0,100].
func RenderProgress(percent, width int) string {
	t := theme.DefaultTheme
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	// Room for the percentage text.
	barWidth := width - 5
	if barWidth < 1 {
		barWidth = 1
	}
	filled := percent * barWidth / 100
	bar := t.Success.Render(strings.Repeat("█", filled)) + t.Muted.Render(strings.Repeat("░", barWidth-filled))
	return bar + t.Muted.Render(fmt.Sprintf(" %3d%%", percent))
}

// RenderKeyValue renders "key: value" with a muted key.
func RenderKeyValue(key, value string) string {
	return fmt.Sprintf("%s %s", theme.DefaultTheme.Muted.Render(key+":"), value)
}
