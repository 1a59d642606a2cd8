// Package help renders the shell's status-line hints and the full help
// overlay.
package help

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/grovetools/tabdeck/tui/keymap"
	"github.com/grovetools/tabdeck/tui/theme"
)

// Keys is what the help model needs from a keymap.
type Keys interface {
	keymap.SectionedKeyMap
	ShortHelp() []key.Binding
	GetHelp() key.Binding
	GetQuit() key.Binding
}

// Model is an embeddable help component.
type Model struct {
	Keys    Keys
	ShowAll bool
	Width   int
	Height  int
	Theme   *theme.Theme
	Icons   *theme.IconSet
	Title   string

	viewport viewport.Model
}

// New creates a help model using the default theme and icons.
func New(keys Keys) Model {
	vp := viewport.New(0, 0)
	// The shell owns the mouse.
	vp.MouseWheelEnabled = false
	return Model{
		Keys:     keys,
		Theme:    theme.DefaultTheme,
		Icons:    theme.DefaultIcons,
		viewport: vp,
	}
}

// Update handles resize and, while the overlay is open, closing and scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if m.ShowAll {
			m.setViewportContent()
		}

	case tea.KeyMsg:
		if !m.ShowAll {
			return m, nil
		}
		if key.Matches(msg, m.Keys.GetHelp()) || key.Matches(msg, m.Keys.GetQuit()) || msg.Type == tea.KeyEsc {
			m.Toggle()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the overlay when open and the one-line hints otherwise.
func (m Model) View() string {
	if m.ShowAll {
		content := m.viewport.View()
		if m.viewport.TotalLineCount() > m.viewport.Height {
			indicator := "↕ more"
			if m.viewport.AtTop() {
				indicator = "↓ more"
			} else if m.viewport.AtBottom() {
				indicator = "↑ more"
			}
			indicatorStyle := m.Theme.Muted.Align(lipgloss.Right).Width(m.viewport.Width)
			content = lipgloss.JoinVertical(lipgloss.Right, content, indicatorStyle.Render(indicator))
		}
		return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, content)
	}
	return m.viewShort(m.Keys.ShortHelp())
}

func (m Model) viewShort(group []key.Binding) string {
	var pairs []string
	for _, binding := range group {
		if !binding.Enabled() {
			continue
		}
		h := binding.Help()
		if h.Key == "" || h.Desc == "" {
			continue
		}
		pairs = append(pairs, fmt.Sprintf("%s %s",
			m.Theme.Highlight.Render(h.Key),
			m.Theme.Muted.Render(h.Desc),
		))
	}
	return strings.Join(pairs, m.Theme.Muted.Render(" • "))
}

func (m *Model) setViewportContent() {
	const (
		verticalMargin   = 4
		horizontalMargin = 4
		gutterWidth      = 4
	)

	content := m.renderHelpContent(m.Keys.Sections(), verticalMargin, horizontalMargin, gutterWidth)
	m.viewport.SetContent(content)
	// One line is kept for the scroll indicator.
	m.viewport.Width = lipgloss.Width(content)
	m.viewport.Height = m.Height - verticalMargin - 1
}

// renderHelpContent stacks the section boxes in one column when they fit,
// and otherwise spreads them over two columns if the width allows.
func (m *Model) renderHelpContent(sections []keymap.Section, vMargin, hMargin, gutter int) string {
	var blocks []string
	for _, section := range sections {
		if block := m.renderSection(section); block != "" {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return ""
	}

	title := m.Title
	if title == "" {
		title = "Help"
	}
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.Theme.Colors.Orange).
		MarginBottom(1).
		Align(lipgloss.Center)
	withTitle := func(body string) string {
		return lipgloss.JoinVertical(lipgloss.Center, titleStyle.Width(lipgloss.Width(body)).Render(title), body)
	}

	single := withTitle(lipgloss.JoinVertical(lipgloss.Left, blocks...))
	if lipgloss.Height(single) <= m.Height-vMargin-1 {
		return single
	}

	double := withTitle(columns(blocks, 2, gutter))
	if lipgloss.Width(double) <= m.Width-hMargin {
		return double
	}
	return single
}

// columns adds each block to the currently shortest column.
func columns(blocks []string, n, gutter int) string {
	cols := make([][]string, n)
	heights := make([]int, n)
	for _, block := range blocks {
		shortest := 0
		for i := 1; i < n; i++ {
			if heights[i] < heights[shortest] {
				shortest = i
			}
		}
		cols[shortest] = append(cols[shortest], block)
		heights[shortest] += lipgloss.Height(block)
	}

	parts := make([]string, 0, 2*n-1)
	for i, col := range cols {
		if i > 0 {
			parts = append(parts, strings.Repeat(" ", gutter))
		}
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left, col...))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSection(section keymap.Section) string {
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(m.Theme.Colors.Blue)

	table := ltable.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
	rows := 0
	for _, binding := range section.FilterEnabled() {
		h := binding.Help()
		if h.Key == "" || h.Desc == "" {
			continue
		}
		table = table.Row(keyStyle.Render(h.Key), m.Theme.Muted.Italic(true).Render(h.Desc))
		rows++
	}
	if rows == 0 {
		return ""
	}

	icon := section.Icon
	if icon == "" {
		icon = m.Icons.Get(sectionIcon(section.Name))
	}
	titleStyle := lipgloss.NewStyle().
		Foreground(m.Theme.Colors.Orange).
		Italic(true).
		MarginBottom(1)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Colors.Border).
		Padding(0, 1).
		MarginBottom(1)

	content := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(icon+" "+section.Name), table.String())
	return boxStyle.Render(content)
}

// sectionIcon maps a section name to an icon name.
func sectionIcon(name string) string {
	switch name {
	case keymap.SectionNavigation:
		return "arrow"
	case keymap.SectionTabs:
		return "file"
	case keymap.SectionMenu:
		return "home"
	case keymap.SectionActions:
		return "success"
	case keymap.SectionSystem:
		return "info"
	default:
		return "bullet"
	}
}

// Toggle opens or closes the overlay. Opening lays out the content again and
// scrolls to the top.
func (m *Model) Toggle() {
	m.ShowAll = !m.ShowAll
	if m.ShowAll {
		m.setViewportContent()
		m.viewport.GotoTop()
	}
}

// SetSize sets the dimensions of the overlay.
func (m *Model) SetSize(width, height int) {
	m.Width = width
	m.Height = height
}
