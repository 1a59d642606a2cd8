package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

func TestPresets(t *testing.T) {
	vim := New(PresetVim)
	arrows := New(PresetArrows)

	assert.True(t, key.Matches(runeKey("l"), vim.NextTab))
	assert.False(t, key.Matches(runeKey("l"), arrows.NextTab))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRight}, arrows.NextTab))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyTab}, vim.NextTab))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyShiftTab}, arrows.PrevTab))

	// Unknown presets fall back to vim.
	assert.Equal(t, vim.Up.Keys(), New("emacs").Up.Keys())
}

func TestSharedBindings(t *testing.T) {
	km := DefaultVim()
	tests := []struct {
		msg     tea.KeyMsg
		binding key.Binding
	}{
		{runeKey("x"), km.CloseTab},
		{runeKey("o"), km.CloseOthers},
		{runeKey("X"), km.CloseAll},
		{runeKey("m"), km.FocusMenu},
		{tea.KeyMsg{Type: tea.KeyEnter}, km.Open},
		{runeKey("L"), km.Logout},
		{runeKey("?"), km.Help},
		{runeKey("q"), km.Quit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, km.Quit},
		{runeKey("3"), km.JumpTab},
	}
	for _, tt := range tests {
		assert.True(t, key.Matches(tt.msg, tt.binding), "%s should match %v", tt.msg.String(), tt.binding.Keys())
	}
}

func TestSections(t *testing.T) {
	sections := DefaultVim().Sections()
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.Name
		assert.False(t, s.IsEmpty())
	}
	assert.Equal(t, []string{SectionNavigation, SectionTabs, SectionMenu, SectionActions, SectionSystem}, names)
}

func TestSectionFilterEnabled(t *testing.T) {
	off := key.NewBinding(key.WithKeys("z"), key.WithDisabled())
	on := key.NewBinding(key.WithKeys("y"))
	s := NewSection("Custom", off, on)
	assert.Len(t, s.FilterEnabled(), 1)
	assert.True(t, NewSection("Empty", off).IsEmpty())
}

func TestApplyOverrides(t *testing.T) {
	km := DefaultVim()
	ApplyOverrides(&km, map[string][]string{
		"close_tab":  {"ctrl+w", "x"},
		"focus_menu": {},
		"unknown":    {"u"},
	})

	assert.Equal(t, []string{"ctrl+w", "x"}, km.CloseTab.Keys())
	assert.Equal(t, "ctrl+w", km.CloseTab.Help().Key)
	assert.Equal(t, "close tab", km.CloseTab.Help().Desc)
	assert.Equal(t, []string{"m"}, km.FocusMenu.Keys())

	// Non-pointers are ignored.
	ApplyOverrides(km, map[string][]string{"quit": {"Q"}})
	assert.Equal(t, []string{"q", "ctrl+c"}, km.Quit.Keys())
}

func TestCamelToSnake(t *testing.T) {
	assert.Equal(t, "close_others", camelToSnake("CloseOthers"))
	assert.Equal(t, "quit", camelToSnake("Quit"))
	assert.Equal(t, "next_tab", camelToSnake("NextTab"))
}

func TestFromConfig(t *testing.T) {
	km := FromConfig(PresetArrows, map[string][]string{"quit": {"Q"}})
	assert.Equal(t, []string{"Q"}, km.Quit.Keys())
	assert.Equal(t, []string{"up"}, km.Up.Keys())
}
