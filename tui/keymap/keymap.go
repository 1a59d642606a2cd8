// Package keymap defines the tabdeck shell's keybindings.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// Presets.
const (
	PresetVim    = "vim"
	PresetArrows = "arrows"
)

// ShellKeyMap holds every binding the shell reacts to.
type ShellKeyMap struct {
	// Navigation
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	JumpTab key.Binding // 1-9, help only
	Back    key.Binding

	// Tabs
	CloseTab    key.Binding
	CloseOthers key.Binding
	CloseAll    key.Binding

	// Menu
	FocusMenu key.Binding
	Open      key.Binding

	// Pages
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Search  key.Binding
	Upload  key.Binding
	Fail    key.Binding
	Refresh key.Binding
	Cancel  key.Binding

	// System
	Logout key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// New returns the bindings for a preset. Unknown presets get vim.
func New(preset string) ShellKeyMap {
	if preset == PresetArrows {
		return DefaultArrows()
	}
	return DefaultVim()
}

// DefaultVim is the default preset: j/k move and h/l switch tabs, with the
// arrow keys working as well.
func DefaultVim() ShellKeyMap {
	km := common()
	km.Up = key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/up", "up"),
	)
	km.Down = key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/down", "down"),
	)
	km.NextTab = key.NewBinding(
		key.WithKeys("tab", "l"),
		key.WithHelp("tab/l", "next tab"),
	)
	km.PrevTab = key.NewBinding(
		key.WithKeys("shift+tab", "h"),
		key.WithHelp("S-tab/h", "previous tab"),
	)
	return km
}

// DefaultArrows leaves letters free for typing-heavy pages.
func DefaultArrows() ShellKeyMap {
	km := common()
	km.Up = key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("up", "up"),
	)
	km.Down = key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("down", "down"),
	)
	km.NextTab = key.NewBinding(
		key.WithKeys("tab", "right"),
		key.WithHelp("tab/right", "next tab"),
	)
	km.PrevTab = key.NewBinding(
		key.WithKeys("shift+tab", "left"),
		key.WithHelp("S-tab/left", "previous tab"),
	)
	return km
}

func common() ShellKeyMap {
	return ShellKeyMap{
		JumpTab: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "jump to tab"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "back"),
		),
		CloseTab: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close tab"),
		),
		CloseOthers: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "close others"),
		),
		CloseAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "close all"),
		),
		FocusMenu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "focus menu"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add user"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit user"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Upload: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new upload"),
		),
		Fail: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fail upload"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp is shown in the status bar.
func (k ShellKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.CloseTab, k.FocusMenu, k.Help, k.Quit}
}

// Sections implements SectionedKeyMap.
func (k ShellKeyMap) Sections() []Section {
	return []Section{
		NavigationSection(k.Up, k.Down, k.NextTab, k.PrevTab, k.JumpTab, k.Back),
		NewSection(SectionTabs, k.CloseTab, k.CloseOthers, k.CloseAll),
		NewSection(SectionMenu, k.FocusMenu, k.Open),
		ActionsSection(k.Add, k.Edit, k.Delete, k.Search, k.Upload, k.Fail, k.Refresh, k.Cancel),
		SystemSection(k.Logout, k.Help, k.Quit),
	}
}

// GetHelp returns the help toggle.
func (k ShellKeyMap) GetHelp() key.Binding { return k.Help }

// GetQuit returns the quit binding.
func (k ShellKeyMap) GetQuit() key.Binding { return k.Quit }

// FromConfig returns the preset's bindings with the configured overrides
// applied.
func FromConfig(preset string, overrides map[string][]string) ShellKeyMap {
	km := New(preset)
	ApplyOverrides(&km, overrides)
	return km
}
