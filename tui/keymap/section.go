package keymap

import "github.com/charmbracelet/bubbles/key"

// Standard section names.
const (
	SectionNavigation = "Navigation"
	SectionTabs       = "Tabs"
	SectionMenu       = "Menu"
	SectionActions    = "Actions"
	SectionSystem     = "System"
)

// Section is a named group of bindings for the help view.
type Section struct {
	Name     string
	Icon     string
	Bindings []key.Binding
}

// SectionedKeyMap is implemented by keymaps whose help is grouped into
// sections.
type SectionedKeyMap interface {
	Sections() []Section
}

// NewSection creates a section with a custom name.
func NewSection(name string, bindings ...key.Binding) Section {
	return Section{Name: name, Bindings: bindings}
}

// NavigationSection creates a Navigation section.
func NavigationSection(bindings ...key.Binding) Section {
	return Section{Name: SectionNavigation, Bindings: bindings}
}

// ActionsSection creates an Actions section.
func ActionsSection(bindings ...key.Binding) Section {
	return Section{Name: SectionActions, Bindings: bindings}
}

// SystemSection creates a System section.
func SystemSection(bindings ...key.Binding) Section {
	return Section{Name: SectionSystem, Bindings: bindings}
}

// FilterEnabled returns a new slice containing only enabled bindings.
func (s Section) FilterEnabled() []key.Binding {
	var result []key.Binding
	for _, b := range s.Bindings {
		if b.Enabled() {
			result = append(result, b)
		}
	}
	return result
}

// IsEmpty returns true if the section has no enabled bindings.
func (s Section) IsEmpty() bool {
	return len(s.FilterEnabled()) == 0
}
