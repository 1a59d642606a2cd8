package theme

import "os"

// IconSet maps icon names to glyphs.
type IconSet struct {
	Name  string
	icons map[string]string
}

// Nerd Font glyphs, keyed by the icon names the route table uses.
var nerdIcons = map[string]string{
	"home":    "󰋜",      // md-home (U+F02DC)
	"info":    "󰋼",      // md-information (U+F02FC)
	"upload":  "󰕒",      // md-upload (U+F0552)
	"users":   "󰀎",      // md-account_multiple (U+F000E)
	"profile": "󰀄",      // md-account (U+F0004)
	"login":   "󰍂",      // md-login (U+F0342)
	"close":   "󰅖",      // md-close (U+F0156)
	"success": "󰄬",      // md-check (U+F012C)
	"error":   "\uea87", // cod-error (U+EA87)
	"warning": "\uf071", // fa-warning (U+F071)
	"pending": "󰦖",      // md-progress_clock (U+F0996)
	"file":    "󰈔",      // md-file (U+F0214)
	"arrow":   "󰁔",      // md-arrow_right (U+F0054)
	"bullet":  "\uf444", // oct-dot_fill (U+F444)
}

var asciiIcons = map[string]string{
	"home":    "⌂",
	"info":    "ℹ",
	"upload":  "↑",
	"users":   "☺",
	"profile": "@",
	"login":   "→",
	"close":   "x",
	"success": "✓",
	"error":   "✗",
	"warning": "⚠",
	"pending": "…",
	"file":    "▢",
	"arrow":   "→",
	"bullet":  "•",
}

// DefaultIcons honours TABDECK_ICONS=ascii, otherwise nerd glyphs.
var DefaultIcons = NewIconSet(os.Getenv("TABDECK_ICONS"))

// NewIconSet returns the ascii set for "ascii" and the nerd set otherwise.
func NewIconSet(name string) *IconSet {
	if name == "ascii" {
		return &IconSet{Name: "ascii", icons: asciiIcons}
	}
	return &IconSet{Name: "nerd", icons: nerdIcons}
}

// SetDefaultIcons replaces DefaultIcons.
func SetDefaultIcons(name string) {
	DefaultIcons = NewIconSet(name)
}

// Get returns the glyph for name, or the bullet glyph when unknown.
func (s *IconSet) Get(name string) string {
	if g, ok := s.icons[name]; ok {
		return g
	}
	return s.icons["bullet"]
}
