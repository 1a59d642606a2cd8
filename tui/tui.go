// Package tui holds the terminal shell and its shared styling.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitializeTUI sets the lipgloss color profile before a program starts.
// CLICOLOR_FORCE=1 or COLORTERM=truecolor force true color, and NO_COLOR
// or TABDECK_NO_COLOR turn colors off.
func InitializeTUI() {
	switch {
	case os.Getenv("NO_COLOR") != "" || os.Getenv("TABDECK_NO_COLOR") != "":
		lipgloss.SetColorProfile(termenv.Ascii)
	case os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
