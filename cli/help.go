package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/tui/theme"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	maxWidth = 72
	minWidth = 40
)

// terminalWidth returns the stdout width clamped to [minWidth, maxWidth].
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < minWidth {
		return maxWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// wrapText wraps each paragraph of text at width.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = maxWidth
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		if len(paragraph) <= width {
			out = append(out, paragraph)
			continue
		}
		var line string
		for _, word := range strings.Fields(paragraph) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// SetStyledHelp installs the styled help on cmd. Subcommands inherit it.
func SetStyledHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		renderHelp(c.OutOrStdout(), c, terminalWidth()-2)
	})
}

// PrintError prints a styled error and a help hint to the command's stderr.
func PrintError(cmd *cobra.Command, err error) {
	t := theme.DefaultTheme
	red := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Red)
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red.Render("Error:"), err.Error())
	fmt.Fprintln(cmd.ErrOrStderr(), t.Muted.Render(fmt.Sprintf("Run '%s --help' for usage.", cmd.CommandPath())))
}

// splitExamples separates a trailing "Examples:" block from a long
// description.
func splitExamples(long string) (description, examples string) {
	for _, marker := range []string{"\nExamples:\n", "\nExample:\n"} {
		if idx := strings.Index(long, marker); idx != -1 {
			return strings.TrimSpace(long[:idx]), strings.TrimSpace(long[idx+len(marker):])
		}
	}
	return long, ""
}

func renderHelp(w io.Writer, cmd *cobra.Command, width int) {
	t := theme.DefaultTheme
	blue := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Blue)
	violet := lipgloss.NewStyle().Foreground(t.Colors.Violet)
	section := lipgloss.NewStyle().Italic(true).Foreground(t.Colors.Orange)
	title := lipgloss.NewStyle().Bold(true).Foreground(t.Colors.Orange)
	italic := lipgloss.NewStyle().Italic(true)

	emit := func(s string) { fmt.Fprintln(w, s) }
	indent := func(text string) {
		for _, line := range strings.Split(wrapText(text, width), "\n") {
			emit(" " + line)
		}
	}

	emit(" " + title.Render(strings.ToUpper(cmd.CommandPath())))

	description, examples := splitExamples(cmd.Long)
	if cmd.Short != "" {
		for _, line := range strings.Split(wrapText(cmd.Short, width), "\n") {
			emit(" " + italic.Render(line))
		}
	}
	if description != "" && description != cmd.Short {
		emit("")
		indent(description)
	}

	if cmd.Runnable() || cmd.HasSubCommands() {
		emit("\n " + section.Render("USAGE"))
		if cmd.Runnable() {
			emit(" " + cmd.UseLine())
		}
		if cmd.HasSubCommands() {
			emit(" " + cmd.CommandPath() + " [command]")
		}
	}

	if cmd.HasAvailableSubCommands() {
		nameWidth := 0
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() && len(sub.Name()) > nameWidth {
				nameWidth = len(sub.Name())
			}
		}
		emit("\n " + section.Render("COMMANDS"))
		for _, sub := range cmd.Commands() {
			if !sub.IsAvailableCommand() {
				continue
			}
			pad := strings.Repeat(" ", nameWidth-len(sub.Name()))
			emit(fmt.Sprintf(" %s%s  %s", blue.Render(sub.Name()), pad, sub.Short))
		}
	}

	var flags []*pflag.Flag
	for _, set := range []*pflag.FlagSet{cmd.LocalFlags(), cmd.InheritedFlags()} {
		set.VisitAll(func(f *pflag.Flag) {
			if !f.Hidden {
				flags = append(flags, f)
			}
		})
	}
	if len(flags) > 0 {
		emit("\n " + section.Render("FLAGS"))
		flagWidth := 0
		for _, f := range flags {
			if n := len(flagName(f)); n > flagWidth {
				flagWidth = n
			}
		}
		for _, f := range flags {
			name := flagName(f)
			usage := f.Usage
			if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "[]" && f.DefValue != "0" {
				usage += t.Muted.Render(fmt.Sprintf(" (default: %s)", f.DefValue))
			}
			emit(fmt.Sprintf(" %s%s  %s", violet.Render(name), strings.Repeat(" ", flagWidth-len(name)), usage))
		}
	}

	if ex := cmd.Example; ex != "" || examples != "" {
		if ex == "" {
			ex = examples
		}
		emit("\n " + section.Render("EXAMPLES"))
		for _, line := range strings.Split(ex, "\n") {
			line = strings.TrimSpace(line)
			switch {
			case line == "":
				emit("")
			case strings.HasPrefix(line, "#"):
				emit(" " + t.Muted.Render(line))
			default:
				emit("   " + blue.Render(line))
			}
		}
	}

	if cmd.HasSubCommands() {
		emit(fmt.Sprintf("\n Use \"%s [command] --help\" for more information.", cmd.CommandPath()))
	}
}

// flagName formats "-f, --flag" or "    --flag".
func flagName(f *pflag.Flag) string {
	if f.Shorthand != "" {
		return fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	}
	return "    --" + f.Name
}
