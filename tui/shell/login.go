package shell

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/routes"
	"github.com/grovetools/tabdeck/tui/theme"
)

type loginPage struct {
	inputs []textinput.Model
	cursor int
	err    error
}

func newLoginPage() loginPage {
	t := theme.DefaultTheme
	username := textinput.New()
	username.Placeholder = "username"
	username.Prompt = "User     "
	username.PlaceholderStyle = t.Placeholder
	username.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.Prompt = "Password "
	password.PlaceholderStyle = t.Placeholder
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return loginPage{inputs: []textinput.Model{username, password}}
}

func (p *loginPage) init() tea.Cmd {
	return textinput.Blink
}

// reset clears the form for the next sign-in.
func (p *loginPage) reset() tea.Cmd {
	for i := range p.inputs {
		p.inputs[i].Reset()
	}
	p.err = nil
	return p.focus(0)
}

func (p *loginPage) focus(i int) tea.Cmd {
	p.cursor = i
	var cmd tea.Cmd
	for j := range p.inputs {
		if j == i {
			cmd = p.inputs[j].Focus()
		} else {
			p.inputs[j].Blur()
		}
	}
	return cmd
}

func (p *loginPage) update(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return tea.Quit
	case tea.KeyTab, tea.KeyDown, tea.KeyShiftTab, tea.KeyUp:
		return p.focus((p.cursor + 1) % len(p.inputs))
	case tea.KeyEnter:
		if p.cursor == 0 && p.inputs[1].Value() == "" {
			return p.focus(1)
		}
		return p.submit(m)
	}
	var cmd tea.Cmd
	p.inputs[p.cursor], cmd = p.inputs[p.cursor].Update(msg)
	return cmd
}

func (p *loginPage) submit(m *Model) tea.Cmd {
	user, err := m.deps.Session.Login(p.inputs[0].Value(), p.inputs[1].Value())
	if err != nil {
		p.err = err
		return nil
	}
	m.logger.WithField("user", user.Name).Info("Signed in")
	p.inputs[1].Reset()
	p.err = nil
	m.setStatus("Welcome, "+user.Name, nil)
	m.deps.Router.NavigateTo(routes.PathHome)
	return nil
}

func (p loginPage) view(m *Model) string {
	t := theme.DefaultTheme
	lines := []string{
		t.Title.Render(theme.DefaultIcons.Get("login") + " Sign in to tabdeck"),
		"",
		p.inputs[0].View(),
		p.inputs[1].View(),
		"",
	}
	if p.err != nil {
		lines = append(lines, t.Error.Render(theme.DefaultIcons.Get("error")+" "+p.err.Error()))
	} else {
		lines = append(lines, t.Muted.Render("enter to sign in, tab to switch fields, esc to quit"))
	}
	box := t.Box.Padding(1, 3).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	if m.width == 0 || m.height == 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
