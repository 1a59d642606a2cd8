package shell

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/tui/components"
	"github.com/grovetools/tabdeck/tui/components/table"
	"github.com/grovetools/tabdeck/tui/theme"
	"github.com/grovetools/tabdeck/users"
)

var userFields = []string{"Name", "Email", "Phone", "Role", "Status", "Department"}

type usersPage struct {
	cursor    int
	filter    textinput.Model
	filtering bool
	form      *userForm
}

type userForm struct {
	id      string
	inputs  []textinput.Model
	cursor  int
	err     error
	pending bool
}

func newUsersPage() usersPage {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "search name or email"
	filter.PlaceholderStyle = theme.DefaultTheme.Placeholder
	return usersPage{filter: filter}
}

func newUserForm(id string, f users.Form) *userForm {
	values := []string{f.Name, f.Email, f.Phone, string(f.Role), string(f.Status), f.Department}
	form := &userForm{id: id}
	for i, label := range userFields {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-11s", label)
		in.SetValue(values[i])
		form.inputs = append(form.inputs, in)
	}
	form.inputs[0].Focus()
	return form
}

func (f *userForm) value() users.Form {
	v := func(i int) string { return f.inputs[i].Value() }
	return users.Form{
		Name:       v(0),
		Email:      v(1),
		Phone:      v(2),
		Role:       users.Role(v(3)),
		Status:     users.Status(v(4)),
		Department: v(5),
	}
}

func (f *userForm) move(delta int) tea.Cmd {
	f.inputs[f.cursor].Blur()
	f.cursor = (f.cursor + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.cursor].Focus()
}

func (p *usersPage) capturing() bool {
	return p.filtering || p.form != nil
}

func (p *usersPage) list(m *Model) []users.User {
	return m.deps.Users.List(users.Filter{Search: p.filter.Value()})
}

func (p *usersPage) selected(m *Model) (users.User, bool) {
	list := p.list(m)
	if p.cursor < 0 || p.cursor >= len(list) {
		return users.User{}, false
	}
	return list[p.cursor], true
}

func (p *usersPage) update(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch {
	case p.form != nil:
		return p.updateForm(m, msg)
	case p.filtering:
		return p.updateFilter(msg)
	}

	keys := m.keys
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.list(m))-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Search):
		p.filtering = true
		return p.filter.Focus()
	case key.Matches(msg, keys.Add):
		p.form = newUserForm("", users.Form{Role: users.RoleUser, Status: users.StatusActive})
		return textinput.Blink
	case key.Matches(msg, keys.Edit):
		if u, ok := p.selected(m); ok {
			p.form = newUserForm(u.ID, users.FormOf(u))
			return textinput.Blink
		}
	case key.Matches(msg, keys.Delete):
		if u, ok := p.selected(m); ok {
			if p.cursor > 0 && p.cursor == len(p.list(m))-1 {
				p.cursor--
			}
			dir := m.deps.Users
			return func() tea.Msg {
				return userDeletedMsg{id: u.ID, err: dir.Delete(context.Background(), u.ID)}
			}
		}
	}
	return nil
}

func (p *usersPage) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		p.filter.SetValue("")
		fallthrough
	case tea.KeyEnter:
		p.filtering = false
		p.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	p.filter, cmd = p.filter.Update(msg)
	p.cursor = 0
	return cmd
}

func (p *usersPage) updateForm(m *Model, msg tea.KeyMsg) tea.Cmd {
	f := p.form
	switch msg.Type {
	case tea.KeyEsc:
		p.form = nil
		return nil
	case tea.KeyTab, tea.KeyDown:
		return f.move(1)
	case tea.KeyShiftTab, tea.KeyUp:
		return f.move(-1)
	case tea.KeyEnter:
		if f.pending {
			return nil
		}
		f.pending = true
		f.err = nil
		dir, id, form := m.deps.Users, f.id, f.value()
		return func() tea.Msg {
			var (
				u   users.User
				err error
			)
			if id == "" {
				u, err = dir.Add(context.Background(), form)
			} else {
				u, err = dir.Update(context.Background(), id, form)
			}
			return userSavedMsg{user: u, err: err}
		}
	}
	var cmd tea.Cmd
	f.inputs[f.cursor], cmd = f.inputs[f.cursor].Update(msg)
	return cmd
}

func (p *usersPage) view(m *Model, width int) string {
	t := theme.DefaultTheme
	if p.form != nil {
		return p.form.view(width)
	}

	s := m.deps.Users.Stats()
	stats := components.RenderStats([][2]string{
		{"Total", strconv.Itoa(s.Total)},
		{"Active", strconv.Itoa(s.Active)},
		{"Admins", strconv.Itoa(s.Admins)},
		{"Pending", strconv.Itoa(s.Pending)},
	})

	list := p.list(m)
	rows := make([][]string, len(list))
	for i, u := range list {
		rows[i] = []string{u.Name, u.Email, string(u.Role), theme.RenderStatus(string(u.Status), string(u.Status)), u.Department, u.LastLogin}
	}

	filter := t.Muted.Render("/ to search, a add, e edit, d delete")
	if p.filtering || p.filter.Value() != "" {
		filter = p.filter.View()
	}

	body := t.Muted.Render("No users match")
	if len(rows) > 0 {
		body = table.SelectableTable([]string{"Name", "Email", "Role", "Status", "Department", "Last login"}, rows, p.cursor)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		t.Header.Render(theme.DefaultIcons.Get("users")+" Users"),
		"",
		stats,
		filter,
		body,
	)
}

func (f *userForm) view(width int) string {
	t := theme.DefaultTheme
	title := "Add user"
	if f.id != "" {
		title = "Edit user"
	}
	lines := make([]string, 0, len(f.inputs)+2)
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	lines = append(lines, "")
	switch {
	case f.err != nil:
		lines = append(lines, t.Error.Render(f.err.Error()))
	case f.pending:
		lines = append(lines, t.Muted.Render("Saving..."))
	default:
		lines = append(lines, t.Muted.Render("enter to save, esc to cancel"))
	}
	return components.RenderBox(title, lipgloss.JoinVertical(lipgloss.Left, lines...), width)
}
