// Package shell is the tabdeck terminal UI: a sidebar menu, a tab bar fed by
// the tab store, and one page per route.
package shell

import (
	"context"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/tabdeck/auth"
	"github.com/grovetools/tabdeck/config"
	"github.com/grovetools/tabdeck/posts"
	"github.com/grovetools/tabdeck/routes"
	"github.com/grovetools/tabdeck/tabs"
	"github.com/grovetools/tabdeck/tui/components"
	"github.com/grovetools/tabdeck/tui/components/help"
	"github.com/grovetools/tabdeck/tui/keymap"
	"github.com/grovetools/tabdeck/tui/theme"
	"github.com/grovetools/tabdeck/uploads"
	"github.com/grovetools/tabdeck/users"
	"github.com/sirupsen/logrus"
)

const (
	sidebarWidth = 22
	uploadStep   = 5
	uploadEvery  = 200 * time.Millisecond
)

// Deps are the collaborators the shell drives. Posts may be nil, in which
// case the home page shows only local content.
type Deps struct {
	Store   *tabs.Store
	Router  *routes.Router
	Session *auth.Session
	Users   *users.Directory
	Uploads *uploads.Manager
	Posts   *posts.Client
	Keys    keymap.ShellKeyMap
	Logger  *logrus.Entry
}

type focus int

const (
	focusContent focus = iota
	focusMenu
)

// Messages.
type (
	snapshotMsg tabs.Snapshot
	postsMsg    struct {
		posts []posts.Post
		err   error
	}
	uploadTickMsg time.Time
	statusMsg     struct {
		text string
		err  error
	}
	userSavedMsg struct {
		user users.User
		err  error
	}
	userDeletedMsg struct {
		id  string
		err error
	}
)

// ReloadMsg carries a reloaded configuration into a running shell. Theme,
// icons and keys apply immediately.
type ReloadMsg struct {
	Config *config.Config
	Err    error
}

// Model is the root bubbletea model.
type Model struct {
	deps   Deps
	keys   keymap.ShellKeyMap
	logger *logrus.Entry
	sub    chan tabs.Snapshot

	snap       tabs.Snapshot
	path       string
	focus      focus
	menuCursor int
	width      int
	height     int
	status     string
	statusErr  bool
	uploading  bool
	spinning   bool

	spinner spinner.Model
	help    help.Model
	login   loginPage
	home    homePage
	users   usersPage
	upload  uploadPage
}

// New builds the shell and subscribes to the tab store. Call Close when the
// program exits.
func New(deps Deps) *Model {
	logger := deps.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	m := &Model{
		deps:    deps,
		keys:    deps.Keys,
		logger:  logger,
		sub:     deps.Store.Subscribe(),
		snap:    deps.Store.Snapshot(),
		path:    deps.Router.Current(),
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(theme.DefaultTheme.Info)),
		help:    help.New(deps.Keys),
		login:   newLoginPage(),
		users:   newUsersPage(),
	}
	m.help.Title = "tabdeck"
	return m
}

// Close stops the store subscription.
func (m *Model) Close() {
	if m.sub != nil {
		m.deps.Store.Unsubscribe(m.sub)
		m.sub = nil
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForSnapshot(m.sub), m.login.init()}
	if m.deps.Posts != nil {
		m.home.loading = true
		cmds = append(cmds, fetchPosts(m.deps.Posts))
	}
	if m.anyUploading() {
		m.uploading = true
		cmds = append(cmds, uploadTick())
	}
	return tea.Batch(cmds...)
}

func waitForSnapshot(ch chan tabs.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(s)
	}
}

func fetchPosts(c *posts.Client) tea.Cmd {
	return func() tea.Msg {
		list, err := c.List(context.Background(), posts.DefaultLimit)
		return postsMsg{posts: list, err: err}
	}
}

func uploadTick() tea.Cmd {
	return tea.Tick(uploadEvery, func(t time.Time) tea.Msg { return uploadTickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.sync()
	if m.snap.Loading && !m.spinning {
		m.spinning = true
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		return nil

	case snapshotMsg:
		if s := tabs.Snapshot(msg); s.Seq >= m.snap.Seq {
			m.snap = s
		}
		return waitForSnapshot(m.sub)

	case spinner.TickMsg:
		if !m.snap.Loading {
			m.spinning = false
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case postsMsg:
		m.home.loading = false
		m.home.posts, m.home.err = msg.posts, msg.err
		if msg.err != nil {
			m.logger.WithError(msg.err).Warn("Failed to load posts")
		}
		return nil

	case uploadTickMsg:
		m.deps.Uploads.Advance(uploadStep)
		if m.anyUploading() {
			return uploadTick()
		}
		m.uploading = false
		return nil

	case ReloadMsg:
		if msg.Err != nil {
			m.setStatus("", msg.Err)
			return nil
		}
		m.applyConfig(msg.Config)
		m.setStatus("Configuration reloaded", nil)
		return nil

	case statusMsg:
		m.setStatus(msg.text, msg.err)
		return nil

	case userSavedMsg:
		if msg.err != nil {
			if m.users.form != nil {
				m.users.form.err = msg.err
				m.users.form.pending = false
			}
			return nil
		}
		m.users.form = nil
		m.setStatus("Saved "+msg.user.Name, nil)
		return nil

	case userDeletedMsg:
		if msg.err != nil {
			m.setStatus("", msg.err)
			return nil
		}
		m.setStatus("Deleted user", nil)
		return nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return nil
}

// sync refreshes state owned by collaborators after every message.
func (m *Model) sync() {
	m.path = m.deps.Router.Current()
	if s := m.deps.Store.Snapshot(); s.Seq >= m.snap.Seq {
		m.snap = s
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.help.ShowAll {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}
	if m.path == routes.PathLogin {
		return m.login.update(m, msg)
	}

	// Pages that are typing get every key first.
	if m.path == routes.PathUsers && m.users.capturing() {
		return m.users.update(m, msg)
	}

	if m.focus == focusMenu {
		if cmd, ok := m.handleMenuKey(msg); ok {
			return cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return nil
	case key.Matches(msg, m.keys.JumpTab):
		n, _ := strconv.Atoi(msg.String())
		if n >= 1 && n <= len(m.snap.Tabs) {
			m.deps.Store.Activate(m.snap.Tabs[n-1].Key)
		}
		return nil
	case key.Matches(msg, m.keys.NextTab):
		m.cycleTab(1)
		return nil
	case key.Matches(msg, m.keys.PrevTab):
		m.cycleTab(-1)
		return nil
	case key.Matches(msg, m.keys.CloseTab):
		m.deps.Store.Close(m.snap.ActiveKey)
		return nil
	case key.Matches(msg, m.keys.CloseOthers):
		m.deps.Store.CloseOthers()
		return nil
	case key.Matches(msg, m.keys.CloseAll):
		m.deps.Store.CloseAll()
		return nil
	case key.Matches(msg, m.keys.FocusMenu):
		m.focusMenuAt(m.path)
		return nil
	case key.Matches(msg, m.keys.Back):
		m.deps.Router.Back()
		return nil
	case key.Matches(msg, m.keys.Logout):
		m.deps.Session.Logout()
		m.deps.Router.Refresh()
		m.setStatus("Signed out", nil)
		return m.login.reset()
	}

	switch m.path {
	case routes.PathHome:
		if key.Matches(msg, m.keys.Refresh) && m.deps.Posts != nil {
			m.home.loading = true
			return fetchPosts(m.deps.Posts)
		}
	case routes.PathUsers:
		return m.users.update(m, msg)
	case routes.PathUpload:
		return m.upload.update(m, msg)
	}
	return nil
}

func (m *Model) handleMenuKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	menu := m.deps.Router.Table().Menu()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(menu)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Open):
		if m.menuCursor < len(menu) {
			m.deps.Router.NavigateTo(menu[m.menuCursor].Path)
		}
		m.focus = focusContent
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.FocusMenu):
		m.focus = focusContent
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) focusMenuAt(path string) {
	m.focus = focusMenu
	for i, r := range m.deps.Router.Table().Menu() {
		if r.Path == path {
			m.menuCursor = i
			return
		}
	}
}

func (m *Model) cycleTab(delta int) {
	n := len(m.snap.Tabs)
	if n == 0 {
		return
	}
	i := m.snap.Index(m.snap.ActiveKey)
	next := ((i+delta)%n + n) % n
	m.deps.Store.Activate(m.snap.Tabs[next].Key)
}

func (m *Model) applyConfig(cfg *config.Config) {
	theme.SetDefault(cfg.Theme)
	theme.SetDefaultIcons(cfg.Icons)
	m.keys = keymap.FromConfig(cfg.Keys.Preset, cfg.Keys.Overrides)
	m.help.Keys = m.keys
	m.help.Theme = theme.DefaultTheme
	m.help.Icons = theme.DefaultIcons
	m.spinner.Style = theme.DefaultTheme.Info
}

func (m *Model) setStatus(text string, err error) {
	m.statusErr = err != nil
	if err != nil {
		text = err.Error()
	}
	m.status = text
}

func (m *Model) anyUploading() bool {
	return m.deps.Uploads != nil && m.deps.Uploads.Stats().Uploading > 0
}

// startUploads begins ticking if it is not already.
func (m *Model) startUploads() tea.Cmd {
	if m.uploading {
		return nil
	}
	m.uploading = true
	return uploadTick()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}
	if m.path == routes.PathLogin {
		return m.login.view(m)
	}

	bodyWidth := m.width - sidebarWidth
	if bodyWidth < 20 {
		bodyWidth = 20
	}
	header := m.renderTabBar()
	status := m.renderStatus()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	body := lipgloss.NewStyle().Padding(1, 2).Width(bodyWidth).Render(m.renderPage(bodyWidth - 4))
	if bodyHeight > 0 {
		body = lipgloss.NewStyle().MaxHeight(bodyHeight).Render(body)
	}

	main := lipgloss.JoinVertical(lipgloss.Left, header, body)
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main),
		status,
	)
}

func (m *Model) renderSidebar() string {
	t := theme.DefaultTheme
	lines := []string{t.Title.Render("tabdeck"), ""}
	for i, r := range m.deps.Router.Table().Menu() {
		label := theme.DefaultIcons.Get(r.Icon) + " " + r.Label
		style := t.MenuItem
		if r.Path == m.path {
			style = t.MenuItemActive
		}
		if m.focus == focusMenu && i == m.menuCursor {
			label = theme.DefaultIcons.Get("arrow") + " " + label
		} else {
			label = "  " + label
		}
		lines = append(lines, style.Render(label))
	}
	style := t.Sidebar.Width(sidebarWidth)
	if m.height > 1 {
		style = style.Height(m.height - 1)
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) renderTabBar() string {
	table := m.deps.Router.Table()
	items := make([]components.TabItem, 0, len(m.snap.Tabs))
	for _, tab := range m.snap.Tabs {
		active := tab.Key == m.snap.ActiveKey
		icon := theme.DefaultIcons.Get(table.Icon(tab.Path))
		if active && m.snap.Loading {
			icon = m.spinner.View()
		}
		items = append(items, components.TabItem{
			Label:    tab.Label,
			Icon:     icon,
			Active:   active,
			Closable: tab.Closable,
		})
	}
	return components.RenderTabs(items)
}

func (m *Model) renderStatus() string {
	t := theme.DefaultTheme
	left := t.Muted.Render("not signed in")
	if u := m.deps.Session.Current(); u != nil {
		left = t.Highlight.Render(theme.DefaultIcons.Get("profile")+" "+u.Name) + t.Muted.Render(" ("+u.Role+")")
	}
	if m.status != "" {
		style := t.Success
		if m.statusErr {
			style = t.Error
		}
		left += "  " + style.Render(m.status)
	}
	return components.RenderStatusBar(left, m.help.View(), m.width)
}

func (m *Model) renderPage(width int) string {
	switch m.path {
	case routes.PathHome:
		return m.home.view(width)
	case routes.PathAbout:
		return aboutView(width)
	case routes.PathUsers:
		return m.users.view(m, width)
	case routes.PathUpload:
		return m.upload.view(m, width)
	case routes.PathProfile:
		return profileView(m.deps.Session.Current(), width)
	default:
		return notFoundView(m.path)
	}
}
