package shell

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/tabdeck/auth"
	"github.com/grovetools/tabdeck/config"
	"github.com/grovetools/tabdeck/routes"
	"github.com/grovetools/tabdeck/tabs"
	"github.com/grovetools/tabdeck/tui/keymap"
	"github.com/grovetools/tabdeck/uploads"
	"github.com/grovetools/tabdeck/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	model   *Model
	store   *tabs.Store
	router  *routes.Router
	session *auth.Session
	users   *users.Directory
	uploads *uploads.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	table := routes.DefaultTable()
	session := auth.New()
	store := tabs.New(tabs.WithLabeler(table), tabs.WithLoadingDuration(0))
	router := routes.NewRouter(table, routes.WithGuard(routes.RequireAuth{Session: session, Table: table}))
	routes.Wire(router, store)
	router.Start(routes.PathHome)

	mgr, err := uploads.New(nil)
	require.NoError(t, err)
	dir := users.New()

	m := New(Deps{
		Store:   store,
		Router:  router,
		Session: session,
		Users:   dir,
		Uploads: mgr,
		Keys:    keymap.DefaultVim(),
	})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return &fixture{model: m, store: store, router: router, session: session, users: dir, uploads: mgr}
}

func (f *fixture) send(msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = f.model.Update(msg)
	}
	return cmd
}

func (f *fixture) keys(keys ...string) {
	for _, k := range keys {
		f.send(keyMsg(k))
	}
}

func (f *fixture) typeText(s string) {
	for _, r := range s {
		f.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	f.typeText("admin")
	f.keys("enter")
	f.typeText("secret")
	f.keys("enter")
	require.True(t, f.session.SignedIn())
	require.Equal(t, routes.PathHome, f.model.path)
}

func (f *fixture) open(path string) {
	f.router.NavigateTo(path)
	f.send(tea.WindowSizeMsg{Width: 140, Height: 50})
}

func TestStartsOnLogin(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, routes.PathLogin, f.model.path)
	assert.Contains(t, f.model.View(), "Sign in")

	// Letters are typed, not treated as shell keys.
	f.keys("q", "x")
	assert.Equal(t, "qx", f.model.login.inputs[0].Value())
}

func TestLoginRequiresBothFields(t *testing.T) {
	f := newFixture(t)
	f.keys("tab", "enter")
	assert.False(t, f.session.SignedIn())
	require.Error(t, f.model.login.err)
	assert.Contains(t, f.model.View(), "username")
}

func TestLoginAndLogout(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	assert.Equal(t, []string{tabs.HomeKey}, f.model.snap.Keys())
	assert.Contains(t, f.model.View(), "Welcome back")

	f.keys("L")
	assert.False(t, f.session.SignedIn())
	assert.Equal(t, routes.PathLogin, f.model.path)
	assert.Empty(t, f.model.login.inputs[0].Value())
}

func TestMenuOpensTabs(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	// Menu order is Home, Users, Upload, About.
	f.keys("m", "j", "enter")
	assert.Equal(t, routes.PathUsers, f.model.path)
	f.keys("m", "j", "j", "j", "enter")
	assert.Equal(t, routes.PathAbout, f.model.path)

	assert.Equal(t, []string{tabs.HomeKey, "user", "about"}, f.model.snap.Keys())
	assert.Equal(t, "about", f.model.snap.ActiveKey)
	assert.Contains(t, f.model.View(), "Changelog")
}

func TestTabKeys(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.open(routes.PathUsers)
	f.open(routes.PathUpload)
	f.open(routes.PathAbout)
	require.Equal(t, []string{tabs.HomeKey, "user", "upload", "about"}, f.model.snap.Keys())

	tests := []struct {
		name   string
		keys   []string
		active string
		path   string
		tabs   []string
	}{
		{"jump", []string{"2"}, "user", routes.PathUsers, []string{tabs.HomeKey, "user", "upload", "about"}},
		{"next", []string{"tab"}, "upload", routes.PathUpload, []string{tabs.HomeKey, "user", "upload", "about"}},
		{"previous wraps", []string{"1", "shift+tab"}, "about", routes.PathAbout, []string{tabs.HomeKey, "user", "upload", "about"}},
		{"close selects left neighbour", []string{"3", "x"}, "user", routes.PathUsers, []string{tabs.HomeKey, "user", "about"}},
		{"close others", []string{"o"}, "user", routes.PathUsers, []string{tabs.HomeKey, "user"}},
		{"close all", []string{"X"}, tabs.HomeKey, routes.PathHome, []string{tabs.HomeKey}},
		{"home is not closable", []string{"x"}, tabs.HomeKey, routes.PathHome, []string{tabs.HomeKey}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.keys(tt.keys...)
			assert.Equal(t, tt.active, f.model.snap.ActiveKey)
			assert.Equal(t, tt.path, f.model.path)
			assert.Equal(t, tt.tabs, f.model.snap.Keys())
		})
	}
}

func TestStaleSnapshotIgnored(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.open(routes.PathUsers)
	current := f.model.snap

	f.send(snapshotMsg(tabs.Snapshot{Tabs: []tabs.Tab{tabs.HomeTab("Home")}, ActiveKey: tabs.HomeKey, Seq: 0}))
	assert.Equal(t, current.Keys(), f.model.snap.Keys())
}

func TestUsersPage(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.open(routes.PathUsers)
	assert.Contains(t, f.model.View(), "Zhang San")

	t.Run("filter", func(t *testing.T) {
		f.keys("/")
		f.typeText("li")
		assert.Len(t, f.model.users.list(f.model), 2)
		// Shell keys are typed while filtering.
		f.keys("x")
		assert.Equal(t, "lix", f.model.users.filter.Value())
		f.keys("esc")
		assert.Len(t, f.model.users.list(f.model), 4)
	})

	t.Run("add", func(t *testing.T) {
		f.keys("a")
		require.NotNil(t, f.model.users.form)
		f.typeText("Sun Qi")
		f.keys("tab")
		f.typeText("sunqi@example.com")
		f.keys("tab")
		f.typeText("13800138005")
		f.keys("tab", "tab", "tab")
		f.typeText("Sales")
		cmd := f.send(keyMsg("enter"))
		require.NotNil(t, cmd)
		f.send(cmd())

		assert.Nil(t, f.model.users.form)
		assert.Equal(t, 5, f.users.Stats().Total)
	})

	t.Run("missing fields keep the form open", func(t *testing.T) {
		f.keys("a")
		cmd := f.send(keyMsg("enter"))
		require.NotNil(t, cmd)
		f.send(cmd())
		require.NotNil(t, f.model.users.form)
		assert.Error(t, f.model.users.form.err)
		f.keys("esc")
		assert.Nil(t, f.model.users.form)
	})

	t.Run("edit", func(t *testing.T) {
		f.keys("e")
		require.NotNil(t, f.model.users.form)
		assert.Equal(t, "Zhang San", f.model.users.form.inputs[0].Value())
		f.typeText(" Jr")
		f.send(f.send(keyMsg("enter"))())
		u, err := f.users.Get("1")
		require.NoError(t, err)
		assert.Equal(t, "Zhang San Jr", u.Name)
	})

	t.Run("delete", func(t *testing.T) {
		f.keys("j")
		cmd := f.send(keyMsg("d"))
		require.NotNil(t, cmd)
		f.send(cmd())
		_, err := f.users.Get("2")
		assert.Error(t, err)
		assert.Equal(t, 4, f.users.Stats().Total)
	})
}

func TestUploadPage(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.open(routes.PathUpload)
	assert.Contains(t, f.model.View(), "document.pdf")

	cmd := f.send(keyMsg("n"))
	require.NotNil(t, cmd)
	files := f.uploads.List()
	require.Len(t, files, 4)
	added := files[3]
	assert.Equal(t, uploads.StatusUploading, added.Status)

	for i := 0; i < 20; i++ {
		f.send(uploadTickMsg{})
	}
	got, err := f.uploads.Get(added.ID)
	require.NoError(t, err)
	assert.Equal(t, uploads.StatusDone, got.Status)
	assert.False(t, f.model.uploading)

	// The fourth sample is over the size limit.
	f.keys("n", "n", "n")
	assert.True(t, f.model.statusErr)
	assert.Len(t, f.uploads.List(), 6)

	f.keys("d")
	assert.Len(t, f.uploads.List(), 5)
}

func TestHelpOverlay(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	f.keys("?")
	assert.True(t, f.model.help.ShowAll)
	assert.Contains(t, f.model.View(), "close others")
	f.keys("esc")
	assert.False(t, f.model.help.ShowAll)
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)
	cmd := f.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestReloadAppliesKeys(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	cfg := config.Default()
	cfg.Keys.Overrides = map[string][]string{"close_all": {"C"}}
	f.send(ReloadMsg{Config: cfg})
	assert.Equal(t, "Configuration reloaded", f.model.status)

	f.open(routes.PathAbout)
	f.keys("C")
	assert.Equal(t, []string{tabs.HomeKey}, f.model.snap.Keys())

	f.send(ReloadMsg{Err: assert.AnError})
	assert.True(t, f.model.statusErr)
}
