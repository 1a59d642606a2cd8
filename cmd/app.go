// Package cmd holds the tabdeck subcommands.
package cmd

import (
	"github.com/grovetools/tabdeck/auth"
	"github.com/grovetools/tabdeck/config"
	"github.com/grovetools/tabdeck/posts"
	"github.com/grovetools/tabdeck/routes"
	"github.com/grovetools/tabdeck/tabs"
	"github.com/grovetools/tabdeck/tui/keymap"
	"github.com/grovetools/tabdeck/tui/theme"
	"github.com/grovetools/tabdeck/uploads"
	"github.com/grovetools/tabdeck/users"
	"github.com/sirupsen/logrus"
)

// app is one wired tabdeck session: the route table, router, tab store and
// the mock data behind the pages.
type app struct {
	cfg     *config.Config
	table   *routes.Table
	session *auth.Session
	store   *tabs.Store
	router  *routes.Router
	users   *users.Directory
	uploads *uploads.Manager
	posts   *posts.Client
	keys    keymap.ShellKeyMap
	unwire  func()
}

type appOptions struct {
	// guarded puts the sign-in guard in front of the router.
	guarded bool
}

func newApp(cfg *config.Config, logger *logrus.Entry, opts appOptions) (*app, error) {
	theme.SetDefault(cfg.Theme)
	theme.SetDefaultIcons(cfg.Icons)

	mgr, err := uploads.New(cfg.Uploads.Accept, uploads.WithMaxBytes(cfg.Uploads.MaxBytes))
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		table:   routes.DefaultTable().WithLabels(cfg.Routes.Labels),
		session: auth.New(),
		users:   users.New(users.WithLatency(cfg.UserLatency())),
		uploads: mgr,
		posts:   posts.NewClient(cfg.API.BaseURL, cfg.APITimeout()),
		keys:    keymap.FromConfig(cfg.Keys.Preset, cfg.Keys.Overrides),
	}
	a.store = tabs.New(
		tabs.WithLabeler(a.table),
		tabs.WithLoadingDuration(cfg.LoadingDuration()),
	)

	routerOpts := []routes.RouterOption{routes.WithRouterLogger(logger)}
	if opts.guarded {
		routerOpts = append(routerOpts, routes.WithGuard(routes.RequireAuth{Session: a.session, Table: a.table}))
	}
	a.router = routes.NewRouter(a.table, routerOpts...)
	a.unwire = routes.Wire(a.router, a.store)
	a.router.Start(routes.PathHome)
	return a, nil
}

func (a *app) Close() {
	if a.unwire != nil {
		a.unwire()
	}
}
