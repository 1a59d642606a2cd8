// Package routes holds the shell's static route table, the router that
// reports path changes and carries out navigation, and the sign-in guard.
package routes

import (
	"sort"

	"github.com/grovetools/tabdeck/tabs"
)

// Well-known paths.
const (
	PathHome    = tabs.RootPath
	PathAbout   = "/about"
	PathUpload  = "/upload"
	PathUsers   = "/user"
	PathProfile = "/profile"
	PathLogin   = "/login"
)

// Icon names understood by the theme.
const (
	IconHome    = "home"
	IconInfo    = "info"
	IconUpload  = "upload"
	IconUsers   = "users"
	IconProfile = "profile"
	IconLogin   = "login"
)

// Route describes one page of the shell.
type Route struct {
	Path  string `json:"path" yaml:"path"`
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
	// Menu marks routes listed in the sidebar, in table order.
	Menu bool `json:"menu" yaml:"menu"`
	// Public routes are reachable without signing in and live outside the
	// tabbed layout.
	Public bool `json:"public" yaml:"public"`
}

// Table is the immutable path to route mapping.
type Table struct {
	routes  []Route
	byPath  map[string]Route
	aliases map[string]string
}

// DefaultRoutes is the shell's built-in route list.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathHome, Label: "Home", Icon: IconHome, Menu: true},
		{Path: PathUsers, Label: "Users", Icon: IconUsers, Menu: true},
		{Path: PathUpload, Label: "Upload", Icon: IconUpload, Menu: true},
		{Path: PathAbout, Label: "About", Icon: IconInfo, Menu: true},
		{Path: PathProfile, Label: "Profile", Icon: IconProfile},
		{Path: PathLogin, Label: "Login", Icon: IconLogin, Public: true},
	}
}

// DefaultAliases maps alternative spellings onto their canonical path.
// "/home" needs no entry: tabs.CleanPath already folds it into the root.
func DefaultAliases() map[string]string {
	return map[string]string{
		"/users": PathUsers,
	}
}

// DefaultTable returns the table built from DefaultRoutes and DefaultAliases.
func DefaultTable() *Table {
	return NewTable(DefaultRoutes(), DefaultAliases())
}

// NewTable builds a table. Route paths are cleaned; later duplicates win.
func NewTable(routes []Route, aliases map[string]string) *Table {
	t := &Table{
		byPath:  make(map[string]Route, len(routes)),
		aliases: make(map[string]string, len(aliases)),
	}
	for from, to := range aliases {
		t.aliases[tabs.CleanPath(from)] = tabs.CleanPath(to)
	}
	index := make(map[string]int, len(routes))
	for _, r := range routes {
		r.Path = t.Canonical(r.Path)
		if i, dup := index[r.Path]; dup {
			t.routes[i] = r
		} else {
			index[r.Path] = len(t.routes)
			t.routes = append(t.routes, r)
		}
		t.byPath[r.Path] = r
	}
	return t
}

// WithLabels returns a copy of the table with labels replaced for the given
// paths. Unknown paths are added as non-menu routes.
func (t *Table) WithLabels(labels map[string]string) *Table {
	if len(labels) == 0 {
		return t
	}
	routes := t.Routes()
	paths := make([]string, 0, len(labels))
	for p := range labels {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		cp := t.Canonical(p)
		found := false
		for i := range routes {
			if routes[i].Path == cp {
				routes[i].Label = labels[p]
				found = true
			}
		}
		if !found {
			routes = append(routes, Route{Path: cp, Label: labels[p]})
		}
	}
	aliases := make(map[string]string, len(t.aliases))
	for k, v := range t.aliases {
		aliases[k] = v
	}
	return NewTable(routes, aliases)
}

// Canonical cleans p and resolves aliases.
func (t *Table) Canonical(p string) string {
	p = tabs.CleanPath(p)
	if to, ok := t.aliases[p]; ok {
		return to
	}
	return p
}

// Lookup returns the route for p.
func (t *Table) Lookup(p string) (Route, bool) {
	r, ok := t.byPath[t.Canonical(p)]
	return r, ok
}

// Label implements tabs.Labeler. It returns "" for unmapped paths so the
// store applies its fallback.
func (t *Table) Label(p string) string {
	r, ok := t.Lookup(p)
	if !ok {
		return ""
	}
	return r.Label
}

// LabelOrFallback is Label with the fallback applied.
func (t *Table) LabelOrFallback(p string) string {
	if l := t.Label(p); l != "" {
		return l
	}
	return tabs.FallbackLabel
}

// Icon returns the icon name for p, defaulting to the home icon.
func (t *Table) Icon(p string) string {
	if r, ok := t.Lookup(p); ok && r.Icon != "" {
		return r.Icon
	}
	return IconHome
}

// IsPublic reports whether p may be shown without a signed-in user.
func (t *Table) IsPublic(p string) bool {
	r, ok := t.Lookup(p)
	return ok && r.Public
}

// Menu returns the sidebar routes in order.
func (t *Table) Menu() []Route {
	var out []Route
	for _, r := range t.routes {
		if r.Menu {
			out = append(out, r)
		}
	}
	return out
}

// Routes returns a copy of every route in order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}
