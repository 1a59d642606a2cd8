// Package tabs implements the tab session: the ordered set of open tabs in the
// shell and the pointer to the active one, kept in step with route navigation.
package tabs

import (
	"path"
	"strings"
)

const (
	// HomeKey is the sentinel key of the permanent home tab.
	HomeKey = "home"
	// RootPath is the route the home tab is bound to.
	RootPath = "/"
	// FallbackLabel is used for paths the labeler does not know.
	FallbackLabel = "Unknown page"
)

// Tab is one open session bound to a route path. Tabs are immutable once
// created; the store only ever appends or removes them.
type Tab struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Path     string `json:"path"`
	Closable bool   `json:"closable"`
}

// HomeTab returns the non-closable tab every session starts with.
func HomeTab(label string) Tab {
	if label == "" {
		label = "Home"
	}
	return Tab{Key: HomeKey, Label: label, Path: RootPath, Closable: false}
}

// Navigator is the outbound navigation trigger. The store calls it whenever
// the active path has to change programmatically.
type Navigator interface {
	NavigateTo(path string)
}

// NavigatorFunc adapts a plain function to a Navigator.
type NavigatorFunc func(path string)

// NavigateTo calls f(path).
func (f NavigatorFunc) NavigateTo(path string) { f(path) }

// Labeler resolves the display label of a route path. An empty result means
// the path is unmapped.
type Labeler interface {
	Label(path string) string
}

// LabelerFunc adapts a plain function to a Labeler.
type LabelerFunc func(path string) string

// Label calls f(path).
func (f LabelerFunc) Label(path string) string { return f(path) }

// MapLabeler is a static path to label mapping.
type MapLabeler map[string]string

// Label returns the mapped label or "".
func (m MapLabeler) Label(path string) string { return m[path] }

// CleanPath normalizes a route path so that every path maps to exactly one
// key: it is made absolute, dot segments and trailing slashes are removed,
// and a path whose key would collide with HomeKey folds into RootPath.
func CleanPath(p string) string {
	if p == "" {
		return RootPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = path.Clean(p)
	if p == "/"+HomeKey {
		return RootPath
	}
	return p
}

// KeyFor derives the tab key of an already cleaned path.
func KeyFor(p string) string {
	if p == RootPath {
		return HomeKey
	}
	return strings.TrimPrefix(p, "/")
}
