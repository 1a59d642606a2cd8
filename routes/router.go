package routes

import (
	"sync"

	"github.com/grovetools/tabdeck/logging"
	"github.com/grovetools/tabdeck/tabs"
	"github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 50

// Observer is notified with the new path after every path change.
type Observer func(path string)

// Router tracks the current path and carries out navigation requests. It is
// both the route observer (it reports path changes) and the navigation
// trigger the tab store drives (it implements tabs.Navigator).
//
// Observers run synchronously. A navigation requested while observers are
// being notified is queued and delivered after them, so every observer sees
// path changes in the order they happened.
type Router struct {
	mu           sync.Mutex
	table        *Table
	guard        Guard
	current      string
	started      bool
	history      []string
	historyLimit int
	observers    map[int]Observer
	nextID       int
	notifying    bool
	queue        []string
	logger       *logrus.Entry
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithGuard installs a guard consulted on every navigation.
func WithGuard(g Guard) RouterOption {
	return func(r *Router) { r.guard = g }
}

// WithHistoryLimit bounds the back stack.
func WithHistoryLimit(n int) RouterOption {
	return func(r *Router) { r.historyLimit = n }
}

// WithRouterLogger sets the router's logger.
func WithRouterLogger(l *logrus.Entry) RouterOption {
	return func(r *Router) { r.logger = l }
}

// NewRouter creates a router positioned at the root path. Observers are not
// notified until Start.
func NewRouter(table *Table, opts ...RouterOption) *Router {
	if table == nil {
		table = DefaultTable()
	}
	r := &Router{
		table:        table,
		current:      PathHome,
		historyLimit: defaultHistoryLimit,
		observers:    make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logging.NewLogger("router")
	}
	return r
}

// Table returns the router's route table.
func (r *Router) Table() *Table { return r.table }

// Current returns the current path.
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Observe registers fn and returns a function that removes it.
func (r *Router) Observe(fn Observer) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.observers[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

// Start reports the initial path to observers. The guard is applied first,
// so an anonymous session starts on the login page.
func (r *Router) Start(initial string) {
	r.mu.Lock()
	r.started = true
	r.mu.Unlock()
	r.deliver(r.resolve(initial), true, false)
}

// NavigateTo implements tabs.Navigator.
func (r *Router) NavigateTo(path string) {
	r.deliver(r.resolve(path), false, true)
}

// Refresh re-applies the guard to the current path, for example after the
// signed-in user changed.
func (r *Router) Refresh() {
	r.NavigateTo(r.Current())
}

// Back returns to the previous path, if any.
func (r *Router) Back() bool {
	r.mu.Lock()
	if len(r.history) == 0 {
		r.mu.Unlock()
		return false
	}
	prev := r.history[len(r.history)-1]
	r.history = r.history[:len(r.history)-1]
	r.mu.Unlock()

	r.deliver(r.resolve(prev), false, false)
	return true
}

// History returns the back stack, oldest first.
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

func (r *Router) resolve(path string) string {
	p := r.table.Canonical(path)
	if r.guard != nil {
		if to := r.guard.Resolve(p); to != p {
			r.logger.WithField("from", p).WithField("to", to).Debug("Guard redirected navigation")
			p = r.table.Canonical(to)
		}
	}
	return p
}

// deliver moves to path and notifies observers. force notifies even when
// the path did not change (used for the first observation).
func (r *Router) deliver(path string, force, push bool) {
	r.mu.Lock()
	if !force && (path == r.current || !r.started) {
		if !r.started {
			r.current = path
		}
		r.mu.Unlock()
		return
	}
	if push && r.current != path {
		r.history = append(r.history, r.current)
		if over := len(r.history) - r.historyLimit; r.historyLimit > 0 && over > 0 {
			r.history = r.history[over:]
		}
	}
	r.current = path
	r.queue = append(r.queue, path)
	if r.notifying {
		r.mu.Unlock()
		return
	}
	r.notifying = true
	r.mu.Unlock()

	for {
		r.mu.Lock()
		if len(r.queue) == 0 {
			r.notifying = false
			r.mu.Unlock()
			return
		}
		next := r.queue[0]
		r.queue = r.queue[1:]
		observers := make([]Observer, 0, len(r.observers))
		for id := 0; id < r.nextID; id++ {
			if fn, ok := r.observers[id]; ok {
				observers = append(observers, fn)
			}
		}
		r.mu.Unlock()

		r.logger.WithField("path", next).Debug("Route changed")
		for _, fn := range observers {
			fn(next)
		}
	}
}

// Reconciler is the part of the tab store the router feeds.
type Reconciler interface {
	Reconcile(path string)
}

// BindTabs forwards every non-public path change to the tab store. Public
// pages such as the login screen sit outside the tabbed layout.
func (r *Router) BindTabs(rec Reconciler) func() {
	return r.Observe(func(path string) {
		if r.table.IsPublic(path) {
			return
		}
		rec.Reconcile(path)
	})
}

// Wire connects a tab store to the router in both directions and returns a
// function that undoes the observer half.
func Wire(r *Router, s *tabs.Store) func() {
	s.SetNavigator(r)
	return r.BindTabs(s)
}
