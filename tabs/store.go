package tabs

import (
	"sync"
	"time"
)

// DefaultLoadingDuration is how long the loading indicator stays up after a
// tab is selected.
const DefaultLoadingDuration = 200 * time.Millisecond

// Store owns the tab list and the active key. All mutations go through its
// methods; readers get copies via Snapshot or a subscription.
//
// The navigator and timers are invoked outside the lock, so a navigator that
// calls straight back into Reconcile is safe.
type Store struct {
	mu          sync.Mutex
	tabs        []Tab
	active      string
	loading     bool
	loadingGen  uint64
	seq         uint64
	subscribers map[chan Snapshot]struct{}

	nav         Navigator
	labels      Labeler
	loadingFor  time.Duration
	afterFunc   func(time.Duration, func()) *time.Timer
	loadingStop *time.Timer
}

// Option configures a Store.
type Option func(*Store)

// WithNavigator sets the navigation trigger.
func WithNavigator(n Navigator) Option {
	return func(s *Store) { s.nav = n }
}

// WithLabeler sets the path to label resolver.
func WithLabeler(l Labeler) Option {
	return func(s *Store) { s.labels = l }
}

// WithLoadingDuration sets how long the loading indicator is shown after
// Activate. Zero disables it.
func WithLoadingDuration(d time.Duration) Option {
	return func(s *Store) { s.loadingFor = d }
}

// New creates a Store holding only the home tab, which is active.
func New(opts ...Option) *Store {
	s := &Store{
		subscribers: make(map[chan Snapshot]struct{}),
		loadingFor:  DefaultLoadingDuration,
		afterFunc:   time.AfterFunc,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tabs = []Tab{HomeTab(s.label(RootPath))}
	s.active = HomeKey
	return s
}

// SetNavigator replaces the navigation trigger. It exists for wiring where
// the navigator is built after the store.
func (s *Store) SetNavigator(n Navigator) {
	s.mu.Lock()
	s.nav = n
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Reconcile brings the session in line with an observed route path: it
// opens a tab for the path if none exists and makes it active. It never
// triggers navigation.
func (s *Store) Reconcile(currentPath string) {
	p := CleanPath(currentPath)
	key := KeyFor(p)

	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if !s.hasPathLocked(p) {
		s.tabs = append(s.tabs, Tab{
			Key:      key,
			Label:    s.label(p),
			Path:     p,
			Closable: p != RootPath,
		})
		changed = true
	}
	if s.active != key {
		s.active = key
		changed = true
	}
	if changed {
		s.commitLocked()
	}
}

// Activate selects the tab with the given key and navigates to its path.
// Unknown keys are ignored.
func (s *Store) Activate(key string) {
	s.mu.Lock()
	i := indexOf(s.tabs, key)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	target := s.tabs[i].Path
	s.active = key
	gen := s.raiseLoadingLocked()
	s.commitLocked()
	s.mu.Unlock()

	s.scheduleLoadingEnd(gen)
	s.navigate(target)
}

// Close removes the tab with the given key. The last remaining tab and
// non-closable tabs are never removed. When the active tab is closed, the tab to its left
// becomes active, or the new first tab if it was the first.
func (s *Store) Close(key string) {
	s.mu.Lock()
	if len(s.tabs) <= 1 {
		s.mu.Unlock()
		return
	}
	targetIndex := indexOf(s.tabs, key)
	if targetIndex < 0 || !s.tabs[targetIndex].Closable {
		s.mu.Unlock()
		return
	}

	remaining := make([]Tab, 0, len(s.tabs)-1)
	remaining = append(remaining, s.tabs[:targetIndex]...)
	remaining = append(remaining, s.tabs[targetIndex+1:]...)

	navTo := ""
	if s.active == key {
		next := remaining[0]
		if targetIndex > 0 {
			next = remaining[targetIndex-1]
		}
		s.active = next.Key
		navTo = next.Path
	}
	s.tabs = remaining
	s.commitLocked()
	s.mu.Unlock()

	if navTo != "" {
		s.navigate(navTo)
	}
}

// CloseOthers keeps the non-closable tabs and the active tab. The active
// key does not change, so no navigation happens.
func (s *Store) CloseOthers() {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := pinned(s.tabs)
	if i := indexOf(s.tabs, s.active); i >= 0 && s.tabs[i].Closable {
		kept = append(kept, s.tabs[i])
	}
	if len(kept) == len(s.tabs) {
		return
	}
	s.tabs = kept
	s.commitLocked()
}

// CloseAll keeps only the non-closable tabs, activates the first of them and
// navigates to it.
func (s *Store) CloseAll() {
	s.mu.Lock()
	kept := pinned(s.tabs)
	if len(kept) == 0 {
		// Unreachable while the home tab invariant holds.
		s.mu.Unlock()
		return
	}
	s.tabs = kept
	s.active = kept[0].Key
	navTo := kept[0].Path
	s.commitLocked()
	s.mu.Unlock()

	s.navigate(navTo)
}

// Subscribe returns a channel that receives a snapshot after every state
// change. Slow subscribers miss snapshots rather than block the store.
func (s *Store) Subscribe() chan Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Snapshot, 16)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

func (s *Store) label(p string) string {
	if s.labels != nil {
		if l := s.labels.Label(p); l != "" {
			return l
		}
	}
	if p == RootPath {
		return "Home"
	}
	return FallbackLabel
}

func (s *Store) hasPathLocked(p string) bool {
	for _, t := range s.tabs {
		if t.Path == p {
			return true
		}
	}
	return false
}

func (s *Store) snapshotLocked() Snapshot {
	tabs := make([]Tab, len(s.tabs))
	copy(tabs, s.tabs)
	return Snapshot{Tabs: tabs, ActiveKey: s.active, Loading: s.loading, Seq: s.seq}
}

// commitLocked bumps the sequence number and fans the new snapshot out.
func (s *Store) commitLocked() {
	s.seq++
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (s *Store) raiseLoadingLocked() uint64 {
	if s.loadingFor <= 0 {
		return 0
	}
	s.loading = true
	s.loadingGen++
	if s.loadingStop != nil {
		s.loadingStop.Stop()
	}
	return s.loadingGen
}

func (s *Store) scheduleLoadingEnd(gen uint64) {
	if gen == 0 {
		return
	}
	t := s.afterFunc(s.loadingFor, func() { s.endLoading(gen) })
	s.mu.Lock()
	if s.loadingGen == gen {
		s.loadingStop = t
	}
	s.mu.Unlock()
}

func (s *Store) endLoading(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// A later Activate owns the indicator now.
	if gen != s.loadingGen || !s.loading {
		return
	}
	s.loading = false
	s.commitLocked()
}

func (s *Store) navigate(p string) {
	s.mu.Lock()
	nav := s.nav
	s.mu.Unlock()
	if nav != nil {
		nav.NavigateTo(p)
	}
}

func pinned(tabs []Tab) []Tab {
	var out []Tab
	for _, t := range tabs {
		if !t.Closable {
			out = append(out, t)
		}
	}
	return out
}
