// Package auth holds the signed-in user of a tabdeck session.
//
// Login only checks that both fields are filled in; there is no password
// verification and nothing is persisted.
package auth

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/tabdeck/errors"
)

// Roles assigned by Login.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the profile of the signed-in user.
type User struct {
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	Email      string    `json:"email"`
	SessionID  string    `json:"session_id"`
	SignedInAt time.Time `json:"signed_in_at"`
}

// Session tracks who is signed in and notifies subscribers on change.
type Session struct {
	mu     sync.Mutex
	user   *User
	subs   map[int]func(*User)
	nextID int
	now    func() time.Time
}

// New returns a session with nobody signed in.
func New() *Session {
	return &Session{
		subs: make(map[int]func(*User)),
		now:  time.Now,
	}
}

// Login signs username in. Surrounding whitespace is ignored.
func (s *Session) Login(username, password string) (*User, error) {
	username = strings.TrimSpace(username)
	var missing []string
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return nil, errors.MissingFields("login", missing...)
	}

	u := profileFor(username)
	u.SessionID = uuid.NewString()
	u.SignedInAt = s.now()

	s.mu.Lock()
	s.user = &u
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(copyUser(&u))
	}
	return copyUser(&u), nil
}

// Logout signs the current user out. It is a no-op when nobody is signed in.
func (s *Session) Logout() {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user = nil
	subs := s.subscribersLocked()
	s.mu.Unlock()

	for _, fn := range subs {
		fn(nil)
	}
}

// Current returns a copy of the signed-in user, or nil.
func (s *Session) Current() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyUser(s.user)
}

// SignedIn reports whether anyone is signed in.
func (s *Session) SignedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

// Subscribe calls fn after every login and logout, outside the session lock.
// The returned func removes the subscription.
func (s *Session) Subscribe(fn func(*User)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) subscribersLocked() []func(*User) {
	out := make([]func(*User), 0, len(s.subs))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// profileFor builds the mock profile for a username.
func profileFor(username string) User {
	if username == "admin" {
		return User{Name: username, Role: RoleAdmin, Email: "admin@example.com"}
	}
	return User{Name: username, Role: RoleUser, Email: "user@example.com"}
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
