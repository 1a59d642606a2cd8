// Package users is an in-memory user directory backing the users page.
package users

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/tabdeck/errors"
)

// Role of a directory user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

// Status of a directory user.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusPending  Status = "pending"
)

// NeverLoggedIn is the LastLogin of a user who has not signed in yet.
const NeverLoggedIn = "never"

// User is one directory entry.
type User struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Email      string `json:"email" yaml:"email"`
	Phone      string `json:"phone" yaml:"phone"`
	Role       Role   `json:"role" yaml:"role"`
	Status     Status `json:"status" yaml:"status"`
	Department string `json:"department" yaml:"department"`
	CreatedAt  string `json:"created_at" yaml:"created_at"`
	LastLogin  string `json:"last_login" yaml:"last_login"`
}

// Form holds the editable fields of a user. All are required.
type Form struct {
	Name       string
	Email      string
	Phone      string
	Role       Role
	Status     Status
	Department string
}

// FormOf returns the editable fields of u.
func FormOf(u User) Form {
	return Form{
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Role:       u.Role,
		Status:     u.Status,
		Department: u.Department,
	}
}

func (f Form) validate() error {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("name", f.Name)
	check("email", f.Email)
	check("phone", f.Phone)
	check("role", string(f.Role))
	check("status", string(f.Status))
	check("department", f.Department)
	if len(missing) > 0 {
		return errors.MissingFields("user", missing...)
	}
	return nil
}

// Filter narrows List. Empty fields and "all" match everything.
type Filter struct {
	Search string
	Role   string
	Status string
}

func (f Filter) matches(u User) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Email), q) {
			return false
		}
	}
	if f.Role != "" && f.Role != "all" && string(u.Role) != f.Role {
		return false
	}
	if f.Status != "" && f.Status != "all" && string(u.Status) != f.Status {
		return false
	}
	return true
}

// Stats summarises the directory.
type Stats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Admins  int `json:"admins"`
	Pending int `json:"pending"`
}

// Directory stores users in insertion order.
type Directory struct {
	mu      sync.RWMutex
	users   []User
	latency time.Duration
	today   func() string
	newID   func() string
}

// Option configures a Directory.
type Option func(*Directory)

// WithLatency delays every mutating call, as a remote directory would.
func WithLatency(d time.Duration) Option {
	return func(dir *Directory) { dir.latency = d }
}

// WithUsers replaces the seeded users.
func WithUsers(users []User) Option {
	return func(dir *Directory) { dir.users = append([]User(nil), users...) }
}

// New returns a directory seeded with the mock users.
func New(opts ...Option) *Directory {
	d := &Directory{
		users: Seed(),
		today: func() string { return time.Now().Format("2006-01-02") },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Seed returns the mock users the directory starts with.
func Seed() []User {
	return []User{
		{ID: "1", Name: "Zhang San", Email: "zhangsan@example.com", Phone: "13800138001", Role: RoleAdmin, Status: StatusActive, Department: "Engineering", CreatedAt: "2024-01-15", LastLogin: "2024-03-15 10:30"},
		{ID: "2", Name: "Li Si", Email: "lisi@example.com", Phone: "13800138002", Role: RoleManager, Status: StatusActive, Department: "Product", CreatedAt: "2024-02-01", LastLogin: "2024-03-14 16:45"},
		{ID: "3", Name: "Wang Wu", Email: "wangwu@example.com", Phone: "13800138003", Role: RoleUser, Status: StatusInactive, Department: "Design", CreatedAt: "2024-02-15", LastLogin: "2024-03-10 09:15"},
		{ID: "4", Name: "Zhao Liu", Email: "zhaoliu@example.com", Phone: "13800138004", Role: RoleUser, Status: StatusPending, Department: "Operations", CreatedAt: "2024-03-01", LastLogin: NeverLoggedIn},
	}
}

// List returns the users matching f in directory order.
func (d *Directory) List(f Filter) []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]User, 0, len(d.users))
	for _, u := range d.users {
		if f.matches(u) {
			out = append(out, u)
		}
	}
	return out
}

// Get returns the user with id.
func (d *Directory) Get(id string) (User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if i := d.indexLocked(id); i >= 0 {
		return d.users[i], nil
	}
	return User{}, errors.NotFound("user", id)
}

// Stats counts users by status and role.
func (d *Directory) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := Stats{Total: len(d.users)}
	for _, u := range d.users {
		if u.Status == StatusActive {
			s.Active++
		}
		if u.Status == StatusPending {
			s.Pending++
		}
		if u.Role == RoleAdmin {
			s.Admins++
		}
	}
	return s
}

// Departments returns the distinct departments, sorted.
func (d *Directory) Departments() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, u := range d.users {
		if !seen[u.Department] {
			seen[u.Department] = true
			out = append(out, u.Department)
		}
	}
	sort.Strings(out)
	return out
}

// Add creates a user from f.
func (d *Directory) Add(ctx context.Context, f Form) (User, error) {
	if err := f.validate(); err != nil {
		return User{}, err
	}
	if err := d.wait(ctx); err != nil {
		return User{}, err
	}

	u := User{
		ID:         d.newID(),
		Name:       f.Name,
		Email:      f.Email,
		Phone:      f.Phone,
		Role:       f.Role,
		Status:     f.Status,
		Department: f.Department,
		CreatedAt:  d.today(),
		LastLogin:  NeverLoggedIn,
	}

	d.mu.Lock()
	d.users = append(d.users, u)
	d.mu.Unlock()
	return u, nil
}

// Update replaces the editable fields of user id.
func (d *Directory) Update(ctx context.Context, id string, f Form) (User, error) {
	if err := f.validate(); err != nil {
		return User{}, err
	}
	if err := d.wait(ctx); err != nil {
		return User{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(id)
	if i < 0 {
		return User{}, errors.NotFound("user", id)
	}
	u := &d.users[i]
	u.Name = f.Name
	u.Email = f.Email
	u.Phone = f.Phone
	u.Role = f.Role
	u.Status = f.Status
	u.Department = f.Department
	return *u, nil
}

// Delete removes user id.
func (d *Directory) Delete(ctx context.Context, id string) error {
	if err := d.wait(ctx); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	i := d.indexLocked(id)
	if i < 0 {
		return errors.NotFound("user", id)
	}
	d.users = append(d.users[:i], d.users[i+1:]...)
	return nil
}

func (d *Directory) indexLocked(id string) int {
	for i, u := range d.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (d *Directory) wait(ctx context.Context) error {
	if d.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "user directory call cancelled")
	}
}
