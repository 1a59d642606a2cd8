package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/tabdeck/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginProfiles(t *testing.T) {
	tests := []struct {
		username string
		role     string
		email    string
	}{
		{"admin", RoleAdmin, "admin@example.com"},
		{"alice", RoleUser, "user@example.com"},
		{"  admin  ", RoleAdmin, "admin@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			s := New()
			u, err := s.Login(tt.username, "secret")
			require.NoError(t, err)
			assert.Equal(t, tt.role, u.Role)
			assert.Equal(t, tt.email, u.Email)
			_, err = uuid.Parse(u.SessionID)
			assert.NoError(t, err)
			assert.True(t, s.SignedIn())
		})
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		missing  []string
	}{
		{"both", "", "", []string{"username", "password"}},
		{"username", " ", "pw", []string{"username"}},
		{"password", "bob", "", []string{"password"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			u, err := s.Login(tt.username, tt.password)
			assert.Nil(t, u)
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
			te, _ := errors.As(err)
			assert.Equal(t, tt.missing, te.Details["fields"])
			assert.False(t, s.SignedIn())
		})
	}
}

func TestLogoutAndSubscribers(t *testing.T) {
	s := New()
	fixed := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	var seen []string
	unsubscribe := s.Subscribe(func(u *User) {
		if u == nil {
			seen = append(seen, "out")
			return
		}
		seen = append(seen, "in:"+u.Name)
	})

	_, err := s.Login("bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, fixed, s.Current().SignedInAt)

	s.Logout()
	s.Logout()
	assert.Nil(t, s.Current())
	assert.Equal(t, []string{"in:bob", "out"}, seen)

	unsubscribe()
	_, _ = s.Login("carol", "pw")
	assert.Len(t, seen, 2)
}

func TestCurrentReturnsCopy(t *testing.T) {
	s := New()
	_, err := s.Login("bob", "pw")
	require.NoError(t, err)

	u := s.Current()
	u.Name = "mallory"
	assert.Equal(t, "bob", s.Current().Name)
}
