package posts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/grovetools/tabdeck/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListDecodesPosts(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"userId":7,"title":"hello","body":"world"},{"id":2,"userId":7,"title":"again","body":"!"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	posts, err := c.List(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "/posts", gotPath)
	assert.Equal(t, "_limit=5", gotQuery)
	require.Len(t, posts, 2)
	assert.Equal(t, Post{ID: 1, UserID: 7, Title: "hello", Body: "world"}, posts[0])
}

func TestListErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.ErrorCode
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", code: errors.ErrCodeUpstream},
		{name: "not found", status: http.StatusNotFound, code: errors.ErrCodeUpstream},
		{name: "bad json", status: http.StatusOK, body: "{", code: errors.ErrCodeUpstream},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, time.Second).List(context.Background(), 3)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestListCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(srv.URL, 0).List(ctx, 1)
	assert.Equal(t, errors.ErrCodeTimeout, errors.GetCode(err))
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, NewClient("", 0).BaseURL())
	assert.Len(t, RecentActivity(), 4)
	assert.Len(t, HomeStats(), 4)
	assert.Len(t, Features(), 4)
	assert.Equal(t, "v2.0.0", Changelog()[0].Version)
}
