package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/tabdeck/routes"
	"github.com/grovetools/tabdeck/tabs"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

type fixture struct {
	store  *tabs.Store
	router *routes.Router
	srv    *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	logger := logrus.NewEntry(l)

	table := routes.DefaultTable()
	store := tabs.New(tabs.WithLabeler(table), tabs.WithLoadingDuration(0))
	router := routes.NewRouter(table, routes.WithRouterLogger(logger))
	routes.Wire(router, store)
	router.Start("/")

	srv := httptest.NewServer(New(store, router, logger).Handler())
	t.Cleanup(srv.Close)
	return &fixture{store: store, router: router, srv: srv}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeSnapshot(t *testing.T, data []byte) tabs.Snapshot {
	t.Helper()
	var snap tabs.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	return snap
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestRoutesEndpoint(t *testing.T) {
	f := newFixture(t)
	_, body := f.do(t, http.MethodGet, "/api/routes", "")
	var rs []routes.Route
	require.NoError(t, json.Unmarshal(body, &rs))
	assert.Len(t, rs, len(routes.DefaultRoutes()))
}

func TestNavigateActivateClose(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, http.MethodPost, "/api/navigate", `{"path":"/about"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeSnapshot(t, body)
	assert.Equal(t, []string{"home", "about"}, snap.Keys())
	assert.Equal(t, "about", snap.ActiveKey)

	f.do(t, http.MethodPost, "/api/navigate", `{"path":"/user"}`)

	resp, body = f.do(t, http.MethodPost, "/api/tabs/about/activate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "about", decodeSnapshot(t, body).ActiveKey)
	assert.Equal(t, "/about", f.router.Current())

	resp, body = f.do(t, http.MethodDelete, "/api/tabs/about", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeSnapshot(t, body)
	assert.Equal(t, []string{"home", "user"}, snap.Keys())
	assert.Equal(t, "home", snap.ActiveKey)

	_, body = f.do(t, http.MethodGet, "/api/tabs", "")
	assert.Equal(t, snap.Keys(), decodeSnapshot(t, body).Keys())
}

func TestCloseOthersAndCloseAll(t *testing.T) {
	f := newFixture(t)
	for _, p := range []string{"/about", "/user", "/upload"} {
		f.router.NavigateTo(p)
	}
	f.store.Activate("user")

	_, body := f.do(t, http.MethodPost, "/api/tabs/close-others", "")
	snap := decodeSnapshot(t, body)
	assert.Equal(t, []string{"home", "user"}, snap.Keys())
	assert.Equal(t, "user", snap.ActiveKey)

	_, body = f.do(t, http.MethodPost, "/api/tabs/close-all", "")
	snap = decodeSnapshot(t, body)
	assert.Equal(t, []string{"home"}, snap.Keys())
	assert.Equal(t, "/", f.router.Current())
}

func TestErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"unknown tab activate", http.MethodPost, "/api/tabs/nope/activate", "", http.StatusNotFound, "NOT_FOUND"},
		{"unknown tab close", http.MethodDelete, "/api/tabs/nope", "", http.StatusNotFound, "NOT_FOUND"},
		{"navigate without path", http.MethodPost, "/api/navigate", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"navigate bad body", http.MethodPost, "/api/navigate", `{`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			var e struct {
				Code string `json:"code"`
			}
			require.NoError(t, json.Unmarshal(body, &e))
			assert.Equal(t, tt.code, e.Code)
		})
	}

	resp, _ := f.do(t, http.MethodGet, "/api/tabs/close-all", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStream(t *testing.T) {
	f := newFixture(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.srv.URL+"/api/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan tabs.Snapshot, 4)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var snap tabs.Snapshot
			if json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &snap) == nil {
				events <- snap
			}
		}
	}()

	first := <-events
	assert.Equal(t, "home", first.ActiveKey)

	f.router.NavigateTo("/upload")
	select {
	case snap := <-events:
		assert.Equal(t, "upload", snap.ActiveKey)
	case <-ctx.Done():
		t.Fatal("no snapshot event")
	}
}

func TestWebsocket(t *testing.T) {
	f := newFixture(t)

	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.Equal(t, []string{"home"}, msg.Snapshot.Keys())

	require.NoError(t, conn.WriteJSON(Command{Op: OpNavigate, Path: "/about"}))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, MessageSnapshot, msg.Type)
	assert.Equal(t, "about", msg.Snapshot.ActiveKey)

	require.NoError(t, conn.WriteJSON(Command{Op: "explode"}))
	msg = Message{}
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, MessageError, msg.Type)
	assert.Equal(t, "INVALID_INPUT", string(msg.Error.Code))

	require.NoError(t, conn.WriteJSON(Command{Op: OpClose, Key: "about"}))
	msg = Message{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, []string{"home"}, msg.Snapshot.Keys())
}

func TestNestedPathTabs(t *testing.T) {
	f := newFixture(t)
	f.router.NavigateTo("/reports/daily")
	f.router.NavigateTo("/about")
	require.Equal(t, []string{"home", "reports/daily", "about"}, f.store.Snapshot().Keys())

	resp, body := f.do(t, http.MethodPost, "/api/tabs/reports/daily/activate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "reports/daily", decodeSnapshot(t, body).ActiveKey)

	resp, body = f.do(t, http.MethodDelete, "/api/tabs/reports%2Fdaily", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"home", "about"}, decodeSnapshot(t, body).Keys())

	resp, body = f.do(t, http.MethodDelete, "/api/tabs/reports/weekly", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"code":"NOT_FOUND"`)
}

func TestShutdownEndsStreams(t *testing.T) {
	logger := quietLogger()
	table := routes.DefaultTable()
	store := tabs.New(tabs.WithLabeler(table), tabs.WithLoadingDuration(0))
	router := routes.NewRouter(table, routes.WithRouterLogger(logger))
	routes.Wire(router, store)
	router.Start("/")

	srv := New(store, router, logger)
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(listener) }()
	base := "http://" + listener.Addr().String()

	resp, err := http.Get(base + "/api/stream")
	require.NoError(t, err)
	defer resp.Body.Close()
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+listener.Addr().String()+"/api/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	start := time.Now()
	require.NoError(t, srv.Shutdown(ctx))
	assert.Less(t, time.Since(start), time.Second)
	require.NoError(t, <-served)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	err = conn.ReadJSON(&msg)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
