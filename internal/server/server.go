// Package server exposes a tab session over HTTP so scripts and other
// processes can drive it: JSON endpoints for commands, plus Server-Sent
// Events and a websocket for snapshot streams.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/grovetools/tabdeck/errors"
	"github.com/grovetools/tabdeck/routes"
	"github.com/grovetools/tabdeck/tabs"
	"github.com/sirupsen/logrus"
)

// Server serves one tab session.
type Server struct {
	logger   *logrus.Entry
	server   *http.Server
	store    *tabs.Store
	router   *routes.Router
	upgrader websocket.Upgrader
	started  time.Time

	mu       sync.Mutex
	quit     chan struct{}
	quitOnce sync.Once
}

// New creates a Server for a store already wired to router.
func New(store *tabs.Store, router *routes.Router, logger *logrus.Entry) *Server {
	return &Server{
		logger: logger,
		store:  store,
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		started: time.Now(),
		quit:    make(chan struct{}),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/routes", s.handleRoutes).Methods(http.MethodGet)
	r.HandleFunc("/api/tabs", s.handleGetTabs).Methods(http.MethodGet)
	r.HandleFunc("/api/tabs/close-others", s.handleCloseOthers).Methods(http.MethodPost)
	r.HandleFunc("/api/tabs/close-all", s.handleCloseAll).Methods(http.MethodPost)
	// Keys of nested paths contain slashes, so {key} spans segments and the
	// activate route must be registered first.
	r.HandleFunc("/api/tabs/{key:.+}/activate", s.handleActivate).Methods(http.MethodPost)
	r.HandleFunc("/api/tabs/{key:.+}", s.handleClose).Methods(http.MethodDelete)
	r.HandleFunc("/api/navigate", s.handleNavigate).Methods(http.MethodPost)
	r.HandleFunc("/api/stream", s.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/api/ws", s.handleWebsocket).Methods(http.MethodGet)

	return r
}

// ListenAndServe serves on addr until Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to listen").WithDetail("addr", addr)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv.RegisterOnShutdown(s.stopStreams)
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.WithField("addr", listener.Addr().String()).Info("Session API listening")
	err := srv.Serve(listener)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server. Open SSE and websocket streams are
// ended first; http.Server.Shutdown does not cancel their request contexts.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	s.stopStreams()

	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

func (s *Server) stopStreams() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	}
	te, ok := errors.As(err)
	if !ok {
		te = errors.Wrap(err, errors.ErrCodeInternal, err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(te.ToJSON()))
}
