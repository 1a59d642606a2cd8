package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/grovetools/tabdeck/errors"
)

// Command is a session operation sent over the websocket.
type Command struct {
	Op   string `json:"op"`
	Key  string `json:"key,omitempty"`
	Path string `json:"path,omitempty"`
}

// Command ops.
const (
	OpActivate    = "activate"
	OpClose       = "close"
	OpCloseOthers = "close-others"
	OpCloseAll    = "close-all"
	OpNavigate    = "navigate"
)

// apply runs a command against the session.
func (s *Server) apply(cmd Command) error {
	switch cmd.Op {
	case OpActivate, OpClose:
		if cmd.Key == "" {
			return errors.MissingFields(cmd.Op, "key")
		}
		if s.store.Snapshot().Index(cmd.Key) < 0 {
			return errors.NotFound("tab", cmd.Key)
		}
		if cmd.Op == OpActivate {
			s.store.Activate(cmd.Key)
		} else {
			s.store.Close(cmd.Key)
		}
	case OpCloseOthers:
		s.store.CloseOthers()
	case OpCloseAll:
		s.store.CloseAll()
	case OpNavigate:
		if cmd.Path == "" {
			return errors.MissingFields(cmd.Op, "path")
		}
		s.router.NavigateTo(cmd.Path)
	default:
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown op %q", cmd.Op)).
			WithDetail("op", cmd.Op)
	}
	s.logger.WithField("op", cmd.Op).WithField("key", cmd.Key).WithField("path", cmd.Path).Debug("Applied command")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.router.Table().Routes())
}

func (s *Server) handleGetTabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) run(w http.ResponseWriter, cmd Command) {
	if err := s.apply(cmd); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	s.run(w, Command{Op: OpActivate, Key: mux.Vars(r)["key"]})
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	s.run(w, Command{Op: OpClose, Key: mux.Vars(r)["key"]})
}

func (s *Server) handleCloseOthers(w http.ResponseWriter, r *http.Request) {
	s.run(w, Command{Op: OpCloseOthers})
}

func (s *Server) handleCloseAll(w http.ResponseWriter, r *http.Request) {
	s.run(w, Command{Op: OpCloseAll})
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid request body"))
		return
	}
	s.run(w, Command{Op: OpNavigate, Path: req.Path})
}

// handleStream sends every snapshot as a Server-Sent Event, starting with
// the current one.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	fmt.Fprintf(w, ": connected\n\n")
	if data, err := json.Marshal(s.store.Snapshot()); err == nil {
		fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
	}
	flusher.Flush()

	s.logger.Debug("SSE client connected")

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case <-s.quit:
			return
		case snap := <-ch:
			data, err := json.Marshal(snap)
			if err != nil {
				s.logger.WithError(err).Error("Failed to marshal snapshot")
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
