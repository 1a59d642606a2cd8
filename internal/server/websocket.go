package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/tabdeck/errors"
	"github.com/grovetools/tabdeck/tabs"
)

// Message is what the websocket sends: either a snapshot or the error a
// command produced.
type Message struct {
	Type     string               `json:"type"`
	Snapshot *tabs.Snapshot       `json:"snapshot,omitempty"`
	Error    *errors.TabdeckError `json:"error,omitempty"`
}

// Message types.
const (
	MessageSnapshot = "snapshot"
	MessageError    = "error"
)

// handleWebsocket streams snapshots and accepts Commands. Writes happen on
// this goroutine only; the reader hands errors over a channel.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Debug("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	replies := make(chan Message, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var cmd Command
			if err := conn.ReadJSON(&cmd); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.logger.WithError(err).Debug("Websocket read ended")
				}
				return
			}
			if err := s.apply(cmd); err != nil {
				te, ok := errors.As(err)
				if !ok {
					te = errors.Wrap(err, errors.ErrCodeInternal, err.Error())
				}
				select {
				case replies <- Message{Type: MessageError, Error: te}:
				default:
				}
			}
		}
	}()

	initial := s.store.Snapshot()
	if err := conn.WriteJSON(Message{Type: MessageSnapshot, Snapshot: &initial}); err != nil {
		return
	}
	s.logger.Debug("Websocket client connected")

	for {
		select {
		case <-done:
			s.logger.Debug("Websocket client disconnected")
			return
		case <-s.quit:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		case snap := <-ch:
			if err := conn.WriteJSON(Message{Type: MessageSnapshot, Snapshot: &snap}); err != nil {
				return
			}
		case msg := <-replies:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}
