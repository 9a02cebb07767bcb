package ws

import (
	"log/slog"
	"sync"
)

// Hub tracks the active websocket sessions for a transport instance.
type Hub struct {
	logger   *slog.Logger
	sessions sync.Map // map[string]*Session
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{logger: logger}
}

// Register adds a new session to the hub.
func (h *Hub) Register(session *Session) {
	if session == nil {
		return
	}
	h.sessions.Store(session.ID(), session)
}

// Unregister removes the session from the hub.
func (h *Hub) Unregister(id string) {
	if id == "" {
		return
	}
	h.sessions.Delete(id)
}

// CloseAll terminates all active sessions.
func (h *Hub) CloseAll(reason error) {
	if reason == nil {
		reason = ErrSessionShutdown
	}
	h.sessions.Range(func(key, value any) bool {
		if session, ok := value.(*Session); ok {
			session.Close(reason)
		}
		h.sessions.Delete(key)
		return true
	})
}

// Count exposes the number of active websocket sessions.
func (h *Hub) Count() int {
	n := 0
	h.sessions.Range(func(key, value any) bool {
		n++
		return true
	})
	return n
}
