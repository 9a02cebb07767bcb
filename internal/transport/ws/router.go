package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"kokorod/internal/platform/observability"
)

// HandlerBuilder creates a session handler for an upgraded websocket
// connection.
type HandlerBuilder func(conn *Connection, req *http.Request) (SessionHandler, error)

// Router upgrades HTTP connections to websocket sessions.
type Router struct {
	hub    *Hub
	logger *slog.Logger

	upgrader         *websocket.Upgrader
	handshakeTimeout time.Duration
	builder          atomic.Value // HandlerBuilder
}

// RouterOptions configures the websocket router.
type RouterOptions struct {
	HandshakeTimeout time.Duration
	CheckOrigin      func(r *http.Request) bool
}

func NewRouter(hub *Hub, logger *slog.Logger, opts RouterOptions) *Router {
	upgrader := &websocket.Upgrader{
		CheckOrigin: opts.CheckOrigin,
	}
	if upgrader.CheckOrigin == nil {
		upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	}

	timeout := opts.HandshakeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Router{
		hub:              hub,
		logger:           logger,
		upgrader:         upgrader,
		handshakeTimeout: timeout,
	}
}

// SetHandlerBuilder registers the handler builder invoked after a
// successful upgrade.
func (r *Router) SetHandlerBuilder(builder HandlerBuilder) {
	r.builder.Store(builder)
}

// Handle upgrades the HTTP connection and launches a new session.
func (r *Router) Handle(w http.ResponseWriter, req *http.Request) {
	value := r.builder.Load()
	if value == nil {
		http.Error(w, "websocket handler not ready", http.StatusServiceUnavailable)
		return
	}
	builder := value.(HandlerBuilder)

	handshakeCtx, cancel := context.WithTimeoutCause(req.Context(), r.handshakeTimeout, ErrHandshakeTimeout)
	defer cancel()
	req = req.WithContext(handshakeCtx)

	spanCtx, spanEnd := observability.StartSpan(handshakeCtx, "transport.websocket", "handle")
	var spanErr error
	defer func() {
		spanEnd(spanErr)
	}()

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		spanErr = err
		observability.RecordCount(spanCtx, "websocket.upgrade.error", 1,
			map[string]string{"component": "transport.websocket"})
		if r.logger != nil {
			r.logger.Error("websocket handshake failed", "error", err)
		}
		return
	}

	clientID := resolveClientID(req)
	wsConn := NewConnection(clientID, conn)
	observability.RecordCount(spanCtx, "websocket.upgrade.success", 1,
		map[string]string{"component": "transport.websocket"})

	handler, err := builder(wsConn, req)
	if err != nil || handler == nil {
		spanErr = err
		observability.RecordCount(spanCtx, "websocket.connection.error", 1,
			map[string]string{"component": "transport.websocket", "reason": "handler_creation_failed"})
		if r.logger != nil {
			r.logger.Error("create session handler failed", "client", clientID, "error", err)
		}
		_ = wsConn.Close()
		return
	}

	session := NewSession(context.Background(), handler, wsConn, r.logger)
	r.hub.Register(session)
	if r.logger != nil {
		r.logger.Info("websocket connected", "client", clientID, "session", session.ID())
	}
	observability.RecordCount(spanCtx, "websocket.connection.opened", 1,
		map[string]string{"component": "transport.websocket", "client_id": clientID})

	go session.Run(func(runErr error) {
		r.hub.Unregister(session.ID())
		if runErr != nil && r.logger != nil {
			r.logger.Warn("session ended abnormally", "session", session.ID(), "error", runErr)
		}
		observability.RecordCount(session.Context(), "websocket.connection.closed", 1,
			map[string]string{"component": "transport.websocket", "client_id": clientID})
	})
}

func resolveClientID(req *http.Request) string {
	if id := req.Header.Get("Client-Id"); id != "" {
		return id
	}
	if id := req.URL.Query().Get("client-id"); id != "" {
		return id
	}
	return uuid.NewString()
}
