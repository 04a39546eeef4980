package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"CosmoPulse/internal/domain/models"
	drepo "CosmoPulse/internal/domain/repository"
	xlogger "CosmoPulse/pkg/logger"

	"github.com/gorilla/websocket"
)

const wsWriteTimeout = 5 * time.Second

// WSHub pushes each refreshed snapshot to subscribed websocket clients. It
// implements the Publisher sink so the snapshot processor can fan out to
// live subscribers the same way it fans out to Kafka.
type WSHub struct {
	logger   *xlogger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	closed  bool
}

// NewWSHub creates an empty hub.
func NewWSHub(logger *xlogger.Logger) *WSHub {
	return &WSHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Subscribe upgrades the request and registers the connection. The read
// loop only consumes control frames; clients are push-only.
func (h *WSHub) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return conn.Close()
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

// Publish broadcasts a snapshot event to all subscribers. Failed writes
// drop the client; a broken subscriber never blocks the refresh path.
func (h *WSHub) Publish(_ context.Context, e *models.SnapshotEvent) error {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.WriteJSON(e); err != nil {
			h.logger.Debug("ws subscriber dropped", xlogger.Error(err))
			h.drop(c)
		}
	}
	return nil
}

// Close disconnects all subscribers.
func (h *WSHub) Close() error {
	h.mu.Lock()
	h.closed = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.clients = make(map[*websocket.Conn]struct{})
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
	return nil
}

func (h *WSHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

var _ drepo.Publisher = (*WSHub)(nil)
