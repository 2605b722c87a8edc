// Package hub fans auction events out to viewer WebSocket connections.
// Viewers are read-only: inbound frames are drained for keepalive purposes
// and otherwise ignored.
package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nikhilmenon/auctiond/internal/event"
)

// Config holds WebSocket connection tuning.
type Config struct {
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	PingInterval   time.Duration
	MaxMessageSize int64
	SendBuffer     int
	CheckOrigin    func(r *http.Request) bool
}

// DefaultConfig returns the tuning used in production.
func DefaultConfig() Config {
	return Config{
		WriteTimeout:   10 * time.Second,
		ReadTimeout:    60 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 512,
		SendBuffer:     64,
		// The viewer page is served from arbitrary hosts during events.
		CheckOrigin: func(*http.Request) bool { return true },
	}
}

// Hub upgrades viewer connections and broadcasts every auction event to all
// of them. A connection that cannot keep up is closed rather than allowed to
// stall the broadcast loop.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*conn]struct{}
	upgrader websocket.Upgrader
	cfg      Config
	logger   *slog.Logger
}

// New returns an empty Hub.
func New(cfg Config, logger *slog.Logger) *Hub {
	return &Hub{
		conns: make(map[*conn]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Run consumes events until the channel closes or ctx is cancelled,
// broadcasting each one. Call it in its own goroutine.
func (h *Hub) Run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			h.broadcast(ctx, e)
		}
	}
}

func (h *Hub) broadcast(ctx context.Context, e event.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		h.logger.ErrorContext(ctx, "marshaling event", slog.String("event", string(e.Type)), slog.Any("error", err))
		return
	}

	// Send while holding the read lock: unregister closes send channels
	// under the write lock, so a channel can never close mid-send. The
	// sends are non-blocking, so the lock is held only briefly.
	h.mu.RLock()
	var slow []*conn
	for c := range h.conns {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.WarnContext(ctx, "closing slow viewer connection", slog.String("connection_id", c.id))
		h.unregister(c)
		c.ws.Close()
	}
}

// ServeHTTP upgrades the request and starts the connection's pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", slog.Any("error", err))
		return
	}

	c := &conn{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan []byte, h.cfg.SendBuffer),
		hub:  h,
	}
	h.register(c)
	h.logger.InfoContext(r.Context(), "viewer connected",
		slog.String("connection_id", c.id),
		slog.String("remote", r.RemoteAddr),
	)

	go c.writePump()
	go c.readPump()
}

// ConnCount returns the number of live viewer connections.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close drops every connection.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		delete(h.conns, c)
		close(c.send)
		c.ws.Close()
	}
}

func (h *Hub) register(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; ok {
		delete(h.conns, c)
		close(c.send)
	}
}

type conn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte
	hub  *Hub
}

func (c *conn) writePump() {
	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
		c.hub.unregister(c)
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(c.hub.cfg.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(c.hub.cfg.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(c.hub.cfg.ReadTimeout))
		return nil
	})

	for {
		// Viewers have nothing to say; frames only reset the deadline.
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(c.hub.cfg.ReadTimeout))
	}
}
