package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
)

const (
	writeTimeout = 3 * time.Second
	// sendBuffer is the number of messages queued per client before the
	// client is considered too slow and dropped.
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans messages out to connected WebSocket clients. Each client has its
// own queue and writer goroutine, so Broadcast never waits on a client. A
// client whose write fails, or whose queue is full, is closed and dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Add registers conn and starts its writer.
func (h *Hub) Add(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	go h.write(c)
}

func (h *Hub) write(c *client) {
	for msg := range c.send {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := c.conn.Write(ctx, websocket.MessageText, msg)
		cancel()
		if err != nil {
			if h.remove(c.conn) {
				_ = c.conn.Close(websocket.StatusInternalError, "write failed")
			}
			return
		}
	}
}

// remove unregisters conn and stops its writer. It reports whether conn was
// registered.
func (h *Hub) remove(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[conn]
	if !ok {
		return false
	}
	delete(h.clients, conn)
	close(c.send)
	return true
}

// Remove unregisters conn without closing it.
func (h *Hub) Remove(conn *websocket.Conn) {
	h.remove(conn)
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast queues message for every client.
func (h *Hub) Broadcast(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, c := range h.clients {
		select {
		case c.send <- message:
		default:
			delete(h.clients, conn)
			close(c.send)
			_ = conn.CloseNow()
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*websocket.Conn]*client)
	for _, c := range clients {
		close(c.send)
	}
	h.mu.Unlock()

	for conn := range clients {
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
