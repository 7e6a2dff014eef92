package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/terra-clan/company-site/internal/content"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveMessage is pushed to announcement subscribers
type LiveMessage struct {
	Type  string                 `json:"type"`
	Items []content.Announcement `json:"items,omitempty"`
	Error string                 `json:"error,omitempty"`
}

// liveWriteWait bounds a single write to a subscriber
const liveWriteWait = 10 * time.Second

type liveClient struct {
	conn      *websocket.Conn
	mu        sync.Mutex
	writeWait time.Duration
}

// send writes msg under the client's write deadline. A peer that stops
// reading fails the write instead of stalling the broadcaster.
func (c *liveClient) send(msg LiveMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.conn.WriteJSON(msg)
}

// Hub fans announcement updates out to connected websocket clients
type Hub struct {
	mu        sync.RWMutex
	clients   map[*liveClient]struct{}
	closed    bool
	writeWait time.Duration
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[*liveClient]struct{}), writeWait: liveWriteWait}
}

func (h *Hub) newClient(conn *websocket.Conn) *liveClient {
	return &liveClient{conn: conn, writeWait: h.writeWait}
}

func (h *Hub) add(c *liveClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *liveClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends the current announcements to every client. Clients that
// fail to receive are dropped.
func (h *Hub) Broadcast(items []content.Announcement) {
	h.mu.RLock()
	clients := make([]*liveClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	msg := LiveMessage{Type: "announcements", Items: items}
	for _, c := range clients {
		if err := c.send(msg); err != nil {
			slog.Debug("dropping live client", "error", err)
			h.remove(c)
			c.conn.Close()
		}
	}
}

// Close disconnects all clients and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(c.writeWait))
		c.mu.Unlock()
		c.conn.Close()
		delete(h.clients, c)
	}
}

func (s *Server) handleAnnouncementsLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	client := s.hub.newClient(conn)
	if !s.hub.add(client) {
		client.send(LiveMessage{Type: "error", Error: "server shutting down"})
		return
	}
	defer s.hub.remove(client)

	slog.Debug("live announcements connected", "remote_addr", r.RemoteAddr, "clients", s.hub.Count())

	if err := client.send(LiveMessage{
		Type:  "announcements",
		Items: s.content.Feed.Active(r.Context()),
	}); err != nil {
		return
	}

	// Subscribers only listen. Reading keeps control frames flowing and
	// tells us when the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}
