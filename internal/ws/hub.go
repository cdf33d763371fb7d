package ws

import (
	"encoding/json"
	"sync"
	"time"

	"earnhub/internal/logger"
)

// Event is the envelope broadcast to every connected admin dashboard.
type Event struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload,omitempty"`
	Time    time.Time `json:"time"`
}

// Hub fans domain events out to connected admin clients. It satisfies
// service.EventPublisher; a slow client gets dropped rather than blocking
// the services publishing into it.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logger.Debug("ws: admin client connected", "user_id", c.UserID)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Publish broadcasts an event to all connected clients.
func (h *Hub) Publish(event string, payload any) {
	msg, err := json.Marshal(Event{Type: event, Payload: payload, Time: time.Now().UTC()})
	if err != nil {
		logger.Error("ws: marshal event failed", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// backed-up client, drop it
			delete(h.clients, c)
			close(c.send)
		}
	}
}
