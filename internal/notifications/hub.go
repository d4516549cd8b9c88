package notifications

import (
	"context"
	"sync"

	"identify/internal/middleware"
	"identify/internal/observability"
)

// Hub tracks the connected feed clients and broadcasts every event to all
// of them. The feed is global: every client sees every event.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a client to the broadcast set.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		client.closeSend()
		return
	}
	h.clients[client] = struct{}{}
	observability.ActiveWebSockets.Inc()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	client.closeSend()
	observability.ActiveWebSockets.Dec()
}

// Broadcast queues a message on every connected client. Slow clients drop
// the message instead of blocking the hub.
func (h *Hub) Broadcast(eventType string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	observability.WebSocketEventsTotal.WithLabelValues(eventType).Inc()
	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			middleware.Logger.Warn("dropping feed event for slow client",
				"event_type", eventType, "user_id", client.UserID)
		}
	}
}

// StartWiring connects the Redis subscriber to this hub.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartEventSubscriber(ctx, func(channel, payload string) {
		h.Broadcast(EventTypeFromChannel(channel), []byte(payload))
	})
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every client and refuses new registrations.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for client := range h.clients {
		delete(h.clients, client)
		client.closeSend()
		observability.ActiveWebSockets.Dec()
	}
	return ctx.Err()
}
