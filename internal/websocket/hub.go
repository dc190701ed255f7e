package websocket

import (
	"context"
	"sync"

	"site-content-be/internal/pkg/logger"
)

// Hub fans preview updates out to the websocket clients watching an editor
// session. Sessions live in the memory of one instance, so delivery is local.
type Hub struct {
	// Registered clients: SessionID -> set of clients (several tabs may watch one session)
	clients map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

// Run serves register and unregister requests until ctx ends, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.SessionID] == nil {
				h.clients[client.SessionID] = make(map[*Client]bool)
			}
			h.clients[client.SessionID][client] = true
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{
				"session_id": client.SessionID, "user_id": client.UserID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for _, clients := range h.clients {
				for client := range clients {
					h.remove(client)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// remove drops client and closes its Send channel. Callers hold h.mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.SessionID]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Session has no more watchers", map[string]interface{}{"session_id": client.SessionID})
	}
}

// Publish queues payload for every client watching sessionID. A client whose
// buffer is full is disconnected rather than blocking the editor.
func (h *Hub) Publish(sessionID string, payload []byte) {
	var slow []*Client

	h.mu.RLock()
	for client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	if len(slow) == 0 {
		return
	}
	h.mu.Lock()
	for _, client := range slow {
		h.logger.Warn("Hub", "Client send buffer full, disconnecting", map[string]interface{}{"session_id": sessionID})
		h.remove(client)
	}
	h.mu.Unlock()
}

// CloseSession disconnects every client of a closed or expired session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[sessionID] {
		h.remove(client)
	}
}

// Watchers returns how many clients watch sessionID.
func (h *Hub) Watchers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}
