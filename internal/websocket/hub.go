// Package websocket is the transport adapter: it carries client actions to
// the coordinator and fans coordinator events out to the right connections.
package websocket

import (
	"sync"

	"chat-relay/internal/models"
	"chat-relay/pkg/logger"
)

// RoomMembership resolves a room id to its current participant ids. The
// room store provides this; the hub keeps no membership state of its own.
type RoomMembership interface {
	Participants(roomID string) []string
}

// Hub tracks live connections and implements the coordinator's Notifier
// port. Sends are fire-and-forget: a frame is copied into each target's
// buffered send channel, and a client whose buffer is full is evicted.
type Hub struct {
	mu         sync.Mutex
	clients    map[string]*Client
	membership RoomMembership
}

func NewHub(membership RoomMembership) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		membership: membership,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.id] = client
	logger.Info("Client %s connected. Total clients: %d", client.id, len(h.clients))
}

// Unregister drops a client and closes its send channel. A no-op when the
// client was already evicted.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
		logger.Info("Client %s disconnected. Total clients: %d", client.id, len(h.clients))
	}
}

// Direct delivers an event to one connection.
func (h *Hub) Direct(connID string, evt models.Event) {
	frame, err := models.EncodeEvent(evt)
	if err != nil {
		logger.Error("Error encoding %s event: %v", evt.EventType(), err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[connID]; ok {
		h.sendLocked(client, frame)
	}
}

// Room delivers an event to every current participant of a room except the
// excluded connection ids.
func (h *Hub) Room(roomID string, exclude []string, evt models.Event) {
	frame, err := models.EncodeEvent(evt)
	if err != nil {
		logger.Error("Error encoding %s event: %v", evt.EventType(), err)
		return
	}

	members := h.membership.Participants(roomID)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, id := range members {
		if contains(exclude, id) {
			continue
		}
		if client, ok := h.clients[id]; ok {
			h.sendLocked(client, frame)
		}
	}
}

// Broadcast delivers an event to every connection except the excluded ids.
func (h *Hub) Broadcast(evt models.Event, exclude ...string) {
	frame, err := models.EncodeEvent(evt)
	if err != nil {
		logger.Error("Error encoding %s event: %v", evt.EventType(), err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		if contains(exclude, id) {
			continue
		}
		h.sendLocked(client, frame)
	}
}

// sendLocked pushes a frame into a client's buffer, evicting the client if
// the buffer is full. Callers hold h.mu.
func (h *Hub) sendLocked(client *Client, frame []byte) {
	select {
	case client.send <- frame:
	default:
		delete(h.clients, client.id)
		close(client.send)
		logger.Error("Client %s evicted: send buffer full", client.id)
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
