package realtime

import (
	"encoding/json"
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// envelope is the wire frame pushed to clients: {"event": ..., "data": ...}.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub maintains room membership for active connections and broadcasts
// events to room members. Rooms are keyed "user:<id>", "event:<id>" or
// "chat:<id>" and exist only while they have members.
type Hub struct {
	mu sync.RWMutex
	// every connected client, with or without room memberships
	clients map[Client]struct{}
	// room key -> set of member clients
	rooms map[string]map[Client]struct{}
	// reverse index so a disconnect can drop a client from all its rooms
	memberships map[Client]map[string]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients:     make(map[Client]struct{}),
		rooms:       make(map[string]map[Client]struct{}),
		memberships: make(map[Client]map[string]struct{}),
	}
}

// Register records a newly connected client. No rooms are joined yet.
func (h *Hub) Register(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

// Join adds a client to a room. Joining a room twice is a no-op.
func (h *Hub) Join(room string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	if _, ok := h.memberships[c]; !ok {
		h.memberships[c] = make(map[string]struct{})
	}
	h.memberships[c][room] = struct{}{}
}

// Leave removes a client from a room; empty rooms are dropped from the map.
func (h *Hub) Leave(room string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(room, c)
}

func (h *Hub) leaveLocked(room string, c Client) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.memberships[c]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(h.memberships, c)
		}
	}
}

// Remove drops a client from every room it joined. Called on disconnect.
func (h *Hub) Remove(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range h.memberships[c] {
		h.leaveLocked(room, c)
	}
	delete(h.memberships, c)
	delete(h.clients, c)
}

// RoomSize returns the number of clients currently in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast delivers event+data to every current member of a room.
// A room with no members is a no-op, not an error.
func (h *Hub) Broadcast(room, event string, data any) {
	h.BroadcastExcept(room, nil, event, data)
}

// BroadcastExcept delivers event+data to every member of a room except skip.
// Used for typing indicators, which must not echo back to the sender.
func (h *Hub) BroadcastExcept(room string, skip Client, event string, data any) {
	message, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c == skip {
			continue
		}
		// a failed write is cleaned up by the ws handler on its side
		c.Send(message)
	}
}

// BroadcastAll delivers event+data to every connected client in this process.
func (h *Hub) BroadcastAll(event string, data any) {
	message, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		c.Send(message)
	}
}
