package realtime

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"
)

// Emitter lets business-logic handlers request a room broadcast without
// caring whether the live hub runs in this process. If a local hub is
// resident the broadcast is direct; otherwise a single POST is made to the
// /emit gateway of the instance that terminates websocket connections.
// Delivery is best-effort either way: the caller never learns whether any
// client received the event.
type Emitter struct {
	gatewayURL string
	client     *http.Client

	// local resolves the in-process hub; overridable in tests to force
	// the fallback path.
	local func() *Hub
}

// NewEmitter creates an emitter that falls back to the given gateway URL.
func NewEmitter(gatewayURL string) *Emitter {
	return &Emitter{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: 3 * time.Second},
		local:      CurrentHub,
	}
}

// Default is the process-wide emitter used by the route handlers.
// main replaces it once config is loaded.
var Default = NewEmitter(getEnv("EMIT_GATEWAY_URL", "http://localhost:8008/emit"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ToUser emits to the user's personal room.
func ToUser(userID, event string, data any) { Default.ToUser(userID, event, data) }

// ToEvent emits to an event's room.
func ToEvent(eventID, event string, data any) { Default.ToEvent(eventID, event, data) }

// ToChat emits to a chat's room.
func ToChat(chatID, event string, data any) { Default.ToChat(chatID, event, data) }

// ToAll emits to every connection in the local process, if a hub is resident.
func ToAll(event string, data any) { Default.ToAll(event, data) }

func (e *Emitter) ToUser(userID, event string, data any) {
	e.emit(UserRoom(userID), event, data)
}

func (e *Emitter) ToEvent(eventID, event string, data any) {
	e.emit(EventRoom(eventID), event, data)
}

func (e *Emitter) ToChat(chatID, event string, data any) {
	e.emit(ChatRoom(chatID), event, data)
}

// ToAll has no gateway fallback: with no local hub it silently does nothing.
func (e *Emitter) ToAll(event string, data any) {
	if hub := e.local(); hub != nil {
		hub.BroadcastAll(event, data)
	}
}

func (e *Emitter) emit(room, event string, data any) {
	if hub := e.local(); hub != nil {
		hub.Broadcast(room, event, data)
		return
	}

	// No hub in this process; ask the gateway exactly once. Any failure is
	// swallowed: realtime delivery must never fail the triggering request.
	body, err := json.Marshal(EmitRequest{Room: room, Event: event, Data: data})
	if err != nil {
		log.Printf("realtime: marshal emit %s %s: %v", room, event, err)
		return
	}
	resp, err := e.client.Post(e.gatewayURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("realtime: emit fallback to %s failed: %v", e.gatewayURL, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Printf("realtime: emit gateway returned status %d for %s %s", resp.StatusCode, room, event)
	}
}
