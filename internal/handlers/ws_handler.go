package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"hobbymatch-api/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// wsClient implements realtime.Client by wrapping a websocket connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) Send(message []byte) bool {
	if c == nil || c.conn == nil {
		return false
	}
	// Broadcasts arrive from arbitrary goroutines; gorilla allows only one
	// concurrent writer per connection.
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		return false
	}
	return true
}

func (c *wsClient) Close() {
	if c != nil && c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is already handled at Gin level; allow upgrade from any origin here
		return true
	},
}

// clientFrame is one inbound message: {"event": "...", "data": ...}.
type clientFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// idFromRaw extracts an opaque identifier that clients may send either as a
// JSON string or as a bare number.
func idFromRaw(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// WebSocketHandler upgrades the connection, registers the client with the
// process hub and dispatches inbound room events until disconnect.
// It requires JWT middleware to have set "user_id" in context.
func WebSocketHandler(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("websocket upgrade error:", err)
		return
	}

	client := &wsClient{conn: conn}
	hub := realtime.EnsureHub()
	hub.Register(client)
	// Every connection listens on its own user room so notifications reach
	// it without an explicit join.
	hub.Join(realtime.UserRoom(userID), client)

	// Heartbeat: send periodic pings; close on error
	pingTicker := time.NewTicker(30 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-pingTicker.C:
				if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
					// ping failed; reader loop will exit on next error
					return
				}
			}
		}
	}()
	defer func() {
		close(done)
		pingTicker.Stop()
		hub.Remove(client)
		client.Close()
	}()

	// Reader loop: dispatch room events and keep connection alive via pong handler
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// Normal close or error; exit loop
			return
		}
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))

		var frame clientFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			continue
		}
		dispatchClientEvent(hub, client, frame)
	}
}

// dispatchClientEvent mutates room membership or rebroadcasts chat events.
// The "join" event trusts the caller-supplied id; there is no check that it
// belongs to the connecting party.
func dispatchClientEvent(hub *realtime.Hub, client *wsClient, frame clientFrame) {
	switch frame.Event {
	case "join":
		if id := idFromRaw(frame.Data); id != "" {
			hub.Join(realtime.UserRoom(id), client)
		}
	case "join-event":
		if id := idFromRaw(frame.Data); id != "" {
			hub.Join(realtime.EventRoom(id), client)
		}
	case "leave-event":
		if id := idFromRaw(frame.Data); id != "" {
			hub.Leave(realtime.EventRoom(id), client)
		}
	case "join-chat":
		if id := idFromRaw(frame.Data); id != "" {
			hub.Join(realtime.ChatRoom(id), client)
		}
	case "leave-chat":
		if id := idFromRaw(frame.Data); id != "" {
			hub.Leave(realtime.ChatRoom(id), client)
		}
	case "typing":
		var payload struct {
			ChatID   json.RawMessage `json:"chatId"`
			UserID   string          `json:"userId"`
			IsTyping bool            `json:"isTyping"`
		}
		if err := json.Unmarshal(frame.Data, &payload); err != nil {
			return
		}
		chatID := idFromRaw(payload.ChatID)
		if chatID == "" {
			return
		}
		// The sender already knows it is typing; everyone else in the chat
		// gets told.
		hub.BroadcastExcept(realtime.ChatRoom(chatID), client, realtime.EventUserTyping, realtime.TypingPayload{
			UserID:   payload.UserID,
			IsTyping: payload.IsTyping,
		})
	case "send-message":
		var message map[string]any
		if err := json.Unmarshal(frame.Data, &message); err != nil {
			return
		}
		chatID := stringID(message["chatId"])
		if chatID == "" {
			return
		}
		// Unlike typing, the sender is included so its UI confirms delivery.
		hub.Broadcast(realtime.ChatRoom(chatID), realtime.EventNewMessage, message)
	}
}

// stringID renders a decoded JSON id (string or number) as a room id segment.
func stringID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}
