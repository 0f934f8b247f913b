package realtime

// Server -> client event names.
const (
	EventNewMessage            = "new-message"
	EventUserTyping            = "user-typing"
	EventNotification          = "notification"
	EventJoined                = "event-joined"
	EventLeft                  = "event-left"
	EventFriendRequestReceived = "friend-request-received"
	EventFriendRequestAccepted = "friend-request-accepted"
	EventNewLike               = "new-like"
)

// Room key helpers. Rooms are keyed "<kind>:<id>" where the id is whatever
// opaque identifier the storage layer minted.
func UserRoom(userID string) string   { return "user:" + userID }
func EventRoom(eventID string) string { return "event:" + eventID }
func ChatRoom(chatID string) string   { return "chat:" + chatID }

// TypingPayload is rebroadcast as "user-typing" to the other chat members.
type TypingPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}

// MembershipPayload is sent as "event-joined" / "event-left" to an event room.
type MembershipPayload struct {
	EventID          string `json:"eventId"`
	UserID           string `json:"userId"`
	UserName         string `json:"userName"`
	ParticipantCount int64  `json:"participantCount"`
}

// NewLikePayload is sent as "new-like" to the liked user's room.
type NewLikePayload struct {
	Message    string `json:"message"`
	LikerName  string `json:"likerName"`
	LikerImage string `json:"likerImage,omitempty"`
	LikerID    string `json:"likerId"`
	CreatedAt  string `json:"createdAt"`
}

// EmitRequest is the body of the cross-process gateway call (POST /emit).
type EmitRequest struct {
	Room  string `json:"room"`
	Event string `json:"event"`
	Data  any    `json:"data"`
}
