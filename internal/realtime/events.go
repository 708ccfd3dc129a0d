package realtime

import "encoding/json"

// Socket event names. Client-to-server events arrive as envelopes on the
// websocket; server-to-client events are fanned out to every connection
// bound to a session channel.
const (
	EventJoinSession = "join:session"
	EventUsersOnline = "users:online"

	EventMessageSend    = "message:send"
	EventMessageNew     = "message:new"
	EventMessageUpdated = "message:updated"
	EventMessageDeleted = "message:deleted"

	EventRoomCreated = "room:created"
	EventRoomUpdated = "room:updated"
	EventRoomDeleted = "room:deleted"

	EventTypingStart = "typing:start"
	EventTypingStop  = "typing:stop"
	EventTypingShow  = "typing:show"
	EventTypingHide  = "typing:hide"

	EventError = "error"
)

// Envelope is the wire frame for every socket event, both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type JoinSessionPayload struct {
	SessionID string `json:"sessionId"`
	UserID    string `json:"userId"`
}

type SendMessagePayload struct {
	RoomID  string `json:"roomId"`
	UserID  string `json:"userId"`
	Content string `json:"content"`
}

type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Nickname string `json:"nickname,omitempty"`
}

type MessageDeletedPayload struct {
	ID     string `json:"id"`
	RoomID string `json:"roomId"`
}

type RoomDeletedPayload struct {
	RoomID string `json:"roomId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func marshalEvent(event string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
