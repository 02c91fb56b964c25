package models

// Inbound websocket events. Clients send a flat envelope with an "event"
// field; the dispatcher decodes the payload struct for that event.

type JoinChatRequest struct {
	UserID       string `json:"userId" validate:"required"`
	TargetUserID string `json:"targetUserId" validate:"required"`
}

type SendMessageRequest struct {
	RoomID   string `json:"roomId" validate:"required"`
	SenderID string `json:"senderId" validate:"required"`
	Body     string `json:"body" validate:"required"`
}

type FetchMessagesRequest struct {
	RoomID string `json:"roomId" validate:"required"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// Outbound websocket events.

type ConnectedEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}

type RoomJoinedEvent struct {
	Event  string `json:"event"`
	RoomID string `json:"roomId"`
	Room   *Room  `json:"room"`
}

type MessageHistoryEvent struct {
	Event    string    `json:"event"`
	RoomID   string    `json:"roomId"`
	Messages []Message `json:"messages"`
}

// NewMessageEvent is broadcast to every current member of the room,
// including the sender's own connection.
type NewMessageEvent struct {
	Event string `json:"event"`
	Message
}

type MoreMessagesEvent struct {
	Event    string    `json:"event"`
	RoomID   string    `json:"roomId"`
	Messages []Message `json:"messages"`
	Offset   int       `json:"offset"`
}

type ErrorEvent struct {
	Event   string `json:"event"`
	Message string `json:"message"`
}
