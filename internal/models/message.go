package models

import "time"

// Message is one entry in a room's append-only log. Immutable once stored;
// ordering key is (created_at, id).
type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
