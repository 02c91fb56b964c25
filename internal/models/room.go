package models

import "time"

// Room is the canonical conversation for an unordered pair of participants.
// Participant1 <= Participant2 lexicographically, so (a, b) and (b, a) always
// map to the same row.
type Room struct {
	ID            string     `json:"id"`
	Participant1  string     `json:"participant1"`
	Participant2  string     `json:"participant2"`
	LastMessageAt *time.Time `json:"last_message_at"`
}

// HasParticipant reports whether userID is one of the room's two participants.
func (r *Room) HasParticipant(userID string) bool {
	return userID == r.Participant1 || userID == r.Participant2
}
