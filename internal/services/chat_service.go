package services

import (
	"context"

	"pairchat/internal/models"
	"pairchat/internal/session"
)

// SessionRegistry is the slice of the session manager the chat service
// touches: subscribing connections and fanning persisted messages out.
type SessionRegistry interface {
	Join(roomID, connID string, sink session.Sink)
	Broadcast(roomID string, payload interface{})
}

// ChatService orchestrates room resolution, persistence, and fan-out for the
// three client operations.
type ChatService struct {
	resolver *RoomResolver
	store    *MessageStore
	sessions SessionRegistry
}

func NewChatService(resolver *RoomResolver, store *MessageStore, sessions SessionRegistry) *ChatService {
	return &ChatService{resolver: resolver, store: store, sessions: sessions}
}

// JoinChat resolves the canonical room for the pair and subscribes the
// connection to it. On resolution failure nothing is joined.
func (s *ChatService) JoinChat(ctx context.Context, connID string, sink session.Sink, userID, targetUserID string) (*models.Room, error) {
	room, err := s.resolver.Resolve(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	s.sessions.Join(room.ID, connID, sink)
	return room, nil
}

// History returns the initial history page sent after a successful join.
func (s *ChatService) History(ctx context.Context, roomID string) ([]models.Message, error) {
	return s.store.Recent(ctx, roomID, DefaultHistoryLimit)
}

// SendMessage persists the message, then broadcasts it to every connection
// currently in the room, the sender's included. Persistence strictly
// precedes broadcast: a client that reconnects and re-fetches history never
// misses a message it already saw live. On failure nothing is broadcast.
func (s *ChatService) SendMessage(ctx context.Context, roomID, senderID, body string) (*models.Message, error) {
	msg, err := s.store.Append(ctx, roomID, senderID, body)
	if err != nil {
		return nil, err
	}
	s.sessions.Broadcast(roomID, models.NewMessageEvent{Event: "new_message", Message: *msg})
	return msg, nil
}

// FetchMessages returns one page of older history for the requester only.
func (s *ChatService) FetchMessages(ctx context.Context, roomID string, limit, offset int) ([]models.Message, int, error) {
	return s.store.Page(ctx, roomID, limit, offset)
}
