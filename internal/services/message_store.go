package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"pairchat/internal/models"
	"pairchat/internal/repository"
	"pairchat/internal/utils"
)

const (
	// DefaultHistoryLimit is how many messages a joining client receives.
	DefaultHistoryLimit = 50
	// DefaultPageLimit is the fetch_messages page size when unspecified.
	DefaultPageLimit = 20
)

// MessageStore owns the append-only message log. Storage order is newest
// first; everything handed out is reversed to oldest first so clients read
// chronologically regardless of how rows come back.
type MessageStore struct {
	rooms    repository.RoomRepository
	messages repository.MessageRepository
}

func NewMessageStore(rooms repository.RoomRepository, messages repository.MessageRepository) *MessageStore {
	return &MessageStore{rooms: rooms, messages: messages}
}

// Append persists a message after checking the sender is one of the room's
// two participants. The room's last_message_at update is best-effort: the
// stored message is authoritative and a failed timestamp update never fails
// the send.
func (s *MessageStore) Append(ctx context.Context, roomID, senderID, body string) (*models.Message, error) {
	if roomID == "" || senderID == "" || body == "" {
		return nil, fmt.Errorf("%w: missing message details", ErrValidation)
	}

	room, err := s.rooms.FindByID(ctx, roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid room or sender not in room", ErrMembership)
	}
	if err != nil {
		return nil, err
	}
	if !room.HasParticipant(senderID) {
		return nil, fmt.Errorf("%w: invalid room or sender not in room", ErrMembership)
	}

	msg := &models.Message{
		ID:        uuid.New().String(),
		RoomID:    roomID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		return nil, err
	}

	utils.LogError(s.rooms.TouchLastMessage(ctx, roomID, msg.CreatedAt), "TouchLastMessage")

	return msg, nil
}

// Recent returns the latest limit messages, oldest first.
func (s *MessageStore) Recent(ctx context.Context, roomID string, limit int) ([]models.Message, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	messages, err := s.messages.Recent(ctx, roomID, limit)
	if err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}

// Page returns one page of history, oldest first, plus the offset that walks
// the next call further into the past. Offsets shift when new messages land
// between pages; that instability comes with LIMIT/OFFSET pagination and is
// a documented limitation rather than something this layer papers over.
func (s *MessageStore) Page(ctx context.Context, roomID string, limit, offset int) ([]models.Message, int, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	messages, err := s.messages.Page(ctx, roomID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	next := offset + len(messages)
	reverse(messages)
	return messages, next, nil
}

func reverse(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
