package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"pairchat/internal/models"
	"pairchat/internal/repository"
)

// RoomResolver derives or lazily creates the canonical room for an unordered
// pair of participant identifiers.
type RoomResolver struct {
	rooms repository.RoomRepository
}

func NewRoomResolver(rooms repository.RoomRepository) *RoomResolver {
	return &RoomResolver{rooms: rooms}
}

// Resolve returns the one room for the pair, creating it on first use.
// Resolve(a, b) and Resolve(b, a) return the same room, and concurrent
// first-time resolves converge on a single row: the insert ignores pair
// conflicts and the re-read picks up whichever insert won.
func (r *RoomResolver) Resolve(ctx context.Context, userA, userB string) (*models.Room, error) {
	if userA == "" || userB == "" {
		return nil, fmt.Errorf("%w: missing user IDs", ErrValidation)
	}

	p1, p2 := sortedPair(userA, userB)

	room, err := r.rooms.FindByParticipants(ctx, p1, p2)
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	fresh := &models.Room{ID: uuid.New().String(), Participant1: p1, Participant2: p2}
	if err := r.rooms.Insert(ctx, fresh); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return nil, err
	}

	return r.rooms.FindByParticipants(ctx, p1, p2)
}

// sortedPair canonicalizes the pair so one room serves both directions.
func sortedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
