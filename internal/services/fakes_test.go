package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"pairchat/internal/models"
	"pairchat/internal/repository"
)

// In-memory repository fakes. The room fake enforces pair uniqueness under a
// lock the same way the UNIQUE constraint does, so the resolver's
// conflict-as-success path is exercised for real.

type fakeRoomRepo struct {
	mu       sync.Mutex
	rooms    []models.Room
	touchErr error
}

func (f *fakeRoomRepo) FindByParticipants(_ context.Context, p1, p2 string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].Participant1 == p1 && f.rooms[i].Participant2 == p2 {
			room := f.rooms[i]
			return &room, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoomRepo) FindByID(_ context.Context, id string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			room := f.rooms[i]
			return &room, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRoomRepo) Insert(_ context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].Participant1 == room.Participant1 && f.rooms[i].Participant2 == room.Participant2 {
			return repository.ErrDuplicate
		}
	}
	f.rooms = append(f.rooms, *room)
	return nil
}

func (f *fakeRoomRepo) TouchLastMessage(_ context.Context, roomID string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rooms {
		if f.rooms[i].ID == roomID {
			ts := at
			f.rooms[i].LastMessageAt = &ts
		}
	}
	return nil
}

func (f *fakeRoomRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rooms)
}

type storedMessage struct {
	models.Message
	seq int
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	seq       int
	msgs      []storedMessage
	insertErr error
}

func (f *fakeMessageRepo) Insert(_ context.Context, msg *models.Message) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	f.msgs = append(f.msgs, storedMessage{Message: *msg, seq: f.seq})
	return nil
}

func (f *fakeMessageRepo) Recent(_ context.Context, roomID string, limit int) ([]models.Message, error) {
	return f.page(roomID, limit, 0), nil
}

func (f *fakeMessageRepo) Page(_ context.Context, roomID string, limit, offset int) ([]models.Message, error) {
	return f.page(roomID, limit, offset), nil
}

// page returns newest first, like the SQL ORDER BY created_at DESC, id DESC.
// The insertion sequence stands in for the id tie-break.
func (f *fakeMessageRepo) page(roomID string, limit, offset int) []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var inRoom []storedMessage
	for _, m := range f.msgs {
		if m.RoomID == roomID {
			inRoom = append(inRoom, m)
		}
	}
	sort.SliceStable(inRoom, func(i, j int) bool {
		if !inRoom[i].CreatedAt.Equal(inRoom[j].CreatedAt) {
			return inRoom[i].CreatedAt.After(inRoom[j].CreatedAt)
		}
		return inRoom[i].seq > inRoom[j].seq
	})

	out := make([]models.Message, 0)
	for i := offset; i < len(inRoom) && len(out) < limit; i++ {
		out = append(out, inRoom[i].Message)
	}
	return out
}

func (f *fakeMessageRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}
