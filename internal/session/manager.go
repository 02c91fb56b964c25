package session

import (
	"sync"

	"pairchat/internal/utils"
)

// Sink is the write side of a live client connection. The websocket handler
// passes a wrapper that serializes writes; tests pass fakes.
type Sink interface {
	WriteJSON(v interface{}) error
}

// Manager tracks which live connections are members of which room and fans
// new messages out to them. Membership is ephemeral: it lives exactly as long
// as the connection and is never persisted.
type Manager struct {
	mu sync.RWMutex
	// roomID -> connID -> sink
	rooms map[string]map[string]Sink
	// connID -> set of joined roomIDs, for cleanup on disconnect
	conns map[string]map[string]struct{}
}

func NewManager() *Manager {
	return &Manager{
		rooms: make(map[string]map[string]Sink),
		conns: make(map[string]map[string]struct{}),
	}
}

// Join registers the connection as a member of the room. Joining a room the
// connection is already in is a no-op.
func (m *Manager) Join(roomID, connID string, sink Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[roomID]; !ok {
		m.rooms[roomID] = make(map[string]Sink)
	}
	m.rooms[roomID][connID] = sink

	if _, ok := m.conns[connID]; !ok {
		m.conns[connID] = make(map[string]struct{})
	}
	m.conns[connID][roomID] = struct{}{}
}

// Leave removes the connection from the room.
func (m *Manager) Leave(roomID, connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(roomID, connID)
}

// Disconnect removes the connection from every room it joined.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for roomID := range m.conns[connID] {
		m.remove(roomID, connID)
	}
}

// remove expects m.mu held for writing.
func (m *Manager) remove(roomID, connID string) {
	if members, ok := m.rooms[roomID]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(m.rooms, roomID)
		}
	}
	if joined, ok := m.conns[connID]; ok {
		delete(joined, roomID)
		if len(joined) == 0 {
			delete(m.conns, connID)
		}
	}
}

// Broadcast delivers payload to every current member of the room, including
// the sender's own connection. Write failures are logged; the failing
// connection's read loop owns its teardown.
func (m *Manager) Broadcast(roomID string, payload interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sink := range m.rooms[roomID] {
		utils.LogError(sink.WriteJSON(payload), "Broadcast")
	}
}

// MemberCount returns how many connections are currently joined to the room.
func (m *Manager) MemberCount(roomID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[roomID])
}

// InRoom reports whether the connection is currently a member of the room.
func (m *Manager) InRoom(roomID, connID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[roomID][connID]
	return ok
}
