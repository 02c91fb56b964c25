package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu       sync.Mutex
	payloads []interface{}
	writeErr error
}

func (s *recordingSink) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.payloads = append(s.payloads, v)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func TestBroadcast_ReachesEveryMemberIncludingSender(t *testing.T) {
	m := NewManager()
	a, b := &recordingSink{}, &recordingSink{}
	m.Join("room1", "conn-a", a)
	m.Join("room1", "conn-b", b)

	m.Broadcast("room1", "hello")

	require.Equal(t, 1, a.count())
	require.Equal(t, 1, b.count())
}

func TestBroadcast_ScopedToRoom(t *testing.T) {
	m := NewManager()
	in, out := &recordingSink{}, &recordingSink{}
	m.Join("room1", "conn-in", in)
	m.Join("room2", "conn-out", out)

	m.Broadcast("room1", "hello")

	require.Equal(t, 1, in.count())
	require.Equal(t, 0, out.count())
}

func TestBroadcast_EmptyRoomIsNoop(t *testing.T) {
	m := NewManager()
	m.Broadcast("nowhere", "hello")
	require.Equal(t, 0, m.MemberCount("nowhere"))
}

func TestBroadcast_WriteFailureDoesNotStopFanout(t *testing.T) {
	m := NewManager()
	broken := &recordingSink{writeErr: errors.New("peer gone")}
	healthy := &recordingSink{}
	m.Join("room1", "conn-broken", broken)
	m.Join("room1", "conn-healthy", healthy)

	m.Broadcast("room1", "hello")

	require.Equal(t, 1, healthy.count())
}

func TestJoin_IsIdempotent(t *testing.T) {
	m := NewManager()
	sink := &recordingSink{}
	m.Join("room1", "conn-a", sink)
	m.Join("room1", "conn-a", sink)

	require.Equal(t, 1, m.MemberCount("room1"))

	m.Broadcast("room1", "once")
	require.Equal(t, 1, sink.count())
}

func TestLeave_StopsDelivery(t *testing.T) {
	m := NewManager()
	sink := &recordingSink{}
	m.Join("room1", "conn-a", sink)
	m.Leave("room1", "conn-a")

	m.Broadcast("room1", "hello")

	require.Equal(t, 0, sink.count())
	require.False(t, m.InRoom("room1", "conn-a"))
}

func TestDisconnect_PrunesAllMemberships(t *testing.T) {
	m := NewManager()
	sink := &recordingSink{}
	m.Join("room1", "conn-a", sink)
	m.Join("room2", "conn-a", sink)

	m.Disconnect("conn-a")

	require.Equal(t, 0, m.MemberCount("room1"))
	require.Equal(t, 0, m.MemberCount("room2"))

	m.Broadcast("room1", "hello")
	m.Broadcast("room2", "hello")
	require.Equal(t, 0, sink.count())
}

func TestManager_ConcurrentChurnIsSafe(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			connID := fmt.Sprintf("conn-%d", i)
			roomID := fmt.Sprintf("room-%d", i%4)
			m.Join(roomID, connID, &recordingSink{})
			m.Broadcast(roomID, i)
			m.Disconnect(connID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		require.Equal(t, 0, m.MemberCount(fmt.Sprintf("room-%d", i)))
	}
}
