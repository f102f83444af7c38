package ws

import (
	"os"
	"sync"
	"testing"

	"github.com/mehendiverse/marketplace-app/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

type fakeConn struct {
	mu       sync.Mutex
	writeErr error
	frames   []Envelope
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, v.(Envelope))
	return nil
}

func (c *fakeConn) Close() error { return nil }

func (c *fakeConn) received() []Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Envelope(nil), c.frames...)
}

func TestPushToUser(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.RegisterSession(7, conn)

	ok := hub.PushToUser(7, "appointment_updated", map[string]interface{}{"appointment_id": uint(42)})
	assert.True(t, ok)

	frames := conn.received()
	require.Len(t, frames, 1)
	assert.Equal(t, "appointment_updated", frames[0].Event)
	data := frames[0].Data.(map[string]interface{})
	assert.Equal(t, uint(42), data["appointment_id"])
}

func TestPushToUserOffline(t *testing.T) {
	hub := NewHub()
	assert.False(t, hub.PushToUser(99, "appointment_updated", nil))
}

func TestPushToUserWriteFailure(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{writeErr: assert.AnError}
	hub.RegisterSession(7, conn)

	assert.False(t, hub.PushToUser(7, "appointment_updated", nil))
}

func TestRegisterSessionLastWriteWins(t *testing.T) {
	hub := NewHub()
	first := &fakeConn{}
	second := &fakeConn{}
	hub.RegisterSession(7, first)
	hub.RegisterSession(7, second)

	require.True(t, hub.PushToUser(7, "ping", nil))
	assert.Empty(t, first.received())
	assert.Len(t, second.received(), 1)
	assert.Equal(t, 1, hub.ConnectedCount())
}

func TestUnregisterStaleSessionKeepsNewer(t *testing.T) {
	hub := NewHub()
	staleID := hub.RegisterSession(7, &fakeConn{})
	fresh := &fakeConn{}
	hub.RegisterSession(7, fresh)

	// The stale connection's deferred cleanup fires after the reconnect;
	// the newer session must survive it.
	hub.UnregisterSession(7, staleID)

	assert.True(t, hub.PushToUser(7, "ping", nil))
	assert.Len(t, fresh.received(), 1)
}

func TestUnregisterSession(t *testing.T) {
	hub := NewHub()
	sessionID := hub.RegisterSession(7, &fakeConn{})
	hub.UnregisterSession(7, sessionID)

	assert.False(t, hub.PushToUser(7, "ping", nil))
	assert.Equal(t, 0, hub.ConnectedCount())
}

func TestBroadcastToRoom(t *testing.T) {
	hub := NewHub()
	a := &fakeConn{}
	b := &fakeConn{}
	outsider := &fakeConn{}
	aID := hub.RegisterSession(1, a)
	bID := hub.RegisterSession(2, b)
	hub.RegisterSession(3, outsider)

	hub.JoinRoom("appointment:42", aID, 1)
	hub.JoinRoom("appointment:42", bID, 2)

	hub.Broadcast("new_message_in_room", "hello", "appointment:42")

	assert.Len(t, a.received(), 1)
	assert.Len(t, b.received(), 1)
	assert.Empty(t, outsider.received())
}

func TestBroadcastToRoomExceptSender(t *testing.T) {
	hub := NewHub()
	sender := &fakeConn{}
	peer := &fakeConn{}
	senderID := hub.RegisterSession(1, sender)
	peerID := hub.RegisterSession(2, peer)
	hub.JoinRoom("appointment:42", senderID, 1)
	hub.JoinRoom("appointment:42", peerID, 2)

	hub.BroadcastToRoomExcept("new_message_in_room", "hi", "appointment:42", senderID)

	assert.Empty(t, sender.received())
	assert.Len(t, peer.received(), 1)
}

func TestBroadcastEmptyRoomReachesEveryone(t *testing.T) {
	hub := NewHub()
	a := &fakeConn{}
	b := &fakeConn{}
	hub.RegisterSession(1, a)
	hub.RegisterSession(2, b)

	hub.Broadcast("announcement", "maintenance at midnight", "")

	assert.Len(t, a.received(), 1)
	assert.Len(t, b.received(), 1)
}

func TestJoinRoomRequiresLiveSession(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.RegisterSession(1, conn)

	hub.JoinRoom("appointment:42", "bogus-session", 1)
	hub.Broadcast("new_message_in_room", "hello", "appointment:42")

	assert.Empty(t, conn.received())
}

func TestUnregisterLeavesRooms(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	sessionID := hub.RegisterSession(1, conn)
	hub.JoinRoom("appointment:42", sessionID, 1)

	hub.UnregisterSession(1, sessionID)
	hub.Broadcast("new_message_in_room", "hello", "appointment:42")

	assert.Empty(t, conn.received())
}
