package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mehendiverse/marketplace-app/utils"
	"go.uber.org/zap"
)

// Conn is the minimal connection surface the hub needs. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Envelope is the wire frame for every server-to-client event.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type session struct {
	id     string
	userID uint
	conn   Conn

	// Websocket connections do not allow concurrent writers.
	writeMu sync.Mutex
}

func (s *session) send(event string, payload interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(Envelope{Event: event, Data: payload})
}

// Hub is the live user-to-connection registry. One active session is kept
// per user; registering again replaces the previous mapping (last write
// wins). All methods are safe for concurrent use.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uint]*session
	rooms    map[string]map[string]*session
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[uint]*session),
		rooms:    make(map[string]map[string]*session),
	}
}

// RegisterSession associates a user with a live connection and returns the
// session id the caller needs for unregistration and room messaging.
func (h *Hub) RegisterSession(userID uint, conn Conn) string {
	s := &session{id: uuid.NewString(), userID: userID, conn: conn}

	h.mu.Lock()
	h.sessions[userID] = s
	h.mu.Unlock()

	utils.Log.Info("user connected",
		zap.Uint("user_id", userID),
		zap.String("session_id", s.id))
	return s.id
}

// UnregisterSession removes the user's mapping on disconnect. The mapping
// is only removed if it still belongs to the given session, so a stale
// disconnect never evicts a newer connection.
func (h *Hub) UnregisterSession(userID uint, sessionID string) {
	h.mu.Lock()
	if s, ok := h.sessions[userID]; ok && s.id == sessionID {
		delete(h.sessions, userID)
	}
	for room, members := range h.rooms {
		delete(members, sessionID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()

	utils.Log.Info("user disconnected",
		zap.Uint("user_id", userID),
		zap.String("session_id", sessionID))
}

// PushToUser delivers an event to the user's live connection. Returns
// false when the user has no connection or the write fails; the caller
// does not retry or queue.
func (h *Hub) PushToUser(userID uint, event string, payload interface{}) bool {
	h.mu.RLock()
	s, ok := h.sessions[userID]
	h.mu.RUnlock()
	if !ok {
		utils.Log.Warn("user not connected, notification dropped",
			zap.Uint("user_id", userID),
			zap.String("event", event))
		return false
	}
	if err := s.send(event, payload); err != nil {
		utils.Log.Error("failed to push notification",
			zap.Uint("user_id", userID),
			zap.String("event", event),
			zap.Error(err))
		return false
	}
	return true
}

// JoinRoom adds a session to a named room.
func (h *Hub) JoinRoom(room string, sessionID string, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[userID]
	if !ok || s.id != sessionID {
		return
	}
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[string]*session)
	}
	h.rooms[room][sessionID] = s
}

// Broadcast sends an event to every session in the named room, or to all
// connected sessions when room is empty.
func (h *Hub) Broadcast(event string, payload interface{}, room string) {
	h.broadcastExcept(event, payload, room, "")
}

// BroadcastToRoomExcept sends to everyone in a room except the named
// session, mirroring a sender-excluded room emit.
func (h *Hub) BroadcastToRoomExcept(event string, payload interface{}, room, exceptSessionID string) {
	h.broadcastExcept(event, payload, room, exceptSessionID)
}

func (h *Hub) broadcastExcept(event string, payload interface{}, room, exceptSessionID string) {
	h.mu.RLock()
	var targets []*session
	if room == "" {
		targets = make([]*session, 0, len(h.sessions))
		for _, s := range h.sessions {
			targets = append(targets, s)
		}
	} else {
		targets = make([]*session, 0, len(h.rooms[room]))
		for _, s := range h.rooms[room] {
			if s.id != exceptSessionID {
				targets = append(targets, s)
			}
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.send(event, payload); err != nil {
			utils.Log.Error("broadcast write failed",
				zap.Uint("user_id", s.userID),
				zap.String("event", event),
				zap.Error(err))
		}
	}
}

// ConnectedCount reports the number of live sessions.
func (h *Hub) ConnectedCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}
