package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// sessionMap binds an active connection to its (room, player) identity
// so inbound events dispatch without touching the room store. It is
// intentionally independent of the Store: a binding can outlive a vote
// or die with a dropped socket without the registry noticing.
type sessionMap struct {
	mu     sync.Mutex
	byConn map[*websocket.Conn]binding
}

type binding struct {
	RoomCode string
	PlayerID string
}

func newSessionMap() *sessionMap {
	return &sessionMap{
		byConn: make(map[*websocket.Conn]binding),
	}
}

func (m *sessionMap) Bind(conn *websocket.Conn, roomCode, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byConn[conn] = binding{RoomCode: roomCode, PlayerID: playerID}
}

func (m *sessionMap) Lookup(conn *websocket.Conn) (binding, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byConn[conn]
	return b, ok
}

func (m *sessionMap) Unbind(conn *websocket.Conn) (binding, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byConn[conn]
	if ok {
		delete(m.byConn, conn)
	}
	return b, ok
}

// ConnFor finds the live connection bound to a player, if any. Used for
// personalized pushes.
func (m *sessionMap) ConnFor(roomCode, playerID string) (*websocket.Conn, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn, b := range m.byConn {
		if b.RoomCode == roomCode && b.PlayerID == playerID {
			return conn, true
		}
	}
	return nil, false
}
