package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsHub keeps the per-room broadcast groups. Writes are serialized per
// connection and never block game progression: a failed write drops the
// connection and the loop moves on.
type wsHub struct {
	mu      sync.Mutex
	groups  map[string]map[*websocket.Conn]struct{}
	writers map[*websocket.Conn]*sync.Mutex
}

func newWSHub() *wsHub {
	return &wsHub{
		groups:  make(map[string]map[*websocket.Conn]struct{}),
		writers: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (h *wsHub) Add(roomCode string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomCode]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[roomCode] = group
	}
	group[conn] = struct{}{}
}

func (h *wsHub) Remove(roomCode string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomCode]
	if group == nil {
		return
	}
	delete(group, conn)
	if len(group) == 0 {
		delete(h.groups, roomCode)
	}
}

// Detach closes and removes every connection in the room's group. Used
// when a room is deleted or reaped.
func (h *wsHub) Detach(roomCode string) {
	h.mu.Lock()
	group := h.groups[roomCode]
	delete(h.groups, roomCode)
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
		delete(h.writers, conn)
	}
	h.mu.Unlock()
	for _, conn := range conns {
		_ = conn.Close()
	}
}

// Forget drops the connection's writer lock and closes the socket.
func (h *wsHub) Forget(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.writers, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

func (h *wsHub) writerFor(conn *websocket.Conn) *sync.Mutex {
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.writers[conn]
	if w == nil {
		w = &sync.Mutex{}
		h.writers[conn] = w
	}
	return w
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		return false
	}
	w := h.writerFor(conn)
	w.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	w.Unlock()
	return err == nil
}

func (h *wsHub) Broadcast(roomCode string, payload any) {
	h.BroadcastExcept(roomCode, payload, nil)
}

func (h *wsHub) BroadcastExcept(roomCode string, payload any, except *websocket.Conn) {
	h.mu.Lock()
	group := h.groups[roomCode]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		if conn == except {
			continue
		}
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		if !h.Send(conn, payload) {
			h.Remove(roomCode, conn)
		}
	}
}

func pushEvent(event string, data any) map[string]any {
	return map[string]any{
		"event": event,
		"data":  data,
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	log.Printf("ws connected remote=%s", r.RemoteAddr)
	go s.readLoop(conn)
}

func (s *Server) readLoop(conn *websocket.Conn) {
	defer s.handleDisconnect(conn)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("ws disconnected error=%v", err)
			return
		}
		s.dispatch(conn, data)
	}
}

func (s *Server) handleDisconnect(conn *websocket.Conn) {
	s.ws.Forget(conn)
	session, ok := s.sessions.Unbind(conn)
	if !ok {
		return
	}
	s.ws.Remove(session.RoomCode, conn)
	room, deleted, err := s.store.LeaveRoom(session.RoomCode, session.PlayerID)
	if err != nil {
		return
	}
	if deleted {
		log.Printf("room deleted code=%s reason=empty", room.Code)
		s.ws.Detach(room.Code)
		return
	}
	log.Printf("player disconnected code=%s player_id=%s", room.Code, session.PlayerID)
	var view map[string]any
	if s.store.View(session.RoomCode, func(room *Room) {
		view = roomSnapshot(room)
	}) {
		s.broadcastRoomUpdate(session.RoomCode, view)
	}
}

// The broadcast helpers deliver views that were built inside a store
// critical section; they never touch the room themselves.

func (s *Server) broadcastRoomUpdate(roomCode string, view map[string]any) {
	s.ws.Broadcast(roomCode, pushEvent("room-update", view))
}

// broadcastGameUpdate fans out the per-recipient payloads: each member
// gets the shared public view plus their own revealed list.
func (s *Server) broadcastGameUpdate(roomCode string, views map[string]map[string]any) {
	for playerID, view := range views {
		conn, ok := s.sessions.ConnFor(roomCode, playerID)
		if !ok {
			continue
		}
		s.ws.Send(conn, pushEvent("game-update", view))
	}
}

// pushGameStarted delivers each member's private hand alongside the
// personalized session view.
func (s *Server) pushGameStarted(roomCode string, views map[string]map[string]any) {
	for playerID, view := range views {
		conn, ok := s.sessions.ConnFor(roomCode, playerID)
		if !ok {
			continue
		}
		s.ws.Send(conn, pushEvent("game-started", view))
	}
}

func (s *Server) broadcastVotingProgress(roomCode string, voted, total int) {
	s.ws.Broadcast(roomCode, pushEvent("voting-progress", map[string]any{
		"voted_count": voted,
		"total_count": total,
	}))
}
