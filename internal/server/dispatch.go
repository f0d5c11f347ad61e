package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"

	"github.com/gorilla/websocket"
)

// Each operation has its own request variant with a required-fields
// contract checked before dispatch; unknown fields and unknown actions
// are rejected rather than passed through.
type wsRequest struct {
	ID     int64           `json:"id"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type createRoomRequest struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Avatar     string `json:"avatar"`
	MaxPlayers int    `json:"max_players"`
	GameMode   string `json:"game_mode"`
}

type joinRoomRequest struct {
	RoomCode   string `json:"room_code"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Avatar     string `json:"avatar"`
}

type playerReadyRequest struct {
	IsReady bool `json:"is_ready"`
}

type revealCardRequest struct {
	CardType string `json:"card_type"`
}

type castVoteRequest struct {
	TargetID string `json:"target_id"`
}

type reconnectRequest struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

var errBadRequest = errors.New("malformed request")

func decodeData(raw json.RawMessage, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func (s *Server) dispatch(conn *websocket.Conn, data []byte) {
	var req wsRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.replyError(conn, 0, errBadRequest)
		return
	}

	var payload map[string]any
	var err error
	switch req.Action {
	case "create-room":
		payload, err = s.handleCreateRoom(conn, req.Data)
	case "join-room":
		payload, err = s.handleJoinRoom(conn, req.Data)
	case "player-ready":
		payload, err = s.handlePlayerReady(conn, req.Data)
	case "start-game":
		payload, err = s.handleStartGame(conn)
	case "explore-bunker":
		payload, err = s.handleExploreBunker(conn)
	case "reveal-card":
		payload, err = s.handleRevealCard(conn, req.Data)
	case "cast-vote":
		payload, err = s.handleCastVote(conn, req.Data)
	case "continue-after-vote":
		payload, err = s.handleContinueAfterVote(conn)
	case "reconnect":
		payload, err = s.handleReconnect(conn, req.Data)
	default:
		err = errBadRequest
	}

	if err != nil {
		log.Printf("action failed action=%s code=%s error=%v", req.Action, errorCode(err), err)
		s.replyError(conn, req.ID, err)
		return
	}
	s.reply(conn, req.ID, payload)
}

func (s *Server) reply(conn *websocket.Conn, id int64, payload map[string]any) {
	response := map[string]any{
		"id": id,
		"ok": true,
	}
	for key, value := range payload {
		response[key] = value
	}
	s.ws.Send(conn, response)
}

func (s *Server) replyError(conn *websocket.Conn, id int64, err error) {
	s.ws.Send(conn, map[string]any{
		"id":    id,
		"ok":    false,
		"error": err.Error(),
		"code":  errorCode(err),
	})
}

// session resolves the caller's (room, player) binding.
func (s *Server) session(conn *websocket.Conn) (binding, error) {
	b, ok := s.sessions.Lookup(conn)
	if !ok {
		return binding{}, ErrSessionNotFound
	}
	return b, nil
}
