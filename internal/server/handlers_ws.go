package server

import (
	"encoding/json"
	"log"

	"bunker/internal/catalog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handlers build every reply and broadcast payload inside a store
// critical section (the UpdateRoom closure, or a follow-up View) and
// only deliver the pre-built copies after the lock is released.

func (s *Server) handleCreateRoom(conn *websocket.Conn, data json.RawMessage) (map[string]any, error) {
	var req createRoomRequest
	if err := decodeData(data, &req); err != nil {
		return nil, errBadRequest
	}
	name, err := validateName(req.PlayerName)
	if err != nil {
		return nil, err
	}
	avatar, err := validateAvatar(req.Avatar)
	if err != nil {
		return nil, err
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = uuid.New().String()
	}

	room := s.store.CreateRoom(playerID, name, req.MaxPlayers, req.GameMode)
	room, _, _, err = s.store.JoinRoom(room.Code, playerID, name, avatar)
	if err != nil {
		return nil, err
	}
	roomCode := room.Code
	s.sessions.Bind(conn, roomCode, playerID)
	s.ws.Add(roomCode, conn)

	var payload, roomView map[string]any
	var capacity int
	var mode string
	if !s.store.View(roomCode, func(room *Room) {
		capacity = room.Capacity
		mode = room.GameMode
		payload = map[string]any{
			"room_code": room.Code,
			"player":    sanitizePlayer(room.Player(playerID)),
			"players":   sanitizePlayers(room.Players),
		}
		roomView = roomSnapshot(room)
	}) {
		return nil, ErrRoomNotFound
	}
	log.Printf("room created code=%s host=%s capacity=%d mode=%s", roomCode, name, capacity, mode)

	s.broadcastRoomUpdate(roomCode, roomView)
	return payload, nil
}

func (s *Server) handleJoinRoom(conn *websocket.Conn, data json.RawMessage) (map[string]any, error) {
	var req joinRoomRequest
	if err := decodeData(data, &req); err != nil || req.RoomCode == "" {
		return nil, errBadRequest
	}
	name, err := validateName(req.PlayerName)
	if err != nil {
		return nil, err
	}
	avatar, err := validateAvatar(req.Avatar)
	if err != nil {
		return nil, err
	}
	playerID := req.PlayerID
	if playerID == "" {
		playerID = uuid.New().String()
	}

	room, _, isNew, err := s.store.JoinRoom(req.RoomCode, playerID, name, avatar)
	if err != nil {
		return nil, err
	}
	roomCode := room.Code
	s.sessions.Bind(conn, roomCode, playerID)
	s.ws.Add(roomCode, conn)
	log.Printf("player joined code=%s player_id=%s name=%s new=%t", roomCode, playerID, name, isNew)

	var payload, roomView, playerView map[string]any
	if !s.store.View(roomCode, func(room *Room) {
		player := room.Player(playerID)
		playerView = sanitizePlayer(player)
		roomView = roomSnapshot(room)
		payload = map[string]any{
			"room_code": room.Code,
			"player":    playerView,
			"players":   sanitizePlayers(room.Players),
			"status":    room.Status,
		}
		if room.Status == statusPlaying {
			payload["game_state"] = sessionView(room.Session)
		}
	}) {
		return nil, ErrRoomNotFound
	}

	if isNew {
		s.ws.BroadcastExcept(roomCode, pushEvent("player-joined", map[string]any{
			"player": playerView,
		}), conn)
	}
	s.broadcastRoomUpdate(roomCode, roomView)
	return payload, nil
}

func (s *Server) handlePlayerReady(conn *websocket.Conn, data json.RawMessage) (map[string]any, error) {
	var req playerReadyRequest
	if err := decodeData(data, &req); err != nil {
		return nil, errBadRequest
	}
	session, err := s.session(conn)
	if err != nil {
		return nil, err
	}
	var roomView map[string]any
	_, err = s.store.UpdateRoom(session.RoomCode, func(room *Room) error {
		player := room.Player(session.PlayerID)
		if player == nil {
			return ErrPlayerNotFound
		}
		player.Ready = req.IsReady
		roomView = roomSnapshot(room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcastRoomUpdate(session.RoomCode, roomView)
	return map[string]any{}, nil
}

func (s *Server) handleStartGame(conn *websocket.Conn) (map[string]any, error) {
	session, err := s.session(conn)
	if err != nil {
		return nil, err
	}
	var views map[string]map[string]any
	var connected int
	_, err = s.store.UpdateRoom(session.RoomCode, func(room *Room) error {
		player := room.Player(session.PlayerID)
		if player == nil {
			return ErrPlayerNotFound
		}
		if !player.IsHost {
			return ErrNotHost
		}
		if startErr := s.startSession(room); startErr != nil {
			return startErr
		}
		views = gameStartedViews(room)
		connected = len(room.ConnectedPlayers())
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("game started code=%s players=%d", session.RoomCode, connected)
	s.pushGameStarted(session.RoomCode, views)
	return map[string]any{}, nil
}

func (s *Server) handleExploreBunker(conn *websocket.Conn) (map[string]any, error) {
	session, err := s.session(conn)
	if err != nil {
		return nil, err
	}
	var bunker, threat catalog.Card
	var views map[string]map[string]any
	var round int
	_, err = s.store.UpdateRoom(session.RoomCode, func(room *Room) error {
		var innerErr error
		bunker, threat, innerErr = exploreBunker(room, session.PlayerID)
		if innerErr != nil {
			return innerErr
		}
		views = gameViews(room)
		round = room.Session.Round
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("bunker explored code=%s round=%d", session.RoomCode, round)
	s.broadcastGameUpdate(session.RoomCode, views)
	return map[string]any{
		"bunker": bunker,
		"threat": threat,
	}, nil
}

func (s *Server) handleRevealCard(conn *websocket.Conn, data json.RawMessage) (map[string]any, error) {
	var req revealCardRequest
	if err := decodeData(data, &req); err != nil || req.CardType == "" {
		return nil, errBadRequest
	}
	session, err := s.session(conn)
	if err != nil {
		return nil, err
	}
	var card catalog.Card
	var circled, finished bool
	var views map[string]map[string]any
	_, err = s.store.UpdateRoom(session.RoomCode, func(room *Room) error {
		var innerErr error
		card, circled, finished, innerErr = revealCard(room, session.PlayerID, req.CardType)
		if innerErr != nil {
			return innerErr
		}
		views = gameViews(room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("card revealed code=%s player_id=%s category=%s circled=%t", session.RoomCode, session.PlayerID, req.CardType, circled)
	s.broadcastGameUpdate(session.RoomCode, views)
	return map[string]any{
		"revealed_card":  card,
		"round_complete": circled,
		"game_finished":  finished,
	}, nil
}

func (s *Server) handleCastVote(conn *websocket.Conn, data json.RawMessage) (map[string]any, error) {
	var req castVoteRequest
	if err := decodeData(data, &req); err != nil || req.TargetID == "" {
		return nil, errBadRequest
	}
	session, err := s.session(conn)
	if err != nil {
		return nil, err
	}
	var complete bool
	var voted, total int
	var result *VoteResult
	var views map[string]map[string]any
	_, err = s.store.UpdateRoom(session.RoomCode, func(room *Room) error {
		var innerErr error
		complete, voted, total, result, innerErr = castVote(room, session.PlayerID, req.TargetID)
		if innerErr != nil {
			return innerErr
		}
		if complete {
			views = gameViews(room)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if complete {
		log.Printf("vote resolved code=%s exiled_id=%s", session.RoomCode, result.ExiledID)
		s.broadcastGameUpdate(session.RoomCode, views)
	} else {
		s.broadcastVotingProgress(session.RoomCode, voted, total)
	}
	payload := map[string]any{
		"complete": complete,
	}
	if complete {
		payload["results"] = result
	}
	return payload, nil
}

func (s *Server) handleContinueAfterVote(conn *websocket.Conn) (map[string]any, error) {
	session, err := s.session(conn)
	if err != nil {
		return nil, err
	}
	var finished bool
	var round int
	var views map[string]map[string]any
	_, err = s.store.UpdateRoom(session.RoomCode, func(room *Room) error {
		var innerErr error
		finished, innerErr = continueAfterVote(room)
		if innerErr != nil {
			return innerErr
		}
		views = gameViews(room)
		round = room.Session.Round
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcastGameUpdate(session.RoomCode, views)
	if finished {
		log.Printf("game finished code=%s", session.RoomCode)
		return map[string]any{"game_finished": true}, nil
	}
	return map[string]any{"next_round": round}, nil
}

func (s *Server) handleReconnect(conn *websocket.Conn, data json.RawMessage) (map[string]any, error) {
	var req reconnectRequest
	if err := decodeData(data, &req); err != nil || req.RoomCode == "" || req.PlayerID == "" {
		return nil, errBadRequest
	}
	var payload, roomView map[string]any
	var roomCode string
	_, err := s.store.UpdateRoom(req.RoomCode, func(room *Room) error {
		player := room.Player(req.PlayerID)
		if player == nil {
			return ErrPlayerNotFound
		}
		player.Connected = true
		roomCode = room.Code
		roomView = roomSnapshot(room)
		payload = map[string]any{
			"room_code":      room.Code,
			"player":         sanitizePlayer(player),
			"players":        sanitizePlayers(room.Players),
			"status":         room.Status,
			"my_cards":       handSnapshot(player),
			"revealed_cards": copyStrings(player.Revealed),
		}
		if room.Status == statusPlaying {
			payload["game_state"] = sessionView(room.Session)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.sessions.Bind(conn, roomCode, req.PlayerID)
	s.ws.Add(roomCode, conn)
	log.Printf("player reconnected code=%s player_id=%s", roomCode, req.PlayerID)
	s.broadcastRoomUpdate(roomCode, roomView)
	return payload, nil
}
