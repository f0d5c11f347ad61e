package server

import (
	"strings"
	"sync"
	"time"

	"bunker/internal/catalog"
)

// Store owns every Room. The mutex is the single-writer discipline: all
// room mutation runs inside its critical sections, so no two handlers
// ever interleave a read-modify-write on the same room.
type Store struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
	}
}

func (s *Store) CreateRoom(hostID, hostName string, capacity int, mode string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	if capacity < minCapacity {
		capacity = minCapacity
	}
	if capacity > maxCapacity {
		capacity = maxCapacity
	}
	if mode == "" {
		mode = defaultGameMode
	}
	code := newRoomCode()
	for {
		if _, taken := s.rooms[code]; !taken {
			break
		}
		code = newRoomCode()
	}
	now := timeNowUTC()
	room := &Room{
		Code:         code,
		HostID:       hostID,
		Capacity:     capacity,
		GameMode:     mode,
		Status:       statusWaiting,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.rooms[code] = room
	return room
}

func (s *Store) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[strings.ToUpper(code)]
	return room, ok
}

// UpdateRoom runs fn on the room under the store lock. A failed update
// leaves the room untouched only if fn validates before mutating; every
// fn in this package follows that rule. LastActivity is refreshed on
// success.
func (s *Store) UpdateRoom(code string, fn func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if err := fn(room); err != nil {
		return nil, err
	}
	room.LastActivity = timeNowUTC()
	return room, nil
}

// View runs fn on the room under the store lock. Handlers build their
// reply and broadcast payloads inside fn so no concurrent mutation
// tears the view; delivery happens after the lock is released.
func (s *Store) View(code string, fn func(room *Room)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[strings.ToUpper(code)]
	if !ok {
		return false
	}
	fn(room)
	return true
}

func (s *Store) DeleteRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteRoomLocked(strings.ToUpper(code))
}

func (s *Store) deleteRoomLocked(code string) (*Room, bool) {
	room, ok := s.rooms[code]
	if !ok {
		return nil, false
	}
	delete(s.rooms, code)
	return room, true
}

// JoinRoom inserts a new player or rebinds a returning one. The
// reconnect path preserves hand, reveals, ready and exile state.
func (s *Store) JoinRoom(code, playerID, name, avatar string) (*Room, *Player, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[strings.ToUpper(code)]
	if !ok {
		return nil, nil, false, ErrRoomNotFound
	}
	if existing := room.Player(playerID); existing != nil {
		existing.Connected = true
		if name != "" {
			existing.Name = name
		}
		if avatar != "" {
			existing.Avatar = avatar
		}
		room.LastActivity = timeNowUTC()
		return room, existing, false, nil
	}
	if room.Status != statusWaiting {
		return nil, nil, false, ErrGameStarted
	}
	if len(room.Players) >= room.Capacity {
		return nil, nil, false, ErrRoomFull
	}
	if avatar == "" {
		avatar = randomAvatar()
	}
	player := &Player{
		ID:        playerID,
		Name:      name,
		Avatar:    avatar,
		IsHost:    room.HostID == playerID,
		Connected: true,
		Cards:     make(map[string]catalog.Card),
		Revealed:  []string{},
		JoinedAt:  timeNowUTC(),
	}
	room.Players = append(room.Players, player)
	room.LastActivity = timeNowUTC()
	return room, player, true, nil
}

// LeaveRoom marks the player disconnected. While the room is still
// waiting, a departing host hands the role to the first other connected
// player. Returns deleted=true when no connected member remains and the
// room was removed.
func (s *Store) LeaveRoom(code, playerID string) (*Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	upper := strings.ToUpper(code)
	room, ok := s.rooms[upper]
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	player := room.Player(playerID)
	if player == nil {
		return nil, false, ErrPlayerNotFound
	}
	player.Connected = false
	if player.IsHost && room.Status == statusWaiting {
		for _, next := range room.Players {
			if next.Connected && next.ID != playerID {
				player.IsHost = false
				next.IsHost = true
				room.HostID = next.ID
				break
			}
		}
	}
	if len(room.ConnectedPlayers()) == 0 {
		s.deleteRoomLocked(upper)
		return room, true, nil
	}
	room.LastActivity = timeNowUTC()
	return room, false, nil
}

// Sweep removes every room idle longer than the threshold and returns
// the removed rooms so the caller can detach their connections.
func (s *Store) Sweep(now time.Time, idleThreshold time.Duration) []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	var reaped []*Room
	for code, room := range s.rooms {
		if now.Sub(room.LastActivity) > idleThreshold {
			delete(s.rooms, code)
			reaped = append(reaped, room)
		}
	}
	return reaped
}

// Counts reports process-level room and player totals for the health
// probe.
func (s *Store) Counts() (rooms, players int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		players += len(room.Players)
	}
	return len(s.rooms), players
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
