package server

import (
	"time"

	"bunker/internal/catalog"
)

const (
	statusWaiting  = "waiting"
	statusPlaying  = "playing"
	statusFinished = "finished"
)

const (
	phaseExploration = "exploration"
	phaseReveal      = "reveal"
	phaseVoting      = "voting"
	phaseFinished    = "finished"
)

const (
	minCapacity = 4
	maxCapacity = 10
	maxRounds   = 5
	deckSize    = 5
)

const defaultGameMode = "basic"

// Room is a joinable session container identified by a short code.
// All mutation happens inside Store.UpdateRoom critical sections.
type Room struct {
	Code         string
	HostID       string
	Capacity     int
	GameMode     string
	Status       string
	Players      []*Player
	Session      *Session
	CreatedAt    time.Time
	LastActivity time.Time
}

// Player identity is the caller-supplied id, stable across reconnects.
// The websocket connection handle lives in the session map, not here.
type Player struct {
	ID        string
	Name      string
	Avatar    string
	IsHost    bool
	Connected bool
	Ready     bool
	Exiled    bool
	Cards     map[string]catalog.Card
	Revealed  []string
	Votes     int
	JoinedAt  time.Time
}

// Session is the active-game snapshot owned by exactly one Room.
type Session struct {
	Round           int
	Phase           string
	Turn            int
	Catastrophe     catalog.Card
	BunkerCards     []catalog.Card
	ThreatCards     []catalog.Card
	RevealedBunker  []catalog.Card
	RevealedThreats []catalog.Card
	Ballot          map[string]string
	Result          *VoteResult
	ExiledThisRound []string
	StartedAt       time.Time
}

type VoteResult struct {
	Counts     map[string]int `json:"vote_counts"`
	ExiledID   string         `json:"exiled_id"`
	Candidates []string       `json:"candidates"`
}

func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *Room) ConnectedPlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Connected {
			out = append(out, p)
		}
	}
	return out
}

// ActivePlayers is the turn rotation: connected, non-exiled players in
// join order. Eliminations compact the order without renumbering.
func (r *Room) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Connected && !p.Exiled {
			out = append(out, p)
		}
	}
	return out
}

// CurrentTurnPlayer resolves the turn pointer against the active
// rotation. ok is false when no connected, non-exiled player exists.
func (r *Room) CurrentTurnPlayer() (*Player, bool) {
	if r.Session == nil {
		return nil, false
	}
	active := r.ActivePlayers()
	if len(active) == 0 {
		return nil, false
	}
	return active[r.Session.Turn%len(active)], true
}

func (p *Player) HasRevealed(category string) bool {
	for _, revealed := range p.Revealed {
		if revealed == category {
			return true
		}
	}
	return false
}
