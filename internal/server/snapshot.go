package server

import "bunker/internal/catalog"

// The sanitize helpers build the per-recipient views pushed over the
// wire. No variant ever embeds another player's hand; a player's own
// hand travels only on the dedicated my_cards field of personalized
// pushes. Because own-hand inclusion differs per recipient, broadcasts
// build one view per member rather than fanning out a shared one.
// Every builder runs inside a store critical section and returns
// self-contained copies, so marshaling after the lock is released
// never races a later mutation.

func sanitizePlayer(p *Player) map[string]any {
	return map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"avatar":         p.Avatar,
		"is_host":        p.IsHost,
		"is_connected":   p.Connected,
		"is_ready":       p.Ready,
		"is_exiled":      p.Exiled,
		"revealed_cards": copyStrings(p.Revealed),
	}
}

func sanitizePlayerForGame(p *Player) map[string]any {
	return map[string]any{
		"id":             p.ID,
		"name":           p.Name,
		"avatar":         p.Avatar,
		"is_host":        p.IsHost,
		"is_connected":   p.Connected,
		"is_exiled":      p.Exiled,
		"revealed_cards": copyStrings(p.Revealed),
		"votes":          p.Votes,
	}
}

func sanitizePlayers(players []*Player) []map[string]any {
	out := make([]map[string]any, 0, len(players))
	for _, p := range players {
		out = append(out, sanitizePlayer(p))
	}
	return out
}

func sanitizePlayersForGame(players []*Player) []map[string]any {
	out := make([]map[string]any, 0, len(players))
	for _, p := range players {
		out = append(out, sanitizePlayerForGame(p))
	}
	return out
}

// sessionView is the public slice of the game state: identical fields
// for every recipient, no hands.
func sessionView(sess *Session) map[string]any {
	if sess == nil {
		return nil
	}
	return map[string]any{
		"current_round":     sess.Round,
		"current_phase":     sess.Phase,
		"active_player":     sess.Turn,
		"catastrophe":       sess.Catastrophe,
		"revealed_bunker":   copyCards(sess.RevealedBunker),
		"revealed_threats":  copyCards(sess.RevealedThreats),
		"voting_results":    sess.Result,
		"exiled_this_round": copyStrings(sess.ExiledThisRound),
	}
}

func roomSnapshot(room *Room) map[string]any {
	return map[string]any{
		"players":     sanitizePlayers(room.Players),
		"status":      room.Status,
		"max_players": room.Capacity,
		"game_mode":   room.GameMode,
	}
}

// gameViews builds the per-recipient game-update payloads, keyed by
// player id.
func gameViews(room *Room) map[string]map[string]any {
	if room.Session == nil {
		return nil
	}
	views := make(map[string]map[string]any, len(room.Players))
	for _, p := range room.Players {
		views[p.ID] = map[string]any{
			"game_state":        sessionView(room.Session),
			"players":           sanitizePlayersForGame(room.Players),
			"my_revealed_cards": copyStrings(p.Revealed),
		}
	}
	return views
}

// gameStartedViews carries each member's private hand alongside the
// session view.
func gameStartedViews(room *Room) map[string]map[string]any {
	views := make(map[string]map[string]any, len(room.Players))
	for _, p := range room.Players {
		views[p.ID] = map[string]any{
			"game_state": sessionView(room.Session),
			"my_cards":   handSnapshot(p),
			"players":    sanitizePlayersForGame(room.Players),
		}
	}
	return views
}

// handSnapshot is the "my cards" channel: the recipient's own hand in
// full detail, keyed by category.
func handSnapshot(p *Player) map[string]catalog.Card {
	out := make(map[string]catalog.Card, len(p.Cards))
	for category, card := range p.Cards {
		out[category] = card
	}
	return out
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyCards(in []catalog.Card) []catalog.Card {
	out := make([]catalog.Card, len(in))
	copy(out, in)
	return out
}
