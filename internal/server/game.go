package server

import (
	"math/rand"

	"bunker/internal/catalog"
)

// startSession deals a fresh game into the room. Any prior session is
// discarded. Runs inside an UpdateRoom critical section.
func (s *Server) startSession(room *Room) error {
	players := room.ConnectedPlayers()
	if len(players) < minCapacity {
		return ErrNotEnoughPlayers
	}

	for _, player := range players {
		player.Cards = make(map[string]catalog.Card)
		player.Revealed = []string{}
		player.Exiled = false
		player.Votes = 0
		for _, category := range catalog.HandCategories {
			player.Cards[category] = catalog.Random(s.cards.ByCategory(category))
		}
		player.Cards[catalog.CategorySpecial] = catalog.Random(s.cards.SpecialConditions)
	}

	room.Session = &Session{
		Round:           1,
		Phase:           phaseExploration,
		Turn:            0,
		Catastrophe:     catalog.Random(s.cards.Catastrophes),
		BunkerCards:     catalog.Shuffled(s.cards.Bunker)[:deckSize],
		ThreatCards:     catalog.Shuffled(s.cards.Threats)[:deckSize],
		RevealedBunker:  []catalog.Card{},
		RevealedThreats: []catalog.Card{},
		Ballot:          make(map[string]string),
		ExiledThisRound: []string{},
		StartedAt:       timeNowUTC(),
	}
	room.Status = statusPlaying
	return nil
}

// exploreBunker unlocks the current round's bunker/threat card pair and
// moves the session into the reveal phase. Only the turn-holder may
// trigger it.
func exploreBunker(room *Room, playerID string) (bunker, threat catalog.Card, err error) {
	sess := room.Session
	if sess == nil {
		return bunker, threat, ErrNoActiveGame
	}
	if sess.Phase != phaseExploration {
		return bunker, threat, ErrWrongPhase
	}
	current, ok := room.CurrentTurnPlayer()
	if !ok {
		return bunker, threat, ErrWrongPhase
	}
	if current.ID != playerID {
		return bunker, threat, ErrNotYourTurn
	}

	if sess.Round > len(sess.RevealedBunker) {
		sess.RevealedBunker = append(sess.RevealedBunker, sess.BunkerCards[sess.Round-1])
		sess.RevealedThreats = append(sess.RevealedThreats, sess.ThreatCards[sess.Round-1])
	}
	sess.Phase = phaseReveal
	sess.Turn = 0
	return sess.RevealedBunker[sess.Round-1], sess.RevealedThreats[sess.Round-1], nil
}

// revealCard discloses one of the turn-holder's hand categories and
// advances the rotation. Completing the circle either opens voting or,
// when the schedule marks zero votes for this round, advances the round
// directly. finished reports a terminal round advance.
func revealCard(room *Room, playerID, category string) (card catalog.Card, circled, finished bool, err error) {
	sess := room.Session
	if sess == nil {
		return card, false, false, ErrNoActiveGame
	}
	if sess.Phase != phaseReveal {
		return card, false, false, ErrWrongPhase
	}
	current, ok := room.CurrentTurnPlayer()
	if !ok {
		return card, false, false, ErrWrongPhase
	}
	if current.ID != playerID {
		return card, false, false, ErrNotYourTurn
	}
	card, ok = current.Cards[category]
	if !ok || category == catalog.CategorySpecial {
		return catalog.Card{}, false, false, ErrUnknownCategory
	}
	if sess.Round == 1 && category != catalog.CategorySuperpowers {
		return catalog.Card{}, false, false, ErrCategoryLocked
	}
	if current.HasRevealed(category) {
		return catalog.Card{}, false, false, ErrAlreadyRevealed
	}

	current.Revealed = append(current.Revealed, category)

	active := room.ActivePlayers()
	// Disconnects shrink the rotation, so the stored pointer may sit past
	// the end. Normalize before deciding whether the circle closed.
	sess.Turn %= len(active)
	next := (sess.Turn + 1) % len(active)
	if next <= sess.Turn {
		// Full circle: every active player has revealed this round.
		circled = true
		if votesInRound(len(active), sess.Round) > 0 {
			sess.Phase = phaseVoting
		} else {
			finished = advanceRound(room)
		}
	} else {
		sess.Turn = next
	}
	return card, circled, finished, nil
}

// castVote records the voter's ballot entry; re-voting overwrites. When
// every eligible voter has voted the ballot is tallied: plurality wins,
// ties resolve by uniform random choice among the tied candidates.
func castVote(room *Room, voterID, targetID string) (complete bool, voted, total int, result *VoteResult, err error) {
	sess := room.Session
	if sess == nil {
		return false, 0, 0, nil, ErrNoActiveGame
	}
	if sess.Phase != phaseVoting {
		return false, 0, 0, nil, ErrWrongPhase
	}
	if sess.Result != nil {
		// Ballot already resolved; the round only moves on via continue.
		return false, 0, 0, nil, ErrWrongPhase
	}
	voter := room.Player(voterID)
	if voter == nil || !voter.Connected || voter.Exiled {
		return false, 0, 0, nil, ErrPlayerNotFound
	}
	target := room.Player(targetID)
	if target == nil || target.Exiled || targetID == voterID {
		return false, 0, 0, nil, ErrInvalidTarget
	}

	sess.Ballot[voterID] = targetID

	eligible := room.ActivePlayers()
	voted = 0
	for _, p := range eligible {
		if _, ok := sess.Ballot[p.ID]; ok {
			voted++
		}
	}
	total = len(eligible)
	if voted < total {
		return false, voted, total, nil, nil
	}

	result = tallyVotes(room)
	return true, voted, total, result, nil
}

func tallyVotes(room *Room) *VoteResult {
	sess := room.Session
	counts := make(map[string]int)
	for _, p := range room.Players {
		p.Votes = 0
	}
	for _, targetID := range sess.Ballot {
		counts[targetID]++
	}

	maxVotes := 0
	var candidates []string
	// Iterate members in join order so the candidate list is stable.
	for _, p := range room.Players {
		count, ok := counts[p.ID]
		if !ok {
			continue
		}
		p.Votes = count
		if count > maxVotes {
			maxVotes = count
			candidates = []string{p.ID}
		} else if count == maxVotes {
			candidates = append(candidates, p.ID)
		}
	}

	exiledID := ""
	if len(candidates) > 0 {
		exiledID = candidates[rand.Intn(len(candidates))]
	}
	if exiled := room.Player(exiledID); exiled != nil {
		exiled.Exiled = true
		sess.ExiledThisRound = append(sess.ExiledThisRound, exiledID)
	}

	sess.Result = &VoteResult{
		Counts:     counts,
		ExiledID:   exiledID,
		Candidates: candidates,
	}
	return sess.Result
}

// advanceRound is the "continue" transition. It finishes the game when
// the final round has produced enough exiles, otherwise resets the
// session for the next round. Prior exiles are preserved.
func advanceRound(room *Room) (finished bool) {
	sess := room.Session
	playerCount := len(room.ConnectedPlayers())
	exiled := 0
	for _, p := range room.Players {
		if p.Exiled {
			exiled++
		}
	}

	if sess.Round >= maxRounds && exiled >= expectedEliminations(playerCount) {
		sess.Phase = phaseFinished
		room.Status = statusFinished
		return true
	}
	if sess.Round < maxRounds {
		sess.Round++
		sess.Phase = phaseExploration
		sess.Turn = 0
		sess.Ballot = make(map[string]string)
		sess.Result = nil
		sess.ExiledThisRound = []string{}
		for _, p := range room.Players {
			p.Votes = 0
		}
		return false
	}
	sess.Phase = phaseFinished
	room.Status = statusFinished
	return true
}

// continueAfterVote guards the explicit continue transition: it is only
// meaningful from the voting phase once a result has been published.
func continueAfterVote(room *Room) (finished bool, err error) {
	sess := room.Session
	if sess == nil {
		return false, ErrNoActiveGame
	}
	if sess.Phase != phaseVoting || sess.Result == nil {
		return false, ErrWrongPhase
	}
	return advanceRound(room), nil
}
