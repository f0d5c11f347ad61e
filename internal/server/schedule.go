package server

// Elimination schedule, keyed by connected-player count. roundsTable
// gives the number of voting rounds scheduled at each of the five game
// rounds; bunkerSlots gives how many players the bunker is meant to
// hold for that starting count.
var roundsTable = map[int][maxRounds]int{
	4:  {0, 0, 0, 1, 1},
	5:  {0, 0, 1, 1, 1},
	6:  {0, 0, 1, 1, 1},
	7:  {0, 1, 1, 1, 1},
	8:  {0, 1, 1, 1, 1},
	9:  {0, 1, 1, 1, 2},
	10: {0, 1, 1, 2, 2},
}

var bunkerSlots = map[int]int{
	4: 2, 5: 2, 6: 3, 7: 3, 8: 4, 9: 4, 10: 5,
}

// votesInRound reports how many voting rounds the schedule marks for
// the given player count and game round. Counts greater than one still
// resolve as a single voting phase per round.
func votesInRound(playerCount, round int) int {
	schedule, ok := roundsTable[playerCount]
	if !ok || round < 1 || round > maxRounds {
		return 0
	}
	return schedule[round-1]
}

// expectedEliminations is the number of exiles the schedule intends
// before the game can finish.
func expectedEliminations(playerCount int) int {
	slots, ok := bunkerSlots[playerCount]
	if !ok {
		return 0
	}
	return playerCount - slots
}
