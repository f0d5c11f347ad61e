package server

import "testing"

func TestScheduleCoversEveryCapacity(t *testing.T) {
	for count := minCapacity; count <= maxCapacity; count++ {
		schedule, ok := roundsTable[count]
		if !ok {
			t.Fatalf("no schedule for %d players", count)
		}
		if schedule[0] != 0 {
			t.Fatalf("%d players: round one must not vote", count)
		}
		total := 0
		for _, votes := range schedule {
			total += votes
		}
		if total < expectedEliminations(count) {
			t.Fatalf("%d players: schedule allows %d exiles but %d are required", count, total, expectedEliminations(count))
		}
		slots, ok := bunkerSlots[count]
		if !ok || slots < 2 || slots >= count {
			t.Fatalf("%d players: unusable bunker slot count %d", count, slots)
		}
	}
}

func TestVotesInRoundBounds(t *testing.T) {
	if votesInRound(3, 1) != 0 {
		t.Fatal("unknown player count must not vote")
	}
	if votesInRound(6, 0) != 0 || votesInRound(6, maxRounds+1) != 0 {
		t.Fatal("out-of-range rounds must not vote")
	}
	if votesInRound(6, 3) != 1 {
		t.Fatalf("expected one vote for 6 players in round 3, got %d", votesInRound(6, 3))
	}
	if votesInRound(10, 5) != 2 {
		t.Fatalf("expected two scheduled votes for 10 players in round 5, got %d", votesInRound(10, 5))
	}
}
