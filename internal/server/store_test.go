package server

import (
	"strings"
	"testing"
	"time"
)

func TestCreateRoomClampsCapacity(t *testing.T) {
	store := NewStore()
	if room := store.CreateRoom("h", "Host", 2, ""); room.Capacity != minCapacity {
		t.Fatalf("expected capacity %d, got %d", minCapacity, room.Capacity)
	}
	if room := store.CreateRoom("h", "Host", 99, ""); room.Capacity != maxCapacity {
		t.Fatalf("expected capacity %d, got %d", maxCapacity, room.Capacity)
	}
	if room := store.CreateRoom("h", "Host", 6, ""); room.GameMode != defaultGameMode {
		t.Fatalf("expected default game mode, got %q", room.GameMode)
	}
}

func TestRoomCodesUseSafeAlphabet(t *testing.T) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	store := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room := store.CreateRoom("h", "Host", 4, "")
		if len(room.Code) != 6 {
			t.Fatalf("expected 6-char code, got %q", room.Code)
		}
		for _, r := range room.Code {
			if !strings.ContainsRune(alphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", room.Code, r)
			}
		}
		if seen[room.Code] {
			t.Fatalf("duplicate room code %q", room.Code)
		}
		seen[room.Code] = true
	}
}

func TestGetRoomCaseInsensitive(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("h", "Host", 4, "")
	if _, ok := store.GetRoom(strings.ToLower(room.Code)); !ok {
		t.Fatalf("expected lowercase lookup of %q to succeed", room.Code)
	}
}

func TestJoinRoomFullAndStarted(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("p0", "Host", 4, "")
	for _, id := range []string{"p0", "p1", "p2", "p3"} {
		if _, _, _, err := store.JoinRoom(room.Code, id, "Player "+id, ""); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if _, _, _, err := store.JoinRoom(room.Code, "p4", "Late", ""); err != ErrRoomFull {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}

	room.Status = statusPlaying
	if _, _, _, err := store.JoinRoom(room.Code, "p5", "Later", ""); err != ErrGameStarted {
		t.Fatalf("expected ErrGameStarted, got %v", err)
	}
}

func TestJoinRoomReconnectPreservesState(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("p0", "Host", 4, "")
	_, player, isNew, err := store.JoinRoom(room.Code, "p0", "Ada", "")
	if err != nil || !isNew {
		t.Fatalf("expected fresh join, got isNew=%t err=%v", isNew, err)
	}
	player.Ready = true
	player.Connected = false
	player.Revealed = append(player.Revealed, "superpowers")

	_, again, isNew, err := store.JoinRoom(room.Code, "p0", "", "")
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if isNew {
		t.Fatal("expected rejoin to rebind, not insert")
	}
	if again != player {
		t.Fatal("expected the same player record")
	}
	if !again.Connected || !again.Ready || len(again.Revealed) != 1 {
		t.Fatalf("expected preserved state, got %+v", again)
	}
	if again.Name != "Ada" {
		t.Fatalf("expected name kept when omitted, got %q", again.Name)
	}
}

func TestJoinRoomAssignsAvatar(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("p0", "Host", 4, "")
	_, player, _, err := store.JoinRoom(room.Code, "p0", "Ada", "")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if player.Avatar == "" {
		t.Fatal("expected an assigned avatar")
	}
	if !player.IsHost {
		t.Fatal("expected creator to be host")
	}
}

func TestLeaveRoomPromotesHost(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("p0", "Host", 4, "")
	for _, id := range []string{"p0", "p1", "p2"} {
		if _, _, _, err := store.JoinRoom(room.Code, id, "Player "+id, ""); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}

	_, deleted, err := store.LeaveRoom(room.Code, "p0")
	if err != nil || deleted {
		t.Fatalf("expected host departure to keep room, got deleted=%t err=%v", deleted, err)
	}
	if room.HostID != "p1" {
		t.Fatalf("expected host handoff to p1, got %q", room.HostID)
	}
	if !room.Player("p1").IsHost || room.Player("p0").IsHost {
		t.Fatal("expected host flags to follow the handoff")
	}
}

func TestLeaveRoomDeletesWhenEmpty(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("p0", "Host", 4, "")
	if _, _, _, err := store.JoinRoom(room.Code, "p0", "Host", ""); err != nil {
		t.Fatalf("join: %v", err)
	}

	_, deleted, err := store.LeaveRoom(room.Code, "p0")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !deleted {
		t.Fatal("expected empty room to be deleted")
	}
	if _, ok := store.GetRoom(room.Code); ok {
		t.Fatal("expected room to be gone")
	}
}

func TestDeleteRoomReturnsRemoved(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("p0", "Host", 4, "")

	removed, ok := store.DeleteRoom(strings.ToLower(room.Code))
	if !ok || removed != room {
		t.Fatalf("expected the room back, got ok=%t", ok)
	}
	if _, ok := store.GetRoom(room.Code); ok {
		t.Fatal("expected room to be gone")
	}
	if _, ok := store.DeleteRoom(room.Code); ok {
		t.Fatal("expected repeat delete to miss")
	}
}

func TestSweepReapsIdleRooms(t *testing.T) {
	store := NewStore()
	fresh := store.CreateRoom("a", "A", 4, "")
	stale := store.CreateRoom("b", "B", 4, "")
	stale.LastActivity = time.Now().UTC().Add(-time.Hour)

	reaped := store.Sweep(time.Now().UTC(), 30*time.Minute)
	if len(reaped) != 1 || reaped[0].Code != stale.Code {
		t.Fatalf("expected only the stale room reaped, got %v", reaped)
	}
	if _, ok := store.GetRoom(fresh.Code); !ok {
		t.Fatal("expected the fresh room to survive")
	}
}
