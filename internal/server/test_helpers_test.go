package server

import (
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"bunker/internal/catalog"
	"bunker/internal/config"
)

func newTestCards(t *testing.T) *catalog.Catalog {
	t.Helper()
	cards, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return cards
}

func newGameServer(t *testing.T) *Server {
	t.Helper()
	return New(newTestCards(t), config.Default())
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}

// newStartedRoom seeds a room with n connected players (ids p0..pN-1,
// p0 hosting) and deals a game.
func newStartedRoom(t *testing.T, srv *Server, n int) *Room {
	t.Helper()
	room := srv.store.CreateRoom("p0", "Host", n, "")
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("p%d", i)
		if _, _, _, err := srv.store.JoinRoom(room.Code, id, fmt.Sprintf("Player %d", i), ""); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}
	if _, err := srv.store.UpdateRoom(room.Code, srv.startSession); err != nil {
		t.Fatalf("start session: %v", err)
	}
	return room
}
