package server

import (
	"context"
	"log"
	"time"
)

// RunSweeper reaps idle rooms on an interval until ctx is done. Reaped
// rooms have their connections detached so clients observe the close.
func (s *Server) RunSweeper(ctx context.Context) {
	interval := time.Duration(s.cfg.SweepIntervalSeconds) * time.Second
	idle := time.Duration(s.cfg.IdleTimeoutSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, room := range s.store.Sweep(now.UTC(), idle) {
				log.Printf("room reaped code=%s idle_since=%s", room.Code, room.LastActivity.Format(time.RFC3339))
				s.ws.Detach(room.Code)
			}
		}
	}
}
