package server

import (
	"net/http"
	"net/url"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	rooms, players := s.store.Counts()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"rooms":     rooms,
		"players":   players,
	})
}

func (s *Server) handleRoomInfo(w http.ResponseWriter, r *http.Request) {
	var info map[string]any
	if !s.store.View(r.PathValue("code"), func(room *Room) {
		info = map[string]any{
			"code":        room.Code,
			"status":      room.Status,
			"max_players": room.Capacity,
			"game_mode":   room.GameMode,
			"players":     sanitizePlayers(room.Players),
		}
	}) {
		writeError(w, http.StatusNotFound, ErrRoomNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleRoomQR renders the join deep-link as a PNG for sharing across
// the table.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	room, ok := s.store.GetRoom(r.PathValue("code"))
	if !ok {
		writeError(w, http.StatusNotFound, ErrRoomNotFound.Error())
		return
	}
	link := s.miniAppLink(url.Values{"room": {room.Code}})
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "qr generation failed")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
