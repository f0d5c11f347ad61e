package server

import (
	"net/http"

	"bunker/internal/catalog"
	"bunker/internal/config"
	"bunker/internal/telegram"
)

type Server struct {
	store    *Store
	cards    *catalog.Catalog
	ws       *wsHub
	sessions *sessionMap
	cfg      config.Config
	bot      *telegram.Client
}

func New(cards *catalog.Catalog, cfg config.Config) *Server {
	return &Server{
		store:    NewStore(),
		cards:    cards,
		ws:       newWSHub(),
		sessions: newSessionMap(),
		cfg:      cfg,
		bot:      telegram.New(cfg.BotToken, cfg.TelegramAPIURL),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/rooms/{code}", s.handleRoomInfo)
	mux.HandleFunc("GET /api/rooms/{code}/qr", s.handleRoomQR)
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.Handle("GET /", http.FileServer(http.Dir(s.cfg.StaticDir)))
	return mux
}
