package main

import (
	"context"
	"log"
	"net/http"

	"bunker/internal/catalog"
	"bunker/internal/config"
	"bunker/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("dotenv load failed error=%v", err)
	}
	cfg := config.Load()

	cards, err := catalog.Load()
	if err != nil {
		log.Fatalf("catalog load failed error=%v", err)
	}

	srv := server.New(cards, cfg)
	go srv.RunSweeper(context.Background())

	addr := ":" + cfg.Port
	log.Printf("bunker server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		log.Fatal(err)
	}
}
