package main

import (
	"log"

	"github.com/rulzi/instaapp-go/internal/server"
	"github.com/rulzi/instaapp-go/pkg/config"
)

func main() {
	cfg := config.Load()

	srv := server.New(cfg.JWTSecret)
	if err := srv.Start(cfg.Port); err != nil {
		log.Fatalf("devserver stopped: %v", err)
	}
}
