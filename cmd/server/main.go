package main

import (
	log "github.com/sirupsen/logrus"

	_ "join/docs"
	"join/internal/config"
	"join/internal/server"
)

// @title           Join API
// @version         1.0
// @description     Kanban board and contact book backed by the Firebase Realtime Database.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
