package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/echoscript/backend/internal/api"
	"github.com/echoscript/backend/internal/auth"
	"github.com/echoscript/backend/internal/config"
	"github.com/echoscript/backend/internal/db"
	"github.com/echoscript/backend/internal/storage"
	"github.com/echoscript/backend/internal/transcription"
)

func main() {
	cfg := config.Load()

	// Ensure data directory exists
	os.MkdirAll(cfg.DataPath, 0755)

	// Initialize database
	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	// Ensure bootstrap team and admin user exist
	teamID, err := database.EnsureTeam(cfg.TeamName)
	if err != nil {
		log.Fatalf("Failed to create team: %v", err)
	}
	if err := database.EnsureAdmin(teamID, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Admin user ensured: %s (team %s)", cfg.AdminUsername, cfg.TeamName)

	// Audio store for playback of past uploads
	audio, err := storage.NewAudioStore(cfg.UploadPath)
	if err != nil {
		log.Fatalf("Failed to initialize audio store: %v", err)
	}

	// Transcription provider: settings stored by an admin override the env
	apiKey := database.GetSetting("openai_api_key", cfg.OpenAIAPIKey)
	model := database.GetSetting("whisper_model", cfg.WhisperModel)
	if apiKey == "" {
		log.Println("WARNING: no OpenAI API key configured; uploads will fail until one is set")
	}
	transcriber := transcription.NewOpenAIClient(apiKey, model)
	service := transcription.NewService(transcriber, database)
	log.Printf("Transcription provider: %s model=%s", transcriber.Name(), model)

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Create router
	router := api.NewRouter(database, jwtService, cfg, service, audio)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Upload path: %s", cfg.UploadPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
