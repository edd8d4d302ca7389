package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/echoscript/backend/internal/api/handlers"
	"github.com/echoscript/backend/internal/api/middleware"
	"github.com/echoscript/backend/internal/auth"
	"github.com/echoscript/backend/internal/config"
	"github.com/echoscript/backend/internal/db"
	"github.com/echoscript/backend/internal/storage"
	"github.com/echoscript/backend/internal/transcription"
)

const jsonBodyLimit = 1 * 1024 * 1024

func NewRouter(database *db.Database, jwtService *auth.JWTService, cfg *config.Config, service *transcription.Service, audio *storage.AudioStore) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	// Handlers
	authHandler := handlers.NewAuthHandler(database, jwtService)
	transcriptionHandler := handlers.NewTranscriptionHandler(database, service, audio)
	playbackHandler := handlers.NewPlaybackHandler(database)
	settingsHandler := handlers.NewSettingsHandler(database)
	adminHandler := handlers.NewAdminHandler(database)

	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		// Auth (public, rate limited)
		r.With(loginLimiter.Handler, middleware.MaxBodySize(jsonBodyLimit)).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(jwtService))

			// Auth
			r.Get("/auth/me", authHandler.Me)

			// Transcriptions
			r.Post("/transcriptions", transcriptionHandler.Upload)
			r.Group(func(r chi.Router) {
				r.Use(middleware.MaxBodySize(jsonBodyLimit))

				r.Get("/transcriptions", transcriptionHandler.List)
				r.Get("/transcriptions/search", transcriptionHandler.Search)
				r.Get("/transcriptions/{id}", transcriptionHandler.Get)
				r.Delete("/transcriptions/{id}", transcriptionHandler.Delete)
				r.Get("/transcriptions/{id}/audio", transcriptionHandler.ServeAudio)

				// Playback positions
				r.Put("/transcriptions/{id}/position", playbackHandler.SavePosition)
				r.Get("/transcriptions/{id}/position", playbackHandler.GetPosition)

				// Admin
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole("admin"))

					r.Get("/settings", settingsHandler.GetSettings)
					r.Put("/settings", settingsHandler.UpdateSettings)
					r.Get("/admin/users", adminHandler.ListUsers)
					r.Post("/admin/users", adminHandler.CreateUser)
					r.Delete("/admin/users/{id}", adminHandler.DeleteUser)
				})
			})
		})
	})

	return r
}
