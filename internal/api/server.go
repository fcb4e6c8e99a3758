// Package api provides the HTTP server and handlers for the listening
// tracker.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/earmarkapp/earmark-server/internal/auth"
	"github.com/earmarkapp/earmark-server/internal/ratelimit"
	"github.com/earmarkapp/earmark-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store              Pinger
	listeningService   *service.ListeningService
	statsService       *service.StatsService
	achievementService *service.AchievementService
	verifier           auth.Verifier
	sessionLimiter     *ratelimit.KeyedRateLimiter
	allowedOrigins     []string
	router             *chi.Mux
	logger             *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	store Pinger,
	listeningService *service.ListeningService,
	statsService *service.StatsService,
	achievementService *service.AchievementService,
	verifier auth.Verifier,
	sessionLimiter *ratelimit.KeyedRateLimiter,
	allowedOrigins []string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		store:              store,
		listeningService:   listeningService,
		statsService:       statsService,
		achievementService: achievementService,
		verifier:           verifier,
		sessionLimiter:     sessionLimiter,
		allowedOrigins:     allowedOrigins,
		router:             chi.NewRouter(),
		logger:             logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.requireAuth)

		// Session recording.
		r.With(s.rateLimitSessions).Post("/sessions", s.handleRecordSession)

		// Achievements.
		r.Get("/achievements", s.handleListAchievements)

		// Stats.
		r.Get("/users/{id}/stats", s.handleGetUserStats)
		r.Get("/me/stats", s.handleGetMyStats)
		r.Get("/me/progress", s.handleListMyProgress)

		// Per-episode engagement.
		r.Route("/episodes/{id}", func(r chi.Router) {
			r.Post("/complete", s.handleCompleteEpisode)
			r.Get("/progress", s.handleGetProgress)
			r.Post("/progress", s.handleSaveProgress)
			r.Get("/rating", s.handleGetRating)
			r.Post("/rating", s.handleRateEpisode)
			r.Post("/favorite", s.handleAddFavorite)
			r.Delete("/favorite", s.handleRemoveFavorite)
		})
	})
}
