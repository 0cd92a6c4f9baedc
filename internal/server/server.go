package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/gain/internal/config"
	"github.com/claude/gain/internal/ingest"
	"github.com/claude/gain/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	provider  *ingest.Provider
	analytics config.AnalyticsConfig
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, provider *ingest.Provider, analyticsCfg config.AnalyticsConfig, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:        db,
		provider:  provider,
		analytics: analyticsCfg,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Metrics)
	s.router.Use(CORS)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleIngest)
	})

	// Mutating endpoints (API key required)
	s.router.With(APIKeyAuth(s.apiKey)).Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)

	// Query endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/analytics/sessions", s.handleSessionQuality)
	s.router.Get("/api/v1/analytics/balance", s.handleMuscleBalance)
	s.router.Get("/api/v1/analytics/fatigue", s.handleWeeklyFatigue)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/imports", s.handleRecentImports)

	s.router.Handle("/metrics", promhttp.Handler())
}
