// Package server is the HTTP boundary between the stores and the
// presentation layer. Handlers only call store operations; they never touch
// store state directly.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/fittrack/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	workouts *store.WorkoutStore
	progress *store.ProgressStore
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured. An empty apiKey
// leaves the mutating routes unauthenticated.
func New(workouts *store.WorkoutStore, progress *store.ProgressStore, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		workouts: workouts,
		progress: progress,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
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
	s.router.Use(CORS)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		// Catalog reads
		r.Get("/exercises", s.handleListExercises)
		r.Get("/activity-levels", s.handleActivityLevels)
		r.Get("/goals", s.handleGoals)

		// Store reads
		r.Get("/workouts", s.handleListWorkouts)
		r.Get("/workouts/{id}", s.handleGetWorkout)
		r.Get("/workouts/{id}/calories", s.handleWorkoutCalories)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/stats", s.handleGetStats)
		r.Get("/summary/weekly", s.handleWeeklySummary)
		r.Get("/summary/monthly", s.handleMonthlySummary)
		r.Get("/targets", s.handleTargets)

		// Mutations (API key required when configured)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/workouts", s.handleAddWorkout)
			r.Put("/workouts/{id}", s.handleUpdateWorkout)
			r.Delete("/workouts/{id}", s.handleDeleteWorkout)
			r.Post("/sessions", s.handleLogSession)
			r.Put("/sessions/{id}", s.handleUpdateSession)
			r.Delete("/sessions/{id}", s.handleDeleteSession)
			r.Put("/stats", s.handleUpdateStats)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already out; an encode failure has nowhere to go.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
