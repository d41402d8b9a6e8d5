// Package server exposes the converter and the workout library over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sco1/zwom/internal/storage"
)

// Store is the workout library surface the handlers need. *storage.DB
// satisfies it.
type Store interface {
	InsertWorkout(ctx context.Context, w storage.Workout) (uuid.UUID, error)
	ListWorkouts(ctx context.Context, name string) ([]storage.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*storage.Workout, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store  Store
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
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

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/convert", s.handleConvert)
		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
	})

	// Library endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/workouts/{id}/zwo", s.handleGetWorkoutZWO)
	s.router.Get("/api/v1/workouts/{id}/zwom", s.handleGetWorkoutZWOM)
}
