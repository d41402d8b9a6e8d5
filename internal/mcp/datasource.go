package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/sco1/zwom/internal/storage"
)

// DataSource abstracts the workout library for MCP tools. Both *storage.DB
// (local) and HTTPClient (remote via the zwomd REST API) satisfy this
// interface. A nil DataSource disables the library tools; the conversion
// tools need no backing store.
type DataSource interface {
	ListWorkouts(ctx context.Context, name string) ([]storage.Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*storage.Workout, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
