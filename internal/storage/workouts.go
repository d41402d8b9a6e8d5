package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when no workout matches the requested id.
var ErrNotFound = errors.New("workout not found")

// Workout is one stored conversion: the original ZWOM source alongside the
// rendered ZWO document. FTP is nil when the source declared none.
type Workout struct {
	ID          uuid.UUID
	Name        string
	Author      string
	Description string
	FTP         *int
	ZWOM        string
	ZWO         string
	CreatedAt   time.Time
}

// InsertWorkout stores a converted workout and returns its generated id.
func (db *DB) InsertWorkout(ctx context.Context, w Workout) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workouts (id, name, author, description, ftp, zwom, zwo)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		id, w.Name, w.Author, w.Description, w.FTP, w.ZWOM, w.ZWO)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting workout: %w", err)
	}
	return id, nil
}

// ListWorkouts retrieves workout metadata, newest first. A non-empty name
// filters to case-insensitive substring matches; the source and document
// bodies are not loaded.
func (db *DB) ListWorkouts(ctx context.Context, name string) ([]Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, author, description, ftp, created_at
		 FROM workouts
		 WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		 ORDER BY created_at DESC`,
		name)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var out []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.Name, &w.Author, &w.Description, &w.FTP, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// GetWorkout retrieves a single workout by id, including both bodies.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*Workout, error) {
	var w Workout
	err := db.Pool.QueryRow(ctx,
		`SELECT id, name, author, description, ftp, zwom, zwo, created_at
		 FROM workouts WHERE id = $1`,
		id).Scan(&w.ID, &w.Name, &w.Author, &w.Description, &w.FTP, &w.ZWOM, &w.ZWO, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}
	return &w, nil
}

// DeleteWorkout removes a workout by id.
func (db *DB) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	tag, err := db.Pool.Exec(ctx, `DELETE FROM workouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting workout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
