package domain

import (
	"context"

	"github.com/google/uuid"
)

// ScheduleRunRepository persists ScheduleRun aggregates.
type ScheduleRunRepository interface {
	// Save persists a run (create or update).
	Save(ctx context.Context, run *ScheduleRun) error

	// FindByID finds a run by its id.
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleRun, error)

	// FindRecentByAlgorithm returns the most recent runs for one algorithm,
	// newest first, capped at limit.
	FindRecentByAlgorithm(ctx context.Context, algorithm Algorithm, limit int) ([]*ScheduleRun, error)
}
