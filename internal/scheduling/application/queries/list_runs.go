package queries

import (
	"context"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/google/uuid"
)

// ScheduleRunDTO is the read-model shape of a persisted ScheduleRun.
type ScheduleRunDTO struct {
	ID          uuid.UUID
	Algorithm   string
	WeekType    string
	Seed        int64
	Status      string
	Penalty     float64
	Converged   bool
	StartedAt   time.Time
	EndedAt     time.Time
	Error       string
	RuntimeSecs float64
}

// ListRecentRunsQuery asks for the most recent runs of one algorithm.
type ListRecentRunsQuery struct {
	Algorithm domain.Algorithm
	Limit     int
}

// ListRecentRunsHandler handles ListRecentRunsQuery.
type ListRecentRunsHandler struct {
	runRepo domain.ScheduleRunRepository
}

// NewListRecentRunsHandler wires a ListRecentRunsHandler.
func NewListRecentRunsHandler(runRepo domain.ScheduleRunRepository) *ListRecentRunsHandler {
	return &ListRecentRunsHandler{runRepo: runRepo}
}

// Handle returns the most recent runs for query.Algorithm, newest first.
func (h *ListRecentRunsHandler) Handle(ctx context.Context, query ListRecentRunsQuery) ([]ScheduleRunDTO, error) {
	runs, err := h.runRepo.FindRecentByAlgorithm(ctx, query.Algorithm, query.Limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]ScheduleRunDTO, 0, len(runs))
	for _, r := range runs {
		dtos = append(dtos, toRunDTO(r))
	}
	return dtos, nil
}

// GetRunQuery asks for a single run by id.
type GetRunQuery struct {
	RunID uuid.UUID
}

// GetRunHandler handles GetRunQuery.
type GetRunHandler struct {
	runRepo domain.ScheduleRunRepository
}

// NewGetRunHandler wires a GetRunHandler.
func NewGetRunHandler(runRepo domain.ScheduleRunRepository) *GetRunHandler {
	return &GetRunHandler{runRepo: runRepo}
}

// Handle fetches one run by id.
func (h *GetRunHandler) Handle(ctx context.Context, query GetRunQuery) (*ScheduleRunDTO, error) {
	run, err := h.runRepo.FindByID(ctx, query.RunID)
	if err != nil {
		return nil, err
	}
	dto := toRunDTO(run)
	return &dto, nil
}

func toRunDTO(r *domain.ScheduleRun) ScheduleRunDTO {
	runtime := 0.0
	if !r.EndedAt().IsZero() && !r.StartedAt().IsZero() {
		runtime = r.EndedAt().Sub(r.StartedAt()).Seconds()
	}
	return ScheduleRunDTO{
		ID:          r.ID(),
		Algorithm:   string(r.Algorithm()),
		WeekType:    string(r.WeekType()),
		Seed:        r.Seed(),
		Status:      string(r.Status()),
		Penalty:     r.Penalty(),
		Converged:   r.Converged(),
		StartedAt:   r.StartedAt(),
		EndedAt:     r.EndedAt(),
		Error:       r.ErrorMessage(),
		RuntimeSecs: runtime,
	}
}
