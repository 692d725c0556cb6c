package domain

import (
	"time"

	sharedDomain "github.com/Vamsichris04/finals-scheduler/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "ScheduleRun"

	RoutingKeyRunStarted   = "scheduling.run.started"
	RoutingKeyRunCompleted = "scheduling.run.completed"
	RoutingKeyRunFailed    = "scheduling.run.failed"
)

// RunStarted is emitted when a solver run transitions from pending to running.
type RunStarted struct {
	sharedDomain.BaseEvent
	Algorithm string `json:"algorithm"`
	WeekType  string `json:"week_type"`
	Seed      int64  `json:"seed"`
}

// NewRunStarted creates a RunStarted event.
func NewRunStarted(runID uuid.UUID, algorithm Algorithm, weekType WeekType, seed int64) RunStarted {
	return RunStarted{
		BaseEvent: sharedDomain.NewBaseEvent(runID, AggregateType, RoutingKeyRunStarted),
		Algorithm: string(algorithm),
		WeekType:  string(weekType),
		Seed:      seed,
	}
}

// ScheduleRunCompleted is emitted when a solver run finishes, converged or not.
type ScheduleRunCompleted struct {
	sharedDomain.BaseEvent
	Algorithm  string    `json:"algorithm"`
	Penalty    float64   `json:"penalty"`
	Converged  bool      `json:"converged"`
	RuntimeSec float64   `json:"runtime_s"`
	Breakdown  Breakdown `json:"breakdown"`
}

// NewRunCompleted creates a ScheduleRunCompleted event.
func NewRunCompleted(runID uuid.UUID, algorithm Algorithm, penalty float64, breakdown Breakdown, converged bool, runtime time.Duration) ScheduleRunCompleted {
	return ScheduleRunCompleted{
		BaseEvent:  sharedDomain.NewBaseEvent(runID, AggregateType, RoutingKeyRunCompleted),
		Algorithm:  string(algorithm),
		Penalty:    penalty,
		Converged:  converged,
		RuntimeSec: runtime.Seconds(),
		Breakdown:  breakdown,
	}
}

// ScheduleRunFailed is emitted when a run cannot produce any result (input error).
type ScheduleRunFailed struct {
	sharedDomain.BaseEvent
	Algorithm string `json:"algorithm"`
	Reason    string `json:"reason"`
}

// NewRunFailed creates a ScheduleRunFailed event.
func NewRunFailed(runID uuid.UUID, algorithm Algorithm, reason string) ScheduleRunFailed {
	return ScheduleRunFailed{
		BaseEvent: sharedDomain.NewBaseEvent(runID, AggregateType, RoutingKeyRunFailed),
		Algorithm: string(algorithm),
		Reason:    reason,
	}
}
