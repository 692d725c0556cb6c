package services

import (
	"context"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// Result is the outcome one solver returns from a single run: the best
// state it found, the evaluator's verdict on it, whether the solver
// converged (vs. exhausting its time/iteration budget), and the wall-clock
// spent.
type Result struct {
	Algorithm domain.Algorithm
	State     *domain.ScheduleState
	Penalty   float64
	Breakdown domain.Breakdown
	Converged bool
	Runtime   time.Duration
}

// Solver is the common interface every candidate algorithm implements.
// Solve never suspends on external I/O (§5): ctx is consulted only for its
// deadline/cancellation, checked at the outer loop boundary.
type Solver interface {
	Algorithm() domain.Algorithm
	Solve(ctx context.Context, env *Environment, seed int64, maxTime time.Duration) (Result, error)
}

// deadlineExceeded reports whether now is past start+maxTime, the single
// wall-clock check every solver's outer loop performs. maxTime <= 0 means
// no deadline.
func deadlineExceeded(start time.Time, maxTime time.Duration, now time.Time) bool {
	if maxTime <= 0 {
		return false
	}
	return now.Sub(start) >= maxTime
}
