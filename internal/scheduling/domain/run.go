package domain

import (
	"time"

	sharedDomain "github.com/Vamsichris04/finals-scheduler/internal/shared/domain"
	"github.com/google/uuid"
)

// Algorithm names one of the four candidate solvers.
type Algorithm string

const (
	Greedy Algorithm = "greedy"
	GA     Algorithm = "GA"
	SA     Algorithm = "SA"
	CSP    Algorithm = "CSP"
)

// RunStatus is the lifecycle state of a ScheduleRun.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// ScheduleRun wraps one invocation of a solver against a fixed
// roster+catalog+seed so it can be persisted and replayed. It carries only
// the result summary, not the full ScheduleState: the state itself is
// transient solver working memory, not part of the aggregate's identity.
type ScheduleRun struct {
	sharedDomain.BaseAggregateRoot

	algorithm  Algorithm
	weekType   WeekType
	seed       int64
	status     RunStatus
	penalty    float64
	breakdown  Breakdown
	converged  bool
	startedAt  time.Time
	endedAt    time.Time
	errMessage string
}

// NewScheduleRun creates a pending run for the given algorithm/week/seed.
func NewScheduleRun(algorithm Algorithm, weekType WeekType, seed int64) *ScheduleRun {
	return &ScheduleRun{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		algorithm:         algorithm,
		weekType:          weekType,
		seed:              seed,
		status:            RunPending,
	}
}

func (r *ScheduleRun) Algorithm() Algorithm      { return r.algorithm }
func (r *ScheduleRun) WeekType() WeekType        { return r.weekType }
func (r *ScheduleRun) Seed() int64               { return r.seed }
func (r *ScheduleRun) Status() RunStatus         { return r.status }
func (r *ScheduleRun) Penalty() float64          { return r.penalty }
func (r *ScheduleRun) Breakdown() Breakdown      { return r.breakdown }
func (r *ScheduleRun) Converged() bool           { return r.converged }
func (r *ScheduleRun) StartedAt() time.Time      { return r.startedAt }
func (r *ScheduleRun) EndedAt() time.Time        { return r.endedAt }
func (r *ScheduleRun) ErrorMessage() string      { return r.errMessage }

// Start transitions a pending run to running.
func (r *ScheduleRun) Start(startedAt time.Time) error {
	if r.status != RunPending {
		return ErrRunAlreadyStarted
	}
	r.status = RunRunning
	r.startedAt = startedAt
	r.Touch()
	r.AddDomainEvent(NewRunStarted(r.ID(), r.algorithm, r.weekType, r.seed))
	return nil
}

// Complete records a successful (possibly non-converged) result and raises
// ScheduleRunCompleted.
func (r *ScheduleRun) Complete(endedAt time.Time, penalty float64, breakdown Breakdown, converged bool) error {
	if r.status != RunRunning {
		return ErrRunNotRunning
	}
	r.status = RunCompleted
	r.endedAt = endedAt
	r.penalty = penalty
	r.breakdown = breakdown
	r.converged = converged
	r.Touch()
	r.AddDomainEvent(NewRunCompleted(r.ID(), r.algorithm, penalty, breakdown, converged, endedAt.Sub(r.startedAt)))
	return nil
}

// Fail records that the run could not produce a result at all (input error).
func (r *ScheduleRun) Fail(endedAt time.Time, reason string) error {
	if r.status != RunRunning && r.status != RunPending {
		return ErrRunNotRunning
	}
	r.status = RunFailed
	r.endedAt = endedAt
	r.errMessage = reason
	r.Touch()
	r.AddDomainEvent(NewRunFailed(r.ID(), r.algorithm, reason))
	return nil
}

// RehydrateScheduleRun recreates a run from persisted state.
func RehydrateScheduleRun(
	id uuid.UUID,
	algorithm Algorithm,
	weekType WeekType,
	seed int64,
	status RunStatus,
	penalty float64,
	breakdown Breakdown,
	converged bool,
	startedAt, endedAt time.Time,
	errMessage string,
	createdAt, updatedAt time.Time,
	version int,
) *ScheduleRun {
	baseEntity := sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)
	baseAggregate := sharedDomain.RehydrateBaseAggregateRoot(baseEntity, version)

	return &ScheduleRun{
		BaseAggregateRoot: baseAggregate,
		algorithm:         algorithm,
		weekType:          weekType,
		seed:              seed,
		status:            status,
		penalty:           penalty,
		breakdown:         breakdown,
		converged:         converged,
		startedAt:         startedAt,
		endedAt:           endedAt,
		errMessage:        errMessage,
	}
}
