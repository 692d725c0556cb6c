// Package services holds the solver-facing application layer: the shared
// fitness oracle (Environment), the neighborhood moves every solver draws
// from, the four candidate solvers themselves, and the registry/executor
// that dispatches between them.
package services

import (
	"sort"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// Environment is the shared, read-only-during-a-run fitness oracle: it owns
// the roster, the slot catalog and the evaluator, and solvers only ever hold
// a non-owning reference to it. Generalizes the teacher's SchedulerEngine
// (a stateless engine over one borrowed schedule) to a full roster+catalog.
type Environment struct {
	roster    *domain.Roster
	catalog   *domain.Catalog
	evaluator *domain.Evaluator
}

// NewEnvironment binds a roster, catalog and evaluator config into one
// read-only Environment for the duration of a run.
func NewEnvironment(roster *domain.Roster, catalog *domain.Catalog, cfg domain.EvaluatorConfig) *Environment {
	return &Environment{
		roster:    roster,
		catalog:   catalog,
		evaluator: domain.NewEvaluator(roster, cfg),
	}
}

// Roster returns the environment's worker roster.
func (e *Environment) Roster() *domain.Roster { return e.roster }

// Catalog returns the environment's slot catalog.
func (e *Environment) Catalog() *domain.Catalog { return e.catalog }

// Config returns the evaluator configuration in effect for this run.
func (e *Environment) Config() domain.EvaluatorConfig { return e.evaluator.Config() }

// Evaluate computes (penalty, breakdown) for state against this environment.
func (e *Environment) Evaluate(state *domain.ScheduleState) (float64, domain.Breakdown) {
	return e.evaluator.Evaluate(state)
}

// NewState allocates a fresh, empty ScheduleState over this environment's catalog.
func (e *Environment) NewState() *domain.ScheduleState {
	return domain.NewScheduleState(e.catalog)
}

// AvailableWorkers returns the active workers whose availability covers slot,
// ordered by worker id for determinism. Used by constructive and repair steps.
func (e *Environment) AvailableWorkers(slot domain.TimeSlot) []*domain.Worker {
	var out []*domain.Worker
	for _, w := range e.roster.Active() {
		if w.IsAvailable(slot.Date, slot.StartMinute(), slot.EndMinute()) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EligibleForSlot filters candidates to those not already assigned to slot
// and whose projected hours (current + slot duration) do not exceed capHours.
func (e *Environment) EligibleForSlot(state *domain.ScheduleState, slot domain.TimeSlot, capHours int) []*domain.Worker {
	candidates := e.AvailableWorkers(slot)
	out := make([]*domain.Worker, 0, len(candidates))
	for _, w := range candidates {
		if state.HasWorker(slot.SlotIndex, w.ID) {
			continue
		}
		if state.Hours(w.ID)+slot.DurationHours > capHours {
			continue
		}
		out = append(out, w)
	}
	return out
}
