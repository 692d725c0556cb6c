package services

import (
	"context"
	"sort"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// CSPConfig holds the tunable knobs for the two-phase CSP/local-search
// solver (§4.8).
type CSPConfig struct {
	MaxTime  time.Duration
	MaxIters int
}

// DefaultCSPConfig returns the suggested defaults from §4.8.
func DefaultCSPConfig() CSPConfig {
	return CSPConfig{
		MaxTime:  60 * time.Second,
		MaxIters: 10_000,
	}
}

// CSPSolver implements a constructive MRV-style pass followed by
// best-improvement local search over the shared neighborhood moves.
type CSPSolver struct {
	cfg CSPConfig
}

// NewCSPSolver constructs a CSP solver with cfg (zero value uses DefaultCSPConfig).
func NewCSPSolver(cfg CSPConfig) *CSPSolver {
	if cfg.MaxIters == 0 {
		cfg = DefaultCSPConfig()
	}
	return &CSPSolver{cfg: cfg}
}

// Algorithm identifies this solver for run metadata.
func (s *CSPSolver) Algorithm() domain.Algorithm { return domain.CSP }

// Solve runs phase 1 (constructive, MRV ordering) then phase 2
// (best-improvement local search) bounded by maxTime or the config's
// iteration cap, whichever binds first.
func (s *CSPSolver) Solve(ctx context.Context, env *Environment, seed int64, maxTime time.Duration) (Result, error) {
	start := time.Now()
	rng := NewRNG(seed)

	state := s.constructPhase(env, rng)

	deadline := s.cfg.MaxTime
	if maxTime > 0 && maxTime < deadline {
		deadline = maxTime
	}
	converged := s.localSearchPhase(ctx, env, state, rng, start, deadline)

	penalty, breakdown := env.Evaluate(state)
	return Result{
		Algorithm: domain.CSP,
		State:     state,
		Penalty:   penalty,
		Breakdown: breakdown,
		Converged: converged || penalty == 0,
		Runtime:   time.Since(start),
	}, nil
}

// constructPhase processes slots in MRV order (fewest available workers
// first, ties broken by earlier date/hour) and fills each from the
// eligible pool, prioritizing workers furthest below desired_hours.
func (s *CSPSolver) constructPhase(env *Environment, rng *RNG) *domain.ScheduleState {
	state := env.NewState()
	capHours := env.Config().MaxHours

	slots := append([]domain.TimeSlot(nil), env.Catalog().Slots()...)
	sort.Slice(slots, func(i, j int) bool {
		ai := len(env.AvailableWorkers(slots[i]))
		aj := len(env.AvailableWorkers(slots[j]))
		if ai != aj {
			return ai < aj
		}
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartHour < slots[j].StartHour
	})

	for _, slot := range slots {
		for state.Count(slot.SlotIndex) < slot.StaffMax {
			candidates := env.EligibleForSlot(state, slot, capHours)
			if len(candidates) == 0 {
				break
			}
			pick := mrvPick(state, candidates)
			if err := state.Assign(slot.SlotIndex, pick.ID); err != nil {
				break
			}
			if state.Count(slot.SlotIndex) >= slot.StaffMin {
				break
			}
		}
	}
	_ = rng // reserved for future tie-break randomization; MRV ordering is fully deterministic today
	return state
}

// mrvPick selects the candidate furthest below desired_hours, breaking
// ties by fewer current hours then lexicographically by id.
func mrvPick(state *domain.ScheduleState, candidates []*domain.Worker) *domain.Worker {
	return bestUnderHoursWorker(state, candidates)
}

// localSearchPhase applies best-improvement local search using the shared
// move set: at each iteration, try every move kind once and keep the
// candidate with the lowest penalty if it strictly improves on the current
// one, reverting otherwise. Stops on penalty 0,
// the deadline, the iteration cap, or move-exhaustion.
func (s *CSPSolver) localSearchPhase(ctx context.Context, env *Environment, state *domain.ScheduleState, rng *RNG, start time.Time, maxTime time.Duration) bool {
	penalty, _ := env.Evaluate(state)
	if penalty == 0 {
		return true
	}

	for iter := 0; iter < s.cfg.MaxIters; iter++ {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		if deadlineExceeded(start, maxTime, time.Now()) {
			return false
		}

		var bestCandidate *domain.ScheduleState
		bestCandidatePenalty := penalty
		for _, kind := range AllMoveKinds {
			candidate := state.Clone()
			if changed, _ := ApplyMove(kind, env, candidate, rng); !changed {
				continue
			}
			candidatePenalty, _ := env.Evaluate(candidate)
			if candidatePenalty < bestCandidatePenalty {
				bestCandidate = candidate
				bestCandidatePenalty = candidatePenalty
			}
		}
		improved := bestCandidate != nil
		if improved {
			*state = *bestCandidate
			penalty = bestCandidatePenalty
		}

		if penalty == 0 {
			return true
		}
		if !improved {
			return false
		}
	}
	return false
}
