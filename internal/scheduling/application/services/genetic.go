package services

import (
	"context"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// GAConfig holds the tunable knobs for the genetic algorithm solver (§4.6).
// A single flat configuration value with defaults, per §9's "no hidden
// module-level state" design note.
type GAConfig struct {
	PopulationSize        int
	Generations           int
	MutationRate          float64
	MutationRateCeiling   float64
	AdaptiveFactor        float64
	PlateauGenerations    int
	StagnationGenerations int
	TournamentSize        int
	ElitismCount          int
}

// DefaultGAConfig returns the suggested defaults from §4.6.
func DefaultGAConfig() GAConfig {
	return GAConfig{
		PopulationSize:        80,
		Generations:           300,
		MutationRate:          0.15,
		MutationRateCeiling:   0.6,
		AdaptiveFactor:        1.5,
		PlateauGenerations:    20,
		StagnationGenerations: 100,
		TournamentSize:        3,
		ElitismCount:          5,
	}
}

// GASolver implements the population-based genetic algorithm solver.
type GASolver struct {
	cfg GAConfig
}

// NewGASolver constructs a GA solver with cfg (zero value uses DefaultGAConfig).
func NewGASolver(cfg GAConfig) *GASolver {
	if cfg.PopulationSize == 0 {
		cfg = DefaultGAConfig()
	}
	return &GASolver{cfg: cfg}
}

// Algorithm identifies this solver for run metadata.
func (s *GASolver) Algorithm() domain.Algorithm { return domain.GA }

type chromosome struct {
	state   *domain.ScheduleState
	penalty float64
}

// Solve runs the GA to convergence, generation budget, or stagnation.
func (s *GASolver) Solve(ctx context.Context, env *Environment, seed int64, maxTime time.Duration) (Result, error) {
	start := time.Now()
	rng := NewRNG(seed)
	cfg := s.cfg

	population := s.initializePopulation(env, rng, cfg.PopulationSize)
	best := fittest(population)
	bestPenalty := best.penalty
	stagnant := 0
	plateau := 0
	mutationRate := cfg.MutationRate
	converged := best.penalty == 0

generations:
	for gen := 0; gen < cfg.Generations && !converged; gen++ {
		if deadlineExceeded(start, maxTime, time.Now()) {
			break
		}
		select {
		case <-ctx.Done():
			break generations
		default:
		}

		sortByPenalty(population)
		next := make([]chromosome, 0, cfg.PopulationSize)
		for i := 0; i < cfg.ElitismCount && i < len(population); i++ {
			next = append(next, population[i])
		}

		for len(next) < cfg.PopulationSize {
			parentA := tournamentSelect(population, rng, cfg.TournamentSize)
			parentB := tournamentSelect(population, rng, cfg.TournamentSize)

			childA, childB := crossover(env, parentA.state, parentB.state, rng)
			Repair(env, childA)
			Repair(env, childB)

			if rng.Float64() < mutationRate {
				mutate(env, childA, rng)
			}
			if rng.Float64() < mutationRate {
				mutate(env, childB, rng)
			}

			next = append(next, evaluate(env, childA))
			if len(next) < cfg.PopulationSize {
				next = append(next, evaluate(env, childB))
			}
		}

		population = next
		gBest := fittest(population)

		if gBest.penalty < bestPenalty {
			bestPenalty = gBest.penalty
			best = gBest
			stagnant = 0
			plateau = 0
			mutationRate = cfg.MutationRate
		} else {
			stagnant++
			plateau++
			if plateau >= cfg.PlateauGenerations {
				mutationRate *= cfg.AdaptiveFactor
				if mutationRate > cfg.MutationRateCeiling {
					mutationRate = cfg.MutationRateCeiling
				}
				plateau = 0
			}
		}

		if bestPenalty == 0 {
			converged = true
			break
		}
		if stagnant >= cfg.StagnationGenerations {
			break
		}
	}

	penalty, breakdown := env.Evaluate(best.state)
	return Result{
		Algorithm: domain.GA,
		State:     best.state,
		Penalty:   penalty,
		Breakdown: breakdown,
		Converged: penalty == 0,
		Runtime:   time.Since(start),
	}, nil
}

// initializePopulation mixes random valid assignments with copies of the
// greedy baseline, per §4.6.
func (s *GASolver) initializePopulation(env *Environment, rng *RNG, size int) []chromosome {
	greedyResult, _ := NewGreedySolver().Solve(context.Background(), env, 0, 0)

	population := make([]chromosome, 0, size)
	half := size / 2
	for i := 0; i < half && i < size; i++ {
		population = append(population, evaluate(env, greedyResult.State.Clone()))
	}
	for len(population) < size {
		population = append(population, evaluate(env, randomValidState(env, rng)))
	}
	return population
}

// randomValidState fills each slot with staff_min workers drawn from
// AvailableWorkers, respecting the projected-hour cap.
func randomValidState(env *Environment, rng *RNG) *domain.ScheduleState {
	state := env.NewState()
	capHours := env.Config().MaxHours

	for _, slot := range env.Catalog().Slots() {
		candidates := env.EligibleForSlot(state, slot, capHours)
		rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
		n := slot.StaffMin
		if len(candidates) < n {
			n = len(candidates)
		}
		for i := 0; i < n; i++ {
			_ = state.Assign(slot.SlotIndex, candidates[i].ID)
		}
	}
	return state
}

func evaluate(env *Environment, state *domain.ScheduleState) chromosome {
	penalty, _ := env.Evaluate(state)
	return chromosome{state: state, penalty: penalty}
}

func fittest(population []chromosome) chromosome {
	best := population[0]
	for _, c := range population[1:] {
		if c.penalty < best.penalty {
			best = c
		}
	}
	return best
}

func sortByPenalty(population []chromosome) {
	for i := 1; i < len(population); i++ {
		for j := i; j > 0 && population[j].penalty < population[j-1].penalty; j-- {
			population[j], population[j-1] = population[j-1], population[j]
		}
	}
}

// tournamentSelect runs a tournament of size k, returning the lowest-penalty entrant.
func tournamentSelect(population []chromosome, rng *RNG, k int) chromosome {
	best := population[rng.Intn(len(population))]
	for i := 1; i < k; i++ {
		c := population[rng.Intn(len(population))]
		if c.penalty < best.penalty {
			best = c
		}
	}
	return best
}

// crossover performs two-point crossover over the slot-index sequence,
// producing two unevaluated children.
func crossover(env *Environment, a, b *domain.ScheduleState, rng *RNG) (*domain.ScheduleState, *domain.ScheduleState) {
	n := env.Catalog().Len()
	if n < 2 {
		return a.Clone(), b.Clone()
	}
	p1 := rng.Intn(n)
	p2 := rng.Intn(n)
	if p1 > p2 {
		p1, p2 = p2, p1
	}

	childA := env.NewState()
	childB := env.NewState()

	for i := 0; i < n; i++ {
		source, other := a, b
		if i >= p1 && i < p2 {
			source, other = b, a
		}
		for _, id := range source.Assignees(i) {
			_ = childA.Assign(i, id)
		}
		for _, id := range other.Assignees(i) {
			if !childB.HasWorker(i, id) {
				_ = childB.Assign(i, id)
			}
		}
	}
	return childA, childB
}

// mutate applies one of the four mutation operators chosen uniformly.
func mutate(env *Environment, state *domain.ScheduleState, rng *RNG) {
	switch rng.Intn(4) {
	case 0:
		_, _ = extendMove(env, state, rng)
	case 1:
		swapMove(env, state, rng)
	case 2:
		fillEmptyMove(env, state, rng)
	case 3:
		reassignMove(env, state, rng)
	}
}
