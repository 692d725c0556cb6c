package services

import (
	"context"
	"math"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// SAConfig holds the tunable knobs for simulated annealing (§4.7).
type SAConfig struct {
	StartTemp         float64
	EndTemp           float64
	CoolingRate       float64
	IterationsPerTemp int
	ReheatAfter       int
	MaxIterations     int
}

// DefaultSAConfig returns the suggested defaults from §4.7.
func DefaultSAConfig() SAConfig {
	return SAConfig{
		StartTemp:         1000,
		EndTemp:           0.1,
		CoolingRate:       0.995,
		IterationsPerTemp: 50,
		ReheatAfter:       1000,
		MaxIterations:     100_000,
	}
}

// SASolver implements single-state simulated annealing over the shared
// neighborhood moves.
type SASolver struct {
	cfg SAConfig
}

// NewSASolver constructs an SA solver with cfg (zero value uses DefaultSAConfig).
func NewSASolver(cfg SAConfig) *SASolver {
	if cfg.StartTemp == 0 {
		cfg = DefaultSAConfig()
	}
	return &SASolver{cfg: cfg}
}

// Algorithm identifies this solver for run metadata.
func (s *SASolver) Algorithm() domain.Algorithm { return domain.SA }

// Solve seeds from the greedy baseline and anneals toward lower penalty.
func (s *SASolver) Solve(ctx context.Context, env *Environment, seed int64, maxTime time.Duration) (Result, error) {
	start := time.Now()
	rng := NewRNG(seed)
	cfg := s.cfg

	greedyResult, _ := NewGreedySolver().Solve(ctx, env, seed, 0)
	current := greedyResult.State
	currentPenalty, _ := env.Evaluate(current)

	best := current.Clone()
	bestPenalty := currentPenalty

	temp := cfg.StartTemp
	sinceImprovement := 0
	iterations := 0
	converged := bestPenalty == 0

loop:
	for temp >= cfg.EndTemp && iterations < cfg.MaxIterations && !converged {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		if deadlineExceeded(start, maxTime, time.Now()) {
			break
		}

		for i := 0; i < cfg.IterationsPerTemp; i++ {
			iterations++
			candidate := current.Clone()
			kind := AllMoveKinds[rng.Intn(len(AllMoveKinds))]
			if changed, _ := ApplyMove(kind, env, candidate, rng); !changed {
				continue
			}

			candidatePenalty, _ := env.Evaluate(candidate)
			delta := candidatePenalty - currentPenalty

			if delta <= 0 || rng.Float64() < math.Exp(-delta/temp) {
				current = candidate
				currentPenalty = candidatePenalty
			}

			if currentPenalty < bestPenalty {
				best = current.Clone()
				bestPenalty = currentPenalty
				sinceImprovement = 0
			} else {
				sinceImprovement++
			}

			if bestPenalty == 0 {
				converged = true
				break
			}
			if sinceImprovement >= cfg.ReheatAfter {
				temp = cfg.StartTemp / 2
				sinceImprovement = 0
			}
			if iterations >= cfg.MaxIterations {
				break
			}
		}

		temp *= cfg.CoolingRate
	}

	penalty, breakdown := env.Evaluate(best)
	return Result{
		Algorithm: domain.SA,
		State:     best,
		Penalty:   penalty,
		Breakdown: breakdown,
		Converged: penalty == 0,
		Runtime:   time.Since(start),
	}, nil
}
