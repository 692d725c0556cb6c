package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolvers_ProduceValidResultsWithinBudget(t *testing.T) {
	env := smallEnvironment(t)
	budget := 200 * time.Millisecond

	solvers := []services.Solver{
		services.NewGASolver(services.DefaultGAConfig()),
		services.NewSASolver(services.DefaultSAConfig()),
		services.NewCSPSolver(services.DefaultCSPConfig()),
	}

	for _, solver := range solvers {
		solver := solver
		t.Run(string(solver.Algorithm()), func(t *testing.T) {
			result, err := solver.Solve(context.Background(), env, 42, budget)
			require.NoError(t, err)
			assert.Equal(t, solver.Algorithm(), result.Algorithm)
			assert.GreaterOrEqual(t, result.Penalty, 0.0)

			recomputed, _ := env.Evaluate(result.State)
			assert.Equal(t, recomputed, result.Penalty, "solver-reported penalty must match the environment's own evaluation")
		})
	}
}

func TestSolvers_HonorTheirOwnAlgorithmName(t *testing.T) {
	assert.Equal(t, domain.GA, services.NewGASolver(services.DefaultGAConfig()).Algorithm())
	assert.Equal(t, domain.SA, services.NewSASolver(services.DefaultSAConfig()).Algorithm())
	assert.Equal(t, domain.CSP, services.NewCSPSolver(services.DefaultCSPConfig()).Algorithm())
}

// TestSolvers_AreDeterministicForAFixedSeed mirrors
// TestGreedySolver_Deterministic for the stochastic solvers: the whole
// point of threading an *RNG through GA/SA/CSP is that a fixed seed
// reproduces the same result.
func TestSolvers_AreDeterministicForAFixedSeed(t *testing.T) {
	env := smallEnvironment(t)
	budget := 200 * time.Millisecond

	solvers := []services.Solver{
		services.NewGASolver(services.DefaultGAConfig()),
		services.NewSASolver(services.DefaultSAConfig()),
		services.NewCSPSolver(services.DefaultCSPConfig()),
	}

	for _, solver := range solvers {
		solver := solver
		t.Run(string(solver.Algorithm()), func(t *testing.T) {
			r1, err := solver.Solve(context.Background(), env, 99, budget)
			require.NoError(t, err)
			r2, err := solver.Solve(context.Background(), env, 99, budget)
			require.NoError(t, err)

			assert.Equal(t, r1.Penalty, r2.Penalty)
			for i := 0; i < env.Catalog().Len(); i++ {
				assert.Equal(t, r1.State.Assignees(i), r2.State.Assignees(i))
			}
		})
	}
}

// TestSolvers_NeverExceedTheHourCap verifies the §8.4 invariant that no
// solver may return a solution where a worker's total assigned hours
// exceed the configured MaxHours, across Greedy, GA, SA and CSP.
func TestSolvers_NeverExceedTheHourCap(t *testing.T) {
	env := smallEnvironment(t)
	budget := 200 * time.Millisecond
	maxHours := env.Config().MaxHours

	solvers := []services.Solver{
		services.NewGreedySolver(),
		services.NewGASolver(services.DefaultGAConfig()),
		services.NewSASolver(services.DefaultSAConfig()),
		services.NewCSPSolver(services.DefaultCSPConfig()),
	}

	for _, solver := range solvers {
		solver := solver
		t.Run(string(solver.Algorithm()), func(t *testing.T) {
			result, err := solver.Solve(context.Background(), env, 7, budget)
			require.NoError(t, err)

			for _, w := range env.Roster().All() {
				assert.LessOrEqual(t, result.State.Hours(w.ID), maxHours,
					"worker %s exceeds the hour cap", w.ID)
			}
		})
	}
}
