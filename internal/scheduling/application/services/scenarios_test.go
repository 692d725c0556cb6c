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

var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func allSolvers() []services.Solver {
	return []services.Solver{
		services.NewGreedySolver(),
		services.NewGASolver(services.DefaultGAConfig()),
		services.NewSASolver(services.DefaultSAConfig()),
		services.NewCSPSolver(services.DefaultCSPConfig()),
	}
}

// TestSolvers_S1_TrivialSingleSlotReachesZeroPenalty is scenario S1: one
// Window slot with one active and one inactive worker must be solved at
// zero penalty by every solver, with the active worker assigned.
func TestSolvers_S1_TrivialSingleSlotReachesZeroPenalty(t *testing.T) {
	a, err := domain.NewWorker("A", "A", "a@example.com", domain.Tier1, false, true, 15, nil)
	require.NoError(t, err)
	b, err := domain.NewWorker("B", "B", "b@example.com", domain.Tier1, false, false, 15, nil)
	require.NoError(t, err)
	roster, err := domain.NewRoster([]*domain.Worker{a, b})
	require.NoError(t, err)

	catalog, err := domain.NewCatalog([]domain.TimeSlot{
		{Date: monday, DayOfWeek: domain.Monday, StartHour: 10, DurationHours: 1, ShiftKind: domain.Window, StaffMin: 1, StaffMax: 1},
	})
	require.NoError(t, err)

	env := services.NewEnvironment(roster, catalog, domain.DefaultEvaluatorConfig())

	for _, solver := range allSolvers() {
		solver := solver
		t.Run(string(solver.Algorithm()), func(t *testing.T) {
			result, err := solver.Solve(context.Background(), env, 1, 200*time.Millisecond)
			require.NoError(t, err)
			assert.Equal(t, 0.0, result.Penalty)
			assert.Equal(t, []string{"A"}, result.State.Assignees(0))
		})
	}
}

// TestSolvers_S2_CommuterExcludedFromEarlySlotReachesZeroPenalty is
// scenario S2: a commuter worker is ineligible for a slot starting before
// the commuter cutoff (09:00), so the non-commuter must be assigned at
// zero penalty.
func TestSolvers_S2_CommuterExcludedFromEarlySlotReachesZeroPenalty(t *testing.T) {
	a, err := domain.NewWorker("A", "A", "a@example.com", domain.Tier1, true, true, 15, nil)
	require.NoError(t, err)
	b, err := domain.NewWorker("B", "B", "b@example.com", domain.Tier1, false, true, 15, nil)
	require.NoError(t, err)
	roster, err := domain.NewRoster([]*domain.Worker{a, b})
	require.NoError(t, err)

	catalog, err := domain.NewCatalog([]domain.TimeSlot{
		{Date: monday, DayOfWeek: domain.Monday, StartHour: 7, DurationHours: 1, ShiftKind: domain.Window, StaffMin: 1, StaffMax: 1},
	})
	require.NoError(t, err)

	env := services.NewEnvironment(roster, catalog, domain.DefaultEvaluatorConfig())

	for _, solver := range allSolvers() {
		solver := solver
		t.Run(string(solver.Algorithm()), func(t *testing.T) {
			result, err := solver.Solve(context.Background(), env, 1, 200*time.Millisecond)
			require.NoError(t, err)
			assert.Equal(t, 0.0, result.Penalty)
			assert.Equal(t, []string{"B"}, result.State.Assignees(0))
		})
	}
}

// TestGreedySolver_CoverageUnderIsZeroWhenEveryWorkerPoolMeetsStaffMin is
// §8.5's coverage invariant under relaxation: when every slot has at least
// staff_min eligible workers available, the greedy baseline must leave no
// slot understaffed.
func TestGreedySolver_CoverageUnderIsZeroWhenEveryWorkerPoolMeetsStaffMin(t *testing.T) {
	env := smallEnvironment(t)
	solver := services.NewGreedySolver()

	result, err := solver.Solve(context.Background(), env, 1, 0)
	require.NoError(t, err)

	report := services.QuickValidate(env, result.State)
	assert.Empty(t, report.UncoveredSlots, "every slot had enough eligible workers; none should be left understaffed")
}
