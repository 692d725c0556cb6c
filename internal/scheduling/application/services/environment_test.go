package services_test

import (
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/require"
)

func weekStart(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
}

func smallRoster(t *testing.T) *domain.Roster {
	t.Helper()
	var workers []*domain.Worker
	specs := []struct {
		id   string
		tier domain.Tier
	}{
		{"w1", domain.Tier1}, {"w2", domain.Tier2}, {"w3", domain.Tier3},
		{"w4", domain.Tier4}, {"w5", domain.Tier1}, {"w6", domain.Tier3},
	}
	for _, s := range specs {
		w, err := domain.NewWorker(s.id, s.id, s.id+"@example.com", s.tier, false, true, 15, nil)
		require.NoError(t, err)
		workers = append(workers, w)
	}
	roster, err := domain.NewRoster(workers)
	require.NoError(t, err)
	return roster
}

func smallEnvironment(t *testing.T) *services.Environment {
	t.Helper()
	catalog, err := domain.BuildHourlySlotCatalog(domain.FinalsWeek, weekStart(t))
	require.NoError(t, err)
	return services.NewEnvironment(smallRoster(t), catalog, domain.DefaultEvaluatorConfig())
}

func TestEnvironment_AvailableWorkersOrderedByID(t *testing.T) {
	env := smallEnvironment(t)
	slot := env.Catalog().At(0)

	workers := env.AvailableWorkers(slot)
	require.Len(t, workers, 6)
	for i := 1; i < len(workers); i++ {
		require.Less(t, workers[i-1].ID, workers[i].ID)
	}
}

func TestEnvironment_EligibleForSlotExcludesAssignedAndOverCap(t *testing.T) {
	env := smallEnvironment(t)
	state := env.NewState()
	slot := env.Catalog().At(0)

	require.NoError(t, state.Assign(slot.SlotIndex, "w1"))

	eligible := env.EligibleForSlot(state, slot, 1)
	for _, w := range eligible {
		require.NotEqual(t, "w1", w.ID, "already-assigned worker excluded")
	}

	require.Empty(t, env.EligibleForSlot(state, slot, 0), "every worker's projected hours exceed a zero cap")
}
