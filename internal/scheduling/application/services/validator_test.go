package services_test

import (
	"testing"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/stretchr/testify/assert"
)

func TestQuickValidate_EmptyScheduleNeedsReview(t *testing.T) {
	env := smallEnvironment(t)
	state := env.NewState()

	report := services.QuickValidate(env, state)

	assert.Equal(t, services.QualityNeedsReview, report.Quality, "an entirely empty schedule has heavy coverage_under")
	assert.NotEmpty(t, report.UncoveredSlots)
}

func TestQuickValidate_StaffingOneSlotLowersCoverageUnder(t *testing.T) {
	env := smallEnvironment(t)
	empty := services.QuickValidate(env, env.NewState())

	state := env.NewState()
	slot := env.Catalog().At(0)
	for _, w := range env.AvailableWorkers(slot) {
		_ = state.Assign(slot.SlotIndex, w.ID)
	}
	filled := services.QuickValidate(env, state)

	assert.Less(t, filled.Breakdown.CoverageUnder, empty.Breakdown.CoverageUnder)
}
