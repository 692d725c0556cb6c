package domain_test

import (
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monday(t *testing.T) time.Time {
	t.Helper()
	return time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
}

func TestTimeSlot_MinutesAndSameDay(t *testing.T) {
	date := monday(t)
	a := domain.TimeSlot{Date: date, StartHour: 9, DurationHours: 2, ShiftKind: domain.Window}
	b := domain.TimeSlot{Date: date, StartHour: 13, DurationHours: 2, ShiftKind: domain.Window}
	c := domain.TimeSlot{Date: date.AddDate(0, 0, 1), StartHour: 9, DurationHours: 2, ShiftKind: domain.Window}

	assert.Equal(t, 9*60, a.StartMinute())
	assert.Equal(t, 11*60, a.EndMinute())
	assert.True(t, a.SameDayKindAndDuration(b))
	assert.False(t, a.SameDayKindAndDuration(c), "different date")
}

func TestHHMMRoundTrip(t *testing.T) {
	minutes, err := domain.HHMMToMinutes("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, minutes)
	assert.Equal(t, "09:30", domain.MinutesToHHMM(minutes))
}

func TestIntervalsConflict(t *testing.T) {
	d0 := monday(t)
	d1 := d0.AddDate(0, 0, 1)

	assert.True(t, domain.IntervalsConflict(d0, 9*60, 11*60, d0, 10*60, 12*60))
	assert.False(t, domain.IntervalsConflict(d0, 9*60, 11*60, d0, 11*60, 12*60), "half-open boundary touch")
	assert.False(t, domain.IntervalsConflict(d0, 9*60, 11*60, d1, 9*60, 11*60), "different dates never conflict")
}

func TestNewCatalog_AssignsIndicesInOrder(t *testing.T) {
	date := monday(t)
	slots := []domain.TimeSlot{
		{Date: date, StartHour: 9, DurationHours: 1, ShiftKind: domain.Window, StaffMin: 1, StaffMax: 2},
		{Date: date, StartHour: 10, DurationHours: 1, ShiftKind: domain.Window, StaffMin: 1, StaffMax: 2},
	}
	catalog, err := domain.NewCatalog(slots)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Len())
	assert.Equal(t, 0, catalog.At(0).SlotIndex)
	assert.Equal(t, 1, catalog.At(1).SlotIndex)
}

func TestNewCatalog_RejectsInvalidStaffingBounds(t *testing.T) {
	date := monday(t)
	_, err := domain.NewCatalog([]domain.TimeSlot{
		{Date: date, StartHour: 9, DurationHours: 1, ShiftKind: domain.Window, StaffMin: 3, StaffMax: 2},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStaffingBounds)
}

func TestNewCatalog_RejectsZeroDuration(t *testing.T) {
	date := monday(t)
	_, err := domain.NewCatalog([]domain.TimeSlot{
		{Date: date, StartHour: 9, DurationHours: 0, ShiftKind: domain.Window, StaffMin: 1, StaffMax: 2},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
}

func TestNewCatalog_RejectsDuplicateSlot(t *testing.T) {
	date := monday(t)
	slot := domain.TimeSlot{Date: date, StartHour: 9, DurationHours: 1, ShiftKind: domain.Window, StaffMin: 1, StaffMax: 2}
	_, err := domain.NewCatalog([]domain.TimeSlot{slot, slot})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlot)
}
