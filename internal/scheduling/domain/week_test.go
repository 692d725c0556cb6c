package domain_test

import (
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOperatingWindows_FinalsWeekHasFiveDays(t *testing.T) {
	windows, err := domain.BuildOperatingWindows(domain.FinalsWeek, monday(t))
	require.NoError(t, err)
	require.Len(t, windows, 5)
	assert.Equal(t, domain.Friday, windows[4].DayOfWeek)
	assert.Equal(t, 17, windows[4].EndHour)
}

func TestBuildOperatingWindows_RegularWeekAddsSaturday(t *testing.T) {
	windows, err := domain.BuildOperatingWindows(domain.RegularWeek, monday(t))
	require.NoError(t, err)
	require.Len(t, windows, 6)
	assert.Equal(t, domain.Saturday, windows[5].DayOfWeek)
	assert.Equal(t, 10, windows[5].StartHour)
	assert.Equal(t, 18, windows[5].EndHour)
}

func TestBuildOperatingWindows_RejectsUnknownWeekType(t *testing.T) {
	_, err := domain.BuildOperatingWindows(domain.WeekType("quarter"), monday(t))
	assert.ErrorIs(t, err, domain.ErrUnknownWeekType)
}

func TestOperatingWindow_Validate(t *testing.T) {
	w := domain.OperatingWindow{StartHour: 9, EndHour: 9}
	assert.ErrorIs(t, w.Validate(), domain.ErrEmptyOperatingWindow)
}

func TestBuildHourlySlotCatalog_OneWindowAndOneRemoteSlotPerHour(t *testing.T) {
	catalog, err := domain.BuildHourlySlotCatalog(domain.FinalsWeek, monday(t))
	require.NoError(t, err)

	// Mon-Thu 07:30-20:00 truncates to [7,20) = 13h, Fri 07:30-17:00 -> [7,17) = 10h.
	// Two slots (Window + Remote) per hour.
	expectedHours := 13*4 + 10
	assert.Equal(t, expectedHours*2, catalog.Len())

	for _, s := range catalog.Slots() {
		if s.ShiftKind == domain.Window {
			assert.Equal(t, domain.WindowMin, s.StaffMin)
			assert.Equal(t, domain.WindowMax, s.StaffMax)
		} else {
			assert.Equal(t, domain.RemoteMin, s.StaffMin)
			assert.Equal(t, domain.RemoteMax, s.StaffMax)
		}
	}
}

func TestBuildHourlySlotCatalog_WeekStartTimeOfDayIsIgnored(t *testing.T) {
	noisy := monday(t).Add(13 * time.Hour).Add(45 * time.Minute)
	a, err := domain.BuildHourlySlotCatalog(domain.FinalsWeek, monday(t))
	require.NoError(t, err)
	b, err := domain.BuildHourlySlotCatalog(domain.FinalsWeek, noisy)
	require.NoError(t, err)
	assert.Equal(t, a.Len(), b.Len())
}
