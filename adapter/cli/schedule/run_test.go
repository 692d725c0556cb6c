package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/adapter/cli"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRosterLoader struct {
	roster *domain.Roster
}

func (f fixedRosterLoader) Load(ctx context.Context) (*domain.Roster, error) {
	return f.roster, nil
}

func TestParseWeekStart_EmptyDefaultsToNextMonday(t *testing.T) {
	got, err := parseWeekStart("")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, got.Weekday())
}

func TestParseWeekStart_ParsesISODate(t *testing.T) {
	got, err := parseWeekStart("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), got)
}

func TestParseWeekStart_RejectsInvalidFormat(t *testing.T) {
	_, err := parseWeekStart("03/02/2026")
	assert.Error(t, err)
}

func TestNextMonday_FromMondayStaysOnTheSameDay(t *testing.T) {
	monday := time.Date(2026, 1, 5, 14, 30, 0, 0, time.UTC)
	got := nextMonday(monday)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), got)
}

func TestNextMonday_FromWednesdayRollsForward(t *testing.T) {
	wednesday := time.Date(2026, 1, 7, 9, 0, 0, 0, time.UTC)
	got := nextMonday(wednesday)
	assert.Equal(t, time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC), got)
}

func TestRunCmd_RejectsEmptyActiveRosterBeforeSolving(t *testing.T) {
	w, err := domain.NewWorker("w1", "Ann", "a@example.com", domain.Tier1, false, false, 15, nil)
	require.NoError(t, err)
	roster, err := domain.NewRoster([]*domain.Worker{w})
	require.NoError(t, err)

	testApp := cli.NewApp(nil, nil, nil, nil, nil, nil)
	testApp.SetLoader(fixedRosterLoader{roster: roster})
	cli.SetApp(testApp)
	defer cli.SetApp(nil)

	runCmd.SetArgs([]string{})
	runErr := runCmd.Execute()
	require.Error(t, runErr)
	assert.True(t, errors.Is(runErr, domain.ErrEmptyActiveRoster))
}
