package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExport_RoundTripsThroughJSON(t *testing.T) {
	env := smallEnvironment(t)
	result, err := services.NewGreedySolver().Solve(context.Background(), env, 1, 0)
	require.NoError(t, err)

	export := services.BuildExport(env, result, 1)
	assert.Equal(t, env.Roster().Len(), len(export.Workers))
	assert.Equal(t, env.Catalog().Len(), len(export.Slots))
	assert.Equal(t, env.Catalog().Len(), len(export.Assignment))

	raw, err := export.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "metadata")
	assert.Contains(t, decoded, "schedule")
}

func TestExport_ToCSVHasHeaderAndOneRowPerBlock(t *testing.T) {
	env := smallEnvironment(t)
	result, err := services.NewGreedySolver().Solve(context.Background(), env, 1, 0)
	require.NoError(t, err)

	export := services.BuildExport(env, result, 1)
	csv := export.ToCSV()

	assert.Contains(t, csv, "date,day,start,end,kind,assignees\n")
	lines := 0
	for _, c := range csv {
		if c == '\n' {
			lines++
		}
	}
	assert.Equal(t, len(export.Schedule)+1, lines)
}

func TestExport_ToShiftRecordsMatchesScheduleLength(t *testing.T) {
	env := smallEnvironment(t)
	result, err := services.NewGreedySolver().Solve(context.Background(), env, 1, 0)
	require.NoError(t, err)

	export := services.BuildExport(env, result, 1)
	records := export.ToShiftRecords()

	require.Len(t, records, len(export.Schedule))
	if len(records) > 0 {
		assert.Equal(t, export.Schedule[0].Date, records[0].Date)
		assert.Equal(t, export.Schedule[0].Assignees, records[0].AssignedTo)
	}
}
