package persistence_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/persistence"
	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/migrations"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openTestSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func TestSQLiteScheduleRunRepository_SaveAndFindByID(t *testing.T) {
	db := openTestSQLite(t)
	repo := persistence.NewSQLiteScheduleRunRepository(db)

	run := domain.NewScheduleRun(domain.CSP, domain.FinalsWeek, 7)
	start := time.Now().Truncate(time.Second)
	require.NoError(t, run.Start(start))
	require.NoError(t, run.Complete(start.Add(3*time.Second), 42.5, domain.Breakdown{CoverageUnder: 2}, true))

	require.NoError(t, repo.Save(context.Background(), run))

	found, err := repo.FindByID(context.Background(), run.ID())
	require.NoError(t, err)
	assert.Equal(t, run.ID(), found.ID())
	assert.Equal(t, domain.RunCompleted, found.Status())
	assert.Equal(t, 42.5, found.Penalty())
	assert.Equal(t, 2, found.Breakdown().CoverageUnder)
	assert.True(t, found.Converged())
	assert.WithinDuration(t, start, found.StartedAt(), time.Second)
}

func TestSQLiteScheduleRunRepository_FindByIDNotFound(t *testing.T) {
	db := openTestSQLite(t)
	repo := persistence.NewSQLiteScheduleRunRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestSQLiteScheduleRunRepository_FindRecentByAlgorithmOrdersNewestFirst(t *testing.T) {
	db := openTestSQLite(t)
	repo := persistence.NewSQLiteScheduleRunRepository(db)

	base := time.Now().Truncate(time.Second)
	older := domain.NewScheduleRun(domain.GA, domain.FinalsWeek, 1)
	require.NoError(t, older.Start(base))
	require.NoError(t, older.Complete(base.Add(time.Second), 10, domain.Breakdown{}, true))
	require.NoError(t, repo.Save(context.Background(), older))

	newer := domain.NewScheduleRun(domain.GA, domain.FinalsWeek, 2)
	require.NoError(t, newer.Start(base.Add(time.Hour)))
	require.NoError(t, newer.Complete(base.Add(time.Hour+time.Second), 5, domain.Breakdown{}, true))
	require.NoError(t, repo.Save(context.Background(), newer))

	other := domain.NewScheduleRun(domain.SA, domain.FinalsWeek, 1)
	require.NoError(t, other.Start(base))
	require.NoError(t, other.Complete(base.Add(time.Second), 1, domain.Breakdown{}, true))
	require.NoError(t, repo.Save(context.Background(), other))

	runs, err := repo.FindRecentByAlgorithm(context.Background(), domain.GA, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID(), runs[0].ID())
	assert.Equal(t, older.ID(), runs[1].ID())
}

func TestSQLiteScheduleRunRepository_SaveUpserts(t *testing.T) {
	db := openTestSQLite(t)
	repo := persistence.NewSQLiteScheduleRunRepository(db)

	run := domain.NewScheduleRun(domain.Greedy, domain.FinalsWeek, 1)
	require.NoError(t, repo.Save(context.Background(), run))
	require.NoError(t, run.Start(time.Now()))
	require.NoError(t, repo.Save(context.Background(), run))

	found, err := repo.FindByID(context.Background(), run.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.RunRunning, found.Status())
}
