package outbox_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/migrations"
	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openOutboxDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(context.Background(), db))
	return db
}

func newTestMessage(t *testing.T) *outbox.Message {
	t.Helper()
	event := domain.NewRunStarted(uuid.New(), domain.CSP, domain.FinalsWeek, 7)
	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)
	return msg
}

func TestSQLiteRepository_SaveAndGetUnpublished(t *testing.T) {
	db := openOutboxDB(t)
	repo := outbox.NewSQLiteRepository(db)

	msg := newTestMessage(t)
	require.NoError(t, repo.Save(context.Background(), msg))

	unpublished, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, unpublished, 1)
	assert.Equal(t, msg.EventID, unpublished[0].EventID)
	assert.False(t, unpublished[0].IsPublished())
}

func TestSQLiteRepository_MarkPublishedExcludesFromUnpublished(t *testing.T) {
	db := openOutboxDB(t)
	repo := outbox.NewSQLiteRepository(db)

	msg := newTestMessage(t)
	require.NoError(t, repo.Save(context.Background(), msg))

	unpublished, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, unpublished, 1)

	require.NoError(t, repo.MarkPublished(context.Background(), unpublished[0].ID))

	stillUnpublished, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, stillUnpublished)
}

func TestSQLiteRepository_MarkFailedSetsNextRetry(t *testing.T) {
	db := openOutboxDB(t)
	repo := outbox.NewSQLiteRepository(db)

	msg := newTestMessage(t)
	require.NoError(t, repo.Save(context.Background(), msg))
	unpublished, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, unpublished, 1)

	retryAt := time.Now().Add(-time.Minute).Truncate(time.Second)
	require.NoError(t, repo.MarkFailed(context.Background(), unpublished[0].ID, "boom", retryAt))

	failed, err := repo.GetFailed(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, 1, failed[0].RetryCount)
	require.NotNil(t, failed[0].LastError)
	assert.Equal(t, "boom", *failed[0].LastError)
}

func TestSQLiteRepository_MarkDead(t *testing.T) {
	db := openOutboxDB(t)
	repo := outbox.NewSQLiteRepository(db)

	msg := newTestMessage(t)
	require.NoError(t, repo.Save(context.Background(), msg))
	unpublished, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, unpublished, 1)

	require.NoError(t, repo.MarkDead(context.Background(), unpublished[0].ID, "too many retries"))

	stillUnpublished, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, stillUnpublished, "dead-lettered messages are no longer pending publish")
}

func TestSQLiteRepository_SaveBatch(t *testing.T) {
	db := openOutboxDB(t)
	repo := outbox.NewSQLiteRepository(db)

	msgs := []*outbox.Message{newTestMessage(t), newTestMessage(t), newTestMessage(t)}
	require.NoError(t, repo.SaveBatch(context.Background(), msgs))

	unpublished, err := repo.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, unpublished, 3)
}
