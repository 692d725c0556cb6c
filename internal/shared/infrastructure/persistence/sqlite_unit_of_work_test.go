package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func openMemDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec("CREATE TABLE t (id INTEGER PRIMARY KEY)")
	require.NoError(t, err)
	return db
}

func TestSQLiteUnitOfWork_BeginCommitOwnsTransaction(t *testing.T) {
	db := openMemDB(t)
	uow := NewSQLiteUnitOfWork(db)

	ctx, err := uow.Begin(context.Background())
	require.NoError(t, err)

	info, ok := SQLiteTxInfoFromContext(ctx)
	require.True(t, ok)
	assert.True(t, info.Owned)

	_, err = info.Tx.Exec("INSERT INTO t (id) VALUES (1)")
	require.NoError(t, err)

	require.NoError(t, uow.Commit(ctx))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLiteUnitOfWork_RollbackDiscardsChanges(t *testing.T) {
	db := openMemDB(t)
	uow := NewSQLiteUnitOfWork(db)

	ctx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	info, _ := SQLiteTxInfoFromContext(ctx)
	_, err = info.Tx.Exec("INSERT INTO t (id) VALUES (2)")
	require.NoError(t, err)

	require.NoError(t, uow.Rollback(ctx))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM t").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSQLiteUnitOfWork_NestedBeginDoesNotOwn(t *testing.T) {
	db := openMemDB(t)
	uow := NewSQLiteUnitOfWork(db)

	outer, err := uow.Begin(context.Background())
	require.NoError(t, err)

	inner, err := uow.Begin(outer)
	require.NoError(t, err)

	innerInfo, ok := SQLiteTxInfoFromContext(inner)
	require.True(t, ok)
	assert.False(t, innerInfo.Owned, "the inner unit of work must not own the outer transaction")

	require.NoError(t, uow.Commit(inner), "commit on a non-owned transaction is a no-op")
	require.NoError(t, uow.Commit(outer))
}

func TestSQLiteUnitOfWork_CommitWithoutBeginFails(t *testing.T) {
	db := openMemDB(t)
	uow := NewSQLiteUnitOfWork(db)

	err := uow.Commit(context.Background())
	assert.Error(t, err)
}
