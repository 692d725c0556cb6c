package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	sharedPersistence "github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteScheduleRunRepository implements domain.ScheduleRunRepository with
// hand-written database/sql queries, matching the shared kernel's SQLite
// outbox repository in both querier-selection and timestamp convention
// (RFC3339 strings, since SQLite's datetime columns are text-typed).
type SQLiteScheduleRunRepository struct {
	dbConn *sql.DB
}

// NewSQLiteScheduleRunRepository creates a SQLite-backed repository.
func NewSQLiteScheduleRunRepository(dbConn *sql.DB) *SQLiteScheduleRunRepository {
	return &SQLiteScheduleRunRepository{dbConn: dbConn}
}

type runQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLiteScheduleRunRepository) querier(ctx context.Context) runQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

const upsertRunSQL = `
	INSERT INTO schedule_runs (
		id, algorithm, week_type, seed, status, penalty, breakdown, converged,
		started_at, ended_at, error_message, created_at, updated_at, version
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		status = excluded.status,
		penalty = excluded.penalty,
		breakdown = excluded.breakdown,
		converged = excluded.converged,
		started_at = excluded.started_at,
		ended_at = excluded.ended_at,
		error_message = excluded.error_message,
		updated_at = excluded.updated_at,
		version = excluded.version
`

// Save inserts or updates a run's full state.
func (r *SQLiteScheduleRunRepository) Save(ctx context.Context, run *domain.ScheduleRun) error {
	breakdown, err := json.Marshal(run.Breakdown())
	if err != nil {
		return err
	}

	_, err = r.querier(ctx).ExecContext(ctx, upsertRunSQL,
		run.ID().String(),
		string(run.Algorithm()),
		string(run.WeekType()),
		run.Seed(),
		string(run.Status()),
		run.Penalty(),
		string(breakdown),
		run.Converged(),
		formatOptionalTime(run.StartedAt()),
		formatOptionalTime(run.EndedAt()),
		run.ErrorMessage(),
		run.CreatedAt().Format(time.RFC3339),
		run.UpdatedAt().Format(time.RFC3339),
		run.Version(),
	)
	return err
}

const selectRunColumns = `
	id, algorithm, week_type, seed, status, penalty, breakdown, converged,
	started_at, ended_at, error_message, created_at, updated_at, version
`

// FindByID loads a run by id.
func (r *SQLiteScheduleRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleRun, error) {
	row := r.querier(ctx).QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM schedule_runs WHERE id = ?`, selectRunColumns),
		id.String(),
	)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	return run, err
}

// FindRecentByAlgorithm returns the most recent runs for algorithm, newest
// first, capped at limit.
func (r *SQLiteScheduleRunRepository) FindRecentByAlgorithm(ctx context.Context, algorithm domain.Algorithm, limit int) ([]*domain.ScheduleRun, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM schedule_runs
		WHERE algorithm = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, selectRunColumns)

	rows, err := r.querier(ctx).QueryContext(ctx, query, string(algorithm), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ScheduleRun
	for rows.Next() {
		run, err := scanRunRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row *sql.Row) (*domain.ScheduleRun, error) {
	return scanRunGeneric(row)
}

func scanRunRow(rows *sql.Rows) (*domain.ScheduleRun, error) {
	return scanRunGeneric(rows)
}

func scanRunGeneric(s rowScanner) (*domain.ScheduleRun, error) {
	var (
		idStr, algorithm, weekType, status, breakdownJSON, errMessage string
		seed                                                          int64
		penalty                                                      float64
		converged                                                     bool
		startedAt, endedAt                                            sql.NullString
		createdAtStr, updatedAtStr                                    string
		version                                                       int
	)

	if err := s.Scan(
		&idStr, &algorithm, &weekType, &seed, &status, &penalty, &breakdownJSON, &converged,
		&startedAt, &endedAt, &errMessage, &createdAtStr, &updatedAtStr, &version,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	var breakdown domain.Breakdown
	if err := json.Unmarshal([]byte(breakdownJSON), &breakdown); err != nil {
		return nil, err
	}

	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339, updatedAtStr)
	if err != nil {
		return nil, err
	}

	startedAtTime, err := parseOptionalTime(startedAt)
	if err != nil {
		return nil, err
	}
	endedAtTime, err := parseOptionalTime(endedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateScheduleRun(
		id,
		domain.Algorithm(algorithm),
		domain.WeekType(weekType),
		seed,
		domain.RunStatus(status),
		penalty,
		breakdown,
		converged,
		startedAtTime,
		endedAtTime,
		errMessage,
		createdAt,
		updatedAt,
		version,
	), nil
}

func formatOptionalTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

func parseOptionalTime(ns sql.NullString) (time.Time, error) {
	if !ns.Valid {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, ns.String)
}
