package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	sharedPersistence "github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresScheduleRunRepository implements domain.ScheduleRunRepository
// against PostgreSQL via pgx, mirroring the shared kernel's outbox
// PostgresRepository (pool-or-tx dispatch through persistence.Executor).
type PostgresScheduleRunRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresScheduleRunRepository creates a pgx-backed repository.
func NewPostgresScheduleRunRepository(pool *pgxpool.Pool) *PostgresScheduleRunRepository {
	return &PostgresScheduleRunRepository{pool: pool}
}

const upsertRunSQLPG = `
	INSERT INTO schedule_runs (
		id, algorithm, week_type, seed, status, penalty, breakdown, converged,
		started_at, ended_at, error_message, created_at, updated_at, version
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		penalty = EXCLUDED.penalty,
		breakdown = EXCLUDED.breakdown,
		converged = EXCLUDED.converged,
		started_at = EXCLUDED.started_at,
		ended_at = EXCLUDED.ended_at,
		error_message = EXCLUDED.error_message,
		updated_at = EXCLUDED.updated_at,
		version = EXCLUDED.version
`

// Save inserts or updates a run's full state.
func (r *PostgresScheduleRunRepository) Save(ctx context.Context, run *domain.ScheduleRun) error {
	breakdown, err := json.Marshal(run.Breakdown())
	if err != nil {
		return err
	}

	execer := sharedPersistence.Executor(ctx, r.pool)
	_, err = execer.Exec(ctx, upsertRunSQLPG,
		run.ID(),
		string(run.Algorithm()),
		string(run.WeekType()),
		run.Seed(),
		string(run.Status()),
		run.Penalty(),
		breakdown,
		run.Converged(),
		optionalTime(run.StartedAt()),
		optionalTime(run.EndedAt()),
		run.ErrorMessage(),
		run.CreatedAt(),
		run.UpdatedAt(),
		run.Version(),
	)
	return err
}

const selectRunColumnsPG = `
	id, algorithm, week_type, seed, status, penalty, breakdown, converged,
	started_at, ended_at, error_message, created_at, updated_at, version
`

// FindByID loads a run by id.
func (r *PostgresScheduleRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleRun, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	row := execer.QueryRow(ctx, `SELECT `+selectRunColumnsPG+` FROM schedule_runs WHERE id = $1`, id)
	run, err := scanRunPG(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrRunNotFound
	}
	return run, err
}

// FindRecentByAlgorithm returns the most recent runs for algorithm, newest
// first, capped at limit.
func (r *PostgresScheduleRunRepository) FindRecentByAlgorithm(ctx context.Context, algorithm domain.Algorithm, limit int) ([]*domain.ScheduleRun, error) {
	execer := sharedPersistence.Executor(ctx, r.pool)
	rows, err := execer.Query(ctx, `
		SELECT `+selectRunColumnsPG+`
		FROM schedule_runs
		WHERE algorithm = $1
		ORDER BY started_at DESC
		LIMIT $2
	`, string(algorithm), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ScheduleRun
	for rows.Next() {
		run, err := scanRunPG(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type pgRowScanner interface {
	Scan(dest ...any) error
}

func scanRunPG(s pgRowScanner) (*domain.ScheduleRun, error) {
	var (
		id                   uuid.UUID
		algorithm, weekType  string
		seed                 int64
		status               string
		penalty              float64
		breakdownJSON        []byte
		converged            bool
		startedAt, endedAt   *time.Time
		createdAt, updatedAt time.Time
		errMessage           string
		version              int
	)

	if err := s.Scan(
		&id, &algorithm, &weekType, &seed, &status, &penalty, &breakdownJSON, &converged,
		&startedAt, &endedAt, &errMessage, &createdAt, &updatedAt, &version,
	); err != nil {
		return nil, err
	}

	var breakdown domain.Breakdown
	if err := json.Unmarshal(breakdownJSON, &breakdown); err != nil {
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
		derefTime(startedAt),
		derefTime(endedAt),
		errMessage,
		createdAt,
		updatedAt,
		version,
	), nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
