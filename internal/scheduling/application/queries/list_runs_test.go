package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/queries"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunRepository struct {
	byID map[uuid.UUID]*domain.ScheduleRun
}

func newFakeRunRepository(runs ...*domain.ScheduleRun) *fakeRunRepository {
	repo := &fakeRunRepository{byID: make(map[uuid.UUID]*domain.ScheduleRun)}
	for _, r := range runs {
		repo.byID[r.ID()] = r
	}
	return repo
}

func (r *fakeRunRepository) Save(ctx context.Context, run *domain.ScheduleRun) error {
	r.byID[run.ID()] = run
	return nil
}

func (r *fakeRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScheduleRun, error) {
	run, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}

func (r *fakeRunRepository) FindRecentByAlgorithm(ctx context.Context, algorithm domain.Algorithm, limit int) ([]*domain.ScheduleRun, error) {
	var out []*domain.ScheduleRun
	for _, run := range r.byID {
		if run.Algorithm() == algorithm {
			out = append(out, run)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func completedRun(t *testing.T, algo domain.Algorithm, penalty float64) *domain.ScheduleRun {
	t.Helper()
	run := domain.NewScheduleRun(algo, domain.FinalsWeek, 1)
	start := time.Now()
	require.NoError(t, run.Start(start))
	require.NoError(t, run.Complete(start.Add(2*time.Second), penalty, domain.Breakdown{}, true))
	return run
}

func TestListRecentRunsHandler_FiltersByAlgorithm(t *testing.T) {
	gaRun := completedRun(t, domain.GA, 10)
	cspRun := completedRun(t, domain.CSP, 20)
	repo := newFakeRunRepository(gaRun, cspRun)

	handler := queries.NewListRecentRunsHandler(repo)
	dtos, err := handler.Handle(context.Background(), queries.ListRecentRunsQuery{Algorithm: domain.GA, Limit: 10})
	require.NoError(t, err)

	require.Len(t, dtos, 1)
	assert.Equal(t, string(domain.GA), dtos[0].Algorithm)
	assert.Equal(t, 10.0, dtos[0].Penalty)
	assert.Greater(t, dtos[0].RuntimeSecs, 0.0)
}

func TestGetRunHandler_NotFound(t *testing.T) {
	repo := newFakeRunRepository()
	handler := queries.NewGetRunHandler(repo)

	_, err := handler.Handle(context.Background(), queries.GetRunQuery{RunID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestGetRunHandler_Found(t *testing.T) {
	run := completedRun(t, domain.SA, 5)
	repo := newFakeRunRepository(run)
	handler := queries.NewGetRunHandler(repo)

	dto, err := handler.Handle(context.Background(), queries.GetRunQuery{RunID: run.ID()})
	require.NoError(t, err)
	assert.Equal(t, run.ID(), dto.ID)
	assert.Equal(t, string(domain.RunCompleted), dto.Status)
}
