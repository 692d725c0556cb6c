package mcp

import (
	"context"
	"errors"
	"time"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/commands"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/queries"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/google/uuid"
)

type scheduleRunInput struct {
	Algorithm      string `json:"algorithm" jsonschema:"required"`
	ScheduleType   string `json:"schedule_type,omitempty"`
	Seed           int64  `json:"seed,omitempty"`
	MaxTimeSeconds int    `json:"max_time_seconds,omitempty"`
	WeekStart      string `json:"week_start,omitempty"`
	RosterPath     string `json:"roster_path,omitempty"`
}

type scheduleRunOutput struct {
	RunID     uuid.UUID `json:"run_id"`
	Algorithm string    `json:"algorithm"`
	Penalty   float64   `json:"penalty"`
	Quality   string    `json:"quality"`
	Converged bool      `json:"converged"`
}

type scheduleRunsInput struct {
	Algorithm string `json:"algorithm,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

type scheduleGetRunInput struct {
	RunID string `json:"run_id" jsonschema:"required"`
}

func registerScheduleTools(srv *mcpgo.Server, deps ToolDependencies) error {
	app := deps.App

	srv.Tool("schedule.run").
		Description("Run a shift-assignment solver against the configured roster").
		Handler(func(ctx context.Context, input scheduleRunInput) (*scheduleRunOutput, error) {
			if app == nil || app.RunSolverHandler == nil {
				return nil, errors.New("scheduler is not wired")
			}
			if app.Loader == nil {
				return nil, errors.New("no roster source configured")
			}

			roster, err := app.Loader.Load(ctx)
			if err != nil {
				return nil, err
			}

			weekType := domain.WeekType(input.ScheduleType)
			if weekType == "" {
				weekType = domain.FinalsWeek
			}

			weekStart := nextMonday(time.Now())
			if input.WeekStart != "" {
				weekStart, err = time.Parse("2006-01-02", input.WeekStart)
				if err != nil {
					return nil, err
				}
			}

			catalog, err := domain.BuildHourlySlotCatalog(weekType, weekStart)
			if err != nil {
				return nil, err
			}

			maxTime := 30 * time.Second
			if input.MaxTimeSeconds > 0 {
				maxTime = time.Duration(input.MaxTimeSeconds) * time.Second
			}
			seed := input.Seed
			if seed == 0 {
				seed = 1
			}

			result, err := app.RunSolverHandler.Handle(ctx, commands.RunSolverCommand{
				Algorithm: domain.Algorithm(input.Algorithm),
				WeekType:  weekType,
				Roster:    roster,
				Catalog:   catalog,
				Config:    domain.DefaultEvaluatorConfig(),
				Seed:      seed,
				MaxTime:   maxTime,
			})
			if err != nil {
				return nil, err
			}

			return &scheduleRunOutput{
				RunID:     result.RunID,
				Algorithm: input.Algorithm,
				Penalty:   result.Result.Penalty,
				Quality:   string(result.Report.Quality),
				Converged: result.Result.Converged,
			}, nil
		})

	srv.Tool("schedule.runs").
		Description("List recent solver runs").
		Handler(func(ctx context.Context, input scheduleRunsInput) ([]queries.ScheduleRunDTO, error) {
			if app == nil || app.ListRecentRunsHandler == nil {
				return nil, errors.New("scheduler is not wired")
			}
			limit := input.Limit
			if limit <= 0 {
				limit = 20
			}
			return app.ListRecentRunsHandler.Handle(ctx, queries.ListRecentRunsQuery{
				Algorithm: domain.Algorithm(input.Algorithm),
				Limit:     limit,
			})
		})

	srv.Tool("schedule.get_run").
		Description("Get one solver run by id").
		Handler(func(ctx context.Context, input scheduleGetRunInput) (*queries.ScheduleRunDTO, error) {
			if app == nil || app.GetRunHandler == nil {
				return nil, errors.New("scheduler is not wired")
			}
			runID, err := uuid.Parse(input.RunID)
			if err != nil {
				return nil, err
			}
			return app.GetRunHandler.Handle(ctx, queries.GetRunQuery{RunID: runID})
		})

	return nil
}

func nextMonday(from time.Time) time.Time {
	days := (int(time.Monday) - int(from.Weekday()) + 7) % 7
	return time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()).AddDate(0, 0, days)
}
