package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	sharedApplication "github.com/Vamsichris04/finals-scheduler/internal/shared/application"
	"github.com/Vamsichris04/finals-scheduler/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// RunSolverCommand dispatches one solver invocation against a fixed roster
// and slot catalog.
type RunSolverCommand struct {
	Algorithm domain.Algorithm
	WeekType  domain.WeekType
	Roster    *domain.Roster
	Catalog   *domain.Catalog
	Config    domain.EvaluatorConfig
	Seed      int64
	MaxTime   time.Duration
}

// RunSolverResult is the outcome of a RunSolverCommand: the persisted run's
// id plus the solver's result, if it completed.
type RunSolverResult struct {
	RunID     uuid.UUID
	Result    services.Result
	Report    services.ValidationReport
	Succeeded bool
}

// RunSolverHandler loads a ScheduleRun aggregate, drives it through the
// executor, and persists the run plus its domain events atomically.
type RunSolverHandler struct {
	runRepo  domain.ScheduleRunRepository
	executor *services.Executor
	outbox   outbox.Repository
	uow      sharedApplication.UnitOfWork
	logger   *slog.Logger
}

// NewRunSolverHandler wires a RunSolverHandler.
func NewRunSolverHandler(
	runRepo domain.ScheduleRunRepository,
	executor *services.Executor,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	logger *slog.Logger,
) *RunSolverHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunSolverHandler{
		runRepo:  runRepo,
		executor: executor,
		outbox:   outboxRepo,
		uow:      uow,
		logger:   logger,
	}
}

// Handle starts a ScheduleRun, executes the solver, and records the outcome.
// An all-inactive roster is an input error: it is rejected before any run is
// created or the solver is invoked, rather than being run to an infeasible
// "needs review" result.
func (h *RunSolverHandler) Handle(ctx context.Context, cmd RunSolverCommand) (*RunSolverResult, error) {
	if len(cmd.Roster.Active()) == 0 {
		return nil, domain.ErrEmptyActiveRoster
	}

	env := services.NewEnvironment(cmd.Roster, cmd.Catalog, cmd.Config)
	run := domain.NewScheduleRun(cmd.Algorithm, cmd.WeekType, cmd.Seed)

	startedAt := time.Now()
	if err := run.Start(startedAt); err != nil {
		return nil, err
	}

	result, solveErr := h.executor.Run(ctx, cmd.Algorithm, env, cmd.Seed, cmd.MaxTime)

	var out *RunSolverResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		endedAt := time.Now()

		if solveErr != nil {
			if err := run.Fail(endedAt, solveErr.Error()); err != nil {
				return err
			}
		} else {
			if err := run.Complete(endedAt, result.Penalty, result.Breakdown, result.Converged); err != nil {
				return err
			}
		}

		if err := h.runRepo.Save(txCtx, run); err != nil {
			return err
		}

		events := run.DomainEvents()
		sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(uuid.Nil))

		msgs := make([]*outbox.Message, 0, len(events))
		for _, event := range events {
			msg, err := outbox.NewMessage(event)
			if err != nil {
				return err
			}
			msgs = append(msgs, msg)
		}
		if err := h.outbox.SaveBatch(txCtx, msgs); err != nil {
			return err
		}
		run.ClearDomainEvents()

		out = &RunSolverResult{RunID: run.ID(), Succeeded: solveErr == nil}
		if solveErr == nil {
			out.Result = result
			out.Report = services.QuickValidate(env, result.State)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info("solver run finished",
		"run_id", run.ID(),
		"algorithm", string(cmd.Algorithm),
		"status", string(run.Status()),
		"penalty", run.Penalty(),
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)

	if solveErr != nil {
		return out, solveErr
	}
	return out, nil
}
