package plugin

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"
)

// ErrPluginUnavailable is returned when the plugin process cannot be
// dispatched to (crashed, handshake failure, or missing binary).
var ErrPluginUnavailable = errors.New("solver plugin unavailable")

// HostedSolver launches a solver plugin binary on first use and adapts it
// to services.Solver, so the Registry and Executor treat it exactly like
// an in-process solver except for the isPlugin flag passed at
// registration time.
type HostedSolver struct {
	algorithm  domain.Algorithm
	binaryPath string
	logger     *slog.Logger
	client     *goplugin.Client
}

// NewHostedSolver wires a plugin binary at binaryPath to algorithm's slot
// in the registry. A nil logger falls back to slog.Default.
func NewHostedSolver(algorithm domain.Algorithm, binaryPath string, logger *slog.Logger) *HostedSolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &HostedSolver{algorithm: algorithm, binaryPath: binaryPath, logger: logger}
}

// Algorithm identifies this solver for run metadata.
func (h *HostedSolver) Algorithm() domain.Algorithm { return h.algorithm }

// Solve launches (or reuses) the plugin process, marshals env into a
// RunRequest, and unmarshals the result into a ScheduleState.
func (h *HostedSolver) Solve(ctx context.Context, env *services.Environment, seed int64, maxTime time.Duration) (services.Result, error) {
	start := time.Now()

	solver, err := h.dial()
	if err != nil {
		return services.Result{}, ErrPluginUnavailable
	}

	req := toRunRequest(env, seed, maxTime)
	resp, err := solver.Solve(req)
	if err != nil {
		return services.Result{}, err
	}
	if resp.Error != "" {
		return services.Result{}, errors.New(resp.Error)
	}

	state, err := fromAssignment(env, resp.Assignment)
	if err != nil {
		return services.Result{}, err
	}

	penalty, breakdown := env.Evaluate(state)
	return services.Result{
		Algorithm: h.algorithm,
		State:     state,
		Penalty:   penalty,
		Breakdown: breakdown,
		Converged: resp.Converged,
		Runtime:   time.Since(start),
	}, nil
}

// Close terminates the plugin process, if one was started.
func (h *HostedSolver) Close() {
	if h.client != nil {
		h.client.Kill()
	}
}

func (h *HostedSolver) dial() (Solver, error) {
	if h.client == nil {
		h.client = goplugin.NewClient(&goplugin.ClientConfig{
			HandshakeConfig: HandshakeConfig,
			Plugins:         map[string]goplugin.Plugin{"solver": &SolverPlugin{}},
			Cmd:             exec.Command(h.binaryPath),
			Logger:          newHclogAdapter(h.logger, string(h.algorithm)),
		})
	}

	rpcClient, err := h.client.Client()
	if err != nil {
		return nil, err
	}
	raw, err := rpcClient.Dispense("solver")
	if err != nil {
		return nil, err
	}
	solver, ok := raw.(Solver)
	if !ok {
		return nil, ErrPluginUnavailable
	}
	return solver, nil
}

// hclogAdapter routes go-plugin's hclog.Logger calls through the host
// process's own slog.Logger, so a plugin subprocess's handshake and
// protocol log lines land in the same structured log as everything else.
type hclogAdapter struct {
	logger *slog.Logger
	name   string
}

func newHclogAdapter(logger *slog.Logger, name string) *hclogAdapter {
	return &hclogAdapter{logger: logger, name: name}
}

func (h *hclogAdapter) Log(level hclog.Level, msg string, args ...interface{}) {
	switch level {
	case hclog.Trace, hclog.Debug:
		h.logger.Debug(msg, args...)
	case hclog.Info:
		h.logger.Info(msg, args...)
	case hclog.Warn:
		h.logger.Warn(msg, args...)
	case hclog.Error:
		h.logger.Error(msg, args...)
	default:
		h.logger.Debug(msg, args...)
	}
}

func (h *hclogAdapter) Trace(msg string, args ...interface{}) { h.logger.Debug(msg, args...) }
func (h *hclogAdapter) Debug(msg string, args ...interface{}) { h.logger.Debug(msg, args...) }
func (h *hclogAdapter) Info(msg string, args ...interface{})  { h.logger.Info(msg, args...) }
func (h *hclogAdapter) Warn(msg string, args ...interface{})  { h.logger.Warn(msg, args...) }
func (h *hclogAdapter) Error(msg string, args ...interface{}) { h.logger.Error(msg, args...) }

func (h *hclogAdapter) IsTrace() bool { return false }
func (h *hclogAdapter) IsDebug() bool { return true }
func (h *hclogAdapter) IsInfo() bool  { return true }
func (h *hclogAdapter) IsWarn() bool  { return true }
func (h *hclogAdapter) IsError() bool { return true }

func (h *hclogAdapter) ImpliedArgs() []interface{} { return nil }

func (h *hclogAdapter) With(args ...interface{}) hclog.Logger { return h }

func (h *hclogAdapter) Name() string { return h.name }

func (h *hclogAdapter) Named(name string) hclog.Logger {
	return &hclogAdapter{logger: h.logger, name: h.name + "." + name}
}

func (h *hclogAdapter) ResetNamed(name string) hclog.Logger {
	return &hclogAdapter{logger: h.logger, name: name}
}

func (h *hclogAdapter) SetLevel(hclog.Level) {}

func (h *hclogAdapter) GetLevel() hclog.Level { return hclog.Debug }

func (h *hclogAdapter) StandardLogger(*hclog.StandardLoggerOptions) *log.Logger {
	return log.Default()
}

func (h *hclogAdapter) StandardWriter(*hclog.StandardLoggerOptions) io.Writer {
	return os.Stderr
}

func toRunRequest(env *services.Environment, seed int64, maxTime time.Duration) RunRequest {
	workers := make([]WorkerDTO, 0, env.Roster().Len())
	for _, w := range env.Roster().All() {
		dto := WorkerDTO{
			ID:           w.ID,
			Name:         w.Name,
			Tier:         int(w.Tier),
			IsCommuter:   w.IsCommuter,
			IsActive:     w.IsActive,
			DesiredHours: w.DesiredHours,
			IsFloater:    w.IsFloater,
		}
		for _, busy := range w.BusyIntervals {
			dto.BusyDate = append(dto.BusyDate, busy.Date)
			dto.BusyStartMin = append(dto.BusyStartMin, busy.StartMinute)
			dto.BusyEndMin = append(dto.BusyEndMin, busy.EndMinute)
		}
		workers = append(workers, dto)
	}

	slots := make([]SlotDTO, 0, env.Catalog().Len())
	for _, s := range env.Catalog().Slots() {
		slots = append(slots, SlotDTO{
			SlotIndex:     s.SlotIndex,
			Date:          s.Date,
			StartHour:     s.StartHour,
			DurationHours: s.DurationHours,
			ShiftKind:     string(s.ShiftKind),
			StaffMin:      s.StaffMin,
			StaffMax:      s.StaffMax,
		})
	}

	return RunRequest{
		Workers:        workers,
		Slots:          slots,
		Seed:           seed,
		MaxTimeSeconds: maxTime.Seconds(),
	}
}

func fromAssignment(env *services.Environment, assignment [][]string) (*domain.ScheduleState, error) {
	state := env.NewState()
	if len(assignment) != env.Catalog().Len() {
		return nil, errors.New("plugin response assignment length does not match catalog")
	}
	for slotIndex, workerIDs := range assignment {
		for _, id := range workerIDs {
			if state.HasWorker(slotIndex, id) {
				continue
			}
			if err := state.Assign(slotIndex, id); err != nil {
				return nil, err
			}
		}
	}
	return state, nil
}
