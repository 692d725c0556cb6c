package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
	"github.com/sony/gobreaker/v2"
)

// ExecutorConfig configures the circuit breaker guarding plugin-hosted
// solver calls. In-process solvers never consult this breaker, only the
// deadline.
type ExecutorConfig struct {
	CircuitBreakerEnabled bool
	MaxRequests           uint32
	Interval              time.Duration
	Timeout               time.Duration
	FailureThreshold      uint32
}

// DefaultExecutorConfig returns a sensible default configuration,
// mirroring the teacher's engine runtime executor defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CircuitBreakerEnabled: true,
		MaxRequests:           1,
		Interval:              10 * time.Second,
		Timeout:               30 * time.Second,
		FailureThreshold:      3,
	}
}

// Executor dispatches a run to the registered solver for its algorithm,
// applying the run's max_time deadline in every case and a circuit
// breaker only when the solver is plugin-hosted (an out-of-process I/O
// boundary, unlike the four built-in in-process solvers).
type Executor struct {
	registry *Registry
	cfg      ExecutorConfig
	logger   *slog.Logger
	breakers map[domain.Algorithm]*gobreaker.CircuitBreaker[Result]
}

// NewExecutor binds a registry and configuration.
func NewExecutor(registry *Registry, cfg ExecutorConfig, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		registry: registry,
		cfg:      cfg,
		logger:   logger,
		breakers: make(map[domain.Algorithm]*gobreaker.CircuitBreaker[Result]),
	}
}

// Run looks up the solver for algorithm and executes it against env with
// seed, honoring maxTime as both the context deadline and the solver's own
// internal budget check.
func (e *Executor) Run(ctx context.Context, algorithm domain.Algorithm, env *Environment, seed int64, maxTime time.Duration) (Result, error) {
	solver, isPlugin, err := e.registry.Get(algorithm)
	if err != nil {
		return Result{}, err
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if maxTime > 0 {
		runCtx, cancel = context.WithTimeout(ctx, maxTime)
		defer cancel()
	}

	call := func() (Result, error) {
		return solver.Solve(runCtx, env, seed, maxTime)
	}

	if !isPlugin || !e.cfg.CircuitBreakerEnabled {
		return call()
	}

	breaker := e.getBreaker(algorithm)
	result, err := breaker.Execute(call)
	if err == gobreaker.ErrOpenState {
		e.logger.Warn("solver circuit open, skipping plugin invocation", "algorithm", string(algorithm))
	}
	return result, err
}

func (e *Executor) getBreaker(algorithm domain.Algorithm) *gobreaker.CircuitBreaker[Result] {
	if b, ok := e.breakers[algorithm]; ok {
		return b
	}

	settings := gobreaker.Settings{
		Name:        string(algorithm),
		MaxRequests: e.cfg.MaxRequests,
		Interval:    e.cfg.Interval,
		Timeout:     e.cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= e.cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Info("solver circuit breaker state changed", "algorithm", name, "from", from.String(), "to", to.String())
		},
	}

	b := gobreaker.NewCircuitBreaker[Result](settings)
	e.breakers[algorithm] = b
	return b
}
