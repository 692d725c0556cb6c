package services

import (
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/domain"
)

// registration pairs a Solver with whether it runs out-of-process (hosted
// via go-plugin) or in-process. Only out-of-process solvers are wrapped in
// a circuit breaker by the Executor (see executor.go) — an in-process call
// is a plain function call, never an I/O boundary worth breaking.
type registration struct {
	solver   Solver
	isPlugin bool
}

// Registry maps an Algorithm name to its Solver implementation. The four
// built-in solvers are always in-process; third-party solver binaries can
// be registered as plugin-backed Solver adapters (see
// internal/scheduling/infrastructure/plugin) without the driver or
// Executor knowing the difference beyond the isPlugin flag.
type Registry struct {
	solvers map[domain.Algorithm]registration
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{solvers: make(map[domain.Algorithm]registration)}
}

// NewDefaultRegistry returns a registry with the four built-in solvers
// registered in-process.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewGreedySolver(), false)
	r.Register(NewGASolver(DefaultGAConfig()), false)
	r.Register(NewSASolver(DefaultSAConfig()), false)
	r.Register(NewCSPSolver(DefaultCSPConfig()), false)
	return r
}

// Register adds or replaces the solver for its own Algorithm() name.
func (r *Registry) Register(solver Solver, isPlugin bool) {
	r.solvers[solver.Algorithm()] = registration{solver: solver, isPlugin: isPlugin}
}

// Get looks up the solver for algorithm and reports whether it is
// plugin-hosted.
func (r *Registry) Get(algorithm domain.Algorithm) (Solver, bool, error) {
	reg, ok := r.solvers[algorithm]
	if !ok {
		return nil, false, domain.ErrUnknownAlgorithm
	}
	return reg.solver, reg.isPlugin, nil
}

// Algorithms lists every registered algorithm name.
func (r *Registry) Algorithms() []domain.Algorithm {
	out := make([]domain.Algorithm, 0, len(r.solvers))
	for algo := range r.solvers {
		out = append(out, algo)
	}
	return out
}
