// Package plugin hosts third-party solver binaries out-of-process via
// hashicorp/go-plugin's net/rpc transport. This is an extension point: the
// four built-in solvers (internal/scheduling/application/services) always
// run in-process and never touch this package. A plugin call is the one
// place a "solver invocation" is actually network/IPC I/O, which is why the
// Executor (services.Executor) is the only place that wraps a solver call
// in a circuit breaker.
package plugin

import (
	"net/rpc"
	"time"

	goplugin "github.com/hashicorp/go-plugin"
)

// HandshakeConfig is the shared handshake both host and plugin processes
// must agree on before a connection is trusted.
var HandshakeConfig = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "SCHEDULER_SOLVER_PLUGIN",
	MagicCookieValue: "finals-scheduler",
}

// WorkerDTO is the wire-transparent shape of a worker: only exported
// fields, since domain.Worker carries unexported state and is not
// gob-encodable as-is.
type WorkerDTO struct {
	ID           string
	Name         string
	Tier         int
	IsCommuter   bool
	IsActive     bool
	DesiredHours int
	IsFloater    bool
	BusyDate     []time.Time
	BusyStartMin []int
	BusyEndMin   []int
}

// SlotDTO is the wire-transparent shape of one catalog slot.
type SlotDTO struct {
	SlotIndex     int
	Date          time.Time
	StartHour     int
	DurationHours int
	ShiftKind     string
	StaffMin      int
	StaffMax      int
}

// RunRequest is what the host sends a plugin-hosted solver.
type RunRequest struct {
	Workers        []WorkerDTO
	Slots          []SlotDTO
	Seed           int64
	MaxTimeSeconds float64
}

// RunResponse is what a plugin-hosted solver returns: the final assignment
// (worker ids per slot index, in slot-index order) plus the metadata the
// host needs to re-evaluate and persist the run.
type RunResponse struct {
	Assignment [][]string
	Converged  bool
	Error      string
}

// Solver is the interface a third-party solver plugin binary implements.
type Solver interface {
	Solve(req RunRequest) (RunResponse, error)
}

// rpcServer adapts a Solver to net/rpc's method-shape requirement.
type rpcServer struct {
	impl Solver
}

func (s *rpcServer) Solve(req RunRequest, resp *RunResponse) error {
	out, err := s.impl.Solve(req)
	if err != nil {
		out.Error = err.Error()
	}
	*resp = out
	return nil
}

// RPCClient is the host-side stub a plugin.Client hands back; it satisfies
// Solver by making a single net/rpc round trip per call.
type RPCClient struct {
	client *rpc.Client
}

// Solve sends req to the plugin process and waits for its response.
func (c *RPCClient) Solve(req RunRequest) (RunResponse, error) {
	var resp RunResponse
	err := c.client.Call("Plugin.Solve", req, &resp)
	return resp, err
}

// SolverPlugin implements go-plugin's Plugin interface for the net/rpc
// transport, gluing Solver to the generic client/server plumbing.
type SolverPlugin struct {
	// Impl is set on the plugin-binary side before calling plugin.Serve.
	Impl Solver
}

// Server returns the RPC server wrapping Impl, called inside the plugin
// process.
func (p *SolverPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &rpcServer{impl: p.Impl}, nil
}

// Client returns the RPC client stub, called inside the host process.
func (p *SolverPlugin) Client(b *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &RPCClient{client: c}, nil
}

// Serve starts a plugin binary serving impl over net/rpc. Call this from a
// plugin binary's main function.
func Serve(impl Solver) {
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: HandshakeConfig,
		Plugins: map[string]goplugin.Plugin{
			"solver": &SolverPlugin{Impl: impl},
		},
	})
}
