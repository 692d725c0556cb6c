package cli

import (
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/commands"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/queries"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/application/services"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/cache"
	"github.com/Vamsichris04/finals-scheduler/internal/scheduling/infrastructure/loader"
	"github.com/Vamsichris04/finals-scheduler/pkg/config"
)

// App holds the CLI application dependencies.
type App struct {
	Config *config.Config

	RunSolverHandler      *commands.RunSolverHandler
	ListRecentRunsHandler *queries.ListRecentRunsHandler
	GetRunHandler         *queries.GetRunHandler

	Registry *services.Registry
	Executor *services.Executor
	Loader   loader.RosterLoader
	RunCache *cache.RunCache
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	cfg *config.Config,
	runSolverHandler *commands.RunSolverHandler,
	listRecentRunsHandler *queries.ListRecentRunsHandler,
	getRunHandler *queries.GetRunHandler,
	registry *services.Registry,
	executor *services.Executor,
) *App {
	return &App{
		Config:                cfg,
		RunSolverHandler:      runSolverHandler,
		ListRecentRunsHandler: listRecentRunsHandler,
		GetRunHandler:         getRunHandler,
		Registry:              registry,
		Executor:              executor,
	}
}

// SetLoader updates the roster loader.
func (a *App) SetLoader(l loader.RosterLoader) {
	a.Loader = l
}

// SetRunCache updates the run memoization cache.
func (a *App) SetRunCache(c *cache.RunCache) {
	a.RunCache = c
}

// app is the global CLI application instance.
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
