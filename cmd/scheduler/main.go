// Command scheduler is the CLI entrypoint: load configuration, wire a
// Container for the configured storage backend, and dispatch to cobra.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vamsichris04/finals-scheduler/adapter/cli"
	mcpcmd "github.com/Vamsichris04/finals-scheduler/adapter/cli/mcp"
	_ "github.com/Vamsichris04/finals-scheduler/adapter/cli/schedule"
	"github.com/Vamsichris04/finals-scheduler/internal/app"
	"github.com/Vamsichris04/finals-scheduler/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	var container *app.Container
	if cfg.IsLocalMode() {
		logger.Info("starting in local mode with SQLite", "database", cfg.SQLitePath)
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		logger.Info("starting in full mode with Postgres", "redis", cfg.RedisURL != "")
		container, err = app.NewContainer(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	cliApp := cli.NewApp(
		cfg,
		container.RunSolverHandler,
		container.ListRecentRunsHandler,
		container.GetRunHandler,
		container.Registry,
		container.Executor,
	)
	if container.Loader != nil {
		cliApp.SetLoader(container.Loader)
	}
	if container.RunCache != nil {
		cliApp.SetRunCache(container.RunCache)
	}

	cli.SetApp(cliApp)
	cli.AddCommand(mcpcmd.Cmd)
	cli.Execute()
}
