package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/Vamsichris04/finals-scheduler/adapter/cli"
	"github.com/Vamsichris04/finals-scheduler/internal/app"
	mcpinternal "github.com/Vamsichris04/finals-scheduler/internal/mcp"
	"github.com/Vamsichris04/finals-scheduler/pkg/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := newServerLogger(cmd.OutOrStdout(), cfg.IsDevelopment())

		var container *app.Container
		if cfg.IsLocalMode() {
			container, err = app.NewLocalContainer(ctx, cfg, logger)
		} else {
			container, err = app.NewContainer(ctx, cfg, logger)
		}
		if err != nil {
			return err
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

		err = mcpinternal.Serve(ctx, cfg, cliApp, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func newServerLogger(out io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}
