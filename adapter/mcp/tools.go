// Package mcp exposes scheduler operations as MCP tools, mirroring the CLI
// the way orbita's adapter/mcp package mirrors its own CLI surface.
package mcp

import (
	"errors"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/Vamsichris04/finals-scheduler/adapter/cli"
)

// ToolDependencies provides the CLI App an MCP tool handler needs.
type ToolDependencies struct {
	App *cli.App
}

// RegisterTools registers every MCP tool this module exposes.
func RegisterTools(srv *mcpgo.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	if err := registerScheduleTools(srv, deps); err != nil {
		return err
	}
	return nil
}
