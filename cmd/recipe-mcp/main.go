// Command recipe-mcp serves the recipe catalog as an MCP server over stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mealplanner/mcpserver"
	"mealplanner/setup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// stdout carries the protocol, so logs go to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := setup.PlannerConfig()
	if err != nil {
		slog.Error("SETUP: Failed to decode config", "error", err)
		os.Exit(1)
	}

	catalog, err := setup.LocalCatalog(ctx, cfg.CatalogPath)
	if err != nil {
		slog.Error("SETUP: Failed to load recipe catalog", "error", err)
		os.Exit(1)
	}

	server, err := mcpserver.New(catalog)
	if err != nil {
		slog.Error("SETUP: Failed to create MCP server", "error", err)
		os.Exit(1)
	}

	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil && ctx.Err() == nil {
		slog.Error("MCP_SERVER: Server stopped", "error", err)
		os.Exit(1)
	}
}
