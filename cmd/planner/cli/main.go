// Command planner plans a week of dinners from a free-form request and
// browses the recipe catalog.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mealplanner"
	"mealplanner/recipes"
	"mealplanner/setup"
)

type rootOptions struct {
	catalogPath string
	mcpCommand  string
	logLevel    string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "planner",
		Short:         "Plan dinners within a budget",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(opts.logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "Recipe catalog file (JSON or YAML); overrides CATALOG_PATH")
	cmd.PersistentFlags().StringVar(&opts.mcpCommand, "mcp-command", "", "Read recipes from an MCP server started with this command")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	cmd.AddCommand(planCmd(opts), catalogCmd(opts))
	return cmd
}

func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// loadConfig decodes the environment and applies flag overrides.
func loadConfig(opts *rootOptions) (mealplanner.PlannerConfig, error) {
	cfg, err := setup.PlannerConfig()
	if err != nil {
		return cfg, err
	}
	if opts.catalogPath != "" {
		cfg.CatalogPath = opts.catalogPath
	}
	return cfg, nil
}

func openCatalog(ctx context.Context, opts *rootOptions) (recipes.Reader, func(), error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	reader, closer, err := setup.Catalog(ctx, cfg, opts.mcpCommand)
	if err != nil {
		return nil, nil, err
	}
	return reader, func() {
		if err := closer.Close(); err != nil {
			slog.Warn("CATALOG: Failed to close catalog", "error", err)
		}
	}, nil
}
