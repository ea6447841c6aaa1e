package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"mealplanner"
	"mealplanner/planner"
	"mealplanner/pricing"
	"mealplanner/setup"
	"mealplanner/slack"
)

type planOptions struct {
	dump      bool
	slack     bool
	telemetry bool
	logFile   bool
}

func planCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan <request>",
		Short: "Run a planning session for a free-form request",
		Example: `  planner plan "I need 3 vegetarian dinners under $40"
  planner plan --mcp-command "recipe-mcp" "5 low-carb dinners"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.Context(), cmd.OutOrStdout(), root, opts, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Dump the final session state")
	cmd.Flags().BoolVar(&opts.slack, "slack", false, "Post the plan to SLACK_WEBHOOK_URL")
	cmd.Flags().BoolVar(&opts.telemetry, "otel", false, "Export traces and metrics over OTLP")
	cmd.Flags().BoolVar(&opts.logFile, "log-session", false, "Write a JSON session log under ./logs")
	return cmd
}

func runPlan(ctx context.Context, out io.Writer, root *rootOptions, opts *planOptions, request string) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	if opts.telemetry {
		_, _, otelShutdown, err := mealplanner.InitOtel(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()
	}

	ext, model, err := setup.Extractor(ctx, cfg)
	if err != nil {
		return err
	}

	catalog, closeCatalog, err := openCatalog(ctx, root)
	if err != nil {
		return err
	}
	defer closeCatalog()

	store, err := setup.Store(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	var logger mealplanner.SessionLogger = mealplanner.NewNoOpSessionLogger()
	if opts.logFile {
		fileLogger, cleanup, err := setup.SessionLogger(model)
		if err != nil {
			return err
		}
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("SETUP: Failed to flush session log", "error", err)
			}
		}()
		logger = fileLogger
	}

	wf, err := setup.Workflow(catalog, ext, cfg, logger, store)
	if err != nil {
		return err
	}

	st, err := wf.Run(ctx, request)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	quote := pricing.PriceAndCheck(st.GroceryList, st.Requirement.Budget)

	if opts.dump {
		mealplanner.Dump(st, quote)
	}
	printSession(out, st, quote)

	if opts.slack {
		if cfg.SlackWebhookURL == "" {
			return fmt.Errorf("SLACK_WEBHOOK_URL is not set")
		}
		client := slack.NewClient(cfg.SlackWebhookURL, http.DefaultClient)
		if err := client.PostPlan(ctx, cfg.SlackChannel, st, quote); err != nil {
			return fmt.Errorf("failed to post plan to Slack: %w", err)
		}
		fmt.Fprintf(out, "\nPosted plan to %s\n", cfg.SlackChannel)
	}
	return nil
}

func printSession(out io.Writer, st *planner.State, quote pricing.Quote) {
	for _, m := range st.Conversation {
		fmt.Fprintf(out, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	fmt.Fprintf(out, "Session: %s\n", st.SessionID)
	fmt.Fprintln(out, quote.String())
}
