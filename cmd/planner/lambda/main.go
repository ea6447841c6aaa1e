package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joeshaw/envdecode"

	"mealplanner"
	"mealplanner/planner"
	"mealplanner/pricing"
	"mealplanner/recipes"
	"mealplanner/setup"
)

type Params struct {
	Request string `json:"request"`
}

type Results struct {
	SessionID    string                     `json:"session_id"`
	Requirement  mealplanner.Requirement    `json:"requirement"`
	Recipes      []string                   `json:"recipes"`
	GroceryList  []planner.ConsolidatedItem `json:"grocery_list"`
	Quote        pricing.Quote              `json:"quote"`
	Conversation []mealplanner.Message      `json:"conversation"`
}

func main() {
	var catalog *recipes.Catalog

	fn := func(ctx context.Context, params Params) (Results, error) {
		cfg, err := setup.PlannerConfig()
		if err != nil {
			return Results{}, err
		}

		// The catalog is immutable, so warm invocations reuse it.
		if catalog == nil {
			var lambdaConfig mealplanner.LambdaConfig
			if err := envdecode.Decode(&lambdaConfig); err != nil {
				return Results{}, fmt.Errorf("failed to decode lambda config: %w", err)
			}
			c, err := setup.S3Catalog(ctx, lambdaConfig.CatalogS3Bucket, lambdaConfig.CatalogS3Key)
			if err != nil {
				slog.Error("SETUP: Failed to load recipe catalog from S3", "error", err)
				return Results{}, err
			}
			catalog = c
		}

		ext, _, err := setup.Extractor(ctx, cfg)
		if err != nil {
			slog.Error("SETUP: Failed to create extractor", "error", err)
			return Results{}, err
		}

		store, err := setup.Store(ctx, cfg)
		if err != nil {
			slog.Error("SETUP: Failed to open session store", "error", err)
			return Results{}, err
		}
		if store != nil {
			defer store.Close()
		}

		tracerProvider, meterProvider, otelShutdown, err := mealplanner.InitOtel(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
			return Results{}, err
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()

		wf, err := setup.Workflow(catalog, ext, cfg, mealplanner.NewStdoutSessionLogger(), store,
			planner.WithTracerProvider(tracerProvider),
			planner.WithMeterProvider(meterProvider))
		if err != nil {
			return Results{}, err
		}

		st, err := wf.Run(ctx, params.Request)
		if err != nil {
			slog.Error("RESULT: Error planning meals", "error", err)
			return Results{}, err
		}

		return newResults(st), nil
	}

	lambda.Start(fn)
}

func newResults(st *planner.State) Results {
	return Results{
		SessionID:    st.SessionID,
		Requirement:  st.Requirement,
		Recipes:      st.SelectedRecipes,
		GroceryList:  st.GroceryList,
		Quote:        pricing.PriceAndCheck(st.GroceryList, st.Requirement.Budget),
		Conversation: st.Conversation,
	}
}
