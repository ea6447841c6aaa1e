package planner

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	sessions      metric.Int64Counter
	failed        metric.Int64Counter
	steps         metric.Int64Counter
	stageDuration metric.Float64Histogram
	overlapItems  metric.Int64Histogram
	groceryItems  metric.Int64Histogram
}

func newInstruments(m metric.Meter) (*instruments, error) {
	var (
		in  instruments
		err error
	)
	if in.sessions, err = m.Int64Counter("planner_sessions_total",
		metric.WithDescription("Planning sessions started")); err != nil {
		return nil, fmt.Errorf("failed to create sessions counter: %w", err)
	}
	if in.failed, err = m.Int64Counter("planner_sessions_failed_total",
		metric.WithDescription("Planning sessions that ended in an error")); err != nil {
		return nil, fmt.Errorf("failed to create failed sessions counter: %w", err)
	}
	if in.steps, err = m.Int64Counter("planner_steps_total",
		metric.WithDescription("Workflow transitions taken")); err != nil {
		return nil, fmt.Errorf("failed to create steps counter: %w", err)
	}
	if in.stageDuration, err = m.Float64Histogram("planner_stage_duration_seconds",
		metric.WithDescription("Time spent in each stage"),
		metric.WithUnit("s")); err != nil {
		return nil, fmt.Errorf("failed to create stage duration histogram: %w", err)
	}
	if in.overlapItems, err = m.Int64Histogram("planner_overlap_items",
		metric.WithDescription("Overlapping ingredients per session")); err != nil {
		return nil, fmt.Errorf("failed to create overlap histogram: %w", err)
	}
	if in.groceryItems, err = m.Int64Histogram("planner_grocery_items",
		metric.WithDescription("Consolidated grocery lines per session")); err != nil {
		return nil, fmt.Errorf("failed to create grocery histogram: %w", err)
	}
	return &in, nil
}

func (in *instruments) stepTaken(ctx context.Context, stage Stage, started time.Time) {
	attrs := metric.WithAttributes(attribute.String("stage", stage.String()))
	in.steps.Add(ctx, 1, attrs)
	in.stageDuration.Record(ctx, time.Since(started).Seconds(), attrs)
}

func (in *instruments) sessionFailed(ctx context.Context, stage Stage) {
	in.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage.String())))
}
