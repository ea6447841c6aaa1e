package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"mealplanner"
	"mealplanner/recipes"
)

const (
	defaultExtractTimeout = 30 * time.Second
	defaultMaxSteps       = 16
)

// ErrStepLimit is returned when a session takes more transitions than allowed.
var ErrStepLimit = errors.New("planning session exceeded step limit")

// Store receives the terminal state of every successful session.
type Store interface {
	Save(ctx context.Context, st *State) error
}

// Workflow runs planning sessions against one catalog and extractor. It holds
// no per-session data and is safe for concurrent use.
type Workflow struct {
	catalog        recipes.Reader
	extractor      mealplanner.PreferenceExtractor
	logger         mealplanner.SessionLogger
	store          Store
	router         Router
	extractTimeout time.Duration
	maxSteps       int
	tracer         trace.Tracer
	meter          metric.Meter
	metrics        *instruments
}

type Option func(*Workflow)

func WithLogger(l mealplanner.SessionLogger) Option {
	return func(w *Workflow) { w.logger = l }
}

func WithStore(s Store) Option {
	return func(w *Workflow) { w.store = s }
}

// WithRouter replaces the decision taken after Optimize.
func WithRouter(r Router) Option {
	return func(w *Workflow) { w.router = r }
}

func WithExtractTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.extractTimeout = d }
}

func WithMaxSteps(n int) Option {
	return func(w *Workflow) { w.maxSteps = n }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(w *Workflow) { w.tracer = tp.Tracer(mealplanner.TracerNamePlanner) }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(w *Workflow) { w.meter = mp.Meter(mealplanner.MeterNamePlanner) }
}

// New builds a workflow. Telemetry defaults to the global providers.
func New(catalog recipes.Reader, extractor mealplanner.PreferenceExtractor, opts ...Option) (*Workflow, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if extractor == nil {
		return nil, fmt.Errorf("preference extractor is required")
	}

	w := &Workflow{
		catalog:        catalog,
		extractor:      extractor,
		logger:         mealplanner.NewNoOpSessionLogger(),
		router:         RouteOnCostFlag,
		extractTimeout: defaultExtractTimeout,
		maxSteps:       defaultMaxSteps,
		tracer:         otel.Tracer(mealplanner.TracerNamePlanner),
		meter:          otel.Meter(mealplanner.MeterNamePlanner),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.maxSteps <= 0 {
		return nil, fmt.Errorf("max steps must be positive, got %d", w.maxSteps)
	}

	metrics, err := newInstruments(w.meter)
	if err != nil {
		return nil, err
	}
	w.metrics = metrics
	return w, nil
}

// Run drives one session from Gather to Done and returns the terminal state.
// On error no state is returned.
func (w *Workflow) Run(ctx context.Context, request string) (*State, error) {
	st := NewState(request)

	ctx, span := w.tracer.Start(ctx, "Workflow.Run", trace.WithAttributes(
		attribute.String("session.id", st.SessionID),
	))
	defer span.End()

	w.metrics.sessions.Add(ctx, 1)
	slog.Info("PLANNER: Starting session", "session_id", st.SessionID, "request", request)

	for !st.Stage.IsTerminal() {
		if st.Step >= w.maxSteps {
			return nil, w.fail(ctx, span, st, fmt.Errorf("%w: %d", ErrStepLimit, w.maxSteps))
		}
		if err := ctx.Err(); err != nil {
			return nil, w.fail(ctx, span, st, fmt.Errorf("session cancelled: %w", err))
		}

		stage := st.Stage
		started := time.Now()
		next, err := w.step(ctx, st)
		if err != nil {
			return nil, w.fail(ctx, span, st, err)
		}
		if !CanTransition(stage, next) {
			return nil, w.fail(ctx, span, st, fmt.Errorf("invalid transition %s -> %s", stage, next))
		}

		st.Stage = next
		st.Step++
		w.metrics.stepTaken(ctx, stage, started)
		w.logStep(st, stage, next, st.LastMessage().Content, nil)
		slog.Info("PLANNER: Transition", "session_id", st.SessionID, "step", st.Step, "from", stage, "to", next)
	}

	if w.store != nil {
		if err := w.store.Save(ctx, st); err != nil {
			return nil, w.fail(ctx, span, st, fmt.Errorf("failed to save session: %w", err))
		}
	}

	span.SetAttributes(
		attribute.Int("session.steps", st.Step),
		attribute.StringSlice("session.recipes", st.SelectedRecipes),
		attribute.Int("session.grocery_items", len(st.GroceryList)),
	)
	slog.Info("PLANNER: Session complete", "session_id", st.SessionID, "steps", st.Step, "recipes", len(st.SelectedRecipes))
	return st, nil
}

func (w *Workflow) fail(ctx context.Context, span trace.Span, st *State, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	w.metrics.sessionFailed(ctx, st.Stage)
	w.logStep(st, st.Stage, "", "", err)
	slog.Error("PLANNER: Session failed", "session_id", st.SessionID, "stage", st.Stage, "error", err)
	return err
}

func (w *Workflow) logStep(st *State, stage, next Stage, msg string, err error) {
	entry := mealplanner.StepLog{
		SessionID: st.SessionID,
		Step:      st.Step,
		Stage:     stage.String(),
		Next:      next.String(),
		Timestamp: time.Now(),
		Message:   msg,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if lerr := w.logger.LogStep(entry); lerr != nil {
		slog.Warn("PLANNER: Failed to log step", "error", lerr)
	}
}

func (w *Workflow) step(ctx context.Context, st *State) (Stage, error) {
	ctx, span := w.tracer.Start(ctx, "Workflow."+st.Stage.String())
	defer span.End()

	switch st.Stage {
	case StageGather:
		return w.gather(ctx, st)
	case StageSuggest:
		return w.suggest(ctx, st)
	case StageCheckOverlap:
		return w.checkOverlap(ctx, st)
	case StageOptimize:
		return w.optimize(ctx, st)
	default:
		return "", fmt.Errorf("no handler for stage %q", st.Stage)
	}
}

func (w *Workflow) gather(ctx context.Context, st *State) (Stage, error) {
	ctx, cancel := context.WithTimeout(ctx, w.extractTimeout)
	defer cancel()

	req, err := w.extractor.Extract(ctx, st.Request())
	if err != nil {
		if errors.Is(err, mealplanner.ErrExtractionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", mealplanner.ErrExtractionFailed, err)
	}
	if err := req.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", mealplanner.ErrExtractionFailed, err)
	}
	if req.DietaryTags == nil {
		req.DietaryTags = []string{}
	}

	st.Requirement = req
	st.say(gatherMessage(req))
	return StageSuggest, nil
}

func (w *Workflow) suggest(ctx context.Context, st *State) (Stage, error) {
	names, err := Select(ctx, w.catalog, st.Requirement)
	if err != nil {
		return "", fmt.Errorf("failed to select recipes: %w", err)
	}
	if len(names) < st.Requirement.NumRecipes {
		slog.Warn("PLANNER: Catalog exhausted", "session_id", st.SessionID, "requested", st.Requirement.NumRecipes, "selected", len(names))
	}

	combined := make([]recipes.Ingredient, 0)
	for _, name := range names {
		r, err := w.catalog.Get(ctx, name)
		if err != nil {
			return "", fmt.Errorf("failed to get recipe %q: %w", name, err)
		}
		combined = append(combined, r.Ingredients...)
	}

	st.SelectedRecipes = names
	st.CombinedIngredients = combined
	st.NeedsCostCalculation = false
	st.Overlaps = nil
	st.GroceryList = nil
	st.say(suggestMessage(names))
	return StageCheckOverlap, nil
}

func (w *Workflow) checkOverlap(ctx context.Context, st *State) (Stage, error) {
	st.Overlaps = Overlaps(st.CombinedIngredients)
	w.metrics.overlapItems.Record(ctx, int64(len(st.Overlaps)))
	st.say(overlapMessage(st.Overlaps))
	return StageOptimize, nil
}

func (w *Workflow) optimize(ctx context.Context, st *State) (Stage, error) {
	st.GroceryList = Consolidate(st.CombinedIngredients)
	st.NeedsCostCalculation = true
	w.metrics.groceryItems.Record(ctx, int64(len(st.GroceryList)))
	st.say(optimizeMessage(st.SelectedRecipes, st.GroceryList))
	return w.router(st), nil
}
