package recommendation

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

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// RecommendationError is returned by Fetch for every failure. Cause wraps
// either types.ErrParseFailure or types.ErrCapabilityFailure.
type RecommendationError struct {
	Cause error
}

func (e *RecommendationError) Error() string {
	return "recommendations: " + e.Cause.Error()
}

func (e *RecommendationError) Unwrap() error {
	return e.Cause
}

type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig matches the recommendation backend defaults.
func DefaultConfig() Config {
	return Config{MaxTokens: 800, Temperature: 0.2}
}

// Result is a fetched and enriched recommendation list.
type Result struct {
	Records []types.RecommendationRecord
	Context types.TripContext
}

type Pipeline struct {
	ai       generativeAI.TextCompletion
	enricher *places.Enricher
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

func NewPipeline(ai generativeAI.TextCompletion, enricher *places.Enricher, cfg Config, logger *slog.Logger) *Pipeline {
	def := DefaultConfig()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = def.Temperature
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{ai: ai, enricher: enricher, cfg: cfg, logger: logger, now: time.Now}
}

// Fetch asks the recommendation backend for 3-5 records matching state,
// enriches each one sequentially and snapshots the trip context.
func (p *Pipeline) Fetch(ctx context.Context, state *types.ConversationState) (*Result, error) {
	if state == nil {
		return nil, &RecommendationError{Cause: fmt.Errorf("no gathered trip info: %w", types.ErrStateCorruption)}
	}
	destination := Destination(state)

	ctx, span := otel.Tracer("Recommendation").Start(ctx, "Pipeline.Fetch", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Bool("new_destination", state.IsNewDestination),
	))
	defer span.End()

	prompt := BuildPrompt(state)
	out, err := p.ai.Complete(ctx, []generativeAI.Message{generativeAI.UserMessage(prompt)}, generativeAI.Options{
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	})
	if err != nil {
		if !errors.Is(err, types.ErrCapabilityFailure) {
			err = fmt.Errorf("%w: %w", types.ErrCapabilityFailure, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		p.logger.ErrorContext(ctx, "Recommendation completion failed", slog.Any("error", err))
		return nil, &RecommendationError{Cause: err}
	}

	records, tier, err := ParseWithTier(out.Content)
	if err != nil {
		p.recordTier(ctx, "failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		p.logger.WarnContext(ctx, "Could not parse recommendations",
			slog.Any("error", err),
			slog.Int("content_length", len(out.Content)))
		return nil, &RecommendationError{Cause: err}
	}
	p.recordTier(ctx, tier)
	if tier != TierStrict {
		p.logger.WarnContext(ctx, "Recommendations parsed with fallback",
			slog.String("tier", tier),
			slog.Int("content_length", len(out.Content)))
	}

	for i := range records {
		if ctx.Err() != nil {
			break
		}
		records[i].Enrichment = p.enricher.Enrich(ctx, records[i].Name, destination)
	}

	span.SetAttributes(attribute.Int("records", len(records)))
	span.SetStatus(codes.Ok, "recommendations fetched")
	p.logger.InfoContext(ctx, "Recommendations fetched",
		slog.String("destination", destination),
		slog.Int("count", len(records)))

	return &Result{Records: records, Context: p.snapshot(state, prompt)}, nil
}

func (p *Pipeline) snapshot(state *types.ConversationState, prompt string) types.TripContext {
	name := state.Answer(types.FieldTrip)
	if state.SelectedTrip != nil && state.SelectedTrip.Name != "" {
		name = state.SelectedTrip.Name
	}
	if name == "" {
		name = state.Answer(types.FieldDestination)
	}
	return types.TripContext{
		OriginalPrompt: prompt,
		TripName:       name,
		Destination:    Destination(state),
		ActivityType:   state.Answer(types.FieldEventType),
		TimePreference: state.Answer(types.FieldTimePreference),
		Budget:         state.Answer(types.FieldBudget),
		GroupSize:      state.Answer(types.FieldGroupSize),
		Preferences:    state.Answer(types.FieldActivityPreferences),
		Timestamp:      p.now(),
	}
}

func (p *Pipeline) recordTier(ctx context.Context, tier string) {
	metrics.Get().ParseTierTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", "recommendation"),
		attribute.String("tier", tier),
	))
}
