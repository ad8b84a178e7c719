package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// ErrEditParse is returned when an edited itinerary is not valid JSON.
var ErrEditParse = fmt.Errorf("invalid JSON response from AI service during edit: %w", types.ErrParseFailure)

type Config struct {
	MaxTripDays         int
	MaxActivitiesPerDay int
	MaxTokens           int
	Temperature         float64
	HistoryTTL          time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxTripDays:         DefaultMaxTripDays,
		MaxActivitiesPerDay: DefaultMaxActivitiesPerDay,
		MaxTokens:           2500,
		Temperature:         0.7,
		HistoryTTL:          time.Hour,
	}
}

// normalize replaces unusable values with defaults. MaxTripDays outside 1..30 is ignored.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.MaxTripDays < 1 || c.MaxTripDays > maxTripDaysLimit {
		c.MaxTripDays = def.MaxTripDays
	}
	if c.MaxActivitiesPerDay < 1 {
		c.MaxActivitiesPerDay = def.MaxActivitiesPerDay
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = def.MaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = def.Temperature
	}
	if c.HistoryTTL <= 0 {
		c.HistoryTTL = def.HistoryTTL
	}
	return c
}

type EditResult struct {
	Itinerary  types.Itinerary `json:"itinerary"`
	AIResponse string          `json:"aiResponse"`
}

type Pipeline struct {
	ai      generativeAI.TextCompletion
	history *History
	cfg     Config
	logger  *slog.Logger
	now     func() time.Time
}

func NewPipeline(ai generativeAI.TextCompletion, cfg Config, logger *slog.Logger) *Pipeline {
	cfg = cfg.normalize()
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		ai:      ai,
		history: NewHistory(cfg.HistoryTTL),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (p *Pipeline) MaxTripDays() int {
	return p.cfg.MaxTripDays
}

func (p *Pipeline) options() generativeAI.Options {
	return generativeAI.Options{
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
		Schema:      &generativeAI.JSONSchema{Name: "trip_itinerary", Schema: Schema()},
	}
}

// Generate plans the request's window. Malformed output degrades through the
// parse tiers; only a failed completion is returned as an error.
func (p *Pipeline) Generate(ctx context.Context, req types.PlannerRequest) (types.Itinerary, ParseResult, error) {
	if req.Trip.ID == "" {
		req.Trip.ID = uuid.NewString()
	}
	ctx, span := otel.Tracer("Itinerary").Start(ctx, "Pipeline.Generate", trace.WithAttributes(
		attribute.String("trip.id", req.Trip.ID),
		attribute.String("trip.destination", req.Trip.Destination),
	))
	defer span.End()

	now := p.now()
	w := PlanningWindow(req.Trip, req.DateRange, p.cfg.MaxTripDays, now)
	span.SetAttributes(attribute.Int("window.days", w.Days), attribute.Bool("window.partial", w.Partial()))

	messages := []generativeAI.Message{
		generativeAI.SystemMessage(systemPrompt(p.cfg.MaxActivitiesPerDay)),
		generativeAI.UserMessage(BuildPrompt(req, w)),
	}
	out, err := p.ai.Complete(ctx, messages, p.options())
	if err != nil {
		if !errors.Is(err, types.ErrCapabilityFailure) {
			err = fmt.Errorf("%w: %w", types.ErrCapabilityFailure, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		p.logger.ErrorContext(ctx, "Itinerary completion failed", slog.Any("error", err))
		return types.Itinerary{}, ParseResult{}, fmt.Errorf("generate itinerary: %w", err)
	}

	it, result := Parse(out.Content, Defaults{
		TripID:      req.Trip.ID,
		Destination: req.Trip.Destination,
		Start:       w.Start,
		GeneratedAt: now,
	})
	p.recordTier(ctx, "itinerary", result.Tier)
	if result.Degraded() {
		p.logger.WarnContext(ctx, "Itinerary parsed with fallback",
			slog.String("tier", result.Tier.String()),
			slog.String("detail", result.Detail),
			slog.Int("content_length", len(out.Content)))
	}

	p.history.Set(req.Trip.ID, append(messages, generativeAI.AssistantMessage(out.Content)))

	span.SetAttributes(attribute.String("parse.tier", result.Tier.String()), attribute.Int("days", len(it.Days)))
	span.SetStatus(codes.Ok, "itinerary generated")
	return it, result, nil
}

// Edit replays the trip's conversation with a modification request. The reply must parse strictly.
func (p *Pipeline) Edit(ctx context.Context, current types.Itinerary, request string) (EditResult, error) {
	ctx, span := otel.Tracer("Itinerary").Start(ctx, "Pipeline.Edit", trace.WithAttributes(
		attribute.String("trip.id", current.TripID),
	))
	defer span.End()

	messages, ok := p.history.Get(current.TripID)
	if !ok {
		messages = []generativeAI.Message{generativeAI.SystemMessage(systemPrompt(p.cfg.MaxActivitiesPerDay))}
	}
	messages = append(messages, generativeAI.UserMessage(editPrompt(request, current)))

	out, err := p.ai.Complete(ctx, messages, p.options())
	if err != nil {
		if !errors.Is(err, types.ErrCapabilityFailure) {
			err = fmt.Errorf("%w: %w", types.ErrCapabilityFailure, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		return EditResult{}, fmt.Errorf("edit itinerary: %w", err)
	}

	updated, err := ParseStrict(out.Content)
	if err != nil {
		p.recordTier(ctx, "itinerary_edit", TierFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "edit parse failed")
		p.logger.WarnContext(ctx, "Edited itinerary is not valid JSON", slog.Any("error", err))
		return EditResult{}, fmt.Errorf("%w: %w", ErrEditParse, err)
	}
	p.recordTier(ctx, "itinerary_edit", TierStrict)

	if updated.TripID == "" {
		updated.TripID = current.TripID
	}
	updated.GeneratedAt = p.now().Format(time.RFC3339)
	updated.Summary = Summarize(updated.Days, updated.Summary.EstimatedBudget)

	p.history.Set(current.TripID, append(messages, generativeAI.AssistantMessage(out.Content)))

	span.SetStatus(codes.Ok, "itinerary edited")
	return EditResult{Itinerary: updated, AIResponse: out.Content}, nil
}

// ResetConversation forgets the stored history of a trip.
func (p *Pipeline) ResetConversation(tripID string) {
	p.history.Reset(tripID)
}

func (p *Pipeline) recordTier(ctx context.Context, pipeline string, tier Tier) {
	metrics.Get().ParseTierTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("tier", tier.String()),
	))
}
