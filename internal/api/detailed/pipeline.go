package detailed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/api/textextract"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const genericName = "Activity"

var ErrEmptyPlan = errors.New("high-level plan has no days")

var titleCase = cases.Title(language.English)

type Config struct {
	MaxTokens   int
	Temperature float64
}

func DefaultConfig() Config {
	return Config{MaxTokens: 2000, Temperature: 0.7}
}

// Pipeline expands a high-level plan into timed, place-enriched events.
type Pipeline struct {
	ai       generativeAI.TextCompletion
	enricher *places.Enricher
	cfg      Config
	logger   *slog.Logger
	now      func() time.Time
}

func NewPipeline(ai generativeAI.TextCompletion, enricher *places.Enricher, cfg Config, logger *slog.Logger) *Pipeline {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{ai: ai, enricher: enricher, cfg: cfg, logger: logger, now: time.Now}
}

// GenerateDay asks the AI for the events of one day and maps them onto the event enum.
// Events without a usable start or end time are dropped.
func (p *Pipeline) GenerateDay(ctx context.Context, day types.PlanDay, plan types.HighLevelPlan, req types.PlannerRequest) ([]types.DayEvent, error) {
	ctx, span := otel.Tracer("Detailed").Start(ctx, "Pipeline.GenerateDay", trace.WithAttributes(
		attribute.Int("day.number", day.DayNumber),
		attribute.String("day.topic", day.Topic),
	))
	defer span.End()

	out, err := p.ai.Complete(ctx, []generativeAI.Message{
		generativeAI.UserMessage(BuildDayPrompt(day, plan, req)),
	}, generativeAI.Options{
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
		Schema:      &generativeAI.JSONSchema{Name: "day_events", Schema: DaySchema()},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		if !errors.Is(err, types.ErrCapabilityFailure) {
			err = fmt.Errorf("%w: %w", types.ErrCapabilityFailure, err)
		}
		return nil, fmt.Errorf("generate day %d: %w", day.DayNumber, err)
	}

	raw, tier := ParseEvents(out.Content)
	metrics.Get().ParseTierTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("pipeline", "detailed"),
		attribute.String("tier", tier),
	))
	if tier != tierStrict {
		p.logger.WarnContext(ctx, "Day events recovered from malformed output",
			slog.Int("day", day.DayNumber), slog.String("tier", tier))
	}

	tripID := plan.TripID
	if tripID == "" {
		tripID = req.Trip.ID
	}
	events := toEvents(raw, day, tripID)
	span.SetAttributes(attribute.Int("events.count", len(events)), attribute.String("parse.tier", tier))
	span.SetStatus(codes.Ok, "day generated")
	return events, nil
}

func toEvents(raw []rawEvent, day types.PlanDay, tripID string) []types.DayEvent {
	events := make([]types.DayEvent, 0, len(raw))
	for _, r := range raw {
		start, okStart := eventTime(day.Date, string(r.StartTime))
		end, okEnd := eventTime(day.Date, string(r.EndTime))
		if !okStart || !okEnd {
			continue
		}
		t := MapEventType(string(r.Type))
		events = append(events, types.DayEvent{
			ID:           uuid.NewString(),
			Name:         firstNonEmpty(string(r.Name), string(r.Title), genericName),
			Type:         t,
			TripID:       tripID,
			Date:         day.Date,
			StartTime:    start,
			EndTime:      end,
			LocationName: firstNonEmpty(string(r.LocationName), string(r.Location), "Location"),
			Remark:       string(r.Description),
			Cost:         string(r.EstimatedCost),
			Color:        t.Color(),
		})
	}
	return events
}

// eventTime combines a day with a clock time into a local date-time. Seconds
// are ignored and AM/PM may follow the minutes with or without a space.
func eventTime(date, clock string) (string, bool) {
	minutes, ok := textextract.ParseClock(strings.TrimSpace(clock))
	if !ok || minutes >= 24*60 {
		return "", false
	}
	hhmm := textextract.FormatClock(minutes)
	if date == "" {
		return hhmm, true
	}
	return date + "T" + hhmm + ":00", true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// enrich attaches place facts to every event. It only fails when ctx is done,
// leaving the remaining events without facts.
func (p *Pipeline) enrich(ctx context.Context, events []types.DayEvent, destination string) error {
	for i := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		events[i].Place = p.enricher.Enrich(ctx, events[i].LocationName, destination)
	}
	return nil
}

// finalize replaces generic names with the enriched place name or the event type.
func finalize(events []types.DayEvent) {
	for i := range events {
		if !strings.EqualFold(strings.TrimSpace(events[i].Name), genericName) {
			continue
		}
		if events[i].Place != nil && events[i].Place.Name != "" {
			events[i].Name = events[i].Place.Name
		} else {
			events[i].Name = titleCase.String(string(events[i].Type))
		}
	}
}

// GenerateAll runs generate, enrich and finalize for each planned day in
// order. A failing step only degrades its own day; the run is aborted only
// when ctx is cancelled.
func (p *Pipeline) GenerateAll(ctx context.Context, plan types.HighLevelPlan, req types.PlannerRequest, onProgress ProgressFunc) (types.DetailedItinerary, error) {
	ctx, span := otel.Tracer("Detailed").Start(ctx, "Pipeline.GenerateAll", trace.WithAttributes(
		attribute.String("trip.id", plan.TripID),
		attribute.Int("days.count", len(plan.Days)),
	))
	defer span.End()

	if len(plan.Days) == 0 {
		span.SetStatus(codes.Error, "empty plan")
		return types.DetailedItinerary{}, ErrEmptyPlan
	}

	tracker := NewTracker(len(plan.Days), onProgress)
	days := make([]types.DetailedDay, 0, len(plan.Days))

	for i, day := range plan.Days {
		n := i + 1
		if err := ctx.Err(); err != nil {
			tracker.Finish(err)
			span.SetStatus(codes.Error, "cancelled")
			return types.DetailedItinerary{}, fmt.Errorf("generate detailed itinerary: %w", err)
		}
		tracker.StartDay(n)

		tracker.StartTask(n, 1, msgGenerate)
		events, err := p.GenerateDay(ctx, day, plan, req)
		if err != nil {
			p.logger.WarnContext(ctx, "Day event generation failed", slog.Int("day", n), slog.Any("error", err))
			events = []types.DayEvent{}
		}
		tracker.CompleteTask(n, 1, err == nil)

		tracker.StartTask(n, 2, msgEnrich)
		err = p.enrich(ctx, events, plan.Destination)
		if err != nil {
			p.logger.WarnContext(ctx, "Day enrichment interrupted", slog.Int("day", n), slog.Any("error", err))
		}
		tracker.CompleteTask(n, 2, err == nil)

		tracker.StartTask(n, 3, msgFinalize)
		finalize(events)
		tracker.CompleteTask(n, 3, true)

		days = append(days, types.DetailedDay{PlanDay: day, Events: events})
	}

	tripID := plan.TripID
	if tripID == "" {
		tripID = req.Trip.ID
	}
	result := types.DetailedItinerary{
		TripID:      tripID,
		GeneratedAt: p.now().Format(time.RFC3339),
		Destination: plan.Destination,
		TotalDays:   len(days),
		Days:        days,
		TotalEvents: lo.SumBy(days, func(d types.DetailedDay) int { return len(d.Events) }),
	}
	tracker.Finish(nil)

	span.SetAttributes(attribute.Int("events.total", result.TotalEvents))
	span.SetStatus(codes.Ok, "detailed itinerary generated")
	return result, nil
}
