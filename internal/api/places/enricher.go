package places

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Enricher resolves place facts for named records. Calls are paced by a
// limiter and never fail: any problem yields nil facts.
type Enricher struct {
	lookup  Lookup
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewEnricher paces lookups at most one per interval. A nil lookup disables enrichment.
func NewEnricher(lookup Lookup, interval time.Duration, logger *slog.Logger) *Enricher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		lookup:  lookup,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

// Query joins a record name with its destination unless the name already mentions it.
func Query(name, destination string) string {
	name = strings.TrimSpace(name)
	destination = strings.TrimSpace(destination)
	if destination == "" || strings.Contains(strings.ToLower(name), strings.ToLower(destination)) {
		return name
	}
	return name + " " + destination
}

// Enrich looks up name near destination.
func (e *Enricher) Enrich(ctx context.Context, name, destination string) *types.PlaceFacts {
	if e == nil || e.lookup == nil || strings.TrimSpace(name) == "" {
		return nil
	}

	ctx, span := otel.Tracer("Places").Start(ctx, "Enricher.Enrich", trace.WithAttributes(
		attribute.String("name", name),
		attribute.String("destination", destination),
	))
	defer span.End()

	if err := e.limiter.Wait(ctx); err != nil {
		e.record(ctx, "cancelled")
		return nil
	}

	facts, err := e.lookup.Search(ctx, Query(name, destination), Hint{Destination: destination})
	switch {
	case err == nil:
		e.record(ctx, "found")
		return &facts
	case errors.Is(err, types.ErrNotFound):
		e.record(ctx, "not_found")
		e.logger.DebugContext(ctx, "No place found", slog.String("name", name))
	default:
		e.record(ctx, "error")
		span.RecordError(err)
		e.logger.WarnContext(ctx, "Place enrichment failed", slog.String("name", name), slog.Any("error", err))
	}
	return nil
}

func (e *Enricher) record(ctx context.Context, outcome string) {
	metrics.Get().EnrichmentTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
