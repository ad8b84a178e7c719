package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	AIRequestsTotal          metric.Int64Counter
	AIRequestDurationSeconds metric.Float64Histogram
	ParseTierTotal           metric.Int64Counter
	EnrichmentTotal          metric.Int64Counter
	ActiveSessions           metric.Int64UpDownCounter
	DbQueryDurationSeconds   metric.Float64Histogram
	DbQueryErrorsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments once, from the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripPlanner")
		var err error
		m := &AppMetrics{}

		m.AIRequestsTotal, err = meter.Int64Counter(
			"ai_requests_total",
			metric.WithDescription("Total number of text completion calls by provider and outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_requests_total: %v", err)
		}

		m.AIRequestDurationSeconds, err = meter.Float64Histogram(
			"ai_request_duration_seconds",
			metric.WithDescription("Duration of text completion calls in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_request_duration_seconds: %v", err)
		}

		m.ParseTierTotal, err = meter.Int64Counter(
			"ai_parse_tier_total",
			metric.WithDescription("Parsed AI responses by pipeline and parse tier"),
			metric.WithUnit("{response}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create ai_parse_tier_total: %v", err)
		}

		m.EnrichmentTotal, err = meter.Int64Counter(
			"place_enrichment_total",
			metric.WithDescription("Place lookups by outcome"),
			metric.WithUnit("{lookup}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create place_enrichment_total: %v", err)
		}

		m.ActiveSessions, err = meter.Int64UpDownCounter(
			"chat_sessions_active",
			metric.WithDescription("Conversation sessions currently held in memory"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create chat_sessions_active: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the global AppMetrics, initializing it against the current
// MeterProvider on first use. Without a configured provider the instruments are no-ops.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
