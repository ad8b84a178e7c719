package records

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Sink = (*PostgresSink)(nil)

// DBTX is the subset of *pgxpool.Pool used by PostgresSink.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PostgresSink struct {
	db     DBTX
	logger *slog.Logger
	now    func() time.Time
}

func NewPostgresSink(db DBTX, logger *slog.Logger) *PostgresSink {
	return &PostgresSink{db: db, logger: logger, now: time.Now}
}

const (
	insertBucketItem = `
        INSERT INTO bucket_items (
            id, name, type, description, country, city, location,
            website_link, estimated_cost, open_hours, place, is_completed, date_added
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
        )`
	updateBucketItem = `
        UPDATE bucket_items SET
            name = $2, type = $3, description = $4, country = $5, city = $6, location = $7,
            website_link = $8, estimated_cost = $9, open_hours = $10, place = $11, is_completed = $12
        WHERE id = $1`
	deleteBucketItem = `DELETE FROM bucket_items WHERE id = $1`
	upsertItinerary  = `
        INSERT INTO itineraries (trip_id, document, saved_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (trip_id) DO UPDATE SET document = EXCLUDED.document, saved_at = EXCLUDED.saved_at`
	deleteItinerary = `DELETE FROM itineraries WHERE trip_id = $1`
)

func (s *PostgresSink) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span, func(error)) {
	ctx, span := otel.Tracer("Records").Start(ctx, "PostgresSink."+op, trace.WithAttributes(
		append(attrs, attribute.String("db.system", "postgresql"))...,
	))
	begin := time.Now()
	return ctx, span, func(err error) {
		m := metrics.Get()
		opAttr := metric.WithAttributes(attribute.String("db.operation", op))
		m.DbQueryDurationSeconds.Record(ctx, time.Since(begin).Seconds(), opAttr)
		if err != nil {
			m.DbQueryErrorsTotal.Add(ctx, 1, opAttr)
			span.RecordError(err)
			span.SetStatus(codes.Error, op+" failed")
			return
		}
		span.SetStatus(codes.Ok, op)
	}
}

func placeJSON(p *types.PlaceFacts) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

func (s *PostgresSink) AppendBucketItems(ctx context.Context, items []types.BucketListItem) (stored []types.BucketListItem, err error) {
	ctx, span, done := s.start(ctx, "AppendBucketItems", attribute.Int("items.count", len(items)))
	defer span.End()
	defer func() { done(err) }()

	stored = prepare(items, s.now())
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, item := range stored {
		place, err := placeJSON(item.Place)
		if err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("failed to encode place of %q: %w", item.Name, err)
		}
		if _, err := tx.Exec(ctx, insertBucketItem,
			item.ID, item.Name, string(item.Type), item.Description, item.Country, item.City, item.Location,
			item.WebsiteLink, item.EstimatedCost, item.OpenHours, place, item.IsCompleted, item.DateAdded,
		); err != nil {
			_ = tx.Rollback(ctx)
			s.logger.ErrorContext(ctx, "Failed to insert bucket item", slog.String("name", item.Name), slog.Any("error", err))
			return nil, fmt.Errorf("failed to insert bucket item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit bucket items: %w", err)
	}
	return stored, nil
}

func (s *PostgresSink) UpdateBucketItem(ctx context.Context, item types.BucketListItem) (err error) {
	ctx, span, done := s.start(ctx, "UpdateBucketItem", attribute.String("item.id", item.ID))
	defer span.End()
	defer func() { done(err) }()

	place, err := placeJSON(item.Place)
	if err != nil {
		return fmt.Errorf("failed to encode place: %w", err)
	}
	tag, err := s.db.Exec(ctx, updateBucketItem,
		item.ID, item.Name, string(item.Type), item.Description, item.Country, item.City, item.Location,
		item.WebsiteLink, item.EstimatedCost, item.OpenHours, place, item.IsCompleted,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update bucket item", slog.Any("error", err))
		return fmt.Errorf("failed to update bucket item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bucket item %s: %w", item.ID, types.ErrNotFound)
	}
	return nil
}

func (s *PostgresSink) DeleteBucketItem(ctx context.Context, id string) (err error) {
	ctx, span, done := s.start(ctx, "DeleteBucketItem", attribute.String("item.id", id))
	defer span.End()
	defer func() { done(err) }()

	tag, err := s.db.Exec(ctx, deleteBucketItem, id)
	if err != nil {
		return fmt.Errorf("failed to delete bucket item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bucket item %s: %w", id, types.ErrNotFound)
	}
	return nil
}

func (s *PostgresSink) SaveItinerary(ctx context.Context, it types.Itinerary) (err error) {
	ctx, span, done := s.start(ctx, "SaveItinerary", attribute.String("trip.id", it.TripID))
	defer span.End()
	defer func() { done(err) }()

	if it.TripID == "" {
		return fmt.Errorf("save itinerary: %w", ErrMissingID)
	}
	doc, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("failed to encode itinerary: %w", err)
	}
	if _, err := s.db.Exec(ctx, upsertItinerary, it.TripID, doc, s.now()); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save itinerary", slog.String("trip_id", it.TripID), slog.Any("error", err))
		return fmt.Errorf("failed to save itinerary: %w", err)
	}
	return nil
}

func (s *PostgresSink) DeleteItinerary(ctx context.Context, tripID string) (err error) {
	ctx, span, done := s.start(ctx, "DeleteItinerary", attribute.String("trip.id", tripID))
	defer span.End()
	defer func() { done(err) }()

	tag, err := s.db.Exec(ctx, deleteItinerary, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("itinerary %s: %w", tripID, types.ErrNotFound)
	}
	return nil
}
