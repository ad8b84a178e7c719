package places

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const defaultBiasRadius = 20000

type textSearcher interface {
	TextSearch(ctx context.Context, r *maps.TextSearchRequest) (maps.PlacesSearchResponse, error)
}

// GoogleLookup searches the Google Places text search API.
type GoogleLookup struct {
	client textSearcher
}

func NewGoogleLookup(apiKey string) (*GoogleLookup, error) {
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GoogleLookup{client: c}, nil
}

func (g *GoogleLookup) Search(ctx context.Context, query string, hint Hint) (types.PlaceFacts, error) {
	ctx, span := otel.Tracer("Places").Start(ctx, "GoogleLookup.Search", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	req := &maps.TextSearchRequest{Query: query}
	if hint.Bias != nil {
		req.Location = &maps.LatLng{Lat: hint.Bias.Lat, Lng: hint.Bias.Lng}
		req.Radius = defaultBiasRadius
	}

	resp, err := g.client.TextSearch(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Text search failed")
		return types.PlaceFacts{}, fmt.Errorf("google places search: %w: %w", types.ErrCapabilityFailure, err)
	}
	if len(resp.Results) == 0 {
		span.SetStatus(codes.Ok, "No results")
		return types.PlaceFacts{}, types.ErrNotFound
	}

	span.SetStatus(codes.Ok, "Place found")
	return factsFromGoogle(resp.Results[0]), nil
}

func factsFromGoogle(r maps.PlacesSearchResult) types.PlaceFacts {
	facts := types.PlaceFacts{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Coordinates:      types.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Types:            r.Types,
		BusinessStatus:   r.BusinessStatus,
		Source:           "google",
	}
	if len(r.Photos) > 0 && r.Photos[0].PhotoReference != "" {
		ref := r.Photos[0].PhotoReference
		facts.PhotoRef = &ref
	}
	if r.Rating > 0 {
		rating := float64(r.Rating)
		facts.Rating = &rating
	}
	if r.OpeningHours != nil && len(r.OpeningHours.WeekdayText) > 0 {
		text := strings.Join(r.OpeningHours.WeekdayText, "; ")
		facts.OpeningHoursText = &text
	}
	return facts
}
