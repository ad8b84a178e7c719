package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const DefaultNominatimURL = "https://nominatim.openstreetmap.org/search"

type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Name        string `json:"name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Class       string `json:"class"`
	Type        string `json:"type"`
}

// NominatimLookup searches OpenStreetMap. Nominatim rejects requests without
// an identifying User-Agent.
type NominatimLookup struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

func NewNominatimLookup(endpoint, userAgent string, timeout time.Duration) (*NominatimLookup, error) {
	if userAgent == "" {
		return nil, errors.New("nominatim requires a user agent")
	}
	if endpoint == "" {
		endpoint = DefaultNominatimURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NominatimLookup{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

func (n *NominatimLookup) Search(ctx context.Context, query string, hint Hint) (types.PlaceFacts, error) {
	ctx, span := otel.Tracer("Places").Start(ctx, "NominatimLookup.Search", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	q := query
	if hint.Destination != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(hint.Destination)) {
		q = query + ", " + hint.Destination
	}
	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		return types.PlaceFacts{}, fmt.Errorf("nominatim request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Request failed")
		return types.PlaceFacts{}, fmt.Errorf("nominatim search: %w: %w", types.ErrCapabilityFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("nominatim search: %w: status %s", types.ErrCapabilityFailure, resp.Status)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unexpected status")
		return types.PlaceFacts{}, err
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Decode failed")
		return types.PlaceFacts{}, fmt.Errorf("nominatim decode: %w: %w", types.ErrCapabilityFailure, err)
	}
	if len(results) == 0 {
		span.SetStatus(codes.Ok, "No results")
		return types.PlaceFacts{}, types.ErrNotFound
	}

	r := results[0]
	lat, _ := strconv.ParseFloat(r.Lat, 64)
	lng, _ := strconv.ParseFloat(r.Lon, 64)
	name := r.Name
	if name == "" {
		name = strings.TrimSpace(strings.Split(r.DisplayName, ",")[0])
	}
	var placeTypes []string
	for _, t := range []string{r.Class, r.Type} {
		if t != "" {
			placeTypes = append(placeTypes, t)
		}
	}

	span.SetStatus(codes.Ok, "Place found")
	return types.PlaceFacts{
		PlaceID:          "osm:" + strconv.FormatInt(r.PlaceID, 10),
		Name:             name,
		FormattedAddress: r.DisplayName,
		Coordinates:      types.Coordinates{Lat: lat, Lng: lng},
		Types:            placeTypes,
		Source:           "nominatim",
	}, nil
}
