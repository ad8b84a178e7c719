package records

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var ErrMissingID = errors.New("record id is required")

// Sink persists the records the planner creates. Implementations never hand
// records back to the conversation; reads stay with the caller's own storage.
type Sink interface {
	// AppendBucketItems stores new items, assigning ids and timestamps where missing,
	// and returns them as stored.
	AppendBucketItems(ctx context.Context, items []types.BucketListItem) ([]types.BucketListItem, error)
	UpdateBucketItem(ctx context.Context, item types.BucketListItem) error
	DeleteBucketItem(ctx context.Context, id string) error
	// SaveItinerary inserts or replaces the itinerary of a trip.
	SaveItinerary(ctx context.Context, it types.Itinerary) error
	DeleteItinerary(ctx context.Context, tripID string) error
}

func prepare(items []types.BucketListItem, now time.Time) []types.BucketListItem {
	out := make([]types.BucketListItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		if item.DateAdded.IsZero() {
			item.DateAdded = now
		}
		out[i] = item
	}
	return out
}
