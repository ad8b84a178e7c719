package records

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var _ Sink = (*MemorySink)(nil)

// MemorySink keeps records in process memory. It is used when no database is configured.
type MemorySink struct {
	store *cache.Cache
	now   func() time.Time
}

func NewMemorySink() *MemorySink {
	return &MemorySink{store: cache.New(cache.NoExpiration, 0), now: time.Now}
}

func bucketKey(id string) string     { return "bucket:" + id }
func itineraryKey(id string) string { return "itinerary:" + id }

func (m *MemorySink) AppendBucketItems(_ context.Context, items []types.BucketListItem) ([]types.BucketListItem, error) {
	stored := prepare(items, m.now())
	for _, item := range stored {
		m.store.SetDefault(bucketKey(item.ID), item)
	}
	return stored, nil
}

func (m *MemorySink) UpdateBucketItem(_ context.Context, item types.BucketListItem) error {
	if err := m.store.Replace(bucketKey(item.ID), item, cache.DefaultExpiration); err != nil {
		return fmt.Errorf("bucket item %s: %w", item.ID, types.ErrNotFound)
	}
	return nil
}

func (m *MemorySink) DeleteBucketItem(_ context.Context, id string) error {
	if _, ok := m.store.Get(bucketKey(id)); !ok {
		return fmt.Errorf("bucket item %s: %w", id, types.ErrNotFound)
	}
	m.store.Delete(bucketKey(id))
	return nil
}

func (m *MemorySink) SaveItinerary(_ context.Context, it types.Itinerary) error {
	if it.TripID == "" {
		return fmt.Errorf("save itinerary: %w", ErrMissingID)
	}
	m.store.SetDefault(itineraryKey(it.TripID), it)
	return nil
}

func (m *MemorySink) DeleteItinerary(_ context.Context, tripID string) error {
	if _, ok := m.store.Get(itineraryKey(tripID)); !ok {
		return fmt.Errorf("itinerary %s: %w", tripID, types.ErrNotFound)
	}
	m.store.Delete(itineraryKey(tripID))
	return nil
}

// BucketItem returns a stored item.
func (m *MemorySink) BucketItem(id string) (types.BucketListItem, bool) {
	v, ok := m.store.Get(bucketKey(id))
	if !ok {
		return types.BucketListItem{}, false
	}
	return v.(types.BucketListItem), true
}

func (m *MemorySink) Itinerary(tripID string) (types.Itinerary, bool) {
	v, ok := m.store.Get(itineraryKey(tripID))
	if !ok {
		return types.Itinerary{}, false
	}
	return v.(types.Itinerary), true
}
