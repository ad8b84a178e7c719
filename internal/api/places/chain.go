package places

import (
	"context"
	"errors"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Chain asks each lookup in turn and returns the first hit. It reports
// ErrNotFound when no lookup found the place, or the last provider error when
// every lookup failed.
type Chain []Lookup

func (c Chain) Search(ctx context.Context, query string, hint Hint) (types.PlaceFacts, error) {
	var lastErr error
	notFound := false
	for _, l := range c {
		facts, err := l.Search(ctx, query, hint)
		if err == nil {
			return facts, nil
		}
		if errors.Is(err, types.ErrNotFound) {
			notFound = true
			continue
		}
		if ctx.Err() != nil {
			return types.PlaceFacts{}, ctx.Err()
		}
		lastErr = err
	}
	if notFound || lastErr == nil {
		return types.PlaceFacts{}, types.ErrNotFound
	}
	return types.PlaceFacts{}, lastErr
}
