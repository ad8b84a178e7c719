package places

import (
	"context"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Hint narrows a search. Destination is appended to free-text queries by
// providers that do not support location bias.
type Hint struct {
	Destination string
	Bias        *types.Coordinates
}

// Lookup finds the single best place for a free-text query. A search with no
// results returns types.ErrNotFound; provider failures wrap types.ErrCapabilityFailure.
type Lookup interface {
	Search(ctx context.Context, query string, hint Hint) (types.PlaceFacts, error)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(ctx context.Context, query string, hint Hint) (types.PlaceFacts, error)

func (f LookupFunc) Search(ctx context.Context, query string, hint Hint) (types.PlaceFacts, error) {
	return f(ctx, query, hint)
}
