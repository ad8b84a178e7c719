package places

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type cachedResult struct {
	facts    types.PlaceFacts
	notFound bool
}

// Cached memoises another Lookup. Concurrent identical queries share one
// upstream call; provider errors are not cached.
type Cached struct {
	next  Lookup
	cache *cache.Cache
	group singleflight.Group
}

func NewCached(next Lookup, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cached{
		next:  next,
		cache: cache.New(ttl, ttl/2),
	}
}

func cacheKey(query string, hint Hint) string {
	return "place:" + strings.ToLower(strings.TrimSpace(query)) + "|" + strings.ToLower(strings.TrimSpace(hint.Destination))
}

func (c *Cached) Search(ctx context.Context, query string, hint Hint) (types.PlaceFacts, error) {
	key := cacheKey(query, hint)
	if v, ok := c.cache.Get(key); ok {
		return resultOf(v.(cachedResult))
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		facts, err := c.next.Search(ctx, query, hint)
		switch {
		case err == nil:
			r := cachedResult{facts: facts}
			c.cache.Set(key, r, cache.DefaultExpiration)
			return r, nil
		case errors.Is(err, types.ErrNotFound):
			r := cachedResult{notFound: true}
			c.cache.Set(key, r, cache.DefaultExpiration)
			return r, nil
		default:
			return nil, err
		}
	})
	if err != nil {
		return types.PlaceFacts{}, err
	}
	return resultOf(v.(cachedResult))
}

func resultOf(r cachedResult) (types.PlaceFacts, error) {
	if r.notFound {
		return types.PlaceFacts{}, types.ErrNotFound
	}
	facts := r.facts
	facts.Types = append([]string(nil), r.facts.Types...)
	return facts, nil
}
