package itinerary

import (
	"time"

	"github.com/patrickmn/go-cache"

	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
)

// History keeps the completion conversation of each trip so edits can replay it.
type History struct {
	cache *cache.Cache
}

func NewHistory(ttl time.Duration) *History {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &History{cache: cache.New(ttl, 2*ttl)}
}

func (h *History) Get(tripID string) ([]generativeAI.Message, bool) {
	v, ok := h.cache.Get(tripID)
	if !ok {
		return nil, false
	}
	msgs := v.([]generativeAI.Message)
	return append([]generativeAI.Message(nil), msgs...), true
}

func (h *History) Set(tripID string, messages []generativeAI.Message) {
	h.cache.SetDefault(tripID, append([]generativeAI.Message(nil), messages...))
}

func (h *History) Reset(tripID string) {
	h.cache.Delete(tripID)
}
