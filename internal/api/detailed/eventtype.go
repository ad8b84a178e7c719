package detailed

import (
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type synonym struct {
	key string
	to  types.EventType
}

// synonyms is searched in order, first for an exact key and then for a partial match.
var synonyms = []synonym{
	{"meal", types.EventDining},
	{"food", types.EventDining},
	{"restaurant", types.EventDining},
	{"breakfast", types.EventDining},
	{"lunch", types.EventDining},
	{"dinner", types.EventDining},
	{"eat", types.EventDining},
	{"cafe", types.EventDining},
	{"brunch", types.EventDining},
	{"bistro", types.EventDining},
	{"snack", types.EventDining},

	{"sightseeing", types.EventSightseeing},
	{"sight", types.EventSightseeing},
	{"museum", types.EventSightseeing},
	{"temple", types.EventSightseeing},
	{"monument", types.EventSightseeing},
	{"attraction", types.EventSightseeing},
	{"cultural", types.EventSightseeing},

	{"transport", types.EventTransport},
	{"transportation", types.EventTransport},
	{"travel", types.EventTransport},
	{"taxi", types.EventTransport},
	{"train", types.EventTransport},
	{"bus", types.EventTransport},
	{"flight", types.EventTransport},

	{"accommodation", types.EventAccommodation},
	{"hotel", types.EventAccommodation},
	{"check", types.EventAccommodation},

	{"shopping", types.EventShopping},
	{"shop", types.EventShopping},
	{"market", types.EventShopping},
	{"buy", types.EventShopping},

	{"activity", types.EventActivity},
	{"adventure", types.EventActivity},
	{"tour", types.EventActivity},
	{"experience", types.EventActivity},

	{"entertainment", types.EventEntertainment},
	{"show", types.EventEntertainment},
	{"concert", types.EventEntertainment},
	{"theater", types.EventEntertainment},
	{"nightlife", types.EventEntertainment},

	{"relaxation", types.EventRelaxation},
	{"spa", types.EventRelaxation},
	{"massage", types.EventRelaxation},
	{"beach", types.EventRelaxation},
	{"rest", types.EventRelaxation},

	{"break", types.EventBreak},
	{"coffee", types.EventBreak},
	{"pause", types.EventBreak},
}

// MapEventType coerces an AI supplied type into the event enum. Unknown values
// go through the synonym table and default to activity.
func MapEventType(raw string) types.EventType {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return types.EventActivity
	}
	if t := types.EventType(lower); t.Valid() {
		return t
	}
	for _, s := range synonyms {
		if s.key == lower {
			return s.to
		}
	}
	for _, s := range synonyms {
		if strings.Contains(lower, s.key) || strings.Contains(s.key, lower) {
			return s.to
		}
	}
	return types.EventActivity
}

var guessRules = []struct {
	words []string
	to    types.EventType
}{
	{[]string{"breakfast", "lunch", "dinner", "eat", "restaurant", "cafe"}, types.EventDining},
	{[]string{"transport", "taxi", "bus", "train", "flight", "drive"}, types.EventTransport},
	{[]string{"hotel", "check", "accommodation"}, types.EventAccommodation},
	{[]string{"shop", "market", "buy"}, types.EventShopping},
	{[]string{"museum", "temple", "palace", "monument", "historic"}, types.EventSightseeing},
	{[]string{"spa", "massage", "relax", "beach"}, types.EventRelaxation},
	{[]string{"show", "concert", "theater", "entertainment"}, types.EventEntertainment},
	{[]string{"break", "rest", "coffee"}, types.EventBreak},
}

// guessEventType classifies a free-text schedule line.
func guessEventType(text string) types.EventType {
	lower := strings.ToLower(text)
	for _, r := range guessRules {
		for _, w := range r.words {
			if strings.Contains(lower, w) {
				return r.to
			}
		}
	}
	return types.EventActivity
}
