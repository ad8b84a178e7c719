package textextract

import (
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MinedActivity is a place name recovered from markdown prose.
type MinedActivity struct {
	Name        string             `json:"name"`
	Type        types.ActivityType `json:"type"`
	Description string             `json:"description"`
}

var (
	activityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\d+\.\s*\*\*([^*]+)\*\*`),
		regexp.MustCompile(`\d+\.\s*\*\*([^*]+)\*\*`),
		regexp.MustCompile(`#{2,3}\s*([^\n]+)`),
		regexp.MustCompile(`(?m)^[-*]\s*\*\*([^*]+)\*\*`),
	}
	nonPlaceWords = []string{
		"recommendation", "conclusion", "summary", "day", "trip", "budget",
		"solo", "sightseeing", "focused on", "here are", "for a",
	}
	multiDayPattern = regexp.MustCompile(`\d+[\s-]day`)
	yearPattern     = regexp.MustCompile(`\b20\d{2}\b`)
)

type typeRule struct {
	keywords []string
	kind     types.ActivityType
}

// classifyRules is evaluated in order; first keyword hit wins.
var classifyRules = []typeRule{
	{[]string{"restaurant", "food", "dining", "cafe", "café", "bistro", "eatery", "brunch", "bakery"}, types.ActivityRestaurant},
	{[]string{"shop", "market", "mall", "boutique", "bazaar"}, types.ActivityShopping},
	{[]string{"museum", "temple", "cultural", "gallery", "shrine", "cathedral", "heritage"}, types.ActivityCultural},
	{[]string{"park", "hike", "hiking", "trail", "beach", "garden", "mountain", "lake"}, types.ActivityOutdoor},
	{[]string{"theatre", "theater", "concert", "show", "nightlife", "club"}, types.ActivityEntertainment},
	{[]string{"tour", "class", "workshop", "cruise", "tram"}, types.ActivityActivity},
}

// ClassifyActivity maps a short phrase onto a coarse activity type, defaulting to attraction.
func ClassifyActivity(phrase string) types.ActivityType {
	lower := strings.ToLower(phrase)
	for _, rule := range classifyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind
			}
		}
	}
	return types.ActivityAttraction
}

// ExtractActivities mines bold numbered items, headers and bold bullets out of
// markdown. Trip descriptions and section titles are skipped. When nothing is
// found a single generic entry is returned so callers always have a list.
func ExtractActivities(text string) []MinedActivity {
	var activities []MinedActivity
	seen := make(map[string]bool)

	for _, pattern := range activityPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(strings.ReplaceAll(m[1], "*", ""))
			if name == "" || seen[name] || !looksLikePlace(name) {
				continue
			}
			seen[name] = true
			if isTripDescription(strings.ToLower(name)) {
				continue
			}

			kind := ClassifyActivity(name)
			activities = append(activities, MinedActivity{
				Name:        name,
				Type:        kind,
				Description: name + " - recommended " + string(kind) + " from travel advice",
			})
		}
	}

	if len(activities) == 0 {
		return []MinedActivity{{
			Name:        "Travel Recommendations",
			Type:        types.ActivityActivity,
			Description: "Collection of travel recommendations",
		}}
	}
	return activities
}

func looksLikePlace(name string) bool {
	if len(name) <= 3 || len(name) >= 100 {
		return false
	}
	lower := strings.ToLower(name)
	for _, w := range nonPlaceWords {
		if strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

func isTripDescription(lower string) bool {
	return (strings.Contains(lower, " from ") && strings.Contains(lower, " to ")) ||
		yearPattern.MatchString(lower) ||
		multiDayPattern.MatchString(lower)
}
