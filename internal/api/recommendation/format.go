package recommendation

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

var typeEmoji = map[types.ActivityType]string{
	types.ActivityRestaurant:    "🍽️",
	types.ActivityAttraction:    "🏛️",
	types.ActivityActivity:      "🎯",
	types.ActivityShopping:      "🛍️",
	types.ActivityEntertainment: "🎭",
	types.ActivityCultural:      "🏛️",
	types.ActivityOutdoor:       "🌲",
	types.ActivityOther:         "📍",
}

func TypeEmoji(t types.ActivityType) string {
	if e, ok := typeEmoji[types.ParseActivityType(string(t))]; ok {
		return e
	}
	return "📍"
}

func typeLabel(t types.ActivityType) string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatForDisplay renders records as a numbered chat message.
func FormatForDisplay(records []types.RecommendationRecord) string {
	if len(records) == 0 {
		return "No recommendations available."
	}

	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "%d. %s %s", i+1, TypeEmoji(rec.Type), rec.Name)
		facts := rec.Enrichment
		if facts != nil && facts.Rating != nil {
			fmt.Fprintf(&b, " ⭐ %.1f", *facts.Rating)
		}
		if rec.Type != "" && rec.Type != types.ActivityOther {
			fmt.Fprintf(&b, " (%s)", typeLabel(rec.Type))
		}
		b.WriteString("\n")

		var details []string
		if loc := rec.Location(); loc != "" {
			details = append(details, "📍 "+loc)
		}
		if rec.EstimatedCost != "" && rec.EstimatedCost != "Varies" {
			details = append(details, "💰 "+rec.EstimatedCost)
		}
		if rec.OpenHours != "" && rec.OpenHours != "Varies" {
			details = append(details, "⏰ "+rec.OpenHours)
		}
		if facts != nil {
			details = append(details, "✅ Verified")
		}
		if len(details) > 0 {
			b.WriteString("   " + strings.Join(details, " • ") + "\n")
		}

		if rec.Description != "" {
			b.WriteString("   " + rec.Description + "\n")
		}
		if strings.TrimSpace(rec.WebsiteLink) != "" {
			fmt.Fprintf(&b, "   🔗 [Visit Website](%s)\n", rec.WebsiteLink)
		}
		if facts != nil && facts.PhotoRef != nil {
			b.WriteString("   📸 1 photo available\n")
		}
		if facts != nil && (facts.Coordinates.Lat != 0 || facts.Coordinates.Lng != 0) {
			fmt.Fprintf(&b, "   🗺️ Location: %.4f, %.4f\n", facts.Coordinates.Lat, facts.Coordinates.Lng)
		}
		if i < len(records)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
