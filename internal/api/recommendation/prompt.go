package recommendation

import (
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const baseInstruction = `Please provide 3-5 specific recommendations with brief descriptions. For each attraction, restaurant, or activity, include relevant website links or official pages where available. When including links, please format them as plain URLs on separate lines after each recommendation (e.g., "Website: https://example.com").`

const formatInstruction = `Please provide 3-5 travel recommendations in this exact JSON format. Be precise with the data:

{
  "recommendations": [
    {
      "name": "Exact activity/place name",
      "type": "restaurant|attraction|activity|shopping|entertainment|cultural|outdoor|other",
      "country": "Country name",
      "city": "City name",
      "websiteLink": "https://official-website.com (if available, otherwise empty string)",
      "estimatedCost": "$XX-XX or Free or Varies",
      "openHours": "X AM - X PM or 24/7 or Varies",
      "description": "Brief 1-2 sentence description focusing on what makes this special"
    }
  ]
}

Important: Return ONLY the JSON object, no additional text or formatting.`

// responseSchema mirrors formatInstruction for providers with structured output.
var responseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"recommendations": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":          map[string]any{"type": "string"},
					"type":          map[string]any{"type": "string", "enum": activityTypeNames()},
					"country":       map[string]any{"type": "string"},
					"city":          map[string]any{"type": "string"},
					"websiteLink":   map[string]any{"type": "string"},
					"estimatedCost": map[string]any{"type": "string"},
					"openHours":     map[string]any{"type": "string"},
					"description":   map[string]any{"type": "string"},
				},
				"required": []string{"name", "type", "country", "city", "websiteLink", "estimatedCost", "openHours", "description"},
			},
		},
	},
	"required": []string{"recommendations"},
}

func activityTypeNames() []string {
	all := types.AllActivityTypes()
	out := make([]string, len(all))
	for i, t := range all {
		out[i] = string(t)
	}
	return out
}

// Destination is where the gathered trip is headed.
func Destination(state *types.ConversationState) string {
	if state == nil {
		return ""
	}
	if state.SelectedTrip != nil && state.SelectedTrip.Destination != "" {
		return state.SelectedTrip.Destination
	}
	return state.Answer(types.FieldDestination)
}

func isSkip(answer string) bool {
	return strings.Contains(strings.ToLower(answer), "skip")
}

// BuildPrompt concatenates every gathered answer into the recommendation request.
func BuildPrompt(state *types.ConversationState) string {
	var b strings.Builder
	b.WriteString("Find travel recommendations for: ")

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			return
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(", ")
	}

	switch {
	case state.IsNewDestination:
		field("Destination", state.Answer(types.FieldDestination))
		field("Travel dates", state.Answer(types.FieldTripDates))
	case state.SelectedTrip != nil:
		trip := state.SelectedTrip
		field("Trip", trip.Name)
		field("Destination", trip.Destination)
		if trip.StartDate != "" && trip.EndDate != "" {
			field("Travel dates", trip.StartDate+" to "+trip.EndDate)
		}
	default:
		field("Trip", state.Answer(types.FieldTrip))
		field("Date preference", state.Answer(types.FieldDatePreference))
	}

	field("Activity type", state.Answer(types.FieldEventType))
	field("Time preference", state.Answer(types.FieldTimePreference))
	if budget := state.Answer(types.FieldBudget); !isSkip(budget) {
		field("Budget", budget)
	}
	if group := state.Answer(types.FieldGroupSize); !isSkip(group) {
		field("Group size", group)
	}
	field("Specific preferences", state.Answer(types.FieldActivityPreferences))

	b.WriteString(baseInstruction)
	b.WriteString("\n\n")
	b.WriteString(formatInstruction)
	return b.String()
}
