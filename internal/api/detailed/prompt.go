package detailed

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const clockPattern = "^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$"

// DaySchema is the structured output schema for one day of events.
func DaySchema() map[string]any {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name": str("Event name/title"),
				"type": map[string]any{
					"type":        "string",
					"enum":        eventTypeNames(),
					"description": "Event type from predefined list",
				},
				"startTime":     map[string]any{"type": "string", "pattern": clockPattern, "description": "Start time in HH:MM format (24-hour)"},
				"endTime":       map[string]any{"type": "string", "pattern": clockPattern, "description": "End time in HH:MM format (24-hour)"},
				"locationName":  str("Specific location name for a places search"),
				"description":   str("Brief description of the activity"),
				"estimatedCost": str("Estimated cost (optional)"),
			},
			"required":             []string{"name", "type", "startTime", "endTime", "locationName"},
			"additionalProperties": false,
		},
		"minItems": 1,
	}
}

func eventTypeNames() []string {
	return lo.Map(types.EventTypes, func(t types.EventType, _ int) string { return string(t) })
}

// BuildDayPrompt asks for the timed events of one themed day.
func BuildDayPrompt(day types.PlanDay, plan types.HighLevelPlan, req types.PlannerRequest) string {
	trip, p := req.Trip, req.Preferences
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a detailed daily itinerary for %s in %s on %s.\n\n", day.Topic, plan.Destination, day.Date)

	b.WriteString("TRIP CONTEXT:\n")
	fmt.Fprintf(&b, "- Destination: %s\n", plan.Destination)
	fmt.Fprintf(&b, "- Day %d of %d\n", day.DayNumber, plan.TotalDays)
	fmt.Fprintf(&b, "- Theme: %s\n", day.Topic)
	fmt.Fprintf(&b, "- Date: %s\n", day.Date)
	if trip.Budget != "" {
		fmt.Fprintf(&b, "- Budget: %s\n", trip.Budget)
	}
	if len(trip.Travelers) > 0 {
		fmt.Fprintf(&b, "- Travelers: %d people\n", len(trip.Travelers))
	}

	fmt.Fprintf(&b, "\nDAY OVERVIEW:\n%s\n\n", day.Description)

	b.WriteString("PREFERENCES:\n")
	fmt.Fprintf(&b, "- Trip Type: %s\n", p.TripType)
	fmt.Fprintf(&b, "- Wake Up: %s\n", p.WakeUpTime)
	fmt.Fprintf(&b, "- Return: %s\n", p.ReturnTime)
	fmt.Fprintf(&b, "- Meals Per Day: %s\n", p.MealsPerDay)
	fmt.Fprintf(&b, "- Need Breaks: %s\n", p.NeedBreaks)
	if len(p.PreferredExperiences) > 0 {
		fmt.Fprintf(&b, "- Experiences: %s\n", strings.Join(p.PreferredExperiences, ", "))
	}
	if len(p.CuisineInterests) > 0 {
		fmt.Fprintf(&b, "- Cuisine: %s\n", strings.Join(p.CuisineInterests, ", "))
	}
	if len(p.DietaryRestrictions) > 0 {
		fmt.Fprintf(&b, "- Dietary Restrictions: %s\n", strings.Join(p.DietaryRestrictions, ", "))
	}

	quoted := lo.Map(eventTypeNames(), func(s string, _ int) string { return `"` + s + `"` })
	fmt.Fprintf(&b, "\nEVENT TYPES (use only these): %s\n\n", strings.Join(quoted, ", "))

	b.WriteString(`INSTRUCTIONS:
1. Create 4-8 events for this day based on the theme and preferences
2. Include realistic start and end times in HH:MM format (24-hour)
3. Provide specific location names (restaurants, attractions, areas)
4. Classify each event using only the provided event types
5. Include brief descriptions and estimated costs when relevant
6. Consider travel time between locations
7. Match the wake up and return times from preferences
8. Include appropriate meal events based on meals per day preference

`)
	b.WriteString("Generate events that bring the day's theme to life with specific, actionable activities. " +
		"The response will be structured according to the provided JSON schema.")
	return b.String()
}
