package itinerary

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const dateLine = "Mon Jan 02 2006"

func systemPrompt(maxActivities int) string {
	low := maxActivities - 2
	if low < 1 {
		low = 1
	}
	return `You are an expert travel planner AI. Create detailed, practical itineraries that match user preferences.

IMPORTANT: You must respond with a valid JSON object that matches the provided schema exactly. Do not include any text outside the JSON structure.

Create a comprehensive day-by-day itinerary with:
- Specific times (use 24-hour format like 09:00, 14:30)
- Detailed activity descriptions with insider tips
- Specific locations with addresses when possible
- Realistic estimated costs in local currency
- Accurate duration estimates
- Appropriate activity types (meal, activity, transport, culture, shopping, sightseeing, entertainment, rest)

Consider these factors:
- Local customs, opening hours, and seasonal factors
- Realistic travel time between locations
- User's meal timing preferences and dietary restrictions
- Budget constraints and group demographics
- Shopping interests and preferred categories
- Break preferences and timing needs
- Daily rhythm (wake-up, preparation, return times)
- Accommodation type and location

Generate a realistic, actionable itinerary that the user can actually follow. Include specific venue names, addresses, and practical details whenever possible.

IMPORTANT CONSTRAINTS:
- Focus on quality over quantity
- If the actual trip is longer than the planned days, focus on the most important activities for the planned days
- Each day should have ` + fmt.Sprintf("%d-%d", low, maxActivities) + ` activities including meals, with realistic timing and transitions`
}

// Schema is the JSON schema the itinerary backend is asked to follow.
func Schema() map[string]any {
	str := map[string]any{"type": "string"}
	integer := map[string]any{"type": "integer"}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tripId":      str,
			"generatedAt": map[string]any{"type": "string", "format": "date-time"},
			"summary": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"totalDays":       integer,
					"totalActivities": integer,
					"totalMeals":      integer,
					"estimatedBudget": str,
				},
				"required": []string{"totalDays", "totalActivities", "totalMeals"},
			},
			"days": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"date":      map[string]any{"type": "string", "format": "date"},
						"dayNumber": integer,
						"activities": map[string]any{
							"type":     "array",
							"minItems": 1,
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"time":          map[string]any{"type": "string", "pattern": "^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$"},
									"title":         str,
									"description":   str,
									"location":      str,
									"type":          map[string]any{"type": "string", "enum": types.ItineraryActivityTypes},
									"estimatedCost": str,
									"duration":      str,
									"tips":          str,
								},
								"required":             []string{"time", "title", "description", "location", "type"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []string{"date", "dayNumber", "activities"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"tripId", "generatedAt", "summary", "days"},
		"additionalProperties": false,
	}
}

func withOther(value, other string) string {
	if other != "" {
		return value + " (" + other + ")"
	}
	return value
}

func listWithOther(values []string, other string) string {
	return withOther(strings.Join(values, ", "), other)
}

type lineWriter struct {
	b strings.Builder
}

func (l *lineWriter) item(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(&l.b, "- %s: %s\n", label, value)
}

func travelers(trip types.TripRef) string {
	if len(trip.Travelers) == 0 {
		return ""
	}
	names := make([]string, len(trip.Travelers))
	for i, t := range trip.Travelers {
		names[i] = t.Name
	}
	return fmt.Sprintf("%s (%d people)", strings.Join(names, ", "), len(trip.Travelers))
}

func bucketLines(items []types.BucketListItem) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nMust-Include Activities:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s", i+1, item.Name)
		if loc := bucketLocation(item); loc != "" {
			fmt.Fprintf(&b, " (%s)", loc)
		}
		if item.Description != "" {
			b.WriteString(" - " + item.Description)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func bucketLocation(item types.BucketListItem) string {
	switch {
	case item.Location != "":
		return item.Location
	case item.Place != nil && item.Place.FormattedAddress != "":
		return item.Place.FormattedAddress
	case item.Place != nil:
		return item.Place.Name
	}
	return ""
}

// BuildPrompt renders the planning request for w.
func BuildPrompt(req types.PlannerRequest, w Window) string {
	trip := req.Trip
	p := req.Preferences

	var l lineWriter
	fmt.Fprintf(&l.b, "Create a detailed %d-day itinerary for %s", w.Days, trip.Destination)
	switch {
	case w.FromRange:
		fmt.Fprintf(&l.b, " (Note: This is a %d-day trip, planning days %d-%d. Additional days can be planned separately if needed)",
			w.TripDays, w.Range.StartDay, w.Range.EndDay)
	case w.Truncated:
		fmt.Fprintf(&l.b, " (Note: This is a %d-day trip, but we're planning the first %d days. Additional days can be planned separately if needed)",
			w.TripDays, w.Days)
	}
	fmt.Fprintf(&l.b, " from %s to %s.\n\n", w.Start.Format(dateLine), w.End.Format(dateLine))

	l.b.WriteString("Trip Details:\n")
	l.item("Destination", trip.Destination)
	l.item("Duration", fmt.Sprintf("%d days", w.Days))
	if trip.Budget != "" {
		l.item("Budget", "$"+strings.TrimPrefix(trip.Budget, "$"))
	}
	l.item("Travelers", travelers(trip))

	l.b.WriteString("\nPreferences:\n")
	l.item("Accommodation Type", withOther(p.AccommodationType, p.AccommodationTypeOther))
	l.item("Room Setup", withOther(p.RoomSetup, p.RoomSetupOther))
	l.item("Trip Type", withOther(p.TripType, p.TripTypeOther))
	if len(p.DietaryRestrictions) > 0 {
		l.item("Dietary Restrictions", listWithOther(p.DietaryRestrictions, p.DietaryRestrictionsOther))
	}
	if len(p.CuisineInterests) > 0 {
		l.item("Cuisine Interests", listWithOther(p.CuisineInterests, p.CuisineInterestsOther))
	}
	l.item("Snacking Habits", p.SnackingHabits)
	if len(p.PreferredExperiences) > 0 {
		l.item("Preferred Experiences", listWithOther(p.PreferredExperiences, p.PreferredExperiencesOther))
	}
	l.item("Social Preference", p.SocialPreference)
	l.item("Itinerary Style", p.ItineraryStyle)
	l.item("Special Interests", p.SpecialInterests)

	l.item("Wake-Up Time", p.WakeUpTime)
	l.item("Preparation Time", p.PreparationTime)
	l.item("Return Time", p.ReturnTime)
	l.item("Meals Per Day", p.MealsPerDay)
	l.item("Breakfast Time", p.BreakfastTime)
	l.item("Lunch Time", p.LunchTime)
	l.item("Dinner Time", p.DinnerTime)

	l.item("Need Breaks", p.NeedBreaks)
	l.item("Break Duration", p.BreakDuration)
	if len(p.BreakActivities) > 0 {
		l.item("Break Activities", listWithOther(p.BreakActivities, p.BreakActivitiesOther))
	}

	l.item("Shopping Interest", p.ShoppingInterest)
	if len(p.ShoppingCategories) > 0 {
		l.item("Shopping Categories", listWithOther(p.ShoppingCategories, p.ShoppingCategoriesOther))
	}
	l.item("Shopping Style", p.ShoppingStyle)
	l.item("Additional Notes", p.AdditionalNotes)

	l.b.WriteString(bucketLines(req.BucketItems))

	l.b.WriteString("\nPlease create a day-by-day itinerary with specific times, activities, meals, and locations. " +
		"Include practical details like estimated costs, duration, and travel time between activities. " +
		"Format the response as a structured itinerary that can be easily parsed.")
	return l.b.String()
}

// FormatForAI renders an itinerary as plain text for edit requests.
func FormatForAI(it types.Itinerary) string {
	var b strings.Builder
	for i, day := range it.Days {
		fmt.Fprintf(&b, "Day %d (%s):\n", i+1, day.Date)
		for _, a := range day.Activities {
			fmt.Fprintf(&b, "%s - %s", a.Time, a.Title)
			if a.Location != "" {
				fmt.Fprintf(&b, " (%s)", a.Location)
			}
			if a.Description != "" && a.Description != a.Title {
				b.WriteString(" - " + a.Description)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func editPrompt(request string, current types.Itinerary) string {
	return fmt.Sprintf("Please modify the current itinerary based on this request: \"%s\"\n\nCurrent itinerary:\n%s", request, FormatForAI(current))
}
