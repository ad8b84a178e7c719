package dialogue

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Prompt is one assistant turn: text plus quick-reply options.
type Prompt struct {
	Message string   `json:"message"`
	Options []string `json:"options,omitempty"`
}

var questions = map[types.FieldID]Prompt{
	types.FieldTrip: {Message: "Which trip are you planning for?"},
	types.FieldDestination: {
		Message: "What's your destination? Please type the city or country you'd like to visit.",
	},
	types.FieldTripDates: {
		Message: "When are you planning to travel? Please provide your travel dates.",
	},
	types.FieldDatePreference: {
		Message: "Do you have any specific dates in mind? Please let me know your preferred dates or timeframe.",
	},
	types.FieldEventType: {
		Message: "What type of activity are you looking for?",
		Options: []string{"🍽️ Dining", "🏛️ Sightseeing", "🎯 Activities", "🛍️ Other"},
	},
	types.FieldTimePreference: {
		Message: "What time of day do you prefer?",
		Options: []string{"🌅 Morning", "🌇 Afternoon", "🌆 Evening", "🤷 No preference"},
	},
	types.FieldBudget: {
		Message: "What's your budget range?",
		Options: []string{"💰 Budget-friendly", "💎 Luxury", "🤷 Skip"},
	},
	types.FieldGroupSize: {
		Message: "How many people will be joining?",
		Options: []string{"👤 Solo", "👥 Group", "🤷 Skip"},
	},
	types.FieldActivityPreferences: {
		Message: "Any specific preferences or interests for your activities? This will help me find the perfect recommendations for you!",
	},
}

// Question returns a copy of the template for a field.
func Question(f types.FieldID) (Prompt, bool) {
	q, ok := questions[f]
	if !ok {
		return Prompt{}, false
	}
	return Prompt{Message: q.Message, Options: append([]string(nil), q.Options...)}, true
}

var (
	orderNewDestination = []types.FieldID{
		types.FieldDestination, types.FieldTripDates, types.FieldEventType,
		types.FieldTimePreference, types.FieldBudget, types.FieldGroupSize, types.FieldActivityPreferences,
	}
	orderExistingTrip = []types.FieldID{
		types.FieldTrip, types.FieldDatePreference, types.FieldEventType,
		types.FieldTimePreference, types.FieldBudget, types.FieldGroupSize, types.FieldActivityPreferences,
	}
	orderKnownTrip = []types.FieldID{
		types.FieldEventType, types.FieldTimePreference, types.FieldBudget,
		types.FieldGroupSize, types.FieldActivityPreferences,
	}
)

// Order returns the fixed field ordering for an entry kind.
func Order(kind types.EntryKind) []types.FieldID {
	var src []types.FieldID
	switch kind {
	case types.EntryNewDestination:
		src = orderNewDestination
	case types.EntryKnownTrip:
		src = orderKnownTrip
	default:
		src = orderExistingTrip
	}
	return append([]types.FieldID(nil), src...)
}

const (
	travelAdviceStart = "Great! I'd love to help you with travel advice! 🗺️\n\nTo give you the best recommendations, I need some information about your trip."
	newAdventureIntro = "🎉 Great! Let's plan your new adventure!\n\n"
	otherFollowUp     = "Great! I'd love to help you with something specific. What type of activity are you interested in?\n\n" +
		"For example:\n• Museums or art galleries\n• Shopping or markets\n• Nightlife or bars\n" +
		"• Outdoor activities or sports\n• Cultural experiences\n• Wellness or spa\n• Photography spots\n\n" +
		"Please tell me what you have in mind!"
	noTripsMessage = "📝 You don't have any trips saved yet!\n\nI'd love to help you plan a new trip. " +
		"Would you like to create one first, or get general travel recommendations?"

	maxTripOptions = 4
)

var (
	TravelAdviceStartOptions = []string{"📍 Choose from my trips", "🌍 Plan for a new destination"}
	noTripsOptions           = []string{"➕ Create new trip", "🌍 Get general recommendations", "🔙 Back to main menu"}
)

// DefaultPrompt is the greeting used whenever a flow resets.
func DefaultPrompt() Prompt {
	return Prompt{
		Message: "Hi! 👋 How can I help you today?",
		Options: []string{"🧳 Get travel advice", "📅 Check my calendar", "🐄 About Moo"},
	}
}

// TravelAdviceStart is the opening prompt of the existing-trip flow.
func TravelAdviceStart() Prompt {
	return Prompt{Message: travelAdviceStart, Options: append([]string(nil), TravelAdviceStartOptions...)}
}

// FormatDateRange renders "Mar 3 - Mar 9, 2025", including both years when they differ.
func FormatDateRange(trip types.TripRef) string {
	start, okStart := trip.Start()
	end, okEnd := trip.End()
	switch {
	case !okStart && !okEnd:
		return "Dates not set"
	case !okEnd:
		return start.Format("Jan 2, 2006")
	case !okStart:
		return end.Format("Jan 2, 2006")
	}
	if start.Year() != end.Year() {
		return fmt.Sprintf("%s - %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s - %s, %d", start.Format("Jan 2"), end.Format("Jan 2"), start.Year())
}

func tripList(trips []types.TripRef) Prompt {
	var b strings.Builder
	b.WriteString("📋 Great! Here are your saved trips:\n\n")
	options := make([]string, 0, len(trips))
	for i, trip := range trips {
		fmt.Fprintf(&b, "%d. %s\n   📍 %s\n   📅 %s\n\n", i+1, trip.Name, trip.Destination, FormatDateRange(trip))
		options = append(options, fmt.Sprintf("%d. %s", i+1, trip.Name))
	}
	b.WriteString("Which trip would you like recommendations for?")
	if len(options) > maxTripOptions {
		options = options[:maxTripOptions]
	}
	return Prompt{Message: b.String(), Options: options}
}

func tripSelected(trip types.TripRef) Prompt {
	q, _ := Question(types.FieldEventType)
	return Prompt{
		Message: fmt.Sprintf("Perfect! I'll help you with recommendations for %s.\n\n🗺️ Destination: %s\n📅 Dates: %s\n\n%s",
			trip.Name, trip.Destination, FormatDateRange(trip), q.Message),
		Options: q.Options,
	}
}
