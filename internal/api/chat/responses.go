package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/FACorreiaa/go-trip-planner/internal/api/dialogue"
	"github.com/FACorreiaa/go-trip-planner/internal/api/recommendation"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const (
	optTravelAdvice     = "🧳 Get travel advice"
	optMoreTravelAdvice = "🧳 Get more travel advice"
	optCheckCalendar    = "📅 Check my calendar"
	optAboutMoo         = "🐄 About Moo"
	optMainMenu         = "🔙 Back to main menu"
	optSaveBucketList   = "💾 Save to Bucket List"
	optSelectAll        = "✅ All"
	optCancel           = "❌ Cancel"

	maxListedEvents = 5
)

var menuOptions = []string{optTravelAdvice, optCheckCalendar, optAboutMoo}

const (
	welcomeMessage = "Hi there! 🐄 I'm Moo, your friendly travel assistant!\n\n" +
		"I can help you with:\n• Travel advice and recommendations\n• Your current calendar and trips\n• Questions about me\n\n" +
		"What would you like to explore?"
	errorMessage    = "Sorry, something went wrong! 😅 Let me help you get started."
	mainMenuMessage = "👋 Welcome back to the main menu!\n\n" +
		"I can help you with:\n🧳 Travel advice and recommendations\n📅 Your calendar and trips\n🐄 Questions about me\n\n" +
		"What would you like to explore?"
	unknownMessage = "I'd love to help! 😊\n\n" +
		"I can assist you with:\n🧳 Travel advice and recommendations\n📅 Your calendar and trips\n🐄 Questions about me\n\n" +
		"What would you like to explore?"

	aboutShort = "🐄 Hi! I'm Moo, your travel companion!\n\n" +
		"I'm here to help you plan amazing trips and discover wonderful places. " +
		"I love helping travelers create unforgettable experiences!\n\nWhat else would you like to know?"
	aboutPersonality = "I'm enthusiastic about travel, always positive, and I love using emojis to make our conversations fun! 🐄"
	aboutPurpose     = "My mission is to help you create unforgettable travel experiences by providing personalized recommendations and advice."
	aboutCapability  = "I can help you with travel advice, check your calendar, and answer questions about myself!"

	createTripMessage = "💡 I'd love to help you create a new trip!\n\n" +
		"To create a trip, you can use the Trips panel on the right side of the screen. Click the '+ Add Trip' button to get started.\n\n" +
		"Once you have a trip set up, I can provide personalized recommendations for your destination!"
	createEventMessage = "💡 I'd love to help you create a new event!\n\n" +
		"To create an event, you can use the Events panel on the right side of the screen. Click the '+ Add Event' button to get started.\n\n" +
		"Once you have some events, I can help you with recommendations and planning!"

	calendarMenuMessage = "📅 Here's your calendar information!\n\n" +
		"I can show you details about your saved trips and events.\n\nWhat would you like to see?"

	recommendationsFailed = "Sorry, I had trouble getting recommendations right now. 😅 Would you like to try again?"
	noRecommendations     = "I don't have any recent recommendations to save. Would you like me to get some travel advice first?"
	selectionCancelled    = "No problem! Your recommendations are still available if you change your mind."
	selectionSaveFailed   = "Sorry, I had trouble processing your selection. Please try again."
)

func respond(message string, options ...string) types.ChatResponse {
	return types.ChatResponse{Message: message, Options: options}
}

func fromPrompt(p dialogue.Prompt) types.ChatResponse {
	return types.ChatResponse{Message: p.Message, Options: p.Options}
}

// Welcome is the first message of a new session.
func Welcome() types.ChatResponse {
	return respond(welcomeMessage, "🎯 Get travel advice", optCheckCalendar, optAboutMoo)
}

func defaultResponse() types.ChatResponse {
	return fromPrompt(dialogue.DefaultPrompt())
}

func errorResponse() types.ChatResponse {
	return respond(errorMessage, menuOptions...)
}

func mainMenuResponse() types.ChatResponse {
	return respond(mainMenuMessage, menuOptions...)
}

func unknownResponse() types.ChatResponse {
	return respond(unknownMessage, menuOptions...)
}

func aboutResponse(message string) types.ChatResponse {
	lower := strings.ToLower(message)
	if strings.Contains(lower, "more") || strings.Contains(lower, "tell me") {
		return respond(aboutPersonality+"\n\n"+aboutPurpose+"\n\n"+aboutCapability,
			optTravelAdvice, optCheckCalendar, "❓ Ask something else")
	}
	return respond(aboutShort, "🎯 Get travel advice", optCheckCalendar, "💬 Tell me more about yourself")
}

func createTripResponse(message string) types.ChatResponse {
	if strings.Contains(strings.ToLower(message), "create new event") {
		return respond(createEventMessage, optTravelAdvice, optCheckCalendar, optMainMenu)
	}
	return respond(createTripMessage, optTravelAdvice, optCheckCalendar, optMainMenu)
}

// calendarResponse picks the trips list, events list or summary from the
// wording of the message, falling back to the calendar menu.
func calendarResponse(message string, trips []types.TripRef, events []types.CalendarEvent, now time.Time) types.ChatResponse {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "trip"):
		return tripsResponse(trips)
	case strings.Contains(lower, "event"):
		return eventsResponse(events)
	case strings.Contains(lower, "summary"):
		return summaryResponse(trips, events, now)
	default:
		return respond(calendarMenuMessage, "🧳 My trips", "📋 My events", "📊 Calendar summary")
	}
}

func tripsResponse(trips []types.TripRef) types.ChatResponse {
	if len(trips) == 0 {
		return respond("📝 You don't have any trips saved yet!\n\nWould you like me to help you plan a new trip?",
			optTravelAdvice, "➕ Create new trip", optMainMenu)
	}

	var b strings.Builder
	b.WriteString("📋 Here are your saved trips:\n\n")
	for i, trip := range trips {
		fmt.Fprintf(&b, "%d. %s\n   📅 %s\n   🌍 %s\n\n", i+1, trip.Name, dialogue.FormatDateRange(trip), trip.Destination)
	}
	b.WriteString("What would you like to do next?")
	return respond(b.String(), "📅 Check my events", optTravelAdvice, optMainMenu)
}

func eventsResponse(events []types.CalendarEvent) types.ChatResponse {
	if len(events) == 0 {
		return respond("📅 You don't have any events scheduled yet!\n\nWould you like me to help you plan some activities?",
			optTravelAdvice, "➕ Create new event", optMainMenu)
	}

	var b strings.Builder
	b.WriteString("📅 Here are your upcoming events:\n\n")
	for i, ev := range lo.Slice(events, 0, maxListedEvents) {
		fmt.Fprintf(&b, "%d. %s\n   📅 %s\n   ⏰ %s\n", i+1, ev.Name, ev.StartTime.Format("1/2/2006"), ev.StartTime.Format("3:04:05 PM"))
		if ev.Location != "" {
			fmt.Fprintf(&b, "   📍 %s\n", ev.Location)
		}
		b.WriteString("\n")
	}
	if extra := len(events) - maxListedEvents; extra > 0 {
		fmt.Fprintf(&b, "... and %d more events\n\n", extra)
	}
	b.WriteString("What would you like to do next?")
	return respond(b.String(), "🧳 Check my trips", optTravelAdvice, optMainMenu)
}

func summaryResponse(trips []types.TripRef, events []types.CalendarEvent, now time.Time) types.ChatResponse {
	var b strings.Builder
	b.WriteString("📊 Your Calendar Summary\n\n")
	fmt.Fprintf(&b, "🧳 Trips: %d\n📅 Events: %d\n\n", len(trips), len(events))

	next, found := lo.Find(trips, func(t types.TripRef) bool {
		start, ok := t.Start()
		return ok && start.After(now)
	})
	if found {
		fmt.Fprintf(&b, "🧳 Next Trip: %s\n📅 Departure: %s\n\n", next.Name, next.StartDate)
	}
	b.WriteString("What would you like to explore?")
	return respond(b.String(), "🧳 View all trips", "📅 View all events", optTravelAdvice)
}

func recommendationsResponse(records []types.RecommendationRecord) types.ChatResponse {
	return types.ChatResponse{
		Message: "🎉 Here are my recommendations for you:\n\n" + recommendation.FormatForDisplay(records) +
			"\n\nWould you like to save any of these activities to your bucket list?",
		Options:         []string{optSaveBucketList, optMoreTravelAdvice, optCheckCalendar, optAboutMoo},
		Recommendations: records,
	}
}

func recommendationsFailedResponse() types.ChatResponse {
	return respond(recommendationsFailed, dialogue.TravelAdviceStartOptions...)
}

// bucketOffer lists candidates for the bucket list, numbered from 1.
func bucketOffer(items []types.BucketListItem) types.ChatResponse {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 Great! I found %d recommendations to save:\n\n", len(items))
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s %s\n", i+1, recommendation.TypeEmoji(item.Type), item.Name)
	}
	b.WriteString("\nWhich ones would you like to save to your bucket list?\n\n")
	b.WriteString("You can select multiple items by typing:\n")
	b.WriteString("• Numbers: \"1, 3\" or \"2, 4\"\n• All items: \"all\"\n• Cancel: \"cancel\"")
	return respond(b.String(), optSelectAll, optCancel)
}

func savedResponse(items []types.BucketListItem) types.ChatResponse {
	noun := "activities"
	if len(items) == 1 {
		noun = "activity"
	}
	names := lo.Map(items, func(item types.BucketListItem, _ int) string { return "• " + item.Name })
	return types.ChatResponse{
		Message: fmt.Sprintf("Perfect! I've added %d %s to your bucket list!\n\n%s\n\nWhat would you like to do next?",
			len(items), noun, strings.Join(names, "\n")),
		Options:         []string{optMoreTravelAdvice, optCheckCalendar, optAboutMoo},
		BucketListItems: items,
	}
}
