package intent

import "strings"

// Intent is the routing decision for a user utterance outside a gathering session.
type Intent string

const (
	BucketList   Intent = "BUCKET_LIST"
	CreateTrip   Intent = "CREATE_TRIP"
	TravelAdvice Intent = "TRAVEL_ADVICE"
	CalendarInfo Intent = "CALENDAR_INFO"
	About        Intent = "ABOUT_ASSISTANT"
	MainMenu     Intent = "MAIN_MENU"
	Unknown      Intent = "UNKNOWN"
)

// Rule maps any of its lowercase substrings onto an intent.
type Rule struct {
	Patterns []string
	Intent   Intent
}

// Classifier decides the intent of an utterance.
type Classifier interface {
	Classify(utterance string) Intent
}

// DefaultRules is the ordered rule table: exact option labels first, keyword
// fallbacks last.
var DefaultRules = []Rule{
	{Patterns: []string{"save to bucket list", "bucket list"}, Intent: BucketList},
	{Patterns: []string{"create new trip", "create new event"}, Intent: CreateTrip},
	{Patterns: []string{
		"get travel advice", "get more travel advice", "choose from my trips",
		"plan for a new destination", "get general recommendations",
	}, Intent: TravelAdvice},
	{Patterns: []string{
		"check my calendar", "my trips", "my events", "calendar summary",
		"check my trips", "check my events", "view all trips", "view all events",
	}, Intent: CalendarInfo},
	{Patterns: []string{"about moo", "tell me more about yourself", "ask something else"}, Intent: About},
	{Patterns: []string{"back to main menu", "main menu"}, Intent: MainMenu},
	{Patterns: []string{"get travel recommendations for"}, Intent: TravelAdvice},
	{Patterns: []string{"travel", "advice", "recommendation", "attraction", "restaurant", "activity", "🧳"}, Intent: TravelAdvice},
	{Patterns: []string{"calendar", "trip", "event", "schedule", "📅"}, Intent: CalendarInfo},
	{Patterns: []string{"moo", "about", "who are you", "yourself", "🐄"}, Intent: About},
}

// RuleClassifier evaluates rules in order; the first matching rule wins.
type RuleClassifier struct {
	rules []Rule
}

func NewRuleClassifier(rules []Rule) *RuleClassifier {
	lowered := make([]Rule, len(rules))
	for i, r := range rules {
		patterns := make([]string, len(r.Patterns))
		for j, p := range r.Patterns {
			patterns[j] = strings.ToLower(p)
		}
		lowered[i] = Rule{Patterns: patterns, Intent: r.Intent}
	}
	return &RuleClassifier{rules: lowered}
}

func (c *RuleClassifier) Classify(utterance string) Intent {
	lower := strings.ToLower(utterance)
	for _, r := range c.rules {
		for _, p := range r.Patterns {
			if p != "" && strings.Contains(lower, p) {
				return r.Intent
			}
		}
	}
	return Unknown
}

var defaultClassifier = NewRuleClassifier(DefaultRules)

// Classify runs the default rule table.
func Classify(utterance string) Intent {
	return defaultClassifier.Classify(utterance)
}
