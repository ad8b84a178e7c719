package recommendation

import (
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const shortcutPrefix = "get travel recommendations for"

// IsShortcut reports whether message is a one-line structured recommendation request.
func IsShortcut(message string) bool {
	return strings.Contains(strings.ToLower(message), shortcutPrefix)
}

// ParseShortcut turns "Get travel recommendations for <type> activities in <place>,
// preferred time: X, budget: Y, group size: Z, specific preferences: W" into a
// completed gathering state. Missing parts take permissive defaults.
func ParseShortcut(message string) (*types.ConversationState, bool) {
	if !IsShortcut(message) {
		return nil, false
	}
	answers := map[types.FieldID]string{
		types.FieldEventType:           "activities",
		types.FieldTimePreference:      "any time",
		types.FieldBudget:              "any budget",
		types.FieldGroupSize:           "any group size",
		types.FieldActivityPreferences: "",
	}

	for _, part := range strings.Split(message, ", ") {
		lower := strings.ToLower(part)
		switch {
		case strings.Contains(lower, "preferred time:"):
			answers[types.FieldTimePreference] = after(part, lower, "preferred time:")
		case strings.Contains(lower, "budget:"):
			answers[types.FieldBudget] = after(part, lower, "budget:")
		case strings.Contains(lower, "group size:"):
			answers[types.FieldGroupSize] = after(part, lower, "group size:")
		case strings.Contains(lower, "specific preferences:"):
			answers[types.FieldActivityPreferences] = after(part, lower, "specific preferences:")
		case strings.Contains(lower, shortcutPrefix):
			subject := after(part, lower, shortcutPrefix)
			subjectLower := strings.ToLower(subject)
			if i := strings.Index(subjectLower, " in "); i >= 0 {
				answers[types.FieldDestination] = strings.TrimSpace(subject[i+4:])
				subject, subjectLower = subject[:i], subjectLower[:i]
			}
			if i := strings.Index(subjectLower, " activities"); i >= 0 {
				answers[types.FieldEventType] = strings.TrimSpace(subject[:i])
			} else if subject = strings.TrimSpace(subject); subject != "" && answers[types.FieldDestination] == "" {
				answers[types.FieldDestination] = subject
			}
		}
	}

	return &types.ConversationState{
		Answers:          answers,
		IsNewDestination: true,
		EntryKind:        types.EntryNewDestination,
	}, true
}

func after(part, lower, marker string) string {
	i := strings.Index(lower, marker)
	return strings.TrimSpace(part[i+len(marker):])
}
