package detailed

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/api/textextract"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// looseString accepts JSON strings, numbers and booleans.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(strings.TrimSpace(string(b)))
	return nil
}

// rawEvent is one event as the AI wrote it.
type rawEvent struct {
	Name          looseString `json:"name"`
	Title         looseString `json:"title"`
	Type          looseString `json:"type"`
	StartTime     looseString `json:"startTime"`
	EndTime       looseString `json:"endTime"`
	LocationName  looseString `json:"locationName"`
	Location      looseString `json:"location"`
	Description   looseString `json:"description"`
	EstimatedCost looseString `json:"estimatedCost"`
}

// Parse tiers, reported on the parse tier metric.
const (
	tierStrict   = "strict"
	tierSliced   = "sliced"
	tierRepaired = "repaired"
	tierMined    = "mined"
)

var (
	fenceMarker  = regexp.MustCompile("```(?:json)?\\s*")
	fencedBlock  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	fieldAliases = strings.NewReplacer(
		`"start_time"`, `"startTime"`,
		`"end_time"`, `"endTime"`,
		`"location_name"`, `"locationName"`,
		`"estimated_cost"`, `"estimatedCost"`,
		`"event_type"`, `"type"`,
	)
	eventClock = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)?`)
)

// normalize removes code fences and rewrites snake_case field names.
func normalize(content string) string {
	return fieldAliases.Replace(strings.TrimSpace(fenceMarker.ReplaceAllString(content, "")))
}

// decodeEvents accepts a bare array, an {"events": [...]} envelope or a single event object.
func decodeEvents(s string) ([]rawEvent, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var events []rawEvent
		if err := json.Unmarshal([]byte(s), &events); err != nil {
			return nil, err
		}
		return events, nil
	}

	var envelope struct {
		Events []rawEvent `json:"events"`
		rawEvent
	}
	if err := json.Unmarshal([]byte(s), &envelope); err != nil {
		return nil, err
	}
	if envelope.Events == nil && envelope.Name != "" {
		return []rawEvent{envelope.rawEvent}, nil
	}
	return envelope.Events, nil
}

// ParseEvents extracts day events from an AI reply. It never fails: when no
// JSON can be recovered the reply is mined line by line, and when that finds
// nothing a default morning, lunch and afternoon are returned.
func ParseEvents(content string) ([]rawEvent, string) {
	cleaned := normalize(content)
	if events, err := decodeEvents(cleaned); err == nil {
		return events, tierStrict
	}

	candidates := make([]string, 0, 4)
	if s, ok := textextract.SliceJSON(content, '[', ']'); ok {
		candidates = append(candidates, s)
	}
	if s, ok := textextract.SliceJSON(content, '{', '}'); ok {
		candidates = append(candidates, s)
	}
	for _, m := range fencedBlock.FindAllStringSubmatch(content, -1) {
		candidates = append(candidates, m[1])
	}
	for _, c := range candidates {
		if events, err := decodeEvents(normalize(c)); err == nil {
			return events, tierSliced
		}
	}

	if balanced, ok := textextract.BalanceJSON(cleaned); ok {
		if events, err := decodeEvents(balanced); err == nil && len(events) > 0 {
			return events, tierRepaired
		}
	}

	return eventsFromText(content), tierMined
}

func eventsFromText(text string) []rawEvent {
	var events []rawEvent
	var current *rawEvent

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if loc := eventClock.FindStringIndex(line); loc != nil {
			if current != nil && current.Name != "" {
				events = append(events, *current)
			}
			start, _ := textextract.ParseClock(line[loc[0]:loc[1]])
			name := strings.Trim(line[:loc[0]]+line[loc[1]:], " -–—:•*")
			if name == "" {
				name = genericName
			}
			current = &rawEvent{
				Name:         looseString(name),
				Type:         looseString(guessEventType(line)),
				StartTime:    looseString(textextract.FormatClock(start)),
				EndTime:      looseString(textextract.FormatClock(start + 60)),
				LocationName: "Location to be determined",
			}
			continue
		}

		if current == nil {
			continue
		}
		if current.Name == genericName {
			current.Name = looseString(line)
		} else if current.Description == "" {
			current.Description = looseString(line)
		} else {
			current.Description += looseString(" " + line)
		}
	}
	if current != nil && current.Name != "" {
		events = append(events, *current)
	}

	if len(events) == 0 {
		return defaultEvents()
	}
	return events
}

func defaultEvents() []rawEvent {
	return []rawEvent{
		{Name: "Morning Activity", Type: looseString(types.EventSightseeing), StartTime: "09:00", EndTime: "11:00", LocationName: "City Center", Description: "Explore the local area"},
		{Name: "Lunch", Type: looseString(types.EventDining), StartTime: "12:00", EndTime: "13:30", LocationName: "Local Restaurant", Description: "Try local cuisine"},
		{Name: "Afternoon Activity", Type: looseString(types.EventActivity), StartTime: "14:30", EndTime: "17:00", LocationName: "Main Attraction", Description: "Main activity of the day"},
	}
}
