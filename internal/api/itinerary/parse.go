package itinerary

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/FACorreiaa/go-trip-planner/internal/api/textextract"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type Tier int

const (
	TierStrict Tier = iota
	TierRepaired
	TierMined
	TierFailed
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierRepaired:
		return "repaired"
	case TierMined:
		return "mined"
	default:
		return "failed"
	}
}

func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tier) UnmarshalText(b []byte) error {
	switch string(b) {
	case "strict":
		*t = TierStrict
	case "repaired":
		*t = TierRepaired
	case "mined":
		*t = TierMined
	case "failed":
		*t = TierFailed
	default:
		return fmt.Errorf("unknown parse tier %q", b)
	}
	return nil
}

// ParseResult records how an itinerary was recovered from AI output.
type ParseResult struct {
	Tier   Tier   `json:"tier"`
	Detail string `json:"detail,omitempty"`
}

// Degraded reports whether anything beyond a strict parse was needed.
func (r ParseResult) Degraded() bool {
	return r.Tier != TierStrict
}

// Defaults fills what the AI output leaves out.
type Defaults struct {
	TripID      string
	Destination string
	Start       time.Time
	GeneratedAt time.Time
}

const defaultBudget = "Budget varies by preferences"

// Parse always yields an itinerary with at least one non-empty day.
func Parse(content string, d Defaults) (types.Itinerary, ParseResult) {
	cleaned := textextract.CleanJSON(content)

	if it, err := decodeItinerary(cleaned); err == nil {
		return backfill(it, d), ParseResult{Tier: TierStrict}
	}

	if repaired, ok := textextract.BalanceJSON(cleaned); ok {
		if it, err := decodeItinerary(repaired); err == nil {
			return backfill(it, d), ParseResult{Tier: TierRepaired, Detail: fmt.Sprintf("recovered %d of %d bytes", len(repaired), len(cleaned))}
		}
	}

	if days := mineTuples(content, d.Start); len(days) > 0 {
		return backfill(types.Itinerary{Days: days}, d), ParseResult{Tier: TierMined, Detail: "activity tuples"}
	}
	if days := mineLines(content, d.Start); len(days) > 0 {
		return backfill(types.Itinerary{Days: days}, d), ParseResult{Tier: TierMined, Detail: "day lines"}
	}

	return backfill(types.Itinerary{Days: []types.ItineraryDay{placeholderDay(d)}}, d), ParseResult{Tier: TierFailed, Detail: "placeholder day"}
}

// ParseStrict accepts only a complete, structurally valid document.
func ParseStrict(content string) (types.Itinerary, error) {
	return decodeItinerary(textextract.CleanJSON(content))
}

func decodeItinerary(s string) (types.Itinerary, error) {
	var it types.Itinerary
	if err := json.Unmarshal([]byte(s), &it); err != nil {
		return types.Itinerary{}, fmt.Errorf("decode itinerary: %w: %w", types.ErrParseFailure, err)
	}
	return validate(it)
}

// validate drops untitled activities and empty days, then requires at least one day.
func validate(it types.Itinerary) (types.Itinerary, error) {
	days := make([]types.ItineraryDay, 0, len(it.Days))
	for _, day := range it.Days {
		day.Activities = lo.Filter(day.Activities, func(a types.ActivityRecord, _ int) bool {
			return strings.TrimSpace(a.Title) != ""
		})
		if len(day.Activities) > 0 {
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return types.Itinerary{}, fmt.Errorf("itinerary has no days with activities: %w", types.ErrParseFailure)
	}
	it.Days = days
	return it, nil
}

func backfill(it types.Itinerary, d Defaults) types.Itinerary {
	if it.TripID == "" {
		it.TripID = d.TripID
	}
	if it.GeneratedAt == "" {
		it.GeneratedAt = d.GeneratedAt.Format(time.RFC3339)
	}
	for i := range it.Days {
		if it.Days[i].DayNumber <= 0 {
			it.Days[i].DayNumber = i + 1
		}
		if it.Days[i].Date == "" {
			it.Days[i].Date = d.Start.AddDate(0, 0, i).Format(types.DateLayout)
		}
	}
	it.Summary = Summarize(it.Days, it.Summary.EstimatedBudget)
	return it
}

// Summarize counts days, activities and meals.
func Summarize(days []types.ItineraryDay, budget string) types.ItinerarySummary {
	if budget == "" {
		budget = defaultBudget
	}
	return types.ItinerarySummary{
		TotalDays: len(days),
		TotalActivities: lo.SumBy(days, func(d types.ItineraryDay) int {
			return len(d.Activities)
		}),
		TotalMeals: lo.SumBy(days, func(d types.ItineraryDay) int {
			return lo.CountBy(d.Activities, func(a types.ActivityRecord) bool {
				return a.Type == types.ItineraryMeal
			})
		}),
		EstimatedBudget: budget,
	}
}

var (
	tupleRe = regexp.MustCompile(`"time":\s*"([^"]+)"[^}]*?"title":\s*"([^"]+)"[^}]*?"description":\s*"([^"]+)"[^}]*?"location":\s*"([^"]+)"[^}]*?"type":\s*"([^"]+)"`)
	dayRe   = regexp.MustCompile(`(?i)^\W*day\s+(\d+)`)
	timeRe  = regexp.MustCompile(`^\W*(\d{1,2}):(\d{2})\s*[-:–]?\s*(.+)`)
	parenRe = regexp.MustCompile(`\s*\(([^)]+)\)\s*`)
)

// mineTuples recovers activities whose five required fields appear in order
// and spreads them over at most three days.
func mineTuples(content string, start time.Time) []types.ItineraryDay {
	matches := tupleRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	activities := make([]types.ActivityRecord, 0, len(matches))
	for _, m := range matches {
		activities = append(activities, types.ActivityRecord{
			Time:          m[1],
			Title:         m[2],
			Description:   m[3],
			Location:      m[4],
			Type:          m[5],
			EstimatedCost: "Cost varies",
			Duration:      "Duration varies",
		})
	}

	perDay := (len(activities) + 2) / 3
	chunks := lo.Chunk(activities, perDay)
	days := make([]types.ItineraryDay, len(chunks))
	for i, chunk := range chunks {
		days[i] = types.ItineraryDay{
			Date:       start.AddDate(0, 0, i).Format(types.DateLayout),
			DayNumber:  i + 1,
			Activities: chunk,
		}
	}
	return days
}

// mineLines reads "Day N" headers followed by "HH:MM - text" lines.
func mineLines(content string, start time.Time) []types.ItineraryDay {
	var (
		days    []types.ItineraryDay
		current *types.ItineraryDay
	)
	flush := func() {
		if current != nil && len(current.Activities) > 0 {
			days = append(days, *current)
		}
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if m := dayRe.FindStringSubmatch(line); m != nil {
			flush()
			n, _ := strconv.Atoi(m[1])
			if n < 1 {
				n = 1
			}
			current = &types.ItineraryDay{
				Date:      start.AddDate(0, 0, n-1).Format(types.DateLayout),
				DayNumber: n,
			}
			continue
		}
		if current == nil {
			continue
		}
		if m := timeRe.FindStringSubmatch(line); m != nil {
			hours, _ := strconv.Atoi(m[1])
			clock := fmt.Sprintf("%02d:%s", hours, m[2])
			current.Activities = append(current.Activities, describeActivity(m[3], clock))
		}
	}
	flush()
	return days
}

// describeActivity splits "Title (Location) ..." and guesses a type from the clock and keywords.
func describeActivity(description, clock string) types.ActivityRecord {
	description = strings.TrimSpace(description)
	var location string
	if m := parenRe.FindStringSubmatch(description); m != nil {
		location = m[1]
	}
	title := strings.TrimSpace(parenRe.ReplaceAllString(description, " "))
	if title == "" {
		title = "Activity"
	}
	return types.ActivityRecord{
		Time:        clock,
		Title:       title,
		Description: description,
		Location:    location,
		Type:        guessType(strings.ToLower(description), clock),
	}
}

func guessType(lower, clock string) string {
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
	between := func(from, to string) bool {
		return clock >= from && clock <= to
	}

	switch {
	case between("07:00", "10:00") && has("breakfast", "coffee"):
		return types.ItineraryMeal
	case between("12:00", "14:00") && has("lunch", "eat"):
		return types.ItineraryMeal
	case between("18:00", "22:00") && has("dinner", "restaurant"):
		return types.ItineraryMeal
	case has("museum", "temple", "historic"):
		return types.ItineraryCulture
	case has("shop", "market", "mall"):
		return types.ItineraryShopping
	case has("transport", "taxi", "bus"):
		return types.ItineraryTransport
	}
	return types.ItineraryActivity
}

func placeholderDay(d Defaults) types.ItineraryDay {
	return types.ItineraryDay{
		Date:      d.Start.Format(types.DateLayout),
		DayNumber: 1,
		Activities: []types.ActivityRecord{{
			Time:          "09:00",
			Title:         "Explore Destination",
			Description:   "Please regenerate for a detailed itinerary",
			Location:      d.Destination,
			Type:          types.ItineraryActivity,
			EstimatedCost: "Varies",
			Duration:      "Full day",
		}},
	}
}
