package detailed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	generativeAI "github.com/FACorreiaa/go-trip-planner/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-planner/internal/api/places"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockCompletion struct {
	mock.Mock
}

func (m *MockCompletion) Complete(ctx context.Context, messages []generativeAI.Message, opts generativeAI.Options) (generativeAI.Completion, error) {
	args := m.Called(ctx, messages, opts)
	return args.Get(0).(generativeAI.Completion), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var kyotoPlan = types.HighLevelPlan{
	TripID:      "kyoto-1",
	Destination: "Kyoto",
	TotalDays:   2,
	Days: []types.PlanDay{
		{Date: "2025-06-01", DayNumber: 1, Topic: "Temples", Description: "Morning: Kiyomizu-dera."},
		{Date: "2025-06-02", DayNumber: 2, Topic: "Markets", Description: "Morning: Nishiki Market."},
	},
}

const dayOneJSON = `[
 {"name":"Kiyomizu-dera","type":"sightseeing","startTime":"09:00","endTime":"11:00","locationName":"Kiyomizu-dera","description":"Wooden stage views"},
 {"name":"Activity","type":"brunch","startTime":"11:30","endTime":"12:30","locationName":"Omen Ginkakuji"},
 {"name":"Sunset walk","type":"hike","startTime":"","endTime":"19:00","locationName":"Philosopher's Path"}
]`

func TestMapEventType(t *testing.T) {
	tests := map[string]types.EventType{
		"dining":         types.EventDining,
		"Dining":         types.EventDining,
		"brunch":         types.EventDining,
		"hike":           types.EventActivity,
		"museum":         types.EventSightseeing,
		"walking tour":   types.EventActivity,
		"hotel check-in": types.EventAccommodation,
		"night market":   types.EventShopping,
		"coffee":         types.EventBreak,
		"":               types.EventActivity,
	}
	for raw, want := range tests {
		assert.Equal(t, want, MapEventType(raw), raw)
	}
}

func TestEventTime(t *testing.T) {
	tests := map[string]string{
		"09:00":    "2025-06-01T09:00:00",
		"9:00":     "2025-06-01T09:00:00",
		"09:00:00": "2025-06-01T09:00:00",
		"9:00PM":   "2025-06-01T21:00:00",
		"9:30 pm":  "2025-06-01T21:30:00",
		"12:15 AM": "2025-06-01T00:15:00",
	}
	for clock, want := range tests {
		got, ok := eventTime("2025-06-01", clock)
		require.True(t, ok, clock)
		assert.Equal(t, want, got, clock)
	}

	for _, clock := range []string{"", "noon", "25:00"} {
		_, ok := eventTime("2025-06-01", clock)
		assert.False(t, ok, clock)
	}

	got, ok := eventTime("", "7:05 PM")
	require.True(t, ok)
	assert.Equal(t, "19:05", got)
}

func TestToEvents_KeepsClockVariants(t *testing.T) {
	raw, _ := ParseEvents(`[
 {"name":"Night market","type":"shopping","startTime":"9:00PM","endTime":"10:30PM"},
 {"name":"Breakfast","type":"brunch","startTime":"09:00:00","endTime":"10:00:00"},
 {"name":"Garden","type":"sightseeing","startTime":"9:00","endTime":"10:00"}
]`)
	events := toEvents(raw, kyotoPlan.Days[0], kyotoPlan.TripID)
	require.Len(t, events, 3)
	assert.Equal(t, "2025-06-01T21:00:00", events[0].StartTime)
	assert.Equal(t, types.EventDining, events[1].Type)
	assert.Equal(t, "2025-06-01T10:00:00", events[1].EndTime)
}

func TestGuessEventType(t *testing.T) {
	assert.Equal(t, types.EventDining, guessEventType("12:30 Lunch at Nishiki"))
	assert.Equal(t, types.EventTransport, guessEventType("Train to Nara"))
	assert.Equal(t, types.EventSightseeing, guessEventType("Kyoto National Museum"))
	assert.Equal(t, types.EventActivity, guessEventType("Bamboo grove"))
}

func TestParseEvents(t *testing.T) {
	t.Run("strict array", func(t *testing.T) {
		events, tier := ParseEvents(dayOneJSON)
		assert.Equal(t, tierStrict, tier)
		assert.Len(t, events, 3)
	})

	t.Run("fenced envelope with snake case fields", func(t *testing.T) {
		content := "```json\n{\"events\":[{\"name\":\"Tea ceremony\",\"event_type\":\"cultural\",\"start_time\":\"15:00\",\"end_time\":\"16:00\",\"location_name\":\"Camellia\",\"estimated_cost\":30}]}\n```"
		events, tier := ParseEvents(content)
		assert.Equal(t, tierStrict, tier)
		require.Len(t, events, 1)
		assert.Equal(t, looseString("15:00"), events[0].StartTime)
		assert.Equal(t, looseString("Camellia"), events[0].LocationName)
		assert.Equal(t, looseString("30"), events[0].EstimatedCost)
		assert.Equal(t, looseString("cultural"), events[0].Type)
	})

	t.Run("json inside prose", func(t *testing.T) {
		events, tier := ParseEvents("Here is your day:\n" + dayOneJSON + "\nEnjoy!")
		assert.Equal(t, tierSliced, tier)
		assert.Len(t, events, 3)
	})

	t.Run("truncated array", func(t *testing.T) {
		cut := dayOneJSON[:strings.Index(dayOneJSON, `{"name":"Sunset`)+20]
		events, tier := ParseEvents(cut)
		assert.Equal(t, tierRepaired, tier)
		assert.GreaterOrEqual(t, len(events), 2)
		assert.Equal(t, looseString("Kiyomizu-dera"), events[0].Name)
	})

	t.Run("text lines", func(t *testing.T) {
		content := "Your day in Kyoto\n9:00 AM - Breakfast at Smart Coffee\nGreat pancakes\n1:30 PM\nGinkaku-ji\nSilver pavilion"
		events, tier := ParseEvents(content)
		assert.Equal(t, tierMined, tier)
		require.Len(t, events, 2)
		assert.Equal(t, looseString("Breakfast at Smart Coffee"), events[0].Name)
		assert.Equal(t, looseString("09:00"), events[0].StartTime)
		assert.Equal(t, looseString("10:00"), events[0].EndTime)
		assert.Equal(t, looseString(types.EventDining), events[0].Type)
		assert.Equal(t, looseString("Great pancakes"), events[0].Description)
		assert.Equal(t, looseString("Ginkaku-ji"), events[1].Name)
		assert.Equal(t, looseString("13:30"), events[1].StartTime)
		assert.Equal(t, looseString("Silver pavilion"), events[1].Description)
	})

	t.Run("defaults", func(t *testing.T) {
		events, tier := ParseEvents("Sorry, I cannot help with that.")
		assert.Equal(t, tierMined, tier)
		require.Len(t, events, 3)
		assert.Equal(t, looseString("Lunch"), events[1].Name)
	})
}

func TestBuildDayPrompt(t *testing.T) {
	req := types.PlannerRequest{
		Trip:        types.TripRef{ID: "kyoto-1", Budget: "2000", Travelers: []types.Traveler{{Name: "Ana"}, {Name: "Rui"}}},
		Preferences: types.PlannerPreferences{TripType: "Culture", WakeUpTime: "07:00", ReturnTime: "22:00", CuisineInterests: []string{"Ramen"}},
	}
	prompt := BuildDayPrompt(kyotoPlan.Days[0], kyotoPlan, req)

	assert.True(t, strings.HasPrefix(prompt, "Generate a detailed daily itinerary for Temples in Kyoto on 2025-06-01.\n\n"))
	assert.Contains(t, prompt, "- Day 1 of 2\n")
	assert.Contains(t, prompt, "- Budget: 2000\n")
	assert.Contains(t, prompt, "- Travelers: 2 people\n")
	assert.Contains(t, prompt, "- Cuisine: Ramen\n")
	assert.NotContains(t, prompt, "- Experiences:")
	assert.Contains(t, prompt, `EVENT TYPES (use only these): "dining", "shopping", "sightseeing"`)
}

func TestTracker(t *testing.T) {
	var seen []types.GenerationProgress
	tr := NewTracker(2, func(p types.GenerationProgress) { seen = append(seen, p) })

	tr.StartTask(1, 1, msgGenerate)
	tr.CompleteTask(1, 1, false)
	tr.CompleteTask(1, 2, true)

	p := tr.Progress()
	assert.Equal(t, 6, p.TotalTasks)
	assert.Equal(t, 1, p.CompletedTasks)
	assert.Equal(t, types.TaskResult{Day: 1, Task: 1, Success: false, Completed: true}, p.TaskStatus[0])
	assert.Equal(t, types.TaskResult{Day: 2, Task: 1}, p.TaskStatus[3])

	p.TaskStatus[0].Success = true
	assert.False(t, tr.Progress().TaskStatus[0].Success)

	require.Len(t, seen, 3)
	assert.Equal(t, msgGenerate, seen[0].CurrentTaskMessage)
	assert.False(t, seen[0].TaskStatus[0].Completed)
	assert.True(t, seen[1].TaskStatus[0].Completed)

	tr.Finish(errors.New("boom"))
	assert.False(t, tr.Progress().IsGenerating)
	assert.Equal(t, "boom", tr.Progress().Error)
}

func newTestPipeline(ai generativeAI.TextCompletion, lookup places.Lookup) *Pipeline {
	p := NewPipeline(ai, places.NewEnricher(lookup, 0, discardLogger()), DefaultConfig(), discardLogger())
	p.now = func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestPipeline_GenerateAll(t *testing.T) {
	ctx := context.Background()
	ai := new(MockCompletion)
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []generativeAI.Message) bool {
		return strings.Contains(msgs[0].Content, "for Temples in Kyoto")
	}), mock.MatchedBy(func(o generativeAI.Options) bool {
		return o.Schema != nil && o.Schema.Name == "day_events" && o.MaxTokens == 2000
	})).Return(generativeAI.Completion{Content: dayOneJSON}, nil).Once()
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(msgs []generativeAI.Message) bool {
		return strings.Contains(msgs[0].Content, "for Markets in Kyoto")
	}), mock.Anything).Return(generativeAI.Completion{}, errors.New("upstream 503")).Once()

	lookup := places.LookupFunc(func(_ context.Context, query string, _ places.Hint) (types.PlaceFacts, error) {
		if strings.HasPrefix(query, "Omen") {
			return types.PlaceFacts{Name: "Omen Ginkakuji Honten", FormattedAddress: "Sakyo Ward"}, nil
		}
		return types.PlaceFacts{}, types.ErrNotFound
	})

	var seen []types.GenerationProgress
	it, err := newTestPipeline(ai, lookup).GenerateAll(ctx, kyotoPlan, types.PlannerRequest{}, func(p types.GenerationProgress) {
		seen = append(seen, p)
	})
	require.NoError(t, err)
	ai.AssertExpectations(t)

	assert.Equal(t, "kyoto-1", it.TripID)
	assert.Equal(t, "2025-05-01T00:00:00Z", it.GeneratedAt)
	assert.Equal(t, 2, it.TotalDays)
	assert.Equal(t, 2, it.TotalEvents)

	day1 := it.Days[0].Events
	require.Len(t, day1, 2)
	assert.Equal(t, "2025-06-01T09:00:00", day1[0].StartTime)
	assert.Nil(t, day1[0].Place)
	assert.Equal(t, types.EventDining, day1[1].Type)
	assert.Equal(t, types.EventDining.Color(), day1[1].Color)
	assert.Equal(t, "Omen Ginkakuji Honten", day1[1].Name)
	assert.Equal(t, "kyoto-1", day1[1].TripID)

	assert.NotNil(t, it.Days[1].Events)
	assert.Empty(t, it.Days[1].Events)
	assert.Equal(t, "Markets", it.Days[1].Topic)

	// per day: day start, then start and completion of three tasks; plus the finish
	require.Len(t, seen, 2*7+1)
	last := seen[len(seen)-1]
	assert.False(t, last.IsGenerating)
	assert.Equal(t, 5, last.CompletedTasks)
	assert.False(t, last.TaskStatus[3].Success)
	assert.True(t, last.TaskStatus[3].Completed)
	assert.True(t, last.TaskStatus[4].Success)
	assert.Equal(t, msgEnrich, seen[3].CurrentTaskMessage)
}

func TestPipeline_GenerateAll_EmptyPlan(t *testing.T) {
	_, err := newTestPipeline(new(MockCompletion), nil).GenerateAll(context.Background(), types.HighLevelPlan{}, types.PlannerRequest{}, nil)
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestFinalize(t *testing.T) {
	events := []types.DayEvent{
		{Name: "Activity", Type: types.EventSightseeing},
		{Name: "activity", Type: types.EventDining, Place: &types.PlaceFacts{Name: "Nishiki Market"}},
		{Name: "Tea ceremony", Type: types.EventActivity},
	}
	finalize(events)
	assert.Equal(t, "Sightseeing", events[0].Name)
	assert.Equal(t, "Nishiki Market", events[1].Name)
	assert.Equal(t, "Tea ceremony", events[2].Name)
}

type stubGenerator struct {
	err error
}

func (s stubGenerator) GenerateAll(_ context.Context, plan types.HighLevelPlan, _ types.PlannerRequest, onProgress ProgressFunc) (types.DetailedItinerary, error) {
	tr := NewTracker(len(plan.Days), onProgress)
	tr.StartTask(1, 1, msgGenerate)
	tr.Finish(s.err)
	if s.err != nil {
		return types.DetailedItinerary{}, s.err
	}
	return types.DetailedItinerary{TripID: plan.TripID, TotalDays: len(plan.Days)}, nil
}

func TestHandler_StreamDetailed(t *testing.T) {
	body, err := json.Marshal(GenerateRequest{Plan: kyotoPlan})
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(stubGenerator{}, discardLogger()).Routes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/plans/detailed/stream", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	out := rr.Body.String()
	assert.Equal(t, 2, strings.Count(out, "event: progress\n"))
	assert.Contains(t, out, "event: complete\n")
	assert.Less(t, strings.LastIndex(out, "event: progress"), strings.Index(out, "event: complete"))
	assert.Contains(t, out, `"tripId":"kyoto-1"`)
}

func TestHandler_StreamDetailed_Error(t *testing.T) {
	body, err := json.Marshal(GenerateRequest{Plan: kyotoPlan})
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(stubGenerator{err: context.Canceled}, discardLogger()).Routes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/plans/detailed/stream", bytes.NewReader(body)))

	out := rr.Body.String()
	assert.Contains(t, out, "event: error\n")
	assert.NotContains(t, out, "event: complete")
}

func TestHandler_GenerateDetailed_EmptyPlan(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(stubGenerator{}, discardLogger()).Routes(r)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/plans/detailed", strings.NewReader(`{"plan":{"days":[]}}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
