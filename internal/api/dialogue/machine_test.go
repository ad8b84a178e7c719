package dialogue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func newTestMachine() *Machine {
	return NewMachine(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parisTrips() []types.TripRef {
	return []types.TripRef{
		{ID: "t1", Name: "Paris Trip", Destination: "Paris, France", StartDate: "2025-06-01", EndDate: "2025-06-05"},
		{ID: "t2", Name: "Rome", Destination: "Rome, Italy", StartDate: "2025-12-30", EndDate: "2026-01-02"},
	}
}

func TestMachine_FieldOrder(t *testing.T) {
	ctx := context.Background()
	tripCtx := &types.TripContext{TripName: "Paris Trip", Destination: "Paris"}

	for _, kind := range []types.EntryKind{types.EntryNewDestination, types.EntryExistingTrip, types.EntryKnownTrip} {
		t.Run(string(kind), func(t *testing.T) {
			m := newTestMachine()
			m.Start(kind, tripCtx)
			order := Order(kind)

			var visited []types.FieldID
			var last Step
			for i := 0; i < len(order); i++ {
				require.True(t, m.Active())
				visited = append(visited, *m.State().CurrentField)
				last = m.Advance(ctx, fmt.Sprintf("answer %d", i), nil)
				if i < len(order)-1 {
					require.Equal(t, StepAsk, last.Kind)
				}
			}
			assert.Equal(t, order, visited)
			require.Equal(t, StepTriggerRecommendation, last.Kind)
			require.NotNil(t, last.State)
			assert.Nil(t, last.State.CurrentField)
			assert.False(t, m.Active())
		})
	}
}

func TestMachine_KnownTripWithoutContextFallsBack(t *testing.T) {
	m := newTestMachine()
	p := m.Start(types.EntryKnownTrip, nil)
	assert.Equal(t, TravelAdviceStart(), p)
	assert.Equal(t, types.EntryExistingTrip, m.State().EntryKind)
}

func TestMachine_KnownTripStartsAtEventType(t *testing.T) {
	m := newTestMachine()
	p := m.Start(types.EntryKnownTrip, &types.TripContext{TripName: "Paris Trip", Destination: "Paris"})
	assert.Contains(t, p.Message, "Let's get more recommendations for your Paris Trip!")
	assert.Equal(t, []string{"🍽️ Dining", "🏛️ Sightseeing", "🎯 Activities", "🛍️ Other"}, p.Options)

	state := m.State()
	assert.Equal(t, types.FieldEventType, *state.CurrentField)
	require.NotNil(t, state.SelectedTrip)
	assert.Equal(t, "Paris", state.SelectedTrip.Destination)
}

func TestMachine_HappyPath(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	trips := parisTrips()

	p := m.Start(types.EntryExistingTrip, nil)
	assert.Equal(t, TravelAdviceStartOptions, p.Options)

	step := m.Advance(ctx, "1. Paris Trip", trips)
	require.Equal(t, StepAsk, step.Kind)
	assert.Equal(t, "Perfect! I'll help you with recommendations for Paris Trip.\n\n🗺️ Destination: Paris, France\n📅 Dates: Jun 1 - Jun 5, 2025\n\nWhat type of activity are you looking for?", step.Prompt.Message)
	assert.Equal(t, types.FieldEventType, *m.State().CurrentField)

	expect := []struct {
		reply string
		next  types.FieldID
	}{
		{"🍽️ Dining", types.FieldTimePreference},
		{"🌆 Evening", types.FieldBudget},
		{"🤷 Skip", types.FieldGroupSize},
		{"🤷 Skip", types.FieldActivityPreferences},
	}
	for _, e := range expect {
		step = m.Advance(ctx, e.reply, trips)
		require.Equal(t, StepAsk, step.Kind, e.reply)
		assert.Equal(t, e.next, *m.State().CurrentField)
	}

	step = m.Advance(ctx, "local bistros", trips)
	require.Equal(t, StepTriggerRecommendation, step.Kind)
	s := step.State
	assert.Equal(t, "Paris Trip", s.Answers[types.FieldTrip])
	assert.Equal(t, "🍽️ Dining", s.Answers[types.FieldEventType])
	assert.Equal(t, "🌆 Evening", s.Answers[types.FieldTimePreference])
	assert.Equal(t, "🤷 Skip", s.Answers[types.FieldBudget])
	assert.Equal(t, "local bistros", s.Answers[types.FieldActivityPreferences])
	require.NotNil(t, s.SelectedTrip)
	assert.Equal(t, "t1", s.SelectedTrip.ID)
	assert.Empty(t, s.Answers[types.FieldDatePreference])
	assert.False(t, m.Active())
}

func TestMachine_TripListingThenPickByName(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	trips := append(parisTrips(),
		types.TripRef{Name: "Tokyo", Destination: "Tokyo"},
		types.TripRef{Name: "Oslo", Destination: "Oslo"},
		types.TripRef{Name: "Lima", Destination: "Lima"},
	)
	m.Start(types.EntryExistingTrip, nil)

	step := m.Advance(ctx, "📍 Choose from my trips", trips)
	require.Equal(t, StepAsk, step.Kind)
	assert.Contains(t, step.Prompt.Message, "📋 Great! Here are your saved trips:")
	assert.Contains(t, step.Prompt.Message, "5. Lima")
	assert.Contains(t, step.Prompt.Message, "Dec 30, 2025 - Jan 2, 2026")
	assert.Equal(t, []string{"1. Paris Trip", "2. Rome", "3. Tokyo", "4. Oslo"}, step.Prompt.Options)
	assert.Equal(t, types.FieldTrip, *m.State().CurrentField)

	step = m.Advance(ctx, "let's do the rome one", trips)
	require.Equal(t, StepAsk, step.Kind)
	assert.Equal(t, "Rome", m.State().SelectedTrip.Name)
	assert.Equal(t, types.FieldEventType, *m.State().CurrentField)
}

func TestMachine_ChooseTripsWithoutTrips(t *testing.T) {
	m := newTestMachine()
	m.Start(types.EntryExistingTrip, nil)

	step := m.Advance(context.Background(), "📍 Choose from my trips", nil)
	assert.Equal(t, StepReset, step.Kind)
	assert.Contains(t, step.Prompt.Message, "You don't have any trips saved yet!")
	assert.Equal(t, []string{"➕ Create new trip", "🌍 Get general recommendations", "🔙 Back to main menu"}, step.Prompt.Options)
	assert.False(t, m.Active())
}

func TestMachine_OtherAsksOnce(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	m.Start(types.EntryNewDestination, nil)
	m.Advance(ctx, "Lisbon", nil)
	m.Advance(ctx, "next week", nil)
	require.Equal(t, types.FieldEventType, *m.State().CurrentField)

	step := m.Advance(ctx, "🛍️ Other", nil)
	require.Equal(t, StepAsk, step.Kind)
	assert.Contains(t, step.Prompt.Message, "What type of activity are you interested in?")
	assert.Empty(t, step.Prompt.Options)
	assert.Equal(t, types.FieldEventType, *m.State().CurrentField)
	assert.Equal(t, "Other", m.State().Answers[types.FieldEventType])

	step = m.Advance(ctx, "another wine tasting", nil)
	require.Equal(t, StepAsk, step.Kind)
	assert.Equal(t, types.FieldTimePreference, *m.State().CurrentField)
	assert.Equal(t, "another wine tasting", m.State().Answers[types.FieldEventType])
}

func TestMachine_OtherThenNewDestination(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	m.Start(types.EntryExistingTrip, nil)
	m.Advance(ctx, "my summer holiday", nil)
	m.Advance(ctx, "August", nil)
	m.Advance(ctx, "Other", nil)

	step := m.Advance(ctx, "🌍 Plan for a new destination", nil)
	require.Equal(t, StepAsk, step.Kind)
	assert.Equal(t, "🎉 Great! Let's plan your new adventure!\n\nWhat's your destination? Please type the city or country you'd like to visit.", step.Prompt.Message)

	state := m.State()
	assert.True(t, state.IsNewDestination)
	assert.Equal(t, types.FieldDestination, *state.CurrentField)
	assert.Equal(t, 4, state.QuestionCount)
	assert.Empty(t, state.Answers)
	assert.False(t, state.AwaitingOtherDetail)
}

func TestMachine_LoopBreaker(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine()
	m.Start(types.EntryExistingTrip, nil)

	for i := 0; i < maxQuestions; i++ {
		step := m.Advance(ctx, "choose from my trips", parisTrips())
		require.Equal(t, StepAsk, step.Kind)
	}
	step := m.Advance(ctx, "choose from my trips", parisTrips())
	assert.Equal(t, StepReset, step.Kind)
	assert.Equal(t, DefaultPrompt(), step.Prompt)
	assert.False(t, m.Active())
}

func TestMachine_AdvanceWithoutSession(t *testing.T) {
	m := newTestMachine()
	step := m.Advance(context.Background(), "hello", nil)
	assert.Equal(t, StepReset, step.Kind)
	assert.Equal(t, DefaultPrompt(), step.Prompt)
}

func TestMachine_CorruptFieldResets(t *testing.T) {
	m := newTestMachine()
	m.Start(types.EntryNewDestination, nil)
	bogus := types.FieldTrip
	m.state.CurrentField = &bogus

	step := m.Advance(context.Background(), "anything", nil)
	assert.Equal(t, StepReset, step.Kind)
	assert.False(t, m.Active())
}

func TestMachine_AlwaysTerminates(t *testing.T) {
	ctx := context.Background()
	pool := []string{
		"choose from my trips", "plan for a new destination", "Other", "1", "2. Rome",
		"anything", "🤷 Skip", "get general recommendations", "",
	}
	r := rand.New(rand.NewSource(42))
	kinds := []types.EntryKind{types.EntryNewDestination, types.EntryExistingTrip, types.EntryKnownTrip}

	for run := 0; run < 200; run++ {
		m := newTestMachine()
		m.Start(kinds[r.Intn(len(kinds))], &types.TripContext{TripName: "X", Destination: "Y"})
		trips := parisTrips()
		if r.Intn(2) == 0 {
			trips = nil
		}

		done := false
		for i := 0; i <= maxQuestions; i++ {
			step := m.Advance(ctx, pool[r.Intn(len(pool))], trips)
			if step.Kind != StepAsk {
				done = true
				break
			}
		}
		require.True(t, done, "run %d did not terminate", run)
		require.False(t, m.Active())
	}
}

func TestFormatDateRange(t *testing.T) {
	assert.Equal(t, "Jun 1 - Jun 5, 2025", FormatDateRange(types.TripRef{StartDate: "2025-06-01", EndDate: "2025-06-05"}))
	assert.Equal(t, "May 30 - Jun 2, 2025", FormatDateRange(types.TripRef{StartDate: "2025-05-30", EndDate: "2025-06-02"}))
	assert.Equal(t, "Dec 30, 2025 - Jan 2, 2026", FormatDateRange(types.TripRef{StartDate: "2025-12-30", EndDate: "2026-01-02"}))
	assert.Equal(t, "Dates not set", FormatDateRange(types.TripRef{}))
}
