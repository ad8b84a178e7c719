package dialogue

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const maxQuestions = 10

// StepKind tells the caller what to do with an Advance result.
type StepKind int

const (
	// StepAsk carries the next question for the user.
	StepAsk StepKind = iota
	// StepTriggerRecommendation means every field is gathered; State is the final snapshot.
	StepTriggerRecommendation
	// StepReset means the session was discarded and Prompt is a reset message.
	StepReset
)

type Step struct {
	Kind   StepKind
	Prompt Prompt
	State  *types.ConversationState
}

var tripNumberPattern = regexp.MustCompile(`^(\d+)\.?`)

// Machine gathers trip parameters one question at a time. It is owned by a
// single conversation and is not safe for concurrent use.
type Machine struct {
	logger *slog.Logger
	state  *types.ConversationState
}

func NewMachine(logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{logger: logger}
}

// Active reports whether a gathering session is in progress.
func (m *Machine) Active() bool {
	return m.state != nil
}

// State returns a copy of the current state, or nil.
func (m *Machine) State() *types.ConversationState {
	return m.state.Clone()
}

// Reset discards any gathering session.
func (m *Machine) Reset() {
	m.state = nil
}

// Start opens a gathering session. A known-trip start needs the trip context of
// an earlier recommendation run and falls back to the existing-trip flow without it.
func (m *Machine) Start(kind types.EntryKind, tripCtx *types.TripContext) Prompt {
	if kind == types.EntryKnownTrip && tripCtx == nil {
		kind = types.EntryExistingTrip
	}

	state := &types.ConversationState{
		Answers:          make(map[types.FieldID]string),
		Order:            Order(kind),
		EntryKind:        kind,
		IsNewDestination: kind == types.EntryNewDestination,
	}
	first := state.Order[0]
	state.CurrentField = &first
	m.state = state

	switch kind {
	case types.EntryNewDestination:
		q, _ := Question(types.FieldDestination)
		return Prompt{Message: newAdventureIntro + q.Message, Options: q.Options}
	case types.EntryKnownTrip:
		state.Answers[types.FieldTrip] = tripCtx.TripName
		state.SelectedTrip = &types.TripRef{Name: tripCtx.TripName, Destination: tripCtx.Destination}
		q, _ := Question(types.FieldEventType)
		return Prompt{
			Message: "🎉 Great! Let's get more recommendations for your " + tripCtx.TripName + "!\n\n" + q.Message,
			Options: q.Options,
		}
	default:
		return TravelAdviceStart()
	}
}

// Advance records the answer to the current question and moves the session
// forward. It never fails: corrupted or runaway sessions reset to the default prompt.
func (m *Machine) Advance(ctx context.Context, utterance string, trips []types.TripRef) Step {
	state := m.state
	if state == nil || state.CurrentField == nil {
		m.logger.WarnContext(ctx, "Gathering state missing, resetting", slog.Any("error", types.ErrStateCorruption))
		return m.reset()
	}

	state.QuestionCount++
	if state.QuestionCount > maxQuestions {
		m.logger.WarnContext(ctx, "Gathering exceeded question limit, resetting",
			slog.Int("question_count", state.QuestionCount))
		return m.reset()
	}

	current := *state.CurrentField
	state.Answers[current] = utterance
	lower := strings.ToLower(utterance)

	if current == types.FieldTrip && strings.Contains(lower, "choose from my trips") {
		if len(trips) == 0 {
			m.state = nil
			return Step{Kind: StepReset, Prompt: Prompt{Message: noTripsMessage, Options: append([]string(nil), noTripsOptions...)}}
		}
		return Step{Kind: StepAsk, Prompt: tripList(trips)}
	}

	if strings.Contains(lower, "plan for a new destination") || strings.Contains(lower, "get general recommendations") {
		count := state.QuestionCount
		p := m.Start(types.EntryNewDestination, nil)
		m.state.QuestionCount = count
		return Step{Kind: StepAsk, Prompt: p}
	}

	if current == types.FieldTrip && len(trips) > 0 {
		if trip, ok := matchTrip(utterance, trips); ok {
			state.Answers[types.FieldTrip] = trip.Name
			state.SelectedTrip = &trip
			next := types.FieldEventType
			state.CurrentField = &next
			return Step{Kind: StepAsk, Prompt: tripSelected(trip)}
		}
	}

	if current == types.FieldEventType {
		if state.AwaitingOtherDetail {
			state.AwaitingOtherDetail = false
		} else if !state.OtherHandled && strings.Contains(lower, "other") {
			state.Answers[current] = "Other"
			state.AwaitingOtherDetail = true
			state.OtherHandled = true
			return Step{Kind: StepAsk, Prompt: Prompt{Message: otherFollowUp}}
		}
	}

	next, ok := m.nextField(current)
	if !ok {
		if indexOf(state.Order, current) == -1 {
			m.logger.WarnContext(ctx, "Current field not in ordering, resetting",
				slog.String("field", string(current)), slog.Any("error", types.ErrStateCorruption))
			return m.reset()
		}
		snapshot := state.Clone()
		snapshot.CurrentField = nil
		m.state = nil
		return Step{Kind: StepTriggerRecommendation, State: snapshot}
	}

	q, found := Question(next)
	if !found {
		m.logger.WarnContext(ctx, "No question template for field, resetting",
			slog.String("field", string(next)), slog.Any("error", types.ErrStateCorruption))
		return m.reset()
	}
	state.CurrentField = &next
	return Step{Kind: StepAsk, Prompt: q}
}

// nextField walks the ordering past current, skipping the date preference once
// a trip with known dates is selected. ok is false when nothing remains.
func (m *Machine) nextField(current types.FieldID) (types.FieldID, bool) {
	order := m.state.Order
	idx := indexOf(order, current)
	if idx == -1 {
		return "", false
	}
	for _, f := range order[idx+1:] {
		if f == types.FieldDatePreference && m.state.SelectedTrip != nil {
			continue
		}
		return f, true
	}
	return "", false
}

func (m *Machine) reset() Step {
	m.state = nil
	return Step{Kind: StepReset, Prompt: DefaultPrompt()}
}

func matchTrip(utterance string, trips []types.TripRef) (types.TripRef, bool) {
	if m := tripNumberPattern.FindStringSubmatch(strings.TrimSpace(utterance)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= len(trips) {
			return trips[n-1], true
		}
	}
	lower := strings.ToLower(utterance)
	for _, trip := range trips {
		if trip.Name != "" && strings.Contains(lower, strings.ToLower(trip.Name)) {
			return trip, true
		}
	}
	return types.TripRef{}, false
}

func indexOf(order []types.FieldID, f types.FieldID) int {
	for i, o := range order {
		if o == f {
			return i
		}
	}
	return -1
}
