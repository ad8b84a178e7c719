package types

import (
	"time"

	"github.com/google/uuid"
)

// FieldID names one question of the travel-advice gathering flow.
type FieldID string

const (
	FieldTrip                FieldID = "trip"
	FieldDestination         FieldID = "destination"
	FieldTripDates           FieldID = "tripDates"
	FieldDatePreference      FieldID = "datePreference"
	FieldEventType           FieldID = "eventType"
	FieldTimePreference      FieldID = "timePreference"
	FieldBudget              FieldID = "budget"
	FieldGroupSize           FieldID = "groupSize"
	FieldActivityPreferences FieldID = "activityPreferences"
)

// EntryKind selects the field ordering when a gathering session starts.
type EntryKind string

const (
	EntryNewDestination EntryKind = "new_destination"
	EntryExistingTrip   EntryKind = "existing_trip"
	EntryKnownTrip      EntryKind = "known_trip"
)

// ConversationState is the progress of one gathering session. A nil state
// means no gathering is in progress.
type ConversationState struct {
	CurrentField        *FieldID           `json:"currentField,omitempty"`
	Answers             map[FieldID]string `json:"answers"`
	IsNewDestination    bool               `json:"isNewDestination"`
	SelectedTrip        *TripRef           `json:"selectedTrip,omitempty"`
	QuestionCount       int                `json:"questionCount"`
	Order               []FieldID          `json:"order"`
	EntryKind           EntryKind          `json:"entryKind"`
	AwaitingOtherDetail bool               `json:"awaitingOtherDetail,omitempty"`
	OtherHandled        bool               `json:"otherHandled,omitempty"`
}

// Clone returns a deep copy so callers never alias session-owned state.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	out := *s
	if s.CurrentField != nil {
		f := *s.CurrentField
		out.CurrentField = &f
	}
	out.Answers = make(map[FieldID]string, len(s.Answers))
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	if s.SelectedTrip != nil {
		t := *s.SelectedTrip
		out.SelectedTrip = &t
	}
	out.Order = append([]FieldID(nil), s.Order...)
	return &out
}

// Answer returns the stored answer for a field, or "".
func (s *ConversationState) Answer(f FieldID) string {
	if s == nil {
		return ""
	}
	return s.Answers[f]
}

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

type ConversationMessage struct {
	ID        uuid.UUID   `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChatRequest is one user turn with the caller's current trips and events.
type ChatRequest struct {
	Message string          `json:"message"`
	Trips   []TripRef       `json:"trips,omitempty"`
	Events  []CalendarEvent `json:"events,omitempty"`
}

type ChatResponse struct {
	SessionID         uuid.UUID              `json:"session_id,omitempty"`
	Message           string                 `json:"message"`
	Options           []string               `json:"options,omitempty"`
	Recommendations   []RecommendationRecord `json:"recommendations,omitempty"`
	BucketListItems   []BucketListItem       `json:"bucket_list_items,omitempty"`
	ConversationState *ConversationState     `json:"conversation_state,omitempty"`
}

// BucketListSelection is the outcome of parsing a selection reply: exactly one
// of SelectedNumbers, Cancelled or Error is meaningful.
type BucketListSelection struct {
	SelectedNumbers []int  `json:"selectedNumbers,omitempty"`
	Cancelled       bool   `json:"cancelled,omitempty"`
	Error           string `json:"error,omitempty"`
}

func (s BucketListSelection) IsError() bool { return s.Error != "" }
