package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api/dialogue"
	"github.com/FACorreiaa/go-trip-planner/internal/api/recommendation"
	"github.com/FACorreiaa/go-trip-planner/internal/api/selection"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Fetch(ctx context.Context, state *types.ConversationState) (*recommendation.Result, error) {
	args := m.Called(ctx, state)
	res, _ := args.Get(0).(*recommendation.Result)
	return res, args.Error(1)
}

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) AppendBucketItems(ctx context.Context, items []types.BucketListItem) ([]types.BucketListItem, error) {
	args := m.Called(ctx, items)
	saved, _ := args.Get(0).([]types.BucketListItem)
	return saved, args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var june1 = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService(rec Recommender, saver BucketSaver) *Service {
	s := NewService(rec, saver, nil, discardLogger())
	s.now = func() time.Time { return june1 }
	return s
}

func newTestSession() *Session {
	return newSession(discardLogger(), june1)
}

func trips() []types.TripRef {
	return []types.TripRef{
		{ID: "t1", Name: "Paris Trip", Destination: "Paris, France", StartDate: "2025-06-10", EndDate: "2025-06-14"},
		{ID: "t2", Name: "Rome", Destination: "Rome, Italy", StartDate: "2025-03-01", EndDate: "2025-03-04"},
	}
}

func parisResult() *recommendation.Result {
	return &recommendation.Result{
		Records: []types.RecommendationRecord{
			{Name: "Le Comptoir", Type: types.ActivityRestaurant, City: "Paris", Country: "France"},
			{Name: "Musée d'Orsay", Type: types.ActivityCultural, City: "Paris", Country: "France"},
		},
		Context: types.TripContext{TripName: "Paris Trip", Destination: "Paris, France"},
	}
}

func send(t *testing.T, s *Service, sess *Session, message string) types.ChatResponse {
	t.Helper()
	resp, err := s.ProcessMessage(context.Background(), sess, types.ChatRequest{Message: message, Trips: trips()})
	require.NoError(t, err)
	return resp
}

func TestService_EmptyMessage(t *testing.T) {
	s := newTestService(nil, nil)
	sess := newTestSession()

	resp := send(t, s, sess, "   ")
	assert.Equal(t, dialogue.DefaultPrompt().Message, resp.Message)
	assert.Equal(t, sess.ID, resp.SessionID)
}

func TestService_HappyPath(t *testing.T) {
	rec := new(MockRecommender)
	saver := new(MockSaver)
	s := newTestService(rec, saver)
	sess := newTestSession()

	rec.On("Fetch", mock.Anything, mock.MatchedBy(func(st *types.ConversationState) bool {
		return st.SelectedTrip != nil && st.SelectedTrip.Name == "Paris Trip" &&
			st.Answer(types.FieldEventType) == "🍽️ Dining" &&
			st.Answer(types.FieldActivityPreferences) == "rooftop views"
	})).Return(parisResult(), nil).Once()

	resp := send(t, s, sess, "🧳 Get travel advice")
	assert.Equal(t, dialogue.TravelAdviceStartOptions, resp.Options)
	require.NotNil(t, resp.ConversationState)
	assert.Equal(t, types.EntryExistingTrip, resp.ConversationState.EntryKind)

	resp = send(t, s, sess, "📍 Choose from my trips")
	assert.Contains(t, resp.Message, "1. Paris Trip")
	assert.Equal(t, []string{"1. Paris Trip", "2. Rome"}, resp.Options)

	resp = send(t, s, sess, "1. Paris Trip")
	assert.Contains(t, resp.Message, "Perfect! I'll help you with recommendations for Paris Trip.")

	for _, answer := range []string{"🍽️ Dining", "🌅 Morning", "🤷 Skip", "👤 Solo"} {
		resp = send(t, s, sess, answer)
		require.NotNil(t, resp.ConversationState, "answer %q", answer)
	}

	resp = send(t, s, sess, "rooftop views")
	assert.Contains(t, resp.Message, "🎉 Here are my recommendations for you:")
	assert.Contains(t, resp.Message, "1. 🍽️ Le Comptoir")
	assert.Len(t, resp.Recommendations, 2)
	assert.Nil(t, resp.ConversationState)
	assert.False(t, sess.machine.Active())

	resp = send(t, s, sess, "💾 Save to Bucket List")
	assert.Contains(t, resp.Message, "I found 2 recommendations to save")
	assert.Contains(t, resp.Message, "2. 🏛️ Musée d'Orsay")
	assert.Equal(t, []string{"✅ All", "❌ Cancel"}, resp.Options)

	resp = send(t, s, sess, "1, 3")
	assert.Equal(t, selection.OutOfRange(2), resp.Message)
	assert.Len(t, sess.pendingSelection, 2)

	saver.On("AppendBucketItems", mock.Anything, mock.MatchedBy(func(items []types.BucketListItem) bool {
		return len(items) == 1 && items[0].Name == "Musée d'Orsay" && items[0].Location == "Paris, France"
	})).Return([]types.BucketListItem{{ID: "b1", Name: "Musée d'Orsay", Type: types.ActivityCultural}}, nil).Once()

	resp = send(t, s, sess, "2")
	assert.Equal(t, "Perfect! I've added 1 activity to your bucket list!\n\n• Musée d'Orsay\n\nWhat would you like to do next?", resp.Message)
	require.Len(t, resp.BucketListItems, 1)
	assert.Equal(t, "b1", resp.BucketListItems[0].ID)
	assert.Empty(t, sess.pendingSelection)

	rec.AssertExpectations(t)
	saver.AssertExpectations(t)
	assert.Len(t, sess.History(), 22)
}

func TestService_SelectionCancelKeepsRecommendations(t *testing.T) {
	saver := new(MockSaver)
	s := newTestService(nil, saver)
	sess := newTestSession()
	sess.lastRecommendations = parisResult().Records

	send(t, s, sess, "bucket list")
	resp := send(t, s, sess, "❌ Cancel")
	assert.Equal(t, selectionCancelled, resp.Message)
	assert.Empty(t, sess.pendingSelection)
	assert.Len(t, sess.lastRecommendations, 2)

	resp = send(t, s, sess, "save to bucket list")
	assert.Contains(t, resp.Message, "I found 2 recommendations")
	saver.AssertNotCalled(t, "AppendBucketItems", mock.Anything, mock.Anything)
}

func TestService_SelectAllAndSaveFailure(t *testing.T) {
	saver := new(MockSaver)
	s := newTestService(nil, saver)
	sess := newTestSession()
	sess.lastRecommendations = parisResult().Records

	saver.On("AppendBucketItems", mock.Anything, mock.MatchedBy(func(items []types.BucketListItem) bool {
		return len(items) == 2
	})).Return(nil, errors.New("db down")).Once()

	send(t, s, sess, "bucket list")
	resp := send(t, s, sess, "✅ All")
	assert.Equal(t, selectionSaveFailed, resp.Message)
	assert.Empty(t, sess.pendingSelection)
	saver.AssertExpectations(t)
}

func TestService_MainMenuEscapesSelection(t *testing.T) {
	s := newTestService(nil, nil)
	sess := newTestSession()
	sess.lastRecommendations = parisResult().Records

	send(t, s, sess, "bucket list")
	resp := send(t, s, sess, "🔙 Back to main menu")
	assert.Equal(t, mainMenuMessage, resp.Message)
	assert.Empty(t, sess.pendingSelection)
}

func TestService_BucketListWithoutRecommendations(t *testing.T) {
	s := newTestService(nil, nil)
	resp := send(t, s, newTestSession(), "💾 Save to Bucket List")
	assert.Equal(t, noRecommendations, resp.Message)
}

func TestService_Shortcut(t *testing.T) {
	rec := new(MockRecommender)
	s := newTestService(rec, nil)
	sess := newTestSession()

	rec.On("Fetch", mock.Anything, mock.MatchedBy(func(st *types.ConversationState) bool {
		return st.IsNewDestination &&
			st.Answer(types.FieldDestination) == "Lisbon" &&
			st.Answer(types.FieldEventType) == "dining" &&
			st.Answer(types.FieldBudget) == "cheap"
	})).Return(parisResult(), nil).Once()

	resp := send(t, s, sess, "Get travel recommendations for dining activities in Lisbon, budget: cheap")
	assert.Len(t, resp.Recommendations, 2)
	assert.False(t, sess.machine.Active())
	rec.AssertExpectations(t)
}

func TestService_FetchFailure(t *testing.T) {
	rec := new(MockRecommender)
	s := newTestService(rec, nil)
	sess := newTestSession()

	rec.On("Fetch", mock.Anything, mock.Anything).
		Return(nil, &recommendation.RecommendationError{Cause: types.ErrParseFailure}).Once()

	resp := send(t, s, sess, "Get travel recommendations for Porto")
	assert.Equal(t, recommendationsFailed, resp.Message)
	assert.Equal(t, dialogue.TravelAdviceStartOptions, resp.Options)
	assert.Nil(t, sess.tripContext)
}

func TestService_MoreAdviceUsesTripContext(t *testing.T) {
	s := newTestService(nil, nil)

	t.Run("with context", func(t *testing.T) {
		sess := newTestSession()
		sess.tripContext = &parisResult().Context

		resp := send(t, s, sess, "🧳 Get more travel advice")
		assert.Contains(t, resp.Message, "Let's get more recommendations for your Paris Trip!")
		require.NotNil(t, resp.ConversationState)
		assert.Equal(t, types.EntryKnownTrip, resp.ConversationState.EntryKind)
		assert.Equal(t, types.FieldEventType, *resp.ConversationState.CurrentField)
	})

	t.Run("without context", func(t *testing.T) {
		resp := send(t, s, newTestSession(), "🧳 Get more travel advice")
		assert.Equal(t, dialogue.TravelAdviceStart().Message, resp.Message)
	})

	t.Run("new destination", func(t *testing.T) {
		resp := send(t, s, newTestSession(), "🌍 Plan for a new destination")
		assert.Contains(t, resp.Message, "Let's plan your new adventure!")
		assert.Equal(t, types.FieldDestination, *resp.ConversationState.CurrentField)
	})
}

func TestService_CannedResponses(t *testing.T) {
	s := newTestService(nil, nil)

	tests := []struct {
		message string
		want    string
	}{
		{"🐄 About Moo", aboutShort},
		{"💬 Tell me more about yourself", aboutPersonality + "\n\n" + aboutPurpose + "\n\n" + aboutCapability},
		{"➕ Create new trip", createTripMessage},
		{"➕ Create new event", createEventMessage},
		{"main menu", mainMenuMessage},
		{"what's the weather like", unknownMessage},
		{"📅 Check my calendar", calendarMenuMessage},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			resp := send(t, s, newTestSession(), tt.message)
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}

func TestCalendarResponse(t *testing.T) {
	t.Run("trips", func(t *testing.T) {
		resp := calendarResponse("🧳 My trips", trips(), nil, june1)
		assert.Contains(t, resp.Message, "1. Paris Trip\n   📅 Jun 10 - Jun 14, 2025\n   🌍 Paris, France\n\n")
		assert.Contains(t, resp.Options, "📅 Check my events")
	})

	t.Run("no trips", func(t *testing.T) {
		resp := calendarResponse("view all trips", nil, nil, june1)
		assert.Contains(t, resp.Message, "You don't have any trips saved yet!")
	})

	t.Run("events truncated", func(t *testing.T) {
		events := make([]types.CalendarEvent, 7)
		for i := range events {
			events[i] = types.CalendarEvent{
				Name:      fmt.Sprintf("Event %d", i+1),
				StartTime: time.Date(2025, 6, 1+i, 9, 30, 0, 0, time.UTC),
			}
		}
		events[0].Location = "Louvre"

		resp := calendarResponse("📋 My events", nil, events, june1)
		assert.Contains(t, resp.Message, "1. Event 1\n   📅 6/1/2025\n   ⏰ 9:30:00 AM\n   📍 Louvre\n\n")
		assert.Contains(t, resp.Message, "5. Event 5")
		assert.NotContains(t, resp.Message, "6. Event 6")
		assert.Contains(t, resp.Message, "... and 2 more events\n\n")
	})

	t.Run("summary", func(t *testing.T) {
		resp := calendarResponse("📊 Calendar summary", trips(), nil, june1)
		assert.Contains(t, resp.Message, "🧳 Trips: 2\n📅 Events: 0\n\n")
		assert.Contains(t, resp.Message, "🧳 Next Trip: Paris Trip\n📅 Departure: 2025-06-10\n\n")
	})

	t.Run("summary without upcoming trip", func(t *testing.T) {
		resp := calendarResponse("calendar summary", trips(), nil, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.NotContains(t, resp.Message, "Next Trip")
	})
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(time.Minute, discardLogger())

	sess := store.Create(context.Background())
	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, store.Count())

	assert.True(t, store.Delete(sess.ID))
	assert.False(t, store.Delete(sess.ID))
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)

	_, ok = store.Get(uuid.New())
	assert.False(t, ok)
}

func TestSession_HistoryIsBounded(t *testing.T) {
	sess := newTestSession()
	for i := 0; i < maxHistory+5; i++ {
		sess.record(types.RoleUser, fmt.Sprintf("m%d", i), june1)
	}
	h := sess.History()
	require.Len(t, h, maxHistory)
	assert.Equal(t, "m5", h[0].Content)
}

func newTestRouter(rec Recommender) (*chi.Mux, *SessionStore) {
	store := NewSessionStore(time.Minute, discardLogger())
	h := NewHandler(newTestService(rec, nil), store, discardLogger())
	r := chi.NewRouter()
	h.Routes(r)
	return r, store
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_SessionLifecycle(t *testing.T) {
	r, store := newTestRouter(nil)

	rr := do(r, http.MethodPost, "/chat/sessions", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	var created types.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, welcomeMessage, created.Message)
	require.NotEqual(t, uuid.Nil, created.SessionID)
	assert.Equal(t, 1, store.Count())

	base := "/chat/sessions/" + created.SessionID.String()
	rr = do(r, http.MethodPost, base+"/messages", `{"message":"🐄 About Moo"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, aboutShort, resp.Message)
	assert.Equal(t, created.SessionID, resp.SessionID)

	rr = do(r, http.MethodGet, base+"/messages", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var history HistoryResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &history))
	require.Len(t, history.Messages, 2)
	assert.Equal(t, types.RoleUser, history.Messages[0].Role)
	assert.Equal(t, types.RoleAssistant, history.Messages[1].Role)

	rr = do(r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(r, http.MethodPost, base+"/messages", `{"message":"hi"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = do(r, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandler_SendMessageErrors(t *testing.T) {
	r, store := newTestRouter(nil)
	sess := store.Create(context.Background())

	rr := do(r, http.MethodPost, "/chat/sessions/not-a-uuid/messages", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodPost, "/chat/sessions/"+sess.ID.String()+"/messages", `{"message":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(r, http.MethodPost, "/chat/sessions/"+sess.ID.String()+"/messages", `{"message":"hi","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `body contains unknown key \"extra\"`)
}

func TestHandler_ParseSelection(t *testing.T) {
	r, _ := newTestRouter(nil)

	tests := []struct {
		body string
		want types.BucketListSelection
	}{
		{`{"input":"3, 1, 3","total":4}`, types.BucketListSelection{SelectedNumbers: []int{1, 3}}},
		{`{"input":"ALL","total":2}`, types.BucketListSelection{SelectedNumbers: []int{1, 2}}},
		{`{"input":"cancel","total":2}`, types.BucketListSelection{Cancelled: true}},
		{`{"input":"5","total":2}`, types.BucketListSelection{Error: selection.OutOfRange(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rr := do(r, http.MethodPost, "/selection/parse", tt.body)
			require.Equal(t, http.StatusOK, rr.Code)
			var got types.BucketListSelection
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}
