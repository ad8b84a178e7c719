package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api/dialogue"
	"github.com/FACorreiaa/go-trip-planner/internal/api/intent"
	"github.com/FACorreiaa/go-trip-planner/internal/api/recommendation"
	"github.com/FACorreiaa/go-trip-planner/internal/api/selection"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Recommender fetches enriched recommendations for a completed gathering state.
type Recommender interface {
	Fetch(ctx context.Context, state *types.ConversationState) (*recommendation.Result, error)
}

// BucketSaver stores the records picked from a bucket-list offer.
type BucketSaver interface {
	AppendBucketItems(ctx context.Context, items []types.BucketListItem) ([]types.BucketListItem, error)
}

type Service struct {
	recommender Recommender
	saver       BucketSaver
	classifier  intent.Classifier
	logger      *slog.Logger
	now         func() time.Time
}

func NewService(recommender Recommender, saver BucketSaver, classifier intent.Classifier, logger *slog.Logger) *Service {
	if classifier == nil {
		classifier = intent.NewRuleClassifier(intent.DefaultRules)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{recommender: recommender, saver: saver, classifier: classifier, logger: logger, now: time.Now}
}

// ProcessMessage runs one user turn against sess. Gathering sessions take
// precedence, then a pending bucket-list selection, then fresh intent
// classification. Failures are reported as chat responses; the only error
// returned is a cancelled context.
func (s *Service) ProcessMessage(ctx context.Context, sess *Session, req types.ChatRequest) (types.ChatResponse, error) {
	ctx, span := otel.Tracer("ChatService").Start(ctx, "Service.ProcessMessage", trace.WithAttributes(
		attribute.String("session.id", sess.ID.String()),
		attribute.Int("trips", len(req.Trips)),
		attribute.Int("events", len(req.Events)),
	))
	defer span.End()

	sess.Lock()
	defer sess.Unlock()

	l := s.logger.With(slog.String("session_id", sess.ID.String()))
	message := strings.TrimSpace(req.Message)
	if message != "" {
		sess.record(types.RoleUser, message, s.now())
	}

	resp, route := s.safeRoute(ctx, l, sess, message, req)
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return types.ChatResponse{}, err
	}

	resp.SessionID = sess.ID
	sess.record(types.RoleAssistant, resp.Message, s.now())
	span.SetAttributes(attribute.String("chat.route", route))
	span.SetStatus(codes.Ok, "message processed")
	return resp, nil
}

// safeRoute turns a panic in a handler into the generic error reply and drops
// any half-finished gathering session.
func (s *Service) safeRoute(ctx context.Context, l *slog.Logger, sess *Session, message string, req types.ChatRequest) (resp types.ChatResponse, route string) {
	defer func() {
		if r := recover(); r != nil {
			l.ErrorContext(ctx, "Chat turn panicked", slog.Any("panic", r))
			sess.machine.Reset()
			sess.pendingSelection = nil
			resp, route = errorResponse(), "error"
		}
	}()
	return s.route(ctx, l, sess, message, req)
}

func (s *Service) route(ctx context.Context, l *slog.Logger, sess *Session, message string, req types.ChatRequest) (types.ChatResponse, string) {
	if message == "" {
		return defaultResponse(), "empty"
	}

	if sess.machine.Active() {
		return s.advance(ctx, l, sess, message, req.Trips), "gathering"
	}

	if len(sess.pendingSelection) > 0 {
		if s.classifier.Classify(message) == intent.MainMenu {
			sess.pendingSelection = nil
			return mainMenuResponse(), string(intent.MainMenu)
		}
		return s.selectBucketItems(ctx, l, sess, message), "selection"
	}

	detected := s.classifier.Classify(message)
	l.DebugContext(ctx, "Intent classified", slog.String("intent", string(detected)))

	switch detected {
	case intent.TravelAdvice:
		return s.travelAdvice(ctx, l, sess, message), string(detected)
	case intent.CalendarInfo:
		return calendarResponse(message, req.Trips, req.Events, s.now()), string(detected)
	case intent.About:
		return aboutResponse(message), string(detected)
	case intent.CreateTrip:
		return createTripResponse(message), string(detected)
	case intent.BucketList:
		return s.offerBucketList(sess), string(detected)
	case intent.MainMenu:
		sess.machine.Reset()
		return mainMenuResponse(), string(detected)
	default:
		return unknownResponse(), string(intent.Unknown)
	}
}

// travelAdvice opens a gathering session, or fetches straight away for the
// one-line structured request.
func (s *Service) travelAdvice(ctx context.Context, l *slog.Logger, sess *Session, message string) types.ChatResponse {
	sess.machine.Reset()

	if state, ok := recommendation.ParseShortcut(message); ok {
		return s.fetch(ctx, l, sess, state)
	}

	lower := strings.ToLower(message)
	var prompt dialogue.Prompt
	switch {
	case strings.Contains(lower, "plan for a new destination"), strings.Contains(lower, "get general recommendations"):
		prompt = sess.machine.Start(types.EntryNewDestination, nil)
	case strings.Contains(lower, "get more travel advice") && sess.tripContext != nil:
		prompt = sess.machine.Start(types.EntryKnownTrip, sess.tripContext)
	default:
		prompt = sess.machine.Start(types.EntryExistingTrip, nil)
	}

	resp := fromPrompt(prompt)
	resp.ConversationState = sess.machine.State()
	return resp
}

func (s *Service) advance(ctx context.Context, l *slog.Logger, sess *Session, message string, trips []types.TripRef) types.ChatResponse {
	step := sess.machine.Advance(ctx, message, trips)
	switch step.Kind {
	case dialogue.StepTriggerRecommendation:
		return s.fetch(ctx, l, sess, step.State)
	case dialogue.StepReset:
		return fromPrompt(step.Prompt)
	default:
		resp := fromPrompt(step.Prompt)
		resp.ConversationState = sess.machine.State()
		return resp
	}
}

func (s *Service) fetch(ctx context.Context, l *slog.Logger, sess *Session, state *types.ConversationState) types.ChatResponse {
	if s.recommender == nil {
		l.ErrorContext(ctx, "No recommendation backend configured")
		return recommendationsFailedResponse()
	}

	res, err := s.recommender.Fetch(ctx, state)
	if err != nil {
		var recErr *recommendation.RecommendationError
		if errors.As(err, &recErr) {
			l.WarnContext(ctx, "Recommendations unavailable", slog.Any("error", recErr.Cause))
		} else {
			l.ErrorContext(ctx, "Recommendation fetch failed", slog.Any("error", err))
		}
		return recommendationsFailedResponse()
	}

	sess.lastRecommendations = res.Records
	tripCtx := res.Context
	sess.tripContext = &tripCtx
	return recommendationsResponse(res.Records)
}

func (s *Service) offerBucketList(sess *Session) types.ChatResponse {
	if len(sess.lastRecommendations) == 0 {
		return respond(noRecommendations, optTravelAdvice, optCheckCalendar, optMainMenu)
	}
	sess.pendingSelection = lo.Map(sess.lastRecommendations, func(rec types.RecommendationRecord, _ int) types.BucketListItem {
		return toBucketItem(rec)
	})
	return bucketOffer(sess.pendingSelection)
}

// selectBucketItems applies a selection reply to the pending offer. An
// unparseable reply keeps the offer open so the user can try again.
func (s *Service) selectBucketItems(ctx context.Context, l *slog.Logger, sess *Session, message string) types.ChatResponse {
	pending := sess.pendingSelection
	sel := selection.Parse(message, len(pending))

	switch {
	case sel.Cancelled:
		sess.pendingSelection = nil
		return respond(selectionCancelled, optMoreTravelAdvice, optCheckCalendar, optAboutMoo)
	case sel.IsError():
		l.DebugContext(ctx, "Invalid bucket list selection", slog.String("reason", sel.Error))
		return respond(sel.Error, optSelectAll, optCancel)
	}

	sess.pendingSelection = nil
	chosen := lo.Map(sel.SelectedNumbers, func(n int, _ int) types.BucketListItem { return pending[n-1] })

	if s.saver != nil {
		saved, err := s.saver.AppendBucketItems(ctx, chosen)
		if err != nil {
			l.ErrorContext(ctx, "Could not save bucket list items", slog.Int("count", len(chosen)), slog.Any("error", err))
			return respond(selectionSaveFailed, optTravelAdvice, optCheckCalendar, optMainMenu)
		}
		chosen = saved
	}

	l.InfoContext(ctx, "Bucket list items saved", slog.Int("count", len(chosen)))
	return savedResponse(chosen)
}

func toBucketItem(rec types.RecommendationRecord) types.BucketListItem {
	return types.BucketListItem{
		Name:          rec.Name,
		Type:          types.ParseActivityType(string(rec.Type)),
		Description:   rec.Description,
		Country:       rec.Country,
		City:          rec.City,
		Location:      rec.Location(),
		WebsiteLink:   rec.WebsiteLink,
		EstimatedCost: rec.EstimatedCost,
		OpenHours:     rec.OpenHours,
		Place:         rec.Enrichment,
	}
}
