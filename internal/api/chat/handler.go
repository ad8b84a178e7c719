package chat

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/api/selection"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// SelectionRequest asks for a bucket-list reply to be parsed against total items.
type SelectionRequest struct {
	Input string `json:"input"`
	Total int    `json:"total"`
}

type HistoryResponse struct {
	SessionID uuid.UUID                   `json:"session_id"`
	Messages  []types.ConversationMessage `json:"messages"`
}

type Handler struct {
	service  *Service
	sessions *SessionStore
	logger   *slog.Logger
}

func NewHandler(service *Service, sessions *SessionStore, logger *slog.Logger) *Handler {
	return &Handler{service: service, sessions: sessions, logger: logger}
}

func (h *Handler) start(r *http.Request, name, route string) (context.Context, trace.Span, *slog.Logger) {
	ctx, span := otel.Tracer("ChatHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return ctx, span, h.logger.With(slog.String("handler", name))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request, span trace.Span) (*Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		span.SetStatus(codes.Error, "invalid session id")
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format")
		return nil, false
	}
	span.SetAttributes(attribute.String("session.id", id.String()))
	sess, ok := h.sessions.Get(id)
	if !ok {
		span.SetStatus(codes.Error, "session not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Session not found or expired")
		return nil, false
	}
	return sess, true
}

// CreateSession godoc
// @Summary      Start chat session
// @Description  Opens a conversation and returns its id with the welcome message.
// @Tags         Chat
// @Produce      json
// @Success      201 {object} types.ChatResponse
// @Router       /chat/sessions [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, span, _ := h.start(r, "CreateSession", "/chat/sessions")
	defer span.End()

	sess := h.sessions.Create(ctx)
	resp := Welcome()
	resp.SessionID = sess.ID

	span.SetAttributes(attribute.String("session.id", sess.ID.String()))
	span.SetStatus(codes.Ok, "session created")
	api.WriteJSONResponse(w, r, http.StatusCreated, resp)
}

// SendMessage godoc
// @Summary      Send chat message
// @Description  Processes one user turn with the caller's current trips and events.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        sessionID path string true "Session ID"
// @Param        request body types.ChatRequest true "User message"
// @Success      200 {object} types.ChatResponse
// @Failure      400 {object} map[string]any "Invalid request"
// @Failure      404 {object} map[string]any "Session not found"
// @Router       /chat/sessions/{sessionID}/messages [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span, l := h.start(r, "SendMessage", "/chat/sessions/{sessionID}/messages")
	defer span.End()

	sess, ok := h.session(w, r, span)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid chat request", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.ProcessMessage(ctx, sess, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.InfoContext(ctx, "Client went away mid turn")
			return
		}
		l.ErrorContext(ctx, "Chat turn failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, errorMessage)
		return
	}

	span.SetStatus(codes.Ok, "message processed")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetHistory godoc
// @Summary      Chat history
// @Description  Returns the recorded turns of a live session.
// @Tags         Chat
// @Produce      json
// @Param        sessionID path string true "Session ID"
// @Success      200 {object} chat.HistoryResponse
// @Failure      404 {object} map[string]any "Session not found"
// @Router       /chat/sessions/{sessionID}/messages [get]
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	_, span, _ := h.start(r, "GetHistory", "/chat/sessions/{sessionID}/messages")
	defer span.End()

	sess, ok := h.session(w, r, span)
	if !ok {
		return
	}
	sess.Lock()
	messages := sess.History()
	sess.Unlock()

	span.SetStatus(codes.Ok, "history returned")
	api.WriteJSONResponse(w, r, http.StatusOK, HistoryResponse{SessionID: sess.ID, Messages: messages})
}

// DeleteSession godoc
// @Summary      End chat session
// @Tags         Chat
// @Param        sessionID path string true "Session ID"
// @Success      204
// @Failure      404 {object} map[string]any "Session not found"
// @Router       /chat/sessions/{sessionID} [delete]
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	_, span, _ := h.start(r, "DeleteSession", "/chat/sessions/{sessionID}")
	defer span.End()

	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	if !h.sessions.Delete(id) {
		span.SetStatus(codes.Error, "session not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "Session not found or expired")
		return
	}
	span.SetStatus(codes.Ok, "session deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ParseSelection godoc
// @Summary      Parse bucket-list selection
// @Description  Interprets "1, 3", "all" or "cancel" against a list of total items.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request body chat.SelectionRequest true "Selection reply"
// @Success      200 {object} types.BucketListSelection
// @Failure      400 {object} map[string]any "Invalid request"
// @Router       /selection/parse [post]
func (h *Handler) ParseSelection(w http.ResponseWriter, r *http.Request) {
	_, span, _ := h.start(r, "ParseSelection", "/selection/parse")
	defer span.End()

	var req SelectionRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sel := selection.Parse(req.Input, req.Total)
	span.SetAttributes(attribute.Bool("selection.valid", !sel.IsError()))
	api.WriteJSONResponse(w, r, http.StatusOK, sel)
}

// Routes mounts the chat and selection endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/chat/sessions", func(r chi.Router) {
		r.Post("/", h.CreateSession)
		r.Post("/{sessionID}/messages", h.SendMessage)
		r.Get("/{sessionID}/messages", h.GetHistory)
		r.Delete("/{sessionID}", h.DeleteSession)
	})
	r.Post("/selection/parse", h.ParseSelection)
}
