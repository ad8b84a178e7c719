package detailed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type Generator interface {
	GenerateAll(ctx context.Context, plan types.HighLevelPlan, req types.PlannerRequest, onProgress ProgressFunc) (types.DetailedItinerary, error)
}

type GenerateRequest struct {
	Plan    types.HighLevelPlan  `json:"plan"`
	Request types.PlannerRequest `json:"request"`
}

// Stream event names.
const (
	EventProgress = "progress"
	EventComplete = "complete"
	EventError    = "error"
)

type streamEvent struct {
	ID   string
	Type string
	Data any
}

type Handler struct {
	generator Generator
	logger    *slog.Logger
}

func NewHandler(generator Generator, logger *slog.Logger) *Handler {
	return &Handler{generator: generator, logger: logger}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, span trace.Span) (GenerateRequest, bool) {
	var req GenerateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return req, false
	}
	if len(req.Plan.Days) == 0 {
		span.SetStatus(codes.Error, "empty plan")
		api.ErrorResponse(w, r, http.StatusBadRequest, "plan.days must not be empty")
		return req, false
	}
	return req, true
}

// GenerateDetailed godoc
// @Summary      Generate detailed itinerary
// @Description  Expands every day of a high-level plan into timed events enriched with place data.
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        request body detailed.GenerateRequest true "Plan and planning form"
// @Success      200 {object} types.DetailedItinerary
// @Failure      400 {object} map[string]any "Invalid request"
// @Failure      500 {object} map[string]any "Generation aborted"
// @Router       /plans/detailed [post]
func (h *Handler) GenerateDetailed(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DetailedHandler").Start(r.Context(), "GenerateDetailed", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/plans/detailed"),
	))
	defer span.End()

	req, ok := h.decode(w, r, span)
	if !ok {
		return
	}

	it, err := h.generator.GenerateAll(ctx, req.Plan, req.Request, nil)
	if err != nil {
		h.logger.ErrorContext(ctx, "Detailed itinerary generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate detailed itinerary. Please try again.")
		return
	}
	span.SetStatus(codes.Ok, "generated")
	api.WriteJSONResponse(w, r, http.StatusOK, it)
}

// StreamDetailed godoc
// @Summary      Stream detailed itinerary generation
// @Description  Server-sent events: one "progress" event per task transition, then "complete" with the itinerary or "error".
// @Tags         Plan
// @Accept       json
// @Produce      text/event-stream
// @Param        request body detailed.GenerateRequest true "Plan and planning form"
// @Success      200 {string} string "SSE stream"
// @Failure      400 {object} map[string]any "Invalid request"
// @Router       /plans/detailed/stream [post]
func (h *Handler) StreamDetailed(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("DetailedHandler").Start(r.Context(), "StreamDetailed", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/plans/detailed/stream"),
	))
	defer span.End()

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Streaming not supported")
		return
	}
	req, ok := h.decode(w, r, span)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable proxy buffering

	// Generation runs in its own goroutine; this one owns the writer
	events := make(chan streamEvent, 8)
	send := func(ev streamEvent) {
		ev.ID = uuid.NewString()
		select {
		case events <- ev:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(events)
		it, err := h.generator.GenerateAll(ctx, req.Plan, req.Request, func(p types.GenerationProgress) {
			send(streamEvent{Type: EventProgress, Data: p})
		})
		if err != nil {
			send(streamEvent{Type: EventError, Data: map[string]string{"error": "Failed to generate detailed itinerary. Please try again."}})
			return
		}
		send(streamEvent{Type: EventComplete, Data: it})
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				span.SetStatus(codes.Ok, "stream closed")
				return
			}
			data, err := json.Marshal(ev.Data)
			if err != nil {
				h.logger.ErrorContext(ctx, "Failed to marshal event", slog.Any("error", err))
				continue
			}
			fmt.Fprintf(w, "id: %s\n", ev.ID)
			fmt.Fprintf(w, "event: %s\n", ev.Type)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush() // push each event immediately

		case <-ctx.Done():
			h.logger.InfoContext(ctx, "Client disconnected from detailed stream")
			return
		}
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/plans/detailed", h.GenerateDetailed)
	r.Post("/plans/detailed/stream", h.StreamDetailed)
}
