package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Generator is the detailed itinerary backend used by Handler.
type Generator interface {
	Generate(ctx context.Context, req types.PlannerRequest) (types.Itinerary, ParseResult, error)
	Edit(ctx context.Context, current types.Itinerary, request string) (EditResult, error)
}

// Planner is the high-level plan backend used by Handler.
type Planner interface {
	GeneratePlan(ctx context.Context, req types.PlannerRequest) (types.HighLevelPlan, error)
	ValidateModification(message string) types.PlanValidation
	ModifyPlan(ctx context.Context, tripID, request string) (types.HighLevelPlan, error)
}

// Saver persists itineraries after generation and edits.
type Saver interface {
	SaveItinerary(ctx context.Context, it types.Itinerary) error
}

type GenerateResponse struct {
	Itinerary types.Itinerary `json:"itinerary"`
	Parse     ParseResult     `json:"parse"`
}

type EditRequest struct {
	Itinerary types.Itinerary `json:"itinerary"`
	Request   string          `json:"request"`
}

type ModifyRequest struct {
	Message string `json:"message"`
}

type ModifyResponse struct {
	Validation types.PlanValidation `json:"validation"`
	Plan       *types.HighLevelPlan `json:"plan,omitempty"`
}

type Handler struct {
	itineraries Generator
	plans       Planner
	saver       Saver
	logger      *slog.Logger
}

// NewHandler wires the endpoints. saver may be nil.
func NewHandler(itineraries Generator, plans Planner, saver Saver, logger *slog.Logger) *Handler {
	return &Handler{itineraries: itineraries, plans: plans, saver: saver, logger: logger}
}

// save stores it without failing the request.
func (h *Handler) save(ctx context.Context, l *slog.Logger, it types.Itinerary) {
	if h.saver == nil {
		return
	}
	if err := h.saver.SaveItinerary(ctx, it); err != nil {
		l.WarnContext(ctx, "Could not persist itinerary", slog.String("trip_id", it.TripID), slog.Any("error", err))
	}
}

func (h *Handler) start(r *http.Request, name, route string) (context.Context, trace.Span, *slog.Logger) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return ctx, span, h.logger.With(slog.String("handler", name))
}

// GenerateItinerary godoc
// @Summary      Generate itinerary
// @Description  Plans a day-by-day itinerary for a trip. Malformed AI output is recovered and the parse tier is reported.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        request body types.PlannerRequest true "Trip planning form"
// @Success      200 {object} itinerary.GenerateResponse
// @Failure      400 {object} map[string]any "Invalid request"
// @Failure      502 {object} map[string]any "AI backend failure"
// @Router       /itineraries [post]
func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span, l := h.start(r, "GenerateItinerary", "/itineraries")
	defer span.End()

	var req types.PlannerRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid itinerary request", slog.Any("error", err))
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Trip.Destination) == "" {
		span.SetStatus(codes.Error, "missing destination")
		api.ErrorResponse(w, r, http.StatusBadRequest, "selectedTrip.destination is required")
		return
	}

	it, result, err := h.itineraries.Generate(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to generate trip itinerary. Please try again.")
		return
	}

	h.save(ctx, l, it)
	span.SetAttributes(attribute.String("parse.tier", result.Tier.String()))
	span.SetStatus(codes.Ok, "itinerary generated")
	api.WriteJSONResponse(w, r, http.StatusOK, GenerateResponse{Itinerary: it, Parse: result})
}

// EditItinerary godoc
// @Summary      Edit itinerary
// @Description  Applies a free-text modification to an itinerary, replaying the trip's AI conversation.
// @Tags         Itinerary
// @Accept       json
// @Produce      json
// @Param        tripID  path string true "Trip ID"
// @Param        request body itinerary.EditRequest true "Current itinerary and requested change"
// @Success      200 {object} itinerary.EditResult
// @Failure      400 {object} map[string]any "Invalid request"
// @Failure      422 {object} map[string]any "AI reply was not a valid itinerary"
// @Failure      502 {object} map[string]any "AI backend failure"
// @Router       /itineraries/{tripID}/edit [post]
func (h *Handler) EditItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span, l := h.start(r, "EditItinerary", "/itineraries/{tripID}/edit")
	defer span.End()

	tripID := chi.URLParam(r, "tripID")
	var req EditRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Request) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "request is required")
		return
	}
	if req.Itinerary.TripID == "" {
		req.Itinerary.TripID = tripID
	}
	span.SetAttributes(attribute.String("trip.id", req.Itinerary.TripID))

	res, err := h.itineraries.Edit(ctx, req.Itinerary, req.Request)
	switch {
	case errors.Is(err, ErrEditParse):
		l.WarnContext(ctx, "Edited itinerary could not be parsed", slog.Any("error", err))
		span.SetStatus(codes.Error, "edit parse failed")
		api.ErrorResponse(w, r, http.StatusUnprocessableEntity, "Failed to edit itinerary. Please try again.")
		return
	case err != nil:
		l.ErrorContext(ctx, "Itinerary edit failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "edit failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to edit itinerary. Please try again.")
		return
	}

	h.save(ctx, l, res.Itinerary)
	span.SetStatus(codes.Ok, "itinerary edited")
	api.WriteJSONResponse(w, r, http.StatusOK, res)
}

// GeneratePlan godoc
// @Summary      Generate high-level plan
// @Description  Produces a theme and description for each planned day of a trip.
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        request body types.PlannerRequest true "Trip planning form"
// @Success      200 {object} types.HighLevelPlan
// @Failure      400 {object} map[string]any "Invalid request"
// @Failure      502 {object} map[string]any "AI backend failure"
// @Router       /plans [post]
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	ctx, span, l := h.start(r, "GeneratePlan", "/plans")
	defer span.End()

	var req types.PlannerRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Trip.Destination) == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "selectedTrip.destination is required")
		return
	}

	plan, err := h.plans.GeneratePlan(ctx, req)
	if err != nil {
		l.ErrorContext(ctx, "Plan generation failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to generate high-level trip plan. Please try again.")
		return
	}

	span.SetStatus(codes.Ok, "plan generated")
	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}

// ModifyPlan godoc
// @Summary      Modify high-level plan
// @Description  Validates a chat message and, when it is a real change request, applies it to the stored plan.
// @Tags         Plan
// @Accept       json
// @Produce      json
// @Param        tripID  path string true "Trip ID"
// @Param        request body itinerary.ModifyRequest true "Modification message"
// @Success      200 {object} itinerary.ModifyResponse
// @Failure      400 {object} map[string]any "Invalid request"
// @Failure      404 {object} map[string]any "No plan for trip"
// @Failure      502 {object} map[string]any "AI backend failure"
// @Router       /plans/{tripID}/modify [post]
func (h *Handler) ModifyPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span, l := h.start(r, "ModifyPlan", "/plans/{tripID}/modify")
	defer span.End()

	tripID := chi.URLParam(r, "tripID")
	span.SetAttributes(attribute.String("trip.id", tripID))

	var req ModifyRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		span.SetStatus(codes.Error, "invalid body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	validation := h.plans.ValidateModification(req.Message)
	if !validation.IsValid {
		api.WriteJSONResponse(w, r, http.StatusOK, ModifyResponse{Validation: validation})
		return
	}

	plan, err := h.plans.ModifyPlan(ctx, tripID, validation.InterpretedRequest)
	switch {
	case errors.Is(err, types.ErrNotFound):
		span.SetStatus(codes.Error, "plan not found")
		api.ErrorResponse(w, r, http.StatusNotFound, "No current plan to modify")
		return
	case err != nil:
		l.ErrorContext(ctx, "Plan modification failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "modify failed")
		api.ErrorResponse(w, r, http.StatusBadGateway, "Failed to modify trip plan. Please try again.")
		return
	}

	span.SetStatus(codes.Ok, "plan modified")
	api.WriteJSONResponse(w, r, http.StatusOK, ModifyResponse{Validation: validation, Plan: &plan})
}

// Routes mounts the itinerary and plan endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/itineraries", h.GenerateItinerary)
	r.Post("/itineraries/{tripID}/edit", h.EditItinerary)
	r.Post("/plans", h.GeneratePlan)
	r.Post("/plans/{tripID}/modify", h.ModifyPlan)
}
