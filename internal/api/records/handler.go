package records

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/api"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type Handler struct {
	sink   Sink
	logger *slog.Logger
}

func NewHandler(sink Sink, logger *slog.Logger) *Handler {
	return &Handler{sink: sink, logger: logger}
}

func (h *Handler) span(r *http.Request, name, route string) trace.Span {
	_, span := otel.Tracer("RecordsHandler").Start(r.Context(), name, trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String(route),
	))
	return span
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, span trace.Span, err error, what string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, what+" failed")
	switch {
	case errors.Is(err, types.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrMissingID):
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "Record operation failed", slog.String("operation", what), slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to "+what)
	}
}

// AddBucketItems godoc
// @Summary      Add bucket list items
// @Tags         Records
// @Accept       json
// @Produce      json
// @Param        request body []types.BucketListItem true "Items to save"
// @Success      201 {array} types.BucketListItem
// @Failure      400 {object} map[string]any "Invalid request"
// @Router       /bucket-items [post]
func (h *Handler) AddBucketItems(w http.ResponseWriter, r *http.Request) {
	span := h.span(r, "AddBucketItems", "/bucket-items")
	defer span.End()

	var items []types.BucketListItem
	if err := api.DecodeJSONBody(w, r, &items); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	stored, err := h.sink.AppendBucketItems(r.Context(), items)
	if err != nil {
		h.fail(w, r, span, err, "save bucket items")
		return
	}
	span.SetStatus(codes.Ok, "saved")
	api.WriteJSONResponse(w, r, http.StatusCreated, stored)
}

// UpdateBucketItem godoc
// @Summary      Update a bucket list item
// @Tags         Records
// @Accept       json
// @Param        itemID  path string true "Item ID"
// @Param        request body types.BucketListItem true "Item"
// @Success      204
// @Failure      404 {object} map[string]any "Unknown item"
// @Router       /bucket-items/{itemID} [put]
func (h *Handler) UpdateBucketItem(w http.ResponseWriter, r *http.Request) {
	span := h.span(r, "UpdateBucketItem", "/bucket-items/{itemID}")
	defer span.End()

	var item types.BucketListItem
	if err := api.DecodeJSONBody(w, r, &item); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item.ID = chi.URLParam(r, "itemID")
	if err := h.sink.UpdateBucketItem(r.Context(), item); err != nil {
		h.fail(w, r, span, err, "update bucket item")
		return
	}
	span.SetStatus(codes.Ok, "updated")
	w.WriteHeader(http.StatusNoContent)
}

// DeleteBucketItem godoc
// @Summary      Delete a bucket list item
// @Tags         Records
// @Param        itemID path string true "Item ID"
// @Success      204
// @Failure      404 {object} map[string]any "Unknown item"
// @Router       /bucket-items/{itemID} [delete]
func (h *Handler) DeleteBucketItem(w http.ResponseWriter, r *http.Request) {
	span := h.span(r, "DeleteBucketItem", "/bucket-items/{itemID}")
	defer span.End()

	if err := h.sink.DeleteBucketItem(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		h.fail(w, r, span, err, "delete bucket item")
		return
	}
	span.SetStatus(codes.Ok, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

// DeleteItinerary godoc
// @Summary      Delete a saved itinerary
// @Tags         Records
// @Param        tripID path string true "Trip ID"
// @Success      204
// @Failure      404 {object} map[string]any "Unknown trip"
// @Router       /itineraries/{tripID} [delete]
func (h *Handler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	span := h.span(r, "DeleteItinerary", "/itineraries/{tripID}")
	defer span.End()

	if err := h.sink.DeleteItinerary(r.Context(), chi.URLParam(r, "tripID")); err != nil {
		h.fail(w, r, span, err, "delete itinerary")
		return
	}
	span.SetStatus(codes.Ok, "deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/bucket-items", h.AddBucketItems)
	r.Put("/bucket-items/{itemID}", h.UpdateBucketItem)
	r.Delete("/bucket-items/{itemID}", h.DeleteBucketItem)
	r.Delete("/itineraries/{tripID}", h.DeleteItinerary)
}
