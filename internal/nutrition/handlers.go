package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/userctx"
)

// Handler handles HTTP requests for nutrition summaries.
type Handler struct {
	service *Service
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleTripSummary handles GET /v1/trips/{id}/nutrition
func (h *Handler) HandleTripSummary(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	userID, _ := userctx.GetUserID(r.Context())

	summary, err := h.service.TripSummary(r.Context(), userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to summarize trip nutrition")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
}

// HandleIngredient handles GET /v1/nutrition/ingredient?name=&amount=&unit=
func (h *Handler) HandleIngredient(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	amount := 1.0
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid amount")
			return
		}
		amount = parsed
	}

	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = "gram"
	}

	resp := h.service.IngredientSummary(r.Context(), name, amount, unit)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
