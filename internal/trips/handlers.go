package trips

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/userctx"
)

// Handler handles HTTP requests for trips and meal entries.
type Handler struct {
	service *Service
}

// NewHandler creates a new trips handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleCreateTrip handles POST /v1/trips
func (h *Handler) HandleCreateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	var req CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	startDate := time.Now().UTC()
	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "start_date must be YYYY-MM-DD")
			return
		}
		startDate = parsed
	}

	trip, err := h.service.CreateTrip(ctx, userID, req.Name, req.Days, startDate)
	if errors.Is(err, ErrValidation) {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create trip")
		return
	}

	writeJSON(w, http.StatusCreated, TripToDTO(trip))
}

// HandleListTrips handles GET /v1/trips
func (h *Handler) HandleListTrips(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	trips, err := h.service.ListTrips(ctx, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list trips")
		return
	}

	dtos := make([]TripDTO, 0, len(trips))
	for i := range trips {
		dtos = append(dtos, TripToDTO(&trips[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": dtos})
}

// HandleGetTrip handles GET /v1/trips/{id}
func (h *Handler) HandleGetTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	trip, err := h.service.GetOwnedTrip(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get trip")
		return
	}

	writeJSON(w, http.StatusOK, TripToDTO(trip))
}

// HandleUpdateTrip handles PATCH /v1/trips/{id}
func (h *Handler) HandleUpdateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	var req UpdateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	var startDate *time.Time
	if req.StartDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "start_date must be YYYY-MM-DD")
			return
		}
		startDate = &parsed
	}

	trip, err := h.service.UpdateTrip(ctx, userID, tripID, req.Name, req.Days, startDate)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if errors.Is(err, ErrValidation) {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update trip")
		return
	}

	writeJSON(w, http.StatusOK, TripToDTO(trip))
}

// HandleDeleteTrip handles DELETE /v1/trips/{id}
func (h *Handler) HandleDeleteTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	err = h.service.DeleteTrip(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete trip")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDuplicateTrip handles POST /v1/trips/{id}/duplicate
func (h *Handler) HandleDuplicateTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	var req DuplicateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	trip, entries, err := h.service.Duplicate(ctx, userID, tripID, req.Name)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if errors.Is(err, ErrValidation) {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to duplicate trip")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"trip":    TripToDTO(trip),
		"entries": EntriesToDTO(entries),
	})
}

// HandleListEntries handles GET /v1/trips/{id}/entries?day=N&consolidated_snacks=1
func (h *Handler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	plan, err := h.service.Plan(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list entries")
		return
	}

	if raw := r.URL.Query().Get("consolidated_snacks"); raw == "1" || strings.EqualFold(raw, "true") {
		plan.SetConsolidatedSnacks(true)
		writeJSON(w, http.StatusOK, map[string]any{"entries": EntriesToDTO(plan.ConsolidatedSnacks())})
		return
	}

	if raw := r.URL.Query().Get("day"); raw != "" {
		day, err := strconv.Atoi(raw)
		if err != nil || day < 1 {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid day")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": EntriesToDTO(plan.EntriesForDay(day))})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"entries": EntriesToDTO(plan.Entries())})
}

// HandleCreateEntry handles POST /v1/trips/{id}/entries
func (h *Handler) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	entry, err := h.service.AddEntry(ctx, userID, tripID, req.DayIndex, req.MealSlot, req.RecipeID, req.Servings)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if errors.Is(err, ErrValidation) {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create entry")
		return
	}

	writeJSON(w, http.StatusCreated, EntryToDTO(*entry))
}

// HandleUpdateEntry handles PATCH /v1/entries/{id}
func (h *Handler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid entry id")
		return
	}

	var req UpdateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	entry, err := h.service.UpdateEntry(ctx, userID, entryID, req.Servings, req.RecipeID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "entry_not_found", "Entry not found")
		return
	}
	if errors.Is(err, ErrValidation) {
		writeError(w, http.StatusBadRequest, "invalid_request", validationMessage(err))
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to update entry")
		return
	}

	writeJSON(w, http.StatusOK, EntryToDTO(*entry))
}

// HandleDeleteEntry handles DELETE /v1/entries/{id}
func (h *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	entryID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid entry id")
		return
	}

	err = h.service.DeleteEntry(ctx, userID, entryID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to delete entry")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validationMessage(err error) string {
	msg := err.Error()
	if cut, found := strings.CutPrefix(msg, ErrValidation.Error()+": "); found {
		return cut
	}
	return msg
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
