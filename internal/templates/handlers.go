package templates

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/userctx"
)

// Handler handles HTTP requests for templates.
type Handler struct {
	materializer *Materializer
	trips        storage.TripsStorage
}

// NewHandler creates a new templates handler.
func NewHandler(materializer *Materializer, trips storage.TripsStorage) *Handler {
	return &Handler{materializer: materializer, trips: trips}
}

// HandleList handles GET /v1/templates
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	templates, err := h.materializer.ListTemplates(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "Failed to load templates")
		return
	}

	dtos := make([]TemplateDTO, 0, len(templates))
	for _, tpl := range templates {
		dtos = append(dtos, TemplateToDTO(tpl))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"templates": dtos})
}

// HandleApply handles POST /v1/trips/{id}/apply-template
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "invalid_payload", "template_id is required")
		return
	}

	trip, err := h.trips.GetTrip(ctx, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get trip")
		return
	}
	if trip.OwnerUserID != userID {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}

	tpl, err := h.materializer.GetTemplate(ctx, req.TemplateID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "template_not_found", "Template not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "Failed to load template")
		return
	}

	entries, err := h.materializer.Apply(ctx, tpl, trip)
	var dayErr *DayCountError
	if errors.As(err, &dayErr) {
		writeError(w, http.StatusUnprocessableEntity, "day_count_mismatch", dayErr.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to apply template")
		return
	}

	writeApplied(w, http.StatusCreated, entries)
}

// HandleCreateFromTemplate handles POST /v1/trips/from-template
func (h *Handler) HandleCreateFromTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	var req CreateFromTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if req.Name == "" || req.Days < 1 || req.TemplateID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name, days and template_id are required")
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

	tpl, err := h.materializer.GetTemplate(ctx, req.TemplateID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "template_not_found", "Template not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "Failed to load template")
		return
	}

	trip, entries, err := h.materializer.CreateTripFromTemplate(ctx, userID, req.Name, req.Days, startDate, tpl)
	var dayErr *DayCountError
	if errors.As(err, &dayErr) {
		writeError(w, http.StatusUnprocessableEntity, "day_count_mismatch", dayErr.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to create trip from template")
		return
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryToDTO(e))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateFromTemplateResponse{Trip: TripToDTO(trip), Entries: dtos})
}

func writeApplied(w http.ResponseWriter, status int, entries []storage.MealEntry) {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryToDTO(e))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ApplyResponse{InsertedCount: len(dtos), Entries: dtos})
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
