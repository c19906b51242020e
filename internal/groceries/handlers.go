package groceries

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/userctx"
)

// Handler handles HTTP requests for grocery lists and exports.
type Handler struct {
	service *Service
	baseURL string
}

// NewHandler creates a new groceries handler. baseURL feeds the local-mode
// download link.
func NewHandler(service *Service, baseURL string) *Handler {
	return &Handler{service: service, baseURL: baseURL}
}

// HandleList handles GET /v1/trips/{id}/groceries
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	items, err := h.service.List(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to build grocery list")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"items": items})
}

// HandleExport handles POST /v1/trips/{id}/groceries/export
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	tripID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid trip id")
		return
	}

	export, err := h.service.Export(ctx, userID, tripID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "trip_not_found", "Trip not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to export grocery list")
		return
	}

	url, err := h.service.DownloadURL(ctx, userID, export.ID, h.baseURL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to build download URL")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"id":           export.ID,
		"trip_id":      export.TripID,
		"size_bytes":   export.SizeBytes,
		"status":       export.Status,
		"download_url": url,
	})
}

// HandleDownload handles GET /v1/groceries/exports/{id}/download
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := userctx.GetUserID(ctx)

	exportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid export id")
		return
	}

	data, err := h.service.ExportData(ctx, userID, exportID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "export_not_found", "Export not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch export")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=grocery-list.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
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
