package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Handler exposes read-only recipe discovery over the document store.
type Handler struct {
	store DocumentStore
}

func NewHandler(store DocumentStore) *Handler {
	return &Handler{store: store}
}

// HandleListRecipes handles GET /v1/recipes?tag=&max_kcal=
func (h *Handler) HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var docs map[string]Document
	var err error

	if raw := r.URL.Query().Get("max_kcal"); raw != "" {
		maxKcal, perr := strconv.ParseFloat(raw, 64)
		if perr != nil || maxKcal < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid max_kcal")
			return
		}
		// Records without a kcal field fall outside any range.
		docs, err = h.store.QueryByFieldRange(ctx, CollectionRecipes, "kcal", 0.0, maxKcal)
	} else {
		docs, err = h.store.GetAllDocuments(ctx, CollectionRecipes)
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "Recipe catalog is unavailable")
		return
	}

	tag := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("tag")))

	recipes := make([]Recipe, 0, len(docs))
	for _, id := range SortedIDs(docs) {
		recipe := RecipeFromDocument(id, docs[id])
		if recipe.Title == "" {
			continue
		}
		if tag != "" && !hasTag(recipe, tag) {
			continue
		}
		recipes = append(recipes, recipe)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{"recipes": recipes})
}

// HandleGetRecipe handles GET /v1/recipes/{id}
func (h *Handler) HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "recipe id is required")
		return
	}

	doc, err := h.store.GetDocument(ctx, CollectionRecipes, id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "recipe_not_found", "Recipe not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_unavailable", "Recipe catalog is unavailable")
		return
	}

	recipe := RecipeFromDocument(id, doc)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(recipe)
}

func hasTag(r Recipe, tag string) bool {
	for _, t := range r.Tags {
		if strings.ToLower(t) == tag {
			return true
		}
	}
	return false
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
