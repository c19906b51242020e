package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func recipesHandlerMux() *http.ServeMux {
	store := NewMemoryStore()
	store.Put(CollectionRecipes, "101", Document{
		"title": "Oatmeal",
		"tags":  []any{"breakfast", "vegetarian"},
		"kcal":  300.0,
		"ingredients": []any{
			map[string]any{"name": "oats", "amount": 90.0, "unit": "gram", "kcal": 300.0, "grams": 90.0},
		},
	})
	store.Put(CollectionRecipes, "202", Document{
		"title": "Chili",
		"tags":  []any{"dinner"},
		"kcal":  550.0,
	})
	store.Put(CollectionRecipes, "bad", Document{})

	h := NewHandler(store)
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/recipes", h.HandleListRecipes)
	mux.HandleFunc("GET /v1/recipes/{id}", h.HandleGetRecipe)
	return mux
}

func TestHandleListRecipes(t *testing.T) {
	mux := recipesHandlerMux()

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// The untitled record is skipped.
	if len(resp.Recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(resp.Recipes))
	}
	if resp.Recipes[0].Title != "Oatmeal" || resp.Recipes[1].Title != "Chili" {
		t.Fatalf("unexpected recipe order: %v", resp.Recipes)
	}
}

func TestHandleListRecipesTagFilter(t *testing.T) {
	mux := recipesHandlerMux()

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes?tag=Dinner", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Recipes) != 1 || resp.Recipes[0].Title != "Chili" {
		t.Fatalf("expected only Chili for tag=dinner, got %v", resp.Recipes)
	}
}

func TestHandleListRecipesMaxKcalFilter(t *testing.T) {
	mux := recipesHandlerMux()

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes?max_kcal=400", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Recipes) != 1 || resp.Recipes[0].Title != "Oatmeal" {
		t.Fatalf("expected only Oatmeal under 400 kcal, got %v", resp.Recipes)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/recipes?max_kcal=nope", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad max_kcal, got %d", rec.Code)
	}
}

func TestHandleGetRecipe(t *testing.T) {
	mux := recipesHandlerMux()

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes/101", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var recipe Recipe
	if err := json.NewDecoder(rec.Body).Decode(&recipe); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if recipe.Title != "Oatmeal" || len(recipe.Ingredients) != 1 {
		t.Fatalf("unexpected recipe: %+v", recipe)
	}
}

func TestHandleGetRecipeNotFound(t *testing.T) {
	mux := recipesHandlerMux()

	req := httptest.NewRequest(http.MethodGet, "/v1/recipes/missing", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
