package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeFromDocument(t *testing.T) {
	doc := Document{
		"title": "Oatmeal",
		"ingredients": []any{
			map[string]any{"name": "Oats", "amount": 1.0, "unit": "cup", "kcal": 300.0, "grams": 90.0},
			map[string]any{"name": "Honey", "amount": 1.0, "unit": "tbsp", "kcal": 64.0, "grams": 21.0},
		},
		"tags": []any{"breakfast", "vegetarian"},
	}

	r := RecipeFromDocument("r1", doc)

	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, "Oatmeal", r.Title)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "Oats", r.Ingredients[0].Name)
	assert.Equal(t, 300, r.Ingredients[0].Kcal)
	assert.Equal(t, []string{"breakfast", "vegetarian"}, r.Tags)
	assert.Equal(t, 364, r.TotalKcal())
	assert.Equal(t, 111, r.TotalGrams())
}

func TestRecipeFromDocumentMissingFields(t *testing.T) {
	r := RecipeFromDocument("r2", Document{"title": "Plain"})

	assert.Equal(t, "Plain", r.Title)
	assert.Empty(t, r.Ingredients)
	assert.Zero(t, r.TotalKcal())
}

func TestTemplateFromDocument(t *testing.T) {
	doc := Document{
		"title": "Weekend Hike",
		"mealTemplates": map[string]any{
			"Day1": map[string]any{
				"Breakfast": []any{"101"},
				"Lunch":     []any{"102", "103"},
			},
			"day2": map[string]any{
				"Dinner": []any{float64(202)},
			},
		},
	}

	tpl, err := TemplateFromDocument("t1", doc)
	require.NoError(t, err)

	assert.Equal(t, "Weekend Hike", tpl.Title)
	assert.Equal(t, []string{"101"}, tpl.Days["day1"]["breakfast"])
	assert.Equal(t, []string{"102", "103"}, tpl.Days["day1"]["lunch"])
	assert.Equal(t, []string{"202"}, tpl.Days["day2"]["dinner"])
}

func TestTemplateFromDocumentWithoutDays(t *testing.T) {
	_, err := TemplateFromDocument("t2", Document{"title": "Empty"})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Put(CollectionRecipes, "r1", Document{"title": "Oatmeal", "kcal": 300.0})
	store.Put(CollectionRecipes, "r2", Document{"title": "Chili", "kcal": 550.0})

	doc, err := store.GetDocument(ctx, CollectionRecipes, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", doc["title"])

	_, err = store.GetDocument(ctx, CollectionRecipes, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := store.GetAllDocuments(ctx, CollectionRecipes)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	ranged, err := store.QueryByFieldRange(ctx, CollectionRecipes, "kcal", 400.0, 600.0)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "Chili", ranged["r2"]["title"])
}

func TestRestStore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/collections/recipes/documents/r1":
			_ = json.NewEncoder(w).Encode(map[string]any{"title": "Oatmeal"})
		case "/collections/recipes/documents":
			_ = json.NewEncoder(w).Encode(map[string]map[string]any{
				"r1": {"title": "Oatmeal"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	store := NewRestStore(srv.URL, 0)
	ctx := context.Background()

	doc, err := store.GetDocument(ctx, CollectionRecipes, "r1")
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", doc["title"])

	_, err = store.GetDocument(ctx, CollectionRecipes, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := store.GetAllDocuments(ctx, CollectionRecipes)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
