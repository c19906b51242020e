// Package catalog reads recipes and meal-plan templates from the remote
// document store. The engine only needs a thin read contract: fetch one
// record, fetch a collection, query a field range.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Collections the engine reads.
const (
	CollectionRecipes   = "recipes"
	CollectionTemplates = "mealTemplates"
)

// ErrNotFound is returned when a document does not exist in its collection.
var ErrNotFound = errors.New("document not found")

// Document is a raw field-map record from the document store.
type Document map[string]any

// DocumentStore is the read contract against the remote catalog.
type DocumentStore interface {
	// GetDocument fetches one record by ID. ErrNotFound when absent.
	GetDocument(ctx context.Context, collection, id string) (Document, error)

	// GetAllDocuments fetches every record in a collection.
	GetAllDocuments(ctx context.Context, collection string) (map[string]Document, error)

	// QueryByFieldRange fetches records whose field value falls within
	// [lower, upper].
	QueryByFieldRange(ctx context.Context, collection, field string, lower, upper any) (map[string]Document, error)
}

// Ingredient is one recipe ingredient. Kcal/Grams are optional precomputed
// figures; zero when the catalog record does not carry them.
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Kcal   int     `json:"kcal"`
	Grams  int     `json:"grams"`
}

// Recipe is a catalog recipe. Tags are passed through for discovery.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Ingredients []Ingredient `json:"ingredients"`
	Tags        []string     `json:"tags"`
}

// TotalKcal sums the precomputed per-ingredient calorie figures.
func (r *Recipe) TotalKcal() int {
	total := 0
	for _, ing := range r.Ingredients {
		total += ing.Kcal
	}
	return total
}

// TotalGrams sums the precomputed per-ingredient weight figures.
func (r *Recipe) TotalGrams() int {
	total := 0
	for _, ing := range r.Ingredients {
		total += ing.Grams
	}
	return total
}

// MealTemplate is a reusable day skeleton. Days maps "dayN" to meal slot to
// recipe IDs. Resolved titles are never part of the record; they are rebuilt
// on every application.
type MealTemplate struct {
	ID    string                         `json:"id"`
	Title string                         `json:"title"`
	Days  map[string]map[string][]string `json:"days"`
}

// RecipeFromDocument maps a raw catalog record onto a Recipe. Missing or
// mistyped fields degrade to zero values; only the title is required by the
// engine.
func RecipeFromDocument(id string, doc Document) Recipe {
	r := Recipe{ID: id}
	r.Title, _ = doc["title"].(string)

	if raw, ok := doc["ingredients"].([]any); ok {
		for _, item := range raw {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			ing := Ingredient{}
			ing.Name, _ = fields["name"].(string)
			ing.Amount = toFloat(fields["amount"])
			ing.Unit, _ = fields["unit"].(string)
			ing.Kcal = int(toFloat(fields["kcal"]))
			ing.Grams = int(toFloat(fields["grams"]))
			r.Ingredients = append(r.Ingredients, ing)
		}
	}

	if raw, ok := doc["tags"].([]any); ok {
		for _, item := range raw {
			if tag, ok := item.(string); ok {
				r.Tags = append(r.Tags, tag)
			}
		}
	}
	return r
}

// TemplateFromDocument maps a raw catalog record onto a MealTemplate. The
// day structure lives under the "mealTemplates" field as
// {day: {mealType: [recipeID]}}.
func TemplateFromDocument(id string, doc Document) (MealTemplate, error) {
	t := MealTemplate{ID: id, Days: map[string]map[string][]string{}}
	t.Title, _ = doc["title"].(string)

	raw, ok := doc["mealTemplates"].(map[string]any)
	if !ok {
		return t, fmt.Errorf("template %s has no mealTemplates field", id)
	}

	for day, slotsRaw := range raw {
		slots, ok := slotsRaw.(map[string]any)
		if !ok {
			continue
		}
		daySlots := map[string][]string{}
		for slot, idsRaw := range slots {
			ids, ok := idsRaw.([]any)
			if !ok {
				continue
			}
			recipeIDs := make([]string, 0, len(ids))
			for _, v := range ids {
				switch id := v.(type) {
				case string:
					recipeIDs = append(recipeIDs, id)
				case float64:
					recipeIDs = append(recipeIDs, fmt.Sprintf("%.0f", id))
				}
			}
			daySlots[strings.ToLower(slot)] = recipeIDs
		}
		t.Days[strings.ToLower(day)] = daySlots
	}
	return t, nil
}

// SortedIDs returns the keys of a document set in a stable order.
func SortedIDs(docs map[string]Document) []string {
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
