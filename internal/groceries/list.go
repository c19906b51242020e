// Package groceries derives a consolidated shopping list from a trip's meal
// plan and exports it as a PDF.
package groceries

import (
	"context"
	"sort"
	"strings"

	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/units"
)

// Item is one consolidated grocery line.
type Item struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// BuildList flattens the entries' recipes into ingredients, scales each by
// the entry's servings, and merges lines that share a lowercased name and
// normalized unit. Recipes that no longer resolve contribute nothing.
func BuildList(ctx context.Context, cat catalog.DocumentStore, entries []storage.MealEntry) []Item {
	type lineKey struct {
		name string
		unit string
	}
	sums := make(map[lineKey]float64)

	for _, e := range entries {
		doc, err := cat.GetDocument(ctx, catalog.CollectionRecipes, e.RecipeID)
		if err != nil {
			continue
		}
		recipe := catalog.RecipeFromDocument(e.RecipeID, doc)
		for _, ing := range recipe.Ingredients {
			key := lineKey{
				name: strings.ToLower(strings.TrimSpace(ing.Name)),
				unit: units.Normalize(ing.Unit),
			}
			sums[key] += ing.Amount * float64(e.Servings)
		}
	}

	items := make([]Item, 0, len(sums))
	for key, amount := range sums {
		items = append(items, Item{Name: key.name, Amount: amount, Unit: key.unit})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Name != items[j].Name {
			return items[i].Name < items[j].Name
		}
		return items[i].Unit < items[j].Unit
	})
	return items
}
