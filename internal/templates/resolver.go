// Package templates applies meal-plan templates to trips: it validates the
// day span, resolves recipe references against the catalog, and materializes
// the resulting meal entries in one batch.
package templates

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/storage"
)

// UnknownRecipeTitle is substituted when a recipe lookup fails. The entry is
// kept so the user can see and fix the gap.
const UnknownRecipeTitle = "Unknown Recipe"

// slotOrder fixes the iteration order of meal slots within a day.
var slotOrder = []string{
	storage.SlotBreakfast,
	storage.SlotLunch,
	storage.SlotDinner,
	storage.SlotSnacks,
}

// DayCountError rejects a template that spans more days than the trip has.
type DayCountError struct {
	TripDays     int
	TemplateDays int
}

func (e *DayCountError) Error() string {
	return fmt.Sprintf("template spans %d days but trip has %d", e.TemplateDays, e.TripDays)
}

// ResolvedMeal is one (day, slot, recipe) triple with its resolved title and
// precomputed totals.
type ResolvedMeal struct {
	DayIndex   int
	MealSlot   string
	RecipeID   string
	Title      string
	TotalKcal  int
	TotalGrams int
}

// Resolver turns a template's recipe references into titled meals.
type Resolver struct {
	store catalog.DocumentStore
}

// NewResolver creates a resolver over the given catalog.
func NewResolver(store catalog.DocumentStore) *Resolver {
	return &Resolver{store: store}
}

// MaxDay returns the highest numeric day index among the template's day
// keys ("day1".."dayN"). Keys that do not parse are ignored.
func MaxDay(tpl catalog.MealTemplate) int {
	max := 0
	for key := range tpl.Days {
		n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(key), "day"))
		if err == nil && n > max {
			max = n
		}
	}
	return max
}

// Resolve validates the trip's day span against the template, then looks up
// every referenced recipe concurrently. A failed lookup substitutes
// UnknownRecipeTitle instead of dropping the triple. The returned slice is
// ordered by day, then slot, then the template's recipe order.
func (r *Resolver) Resolve(ctx context.Context, tpl catalog.MealTemplate, tripDays int) ([]ResolvedMeal, error) {
	maxDay := MaxDay(tpl)
	if tripDays < maxDay {
		return nil, &DayCountError{TripDays: tripDays, TemplateDays: maxDay}
	}

	meals := collectTriples(tpl, maxDay)

	// Fan out one catalog lookup per triple; the join must be complete
	// before materialization, so results are written by index and the
	// WaitGroup gates the return.
	var wg sync.WaitGroup
	for i := range meals {
		wg.Add(1)
		go func(m *ResolvedMeal) {
			defer wg.Done()

			doc, err := r.store.GetDocument(ctx, catalog.CollectionRecipes, m.RecipeID)
			if err != nil {
				m.Title = UnknownRecipeTitle
				return
			}
			recipe := catalog.RecipeFromDocument(m.RecipeID, doc)
			if recipe.Title == "" {
				m.Title = UnknownRecipeTitle
				return
			}
			m.Title = recipe.Title
			m.TotalKcal = recipe.TotalKcal()
			m.TotalGrams = recipe.TotalGrams()
		}(&meals[i])
	}
	wg.Wait()

	return meals, nil
}

// collectTriples flattens the template into ordered, unresolved meals.
func collectTriples(tpl catalog.MealTemplate, maxDay int) []ResolvedMeal {
	var meals []ResolvedMeal
	for day := 1; day <= maxDay; day++ {
		slots, ok := tpl.Days[fmt.Sprintf("day%d", day)]
		if !ok {
			continue
		}
		for _, slot := range slotOrder {
			for _, recipeID := range slots[slot] {
				meals = append(meals, ResolvedMeal{
					DayIndex: day,
					MealSlot: slot,
					RecipeID: recipeID,
				})
			}
		}
	}
	return meals
}
