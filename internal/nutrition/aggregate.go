package nutrition

import (
	"fmt"

	"github.com/trailmeals/server/internal/storage"
)

// SumForGroup reduces entries into per-key totals. It only sums the
// precomputed TotalKcal/TotalGrams fields, never ingredient-level data, so
// aggregates always match what is stored on the entries.
func SumForGroup(entries []storage.MealEntry, keyFn func(storage.MealEntry) string) map[string]Totals {
	groups := make(map[string]Totals)
	for _, e := range entries {
		key := keyFn(e)
		t := groups[key]
		t.Kcal += e.TotalKcal
		t.Grams += e.TotalGrams
		groups[key] = t
	}
	return groups
}

// ByDay groups entries by their "Day N" label.
func ByDay(e storage.MealEntry) string {
	return DayLabel(e.DayIndex)
}

// BySlot groups entries by meal slot.
func BySlot(e storage.MealEntry) string {
	return e.MealSlot
}

// ByTrip maps every entry to one group for trip-wide totals.
func ByTrip(storage.MealEntry) string {
	return "trip"
}

// DayLabel renders a day index as its display label.
func DayLabel(dayIndex int) string {
	return fmt.Sprintf("Day %d", dayIndex)
}
