package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/trailmeals/server/internal/storage"
)

func entry(day int, slot string, kcal, grams int) storage.MealEntry {
	return storage.MealEntry{DayIndex: day, MealSlot: slot, TotalKcal: kcal, TotalGrams: grams}
}

func TestSumForGroupByDay(t *testing.T) {
	entries := []storage.MealEntry{
		entry(1, storage.SlotBreakfast, 300, 90),
		entry(1, storage.SlotDinner, 550, 200),
		entry(2, storage.SlotLunch, 420, 150),
	}

	byDay := SumForGroup(entries, ByDay)

	assert.Equal(t, Totals{Kcal: 850, Grams: 290}, byDay["Day 1"])
	assert.Equal(t, Totals{Kcal: 420, Grams: 150}, byDay["Day 2"])
	assert.Equal(t, Totals{}, byDay["Day 3"])
}

func TestSumForGroupEmpty(t *testing.T) {
	totals := SumForGroup(nil, ByTrip)
	assert.Equal(t, Totals{}, totals["trip"])
}

// Day partitions must sum to the trip-wide total.
func TestAggregationAssociativeAcrossDays(t *testing.T) {
	entries := []storage.MealEntry{
		entry(1, storage.SlotBreakfast, 300, 90),
		entry(1, storage.SlotSnacks, 120, 40),
		entry(2, storage.SlotLunch, 420, 150),
		entry(3, storage.SlotDinner, 610, 230),
	}

	byDay := SumForGroup(entries, ByDay)
	var summed Totals
	for _, tot := range byDay {
		summed.Kcal += tot.Kcal
		summed.Grams += tot.Grams
	}

	trip := SumForGroup(entries, ByTrip)["trip"]
	assert.Equal(t, trip, summed)
}

func TestSumForGroupBySlot(t *testing.T) {
	entries := []storage.MealEntry{
		entry(1, storage.SlotSnacks, 100, 30),
		entry(2, storage.SlotSnacks, 150, 50),
		entry(2, storage.SlotDinner, 600, 220),
	}

	bySlot := SumForGroup(entries, BySlot)

	assert.Equal(t, Totals{Kcal: 250, Grams: 80}, bySlot[storage.SlotSnacks])
	assert.Equal(t, Totals{Kcal: 600, Grams: 220}, bySlot[storage.SlotDinner])
}
