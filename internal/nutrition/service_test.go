package nutrition

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/storage/memory"
)

func TestTripSummary(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, store.GetMealEntriesStorage(), NewCache(&fakeLookup{}))

	trip := &storage.Trip{OwnerUserID: "u1", Name: "Loop", Days: 2, StartDate: time.Now()}
	require.NoError(t, store.CreateTrip(ctx, trip))

	_, err := store.GetMealEntriesStorage().InsertEntries(ctx, trip.ID, []storage.MealEntryInsert{
		{DayIndex: 1, MealSlot: storage.SlotBreakfast, RecipeID: "101", RecipeTitle: "Oatmeal", Servings: 1, TotalKcal: 300, TotalGrams: 90},
		{DayIndex: 1, MealSlot: storage.SlotDinner, RecipeID: "202", RecipeTitle: "Chili", Servings: 2, TotalKcal: 1100, TotalGrams: 800},
		{DayIndex: 2, MealSlot: storage.SlotBreakfast, RecipeID: "101", RecipeTitle: "Oatmeal", Servings: 1, TotalKcal: 300, TotalGrams: 90},
	})
	require.NoError(t, err)

	summary, err := svc.TripSummary(ctx, "u1", trip.ID)
	require.NoError(t, err)

	assert.Equal(t, Totals{Kcal: 1700, Grams: 980}, summary.Trip)
	assert.Equal(t, Totals{Kcal: 1400, Grams: 890}, summary.Days["Day 1"])
	assert.Equal(t, Totals{Kcal: 300, Grams: 90}, summary.Days["Day 2"])
	assert.Equal(t, Totals{Kcal: 600, Grams: 180}, summary.Slots[storage.SlotBreakfast])
}

func TestTripSummaryForeignTripNotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	svc := NewService(store, store.GetMealEntriesStorage(), NewCache(&fakeLookup{}))

	trip := &storage.Trip{OwnerUserID: "u1", Name: "Loop", Days: 2, StartDate: time.Now()}
	require.NoError(t, store.CreateTrip(ctx, trip))

	_, err := svc.TripSummary(ctx, "intruder", trip.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIngredientSummaryDegradesOnFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	lookup := &fakeLookup{fail: true}
	svc := NewService(store, store.GetMealEntriesStorage(), NewCache(lookup))

	resp := svc.IngredientSummary(ctx, "unobtainium", 100, "gram")
	assert.False(t, resp.Found)
	assert.Empty(t, resp.CalorieText)
	assert.Nil(t, resp.Detail)
}
