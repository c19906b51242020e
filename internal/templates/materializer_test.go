package templates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trailmeals/server/internal/storage"
	"github.com/trailmeals/server/internal/storage/memory"
)

func newMaterializer(t *testing.T) (*Materializer, *memory.MemoryStorage) {
	t.Helper()
	store := memory.New()
	m := NewMaterializer(catalogWithOatmeal(), store, store.GetMealEntriesStorage())
	return m, store
}

func createTrip(t *testing.T, store *memory.MemoryStorage, days int) *storage.Trip {
	t.Helper()
	trip := &storage.Trip{
		OwnerUserID: "u1",
		Name:        "Sierra Loop",
		Days:        days,
		StartDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.CreateTrip(context.Background(), trip))
	return trip
}

func TestApplyRejectsWithoutWrites(t *testing.T) {
	m, store := newMaterializer(t)
	trip := createTrip(t, store, 1)

	_, err := m.Apply(context.Background(), weekendTemplate(), trip)

	var dayErr *DayCountError
	require.ErrorAs(t, err, &dayErr)

	entries, err := store.GetMealEntriesStorage().ListEntries(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApplyMaterializesAllTriples(t *testing.T) {
	m, store := newMaterializer(t)
	trip := createTrip(t, store, 2)

	entries, err := m.Apply(context.Background(), weekendTemplate(), trip)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, trip.ID, entries[0].TripID)
	assert.Equal(t, 1, entries[0].DayIndex)
	assert.Equal(t, "Oatmeal", entries[0].RecipeTitle)
	assert.Equal(t, 1, entries[0].Servings)
	assert.Equal(t, 300, entries[0].TotalKcal)

	assert.Equal(t, 2, entries[1].DayIndex)
	assert.Equal(t, UnknownRecipeTitle, entries[1].RecipeTitle)
	assert.Zero(t, entries[1].TotalKcal)

	stored, err := store.GetMealEntriesStorage().ListEntries(context.Background(), trip.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestApplyTwiceDuplicates(t *testing.T) {
	// Re-application is not deduplicated; repeated menu items are allowed.
	m, store := newMaterializer(t)
	trip := createTrip(t, store, 2)
	ctx := context.Background()

	_, err := m.Apply(ctx, weekendTemplate(), trip)
	require.NoError(t, err)
	_, err = m.Apply(ctx, weekendTemplate(), trip)
	require.NoError(t, err)

	entries, err := store.GetMealEntriesStorage().ListEntries(ctx, trip.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestCreateTripFromTemplateRejectionLeavesNoTrip(t *testing.T) {
	m, store := newMaterializer(t)
	ctx := context.Background()

	_, _, err := m.CreateTripFromTemplate(ctx, "u1", "Overnighter", 1, time.Now(), weekendTemplate())

	var dayErr *DayCountError
	require.ErrorAs(t, err, &dayErr)

	trips, err := store.ListTrips(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestCreateTripFromTemplate(t *testing.T) {
	m, store := newMaterializer(t)
	ctx := context.Background()

	trip, entries, err := m.CreateTripFromTemplate(ctx, "u1", "Weekender", 2, time.Now(), weekendTemplate())
	require.NoError(t, err)
	require.NotNil(t, trip)
	assert.Len(t, entries, 2)

	trips, err := store.ListTrips(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Weekender", trips[0].Name)
}
