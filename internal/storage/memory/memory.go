// Package memory provides an in-memory implementation of the storage
// interfaces, used for local runs and tests when no DATABASE_URL is set.
package memory

import "github.com/trailmeals/server/internal/storage"

// MemoryStorage bundles the in-memory trips and meal entries storages.
// Both share one state so trip deletion can cascade to entries.
type MemoryStorage struct {
	*tripsStorage
	entries *mealEntriesStorage
	exports *groceryExportsStorage
}

// New creates an empty MemoryStorage.
func New() *MemoryStorage {
	entries := newMealEntriesStorage()
	return &MemoryStorage{
		tripsStorage: newTripsStorage(entries),
		entries:      entries,
		exports:      newGroceryExportsStorage(),
	}
}

// GetMealEntriesStorage returns the meal entries storage.
func (m *MemoryStorage) GetMealEntriesStorage() storage.MealEntriesStorage {
	return m.entries
}

// GetGroceryExportsStorage returns the grocery exports storage.
func (m *MemoryStorage) GetGroceryExportsStorage() storage.GroceryExportsStorage {
	return m.exports
}

func (m *MemoryStorage) Close() error {
	return nil
}
