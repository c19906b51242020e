package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
)

var slotOrder = map[string]int{
	storage.SlotBreakfast: 1,
	storage.SlotLunch:     2,
	storage.SlotDinner:    3,
	storage.SlotSnacks:    4,
}

type mealEntriesStorage struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*storage.MealEntry
	byTrip  map[uuid.UUID][]uuid.UUID
}

func newMealEntriesStorage() *mealEntriesStorage {
	return &mealEntriesStorage{
		entries: make(map[uuid.UUID]*storage.MealEntry),
		byTrip:  make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *mealEntriesStorage) InsertEntries(ctx context.Context, tripID uuid.UUID, inserts []storage.MealEntryInsert) ([]storage.MealEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	// Build everything first so the batch is all-or-nothing, mirroring
	// the Postgres transaction.
	created := make([]storage.MealEntry, 0, len(inserts))
	for _, in := range inserts {
		entry := storage.MealEntry{
			ID:          uuid.New(),
			TripID:      tripID,
			DayIndex:    in.DayIndex,
			MealSlot:    in.MealSlot,
			RecipeID:    in.RecipeID,
			RecipeTitle: in.RecipeTitle,
			Servings:    in.Servings,
			TotalKcal:   in.TotalKcal,
			TotalGrams:  in.TotalGrams,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created = append(created, entry)
	}

	for i := range created {
		cp := created[i]
		s.entries[cp.ID] = &cp
		s.byTrip[tripID] = append(s.byTrip[tripID], cp.ID)
	}
	return created, nil
}

func (s *mealEntriesStorage) ListEntries(ctx context.Context, tripID uuid.UUID) ([]storage.MealEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byTrip[tripID]
	entries := make([]storage.MealEntry, 0, len(ids))
	for _, id := range ids {
		if entry, ok := s.entries[id]; ok {
			entries = append(entries, *entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].DayIndex != entries[j].DayIndex {
			return entries[i].DayIndex < entries[j].DayIndex
		}
		return slotOrder[entries[i].MealSlot] < slotOrder[entries[j].MealSlot]
	})
	return entries, nil
}

func (s *mealEntriesStorage) GetEntry(ctx context.Context, id uuid.UUID) (*storage.MealEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

func (s *mealEntriesStorage) UpdateEntry(ctx context.Context, id uuid.UUID, upd storage.MealEntryUpdate) (*storage.MealEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if upd.RecipeID != nil {
		entry.RecipeID = *upd.RecipeID
	}
	if upd.RecipeTitle != nil {
		entry.RecipeTitle = *upd.RecipeTitle
	}
	if upd.Servings != nil {
		entry.Servings = *upd.Servings
	}
	if upd.TotalKcal != nil {
		entry.TotalKcal = *upd.TotalKcal
	}
	if upd.TotalGrams != nil {
		entry.TotalGrams = *upd.TotalGrams
	}
	entry.UpdatedAt = time.Now().UTC()

	cp := *entry
	return &cp, nil
}

func (s *mealEntriesStorage) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil // already gone, idempotent
	}

	delete(s.entries, id)
	ids := s.byTrip[entry.TripID]
	for i, eid := range ids {
		if eid == id {
			s.byTrip[entry.TripID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *mealEntriesStorage) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteByTrip(tripID)
	return nil
}

// deleteByTrip must be called with the lock held.
func (s *mealEntriesStorage) deleteByTrip(tripID uuid.UUID) {
	for _, id := range s.byTrip[tripID] {
		delete(s.entries, id)
	}
	delete(s.byTrip, tripID)
}
