package trips

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
)

// PlanState is the in-memory projection of one trip's meal entries. It is an
// explicit container: callers refresh it from the store and query the views;
// nothing mutates it behind their back.
type PlanState struct {
	mu           sync.RWMutex
	tripID       uuid.UUID
	entries      []storage.MealEntry
	consolidated bool
}

// NewPlanState creates an empty projection for a trip.
func NewPlanState(tripID uuid.UUID) *PlanState {
	return &PlanState{tripID: tripID}
}

// Refresh replaces the whole projection from the store. A full replace, not
// a merge, so entries deleted elsewhere cannot linger.
func (s *PlanState) Refresh(ctx context.Context, store storage.MealEntriesStorage) error {
	entries, err := store.ListEntries(ctx, s.tripID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// TripID returns the trip this projection tracks.
func (s *PlanState) TripID() uuid.UUID {
	return s.tripID
}

// Entries returns all entries, ordered by day and slot.
func (s *PlanState) Entries() []storage.MealEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.MealEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EntriesForDay returns the entries of one day.
func (s *PlanState) EntriesForDay(dayIndex int) []storage.MealEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.MealEntry
	for _, e := range s.entries {
		if e.DayIndex == dayIndex {
			out = append(out, e)
		}
	}
	return out
}

// SetConsolidatedSnacks toggles the consolidated snacks view.
func (s *PlanState) SetConsolidatedSnacks(on bool) {
	s.mu.Lock()
	s.consolidated = on
	s.mu.Unlock()
}

// ConsolidatedSnacks returns every snacks entry across all days as one flat
// list when the mode is on; when off it returns nothing and the per-day view
// applies.
func (s *PlanState) ConsolidatedSnacks() []storage.MealEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.consolidated {
		return nil
	}
	var out []storage.MealEntry
	for _, e := range s.entries {
		if e.MealSlot == storage.SlotSnacks {
			out = append(out, e)
		}
	}
	return out
}

// Delete removes the entry from the store, then from the projection. A
// second delete of a gone entry is a no-op on both sides.
func (s *PlanState) Delete(ctx context.Context, store storage.MealEntriesStorage, id uuid.UUID) error {
	if err := store.DeleteEntry(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return nil
}
