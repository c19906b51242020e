package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
)

type tripsStorage struct {
	mu      sync.RWMutex
	trips   map[uuid.UUID]*storage.Trip
	entries *mealEntriesStorage
}

func newTripsStorage(entries *mealEntriesStorage) *tripsStorage {
	return &tripsStorage{
		trips:   make(map[uuid.UUID]*storage.Trip),
		entries: entries,
	}
}

func (s *tripsStorage) CreateTrip(ctx context.Context, trip *storage.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	now := time.Now().UTC()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	cp := *trip
	s.trips[trip.ID] = &cp
	return nil
}

func (s *tripsStorage) GetTrip(ctx context.Context, id uuid.UUID) (*storage.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trip, ok := s.trips[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *trip
	return &cp, nil
}

func (s *tripsStorage) ListTrips(ctx context.Context, ownerUserID string) ([]storage.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trips := []storage.Trip{}
	for _, trip := range s.trips {
		if trip.OwnerUserID == ownerUserID {
			trips = append(trips, *trip)
		}
	}

	// Oldest first, matching the Postgres ORDER BY.
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].CreatedAt.Before(trips[j].CreatedAt)
	})
	return trips, nil
}

func (s *tripsStorage) UpdateTrip(ctx context.Context, trip *storage.Trip) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.trips[trip.ID]
	if !ok {
		return storage.ErrNotFound
	}

	existing.Name = trip.Name
	existing.Days = trip.Days
	existing.StartDate = trip.StartDate
	existing.UpdatedAt = time.Now().UTC()
	*trip = *existing
	return nil
}

func (s *tripsStorage) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trips[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.trips, id)

	// Cascade: the engine owns the relation, the store must not be
	// trusted to clean up on its own.
	return s.entries.DeleteByTrip(ctx, id)
}
