package nutrition

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
)

// Service computes nutrition summaries for trips and answers ingredient
// lookups through the cache.
type Service struct {
	trips   storage.TripsStorage
	entries storage.MealEntriesStorage
	cache   *Cache
}

// NewService creates a nutrition service.
func NewService(trips storage.TripsStorage, entries storage.MealEntriesStorage, cache *Cache) *Service {
	return &Service{trips: trips, entries: entries, cache: cache}
}

// TripSummary aggregates the trip's entries per day, per slot, and overall.
// The sums come from the precomputed totals on the entries. Foreign trips
// read as not-found.
func (s *Service) TripSummary(ctx context.Context, ownerUserID string, tripID uuid.UUID) (TripSummaryResponse, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return TripSummaryResponse{}, err
	}
	if trip.OwnerUserID != ownerUserID {
		return TripSummaryResponse{}, storage.ErrNotFound
	}

	entries, err := s.entries.ListEntries(ctx, tripID)
	if err != nil {
		return TripSummaryResponse{}, fmt.Errorf("failed to list entries: %w", err)
	}

	return TripSummaryResponse{
		TripID: tripID,
		Days:   SumForGroup(entries, ByDay),
		Slots:  SumForGroup(entries, BySlot),
		Trip:   SumForGroup(entries, ByTrip)["trip"],
	}, nil
}

// IngredientSummary looks up one ingredient. Lookup failures degrade to a
// not-found response instead of an error; the failure is not cached, so a
// later call retries.
func (s *Service) IngredientSummary(ctx context.Context, name string, amount float64, unit string) IngredientResponse {
	resp := IngredientResponse{Name: name, Amount: amount, Unit: unit}

	detail, err := s.cache.Lookup(ctx, name, amount, unit)
	if err != nil {
		return resp
	}

	resp.Found = true
	resp.Detail = detail
	if text, ok := CalorieText(detail, amount, unit); ok {
		resp.CalorieText = text
	}
	return resp
}
