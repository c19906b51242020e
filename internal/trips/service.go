package trips

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/storage"
)

// ErrValidation marks request errors that must be reported before any write.
var ErrValidation = errors.New("invalid_request")

// unknownRecipeTitle is the placeholder shown when a recipe lookup fails.
const unknownRecipeTitle = "Unknown Recipe"

// Service handles trip and meal entry business logic.
type Service struct {
	trips   storage.TripsStorage
	entries storage.MealEntriesStorage
	catalog catalog.DocumentStore
}

// NewService creates a new trips service.
func NewService(trips storage.TripsStorage, entries storage.MealEntriesStorage, cat catalog.DocumentStore) *Service {
	return &Service{trips: trips, entries: entries, catalog: cat}
}

// CreateTrip validates and persists a new trip.
func (s *Service) CreateTrip(ctx context.Context, ownerUserID, name string, days int, startDate time.Time) (*storage.Trip, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if days < 1 {
		return nil, fmt.Errorf("%w: days must be at least 1", ErrValidation)
	}

	trip := &storage.Trip{
		OwnerUserID: ownerUserID,
		Name:        name,
		Days:        days,
		StartDate:   startDate,
	}
	if err := s.trips.CreateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}
	return trip, nil
}

// GetOwnedTrip returns the trip if it exists and belongs to the user;
// otherwise storage.ErrNotFound.
func (s *Service) GetOwnedTrip(ctx context.Context, ownerUserID string, tripID uuid.UUID) (*storage.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerUserID != ownerUserID {
		return nil, storage.ErrNotFound
	}
	return trip, nil
}

// ListTrips returns the user's trips, oldest first.
func (s *Service) ListTrips(ctx context.Context, ownerUserID string) ([]storage.Trip, error) {
	return s.trips.ListTrips(ctx, ownerUserID)
}

// UpdateTrip applies a rename or duration/date edit. Entries reference the
// trip by ID, so a rename touches exactly one row.
func (s *Service) UpdateTrip(ctx context.Context, ownerUserID string, tripID uuid.UUID, name *string, days *int, startDate *time.Time) (*storage.Trip, error) {
	trip, err := s.GetOwnedTrip(ctx, ownerUserID, tripID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		trip.Name = *name
	}
	if days != nil {
		if *days < 1 {
			return nil, fmt.Errorf("%w: days must be at least 1", ErrValidation)
		}
		trip.Days = *days
	}
	if startDate != nil {
		trip.StartDate = *startDate
	}

	if err := s.trips.UpdateTrip(ctx, trip); err != nil {
		return nil, fmt.Errorf("failed to update trip: %w", err)
	}
	return trip, nil
}

// DeleteTrip removes the trip and all of its entries.
func (s *Service) DeleteTrip(ctx context.Context, ownerUserID string, tripID uuid.UUID) error {
	if _, err := s.GetOwnedTrip(ctx, ownerUserID, tripID); err != nil {
		return err
	}
	return s.trips.DeleteTrip(ctx, tripID)
}

// Duplicate copies every entry of the source trip into a new trip with
// fresh identities. The source is untouched; the copies land in one batch.
func (s *Service) Duplicate(ctx context.Context, ownerUserID string, srcTripID uuid.UUID, newName string) (*storage.Trip, []storage.MealEntry, error) {
	if newName == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	src, err := s.GetOwnedTrip(ctx, ownerUserID, srcTripID)
	if err != nil {
		return nil, nil, err
	}

	srcEntries, err := s.entries.ListEntries(ctx, srcTripID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list source entries: %w", err)
	}

	dst := &storage.Trip{
		OwnerUserID: ownerUserID,
		Name:        newName,
		Days:        src.Days,
		StartDate:   src.StartDate,
	}
	if err := s.trips.CreateTrip(ctx, dst); err != nil {
		return nil, nil, fmt.Errorf("failed to create trip: %w", err)
	}

	if len(srcEntries) == 0 {
		return dst, []storage.MealEntry{}, nil
	}

	inserts := make([]storage.MealEntryInsert, 0, len(srcEntries))
	for _, e := range srcEntries {
		inserts = append(inserts, storage.MealEntryInsert{
			DayIndex:    e.DayIndex,
			MealSlot:    e.MealSlot,
			RecipeID:    e.RecipeID,
			RecipeTitle: e.RecipeTitle,
			Servings:    e.Servings,
			TotalKcal:   e.TotalKcal,
			TotalGrams:  e.TotalGrams,
		})
	}

	copied, err := s.entries.InsertEntries(ctx, dst.ID, inserts)
	if err != nil {
		_ = s.trips.DeleteTrip(ctx, dst.ID)
		return nil, nil, fmt.Errorf("failed to copy entries: %w", err)
	}
	return dst, copied, nil
}

// Plan returns a refreshed projection of the trip's entries.
func (s *Service) Plan(ctx context.Context, ownerUserID string, tripID uuid.UUID) (*PlanState, error) {
	if _, err := s.GetOwnedTrip(ctx, ownerUserID, tripID); err != nil {
		return nil, err
	}

	state := NewPlanState(tripID)
	if err := state.Refresh(ctx, s.entries); err != nil {
		return nil, fmt.Errorf("failed to refresh plan: %w", err)
	}
	return state, nil
}

// AddEntry creates one entry from a recipe selection. The recipe title and
// totals are resolved from the catalog at assignment time; a failed lookup
// keeps the entry with a placeholder title and zero totals.
func (s *Service) AddEntry(ctx context.Context, ownerUserID string, tripID uuid.UUID, dayIndex int, mealSlot, recipeID string, servings int) (*storage.MealEntry, error) {
	trip, err := s.GetOwnedTrip(ctx, ownerUserID, tripID)
	if err != nil {
		return nil, err
	}

	if dayIndex < 1 || dayIndex > trip.Days {
		return nil, fmt.Errorf("%w: day_index must be between 1 and %d", ErrValidation, trip.Days)
	}
	if !storage.ValidSlot(mealSlot) {
		return nil, fmt.Errorf("%w: invalid meal_slot", ErrValidation)
	}
	if recipeID == "" {
		return nil, fmt.Errorf("%w: recipe_id is required", ErrValidation)
	}
	if servings < 1 {
		servings = 1
	}

	title, kcal, grams := s.resolveRecipe(ctx, recipeID)

	created, err := s.entries.InsertEntries(ctx, tripID, []storage.MealEntryInsert{{
		DayIndex:    dayIndex,
		MealSlot:    mealSlot,
		RecipeID:    recipeID,
		RecipeTitle: title,
		Servings:    servings,
		TotalKcal:   kcal * servings,
		TotalGrams:  grams * servings,
	}})
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}
	return &created[0], nil
}

// UpdateEntry edits servings and/or swaps the recipe. Both recompute the
// totals: a serving edit rescales the stored per-serving figures, a swap
// re-resolves the new recipe from the catalog.
func (s *Service) UpdateEntry(ctx context.Context, ownerUserID string, entryID uuid.UUID, servings *int, recipeID *string) (*storage.MealEntry, error) {
	entry, err := s.entries.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetOwnedTrip(ctx, ownerUserID, entry.TripID); err != nil {
		return nil, err
	}

	newServings := entry.Servings
	if servings != nil {
		if *servings < 1 {
			return nil, fmt.Errorf("%w: servings must be at least 1", ErrValidation)
		}
		newServings = *servings
	}

	upd := storage.MealEntryUpdate{Servings: &newServings}

	if recipeID != nil && *recipeID != "" && *recipeID != entry.RecipeID {
		title, kcal, grams := s.resolveRecipe(ctx, *recipeID)
		totalKcal := kcal * newServings
		totalGrams := grams * newServings
		upd.RecipeID = recipeID
		upd.RecipeTitle = &title
		upd.TotalKcal = &totalKcal
		upd.TotalGrams = &totalGrams
	} else if newServings != entry.Servings {
		perKcal := entry.TotalKcal / entry.Servings
		perGrams := entry.TotalGrams / entry.Servings
		totalKcal := perKcal * newServings
		totalGrams := perGrams * newServings
		upd.TotalKcal = &totalKcal
		upd.TotalGrams = &totalGrams
	}

	updated, err := s.entries.UpdateEntry(ctx, entryID, upd)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}
	return updated, nil
}

// DeleteEntry removes one entry. Deleting an entry that is already gone is
// a no-op.
func (s *Service) DeleteEntry(ctx context.Context, ownerUserID string, entryID uuid.UUID) error {
	entry, err := s.entries.GetEntry(ctx, entryID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := s.GetOwnedTrip(ctx, ownerUserID, entry.TripID); err != nil {
		return err
	}
	return s.entries.DeleteEntry(ctx, entryID)
}

// resolveRecipe fetches the recipe's title and per-serving totals. A failed
// lookup degrades to the placeholder title with zero totals rather than
// failing the operation.
func (s *Service) resolveRecipe(ctx context.Context, recipeID string) (title string, kcal, grams int) {
	doc, err := s.catalog.GetDocument(ctx, catalog.CollectionRecipes, recipeID)
	if err != nil {
		return unknownRecipeTitle, 0, 0
	}
	recipe := catalog.RecipeFromDocument(recipeID, doc)
	if recipe.Title == "" {
		return unknownRecipeTitle, 0, 0
	}
	return recipe.Title, recipe.TotalKcal(), recipe.TotalGrams()
}
