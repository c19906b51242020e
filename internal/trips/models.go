package trips

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
)

// TripDTO is the wire shape of a trip.
type TripDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Days      int       `json:"days"`
	StartDate string    `json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TripToDTO converts a stored trip.
func TripToDTO(t *storage.Trip) TripDTO {
	return TripDTO{
		ID:        t.ID,
		Name:      t.Name,
		Days:      t.Days,
		StartDate: t.StartDate.Format("2006-01-02"),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// EntryDTO is the wire shape of a meal entry.
type EntryDTO struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	DayIndex    int       `json:"day_index"`
	DayLabel    string    `json:"day_label"`
	MealSlot    string    `json:"meal_slot"`
	RecipeID    string    `json:"recipe_id"`
	RecipeTitle string    `json:"recipe_title"`
	Servings    int       `json:"servings"`
	TotalKcal   int       `json:"total_kcal"`
	TotalGrams  int       `json:"total_grams"`
}

// EntryToDTO converts a stored entry.
func EntryToDTO(e storage.MealEntry) EntryDTO {
	return EntryDTO{
		ID:          e.ID,
		TripID:      e.TripID,
		DayIndex:    e.DayIndex,
		DayLabel:    fmt.Sprintf("Day %d", e.DayIndex),
		MealSlot:    e.MealSlot,
		RecipeID:    e.RecipeID,
		RecipeTitle: e.RecipeTitle,
		Servings:    e.Servings,
		TotalKcal:   e.TotalKcal,
		TotalGrams:  e.TotalGrams,
	}
}

// EntriesToDTO converts a slice of entries, never returning nil.
func EntriesToDTO(entries []storage.MealEntry) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryToDTO(e))
	}
	return dtos
}

// CreateTripRequest creates a trip.
type CreateTripRequest struct {
	Name      string `json:"name"`
	Days      int    `json:"days"`
	StartDate string `json:"start_date"`
}

// UpdateTripRequest renames a trip or edits its duration/date. Nil fields
// are left unchanged.
type UpdateTripRequest struct {
	Name      *string `json:"name"`
	Days      *int    `json:"days"`
	StartDate *string `json:"start_date"`
}

// DuplicateTripRequest copies a trip's plan into a new trip.
type DuplicateTripRequest struct {
	Name string `json:"name"`
}

// CreateEntryRequest adds one meal entry to a trip.
type CreateEntryRequest struct {
	DayIndex int    `json:"day_index"`
	MealSlot string `json:"meal_slot"`
	RecipeID string `json:"recipe_id"`
	Servings int    `json:"servings"`
}

// UpdateEntryRequest edits servings and/or swaps the recipe.
type UpdateEntryRequest struct {
	Servings *int    `json:"servings"`
	RecipeID *string `json:"recipe_id"`
}
