package templates

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/storage"
)

// TemplateDTO is the list/detail representation of a template.
type TemplateDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Days  int    `json:"days"`
}

// TemplateToDTO converts a catalog template.
func TemplateToDTO(tpl catalog.MealTemplate) TemplateDTO {
	return TemplateDTO{ID: tpl.ID, Title: tpl.Title, Days: MaxDay(tpl)}
}

// EntryDTO is the wire shape of one materialized meal entry.
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

// ApplyRequest applies an existing template to an existing trip.
type ApplyRequest struct {
	TemplateID string `json:"template_id"`
}

// ApplyResponse reports what a template application inserted.
type ApplyResponse struct {
	InsertedCount int        `json:"inserted_count"`
	Entries       []EntryDTO `json:"entries"`
}

// CreateFromTemplateRequest creates a trip and applies a template in one
// step.
type CreateFromTemplateRequest struct {
	Name       string `json:"name"`
	Days       int    `json:"days"`
	StartDate  string `json:"start_date"`
	TemplateID string `json:"template_id"`
}

// TripDTO is the wire shape of a trip.
type TripDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Days        int       `json:"days"`
	StartDate   string    `json:"start_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TripToDTO converts a stored trip.
func TripToDTO(t *storage.Trip) TripDTO {
	return TripDTO{
		ID:          t.ID,
		OwnerUserID: t.OwnerUserID,
		Name:        t.Name,
		Days:        t.Days,
		StartDate:   t.StartDate.Format("2006-01-02"),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// CreateFromTemplateResponse bundles the created trip with its entries.
type CreateFromTemplateResponse struct {
	Trip    TripDTO    `json:"trip"`
	Entries []EntryDTO `json:"entries"`
}
