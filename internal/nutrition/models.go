package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// NutrientCalories is the key of the calories nutrient in a detail record.
const NutrientCalories = "calories"

// Nutrient is one named nutrition fact.
type Nutrient struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IngredientDetail holds the nutrition facts returned for one ingredient.
// WeightPerServing is grams per serving, zero when the API did not report
// a weight.
type IngredientDetail struct {
	Name             string              `json:"name"`
	Nutrients        map[string]Nutrient `json:"nutrients"`
	WeightPerServing float64             `json:"weight_per_serving"`
	FetchedAt        time.Time           `json:"fetched_at"`
}

// Totals is a calorie/weight pair summed over a group of entries.
type Totals struct {
	Kcal  int `json:"kcal"`
	Grams int `json:"grams"`
}

// TripSummaryResponse is the per-day, per-slot, and trip-wide breakdown.
type TripSummaryResponse struct {
	TripID uuid.UUID         `json:"trip_id"`
	Days   map[string]Totals `json:"days"`
	Slots  map[string]Totals `json:"meal_slots"`
	Trip   Totals            `json:"trip"`
}

// IngredientResponse is the lookup result for one ingredient query. Found is
// false when the lookup failed or returned nothing; the caller sees an empty
// detail rather than an error.
type IngredientResponse struct {
	Name        string            `json:"name"`
	Amount      float64           `json:"amount"`
	Unit        string            `json:"unit"`
	Found       bool              `json:"found"`
	CalorieText string            `json:"calorie_text,omitempty"`
	Detail      *IngredientDetail `json:"detail,omitempty"`
}
