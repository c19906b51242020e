package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a trip or entry does not exist.
	ErrNotFound = errors.New("not found")
)

// Meal slots form a fixed enumeration; every meal entry carries one of them.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
	SlotSnacks    = "snacks"
)

// ValidSlot reports whether s is one of the fixed meal slots.
func ValidSlot(s string) bool {
	switch s {
	case SlotBreakfast, SlotLunch, SlotDinner, SlotSnacks:
		return true
	}
	return false
}

// Trip is a dated, N-day container that meal entries belong to.
// Entries reference the trip by ID, so a rename is a single update.
type Trip struct {
	ID          uuid.UUID
	OwnerUserID string
	Name        string
	Days        int // >= 1
	StartDate   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealEntry is one (day, slot, recipe) assignment within a trip.
// RecipeTitle is a denormalized copy of the recipe's name at assignment
// time, not a live reference. TotalKcal/TotalGrams are precomputed at
// creation/edit time; aggregation never recomputes them from ingredients.
type MealEntry struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	DayIndex    int    // 1..trip.Days
	MealSlot    string // breakfast|lunch|dinner|snacks
	RecipeID    string
	RecipeTitle string
	Servings    int // >= 1
	TotalKcal   int
	TotalGrams  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MealEntryInsert is the input for creating entries.
type MealEntryInsert struct {
	DayIndex    int
	MealSlot    string
	RecipeID    string
	RecipeTitle string
	Servings    int
	TotalKcal   int
	TotalGrams  int
}

// MealEntryUpdate carries the mutable fields of an entry. Nil fields are
// left unchanged.
type MealEntryUpdate struct {
	RecipeID    *string
	RecipeTitle *string
	Servings    *int
	TotalKcal   *int
	TotalGrams  *int
}

// TripsStorage manages trips.
type TripsStorage interface {
	// CreateTrip inserts a new trip.
	CreateTrip(ctx context.Context, trip *Trip) error

	// GetTrip returns a trip by ID. ErrNotFound when absent.
	GetTrip(ctx context.Context, id uuid.UUID) (*Trip, error)

	// ListTrips returns all trips for an owner, oldest first.
	ListTrips(ctx context.Context, ownerUserID string) ([]Trip, error)

	// UpdateTrip updates name/days/start date. A rename touches exactly
	// one row; entries stay attached via the foreign key.
	UpdateTrip(ctx context.Context, trip *Trip) error

	// DeleteTrip removes the trip and all of its meal entries in one
	// transaction.
	DeleteTrip(ctx context.Context, id uuid.UUID) error

	// Close releases the underlying connection (Postgres).
	Close() error
}

// MealEntriesStorage manages meal entries. All batch inserts are atomic:
// either every entry of the batch is committed or none is.
type MealEntriesStorage interface {
	// InsertEntries inserts a batch of entries for a trip as a single
	// commit and returns the created records.
	InsertEntries(ctx context.Context, tripID uuid.UUID, inserts []MealEntryInsert) ([]MealEntry, error)

	// ListEntries returns all entries of a trip ordered by day and slot.
	ListEntries(ctx context.Context, tripID uuid.UUID) ([]MealEntry, error)

	// GetEntry returns one entry by ID. ErrNotFound when absent.
	GetEntry(ctx context.Context, id uuid.UUID) (*MealEntry, error)

	// UpdateEntry applies the non-nil fields of upd.
	UpdateEntry(ctx context.Context, id uuid.UUID, upd MealEntryUpdate) (*MealEntry, error)

	// DeleteEntry removes one entry. Deleting an entry that is already
	// gone is not an error.
	DeleteEntry(ctx context.Context, id uuid.UUID) error

	// DeleteByTrip removes every entry of a trip.
	DeleteByTrip(ctx context.Context, tripID uuid.UUID) error
}

// GroceryExport records one generated grocery-list PDF.
type GroceryExport struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	ObjectKey *string // blob key; nil in memory mode
	SizeBytes int64
	Status    string // "ready" or "failed"
	CreatedAt time.Time
	Data      []byte // only used in memory mode, never stored in DB
}

// GroceryExportsStorage manages grocery export metadata.
type GroceryExportsStorage interface {
	// CreateExport stores export metadata (and data in memory mode).
	CreateExport(ctx context.Context, export *GroceryExport) error

	// GetExport returns an export by ID. ErrNotFound when absent.
	GetExport(ctx context.Context, id uuid.UUID) (*GroceryExport, error)
}
