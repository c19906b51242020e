package templates

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/storage"
)

// Materializer persists resolved template meals as trip entries.
type Materializer struct {
	resolver *Resolver
	store    catalog.DocumentStore
	trips    storage.TripsStorage
	entries  storage.MealEntriesStorage
}

// NewMaterializer creates a materializer.
func NewMaterializer(store catalog.DocumentStore, trips storage.TripsStorage, entries storage.MealEntriesStorage) *Materializer {
	return &Materializer{
		resolver: NewResolver(store),
		store:    store,
		trips:    trips,
		entries:  entries,
	}
}

// GetTemplate fetches one template from the catalog.
func (m *Materializer) GetTemplate(ctx context.Context, templateID string) (catalog.MealTemplate, error) {
	doc, err := m.store.GetDocument(ctx, catalog.CollectionTemplates, templateID)
	if err != nil {
		return catalog.MealTemplate{}, err
	}
	return catalog.TemplateFromDocument(templateID, doc)
}

// ListTemplates fetches every template, ordered by ID.
func (m *Materializer) ListTemplates(ctx context.Context) ([]catalog.MealTemplate, error) {
	docs, err := m.store.GetAllDocuments(ctx, catalog.CollectionTemplates)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	templates := make([]catalog.MealTemplate, 0, len(docs))
	for id, doc := range docs {
		tpl, err := catalog.TemplateFromDocument(id, doc)
		if err != nil {
			continue
		}
		templates = append(templates, tpl)
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })
	return templates, nil
}

// Apply resolves the template against the trip and inserts one entry per
// triple as a single batch. A day-count rejection inserts nothing. Applying
// the same template twice produces duplicate entries; repeated menu items
// are allowed.
func (m *Materializer) Apply(ctx context.Context, tpl catalog.MealTemplate, trip *storage.Trip) ([]storage.MealEntry, error) {
	resolved, err := m.resolver.Resolve(ctx, tpl, trip.Days)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return []storage.MealEntry{}, nil
	}

	inserts := make([]storage.MealEntryInsert, 0, len(resolved))
	for _, meal := range resolved {
		inserts = append(inserts, storage.MealEntryInsert{
			DayIndex:    meal.DayIndex,
			MealSlot:    meal.MealSlot,
			RecipeID:    meal.RecipeID,
			RecipeTitle: meal.Title,
			Servings:    1,
			TotalKcal:   meal.TotalKcal,
			TotalGrams:  meal.TotalGrams,
		})
	}

	entries, err := m.entries.InsertEntries(ctx, trip.ID, inserts)
	if err != nil {
		return nil, fmt.Errorf("failed to insert template entries: %w", err)
	}
	return entries, nil
}

// CreateTripFromTemplate validates the day span before the trip row exists,
// so a rejection leaves nothing behind, then creates the trip and applies
// the template.
func (m *Materializer) CreateTripFromTemplate(ctx context.Context, ownerUserID, name string, days int, startDate time.Time, tpl catalog.MealTemplate) (*storage.Trip, []storage.MealEntry, error) {
	if maxDay := MaxDay(tpl); days < maxDay {
		return nil, nil, &DayCountError{TripDays: days, TemplateDays: maxDay}
	}

	trip := &storage.Trip{
		OwnerUserID: ownerUserID,
		Name:        name,
		Days:        days,
		StartDate:   startDate,
	}
	if err := m.trips.CreateTrip(ctx, trip); err != nil {
		return nil, nil, fmt.Errorf("failed to create trip: %w", err)
	}

	entries, err := m.Apply(ctx, tpl, trip)
	if err != nil {
		// Do not leave an empty trip behind when the batch fails.
		_ = m.trips.DeleteTrip(ctx, trip.ID)
		return nil, nil, err
	}
	return trip, entries, nil
}
