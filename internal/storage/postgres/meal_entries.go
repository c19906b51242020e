package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trailmeals/server/internal/storage"
)

type mealEntriesStorage struct {
	pool *pgxpool.Pool
}

func newMealEntriesStorage(pool *pgxpool.Pool) *mealEntriesStorage {
	return &mealEntriesStorage{pool: pool}
}

const entryColumns = `id, trip_id, day_index, meal_slot, recipe_id, recipe_title,
       servings, total_kcal, total_grams, created_at, updated_at`

func scanEntry(row pgx.Row) (storage.MealEntry, error) {
	var e storage.MealEntry
	err := row.Scan(
		&e.ID,
		&e.TripID,
		&e.DayIndex,
		&e.MealSlot,
		&e.RecipeID,
		&e.RecipeTitle,
		&e.Servings,
		&e.TotalKcal,
		&e.TotalGrams,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	return e, err
}

// InsertEntries inserts the batch inside one transaction: a template
// application either lands completely or not at all.
func (s *mealEntriesStorage) InsertEntries(ctx context.Context, tripID uuid.UUID, inserts []storage.MealEntryInsert) ([]storage.MealEntry, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO meal_entries (trip_id, day_index, meal_slot, recipe_id, recipe_title,
		                          servings, total_kcal, total_grams)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + entryColumns

	created := make([]storage.MealEntry, 0, len(inserts))
	for _, in := range inserts {
		entry, err := scanEntry(tx.QueryRow(ctx, query,
			tripID,
			in.DayIndex,
			in.MealSlot,
			in.RecipeID,
			in.RecipeTitle,
			in.Servings,
			in.TotalKcal,
			in.TotalGrams,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert meal entry: %w", err)
		}
		created = append(created, entry)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit meal entries: %w", err)
	}
	return created, nil
}

func (s *mealEntriesStorage) ListEntries(ctx context.Context, tripID uuid.UUID) ([]storage.MealEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM meal_entries
		WHERE trip_id = $1
		ORDER BY day_index,
			CASE meal_slot
				WHEN 'breakfast' THEN 1
				WHEN 'lunch' THEN 2
				WHEN 'dinner' THEN 3
				WHEN 'snacks' THEN 4
			END
	`

	rows, err := s.pool.Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal entries: %w", err)
	}
	defer rows.Close()

	entries := []storage.MealEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *mealEntriesStorage) GetEntry(ctx context.Context, id uuid.UUID) (*storage.MealEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM meal_entries WHERE id = $1`

	entry, err := scanEntry(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal entry: %w", err)
	}
	return &entry, nil
}

func (s *mealEntriesStorage) UpdateEntry(ctx context.Context, id uuid.UUID, upd storage.MealEntryUpdate) (*storage.MealEntry, error) {
	query := `
		UPDATE meal_entries
		SET recipe_id = COALESCE($2, recipe_id),
		    recipe_title = COALESCE($3, recipe_title),
		    servings = COALESCE($4, servings),
		    total_kcal = COALESCE($5, total_kcal),
		    total_grams = COALESCE($6, total_grams),
		    updated_at = now()
		WHERE id = $1
		RETURNING ` + entryColumns

	entry, err := scanEntry(s.pool.QueryRow(ctx, query,
		id,
		upd.RecipeID,
		upd.RecipeTitle,
		upd.Servings,
		upd.TotalKcal,
		upd.TotalGrams,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update meal entry: %w", err)
	}
	return &entry, nil
}

func (s *mealEntriesStorage) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	// Deleting an already-deleted entry is a no-op by contract.
	_, err := s.pool.Exec(ctx, `DELETE FROM meal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal entry: %w", err)
	}
	return nil
}

func (s *mealEntriesStorage) DeleteByTrip(ctx context.Context, tripID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM meal_entries WHERE trip_id = $1`, tripID)
	if err != nil {
		return fmt.Errorf("failed to delete trip entries: %w", err)
	}
	return nil
}
