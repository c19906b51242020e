// Package postgres implements the storage interfaces on PostgreSQL via
// pgx/pgxpool. Batch inserts and cascading deletes run in transactions.
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

// PostgresStorage implements storage.TripsStorage and exposes the meal
// entries storage that shares the same pool.
type PostgresStorage struct {
	pool    *pgxpool.Pool
	entries *mealEntriesStorage
	exports *groceryExportsStorage
}

// New connects to PostgreSQL and pings it once.
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		pool:    pool,
		entries: newMealEntriesStorage(pool),
		exports: newGroceryExportsStorage(pool),
	}, nil
}

// GetMealEntriesStorage returns the meal entries storage.
func (p *PostgresStorage) GetMealEntriesStorage() storage.MealEntriesStorage {
	return p.entries
}

// GetGroceryExportsStorage returns the grocery exports storage.
func (p *PostgresStorage) GetGroceryExportsStorage() storage.GroceryExportsStorage {
	return p.exports
}

func (p *PostgresStorage) CreateTrip(ctx context.Context, trip *storage.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	query := `
		INSERT INTO trips (id, owner_user_id, name, days, start_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := p.pool.QueryRow(ctx, query,
		trip.ID,
		trip.OwnerUserID,
		trip.Name,
		trip.Days,
		trip.StartDate,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create trip: %w", err)
	}
	return nil
}

func (p *PostgresStorage) GetTrip(ctx context.Context, id uuid.UUID) (*storage.Trip, error) {
	query := `
		SELECT id, owner_user_id, name, days, start_date, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var trip storage.Trip
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.OwnerUserID,
		&trip.Name,
		&trip.Days,
		&trip.StartDate,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &trip, nil
}

func (p *PostgresStorage) ListTrips(ctx context.Context, ownerUserID string) ([]storage.Trip, error) {
	query := `
		SELECT id, owner_user_id, name, days, start_date, created_at, updated_at
		FROM trips
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	defer rows.Close()

	trips := []storage.Trip{}
	for rows.Next() {
		var trip storage.Trip
		err := rows.Scan(
			&trip.ID,
			&trip.OwnerUserID,
			&trip.Name,
			&trip.Days,
			&trip.StartDate,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}

func (p *PostgresStorage) UpdateTrip(ctx context.Context, trip *storage.Trip) error {
	query := `
		UPDATE trips
		SET name = $2, days = $3, start_date = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := p.pool.QueryRow(ctx, query,
		trip.ID,
		trip.Name,
		trip.Days,
		trip.StartDate,
	).Scan(&trip.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update trip: %w", err)
	}
	return nil
}

func (p *PostgresStorage) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The schema has ON DELETE CASCADE, but the cascade is part of the
	// engine's contract, so delete entries explicitly.
	if _, err := tx.Exec(ctx, `DELETE FROM meal_entries WHERE trip_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete trip entries: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM trips WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	if result.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	return tx.Commit(ctx)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
