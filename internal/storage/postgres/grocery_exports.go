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

type groceryExportsStorage struct {
	pool *pgxpool.Pool
}

func newGroceryExportsStorage(pool *pgxpool.Pool) *groceryExportsStorage {
	return &groceryExportsStorage{pool: pool}
}

func (s *groceryExportsStorage) CreateExport(ctx context.Context, export *storage.GroceryExport) error {
	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}

	query := `
		INSERT INTO grocery_exports (id, trip_id, object_key, size_bytes, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := s.pool.QueryRow(ctx, query,
		export.ID,
		export.TripID,
		export.ObjectKey,
		export.SizeBytes,
		export.Status,
	).Scan(&export.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create grocery export: %w", err)
	}
	return nil
}

func (s *groceryExportsStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.GroceryExport, error) {
	query := `
		SELECT id, trip_id, object_key, size_bytes, status, created_at
		FROM grocery_exports
		WHERE id = $1
	`

	var export storage.GroceryExport
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&export.ID,
		&export.TripID,
		&export.ObjectKey,
		&export.SizeBytes,
		&export.Status,
		&export.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get grocery export: %w", err)
	}
	return &export, nil
}
