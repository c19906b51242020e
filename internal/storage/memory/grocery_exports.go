package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/storage"
)

type groceryExportsStorage struct {
	mu      sync.RWMutex
	exports map[uuid.UUID]*storage.GroceryExport
}

func newGroceryExportsStorage() *groceryExportsStorage {
	return &groceryExportsStorage{
		exports: make(map[uuid.UUID]*storage.GroceryExport),
	}
}

func (s *groceryExportsStorage) CreateExport(ctx context.Context, export *storage.GroceryExport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if export.ID == uuid.Nil {
		export.ID = uuid.New()
	}
	export.CreatedAt = time.Now().UTC()

	cp := *export
	s.exports[export.ID] = &cp
	return nil
}

func (s *groceryExportsStorage) GetExport(ctx context.Context, id uuid.UUID) (*storage.GroceryExport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	export, ok := s.exports[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *export
	return &cp, nil
}
