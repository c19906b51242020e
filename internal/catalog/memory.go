package catalog

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory DocumentStore, used for local runs without a
// catalog service and as a test double.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

// Put stores a document under collection/id, replacing any previous value.
func (s *MemoryStore) Put(collection, id string, doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	s.collections[collection][id] = doc
}

func (s *MemoryStore) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore) GetAllDocuments(ctx context.Context, collection string) (map[string]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Document, len(s.collections[collection]))
	for id, doc := range s.collections[collection] {
		out[id] = doc
	}
	return out, nil
}

// QueryByFieldRange filters on a single field with ordered scalar values.
// Only string and numeric fields are comparable; everything else is skipped.
func (s *MemoryStore) QueryByFieldRange(ctx context.Context, collection, field string, lower, upper any) (map[string]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Document)
	for id, doc := range s.collections[collection] {
		v, ok := doc[field]
		if !ok {
			continue
		}
		if inRange(v, lower, upper) {
			out[id] = doc
		}
	}
	return out, nil
}

func inRange(v, lower, upper any) bool {
	if s, ok := v.(string); ok {
		lo, okLo := lower.(string)
		hi, okHi := upper.(string)
		return okLo && okHi && s >= lo && s <= hi
	}
	switch v.(type) {
	case float64, int, int64:
		f := toFloat(v)
		return f >= toFloat(lower) && f <= toFloat(upper)
	}
	return false
}
