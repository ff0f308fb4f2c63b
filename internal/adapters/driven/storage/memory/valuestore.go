package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
)

// Ensure FieldValueStore implements the interface.
var _ driven.FieldValueStore = (*FieldValueStore)(nil)

type valueKey struct {
	documentID string
	fieldID    string
}

// FieldValueStore is an in-memory implementation of driven.FieldValueStore.
type FieldValueStore struct {
	mu     sync.RWMutex
	values map[valueKey]domain.FieldValue
}

// NewFieldValueStore creates a new in-memory field value store.
func NewFieldValueStore() *FieldValueStore {
	return &FieldValueStore{
		values: make(map[valueKey]domain.FieldValue),
	}
}

// Upsert creates or replaces the value for (documentID, fieldID).
func (s *FieldValueStore) Upsert(_ context.Context, documentID, fieldID string, value domain.Value) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := valueKey{documentID: documentID, fieldID: fieldID}
	now := time.Now()
	if existing, ok := s.values[key]; ok {
		existing.Value = value
		existing.UpdatedAt = now
		s.values[key] = existing
		return false, nil
	}

	s.values[key] = domain.FieldValue{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		FieldID:    fieldID,
		Value:      value,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	return true, nil
}

// Get retrieves the value for a pair.
func (s *FieldValueStore) Get(_ context.Context, documentID, fieldID string) (*domain.FieldValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fv, ok := s.values[valueKey{documentID: documentID, fieldID: fieldID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &fv, nil
}

// ListByDocument returns all values stored for a document.
func (s *FieldValueStore) ListByDocument(_ context.Context, documentID string) ([]domain.FieldValue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.FieldValue
	for k, fv := range s.values {
		if k.documentID == documentID {
			out = append(out, fv)
		}
	}
	return out, nil
}

// Len returns the number of stored values.
func (s *FieldValueStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *FieldValueStore) deleteField(fieldID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.values {
		if k.fieldID == fieldID {
			delete(s.values, k)
		}
	}
}
