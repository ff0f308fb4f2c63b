package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
)

// Ensure FieldStore implements the interface.
var _ driven.FieldStore = (*FieldStore)(nil)

// FieldStore is an in-memory implementation of driven.FieldStore.
type FieldStore struct {
	mu     sync.RWMutex
	fields map[string]domain.FieldDefinition
	values *FieldValueStore
}

// NewFieldStore creates a new in-memory field store.
// When values is non-nil, deleting a field also drops its stored values.
func NewFieldStore(values *FieldValueStore) *FieldStore {
	return &FieldStore{
		fields: make(map[string]domain.FieldDefinition),
		values: values,
	}
}

// Save stores or updates a field definition.
func (s *FieldStore) Save(_ context.Context, field *domain.FieldDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.fields {
		if id != field.ID && f.Name == field.Name {
			return domain.ErrAlreadyExists
		}
	}
	s.fields[field.ID] = *field
	return nil
}

// Get retrieves a field definition by ID.
func (s *FieldStore) Get(_ context.Context, id string) (*domain.FieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fields[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

// GetByName retrieves a field definition by name.
func (s *FieldStore) GetByName(_ context.Context, name string) (*domain.FieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.fields {
		if f.Name == name {
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all field definitions in no particular order.
func (s *FieldStore) List(_ context.Context) ([]domain.FieldDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields := make([]domain.FieldDefinition, 0, len(s.fields))
	for id := range s.fields {
		fields = append(fields, s.fields[id])
	}
	return fields, nil
}

// Delete removes a field definition.
func (s *FieldStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.fields[id]; !ok {
		s.mu.Unlock()
		return domain.ErrNotFound
	}
	delete(s.fields, id)
	s.mu.Unlock()

	if s.values != nil {
		s.values.deleteField(id)
	}
	return nil
}
