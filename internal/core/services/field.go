package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

// Ensure FieldService implements the interface.
var _ driving.FieldService = (*FieldService)(nil)

// FieldService manages field definitions.
type FieldService struct {
	store driven.FieldStore
}

// NewFieldService creates a new field service.
func NewFieldService(store driven.FieldStore) *FieldService {
	return &FieldService{store: store}
}

// Create defines a new field. The group defaults to 1 and a pattern
// given at creation is checked for compile errors.
func (s *FieldService) Create(ctx context.Context, field domain.FieldDefinition) (*domain.FieldDefinition, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}

	field.Name = strings.TrimSpace(field.Name)
	if field.ExtractionGroup == 0 {
		field.ExtractionGroup = domain.DefaultExtractionGroup
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}
	if err := checkPattern(field.ExtractionPattern); err != nil {
		return nil, err
	}

	now := time.Now()
	field.ID = uuid.New().String()
	field.CreatedAt = now
	field.UpdatedAt = now

	if err := s.store.Save(ctx, &field); err != nil {
		return nil, err
	}
	return &field, nil
}

// Get retrieves a field by ID.
func (s *FieldService) Get(ctx context.Context, id string) (*domain.FieldDefinition, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.Get(ctx, id)
}

// GetByName retrieves a field by name.
func (s *FieldService) GetByName(ctx context.Context, name string) (*domain.FieldDefinition, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.GetByName(ctx, strings.TrimSpace(name))
}

// List returns all fields sorted by name.
func (s *FieldService) List(ctx context.Context) ([]domain.FieldDefinition, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	fields, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	return fields, nil
}

// ConfigureExtraction updates the extraction rule of a named field.
func (s *FieldService) ConfigureExtraction(
	ctx context.Context,
	name string,
	rule driving.ExtractionRule,
) (*domain.FieldDefinition, error) {
	field, err := s.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if rule.Pattern != nil {
		if err := checkPattern(*rule.Pattern); err != nil {
			return nil, err
		}
		field.ExtractionPattern = *rule.Pattern
	}
	if rule.Group != nil {
		field.ExtractionGroup = *rule.Group
	}
	if rule.Enabled != nil {
		field.ExtractionEnabled = *rule.Enabled
	}
	if field.ExtractionGroup == 0 {
		field.ExtractionGroup = domain.DefaultExtractionGroup
	}
	if err := field.Validate(); err != nil {
		return nil, err
	}

	field.UpdatedAt = time.Now()
	if err := s.store.Save(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// Remove deletes a field by name together with its stored values.
func (s *FieldService) Remove(ctx context.Context, name string) error {
	field, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, field.ID)
}

// checkPattern reports a compile error for a non-empty pattern.
func checkPattern(pattern string) error {
	if strings.TrimSpace(pattern) == "" {
		return nil
	}
	if _, err := compilePattern(pattern); err != nil {
		return fmt.Errorf("%w: pattern: %v", domain.ErrInvalidInput, err)
	}
	return nil
}
