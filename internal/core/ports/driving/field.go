package driving

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// FieldService manages field definitions and their extraction rules.
type FieldService interface {
	// Create defines a new field.
	Create(ctx context.Context, field domain.FieldDefinition) (*domain.FieldDefinition, error)

	// Get retrieves a field by ID.
	Get(ctx context.Context, id string) (*domain.FieldDefinition, error)

	// GetByName retrieves a field by name.
	GetByName(ctx context.Context, name string) (*domain.FieldDefinition, error)

	// List returns all fields sorted by name.
	List(ctx context.Context) ([]domain.FieldDefinition, error)

	// ConfigureExtraction updates the extraction rule of a named field.
	ConfigureExtraction(ctx context.Context, name string, rule ExtractionRule) (*domain.FieldDefinition, error)

	// Remove deletes a field by name.
	Remove(ctx context.Context, name string) error
}

// ExtractionRule carries the extraction attributes of a field.
// Nil pointers leave the current value unchanged.
type ExtractionRule struct {
	Enabled *bool
	Pattern *string
	Group   *int
}
