package driven

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// FieldStore persists field definitions, including their extraction rules.
type FieldStore interface {
	// Save stores or updates a field definition.
	// Returns domain.ErrAlreadyExists if another field already uses the name.
	Save(ctx context.Context, field *domain.FieldDefinition) error

	// Get retrieves a field definition by ID.
	Get(ctx context.Context, id string) (*domain.FieldDefinition, error)

	// GetByName retrieves a field definition by its unique name.
	GetByName(ctx context.Context, name string) (*domain.FieldDefinition, error)

	// List returns all field definitions.
	List(ctx context.Context) ([]domain.FieldDefinition, error)

	// Delete removes a field definition and its stored values.
	Delete(ctx context.Context, id string) error
}

// FieldLister is the narrow capability the extraction service needs:
// the list of field definitions to select extraction rules from.
type FieldLister interface {
	List(ctx context.Context) ([]domain.FieldDefinition, error)
}
