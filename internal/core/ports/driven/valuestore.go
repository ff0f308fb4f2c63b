package driven

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// FieldValueStore persists one value per (document, field) pair.
type FieldValueStore interface {
	// Upsert creates the value for the pair or replaces it in place.
	// Returns true if a new instance was created.
	Upsert(ctx context.Context, documentID, fieldID string, value domain.Value) (bool, error)

	// Get retrieves the value for a pair.
	// Returns domain.ErrNotFound if none is stored.
	Get(ctx context.Context, documentID, fieldID string) (*domain.FieldValue, error)

	// ListByDocument returns all values stored for a document.
	ListByDocument(ctx context.Context, documentID string) ([]domain.FieldValue, error)
}
