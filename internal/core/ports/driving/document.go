package driving

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// DocumentService ingests and reads documents.
type DocumentService interface {
	// Ingest stores a document and notifies every consumption handler.
	Ingest(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns all documents.
	List(ctx context.Context) ([]domain.Document, error)
}

// DocumentConsumedHandler is invoked once per document after ingestion completes.
// Handlers must not fail the ingestion; they report problems through logging.
type DocumentConsumedHandler interface {
	HandleDocumentConsumed(ctx context.Context, doc *domain.Document)
}

// DocumentConsumedFunc adapts a function to DocumentConsumedHandler.
type DocumentConsumedFunc func(ctx context.Context, doc *domain.Document)

// HandleDocumentConsumed calls f(ctx, doc).
func (f DocumentConsumedFunc) HandleDocumentConsumed(ctx context.Context, doc *domain.Document) {
	f(ctx, doc)
}
