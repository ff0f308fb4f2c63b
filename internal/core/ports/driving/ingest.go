package driving

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// IngestService feeds raw connector output into the document pipeline.
type IngestService interface {
	// IngestRaw normalises raw bytes and ingests the resulting document.
	// The document ID is derived from the URI, so re-ingesting a path
	// updates the same document.
	IngestRaw(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// Consume ingests changes until the channel closes or ctx is done.
	Consume(ctx context.Context, changes <-chan domain.RawDocumentChange) IngestStats
}

// IngestStats counts what Consume did.
type IngestStats struct {
	Ingested int
	Skipped  int
	Failed   int
}
