package driven

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// Connector reads documents from a source.
type Connector interface {
	// Validate checks the source is reachable.
	Validate(ctx context.Context) error

	// FullSync emits every document currently in the source.
	// Both channels are closed when the sync finishes.
	FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error)

	// Watch emits changes until ctx is cancelled or the connector is closed.
	Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error)

	// Close releases resources. Safe to call more than once.
	Close() error
}
