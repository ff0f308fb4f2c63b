package driving

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// ExtractionService runs regex extraction over documents.
type ExtractionService interface {
	// Run extracts every enabled field from the document and stores the values.
	// It never fails; problems are logged and reported per field.
	Run(ctx context.Context, doc *domain.Document) domain.ExtractionReport

	// RunByID loads a document and runs extraction on it.
	RunByID(ctx context.Context, documentID string) (domain.ExtractionReport, error)

	// TestPattern evaluates a pattern against content without storing anything.
	TestPattern(content, pattern string, group int, dataType domain.DataType) domain.PatternTest

	// Values returns the stored values of a document keyed by field name.
	Values(ctx context.Context, documentID string) (map[string]domain.Value, error)
}
