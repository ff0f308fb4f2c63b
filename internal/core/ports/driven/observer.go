package driven

import (
	"time"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// ExtractionObserver receives extraction telemetry.
// Implementations must be safe for concurrent use.
type ExtractionObserver interface {
	// ObserveField records the outcome for one field.
	ObserveField(field string, outcome domain.FieldOutcome)

	// ObserveRun records a completed run over one document.
	ObserveRun(duration time.Duration, fields int)
}
