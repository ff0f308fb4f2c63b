// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The extraction pipeline lives here: ExtractMatch (pattern matching),
// Coerce (type conversion), SelectFields (rule selection) and
// ExtractionService (orchestration and persistence).
//
// Services are pure Go with no CGO or external dependencies.
package services
