package mcp

import (
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Extraction runs and tests extraction patterns.
	Extraction driving.ExtractionService

	// Field lists field definitions.
	Field driving.FieldService

	// Document reads ingested documents.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	// Field and Document are optional
	return nil
}
