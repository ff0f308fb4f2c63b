// Package tui provides an interactive terminal browser for consumed
// documents and their extracted field values.
package tui

import (
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Document lists and loads consumed documents.
	Document driving.DocumentService

	// Extraction runs extraction, tests patterns and reads stored values.
	Extraction driving.ExtractionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Document == nil {
		return ErrMissingDocumentService
	}
	if p.Extraction == nil {
		return ErrMissingExtractionService
	}
	return nil
}
