// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDocuments lists consumed documents.
	ViewDocuments ViewType = iota
	// ViewValues shows the field values of one document.
	ViewValues
	// ViewPattern tests a pattern against one document.
	ViewPattern
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDocuments:
		return "documents"
	case ViewValues:
		return "values"
	case ViewPattern:
		return "pattern"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// DocumentsLoaded carries the document list.
type DocumentsLoaded struct {
	Documents []domain.Document
	Err       error
}

// DocumentSelected opens the values view for a document.
type DocumentSelected struct {
	Document domain.Document
}

// PatternRequested opens the pattern tester for a document.
type PatternRequested struct {
	Document domain.Document
}

// ValuesLoaded carries the stored values of a document.
type ValuesLoaded struct {
	DocumentID string
	Values     map[string]domain.Value
	Err        error
}

// ExtractionCompleted carries the report of an extraction run.
type ExtractionCompleted struct {
	Report domain.ExtractionReport
}

// PatternTested carries the result of a pattern test.
type PatternTested struct {
	Result domain.PatternTest
}
