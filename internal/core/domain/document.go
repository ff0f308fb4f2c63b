package domain

import "time"

// Document represents an ingested document.
// Content holds the full extracted text and may be empty.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path, URL, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content after normalisation.
	Content string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// HasContent returns true if the document carries any text.
func (d *Document) HasContent() bool {
	return d != nil && d.Content != ""
}
