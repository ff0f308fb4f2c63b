package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	now := time.Now()

	doc := Document{
		ID:        "doc-123",
		URI:       "file:///path/to/invoice.txt",
		Title:     "invoice",
		Content:   "Tesisat: 1234567890-123-ABC",
		CreatedAt: now,
		UpdatedAt: now,
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, "file:///path/to/invoice.txt", doc.URI)
	assert.Equal(t, "invoice", doc.Title)
	assert.Equal(t, now, doc.CreatedAt)
	assert.True(t, doc.HasContent())
}

func TestDocument_HasContent(t *testing.T) {
	var nilDoc *Document
	assert.False(t, nilDoc.HasContent())
	assert.False(t, (&Document{ID: "empty"}).HasContent())
	assert.True(t, (&Document{Content: " "}).HasContent())
}
