package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

func TestExtractRun(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	addDocument(t, domain.Document{ID: "doc-1", Content: "İŞLEM TUTARI: 1.234,56\nFatura No: yok"})
	addField(t, amountDefinition())
	addField(t, domain.FieldDefinition{
		Name:              "Tesisat",
		DataType:          domain.DataTypeInteger,
		ExtractionEnabled: true,
		ExtractionPattern: `Tesisat No:\s*(\d+)`,
	})

	out, err := executeCommand("extract", "run", "doc-1")

	require.NoError(t, err)
	assert.Contains(t, out, "Document: doc-1")
	assert.Contains(t, out, "✓ Tutar = 1234.56")
	assert.Contains(t, out, "· Tesisat (no_match)")
	assert.Contains(t, out, "1 stored, 1 no match, 0 null, 0 errors")
	assert.Equal(t, 1, ts.values.Len())
}

func TestExtractRun_NoFields(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	addDocument(t, domain.Document{ID: "doc-1", Content: "text"})

	out, err := executeCommand("extract", "run", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "No fields have extraction enabled.")
}

func TestExtractRun_MissingDocument(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("extract", "run", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExtractAll(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	addDocument(t, domain.Document{ID: "doc-1", Content: "İŞLEM TUTARI: 10,00"})
	addDocument(t, domain.Document{ID: "doc-2", Content: "İŞLEM TUTARI: 20,00"})
	addDocument(t, domain.Document{ID: "doc-3", Content: "nothing here"})
	addField(t, amountDefinition())

	out, err := executeCommand("extract", "all")

	require.NoError(t, err)
	assert.Contains(t, out, "doc-3  0 stored, 1 no match, 0 errors")
	assert.Contains(t, out, "Processed 3 documents, 2 values stored")
	assert.Equal(t, 2, ts.values.Len())

	values, err := extractionService.Values(context.Background(), "doc-2")
	require.NoError(t, err)
	assert.Equal(t, domain.FloatValue(20), values["Tutar"])
}

func TestExtractCommands_ServiceNotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	extractionService = nil

	_, err := executeCommand("extract", "run", "doc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction service not configured")

	_, err = executeCommand("extract", "all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extraction service not configured")
}
