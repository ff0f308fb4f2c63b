package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleExtractFields(t *testing.T) {
	ctx := context.Background()

	t.Run("returns report", func(t *testing.T) {
		amount := domain.FloatValue(1234.56)
		mock := &mockExtractionService{
			report: domain.ExtractionReport{
				DocumentID: "doc-1",
				Values:     map[string]domain.Value{"Tutar": amount},
				Results: []domain.FieldResult{
					{Field: "Tutar", Outcome: domain.OutcomeCreated, Raw: "1.234,56", Value: &amount},
					{Field: "Tesisat", Outcome: domain.OutcomeNoMatch},
					{Field: "Broken", Outcome: domain.OutcomeError, Err: "store down"},
				},
			},
		}
		server := newTestServer(t, &Ports{Extraction: mock})

		_, output, err := server.handleExtractFields(ctx, nil, ExtractFieldsInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, "doc-1", mock.lastRunID)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, map[string]any{"Tutar": 1234.56}, output.Values)
		require.Len(t, output.Results, 3)
		assert.Equal(t, "created", output.Results[0].Outcome)
		assert.Equal(t, 1234.56, output.Results[0].Value)
		assert.Nil(t, output.Results[1].Value)
		assert.Equal(t, "store down", output.Results[2].Error)
		assert.Equal(t, map[string]int{"created": 1, "no_match": 1, "error": 1}, output.Summary)
	})

	t.Run("requires document id", func(t *testing.T) {
		mock := &mockExtractionService{}
		server := newTestServer(t, &Ports{Extraction: mock})

		_, _, err := server.handleExtractFields(ctx, nil, ExtractFieldsInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, mock.runCalls)
	})

	t.Run("propagates load failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extraction: &mockExtractionService{err: domain.ErrNotFound}})

		_, _, err := server.handleExtractFields(ctx, nil, ExtractFieldsInput{DocumentID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleTestPattern(t *testing.T) {
	ctx := context.Background()

	t.Run("returns coerced value", func(t *testing.T) {
		value := domain.IntValue(12345)
		mock := &mockExtractionService{test: domain.PatternTest{Matched: true, Raw: "12.345", Value: &value}}
		server := newTestServer(t, &Ports{Extraction: mock})

		_, output, err := server.handleTestPattern(ctx, nil, TestPatternInput{
			Content:  "No: 12.345",
			Pattern:  `No:\s*([\d.]+)`,
			DataType: "Integer",
		})

		require.NoError(t, err)
		assert.True(t, output.Matched)
		assert.Equal(t, "12.345", output.Raw)
		assert.Equal(t, int64(12345), output.Value)
		assert.Equal(t, "int", output.Kind)
		assert.Equal(t, domain.DataTypeInteger, mock.lastType)
		assert.Equal(t, 0, mock.lastGroup)
	})

	t.Run("defaults to string type", func(t *testing.T) {
		mock := &mockExtractionService{}
		server := newTestServer(t, &Ports{Extraction: mock})

		_, output, err := server.handleTestPattern(ctx, nil, TestPatternInput{Content: "x", Pattern: "(y)"})

		require.NoError(t, err)
		assert.False(t, output.Matched)
		assert.Nil(t, output.Value)
		assert.Equal(t, domain.DataTypeString, mock.lastType)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extraction: &mockExtractionService{}})

		_, _, err := server.handleTestPattern(ctx, nil, TestPatternInput{DataType: "decimal"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})

	t.Run("rejects negative group", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extraction: &mockExtractionService{}})

		_, _, err := server.handleTestPattern(ctx, nil, TestPatternInput{Group: -1})

		assert.ErrorIs(t, err, domain.ErrInvalidGroup)
	})
}

func TestServer_handleListFields(t *testing.T) {
	ctx := context.Background()
	fields := []domain.FieldDefinition{
		{ID: "f-1", Name: "Tesisat", DataType: domain.DataTypeString, ExtractionEnabled: true, ExtractionPattern: `No:\s*(\d+)`},
		{ID: "f-2", Name: "Notes", DataType: domain.DataTypeString, ExtractionGroup: 3},
	}

	t.Run("lists all fields", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extraction: &mockExtractionService{}, Field: &mockFieldService{fields: fields}})

		_, output, err := server.handleListFields(ctx, nil, ListFieldsInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "Tesisat", output.Fields[0].Name)
		assert.Equal(t, 1, output.Fields[0].ExtractionGroup)
		assert.Equal(t, 3, output.Fields[1].ExtractionGroup)
	})

	t.Run("filters extractable fields", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extraction: &mockExtractionService{}, Field: &mockFieldService{fields: fields}})

		_, output, err := server.handleListFields(ctx, nil, ListFieldsInput{ExtractableOnly: true})

		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "f-1", output.Fields[0].ID)
	})

	t.Run("nil field service", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extraction: &mockExtractionService{}})

		_, _, err := server.handleListFields(ctx, nil, ListFieldsInput{})

		assert.ErrorIs(t, err, ErrFieldsUnavailable)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Extraction: &mockExtractionService{},
			Field:      &mockFieldService{err: errors.New("database error")},
		})

		_, _, err := server.handleListFields(ctx, nil, ListFieldsInput{})

		assert.EqualError(t, err, "database error")
	})
}

func TestServer_handleGetFieldValues(t *testing.T) {
	ctx := context.Background()

	t.Run("returns values", func(t *testing.T) {
		mock := &mockExtractionService{values: map[string]domain.Value{
			"Tesisat": domain.TextValue("12345"),
			"Aktif":   domain.BoolValue(true),
		}}
		server := newTestServer(t, &Ports{Extraction: mock})

		_, output, err := server.handleGetFieldValues(ctx, nil, GetFieldValuesInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, map[string]any{"Tesisat": "12345", "Aktif": true}, output.Values)
	})

	t.Run("requires document id", func(t *testing.T) {
		mock := &mockExtractionService{}
		server := newTestServer(t, &Ports{Extraction: mock})

		_, _, err := server.handleGetFieldValues(ctx, nil, GetFieldValuesInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, mock.valueCalls)
	})

	t.Run("propagates not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Extraction: &mockExtractionService{err: domain.ErrNotFound}})

		_, _, err := server.handleGetFieldValues(ctx, nil, GetFieldValuesInput{DocumentID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
