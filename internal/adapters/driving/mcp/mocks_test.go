package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/core/ports/driving"
)

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	report     domain.ExtractionReport
	test       domain.PatternTest
	values     map[string]domain.Value
	err        error
	lastRunID  string
	lastGroup  int
	lastType   domain.DataType
	runCalls   int
	valueCalls int
}

func (m *mockExtractionService) Run(_ context.Context, doc *domain.Document) domain.ExtractionReport {
	m.runCalls++
	return m.report
}

func (m *mockExtractionService) RunByID(_ context.Context, documentID string) (domain.ExtractionReport, error) {
	m.runCalls++
	m.lastRunID = documentID
	return m.report, m.err
}

func (m *mockExtractionService) TestPattern(_, _ string, group int, dataType domain.DataType) domain.PatternTest {
	m.lastGroup = group
	m.lastType = dataType
	return m.test
}

func (m *mockExtractionService) Values(_ context.Context, _ string) (map[string]domain.Value, error) {
	m.valueCalls++
	return m.values, m.err
}

// mockFieldService is a mock implementation of driving.FieldService.
type mockFieldService struct {
	fields []domain.FieldDefinition
	err    error
}

func (m *mockFieldService) Create(_ context.Context, f domain.FieldDefinition) (*domain.FieldDefinition, error) {
	return &f, m.err
}

func (m *mockFieldService) Get(_ context.Context, _ string) (*domain.FieldDefinition, error) {
	return nil, domain.ErrNotFound
}

func (m *mockFieldService) GetByName(_ context.Context, _ string) (*domain.FieldDefinition, error) {
	return nil, domain.ErrNotFound
}

func (m *mockFieldService) List(_ context.Context) ([]domain.FieldDefinition, error) {
	return m.fields, m.err
}

func (m *mockFieldService) ConfigureExtraction(
	_ context.Context,
	_ string,
	_ driving.ExtractionRule,
) (*domain.FieldDefinition, error) {
	return nil, m.err
}

func (m *mockFieldService) Remove(_ context.Context, _ string) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	document *domain.Document
	err      error
}

func (m *mockDocumentService) Ingest(_ context.Context, _ *domain.Document) error {
	return m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	if m.document == nil {
		return nil, m.err
	}
	return []domain.Document{*m.document}, m.err
}
