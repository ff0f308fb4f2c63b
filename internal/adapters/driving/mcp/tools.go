package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

// ExtractFieldsInput is the input schema for the extract_fields tool.
type ExtractFieldsInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of the ingested document to extract fields from"`
}

// ExtractFieldsOutput is the output schema for the extract_fields tool.
type ExtractFieldsOutput struct {
	DocumentID string              `json:"document_id"`
	Values     map[string]any      `json:"values"`
	Results    []FieldResultOutput `json:"results"`
	Summary    map[string]int      `json:"summary"`
}

// FieldResultOutput describes what happened to one field.
type FieldResultOutput struct {
	Field   string `json:"field"`
	Outcome string `json:"outcome"`
	Raw     string `json:"raw,omitempty"`
	Value   any    `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TestPatternInput is the input schema for the test_pattern tool.
type TestPatternInput struct {
	Content  string `json:"content" jsonschema:"text to run the pattern against"`
	Pattern  string `json:"pattern" jsonschema:"regular expression; matching is case-insensitive, multiline and dot-all"`
	Group    int    `json:"group,omitempty" jsonschema:"capture group to read (default 1)"`
	DataType string `json:"data_type,omitempty" jsonschema:"field data type used for coercion (default string)"`
}

// TestPatternOutput is the output schema for the test_pattern tool.
type TestPatternOutput struct {
	Matched bool   `json:"matched"`
	Raw     string `json:"raw,omitempty"`
	Value   any    `json:"value,omitempty"`
	Kind    string `json:"kind,omitempty"`
}

// ListFieldsInput is the input schema for the list_fields tool.
type ListFieldsInput struct {
	ExtractableOnly bool `json:"extractable_only,omitempty" jsonschema:"only return fields with extraction enabled and a pattern"`
}

// ListFieldsOutput is the output schema for the list_fields tool.
type ListFieldsOutput struct {
	Fields []FieldOutput `json:"fields"`
	Count  int           `json:"count"`
}

// FieldOutput represents a field definition.
type FieldOutput struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	DataType          string `json:"data_type"`
	ExtractionEnabled bool   `json:"extraction_enabled"`
	ExtractionPattern string `json:"extraction_pattern,omitempty"`
	ExtractionGroup   int    `json:"extraction_group"`
}

// GetFieldValuesInput is the input schema for the get_field_values tool.
type GetFieldValuesInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of the document whose stored values to return"`
}

// GetFieldValuesOutput is the output schema for the get_field_values tool.
type GetFieldValuesOutput struct {
	DocumentID string         `json:"document_id"`
	Values     map[string]any `json:"values"`
	Count      int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_fields",
		Description: "Run regex extraction for every enabled field over a document and store the values",
	}, s.handleExtractFields)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "test_pattern",
		Description: "Evaluate an extraction pattern against text without storing anything",
	}, s.handleTestPattern)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_fields",
		Description: "List field definitions and their extraction rules",
	}, s.handleListFields)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_field_values",
		Description: "Return the stored field values of a document",
	}, s.handleGetFieldValues)
}

// handleExtractFields handles the extract_fields tool invocation.
func (s *Server) handleExtractFields(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractFieldsInput,
) (*mcp.CallToolResult, ExtractFieldsOutput, error) {
	if input.DocumentID == "" {
		return nil, ExtractFieldsOutput{}, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	report, err := s.ports.Extraction.RunByID(ctx, input.DocumentID)
	if err != nil {
		return nil, ExtractFieldsOutput{}, err
	}

	output := ExtractFieldsOutput{
		DocumentID: report.DocumentID,
		Values:     plainValues(report.Values),
		Results:    make([]FieldResultOutput, len(report.Results)),
		Summary:    make(map[string]int),
	}
	for i, res := range report.Results {
		out := FieldResultOutput{
			Field:   res.Field,
			Outcome: string(res.Outcome),
			Raw:     res.Raw,
			Error:   res.Err,
		}
		if res.Value != nil {
			out.Value = res.Value.Any()
		}
		output.Results[i] = out
		output.Summary[string(res.Outcome)]++
	}

	return nil, output, nil
}

// handleTestPattern handles the test_pattern tool invocation.
func (s *Server) handleTestPattern(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input TestPatternInput,
) (*mcp.CallToolResult, TestPatternOutput, error) {
	dataType := domain.DataTypeString
	if input.DataType != "" {
		parsed, err := domain.ParseDataType(input.DataType)
		if err != nil {
			return nil, TestPatternOutput{}, err
		}
		dataType = parsed
	}
	if input.Group < 0 {
		return nil, TestPatternOutput{}, domain.ErrInvalidGroup
	}

	result := s.ports.Extraction.TestPattern(input.Content, input.Pattern, input.Group, dataType)

	output := TestPatternOutput{
		Matched: result.Matched,
		Raw:     result.Raw,
	}
	if result.Value != nil {
		output.Value = result.Value.Any()
		output.Kind = string(result.Value.Kind)
	}
	return nil, output, nil
}

// handleListFields handles the list_fields tool invocation.
func (s *Server) handleListFields(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListFieldsInput,
) (*mcp.CallToolResult, ListFieldsOutput, error) {
	if s.ports.Field == nil {
		return nil, ListFieldsOutput{}, ErrFieldsUnavailable
	}

	fields, err := s.ports.Field.List(ctx)
	if err != nil {
		return nil, ListFieldsOutput{}, err
	}

	output := ListFieldsOutput{Fields: make([]FieldOutput, 0, len(fields))}
	for i := range fields {
		if input.ExtractableOnly && !fields[i].HasExtraction() {
			continue
		}
		output.Fields = append(output.Fields, toFieldOutput(&fields[i]))
	}
	output.Count = len(output.Fields)

	return nil, output, nil
}

// handleGetFieldValues handles the get_field_values tool invocation.
func (s *Server) handleGetFieldValues(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetFieldValuesInput,
) (*mcp.CallToolResult, GetFieldValuesOutput, error) {
	if input.DocumentID == "" {
		return nil, GetFieldValuesOutput{}, fmt.Errorf("%w: document_id is required", domain.ErrInvalidInput)
	}

	values, err := s.ports.Extraction.Values(ctx, input.DocumentID)
	if err != nil {
		return nil, GetFieldValuesOutput{}, err
	}

	return nil, GetFieldValuesOutput{
		DocumentID: input.DocumentID,
		Values:     plainValues(values),
		Count:      len(values),
	}, nil
}

func toFieldOutput(f *domain.FieldDefinition) FieldOutput {
	return FieldOutput{
		ID:                f.ID,
		Name:              f.Name,
		DataType:          f.DataType.String(),
		ExtractionEnabled: f.ExtractionEnabled,
		ExtractionPattern: f.ExtractionPattern,
		ExtractionGroup:   f.EffectiveGroup(),
	}
}

// plainValues unwraps typed values into JSON-friendly Go values.
func plainValues(values map[string]domain.Value) map[string]any {
	out := make(map[string]any, len(values))
	for name, v := range values {
		out[name] = v.Any()
	}
	return out
}
