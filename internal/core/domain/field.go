package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// DefaultExtractionGroup is the capture group read when none is configured.
const DefaultExtractionGroup = 1

// DataType is the declared semantic type of a field.
type DataType string

// Supported field data types.
const (
	DataTypeInteger      DataType = "integer"
	DataTypeFloat        DataType = "float"
	DataTypeMonetary     DataType = "monetary"
	DataTypeDate         DataType = "date"
	DataTypeBoolean      DataType = "boolean"
	DataTypeString       DataType = "string"
	DataTypeURL          DataType = "url"
	DataTypeDocumentLink DataType = "documentlink"
	DataTypeOther        DataType = "other"
)

// AllDataTypes returns every recognised data type in display order.
func AllDataTypes() []DataType {
	return []DataType{
		DataTypeInteger,
		DataTypeFloat,
		DataTypeMonetary,
		DataTypeDate,
		DataTypeBoolean,
		DataTypeString,
		DataTypeURL,
		DataTypeDocumentLink,
		DataTypeOther,
	}
}

// IsValid returns true if the data type is recognised.
func (t DataType) IsValid() bool {
	switch t {
	case DataTypeInteger, DataTypeFloat, DataTypeMonetary, DataTypeDate, DataTypeBoolean,
		DataTypeString, DataTypeURL, DataTypeDocumentLink, DataTypeOther:
		return true
	default:
		return false
	}
}

// IsNumeric returns true for types coerced by numeric parsing.
func (t DataType) IsNumeric() bool {
	return t == DataTypeInteger || t == DataTypeFloat || t == DataTypeMonetary
}

// String returns the string representation.
func (t DataType) String() string {
	return string(t)
}

// Description returns a human-readable description of the type.
func (t DataType) Description() string {
	switch t {
	case DataTypeInteger:
		return "Integer"
	case DataTypeFloat:
		return "Float (comma or period decimal)"
	case DataTypeMonetary:
		return "Monetary (1.234,56 style)"
	case DataTypeDate:
		return "Date (stored as text)"
	case DataTypeBoolean:
		return "Boolean"
	case DataTypeString:
		return "Text"
	case DataTypeURL:
		return "URL"
	case DataTypeDocumentLink:
		return "Document link"
	case DataTypeOther:
		return "Other"
	default:
		return unknownDescription
	}
}

// ParseDataType converts user input into a DataType.
func ParseDataType(s string) (DataType, error) {
	t := DataType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, s)
	}
	return t, nil
}

// FieldDefinition is a configurable, named attribute attachable to documents.
type FieldDefinition struct {
	// ID is the unique identifier for the field.
	ID string

	// Name is unique across all field definitions.
	Name string

	// DataType drives value coercion.
	DataType DataType

	// ExtractionEnabled turns automatic extraction on for this field.
	ExtractionEnabled bool

	// ExtractionPattern is a regular expression with at least one capture group.
	// Empty means no pattern is configured.
	ExtractionPattern string

	// ExtractionGroup selects which capture group to read. Defaults to 1.
	ExtractionGroup int

	// CreatedAt is when the field was defined.
	CreatedAt time.Time

	// UpdatedAt is when the field was last modified.
	UpdatedAt time.Time
}

// HasExtraction returns true if the field is enabled and carries a non-empty pattern.
func (f *FieldDefinition) HasExtraction() bool {
	return f.ExtractionEnabled && strings.TrimSpace(f.ExtractionPattern) != ""
}

// EffectiveGroup returns the configured group, or the default when unset.
func (f *FieldDefinition) EffectiveGroup() int {
	if f.ExtractionGroup == 0 {
		return DefaultExtractionGroup
	}
	return f.ExtractionGroup
}

// Validate checks that the definition is well formed.
func (f *FieldDefinition) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: field name is required", ErrInvalidInput)
	}
	if !f.DataType.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, f.DataType)
	}
	if f.ExtractionGroup < 0 {
		return ErrInvalidGroup
	}
	return nil
}
