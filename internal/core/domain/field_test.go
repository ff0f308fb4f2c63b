package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataType_IsValid(t *testing.T) {
	for _, dt := range AllDataTypes() {
		t.Run(dt.String(), func(t *testing.T) {
			assert.True(t, dt.IsValid())
			assert.NotEqual(t, unknownDescription, dt.Description())
		})
	}

	assert.False(t, DataType("").IsValid())
	assert.False(t, DataType("decimal").IsValid())
	assert.Equal(t, unknownDescription, DataType("decimal").Description())
}

func TestDataType_IsNumeric(t *testing.T) {
	assert.True(t, DataTypeInteger.IsNumeric())
	assert.True(t, DataTypeFloat.IsNumeric())
	assert.True(t, DataTypeMonetary.IsNumeric())
	assert.False(t, DataTypeDate.IsNumeric())
	assert.False(t, DataTypeBoolean.IsNumeric())
	assert.False(t, DataTypeString.IsNumeric())
}

func TestParseDataType(t *testing.T) {
	tests := []struct {
		input    string
		expected DataType
		wantErr  bool
	}{
		{input: "integer", expected: DataTypeInteger},
		{input: " Monetary ", expected: DataTypeMonetary},
		{input: "BOOLEAN", expected: DataTypeBoolean},
		{input: "documentlink", expected: DataTypeDocumentLink},
		{input: "money", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDataType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnsupportedType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestFieldDefinition_HasExtraction(t *testing.T) {
	tests := []struct {
		name     string
		field    FieldDefinition
		expected bool
	}{
		{"enabled with pattern", FieldDefinition{ExtractionEnabled: true, ExtractionPattern: `(\d+)`}, true},
		{"disabled with pattern", FieldDefinition{ExtractionPattern: `(\d+)`}, false},
		{"enabled without pattern", FieldDefinition{ExtractionEnabled: true}, false},
		{"enabled with blank pattern", FieldDefinition{ExtractionEnabled: true, ExtractionPattern: "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.field.HasExtraction())
		})
	}
}

func TestFieldDefinition_EffectiveGroup(t *testing.T) {
	assert.Equal(t, 1, (&FieldDefinition{}).EffectiveGroup())
	assert.Equal(t, 1, (&FieldDefinition{ExtractionGroup: 1}).EffectiveGroup())
	assert.Equal(t, 3, (&FieldDefinition{ExtractionGroup: 3}).EffectiveGroup())
}

func TestFieldDefinition_Validate(t *testing.T) {
	valid := FieldDefinition{Name: "Tutar", DataType: DataTypeMonetary, ExtractionGroup: 1}
	require.NoError(t, valid.Validate())

	noName := valid
	noName.Name = "  "
	assert.ErrorIs(t, noName.Validate(), ErrInvalidInput)

	badType := valid
	badType.DataType = "money"
	assert.ErrorIs(t, badType.Validate(), ErrUnsupportedType)

	badGroup := valid
	badGroup.ExtractionGroup = -1
	assert.ErrorIs(t, badGroup.Validate(), ErrInvalidGroup)
}
