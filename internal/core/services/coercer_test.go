package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		dataType domain.DataType
		want     domain.Value
		ok       bool
	}{
		{"integer trims", " 42 ", domain.DataTypeInteger, domain.IntValue(42), true},
		{"integer strips separators", "1.234.567,", domain.DataTypeInteger, domain.IntValue(1234567), true},
		{"integer negative", "-17 adet", domain.DataTypeInteger, domain.IntValue(-17), true},
		{"integer no digits", "abc", domain.DataTypeInteger, domain.Value{}, false},
		{"integer bad minus falls back", "12-34", domain.DataTypeInteger, domain.TextValue("12-34"), true},
		{"integer overflow falls back", "99999999999999999999", domain.DataTypeInteger, domain.TextValue("99999999999999999999"), true},

		{"float period", "1234.56", domain.DataTypeFloat, domain.FloatValue(1234.56), true},
		{"float comma", "3,5", domain.DataTypeFloat, domain.FloatValue(3.5), true},
		{"float spaces", "1 234.5", domain.DataTypeFloat, domain.FloatValue(1234.5), true},
		{"float unit", "12.5 kg", domain.DataTypeFloat, domain.FloatValue(12.5), true},
		{"float empty after cleanup", "n/a", domain.DataTypeFloat, domain.Value{}, false},
		{"float two separators falls back", "1.234,56", domain.DataTypeFloat, domain.TextValue("1.234,56"), true},

		{"monetary european", "1.234,56", domain.DataTypeMonetary, domain.FloatValue(1234.56), true},
		{"monetary currency", "₺ 12.000,00", domain.DataTypeMonetary, domain.FloatValue(12000), true},
		{"monetary plain", "250", domain.DataTypeMonetary, domain.FloatValue(250), true},
		{"monetary empty after cleanup", "TL", domain.DataTypeMonetary, domain.Value{}, false},

		{"boolean evet", "Evet", domain.DataTypeBoolean, domain.BoolValue(true), true},
		{"boolean yes", "YES", domain.DataTypeBoolean, domain.BoolValue(true), true},
		{"boolean one", "1", domain.DataTypeBoolean, domain.BoolValue(true), true},
		{"boolean aktif", "aktif", domain.DataTypeBoolean, domain.BoolValue(true), true},
		{"boolean no", "no", domain.DataTypeBoolean, domain.BoolValue(false), true},
		{"boolean unknown", "maybe", domain.DataTypeBoolean, domain.BoolValue(false), true},

		{"date passthrough", "14.10.2026", domain.DataTypeDate, domain.TextValue("14.10.2026"), true},
		{"string passthrough", "1234567890", domain.DataTypeString, domain.TextValue("1234567890"), true},
		{"url passthrough", "https://example.com/a", domain.DataTypeURL, domain.TextValue("https://example.com/a"), true},
		{"link passthrough", "#12", domain.DataTypeDocumentLink, domain.TextValue("#12"), true},
		{"unknown type passthrough", "x", domain.DataType("selection"), domain.TextValue("x"), true},

		{"empty raw", "", domain.DataTypeString, domain.Value{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Coerce(tt.raw, tt.dataType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
