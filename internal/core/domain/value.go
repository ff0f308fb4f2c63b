package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ValueKind tags which payload of a Value is populated.
type ValueKind string

// Value kinds.
const (
	ValueKindInt   ValueKind = "int"
	ValueKindFloat ValueKind = "float"
	ValueKindBool  ValueKind = "bool"
	ValueKindText  ValueKind = "text"
)

// IsValid returns true if the kind is recognised.
func (k ValueKind) IsValid() bool {
	switch k {
	case ValueKindInt, ValueKindFloat, ValueKindBool, ValueKindText:
		return true
	default:
		return false
	}
}

// Value is a coerced field value. Exactly one payload matches Kind.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
	Text  string
}

// IntValue returns an integer Value.
func IntValue(v int64) Value { return Value{Kind: ValueKindInt, Int: v} }

// FloatValue returns a floating point Value.
func FloatValue(v float64) Value { return Value{Kind: ValueKindFloat, Float: v} }

// BoolValue returns a boolean Value.
func BoolValue(v bool) Value { return Value{Kind: ValueKindBool, Bool: v} }

// TextValue returns a text Value.
func TextValue(v string) Value { return Value{Kind: ValueKindText, Text: v} }

// Any returns the populated payload as a plain Go value.
func (v Value) Any() any {
	switch v.Kind {
	case ValueKindInt:
		return v.Int
	case ValueKindFloat:
		return v.Float
	case ValueKindBool:
		return v.Bool
	default:
		return v.Text
	}
}

// String formats the value for display.
func (v Value) String() string {
	switch v.Kind {
	case ValueKindInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueKindFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ValueKindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Text
	}
}

// MarshalJSON encodes the payload only, so reports read naturally.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Any())
}

// DecodeValue rebuilds a Value from its kind and JSON-encoded payload.
func DecodeValue(kind ValueKind, payload string) (Value, error) {
	switch kind {
	case ValueKindInt:
		var n int64
		if err := json.Unmarshal([]byte(payload), &n); err != nil {
			return Value{}, fmt.Errorf("decoding int value: %w", err)
		}
		return IntValue(n), nil
	case ValueKindFloat:
		var f float64
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return Value{}, fmt.Errorf("decoding float value: %w", err)
		}
		return FloatValue(f), nil
	case ValueKindBool:
		var b bool
		if err := json.Unmarshal([]byte(payload), &b); err != nil {
			return Value{}, fmt.Errorf("decoding bool value: %w", err)
		}
		return BoolValue(b), nil
	case ValueKindText:
		var s string
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return Value{}, fmt.Errorf("decoding text value: %w", err)
		}
		return TextValue(s), nil
	default:
		return Value{}, fmt.Errorf("%w: value kind %q", ErrUnsupportedType, kind)
	}
}

// FieldValue associates one Document with one FieldDefinition.
// At most one FieldValue exists per (DocumentID, FieldID) pair.
type FieldValue struct {
	// ID is the unique identifier for the instance.
	ID string

	// DocumentID links to the Document.
	DocumentID string

	// FieldID links to the FieldDefinition.
	FieldID string

	// Value is the stored coerced value.
	Value Value

	// CreatedAt is when the value was first extracted.
	CreatedAt time.Time

	// UpdatedAt is when the value was last overwritten.
	UpdatedAt time.Time
}
