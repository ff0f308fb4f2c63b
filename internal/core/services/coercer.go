package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-extract/internal/core/domain"
	"github.com/custodia-labs/sercha-extract/internal/logger"
)

var (
	nonIntegerChars = regexp.MustCompile(`[^\d-]`)
	nonDecimalChars = regexp.MustCompile(`[^\d.-]`)
)

// truthyValues are the lower-cased inputs a boolean field treats as true.
var truthyValues = map[string]struct{}{
	"true":   {},
	"yes":    {},
	"1":      {},
	"active": {},
	"evet":   {},
	"aktif":  {},
}

// coerceFunc converts raw text for one data type.
// A false second return means the value is null.
type coerceFunc func(raw string) (domain.Value, bool, error)

// coercers maps each data type with special handling to its converter.
// Types not listed pass through as text.
var coercers = map[domain.DataType]coerceFunc{
	domain.DataTypeInteger:  coerceInteger,
	domain.DataTypeFloat:    coerceFloat,
	domain.DataTypeMonetary: coerceMonetary,
	domain.DataTypeBoolean:  coerceBoolean,
}

// Coerce converts matched text into a typed value according to dataType.
//
// It returns false (null) when raw is empty, or when a numeric type is left
// with nothing after cleanup. A numeric parse failure is logged and the raw
// text is returned unchanged instead.
func Coerce(raw string, dataType domain.DataType) (domain.Value, bool) {
	if raw == "" {
		return domain.Value{}, false
	}

	fn, ok := coercers[dataType]
	if !ok {
		return domain.TextValue(raw), true
	}

	v, ok, err := fn(raw)
	if err != nil {
		logger.Warnw("value conversion failed, keeping raw text",
			"value", raw, "type", dataType.String(), "error", err)
		return domain.TextValue(raw), true
	}
	return v, ok
}

func coerceInteger(raw string) (domain.Value, bool, error) {
	clean := nonIntegerChars.ReplaceAllString(raw, "")
	if clean == "" {
		return domain.Value{}, false, nil
	}
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return domain.Value{}, false, err
	}
	return domain.IntValue(n), true, nil
}

func coerceFloat(raw string) (domain.Value, bool, error) {
	clean := strings.ReplaceAll(raw, ",", ".")
	clean = strings.ReplaceAll(clean, " ", "")
	return parseDecimal(clean)
}

// coerceMonetary reads European amounts where '.' groups thousands and ',' is the decimal mark.
func coerceMonetary(raw string) (domain.Value, bool, error) {
	clean := strings.ReplaceAll(raw, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	return parseDecimal(clean)
}

func parseDecimal(s string) (domain.Value, bool, error) {
	clean := nonDecimalChars.ReplaceAllString(s, "")
	if clean == "" {
		return domain.Value{}, false, nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return domain.Value{}, false, err
	}
	return domain.FloatValue(f), true, nil
}

// coerceBoolean never yields null.
func coerceBoolean(raw string) (domain.Value, bool, error) {
	_, ok := truthyValues[strings.ToLower(raw)]
	return domain.BoolValue(ok), true, nil
}
