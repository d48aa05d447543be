package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat64 converts various numeric types to float64.
// Returns the converted value and true if successful, or 0 and false if conversion fails.
// Supports: float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64
// and json.Number. NaN and infinities are rejected.
func ToFloat64(v interface{}) (float64, bool) {
	if v == nil {
		return 0, false
	}

	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int8:
		f = float64(val)
	case int16:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint8:
		f = float64(val)
	case uint16:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// CoerceFloat64 is ToFloat64 that also accepts numeric strings ("72", " 72.5 ").
// Anything else, including empty strings, fails.
func CoerceFloat64(v interface{}) (float64, bool) {
	s, ok := v.(string)
	if !ok {
		return ToFloat64(v)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToFloat64Ptr returns a pointer to the coerced value, or nil when v is not numeric.
func ToFloat64Ptr(v interface{}) *float64 {
	f, ok := CoerceFloat64(v)
	if !ok {
		return nil
	}
	return &f
}

// IsNumeric checks if a value can be coerced to float64.
func IsNumeric(v interface{}) bool {
	_, ok := CoerceFloat64(v)
	return ok
}
