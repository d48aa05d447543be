package utils

import (
	"encoding/json"
	"math"
	"testing"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		{"float64", float64(3.14), 3.14, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", int(42), 42, true},
		{"int64", int64(64), 64, true},
		{"uint8", uint8(8), 8, true},
		{"negative int", int(-42), -42, true},
		{"json number", json.Number("71.5"), 71.5, true},
		{"bad json number", json.Number("abc"), 0, false},
		{"NaN", math.NaN(), 0, false},
		{"Inf", math.Inf(1), 0, false},
		{"string", "72", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
		{"map", map[string]int{"a": 1}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToFloat64(tt.input)

			if ok != tt.ok {
				t.Errorf("ToFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}

			if result != tt.expected {
				t.Errorf("ToFloat64(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestCoerceFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected float64
		ok       bool
	}{
		{"numeric string", "72", 72, true},
		{"padded string", " 72.5 ", 72.5, true},
		{"empty string", "", 0, false},
		{"blank string", "   ", 0, false},
		{"word", "alto", 0, false},
		{"NaN string", "NaN", 0, false},
		{"float", 80.0, 80, true},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := CoerceFloat64(tt.input)
			if ok != tt.ok {
				t.Errorf("CoerceFloat64(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if result != tt.expected {
				t.Errorf("CoerceFloat64(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToFloat64Ptr(t *testing.T) {
	if p := ToFloat64Ptr("x"); p != nil {
		t.Errorf("expected nil, got %v", *p)
	}
	p := ToFloat64Ptr("61")
	if p == nil || *p != 61 {
		t.Errorf("expected 61, got %v", p)
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected bool
	}{
		{"int", 42, true},
		{"float64", 3.14, true},
		{"numeric string", "3.14", true},
		{"string", "hello", false},
		{"nil", nil, false},
		{"bool", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsNumeric(tt.input)
			if result != tt.expected {
				t.Errorf("IsNumeric(%v) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func BenchmarkCoerceFloat64(b *testing.B) {
	values := []interface{}{
		float64(3.14),
		int(42),
		"72.5",
		json.Number("61"),
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, v := range values {
			CoerceFloat64(v)
		}
	}
}
