package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumeric(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float", 150.0, 150, true},
		{"int", 42, 42, true},
		{"json number", json.Number("12.5"), 12.5, true},
		{"numeric string", "100", 100, true},
		{"currency string", " $1,200.50 ", 1200.5, true},
		{"negative passes through", -20.0, -20, true},
		{"rate card name", "Tech - Specialist", 0, false},
		{"empty string", "", 0, false},
		{"nil", nil, 0, false},
		{"nil pointer", (*float64)(nil), 0, false},
		{"bool", true, 0, false},
		{"NaN", math.NaN(), 0, false},
		{"Inf", math.Inf(1), 0, false},
		{"NaN string", "NaN", 0, false},
		{"Inf string", "Infinity", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNumeric(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseNumericOrDefault(t *testing.T) {
	assert.Equal(t, 100.0, ParseNumericOrDefault("abc", 100))
	assert.Equal(t, 80.0, ParseNumericOrDefault("80", 100))
	assert.Equal(t, 0.0, ParseNumericOrDefault(nil, 0))
}

func TestFloat64FromPtrWithDefault(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, 7.0, Float64FromPtrWithDefault(7, nil, &nan))
	assert.Equal(t, 3.0, Float64FromPtrWithDefault(7, nil, Float(3)))
}
