package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseNumeric coerces a loosely typed value into a finite float64.
//
// Accepted inputs are Go numeric types, json.Number, non-nil *float64 and
// numeric strings. Strings may carry surrounding whitespace, a leading "$"
// and thousands separators ("$1,200.50"). NaN, ±Inf, booleans, nil and
// anything else report ok == false.
func ParseNumeric(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case *float64:
		if x == nil {
			return 0, false
		}
		f = *x
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		return parseNumericString(x)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseNumericOrDefault returns ParseNumeric(v), or def when v is not a
// finite number.
func ParseNumericOrDefault(v any, def float64) float64 {
	if f, ok := ParseNumeric(v); ok {
		return f
	}
	return def
}

func parseNumericString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
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
