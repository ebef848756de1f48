package domain

// CoalesceStr returns the first non-empty string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// Float64FromPtrWithDefault returns the first non-nil, finite *float64 value,
// or the fallback.
func Float64FromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	for _, p := range ptrs {
		if f, ok := ParseNumeric(p); ok {
			return f
		}
	}
	return fallback
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
