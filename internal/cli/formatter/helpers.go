package formatter

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// Money formats an amount in dollars with thousands separators and cents.
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// OptMoney is Money for an optional amount; missing values render as "--".
func OptMoney(v *float64) string {
	if v == nil {
		return "--"
	}
	return Money(*v)
}

// Hours formats an optional hour count without trailing zeros.
func Hours(v *float64) string {
	if v == nil {
		return "--"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "h"
}

// Ago renders a timestamp relative to now, e.g. "3 minutes ago".
func Ago(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return humanize.Time(t)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
