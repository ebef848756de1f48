package domain

import (
	"fmt"
	"strings"
	"time"
)

// RateCardEntry is one line of the master rate card: an hourly rate keyed by
// role name. Names are unique and compared case-sensitively.
type RateCardEntry struct {
	ID        string
	Name      string
	Rate      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks that the entry has a non-blank name and a positive rate.
func (e *RateCardEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("rate card name is required")
	}
	if e.Rate <= 0 {
		return fmt.Errorf("rate for %q must be a positive integer, got %d", e.Name, e.Rate)
	}
	return nil
}
