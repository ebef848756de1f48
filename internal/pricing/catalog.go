package pricing

import (
	"context"
	"fmt"
	"sort"

	"github.com/bashhh89/thecustom/internal/domain"
)

// DefaultRate is applied to a role whose rate is missing and whose name is
// not on the rate card.
const DefaultRate = 100.0

// RateProvider supplies the current rate card.
type RateProvider interface {
	ListRates(ctx context.Context) ([]domain.RateCardEntry, error)
}

// Catalog is an immutable snapshot of the rate card keyed by role name.
type Catalog struct {
	rates map[string]float64
	names []string
}

// NewCatalog builds a snapshot from rate card entries. Entries with a
// non-positive rate are skipped; a later duplicate name replaces an earlier one.
func NewCatalog(entries []domain.RateCardEntry) *Catalog {
	c := &Catalog{rates: make(map[string]float64, len(entries))}
	for _, e := range entries {
		if e.Rate <= 0 {
			continue
		}
		if _, seen := c.rates[e.Name]; !seen {
			c.names = append(c.names, e.Name)
		}
		c.rates[e.Name] = float64(e.Rate)
	}
	sort.Strings(c.names)
	return c
}

// LoadCatalog snapshots the rate card served by provider.
func LoadCatalog(ctx context.Context, provider RateProvider) (*Catalog, error) {
	entries, err := provider.ListRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rate card: %w", err)
	}
	return NewCatalog(entries), nil
}

// Lookup returns the rate for an exact, case-sensitive role name. A nil
// catalog behaves as an empty one.
func (c *Catalog) Lookup(name string) (float64, bool) {
	if c == nil {
		return 0, false
	}
	rate, ok := c.rates[name]
	return rate, ok
}

// Len returns the number of distinct role names in the snapshot.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns the role names in sorted order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}
