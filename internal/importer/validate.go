package importer

import (
	"fmt"
	"strings"
)

// ValidateRateCard checks the import file before anything is written.
// Returns a slice of all validation errors found.
func ValidateRateCard(file *RateCardFile) []error {
	var errs []error
	if len(file.Rates) == 0 {
		errs = append(errs, fmt.Errorf("rates: at least one entry is required"))
	}

	seen := make(map[string]int, len(file.Rates))
	for i, r := range file.Rates {
		prefix := fmt.Sprintf("rates[%d]", i)
		name := strings.TrimSpace(r.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if first, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("%s.name: duplicate %q (first at rates[%d])", prefix, name, first))
		} else {
			seen[name] = i
		}
		if r.Rate <= 0 {
			errs = append(errs, fmt.Errorf("%s.rate must be a positive integer, got %d", prefix, r.Rate))
		}
	}
	return errs
}
