package importer

import (
	"strings"

	"github.com/bashhh89/thecustom/internal/domain"
)

// Convert turns a validated file into rate card entries. Call
// ValidateRateCard first; Convert assumes the file is valid. Ids and
// timestamps are left for the service to assign.
func Convert(file *RateCardFile) []domain.RateCardEntry {
	out := make([]domain.RateCardEntry, 0, len(file.Rates))
	for _, r := range file.Rates {
		out = append(out, domain.RateCardEntry{
			Name: strings.TrimSpace(r.Name),
			Rate: r.Rate,
		})
	}
	return out
}
