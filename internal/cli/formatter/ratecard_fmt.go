package formatter

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/bashhh89/thecustom/internal/domain"
)

// FormatRateCard renders the rate card sorted as given.
func FormatRateCard(entries []*domain.RateCardEntry) string {
	if len(entries) == 0 {
		return Dim("Rate card is empty. Add a role with 'sowbench rates add <name> <rate>'.") + "\n"
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			"$" + humanize.Comma(int64(e.Rate)) + "/h",
			TruncID(e.ID),
		})
	}
	return RenderAlignedTable(
		[]string{"Role", "Rate", "ID"},
		[]Alignment{AlignLeft, AlignRight, AlignLeft},
		rows,
	)
}

// FormatRateEntry renders a single rate card line.
func FormatRateEntry(e *domain.RateCardEntry) string {
	return fmt.Sprintf("%s  %s", Bold(e.Name), "$"+humanize.Comma(int64(e.Rate))+"/h")
}
