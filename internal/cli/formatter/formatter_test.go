package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bashhh89/thecustom/internal/command"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/repository"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0.00", Money(0))
	assert.Equal(t, "$3,200.00", Money(3200))
	assert.Equal(t, "$1,234,567.89", Money(1234567.891))
	assert.Equal(t, "-$50.00", Money(-50))
	assert.Equal(t, "--", OptMoney(nil))
}

func TestHours(t *testing.T) {
	assert.Equal(t, "40h", Hours(domain.Float(40)))
	assert.Equal(t, "0.5h", Hours(domain.Float(0.5)))
	assert.Equal(t, "--", Hours(nil))
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	out := RenderAlignedTable(
		[]string{"Name", "Total"},
		[]Alignment{AlignLeft, AlignRight},
		[][]string{{"Designer", "$1.00"}, {"QA", "$100.00"}},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "Designer"+strings.Repeat(" ", 4)+"$1.00", lines[2])
	assert.Equal(t, "QA"+strings.Repeat(" ", 8)+"$100.00", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatSOW(t *testing.T) {
	note := "Target budget: $25,000."
	sow := &domain.SOW{
		ID:   "sow-1",
		Name: "Portal - Acme",
		Data: &domain.SOWDocument{
			ProjectTitle: "Portal",
			ClientName:   "Acme",
			BudgetNote:   &note,
			Scopes: []domain.Scope{{
				ID:        "scope-1",
				ScopeName: "Build",
				Subtotal:  3200,
				Roles: []domain.Role{
					{Name: "Designer", Hours: domain.Float(40), Rate: domain.Float(80), Total: domain.Float(3200)},
				},
			}},
		},
	}

	out := FormatSOW(sow)
	assert.Contains(t, out, "PORTAL - ACME")
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "Designer")
	assert.Contains(t, out, "40h")
	assert.Contains(t, out, "$80.00")
	assert.Contains(t, out, "Subtotal $3,200.00")
	assert.Contains(t, out, "GRAND TOTAL  $3,200.00  (40 hours)")
	assert.Contains(t, out, note)
}

func TestFormatSOW_Empty(t *testing.T) {
	out := FormatSOW(&domain.SOW{ID: "x", Name: "Untitled SOW"})
	assert.Contains(t, out, "No scopes yet")
	assert.Contains(t, out, "$0.00")
}

func TestFormatSOWList(t *testing.T) {
	assert.Contains(t, FormatSOWList(nil), "No SOWs yet")

	out := FormatSOWList([]repository.SOWSummary{{
		ID: "0123456789abcdef", Name: "Portal", GrandTotal: 12500, UpdatedAt: time.Now().Add(-2 * time.Hour),
	}})
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "89abcdef")
	assert.Contains(t, out, "$12,500.00")
	assert.Contains(t, out, "2 hours ago")
}

func TestFormatReport(t *testing.T) {
	assert.Empty(t, FormatReport(pricing.Report{}, nil))

	report := pricing.Report{
		CatalogRates:  1,
		FallbackRates: 2,
		Repairs:       []pricing.Repair{{Kind: pricing.RepairCatalogRate}},
	}
	out := FormatReport(report, []string{"scopes[0].id: assigned scope-1"})
	assert.Contains(t, out, "1 rate(s) from the rate card")
	assert.Contains(t, out, "2 default rate(s) of $100.00")
	assert.NotContains(t, out, "recalculated")
	assert.Contains(t, out, "scopes[0].id: assigned scope-1")
}

func TestFormatRateCard(t *testing.T) {
	assert.Contains(t, FormatRateCard(nil), "Rate card is empty")

	out := FormatRateCard([]*domain.RateCardEntry{{ID: "r1", Name: "Tech - Specialist", Rate: 1500}})
	assert.Contains(t, out, "Tech - Specialist")
	assert.Contains(t, out, "$1,500/h")
}

func TestFormatMessages(t *testing.T) {
	out := FormatMessages([]*domain.Message{
		{Role: domain.MessageUser, Content: "hi"},
		{Role: domain.MessageAssistant, Content: "hello"},
	})
	assert.Contains(t, out, "you › hi")
	assert.Contains(t, out, "assistant › hello")
}

func TestFormatShellHelp_ListsSlashCommands(t *testing.T) {
	out := FormatShellHelp(command.Commands())
	for _, s := range command.Commands() {
		assert.Contains(t, out, s.Usage)
	}
	assert.Contains(t, out, "generate [instruction]")
}

func TestError(t *testing.T) {
	assert.Equal(t, "Error: boom", Error(errors.New("boom")))
}
