package formatter

import (
	"fmt"
	"strings"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/repository"
)

// FormatSOW renders a SOW as a priced breakdown: one role table per scope,
// scope subtotals and the grand total.
func FormatSOW(sow *domain.SOW) string {
	var b strings.Builder
	doc := sow.Data
	if doc == nil {
		doc = &domain.SOWDocument{}
	}

	b.WriteString(Header(sow.Name) + "\n")
	b.WriteString(Dim(sow.ID) + "\n\n")

	if doc.ProjectTitle != "" {
		b.WriteString(fmt.Sprintf("%s  %s\n", Dim("Project"), Bold(doc.ProjectTitle)))
	}
	if doc.ClientName != "" {
		b.WriteString(fmt.Sprintf("%s   %s\n", Dim("Client"), doc.ClientName))
	}
	if doc.ProjectOverview != "" {
		b.WriteString("\n" + doc.ProjectOverview + "\n")
	}
	for _, o := range doc.ProjectOutcomes {
		b.WriteString("  • " + o + "\n")
	}

	if len(doc.Scopes) == 0 {
		b.WriteString("\n" + Dim("No scopes yet. Try /newScope <name>.") + "\n")
	}
	for _, scope := range doc.Scopes {
		b.WriteString("\n" + FormatScope(scope))
	}

	b.WriteString("\n" + fmt.Sprintf("%s  %s  %s\n",
		StyleHeader.Render("GRAND TOTAL"),
		Bold(Money(doc.GrandTotal())),
		Dim(fmt.Sprintf("(%s hours)", trimFloat(doc.TotalHours()))),
	))
	if doc.BudgetNote != nil && *doc.BudgetNote != "" {
		b.WriteString(StyleWarn.Render(*doc.BudgetNote) + "\n")
	}
	return b.String()
}

// FormatScope renders one scope with its role table and subtotal.
func FormatScope(scope domain.Scope) string {
	var b strings.Builder
	b.WriteString(StyleAccent.Render(scope.ScopeName) + "  " + Dim(scope.ID) + "\n")
	if scope.ScopeOverview != "" {
		b.WriteString(Dim(scope.ScopeOverview) + "\n")
	}
	if len(scope.Roles) == 0 {
		b.WriteString(Dim("  no roles") + "\n")
	} else {
		rows := make([][]string, 0, len(scope.Roles))
		for i, r := range scope.Roles {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i),
				r.Name,
				Hours(r.Hours),
				OptMoney(r.Rate),
				OptMoney(r.Total),
			})
		}
		b.WriteString(RenderAlignedTable(
			[]string{"#", "Role", "Hours", "Rate", "Total"},
			[]Alignment{AlignRight, AlignLeft, AlignRight, AlignRight, AlignRight},
			rows,
		))
	}
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Subtotal"), Money(scope.Subtotal)))
	return b.String()
}

// FormatSOWList renders the SOW summary table.
func FormatSOWList(sows []repository.SOWSummary) string {
	if len(sows) == 0 {
		return Dim("No SOWs yet. Create one with 'sowbench sow new'.") + "\n"
	}
	rows := make([][]string, 0, len(sows))
	for _, s := range sows {
		rows = append(rows, []string{
			TruncID(s.ID),
			s.Name,
			Money(s.GrandTotal),
			Dim(Ago(s.UpdatedAt)),
		})
	}
	return RenderAlignedTable(
		[]string{"ID", "Name", "Total", "Updated"},
		[]Alignment{AlignLeft, AlignLeft, AlignRight, AlignLeft},
		rows,
	)
}

// FormatReport summarises what reconciliation repaired. It returns an empty
// string when nothing changed.
func FormatReport(report pricing.Report, repairs []string) string {
	if !report.Changed() && len(repairs) == 0 {
		return ""
	}
	var b strings.Builder
	var parts []string
	if report.CatalogRates > 0 {
		parts = append(parts, fmt.Sprintf("%d rate(s) from the rate card", report.CatalogRates))
	}
	if report.FallbackRates > 0 {
		parts = append(parts, fmt.Sprintf("%d default rate(s) of %s", report.FallbackRates, Money(pricing.DefaultRate)))
	}
	if report.FilledTotals > 0 {
		parts = append(parts, fmt.Sprintf("%d total(s) recalculated", report.FilledTotals))
	}
	if len(parts) > 0 {
		b.WriteString(StyleWarn.Render("Repaired: "+strings.Join(parts, ", ")) + "\n")
	}
	for _, r := range repairs {
		b.WriteString(Dim("  - "+r) + "\n")
	}
	return b.String()
}

// FormatMessages renders a conversation transcript.
func FormatMessages(msgs []*domain.Message) string {
	if len(msgs) == 0 {
		return Dim("No conversation yet.") + "\n"
	}
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(FormatMessage(m) + "\n")
	}
	return b.String()
}

// FormatMessage renders a single conversation turn.
func FormatMessage(m *domain.Message) string {
	if m.Role == domain.MessageUser {
		return StyleAccent.Render("you") + Dim(" › ") + m.Content
	}
	return AssistantLine(m.Content)
}

// AssistantLine renders one assistant turn.
func AssistantLine(text string) string {
	return StyleAgent.Render("assistant") + Dim(" › ") + text
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
