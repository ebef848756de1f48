package intelligence

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/pricing"
)

const conversationSystemPrompt = `You are a professional assistant helping a user define the requirements
for a Statement of Work. Hold a natural conversation: ask clarifying questions
about goals, deliverables, constraints, timeline and budget, and summarise what
you have learned when asked.

Do NOT produce JSON or any other structured data. Reply in plain prose.`

const generationPromptHeader = `You are a senior proposal architect. Convert the conversation so far into a
complete, priced Statement of Work.

Respond with a single JSON object and nothing else:
{
  "sowData": {
    "projectTitle": "Specific, professional project title",
    "clientName": "Client name from the brief",
    "projectOverview": "3-5 sentence description of the work",
    "projectOutcomes": ["Business outcome", "..."],
    "scopes": [
      {
        "scopeName": "Phase 1: Name",
        "scopeOverview": "2-3 sentence description",
        "deliverables": ["..."],
        "assumptions": ["..."],
        "roles": [
          {"name": "Rate card role name", "description": "...", "hours": 40, "rate": 120, "total": 4800}
        ],
        "subtotal": 4800
      }
    ],
    "timeline": {
      "duration": "6-8 weeks",
      "phases": [{"name": "...", "duration": "...", "deliverables": ["..."]}]
    },
    "budgetNote": "Total investment and value statement"
  },
  "aiMessage": "Short conversational summary referencing the title, scope count and budget",
  "architectsLog": ["One line per significant decision you made"]
}

Rules:
1. Role names MUST be taken verbatim from the rate card below.
2. Every scope needs at least one role with realistic hours
   (simple tasks 10-30, complex work 40-80, major builds 80-120).
3. Include a project manager role in every scope when the rate card has one.
4. Keep ids of existing scopes unchanged when revising a draft.`

// GenerationSystemPrompt builds the system prompt for a full SOW draft. The
// rate card is listed as "Name: $Rate" lines; an existing document is
// included so the model revises it instead of starting over.
func GenerationSystemPrompt(catalog *pricing.Catalog, current *domain.SOWDocument) string {
	var b strings.Builder
	b.WriteString(generationPromptHeader)
	b.WriteString("\n\nRATE CARD:\n")
	b.WriteString(RateCardText(catalog))

	if current != nil && len(current.Scopes) > 0 {
		if data, err := json.MarshalIndent(current, "", "  "); err == nil {
			b.WriteString("\n\nCURRENT DRAFT:\n")
			b.Write(data)
		}
	}
	return b.String()
}

// RateCardText renders the catalog as "Name: $Rate" lines in name order.
func RateCardText(catalog *pricing.Catalog) string {
	if catalog.Len() == 0 {
		return "(empty: choose sensible role names)"
	}
	lines := make([]string, 0, catalog.Len())
	for _, name := range catalog.Names() {
		rate, _ := catalog.Lookup(name)
		lines = append(lines, name+": $"+strconv.FormatFloat(rate, 'f', -1, 64))
	}
	return strings.Join(lines, "\n")
}
