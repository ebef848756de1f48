package formatter

import (
	"fmt"
	"strings"

	"github.com/bashhh89/thecustom/internal/command"
)

// FormatShellWelcome renders the welcome banner shown on shell startup.
func FormatShellWelcome(sowName string) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(StyleAgent.Render("  sowbench") + "\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n")
	if sowName != "" {
		b.WriteString(StyleDim.Render("  Editing ") + Bold(sowName) + "\n")
	}
	b.WriteString("\n")
	b.WriteString("  " + StyleAccent.Render("/newScope <name>") + StyleDim.Render("     Add a scope") + "\n")
	b.WriteString("  " + StyleAccent.Render("generate") + StyleDim.Render("             Draft the SOW from the conversation") + "\n")
	b.WriteString("  " + StyleAccent.Render("show") + StyleDim.Render("                 Show the priced SOW") + "\n")
	b.WriteString("  " + StyleAccent.Render("help") + StyleDim.Render("                 Show all commands") + "\n")
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  Anything else is sent to the assistant. Tab completes commands.") + "\n")

	return b.String()
}

// helpCategory groups commands under a section header for the help display.
type helpCategory struct {
	title    string
	commands [][]string
}

func renderHelpCategory(cat helpCategory) string {
	var b strings.Builder
	b.WriteString("\n " + StyleHeader.Render(strings.ToUpper(cat.title)) + "\n")
	for _, c := range cat.commands {
		b.WriteString(fmt.Sprintf("  %-40s %s\n",
			StyleAccent.Render(c[0]),
			StyleDim.Render(c[1])))
	}
	return b.String()
}

// FormatShellHelp renders the shell command reference, including the slash
// commands understood by the interpreter.
func FormatShellHelp(specs []command.Spec) string {
	slash := helpCategory{title: "Slash commands"}
	for _, s := range specs {
		slash.commands = append(slash.commands, []string{s.Usage, s.Description})
	}
	categories := []helpCategory{
		slash,
		{
			title: "Document",
			commands: [][]string{
				{"show", "Show the priced SOW"},
				{"hours <scope> <index> <hours>", "Set a role's hours"},
				{"rate <scope> <index> <rate>", "Set a role's hourly rate"},
				{"assign <scope> <index> <role>", "Give a role a rate card name and rate"},
				{"rates", "Show the rate card"},
			},
		},
		{
			title: "Assistant",
			commands: [][]string{
				{"generate [instruction]", "Draft the SOW from the conversation"},
				{"history", "Show the conversation"},
				{"reset", "Clear the conversation"},
				{"<text>", "Talk to the assistant"},
			},
		},
		{
			title: "Shell",
			commands: [][]string{
				{"clear", "Clear the screen"},
				{"help", "Show this help"},
				{"exit", "Leave the shell"},
			},
		},
	}

	var b strings.Builder
	for _, cat := range categories {
		b.WriteString(renderHelpCategory(cat))
	}
	return b.String()
}

// FormatCommandList renders the slash command grammar with examples.
func FormatCommandList(specs []command.Spec) string {
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, []string{s.Usage, s.Description, Dim(s.Example)})
	}
	return RenderTable([]string{"Command", "Description", "Example"}, rows)
}
