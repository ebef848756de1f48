package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bashhh89/thecustom/internal/cli/formatter"
	"github.com/bashhh89/thecustom/internal/command"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/service"
)

// shellMode tracks which interaction mode the shell is in.
type shellMode int

const (
	modePrompt  shellMode = iota // Normal command input.
	modeConfirm                  // Awaiting y/n for a destructive command.
	modeBusy                     // Waiting on the assistant.
)

// assistantDoneMsg carries the rendered result of an LLM-backed command.
type assistantDoneMsg struct {
	output string
}

// shellModel is the bubbletea Model for the interactive SOW shell. Every
// line either edits the active SOW, talks to the assistant or changes
// shell state.
type shellModel struct {
	input textinput.Model
	width int
	ctx   context.Context

	app     *App
	sowID   string
	sowName string

	mode           shellMode
	pendingConfirm func(m *shellModel) string

	history    []string
	historyIdx int

	// lastOutput is the most recent text printed above the prompt.
	lastOutput string
	quitting   bool
}

func newShellModel(ctx context.Context, app *App, sowID, sowName string) shellModel {
	ti := textinput.New()
	ti.Focus()
	ti.Prompt = ""
	ti.ShowSuggestions = true
	ti.CharLimit = 1000
	// Tab accepts a suggestion; Up/Down walk the history.
	ti.KeyMap.NextSuggestion = key.NewBinding(key.WithKeys("ctrl+n"))
	ti.KeyMap.PrevSuggestion = key.NewBinding(key.WithKeys("ctrl+p"))

	hist := historyFile(app.HistoryPath).load()

	return shellModel{
		input:      ti,
		ctx:        ctx,
		app:        app,
		sowID:      sowID,
		sowName:    sowName,
		history:    hist,
		historyIdx: len(hist),
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m shellModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.Println(formatter.FormatShellWelcome(m.sowName)),
	)
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(m.sowName) - 6
		return m, nil

	case assistantDoneMsg:
		m.mode = modePrompt
		cmd := m.print(msg.output)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		switch m.mode {
		case modeBusy:
			return m, nil
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updatePrompt(msg)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m shellModel) View() string {
	if m.quitting {
		return formatter.Dim("Goodbye.") + "\n"
	}
	if m.mode == modeBusy {
		return formatter.Dim("thinking…") + "\n"
	}
	return m.promptPrefix() + m.input.View()
}

func (m *shellModel) promptPrefix() string {
	if m.mode == modeConfirm {
		return formatter.StyleWarn.Render("confirm (y/n)") + " " + formatter.Dim("❯") + " "
	}
	return formatter.StyleAgent.Render("sow") + " " +
		formatter.Dim("(") + formatter.StyleAccent.Render(m.sowName) + formatter.Dim(")") +
		" " + formatter.Dim("❯") + " "
}

func (m *shellModel) print(output string) tea.Cmd {
	m.lastOutput = output
	if output == "" {
		return nil
	}
	return tea.Println(output)
}

// ── prompt mode ──────────────────────────────────────────────────────────────

func (m shellModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		input := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.input.SetSuggestions(nil)
		if input == "" {
			return m, nil
		}
		m.addHistory(input)
		output, cmd := m.execute(input)
		cmd = tea.Batch(m.print(output), cmd)
		return m, cmd

	case tea.KeyUp:
		m.historyUp()
		return m, nil

	case tea.KeyDown:
		m.historyDown()
		return m, nil

	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.updateSuggestions()
		return m, cmd
	}
}

func (m shellModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	answer := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.input.Reset()
	action := m.pendingConfirm
	m.pendingConfirm = nil
	m.mode = modePrompt

	output := formatter.Dim("Cancelled.")
	if answer == "y" || answer == "yes" {
		output = action(&m)
	}
	cmd := m.print(output)
	return m, cmd
}

// execute runs one shell line. Synchronous commands return their output;
// assistant calls return a tea.Cmd that reports back with assistantDoneMsg.
func (m *shellModel) execute(input string) (string, tea.Cmd) {
	if command.IsCommand(input) {
		return m.execRefine(input), nil
	}

	word, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(word) {
	case "exit", "quit":
		m.quitting = true
		return "", tea.Quit
	case "help":
		return formatter.FormatShellHelp(command.Commands()), nil
	case "clear":
		return "", tea.ClearScreen
	case "show":
		return m.execShow(), nil
	case "rates":
		entries, err := m.app.Rates.List(m.ctx)
		if err != nil {
			return formatter.Error(err), nil
		}
		return strings.TrimRight(formatter.FormatRateCard(entries), "\n"), nil
	case "use":
		return m.execUse(rest), nil
	case "hours", "rate", "assign":
		return m.execRoleEdit(strings.ToLower(word), rest), nil
	case "history":
		msgs, err := m.app.Generation.History(m.ctx, m.sowID)
		if err != nil {
			return formatter.Error(err), nil
		}
		return strings.TrimRight(formatter.FormatMessages(msgs), "\n"), nil
	case "reset":
		m.mode = modeConfirm
		m.pendingConfirm = func(m *shellModel) string {
			n, err := m.app.Generation.ResetConversation(m.ctx, m.sowID)
			if err != nil {
				return formatter.Error(err)
			}
			return fmt.Sprintf("Cleared %d message(s)", n)
		}
		return formatter.StyleWarn.Render("Clear the conversation for " + m.sowName + "?"), nil
	case "generate":
		m.mode = modeBusy
		return formatter.Dim("Drafting the SOW…"), m.generateCmd(rest)
	default:
		m.mode = modeBusy
		return "", m.converseCmd(input)
	}
}

func (m *shellModel) execRefine(input string) string {
	res, err := m.app.Refine.Refine(m.ctx, m.sowID, input)
	if err != nil {
		return formatter.Error(err)
	}
	var b strings.Builder
	b.WriteString(formatter.Success(res.Command.Message))
	if res.Command.NameFallback {
		b.WriteString("\n" + formatter.Dim("Matched the scope by name; use its id to be unambiguous."))
	}
	if report := formatter.FormatReport(res.Report, nil); report != "" {
		b.WriteString("\n" + strings.TrimRight(report, "\n"))
	}
	b.WriteString("\n" + formatter.Dim("Grand total ") + formatter.Bold(formatter.Money(res.SOW.Data.GrandTotal())))
	return b.String()
}

func (m *shellModel) execShow() string {
	res, err := m.app.SOWs.Get(m.ctx, m.sowID)
	if err != nil {
		return formatter.Error(err)
	}
	m.sowName = res.SOW.Name
	return strings.TrimRight(formatter.FormatSOW(res.SOW), "\n")
}

func (m *shellModel) execUse(ref string) string {
	if ref == "" {
		return formatter.Error(fmt.Errorf("usage: use <sow>"))
	}
	id, err := resolveSOWID(m.ctx, m.app, ref)
	if err != nil {
		return formatter.Error(err)
	}
	res, err := m.app.SOWs.Get(m.ctx, id)
	if err != nil {
		return formatter.Error(err)
	}
	m.sowID = res.SOW.ID
	m.sowName = res.SOW.Name
	return formatter.Dim("Now editing ") + formatter.Bold(m.sowName)
}

func (m *shellModel) execRoleEdit(verb, rest string) string {
	args, err := splitShellArgs(rest)
	if err != nil {
		return formatter.Error(err)
	}
	if len(args) < 3 {
		return formatter.Error(fmt.Errorf("usage: %s <scope> <index> <value>", verb))
	}
	idx, err := strconv.Atoi(args[1])
	if err != nil || idx < 0 {
		return formatter.Error(fmt.Errorf("role index must be a non-negative integer, got %q", args[1]))
	}
	ref := pricing.RoleRef{Scope: args[0], Index: idx}
	value := strings.Join(args[2:], " ")

	var res *service.EditResult
	switch verb {
	case "hours", "rate":
		amount, perr := parseAmount(verb, value)
		if perr != nil {
			return formatter.Error(perr)
		}
		edit := m.app.SOWs.UpdateRoleHours
		if verb == "rate" {
			edit = m.app.SOWs.UpdateRoleRate
		}
		res, err = edit(m.ctx, m.sowID, ref, amount)
	default:
		res, err = m.app.SOWs.AssignRole(m.ctx, m.sowID, ref, value)
	}
	if err != nil {
		return formatter.Error(err)
	}
	return formatter.Success("Updated") + "  " + formatter.Dim("Grand total ") + formatter.Bold(formatter.Money(res.SOW.Data.GrandTotal()))
}

func (m *shellModel) generateCmd(instruction string) tea.Cmd {
	ctx, app, id := m.ctx, m.app, m.sowID
	return func() tea.Msg {
		res, err := app.Generation.Generate(ctx, id, instruction)
		if err != nil {
			return assistantDoneMsg{output: formatter.Error(err)}
		}
		var b strings.Builder
		b.WriteString(strings.TrimRight(formatter.FormatSOW(res.SOW), "\n"))
		b.WriteString("\n\n" + formatter.AssistantLine(res.AIMessage))
		if report := formatter.FormatReport(res.Report, nil); report != "" {
			b.WriteString("\n" + strings.TrimRight(report, "\n"))
		}
		return assistantDoneMsg{output: b.String()}
	}
}

func (m *shellModel) converseCmd(message string) tea.Cmd {
	ctx, app, id := m.ctx, m.app, m.sowID
	return func() tea.Msg {
		res, err := app.Generation.Converse(ctx, id, message)
		if err != nil {
			return assistantDoneMsg{output: formatter.Error(err)}
		}
		return assistantDoneMsg{output: formatter.FormatMessage(res.Assistant)}
	}
}

// ── history ──────────────────────────────────────────────────────────────────

func (m *shellModel) addHistory(line string) {
	m.history = append(m.history, line)
	m.historyIdx = len(m.history)
	historyFile(m.app.HistoryPath).add(line)
}

func (m *shellModel) historyUp() {
	if m.historyIdx > 0 {
		m.historyIdx--
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	}
}

func (m *shellModel) historyDown() {
	if m.historyIdx < len(m.history)-1 {
		m.historyIdx++
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	} else {
		m.historyIdx = len(m.history)
		m.input.SetValue("")
	}
}

// ── suggestions ──────────────────────────────────────────────────────────────

func (m *shellModel) updateSuggestions() {
	text := m.input.Value()
	if text == "" || strings.Contains(text, " ") {
		m.input.SetSuggestions(nil)
		return
	}
	m.input.SetSuggestions(completions(text))
}
