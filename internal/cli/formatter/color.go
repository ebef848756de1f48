package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Amounts and scope names get their own colors so a priced SOW
// reads at a glance.
var (
	ColorAccent = lipgloss.Color("#5fafd7")
	ColorAmount = lipgloss.Color("#87d787")
	ColorWarn   = lipgloss.Color("#ffaf5f")
	ColorError  = lipgloss.Color("#ff5f5f")
	ColorAgent  = lipgloss.Color("#af87ff")
	ColorDim    = lipgloss.Color("#808080")
	ColorFg     = lipgloss.Color("#e4e4e4")
)

var (
	StyleAccent = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleAmount = lipgloss.NewStyle().Foreground(ColorAmount)
	StyleWarn   = lipgloss.NewStyle().Foreground(ColorWarn)
	StyleError  = lipgloss.NewStyle().Foreground(ColorError)
	StyleAgent  = lipgloss.NewStyle().Foreground(ColorAgent)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header upper-cases text and underlines it to its display width.
func Header(text string) string {
	title := strings.ToUpper(text)
	rule := StyleDim.Render(strings.Repeat("─", lipgloss.Width(title)))
	return StyleHeader.Render(title) + "\n" + rule
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Error renders an error the way every command reports failures.
func Error(err error) string {
	return StyleError.Render(fmt.Sprintf("Error: %v", err))
}

// Success renders a confirmation line.
func Success(text string) string {
	return StyleAmount.Render(text)
}
