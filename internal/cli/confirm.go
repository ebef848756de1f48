package cli

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/bashhh89/thecustom/internal/cli/formatter"
)

// sowbenchHuhTheme returns a huh theme using the formatter palette.
func sowbenchHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorAccent).Bold(true)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorAccent).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func huhConfirm(title string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Delete").
				Negative("Keep").
				Value(&ok),
		),
	).WithTheme(sowbenchHuhTheme()).WithShowHelp(false).Run()
	return ok, err
}

// confirmDestructive asks before a delete. Non-interactive runs must pass
// --yes; the prompt is skipped when yes is already set.
func confirmDestructive(app *App, title string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, errNeedsYes
	}
	if app.Confirm != nil {
		return app.Confirm(title)
	}
	return huhConfirm(title)
}
