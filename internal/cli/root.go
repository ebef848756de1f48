package cli

import (
	"github.com/spf13/cobra"

	"github.com/bashhh89/thecustom/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Rates      service.RateCardService
	SOWs       service.SOWService
	Refine     service.RefineService
	Generation service.GenerationService

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil uses a huh confirm form.
	Confirm func(title string) (bool, error)
	// HistoryPath is where the shell keeps its input history. Empty disables it.
	HistoryPath string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "sowbench" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "sowbench",
		Short:         "Draft, price and refine Statements of Work",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newRatesCmd(app),
		newSOWCmd(app),
		newGenerateCmd(app),
		newChatCmd(app),
		newHistoryCmd(app),
		newResetCmd(app),
		newSanitizeCmd(app),
		newCommandsCmd(),
		newShellCmd(app),
	)

	return root
}
