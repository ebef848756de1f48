package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell SOW",
		Short: "Interactive shell for refining one SOW",
		Long: `Start an interactive shell bound to one SOW. Slash commands edit the
document, plain text talks to the assistant and 'generate' drafts the
whole SOW from the conversation. Type 'help' inside the shell for the
full list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("the shell needs an interactive terminal; use 'sow refine' in scripts")
			}
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			res, err := app.SOWs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			m := newShellModel(cmd.Context(), app, res.SOW.ID, res.SOW.Name)
			_, err = tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			).Run()
			return err
		},
	}
}
