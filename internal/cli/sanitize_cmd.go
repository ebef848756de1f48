package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bashhh89/thecustom/internal/cli/formatter"
	"github.com/bashhh89/thecustom/internal/command"
	"github.com/bashhh89/thecustom/internal/sanitize"
)

func newSanitizeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [FILE]",
		Short: "Sanitize raw LLM output and print the priced document as JSON",
		Long: `Read raw model output from FILE, or stdin when FILE is omitted or "-",
extract and repair the SOW it contains and price it against the current
rate card. The document goes to stdout; the assistant message and the
repair report go to stderr. Nothing is saved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			catalog, err := app.Rates.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			gen, err := sanitize.Sanitize(string(raw), catalog)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), gen.SOWData); err != nil {
				return err
			}
			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "%s %s\n", formatter.Dim("shape:"), gen.Shape)
			fmt.Fprintf(errOut, "%s %s\n", formatter.Dim("message:"), gen.AIMessage)
			printReport(errOut, gen.Report, gen.Repairs)
			return nil
		},
	}
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the slash commands understood by 'sow refine' and the shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatCommandList(command.Commands()))
			return nil
		},
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
