package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bashhh89/thecustom/internal/cli/formatter"
)

func newGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate SOW [INSTRUCTION...]",
		Short: "Draft the SOW from its conversation with the LLM",
		Long: `Send the SOW's conversation and the rate card to the LLM, then
sanitize and price the drafted document and save it. An optional
instruction is sent as a final user message and kept in the history.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Generation.Generate(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatter.FormatSOW(res.SOW))
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.AssistantLine(res.AIMessage))
			for _, line := range res.Log {
				fmt.Fprintln(out, formatter.Dim("  log: "+line))
			}
			printReport(out, res.Report, res.Repairs)
			return nil
		},
	}
}

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat SOW MESSAGE...",
		Short: "Send one message to the assistant about a SOW",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Generation.Converse(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatMessage(res.Assistant))
			return nil
		},
	}
}

func newHistoryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "history SOW",
		Short: "Show a SOW's conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			msgs, err := app.Generation.History(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMessages(msgs))
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset SOW",
		Short: "Clear a SOW's conversation, keeping the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			n, err := app.Generation.ResetConversation(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d message(s)\n", n)
			return nil
		},
	}
}
