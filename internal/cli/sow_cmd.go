package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bashhh89/thecustom/internal/cli/formatter"
	"github.com/bashhh89/thecustom/internal/domain"
	"github.com/bashhh89/thecustom/internal/importer"
	"github.com/bashhh89/thecustom/internal/pricing"
	"github.com/bashhh89/thecustom/internal/service"
)

func newSOWCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sow",
		Short: "Manage Statements of Work",
	}

	cmd.AddCommand(
		newSOWNewCmd(app),
		newSOWListCmd(app),
		newSOWShowCmd(app),
		newSOWRenameCmd(app),
		newSOWRemoveCmd(app),
		newSOWImportCmd(app),
		newSOWHoursCmd(app),
		newSOWRateCmd(app),
		newSOWAssignCmd(app),
		newSOWRefineCmd(app),
	)

	return cmd
}

func newSOWNewCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "new [NAME]",
		Short: "Create a SOW, empty or from a JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			var (
				doc         *domain.SOWDocument
				fileRepairs []string
			)
			if file != "" {
				var err error
				doc, fileRepairs, err = importer.LoadDocumentFile(file)
				if err != nil {
					return err
				}
			}
			res, err := app.SOWs.Create(cmd.Context(), name, doc)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", formatter.Success("Created"), formatter.Bold(res.SOW.Name), formatter.Dim(res.SOW.ID))
			printReport(out, res.Report, append(fileRepairs, res.Repairs...))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Start from a SOW JSON document")

	return cmd
}

func newSOWListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List SOWs, most recently updated first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sows, err := app.SOWs.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSOWList(sows))
			return nil
		},
	}
}

func newSOWShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show SOW",
		Short: "Show a SOW priced against the current rate card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			res, err := app.SOWs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res.SOW.Data)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSOW(res.SOW))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the document as JSON")

	return cmd
}

func newSOWRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename SOW NAME",
		Short: "Rename a SOW",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.SOWs.Rename(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", strings.TrimSpace(args[1]))
			return nil
		},
	}
}

func newSOWRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm SOW",
		Aliases: []string{"remove"},
		Short:   "Delete a SOW and its conversation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(app, fmt.Sprintf("Delete SOW %s?", args[0]), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}
			if err := app.SOWs.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newSOWImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import SOW FILE",
		Short: "Replace a SOW's document with a JSON file, filling pricing gaps",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			doc, fileRepairs, err := importer.LoadDocumentFile(args[1])
			if err != nil {
				return err
			}
			res, err := app.SOWs.SaveDocument(cmd.Context(), id, doc)
			if err != nil {
				return err
			}
			printEdit(cmd.OutOrStdout(), res, fileRepairs)
			return nil
		},
	}
}

func newSOWHoursCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hours SOW SCOPE INDEX HOURS",
		Short: "Set a role's hours and recalculate every total",
		Long: `Set a role's hours. SCOPE is a scope id or exact scope name and INDEX
is the role's position in that scope, as shown by 'sow show'. Direct
edits recalculate every role total from hours x rate.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ref, err := resolveRoleArgs(cmd, app, args)
			if err != nil {
				return err
			}
			hours, err := parseAmount("hours", args[3])
			if err != nil {
				return err
			}
			res, err := app.SOWs.UpdateRoleHours(cmd.Context(), id, ref, hours)
			if err != nil {
				return err
			}
			printEdit(cmd.OutOrStdout(), res, nil)
			return nil
		},
	}
}

func newSOWRateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rate SOW SCOPE INDEX RATE",
		Short: "Set a role's hourly rate and recalculate every total",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ref, err := resolveRoleArgs(cmd, app, args)
			if err != nil {
				return err
			}
			rate, err := parseAmount("rate", args[3])
			if err != nil {
				return err
			}
			res, err := app.SOWs.UpdateRoleRate(cmd.Context(), id, ref, rate)
			if err != nil {
				return err
			}
			printEdit(cmd.OutOrStdout(), res, nil)
			return nil
		},
	}
}

func newSOWAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign SOW SCOPE INDEX ROLE",
		Short: "Give a role a rate card name and that entry's rate",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ref, err := resolveRoleArgs(cmd, app, args)
			if err != nil {
				return err
			}
			res, err := app.SOWs.AssignRole(cmd.Context(), id, ref, args[3])
			if err != nil {
				return err
			}
			printEdit(cmd.OutOrStdout(), res, nil)
			return nil
		},
	}
}

func newSOWRefineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refine SOW COMMAND",
		Short: "Apply a slash command such as \"/newScope Design\"",
		Long: `Apply a slash command to a stored SOW. Run 'sowbench commands' for
the grammar. Quote the command so the shell passes it as one argument.`,
		Example: `  sowbench sow refine portal "/newScope Website Design"
  sowbench sow refine portal "/addRole to Website Design Designer 40"
  sowbench sow refine portal "/setBudget 25000"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveSOWID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			res, err := app.Refine.Refine(cmd.Context(), id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.Success(res.Command.Message))
			if res.Command.NameFallback {
				fmt.Fprintln(out, formatter.Dim("Matched the scope by name; use its id to be unambiguous."))
			}
			printEdit(out, &res.EditResult, nil)
			return nil
		},
	}
}

func resolveRoleArgs(cmd *cobra.Command, app *App, args []string) (string, pricing.RoleRef, error) {
	id, err := resolveSOWID(cmd.Context(), app, args[0])
	if err != nil {
		return "", pricing.RoleRef{}, err
	}
	idx, err := strconv.Atoi(args[2])
	if err != nil || idx < 0 {
		return "", pricing.RoleRef{}, fmt.Errorf("role index must be a non-negative integer, got %q", args[2])
	}
	return id, pricing.RoleRef{Scope: args[1], Index: idx}, nil
}

func parseAmount(what, s string) (float64, error) {
	v, ok := domain.ParseNumeric(s)
	if !ok || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number, got %q", what, s)
	}
	return v, nil
}

func printEdit(out io.Writer, res *service.EditResult, extraRepairs []string) {
	printReport(out, res.Report, append(extraRepairs, res.Repairs...))
	fmt.Fprintf(out, "%s %s\n", formatter.Dim("Grand total"), formatter.Bold(formatter.Money(res.SOW.Data.GrandTotal())))
}

func printReport(out io.Writer, report pricing.Report, repairs []string) {
	if s := formatter.FormatReport(report, repairs); s != "" {
		fmt.Fprint(out, s)
	}
}
