package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bashhh89/thecustom/internal/cli/formatter"
	"github.com/bashhh89/thecustom/internal/importer"
	"github.com/bashhh89/thecustom/internal/service"
)

func newRatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rates",
		Aliases: []string{"rate-card"},
		Short:   "Manage the master rate card",
	}

	cmd.AddCommand(
		newRatesListCmd(app),
		newRatesAddCmd(app),
		newRatesSetCmd(app),
		newRatesRemoveCmd(app),
		newRatesImportCmd(app),
	)

	return cmd
}

func newRatesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List rate card entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := app.Rates.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRateCard(entries))
			return nil
		},
	}
}

func newRatesAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME RATE",
		Short: "Add a role with its hourly rate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := parseRate(args[1])
			if err != nil {
				return err
			}
			e, err := app.Rates.Create(cmd.Context(), args[0], rate)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Added ")+formatter.FormatRateEntry(e))
			return nil
		},
	}
}

func newRatesSetCmd(app *App) *cobra.Command {
	var name string
	var rate int

	cmd := &cobra.Command{
		Use:   "set NAME|ID",
		Short: "Rename a role or change its rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd service.RateUpdate
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("rate") {
				upd.Rate = &rate
			}
			if upd.Name == nil && upd.Rate == nil {
				return fmt.Errorf("nothing to change: pass --name and/or --rate")
			}
			e, err := app.Rates.Update(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success("Updated ")+formatter.FormatRateEntry(e))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New role name")
	cmd.Flags().IntVar(&rate, "rate", 0, "New hourly rate (whole dollars)")

	return cmd
}

func newRatesRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm NAME|ID",
		Aliases: []string{"remove"},
		Short:   "Remove a role from the rate card",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Rates.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			ok, err := confirmDestructive(app, fmt.Sprintf("Remove %q from the rate card?", e.Name), yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
				return nil
			}
			if err := app.Rates.Delete(cmd.Context(), e.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", e.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newRatesImportCmd(app *App) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import rate card entries from a YAML or JSON file",
		Long: `Import rate card entries from a file shaped like:

  rates:
    - name: Tech - Specialist
      rate: 150
    - name: Designer
      rate: 80

The import is all-or-nothing. Names already on the card are rejected
unless --replace is given, in which case their rates are updated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := importer.LoadRateCardFile(args[0])
			if err != nil {
				return err
			}
			if errs := importer.ValidateRateCard(file); len(errs) > 0 {
				return fmt.Errorf("%s: %w", args[0], errors.Join(errs...))
			}
			res, err := app.Rates.Import(cmd.Context(), importer.Convert(file), replace)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(
				fmt.Sprintf("Imported %d new and %d updated rate(s)", res.Created, res.Updated)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Update rates of roles already on the card")

	return cmd
}

func parseRate(s string) (int, error) {
	rate, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("rate must be a whole number of dollars, got %q", s)
	}
	return rate, nil
}
