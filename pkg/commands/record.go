package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/commands/options"
	"tableflip.dev/frota/pkg/printers"
	"tableflip.dev/frota/pkg/runner/record"
)

func addDepart(topLevel *cobra.Command) {
	do := &options.DepartureOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "depart",
		Aliases: []string{"out"},
		Short:   "Record a vehicle leaving.",
		Long: `Records a departure. Every field is required and the vehicle must not be out.

When the odometer is below the vehicle's last return reading frota asks
before saving; --yes accepts it.`,
		Example: `
frota depart --vehicle "Van 02" --driver Ana --escort Bia --odometer 12050 --destination Depot
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withApp(cmd, func(ctx context.Context, e *env) error {
				d := record.Departure{
					App:     e.App,
					Form:    do.DepartureForm,
					Confirm: co.Confirmer(),
					Printer: printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return d.Do(ctx)
			})
			hint(cmd.ErrOrStderr(), err)
			return err
		},
	}
	options.AddDepartureArgs(cmd, do)
	options.AddConfirmArgs(cmd, co)
	_ = cmd.RegisterFlagCompletionFunc("vehicle", vehicleCompletions(false))

	topLevel.AddCommand(cmd)
}

func addReturn(topLevel *cobra.Command) {
	ro := &options.ReturnOptions{}
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "return",
		Aliases: []string{"arrive", "in"},
		Short:   "Record a vehicle coming back.",
		Long: `Closes the open movement of a vehicle. Driver and escort default to the
people who took it out.

When the odometer is below the departure reading frota asks before saving;
--yes accepts it and the negative distance is kept.`,
		Example: `
frota return --vehicle "Van 02" --odometer 12110
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withApp(cmd, func(ctx context.Context, e *env) error {
				r := record.Return{
					App:     e.App,
					Form:    ro.ReturnForm,
					Confirm: co.Confirmer(),
					Printer: printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return r.Do(ctx)
			})
			hint(cmd.ErrOrStderr(), err)
			return err
		},
	}
	options.AddReturnArgs(cmd, ro)
	options.AddConfirmArgs(cmd, co)
	_ = cmd.RegisterFlagCompletionFunc("vehicle", vehicleCompletions(true))

	topLevel.AddCommand(cmd)
}
