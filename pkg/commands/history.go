package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/commands/options"
	"tableflip.dev/frota/pkg/printers"
	"tableflip.dev/frota/pkg/runner/history"
	"tableflip.dev/frota/pkg/runner/lists"
)

func addHistory(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var vehicle string

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"log"},
		Short:   "List every movement, newest first.",
		Example: `
frota history
frota history --vehicle "Van 02" --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withApp(cmd, func(ctx context.Context, e *env) error {
				h := history.History{
					App:     e.App,
					Vehicle: vehicle,
					JSON:    oo.JSON,
					Printer: printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return h.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&vehicle, "vehicle", "", "Only show movements of this vehicle.")
	_ = cmd.RegisterFlagCompletionFunc("vehicle", vehicleCompletions(false))

	topLevel.AddCommand(cmd)
}

func addLists(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show the reference lists of vehicles, drivers and escorts.",
		Example: `
frota lists
frota lists --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withApp(cmd, func(ctx context.Context, e *env) error {
				l := lists.Lists{
					App:     e.App,
					JSON:    oo.JSON,
					Printer: printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return l.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
