package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/commands/options"
	"tableflip.dev/frota/pkg/runner/clear"
)

func addClear(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Erase every movement from the spreadsheet.",
		Long: `Asks the gateway to erase the whole movement history. This can not be
undone. Reference lists are kept.`,
		Example: `
frota clear
frota clear --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withApp(cmd, func(ctx context.Context, e *env) error {
				c := clear.Clear{
					App:     e.App,
					Confirm: co.Confirmer(),
					Out:     cmd.OutOrStdout(),
				}
				return c.Do(ctx)
			})
		},
	}
	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}
