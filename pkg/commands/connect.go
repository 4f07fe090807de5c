package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/runner/connect"
	"tableflip.dev/frota/pkg/runner/status"
)

func addConnect(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "connect <url>",
		Short: "Point frota at a spreadsheet gateway and sync.",
		Long: `Validates the gateway by initializing it, caches the url for later sessions
and loads the reference lists and the movement history.

A failed connection keeps the previously cached url.`,
		Example: `
frota connect https://script.example.com/macros/s/ID/exec
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withApp(cmd, func(ctx context.Context, e *env) error {
				c := connect.Connect{
					App: e.App,
					URL: args[0],
					Out: cmd.OutOrStdout(),
				}
				return c.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}

func addStatus(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the connection, the latest movements and what is out.",
		Example: `
frota status
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withApp(cmd, func(ctx context.Context, e *env) error {
				s := status.Status{
					App: e.App,
					Out: cmd.OutOrStdout(),
				}
				return s.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
