package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where state is stored.",
		Example: `
frota info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withApp(cmd, func(ctx context.Context, e *env) error {
				s := info.Info{
					Config:   e.Config,
					Settings: e.Settings,
					Out:      cmd.OutOrStdout(),
				}
				return s.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
