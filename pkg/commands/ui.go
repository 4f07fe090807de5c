package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/commands/options"
	"tableflip.dev/frota/pkg/runner/ui"
	"tableflip.dev/frota/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	vo := &options.ViewOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
frota ui
frota ui --view user
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			userView, err := vo.UserView()
			if err != nil {
				return err
			}
			e, err := loadEnv(cmd, func(cfg *store.FileConfig) []string {
				return []string{cfg.LogPath()}
			})
			if err != nil {
				return err
			}
			defer e.Close()

			i := ui.UI{
				App:      e.App,
				UserView: userView,
				Toast:    e.Config.Toast,
				Log:      e.Log,
			}
			return i.Do(cmd.Context())
		},
	}
	options.AddViewArgs(cmd, vo)

	topLevel.AddCommand(cmd)
}
