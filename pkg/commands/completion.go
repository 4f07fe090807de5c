package commands

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(frota completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(frota completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletion(os.Stdout)
		},
	}

	topLevel.AddCommand(cmd)
}

// vehicleCompletions completes --vehicle from the reference list, or from
// the vehicles that are out when outOnly is set.
func vehicleCompletions(outOnly bool) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completeVehicles(cmd.Context(), outOnly, toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

func completeVehicles(ctx context.Context, outOnly bool, prefix string) []string {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil
	}
	settings, err := store.Load(cfg)
	if err != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	svc := app.New(settings, gateway.HTTPDialer(), log.NewNop())
	if err := svc.Sync(ctx); err != nil {
		return nil
	}
	names := svc.Lists().Vehicles
	if outOnly {
		names = svc.OutVehicles()
	}
	return matching(names, prefix)
}

func matching(names []string, prefix string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), strings.ToLower(prefix)) {
			out = append(out, n)
		}
	}
	return out
}
