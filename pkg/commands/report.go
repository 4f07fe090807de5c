package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/commands/options"
	"tableflip.dev/frota/pkg/printers"
	"tableflip.dev/frota/pkg/runner/report"
	"tableflip.dev/frota/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	ro := &options.ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize departures and distance per vehicle over a time window.",
		Example: `
frota report
frota report --last 2w --calendar
frota report --since 01/03/2025 --until 31/03/2025
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			since, until, err := timeutil.Bounds(ro.Last, ro.Since, ro.Until, time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, e *env) error {
				r := report.Report{
					App:      e.App,
					Since:    since,
					Until:    until,
					Calendar: ro.Calendar,
					Printer:  printers.PrettyPrint{Out: cmd.OutOrStdout()},
				}
				return r.Do(ctx)
			})
		},
	}
	options.AddReportArgs(cmd, ro)

	topLevel.AddCommand(cmd)
}
