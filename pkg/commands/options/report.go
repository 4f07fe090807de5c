package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/timeutil"
)

// ReportOptions
type ReportOptions struct {
	Last     string
	Since    string
	Until    string
	Calendar bool
}

func AddReportArgs(cmd *cobra.Command, o *ReportOptions) {
	cmd.Flags().StringVar(&o.Last, "last", timeutil.DefaultWindow,
		"Time window to include, for example 3d, 1w or 2semanas.")
	cmd.Flags().StringVar(&o.Since, "since", "",
		`Start date, example: --since="01/03/2025". Overrides --last.`)
	cmd.Flags().StringVar(&o.Until, "until", "",
		`End date, example: --until="31/03/2025". Defaults to now.`)
	cmd.Flags().BoolVar(&o.Calendar, "calendar", false,
		"Also print a calendar marking the days with departures.")
}
