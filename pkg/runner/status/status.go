// Package status renders the dashboard on the command line.
package status

import (
	"context"
	"errors"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/printers"
)

// Status prints connectivity, the recent movements and the vehicles out.
type Status struct {
	App *app.Service
	Out io.Writer
}

func (s *Status) Do(ctx context.Context) error {
	if s.App == nil {
		return errors.New("can not show status, no fleet service")
	}
	pp := printers.PrettyPrint{Out: s.Out}

	endpoint, connected := s.App.Endpoint()
	pp.Connection(endpoint, connected)
	if !connected {
		_, _ = color.New(color.Faint).Fprintln(pp.Writer(), "run: frota connect <url>")
		return nil
	}
	if err := s.App.Sync(ctx); err != nil {
		return err
	}

	pp.NewLine()
	pp.Dashboard(s.App.Recent(), s.App.HasMore())
	if out := s.App.OutVehicles(); len(out) > 0 {
		pp.NewLine()
		pp.TitleWithCount("Out now", len(out))
		for _, v := range out {
			_, _ = color.New(color.FgYellow).Fprintf(pp.Writer(), "  %s\n", v)
		}
	}
	return nil
}
