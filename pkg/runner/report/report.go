// Package report summarises returns over a time window.
package report

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/printers"
)

// Report prints the distance driven per vehicle between Since and Until.
type Report struct {
	App      *app.Service
	Since    time.Time
	Until    time.Time
	Calendar bool
	Printer  printers.PrettyPrint
}

func (r *Report) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("can not report, no fleet service")
	}
	if err := r.App.Sync(ctx); err != nil {
		return err
	}
	r.Printer.Report(r.App.Report(r.Since, r.Until))
	if r.Calendar {
		r.Printer.Calendar(r.Until, r.App.History())
	}
	return nil
}
