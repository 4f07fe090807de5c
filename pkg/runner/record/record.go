// Package record provides the runners that register departures and
// returns from the command line.
package record

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/printers"
	"tableflip.dev/frota/pkg/prompt"
)

// ErrCancelled is returned when a regression warning is declined.
var ErrCancelled = errors.New("cancelled")

// Departure registers a vehicle leaving.
type Departure struct {
	App     *app.Service
	Form    app.DepartureForm
	Confirm prompt.Confirmer
	Printer printers.PrettyPrint
}

func (d *Departure) Do(ctx context.Context) error {
	if d.App == nil {
		return errors.New("can not record departure, no fleet service")
	}
	if err := d.App.Sync(ctx); err != nil {
		return err
	}
	if km, ok := d.App.PreviousOdometer(d.Form.Vehicle); ok {
		_, _ = fmt.Fprintf(d.Printer.Writer(), "previous km: %d\n", km)
	}
	plan, err := d.App.PlanDeparture(ctx, d.Form)
	if err != nil {
		return err
	}
	return submit(ctx, d.App, plan, d.Confirm, &d.Printer)
}

// Return registers a vehicle coming back. Empty driver or escort default
// to the departure values.
type Return struct {
	App     *app.Service
	Form    app.ReturnForm
	Confirm prompt.Confirmer
	Printer printers.PrettyPrint
}

func (r *Return) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("can not record return, no fleet service")
	}
	if err := r.App.Sync(ctx); err != nil {
		return err
	}
	if out, ok := r.App.OpenMovement(r.Form.Vehicle); ok {
		if r.Form.Driver == "" {
			r.Form.Driver = out.Departure.Driver
		}
		if r.Form.Escort == "" {
			r.Form.Escort = out.Departure.Escort
		}
	}
	plan, err := r.App.PlanReturn(ctx, r.Form)
	if err != nil {
		return err
	}
	return submit(ctx, r.App, plan, r.Confirm, &r.Printer)
}

func submit(ctx context.Context, svc *app.Service, plan *app.Plan, confirm prompt.Confirmer, pp *printers.PrettyPrint) error {
	if plan.NeedsConfirmation() {
		pp.Regression(plan.Warning)
		if confirm == nil {
			return app.ErrUnconfirmed
		}
		ok, err := confirm.Confirm("Record anyway?")
		if err != nil {
			return err
		}
		if !ok {
			return ErrCancelled
		}
		plan.Confirm()
	}

	rec, err := svc.Submit(ctx, plan)
	if err != nil {
		return err
	}
	pp.Card(rec)
	return nil
}
