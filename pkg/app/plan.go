package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/frota/pkg/movement"
)

// Regression describes an odometer reading below its reference value. It
// is advisory: the movement may still be recorded once confirmed.
type Regression struct {
	Vehicle   string
	Entered   int
	Reference int
	// Departure is true when Reference is the last return odometer, false
	// when it is the departure odometer of the open movement.
	Departure bool
}

// Message is the text shown to a person before they confirm.
func (r *Regression) Message() string {
	if r.Departure {
		return fmt.Sprintf("odometer %d is lower than the last return of %s (%d km)", r.Entered, r.Vehicle, r.Reference)
	}
	return fmt.Sprintf("odometer %d is lower than the departure reading of %s (%d km)", r.Entered, r.Vehicle, r.Reference)
}

// Plan is a validated movement waiting to be submitted. When Warning is set
// the plan must be confirmed first.
type Plan struct {
	Record  movement.Record
	Warning *Regression

	confirmed bool
}

// NeedsConfirmation reports whether Submit would refuse the plan.
func (p *Plan) NeedsConfirmation() bool {
	return p.Warning != nil && !p.confirmed
}

// Confirm accepts the regression warning, keeping the entered value.
func (p *Plan) Confirm() {
	p.confirmed = true
}

// PreviousOdometer is the reference reading shown when a vehicle is chosen
// for departure: its return odometer with the latest return time.
func (s *Service) PreviousOdometer(vehicle string) (int, bool) {
	return s.History().LastReturnOdometer(vehicle)
}

// DepartureRegression returns the inline warning for a departure reading,
// or nil.
func (s *Service) DepartureRegression(vehicle string, odometer int) *Regression {
	last, ok := s.PreviousOdometer(vehicle)
	if !ok || odometer >= last {
		return nil
	}
	return &Regression{Vehicle: vehicle, Entered: odometer, Reference: last, Departure: true}
}

// OpenMovement returns the outbound record a return would close.
func (s *Service) OpenMovement(vehicle string) (movement.Outbound, bool) {
	return s.History().FindOut(vehicle)
}

// ReturnRegression returns the inline warning for a return reading, or nil.
func (s *Service) ReturnRegression(vehicle string, odometer int) *Regression {
	out, ok := s.OpenMovement(vehicle)
	if !ok || odometer >= out.Departure.Odometer {
		return nil
	}
	return &Regression{Vehicle: vehicle, Entered: odometer, Reference: out.Departure.Odometer}
}

// PlanDeparture validates form against the cached history.
func (s *Service) PlanDeparture(ctx context.Context, form DepartureForm) (*Plan, error) {
	if err := validateForm(&form); err != nil {
		return nil, err
	}
	km, err := ParseOdometer(form.Odometer)
	if err != nil {
		return nil, err
	}

	h := s.History()
	if err := movement.LifecycleFor(h, form.Vehicle).Depart(ctx); err != nil {
		if errors.Is(err, movement.ErrAlreadyOut) {
			return nil, fmt.Errorf("%w: %s", ErrVehicleOut, form.Vehicle)
		}
		return nil, err
	}

	return &Plan{
		Record: movement.NewOutbound(movement.Departure{
			Vehicle:     form.Vehicle,
			Driver:      form.Driver,
			Escort:      form.Escort,
			Odometer:    km,
			Destination: form.Destination,
		}),
		Warning: s.DepartureRegression(form.Vehicle, km),
	}, nil
}

// PlanReturn validates form against the open movement of its vehicle.
func (s *Service) PlanReturn(ctx context.Context, form ReturnForm) (*Plan, error) {
	if err := validateForm(&form); err != nil {
		return nil, err
	}
	km, err := ParseOdometer(form.Odometer)
	if err != nil {
		return nil, err
	}

	h := s.History()
	if err := movement.LifecycleFor(h, form.Vehicle).Return(ctx); err != nil {
		if errors.Is(err, movement.ErrNotOut) {
			return nil, fmt.Errorf("%w: %s", ErrNotOut, form.Vehicle)
		}
		return nil, err
	}
	out, _ := h.FindOut(form.Vehicle)

	return &Plan{
		// Stamped on submit.
		Record:  out.Complete(form.Driver, form.Escort, km, time.Time{}),
		Warning: s.ReturnRegression(form.Vehicle, km),
	}, nil
}

// Submit stamps the plan with the current instant and sends it to the
// gateway. Cached state changes only through the refresh that follows a
// successful write.
func (s *Service) Submit(ctx context.Context, p *Plan) (movement.Record, error) {
	if p == nil || p.Record == nil {
		return nil, errors.New("app: empty plan")
	}
	if p.NeedsConfirmation() {
		return nil, ErrUnconfirmed
	}
	gw, err := s.client()
	if err != nil {
		return nil, err
	}

	rec := stamp(p.Record, s.now())
	if err := gw.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("app: save %s: %w", rec.Vehicle(), err)
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger().Warn("refresh after save failed", "error", err.Error())
	}
	return rec, nil
}

func stamp(r movement.Record, now time.Time) movement.Record {
	switch v := r.(type) {
	case movement.Outbound:
		v.Departure.At = now
		return v
	case movement.Completed:
		v.Arrival.At = now
		return v
	}
	return r
}
