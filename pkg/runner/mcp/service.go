// Package mcp provides the Model Context Protocol server integration for frota.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/movement"
)

// Service adapts the fleet service to MCP tools and resources.
type Service struct {
	App *app.Service
}

// ErrNeedsConfirmation is returned when an odometer regression must be
// confirmed by calling the tool again with confirm=true.
var ErrNeedsConfirmation = errors.New("odometer regression needs confirmation")

// MovementDTO is a transport-friendly projection of a movement.
type MovementDTO struct {
	ID          string `json:"id,omitempty"`
	Vehicle     string `json:"vehicle"`
	Status      string `json:"status"`
	Driver      string `json:"driver"`
	Escort      string `json:"escort"`
	Destination string `json:"destination,omitempty"`
	OdometerOut int    `json:"odometerOut"`
	DepartedAt  string `json:"departedAt,omitempty"`
	OdometerIn  *int   `json:"odometerIn,omitempty"`
	Distance    *int   `json:"distance,omitempty"`
	ReturnedAt  string `json:"returnedAt,omitempty"`
	InUse       bool   `json:"inUse"`
}

// NewService builds a service wrapper around the fleet service.
func NewService(svc *app.Service) *Service {
	return &Service{App: svc}
}

func (s *Service) sync(ctx context.Context) error {
	if s.App == nil {
		return errors.New("fleet service is not configured")
	}
	return s.App.Sync(ctx)
}

// ListHistory returns movements newest first. A positive limit caps the
// result.
func (s *Service) ListHistory(ctx context.Context, limit int) ([]MovementDTO, error) {
	if err := s.sync(ctx); err != nil {
		return nil, err
	}
	records := s.App.History().Reversed()
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return toDTOs(records), nil
}

// VehiclesOut returns the open movements.
func (s *Service) VehiclesOut(ctx context.Context) ([]MovementDTO, error) {
	if err := s.sync(ctx); err != nil {
		return nil, err
	}
	outs := s.App.History().OutRecords()
	out := make([]MovementDTO, 0, len(outs))
	for _, o := range outs {
		out = append(out, toDTO(o))
	}
	return out, nil
}

// ReferenceLists returns the vehicles, drivers and escorts.
func (s *Service) ReferenceLists(ctx context.Context) (movement.Lists, error) {
	if err := s.sync(ctx); err != nil {
		return movement.Lists{}, err
	}
	return s.App.Lists(), nil
}

// RecordDeparture registers a departure.
func (s *Service) RecordDeparture(ctx context.Context, form app.DepartureForm, confirm bool) (MovementDTO, error) {
	if err := s.sync(ctx); err != nil {
		return MovementDTO{}, err
	}
	plan, err := s.App.PlanDeparture(ctx, form)
	if err != nil {
		return MovementDTO{}, err
	}
	return s.submit(ctx, plan, confirm)
}

// RecordReturn registers a return. An empty driver or escort defaults to
// the one recorded at departure.
func (s *Service) RecordReturn(ctx context.Context, form app.ReturnForm, confirm bool) (MovementDTO, error) {
	if err := s.sync(ctx); err != nil {
		return MovementDTO{}, err
	}
	if out, ok := s.App.OpenMovement(form.Vehicle); ok {
		if form.Driver == "" {
			form.Driver = out.Departure.Driver
		}
		if form.Escort == "" {
			form.Escort = out.Departure.Escort
		}
	}
	plan, err := s.App.PlanReturn(ctx, form)
	if err != nil {
		return MovementDTO{}, err
	}
	return s.submit(ctx, plan, confirm)
}

func (s *Service) submit(ctx context.Context, plan *app.Plan, confirm bool) (MovementDTO, error) {
	if plan.NeedsConfirmation() {
		if !confirm {
			return MovementDTO{}, fmt.Errorf("%w: %s", ErrNeedsConfirmation, plan.Warning.Message())
		}
		plan.Confirm()
	}
	rec, err := s.App.Submit(ctx, plan)
	if err != nil {
		return MovementDTO{}, err
	}
	return toDTO(rec), nil
}

func toDTOs(records []movement.Record) []MovementDTO {
	out := make([]MovementDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toDTO(r))
	}
	return out
}

func toDTO(r movement.Record) MovementDTO {
	d := r.Start()
	dto := MovementDTO{
		ID:          r.ID(),
		Vehicle:     d.Vehicle,
		Status:      string(r.Status()),
		Driver:      d.Driver,
		Escort:      d.Escort,
		Destination: d.Destination,
		OdometerOut: d.Odometer,
		DepartedAt:  movement.FormatTime(d.At),
		InUse:       true,
	}
	if c, ok := r.(movement.Completed); ok {
		in, dist := c.Arrival.Odometer, c.Arrival.Distance
		dto.Driver = c.Driver()
		if c.Arrival.Escort != "" {
			dto.Escort = c.Arrival.Escort
		}
		if c.Arrival.HasOdometer {
			dto.OdometerIn = &in
		}
		dto.Distance = &dist
		dto.ReturnedAt = movement.FormatTime(c.Arrival.At)
		dto.InUse = false
	}
	return dto
}
