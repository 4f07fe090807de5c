// Package movement defines the vehicle movement records kept by the fleet
// gateway and the helpers used to reason about them.
package movement

import (
	"fmt"
	"strings"
	"time"
)

// Status is the gateway's view of a movement row.
type Status string

const (
	// StatusOut marks a vehicle that left and has not come back yet.
	StatusOut Status = "FORA"
	// StatusAvailable marks a closed movement.
	StatusAvailable Status = "DISPONÍVEL"
)

// String renders the status for people.
func (s Status) String() string {
	switch s {
	case StatusOut:
		return "OUT"
	case StatusAvailable:
		return "AVAILABLE"
	default:
		return string(s)
	}
}

// ParseStatus accepts both the gateway spelling and the display spelling.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(StatusOut), "OUT":
		return StatusOut, nil
	case string(StatusAvailable), "DISPONIVEL", "AVAILABLE":
		return StatusAvailable, nil
	}
	return "", fmt.Errorf("movement: unknown status %q", raw)
}

// Departure is the outbound leg of a movement.
type Departure struct {
	Vehicle     string
	Driver      string
	Escort      string
	Odometer    int
	Destination string
	At          time.Time
}

// Arrival is the inbound leg that closes a movement.
type Arrival struct {
	Driver   string
	Escort   string
	Odometer int
	// HasOdometer is false for rows closed without a return reading.
	HasOdometer bool
	// Distance is the arrival odometer minus the departure odometer as
	// recorded at submission. It may be negative.
	Distance int
	At       time.Time
}

// Record is either an Outbound or a Completed movement.
type Record interface {
	// ID is the gateway row id, if the gateway reports one.
	ID() string
	Vehicle() string
	Status() Status
	// Start returns the outbound leg.
	Start() Departure
	isRecord()
}

// Outbound is a vehicle that is currently out.
type Outbound struct {
	RowID     string
	Departure Departure
}

// Completed is a movement whose return has been recorded.
type Completed struct {
	RowID     string
	Departure Departure
	Arrival   Arrival
}

var (
	_ Record = Outbound{}
	_ Record = Completed{}
)

// NewOutbound creates an outbound record for d.
func NewOutbound(d Departure) Outbound {
	return Outbound{Departure: d}
}

func (o Outbound) ID() string       { return o.RowID }
func (o Outbound) Vehicle() string  { return o.Departure.Vehicle }
func (o Outbound) Status() Status   { return StatusOut }
func (o Outbound) Start() Departure { return o.Departure }
func (Outbound) isRecord()          {}

// Complete closes the movement. The distance is computed from the
// departure odometer and is not clamped.
func (o Outbound) Complete(driver, escort string, odometer int, at time.Time) Completed {
	return Completed{
		RowID:     o.RowID,
		Departure: o.Departure,
		Arrival: Arrival{
			Driver:   driver,
			Escort:   escort,
			Odometer: odometer,
			Distance: odometer - o.Departure.Odometer,
			At:       at,
		},
	}
}

func (c Completed) ID() string       { return c.RowID }
func (c Completed) Vehicle() string  { return c.Departure.Vehicle }
func (c Completed) Status() Status   { return StatusAvailable }
func (c Completed) Start() Departure { return c.Departure }
func (Completed) isRecord()          {}

// Driver returns who brought the vehicle back, falling back to who took it.
func (c Completed) Driver() string {
	if c.Arrival.Driver != "" {
		return c.Arrival.Driver
	}
	return c.Departure.Driver
}

// Lists are the reference lists used to populate the form choices.
type Lists struct {
	Vehicles []string `json:"veiculos"`
	Drivers  []string `json:"motoristas"`
	Escorts  []string `json:"segurancas"`
}

// Empty reports whether no list has any entry.
func (l Lists) Empty() bool {
	return len(l.Vehicles) == 0 && len(l.Drivers) == 0 && len(l.Escorts) == 0
}
