package movement

import (
	"context"
	"errors"

	"github.com/looplab/fsm"
)

// Vehicle lifecycle states and events.
const (
	StateAvailable = "available"
	StateOut       = "out"

	EventDepart = "depart"
	EventReturn = "return"
)

var (
	// ErrAlreadyOut is returned when a vehicle that is out departs again.
	ErrAlreadyOut = errors.New("movement: vehicle is already out")
	// ErrNotOut is returned when a vehicle that is not out returns.
	ErrNotOut = errors.New("movement: vehicle is not out")
)

// Lifecycle tracks one vehicle through AVAILABLE -> OUT -> AVAILABLE.
type Lifecycle struct {
	Vehicle string
	fsm     *fsm.FSM
}

// LifecycleFor builds the lifecycle of vehicle from the current history.
func LifecycleFor(h History, vehicle string) *Lifecycle {
	initial := StateAvailable
	if h.IsOut(vehicle) {
		initial = StateOut
	}
	return &Lifecycle{
		Vehicle: vehicle,
		fsm: fsm.NewFSM(
			initial,
			fsm.Events{
				{Name: EventDepart, Src: []string{StateAvailable}, Dst: StateOut},
				{Name: EventReturn, Src: []string{StateOut}, Dst: StateAvailable},
			},
			fsm.Callbacks{},
		),
	}
}

// State is the current lifecycle state.
func (l *Lifecycle) State() string {
	return l.fsm.Current()
}

// Depart moves the vehicle out.
func (l *Lifecycle) Depart(ctx context.Context) error {
	return l.fire(ctx, EventDepart, ErrAlreadyOut)
}

// Return brings the vehicle back.
func (l *Lifecycle) Return(ctx context.Context) error {
	return l.fire(ctx, EventReturn, ErrNotOut)
}

func (l *Lifecycle) fire(ctx context.Context, event string, invalid error) error {
	err := l.fsm.Event(ctx, event)
	var ie fsm.InvalidEventError
	if errors.As(err, &ie) {
		return invalid
	}
	return err
}
