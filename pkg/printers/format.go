package printers

import (
	"fmt"
	"time"

	"tableflip.dev/frota/pkg/movement"
)

// DateLayout is how movement dates are shown to people.
const DateLayout = "02/01/2006 15:04"

// Date formats t in local time, or "---" when unknown.
func Date(t time.Time) string {
	if t.IsZero() {
		return "---"
	}
	return t.Local().Format(DateLayout)
}

// Destination returns d, or "---" when empty.
func Destination(d string) string {
	if d == "" {
		return "---"
	}
	return d
}

// Usage is the right-hand column of a history card: the distance of a
// completed movement or an in-use marker.
func Usage(r movement.Record) string {
	if c, ok := r.(movement.Completed); ok {
		return fmt.Sprintf("%d km", c.Arrival.Distance)
	}
	return "IN USE"
}

// Driver is who drove the movement last.
func Driver(r movement.Record) string {
	if c, ok := r.(movement.Completed); ok {
		return c.Driver()
	}
	return r.Start().Driver
}
