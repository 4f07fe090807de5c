package movement

// History is the gateway's movement log in append order.
type History []Record

// OutRecords lists every outbound record, in append order.
func (h History) OutRecords() []Outbound {
	out := make([]Outbound, 0)
	for _, r := range h {
		if o, ok := r.(Outbound); ok {
			out = append(out, o)
		}
	}
	return out
}

// OutVehicles lists the vehicles that are currently out.
func (h History) OutVehicles() []string {
	outs := h.OutRecords()
	names := make([]string, 0, len(outs))
	for _, o := range outs {
		names = append(names, o.Vehicle())
	}
	return names
}

// FindOut returns the latest appended outbound record for vehicle. The
// gateway closes the same row on return.
func (h History) FindOut(vehicle string) (Outbound, bool) {
	for i := len(h) - 1; i >= 0; i-- {
		if o, ok := h[i].(Outbound); ok && o.Vehicle() == vehicle {
			return o, true
		}
	}
	return Outbound{}, false
}

// IsOut reports whether vehicle has an outbound record.
func (h History) IsOut(vehicle string) bool {
	_, ok := h.FindOut(vehicle)
	return ok
}

// LastReturnOdometer is the return odometer of the vehicle's completed
// movement with the latest return time. Rows closed without a reading are
// ignored. When several share that time the earliest appended wins.
func (h History) LastReturnOdometer(vehicle string) (int, bool) {
	var (
		best  Completed
		found bool
	)
	for _, r := range h {
		c, ok := r.(Completed)
		if !ok || c.Vehicle() != vehicle || !c.Arrival.HasOdometer {
			continue
		}
		if !found || c.Arrival.At.After(best.Arrival.At) {
			best = c
			found = true
		}
	}
	if !found {
		return 0, false
	}
	return best.Arrival.Odometer, true
}

// Recent returns up to n of the most recently appended records, newest
// first. Order is positional, not by timestamp.
func (h History) Recent(n int) []Record {
	if n <= 0 {
		return nil
	}
	start := len(h) - n
	if start < 0 {
		start = 0
	}
	return reverse(h[start:])
}

// Reversed returns every record, newest appended first.
func (h History) Reversed() []Record {
	return reverse(h)
}

func reverse(in []Record) []Record {
	out := make([]Record, len(in))
	for i, r := range in {
		out[len(in)-1-i] = r
	}
	return out
}
