package app

import (
	"sort"
	"time"

	"tableflip.dev/frota/pkg/movement"
)

// ReportSection groups the completed movements of one vehicle.
type ReportSection struct {
	Vehicle   string
	Movements []movement.Completed
	Distance  int
}

// ReportResult summarises the movements returned within a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sections []ReportSection
	Total    int
	Distance int
	// Out lists the vehicles that are out right now.
	Out []string
}

// Report groups the completed movements returned between since and until
// by vehicle, sorted by vehicle name. Records without a return time are
// left out.
func (s *Service) Report(since, until time.Time) ReportResult {
	if since.After(until) {
		since, until = until, since
	}
	h := s.History()

	grouped := make(map[string]*ReportSection)
	res := ReportResult{Since: since, Until: until, Out: h.OutVehicles()}
	for _, r := range h {
		c, ok := r.(movement.Completed)
		if !ok || c.Arrival.At.IsZero() {
			continue
		}
		if c.Arrival.At.Before(since) || c.Arrival.At.After(until) {
			continue
		}
		sec, ok := grouped[c.Vehicle()]
		if !ok {
			sec = &ReportSection{Vehicle: c.Vehicle()}
			grouped[c.Vehicle()] = sec
		}
		sec.Movements = append(sec.Movements, c)
		sec.Distance += c.Arrival.Distance
		res.Total++
		res.Distance += c.Arrival.Distance
	}

	vehicles := make([]string, 0, len(grouped))
	for v := range grouped {
		vehicles = append(vehicles, v)
	}
	sort.Strings(vehicles)
	for _, v := range vehicles {
		res.Sections = append(res.Sections, *grouped[v])
	}
	return res
}
