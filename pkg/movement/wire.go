package movement

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoLayout matches the instants written by the spreadsheet scripts.
const isoLayout = "2006-01-02T15:04:05.000Z"

// Wire is a spreadsheet row as exchanged with the gateway. Field presence
// decides the movement state only here; everything else works on Record.
type Wire struct {
	ID          string `json:"id,omitempty"`
	Vehicle     string `json:"veiculo"`
	Driver      string `json:"motorista"`
	Escort      string `json:"seguranca"`
	OdometerOut *int   `json:"kmSaida,omitempty"`
	Destination string `json:"destino,omitempty"`
	DepartedAt  string `json:"dataSaida,omitempty"`
	Status      Status `json:"status"`
	OdometerIn  *int   `json:"kmRetorno,omitempty"`
	Distance    *int   `json:"kmRodado,omitempty"`
	ReturnedAt  string `json:"dataRetorno,omitempty"`
}

// UnmarshalJSON tolerates the loose typing of spreadsheet cells: numbers
// may arrive as strings, empty cells as "" or null.
func (w *Wire) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          json.RawMessage `json:"id"`
		Vehicle     json.RawMessage `json:"veiculo"`
		Driver      json.RawMessage `json:"motorista"`
		Escort      json.RawMessage `json:"seguranca"`
		OdometerOut json.RawMessage `json:"kmSaida"`
		Destination json.RawMessage `json:"destino"`
		DepartedAt  json.RawMessage `json:"dataSaida"`
		Status      json.RawMessage `json:"status"`
		OdometerIn  json.RawMessage `json:"kmRetorno"`
		Distance    json.RawMessage `json:"kmRodado"`
		ReturnedAt  json.RawMessage `json:"dataRetorno"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var out Wire
	var err error
	for _, f := range []struct {
		raw json.RawMessage
		dst *string
	}{
		{raw.ID, &out.ID},
		{raw.Vehicle, &out.Vehicle},
		{raw.Driver, &out.Driver},
		{raw.Escort, &out.Escort},
		{raw.Destination, &out.Destination},
		{raw.DepartedAt, &out.DepartedAt},
		{raw.ReturnedAt, &out.ReturnedAt},
	} {
		if *f.dst, err = cellString(f.raw); err != nil {
			return err
		}
	}
	status, err := cellString(raw.Status)
	if err != nil {
		return err
	}
	out.Status = Status(status)

	for _, f := range []struct {
		name string
		raw  json.RawMessage
		dst  **int
	}{
		{"kmSaida", raw.OdometerOut, &out.OdometerOut},
		{"kmRetorno", raw.OdometerIn, &out.OdometerIn},
		{"kmRodado", raw.Distance, &out.Distance},
	} {
		if *f.dst, err = cellInt(f.raw); err != nil {
			return fmt.Errorf("movement: %s: %w", f.name, err)
		}
	}

	*w = out
	return nil
}

func cellString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	// Numbers and booleans are kept verbatim (e.g. numeric plate ids).
	return string(raw), nil
}

func cellInt(raw json.RawMessage) (*int, error) {
	s, err := cellString(raw)
	if err != nil || s == "" {
		return nil, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	n := int(f)
	return &n, nil
}

// FormatTime renders t the way the gateway stores instants.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout)
}

// timeLayouts are tried in order. Zone-less layouts are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
}

// ParseTime parses a gateway instant in any of the layouts sheets produce.
// Empty input yields the zero time.
func ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("movement: unrecognized time %q", v)
}

// FromWire converts a row into a Record. Rows with status FORA are
// outbound; DISPONÍVEL rows are completed. Rows with any other status are
// classified by the presence of a return odometer. Timestamps only serve
// display, so one that can not be parsed is left zero and reported through
// the error while the record is still returned.
func FromWire(w Wire) (Record, error) {
	var errs []error
	departed, err := ParseTime(w.DepartedAt)
	if err != nil {
		errs = append(errs, fmt.Errorf("dataSaida: %w", err))
	}
	d := Departure{
		Vehicle:     w.Vehicle,
		Driver:      w.Driver,
		Escort:      w.Escort,
		Odometer:    intOrZero(w.OdometerOut),
		Destination: w.Destination,
		At:          departed,
	}

	out := w.Status == StatusOut || (w.Status != StatusAvailable && w.OdometerIn == nil)
	if out {
		return Outbound{RowID: w.ID, Departure: d}, errors.Join(errs...)
	}

	returned, err := ParseTime(w.ReturnedAt)
	if err != nil {
		errs = append(errs, fmt.Errorf("dataRetorno: %w", err))
	}
	a := Arrival{
		Driver:      w.Driver,
		Escort:      w.Escort,
		Odometer:    intOrZero(w.OdometerIn),
		HasOdometer: w.OdometerIn != nil,
		At:          returned,
	}
	switch {
	case w.Distance != nil:
		a.Distance = *w.Distance
	case a.HasOdometer:
		a.Distance = a.Odometer - d.Odometer
	}
	return Completed{RowID: w.ID, Departure: d, Arrival: a}, errors.Join(errs...)
}

// ToWire renders the full row for r.
func ToWire(r Record) Wire {
	d := r.Start()
	w := Wire{
		ID:          r.ID(),
		Vehicle:     d.Vehicle,
		Driver:      d.Driver,
		Escort:      d.Escort,
		OdometerOut: intPtr(d.Odometer),
		Destination: d.Destination,
		DepartedAt:  FormatTime(d.At),
		Status:      r.Status(),
	}
	if c, ok := r.(Completed); ok {
		w.Driver = c.Arrival.Driver
		w.Escort = c.Arrival.Escort
		if c.Arrival.HasOdometer {
			w.OdometerIn = intPtr(c.Arrival.Odometer)
		}
		w.Distance = intPtr(c.Arrival.Distance)
		w.ReturnedAt = FormatTime(c.Arrival.At)
	}
	return w
}

// SavePayload renders what the gateway expects for a save call. A new
// departure carries the full row. A completion carries only the vehicle
// key and the return fields; the gateway updates the open row in place.
func SavePayload(r Record) Wire {
	switch v := r.(type) {
	case Completed:
		return Wire{
			Vehicle:    v.Departure.Vehicle,
			Driver:     v.Arrival.Driver,
			Escort:     v.Arrival.Escort,
			Status:     StatusAvailable,
			OdometerIn: intPtr(v.Arrival.Odometer),
			Distance:   intPtr(v.Arrival.Distance),
			ReturnedAt: FormatTime(v.Arrival.At),
		}
	default:
		w := ToWire(r)
		w.ID = ""
		return w
	}
}

// DecodeHistory decodes a JSON array of rows, keeping positional order.
// Every row is kept; warn receives the index of rows with fields that could
// not be interpreted and were left zero.
func DecodeHistory(b []byte, warn func(index int, err error)) (History, error) {
	var rows []Wire
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("movement: decode history: %w", err)
	}
	h := make(History, 0, len(rows))
	for i, row := range rows {
		r, err := FromWire(row)
		if err != nil && warn != nil {
			warn(i, err)
		}
		h = append(h, r)
	}
	return h, nil
}

func intPtr(n int) *int { return &n }

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
