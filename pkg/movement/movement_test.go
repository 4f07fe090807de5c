package movement

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func at(hour int) time.Time {
	return time.Date(2025, time.March, 3, hour, 0, 0, 0, time.UTC)
}

func outbound(vehicle string, km int) Outbound {
	return NewOutbound(Departure{Vehicle: vehicle, Driver: "Ana", Escort: "Bia", Odometer: km, Destination: "Depot", At: at(8)})
}

func TestCompleteComputesDistance(t *testing.T) {
	c := outbound("Truck-1", 1000).Complete("Ana", "Bia", 1050, at(10))
	if c.Status() != StatusAvailable {
		t.Fatalf("expected AVAILABLE, got %s", c.Status())
	}
	if c.Arrival.Distance != 50 {
		t.Fatalf("expected distance 50, got %d", c.Arrival.Distance)
	}

	back := outbound("Truck-1", 1000).Complete("Ana", "Bia", 990, at(10))
	if back.Arrival.Distance != -10 {
		t.Fatalf("expected negative distance to be kept, got %d", back.Arrival.Distance)
	}
}

func TestFromWireClassifiesRows(t *testing.T) {
	payload := `[
		{"veiculo":"Truck-1","motorista":"Ana","seguranca":"Bia","kmSaida":"1000","destino":"Depot","dataSaida":"2025-03-03T08:00:00.000Z","status":"FORA"},
		{"veiculo":"Van-2","motorista":"Caio","seguranca":"Duda","kmSaida":500,"destino":"","dataSaida":"2025-03-02T08:00:00.000Z","status":"DISPONÍVEL","kmRetorno":560,"kmRodado":60,"dataRetorno":"2025-03-02T12:00:00.000Z"},
		{"veiculo":"Car-3","motorista":"Eva","seguranca":"Fabi","kmSaida":10,"dataSaida":"not a date","status":"FORA"},
		{"veiculo":"Car-4","motorista":"Gil","seguranca":"Hugo","kmSaida":20,"status":"","kmRetorno":"","kmRodado":null}
	]`

	var warned []int
	h, err := DecodeHistory([]byte(payload), func(i int, _ error) { warned = append(warned, i) })
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(warned) != 1 || warned[0] != 2 {
		t.Fatalf("expected a warning for row 2, got %v", warned)
	}
	if len(h) != 4 {
		t.Fatalf("expected every row to be kept, got %d", len(h))
	}

	o, ok := h[0].(Outbound)
	if !ok {
		t.Fatalf("expected first row to be outbound, got %T", h[0])
	}
	if o.Departure.Odometer != 1000 {
		t.Fatalf("expected string odometer to parse, got %d", o.Departure.Odometer)
	}

	c, ok := h[1].(Completed)
	if !ok {
		t.Fatalf("expected second row to be completed, got %T", h[1])
	}
	if c.Arrival.Odometer != 560 || c.Arrival.Distance != 60 {
		t.Fatalf("unexpected arrival %+v", c.Arrival)
	}

	bad, ok := h[2].(Outbound)
	if !ok || !bad.Departure.At.IsZero() || bad.Vehicle() != "Car-3" {
		t.Fatalf("expected FORA row with a bad date to stay out with a zero time, got %+v", h[2])
	}
	if !h.IsOut("Car-3") {
		t.Fatalf("vehicle with a bad departure date must still be out")
	}

	if _, ok := h[3].(Outbound); !ok {
		t.Fatalf("expected row without return fields to be outbound, got %T", h[3])
	}
}

func TestParseTimeAcceptsSheetLayouts(t *testing.T) {
	want := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	for _, in := range []string{
		"2025-03-03T08:00:00.000Z",
		"2025-03-03T08:00:00",
		"2025-03-03 08:00:00",
		"2025-03-03 08:00",
		"03/03/2025 08:00",
	} {
		got, err := ParseTime(in)
		if err != nil || !got.Equal(want) {
			t.Fatalf("ParseTime(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Fatalf("expected error for free text")
	}
}

func TestAvailableRowWithoutReading(t *testing.T) {
	payload := `[{"veiculo":"Truck-1","kmSaida":1000,"status":"DISPONÍVEL","kmRetorno":""}]`
	h, err := DecodeHistory([]byte(payload), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	c, ok := h[0].(Completed)
	if !ok {
		t.Fatalf("expected completed, got %T", h[0])
	}
	if c.Arrival.HasOdometer || c.Arrival.Distance != 0 {
		t.Fatalf("expected no reading and no distance, got %+v", c.Arrival)
	}
	if _, ok := h.LastReturnOdometer("Truck-1"); ok {
		t.Fatalf("row without a reading must not be a reference")
	}
	if w := ToWire(c); w.OdometerIn != nil {
		t.Fatalf("missing reading should stay missing on the wire, got %d", *w.OdometerIn)
	}
}

func TestFindOutPicksLatestOpenRow(t *testing.T) {
	h := History{outbound("Truck-1", 1000), outbound("Truck-1", 1200)}
	o, ok := h.FindOut("Truck-1")
	if !ok || o.Departure.Odometer != 1200 {
		t.Fatalf("expected latest open row, got %+v (%v)", o, ok)
	}
}

func TestSavePayloadForReturnIsKeyedByVehicle(t *testing.T) {
	c := outbound("Truck-1", 1000).Complete("Caio", "Bia", 1050, at(10))
	b, err := json.Marshal(SavePayload(c))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["veiculo"] != "Truck-1" || got["status"] != "DISPONÍVEL" {
		t.Fatalf("unexpected payload %s", b)
	}
	if got["kmRodado"] != float64(50) || got["kmRetorno"] != float64(1050) {
		t.Fatalf("unexpected return fields %s", b)
	}
	if _, ok := got["kmSaida"]; ok {
		t.Fatalf("return payload should not resend the departure odometer: %s", b)
	}
	if got["dataRetorno"] != "2025-03-03T10:00:00.000Z" {
		t.Fatalf("unexpected return time %v", got["dataRetorno"])
	}
}

func TestSavePayloadForDeparture(t *testing.T) {
	b, err := json.Marshal(SavePayload(outbound("Truck-1", 1000)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"veiculo":"Truck-1","motorista":"Ana","seguranca":"Bia","kmSaida":1000,"destino":"Depot","dataSaida":"2025-03-03T08:00:00.000Z","status":"FORA"}`
	if string(b) != want {
		t.Fatalf("payload mismatch\n got: %s\nwant: %s", b, want)
	}
}

func TestHistoryQueries(t *testing.T) {
	h := History{
		outbound("Truck-1", 900).Complete("Ana", "Bia", 950, at(9)),
		outbound("Truck-1", 950).Complete("Ana", "Bia", 1000, at(11)),
		outbound("Truck-1", 1000).Complete("Ana", "Bia", 975, at(10)),
		outbound("Van-2", 10),
		outbound("Car-3", 20),
	}

	if km, ok := h.LastReturnOdometer("Truck-1"); !ok || km != 1000 {
		t.Fatalf("expected last return odometer 1000, got %d (%v)", km, ok)
	}
	if _, ok := h.LastReturnOdometer("Van-2"); ok {
		t.Fatalf("vehicle without returns should have no reference odometer")
	}

	if got := h.OutVehicles(); len(got) != 2 || got[0] != "Van-2" || got[1] != "Car-3" {
		t.Fatalf("unexpected out vehicles %v", got)
	}
	if !h.IsOut("Van-2") || h.IsOut("Truck-1") {
		t.Fatalf("unexpected IsOut results")
	}

	recent := h.Recent(4)
	if len(recent) != 4 {
		t.Fatalf("expected 4 recent, got %d", len(recent))
	}
	if recent[0].Vehicle() != "Car-3" || recent[3].Vehicle() != "Truck-1" {
		t.Fatalf("recent should be newest appended first, got %s..%s", recent[0].Vehicle(), recent[3].Vehicle())
	}
	if got := (History{}).Recent(4); len(got) != 0 {
		t.Fatalf("expected empty recent for empty history")
	}

	all := h.Reversed()
	if len(all) != len(h) || all[0] != h[len(h)-1] {
		t.Fatalf("reversed should start with the last appended record")
	}
}

func TestLifecycleGuardsTransitions(t *testing.T) {
	ctx := context.Background()
	h := History{outbound("Truck-1", 1000)}

	lc := LifecycleFor(h, "Truck-1")
	if lc.State() != StateOut {
		t.Fatalf("expected out, got %s", lc.State())
	}
	if err := lc.Depart(ctx); !errors.Is(err, ErrAlreadyOut) {
		t.Fatalf("expected ErrAlreadyOut, got %v", err)
	}
	if err := lc.Return(ctx); err != nil {
		t.Fatalf("return: %v", err)
	}
	if lc.State() != StateAvailable {
		t.Fatalf("expected available after return, got %s", lc.State())
	}

	other := LifecycleFor(h, "Van-2")
	if err := other.Return(ctx); !errors.Is(err, ErrNotOut) {
		t.Fatalf("expected ErrNotOut, got %v", err)
	}
	if err := other.Depart(ctx); err != nil {
		t.Fatalf("depart: %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]Status{
		"FORA":       StatusOut,
		"out":        StatusOut,
		"DISPONÍVEL": StatusAvailable,
		"available":  StatusAvailable,
	} {
		got, err := ParseStatus(in)
		if err != nil || got != want {
			t.Fatalf("ParseStatus(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStatus("gone"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
