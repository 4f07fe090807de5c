package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/movement"
	"tableflip.dev/frota/pkg/store"
)

type memorySettings struct {
	mu       sync.Mutex
	endpoint string
}

func (m *memorySettings) Endpoint() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endpoint, m.endpoint != ""
}

func (m *memorySettings) SetEndpoint(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.endpoint = url
	return nil
}

func (m *memorySettings) Watch(context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

// memoryGateway mimics the spreadsheet: returns update the open row.
type memoryGateway struct {
	mu      sync.Mutex
	lists   movement.Lists
	rows    movement.History
	initErr error
	listErr error
	histErr error
	saveErr error
	saves   int
	clears  int
}

func (m *memoryGateway) Lists(context.Context) (movement.Lists, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return movement.Lists{}, m.listErr
	}
	return m.lists, nil
}

func (m *memoryGateway) History(context.Context) (movement.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.histErr != nil {
		return nil, m.histErr
	}
	return append(movement.History(nil), m.rows...), nil
}

func (m *memoryGateway) Init(context.Context) (*movement.Lists, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initErr != nil {
		return nil, m.initErr
	}
	l := m.lists
	return &l, nil
}

func (m *memoryGateway) Save(_ context.Context, r movement.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	if c, ok := r.(movement.Completed); ok {
		for i := len(m.rows) - 1; i >= 0; i-- {
			if o, ok := m.rows[i].(movement.Outbound); ok && o.Vehicle() == c.Vehicle() {
				m.rows[i] = c
				return nil
			}
		}
		return errors.New("no open row")
	}
	m.rows = append(m.rows, r)
	return nil
}

func (m *memoryGateway) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	m.rows = nil
	return nil
}

func newTestService(t *testing.T, gw *memoryGateway) *Service {
	t.Helper()
	settings := &memorySettings{endpoint: "https://sheet.test/exec"}
	svc := New(settings, func(string) gateway.Gateway { return gw }, nil)
	svc.Now = func() time.Time { return time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC) }
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return svc
}

func fleet() *memoryGateway {
	return &memoryGateway{lists: movement.Lists{
		Vehicles: []string{"Truck-1"},
		Drivers:  []string{"Ana"},
		Escorts:  []string{"Bia"},
	}}
}

func depart(t *testing.T, svc *Service, vehicle, km string) movement.Record {
	t.Helper()
	ctx := context.Background()
	plan, err := svc.PlanDeparture(ctx, DepartureForm{Vehicle: vehicle, Driver: "Ana", Escort: "Bia", Odometer: km, Destination: "Depot"})
	if err != nil {
		t.Fatalf("plan departure: %v", err)
	}
	rec, err := svc.Submit(ctx, plan)
	if err != nil {
		t.Fatalf("submit departure: %v", err)
	}
	return rec
}

func TestDepartureThenReturn(t *testing.T) {
	gw := fleet()
	svc := newTestService(t, gw)
	ctx := context.Background()

	rec := depart(t, svc, "Truck-1", "1000")
	if rec.Status() != movement.StatusOut || rec.Start().At.IsZero() {
		t.Fatalf("unexpected departure %+v", rec)
	}
	h := svc.History()
	if len(h) != 1 {
		t.Fatalf("expected one record, got %d", len(h))
	}
	out, ok := h[0].(movement.Outbound)
	if !ok || out.Departure.Odometer != 1000 {
		t.Fatalf("expected outbound with odometer 1000, got %#v", h[0])
	}

	o, ok := svc.OpenMovement("Truck-1")
	if !ok || o.Departure.Driver != "Ana" {
		t.Fatalf("expected open movement to prefill driver")
	}

	plan, err := svc.PlanReturn(ctx, ReturnForm{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", Odometer: "1050"})
	if err != nil {
		t.Fatalf("plan return: %v", err)
	}
	if plan.Warning != nil {
		t.Fatalf("unexpected warning %v", plan.Warning.Message())
	}
	if _, err := svc.Submit(ctx, plan); err != nil {
		t.Fatalf("submit return: %v", err)
	}

	h = svc.History()
	if len(h) != 1 {
		t.Fatalf("return must update, not append; got %d records", len(h))
	}
	done, ok := h[0].(movement.Completed)
	if !ok || done.Arrival.Distance != 50 || done.Status() != movement.StatusAvailable {
		t.Fatalf("expected completed with distance 50, got %#v", h[0])
	}
}

func TestDuplicateDepartureRejected(t *testing.T) {
	gw := fleet()
	svc := newTestService(t, gw)
	depart(t, svc, "Truck-1", "1000")

	_, err := svc.PlanDeparture(context.Background(), DepartureForm{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", Odometer: "1100", Destination: "Port"})
	if !errors.Is(err, ErrVehicleOut) {
		t.Fatalf("expected ErrVehicleOut, got %v", err)
	}
	if gw.saves != 1 || len(svc.History()) != 1 {
		t.Fatalf("rejected departure must not create a record")
	}
}

func TestMissingFields(t *testing.T) {
	svc := newTestService(t, fleet())

	_, err := svc.PlanDeparture(context.Background(), DepartureForm{Vehicle: "Truck-1", Driver: "  ", Odometer: "12a"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %T", err)
	}
	if len(fe.Missing) != 3 || len(fe.Invalid) != 1 || fe.Invalid[0] != "odometer" {
		t.Fatalf("unexpected field error %+v", fe)
	}

	_, err = svc.PlanReturn(context.Background(), ReturnForm{Vehicle: "Truck-1"})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields for return, got %v", err)
	}
}

func TestReturnRequiresOpenMovement(t *testing.T) {
	svc := newTestService(t, fleet())
	_, err := svc.PlanReturn(context.Background(), ReturnForm{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", Odometer: "10"})
	if !errors.Is(err, ErrNotOut) {
		t.Fatalf("expected ErrNotOut, got %v", err)
	}
}

func TestOdometerRegressionNeedsConfirmation(t *testing.T) {
	gw := fleet()
	svc := newTestService(t, gw)
	ctx := context.Background()

	depart(t, svc, "Truck-1", "1000")

	plan, err := svc.PlanReturn(ctx, ReturnForm{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", Odometer: "990"})
	if err != nil {
		t.Fatalf("plan return: %v", err)
	}
	if plan.Warning == nil || plan.Warning.Reference != 1000 {
		t.Fatalf("expected regression against departure odometer, got %+v", plan.Warning)
	}
	if _, err := svc.Submit(ctx, plan); !errors.Is(err, ErrUnconfirmed) {
		t.Fatalf("expected ErrUnconfirmed, got %v", err)
	}
	plan.Confirm()
	if _, err := svc.Submit(ctx, plan); err != nil {
		t.Fatalf("submit confirmed: %v", err)
	}
	done := svc.History()[0].(movement.Completed)
	if done.Arrival.Distance != -10 {
		t.Fatalf("expected distance -10 to be kept, got %d", done.Arrival.Distance)
	}

	if km, ok := svc.PreviousOdometer("Truck-1"); !ok || km != 990 {
		t.Fatalf("expected previous odometer 990, got %d (%v)", km, ok)
	}
	if svc.DepartureRegression("Truck-1", 990) != nil {
		t.Fatal("equal reading must not warn")
	}
	plan, err = svc.PlanDeparture(ctx, DepartureForm{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", Odometer: "980", Destination: "Depot"})
	if err != nil {
		t.Fatalf("plan departure: %v", err)
	}
	if plan.Warning == nil || !plan.Warning.Departure || plan.Warning.Reference != 990 {
		t.Fatalf("expected departure regression, got %+v", plan.Warning)
	}
}

func TestWriteFailureLeavesStateUntouched(t *testing.T) {
	gw := fleet()
	svc := newTestService(t, gw)
	gw.saveErr = errors.New("offline")

	plan, err := svc.PlanDeparture(context.Background(), DepartureForm{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", Odometer: "1", Destination: "Depot"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if _, err := svc.Submit(context.Background(), plan); err == nil {
		t.Fatal("expected save error")
	}
	if len(svc.History()) != 0 {
		t.Fatal("failed write must not change history")
	}
}

func TestDashboardShowsFourNewestFirst(t *testing.T) {
	gw := fleet()
	for _, v := range []string{"A", "B", "C", "D"} {
		gw.rows = append(gw.rows, movement.NewOutbound(movement.Departure{Vehicle: v}))
	}
	svc := newTestService(t, gw)
	if svc.HasMore() {
		t.Fatal("four records must not show the full history link")
	}

	gw.rows = append(gw.rows, movement.NewOutbound(movement.Departure{Vehicle: "E"}))
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	recent := svc.Recent()
	if len(recent) != DashboardSize || recent[0].Vehicle() != "E" || recent[3].Vehicle() != "B" {
		t.Fatalf("unexpected dashboard %v", recent)
	}
	if !svc.HasMore() {
		t.Fatal("five records must show the full history link")
	}
}

func TestClearKeepsLists(t *testing.T) {
	gw := fleet()
	svc := newTestService(t, gw)
	depart(t, svc, "Truck-1", "1000")

	if err := svc.ClearHistory(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(svc.History()) != 0 || gw.clears != 1 {
		t.Fatal("expected history to be empty after clear")
	}
	if got := svc.Lists().Vehicles; len(got) != 1 || got[0] != "Truck-1" {
		t.Fatalf("clear must keep reference lists, got %v", got)
	}
}

func TestRefreshReplacesCollectionsIndependently(t *testing.T) {
	gw := fleet()
	gw.rows = movement.History{movement.NewOutbound(movement.Departure{Vehicle: "Truck-1"})}
	svc := newTestService(t, gw)

	gw.listErr = errors.New("lists down")
	gw.rows = nil
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(svc.Lists().Vehicles) != 1 {
		t.Fatal("failed lists fetch must keep the previous lists")
	}
	if len(svc.History()) != 0 {
		t.Fatal("successful history fetch must replace the history")
	}
}

func TestReconnect(t *testing.T) {
	gw := fleet()
	settings := &memorySettings{}
	svc := New(settings, func(string) gateway.Gateway { return gw }, nil)
	ctx := context.Background()

	if svc.Connected() {
		t.Fatal("fresh service must be offline")
	}
	if err := svc.Refresh(ctx); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if err := svc.Reconnect(ctx, "   "); !errors.Is(err, ErrEmptyURL) {
		t.Fatalf("expected ErrEmptyURL, got %v", err)
	}

	gw.initErr = errors.New("bad sheet")
	if err := svc.Reconnect(ctx, "https://bad.test"); err == nil {
		t.Fatal("expected init failure")
	}
	if svc.Connected() {
		t.Fatal("failed reconnect must not cache the url")
	}

	gw.initErr = nil
	if err := svc.Reconnect(ctx, " https://good.test "); err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if url, ok := svc.Endpoint(); !ok || url != "https://good.test" {
		t.Fatalf("unexpected endpoint %q", url)
	}
	if len(svc.Lists().Vehicles) != 1 {
		t.Fatal("expected lists after reconnect")
	}
}

func TestReport(t *testing.T) {
	gw := fleet()
	day := func(d int) time.Time { return time.Date(2025, time.March, d, 12, 0, 0, 0, time.UTC) }
	mk := func(v string, from, to int, at time.Time) movement.Record {
		return movement.NewOutbound(movement.Departure{Vehicle: v, Odometer: from}).Complete("Ana", "Bia", to, at)
	}
	gw.rows = movement.History{
		mk("Van-2", 0, 10, day(1)),
		mk("Truck-1", 100, 150, day(2)),
		mk("Truck-1", 150, 170, day(3)),
		mk("Truck-1", 170, 200, day(9)),
		movement.NewOutbound(movement.Departure{Vehicle: "Car-3"}),
	}
	svc := newTestService(t, gw)

	res := svc.Report(day(5), day(1))
	if res.Total != 3 || res.Distance != 80 {
		t.Fatalf("unexpected totals %d/%d", res.Total, res.Distance)
	}
	if len(res.Sections) != 2 || res.Sections[0].Vehicle != "Truck-1" || res.Sections[0].Distance != 70 {
		t.Fatalf("unexpected sections %+v", res.Sections)
	}
	if len(res.Out) != 1 || res.Out[0] != "Car-3" {
		t.Fatalf("unexpected out vehicles %v", res.Out)
	}
}

func TestSyncSwallowsReadFailures(t *testing.T) {
	gw := fleet()
	svc := newTestService(t, gw)
	gw.histErr = errors.New("quota exceeded")
	if err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("sync should keep cached data, got %v", err)
	}

	offline := New(&memorySettings{}, nil, nil)
	if err := offline.Sync(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func decodeRows(t *testing.T, payload string) movement.History {
	t.Helper()
	h, err := movement.DecodeHistory([]byte(payload), nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return h
}

func TestLooseDepartureDateKeepsVehicleOut(t *testing.T) {
	gw := fleet()
	gw.rows = decodeRows(t, `[
		{"veiculo":"Truck-1","motorista":"Ana","seguranca":"Bia","kmSaida":1000,"destino":"Depot","dataSaida":"2025-03-03 08:00:00","status":"FORA"},
		{"veiculo":"Van-2","motorista":"Caio","seguranca":"Duda","kmSaida":50,"destino":"Port","dataSaida":"sometime","status":"FORA"}
	]`)
	svc := newTestService(t, gw)

	for _, vehicle := range []string{"Truck-1", "Van-2"} {
		_, err := svc.PlanDeparture(context.Background(), DepartureForm{Vehicle: vehicle, Driver: "Ana", Escort: "Bia", Odometer: "2000", Destination: "Port"})
		if !errors.Is(err, ErrVehicleOut) {
			t.Fatalf("%s: expected ErrVehicleOut, got %v", vehicle, err)
		}
	}
	if got := svc.OutVehicles(); len(got) != 2 {
		t.Fatalf("expected both vehicles out, got %v", got)
	}
}

func TestReturnWithoutReadingIsNotAReference(t *testing.T) {
	gw := fleet()
	gw.rows = decodeRows(t, `[
		{"veiculo":"Truck-1","motorista":"Ana","seguranca":"Bia","kmSaida":1000,"dataSaida":"2025-03-01T08:00:00.000Z","status":"DISPONÍVEL","kmRetorno":1050,"kmRodado":50,"dataRetorno":"2025-03-01T12:00:00.000Z"},
		{"veiculo":"Truck-1","motorista":"Ana","seguranca":"Bia","kmSaida":1050,"dataSaida":"2025-03-02T08:00:00.000Z","status":"DISPONÍVEL","kmRetorno":"","dataRetorno":"2025-03-02T12:00:00.000Z"}
	]`)
	svc := newTestService(t, gw)

	if km, ok := svc.PreviousOdometer("Truck-1"); !ok || km != 1050 {
		t.Fatalf("expected previous odometer 1050, got %d (%v)", km, ok)
	}
	if w := svc.DepartureRegression("Truck-1", 500); w == nil || w.Reference != 1050 {
		t.Fatalf("expected regression against 1050, got %+v", w)
	}
}

func TestReturnUsesLatestOpenRow(t *testing.T) {
	gw := fleet()
	gw.rows = decodeRows(t, `[
		{"veiculo":"Truck-1","motorista":"Ana","seguranca":"Bia","kmSaida":1000,"dataSaida":"2025-03-03T08:00:00.000Z","status":"FORA"},
		{"veiculo":"Truck-1","motorista":"Caio","seguranca":"Duda","kmSaida":1200,"dataSaida":"2025-03-03T09:00:00.000Z","status":"FORA"}
	]`)
	svc := newTestService(t, gw)
	ctx := context.Background()

	plan, err := svc.PlanReturn(ctx, ReturnForm{Vehicle: "Truck-1", Driver: "Caio", Escort: "Duda", Odometer: "1250"})
	if err != nil {
		t.Fatalf("plan return: %v", err)
	}
	if _, err := svc.Submit(ctx, plan); err != nil {
		t.Fatalf("submit: %v", err)
	}

	h := svc.History()
	if _, ok := h[0].(movement.Outbound); !ok {
		t.Fatalf("earlier open row should stay open, got %T", h[0])
	}
	done, ok := h[1].(movement.Completed)
	if !ok {
		t.Fatalf("latest open row should be closed, got %T", h[1])
	}
	if done.Arrival.Distance != 50 || done.Departure.Driver != "Caio" {
		t.Fatalf("distance should come from the latest departure, got %+v", done)
	}
}
