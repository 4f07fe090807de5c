package sheet

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/movement"
)

func seeds() movement.Lists {
	return movement.Lists{
		Vehicles: []string{"Truck-1", " ", "Van-2"},
		Drivers:  []string{"Ana"},
		Escorts:  []string{"Bia"},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *Sheet) {
	t.Helper()
	sh, err := Open(t.TempDir(), seeds())
	if err != nil {
		t.Fatalf("open sheet: %v", err)
	}
	srv := httptest.NewServer((&Server{Sheet: sh}).Handler())
	t.Cleanup(srv.Close)
	return srv, sh
}

func TestSheetSaveCompletesLatestOpenRow(t *testing.T) {
	sh, err := Open(t.TempDir(), seeds())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := sh.Lists().Vehicles; len(got) != 2 {
		t.Fatalf("expected blank seeds to be dropped, got %v", got)
	}

	km := 1000
	first, err := sh.Save(movement.Wire{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", OdometerOut: &km, Status: movement.StatusOut})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected appended row to get an id")
	}

	in, dist := 1050, 50
	done, err := sh.Save(movement.Wire{Vehicle: "Truck-1", Driver: "Caio", Status: movement.StatusAvailable, OdometerIn: &in, Distance: &dist})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.ID != first.ID || done.Driver != "Caio" || done.Escort != "Bia" {
		t.Fatalf("unexpected completed row %+v", done)
	}

	if _, err := sh.Save(movement.Wire{Vehicle: "Truck-1", Status: movement.StatusAvailable}); !errors.Is(err, ErrNoOpenRow) {
		t.Fatalf("expected ErrNoOpenRow, got %v", err)
	}

	rows, err := sh.Rows()
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != movement.StatusAvailable {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestSheetKeepsOrderAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	sh, err := Open(dir, seeds())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, v := range []string{"A", "B", "C"} {
		if _, err := sh.Save(movement.Wire{Vehicle: v}); err != nil {
			t.Fatalf("save %s: %v", v, err)
		}
	}

	again, err := Open(dir, seeds())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := again.Save(movement.Wire{Vehicle: "D"}); err != nil {
		t.Fatalf("save D: %v", err)
	}
	rows, err := again.Rows()
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	var got []string
	for _, r := range rows {
		got = append(got, r.Vehicle)
	}
	if strings.Join(got, ",") != "A,B,C,D" {
		t.Fatalf("unexpected order %v", got)
	}

	if err := again.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if again.Len() != 0 {
		t.Fatalf("expected empty sheet after clear")
	}
	if len(again.Lists().Drivers) != 1 {
		t.Fatalf("clear must keep the reference lists")
	}
}

func TestServerSpeaksGatewayProtocol(t *testing.T) {
	srv, _ := newTestServer(t)
	ctx := context.Background()
	c := gateway.New(srv.URL + "/exec")

	lists, err := c.Init(ctx)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if lists == nil || lists.Vehicles[0] != "Truck-1" {
		t.Fatalf("unexpected init lists %+v", lists)
	}

	out := movement.NewOutbound(movement.Departure{Vehicle: "Truck-1", Driver: "Ana", Escort: "Bia", Odometer: 1000, Destination: "Depot", At: time.Now()})
	if err := c.Save(ctx, out); err != nil {
		t.Fatalf("save departure: %v", err)
	}
	if err := c.Save(ctx, out.Complete("Ana", "Bia", 1050, time.Now())); err != nil {
		t.Fatalf("save return: %v", err)
	}

	h, err := c.History(ctx)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(h) != 1 {
		t.Fatalf("expected one row, got %d", len(h))
	}
	done, ok := h[0].(movement.Completed)
	if !ok || done.Arrival.Distance != 50 || done.ID() == "" {
		t.Fatalf("unexpected record %#v", h[0])
	}

	if err := c.Save(ctx, out.Complete("Ana", "Bia", 1100, time.Now())); !errors.Is(err, gateway.ErrRejected) {
		t.Fatalf("expected rejection for vehicle not out, got %v", err)
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if h, _ := c.History(ctx); len(h) != 0 {
		t.Fatalf("expected empty history after clear")
	}
}

func TestServerExposesMetricsAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	res, err := http.Get(srv.URL + "/exec?action=nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()

	res, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	if !strings.Contains(string(body), `frota_gateway_actions_total{action="nope",result="rejected"} 1`) {
		t.Fatalf("expected rejected action counter in metrics:\n%s", body)
	}

	res, err = http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("unexpected health status %d", res.StatusCode)
	}
}
