package teaui

import (
	"context"
	"strings"
	"testing"
	"time"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/movement"
)

func offlineModel(gw *fakeGateway) (Model, *fakeSettings) {
	settings := &fakeSettings{}
	svc := app.New(settings, func(string) gateway.Gateway { return gw }, nil)
	return New(svc, Options{Toast: time.Hour}), settings
}

func TestReconnectCachesURLAndSyncs(t *testing.T) {
	gw := fleet()
	gw.rows = movement.History{movement.NewOutbound(movement.Departure{Vehicle: "Truck-1", Driver: "Ana"})}
	m, settings := offlineModel(gw)

	m = press(m, "s")
	m.url.SetValue("  https://sheet.test/exec  ")
	next, cmd := m.Update(key("enter"))
	m = run(t, next.(Model), cmd)

	if got, _ := settings.Endpoint(); got != "https://sheet.test/exec" {
		t.Fatalf("expected trimmed url cached, got %q", got)
	}
	if m.overlay != overlayNone {
		t.Fatalf("settings should close after a successful sync")
	}
	if got := m.footer.Toast(); got != "synced" {
		t.Fatalf("unexpected toast %q", got)
	}
	if got := m.depart.Options(fieldVehicle); len(got) != 2 {
		t.Fatalf("expected lists applied to the form, got %v", got)
	}
	if !strings.Contains(stripANSI(m.View()), "Truck-1") {
		t.Fatalf("history should be loaded after sync")
	}
}

func TestReconnectFailureKeepsURL(t *testing.T) {
	gw := fleet()
	gw.initErr = &gateway.RejectedError{Action: gateway.ActionInit, Message: "sheet not found"}
	m, settings := offlineModel(gw)
	settings.endpoint = "https://old.test/exec"

	m = press(m, "s")
	m.url.SetValue("https://new.test/exec")
	next, cmd := m.Update(key("enter"))
	m = run(t, next.(Model), cmd)

	if got, _ := settings.Endpoint(); got != "https://old.test/exec" {
		t.Fatalf("failed sync should keep the cached url, got %q", got)
	}
	if m.overlay != overlaySettings {
		t.Fatalf("settings should stay open on failure")
	}
	if got := m.footer.Toast(); got != "sheet not found" {
		t.Fatalf("expected gateway message toast, got %q", got)
	}
}

func TestReconnectEmptyURLAlerts(t *testing.T) {
	m, _ := offlineModel(fleet())
	m = press(m, "s")
	m.url.SetValue("   ")
	m = press(m, "enter")
	if m.overlay != overlayAlert {
		t.Fatalf("expected alert for an empty url")
	}
	m = press(m, "enter")
	if m.overlay != overlaySettings {
		t.Fatalf("closing the alert should return to settings")
	}
}

func TestClearHistoryAfterConfirmation(t *testing.T) {
	gw := fleet()
	gw.rows = movement.History{movement.NewOutbound(movement.Departure{Vehicle: "Truck-1", Driver: "Ana"})}
	m, _ := newTestModel(t, gw, Options{})

	m = press(m, "s")
	m = press(m, "ctrl+d")
	if m.overlay != overlayConfirm || m.confirmAction != confirmClear {
		t.Fatalf("expected clear confirmation")
	}
	m = press(m, "n")
	if m.overlay != overlaySettings || len(gw.rows) != 1 {
		t.Fatalf("declining should keep the history and return to settings")
	}

	m = press(m, "ctrl+d")
	next, cmd := m.Update(key("y"))
	m = run(t, next.(Model), cmd)
	if len(gw.rows) != 0 || len(m.svc.History()) != 0 {
		t.Fatalf("expected history cleared")
	}
	if len(m.svc.Lists().Vehicles) != 2 {
		t.Fatalf("lists should survive a clear")
	}
	if got := m.footer.Toast(); got != "history cleared" {
		t.Fatalf("unexpected toast %q", got)
	}
}

func TestToastExpiresOnlyForLatest(t *testing.T) {
	m, _ := newTestModel(t, fleet(), Options{})
	m.showToast(0, "first")
	stale := m.toastID
	m.showToast(0, "second")

	next, _ := m.Update(toastExpiredMsg{id: stale})
	m = next.(Model)
	if m.footer.Toast() != "second" {
		t.Fatalf("a stale timer should not hide the newer toast")
	}
	next, _ = m.Update(toastExpiredMsg{id: m.toastID})
	if next.(Model).footer.Toast() != "" {
		t.Fatalf("expected toast cleared")
	}
}

func TestSettingsChangeReloadsSilently(t *testing.T) {
	gw := fleet()
	m, settings := newTestModel(t, gw, Options{})
	ch, _ := settings.Watch(context.Background())

	next, cmd := m.Update(watchStartedMsg{ch: ch})
	m = next.(Model)
	if cmd == nil {
		t.Fatalf("expected a wait on settings events")
	}

	gw.mu.Lock()
	gw.rows = movement.History{movement.NewOutbound(movement.Departure{Vehicle: "Van-2", Driver: "Caio"})}
	gw.mu.Unlock()

	next, cmd = m.Update(settingsChangedMsg{})
	m = run(t, next.(Model), cmd)
	if m.loading {
		t.Fatalf("a settings reload is silent")
	}
	if !strings.Contains(stripANSI(m.View()), "Van-2") {
		t.Fatalf("expected reloaded history on screen")
	}
}

func TestSilentRefreshKey(t *testing.T) {
	gw := fleet()
	m, _ := newTestModel(t, gw, Options{})

	gw.mu.Lock()
	gw.rows = movement.History{movement.NewOutbound(movement.Departure{Vehicle: "Truck-1", Driver: "Ana"})}
	gw.mu.Unlock()

	next, cmd := m.Update(key("R"))
	m = run(t, next.(Model), cmd)
	if got := m.svc.OutVehicles(); len(got) != 1 {
		t.Fatalf("expected refreshed history, got %v", got)
	}
}
