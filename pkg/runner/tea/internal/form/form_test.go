package form

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/frota/pkg/runner/tea/internal/theme"
)

func keyPress(s string) tea.KeyPressMsg {
	switch s {
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func testForm() Form {
	return New("TEST",
		SelectField("vehicle", "Vehicle", []string{"Truck-1", "Van-2", "Vespa"}),
		NumberField("km", "Odometer", "0"),
		TextField("note", "Note", ""),
	)
}

func TestSelectCyclesAndJumps(t *testing.T) {
	f := testForm()
	if f.Value("vehicle") != "" {
		t.Fatalf("select should start empty")
	}
	f, _ = f.Update(keyPress("space"))
	if got := f.Value("vehicle"); got != "Truck-1" {
		t.Fatalf("expected first option, got %q", got)
	}
	f, _ = f.Update(keyPress("left"))
	if got := f.Value("vehicle"); got != "Vespa" {
		t.Fatalf("left should wrap to the last option, got %q", got)
	}
	f, _ = f.Update(keyPress("v"))
	if got := f.Value("vehicle"); got != "Van-2" {
		t.Fatalf("typing v should jump to the next v option, got %q", got)
	}
}

func TestFocusWrapsAndNumberFiltersInput(t *testing.T) {
	f := testForm()
	f, _ = f.Update(keyPress("tab"))
	if f.Focused() != "km" {
		t.Fatalf("expected km focused, got %q", f.Focused())
	}
	for _, r := range "1x2" {
		f, _ = f.Update(keyPress(string(r)))
	}
	if got := f.Value("km"); got != "12" {
		t.Fatalf("number field should drop non digits, got %q", got)
	}
	f, _ = f.Update(keyPress("up"))
	f, _ = f.Update(keyPress("up"))
	if f.Focused() != "note" {
		t.Fatalf("focus should wrap backwards, got %q", f.Focused())
	}
}

func TestSetValueAndOptions(t *testing.T) {
	f := testForm()
	f.SetValue("vehicle", "Bus-9")
	if got := f.Options("vehicle"); got[0] != "Bus-9" || f.Value("vehicle") != "Bus-9" {
		t.Fatalf("unknown value should be added and selected, got %v", got)
	}

	f.SetValue("vehicle", "Van-2")
	f.SetOptions("vehicle", []string{"Van-2", "Car-3"})
	if got := f.Value("vehicle"); got != "Van-2" {
		t.Fatalf("choice should survive new options, got %q", got)
	}
	f.SetOptions("vehicle", []string{"Car-3"})
	if got := f.Value("vehicle"); got != "" {
		t.Fatalf("choice should clear when no longer offered, got %q", got)
	}

	f.SetValue("note", "  spare tyre ")
	f.Reset()
	if got := f.Values(); got["note"] != "" || got["vehicle"] != "" || f.Focused() != "vehicle" {
		t.Fatalf("reset should clear values and focus the first field, got %v", got)
	}
}

func TestViewMarksFocusedField(t *testing.T) {
	f := testForm()
	out := f.View(theme.Default().Form)
	if !strings.Contains(out, "TEST") || !strings.Contains(out, "› ") {
		t.Fatalf("unexpected view:\n%s", out)
	}
	if !strings.Contains(out, "select…") {
		t.Fatalf("empty focused select should prompt:\n%s", out)
	}
}
