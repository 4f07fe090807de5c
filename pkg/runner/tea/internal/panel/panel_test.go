package panel

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
)

func TestViewJoinsTitleAndLines(t *testing.T) {
	p := New(lipgloss.NewStyle(), lipgloss.NewStyle())
	if p.View() != "" {
		t.Fatalf("empty panel should render nothing")
	}

	p.SetContent("SETTINGS", "", "Gateway url")
	got := p.View()
	if got != "SETTINGS\n\nGateway url" {
		t.Fatalf("unexpected view %q", got)
	}

	p.SetContent("", "Fill in all fields")
	if strings.Contains(p.View(), "SETTINGS") {
		t.Fatalf("title should be replaced, got %q", p.View())
	}

	p.Reset()
	if !p.Empty() {
		t.Fatalf("expected reset panel to be empty")
	}
}

func TestFrameWrapsContent(t *testing.T) {
	p := New(lipgloss.NewStyle().Border(lipgloss.NormalBorder()), lipgloss.NewStyle())
	p.SetContent("", "ok")
	if lines := strings.Split(p.View(), "\n"); len(lines) != 3 {
		t.Fatalf("expected a bordered single line, got %q", p.View())
	}
}
