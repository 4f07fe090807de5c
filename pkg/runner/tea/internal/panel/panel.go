// Package panel renders the boxed overlays drawn above the current screen.
package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// Model is a framed block with an optional title and body lines.
type Model struct {
	title      string
	lines      []string
	frameStyle lipgloss.Style
	titleStyle lipgloss.Style
}

// New returns a panel drawn with frame; the title uses title.
func New(frame, title lipgloss.Style) Model {
	return Model{
		frameStyle: frame,
		titleStyle: title,
	}
}

// SetContent replaces the title and body. An empty title is skipped.
func (m *Model) SetContent(title string, lines ...string) {
	m.title = title
	m.lines = lines
}

// Reset clears panel content.
func (m *Model) Reset() {
	m.title = ""
	m.lines = nil
}

// Empty reports whether there is nothing to draw.
func (m Model) Empty() bool {
	return m.title == "" && len(m.lines) == 0
}

// View returns the rendered panel, or "" when empty.
func (m Model) View() string {
	if m.Empty() {
		return ""
	}
	var content []string
	if m.title != "" {
		content = append(content, m.titleStyle.Render(m.title))
	}
	content = append(content, m.lines...)
	return m.frameStyle.Render(strings.Join(content, "\n"))
}
