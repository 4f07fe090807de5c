package bottombar

import (
	"fmt"
	"strings"

	"tableflip.dev/frota/pkg/runner/tea/internal/theme"
)

// Mode represents the UI mode that influences footer layout.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForm
	ModeCommand
	ModeModal
)

// ToastKind selects the toast colour.
type ToastKind int

const (
	ToastSuccess ToastKind = iota
	ToastError
)

// CommandOption describes a command palette entry.
type CommandOption struct {
	Name        string
	Description string
}

// Model tracks footer/help/status rendering state.
type Model struct {
	theme           theme.FooterTheme
	mode            Mode
	helpLine        string
	statusLine      string
	toast           string
	toastKind       ToastKind
	commandInput    string
	commandView     string
	commandOptions  []CommandOption
	filteredOptions []CommandOption
	maxSuggestions  int
}

// New returns a footer model with sensible defaults.
func New(t theme.FooterTheme) Model {
	return Model{
		theme:          t,
		mode:           ModeNormal,
		maxSuggestions: 6,
	}
}

// SetMode updates the visual mode.
func (m *Model) SetMode(mode Mode) {
	if m.mode == mode {
		return
	}
	m.mode = mode
	if mode != ModeCommand {
		m.filteredOptions = nil
		m.commandInput = ""
		m.commandView = ""
	}
}

// SetHelp sets the contextual help line.
func (m *Model) SetHelp(help string) {
	m.helpLine = help
}

// SetStatus sets the status message to display.
func (m *Model) SetStatus(status string) {
	m.statusLine = status
}

// SetToast shows text until ClearToast is called.
func (m *Model) SetToast(kind ToastKind, text string) {
	m.toastKind = kind
	m.toast = text
}

// ClearToast hides the toast.
func (m *Model) ClearToast() {
	m.toast = ""
}

// Toast returns the visible toast text, if any.
func (m Model) Toast() string {
	return m.toast
}

// SetCommandDefinitions configures the available command palette entries.
func (m *Model) SetCommandDefinitions(cmds []CommandOption) {
	m.commandOptions = cmds
	m.filterSuggestions(m.commandInput)
}

// UpdateCommandInput refreshes the command palette filter and rendered line.
func (m *Model) UpdateCommandInput(value string, view string) {
	m.commandInput = value
	m.commandView = ":" + view
	m.filterSuggestions(value)
}

// Height reports the number of lines consumed by the footer.
func (m Model) Height() int {
	_, h := m.View()
	return h
}

// View renders the footer string and reports lines consumed.
func (m Model) View() (string, int) {
	var lines []string
	if m.toast != "" {
		style := m.theme.ToastSuccess
		prefix := "✓"
		if m.toastKind == ToastError {
			style = m.theme.ToastError
			prefix = "!"
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s %s", prefix, strings.ToUpper(m.toast))))
	}
	switch m.mode {
	case ModeCommand:
		cmd := m.renderCommandMode()
		lines = append(lines, cmd...)
	default:
		lines = append(lines, m.renderStatusLine())
	}
	return strings.Join(lines, "\n"), len(lines)
}

func (m Model) renderStatusLine() string {
	var segments []string
	if m.helpLine != "" {
		segments = append(segments, m.theme.Help.Render(m.helpLine))
	}
	if m.statusLine != "" {
		segments = append(segments, m.theme.Status.Render(m.statusLine))
	}
	if len(segments) == 0 {
		return " "
	}
	return strings.Join(segments, " │ ")
}

func (m Model) renderCommandMode() []string {
	var lines []string
	limit := m.maxSuggestions
	if limit <= 0 || limit > len(m.filteredOptions) {
		limit = len(m.filteredOptions)
	}
	for i := 0; i < limit; i++ {
		opt := m.filteredOptions[i]
		nameStyle := m.theme.CommandName
		if i == 0 {
			nameStyle = m.theme.CommandSelectedName
		}
		name := nameStyle.Render(":" + opt.Name)
		if opt.Description == "" {
			lines = append(lines, name)
		} else {
			lines = append(lines, fmt.Sprintf("%s  %s", name, m.theme.CommandDescription.Render(opt.Description)))
		}
	}
	commandLine := m.commandView
	if commandLine == "" {
		commandLine = ":"
	}
	return append(lines, commandLine)
}

// Complete returns the first suggestion for the current input.
func (m Model) Complete() (string, bool) {
	if len(m.filteredOptions) == 0 {
		return "", false
	}
	return m.filteredOptions[0].Name, true
}

func (m *Model) filterSuggestions(prefix string) {
	if m.mode != ModeCommand {
		m.filteredOptions = nil
		return
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if i := strings.IndexByte(prefix, ' '); i >= 0 {
		prefix = prefix[:i]
	}
	filtered := make([]CommandOption, 0, len(m.commandOptions))
	for _, opt := range m.commandOptions {
		if prefix == "" || strings.HasPrefix(strings.ToLower(opt.Name), prefix) {
			filtered = append(filtered, opt)
		}
	}
	m.filteredOptions = filtered
}
