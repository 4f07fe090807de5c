package teaui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/frota/pkg/runner/tea/internal/bottombar"
)

func (m Model) commands() []bottombar.CommandOption {
	cmds := []bottombar.CommandOption{
		{Name: "depart", Description: "Register a departure"},
		{Name: "return", Description: "Register a return"},
		{Name: "history", Description: "Show every movement"},
		{Name: "sync", Description: "Reload lists and history"},
	}
	if !m.opts.UserView {
		cmds = append(cmds,
			bottombar.CommandOption{Name: "settings", Description: "Open settings"},
			bottombar.CommandOption{Name: "connect", Description: "connect <url>: set the gateway and sync"},
			bottombar.CommandOption{Name: "clear", Description: "Clear the history"},
		)
	}
	return append(cmds, bottombar.CommandOption{Name: "q", Description: "Quit"})
}

func (m *Model) enterCommandMode() tea.Cmd {
	m.commanding = true
	m.command.Reset()
	m.command.CursorEnd()
	cmd := m.command.Focus()
	m.footer.SetMode(bottombar.ModeCommand)
	m.footer.UpdateCommandInput("", m.command.View())
	return tea.Batch(cmd, textinput.Blink)
}

func (m *Model) exitCommandMode() {
	m.commanding = false
	m.command.Reset()
	m.command.Blur()
	m.footer.UpdateCommandInput("", "")
}

func (m *Model) handleCommandKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.exitCommandMode()
		m.footer.SetStatus("command cancelled")
		return nil
	case "tab":
		if name, ok := m.footer.Complete(); ok {
			m.command.SetValue(name + " ")
			m.command.CursorEnd()
		}
		m.footer.UpdateCommandInput(m.command.Value(), m.command.View())
		return nil
	case "enter":
		input := strings.TrimSpace(m.command.Value())
		m.exitCommandMode()
		return m.execute(input)
	}
	var cmd tea.Cmd
	m.command, cmd = m.command.Update(msg)
	m.footer.UpdateCommandInput(m.command.Value(), m.command.View())
	return cmd
}

func (m *Model) execute(input string) tea.Cmd {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)
	admin := !m.opts.UserView

	switch {
	case name == "":
		return nil
	case name == "q" || name == "quit" || name == "exit":
		return tea.Quit
	case name == "depart" || name == "d":
		return m.openForm(viewDepart)
	case name == "return" || name == "r":
		return m.openForm(viewReturn)
	case name == "history" || name == "h":
		m.view = viewHistory
		m.scroll = 0
		return nil
	case name == "sync":
		m.footer.SetStatus("syncing…")
		return m.load(true)
	case name == "settings" && admin:
		return m.openSettings()
	case name == "connect" && admin:
		return m.reconnect(arg)
	case name == "clear" && admin:
		m.openConfirm(confirmClear, "Clear the history?\n\nThis deletes every movement row in the spreadsheet.")
		return nil
	}
	m.footer.SetStatus(fmt.Sprintf("unknown command: %s", input))
	return nil
}
