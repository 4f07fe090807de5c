package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/gateway"
	"tableflip.dev/frota/pkg/log"
	"tableflip.dev/frota/pkg/movement"
	"tableflip.dev/frota/pkg/printers"
	"tableflip.dev/frota/pkg/runner/tea/internal/bottombar"
	"tableflip.dev/frota/pkg/runner/tea/internal/form"
	"tableflip.dev/frota/pkg/runner/tea/internal/panel"
	"tableflip.dev/frota/pkg/runner/tea/internal/theme"
	"tableflip.dev/frota/pkg/store"
)

// Screens reachable from the dashboard.
type view int

const (
	viewDashboard view = iota
	viewDepart
	viewReturn
	viewHistory
)

type overlay int

const (
	overlayNone overlay = iota
	overlaySettings
	overlayAlert
	overlayConfirm
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmSubmit
	confirmClear
)

// Form field keys.
const (
	fieldVehicle     = "vehicle"
	fieldDriver      = "driver"
	fieldEscort      = "escort"
	fieldOdometer    = "odometer"
	fieldDestination = "destination"
)

// Options configure the UI.
type Options struct {
	// UserView hides the settings overlay and its commands. It is a
	// presentation switch only.
	UserView bool
	// Toast is how long notifications stay visible.
	Toast time.Duration
	Log   log.Logger
}

// Model contains UI state
type Model struct {
	svc   *app.Service
	ctx   context.Context
	opts  Options
	theme theme.Theme

	view    view
	overlay overlay
	// returnTo is the overlay restored when an alert or confirm closes.
	returnTo overlay

	footer     bottombar.Model
	commanding bool
	command    textinput.Model

	depart form.Form
	ret    form.Form
	url    textinput.Model

	alert         string
	confirmText   string
	confirmAction confirmAction
	pending       *app.Plan

	loading bool
	busy    bool
	toastID int
	scroll  int

	watch <-chan store.Event

	termWidth  int
	termHeight int
}

// New creates a new UI model backed by the Service.
func New(svc *app.Service, opts Options) Model {
	if opts.Toast <= 0 {
		opts.Toast = 4 * time.Second
	}
	if opts.Log == nil {
		opts.Log = log.NewNop()
	}
	th := theme.Default()

	cmd := textinput.New()
	cmd.Placeholder = "command"
	cmd.CharLimit = 256
	cmd.Prompt = ""

	url := textinput.New()
	url.Placeholder = "gateway /exec url"
	url.CharLimit = 2048
	url.Prompt = ""

	m := Model{
		svc:     svc,
		ctx:     context.Background(),
		opts:    opts,
		theme:   th,
		footer:  bottombar.New(th.Footer),
		command: cmd,
		url:     url,
		depart: form.New("REGISTER DEPARTURE",
			form.SelectField(fieldVehicle, "Vehicle", nil),
			form.SelectField(fieldDriver, "Driver", nil),
			form.NumberField(fieldOdometer, "Odometer (km)", "0"),
			form.TextField(fieldDestination, "Destination", "where to"),
			form.SelectField(fieldEscort, "Escort", nil),
		),
		ret: form.New("REGISTER RETURN",
			form.SelectField(fieldVehicle, "Vehicle", nil),
			form.SelectField(fieldDriver, "Driver", nil),
			form.SelectField(fieldEscort, "Escort", nil),
			form.NumberField(fieldOdometer, "Odometer (km)", "0"),
		),
	}
	m.footer.SetCommandDefinitions(m.commands())
	if svc != nil {
		m.loading = svc.Connected()
		if endpoint, ok := svc.Endpoint(); ok {
			m.url.SetValue(endpoint)
		}
	}
	m.syncForms()
	m.updateHelp()
	return m
}

// Init loads initial data
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(false), m.startWatch())
}

// messages
type errMsg struct{ err error }
type loadedMsg struct {
	silent bool
	err    error
}
type reconnectedMsg struct{ err error }
type submittedMsg struct {
	rec movement.Record
	err error
}
type clearedMsg struct{ err error }
type toastExpiredMsg struct{ id int }
type watchStartedMsg struct{ ch <-chan store.Event }
type settingsChangedMsg struct{}

func (m *Model) load(silent bool) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if svc == nil || !svc.Connected() {
			return loadedMsg{silent: silent, err: app.ErrNotConnected}
		}
		return loadedMsg{silent: silent, err: svc.Refresh(ctx)}
	}
}

func (m *Model) startWatch() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if svc == nil {
			return nil
		}
		ch, err := svc.Watch(ctx)
		if err != nil {
			return errMsg{err}
		}
		return watchStartedMsg{ch}
	}
}

func waitForSettings(ch <-chan store.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return settingsChangedMsg{}
	}
}

func (m *Model) showToast(kind bottombar.ToastKind, text string) tea.Cmd {
	m.toastID++
	id := m.toastID
	m.footer.SetToast(kind, text)
	return tea.Tick(m.opts.Toast, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case errMsg:
		m.opts.Log.Error(msg.err, "ui")
		m.footer.SetStatus("ERR: " + msg.err.Error())
	case loadedMsg:
		if !msg.silent {
			m.loading = false
		}
		// Read failures are logged by the service; the previous data stays.
		m.footer.SetStatus("")
		if errors.Is(msg.err, app.ErrNotConnected) {
			m.footer.SetStatus("offline: set the gateway url in settings")
		}
		m.syncForms()
	case watchStartedMsg:
		m.watch = msg.ch
		cmds = append(cmds, waitForSettings(m.watch))
	case settingsChangedMsg:
		if endpoint, ok := m.svc.Endpoint(); ok && m.overlay != overlaySettings {
			m.url.SetValue(endpoint)
		}
		cmds = append(cmds, m.load(true), waitForSettings(m.watch))
	case reconnectedMsg:
		m.busy = false
		m.footer.SetStatus("")
		if msg.err != nil {
			text := gateway.Message(msg.err)
			if text == "" {
				text = "connection error"
			}
			cmds = append(cmds, m.showToast(bottombar.ToastError, text))
			break
		}
		m.overlay = overlayNone
		m.syncForms()
		cmds = append(cmds, m.showToast(bottombar.ToastSuccess, "synced"))
	case submittedMsg:
		m.busy = false
		m.footer.SetStatus("")
		if msg.err != nil {
			m.openAlert(describe(msg.err))
			break
		}
		text := "departure recorded"
		if msg.rec != nil && msg.rec.Status() == movement.StatusAvailable {
			text = "return recorded"
		}
		m.view = viewDashboard
		cmds = append(cmds, m.depart.Reset(), m.ret.Reset())
		m.syncForms()
		cmds = append(cmds, m.showToast(bottombar.ToastSuccess, text))
	case clearedMsg:
		m.busy = false
		m.footer.SetStatus("")
		if msg.err != nil {
			cmds = append(cmds, m.showToast(bottombar.ToastError, "could not clear history"))
			break
		}
		m.syncForms()
		cmds = append(cmds, m.showToast(bottombar.ToastSuccess, "history cleared"))
	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.footer.ClearToast()
		}
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.overlay != overlayNone:
			cmds = append(cmds, m.handleOverlayKey(msg))
		case m.commanding:
			cmds = append(cmds, m.handleCommandKey(msg))
		default:
			cmds = append(cmds, m.handleViewKey(msg))
		}
	default:
		// Cursor blink and other input housekeeping.
		var cmd tea.Cmd
		switch {
		case m.overlay == overlaySettings:
			m.url, cmd = m.url.Update(msg)
		case m.commanding:
			m.command, cmd = m.command.Update(msg)
		case m.view == viewDepart:
			m.depart, cmd = m.depart.Update(msg)
		case m.view == viewReturn:
			m.ret, cmd = m.ret.Update(msg)
		}
		cmds = append(cmds, cmd)
	}

	m.updateHelp()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleViewKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.view {
	case viewDepart, viewReturn:
		return m.handleFormKey(msg)
	case viewHistory:
		switch msg.String() {
		case "esc", "b", "q":
			m.view = viewDashboard
		case "j", "down":
			if m.scroll < len(m.history())-1 {
				m.scroll++
			}
		case "k", "up":
			if m.scroll > 0 {
				m.scroll--
			}
		case ":":
			return m.enterCommandMode()
		}
		return nil
	}

	switch msg.String() {
	case "d":
		return m.openForm(viewDepart)
	case "r":
		return m.openForm(viewReturn)
	case "h":
		if m.svc != nil && m.svc.HasMore() {
			m.view = viewHistory
			m.scroll = 0
		}
	case "s", ",":
		return m.openSettings()
	case "R", "ctrl+r":
		m.footer.SetStatus("syncing…")
		return m.load(true)
	case ":":
		return m.enterCommandMode()
	case "q":
		return tea.Quit
	}
	return nil
}

func (m *Model) openForm(v view) tea.Cmd {
	m.view = v
	m.syncForms()
	if v == viewDepart {
		return m.depart.Reset()
	}
	cmd := m.ret.Reset()
	m.prefillReturn()
	return cmd
}

func (m *Model) openSettings() tea.Cmd {
	if m.opts.UserView {
		return nil
	}
	m.overlay = overlaySettings
	if m.svc != nil {
		if endpoint, ok := m.svc.Endpoint(); ok {
			m.url.SetValue(endpoint)
		}
	}
	m.url.CursorEnd()
	return tea.Batch(m.url.Focus(), textinput.Blink)
}

func (m *Model) handleFormKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.view = viewDashboard
		return nil
	case "enter":
		if m.busy {
			return nil
		}
		if m.view == viewDepart {
			return m.planDeparture()
		}
		return m.planReturn()
	}

	var cmd tea.Cmd
	if m.view == viewDepart {
		m.depart, cmd = m.depart.Update(msg)
		return cmd
	}
	before := m.ret.Value(fieldVehicle)
	m.ret, cmd = m.ret.Update(msg)
	if m.ret.Value(fieldVehicle) != before {
		m.prefillReturn()
	}
	return cmd
}

// prefillReturn copies driver and escort from the open movement of the
// chosen vehicle. Both stay editable.
func (m *Model) prefillReturn() {
	if m.svc == nil {
		return
	}
	out, ok := m.svc.OpenMovement(m.ret.Value(fieldVehicle))
	if !ok {
		return
	}
	m.ret.SetValue(fieldDriver, out.Departure.Driver)
	m.ret.SetValue(fieldEscort, out.Departure.Escort)
}

func (m *Model) planDeparture() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	v := m.depart.Values()
	plan, err := m.svc.PlanDeparture(m.ctx, app.DepartureForm{
		Vehicle:     v[fieldVehicle],
		Driver:      v[fieldDriver],
		Escort:      v[fieldEscort],
		Odometer:    v[fieldOdometer],
		Destination: v[fieldDestination],
	})
	return m.gate(plan, err)
}

func (m *Model) planReturn() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	v := m.ret.Values()
	plan, err := m.svc.PlanReturn(m.ctx, app.ReturnForm{
		Vehicle:  v[fieldVehicle],
		Driver:   v[fieldDriver],
		Escort:   v[fieldEscort],
		Odometer: v[fieldOdometer],
	})
	return m.gate(plan, err)
}

// gate shows blocking errors, asks for confirmation on a regression, or
// submits.
func (m *Model) gate(plan *app.Plan, err error) tea.Cmd {
	if err != nil {
		m.openAlert(describe(err))
		return nil
	}
	if plan.NeedsConfirmation() {
		m.pending = plan
		m.openConfirm(confirmSubmit, plan.Warning.Message()+"\n\nRecord anyway?")
		return nil
	}
	return m.submit(plan)
}

func (m *Model) submit(plan *app.Plan) tea.Cmd {
	m.busy = true
	m.footer.SetStatus("saving…")
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		rec, err := svc.Submit(ctx, plan)
		return submittedMsg{rec: rec, err: err}
	}
}

func (m *Model) openAlert(text string) {
	if m.overlay != overlayAlert && m.overlay != overlayConfirm {
		m.returnTo = m.overlay
	}
	m.url.Blur()
	m.overlay = overlayAlert
	m.alert = text
}

func (m *Model) openConfirm(action confirmAction, text string) {
	if m.overlay != overlayAlert && m.overlay != overlayConfirm {
		m.returnTo = m.overlay
	}
	m.url.Blur()
	m.overlay = overlayConfirm
	m.confirmAction = action
	m.confirmText = text
}

func (m *Model) closeModal() tea.Cmd {
	m.overlay = m.returnTo
	m.returnTo = overlayNone
	m.alert, m.confirmText = "", ""
	m.confirmAction = confirmNone
	if m.overlay == overlaySettings {
		return m.url.Focus()
	}
	return nil
}

func (m *Model) handleOverlayKey(msg tea.KeyPressMsg) tea.Cmd {
	switch m.overlay {
	case overlayAlert:
		switch msg.String() {
		case "enter", "esc", "space", "q":
			return m.closeModal()
		}
	case overlayConfirm:
		switch msg.String() {
		case "y", "Y", "enter":
			action, plan := m.confirmAction, m.pending
			m.pending = nil
			cmd := m.closeModal()
			switch action {
			case confirmSubmit:
				if plan == nil {
					return cmd
				}
				plan.Confirm()
				return tea.Batch(cmd, m.submit(plan))
			case confirmClear:
				return tea.Batch(cmd, m.clear())
			}
			return cmd
		case "n", "N", "esc", "q":
			m.pending = nil
			m.footer.SetStatus("cancelled")
			return m.closeModal()
		}
	case overlaySettings:
		switch msg.String() {
		case "esc":
			m.overlay = overlayNone
			m.url.Blur()
			return nil
		case "enter":
			if m.busy {
				return nil
			}
			return m.reconnect(m.url.Value())
		case "ctrl+d":
			if m.busy {
				return nil
			}
			m.openConfirm(confirmClear, "Clear the history?\n\nThis deletes every movement row in the spreadsheet.")
			return nil
		}
		var cmd tea.Cmd
		m.url, cmd = m.url.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) reconnect(url string) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	url = strings.TrimSpace(url)
	if url == "" {
		m.openAlert("Paste the gateway url first.")
		return nil
	}
	m.busy = true
	m.footer.SetStatus("syncing…")
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return reconnectedMsg{err: svc.Reconnect(ctx, url)}
	}
}

func (m *Model) clear() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	m.busy = true
	m.footer.SetStatus("clearing…")
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		return clearedMsg{err: svc.ClearHistory(ctx)}
	}
}

// syncForms feeds the cached lists into the form choices.
func (m *Model) syncForms() {
	if m.svc == nil {
		return
	}
	lists := m.svc.Lists()
	m.depart.SetOptions(fieldVehicle, lists.Vehicles)
	m.depart.SetOptions(fieldDriver, lists.Drivers)
	m.depart.SetOptions(fieldEscort, lists.Escorts)

	driver, escort := m.ret.Value(fieldDriver), m.ret.Value(fieldEscort)
	m.ret.SetOptions(fieldVehicle, m.svc.OutVehicles())
	m.ret.SetOptions(fieldDriver, lists.Drivers)
	m.ret.SetOptions(fieldEscort, lists.Escorts)
	// Keep prefilled people even when they are not in the lists.
	m.ret.SetValue(fieldDriver, driver)
	m.ret.SetValue(fieldEscort, escort)
}

func (m *Model) history() movement.History {
	if m.svc == nil {
		return nil
	}
	return m.svc.History()
}

// describe turns a planning or gateway error into alert text.
func describe(err error) string {
	var fe *app.FieldError
	switch {
	case errors.As(err, &fe):
		var parts []string
		if len(fe.Missing) > 0 {
			parts = append(parts, "Fill in all fields: "+strings.Join(fe.Missing, ", "))
		}
		if len(fe.Invalid) > 0 {
			parts = append(parts, "Check: "+strings.Join(fe.Invalid, ", "))
		}
		return strings.Join(parts, "\n")
	case errors.Is(err, app.ErrVehicleOut):
		return "This vehicle is already out.\nRecord its return first."
	case errors.Is(err, app.ErrNotOut):
		return "This vehicle is not out."
	case errors.Is(err, app.ErrNotConnected):
		return "Not connected. Set the gateway url in settings."
	}
	if text := gateway.Message(err); text != "" {
		return "Could not save: " + text
	}
	return fmt.Sprintf("Could not save: %v", err)
}

func (m *Model) updateHelp() {
	switch {
	case m.overlay == overlaySettings:
		m.footer.SetMode(bottombar.ModeModal)
		m.footer.SetHelp("enter sync · ctrl+d clear history · esc close")
	case m.overlay == overlayConfirm:
		m.footer.SetMode(bottombar.ModeModal)
		m.footer.SetHelp("y confirm · n cancel")
	case m.overlay == overlayAlert:
		m.footer.SetMode(bottombar.ModeModal)
		m.footer.SetHelp("enter ok")
	case m.commanding:
		m.footer.SetMode(bottombar.ModeCommand)
		m.footer.UpdateCommandInput(m.command.Value(), m.command.View())
	case m.view == viewDepart || m.view == viewReturn:
		m.footer.SetMode(bottombar.ModeForm)
		m.footer.SetHelp("tab/↑↓ fields · ←/→ choose · enter save · esc back")
	case m.view == viewHistory:
		m.footer.SetMode(bottombar.ModeNormal)
		m.footer.SetHelp("j/k scroll · esc back")
	default:
		m.footer.SetMode(bottombar.ModeNormal)
		help := "d departure · r return · R sync · : commands · q quit"
		if m.svc != nil && m.svc.HasMore() {
			help = "d departure · r return · h history · R sync · : commands · q quit"
		}
		if !m.opts.UserView {
			help += " · s settings"
		}
		m.footer.SetHelp(help)
	}
}

// View renders the current screen, any modal and the footer.
func (m Model) View() string {
	var body string
	switch m.view {
	case viewDepart:
		body = m.departView()
	case viewReturn:
		body = m.returnView()
	case viewHistory:
		body = m.historyView()
	default:
		body = m.dashboardView()
	}

	if modal := m.modalView(); modal != "" {
		if m.termWidth > 0 && m.termHeight > 0 {
			body = lipgloss.Place(m.termWidth, max(m.termHeight-m.footer.Height()-1, 1), lipgloss.Center, lipgloss.Center, modal)
		} else {
			body += "\n\n" + modal
		}
	}

	footer, _ := m.footer.View()
	return m.headerView() + "\n\n" + body + "\n" + footer
}

func (m Model) headerView() string {
	h := m.theme.Header
	badge := h.Offline.Render("● OFFLINE")
	if m.svc != nil && m.svc.Connected() {
		badge = h.Online.Render("● ONLINE")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		h.Title.Render("FROTA"), "  ", h.Tagline.Render("VEHICLE CONTROL"), "  ", badge)
}

func (m Model) dashboardView() string {
	c := m.theme.Card
	var b strings.Builder

	depart := c.Shortcut.Render("[d] DEPARTURE")
	ret := c.Shortcut.Render("[r] RETURN")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, depart, " ", ret))
	b.WriteString("\n\n")
	b.WriteString(c.Section.Render("RECENT MOVEMENTS"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(c.Empty.Render("loading…"))
		b.WriteString("\n")
	case m.svc == nil || len(m.svc.Recent()) == 0:
		b.WriteString(c.Empty.Render("no movements recorded"))
		b.WriteString("\n")
	default:
		for _, r := range m.svc.Recent() {
			b.WriteString(m.card(r))
		}
		if m.svc.HasMore() {
			b.WriteString(c.Link.Render(fmt.Sprintf("[h] full history (%d)", len(m.svc.History()))))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) card(r movement.Record) string {
	c := m.theme.Card
	d := r.Start()
	usage := c.InUse.Render(printers.Usage(r))
	if r.Status() == movement.StatusAvailable {
		usage = c.Distance.Render(printers.Usage(r))
	}
	line1 := c.Vehicle.Render(r.Vehicle()) + "  " + c.Meta.Render(r.Status().String()+"  "+printers.Date(d.At))
	line2 := "  " + printers.Driver(r) + " → " + printers.Destination(d.Destination) + "  " + usage
	return line1 + "\n" + line2 + "\n"
}

func (m Model) historyView() string {
	c := m.theme.Card
	all := m.history().Reversed()
	var b strings.Builder
	b.WriteString(c.Section.Render(fmt.Sprintf("HISTORY (%d)", len(all))))
	b.WriteString("\n")
	if len(all) == 0 {
		b.WriteString(c.Empty.Render("no movements recorded"))
		return b.String()
	}
	start := m.scroll
	if start >= len(all) {
		start = len(all) - 1
	}
	for _, r := range all[start:] {
		b.WriteString(m.card(r))
	}
	return b.String()
}

func (m Model) departView() string {
	f := m.theme.Form
	var b strings.Builder
	b.WriteString(m.depart.View(f))

	vehicle := m.depart.Value(fieldVehicle)
	if m.svc != nil && vehicle != "" {
		if km, ok := m.svc.PreviousOdometer(vehicle); ok {
			b.WriteString("\n")
			b.WriteString(f.Hint.Render(fmt.Sprintf("previous km: %d", km)))
		}
		if m.svc.History().IsOut(vehicle) {
			b.WriteString("\n")
			b.WriteString(f.Warning.Render("this vehicle is already out"))
		}
		if km, err := app.ParseOdometer(m.depart.Value(fieldOdometer)); err == nil {
			if w := m.svc.DepartureRegression(vehicle, km); w != nil {
				b.WriteString("\n")
				b.WriteString(f.Warning.Render("⚠ " + w.Message()))
			}
		}
	}
	return b.String()
}

func (m Model) returnView() string {
	f := m.theme.Form
	var b strings.Builder
	if m.svc != nil && len(m.svc.OutVehicles()) == 0 {
		b.WriteString(f.Hint.Render("no vehicle is out"))
		b.WriteString("\n\n")
	}
	b.WriteString(m.ret.View(f))

	vehicle := m.ret.Value(fieldVehicle)
	if m.svc == nil || vehicle == "" {
		return b.String()
	}
	if out, ok := m.svc.OpenMovement(vehicle); ok {
		d := out.Departure
		b.WriteString("\n")
		b.WriteString(f.Hint.Render(fmt.Sprintf("departed %s · km %d · %s → %s",
			printers.Date(d.At), d.Odometer, d.Driver, printers.Destination(d.Destination))))
		if km, err := app.ParseOdometer(m.ret.Value(fieldOdometer)); err == nil {
			b.WriteString("\n")
			if w := m.svc.ReturnRegression(vehicle, km); w != nil {
				b.WriteString(f.Warning.Render("⚠ " + w.Message()))
			} else {
				b.WriteString(f.Hint.Render(fmt.Sprintf("distance: %d km", km-d.Odometer)))
			}
		}
	}
	return b.String()
}

func (m Model) modalView() string {
	md := m.theme.Modal
	hint := m.theme.Form.Hint
	switch m.overlay {
	case overlayAlert:
		p := panel.New(md.Alert, md.Title)
		p.SetContent("", m.alert, "", hint.Render("[enter] ok"))
		return p.View()
	case overlayConfirm:
		frame := md.Alert
		if m.confirmAction == confirmClear {
			frame = md.Danger
		}
		p := panel.New(frame, md.Title)
		p.SetContent("", m.confirmText, "", hint.Render("[y] yes  [n] no"))
		return p.View()
	case overlaySettings:
		label := m.theme.Form.Label.Render("Gateway url")
		if m.svc != nil && m.svc.Connected() {
			label += "  " + m.theme.Header.Online.Render("● CONNECTED")
		}
		p := panel.New(md.Box, md.Title)
		p.SetContent("SETTINGS",
			"",
			label,
			m.url.View(),
			"",
			hint.Render("[enter] sync spreadsheet   [ctrl+d] clear history"),
		)
		return p.View()
	}
	return ""
}

// Run starts the program and blocks until it exits or ctx is done.
func Run(ctx context.Context, svc *app.Service, opts Options) error {
	m := New(svc, opts)
	m.ctx = ctx
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
