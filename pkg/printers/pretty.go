package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/movement"
)

// PrettyPrint renders fleet state for the terminal.
type PrettyPrint struct {
	// Out defaults to color.Output.
	Out io.Writer
}

// Writer is where output goes.
func (pp *PrettyPrint) Writer() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Writer(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.Writer(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Writer(), title)
	_, _ = c.Fprintf(pp.Writer(), " - %d", count)
	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Writer(), " movement")
	default:
		_, _ = c.Fprintln(pp.Writer(), " movements")
	}
}

// Connection renders the connectivity badge. It reflects whether an
// endpoint is cached, not whether the gateway answers.
func (pp *PrettyPrint) Connection(endpoint string, connected bool) {
	if !connected {
		_, _ = color.New(color.FgRed, color.Bold).Fprintln(pp.Writer(), "● OFFLINE")
		return
	}
	_, _ = color.New(color.FgGreen, color.Bold).Fprint(pp.Writer(), "● ONLINE ")
	_, _ = color.New(color.Faint).Fprintln(pp.Writer(), endpoint)
}

// Dashboard renders the recent movements and the full-history hint.
func (pp *PrettyPrint) Dashboard(recent []movement.Record, hasMore bool) {
	pp.Title("Recent movements")
	if len(recent) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Writer(), " no movements yet\n\n")
		return
	}
	for _, r := range recent {
		pp.Card(r)
	}
	if hasMore {
		_, _ = color.New(color.Faint).Fprintln(pp.Writer(), "see all: frota history")
	}
}

// Card renders one movement the way the dashboard lists it.
func (pp *PrettyPrint) Card(r movement.Record) {
	d := r.Start()
	name := color.New(color.Bold)
	faint := color.New(color.Faint)
	usage := color.New(color.FgGreen)
	if r.Status() == movement.StatusOut {
		usage = color.New(color.FgYellow, color.Bold)
	}

	_, _ = name.Fprintf(pp.Writer(), "%s", r.Vehicle())
	_, _ = faint.Fprintf(pp.Writer(), "  %s  %s\n", r.Status(), Date(d.At))
	_, _ = fmt.Fprintf(pp.Writer(), "  %s -> %s  ", Driver(r), Destination(d.Destination))
	_, _ = usage.Fprintln(pp.Writer(), Usage(r))
}

// History renders every record as a table, in the order given.
func (pp *PrettyPrint) History(records []movement.Record) {
	pp.TitleWithCount("History", len(records))
	if len(records) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Writer(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(
		bold.Sprint("Vehicle"), bold.Sprint("Status"), bold.Sprint("Departed"),
		bold.Sprint("Driver"), bold.Sprint("Escort"), bold.Sprint("Destination"),
		bold.Sprint("km out"), bold.Sprint("Usage"),
	)
	for _, r := range records {
		d := r.Start()
		escort := d.Escort
		if c, ok := r.(movement.Completed); ok && c.Arrival.Escort != "" {
			escort = c.Arrival.Escort
		}
		tbl.AddRow(r.Vehicle(), r.Status(), Date(d.At), Driver(r), escort, Destination(d.Destination), d.Odometer, Usage(r))
	}
	tbl.RightAlign(6)
	tbl.RightAlign(7)
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
}

// Lists renders the reference lists side by side.
func (pp *PrettyPrint) Lists(l movement.Lists) {
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Vehicles"), bold.Sprint("Drivers"), bold.Sprint("Escorts"))
	rows := max(len(l.Vehicles), len(l.Drivers), len(l.Escorts))
	at := func(s []string, i int) string {
		if i < len(s) {
			return s[i]
		}
		return ""
	}
	for i := 0; i < rows; i++ {
		tbl.AddRow(at(l.Vehicles, i), at(l.Drivers, i), at(l.Escorts, i))
	}
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
}

// Regression renders an odometer warning.
func (pp *PrettyPrint) Regression(r *app.Regression) {
	_, _ = color.New(color.FgYellow).Fprintf(pp.Writer(), "warning: %s\n", r.Message())
}

// Report renders distance per vehicle for a window.
func (pp *PrettyPrint) Report(res app.ReportResult) {
	pp.Title(fmt.Sprintf("Returns %s - %s", res.Since.Local().Format("02/01/2006"), res.Until.Local().Format("02/01/2006")))
	if res.Total == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Writer(), " none\n")
	} else {
		bold := color.New(color.Bold)
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold.Sprint("Vehicle"), bold.Sprint("Trips"), bold.Sprint("Distance"))
		for _, sec := range res.Sections {
			tbl.AddRow(sec.Vehicle, len(sec.Movements), fmt.Sprintf("%d km", sec.Distance))
		}
		tbl.AddRow(bold.Sprint("Total"), res.Total, bold.Sprintf("%d km", res.Distance))
		tbl.RightAlign(1)
		tbl.RightAlign(2)
		_, _ = fmt.Fprintln(pp.Writer(), tbl)
	}
	if len(res.Out) > 0 {
		_, _ = color.New(color.FgYellow).Fprintf(pp.Writer(), "out now: %s\n", strings.Join(res.Out, ", "))
	}
	pp.NewLine()
}
