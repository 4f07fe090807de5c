// Package history lists every movement.
package history

import (
	"context"
	"encoding/json"
	"errors"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/movement"
	"tableflip.dev/frota/pkg/printers"
)

// History prints the full history, newest first.
type History struct {
	App     *app.Service
	Vehicle string
	JSON    bool
	Printer printers.PrettyPrint
}

func (h *History) Do(ctx context.Context) error {
	if h.App == nil {
		return errors.New("can not list history, no fleet service")
	}
	if err := h.App.Sync(ctx); err != nil {
		return err
	}

	records := make([]movement.Record, 0)
	for _, r := range h.App.History().Reversed() {
		if h.Vehicle == "" || r.Vehicle() == h.Vehicle {
			records = append(records, r)
		}
	}

	if h.JSON {
		rows := make([]movement.Wire, 0, len(records))
		for _, r := range records {
			rows = append(rows, movement.ToWire(r))
		}
		enc := json.NewEncoder(h.Printer.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	h.Printer.History(records)
	return nil
}
