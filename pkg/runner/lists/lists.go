// Package lists prints the reference lists.
package lists

import (
	"context"
	"encoding/json"
	"errors"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/printers"
)

// Lists prints vehicles, drivers and escorts.
type Lists struct {
	App     *app.Service
	JSON    bool
	Printer printers.PrettyPrint
}

func (l *Lists) Do(ctx context.Context) error {
	if l.App == nil {
		return errors.New("can not list, no fleet service")
	}
	if err := l.App.Sync(ctx); err != nil {
		return err
	}
	lists := l.App.Lists()
	if l.JSON {
		enc := json.NewEncoder(l.Printer.Writer())
		enc.SetIndent("", "  ")
		return enc.Encode(lists)
	}
	l.Printer.Lists(lists)
	return nil
}
