// Package connect provides the runner that points frota at a gateway.
package connect

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/printers"
)

// Connect validates URL against the gateway and caches it.
type Connect struct {
	App *app.Service
	URL string
	Out io.Writer
}

// Do runs the reconnect. A failed attempt leaves the cached URL as it was.
func (c *Connect) Do(ctx context.Context) error {
	if c.App == nil {
		return errors.New("can not connect, no fleet service")
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}
	if err := c.App.Reconnect(ctx, c.URL); err != nil {
		return err
	}

	pp := printers.PrettyPrint{Out: out}
	endpoint, ok := c.App.Endpoint()
	pp.Connection(endpoint, ok)
	lists := c.App.Lists()
	_, _ = fmt.Fprintf(out, "synced: %d vehicles, %d drivers, %d escorts, %d movements\n",
		len(lists.Vehicles), len(lists.Drivers), len(lists.Escorts), len(c.App.History()))
	return nil
}
