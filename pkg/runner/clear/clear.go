// Package clear erases the movement history.
package clear

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/prompt"
)

// Clear deletes every movement row. The reference lists are kept.
type Clear struct {
	App     *app.Service
	Confirm prompt.Confirmer
	Out     io.Writer
}

func (c *Clear) Do(ctx context.Context) error {
	if c.App == nil {
		return errors.New("can not clear, no fleet service")
	}
	out := c.Out
	if out == nil {
		out = color.Output
	}
	if c.Confirm == nil {
		return errors.New("can not clear without confirmation")
	}
	ok, err := c.Confirm.Confirm("Clear the history? This deletes every movement row")
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(out, "cancelled")
		return nil
	}
	if err := c.App.ClearHistory(ctx); err != nil {
		return err
	}
	_, _ = color.New(color.FgGreen).Fprintln(out, "history cleared")
	return nil
}
