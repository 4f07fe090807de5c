// Package ui opens the terminal user interface.
package ui

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/log"
	teaui "tableflip.dev/frota/pkg/runner/tea"
)

// UI runs the Bubble Tea program until the user quits.
type UI struct {
	App *app.Service
	// UserView hides the settings overlay.
	UserView bool
	Toast    time.Duration
	Log      log.Logger
}

func (d *UI) Do(ctx context.Context) error {
	if d.App == nil {
		return errors.New("can not open ui, no fleet service")
	}
	return teaui.Run(ctx, d.App, teaui.Options{
		UserView: d.UserView,
		Toast:    d.Toast,
		Log:      d.Log,
	})
}
