package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/frota/pkg/store"
)

// Info prints where configuration and local state live.
type Info struct {
	Config   *store.FileConfig
	Settings store.Settings
	Out      io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("FROTA_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "FROTA_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "FROTA_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:    ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.timeout: ", n.Config.Timeout)
	_, _ = fmt.Fprintln(out, "Log file:       ", n.Config.LogPath())
	_, _ = fmt.Fprintln(out, "Dev sheet:      ", n.Config.SheetPath())

	if n.Settings == nil {
		return fmt.Errorf("failed to open local settings")
	}
	if endpoint, ok := n.Settings.Endpoint(); ok {
		_, _ = fmt.Fprintln(out, "Gateway:        ", endpoint)
	} else {
		_, _ = fmt.Fprintln(out, "Gateway:         not connected")
	}
	return nil
}
