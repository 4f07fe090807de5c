package options

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/app"
	"tableflip.dev/frota/pkg/gateway"
)

// OutputOptions
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError prints err as JSON when --json is set, with a stable kind for
// scripts to branch on.
func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		if kind := errorKind(err); kind != "" {
			out["kind"] = kind
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, app.ErrNotConnected):
		return "not_connected"
	case errors.Is(err, app.ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, app.ErrVehicleOut):
		return "vehicle_out"
	case errors.Is(err, app.ErrNotOut):
		return "not_out"
	case errors.Is(err, app.ErrUnconfirmed):
		return "unconfirmed"
	case errors.Is(err, app.ErrEmptyURL):
		return "empty_url"
	case errors.Is(err, gateway.ErrRejected):
		return "rejected"
	}
	return ""
}
