package options

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ViewOptions
type ViewOptions struct {
	View string
}

func AddViewArgs(cmd *cobra.Command, o *ViewOptions) {
	cmd.Flags().StringVar(&o.View, "view", "",
		`Presentation mode; "user" hides settings.`)
}

// UserView reports whether the restricted view was requested.
func (o *ViewOptions) UserView() (bool, error) {
	switch strings.ToLower(strings.TrimSpace(o.View)) {
	case "":
		return false, nil
	case "user":
		return true, nil
	}
	return false, fmt.Errorf("unknown view %q (expected user)", o.View)
}
