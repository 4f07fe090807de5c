package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/prompt"
)

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Answer yes to confirmations. Required when stdin is not a terminal.")
}

// Confirmer asks on the terminal unless --yes was given.
func (o *ConfirmOptions) Confirmer() prompt.Confirmer {
	return prompt.Terminal{Yes: o.Yes}
}
