package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/frota/pkg/app"
)

// DepartureOptions
type DepartureOptions struct {
	app.DepartureForm
}

func AddDepartureArgs(cmd *cobra.Command, o *DepartureOptions) {
	addPeopleArgs(cmd, &o.Vehicle, &o.Driver, &o.Escort)
	cmd.Flags().StringVarP(&o.Odometer, "odometer", "k", "",
		"Odometer reading in km at departure.")
	cmd.Flags().StringVar(&o.Destination, "destination", "",
		"Where the vehicle is going.")
}

// ReturnOptions
type ReturnOptions struct {
	app.ReturnForm
}

func AddReturnArgs(cmd *cobra.Command, o *ReturnOptions) {
	addPeopleArgs(cmd, &o.Vehicle, &o.Driver, &o.Escort)
	cmd.Flags().StringVarP(&o.Odometer, "odometer", "k", "",
		"Odometer reading in km on return.")
}

func addPeopleArgs(cmd *cobra.Command, vehicle, driver, escort *string) {
	cmd.Flags().StringVar(vehicle, "vehicle", "",
		"Vehicle, as named in the reference list.")
	cmd.Flags().StringVar(driver, "driver", "",
		"Driver.")
	cmd.Flags().StringVar(escort, "escort", "",
		"Escort.")
}
