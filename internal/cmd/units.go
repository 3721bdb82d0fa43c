package cmd

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/proptic/proptic/internal/api"
	"github.com/spf13/cobra"
)

var unitsFlags listFlags

func init() {
	addListFlags(unitsCmd, &unitsFlags)
}

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "List rental units",
	Example: `
# Most expensive units first
proptic units --sort price --desc

# Units of one project as YAML
proptic units --search "Harbor View" -o yaml
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd, false)
		if err != nil {
			return err
		}
		defer app.Close()
		if err := app.restoreToken(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 4*app.com.Config.Timeout())
		defer cancel()
		units, err := app.com.Client.AllUnits(ctx)
		if err != nil {
			return listError(err)
		}

		l, err := buildListing(units, unitColumns(app.com.Config.Options.Currency), unitsFlags)
		if err != nil {
			return err
		}
		return writeListing(cmd.OutOrStdout(), l, unitsFlags.output, "No units yet.")
	},
}

func unitColumns(currency string) []listColumn[api.PropertyUnit] {
	return []listColumn[api.PropertyUnit]{
		{name: "unit_name", label: "Unit", value: func(u api.PropertyUnit) any { return u.UnitName }},
		{name: "property_project_name", label: "Project", value: func(u api.PropertyUnit) any { return u.PropertyProjectName }},
		{name: "unit_type", label: "Type", value: func(u api.PropertyUnit) any { return u.UnitType }},
		{name: "contract_type", label: "Contract", value: func(u api.PropertyUnit) any { return u.ContractType }},
		{
			name:  "price",
			label: "Price",
			value: func(u api.PropertyUnit) any { return u.Price },
			text: func(u api.PropertyUnit) string {
				return currency + " " + humanize.CommafWithDigits(float64(u.Price), 2)
			},
		},
		{
			name:  "available",
			label: "Available",
			value: func(u api.PropertyUnit) any { return u.Available },
			text: func(u api.PropertyUnit) string {
				if u.Available {
					return "yes"
				}
				return "no"
			},
		},
		{
			name:  "created_at",
			label: "Created",
			value: func(u api.PropertyUnit) any { return u.CreatedAt.Unix() },
			text: func(u api.PropertyUnit) string {
				if u.CreatedAt.IsZero() {
					return ""
				}
				return humanize.Time(u.CreatedAt)
			},
		},
	}
}
