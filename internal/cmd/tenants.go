package cmd

import (
	"context"

	"github.com/proptic/proptic/internal/api"
	"github.com/spf13/cobra"
)

var tenantsFlags listFlags

func init() {
	addListFlags(tenantsCmd, &tenantsFlags)
}

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "List tenants and their tenancies",
	Example: `
# Tenancies ending first
proptic tenants --sort tenancy_end_date

# Every tenant as JSON
proptic tenants --page-size 100 -o json
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

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*app.com.Config.Timeout())
		defer cancel()
		users, err := app.com.Client.Tenants(ctx)
		if err != nil {
			return listError(err)
		}
		tenants := make([]api.Tenant, 0, len(users))
		for _, u := range users {
			tenants = append(tenants, u.Tenant())
		}

		l, err := buildListing(tenants, tenantColumns(), tenantsFlags)
		if err != nil {
			return err
		}
		return writeListing(cmd.OutOrStdout(), l, tenantsFlags.output, "No tenants yet.")
	},
}

func tenantColumns() []listColumn[api.Tenant] {
	text := func(get func(api.Tenant) string) func(api.Tenant) any {
		return func(t api.Tenant) any { return get(t) }
	}
	return []listColumn[api.Tenant]{
		{name: "first_name", label: "First Name", value: text(func(t api.Tenant) string { return t.FirstName })},
		{name: "last_name", label: "Last Name", value: text(func(t api.Tenant) string { return t.LastName })},
		{name: "email", label: "Email", value: text(func(t api.Tenant) string { return t.Email })},
		{name: "document", label: "Passport/National ID", value: text(func(t api.Tenant) string {
			if t.PassportNumber != "" {
				return t.PassportNumber
			}
			return t.NationalID
		})},
		{name: "property_unit_name", label: "Unit", value: text(func(t api.Tenant) string { return t.UnitName })},
		{name: "tenancy_start_date", label: "Start", value: text(func(t api.Tenant) string { return t.StartDate })},
		{name: "tenancy_end_date", label: "End", value: text(func(t api.Tenant) string { return t.EndDate })},
	}
}
