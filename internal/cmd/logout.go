package cmd

import (
	"context"
	"fmt"

	"github.com/proptic/proptic/internal/cache"
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token and the offline cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd, false)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.com.Tokens.Clear(); err != nil {
			return err
		}
		if !app.com.Config.Options.DisableCache {
			c, err := cache.Open(cmd.Context(), app.com.Config.CacheFile())
			if err != nil {
				return err
			}
			defer c.Close()
			if err := c.Clear(context.WithoutCancel(cmd.Context())); err != nil {
				return err
			}
		}
		fmt.Println("Signed out.")
		return nil
	},
}
