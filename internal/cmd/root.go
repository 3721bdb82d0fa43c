package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/proptic/proptic/internal/ui/model"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "devel"

func init() {
	if Version != "devel" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("api-url", "", "Base URL of the platform API")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory for logs, the token file and the cache")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a proptic.json file")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		unitsCmd,
		tenantsCmd,
		versionCmd,
	)
}

var rootCmd = &cobra.Command{
	Use:   "proptic",
	Short: "Property management in your terminal",
	Long: `Proptic is a terminal dashboard for property managers and tenants.
It lists rental units and tenants, and creates, edits and deletes them
against the Proptic platform API.`,
	Example: `
# Open the dashboard
proptic

# Use another API
proptic --api-url https://api.example.com/api/v1/

# Print units as JSON
proptic units -o json
  `,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := setupApp(cmd, true)
		if err != nil {
			return err
		}
		defer app.Close()

		slog.Info("Starting dashboard", "version", Version, "api", app.com.Client.BaseURL())
		program := tea.NewProgram(model.New(app.com), tea.WithContext(cmd.Context()))
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("proptic crashed: %w", err)
		}
		return nil
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
