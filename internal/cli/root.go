package cli

import (
	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/app"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "swiftbill",
	Short: "A local-first invoicing tool for freelancers",
	Long: `SwiftBill keeps clients, a service catalog, and invoices in an encrypted
local database, with a dashboard and JSON backups.

By default, running swiftbill without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.PersistentFlags().Bool("ephemeral", false, "Keep all data in memory for this run only")

	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(themeCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
