package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/service"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  swiftbill reset invoices    # Delete all invoices and restart numbering
  swiftbill reset all         # Wipe everything: profile, clients, items, invoices, theme`,
}

var resetInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Delete all invoices and restart numbering",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will delete ALL invoices. Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.BackupService.Reset(context.Background(), service.ResetInvoices); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "All invoices have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: profile, clients, items, invoices, everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirm(cmd, "This will delete ALL data (profile, clients, items, invoices, everything). Continue?") {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.BackupService.Reset(context.Background(), service.ResetAll); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "All data has been deleted.")
		return nil
	},
}

func init() {
	resetCmd.AddCommand(resetInvoicesCmd)
	resetCmd.AddCommand(resetAllCmd)

	resetInvoicesCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	resetAllCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
