package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/export"
	"github.com/andy/swiftbill/internal/service"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export and import data",
	Long: `Export all data to a JSON backup, restore from one, or write a spreadsheet.

Importing replaces each kind of data present in the file. Kinds missing from
the file are left alone.`,
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON backup",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = filepath.Join(appInstance.Config.Invoice.OutputDir, service.BackupFileName(time.Now()))
		}

		f, err := createOutput(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := appInstance.BackupService.WriteJSON(context.Background(), f); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Backup written to %s\n", path)
		return nil
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Restore from a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open backup: %w", err)
		}
		defer f.Close()

		result, err := appInstance.BackupService.Import(context.Background(), f)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "✓ Backup imported")
		if result.User {
			fmt.Fprintln(out, "  Profile: restored")
		}
		for _, part := range []struct {
			name  string
			count int
		}{
			{"Clients", result.Clients},
			{"Items", result.Items},
			{"Invoices", result.Invoices},
		} {
			if part.count >= 0 {
				fmt.Fprintf(out, "  %s: %d\n", part.name, part.count)
			}
		}
		return nil
	},
}

var backupXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write clients, items, and invoices to a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := appInstance.BackupService.Export(context.Background())
		if err != nil {
			return err
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = filepath.Join(appInstance.Config.Invoice.OutputDir,
				"swiftbill-"+time.Now().Format("2006-01-02")+".xlsx")
		}

		f, err := createOutput(path)
		if err != nil {
			return err
		}
		defer f.Close()

		wb := export.Workbook{Clients: b.Clients, Items: b.Items, Invoices: b.Invoices}
		if err := export.WriteWorkbook(f, wb); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Spreadsheet written to %s\n", path)
		return nil
	},
}

func createOutput(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

func init() {
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	backupCmd.AddCommand(backupXLSXCmd)

	backupExportCmd.Flags().StringP("out", "o", "", "Output file (default: <output_dir>/swiftbill-backup-<date>.json)")
	backupXLSXCmd.Flags().StringP("out", "o", "", "Output file (default: <output_dir>/swiftbill-<date>.xlsx)")
}
