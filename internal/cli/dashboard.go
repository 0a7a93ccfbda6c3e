package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/domain"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show revenue, pending, and overdue totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		d, err := appInstance.ReportService.Dashboard(ctx)
		if err != nil {
			return fmt.Errorf("failed to load dashboard: %w", err)
		}

		fmt.Fprintf(out, "%-16s %14s  (%d paid)\n", "Total revenue:", domain.FormatCurrency(d.TotalRevenue), d.PaidCount)
		fmt.Fprintf(out, "%-16s %14s  (%d sent)\n", "Pending:", domain.FormatCurrency(d.PendingAmount), d.PendingCount)
		fmt.Fprintf(out, "%-16s %14s  (%d overdue)\n", "Overdue:", domain.FormatCurrency(d.OverdueAmount), d.OverdueCount)
		if d.PastDueCount > 0 {
			fmt.Fprintf(out, "%-16s %14s  (%d sent invoice(s) past their due date)\n", "Past due:", domain.FormatCurrency(d.PastDueAmount), d.PastDueCount)
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Invoices: %d   Clients: %d   Items: %d\n", d.InvoiceCount, d.ClientCount, d.ItemCount)

		if len(d.Recent) > 0 {
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Recent invoices:")
			for _, inv := range d.Recent {
				fmt.Fprintf(out, "  %-12s %-22s %14s  %s\n", inv.InvoiceNumber, truncate(inv.ClientName, 22), domain.FormatCurrency(inv.Total), inv.Status)
			}
		}

		if year, _ := cmd.Flags().GetInt("year"); year > 0 {
			revenue, err := appInstance.ReportService.RevenueByMonth(ctx, year)
			if err != nil {
				return fmt.Errorf("failed to load revenue: %w", err)
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Revenue %d:\n", year)
			for m := time.January; m <= time.December; m++ {
				fmt.Fprintf(out, "  %-10s %14s\n", m.String(), domain.FormatCurrency(revenue[m]))
			}
		}

		if show, _ := cmd.Flags().GetBool("outstanding"); show {
			outstanding, err := appInstance.ReportService.OutstandingByClient(ctx)
			if err != nil {
				return fmt.Errorf("failed to load outstanding balances: %w", err)
			}
			names := make([]string, 0, len(outstanding))
			for name := range outstanding {
				names = append(names, name)
			}
			sort.Strings(names)

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Outstanding by client:")
			if len(names) == 0 {
				fmt.Fprintln(out, "  none")
			}
			for _, name := range names {
				fmt.Fprintf(out, "  %-22s %14s\n", truncate(name, 22), domain.FormatCurrency(outstanding[name]))
			}
		}

		return nil
	},
}

func init() {
	dashboardCmd.Flags().Int("year", 0, "Also show paid revenue by month for this year")
	dashboardCmd.Flags().Bool("outstanding", false, "Also show sent and overdue totals per client")
}
