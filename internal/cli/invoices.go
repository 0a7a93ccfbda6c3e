package cli

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/export"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
	Long:  `Create, list, edit, and manage invoices.`,
}

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		term, _ := cmd.Flags().GetString("search")
		status, _ := cmd.Flags().GetString("status")

		invoices, err := appInstance.InvoiceService.Search(ctx, term, status)
		if err != nil {
			return fmt.Errorf("failed to list invoices: %w", err)
		}

		if len(invoices) == 0 {
			fmt.Fprintln(out, "No invoices found")
			return nil
		}

		// Print table header
		fmt.Fprintf(out, "%-9s %-12s %-22s %-11s %-11s %14s %-10s\n", "ID", "Number", "Client", "Date", "Due", "Total", "Status")
		fmt.Fprintln(out, "---------------------------------------------------------------------------------------------------")

		now := time.Now()
		for i := range invoices {
			inv := &invoices[i]
			status := string(inv.Status)
			if inv.PastDue(now) {
				status += " (past due)"
			}
			fmt.Fprintf(out, "%-9s %-12s %-22s %-11s %-11s %14s %-10s\n",
				shortID(inv.ID),
				inv.InvoiceNumber,
				truncate(inv.ClientName, 22),
				inv.Date,
				inv.DueDate,
				domain.FormatCurrency(inv.Total),
				status,
			)
		}

		fmt.Fprintf(out, "\nTotal: %d invoice(s)\n", len(invoices))
		return nil
	},
}

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a draft invoice",
	Long: `Create a draft invoice for a client.

Lines are given as --item "description:quantity:price" or, from the catalog,
as --catalog "item:quantity". Both flags can be repeated.

Examples:
  swiftbill invoices create --client Acme --item "Consulting:10:150"
  swiftbill invoices create --client 3f2a --catalog "Design:4" --tax 8.25`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		ref, _ := cmd.Flags().GetString("client")
		if ref == "" {
			return fmt.Errorf("--client is required")
		}
		client, err := findClient(ctx, ref)
		if err != nil {
			return err
		}

		in := appInstance.InvoiceService.Draft(time.Now())
		in.ClientID = client.ID
		if cmd.Flags().Changed("date") && !cmd.Flags().Changed("due") {
			// due date follows the invoice date
			in.DueDate = ""
		}
		if err := applyInvoiceFlags(ctx, cmd, &in); err != nil {
			return err
		}

		invoice, err := appInstance.InvoiceService.Create(ctx, in)
		if err != nil {
			return explain(err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Invoice created: %s (ID: %s)\n", invoice.InvoiceNumber, shortID(invoice.ID))
		fmt.Fprintf(out, "  Client: %s\n", invoice.ClientName)
		fmt.Fprintf(out, "  Lines: %d\n", len(invoice.Items))
		fmt.Fprintf(out, "  Total: %s\n", domain.FormatCurrency(invoice.Total))
		fmt.Fprintf(out, "  Due: %s\n", invoice.DueDate)
		return nil
	},
}

var invoicesEditCmd = &cobra.Command{
	Use:   "edit [id|number]",
	Short: "Edit an invoice",
	Long: `Edit an invoice. Fields without a flag keep their value. Passing any
--item or --catalog flag replaces all existing lines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoice, err := findInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		in := invoice.Input()
		if cmd.Flags().Changed("client") {
			ref, _ := cmd.Flags().GetString("client")
			client, err := findClient(ctx, ref)
			if err != nil {
				return err
			}
			in.ClientID = client.ID
		}
		if cmd.Flags().Changed("item") || cmd.Flags().Changed("catalog") {
			in.Items = nil
		}
		if err := applyInvoiceFlags(ctx, cmd, &in); err != nil {
			return err
		}

		updated, err := appInstance.InvoiceService.Update(ctx, invoice.ID, in)
		if err != nil {
			return explain(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice updated: %s (total %s)\n", updated.InvoiceNumber, domain.FormatCurrency(updated.Total))
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show [id|number]",
	Short: "Show invoice details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		inv, err := findInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Invoice: %s\n", inv.InvoiceNumber)
		fmt.Fprintf(out, "Client: %s\n", inv.ClientName)
		fmt.Fprintf(out, "Date: %s\n", inv.Date)
		fmt.Fprintf(out, "Due: %s\n", inv.DueDate)
		status := string(inv.Status)
		if inv.PastDue(time.Now()) {
			status += " (past due)"
		}
		fmt.Fprintf(out, "Status: %s\n", status)
		fmt.Fprintln(out)

		fmt.Fprintf(out, "%-40s %8s %14s %14s\n", "Description", "Qty", "Price", "Amount")
		fmt.Fprintln(out, "------------------------------------------------------------------------------")
		for _, li := range inv.Items {
			fmt.Fprintf(out, "%-40s %8s %14s %14s\n",
				truncate(li.Description, 40),
				strconv.FormatFloat(li.Quantity, 'f', -1, 64),
				domain.FormatCurrency(li.UnitPrice),
				domain.FormatCurrency(li.Total),
			)
		}
		fmt.Fprintln(out, "------------------------------------------------------------------------------")

		fmt.Fprintf(out, "%64s %14s\n", "Subtotal:", domain.FormatCurrency(inv.Subtotal))
		fmt.Fprintf(out, "%64s %14s\n", fmt.Sprintf("Tax (%s%%):", strconv.FormatFloat(inv.TaxRate, 'f', -1, 64)), domain.FormatCurrency(inv.TaxAmount))
		if inv.DiscountAmount != 0 {
			label := "Discount:"
			if inv.DiscountType == domain.DiscountPercentage {
				label = fmt.Sprintf("Discount (%s%%):", strconv.FormatFloat(inv.DiscountValue, 'f', -1, 64))
			}
			fmt.Fprintf(out, "%64s %14s\n", label, "-"+domain.FormatCurrency(inv.DiscountAmount))
		}
		fmt.Fprintf(out, "%64s %14s\n", "Total:", domain.FormatCurrency(inv.Total))

		if inv.Notes != "" {
			fmt.Fprintf(out, "\nNotes: %s\n", inv.Notes)
		}
		if inv.PaymentInstructions != "" {
			fmt.Fprintf(out, "Payment: %s\n", inv.PaymentInstructions)
		}
		return nil
	},
}

var invoicesStatusCmd = &cobra.Command{
	Use:   "status [id|number] [status]",
	Short: "Set invoice status (draft, sent, paid, overdue, cancelled)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := findInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		updated, err := appInstance.InvoiceService.SetStatus(ctx, inv.ID, args[1])
		if err != nil {
			return fmt.Errorf("failed to set status: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice %s marked as %s\n", updated.InvoiceNumber, updated.Status)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete [id|number]",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := findInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		if !confirm(cmd, fmt.Sprintf("Delete invoice %s?", inv.InvoiceNumber)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}

		if err := appInstance.InvoiceService.Delete(ctx, inv.ID); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice deleted: %s\n", inv.InvoiceNumber)
		return nil
	},
}

var invoicesPDFCmd = &cobra.Command{
	Use:   "pdf [id|number]",
	Short: "Render an invoice as PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		inv, err := findInvoice(ctx, args[0])
		if err != nil {
			return err
		}

		doc := export.InvoiceDocument{Invoice: inv}
		if profile, ok, err := appInstance.ProfileService.Get(ctx); err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		} else if ok {
			doc.Profile = profile
		}
		if client, err := appInstance.ClientService.Get(ctx, inv.ClientID); err == nil {
			doc.Client = &client
		}

		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = filepath.Join(appInstance.Config.Invoice.OutputDir, export.InvoiceFileName(inv))
		}
		if err := export.SaveInvoicePDF(path, doc); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Invoice %s written to %s\n", inv.InvoiceNumber, path)
		return nil
	},
}

// applyInvoiceFlags copies changed flags onto in and appends any lines
func applyInvoiceFlags(ctx context.Context, cmd *cobra.Command, in *domain.InvoiceInput) error {
	flags := cmd.Flags()

	if flags.Changed("date") {
		in.Date, _ = flags.GetString("date")
	}
	if flags.Changed("due") {
		in.DueDate, _ = flags.GetString("due")
	}
	if flags.Changed("tax") {
		in.TaxRate, _ = flags.GetFloat64("tax")
	}
	if flags.Changed("discount") {
		in.DiscountValue, _ = flags.GetFloat64("discount")
	}
	if flags.Changed("discount-type") {
		dt, _ := flags.GetString("discount-type")
		in.DiscountType = domain.DiscountType(strings.ToLower(dt))
	}
	if flags.Changed("notes") {
		in.Notes, _ = flags.GetString("notes")
	}
	if flags.Changed("payment") {
		in.PaymentInstructions, _ = flags.GetString("payment")
	}
	if flags.Changed("currency") {
		in.Currency, _ = flags.GetString("currency")
	}

	lines, _ := flags.GetStringArray("item")
	for _, spec := range lines {
		desc, qty, price, err := parseLine(spec)
		if err != nil {
			return err
		}
		in.AddLine(desc, qty, price)
	}

	catalog, _ := flags.GetStringArray("catalog")
	for _, spec := range catalog {
		ref, qty, err := parseCatalogLine(spec)
		if err != nil {
			return err
		}
		item, err := findItem(ctx, ref)
		if err != nil {
			return err
		}
		if _, err := appInstance.InvoiceService.AddCatalogLine(ctx, in, item.ID, qty); err != nil {
			return fmt.Errorf("failed to add catalog line: %w", err)
		}
	}
	return nil
}

// parseLine splits "description:quantity:price". The description may itself
// contain colons, so the numbers are taken from the right.
func parseLine(spec string) (string, float64, float64, error) {
	i := strings.LastIndex(spec, ":")
	if i < 0 {
		return "", 0, 0, fmt.Errorf("invalid line %q, expected description:quantity:price", spec)
	}
	j := strings.LastIndex(spec[:i], ":")
	if j < 0 {
		return "", 0, 0, fmt.Errorf("invalid line %q, expected description:quantity:price", spec)
	}

	desc := strings.TrimSpace(spec[:j])
	qty, err := parseQuantity(spec[j+1 : i])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid quantity in %q", spec)
	}
	price := domain.ParseAmount(spec[i+1:])
	return desc, qty, price, nil
}

// parseCatalogLine splits "item:quantity"; a missing quantity means 1
func parseCatalogLine(spec string) (string, float64, error) {
	i := strings.LastIndex(spec, ":")
	if i < 0 {
		return strings.TrimSpace(spec), 1, nil
	}
	qty, err := parseQuantity(spec[i+1:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid quantity in %q", spec)
	}
	return strings.TrimSpace(spec[:i]), qty, nil
}

// parseQuantity accepts finite numbers only; "NaN" and "Inf" are rejected
func parseQuantity(s string) (float64, error) {
	qty, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(qty) || math.IsInf(qty, 0) {
		return 0, fmt.Errorf("quantity %q is not a number", s)
	}
	return qty, nil
}

// findInvoice resolves an id, id prefix, or invoice number
func findInvoice(ctx context.Context, ref string) (domain.Invoice, error) {
	invoices, err := appInstance.InvoiceService.List(ctx)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("failed to load invoices: %w", err)
	}
	return resolve(invoices, ref, "invoice", invoiceID, invoiceNo)
}

func init() {
	invoicesCmd.AddCommand(invoicesListCmd)
	invoicesCmd.AddCommand(invoicesCreateCmd)
	invoicesCmd.AddCommand(invoicesEditCmd)
	invoicesCmd.AddCommand(invoicesShowCmd)
	invoicesCmd.AddCommand(invoicesStatusCmd)
	invoicesCmd.AddCommand(invoicesDeleteCmd)
	invoicesCmd.AddCommand(invoicesPDFCmd)

	// List flags
	invoicesListCmd.Flags().String("search", "", "Filter by invoice number or client name")
	invoicesListCmd.Flags().String("status", "all", "Filter by status (draft, sent, paid, overdue, cancelled, all)")

	// Create and edit flags
	for _, c := range []*cobra.Command{invoicesCreateCmd, invoicesEditCmd} {
		c.Flags().String("client", "", "Client id, id prefix, or name")
		c.Flags().StringArray("item", nil, "Line as description:quantity:price (repeatable)")
		c.Flags().StringArray("catalog", nil, "Catalog line as item:quantity (repeatable)")
		c.Flags().Float64("tax", 0, "Tax rate in percent")
		c.Flags().Float64("discount", 0, "Discount value")
		c.Flags().String("discount-type", "percentage", "Discount type (percentage or fixed)")
		c.Flags().String("date", "", "Invoice date (YYYY-MM-DD)")
		c.Flags().String("due", "", "Due date (YYYY-MM-DD)")
		c.Flags().String("notes", "", "Notes printed on the invoice")
		c.Flags().String("payment", "", "Payment instructions")
		c.Flags().String("currency", "", "Currency code")
	}

	invoicesDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	invoicesPDFCmd.Flags().StringP("out", "o", "", "Output file (default: <output_dir>/<number>.pdf)")
}
