package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/andy/swiftbill/internal/domain"
)

const (
	sheetClients  = "Clients"
	sheetItems    = "Items"
	sheetInvoices = "Invoices"
	sheetLines    = "Invoice Lines"
)

// Workbook is the data written to the spreadsheet export
type Workbook struct {
	Clients  []domain.Client
	Items    []domain.Item
	Invoices []domain.Invoice
}

// WriteWorkbook writes clients, items and invoices as an XLSX file
func WriteWorkbook(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetClients); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for _, name := range []string{sheetItems, sheetInvoices, sheetLines} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	clients := [][]any{{"ID", "Name", "Contact Person", "Email", "Phone", "Address", "Tax ID"}}
	for _, c := range wb.Clients {
		clients = append(clients, []any{c.ID, c.Name, c.ContactPerson, c.Email, c.Phone, c.Address, c.TaxID})
	}

	items := [][]any{{"ID", "Name", "Description", "Unit Price", "Unit"}}
	for _, it := range wb.Items {
		items = append(items, []any{it.ID, it.Name, it.Description, it.UnitPrice, string(it.Unit)})
	}

	invoices := [][]any{{
		"Number", "Client", "Date", "Due Date", "Status", "Subtotal",
		"Tax Rate", "Tax", "Discount", "Total", "Currency",
	}}
	lines := [][]any{{"Invoice", "Description", "Quantity", "Unit Price", "Total"}}
	for _, inv := range wb.Invoices {
		invoices = append(invoices, []any{
			inv.InvoiceNumber, inv.ClientName, inv.Date, inv.DueDate, string(inv.Status), inv.Subtotal,
			inv.TaxRate, inv.TaxAmount, inv.DiscountAmount, inv.Total, inv.Currency,
		})
		for _, li := range inv.Items {
			lines = append(lines, []any{inv.InvoiceNumber, li.Description, li.Quantity, li.UnitPrice, li.Total})
		}
	}

	for _, sheet := range []struct {
		name string
		rows [][]any
	}{
		{sheetClients, clients},
		{sheetItems, items},
		{sheetInvoices, invoices},
		{sheetLines, lines},
	} {
		if err := writeRows(f, sheet.name, sheet.rows, header); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}

	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}

	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}
