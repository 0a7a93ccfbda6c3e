package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/andy/swiftbill/internal/domain"
)

// ErrUnsupportedLogo is returned by decodeLogo for data URIs gofpdf cannot embed
var ErrUnsupportedLogo = errors.New("unsupported logo format")

// InvoiceDocument is everything printed on one invoice
type InvoiceDocument struct {
	Invoice domain.Invoice
	Profile domain.UserProfile
	Client  *domain.Client // nil when the client has been deleted
}

// InvoicePDF renders doc as an A4 PDF and writes it to w
func InvoicePDF(w io.Writer, doc InvoiceDocument) error {
	inv := doc.Invoice

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.InvoiceNumber, true)
	pdf.SetCreator("swiftbill", true)
	pdf.AddPage()

	// core fonts are cp1252; translate so accented names survive
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header: logo and company on the left, invoice meta on the right
	top := pdf.GetY()
	if doc.Profile.Logo != "" {
		if err := drawLogo(pdf, doc.Profile.Logo, 10, top); err == nil {
			pdf.SetY(top + 22)
		}
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(100, 8, tr(doc.Profile.CompanyName))
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	for _, line := range []string{doc.Profile.Address, doc.Profile.Phone, doc.Profile.Email} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.MultiCell(100, 5, tr(line), "", "L", false)
	}
	leftEndY := pdf.GetY()

	pdf.SetXY(120, top)
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(80, 10, "INVOICE", "", 2, "R", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(80, 6, "Number: "+tr(inv.InvoiceNumber), "", 2, "R", false, 0, "")
	pdf.CellFormat(80, 6, "Date: "+inv.Date, "", 2, "R", false, 0, "")
	pdf.CellFormat(80, 6, "Due: "+inv.DueDate, "", 2, "R", false, 0, "")
	pdf.CellFormat(80, 6, "Status: "+strings.ToUpper(string(inv.Status)), "", 2, "R", false, 0, "")

	if y := pdf.GetY(); y > leftEndY {
		leftEndY = y
	}
	pdf.SetXY(10, leftEndY+8)

	// Bill To
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 8, "Bill To:")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(100, 5, tr(inv.ClientName))
	pdf.Ln(5)
	if c := doc.Client; c != nil {
		for _, line := range []string{c.ContactPerson, c.Address, c.Email, c.Phone} {
			if strings.TrimSpace(line) == "" {
				continue
			}
			pdf.MultiCell(100, 5, tr(line), "", "L", false)
		}
		if c.TaxID != "" {
			pdf.Cell(100, 5, "Tax ID: "+tr(c.TaxID))
			pdf.Ln(5)
		}
	}
	pdf.Ln(8)

	// Line items
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Unit Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, li := range inv.Items {
		pdf.CellFormat(100, 7, tr(truncate(li.Description, 60)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, formatQuantity(li.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, domain.FormatCurrency(li.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, domain.FormatCurrency(li.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals
	totalRow := func(label, value string) {
		pdf.CellFormat(155, 7, label, "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, value, "", 1, "R", false, 0, "")
	}
	totalRow("Subtotal:", domain.FormatCurrency(inv.Subtotal))
	totalRow(fmt.Sprintf("Tax (%s%%):", formatQuantity(inv.TaxRate)), domain.FormatCurrency(inv.TaxAmount))
	if inv.DiscountAmount != 0 {
		label := "Discount:"
		if inv.DiscountType != domain.DiscountFixed {
			label = fmt.Sprintf("Discount (%s%%):", formatQuantity(inv.DiscountValue))
		}
		totalRow(label, "-"+domain.FormatCurrency(inv.DiscountAmount))
	}
	pdf.SetFont("Arial", "B", 12)
	totalRow("Total:", domain.FormatCurrency(inv.Total))
	pdf.Ln(8)

	// Notes and payment instructions
	for _, section := range []struct{ title, body string }{
		{"Notes", inv.Notes},
		{"Payment Instructions", inv.PaymentInstructions},
	} {
		if strings.TrimSpace(section.body) == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(40, 7, section.title)
		pdf.Ln(7)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, tr(section.body), "", "L", false)
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render invoice PDF: %w", err)
	}
	return nil
}

// InvoiceFileName is the default PDF name for an invoice
func InvoiceFileName(inv domain.Invoice) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ' ' {
			return '_'
		}
		return r
	}, inv.InvoiceNumber)
	if name == "" {
		name = inv.ID
	}
	return name + ".pdf"
}

func drawLogo(pdf *gofpdf.Fpdf, dataURI string, x, y float64) error {
	imageType, data, err := decodeLogo(dataURI)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(data))
	if !pdf.Ok() {
		// a bad image must not spoil the rest of the document
		pdf.ClearError()
		return ErrUnsupportedLogo
	}
	pdf.ImageOptions("logo", x, y, 0, 20, false, opts, 0, "")
	return nil
}

// decodeLogo splits a base64 data URI into a gofpdf image type and bytes
func decodeLogo(dataURI string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(dataURI, "data:")
	if !ok {
		return "", nil, ErrUnsupportedLogo
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, ErrUnsupportedLogo
	}

	var imageType string
	switch strings.TrimSuffix(meta, ";base64") {
	case "image/png":
		imageType = "PNG"
	case "image/jpeg", "image/jpg":
		imageType = "JPG"
	case "image/gif":
		imageType = "GIF"
	default:
		return "", nil, ErrUnsupportedLogo
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnsupportedLogo, err)
	}
	return imageType, data, nil
}

func formatQuantity(q float64) string {
	s := fmt.Sprintf("%.2f", q)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// SaveInvoicePDF renders doc into the file at path, creating parent directories
func SaveInvoicePDF(path string, doc InvoiceDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := InvoicePDF(f, doc); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
