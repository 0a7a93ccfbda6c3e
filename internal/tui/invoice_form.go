package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/service"
)

// fixed invoice form fields; line inputs follow, the catalog picker is last
const (
	invFieldClient = iota
	invFieldDate
	invFieldDue
	invFieldTax
	invFieldDiscountType
	invFieldDiscount
	invFieldNotes
	invFieldPayment
	invFixedFields
)

// each line is three inputs: description, quantity, unit price
const lineWidth = 3

type lineMeta struct {
	id     string
	itemID string
}

// invoiceForm edits an invoice header, its lines, and shows live totals
type invoiceForm struct {
	form

	editingID string
	base      domain.InvoiceInput
	clientRef string // prefilled client text; maps back to base.ClientID
	clients   []domain.Client
	lines     []lineMeta
}

// load resets the form to edit in. editingID is empty for a new invoice.
func (f *invoiceForm) load(editingID string, in domain.InvoiceInput, clients []domain.Client) tea.Cmd {
	f.editingID = editingID
	f.base = in
	f.clients = clients
	f.lines = nil
	f.errs = nil
	f.err = nil

	f.fields = []formField{
		newField("Client:", "clientId", "name or id", 100, 30),
		newField("Date:", "date", domain.DateLayout, 10, 12),
		newField("Due date:", "dueDate", domain.DateLayout, 10, 12),
		newField("Tax rate (%):", "taxRate", "0", 10, 8),
		newField("Discount type:", "discountType", "percentage or fixed", 10, 12),
		newField("Discount:", "discountValue", "0", 12, 10),
		newField("Notes:", "notes", "Optional", 500, 50),
		newField("Payment instructions:", "paymentInstructions", "Optional", 500, 50),
		newField("Add from catalog:", "catalog", "item name, then enter", 100, 30),
	}

	f.clientRef = ""
	for _, c := range clients {
		if c.ID == in.ClientID {
			f.clientRef = c.Name
		}
	}
	if f.clientRef == "" {
		// the client was deleted; keep pointing at it by id
		f.clientRef = in.ClientID
	}

	f.set(invFieldClient, f.clientRef)
	f.set(invFieldDate, in.Date)
	f.set(invFieldDue, in.DueDate)
	f.set(invFieldTax, formatNumber(in.TaxRate))
	f.set(invFieldDiscountType, string(in.DiscountType))
	f.set(invFieldDiscount, formatNumber(in.DiscountValue))
	f.set(invFieldNotes, in.Notes)
	f.set(invFieldPayment, in.PaymentInstructions)

	for _, li := range in.Items {
		f.addLine(li, false)
	}
	if len(in.Items) == 0 {
		f.addLine(domain.NewInvoiceItem("", 1, 0), false)
	}

	return f.focusFirst()
}

func (f *invoiceForm) catalogIndex() int {
	return len(f.fields) - 1
}

func (f *invoiceForm) onCatalog() bool {
	return f.focus == f.catalogIndex()
}

// lineAt reports which line the field index i belongs to
func (f *invoiceForm) lineAt(i int) (int, bool) {
	if i < invFixedFields || i >= f.catalogIndex() {
		return 0, false
	}
	return (i - invFixedFields) / lineWidth, true
}

// addLine inserts inputs for li just above the catalog picker
func (f *invoiceForm) addLine(li domain.InvoiceItem, focusNew bool) tea.Cmd {
	at := f.catalogIndex()

	desc := newField("", "", "Description", 200, 30)
	qty := newField("", "", "Qty", 10, 6)
	price := newField("", "", "Price", 12, 10)
	desc.input.SetValue(li.Description)
	qty.input.SetValue(formatNumber(li.Quantity))
	price.input.SetValue(formatNumber(li.UnitPrice))

	f.fields = slices.Insert(f.fields, at, desc, qty, price)
	f.lines = append(f.lines, lineMeta{id: li.ID, itemID: li.ItemID})

	if f.focus >= at {
		f.focus += lineWidth
	}
	if !focusNew {
		return nil
	}
	f.fields[f.focus].input.Blur()
	f.focus = at
	return f.fields[f.focus].input.Focus()
}

// removeFocusedLine drops the line that has focus, if any
func (f *invoiceForm) removeFocusedLine() tea.Cmd {
	line, ok := f.lineAt(f.focus)
	if !ok {
		return nil
	}

	start := invFixedFields + line*lineWidth
	f.fields[f.focus].input.Blur()
	f.fields = slices.Delete(f.fields, start, start+lineWidth)
	f.lines = slices.Delete(f.lines, line, line+1)

	f.focus = min(start, len(f.fields)-1)
	return f.fields[f.focus].input.Focus()
}

// addCatalogLine copies the catalog item named in the picker into a new line
func (f *invoiceForm) addCatalogLine(invoices service.InvoiceService, items []domain.Item) {
	ref := strings.TrimSpace(f.value(f.catalogIndex()))
	if ref == "" {
		return
	}

	item, ok := matchItem(items, ref)
	if !ok {
		f.errs = domain.Violations{"catalog": fmt.Sprintf("No catalog item matches %q", ref)}
		return
	}

	var scratch domain.InvoiceInput
	line, err := invoices.AddCatalogLine(context.Background(), &scratch, item.ID, 1)
	if err != nil {
		f.err = err
		return
	}

	f.errs = nil
	f.addLine(line, false)
	f.set(f.catalogIndex(), "")
}

// input assembles the invoice from the form. Only problems the form itself
// can see are reported; the service validates the rest.
func (f *invoiceForm) input() (domain.InvoiceInput, domain.Violations) {
	v := domain.Violations{}
	in := f.base

	ref := strings.TrimSpace(f.value(invFieldClient))
	switch {
	case ref != "" && ref == f.clientRef:
		in.ClientID = f.base.ClientID
	default:
		c, ok := matchClient(f.clients, ref)
		if !ok {
			v["clientId"] = "Please select a client"
		}
		in.ClientID = c.ID
	}

	in.Date = strings.TrimSpace(f.value(invFieldDate))
	in.DueDate = strings.TrimSpace(f.value(invFieldDue))
	in.TaxRate = domain.ParseAmount(f.value(invFieldTax))
	in.DiscountType = domain.DiscountType(strings.ToLower(strings.TrimSpace(f.value(invFieldDiscountType))))
	in.DiscountValue = domain.ParseAmount(f.value(invFieldDiscount))
	in.Notes = f.value(invFieldNotes)
	in.PaymentInstructions = f.value(invFieldPayment)

	in.Items = nil
	for i, meta := range f.lines {
		at := invFixedFields + i*lineWidth
		desc := strings.TrimSpace(f.value(at))
		qty := strings.TrimSpace(f.value(at + 1))
		price := strings.TrimSpace(f.value(at + 2))
		if desc == "" && domain.ParseAmount(price) == 0 && (qty == "" || qty == "1") {
			continue
		}

		li := domain.InvoiceItem{ID: meta.id, ItemID: meta.itemID, Description: desc}
		li.SetUnitPrice(domain.ParseAmount(price))
		li.SetQuantity(domain.ParseAmount(qty))
		in.Items = append(in.Items, li)
	}

	return in, v
}

// totals prices the form as it stands
func (f *invoiceForm) totals() (domain.Totals, float64) {
	in, _ := f.input()
	dt := in.DiscountType
	if dt == "" {
		dt = domain.DiscountPercentage
	}
	return domain.CalculateTotals(in.Items, in.TaxRate, dt, in.DiscountValue), in.TaxRate
}

func (f *invoiceForm) view() string {
	var s strings.Builder

	title := "New Invoice"
	if f.editingID != "" {
		title = "Edit Invoice"
	}
	s.WriteString(titleStyle.Render(title) + "\n\n")

	fieldLine := func(i int) {
		field := f.fields[i]
		indicator := "  "
		style := subtitleStyle
		if i == f.focus {
			indicator = "> "
			style = focusStyle
		}
		fmt.Fprintf(&s, "%s%s %s\n", indicator, style.Width(22).Render(field.label), field.input.View())
		if msg, ok := f.errs[field.key]; ok {
			s.WriteString("    " + errorStyle.Render(msg) + "\n")
		}
	}

	for i := 0; i < invFixedFields; i++ {
		fieldLine(i)
	}

	// Lines
	s.WriteString("\n" + focusStyle.Render("  Lines") + "\n")
	if msg, ok := f.errs["items"]; ok {
		s.WriteString("    " + errorStyle.Render(msg) + "\n")
	}
	for i := range f.lines {
		at := invFixedFields + i*lineWidth
		indicator := "  "
		if line, ok := f.lineAt(f.focus); ok && line == i {
			indicator = "> "
		}
		qty := domain.ParseAmount(f.value(at + 1))
		price := domain.ParseAmount(f.value(at + 2))
		fmt.Fprintf(&s, "%s%s %s %s %12s\n",
			indicator,
			f.fields[at].input.View(),
			f.fields[at+1].input.View(),
			f.fields[at+2].input.View(),
			formatMoney(qty*price),
		)
	}
	s.WriteString("\n")
	fieldLine(f.catalogIndex())

	// Live totals
	t, rate := f.totals()
	s.WriteString("\n" + renderTotals(t, rate))

	if f.err != nil {
		s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", f.err)) + "\n")
	}

	s.WriteString("\n" + helpStyle.Render("  tab/shift+tab: navigate  ctrl+n: add line  ctrl+x: remove line  ctrl+s: save  esc: cancel"))
	return s.String()
}

// matchClient finds a client by exact id, name, or unique id prefix
func matchClient(clients []domain.Client, ref string) (domain.Client, bool) {
	return match(clients, ref, func(c domain.Client) (string, string) { return c.ID, c.Name })
}

// matchItem finds a catalog item by exact id, name, or unique id prefix
func matchItem(items []domain.Item, ref string) (domain.Item, bool) {
	return match(items, ref, func(i domain.Item) (string, string) { return i.ID, i.Name })
}

func match[T any](records []T, ref string, keys func(T) (id, name string)) (T, bool) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, false
	}

	var prefixed []T
	for _, r := range records {
		id, name := keys(r)
		if id == ref || strings.EqualFold(name, ref) {
			return r, true
		}
		if strings.HasPrefix(id, ref) {
			prefixed = append(prefixed, r)
		}
	}
	if len(prefixed) == 1 {
		return prefixed[0], true
	}
	return zero, false
}
