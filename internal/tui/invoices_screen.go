package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/swiftbill/internal/app"
	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/export"
)

type invoiceViewMode int

const (
	invoiceViewList invoiceViewMode = iota
	invoiceViewSearch
	invoiceViewDetail
	invoiceViewForm
	invoiceViewConfirmDelete
)

// statusFilters is the order the list filter cycles through
var statusFilters = append([]string{"all"}, statusNames()...)

func statusNames() []string {
	names := make([]string, len(domain.InvoiceStatuses))
	for i, s := range domain.InvoiceStatuses {
		names[i] = string(s)
	}
	return names
}

// nextStatus cycles draft → sent → paid → overdue → cancelled → draft
func nextStatus(s domain.InvoiceStatus) domain.InvoiceStatus {
	for i, known := range domain.InvoiceStatuses {
		if known == s {
			return domain.InvoiceStatuses[(i+1)%len(domain.InvoiceStatuses)]
		}
	}
	return domain.InvoiceStatusDraft
}

// InvoicesModel displays invoices in list and detail views and edits them
type InvoicesModel struct {
	app       *app.App
	mode      invoiceViewMode
	invoices  []domain.Invoice
	clients   []domain.Client
	items     []domain.Item
	cursor    int
	search    textinput.Model
	filter    int // index into statusFilters
	loading   bool
	err       error
	statusMsg string

	// returnTo is the mode restored when a confirm or form is dismissed
	returnTo invoiceViewMode

	// selected is the invoice shown in the detail view
	selected *domain.Invoice

	form invoiceForm
}

type invoicesDataMsg struct {
	invoices []domain.Invoice
	clients  []domain.Client
	items    []domain.Item
	err      error
}

type invoiceSavedMsg struct {
	invoice domain.Invoice
	err     error
}

type invoiceStatusMsg struct {
	invoice domain.Invoice
	err     error
}

type invoiceDeletedMsg struct {
	number string
	err    error
}

type invoiceExportedMsg struct {
	number string
	path   string
	err    error
}

// NewInvoicesModel creates a new invoices screen model
func NewInvoicesModel(a *app.App) tea.Model {
	search := textinput.New()
	search.Placeholder = "invoice number or client"
	search.Prompt = "/ "
	search.Width = 40

	return &InvoicesModel{
		app:     a,
		mode:    invoiceViewList,
		search:  search,
		loading: true,
	}
}

// IsCapturingInput returns true when the form or search box is active
func (m *InvoicesModel) IsCapturingInput() bool {
	return m.mode == invoiceViewForm || m.mode == invoiceViewSearch
}

func (m *InvoicesModel) Init() tea.Cmd {
	return m.loadInvoices()
}

func (m *InvoicesModel) loadInvoices() tea.Cmd {
	term := m.search.Value()
	status := statusFilters[m.filter]
	return func() tea.Msg {
		ctx := context.Background()

		invoices, err := m.app.InvoiceService.Search(ctx, term, status)
		if err != nil {
			return invoicesDataMsg{err: err}
		}
		clients, err := m.app.ClientService.List(ctx)
		if err != nil {
			return invoicesDataMsg{err: err}
		}
		items, err := m.app.ItemService.List(ctx)
		if err != nil {
			return invoicesDataMsg{err: err}
		}
		return invoicesDataMsg{invoices: invoices, clients: clients, items: items}
	}
}

func (m *InvoicesModel) current() (domain.Invoice, bool) {
	if m.mode == invoiceViewDetail || m.returnTo == invoiceViewDetail {
		if m.selected != nil {
			return *m.selected, true
		}
	}
	if len(m.invoices) == 0 || m.cursor >= len(m.invoices) {
		return domain.Invoice{}, false
	}
	return m.invoices[m.cursor], true
}

func (m *InvoicesModel) saveInvoice() tea.Cmd {
	in, problems := m.form.input()
	if !problems.Empty() {
		m.form.errs = problems
		m.form.err = nil
		return nil
	}

	id := m.form.editingID
	return func() tea.Msg {
		ctx := context.Background()

		var (
			inv domain.Invoice
			err error
		)
		if id != "" {
			inv, err = m.app.InvoiceService.Update(ctx, id, in)
		} else {
			inv, err = m.app.InvoiceService.Create(ctx, in)
		}
		return invoiceSavedMsg{invoice: inv, err: err}
	}
}

func (m *InvoicesModel) advanceStatus(inv domain.Invoice) tea.Cmd {
	next := nextStatus(inv.Status)
	return func() tea.Msg {
		updated, err := m.app.InvoiceService.SetStatus(context.Background(), inv.ID, string(next))
		return invoiceStatusMsg{invoice: updated, err: err}
	}
}

func (m *InvoicesModel) deleteInvoice(inv domain.Invoice) tea.Cmd {
	return func() tea.Msg {
		err := m.app.InvoiceService.Delete(context.Background(), inv.ID)
		return invoiceDeletedMsg{number: inv.InvoiceNumber, err: err}
	}
}

func (m *InvoicesModel) exportPDF(inv domain.Invoice) tea.Cmd {
	dir := m.app.Config.Invoice.OutputDir
	return func() tea.Msg {
		ctx := context.Background()

		doc := export.InvoiceDocument{Invoice: inv}
		profile, ok, err := m.app.ProfileService.Get(ctx)
		if err != nil {
			return invoiceExportedMsg{err: err}
		}
		if ok {
			doc.Profile = profile
		}
		if client, err := m.app.ClientService.Get(ctx, inv.ClientID); err == nil {
			doc.Client = &client
		}

		path := filepath.Join(dir, export.InvoiceFileName(inv))
		if err := export.SaveInvoicePDF(path, doc); err != nil {
			return invoiceExportedMsg{err: err}
		}
		return invoiceExportedMsg{number: inv.InvoiceNumber, path: path}
	}
}

func (m *InvoicesModel) openForm(editing *domain.Invoice) tea.Cmd {
	m.returnTo = m.mode
	m.mode = invoiceViewForm
	if editing != nil {
		return m.form.load(editing.ID, editing.Input(), m.clients)
	}
	return m.form.load("", m.app.InvoiceService.Draft(time.Now()), m.clients)
}

func (m *InvoicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RefreshDataMsg:
		m.loading = true
		return m, m.loadInvoices()

	case invoicesDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.invoices = msg.invoices
			m.clients = msg.clients
			m.items = msg.items
			if m.cursor >= len(m.invoices) {
				m.cursor = max(0, len(m.invoices)-1)
			}
		}
		return m, nil

	case invoiceSavedMsg:
		if msg.err != nil {
			m.form.fail(msg.err)
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Saved: %s (%s)", msg.invoice.InvoiceNumber, formatMoney(msg.invoice.Total))
		if m.returnTo == invoiceViewDetail {
			inv := msg.invoice
			m.selected = &inv
			m.mode = invoiceViewDetail
		} else {
			m.mode = invoiceViewList
		}
		m.loading = true
		return m, m.loadInvoices()

	case invoiceStatusMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("%s marked as %s", msg.invoice.InvoiceNumber, msg.invoice.Status)
		if m.mode == invoiceViewDetail {
			inv := msg.invoice
			m.selected = &inv
		}
		m.loading = true
		return m, m.loadInvoices()

	case invoiceDeletedMsg:
		m.mode = invoiceViewList
		m.selected = nil
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Deleted: %s", msg.number)
		m.loading = true
		return m, m.loadInvoices()

	case invoiceExportedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Invoice %s -> %s", msg.number, msg.path)
		return m, nil
	}

	switch m.mode {
	case invoiceViewForm:
		return m.updateForm(msg)
	case invoiceViewSearch:
		return m.updateSearch(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.loading {
		return m, nil
	}

	switch m.mode {
	case invoiceViewList:
		return m.updateList(keyMsg)
	case invoiceViewDetail:
		return m.updateDetail(keyMsg)
	case invoiceViewConfirmDelete:
		m.mode = m.returnTo
		if key.Matches(keyMsg, DefaultKeyMap.Confirm) {
			if inv, ok := m.current(); ok {
				return m, m.deleteInvoice(inv)
			}
		}
	}
	return m, nil
}

func (m *InvoicesModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.statusMsg = ""

	switch {
	case key.Matches(msg, DefaultKeyMap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, DefaultKeyMap.Down):
		if m.cursor < len(m.invoices)-1 {
			m.cursor++
		}
	case key.Matches(msg, DefaultKeyMap.Select):
		if inv, ok := m.current(); ok {
			m.selected = &inv
			m.mode = invoiceViewDetail
		}
	case key.Matches(msg, DefaultKeyMap.New):
		if len(m.clients) == 0 {
			m.err = fmt.Errorf("add a client before creating invoices")
			return m, nil
		}
		return m, m.openForm(nil)
	case key.Matches(msg, DefaultKeyMap.Edit):
		if inv, ok := m.current(); ok {
			return m, m.openForm(&inv)
		}
	case key.Matches(msg, DefaultKeyMap.Status):
		if inv, ok := m.current(); ok {
			return m, m.advanceStatus(inv)
		}
	case key.Matches(msg, DefaultKeyMap.Delete):
		if _, ok := m.current(); ok {
			m.returnTo = invoiceViewList
			m.mode = invoiceViewConfirmDelete
		}
	case key.Matches(msg, DefaultKeyMap.Export):
		if inv, ok := m.current(); ok {
			return m, m.exportPDF(inv)
		}
	case key.Matches(msg, DefaultKeyMap.Filter):
		m.filter = (m.filter + 1) % len(statusFilters)
		m.cursor = 0
		m.loading = true
		return m, m.loadInvoices()
	case key.Matches(msg, DefaultKeyMap.Search):
		m.mode = invoiceViewSearch
		return m, m.search.Focus()
	case key.Matches(msg, DefaultKeyMap.Back):
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.loading = true
			return m, m.loadInvoices()
		}
	}

	return m, nil
}

func (m *InvoicesModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	inv := *m.selected

	switch {
	case key.Matches(msg, DefaultKeyMap.Back):
		m.mode = invoiceViewList
		m.selected = nil
		m.statusMsg = ""
	case key.Matches(msg, DefaultKeyMap.Edit):
		return m, m.openForm(&inv)
	case key.Matches(msg, DefaultKeyMap.Status):
		return m, m.advanceStatus(inv)
	case key.Matches(msg, DefaultKeyMap.Export):
		return m, m.exportPDF(inv)
	case key.Matches(msg, DefaultKeyMap.Delete):
		m.returnTo = invoiceViewDetail
		m.mode = invoiceViewConfirmDelete
	}
	return m, nil
}

func (m *InvoicesModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && (msg.String() == "enter" || msg.String() == "esc") {
		m.search.Blur()
		m.mode = invoiceViewList
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.cursor = 0
		return m, tea.Batch(cmd, m.loadInvoices())
	}
	return m, cmd
}

func (m *InvoicesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.mode = m.returnTo
			if m.mode == invoiceViewForm {
				m.mode = invoiceViewList
			}
			return m, nil
		case "ctrl+s":
			return m, m.saveInvoice()
		case "ctrl+n":
			return m, m.form.addLine(domain.NewInvoiceItem("", 1, 0), true)
		case "ctrl+x":
			return m, m.form.removeFocusedLine()
		case "enter":
			if m.form.onCatalog() {
				m.form.addCatalogLine(m.app.InvoiceService, m.items)
				return m, nil
			}
		}
	}

	cmd, submit := m.form.update(msg)
	if submit {
		return m, m.saveInvoice()
	}
	return m, cmd
}

func (m *InvoicesModel) View() string {
	switch m.mode {
	case invoiceViewForm:
		return m.form.view()
	case invoiceViewDetail:
		return m.viewDetail()
	case invoiceViewConfirmDelete:
		if m.returnTo == invoiceViewDetail {
			return m.viewDetail()
		}
	}
	return m.viewList()
}

func (m *InvoicesModel) viewList() string {
	if m.loading && m.invoices == nil {
		return "Loading invoices..."
	}

	var s strings.Builder
	title := "Invoices"
	if f := statusFilters[m.filter]; f != "all" {
		title += subtitleStyle.Render("  (" + f + ")")
	}
	s.WriteString(titleStyle.Render(title) + "\n")
	if m.mode == invoiceViewSearch || m.search.Value() != "" {
		s.WriteString(m.search.View() + "\n")
	}
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n\n")
	}
	if m.statusMsg != "" {
		s.WriteString(statusStyle.Render("  "+m.statusMsg) + "\n\n")
	}

	if len(m.invoices) == 0 {
		s.WriteString(subtitleStyle.Render("  No invoices found. Press 'n' to create one.") + "\n")
		return s.String()
	}

	now := time.Now()
	fmt.Fprintf(&s, "  %-12s %-22s %-11s %-11s %14s  %s\n", "Number", "Client", "Date", "Due", "Total", "Status")
	for i := range m.invoices {
		inv := &m.invoices[i]
		row := fmt.Sprintf("%-12s %-22s %-11s %-11s %14s  ",
			inv.InvoiceNumber,
			truncateStr(inv.ClientName, 22),
			inv.Date,
			inv.DueDate,
			formatMoney(inv.Total),
		)
		status := renderStatus(inv.Status)
		if inv.PastDue(now) {
			status += warningStyle.Render(" past due")
		}
		if i == m.cursor {
			s.WriteString("> " + selectedStyle.Render(row) + status + "\n")
		} else {
			s.WriteString("  " + row + status + "\n")
		}
	}

	if m.mode == invoiceViewConfirmDelete {
		if inv, ok := m.current(); ok {
			s.WriteString("\n" + confirmLine("invoice "+inv.InvoiceNumber) + "\n")
		}
		return s.String()
	}

	s.WriteString("\n" + helpStyle.Render("  j/k: navigate  enter: view  n: new  e: edit  s: next status  x: pdf  d: delete  f: filter  /: search"))
	return s.String()
}

func (m *InvoicesModel) viewDetail() string {
	inv := m.selected
	if inv == nil {
		return ""
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render("Invoice "+inv.InvoiceNumber) + "  " + renderStatus(inv.Status) + "\n\n")

	fmt.Fprintf(&s, "  %s %s\n", labelStyle.Render("Client:"), inv.ClientName)
	fmt.Fprintf(&s, "  %s %s\n", labelStyle.Render("Date:"), inv.Date)
	due := inv.DueDate
	if inv.PastDue(time.Now()) {
		due += warningStyle.Render("  past due")
	}
	fmt.Fprintf(&s, "  %s %s\n\n", labelStyle.Render("Due:"), due)

	fmt.Fprintf(&s, "  %-36s %8s %12s %12s\n", "Description", "Qty", "Price", "Amount")
	s.WriteString("  " + strings.Repeat("-", 71) + "\n")
	for _, li := range inv.Items {
		fmt.Fprintf(&s, "  %-36s %8s %12s %12s\n",
			truncateStr(li.Description, 36),
			formatNumber(li.Quantity),
			formatMoney(li.UnitPrice),
			formatMoney(li.Total),
		)
	}
	s.WriteString("  " + strings.Repeat("-", 71) + "\n")
	s.WriteString(renderTotals(domain.Totals{
		Subtotal:       inv.Subtotal,
		TaxAmount:      inv.TaxAmount,
		DiscountAmount: inv.DiscountAmount,
		Total:          inv.Total,
	}, inv.TaxRate))

	if inv.Notes != "" {
		fmt.Fprintf(&s, "\n  %s %s\n", labelStyle.Render("Notes:"), inv.Notes)
	}
	if inv.PaymentInstructions != "" {
		fmt.Fprintf(&s, "  %s %s\n", labelStyle.Render("Payment:"), inv.PaymentInstructions)
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(fmt.Sprintf("  Error: %v", m.err)) + "\n")
	}
	if m.statusMsg != "" {
		s.WriteString("\n" + statusStyle.Render("  "+m.statusMsg) + "\n")
	}

	if m.mode == invoiceViewConfirmDelete {
		s.WriteString("\n" + confirmLine("invoice "+inv.InvoiceNumber) + "\n")
		return s.String()
	}
	s.WriteString("\n" + helpStyle.Render("  e: edit  s: next status  x: pdf  d: delete  esc: back"))
	return s.String()
}

func renderTotals(t domain.Totals, taxRate float64) string {
	var s strings.Builder
	fmt.Fprintf(&s, "  %58s %12s\n", "Subtotal:", formatMoney(t.Subtotal))
	fmt.Fprintf(&s, "  %58s %12s\n", "Tax ("+formatNumber(taxRate)+"%):", formatMoney(t.TaxAmount))
	if t.DiscountAmount != 0 {
		fmt.Fprintf(&s, "  %58s %12s\n", "Discount:", "-"+formatMoney(t.DiscountAmount))
	}
	fmt.Fprintf(&s, "  %58s %s\n", "Total:", amountStyle.Render(fmt.Sprintf("%12s", formatMoney(t.Total))))
	return s.String()
}
