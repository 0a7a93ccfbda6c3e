package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/swiftbill/internal/app"
	"github.com/andy/swiftbill/internal/service"
)

// DashboardModel represents the dashboard home screen
type DashboardModel struct {
	app *app.App

	// Data
	summary service.Dashboard

	loading bool
	err     error
}

type dashboardDataMsg struct {
	summary service.Dashboard
	err     error
}

// NewDashboardModel creates a new dashboard model
func NewDashboardModel(a *app.App) tea.Model {
	return &DashboardModel{
		app:     a,
		loading: true,
	}
}

func (m *DashboardModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *DashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		d, err := m.app.ReportService.Dashboard(context.Background())
		if err != nil {
			return dashboardDataMsg{err: fmt.Errorf("dashboard: %w", err)}
		}
		return dashboardDataMsg{summary: d}
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.summary = msg.summary
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()
	}

	return m, nil
}

func (m *DashboardModel) View() string {
	if m.loading {
		return "Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	d := m.summary
	var s strings.Builder

	// Summary cards
	fmt.Fprintf(&s, "  %-15s %s  %s\n", "Total revenue:", amountStyle.Render(fmt.Sprintf("%14s", formatMoney(d.TotalRevenue))),
		subtitleStyle.Render(fmt.Sprintf("%d paid", d.PaidCount)))
	fmt.Fprintf(&s, "  %-15s %s  %s\n", "Pending:", amountStyle.Render(fmt.Sprintf("%14s", formatMoney(d.PendingAmount))),
		subtitleStyle.Render(fmt.Sprintf("%d sent", d.PendingCount)))
	fmt.Fprintf(&s, "  %-15s %s  %s\n", "Overdue:", amountStyle.Render(fmt.Sprintf("%14s", formatMoney(d.OverdueAmount))),
		subtitleStyle.Render(fmt.Sprintf("%d overdue", d.OverdueCount)))
	if d.PastDueCount > 0 {
		s.WriteString(warningStyle.Render(fmt.Sprintf("  %d sent invoice(s) are past their due date (%s)",
			d.PastDueCount, formatMoney(d.PastDueAmount))) + "\n")
	}

	s.WriteString("\n")
	fmt.Fprintf(&s, "  Invoices: %d   Clients: %d   Items: %d\n", d.InvoiceCount, d.ClientCount, d.ItemCount)

	// Recent invoices
	s.WriteString("\n" + m.renderRecent())
	return s.String()
}

func (m *DashboardModel) renderRecent() string {
	header := "  Recent Invoices\n"
	if len(m.summary.Recent) == 0 {
		return header + subtitleStyle.Render("  No invoices yet. Press 'i' then 'n' to create one.") + "\n"
	}

	now := time.Now()
	var s strings.Builder
	s.WriteString(header)
	for i := range m.summary.Recent {
		inv := &m.summary.Recent[i]
		due := inv.DueDate
		if inv.PastDue(now) {
			due = warningStyle.Render(due)
		}
		fmt.Fprintf(&s, "  %-12s %-22s %14s  %s %s\n",
			inv.InvoiceNumber,
			truncateStr(inv.ClientName, 22),
			formatMoney(inv.Total),
			renderStatus(inv.Status),
			due,
		)
	}
	return s.String()
}
