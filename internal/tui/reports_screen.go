package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/swiftbill/internal/app"
)

// barWidth is the longest revenue bar in cells
const barWidth = 30

// ReportsModel shows paid revenue by month and outstanding balances by client
type ReportsModel struct {
	app         *app.App
	revenueYear int

	monthly     map[time.Month]float64
	outstanding map[string]float64

	loading bool
	err     error
}

type reportsDataMsg struct {
	year        int
	monthly     map[time.Month]float64
	outstanding map[string]float64
	err         error
}

// NewReportsModel creates a new reports screen model
func NewReportsModel(a *app.App) tea.Model {
	return &ReportsModel{
		app:         a,
		revenueYear: time.Now().Year(),
		loading:     true,
	}
}

func (m *ReportsModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *ReportsModel) loadData() tea.Cmd {
	year := m.revenueYear
	return func() tea.Msg {
		ctx := context.Background()

		monthly, err := m.app.ReportService.RevenueByMonth(ctx, year)
		if err != nil {
			return reportsDataMsg{err: fmt.Errorf("revenue: %w", err)}
		}
		outstanding, err := m.app.ReportService.OutstandingByClient(ctx)
		if err != nil {
			return reportsDataMsg{err: fmt.Errorf("outstanding: %w", err)}
		}
		return reportsDataMsg{year: year, monthly: monthly, outstanding: outstanding}
	}
}

func (m *ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil && msg.year == m.revenueYear {
			m.monthly = msg.monthly
			m.outstanding = msg.outstanding
		}
		return m, nil

	case RefreshDataMsg:
		m.loading = true
		return m, m.loadData()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Left):
			m.revenueYear--
			m.loading = true
			return m, m.loadData()
		case key.Matches(msg, DefaultKeyMap.Right):
			m.revenueYear++
			m.loading = true
			return m, m.loadData()
		}
	}

	return m, nil
}

func (m *ReportsModel) View() string {
	if m.loading && m.monthly == nil {
		return "Loading reports..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	}

	s := m.renderMonthlyRevenue()
	s += "\n" + m.renderOutstanding()
	s += "\n" + helpStyle.Render("  ←/→: change year")
	return s
}

func (m *ReportsModel) renderMonthlyRevenue() string {
	s := lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("  Revenue by Month (%d)", m.revenueYear),
	) + "\n"

	peak := 0.0
	yearTotal := 0.0
	for _, revenue := range m.monthly {
		yearTotal += revenue
		if revenue > peak {
			peak = revenue
		}
	}

	if yearTotal == 0 {
		return s + subtitleStyle.Render("    No paid invoices dated this year") + "\n"
	}

	barStyle := lipgloss.NewStyle().Foreground(primaryColor)
	for month := time.January; month <= time.December; month++ {
		revenue := m.monthly[month]
		bar := ""
		if peak > 0 && revenue > 0 {
			bar = strings.Repeat("█", max(1, int(revenue/peak*barWidth)))
		}
		s += fmt.Sprintf("    %-4s %s %14s\n",
			month.String()[:3],
			barStyle.Render(fmt.Sprintf("%-*s", barWidth, bar)),
			formatMoney(revenue),
		)
	}

	s += "    " + lipgloss.NewStyle().Bold(true).Render(
		fmt.Sprintf("%-*s %14s", barWidth+5, "Total", formatMoney(yearTotal)),
	) + "\n"
	return s
}

func (m *ReportsModel) renderOutstanding() string {
	s := lipgloss.NewStyle().Bold(true).Render("  Outstanding by Client") + "\n"

	if len(m.outstanding) == 0 {
		return s + subtitleStyle.Render("    Nothing outstanding") + "\n"
	}

	// Sort clients by amount descending
	names := make([]string, 0, len(m.outstanding))
	for name := range m.outstanding {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if m.outstanding[names[i]] != m.outstanding[names[j]] {
			return m.outstanding[names[i]] > m.outstanding[names[j]]
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		s += fmt.Sprintf("    %-24s %14s\n", truncateStr(name, 24), formatMoney(m.outstanding[name]))
	}
	return s
}
