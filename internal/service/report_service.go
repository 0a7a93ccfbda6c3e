package service

import (
	"context"
	"time"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// Dashboard is the summary shown on the home screen
type Dashboard struct {
	TotalRevenue float64 // paid
	PaidCount    int

	PendingAmount float64 // sent, awaiting payment
	PendingCount  int

	OverdueAmount float64
	OverdueCount  int

	// Sent invoices beyond their due date that have not been marked overdue
	PastDueAmount float64
	PastDueCount  int

	InvoiceCount int
	ClientCount  int
	ItemCount    int

	// First invoices in stored (insertion) order
	Recent []domain.Invoice
}

// Summarize aggregates invoices by status. It is pure: now is only used for
// the past-due hint.
func Summarize(invoices []domain.Invoice, recentLimit int, now time.Time) Dashboard {
	d := Dashboard{InvoiceCount: len(invoices)}

	for i := range invoices {
		inv := &invoices[i]
		switch inv.Status {
		case domain.InvoiceStatusPaid:
			d.TotalRevenue += inv.Total
			d.PaidCount++
		case domain.InvoiceStatusSent:
			d.PendingAmount += inv.Total
			d.PendingCount++
			if inv.PastDue(now) {
				d.PastDueAmount += inv.Total
				d.PastDueCount++
			}
		case domain.InvoiceStatusOverdue:
			d.OverdueAmount += inv.Total
			d.OverdueCount++
		}
	}

	if recentLimit > len(invoices) {
		recentLimit = len(invoices)
	}
	if recentLimit < 0 {
		recentLimit = 0
	}
	d.Recent = append([]domain.Invoice(nil), invoices[:recentLimit]...)

	return d
}

// ReportService provides aggregations over the stored invoices
type ReportService interface {
	Dashboard(ctx context.Context) (Dashboard, error)

	// RevenueByMonth sums paid invoices by the month of their invoice date
	RevenueByMonth(ctx context.Context, year int) (map[time.Month]float64, error)

	// OutstandingByClient sums sent and overdue invoices per client name
	OutstandingByClient(ctx context.Context) (map[string]float64, error)
}

type reportService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	itemRepo    repository.ItemRepository
	recentLimit int
	now         func() time.Time
}

// NewReportService creates a new report service
func NewReportService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	itemRepo repository.ItemRepository,
	recentLimit int,
) ReportService {
	return &reportService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		itemRepo:    itemRepo,
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

func (s *reportService) Dashboard(ctx context.Context) (Dashboard, error) {
	invoices, err := s.invoiceRepo.Load(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	clients, err := s.clientRepo.Load(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	items, err := s.itemRepo.Load(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := Summarize(invoices, s.recentLimit, s.now())
	d.ClientCount = len(clients)
	d.ItemCount = len(items)
	return d, nil
}

func (s *reportService) RevenueByMonth(ctx context.Context, year int) (map[time.Month]float64, error) {
	invoices, err := s.invoiceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	revenue := make(map[time.Month]float64)
	for _, inv := range invoices {
		if inv.Status != domain.InvoiceStatusPaid {
			continue
		}
		date, err := time.Parse(domain.DateLayout, inv.Date)
		if err != nil || date.Year() != year {
			continue
		}
		revenue[date.Month()] += inv.Total
	}

	return revenue, nil
}

func (s *reportService) OutstandingByClient(ctx context.Context) (map[string]float64, error) {
	invoices, err := s.invoiceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	outstanding := make(map[string]float64)
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusSent || inv.Status == domain.InvoiceStatusOverdue {
			outstanding[inv.ClientName] += inv.Total
		}
	}

	return outstanding, nil
}
