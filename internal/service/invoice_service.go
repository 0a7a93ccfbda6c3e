package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// InvoiceDefaults are applied to new invoices when the caller leaves a field empty
type InvoiceDefaults struct {
	DueDays  int
	TaxRate  float64
	Currency string
}

// InvoiceService manages the invoice lifecycle
type InvoiceService interface {
	// Draft returns a blank input prefilled with today's date and defaults
	Draft(now time.Time) domain.InvoiceInput

	// Create validates the input, snapshots the client name, prices the
	// invoice and appends it as a draft with a new number
	Create(ctx context.Context, in domain.InvoiceInput) (domain.Invoice, error)

	// Update replaces the editable fields. ID, number and status are kept.
	Update(ctx context.Context, id string, in domain.InvoiceInput) (domain.Invoice, error)

	// SetStatus assigns any known status; there are no transition rules
	SetStatus(ctx context.Context, id string, status string) (domain.Invoice, error)

	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)

	// Search matches invoice number or client name; status may be "" or "all"
	Search(ctx context.Context, term, status string) ([]domain.Invoice, error)

	// AddCatalogLine appends a line copied from the catalog item itemID
	AddCatalogLine(ctx context.Context, in *domain.InvoiceInput, itemID string, quantity float64) (domain.InvoiceItem, error)
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	itemRepo    repository.ItemRepository
	numberer    Numberer
	defaults    InvoiceDefaults
	logger      *slog.Logger

	// serializes number assignment
	mu sync.Mutex
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	itemRepo repository.ItemRepository,
	numberer Numberer,
	defaults InvoiceDefaults,
	logger *slog.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		itemRepo:    itemRepo,
		numberer:    numberer,
		defaults:    defaults,
		logger:      logger,
	}
}

func (s *invoiceService) Draft(now time.Time) domain.InvoiceInput {
	in := domain.InvoiceInput{
		TaxRate:      s.defaults.TaxRate,
		DiscountType: domain.DiscountPercentage,
	}
	s.applyDefaults(&in, now)
	return in
}

func (s *invoiceService) applyDefaults(in *domain.InvoiceInput, now time.Time) {
	if in.Date == "" {
		in.Date = now.Format(domain.DateLayout)
	}
	if in.DueDate == "" {
		if due, err := domain.DueDateFrom(in.Date, s.defaults.DueDays); err == nil {
			in.DueDate = due
		}
	}
	if in.DiscountType == "" {
		in.DiscountType = domain.DiscountPercentage
	}
	if in.Currency == "" {
		in.Currency = s.defaults.Currency
	}
}

func (s *invoiceService) Create(ctx context.Context, in domain.InvoiceInput) (domain.Invoice, error) {
	if err := in.Validate().Err(); err != nil {
		return domain.Invoice{}, err
	}

	// Verify client exists
	client, ok, err := s.clientRepo.Get(ctx, in.ClientID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !ok {
		return domain.Invoice{}, fmt.Errorf("client %s: %w", in.ClientID, ErrNotFound)
	}

	s.applyDefaults(&in, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.invoiceRepo.Load(ctx)
	if err != nil {
		return domain.Invoice{}, err
	}

	number, err := s.numberer.Next(ctx, existing)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice := domain.Invoice{
		InvoiceNumber: number,
		ClientName:    client.Name,
		Status:        domain.InvoiceStatusDraft,
	}
	invoice.Apply(in)

	invoices, err := s.invoiceRepo.Insert(ctx, invoice)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	created := invoices[len(invoices)-1]
	s.logger.Info("invoice created", "id", created.ID, "number", created.InvoiceNumber, "total", created.Total)
	return created, nil
}

func (s *invoiceService) Update(ctx context.Context, id string, in domain.InvoiceInput) (domain.Invoice, error) {
	if err := in.Validate().Err(); err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.Get(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	// Re-snapshot the client name. A deleted client keeps its old snapshot
	// as long as the invoice still points at it.
	client, ok, err := s.clientRepo.Get(ctx, in.ClientID)
	if err != nil {
		return domain.Invoice{}, err
	}
	switch {
	case ok:
		invoice.ClientName = client.Name
	case in.ClientID != invoice.ClientID:
		return domain.Invoice{}, fmt.Errorf("client %s: %w", in.ClientID, ErrNotFound)
	}

	if in.DiscountType == "" {
		in.DiscountType = domain.DiscountPercentage
	}
	invoice.Apply(in)

	if _, err := s.invoiceRepo.Update(ctx, id, invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.logger.Info("invoice updated", "id", id, "total", invoice.Total)
	return invoice, nil
}

func (s *invoiceService) SetStatus(ctx context.Context, id string, status string) (domain.Invoice, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return domain.Invoice{}, err
	}

	invoice, err := s.Get(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}

	if _, err := s.invoiceRepo.Update(ctx, id, map[string]any{"status": st}); err != nil {
		return domain.Invoice{}, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.logger.Info("invoice status changed", "id", id, "from", invoice.Status, "to", st)
	invoice.Status = st
	return invoice, nil
}

func (s *invoiceService) Delete(ctx context.Context, id string) error {
	invoice, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.invoiceRepo.Remove(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	s.logger.Info("invoice deleted", "id", id, "number", invoice.InvoiceNumber)
	return nil
}

func (s *invoiceService) Get(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, ok, err := s.invoiceRepo.Get(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !ok {
		return domain.Invoice{}, fmt.Errorf("invoice %s: %w", id, ErrNotFound)
	}
	return invoice, nil
}

func (s *invoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.invoiceRepo.Load(ctx)
}

func (s *invoiceService) Search(ctx context.Context, term, status string) ([]domain.Invoice, error) {
	if status != "" && status != "all" {
		if _, err := domain.ParseStatus(status); err != nil {
			return nil, err
		}
	}

	invoices, err := s.invoiceRepo.Load(ctx)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.Invoice, 0, len(invoices))
	for i := range invoices {
		if invoices[i].Matches(term, status) {
			matches = append(matches, invoices[i])
		}
	}
	return matches, nil
}

func (s *invoiceService) AddCatalogLine(
	ctx context.Context,
	in *domain.InvoiceInput,
	itemID string,
	quantity float64,
) (domain.InvoiceItem, error) {
	item, ok, err := s.itemRepo.Get(ctx, itemID)
	if err != nil {
		return domain.InvoiceItem{}, err
	}
	if !ok {
		return domain.InvoiceItem{}, fmt.Errorf("item %s: %w", itemID, ErrNotFound)
	}

	line := domain.FromCatalog(item, quantity)
	in.Items = append(in.Items, line)
	return line, nil
}
