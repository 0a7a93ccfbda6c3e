package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/logging"
	"github.com/andy/swiftbill/internal/repository"
)

func newTestRepos() *repository.Repositories {
	return repository.New(repository.NewMemoryKV())
}

func newTestInvoiceService(t *testing.T, repos *repository.Repositories, numbering string) *invoiceService {
	t.Helper()
	numberer, err := NewNumberer(numbering, "INV", repos.Sequence)
	if err != nil {
		t.Fatalf("numberer: %v", err)
	}
	return NewInvoiceService(
		repos.Invoices,
		repos.Clients,
		repos.Items,
		numberer,
		InvoiceDefaults{DueDays: 30, Currency: "USD"},
		logging.Discard(),
	).(*invoiceService)
}

func mustCreateClient(t *testing.T, repos *repository.Repositories, name string) domain.Client {
	t.Helper()
	svc := NewClientService(repos.Clients, logging.Discard())
	c, err := svc.Create(context.Background(), domain.ClientInput{Name: name, Email: "billing@example.com"})
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func invoiceInput(clientID string) domain.InvoiceInput {
	return domain.InvoiceInput{
		ClientID: clientID,
		Items: []domain.InvoiceItem{
			domain.NewInvoiceItem("Design", 2, 50),
			domain.NewInvoiceItem("Hosting", 1, 30),
		},
		TaxRate:       10,
		DiscountType:  domain.DiscountPercentage,
		DiscountValue: 5,
	}
}

func assertViolation(t *testing.T, err error, field, message string) {
	t.Helper()
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %v", err)
	}
	if got := verr.Violations[field]; got != message {
		t.Fatalf("violation %s = %q, want %q", field, got, message)
	}
}
