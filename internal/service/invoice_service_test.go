package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/logging"
	"github.com/andy/swiftbill/internal/repository"
)

// mock implementations
type mockInvoiceRepo struct {
	repository.InvoiceRepository
	saveErr error
}

func (m *mockInvoiceRepo) Insert(ctx context.Context, invoice domain.Invoice) ([]domain.Invoice, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.InvoiceRepository.Insert(ctx, invoice)
}

type mockCounter struct {
	next int
	err  error
}

func (m *mockCounter) Next(ctx context.Context, floor int) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if floor > m.next {
		m.next = floor
	}
	m.next++
	return m.next, nil
}
func (m *mockCounter) Reset(ctx context.Context) error { m.next = 0; return nil }

func TestInvoiceService_Create(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	svc := newTestInvoiceService(t, repos, "sequence")

	inv, err := svc.Create(ctx, invoiceInput(client.ID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inv.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if inv.InvoiceNumber != "INV-001" {
		t.Fatalf("expected INV-001, got %s", inv.InvoiceNumber)
	}
	if inv.Status != domain.InvoiceStatusDraft {
		t.Fatalf("expected draft, got %s", inv.Status)
	}
	if inv.ClientName != "Acme" {
		t.Fatalf("expected client name snapshot, got %q", inv.ClientName)
	}
	if inv.Subtotal != 130 || inv.TaxAmount != 13 || inv.DiscountAmount != 6.5 || inv.Total != 136.5 {
		t.Fatalf("unexpected totals %+v", inv)
	}
	if inv.Currency != "USD" || inv.Date == "" || inv.DueDate == "" {
		t.Fatalf("defaults not applied: %+v", inv)
	}

	stored, _ := repos.Invoices.Load(ctx)
	if len(stored) != 1 || stored[0].ID != inv.ID {
		t.Fatalf("invoice not persisted: %+v", stored)
	}
}

func TestInvoiceService_CreateDueDateDefault(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	svc := newTestInvoiceService(t, repos, "sequence")

	in := invoiceInput(client.ID)
	in.Date = "2026-01-15"
	inv, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.DueDate != "2026-02-14" {
		t.Fatalf("expected due date 2026-02-14, got %s", inv.DueDate)
	}
}

func TestInvoiceService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	svc := newTestInvoiceService(t, repos, "sequence")

	_, err := svc.Create(ctx, domain.InvoiceInput{Items: invoiceInput("").Items})
	assertViolation(t, err, "clientId", "Please select a client")

	_, err = svc.Create(ctx, domain.InvoiceInput{ClientID: client.ID})
	assertViolation(t, err, "items", "At least one item is required")

	if _, err := svc.Create(ctx, invoiceInput("ghost")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown client, got %v", err)
	}

	stored, _ := repos.Invoices.Load(ctx)
	if len(stored) != 0 {
		t.Fatalf("failed creates must not persist, got %d invoices", len(stored))
	}
}

func TestInvoiceService_SequenceNumbersAreNotReused(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	svc := newTestInvoiceService(t, repos, "sequence")

	first, _ := svc.Create(ctx, invoiceInput(client.ID))
	second, _ := svc.Create(ctx, invoiceInput(client.ID))
	if second.InvoiceNumber != "INV-002" {
		t.Fatalf("expected INV-002, got %s", second.InvoiceNumber)
	}

	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	third, _ := svc.Create(ctx, invoiceInput(client.ID))
	if third.InvoiceNumber != "INV-003" {
		t.Fatalf("expected INV-003 after delete, got %s", third.InvoiceNumber)
	}
}

func TestInvoiceService_CountNumberingRepeatsAfterDelete(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	svc := newTestInvoiceService(t, repos, "count")

	first, _ := svc.Create(ctx, invoiceInput(client.ID))
	second, _ := svc.Create(ctx, invoiceInput(client.ID))
	if first.InvoiceNumber != "INV-001" || second.InvoiceNumber != "INV-002" {
		t.Fatalf("unexpected numbers %s %s", first.InvoiceNumber, second.InvoiceNumber)
	}

	svc.Delete(ctx, first.ID)

	third, _ := svc.Create(ctx, invoiceInput(client.ID))
	if third.InvoiceNumber != "INV-002" {
		t.Fatalf("count numbering should yield INV-002 again, got %s", third.InvoiceNumber)
	}
}

func TestInvoiceService_SequenceSeedsFromImportedData(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")

	repos.Invoices.Save(ctx, []domain.Invoice{
		{ID: "a", InvoiceNumber: "INV-007", Status: domain.InvoiceStatusPaid},
		{ID: "b", InvoiceNumber: "custom", Status: domain.InvoiceStatusDraft},
	})

	svc := newTestInvoiceService(t, repos, "sequence")
	inv, err := svc.Create(ctx, invoiceInput(client.ID))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.InvoiceNumber != "INV-008" {
		t.Fatalf("expected INV-008, got %s", inv.InvoiceNumber)
	}
}

func TestInvoiceService_Update(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	acme := mustCreateClient(t, repos, "Acme")
	globex := mustCreateClient(t, repos, "Globex")
	svc := newTestInvoiceService(t, repos, "sequence")

	inv, _ := svc.Create(ctx, invoiceInput(acme.ID))
	svc.SetStatus(ctx, inv.ID, "sent")

	in := inv.Input()
	in.ClientID = globex.ID
	in.DiscountType = domain.DiscountFixed
	in.DiscountValue = 20

	updated, err := svc.Update(ctx, inv.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != inv.ID || updated.InvoiceNumber != inv.InvoiceNumber {
		t.Fatalf("identity changed: %+v", updated)
	}
	if updated.Status != domain.InvoiceStatusSent {
		t.Fatalf("status should be kept, got %s", updated.Status)
	}
	if updated.ClientName != "Globex" {
		t.Fatalf("client name not re-snapshotted: %q", updated.ClientName)
	}
	if updated.Total != 123 {
		t.Fatalf("expected total 123, got %v", updated.Total)
	}

	stored, _ := svc.Get(ctx, inv.ID)
	if stored.Total != 123 || stored.ClientName != "Globex" {
		t.Fatalf("update not persisted: %+v", stored)
	}
}

func TestInvoiceService_UpdateKeepsSnapshotOfDeletedClient(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	acme := mustCreateClient(t, repos, "Acme")
	svc := newTestInvoiceService(t, repos, "sequence")

	inv, _ := svc.Create(ctx, invoiceInput(acme.ID))
	repos.Clients.Remove(ctx, acme.ID)

	in := inv.Input()
	in.Notes = "thanks"
	updated, err := svc.Update(ctx, inv.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ClientName != "Acme" || updated.Notes != "thanks" {
		t.Fatalf("unexpected invoice %+v", updated)
	}
}

func TestInvoiceService_SetStatus(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	svc := newTestInvoiceService(t, repos, "sequence")
	inv, _ := svc.Create(ctx, invoiceInput(client.ID))

	// any status may follow any other
	for _, status := range []string{"paid", "draft", "cancelled", "overdue", "pending"} {
		got, err := svc.SetStatus(ctx, inv.ID, status)
		if err != nil {
			t.Fatalf("SetStatus(%s): %v", status, err)
		}
		want := domain.NormalizeStatus(status)
		if got.Status != want {
			t.Fatalf("SetStatus(%s) = %s", status, got.Status)
		}
		stored, _ := svc.Get(ctx, inv.ID)
		if stored.Status != want {
			t.Fatalf("status %s not persisted", status)
		}
	}

	if _, err := svc.SetStatus(ctx, inv.ID, "archived"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, "missing", "paid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvoiceService_Search(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	acme := mustCreateClient(t, repos, "Acme")
	globex := mustCreateClient(t, repos, "Globex")
	svc := newTestInvoiceService(t, repos, "sequence")

	a, _ := svc.Create(ctx, invoiceInput(acme.ID))
	svc.Create(ctx, invoiceInput(globex.ID))
	svc.SetStatus(ctx, a.ID, "paid")

	tests := []struct {
		term, status string
		want         int
	}{
		{"", "all", 2},
		{"", "", 2},
		{"acme", "", 1},
		{"inv-00", "draft", 1},
		{"", "paid", 1},
		{"", "sent", 0},
	}
	for _, tt := range tests {
		got, err := svc.Search(ctx, tt.term, tt.status)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q, %q) = %d results, want %d", tt.term, tt.status, len(got), tt.want)
		}
	}

	if _, err := svc.Search(ctx, "", "bogus"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestInvoiceService_AddCatalogLine(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	svc := newTestInvoiceService(t, repos, "sequence")

	items := NewItemService(repos.Items, logging.Discard())
	item, _ := items.Create(ctx, domain.ItemInput{Name: "Support", Description: "per hour", UnitPrice: "80"})

	var in domain.InvoiceInput
	line, err := svc.AddCatalogLine(ctx, &in, item.ID, 3)
	if err != nil {
		t.Fatalf("add line: %v", err)
	}
	if line.Total != 240 || line.ItemID != item.ID || line.Description != "Support - per hour" {
		t.Fatalf("unexpected line %+v", line)
	}
	if len(in.Items) != 1 {
		t.Fatalf("line not appended")
	}

	// a later price change does not reach lines already built
	items.Update(ctx, item.ID, domain.ItemInput{Name: "Support", UnitPrice: "100"})
	if in.Items[0].UnitPrice != 80 {
		t.Fatalf("line followed catalog price")
	}

	if _, err := svc.AddCatalogLine(ctx, &in, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvoiceService_Draft(t *testing.T) {
	repos := newTestRepos()
	svc := newTestInvoiceService(t, repos, "sequence")
	svc.defaults.TaxRate = 8.25

	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	in := svc.Draft(now)
	if in.Date != "2026-05-01" || in.DueDate != "2026-05-31" {
		t.Fatalf("unexpected dates %s / %s", in.Date, in.DueDate)
	}
	if in.TaxRate != 8.25 || in.DiscountType != domain.DiscountPercentage || in.Currency != "USD" {
		t.Fatalf("unexpected defaults %+v", in)
	}
}

func TestInvoiceService_CreateStoreFailure(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")

	boom := errors.New("disk full")
	svc := NewInvoiceService(
		&mockInvoiceRepo{InvoiceRepository: repos.Invoices, saveErr: boom},
		repos.Clients,
		repos.Items,
		&sequenceNumberer{prefix: "INV", counter: &mockCounter{}},
		InvoiceDefaults{DueDays: 30, Currency: "USD"},
		logging.Discard(),
	)

	if _, err := svc.Create(ctx, invoiceInput(client.ID)); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestInvoiceService_NumberingFailure(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")

	boom := errors.New("counter unavailable")
	svc := NewInvoiceService(
		repos.Invoices,
		repos.Clients,
		repos.Items,
		&sequenceNumberer{prefix: "INV", counter: &mockCounter{err: boom}},
		InvoiceDefaults{},
		logging.Discard(),
	)

	if _, err := svc.Create(ctx, invoiceInput(client.ID)); !errors.Is(err, boom) {
		t.Fatalf("expected counter error, got %v", err)
	}
}

func TestNewNumberer(t *testing.T) {
	if _, err := NewNumberer("random", "INV", nil); err == nil {
		t.Fatal("expected error for unknown numbering")
	}

	n, err := NewNumberer("count", "BILL", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := n.Next(context.Background(), make([]domain.Invoice, 41))
	if got != "BILL-042" {
		t.Fatalf("expected BILL-042, got %s", got)
	}
}

func TestParseInvoiceNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"INV-001", 1, true},
		{"INV-1234", 1234, true},
		{"INV-abc", 0, false},
		{"BILL-001", 0, false},
		{"INV001", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseInvoiceNumber("INV", tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseInvoiceNumber(%q) = %d, %v", tt.in, got, ok)
		}
	}
}
