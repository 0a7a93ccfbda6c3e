package service

import (
	"context"
	"errors"
	"testing"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/logging"
)

func TestClientService_CreateValidates(t *testing.T) {
	svc := NewClientService(newTestRepos().Clients, logging.Discard())

	_, err := svc.Create(context.Background(), domain.ClientInput{Email: "a@b.co"})
	assertViolation(t, err, "name", "Client name is required")

	_, err = svc.Create(context.Background(), domain.ClientInput{Name: "Acme", Email: "nope"})
	assertViolation(t, err, "email", "Email is invalid")
}

func TestClientService_CRUD(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newTestRepos().Clients, logging.Discard())

	created, err := svc.Create(ctx, domain.ClientInput{Name: " Acme ", Email: "ap@acme.io", Phone: "555"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Name != "Acme" {
		t.Fatalf("unexpected client %+v", created)
	}

	updated, err := svc.Update(ctx, created.ID, domain.ClientInput{Name: "Acme Corp", Email: "ap@acme.io"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID || updated.Name != "Acme Corp" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.Phone != "" {
		t.Fatalf("form fields overwrite stored ones, got phone %q", updated.Phone)
	}

	if _, err := svc.Update(ctx, "missing", domain.ClientInput{Name: "x", Email: "x@y.z"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestClientService_Search(t *testing.T) {
	ctx := context.Background()
	svc := NewClientService(newTestRepos().Clients, logging.Discard())

	svc.Create(ctx, domain.ClientInput{Name: "Acme", Email: "ap@acme.io", ContactPerson: "Wile"})
	svc.Create(ctx, domain.ClientInput{Name: "Globex", Email: "hank@globex.com"})

	tests := []struct {
		term string
		want int
	}{
		{"", 2},
		{"ACME", 1},
		{"wile", 1},
		{"globex.com", 1},
		{"initech", 0},
	}
	for _, tt := range tests {
		got, err := svc.Search(ctx, tt.term)
		if err != nil {
			t.Fatalf("search: %v", err)
		}
		if len(got) != tt.want {
			t.Errorf("Search(%q) returned %d, want %d", tt.term, len(got), tt.want)
		}
	}
}

func TestClientService_DeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	invoices := newTestInvoiceService(t, repos, "sequence")

	inv, err := invoices.Create(ctx, invoiceInput(client.ID))
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if err := NewClientService(repos.Clients, logging.Discard()).Delete(ctx, client.ID); err != nil {
		t.Fatalf("delete client: %v", err)
	}

	got, err := invoices.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("invoice should survive client deletion: %v", err)
	}
	if got.ClientID != client.ID || got.ClientName != "Acme" {
		t.Fatalf("invoice lost its client snapshot: %+v", got)
	}
}
