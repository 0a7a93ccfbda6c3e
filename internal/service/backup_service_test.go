package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/logging"
)

func TestBackupService_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestRepos()
	NewProfileService(src.Profile, logging.Discard()).SignIn(ctx, "me@example.com", "Acme")
	client := mustCreateClient(t, src, "Globex")
	NewItemService(src.Items, logging.Discard()).Create(ctx, domain.ItemInput{Name: "Support", UnitPrice: "80"})
	newTestInvoiceService(t, src, "sequence").Create(ctx, invoiceInput(client.ID))

	var buf bytes.Buffer
	if err := NewBackupService(src, logging.Discard()).WriteJSON(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	dst := newTestRepos()
	result, err := NewBackupService(dst, logging.Discard()).Import(ctx, &buf)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.User || result.Clients != 1 || result.Items != 1 || result.Invoices != 1 {
		t.Fatalf("unexpected result %+v", result)
	}

	want, _ := NewBackupService(src, logging.Discard()).Export(ctx)
	got, _ := NewBackupService(dst, logging.Discard()).Export(ctx)
	wantJSON, _ := json.Marshal(want)
	gotJSON, _ := json.Marshal(got)
	if !bytes.Equal(wantJSON, gotJSON) {
		t.Fatalf("round trip mismatch:\n%s\n%s", wantJSON, gotJSON)
	}
}

func TestBackupService_ExportShape(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBackupService(newTestRepos(), logging.Discard()).WriteJSON(context.Background(), &buf); err != nil {
		t.Fatalf("export: %v", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("export is not a JSON object: %v", err)
	}
	if string(doc["user"]) != "null" {
		t.Errorf("expected null user, got %s", doc["user"])
	}
	for _, key := range []string{"clients", "items", "invoices"} {
		if string(doc[key]) != "[]" {
			t.Errorf("expected empty %s array, got %s", key, doc[key])
		}
	}
}

func TestBackupService_ImportOnlyClients(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	NewItemService(repos.Items, logging.Discard()).Create(ctx, domain.ItemInput{Name: "Support", UnitPrice: "80"})
	NewProfileService(repos.Profile, logging.Discard()).SignIn(ctx, "me@example.com", "Acme")

	file := `{"clients":[{"id":"c1","name":"Imported","email":"i@x.io"}]}`
	result, err := NewBackupService(repos, logging.Discard()).Import(ctx, strings.NewReader(file))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Clients != 1 || result.Items != -1 || result.Invoices != -1 || result.User {
		t.Fatalf("unexpected result %+v", result)
	}

	clients, _ := repos.Clients.Load(ctx)
	if len(clients) != 1 || clients[0].ID != "c1" {
		t.Fatalf("clients not replaced: %+v", clients)
	}
	if items, _ := repos.Items.Load(ctx); len(items) != 1 {
		t.Fatal("items should be untouched")
	}
	if _, ok, _ := repos.Profile.Load(ctx); !ok {
		t.Fatal("profile should be untouched")
	}
}

func TestBackupService_ImportInvalidAppliesNothing(t *testing.T) {
	tests := []struct {
		name string
		file string
	}{
		{"not json", "this is not json"},
		{"truncated", `{"clients":[`},
		{"wrong type", `{"clients":[{"id":"c1"}],"invoices":"lots"}`},
		{"top-level array", `[1,2,3]`},
		{"null document", `null`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repos := newTestRepos()
			mustCreateClient(t, repos, "Existing")

			_, err := NewBackupService(repos, logging.Discard()).Import(ctx, strings.NewReader(tt.file))
			if !errors.Is(err, ErrInvalidBackup) {
				t.Fatalf("expected ErrInvalidBackup, got %v", err)
			}

			clients, _ := repos.Clients.Load(ctx)
			if len(clients) != 1 || clients[0].Name != "Existing" {
				t.Fatalf("store changed by failed import: %+v", clients)
			}
		})
	}
}

func TestBackupService_ImportNormalizesPending(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()

	file := `{"invoices":[{"id":"i1","invoiceNumber":"INV-001","status":"pending","total":50}]}`
	if _, err := NewBackupService(repos, logging.Discard()).Import(ctx, strings.NewReader(file)); err != nil {
		t.Fatalf("import: %v", err)
	}

	invoices, _ := repos.Invoices.Load(ctx)
	if invoices[0].Status != domain.InvoiceStatusSent {
		t.Fatalf("expected sent, got %s", invoices[0].Status)
	}

	d, _ := NewReportService(repos.Invoices, repos.Clients, repos.Items, 5).Dashboard(ctx)
	if d.PendingAmount != 50 {
		t.Fatalf("expected pending amount 50, got %v", d.PendingAmount)
	}
}

func TestBackupService_Reset(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos()
	client := mustCreateClient(t, repos, "Acme")
	invoices := newTestInvoiceService(t, repos, "sequence")
	invoices.Create(ctx, invoiceInput(client.ID))

	svc := NewBackupService(repos, logging.Discard())
	if err := svc.Reset(ctx, ResetInvoices); err != nil {
		t.Fatalf("reset invoices: %v", err)
	}
	if all, _ := repos.Invoices.Load(ctx); len(all) != 0 {
		t.Fatal("invoices not cleared")
	}
	if all, _ := repos.Clients.Load(ctx); len(all) != 1 {
		t.Fatal("clients should survive an invoice reset")
	}

	// numbering restarts once invoices are gone
	inv, _ := invoices.Create(ctx, invoiceInput(client.ID))
	if inv.InvoiceNumber != "INV-001" {
		t.Fatalf("expected INV-001 after reset, got %s", inv.InvoiceNumber)
	}

	if err := svc.Reset(ctx, ResetAll); err != nil {
		t.Fatalf("reset all: %v", err)
	}
	if all, _ := repos.Clients.Load(ctx); len(all) != 0 {
		t.Fatal("clients not cleared")
	}
	if err := svc.Reset(ctx, "everything"); err == nil {
		t.Fatal("expected error for unknown scope")
	}
}

func TestBackupFileName(t *testing.T) {
	got := BackupFileName(time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC))
	if got != "swiftbill-backup-2026-03-09.json" {
		t.Fatalf("unexpected name %s", got)
	}
}
