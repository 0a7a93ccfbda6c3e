package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/andy/swiftbill/internal/db"
	"github.com/andy/swiftbill/internal/domain"
)

func openTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"), "test-key")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := database.RunMigrations(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func TestSQLiteKV(t *testing.T) {
	ctx := context.Background()
	kv := NewSQLiteKV(openTestDB(t))

	if _, ok, err := kv.Get(ctx, "missing"); ok || err != nil {
		t.Fatalf("Get(missing) ok=%v err=%v", ok, err)
	}

	if err := kv.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Fatalf("Get(k) = %q, %v, %v", v, ok, err)
	}

	if err := kv.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "k"); ok {
		t.Fatal("key still present after delete")
	}
}

func TestSQLiteKV_StoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	first, err := db.Open(path, "secret")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.RunMigrations(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	clients := NewStore[domain.Client](NewSQLiteKV(first), KeyClients)
	saved, err := clients.Insert(ctx, domain.Client{Name: "Acme", Email: "a@acme.io"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	first.Close()

	second, err := db.Open(path, "secret")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	loaded, err := NewStore[domain.Client](NewSQLiteKV(second), KeyClients).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != saved[0] {
		t.Fatalf("expected %+v, got %+v", saved, loaded)
	}
}
