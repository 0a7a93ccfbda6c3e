package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Invoice.DefaultDueDays != 30 || cfg.Invoice.NumberPrefix != "INV" {
		t.Fatalf("unexpected defaults: %+v", cfg.Invoice)
	}
	if cfg.Invoice.Numbering != NumberingSequence {
		t.Fatalf("expected sequence numbering, got %q", cfg.Invoice.Numbering)
	}
	if cfg.Dashboard.RecentLimit != 5 {
		t.Fatalf("expected recent limit 5, got %d", cfg.Dashboard.RecentLimit)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "invoice:\n  default_tax_rate: 8.25\n  numbering: count\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Invoice.DefaultTaxRate != 8.25 {
		t.Errorf("tax rate = %v", cfg.Invoice.DefaultTaxRate)
	}
	if cfg.Invoice.Numbering != NumberingCount {
		t.Errorf("numbering = %q", cfg.Invoice.Numbering)
	}
	if cfg.Invoice.DefaultCurrency != "USD" {
		t.Errorf("currency default lost: %q", cfg.Invoice.DefaultCurrency)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad numbering", "invoice:\n  numbering: random\n", "invoice.numbering"},
		{"tax over 100", "invoice:\n  default_tax_rate: 150\n", "default_tax_rate"},
		{"tax not a number", "invoice:\n  default_tax_rate: .nan\n", "default_tax_rate"},
		{"negative recent", "dashboard:\n  recent_limit: -1\n", "recent_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "data.db")
	cfg.Invoice.NumberPrefix = "BILL"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Invoice.NumberPrefix != "BILL" || loaded.Database.Path != cfg.Database.Path {
		t.Fatalf("unexpected config after reload: %+v", loaded)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "db", "swiftbill.db")
	cfg.Invoice.OutputDir = filepath.Join(dir, "out")
	cfg.Log.Path = filepath.Join(dir, "logs", "swiftbill.log")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range []string{"db", "out", "logs"} {
		if info, err := os.Stat(filepath.Join(dir, p)); err != nil || !info.IsDir() {
			t.Errorf("expected directory %s", p)
		}
	}
}
