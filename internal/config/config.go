package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Invoice numbering strategies
const (
	NumberingSequence = "sequence" // persisted counter, never reuses a number
	NumberingCount    = "count"    // collection size + 1, may repeat after deletes
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Dashboard settings
	Dashboard DashboardConfig `yaml:"dashboard"`

	// Log settings
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type InvoiceConfig struct {
	DefaultDueDays  int     `yaml:"default_due_days"` // Days until invoice due
	DefaultTaxRate  float64 `yaml:"default_tax_rate"` // Tax rate as a percent (8.25 = 8.25%)
	DefaultCurrency string  `yaml:"default_currency"` // Currency code stored on new invoices
	NumberPrefix    string  `yaml:"number_prefix"`    // Invoice number prefix (e.g., "INV")
	Numbering       string  `yaml:"numbering"`        // "sequence" or "count"
	OutputDir       string  `yaml:"output_dir"`       // Directory for generated PDFs and exports
}

type DashboardConfig struct {
	RecentLimit int `yaml:"recent_limit"` // Invoices shown under "recent"
}

type LogConfig struct {
	Path  string `yaml:"path"`  // Log file; the TUI owns stdout
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultDir returns ~/.config/swiftbill
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "swiftbill")
	}
	return filepath.Join(homeDir, ".config", "swiftbill")
}

// DefaultConfigPath returns ~/.config/swiftbill/config.yaml
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := DefaultDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "swiftbill.db"),
		},
		Invoice: InvoiceConfig{
			DefaultDueDays:  30,
			DefaultTaxRate:  0,
			DefaultCurrency: "USD",
			NumberPrefix:    "INV",
			Numbering:       NumberingSequence,
			OutputDir:       filepath.Join(dir, "invoices"),
		},
		Dashboard: DashboardConfig{
			RecentLimit: 5,
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "swiftbill.log"),
			Level: "info",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse YAML over the defaults so missing keys keep their default
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate rejects settings the services cannot work with
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Invoice.DefaultDueDays < 0 {
		return fmt.Errorf("invoice.default_due_days must not be negative")
	}
	if math.IsNaN(c.Invoice.DefaultTaxRate) || c.Invoice.DefaultTaxRate < 0 || c.Invoice.DefaultTaxRate > 100 {
		return fmt.Errorf("invoice.default_tax_rate must be between 0 and 100")
	}
	switch c.Invoice.Numbering {
	case NumberingSequence, NumberingCount:
	default:
		return fmt.Errorf("invoice.numbering must be %q or %q, got %q", NumberingSequence, NumberingCount, c.Invoice.Numbering)
	}
	if c.Dashboard.RecentLimit < 0 {
		return fmt.Errorf("dashboard.recent_limit must not be negative")
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for database, invoices, logs)
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return err
	}

	if c.Invoice.OutputDir != "" {
		if err := os.MkdirAll(c.Invoice.OutputDir, 0755); err != nil {
			return err
		}
	}

	if c.Log.Path != "" {
		if err := os.MkdirAll(filepath.Dir(c.Log.Path), 0755); err != nil {
			return err
		}
	}

	return nil
}
