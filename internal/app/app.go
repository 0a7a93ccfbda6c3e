package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"golang.org/x/term"

	"github.com/andy/swiftbill/internal/config"
	"github.com/andy/swiftbill/internal/crypto"
	"github.com/andy/swiftbill/internal/db"
	"github.com/andy/swiftbill/internal/logging"
	"github.com/andy/swiftbill/internal/repository"
	"github.com/andy/swiftbill/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config     *config.Config
	ConfigPath string // empty for ephemeral sessions
	DB         *db.DB // nil for ephemeral sessions
	Logger     *slog.Logger

	// Repositories
	Repos *repository.Repositories

	// Services
	ClientService  service.ClientService
	ItemService    service.ItemService
	InvoiceService service.InvoiceService
	ReportService  service.ReportService
	ProfileService service.ProfileService
	ThemeService   service.ThemeService
	BackupService  service.BackupService

	logCloser io.Closer
}

// New loads ~/.config/swiftbill/config.yaml and opens the encrypted store.
// On first run it asks for a database password and keeps it in the keyring.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig opens the store described by cfg. The log file, the
// database and the output directory are created when missing.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	// Ensure all necessary directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	logger, logCloser, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}

	password, err := databaseKey(crypto.NewKeyring())
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	// Open the database with encryption
	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run migrations to ensure schema is up to date
	if err := database.RunMigrations(); err != nil {
		database.Close()
		logCloser.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := build(cfg, repository.NewSQLiteKV(database), logger)
	if err != nil {
		database.Close()
		logCloser.Close()
		return nil, err
	}
	a.DB = database
	a.ConfigPath = config.DefaultConfigPath()
	a.logCloser = logCloser

	logger.Info("swiftbill started", "db", cfg.Database.Path)
	return a, nil
}

// NewEphemeral creates an App backed by memory only. Nothing is persisted
// and no encryption key is needed.
func NewEphemeral(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	return build(cfg, repository.NewMemoryKV(), logger)
}

// build wires repositories and services over kv
func build(cfg *config.Config, kv repository.KV, logger *slog.Logger) (*App, error) {
	repos := repository.New(kv)

	invoices, err := newInvoiceService(cfg, repos, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		Repos:          repos,
		ClientService:  service.NewClientService(repos.Clients, logger),
		ItemService:    service.NewItemService(repos.Items, logger),
		InvoiceService: invoices,
		ReportService:  service.NewReportService(repos.Invoices, repos.Clients, repos.Items, cfg.Dashboard.RecentLimit),
		ProfileService: service.NewProfileService(repos.Profile, logger),
		ThemeService:   service.NewThemeService(repos.Theme, logger),
		BackupService:  service.NewBackupService(repos, logger),
	}, nil
}

// newInvoiceService builds the invoice service from the invoice settings in cfg
func newInvoiceService(cfg *config.Config, repos *repository.Repositories, logger *slog.Logger) (service.InvoiceService, error) {
	numberer, err := service.NewNumberer(cfg.Invoice.Numbering, cfg.Invoice.NumberPrefix, repos.Sequence)
	if err != nil {
		return nil, err
	}

	defaults := service.InvoiceDefaults{
		DueDays:  cfg.Invoice.DefaultDueDays,
		TaxRate:  cfg.Invoice.DefaultTaxRate,
		Currency: cfg.Invoice.DefaultCurrency,
	}

	return service.NewInvoiceService(repos.Invoices, repos.Clients, repos.Items, numberer, defaults, logger), nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var err error
	if a.DB != nil {
		err = a.DB.Close()
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
	return err
}

// databaseKey returns the stored key, or asks for a new one on first run
func databaseKey(keyring crypto.Keyring) (string, error) {
	password, err := keyring.GetKey()
	if err == nil {
		return password, nil
	}
	if !errors.Is(err, crypto.ErrKeyNotFound) {
		return "", fmt.Errorf("failed to read encryption key: %w", err)
	}

	fmt.Println("Setting up database encryption for the first time...")
	password, err = promptForPassword()
	if err != nil {
		return "", fmt.Errorf("failed to set password: %w", err)
	}

	if err := keyring.SetKey(password); err != nil {
		return "", fmt.Errorf("failed to store encryption key: %w", err)
	}
	return password, nil
}

// promptForPassword asks for a new database password twice
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your invoices, clients and catalog will be encrypted with a password.")
	fmt.Println("The password is kept in your system keyring, not in the database.")
	fmt.Println()

	password, err := readPassword("Enter a password for database encryption: ")
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", crypto.ErrEmptyKey
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return "", err
	}
	if password != confirm {
		return "", errors.New("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured")
	fmt.Println()
	return password, nil
}

// readPassword reads one line from the terminal without echo
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// SaveConfig validates the current configuration, rebuilds the invoice
// service with the new defaults and writes the file. Ephemeral sessions
// keep the change in memory only.
func (a *App) SaveConfig() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}

	invoices, err := newInvoiceService(a.Config, a.Repos, a.Logger)
	if err != nil {
		return err
	}
	a.InvoiceService = invoices

	if a.ConfigPath == "" {
		return nil
	}
	if err := a.Config.Save(a.ConfigPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	a.Logger.Info("config saved", "path", a.ConfigPath)
	return nil
}
