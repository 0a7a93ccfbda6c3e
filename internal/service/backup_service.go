package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/andy/swiftbill/internal/domain"
	"github.com/andy/swiftbill/internal/repository"
)

// Backup is the exported document. User is null when nobody is signed in.
type Backup struct {
	User     *domain.UserProfile `json:"user"`
	Clients  []domain.Client     `json:"clients"`
	Items    []domain.Item       `json:"items"`
	Invoices []domain.Invoice    `json:"invoices"`
}

// ImportResult reports which parts of a backup were applied
type ImportResult struct {
	User     bool
	Clients  int // -1 when the key was absent
	Items    int
	Invoices int
}

// ResetScope selects what Reset deletes
type ResetScope string

const (
	ResetInvoices ResetScope = "invoices"
	ResetAll      ResetScope = "all"
)

// BackupService moves the whole dataset in and out as JSON
type BackupService interface {
	Export(ctx context.Context) (Backup, error)

	// WriteJSON writes the export as indented JSON
	WriteJSON(ctx context.Context, w io.Writer) error

	// Import decodes r fully before touching any store. Each key present in
	// the file replaces its store; absent keys are left alone.
	Import(ctx context.Context, r io.Reader) (ImportResult, error)

	// Reset deletes stored data
	Reset(ctx context.Context, scope ResetScope) error
}

type backupService struct {
	repos  *repository.Repositories
	logger *slog.Logger
}

// NewBackupService creates a new backup service
func NewBackupService(repos *repository.Repositories, logger *slog.Logger) BackupService {
	return &backupService{
		repos:  repos,
		logger: logger,
	}
}

// BackupFileName is the default export name for the given day
func BackupFileName(now time.Time) string {
	return "swiftbill-backup-" + now.Format(domain.DateLayout) + ".json"
}

func (s *backupService) Export(ctx context.Context) (Backup, error) {
	var b Backup

	profile, ok, err := s.repos.Profile.Load(ctx)
	if err != nil {
		return Backup{}, err
	}
	if ok {
		b.User = &profile
	}
	if b.Clients, err = s.repos.Clients.Load(ctx); err != nil {
		return Backup{}, err
	}
	if b.Items, err = s.repos.Items.Load(ctx); err != nil {
		return Backup{}, err
	}
	if b.Invoices, err = s.repos.Invoices.Load(ctx); err != nil {
		return Backup{}, err
	}

	return b, nil
}

func (s *backupService) WriteJSON(ctx context.Context, w io.Writer) error {
	b, err := s.Export(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	s.logger.Info("backup exported", "clients", len(b.Clients), "items", len(b.Items), "invoices", len(b.Invoices))
	return nil
}

// backupFile keeps every key raw so absent and null keys can be told apart
// from empty collections
type backupFile struct {
	User     json.RawMessage `json:"user"`
	Clients  json.RawMessage `json:"clients"`
	Items    json.RawMessage `json:"items"`
	Invoices json.RawMessage `json:"invoices"`
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func decodeKey(raw json.RawMessage, name string, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidBackup, name, err)
	}
	return nil
}

func (s *backupService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	result := ImportResult{Clients: -1, Items: -1, Invoices: -1}

	data, err := io.ReadAll(r)
	if err != nil {
		return result, fmt.Errorf("failed to read backup: %w", err)
	}

	if !present(data) {
		return result, fmt.Errorf("%w: empty document", ErrInvalidBackup)
	}

	var file backupFile
	if err := json.Unmarshal(data, &file); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	// Decode everything first so a bad key applies nothing
	var (
		user     domain.UserProfile
		clients  []domain.Client
		items    []domain.Item
		invoices []domain.Invoice
	)
	if present(file.User) {
		if err := decodeKey(file.User, "user", &user); err != nil {
			return result, err
		}
	}
	if present(file.Clients) {
		if err := decodeKey(file.Clients, "clients", &clients); err != nil {
			return result, err
		}
	}
	if present(file.Items) {
		if err := decodeKey(file.Items, "items", &items); err != nil {
			return result, err
		}
	}
	if present(file.Invoices) {
		if err := decodeKey(file.Invoices, "invoices", &invoices); err != nil {
			return result, err
		}
	}

	if present(file.User) {
		if err := s.repos.Profile.Save(ctx, user); err != nil {
			return result, err
		}
		result.User = true
	}
	if present(file.Clients) {
		if err := s.repos.Clients.Save(ctx, clients); err != nil {
			return result, err
		}
		result.Clients = len(clients)
	}
	if present(file.Items) {
		if err := s.repos.Items.Save(ctx, items); err != nil {
			return result, err
		}
		result.Items = len(items)
	}
	if present(file.Invoices) {
		if err := s.repos.Invoices.Save(ctx, invoices); err != nil {
			return result, err
		}
		result.Invoices = len(invoices)
	}

	s.logger.Info("backup imported",
		"user", result.User, "clients", result.Clients, "items", result.Items, "invoices", result.Invoices)
	return result, nil
}

func (s *backupService) Reset(ctx context.Context, scope ResetScope) error {
	switch scope {
	case ResetInvoices:
		if err := s.repos.Clear(ctx, repository.KeyInvoices, repository.KeyInvoiceSeq); err != nil {
			return fmt.Errorf("failed to reset invoices: %w", err)
		}
	case ResetAll:
		if err := s.repos.Clear(ctx); err != nil {
			return fmt.Errorf("failed to reset data: %w", err)
		}
	default:
		return fmt.Errorf("unknown reset scope %q", scope)
	}

	s.logger.Warn("data reset", "scope", scope)
	return nil
}
