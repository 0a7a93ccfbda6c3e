package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andy/swiftbill/internal/db"
)

// SQLiteKV is a KV backend over the kv_store table
type SQLiteKV struct {
	db *db.DB
}

// NewSQLiteKV creates a new SQLiteKV
func NewSQLiteKV(database *db.DB) *SQLiteKV {
	return &SQLiteKV{db: database}
}

// Get reads the value at key
func (r *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	query := "SELECT value FROM kv_store WHERE key = ?"

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return value, true, nil
}

// Set writes the value at key (insert or replace)
func (r *SQLiteKV) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT OR REPLACE INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
	`

	if _, err := r.db.ExecContext(ctx, query, key, value, formatTime()); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}

// Delete removes key; deleting a missing key is not an error
func (r *SQLiteKV) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}
