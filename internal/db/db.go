package db

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mutecomm/go-sqlcipher/v4"
)

// ErrWrongKey is returned when the database file cannot be read with the given key
var ErrWrongKey = errors.New("database key is wrong or the file is not a swiftbill database")

// DB is the encrypted SQLite file that holds the document snapshots
type DB struct {
	*sql.DB
	Path string
}

// Open opens (or creates) the encrypted database at path. The key is the
// passphrase SQLCipher derives the page key from.
func Open(path, key string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma_key=%s&_busy_timeout=5000", path, url.QueryEscape(key))
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A wrong key only shows up on the first read
	var tables int
	if err := sqlDB.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&tables); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: %v", ErrWrongKey, err)
	}

	// WAL so a second process can read while another writes
	if _, err := sqlDB.Exec("PRAGMA journal_mode = WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{DB: sqlDB, Path: path}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
