// Package sqlite provides a SQLite-backed implementation of the storage
// interfaces. Balances are persisted as integer cents so increments are
// exact; the mirror pair is updated inside a single transaction.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	sqlite3 "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlitelib "modernc.org/sqlite/lib"

	"github.com/divvyhq/divvy/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path. It creates the
// parent directories and runs migrations automatically.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY
	// under concurrent delta application.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isUniqueViolation reports whether err is a SQLITE_CONSTRAINT_UNIQUE error
// from the driver.
func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	return errors.As(err, &serr) && serr.Code() == sqlitelib.SQLITE_CONSTRAINT_UNIQUE
}

// toCents converts a ledger amount to integer cents for storage.
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).RoundBank(0).IntPart()
}

// fromCents converts stored cents back to a decimal amount.
func fromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
