// SPDX-License-Identifier: MPL-2.0

package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// timeLayout keeps installed_at fixed-width so text order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("history store is closed")

type (
	// Entry is one recorded installation.
	Entry struct {
		ID          string    `json:"id" yaml:"id"`
		Module      string    `json:"module" yaml:"module"`
		Version     string    `json:"version,omitempty" yaml:"version,omitempty"`
		Source      string    `json:"source" yaml:"source"`
		SHA256      string    `json:"sha256" yaml:"sha256"`
		Bytes       int64     `json:"bytes" yaml:"bytes"`
		InstalledAt time.Time `json:"installed_at" yaml:"installed_at"`
	}

	// Store persists entries in SQLite.
	Store struct {
		db *sql.DB
	}
)

// NewEntry describes an installation of content from source, stamped with a
// fresh id and the digest of content.
func NewEntry(module, version, source, content string, at time.Time) Entry {
	sum := sha256.Sum256([]byte(content))
	return Entry{
		ID:          uuid.NewString(),
		Module:      module,
		Version:     version,
		Source:      source,
		SHA256:      hex.EncodeToString(sum[:]),
		Bytes:       int64(len(content)),
		InstalledAt: at.UTC(),
	}
}

// Open opens (or creates) the ledger at path. The parent directory is
// created when missing.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open: %w", err)
	}
	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: set WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record appends e to the ledger. An empty Version is stored as NULL, so an
// install with an explicit empty version reads back like one without.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if s.db == nil {
		return ErrStoreClosed
	}
	var version sql.NullString
	if e.Version != "" {
		version = sql.NullString{String: e.Version, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO installs (id, module, version, source, sha256, bytes, installed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Module, version, e.Source, e.SHA256, e.Bytes,
		e.InstalledAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("history: record %s: %w", e.Module, err)
	}
	return nil
}

// List returns the most recent entries first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if s.db == nil {
		return nil, ErrStoreClosed
	}

	query := `SELECT id, module, version, source, sha256, bytes, installed_at
	          FROM installs ORDER BY installed_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			version sql.NullString
			at      string
		)
		if err := rows.Scan(&e.ID, &e.Module, &version, &e.Source, &e.SHA256, &e.Bytes, &at); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Version = version.String
		if e.InstalledAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			return nil, fmt.Errorf("history: parse time of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return entries, nil
}

// Close closes the database. Closing twice is safe.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
