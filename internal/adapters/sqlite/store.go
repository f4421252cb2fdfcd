// SPDX-FileCopyrightText: 2026 The Lading Authors
// SPDX-License-Identifier: EUPL-1.2

// Package sqlite persists the installed-package ledger and the transaction
// history in a single SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gohncena/lading/internal/domain"
)

// Store implements the Ledger and TransactionLog ports on SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	// Set pragmas via DSN so EVERY connection in the pool gets them.
	// A PRAGMA run via db.Exec applies to one pooled connection only,
	// leaving the others without busy_timeout.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports only one writer at a time. Limit the pool so
	// goroutines queue at the Go level instead of fighting over the lock.
	db.SetMaxOpenConns(4)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS installed_packages (
			name              TEXT PRIMARY KEY,
			version           TEXT NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			dependencies_json TEXT NOT NULL DEFAULT '[]',
			files_json        TEXT NOT NULL DEFAULT '[]',
			installed_at      TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS transactions (
			id          TEXT PRIMARY KEY,
			started_at  TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			installs    INTEGER NOT NULL DEFAULT 0,
			removals    INTEGER NOT NULL DEFAULT 0,
			failures    INTEGER NOT NULL DEFAULT 0,
			steps_json  TEXT NOT NULL DEFAULT '[]'
		);
	`)

	return err
}

// Snapshot returns the installed packages keyed by name.
func (s *Store) Snapshot(ctx context.Context) (map[string]domain.PackageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, version, description, dependencies_json, files_json FROM installed_packages`)
	if err != nil {
		return nil, fmt.Errorf("reading installed packages: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	installed := make(map[string]domain.PackageRecord)

	for rows.Next() {
		var (
			rec                 domain.PackageRecord
			depsJSON, filesJSON string
		)

		if err := rows.Scan(&rec.Name, &rec.Version, &rec.Description, &depsJSON, &filesJSON); err != nil {
			return nil, fmt.Errorf("scanning installed package: %w", err)
		}

		_ = json.Unmarshal([]byte(depsJSON), &rec.Dependencies)
		_ = json.Unmarshal([]byte(filesJSON), &rec.Files)

		installed[rec.Name] = rec
	}

	return installed, rows.Err()
}

// Add records a package as installed, replacing any previous version.
func (s *Store) Add(ctx context.Context, rec domain.PackageRecord) error {
	depsJSON := marshalList(rec.Dependencies)
	filesJSON := marshalList(rec.Files)

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO installed_packages (name, version, description, dependencies_json, files_json, installed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Name, rec.Version, rec.Description, depsJSON, filesJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording installed package: %w", err)
	}

	return nil
}

// Remove deletes the named package from the ledger. Removing a package that
// is not recorded is not an error.
func (s *Store) Remove(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM installed_packages WHERE name=?`, name); err != nil {
		return fmt.Errorf("deleting installed package: %w", err)
	}

	return nil
}

// RecordTransaction appends one executed batch to the history.
func (s *Store) RecordTransaction(ctx context.Context, txn domain.TransactionRecord) error {
	stepsJSON, _ := json.Marshal(txn.Steps)
	if txn.Steps == nil {
		stepsJSON = []byte("[]")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions (id, started_at, finished_at, installs, removals, failures, steps_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		txn.ID,
		txn.StartedAt.UTC().Format(time.RFC3339Nano),
		txn.FinishedAt.UTC().Format(time.RFC3339Nano),
		txn.Installs, txn.Removals, txn.Failures, string(stepsJSON),
	)
	if err != nil {
		return fmt.Errorf("recording transaction: %w", err)
	}

	return nil
}

// Transactions returns the most recent batches, newest first. A limit of zero
// or less returns everything.
func (s *Store) Transactions(ctx context.Context, limit int) ([]domain.TransactionRecord, error) {
	query := `SELECT id, started_at, finished_at, installs, removals, failures, steps_json
		FROM transactions ORDER BY started_at DESC`

	var (
		rows *sql.Rows
		err  error
	)

	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}

	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	var txns []domain.TransactionRecord

	for rows.Next() {
		var (
			txn                              domain.TransactionRecord
			startedAt, finishedAt, stepsJSON string
		)

		if err := rows.Scan(&txn.ID, &startedAt, &finishedAt,
			&txn.Installs, &txn.Removals, &txn.Failures, &stepsJSON); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txn.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAt)
		txn.FinishedAt, _ = time.Parse(time.RFC3339Nano, finishedAt)
		_ = json.Unmarshal([]byte(stepsJSON), &txn.Steps)

		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func marshalList(values []string) string {
	if values == nil {
		return "[]"
	}

	data, _ := json.Marshal(values)

	return string(data)
}
