// Package store implements the Record Source boundary: a SQLite-backed
// activity store holding one row per process record, keyed by (dataset, code).
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"rower/internal/types"
)

// UnregisteredDatasetError signals that a dataset name is not known to the
// store.
type UnregisteredDatasetError struct {
	Dataset string
}

func (e *UnregisteredDatasetError) Error() string {
	return fmt.Sprintf("dataset %q is not registered", e.Dataset)
}

// Store is a SQLite-backed record store. Safe for concurrent use within one
// process; concurrent processes against the same file must be serialized by
// the caller.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewStore opens (or creates) the SQLite database at the given path.
// Pass ":memory:" for an ephemeral store.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set journal_mode: %w", err)
	}

	store := &Store{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		name TEXT PRIMARY KEY,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS activities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		dataset TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		product TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		UNIQUE(dataset, code)
	);
	CREATE INDEX IF NOT EXISTS idx_activities_dataset ON activities(dataset);
	CREATE INDEX IF NOT EXISTS idx_activities_signature ON activities(dataset, name, product);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Register records a dataset name. Registering an existing name is a no-op.
func (s *Store) Register(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return fmt.Errorf("dataset name must not be empty")
	}
	_, err := s.db.Exec(`INSERT OR IGNORE INTO datasets (name) VALUES (?)`, name)
	if err != nil {
		return fmt.Errorf("failed to register dataset %q: %w", name, err)
	}
	return nil
}

// IsRegistered reports whether the dataset name is known to the store.
func (s *Store) IsRegistered(name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM datasets WHERE name = ?`, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check dataset %q: %w", name, err)
	}
	return n > 0, nil
}

// Datasets returns all registered dataset names in sorted order.
func (s *Store) Datasets() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`SELECT name FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan dataset row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Count returns the number of records in a dataset.
func (s *Store) Count(dataset string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM activities WHERE dataset = ?`, dataset).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count dataset %q: %w", dataset, err)
	}
	return n, nil
}

// Load returns the full record collection of a dataset, keyed by code.
func (s *Store) Load(dataset string) (map[string]types.Record, error) {
	records, err := s.Query(dataset)
	if err != nil {
		return nil, err
	}
	out := make(map[string]types.Record, len(records))
	for _, rec := range records {
		out[rec.Code] = rec
	}
	return out, nil
}

// Query returns the (name, product, location, code) projection of a dataset
// in deterministic order: name, product, location, code.
func (s *Store) Query(dataset string) ([]types.Record, error) {
	registered, err := s.IsRegistered(dataset)
	if err != nil {
		return nil, err
	}
	if !registered {
		return nil, &UnregisteredDatasetError{Dataset: dataset}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.Query(`
		SELECT code, name, product, location
		FROM activities
		WHERE dataset = ?
		ORDER BY name, product, location, code`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset %q: %w", dataset, err)
	}
	defer rows.Close()

	var records []types.Record
	for rows.Next() {
		rec := types.Record{Database: dataset}
		if err := rows.Scan(&rec.Code, &rec.Name, &rec.ReferenceProduct, &rec.Location); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Write replaces the dataset's records with the given collection in a single
// transaction, registering the dataset if needed. All-or-nothing: on error no
// row is changed.
func (s *Store) Write(dataset string, records map[string]types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for code, rec := range records {
		if rec.Code == "" {
			rec.Code = code
		}
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("invalid record in dataset %q: %w", dataset, err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO datasets (name) VALUES (?)`, dataset); err != nil {
		return fmt.Errorf("failed to register dataset %q: %w", dataset, err)
	}
	if _, err := tx.Exec(`DELETE FROM activities WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("failed to clear dataset %q: %w", dataset, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO activities (dataset, code, name, product, location)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for code, rec := range records {
		if rec.Code == "" {
			rec.Code = code
		}
		if _, err := stmt.Exec(dataset, rec.Code, rec.Name, rec.ReferenceProduct, rec.Location); err != nil {
			return fmt.Errorf("failed to insert record %q: %w", rec.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to write dataset %q: %w", dataset, err)
	}
	return nil
}

// GetDB exposes the underlying connection for diagnostics.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
