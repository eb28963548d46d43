// Package duckdb persists generated proteoforms and decoys in DuckDB.
// Every write belongs to a run identified by a UUID, so repeated
// generations over the same database can be compared side by side.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection for proteoform results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR PRIMARY KEY,
			command VARCHAR,
			source_path VARCHAR,
			source_size BIGINT,
			source_modtime TIMESTAMP,
			created_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS proteoforms (
			run_id VARCHAR,
			seq BIGINT,
			accession VARCHAR,
			name VARCHAR,
			kind VARCHAR,
			is_decoy BOOLEAN,
			sample VARCHAR,
			length BIGINT,
			sequence VARCHAR,
			consensus_sequence VARCHAR,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE TABLE IF NOT EXISTS applied_variants (
			run_id VARCHAR,
			seq BIGINT,
			begin_pos BIGINT,
			end_pos BIGINT,
			original VARCHAR,
			variant VARCHAR,
			token VARCHAR,
			description VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS modifications (
			run_id VARCHAR,
			seq BIGINT,
			position BIGINT,
			mod_id VARCHAR,
			motif VARCHAR,
			location VARCHAR
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
