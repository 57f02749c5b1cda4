// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sustain-research/pkg/types"
)

// DefaultPath is where the persistent index lives unless configured.
const DefaultPath = ".vectordb/index.db"

// SQLite is a VectorIndex persisted in a single SQLite file. Vectors are
// stored as blobs and ranked in process, which suits collections of a few
// thousand whole documents.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens or creates the index database at path, creating parent
// directories and the schema as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLite{db: db, path: path}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			embedding BLOB NOT NULL,
			dim INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Upsert writes entries in one transaction.
func (s *SQLite) Upsert(ctx context.Context, entries []types.IndexEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (id, document, metadata, embedding, dim, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			document=excluded.document, metadata=excluded.metadata,
			embedding=excluded.embedding, dim=excluded.dim,
			updated_at=excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, e := range entries {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for %s: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Document, string(meta), encodeVector(e.Embedding), len(e.Embedding), now,
		); err != nil {
			return fmt.Errorf("upserting %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Query ranks every stored entry against vec.
func (s *SQLite) Query(ctx context.Context, vec []float32, k int) ([]types.Hit, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	return rank(vec, entries, k)
}

// Count returns the number of stored entries.
func (s *SQLite) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM entries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return n, nil
}

// Entries returns every stored entry ordered by ID.
func (s *SQLite) Entries(ctx context.Context) ([]types.IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, metadata, embedding FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []types.IndexEntry
	for rows.Next() {
		var (
			e        types.IndexEntry
			metaJSON sql.NullString
			blob     []byte
		)
		if err := rows.Scan(&e.ID, &e.Document, &metaJSON, &blob); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if metaJSON.Valid {
			if err := json.Unmarshal([]byte(metaJSON.String), &e.Metadata); err != nil {
				return nil, fmt.Errorf("entry %s metadata: %w", e.ID, err)
			}
		}
		if e.Embedding, err = decodeVector(blob); err != nil {
			return nil, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
