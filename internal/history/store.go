// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records transform runs in a local SQLite database so
// recently processed documents can be listed and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/textfile-editor/pkg/types"
)

const (
	dbFile           = "history.db"
	defaultListLimit = 20
	timestampLayout  = time.RFC3339Nano
)

// DefaultPath returns ~/.local/share/textfile-editor/history.db, or a path
// in the working directory when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dbFile
	}
	return filepath.Join(home, ".local", "share", "textfile-editor", dbFile)
}

// Store manages the history database.
type Store struct {
	db   *sql.DB
	keep int
	now  func() time.Time
}

// NewStore opens or creates the history database described by cfg and
// creates the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, keep: cfg.Keep, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			operation TEXT NOT NULL,
			mode TEXT NOT NULL,
			lines INTEGER NOT NULL,
			changed INTEGER NOT NULL,
			fallbacks INTEGER NOT NULL,
			bytes_in INTEGER NOT NULL,
			bytes_out INTEGER NOT NULL,
			processed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores entry, filling in ID and ProcessedAt when they are empty,
// and then prunes the table down to the configured retention. The stored
// entry is returned.
func (s *Store) Record(ctx context.Context, entry types.HistoryEntry) (types.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ProcessedAt.IsZero() {
		entry.ProcessedAt = s.now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, operation, mode, lines, changed, fallbacks, bytes_in, bytes_out, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Source, entry.Operation, string(entry.Mode),
		entry.Lines, entry.Changed, entry.Fallbacks,
		entry.BytesIn, entry.BytesOut,
		entry.ProcessedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return entry, fmt.Errorf("inserting history entry: %w", err)
	}

	if s.keep > 0 {
		if _, err := s.Prune(ctx, s.keep); err != nil {
			return entry, err
		}
	}
	return entry, nil
}

// ListOptions filters List results.
type ListOptions struct {
	// Source restricts results to one document path.
	Source string
	// Limit caps the number of entries; 0 selects 20 and a negative value
	// returns everything.
	Limit int
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.HistoryEntry, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, source, operation, mode, lines, changed, fallbacks, bytes_in, bytes_out, processed_at FROM runs`
	var args []any
	if opts.Source != "" {
		query += ` WHERE source = ?`
		args = append(args, opts.Source)
	}
	query += ` ORDER BY rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var (
			e         types.HistoryEntry
			mode      string
			processed string
		)
		if err := rows.Scan(&e.ID, &e.Source, &e.Operation, &mode,
			&e.Lines, &e.Changed, &e.Fallbacks, &e.BytesIn, &e.BytesOut, &processed); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.Mode = types.ExtractionMode(mode)
		e.ProcessedAt, err = time.Parse(timestampLayout, processed)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp of %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes all but the newest keep entries and reports how many rows
// were removed. keep <= 0 is a no-op.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE rowid NOT IN (SELECT rowid FROM runs ORDER BY rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes every entry.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clearing history: %w", err)
	}
	return res.RowsAffected()
}
