// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local record of artifact lookups and suggests
// where a previously found artifact is likely to be found again.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/artifact-finder/internal/finder"
	"github.com/pdiddy/artifact-finder/pkg/types"
)

const defaultRecent = 20

// Store manages the lookup history SQLite database.
type Store struct {
	db *sql.DB
}

// Entry is one recorded lookup.
type Entry struct {
	SearchID    string              `json:"search_id" yaml:"search_id"`
	Name        string              `json:"name" yaml:"name"`
	Type        string              `json:"type" yaml:"type"`
	State       string              `json:"state" yaml:"state"`
	Collection  types.CollectionRef `json:"collection,omitempty" yaml:"collection,omitempty"`
	Total       int                 `json:"total" yaml:"total"`
	Searched    int                 `json:"searched" yaml:"searched"`
	Failures    int                 `json:"failures" yaml:"failures"`
	Skipped     int                 `json:"skipped" yaml:"skipped"`
	ViaFallback bool                `json:"via_fallback,omitempty" yaml:"via_fallback,omitempty"`
	Elapsed     time.Duration       `json:"elapsed" yaml:"elapsed"`
	Record      types.Record        `json:"record,omitempty" yaml:"record,omitempty"`
	CreatedAt   time.Time           `json:"created_at" yaml:"created_at"`
}

// NewStore opens or creates the history database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("history path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS lookups (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			search_id TEXT NOT NULL,
			key TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			state TEXT NOT NULL,
			collection TEXT,
			total INTEGER,
			searched INTEGER,
			failures INTEGER,
			skipped INTEGER,
			via_fallback INTEGER,
			elapsed_ms INTEGER,
			record_json TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_key ON lookups(key, state)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores the outcome of one search.
func (s *Store) Record(ctx context.Context, res finder.Result) error {
	var recordJSON sql.NullString
	if res.Record != nil {
		data, err := json.Marshal(res.Record)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		recordJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups (search_id, key, name, type, state, collection, total,
			searched, failures, skipped, via_fallback, elapsed_ms, record_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.SearchID, res.Target.Key(), res.Target.Name, res.Target.Type,
		res.State.String(), res.Collection.String(), res.Total,
		res.Searched, res.Failures, res.Skipped, res.ViaFallback,
		res.Elapsed.Milliseconds(), recordJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting lookup: %w", err)
	}
	return nil
}

// Recent returns up to limit lookups, newest first. A limit of zero or less
// uses the default of 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT search_id, name, type, state, collection, total, searched,
			failures, skipped, via_fallback, elapsed_ms, record_json, created_at
		 FROM lookups ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying lookups: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			collection sql.NullString
			elapsedMs  int64
			recordJSON sql.NullString
			createdAt  string
		)
		if err := rows.Scan(&e.SearchID, &e.Name, &e.Type, &e.State, &collection,
			&e.Total, &e.Searched, &e.Failures, &e.Skipped, &e.ViaFallback,
			&elapsedMs, &recordJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning lookup: %w", err)
		}
		e.Collection = types.CollectionRef(collection.String)
		e.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		if recordJSON.Valid && recordJSON.String != "" {
			if err := json.Unmarshal([]byte(recordJSON.String), &e.Record); err != nil {
				return nil, fmt.Errorf("decoding record for %s: %w", e.SearchID, err)
			}
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// LastCollection returns the collection in which t was most recently found.
// It satisfies finder.HintSource.
func (s *Store) LastCollection(ctx context.Context, t finder.Target) (types.CollectionRef, bool, error) {
	var collection string
	err := s.db.QueryRowContext(ctx,
		`SELECT collection FROM lookups
		 WHERE key = ? AND state = ? AND collection != ''
		 ORDER BY id DESC LIMIT 1`,
		t.Key(), finder.StateFound.String(),
	).Scan(&collection)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("querying last collection: %w", err)
	}
	return types.CollectionRef(collection), true, nil
}
