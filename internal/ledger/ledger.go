// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps a SQLite history of parse runs, so it is always
// possible to tell which pages of which document are missing from a
// merged output and why.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/datasheet-parser/pkg/types"
)

const dbFile = "runs.db"

// Store manages the run-ledger SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at dir/runs.db, creating the
// schema when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
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
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			document TEXT NOT NULL,
			model TEXT,
			mode TEXT,
			language TEXT,
			started_at TEXT NOT NULL,
			pages_total INTEGER NOT NULL,
			pages_ok INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			page INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			error TEXT,
			PRIMARY KEY (run_id, page)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Record stores one completed run and its per-page outcomes, returning
// the run ID.
func (s *Store) Record(ctx context.Context, cfg types.RunConfig, startedAt time.Time, summary types.RunSummary) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (document, model, mode, language, started_at, pages_total, pages_ok)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cfg.DocumentPath, cfg.Model, string(cfg.Mode), cfg.TargetLanguage,
		startedAt.UTC().Format(time.RFC3339), summary.Total(), summary.Succeeded)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, p := range summary.Pages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pages (run_id, page, ok, bytes, error) VALUES (?, ?, ?, ?, ?)`,
			runID, p.Index, p.OK, p.Bytes, p.Error); err != nil {
			return 0, fmt.Errorf("inserting page %d: %w", p.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunRecord is one row of the runs table.
type RunRecord struct {
	ID         int64  `json:"id"`
	Document   string `json:"document"`
	Model      string `json:"model"`
	Mode       string `json:"mode"`
	Language   string `json:"language,omitempty"`
	StartedAt  string `json:"started_at"`
	PagesTotal int    `json:"pages_total"`
	PagesOK    int    `json:"pages_ok"`
}

// PageRecord is one row of the pages table.
type PageRecord struct {
	Page  int    `json:"page"`
	OK    bool   `json:"ok"`
	Bytes int    `json:"bytes"`
	Error string `json:"error,omitempty"`
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document, model, mode, language, started_at, pages_total, pages_ok
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Document, &r.Model, &r.Mode, &r.Language,
			&r.StartedAt, &r.PagesTotal, &r.PagesOK); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Show returns one run and its per-page outcomes.
func (s *Store) Show(ctx context.Context, id int64) (RunRecord, []PageRecord, error) {
	var r RunRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, document, model, mode, language, started_at, pages_total, pages_ok
		 FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.Document, &r.Model, &r.Mode, &r.Language,
			&r.StartedAt, &r.PagesTotal, &r.PagesOK)
	if err == sql.ErrNoRows {
		return RunRecord{}, nil, fmt.Errorf("run %d not found", id)
	}
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("querying run %d: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT page, ok, bytes, error FROM pages WHERE run_id = ? ORDER BY page`, id)
	if err != nil {
		return RunRecord{}, nil, fmt.Errorf("querying pages for run %d: %w", id, err)
	}
	defer rows.Close()

	var pages []PageRecord
	for rows.Next() {
		var p PageRecord
		if err := rows.Scan(&p.Page, &p.OK, &p.Bytes, &p.Error); err != nil {
			return RunRecord{}, nil, fmt.Errorf("scanning page: %w", err)
		}
		pages = append(pages, p)
	}
	return r, pages, rows.Err()
}
