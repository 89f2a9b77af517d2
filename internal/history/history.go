// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps an audit log of build runs in SQLite. Nothing in
// the build reads it back to decide what to regenerate.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/docbuild/pkg/types"
)

// Run is one recorded build.
type Run struct {
	ID         int64             `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Source     string            `json:"source"`
	Output     string            `json:"output"`
	Directives int               `json:"directives"`
	Images     int               `json:"images"`
	Status     types.BuildStatus `json:"status"`
	ExitCode   int               `json:"exit_code"`
	Error      string            `json:"error,omitempty"`
}

// FromReport summarizes a build report into a Run.
func FromReport(r types.BuildReport) Run {
	return Run{
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Source:     r.Source,
		Output:     r.Output,
		Directives: len(r.Directives),
		Images:     len(r.Images),
		Status:     r.Status,
		ExitCode:   r.ExitCode,
		Error:      r.Error,
	}
}

// Store manages the history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			source TEXT NOT NULL,
			output TEXT NOT NULL,
			directives INTEGER NOT NULL,
			images INTEGER NOT NULL,
			status TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts run and returns its id.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, source, output, directives, images, status, exit_code, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339Nano), run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Source, run.Output, run.Directives, run.Images,
		string(run.Status), run.ExitCode, run.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("recording run: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, source, output, directives, images, status, exit_code, COALESCE(error, '')
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
			status            string
		)
		if err := rows.Scan(
			&r.ID, &started, &finished, &r.Source, &r.Output,
			&r.Directives, &r.Images, &status, &r.ExitCode, &r.Error,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Status = types.BuildStatus(status)
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
