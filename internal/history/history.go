// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists batch run outcomes in a SQLite ledger. Recording
// is opt-in: a pass without a configured ledger touches no database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshint/dat-runner/internal/batch"
	"github.com/meshint/dat-runner/pkg/types"
)

const defaultMaxResults = 20

// Store manages the run-history SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// RunRecord is one completed (or aborted) batch pass.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	InputDir   string
	OutputDir  string
	Converted  int
	Skipped    int
	Failed     int
}

// Open opens or creates the ledger database at cfg.DBPath and ensures the
// schema exists.
func Open(cfg types.HistoryConfig) (*Store, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database %s: %w", cfg.DBPath, err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
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
			input_dir TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invocations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			input_path TEXT NOT NULL,
			output_dir TEXT NOT NULL,
			status TEXT NOT NULL,
			exit_code INTEGER NOT NULL,
			started_at TEXT,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_invocations_run_id ON invocations(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one pass and its invocations. It is called after the
// pass ends, including an aborted pass with a partial result.
func (s *Store) RecordRun(ctx context.Context, cfg types.RunConfig, result batch.Result, started, finished time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, finished_at, input_dir, output_dir, converted, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		started.UTC().Format(time.RFC3339Nano),
		finished.UTC().Format(time.RFC3339Nano),
		cfg.InputDir, cfg.OutputDir,
		result.Converted, result.Skipped, result.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, inv := range result.Invocations {
		var startedAt string
		if !inv.StartedAt.IsZero() {
			startedAt = inv.StartedAt.UTC().Format(time.RFC3339Nano)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO invocations (run_id, input_path, output_dir, status, exit_code, started_at, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, inv.InputPath, inv.OutputDir, string(inv.Status),
			inv.ExitCode, startedAt, inv.Duration.Milliseconds(),
		); err != nil {
			return 0, fmt.Errorf("inserting invocation for %s: %w", inv.InputPath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first, up to limit.
// limit <= 0 uses the configured default.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, input_dir, output_dir, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.InputDir, &r.OutputDir,
			&r.Converted, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ListInvocations returns the invocation records for one run, in
// processing order.
func (s *Store) ListInvocations(ctx context.Context, runID int64) ([]types.Invocation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT input_path, output_dir, status, exit_code, started_at, duration_ms
		 FROM invocations WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying invocations for run %d: %w", runID, err)
	}
	defer rows.Close()

	var invs []types.Invocation
	for rows.Next() {
		var inv types.Invocation
		var status, started string
		var durationMS int64
		if err := rows.Scan(&inv.InputPath, &inv.OutputDir, &status, &inv.ExitCode,
			&started, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning invocation: %w", err)
		}
		inv.Status = types.RunStatus(status)
		if started != "" {
			inv.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		}
		inv.Duration = time.Duration(durationMS) * time.Millisecond
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// Prune deletes runs older than the given cutoff and returns how many were
// removed. Invocations follow their run via the cascade.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE started_at < ?`,
		before.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("pruning runs: %w", err)
	}
	return res.RowsAffected()
}
