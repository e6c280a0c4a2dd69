// Package audit provides the SQLite implementation of the Store interface.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS advisory_log (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		query TEXT,
		budget REAL,
		model TEXT,
		outcome TEXT NOT NULL,
		total_cost REAL,
		part_count INTEGER,
		dropped_count INTEGER,
		latency_ms INTEGER,
		raw_prefix TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_advisory_log_created_at ON advisory_log(created_at);
	CREATE INDEX IF NOT EXISTS idx_advisory_log_outcome ON advisory_log(outcome);
	`
	_, err := db.Exec(schema)
	return err
}

// Record inserts an audit entry, assigning an id and timestamp when unset.
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO advisory_log (id, kind, query, budget, model, outcome, total_cost, part_count, dropped_count, latency_ms, raw_prefix, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Kind, entry.Query, entry.Budget, entry.Model, entry.Outcome,
		entry.TotalCost, entry.PartCount, entry.DroppedCount, entry.LatencyMs, entry.RawPrefix, entry.CreatedAt,
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, query, budget, model, outcome, total_cost, part_count, dropped_count, latency_ms, raw_prefix, created_at
		 FROM advisory_log ORDER BY created_at DESC, id LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.Query, &e.Budget, &e.Model, &e.Outcome,
			&e.TotalCost, &e.PartCount, &e.DroppedCount, &e.LatencyMs, &e.RawPrefix, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Count returns the total number of audit entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM advisory_log`).Scan(&count)
	return count, err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
