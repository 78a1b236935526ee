// Package store provides the download-history stores. History is an
// append-only operator log; it never backs the in-memory status
// registry.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/jguan/ollama-model-manager/pkg/download"
	"github.com/jguan/ollama-model-manager/pkg/service"
)

// SQLiteHistory implements service.HistoryStore on a local SQLite file.
type SQLiteHistory struct {
	db *sql.DB
}

// NewSQLiteHistory opens (creating if needed) the history database at
// dbPath.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &SQLiteHistory{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteHistory) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS download_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		model TEXT NOT NULL,
		status TEXT NOT NULL,
		detail TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_download_events_model ON download_events(model);
	CREATE INDEX IF NOT EXISTS idx_download_events_created_at ON download_events(created_at);
	`
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLiteHistory) Append(ctx context.Context, ev service.DownloadEvent) error {
	query := `INSERT INTO download_events (model, status, detail, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, ev.Model, string(ev.Status), ev.Detail, ev.CreatedAt); err != nil {
		return fmt.Errorf("insert download event: %w", err)
	}
	return nil
}

func (s *SQLiteHistory) List(ctx context.Context, model string, limit int) ([]service.DownloadEvent, error) {
	query := `SELECT model, status, detail, created_at FROM download_events`
	var args []any
	if model != "" {
		query += ` WHERE model = ?`
		args = append(args, model)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query download events: %w", err)
	}
	defer rows.Close()

	var events []service.DownloadEvent
	for rows.Next() {
		var ev service.DownloadEvent
		var status string
		if err := rows.Scan(&ev.Model, &status, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan download event: %w", err)
		}
		ev.Status = download.Status(status)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}
