package report

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"FlowTally/internal/model"
)

const createSQLiteTables = `
CREATE TABLE IF NOT EXISTS tag_counts (
    run_ts TEXT NOT NULL,
    tag    TEXT NOT NULL,
    count  INTEGER NOT NULL,
    PRIMARY KEY (run_ts, tag)
);
CREATE TABLE IF NOT EXISTS combo_counts (
    run_ts   TEXT NOT NULL,
    dstport  INTEGER NOT NULL,
    protocol TEXT NOT NULL,
    count    INTEGER NOT NULL,
    PRIMARY KEY (run_ts, dstport, protocol)
);
`

// SQLiteWriter persists count tables into a local sqlite database.
// It implements the model.Writer interface.
type SQLiteWriter struct {
	db       *sql.DB
	interval time.Duration
}

// NewSQLiteWriter opens (creating if necessary) the sqlite database at path
// and ensures the count tables exist.
func NewSQLiteWriter(path string, interval time.Duration) (model.Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(createSQLiteTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sqlite tables: %w", err)
	}

	return &SQLiteWriter{db: db, interval: interval}, nil
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *SQLiteWriter) GetInterval() time.Duration {
	return w.interval
}

// Write upserts both count tables for one run inside a single transaction.
func (w *SQLiteWriter) Write(summary *model.Summary, timestamp string) error {
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tagStmt, err := tx.Prepare(`INSERT INTO tag_counts (run_ts, tag, count) VALUES (?, ?, ?)
		ON CONFLICT (run_ts, tag) DO UPDATE SET count = excluded.count`)
	if err != nil {
		return fmt.Errorf("failed to prepare tag statement: %w", err)
	}
	defer tagStmt.Close()
	for tag, count := range summary.TagCounts {
		if _, err := tagStmt.Exec(timestamp, tag, count); err != nil {
			return fmt.Errorf("failed to insert tag row: %w", err)
		}
	}

	comboStmt, err := tx.Prepare(`INSERT INTO combo_counts (run_ts, dstport, protocol, count) VALUES (?, ?, ?, ?)
		ON CONFLICT (run_ts, dstport, protocol) DO UPDATE SET count = excluded.count`)
	if err != nil {
		return fmt.Errorf("failed to prepare combo statement: %w", err)
	}
	defer comboStmt.Close()
	for key, count := range summary.ComboCounts {
		if _, err := comboStmt.Exec(timestamp, key.DstPort, key.Protocol, count); err != nil {
			return fmt.Errorf("failed to insert combo row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit counts: %w", err)
	}

	log.Printf("Wrote %d tag rows and %d combo rows to sqlite", len(summary.TagCounts), len(summary.ComboCounts))
	return nil
}
