package report

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestSQLiteWriterPersistsCounts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.db")
	writer, err := NewSQLiteWriter(path, 0)
	if err != nil {
		t.Fatalf("Failed to create sqlite writer: %v", err)
	}

	if err := writer.Write(testSummary(), "2026-08-31_12-00-00"); err != nil {
		t.Fatalf("Failed to write counts: %v", err)
	}
	// Same run written twice must upsert, not duplicate.
	if err := writer.Write(testSummary(), "2026-08-31_12-00-00"); err != nil {
		t.Fatalf("Failed to rewrite counts: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var count uint64
	if err := db.QueryRow(`SELECT count FROM tag_counts WHERE run_ts = ? AND tag = ?`,
		"2026-08-31_12-00-00", "Untagged").Scan(&count); err != nil {
		t.Fatalf("Failed to query tag count: %v", err)
	}
	if count != 8 {
		t.Errorf("Expected Untagged count 8, got %d", count)
	}

	var rows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM combo_counts`).Scan(&rows); err != nil {
		t.Fatalf("Failed to count combo rows: %v", err)
	}
	if rows != 2 {
		t.Errorf("Expected 2 combo rows after upsert, got %d", rows)
	}
}
