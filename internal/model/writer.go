package model

import "time"

// Writer defines a generic interface for emitting an aggregated summary to a
// report target (CSV file, gob snapshot, ClickHouse, sqlite, ...).
type Writer interface {
	// Write persists one summary. The timestamp string labels the run or
	// snapshot the summary belongs to.
	Write(summary *Summary, timestamp string) error

	// GetInterval returns the configured snapshot interval for this writer.
	// Batch runs ignore it; the ingest engine uses it to drive periodic
	// snapshots.
	GetInterval() time.Duration
}
