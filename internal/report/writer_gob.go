package report

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"FlowTally/internal/model"
)

// SummaryData holds the metadata sidecar for a snapshot, internal to the writer.
type SummaryData struct {
	TotalRecords uint64 `json:"total_records"`
	Untagged     uint64 `json:"untagged"`
	Rejected     uint64 `json:"rejected"`
	Tags         int    `json:"tags"`
	Combos       int    `json:"combos"`
	Timestamp    string `json:"timestamp"`
}

// GobWriter handles writing summary snapshot data to disk in gob format.
// It implements the model.Writer interface.
type GobWriter struct {
	rootPath string
	interval time.Duration
}

// NewGobWriter creates a new writer for summary snapshot data.
func NewGobWriter(rootPath string, interval time.Duration) model.Writer {
	return &GobWriter{rootPath: rootPath, interval: interval}
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *GobWriter) GetInterval() time.Duration {
	return w.interval
}

// Write serializes the summary to <root>/<timestamp>/counts.dat along with a
// summary.json sidecar describing the snapshot.
func (w *GobWriter) Write(summary *model.Summary, timestamp string) error {
	snapshotDir := filepath.Join(w.rootPath, timestamp)
	if err := os.MkdirAll(snapshotDir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	dataPath := filepath.Join(snapshotDir, "counts.dat")
	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file '%s': %w", dataPath, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to gob: %w", err)
	}

	sidecar := SummaryData{
		TotalRecords: summary.TotalRecords(),
		Untagged:     summary.TagCounts[model.UntaggedTag],
		Rejected:     summary.TotalRejected(),
		Tags:         len(summary.TagCounts),
		Combos:       len(summary.ComboCounts),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}
	sidecarPath := filepath.Join(snapshotDir, "summary.json")
	sidecarFile, err := os.Create(sidecarPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer sidecarFile.Close()

	encoder := json.NewEncoder(sidecarFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(sidecar); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}

	return nil
}

// ReadFile decodes a gob snapshot previously written by GobWriter.
func ReadFile(path string) (*model.Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot file '%s': %w", path, err)
	}
	defer file.Close()

	var summary model.Summary
	if err := gob.NewDecoder(file).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &summary, nil
}
