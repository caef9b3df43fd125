package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestGobWriterRoundTrip(t *testing.T) {
	root := t.TempDir()
	writer := NewGobWriter(root, 0)
	summary := testSummary()

	if err := writer.Write(summary, "2026-08-31_12-00-00"); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}

	decoded, err := ReadFile(filepath.Join(root, "2026-08-31_12-00-00", "counts.dat"))
	if err != nil {
		t.Fatalf("Failed to read snapshot back: %v", err)
	}
	if !reflect.DeepEqual(decoded, summary) {
		t.Errorf("Snapshot round trip mismatch.\n got: %+v\nwant: %+v", decoded, summary)
	}
}

func TestGobWriterSidecar(t *testing.T) {
	root := t.TempDir()
	writer := NewGobWriter(root, 0)

	if err := writer.Write(testSummary(), "2026-08-31_12-00-00"); err != nil {
		t.Fatalf("Failed to write snapshot: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "2026-08-31_12-00-00", "summary.json"))
	if err != nil {
		t.Fatalf("Failed to read sidecar: %v", err)
	}
	var sidecar SummaryData
	if err := json.Unmarshal(data, &sidecar); err != nil {
		t.Fatalf("Failed to parse sidecar: %v", err)
	}
	if sidecar.TotalRecords != 13 {
		t.Errorf("Expected 13 total records, got %d", sidecar.TotalRecords)
	}
	if sidecar.Untagged != 8 {
		t.Errorf("Expected 8 untagged, got %d", sidecar.Untagged)
	}
	if sidecar.Rejected != 2 {
		t.Errorf("Expected 2 rejected, got %d", sidecar.Rejected)
	}
	if sidecar.Tags != 3 || sidecar.Combos != 2 {
		t.Errorf("Expected 3 tags and 2 combos, got %d and %d", sidecar.Tags, sidecar.Combos)
	}
}
