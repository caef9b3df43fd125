package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"FlowTally/internal/config"
	"FlowTally/internal/model"
)

// CSVWriter renders a summary as the two-section report CSV:
// "Tag Counts" followed by "Tagged Port/Protocol Combination Counts".
// It implements the model.Writer interface.
type CSVWriter struct {
	outputDir string
	interval  time.Duration
}

// NewCSVWriter creates a new CSV report writer.
func NewCSVWriter(cfg config.CSVConfig, interval time.Duration) model.Writer {
	return &CSVWriter{outputDir: cfg.OutputDir, interval: interval}
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *CSVWriter) GetInterval() time.Duration {
	return w.interval
}

// Write renders the summary to <output_dir>/tally_<timestamp>.csv.
func (w *CSVWriter) Write(summary *model.Summary, timestamp string) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(w.outputDir, fmt.Sprintf("tally_%s.csv", timestamp))
	return WriteFile(summary, path)
}

// WriteFile renders one summary to a report CSV at path. Rows are sorted so
// output is deterministic across runs. A UTF-8 BOM is written first so Excel
// opens the file correctly.
func WriteFile(summary *model.Summary, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file '%s': %w", path, err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	writer.Write([]string{"Tag Counts"})
	writer.Write([]string{"Tag", "Count"})

	tags := make([]string, 0, len(summary.TagCounts))
	for tag := range summary.TagCounts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		writer.Write([]string{tag, strconv.FormatUint(summary.TagCounts[tag], 10)})
	}

	if len(summary.ComboCounts) > 0 {
		writer.Write([]string{})
		writer.Write([]string{"Tagged Port/Protocol Combination Counts"})
		writer.Write([]string{"Port", "Protocol", "Count"})

		combos := make([]model.ComboKey, 0, len(summary.ComboCounts))
		for key := range summary.ComboCounts {
			combos = append(combos, key)
		}
		sort.Slice(combos, func(i, j int) bool {
			if combos[i].DstPort != combos[j].DstPort {
				return combos[i].DstPort < combos[j].DstPort
			}
			return combos[i].Protocol < combos[j].Protocol
		})
		for _, key := range combos {
			writer.Write([]string{
				strconv.Itoa(key.DstPort),
				key.Protocol,
				strconv.FormatUint(summary.ComboCounts[key], 10),
			})
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write report rows: %w", err)
	}
	return nil
}
