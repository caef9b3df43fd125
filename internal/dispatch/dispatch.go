package dispatch

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"FlowTally/internal/aggregate"
	"FlowTally/internal/classifier"
	"FlowTally/internal/lookup"
	"FlowTally/internal/model"
	"FlowTally/internal/registry"
)

const defaultNumWorkers = 4

// FileResult holds the counts contributed by a single flow log file.
type FileResult struct {
	Path    string
	Summary *model.Summary
}

// Result is the outcome of one dispatcher run. Summary is the merged
// aggregate across all files that could be read; Failures lists the files
// whose counts are absent from it.
type Result struct {
	Summary  *model.Summary
	PerFile  []FileResult
	Failures []model.FileFailure
}

// Dispatcher fans one classification pass per input file out across a bounded
// worker pool, feeding all outcomes into a single aggregator.
type Dispatcher struct {
	reg        *registry.Registry
	idx        *lookup.Index
	numWorkers int
}

// New creates a dispatcher. numWorkers <= 0 falls back to the default of 4.
func New(reg *registry.Registry, idx *lookup.Index, numWorkers int) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultNumWorkers
	}
	return &Dispatcher{reg: reg, idx: idx, numWorkers: numWorkers}
}

// Run processes every file and returns the merged result. It waits for all
// workers to finish before returning; a single file's read failure is
// recorded per-file and does not abort sibling files.
func (d *Dispatcher) Run(paths []string) *Result {
	agg := aggregate.New()
	result := &Result{}

	paths = append([]string(nil), paths...)
	jobs := make(chan string, len(paths))
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)

	var mu sync.Mutex // guards result.PerFile and result.Failures
	var wg sync.WaitGroup
	wg.Add(d.numWorkers)
	for i := 0; i < d.numWorkers; i++ {
		go func() {
			defer wg.Done()
			for path := range jobs {
				summary, err := d.scanFile(path)
				if err != nil {
					log.Printf("Error processing %s: %v", path, err)
					mu.Lock()
					result.Failures = append(result.Failures, model.FileFailure{Path: path, Err: err})
					mu.Unlock()
					continue
				}
				agg.Merge(summary)
				mu.Lock()
				result.PerFile = append(result.PerFile, FileResult{Path: path, Summary: summary})
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// All workers have joined; the snapshot is consistent.
	result.Summary = agg.Snapshot()
	return result
}

// scanFile streams one file line by line through the classifier, tallying
// outcomes into a file-local summary.
func (d *Dispatcher) scanFile(path string) (*model.Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open flow log: %w", err)
	}
	defer file.Close()

	summary := model.NewSummary()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		summary.Record(classifier.Classify(strings.Fields(line), d.reg, d.idx))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flow log: %w", err)
	}
	return summary, nil
}
