package aggregate

import (
	"sync"

	"FlowTally/internal/model"
)

// Aggregator is a concurrency-safe accumulator of classification outcomes.
// Increments are commutative and associative, so the final tables are
// independent of the order workers report in.
type Aggregator struct {
	mu      sync.Mutex
	summary *model.Summary
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{summary: model.NewSummary()}
}

// Record applies a single outcome under the lock.
func (a *Aggregator) Record(o model.Outcome) {
	a.mu.Lock()
	a.summary.Record(o)
	a.mu.Unlock()
}

// Merge folds a locally accumulated summary into the shared tables. Workers
// that tally per-file summaries merge them here once, instead of taking the
// lock per record.
func (a *Aggregator) Merge(s *model.Summary) {
	a.mu.Lock()
	a.summary.Merge(s)
	a.mu.Unlock()
}

// Snapshot returns a deep copy of the current tables. Callers must drain all
// contributing workers first; the dispatcher's join barrier guarantees this
// for batch runs.
func (a *Aggregator) Snapshot() *model.Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.summary.Clone()
}
