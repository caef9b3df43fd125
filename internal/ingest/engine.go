package ingest

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"FlowTally/internal/aggregate"
	"FlowTally/internal/classifier"
	"FlowTally/internal/config"
	"FlowTally/internal/lookup"
	"FlowTally/internal/model"
	"FlowTally/internal/registry"
	"FlowTally/internal/report"
)

// Engine subscribes to a NATS subject carrying raw flow log lines and
// aggregates them continuously. Each configured writer gets a dedicated
// snapshot loop driven by its own interval; a final snapshot is taken at
// shutdown.
type Engine struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	subject string

	reg *registry.Registry
	idx *lookup.Index
	agg *aggregate.Aggregator

	writers       []model.Writer
	done          chan struct{}
	snapshotterWg sync.WaitGroup
}

// NewEngine creates an engine connected to the configured NATS server.
func NewEngine(cfg config.NATSConfig, reg *registry.Registry, idx *lookup.Index, writers []model.Writer) (*Engine, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)

	return &Engine{
		nc:      nc,
		subject: cfg.Subject,
		reg:     reg,
		idx:     idx,
		agg:     aggregate.New(),
		writers: writers,
		done:    make(chan struct{}),
	}, nil
}

// Start subscribes to the line subject and launches one snapshotter per writer.
func (e *Engine) Start() error {
	sub, err := e.nc.Subscribe(e.subject, func(msg *nats.Msg) {
		line := strings.TrimSpace(string(msg.Data))
		if line == "" {
			return
		}
		e.agg.Record(classifier.Classify(strings.Fields(line), e.reg, e.idx))
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to '%s': %w", e.subject, err)
	}
	e.sub = sub
	log.Printf("Subscribed to '%s'. Waiting for flow log lines...", e.subject)

	for _, writer := range e.writers {
		e.snapshotterWg.Add(1)
		go e.runSnapshotter(writer)
		log.Printf("Started snapshotter for a writer with interval %s.", writer.GetInterval())
	}
	return nil
}

// runSnapshotter runs a dedicated snapshot loop for a single writer.
func (e *Engine) runSnapshotter(writer model.Writer) {
	defer e.snapshotterWg.Done()
	interval := writer.GetInterval()
	if interval <= 0 {
		// Final-snapshot-only writer; wait for shutdown.
		<-e.done
		e.writeSnapshot(writer)
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.writeSnapshot(writer)
		case <-e.done:
			e.writeSnapshot(writer)
			return
		}
	}
}

func (e *Engine) writeSnapshot(writer model.Writer) {
	timestamp := time.Now().Format(report.TimestampLayout)
	if err := writer.Write(e.agg.Snapshot(), timestamp); err != nil {
		log.Printf("Error writing snapshot: %v", err)
	}
}

// Snapshot returns a consistent copy of the current aggregate tables.
func (e *Engine) Snapshot() *model.Summary {
	return e.agg.Snapshot()
}

// Stop unsubscribes, takes final snapshots, and closes the connection.
func (e *Engine) Stop() {
	log.Println("Engine stopping...")
	if e.sub != nil {
		e.sub.Unsubscribe()
	}

	close(e.done)
	e.snapshotterWg.Wait()

	summary := e.agg.Snapshot()
	for reason, count := range summary.RejectCounts {
		log.Printf("Rejected %d records: %s", count, reason)
	}

	if e.nc != nil {
		e.nc.Close()
		log.Println("NATS connection closed.")
	}
	log.Println("Engine stopped.")
}
