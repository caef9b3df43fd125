package publish

import (
	"encoding/json"
	"log"

	"github.com/nats-io/nats.go"

	"FlowTally/internal/config"
	"FlowTally/internal/model"
)

// ComboCount is the JSON shape of one (port, protocol) count.
type ComboCount struct {
	DstPort  int    `json:"dstport"`
	Protocol string `json:"protocol"`
	Count    uint64 `json:"count"`
}

// SummaryPayload is the JSON message published after a run completes.
type SummaryPayload struct {
	Timestamp   string            `json:"timestamp"`
	TagCounts   map[string]uint64 `json:"tag_counts"`
	ComboCounts []ComboCount      `json:"combo_counts"`
}

// Publisher is responsible for publishing run summaries to a NATS subject.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher creates a new NATS publisher for summaries.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &Publisher{nc: nc, subject: cfg.SummarySubject}, nil
}

// Publish serializes a summary to JSON and publishes it to the configured subject.
func (p *Publisher) Publish(summary *model.Summary, timestamp string) error {
	payload := SummaryPayload{
		Timestamp:   timestamp,
		TagCounts:   summary.TagCounts,
		ComboCounts: make([]ComboCount, 0, len(summary.ComboCounts)),
	}
	for key, count := range summary.ComboCounts {
		payload.ComboCounts = append(payload.ComboCounts, ComboCount{
			DstPort:  key.DstPort,
			Protocol: key.Protocol,
			Count:    count,
		})
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.nc.Publish(p.subject, data)
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		log.Println("NATS connection drained and closed.")
	}
}
