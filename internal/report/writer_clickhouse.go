package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FlowTally/internal/config"
	"FlowTally/internal/model"
)

const createTagTableStatement = `
CREATE TABLE IF NOT EXISTS tag_counts (
    Timestamp DateTime,
    Tag       String,
    Count     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Tag, Timestamp);
`

const createComboTableStatement = `
CREATE TABLE IF NOT EXISTS combo_counts (
    Timestamp DateTime,
    DstPort   UInt32,
    Protocol  String,
    Count     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Protocol, DstPort, Timestamp);
`

// ClickHouseWriter implements the model.Writer interface for ClickHouse.
type ClickHouseWriter struct {
	conn     driver.Conn
	interval time.Duration
}

// NewClickHouseWriter creates a new ClickHouse writer.
func NewClickHouseWriter(cfg config.ClickHouseConfig, interval time.Duration) (model.Writer, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	for _, stmt := range []string{createTagTableStatement, createComboTableStatement} {
		if err := conn.Exec(context.Background(), stmt); err != nil {
			return nil, fmt.Errorf("failed to create table: %w", err)
		}
	}
	log.Println("Successfully connected to ClickHouse and ensured tables exist.")

	return &ClickHouseWriter{conn: conn, interval: interval}, nil
}

// GetInterval returns the configured snapshot interval for this writer.
func (w *ClickHouseWriter) GetInterval() time.Duration {
	return w.interval
}

// Connect opens a ClickHouse connection and verifies it with a ping.
func Connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts both count tables for one run into ClickHouse.
func (w *ClickHouseWriter) Write(summary *model.Summary, timestamp string) error {
	snapshotTime, _ := time.Parse(TimestampLayout, timestamp)

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO tag_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare tag batch: %w", err)
	}
	for tag, count := range summary.TagCounts {
		if err := batch.Append(snapshotTime, tag, count); err != nil {
			return fmt.Errorf("failed to append tag row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send tag batch: %w", err)
	}

	batch, err = w.conn.PrepareBatch(context.Background(), "INSERT INTO combo_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare combo batch: %w", err)
	}
	for key, count := range summary.ComboCounts {
		if err := batch.Append(snapshotTime, uint32(key.DstPort), key.Protocol, count); err != nil {
			return fmt.Errorf("failed to append combo row: %w", err)
		}
	}
	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send combo batch: %w", err)
	}

	log.Printf("Wrote %d tag rows and %d combo rows to ClickHouse", len(summary.TagCounts), len(summary.ComboCounts))
	return nil
}
