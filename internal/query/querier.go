package query

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"FlowTally/internal/config"
	"FlowTally/internal/model"
	"FlowTally/internal/report"
)

// TagCount is one row of the tag count table.
type TagCount struct {
	Tag   string `json:"tag"`
	Count uint64 `json:"count"`
}

// ComboCount is one row of the tagged port/protocol combination table.
type ComboCount struct {
	DstPort  uint32 `json:"dstport"`
	Protocol string `json:"protocol"`
	Count    uint64 `json:"count"`
}

// Querier defines the interface for reading aggregated counts.
type Querier interface {
	TagCounts(ctx context.Context) ([]TagCount, error)
	ComboCounts(ctx context.Context) ([]ComboCount, error)
}

// clickhouseQuerier implements the Querier interface for ClickHouse.
type clickhouseQuerier struct {
	conn driver.Conn
}

// NewClickHouseQuerier creates a new querier for ClickHouse.
func NewClickHouseQuerier(cfg config.ClickHouseConfig) (Querier, error) {
	conn, err := report.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}
	return &clickhouseQuerier{conn: conn}, nil
}

// TagCounts returns the tag table from the most recent run.
func (q *clickhouseQuerier) TagCounts(ctx context.Context) ([]TagCount, error) {
	rows, err := q.conn.Query(ctx, `
		SELECT Tag, Count
		FROM tag_counts
		WHERE Timestamp = (SELECT max(Timestamp) FROM tag_counts)
		ORDER BY Tag
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tag counts: %w", err)
	}
	defer rows.Close()

	var result []TagCount
	for rows.Next() {
		var row TagCount
		if err := rows.Scan(&row.Tag, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag count: %w", err)
		}
		result = append(result, row)
	}
	return result, nil
}

// ComboCounts returns the combination table from the most recent run.
func (q *clickhouseQuerier) ComboCounts(ctx context.Context) ([]ComboCount, error) {
	rows, err := q.conn.Query(ctx, `
		SELECT DstPort, Protocol, Count
		FROM combo_counts
		WHERE Timestamp = (SELECT max(Timestamp) FROM combo_counts)
		ORDER BY DstPort, Protocol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query combo counts: %w", err)
	}
	defer rows.Close()

	var result []ComboCount
	for rows.Next() {
		var row ComboCount
		if err := rows.Scan(&row.DstPort, &row.Protocol, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan combo count: %w", err)
		}
		result = append(result, row)
	}
	return result, nil
}

// SummaryQuerier serves counts from an in-memory summary. It backs the API
// when no ClickHouse store is configured.
type SummaryQuerier struct {
	Summary *model.Summary
}

func (q *SummaryQuerier) TagCounts(ctx context.Context) ([]TagCount, error) {
	result := make([]TagCount, 0, len(q.Summary.TagCounts))
	for tag, count := range q.Summary.TagCounts {
		result = append(result, TagCount{Tag: tag, Count: count})
	}
	return result, nil
}

func (q *SummaryQuerier) ComboCounts(ctx context.Context) ([]ComboCount, error) {
	result := make([]ComboCount, 0, len(q.Summary.ComboCounts))
	for key, count := range q.Summary.ComboCounts {
		result = append(result, ComboCount{DstPort: uint32(key.DstPort), Protocol: key.Protocol, Count: count})
	}
	return result, nil
}
