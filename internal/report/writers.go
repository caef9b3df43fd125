package report

import (
	"log"
	"time"

	"FlowTally/internal/config"
	"FlowTally/internal/model"
)

// TimestampLayout labels run and snapshot directories/rows.
const TimestampLayout = "2006-01-02_15-04-05"

// NewWriters creates all enabled report writers from the config. Writer
// definitions that cannot be built are skipped with a warning so the
// remaining writers still run.
func NewWriters(cfg *config.Config) []model.Writer {
	writers := make([]model.Writer, 0, len(cfg.Writers))
	for _, def := range cfg.Writers {
		if !def.Enabled {
			continue
		}

		interval := time.Duration(0)
		if def.SnapshotInterval != "" {
			var err error
			interval, err = time.ParseDuration(def.SnapshotInterval)
			if err != nil {
				log.Printf("Warning: invalid snapshot_interval for writer type '%s': %v, skipping.", def.Type, err)
				continue
			}
		}

		var writer model.Writer
		var err error
		switch def.Type {
		case "csv":
			writer = NewCSVWriter(def.CSV, interval)
		case "gob":
			writer = NewGobWriter(def.Gob.RootPath, interval)
		case "clickhouse":
			writer, err = NewClickHouseWriter(def.ClickHouse, interval)
			if err != nil {
				log.Printf("Warning: failed to create writer type '%s': %v, skipping.", def.Type, err)
				continue
			}
		case "sqlite":
			writer, err = NewSQLiteWriter(def.SQLite.Path, interval)
			if err != nil {
				log.Printf("Warning: failed to create writer type '%s': %v, skipping.", def.Type, err)
				continue
			}
		default:
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", def.Type)
			continue
		}
		writers = append(writers, writer)
	}
	return writers
}
