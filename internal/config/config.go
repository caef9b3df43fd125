package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AggregatorConfig holds the settings for the classification pipeline.
type AggregatorConfig struct {
	NumWorkers   int    `yaml:"num_workers"`
	ProtocolFile string `yaml:"protocol_file"`
	LookupFile   string `yaml:"lookup_file"`
}

// CSVConfig configures the CSV report writer.
type CSVConfig struct {
	OutputDir string `yaml:"output_dir"`
	// PerFile additionally writes one <basename>_output.csv per input file.
	PerFile bool `yaml:"per_file"`
}

// GobConfig configures the gob snapshot writer.
type GobConfig struct {
	RootPath string `yaml:"root_path"`
}

// ClickHouseConfig holds connection settings for ClickHouse.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SQLiteConfig configures the sqlite report writer.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// WriterDef defines a single report writer from the config file.
type WriterDef struct {
	Type             string           `yaml:"type"`
	Enabled          bool             `yaml:"enabled"`
	SnapshotInterval string           `yaml:"snapshot_interval"`
	CSV              CSVConfig        `yaml:"csv"`
	Gob              GobConfig        `yaml:"gob"`
	ClickHouse       ClickHouseConfig `yaml:"clickhouse"`
	SQLite           SQLiteConfig     `yaml:"sqlite"`
}

// NATSConfig holds the settings for publishing summaries and for the
// line-ingest subject consumed by the engine.
type NATSConfig struct {
	URL            string `yaml:"url"`
	Subject        string `yaml:"subject"`
	PublishSummary bool   `yaml:"publish_summary"`
	SummarySubject string `yaml:"summary_subject"`
}

// APIConfig holds the settings for the HTTP API server.
type APIConfig struct {
	ListenAddr string           `yaml:"listen_addr"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Writers    []WriterDef      `yaml:"writers"`
	NATS       NATSConfig       `yaml:"nats"`
	API        APIConfig        `yaml:"api"`
}

// LoadConfig reads the configuration from a YAML file and returns a Config struct.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	if cfg.Aggregator.NumWorkers <= 0 {
		cfg.Aggregator.NumWorkers = 4
	}

	return &cfg, nil
}
