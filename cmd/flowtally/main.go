package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"FlowTally/internal/config"
	"FlowTally/internal/dispatch"
	"FlowTally/internal/loader"
	"FlowTally/internal/model"
	"FlowTally/internal/publish"
	"FlowTally/internal/report"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML config file.")
	lookupPath := flag.String("lookup", "", "Path to the lookup CSV file (overrides config).")
	protocolPath := flag.String("protocols", "", "Path to the protocol reference CSV file (overrides config).")
	outputDir := flag.String("output", "", "Directory for report CSV files (overrides config).")
	workers := flag.Int("workers", 0, "Number of concurrent file workers (overrides config).")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *lookupPath != "" {
		cfg.Aggregator.LookupFile = *lookupPath
	}
	if *protocolPath != "" {
		cfg.Aggregator.ProtocolFile = *protocolPath
	}
	if *workers > 0 {
		cfg.Aggregator.NumWorkers = *workers
	}
	if *outputDir != "" {
		for i := range cfg.Writers {
			if cfg.Writers[i].Type == "csv" {
				cfg.Writers[i].CSV.OutputDir = *outputDir
			}
		}
	}

	logFiles := flag.Args()
	if len(logFiles) == 0 {
		log.Fatalf("No flow log files given. Usage: flowtally [flags] <flow-log>...")
	}

	reg, err := loader.LoadProtocolRegistry(cfg.Aggregator.ProtocolFile)
	if err != nil {
		log.Fatalf("Error loading protocol mapping: %v", err)
	}
	idx, err := loader.LoadLookupIndex(cfg.Aggregator.LookupFile)
	if err != nil {
		log.Fatalf("Error parsing lookup table: %v", err)
	}
	log.Printf("Loaded %d protocols and %d lookup entries.", reg.Len(), idx.Len())

	result := dispatch.New(reg, idx, cfg.Aggregator.NumWorkers).Run(logFiles)
	for _, failure := range result.Failures {
		log.Printf("Failed to process %s: %v", failure.Path, failure.Err)
	}
	if len(result.PerFile) == 0 {
		log.Fatalf("No flow log files could be processed.")
	}

	timestamp := time.Now().Format(report.TimestampLayout)
	writers := report.NewWriters(cfg)
	for _, writer := range writers {
		if err := writer.Write(result.Summary, timestamp); err != nil {
			log.Printf("Error writing report: %v", err)
		}
	}

	writePerFileReports(cfg, result)

	if cfg.NATS.PublishSummary {
		publisher, err := publish.NewPublisher(cfg.NATS)
		if err != nil {
			log.Printf("Error connecting publisher: %v", err)
		} else {
			if err := publisher.Publish(result.Summary, timestamp); err != nil {
				log.Printf("Error publishing summary: %v", err)
			}
			publisher.Close()
		}
	}

	summary := result.Summary
	log.Printf("Done: %d records counted (%d untagged), %d rejected, %d tagged combinations.",
		summary.TotalRecords(), summary.TagCounts[model.UntaggedTag], summary.TotalRejected(), len(summary.ComboCounts))
	for reason, count := range summary.RejectCounts {
		log.Printf("Rejected %d records: %s", count, reason)
	}
}

// writePerFileReports emits one report CSV per input file when the csv writer
// is configured in per_file mode.
func writePerFileReports(cfg *config.Config, result *dispatch.Result) {
	for _, def := range cfg.Writers {
		if def.Type != "csv" || !def.Enabled || !def.CSV.PerFile {
			continue
		}
		for _, fileResult := range result.PerFile {
			name := fmt.Sprintf("%s_output.csv", filepath.Base(fileResult.Path))
			path := filepath.Join(def.CSV.OutputDir, name)
			if err := report.WriteFile(fileResult.Summary, path); err != nil {
				log.Printf("Error writing per-file report for %s: %v", fileResult.Path, err)
			}
		}
		return
	}
}
