package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FlowTally/internal/config"
	"FlowTally/internal/ingest"
	"FlowTally/internal/loader"
	"FlowTally/internal/report"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML config file.")
	flag.Parse()

	log.Println("Starting flowtally-engine...")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Configuration loaded successfully.")

	reg, err := loader.LoadProtocolRegistry(cfg.Aggregator.ProtocolFile)
	if err != nil {
		log.Fatalf("Error loading protocol mapping: %v", err)
	}
	idx, err := loader.LoadLookupIndex(cfg.Aggregator.LookupFile)
	if err != nil {
		log.Fatalf("Error parsing lookup table: %v", err)
	}

	engine, err := ingest.NewEngine(cfg.NATS, reg, idx, report.NewWriters(cfg))
	if err != nil {
		log.Fatalf("Failed to create ingest engine: %v", err)
	}
	if err := engine.Start(); err != nil {
		log.Fatalf("Failed to start ingest engine: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutdown signal received, stopping engine...")
	engine.Stop()
	log.Println("Shutdown complete.")
}
