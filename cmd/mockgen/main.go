package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"rtt-forecast/cmd/mockgen/engine"
)

func main() {
	scenario := flag.String("scenario", "steady", "Scenario to generate: steady, backlog, recovery")
	specialties := flag.String("specialties", "Trauma & Orthopaedics,Urology,General Surgery", "Comma-separated specialties")
	outDir := flag.String("out", "./data", "Output directory for the CSV files")
	weeks := flag.Int("weeks", 12, "Weeks of activity history to generate")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	flag.Parse()

	cfg := engine.GeneratorConfig{
		Scenario:    *scenario,
		Specialties: strings.Split(*specialties, ","),
		Weeks:       *weeks,
		Seed:        *seed,
		Now:         time.Now(),
	}

	fmt.Printf("Generating scenario '%s' (%d specialties, %d weeks of history) to %s...\n", cfg.Scenario, len(cfg.Specialties), cfg.Weeks, *outDir)

	tables := engine.Generate(cfg)
	if err := engine.Save(*outDir, tables); err != nil {
		fmt.Printf("Failed to save mock data: %v\n", err)
		os.Exit(1)
	}

	reports, err := engine.Check(*outDir, tables)
	if err != nil {
		fmt.Printf("Generated data failed validation: %v\n", err)
		os.Exit(1)
	}
	for _, rep := range reports {
		fmt.Printf("  %-14s %5d rows, %5d records, %d skipped\n", rep.Dataset, rep.TotalRows, rep.Records, rep.SkippedCount())
	}

	fmt.Println("Done.")
}
