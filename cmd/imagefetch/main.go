// imagefetch is a command-line tool for downloading the page images of span annotation exports.
//
// The tool reads every *.jsonl export in a dataset directory, sorts out records without
// annotations, duplicate records and malformed lines, and downloads the image of every
// remaining record into a directory named after the export. Images already on disk are
// not downloaded again. Unless disabled, a PAGE-XML document is then built for every
// valid record. A log of missing, failed, duplicate and malformed entries is written
// next to each export as log_<name>.txt.
//
// Configuration:
//
// Settings can be given in an optional YAML configuration file; flags override it:
//
//	dataset: 2023-04-21-07-04-09
//	encoding: utf-8
//	fetch:
//	  workers: 4
//	  timeout: 60s
//	  user_agent: spanpage/1.0
//	  generate_xml: true
//	xml:
//	  creator: Transkribus
//	  timestamps: fixed
//
// Usage:
//
//	imagefetch -dataset DIR [options]
//
// Options:
//
//	-dataset string  Dataset directory containing the *.jsonl exports
//	-config string   Path to the YAML configuration file
//	-workers int     Number of parallel downloads
//	-xml             Build PAGE-XML after downloading (default true)
//	-report string   Path to save an XLSX run report
//	-v               Enable debug logging
//
// Example:
//
//	imagefetch -dataset 2023-04-21-07-04-09 -workers 4 -report fetch.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"github.com/gardar/spanpage/pkg/dataset"
	"github.com/gardar/spanpage/pkg/report"
)

// loadConfig reads the YAML file at path, or returns the defaults when path is empty
func loadConfig(path string) (dataset.Config, error) {
	if path == "" {
		return dataset.DefaultConfig(), nil
	}
	return dataset.LoadConfig(path)
}

func main() {
	configPath := flag.String("config", "", "Path to the config YAML file")
	datasetDir := flag.String("dataset", "", "Dataset directory containing *.jsonl exports")
	workers := flag.Int("workers", 0, "Number of parallel downloads")
	generateXML := flag.Bool("xml", true, "Build PAGE-XML for every valid record after downloading")
	reportPath := flag.String("report", "", "Path to save an XLSX run report")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	if providedFlags["dataset"] {
		cfg.Dataset = *datasetDir
	}
	if providedFlags["workers"] {
		cfg.Fetch.Workers = *workers
	}
	if providedFlags["xml"] {
		cfg.Fetch.GenerateXML = *generateXML
	}

	if cfg.Dataset == "" {
		fmt.Fprintln(os.Stderr, "Error: -dataset flag is required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	logger = logger.With("run_id", uuid.NewString())
	cfg.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	files, err := dataset.Layout{Root: cfg.Dataset}.JSONLFiles()
	if err != nil {
		logger.Error("failed to list exports", "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Warn("no *.jsonl exports found", "dataset", cfg.Dataset)
	}

	failed := false
	var summaries []*dataset.Summary
	for _, jsonl := range files {
		logger.Info("processing export", "path", jsonl)
		summary, err := dataset.FetchCollection(ctx, cfg, jsonl)
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			logger.Error("export failed", "path", jsonl, "error", err)
			failed = true
			if ctx.Err() != nil {
				break
			}
		}
	}

	if *reportPath != "" {
		if err := report.Write(*reportPath, summaries); err != nil {
			logger.Error("failed to write report", "path", *reportPath, "error", err)
			failed = true
		} else {
			logger.Info("report written", "path", *reportPath)
		}
	}

	if failed {
		os.Exit(1)
	}
}
