// pagexml is a command-line tool for converting span annotation exports into PAGE-XML.
//
// For every *.jsonl export in a dataset directory the tool builds one PAGE-XML document per
// annotated record whose page image has already been downloaded (see imagefetch). Documents
// are written to <dataset>/<export>/page/<image>.xml and existing documents are never
// overwritten. Records without a local image are skipped and listed, together with missing
// and malformed entries, in <dataset>/<export>_xml_log.txt.
//
// Span labels map to PAGE regions as follows:
//
//	Text-Area     TextRegion
//	Margin        TextRegion (structure marginalia)
//	Caption       TextRegion (structure caption)
//	Illustration  ImageRegion
//
// Any other label is ignored.
//
// Usage:
//
//	pagexml -dataset DIR [options]
//
// Options:
//
//	-dataset string  Dataset directory containing the *.jsonl exports
//	-config string   Path to the YAML configuration file
//	-preview         Also render a PDF per page with the regions outlined
//	-report string   Path to save an XLSX run report
//	-v               Enable debug logging
//
// Example:
//
//	pagexml -dataset 2023-04-21-07-04-09 -preview -report xml.xlsx
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
	previews := flag.Bool("preview", false, "Render a region preview PDF for every page")
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
	if providedFlags["preview"] {
		cfg.Preview.Enabled = *previews
	}

	if cfg.Dataset == "" {
		fmt.Fprintln(os.Stderr, "Error: -dataset flag is required")
		fmt.Fprintln(os.Stderr, "Usage:")
		flag.PrintDefaults()
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
		summary, err := dataset.GenerateCollection(ctx, cfg, jsonl)
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
