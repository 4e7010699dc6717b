package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gardar/spanpage/pkg/annotation"
	"github.com/gardar/spanpage/pkg/fetch"
	"github.com/gardar/spanpage/pkg/pagexml"
	"github.com/gardar/spanpage/pkg/preview"
	"github.com/gardar/spanpage/pkg/runlog"
)

// FetchCollection downloads the images of the export at jsonl into its image
// directory, optionally builds PAGE-XML for every valid record and writes the
// download log.
func FetchCollection(ctx context.Context, cfg Config, jsonl string) (*Summary, error) {
	logger := cfg.logger()
	col := Layout{Root: cfg.Dataset}.Collection(jsonl)
	logger = logger.With("collection", col.Name)

	if err := os.MkdirAll(col.ImageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	batch, err := annotation.ReadFile(jsonl, cfg.ReaderOptions())
	if err != nil {
		return nil, err
	}
	summary := newSummary(col, batch)
	logBatch(logger, batch)

	logger.Info("downloading images", "count", len(batch.Valid), "workers", cfg.Fetch.Workers)
	start := time.Now()
	fetcher := fetch.New(cfg.FetchOptions()...)
	for _, res := range fetcher.FetchAll(ctx, batch.Valid, col.ImageDir) {
		switch {
		case res.Err != nil:
			logger.Warn("error downloading image", "image_id", res.Record.ID, "url", res.Record.Image, "error", res.Err)
			summary.Failures = append(summary.Failures, Failure{
				Stage:   StageDownload,
				ImageID: res.Record.ID,
				URL:     res.Record.Image,
				Err:     res.Err,
			})
		case res.Downloaded:
			logger.Debug("downloaded image", "image_id", res.Record.ID, "path", res.Path)
			summary.Downloaded++
		default:
			summary.Present++
		}
	}
	logger.Info("downloads finished",
		"downloaded", summary.Downloaded,
		"present", summary.Present,
		"failed", len(summary.FailedDownloads()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if cfg.Fetch.GenerateXML {
		x, err := newXMLJob(cfg, col, summary, logger)
		if err != nil {
			return nil, err
		}
		for _, rec := range batch.Valid {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			x.write(rec)
		}
		logger.Info("PAGE-XML generation finished", "written", summary.Written)
	}

	err = runlog.WriteDownloadLog(col.DownloadLogPath, col.Name, runlog.DownloadLog{
		Missing:    summary.Missing,
		Failed:     summary.FailedDownloads(),
		Duplicates: summary.Duplicates,
		Malformed:  summary.Malformed,
	})
	if err != nil {
		return summary, err
	}

	return summary, nil
}

// GenerateCollection builds PAGE-XML for every valid record of the export at
// jsonl whose image is present in the image directory. Records without a
// local image are skipped and listed in the PAGE-XML log.
func GenerateCollection(ctx context.Context, cfg Config, jsonl string) (*Summary, error) {
	logger := cfg.logger()
	col := Layout{Root: cfg.Dataset}.Collection(jsonl)
	logger = logger.With("collection", col.Name)

	batch, err := annotation.ReadFile(jsonl, cfg.ReaderOptions())
	if err != nil {
		return nil, err
	}
	summary := newSummary(col, batch)
	logBatch(logger, batch)

	images, err := localImages(col.ImageDir)
	if err != nil {
		return nil, err
	}
	logger.Info("generating PAGE-XML", "records", len(batch.Valid), "images", len(images))

	x, err := newXMLJob(cfg, col, summary, logger)
	if err != nil {
		return nil, err
	}

	for _, rec := range batch.Valid {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		imagePath, ok := images[rec.ImageName()]
		if !ok {
			logger.Debug("no local image, skipping", "image_id", rec.ID)
			summary.Skipped = append(summary.Skipped, rec)
			continue
		}

		path, ok := x.write(rec)
		if ok && cfg.Preview.Enabled {
			x.preview(rec, path, imagePath)
		}
	}

	logger.Info("PAGE-XML generation finished",
		"written", summary.Written,
		"skipped", len(summary.Skipped),
		"previews", summary.Previews,
	)

	err = runlog.WriteXMLLog(col.XMLLogPath, runlog.XMLLog{
		Skipped:   summary.Skipped,
		Missing:   summary.Missing,
		Malformed: summary.Malformed,
	})
	if err != nil {
		return summary, err
	}

	return summary, nil
}

// xmlJob writes the PAGE-XML documents of one collection
type xmlJob struct {
	writer     *pagexml.Writer
	previewDir string
	previewCfg preview.Config
	summary    *Summary
	logger     *slog.Logger
}

func newXMLJob(cfg Config, col Collection, summary *Summary, logger *slog.Logger) (*xmlJob, error) {
	if err := os.MkdirAll(col.PageDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create page directory: %w", err)
	}
	if cfg.Preview.Enabled {
		if err := os.MkdirAll(col.PreviewDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create preview directory: %w", err)
		}
	}

	return &xmlJob{
		writer:     pagexml.NewWriter(col.PageDir, cfg.XMLOptions(time.Now())),
		previewDir: col.PreviewDir,
		previewCfg: cfg.PreviewOptions(),
		summary:    summary,
		logger:     logger,
	}, nil
}

// write builds and writes the document for rec. It reports whether a document
// exists at the returned path afterwards.
func (x *xmlJob) write(rec annotation.Record) (string, bool) {
	path, written, err := x.writer.WriteRecord(rec)
	if err != nil {
		var malformed *annotation.MalformedRecordError
		if errors.As(err, &malformed) {
			x.logger.Warn("malformed record", "image_id", rec.ID, "error", err)
			x.summary.Malformed = append(x.summary.Malformed, malformed)
			return path, false
		}
		x.logger.Error("error writing PAGE-XML", "image_id", rec.ID, "path", path, "error", err)
		x.summary.Failures = append(x.summary.Failures, Failure{
			Stage:   StageXML,
			ImageID: rec.ID,
			URL:     rec.Image,
			Err:     err,
		})
		return path, false
	}

	if written {
		x.logger.Debug("wrote PAGE-XML", "image_id", rec.ID, "path", path)
		x.summary.Written++
		return path, true
	}

	// Valid records always carry spans, so an unwritten document was already on disk
	return path, len(rec.Spans) > 0
}

// preview renders the region preview for the document at xmlPath unless one exists
func (x *xmlJob) preview(rec annotation.Record, xmlPath, imagePath string) {
	name := strings.TrimSuffix(filepath.Base(xmlPath), ".xml")
	out := filepath.Join(x.previewDir, name+".pdf")
	if _, err := os.Stat(out); err == nil {
		return
	}

	fail := func(err error) {
		x.logger.Error("error rendering preview", "image_id", rec.ID, "error", err)
		x.summary.Failures = append(x.summary.Failures, Failure{
			Stage:   StagePreview,
			ImageID: rec.ID,
			URL:     rec.Image,
			Err:     err,
		})
	}

	doc, err := pagexml.ReadPageXML(xmlPath)
	if err != nil {
		fail(err)
		return
	}
	img, err := os.ReadFile(imagePath)
	if err != nil {
		fail(err)
		return
	}
	pdf, err := preview.Render(doc, img, x.previewCfg)
	if err != nil {
		fail(err)
		return
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		fail(fmt.Errorf("failed to write preview: %w", err))
		return
	}

	x.logger.Debug("wrote preview", "image_id", rec.ID, "path", out)
	x.summary.Previews++
}

// localImages maps image names to the *.jpg files in dir
func localImages(dir string) (map[string]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+fetch.ImageExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list images in %s: %w", dir, err)
	}
	images := make(map[string]string, len(paths))
	for _, p := range paths {
		images[annotation.ImageNameFromID(filepath.Base(p))] = p
	}
	return images, nil
}

func logBatch(logger *slog.Logger, batch *annotation.Batch) {
	logger.Info("read annotations",
		"total", batch.Total(),
		"valid", len(batch.Valid),
		"missing", len(batch.Missing),
		"duplicates", len(batch.Duplicates),
		"malformed", len(batch.Malformed),
	)
	for _, m := range batch.Malformed {
		logger.Warn("malformed record", "line", m.Line, "field", m.Field, "error", m.Err)
	}
}
