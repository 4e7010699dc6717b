// Package report writes an XLSX workbook summarising dataset runs.
//
// The "Summary" sheet has one row per collection with its counts. The
// remaining sheets list the entries behind those counts: Missing,
// Duplicates, Failed, Skipped and Malformed.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gardar/spanpage/pkg/annotation"
	"github.com/gardar/spanpage/pkg/dataset"
)

// Sheet names
const (
	SheetSummary    = "Summary"
	SheetMissing    = "Missing"
	SheetDuplicates = "Duplicates"
	SheetFailed     = "Failed"
	SheetSkipped    = "Skipped"
	SheetMalformed  = "Malformed"
)

// Write saves a workbook for summaries at path
func Write(path string, summaries []*dataset.Summary) error {
	f, err := Build(summaries)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// Build creates the workbook in memory
func Build(summaries []*dataset.Summary) (_ *excelize.File, err error) {
	f := excelize.NewFile()
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	// NewFile starts with an empty Sheet1
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}

	s := newSheet(f, SheetSummary, "Collection", "Records", "Valid", "Downloaded", "Present",
		"Written", "Previews", "Missing", "Duplicates", "Skipped", "Malformed", "Failed")
	for _, sum := range summaries {
		s.row(sum.Collection, sum.Total, sum.Valid, sum.Downloaded, sum.Present,
			sum.Written, sum.Previews, len(sum.Missing), len(sum.Duplicates),
			len(sum.Skipped), len(sum.Malformed), len(sum.Failures))
	}
	s.widths(map[string]float64{"A": 28})

	records := func(name string, pick func(*dataset.Summary) []annotation.Record) error {
		sheet := newSheet(f, name, "Collection", "Line", "Image ID", "Image URL", "Record")
		for _, sum := range summaries {
			for _, rec := range pick(sum) {
				sheet.row(sum.Collection, rec.Line, rec.ID, rec.Image, rec.Raw)
			}
		}
		sheet.widths(map[string]float64{"A": 28, "C": 24, "D": 48, "E": 80})
		return sheet.err
	}

	if err := records(SheetMissing, func(s *dataset.Summary) []annotation.Record { return s.Missing }); err != nil {
		return nil, err
	}
	if err := records(SheetDuplicates, func(s *dataset.Summary) []annotation.Record { return s.Duplicates }); err != nil {
		return nil, err
	}

	failed := newSheet(f, SheetFailed, "Collection", "Stage", "Image ID", "Image URL", "Error")
	for _, sum := range summaries {
		for _, fl := range sum.Failures {
			failed.row(sum.Collection, string(fl.Stage), fl.ImageID, fl.URL, errString(fl.Err))
		}
	}
	failed.widths(map[string]float64{"A": 28, "C": 24, "D": 48, "E": 60})

	if err := records(SheetSkipped, func(s *dataset.Summary) []annotation.Record { return s.Skipped }); err != nil {
		return nil, err
	}

	malformed := newSheet(f, SheetMalformed, "Collection", "Line", "Field", "Error", "Record")
	for _, sum := range summaries {
		for _, m := range sum.Malformed {
			malformed.row(sum.Collection, m.Line, m.Field, errString(m.Err), m.Raw)
		}
	}
	malformed.widths(map[string]float64{"A": 28, "C": 16, "D": 60, "E": 80})

	for _, sh := range []*sheet{s, failed, malformed} {
		if sh.err != nil {
			return nil, sh.err
		}
	}

	index, err := f.GetSheetIndex(SheetSummary)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	return f, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
