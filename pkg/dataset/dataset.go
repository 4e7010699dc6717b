// Package dataset runs the download and PAGE-XML jobs over a dataset directory.
//
// A dataset is a directory of JSON Lines annotation exports. Each export is a
// collection: its images are downloaded into a directory named after it, and
// its PAGE-XML documents are written into that directory's page/ subdirectory.
// Every run leaves a plain text log next to the export (see package runlog).
//
// Two jobs exist, matching the two command line tools:
//
// - FetchCollection downloads the images of valid records and, unless
//   disabled, builds a PAGE-XML document for every one of them.
// - GenerateCollection builds PAGE-XML documents only for records whose image
//   is already on disk, optionally with a region preview PDF per page.
//
// Neither job stops on a bad record. Only an unreadable export or an output
// directory that cannot be created ends a job with an error.
package dataset

import (
	"github.com/gardar/spanpage/pkg/annotation"
)

// Stage names the step a record failed in
type Stage string

const (
	StageDownload Stage = "download"
	StageXML      Stage = "xml"
	StagePreview  Stage = "preview"
)

// Failure is a record that could not be processed in some stage
type Failure struct {
	Stage   Stage
	ImageID string
	URL     string
	Err     error
}

// Summary is the outcome of running one job over one collection
type Summary struct {
	Collection string
	JSONL      string

	Total      int // non-blank lines read
	Valid      int
	Downloaded int // images fetched during this run
	Present    int // images already on disk
	Written    int // PAGE-XML documents written during this run
	Previews   int // preview PDFs written during this run

	Missing    []annotation.Record
	Duplicates []annotation.Record
	Skipped    []annotation.Record // valid records without a local image
	Malformed  []*annotation.MalformedRecordError
	Failures   []Failure
}

// FailedDownloads returns the image ids whose download failed
func (s *Summary) FailedDownloads() []string {
	var ids []string
	for _, f := range s.Failures {
		if f.Stage == StageDownload {
			ids = append(ids, f.ImageID)
		}
	}
	return ids
}

func newSummary(col Collection, batch *annotation.Batch) *Summary {
	return &Summary{
		Collection: col.Name,
		JSONL:      col.JSONL,
		Total:      batch.Total(),
		Valid:      len(batch.Valid),
		Missing:    batch.Missing,
		Duplicates: batch.Duplicates,
		Malformed:  batch.Malformed,
	}
}
