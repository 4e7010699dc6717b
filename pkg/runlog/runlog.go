// Package runlog writes the plain text logs kept next to each dataset export.
//
// A download run produces log_<name>.txt:
//
//	---- <name> ----
//	#### Missing Annotations ####
//	<raw line>
//	#### Failed Downloads ####
//	<image id>
//	#### Duplicate Entry ####
//	<raw line>
//	#### Malformed Records ####
//	line <n>: <error>
//
// A PAGE-XML run produces <name>_xml_log.txt listing the records that were
// skipped because no local image exists, followed by the missing and
// malformed sections.
//
// Both files are overwritten on every run.
package runlog

import (
	"bufio"
	"fmt"
	"os"

	"github.com/gardar/spanpage/pkg/annotation"
)

const (
	headerMissing    = "#### Missing Annotations ####"
	headerFailed     = "#### Failed Downloads ####"
	headerDuplicates = "#### Duplicate Entry ####"
	headerMalformed  = "#### Malformed Records ####"

	// SkippedHeader opens the PAGE-XML log
	SkippedHeader = "The following entries were skipped during PageXML generation:"
)

// DownloadLog is everything a download run reports for one export
type DownloadLog struct {
	Missing    []annotation.Record
	Failed     []string // image ids
	Duplicates []annotation.Record
	Malformed  []*annotation.MalformedRecordError
}

// XMLLog is everything a PAGE-XML run reports for one export
type XMLLog struct {
	Skipped   []annotation.Record // no local image
	Missing   []annotation.Record
	Malformed []*annotation.MalformedRecordError
}

// WriteDownloadLog writes the download log for the export called name
func WriteDownloadLog(path, name string, l DownloadLog) error {
	return writeFile(path, func(w *bufio.Writer) {
		fmt.Fprintf(w, "---- %s ---- \n", name)
		section(w, headerMissing, rawLines(l.Missing))
		section(w, headerFailed, l.Failed)
		section(w, headerDuplicates, rawLines(l.Duplicates))
		section(w, headerMalformed, errorLines(l.Malformed))
	})
}

// WriteXMLLog writes the PAGE-XML generation log
func WriteXMLLog(path string, l XMLLog) error {
	return writeFile(path, func(w *bufio.Writer) {
		section(w, SkippedHeader, rawLines(l.Skipped))
		section(w, headerMissing, rawLines(l.Missing))
		section(w, headerMalformed, errorLines(l.Malformed))
	})
}

func section(w *bufio.Writer, header string, lines []string) {
	w.WriteString(header)
	w.WriteByte('\n')
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
}

func rawLines(recs []annotation.Record) []string {
	lines := make([]string, 0, len(recs))
	for _, rec := range recs {
		lines = append(lines, rec.Raw)
	}
	return lines
}

func errorLines(errs []*annotation.MalformedRecordError) []string {
	lines := make([]string, 0, len(errs))
	for _, err := range errs {
		lines = append(lines, err.Error())
	}
	return lines
}

// writeFile creates path and hands a buffered writer to fill
func writeFile(path string, fill func(w *bufio.Writer)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create log %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fill(w)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write log %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log %s: %w", path, err)
	}
	return nil
}
