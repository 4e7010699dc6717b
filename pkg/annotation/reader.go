package annotation

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReaderOptions controls how a JSON Lines export is decoded
type ReaderOptions struct {
	// Encoding is a WHATWG encoding label such as "windows-1252" or "iso-8859-1".
	// Empty or "utf-8" reads UTF-8, with or without a byte order mark.
	Encoding string
}

// Batch is the outcome of reading one export. The slices are disjoint and keep input order.
type Batch struct {
	Valid      []Record                // Records ready for downloading and XML generation
	Duplicates []Record                // Later occurrences of an image name already seen
	Missing    []Record                // Records without any span annotation
	Malformed  []*MalformedRecordError // Lines that could not be used at all
}

// Index maps each valid record's image name to the record
func (b *Batch) Index() map[string]Record {
	index := make(map[string]Record, len(b.Valid))
	for _, rec := range b.Valid {
		index[rec.ImageName()] = rec
	}
	return index
}

// Total is the number of non-blank lines that were read
func (b *Batch) Total() int {
	return len(b.Valid) + len(b.Duplicates) + len(b.Missing) + len(b.Malformed)
}

// Reader reads records from a JSON Lines stream
type Reader struct {
	r    *bufio.Reader
	line int
}

// NewReader wraps r, decoding it from the configured encoding to UTF-8
func NewReader(r io.Reader, opts ReaderOptions) (*Reader, error) {
	label := strings.ToLower(strings.TrimSpace(opts.Encoding))

	var decoded io.Reader
	if label == "" || label == "utf-8" || label == "utf8" {
		// Strip a leading BOM if present and sanitise invalid UTF-8
		decoded = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	} else {
		cr, err := charset.NewReaderLabel(label, r)
		if err != nil {
			return nil, fmt.Errorf("unsupported input encoding %q: %w", opts.Encoding, err)
		}
		decoded = cr
	}

	return &Reader{r: bufio.NewReader(decoded)}, nil
}

// ReadFile reads and partitions a whole export file
func ReadFile(path string, opts ReaderOptions) (*Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotations: %w", err)
	}
	defer f.Close()

	r, err := NewReader(f, opts)
	if err != nil {
		return nil, err
	}
	return r.ReadAll()
}

// ReadAll consumes the stream and partitions every line.
// Only read errors are returned; bad lines end up in Batch.Malformed.
func (r *Reader) ReadAll() (*Batch, error) {
	batch := &Batch{}
	seen := make(map[string]bool)

	for {
		data, err := r.r.ReadBytes('\n')
		if len(data) > 0 {
			r.line++
			r.classify(batch, seen, data)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return batch, fmt.Errorf("failed to read line %d: %w", r.line+1, err)
		}
	}

	return batch, nil
}

// classify sorts one line into the batch
func (r *Reader) classify(batch *Batch, seen map[string]bool, data []byte) {
	raw := rawLine(data)
	if strings.TrimSpace(raw) == "" {
		return
	}

	malformed := func(field string, err error) {
		batch.Malformed = append(batch.Malformed, &MalformedRecordError{
			Line:  r.line,
			Field: field,
			Raw:   raw,
			Err:   err,
		})
	}

	// Generic decode first so missing keys can be told apart from bad values
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		malformed("", fmt.Errorf("invalid JSON: %w", err))
		return
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		malformed("", errors.New("line is not a JSON object"))
		return
	}

	if !hasSpans(obj) {
		rec := Record{Line: r.line, Raw: raw}
		// Best effort, the record is only logged
		_ = json.Unmarshal(data, &rec)
		rec.Spans = nil
		batch.Missing = append(batch.Missing, rec)
		return
	}

	if field, err := validateRecord(doc); err != nil {
		malformed(field, err)
		return
	}

	rec := Record{Line: r.line, Raw: raw}
	if err := json.Unmarshal(data, &rec); err != nil {
		malformed("", err)
		return
	}

	name := rec.ImageName()
	if seen[name] {
		batch.Duplicates = append(batch.Duplicates, rec)
		return
	}
	seen[name] = true
	batch.Valid = append(batch.Valid, rec)
}

// hasSpans reports whether the object carries at least one span.
// A spans value that is not an array counts as present and is left to schema validation.
func hasSpans(obj map[string]any) bool {
	v, ok := obj["spans"]
	if !ok || v == nil {
		return false
	}
	if spans, isArray := v.([]any); isArray {
		return len(spans) > 0
	}
	return true
}
