package annotation

import (
	"errors"
	"fmt"
)

// ErrMalformedRecord is matched by every MalformedRecordError
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError describes a line that could not be turned into a usable Record.
// It only ever aborts the one record it refers to.
type MalformedRecordError struct {
	Line  int    // 1-based line number, 0 when unknown
	Field string // Offending field, empty when the whole line is unusable
	Raw   string // Original line
	Err   error  // Underlying cause
}

func (e *MalformedRecordError) Error() string {
	msg := ErrMalformedRecord.Error()
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: field %q", msg, e.Field)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrMalformedRecord
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// Validate checks the fields needed to build a page document:
// image, width, height and spans.
func (r Record) Validate() error {
	malformed := func(field string, err error) error {
		return &MalformedRecordError{Line: r.Line, Field: field, Raw: r.Raw, Err: err}
	}

	if r.Image == "" {
		return malformed("image", errors.New("missing image URL"))
	}
	if r.URLImageName() == "" {
		return malformed("image", fmt.Errorf("no file name in image URL %q", r.Image))
	}
	if r.Width <= 0 {
		return malformed("width", fmt.Errorf("invalid width %d", r.Width))
	}
	if r.Height <= 0 {
		return malformed("height", fmt.Errorf("invalid height %d", r.Height))
	}
	if r.Spans == nil {
		return malformed("spans", errors.New("missing spans"))
	}
	return nil
}
