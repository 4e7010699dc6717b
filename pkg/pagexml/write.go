package pagexml

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gardar/spanpage/pkg/annotation"
)

// Writer puts one PAGE-XML document per record into Dir
type Writer struct {
	Dir     string
	Options Options
}

// NewWriter creates a writer for dir
func NewWriter(dir string, opts Options) *Writer {
	return &Writer{Dir: dir, Options: opts}
}

// Path returns the output path for a record: <dir>/<image name from URL>.xml
func (w *Writer) Path(rec annotation.Record) string {
	return filepath.Join(w.Dir, rec.URLImageName()+".xml")
}

// WriteRecord builds the document for rec and writes it, unless a file is
// already present at the output path. It returns the path and whether a file
// was written. Records without spans produce no file.
func (w *Writer) WriteRecord(rec annotation.Record) (string, bool, error) {
	b, err := newBuilder(rec, w.Options)
	if err != nil {
		return "", false, err
	}

	path := w.Path(rec)
	exists, err := fileExists(path)
	if err != nil {
		return path, false, err
	}
	if exists {
		return path, false, nil
	}

	written := false
	for _, span := range rec.Spans {
		b.add(span)
		if w.Options.Mode == WriteIncremental {
			if err := writeDocument(path, b.doc); err != nil {
				return path, written, err
			}
			written = true
		}
	}

	if w.Options.Mode != WriteIncremental && len(rec.Spans) > 0 {
		if err := writeDocument(path, b.doc); err != nil {
			return path, false, err
		}
		written = true
	}

	return path, written, nil
}

// writeDocument renders doc and replaces the file at path with it
func writeDocument(path string, doc *PcGts) error {
	data, err := GeneratePageXML(doc)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never see a partially written document.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

// fileExists reports whether path exists
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
