package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gardar/spanpage/pkg/annotation"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one download
type Result struct {
	Record     annotation.Record
	Path       string
	Downloaded bool  // false when the image was already on disk or the download failed
	Err        error // *NetworkError, *HTTPError or a local file error
}

// Path returns where the image of rec is stored in dir
func Path(dir string, rec annotation.Record) string {
	return filepath.Join(dir, rec.ImageName()+ImageExt)
}

// Fetch downloads the image of rec into dir unless it is already there.
// It returns the image path and whether a download happened.
func (f *Fetcher) Fetch(ctx context.Context, rec annotation.Record, dir string) (string, bool, error) {
	path := Path(dir, rec)

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return path, false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rec.Image, nil)
	if err != nil {
		return path, false, &NetworkError{URL: rec.Image, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return path, false, &NetworkError{URL: rec.Image, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return path, false, &HTTPError{URL: rec.Image, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := saveBody(path, resp.Body); err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			netErr.URL = rec.Image
		}
		return path, false, err
	}

	return path, true, nil
}

// FetchAll downloads the images of recs into dir. Failures are reported per
// record and never stop the batch. Results are in the order of recs.
func (f *Fetcher) FetchAll(ctx context.Context, recs []annotation.Record, dir string) []Result {
	results := make([]Result, len(recs))

	var g errgroup.Group
	g.SetLimit(f.workers)

	for i, rec := range recs {
		g.Go(func() error {
			path, downloaded, err := f.Fetch(ctx, rec, dir)
			results[i] = Result{Record: rec, Path: path, Downloaded: downloaded, Err: err}
			return nil
		})
	}
	g.Wait()

	return results
}

// saveBody streams body into a temporary file next to path and renames it into place
func saveBody(path string, body io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return &NetworkError{Err: fmt.Errorf("reading response body: %w", err)}
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
