package dataset_test

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gardar/spanpage/pkg/dataset"
	"github.com/gardar/spanpage/pkg/pagexml"
	"github.com/gardar/spanpage/pkg/runlog"

	"github.com/stretchr/testify/require"
)

const textArea = `[{"label":"Text-Area","points":[[0,0],[10,0],[10,10],[0,10]]}]`

func line(id, url, spans string) string {
	return fmt.Sprintf(`{"id":%q,"image":%q,"width":100,"height":200,"spans":%s}`, id, url, spans)
}

// writeDataset creates <root>/batch.jsonl from lines
func writeDataset(t *testing.T, lines ...string) (dataset.Config, string) {
	t.Helper()
	root := t.TempDir()
	jsonl := filepath.Join(root, "batch.jsonl")
	require.NoError(t, os.WriteFile(jsonl, []byte(strings.Join(lines, "\n")+"\n"), 0644))

	cfg := dataset.DefaultConfig()
	cfg.Dataset = root
	return cfg, jsonl
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateCollection(t *testing.T) {
	p1 := line("p1.jpg", "http://x/p1.jpg?sz=1", textArea)
	p2 := line("p2.jpg", "http://x/p2.jpg", textArea)
	missing := `{"id":"p3.jpg","image":"http://x/p3.jpg","width":100,"height":200}`
	dup := line("p1.png", "http://x/other.jpg", textArea)
	bad := `{"id":"p4.jpg","image":"http://x/p4.jpg","width":"wide","height":200,"spans":` + textArea + `}`

	cfg, jsonl := writeDataset(t, p1, p2, missing, dup, bad)
	col := dataset.Layout{Root: cfg.Dataset}.Collection(jsonl)
	require.NoError(t, os.MkdirAll(col.ImageDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(col.ImageDir, "p1.jpg"), []byte("jpeg"), 0644))

	summary, err := dataset.GenerateCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)

	require.Equal(t, "batch", summary.Collection)
	require.Equal(t, 5, summary.Total)
	require.Equal(t, 2, summary.Valid)
	require.Equal(t, 1, summary.Written)
	require.Len(t, summary.Skipped, 1)
	require.Len(t, summary.Missing, 1)
	require.Len(t, summary.Duplicates, 1)
	require.Len(t, summary.Malformed, 1)
	require.Empty(t, summary.Failures)

	doc, err := pagexml.ReadPageXML(filepath.Join(col.PageDir, "p1.xml"))
	require.NoError(t, err)
	require.Equal(t, "p1", doc.Page.ImageFilename)
	require.Len(t, doc.Page.Regions, 1)
	require.Equal(t, "0,0 10,0 10,10 0,10 ", doc.Page.Regions[0].Coords.Points)

	require.NoFileExists(t, filepath.Join(col.PageDir, "p2.xml"))
	require.NoFileExists(t, filepath.Join(col.PageDir, "other.xml"), "duplicates get no document of their own")

	log := readFile(t, col.XMLLogPath)
	require.True(t, strings.HasPrefix(log, runlog.SkippedHeader+"\n"+p2+"\n"))
	require.Contains(t, log, "#### Missing Annotations ####\n"+missing+"\n")
	require.Contains(t, log, "line 5: malformed record: field \"width\"")
}

func TestGenerateCollectionIsIdempotent(t *testing.T) {
	cfg, jsonl := writeDataset(t, line("p1.jpg", "http://x/p1.jpg", textArea))
	col := dataset.Layout{Root: cfg.Dataset}.Collection(jsonl)
	require.NoError(t, os.MkdirAll(col.ImageDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(col.ImageDir, "p1.jpg"), []byte("jpeg"), 0644))

	first, err := dataset.GenerateCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 1, first.Written)
	before := readFile(t, filepath.Join(col.PageDir, "p1.xml"))

	second, err := dataset.GenerateCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 0, second.Written)
	require.Equal(t, before, readFile(t, filepath.Join(col.PageDir, "p1.xml")))
}

func TestGenerateCollectionPreview(t *testing.T) {
	cfg, jsonl := writeDataset(t, line("p1.jpg", "http://x/p1.jpg", textArea))
	cfg.Preview.Enabled = true
	col := dataset.Layout{Root: cfg.Dataset}.Collection(jsonl)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 100, 200))))
	require.NoError(t, os.MkdirAll(col.ImageDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(col.ImageDir, "p1.jpg"), img.Bytes(), 0644))

	summary, err := dataset.GenerateCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Previews)
	require.Empty(t, summary.Failures)

	pdf := readFile(t, filepath.Join(col.PreviewDir, "p1.pdf"))
	require.True(t, strings.HasPrefix(pdf, "%PDF-"))
}

func TestGenerateCollectionMissingExport(t *testing.T) {
	cfg := dataset.DefaultConfig()
	cfg.Dataset = t.TempDir()

	_, err := dataset.GenerateCollection(context.Background(), cfg, filepath.Join(cfg.Dataset, "nope.jsonl"))
	require.Error(t, err)
}

func TestFetchCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone.jpg" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	p1 := line("p1.jpg", srv.URL+"/p1.jpg?sz=1", textArea)
	gone := line("p2.jpg", srv.URL+"/gone.jpg", textArea)
	missing := `{"id":"p3.jpg","image":"http://x/p3.jpg","width":100,"height":200,"spans":[]}`
	dup := line("p1.jpg", srv.URL+"/again.jpg", textArea)

	cfg, jsonl := writeDataset(t, p1, gone, missing, dup, "{not json")
	cfg.Fetch.Workers = 2
	col := dataset.Layout{Root: cfg.Dataset}.Collection(jsonl)

	summary, err := dataset.FetchCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Downloaded)
	require.Equal(t, []string{"p2.jpg"}, summary.FailedDownloads())
	require.Equal(t, 2, summary.Written, "PAGE-XML is built for every valid record")

	require.FileExists(t, filepath.Join(col.ImageDir, "p1.jpg"))
	require.NoFileExists(t, filepath.Join(col.ImageDir, "p2.jpg"))
	require.FileExists(t, filepath.Join(col.PageDir, "p1.xml"))
	require.FileExists(t, filepath.Join(col.PageDir, "gone.xml"))

	require.Equal(t, "---- batch ---- \n"+
		"#### Missing Annotations ####\n"+missing+"\n"+
		"#### Failed Downloads ####\np2.jpg\n"+
		"#### Duplicate Entry ####\n"+dup+"\n"+
		"#### Malformed Records ####\n", firstLines(readFile(t, col.DownloadLogPath), 8))
	require.Contains(t, readFile(t, col.DownloadLogPath), "line 5: malformed record: invalid JSON")

	again, err := dataset.FetchCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 0, again.Downloaded)
	require.Equal(t, 1, again.Present)
	require.Equal(t, 0, again.Written)
}

func TestFetchCollectionWithoutXML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg"))
	}))
	defer srv.Close()

	cfg, jsonl := writeDataset(t, line("p1.jpg", srv.URL+"/p1.jpg", textArea))
	cfg.Fetch.GenerateXML = false

	summary, err := dataset.FetchCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Downloaded)
	require.NoDirExists(t, dataset.Layout{Root: cfg.Dataset}.Collection(jsonl).PageDir)
}

func firstLines(s string, n int) string {
	lines := strings.SplitAfter(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "")
}

func TestGenerateCollectionPreviewNamedAfterDocument(t *testing.T) {
	cfg, jsonl := writeDataset(t, line("p1.png", "http://x/scans/other.jpg?sz=2", textArea))
	cfg.Preview.Enabled = true
	col := dataset.Layout{Root: cfg.Dataset}.Collection(jsonl)

	var img bytes.Buffer
	require.NoError(t, png.Encode(&img, image.NewGray(image.Rect(0, 0, 100, 200))))
	require.NoError(t, os.MkdirAll(col.ImageDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(col.ImageDir, "p1.jpg"), img.Bytes(), 0644))

	summary, err := dataset.GenerateCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 1, summary.Previews)

	require.FileExists(t, filepath.Join(col.PageDir, "other.xml"))
	require.FileExists(t, filepath.Join(col.PreviewDir, "other.pdf"))
	require.NoFileExists(t, filepath.Join(col.PreviewDir, "p1.pdf"))

	again, err := dataset.GenerateCollection(context.Background(), cfg, jsonl)
	require.NoError(t, err)
	require.Equal(t, 0, again.Previews, "existing preview is kept")
}
