package dataset_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gardar/spanpage/pkg/dataset"
	"github.com/gardar/spanpage/pkg/pagexml"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
dataset: 2023-04-21-07-04-09
encoding: windows-1252
fetch:
  workers: 4
  timeout: 90s
xml:
  timestamps: now
  unique_ids: true
  incremental: true
preview:
  enabled: true
  line_width: 3.5
`)

	cfg, err := dataset.LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "2023-04-21-07-04-09", cfg.Dataset)
	require.Equal(t, "windows-1252", cfg.ReaderOptions().Encoding)
	require.Equal(t, 4, cfg.Fetch.Workers)
	require.Equal(t, 90*time.Second, cfg.Fetch.Timeout)
	require.Equal(t, "spanpage/1.0", cfg.Fetch.UserAgent, "unset keys keep their defaults")
	require.True(t, cfg.Fetch.GenerateXML)
	require.True(t, cfg.Preview.Enabled)
	require.Equal(t, 3.5, cfg.PreviewOptions().LineWidth)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	opts := cfg.XMLOptions(now)
	require.Equal(t, pagexml.MetadataAt("Transkribus", now), opts.Metadata)
	require.True(t, opts.UniqueIDs)
	require.False(t, opts.TrimPoints)
	require.Equal(t, pagexml.WriteIncremental, opts.Mode)
}

func TestDefaultConfigMatchesExistingDatasets(t *testing.T) {
	cfg := dataset.DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, pagexml.DefaultOptions(), cfg.XMLOptions(time.Now()))
	require.Equal(t, 1, cfg.Fetch.Workers)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "fetch: [workers"},
		{"zero workers", "fetch:\n  workers: 0\n"},
		{"bad duration", "fetch:\n  timeout: soon\n"},
		{"bad timestamps", "xml:\n  timestamps: yesterday\n"},
		{"negative line width", "preview:\n  line_width: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dataset.LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
		})
	}

	_, err := dataset.LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLayout(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.jsonl", "a.v2.jsonl", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0644))
	}

	layout := dataset.Layout{Root: root}
	files, err := layout.JSONLFiles()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "a.v2.jsonl"), filepath.Join(root, "b.jsonl")}, files)

	col := layout.Collection(files[0])
	require.Equal(t, "a", col.Name)
	require.Equal(t, filepath.Join(root, "a"), col.ImageDir)
	require.Equal(t, filepath.Join(root, "a", "page"), col.PageDir)
	require.Equal(t, filepath.Join(root, "a", "preview"), col.PreviewDir)
	require.Equal(t, filepath.Join(root, "log_a.txt"), col.DownloadLogPath)
	require.Equal(t, filepath.Join(root, "a_xml_log.txt"), col.XMLLogPath)
}
