package dataset

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gardar/spanpage/pkg/annotation"
	"github.com/gardar/spanpage/pkg/fetch"
	"github.com/gardar/spanpage/pkg/pagexml"
	"github.com/gardar/spanpage/pkg/preview"
)

const (
	// TimestampsFixed writes the fixed metadata timestamps of the existing datasets
	TimestampsFixed = "fixed"
	// TimestampsNow stamps documents with the time of the run
	TimestampsNow = "now"
)

// Config holds the settings of a dataset run
type Config struct {
	Dataset  string        `yaml:"dataset"`  // Directory holding the *.jsonl exports
	Encoding string        `yaml:"encoding"` // Encoding label of the exports
	Fetch    FetchConfig   `yaml:"fetch"`
	XML      XMLConfig     `yaml:"xml"`
	Preview  PreviewConfig `yaml:"preview"`

	Logger *slog.Logger `yaml:"-"` // nil logs to slog.Default()
}

// FetchConfig controls image downloads
type FetchConfig struct {
	Workers     int           `yaml:"workers"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
	GenerateXML bool          `yaml:"generate_xml"` // Build PAGE-XML for every valid record after downloading
}

// XMLConfig controls PAGE-XML generation
type XMLConfig struct {
	Creator     string `yaml:"creator"`
	Timestamps  string `yaml:"timestamps"` // fixed | now
	UniqueIDs   bool   `yaml:"unique_ids"`
	TrimPoints  bool   `yaml:"trim_points"`
	Incremental bool   `yaml:"incremental"`
}

// PreviewConfig controls region preview PDFs
type PreviewConfig struct {
	Enabled   bool    `yaml:"enabled"`
	LineWidth float64 `yaml:"line_width"`
	Labels    bool    `yaml:"labels"`
}

// DefaultConfig returns a config reproducing the existing datasets
func DefaultConfig() Config {
	defaults := preview.DefaultConfig()
	return Config{
		Fetch: FetchConfig{
			Workers:     1,
			Timeout:     fetch.DefaultTimeout,
			UserAgent:   fetch.DefaultUserAgent,
			GenerateXML: true,
		},
		XML: XMLConfig{
			Creator:    pagexml.DefaultMetadata().Creator,
			Timestamps: TimestampsFixed,
		},
		Preview: PreviewConfig{
			LineWidth: defaults.LineWidth,
			Labels:    defaults.Labels,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings that cannot be used
func (c Config) Validate() error {
	if c.Fetch.Workers < 1 {
		return fmt.Errorf("fetch.workers must be at least 1, got %d", c.Fetch.Workers)
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative, got %s", c.Fetch.Timeout)
	}
	switch c.XML.Timestamps {
	case "", TimestampsFixed, TimestampsNow:
	default:
		return fmt.Errorf("xml.timestamps must be %q or %q, got %q", TimestampsFixed, TimestampsNow, c.XML.Timestamps)
	}
	if c.Preview.LineWidth < 0 {
		return fmt.Errorf("preview.line_width must not be negative, got %v", c.Preview.LineWidth)
	}
	return nil
}

// ReaderOptions returns the options for reading exports
func (c Config) ReaderOptions() annotation.ReaderOptions {
	return annotation.ReaderOptions{Encoding: c.Encoding}
}

// XMLOptions returns the PAGE-XML options for a run started at now
func (c Config) XMLOptions(now time.Time) pagexml.Options {
	opts := pagexml.DefaultOptions()
	if c.XML.Creator != "" {
		opts.Metadata.Creator = c.XML.Creator
	}
	if c.XML.Timestamps == TimestampsNow {
		opts.Metadata = pagexml.MetadataAt(opts.Metadata.Creator, now)
	}
	opts.UniqueIDs = c.XML.UniqueIDs
	opts.TrimPoints = c.XML.TrimPoints
	if c.XML.Incremental {
		opts.Mode = pagexml.WriteIncremental
	}
	return opts
}

// FetchOptions returns the options for the image fetcher
func (c Config) FetchOptions() []fetch.Option {
	return []fetch.Option{
		fetch.WithWorkers(c.Fetch.Workers),
		fetch.WithTimeout(c.Fetch.Timeout),
		fetch.WithUserAgent(c.Fetch.UserAgent),
	}
}

// PreviewOptions returns the options for rendering previews
func (c Config) PreviewOptions() preview.Config {
	cfg := preview.DefaultConfig()
	if c.Preview.LineWidth > 0 {
		cfg.LineWidth = c.Preview.LineWidth
	}
	cfg.Labels = c.Preview.Labels
	return cfg
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
