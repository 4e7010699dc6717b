// Package fetch downloads the page images referenced by annotation records.
//
// Every image is stored as <dir>/<image name>.jpg, where the image name is the
// record id up to its first dot. Images already present on disk are never
// downloaded again, and a failed download never leaves a partial file behind.
//
// Example:
//
//	f := fetch.New(fetch.WithWorkers(4), fetch.WithTimeout(time.Minute))
//	for _, res := range f.FetchAll(ctx, batch.Valid, imageDir) {
//		if res.Err != nil {
//			log.Printf("%s: %v", res.Record.ID, res.Err)
//		}
//	}
package fetch

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	// DefaultTimeout bounds a single image download
	DefaultTimeout = 60 * time.Second
	// DefaultUserAgent is sent with every request
	DefaultUserAgent = "spanpage/1.0"
	// ImageExt is the extension of stored images
	ImageExt = ".jpg"
)

// Fetcher downloads images over HTTP
type Fetcher struct {
	client    *http.Client
	userAgent string
	workers   int
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTimeout sets the per request timeout; zero disables it
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithWorkers sets how many downloads FetchAll runs at once
func WithWorkers(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithHTTPClient replaces the underlying client
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// New creates a Fetcher. By default downloads run one at a time.
func New(opts ...Option) *Fetcher {
	// cookiejar.New never returns an error
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	f := &Fetcher{
		client: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		userAgent: DefaultUserAgent,
		workers:   1,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Workers returns the download concurrency
func (f *Fetcher) Workers() int { return f.workers }
