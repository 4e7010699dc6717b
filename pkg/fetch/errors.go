package fetch

import (
	"errors"
	"fmt"
)

// ErrDownload matches every download failure
var ErrDownload = errors.New("download failed")

// NetworkError is a transport failure: DNS, connection, timeout
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDownload) true
func (e *NetworkError) Is(target error) bool { return target == ErrDownload }

// HTTPError is a response with a status other than 200
type HTTPError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("failed to download %s: %s", e.URL, e.Status)
}

// Is makes errors.Is(err, ErrDownload) true
func (e *HTTPError) Is(target error) bool { return target == ErrDownload }
