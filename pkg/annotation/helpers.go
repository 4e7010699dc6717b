package annotation

import (
	"net/url"
	"path"
	"strings"
)

// ImageNameFromURL derives a base name from an image URL.
// Query string and fragment are ignored, the last path segment is taken and
// everything from its first dot on is dropped:
//
//	http://host/scans/p1.jpg?sz=1 -> p1
func ImageNameFromURL(raw string) string {
	base := ""
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		base = path.Base(u.EscapedPath())
	} else {
		// Not a parseable URL, fall back to plain string handling
		s, _, _ := strings.Cut(raw, "?")
		s, _, _ = strings.Cut(s, "#")
		base = path.Base(s)
	}
	if base == "/" || base == "." {
		return ""
	}
	return ImageNameFromID(base)
}

// rawLine trims the line terminator from an input line for logging
func rawLine(b []byte) string {
	return strings.TrimRight(string(b), "\r\n")
}
