package pagexml

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gardar/spanpage/pkg/annotation"
)

// FormatPoints renders a contour as space separated "x,y" pairs.
// Every vertex is followed by a space, so the result carries a trailing
// space unless trim is set.
func FormatPoints(points []annotation.Point, trim bool) string {
	var builder strings.Builder
	for _, p := range points {
		builder.WriteString(p.String())
		builder.WriteString(" ")
	}
	if trim {
		return strings.TrimSuffix(builder.String(), " ")
	}
	return builder.String()
}

// ParsePoints reads a Coords points attribute back into vertices
func ParsePoints(s string) ([]annotation.Point, error) {
	var points []annotation.Point
	for _, pair := range strings.Fields(s) {
		x, y, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("invalid point %q", pair)
		}
		p := annotation.Point{X: json.Number(x), Y: json.Number(y)}
		if _, err := p.X.Float64(); err != nil {
			return nil, fmt.Errorf("invalid x in point %q: %w", pair, err)
		}
		if _, err := p.Y.Float64(); err != nil {
			return nil, fmt.Errorf("invalid y in point %q: %w", pair, err)
		}
		points = append(points, p)
	}
	return points, nil
}

// ParseCustom breaks down a PAGE custom attribute into its components
// Example input: "readingOrder {index:0;} structure {type:caption;}"
func ParseCustom(custom string) map[string]map[string]string {
	result := make(map[string]map[string]string)

	rest := custom
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			break
		}
		end := strings.Index(rest[open:], "}")
		if end < 0 {
			break
		}
		end += open

		key := strings.TrimSpace(rest[:open])
		props := make(map[string]string)
		for _, prop := range strings.Split(rest[open+1:end], ";") {
			k, v, ok := strings.Cut(prop, ":")
			if !ok {
				continue
			}
			props[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
		if key != "" {
			result[key] = props
		}

		rest = rest[end+1:]
	}

	return result
}

var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

var textReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// escapeAttr escapes a value for use inside a double quoted attribute
func escapeAttr(s string) string { return attrReplacer.Replace(s) }

// escapeText escapes character data
func escapeText(s string) string { return textReplacer.Replace(s) }
