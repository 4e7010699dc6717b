package annotation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Label is the region class assigned by the annotator
type Label string

const (
	LabelTextArea     Label = "Text-Area"
	LabelMargin       Label = "Margin"
	LabelCaption      Label = "Caption"
	LabelIllustration Label = "Illustration"
)

// Known reports whether the label maps to a PAGE-XML region
func (l Label) Known() bool {
	switch l {
	case LabelTextArea, LabelMargin, LabelCaption, LabelIllustration:
		return true
	}
	return false
}

// Record is one parsed line of a JSON Lines export
type Record struct {
	ID     string `json:"id"`     // Source file name of the image, e.g. "p1.jpg"
	Image  string `json:"image"`  // URL the image can be fetched from
	Width  int    `json:"width"`  // Image width in pixels
	Height int    `json:"height"` // Image height in pixels
	Spans  []Span `json:"spans"`  // Region annotations in annotation order

	Line int    `json:"-"` // 1-based line number in the export
	Raw  string `json:"-"` // Original line, kept for logs
}

// ImageName is the base name used for local image files and deduplication
func (r Record) ImageName() string {
	return ImageNameFromID(r.ID)
}

// URLImageName is the base name used for the PAGE-XML output of this record
func (r Record) URLImageName() string {
	return ImageNameFromURL(r.Image)
}

// Span is a single labelled polygon
type Span struct {
	Label  Label   `json:"label"`
	Points []Point `json:"points"`
}

// Point is one polygon vertex. The JSON number literals are kept as written
// so coordinates are never rounded on their way to the output.
type Point struct {
	X json.Number
	Y json.Number
}

// NewPoint creates a point from integer coordinates
func NewPoint(x, y int) Point {
	return Point{
		X: json.Number(fmt.Sprint(x)),
		Y: json.Number(fmt.Sprint(y)),
	}
}

// UnmarshalJSON reads a point from a [x, y] array. Extra elements are ignored.
func (p *Point) UnmarshalJSON(data []byte) error {
	var pair []json.Number
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("point must be an array of numbers: %w", err)
	}
	if len(pair) < 2 {
		return fmt.Errorf("point needs two coordinates, got %d", len(pair))
	}
	p.X, p.Y = pair[0], pair[1]
	return nil
}

// MarshalJSON writes the point back as a [x, y] array
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([]json.Number{p.X, p.Y})
}

// String renders the vertex as "x,y"
func (p Point) String() string {
	return p.X.String() + "," + p.Y.String()
}

// Float returns the coordinates as floats for drawing
func (p Point) Float() (float64, float64) {
	x, _ := p.X.Float64()
	y, _ := p.Y.Float64()
	return x, y
}

// ImageNameFromID strips the extension from a record id.
// Everything from the first dot on is dropped, matching existing dataset names.
func ImageNameFromID(id string) string {
	name, _, _ := strings.Cut(id, ".")
	return name
}
