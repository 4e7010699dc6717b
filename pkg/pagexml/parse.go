package pagexml

import (
	"encoding/xml"
	"fmt"
	"os"
)

// ParsePageXML converts raw PAGE-XML data into a PcGts object
func ParsePageXML(data []byte) (*PcGts, error) {
	var doc PcGts
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse PAGE-XML: %w", err)
	}
	if doc.XMLName.Space != "" && doc.XMLName.Space != Namespace {
		return nil, fmt.Errorf("unsupported PAGE-XML namespace %q", doc.XMLName.Space)
	}
	return &doc, nil
}

// ReadPageXML parses the PAGE-XML file at path
func ReadPageXML(path string) (*PcGts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePageXML(data)
}

// Vertices returns the parsed polygon of a region
func (r Region) Vertices() ([][2]float64, error) {
	points, err := ParsePoints(r.Coords.Points)
	if err != nil {
		return nil, fmt.Errorf("region %q: %w", r.ID, err)
	}
	vertices := make([][2]float64, 0, len(points))
	for _, p := range points {
		x, y := p.Float()
		vertices = append(vertices, [2]float64{x, y})
	}
	return vertices, nil
}
