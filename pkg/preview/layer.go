package preview

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/spanpage/pkg/pagexml"
)

// drawRegionLayer outlines every region of page on a layer of its own
func drawRegionLayer(
	pdf *fpdf.Fpdf,
	page pagexml.Page,
	config Config,
	transform func(x, y float64) (float64, float64),
) error {
	layer := pdf.AddLayer(config.LayerName, true)
	pdf.BeginLayer(layer)
	pdf.SetLineWidth(config.LineWidth)
	pdf.SetFont(config.Font.Name, config.Font.Style, config.Font.Size)

	for i, region := range page.Regions {
		if err := drawRegion(pdf, region, config, transform); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
	}

	pdf.EndLayer()
	return pdf.Error()
}

// drawRegion draws the outline of a single region and, if enabled, its label
func drawRegion(pdf *fpdf.Fpdf, region pagexml.Region, config Config,
	transform func(x, y float64) (float64, float64)) error {

	vertices, err := region.Vertices()
	if err != nil {
		return err
	}
	if len(vertices) == 0 {
		return nil
	}

	color := regionColor(region, config.Colors)
	pdf.SetDrawColor(color.R, color.G, color.B)

	points := make([]fpdf.PointType, 0, len(vertices))
	for _, v := range vertices {
		x, y := transform(v[0], v[1])
		points = append(points, fpdf.PointType{X: x, Y: y})
	}

	if len(points) == 1 {
		pdf.Circle(points[0].X, points[0].Y, config.LineWidth, "D")
	} else {
		pdf.Polygon(points, "D")
	}

	if config.Labels {
		// Core fonts only cover Latin-1
		label, err := charmap.ISO8859_1.NewEncoder().String(regionLabel(region))
		if err != nil {
			label = string(region.Kind())
		}
		pdf.SetTextColor(color.R, color.G, color.B)
		fontSize, _ := pdf.GetFontSize()
		pdf.Text(points[0].X, points[0].Y-fontSize/4, label)
	}

	return nil
}

// regionLabel names a region the way it is shown in the preview, e.g. "TextRegion (caption)"
func regionLabel(region pagexml.Region) string {
	label := string(region.Kind())
	if structure := region.Structure(); structure != "" {
		label = fmt.Sprintf("%s (%s)", label, structure)
	}
	if region.ID != "" {
		label = fmt.Sprintf("%s %s", label, region.ID)
	}
	return label
}

// regionColor picks the outline color for a region
func regionColor(region pagexml.Region, palette Palette) Color {
	if region.Kind() == pagexml.ImageRegion {
		return palette.Image
	}
	switch region.Structure() {
	case "marginalia":
		return palette.Marginalia
	case "caption":
		return palette.Caption
	default:
		return palette.Text
	}
}
