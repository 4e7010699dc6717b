// Package preview renders a PAGE-XML document on top of its page image as a PDF.
//
// The page image fills a single PDF page sized to the document's imageWidth and
// imageHeight. Region outlines are drawn on their own optional content layer,
// so they can be toggled off in compatible PDF readers to view the bare scan.
//
// Outline colors distinguish the region kinds:
//
// - Text regions
// - Marginalia (text regions with structure type marginalia)
// - Captions (text regions with structure type caption)
// - Image regions
//
// Images are detected with image.DecodeConfig. JPEG, PNG and GIF are embedded
// as they are; WebP, BMP and TIFF are converted to PNG first.
package preview

import (
	"bytes"
	"fmt"

	"codeberg.org/go-pdf/fpdf"

	"github.com/gardar/spanpage/pkg/pagexml"
)

// Render builds a one page PDF showing image with the regions of doc outlined
func Render(doc *pagexml.PcGts, image []byte, config Config) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("PAGE-XML document is nil")
	}
	if len(image) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}

	w, h := float64(doc.Page.ImageWidth), float64(doc.Page.ImageHeight)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid page size %vx%v", w, h)
	}

	imageType, data, err := embeddableImage(image)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(doc.Page.ImageFilename, true)
	pdf.SetCreator(doc.Metadata.Creator, true)
	pdf.AddPageFormat("P", fpdf.SizeType{Wd: w, Ht: h})

	opts := fpdf.ImageOptions{ReadDpi: false, ImageType: imageType}
	pdf.RegisterImageOptionsReader("page", opts, bytes.NewReader(data))
	pdf.ImageOptions("page", 0, 0, w, h, false, opts, 0, "")

	// PAGE coordinates are image pixels; the page is sized so that one pixel is one point
	transform := func(x, y float64) (float64, float64) {
		return normalizeCoords(x, y, w, h, w, h)
	}

	if err := drawRegionLayer(pdf, doc.Page, config, transform); err != nil {
		return nil, fmt.Errorf("failed to draw region layer: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
