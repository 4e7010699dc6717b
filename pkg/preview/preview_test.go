package preview_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/gardar/spanpage/pkg/pagexml"
	"github.com/gardar/spanpage/pkg/preview"

	"github.com/stretchr/testify/require"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func testDocument() *pagexml.PcGts {
	return &pagexml.PcGts{
		Metadata: pagexml.DefaultMetadata(),
		Page: pagexml.Page{
			ImageFilename: "p1",
			ImageWidth:    100,
			ImageHeight:   200,
			Regions: []pagexml.Region{
				pagexml.NewRegion(pagexml.TextRegion, pagexml.MainRegionID, "readingOrder {index:0;}", "0,0 10,0 10,10 0,10 "),
				pagexml.NewRegion(pagexml.TextRegion, pagexml.MainRegionID, "readingOrder {index:0;} structure {type:marginalia;}", "50,50 60,50 60,90 "),
				pagexml.NewRegion(pagexml.ImageRegion, "", "readingOrder {index:1;}", "20,20 "),
			},
		},
	}
}

func TestRender(t *testing.T) {
	out, err := preview.Render(testDocument(), pngBytes(t, 100, 200), preview.DefaultConfig())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	require.Contains(t, string(out), "/Type /OCG")
}

func TestRenderPageSize(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		mediaBox string
	}{
		{"portrait", 100, 200, "/MediaBox [0 0 100.00 200.00]"},
		{"landscape", 300, 100, "/MediaBox [0 0 300.00 100.00]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDocument()
			doc.Page.ImageWidth = tt.w
			doc.Page.ImageHeight = tt.h

			out, err := preview.Render(doc, pngBytes(t, tt.w, tt.h), preview.DefaultConfig())
			require.NoError(t, err)
			require.Contains(t, string(out), tt.mediaBox)
		})
	}
}

func TestRenderConvertsBMP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, testImage(100, 200)))

	cfg := preview.DefaultConfig()
	cfg.Labels = false
	out, err := preview.Render(testDocument(), buf.Bytes(), cfg)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestRenderErrors(t *testing.T) {
	img := pngBytes(t, 10, 10)

	tests := []struct {
		name  string
		doc   *pagexml.PcGts
		image []byte
	}{
		{"nil document", nil, img},
		{"empty image", testDocument(), nil},
		{"not an image", testDocument(), []byte("plain text")},
		{"zero size", &pagexml.PcGts{}, img},
		{"bad points", &pagexml.PcGts{Page: pagexml.Page{
			ImageWidth:  10,
			ImageHeight: 10,
			Regions:     []pagexml.Region{pagexml.NewRegion(pagexml.TextRegion, "r", "", "1;2")},
		}}, img},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := preview.Render(tt.doc, tt.image, preview.DefaultConfig())
			require.Error(t, err)
		})
	}
}
