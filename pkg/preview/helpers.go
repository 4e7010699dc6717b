package preview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// normalizeCoords rescales PAGE image coords to the PDF coords.
func normalizeCoords(x, y, imageW, imageH, pdfW, pdfH float64) (float64, float64) {
	nx := (x / imageW) * pdfW
	ny := (y / imageH) * pdfH
	return nx, ny
}

// detectImageType tries to figure out whether the data is PNG, JPEG, etc.
func detectImageType(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image config: %w", err)
	}
	return strings.ToUpper(format), nil
}

// embeddableImage returns data in a format fpdf can embed, converting to PNG if needed
func embeddableImage(data []byte) (string, []byte, error) {
	imageType, err := detectImageType(data)
	if err != nil {
		return "", nil, err
	}

	switch imageType {
	case "JPEG", "JPG", "PNG", "GIF":
		return imageType, data, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode %s image: %w", imageType, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", nil, fmt.Errorf("failed to convert %s image to PNG: %w", imageType, err)
	}
	return "PNG", buf.Bytes(), nil
}
