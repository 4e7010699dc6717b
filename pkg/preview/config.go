package preview

// Config holds options for rendering a region preview
type Config struct {
	LayerName string  // Name of the layer holding the region outlines
	LineWidth float64 // Outline width in points
	Labels    bool    // Print the region type next to each outline
	Font      FontConfig
	Colors    Palette
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		LayerName: "Regions",
		LineWidth: 2,
		Labels:    true,
		Font:      DefaultFont,
		Colors:    DefaultPalette,
	}
}

// FontConfig contains font settings for region labels
type FontConfig struct {
	Name  string  // Font name (e.g., "Helvetica")
	Style string  // Font style ("", "B", "I", "BI")
	Size  float64 // Font size in points
}

// DefaultFont uses one of the PDF core fonts so no font files are needed
var DefaultFont = FontConfig{
	Name:  "Helvetica",
	Style: "B",
	Size:  12,
}

// Color is an RGB outline color
type Color struct {
	R, G, B int
}

// Palette assigns an outline color to each kind of region
type Palette struct {
	Text       Color
	Marginalia Color
	Caption    Color
	Image      Color
}

// DefaultPalette draws text blue, marginalia green, captions orange and images red
var DefaultPalette = Palette{
	Text:       Color{R: 0, G: 90, B: 220},
	Marginalia: Color{R: 0, G: 160, B: 60},
	Caption:    Color{R: 235, G: 140, B: 0},
	Image:      Color{R: 220, G: 0, B: 0},
}
