package settings

import (
	"fmt"
	"image/color"

	"partify/internal/geometry"
	"partify/internal/palette"
)

// Input ranges exposed by the settings form.
const (
	MinVerticalCenter = -0.65
	MaxVerticalCenter = 2.0
	MinMagnitude      = 0.0
	MaxMagnitude      = 1.5
	MinContrast       = -1.0
	MaxContrast       = 1.0
	MinBrightness     = 0.0
	MaxBrightness     = 2.0
)

// Settings controls how frames are synthesised. It is passed by value;
// any change to any field invalidates the frame cache.
type Settings struct {
	WaveStyle      geometry.Style    `json:"wave_style"`
	BlendMode      palette.BlendMode `json:"blend_mode"`
	ColourScheme   palette.Scheme    `json:"colour_scheme"`
	VerticalCenter float64           `json:"vertical_center"`
	Magnitude      float64           `json:"magnitude"`
	Contrast       float64           `json:"contrast"`
	Brightness     float64           `json:"brightness"`
}

// Default returns the settings the form starts with.
func Default() Settings {
	return Settings{
		WaveStyle:      geometry.Classic,
		BlendMode:      palette.Overlay,
		ColourScheme:   palette.ClassicScheme,
		VerticalCenter: 1,
		Magnitude:      1,
		Contrast:       0,
		Brightness:     1,
	}
}

// Validate reports the first enum field that names nothing in the tables.
func (s Settings) Validate() error {
	if _, err := geometry.ParseStyle(string(s.WaveStyle)); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if _, err := palette.ParseBlendMode(string(s.BlendMode)); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if _, err := palette.ParseScheme(string(s.ColourScheme)); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}

// Clamped returns s with every numeric field limited to its form range.
func (s Settings) Clamped() Settings {
	s.VerticalCenter = clamp(s.VerticalCenter, MinVerticalCenter, MaxVerticalCenter)
	s.Magnitude = clamp(s.Magnitude, MinMagnitude, MaxMagnitude)
	s.Contrast = clamp(s.Contrast, MinContrast, MaxContrast)
	s.Brightness = clamp(s.Brightness, MinBrightness, MaxBrightness)
	return s
}

// Transforms returns the per-frame geometry for s.
func (s Settings) Transforms() []geometry.Matrix {
	return geometry.Matrices(s.WaveStyle, s.VerticalCenter, s.Magnitude)
}

// Colours returns the per-frame wash colours for s.
func (s Settings) Colours() []color.NRGBA {
	return palette.For(s.ColourScheme)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
