package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"partify/internal/export"
	"partify/internal/geometry"
	"partify/internal/palette"
	"partify/internal/settings"
)

// Config holds output options and the settings the pipeline starts with.
type Config struct {
	// Output
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"`
	Workers   int    `json:"workers"`

	// Default animation settings; pointers so an explicit zero in the
	// file is distinguishable from "not set".
	WaveStyle      string   `json:"wave_style"`
	BlendMode      string   `json:"blend_mode"`
	ColourScheme   string   `json:"colour_scheme"`
	VerticalCenter *float64 `json:"vertical_center"`
	Magnitude      *float64 `json:"magnitude"`
	Contrast       *float64 `json:"contrast"`
	Brightness     *float64 `json:"brightness"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Numeric overrides are pointers; nil means the flag was not given.
type Flags struct {
	OutputDir      string
	Format         string
	Workers        int
	WaveStyle      string
	BlendMode      string
	ColourScheme   string
	VerticalCenter *float64
	Magnitude      *float64
	Contrast       *float64
	Brightness     *float64
}

// Resolve applies flag overrides, then fills anything still empty with
// defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.WaveStyle != "" {
		c.WaveStyle = flags.WaveStyle
	}
	if flags.BlendMode != "" {
		c.BlendMode = flags.BlendMode
	}
	if flags.ColourScheme != "" {
		c.ColourScheme = flags.ColourScheme
	}
	if flags.VerticalCenter != nil {
		c.VerticalCenter = flags.VerticalCenter
	}
	if flags.Magnitude != nil {
		c.Magnitude = flags.Magnitude
	}
	if flags.Contrast != nil {
		c.Contrast = flags.Contrast
	}
	if flags.Brightness != nil {
		c.Brightness = flags.Brightness
	}

	// Defaults
	if c.OutputDir == "" {
		c.OutputDir = "."
	} else {
		c.OutputDir = filepath.Clean(c.OutputDir)
	}
	c.Format = strings.ToLower(c.Format)
	if c.Format == "" {
		c.Format = "gif"
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Settings converts the resolved config into pipeline settings. Unknown
// enum names are errors; numeric fields are clamped to their ranges.
func (c *Config) Settings() (settings.Settings, error) {
	s := settings.Default()
	var err error
	if c.WaveStyle != "" {
		if s.WaveStyle, err = geometry.ParseStyle(c.WaveStyle); err != nil {
			return settings.Settings{}, fmt.Errorf("config: %w", err)
		}
	}
	if c.BlendMode != "" {
		if s.BlendMode, err = palette.ParseBlendMode(c.BlendMode); err != nil {
			return settings.Settings{}, fmt.Errorf("config: %w", err)
		}
	}
	if c.ColourScheme != "" {
		if s.ColourScheme, err = palette.ParseScheme(c.ColourScheme); err != nil {
			return settings.Settings{}, fmt.Errorf("config: %w", err)
		}
	}
	if c.VerticalCenter != nil {
		s.VerticalCenter = *c.VerticalCenter
	}
	if c.Magnitude != nil {
		s.Magnitude = *c.Magnitude
	}
	if c.Contrast != nil {
		s.Contrast = *c.Contrast
	}
	if c.Brightness != nil {
		s.Brightness = *c.Brightness
	}
	return s.Clamped(), nil
}

// Encoder returns a fresh encoder for the configured format.
func (c *Config) Encoder() (export.Encoder, error) {
	return export.NewEncoder(c.Format, c.Workers)
}
