package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"partify/internal/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
	flags      config.Flags

	verticalCenter float64
	magnitude      float64
	contrast       float64
	brightness     float64
)

var rootCmd = &cobra.Command{
	Use:   "partify",
	Short: "Turn a picture into a party parrot",
	Long: `partify wobbles a picture through ten frames, washes each one in a
colour from a parrot-inspired palette, and saves the loop as an animated
GIF or WebP.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Path to config.json file")
	pf.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	pf.StringVarP(&flags.OutputDir, "output", "o", "", "Output directory (default: .)")
	pf.StringVarP(&flags.Format, "format", "f", "", "Export format: gif or webp (default: gif)")
	pf.IntVar(&flags.Workers, "workers", 0, "Number of worker goroutines (default: NumCPU)")
	pf.StringVar(&flags.WaveStyle, "wave", "", "Wave style: classic, centered, bounce")
	pf.StringVar(&flags.BlendMode, "blend", "", "Blend mode: overlay, lighten, multiply")
	pf.StringVar(&flags.ColourScheme, "scheme", "", "Colour scheme (see 'partify schemes')")
	pf.Float64Var(&verticalCenter, "vertical-center", 1, "Vertical anchor of the wobble")
	pf.Float64Var(&magnitude, "magnitude", 1, "Wobble strength, 0 keeps the picture still")
	pf.Float64Var(&contrast, "contrast", 0, "Contrast adjustment, -1 to 1")
	pf.Float64Var(&brightness, "brightness", 1, "Brightness multiplier, 0 to 2")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(schemesCmd)
}

// loadConfig merges the config file with flags that were given explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return config.Config{}, err
		}
	}

	f := flags
	changed := func(name string, v float64) *float64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return &v
	}
	f.VerticalCenter = changed("vertical-center", verticalCenter)
	f.Magnitude = changed("magnitude", magnitude)
	f.Contrast = changed("contrast", contrast)
	f.Brightness = changed("brightness", brightness)

	cfg.Resolve(f)
	return cfg, nil
}

func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "partify",
	})
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
