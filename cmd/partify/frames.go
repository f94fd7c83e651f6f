package main

import (
	"fmt"
	"os"
	"path/filepath"

	"partify/internal/export"
	"partify/internal/framecache"
	"partify/internal/loader"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
)

var framesCmd = &cobra.Command{
	Use:   "frames <image>",
	Short: "Write each cropped frame as a PNG, plus a JSON manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		st, err := cfg.Settings()
		if err != nil {
			return err
		}
		logger := newLogger(os.Stderr)

		img, err := loader.Load(args[0])
		if err != nil {
			return err
		}
		data, err := framecache.Build(img, st, cfg.Workers)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return err
		}

		base := export.BaseName(st)
		for i := range data.Frames {
			path := filepath.Join(cfg.OutputDir, export.FrameFile(base, i))
			if err := imaging.Save(data.Cropped(i), path); err != nil {
				return fmt.Errorf("save frame %d: %w", i, err)
			}
			logger.Debug("frame written", "path", path, "bounds", data.Bounds[i])
		}
		manifest := filepath.Join(cfg.OutputDir, base+".json")
		if err := export.WriteManifest(manifest, data); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		logger.Info("frames written", "manifest", manifest, "count", data.Len(), "crop", fmt.Sprintf("%dx%d", data.Crop.Width(), data.Crop.Height()))
		return nil
	},
}
