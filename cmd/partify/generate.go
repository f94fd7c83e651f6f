package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"partify/internal/playback"
	"partify/internal/session"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <image>",
	Short: "Render an image and save the animation",
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
		enc, err := cfg.Encoder()
		if err != nil {
			return err
		}
		logger := newLogger(os.Stderr)

		sess := session.New(session.Options{
			Workers:   cfg.Workers,
			Settings:  st,
			Scheduler: playback.New(playback.Options{Manual: true}),
			Logger:    logger,
		})
		defer sess.Close()

		start := time.Now()
		if err := sess.OnFileSelected(args[0]); err != nil {
			return err
		}
		meta := sess.Meta()
		logger.Debug("image loaded", "width", meta.Width, "height", meta.Height)

		res, err := sess.GenerateSync(cmd.Context(), enc)
		if err != nil {
			return err
		}
		if res == nil {
			return fmt.Errorf("nothing to export for %s", args[0])
		}

		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return err
		}
		path := filepath.Join(cfg.OutputDir, res.Name)
		if err := os.WriteFile(path, res.Data, 0644); err != nil {
			return err
		}
		logger.Info("saved", "path", path, "bytes", len(res.Data), "took", time.Since(start).Round(time.Millisecond))
		fmt.Println(path)
		return nil
	},
}
