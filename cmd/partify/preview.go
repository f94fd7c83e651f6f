package main

import (
	"io"
	"os"

	"partify/internal/playback"
	"partify/internal/prefs"
	"partify/internal/preview"
	"partify/internal/session"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	previewColumns int
	debugLogFile   string
)

var previewCmd = &cobra.Command{
	Use:   "preview <image>",
	Short: "Play the animation in the terminal and tweak it live",
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

		// The terminal belongs to the TUI; logs go to a file or nowhere.
		var out io.Writer = io.Discard
		if debugMode {
			f, err := os.Create(debugLogFile)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		logger := newLogger(out)

		sess := session.New(session.Options{
			Workers:   cfg.Workers,
			Settings:  st,
			Scheduler: playback.New(playback.Options{Manual: true}),
			Logger:    logger,
		})
		if err := sess.OnFileSelected(args[0]); err != nil {
			return err
		}

		var store prefs.Store
		if store, err = prefs.Open(); err != nil {
			logger.Warn("preferences unavailable, using memory", "err", err)
			store = prefs.NewMemoryStore()
		}

		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return err
		}
		m := preview.New(preview.Options{
			Session:    sess,
			Intro:      prefs.NewFlag(store, prefs.IntroDismissedKey, false, logger),
			NewEncoder: cfg.Encoder,
			OutputDir:  cfg.OutputDir,
			Columns:    previewColumns,
			Logger:     logger,
		})
		defer m.Close()

		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	previewCmd.Flags().IntVar(&previewColumns, "columns", 48, "Preview width in terminal cells")
	previewCmd.Flags().StringVar(&debugLogFile, "log-file", "partify-debug.log", "Log file used with --debug")
}
