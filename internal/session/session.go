package session

import (
	"context"
	"sync"

	"partify/internal/export"
	"partify/internal/framecache"
	"partify/internal/loader"
	"partify/internal/playback"
	"partify/internal/settings"

	"github.com/charmbracelet/log"
)

// Options configures a Session.
type Options struct {
	Workers   int
	Settings  settings.Settings
	Scheduler *playback.Scheduler
	Logger    *log.Logger
}

// Session reacts to image and settings changes: it stops playback,
// rebuilds the frame cache, and restarts playback on the new frames.
type Session struct {
	mu        sync.Mutex
	image     *loader.Image
	settings  settings.Settings
	cache     *framecache.Cache
	scheduler *playback.Scheduler
	exporter  *export.Exporter
	logger    *log.Logger
}

// New creates a session with no image loaded.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = playback.New(playback.Options{})
	}
	if opts.Settings == (settings.Settings{}) {
		opts.Settings = settings.Default()
	}
	return &Session{
		settings:  opts.Settings,
		cache:     framecache.New(opts.Workers, opts.Logger),
		scheduler: opts.Scheduler,
		exporter:  export.New(opts.Logger),
		logger:    opts.Logger,
	}
}

// OnFileSelected loads path as the new source image. If it cannot be
// decoded the session is left without an image and playback stays idle.
func (s *Session) OnFileSelected(path string) error {
	img, err := loader.Load(path)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.scheduler.Stop()
		s.image = nil
		s.cache.Invalidate()
		s.logger.Warn("image failed to load", "path", path, "err", err)
		return err
	}
	return s.SetImage(img)
}

// SetImage replaces the source image and rebuilds.
func (s *Session) SetImage(img *loader.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = img
	return s.refresh()
}

// UpdateSettings replaces the settings and rebuilds.
func (s *Session) UpdateSettings(next settings.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = next
	return s.refresh()
}

// refresh stops playback before anything new is published, so two loops
// never race on the preview surface.
func (s *Session) refresh() error {
	s.scheduler.Stop()
	if s.image == nil || !s.image.Meta.Loaded {
		s.cache.Invalidate()
		return nil
	}
	data, err := s.cache.Rebuild(s.image, s.settings)
	if err != nil {
		s.logger.Error("frame cache rebuild failed", "err", err)
		return err
	}
	s.scheduler.Start(data)
	return nil
}

// Generate exports the current frames through enc. It returns false when
// there is nothing to export or no encoder.
func (s *Session) Generate(ctx context.Context, enc export.Encoder, done func(*export.Resource, error)) bool {
	s.mu.Lock()
	data, st := s.cache.Current(), s.settings
	s.mu.Unlock()
	return s.exporter.Export(ctx, data, st, enc, done)
}

// GenerateSync is the blocking form of Generate.
func (s *Session) GenerateSync(ctx context.Context, enc export.Encoder) (*export.Resource, error) {
	s.mu.Lock()
	data, st := s.cache.Current(), s.settings
	s.mu.Unlock()
	return s.exporter.Run(ctx, data, st, enc)
}

// Close stops playback.
func (s *Session) Close() {
	s.scheduler.Stop()
}

// Meta describes the current image; Loaded is false when there is none.
func (s *Session) Meta() loader.Meta {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == nil {
		return loader.Meta{}
	}
	return s.image.Meta
}

// Settings returns the current settings.
func (s *Session) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Frames returns the published frame data, or nil when not ready.
func (s *Session) Frames() *framecache.Data {
	return s.cache.Current()
}

// Scheduler exposes playback for preview listeners.
func (s *Session) Scheduler() *playback.Scheduler {
	return s.scheduler
}
