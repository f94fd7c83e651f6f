package export

import (
	"context"
	"fmt"
	"image"
	"time"

	"partify/internal/framecache"
	"partify/internal/playback"
	"partify/internal/settings"

	"github.com/charmbracelet/log"
)

// FrameDelay is the delay recorded for every exported frame.
const FrameDelay = playback.FrameDuration

// Encoder turns a sequence of equally sized frames into a looping image.
type Encoder interface {
	AddFrame(frame image.Image, delay time.Duration) error
	Finish() (*Resource, error)
}

// Resource is an encoded animation ready to be saved or served.
type Resource struct {
	Name string
	MIME string
	Data []byte
}

// Exporter feeds cached frames through an encoder.
type Exporter struct {
	logger *log.Logger
}

// New creates an Exporter. A nil logger uses log.Default().
func New(logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{logger: logger}
}

// Export encodes data in the background and reports through done. It
// returns false, and never calls done, when there are no frames or no
// encoder.
func (e *Exporter) Export(ctx context.Context, data *framecache.Data, s settings.Settings, enc Encoder, done func(*Resource, error)) bool {
	if data.Len() == 0 || enc == nil {
		return false
	}
	go func() {
		res, err := e.encode(ctx, data, s, enc)
		done(res, err)
	}()
	return true
}

// Run is the blocking form of Export. It returns (nil, nil) for the same
// no-op cases.
func (e *Exporter) Run(ctx context.Context, data *framecache.Data, s settings.Settings, enc Encoder) (*Resource, error) {
	if data.Len() == 0 || enc == nil {
		return nil, nil
	}
	return e.encode(ctx, data, s, enc)
}

func (e *Exporter) encode(ctx context.Context, data *framecache.Data, s settings.Settings, enc Encoder) (*Resource, error) {
	start := time.Now()
	for i := 0; i < data.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("export: frame %d: %w", i, err)
		}
		if err := enc.AddFrame(data.Cropped(i), FrameDelay); err != nil {
			return nil, fmt.Errorf("export: add frame %d: %w", i, err)
		}
	}
	res, err := enc.Finish()
	if err != nil {
		return nil, fmt.Errorf("export: finish: %w", err)
	}
	if res.Name == "" {
		res.Name = BaseName(s) + extensionFor(res.MIME)
	}
	e.logger.Debug("exported animation",
		"name", res.Name,
		"bytes", len(res.Data),
		"frames", data.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// BaseName derives a file name stem from the settings that shape the
// animation.
func BaseName(s settings.Settings) string {
	return fmt.Sprintf("party-%s-%s-%s", s.WaveStyle, s.ColourScheme, s.BlendMode)
}

func extensionFor(mime string) string {
	switch mime {
	case MIMEGIF:
		return ".gif"
	case MIMEWebP:
		return ".webp"
	}
	return ""
}

// Formats lists the supported output formats.
var Formats = []string{"gif", "webp"}

// NewEncoder returns a fresh encoder for format.
func NewEncoder(format string, workers int) (Encoder, error) {
	switch format {
	case "gif":
		return NewGIF(workers), nil
	case "webp":
		return NewWebP(), nil
	}
	return nil, fmt.Errorf("export: unknown format %q", format)
}
