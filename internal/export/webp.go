package export

import (
	"bytes"
	"errors"
	"image"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// MIMEWebP is the media type of WebP output.
const MIMEWebP = "image/webp"

// WebP collects frames and writes a looping lossless animated WebP.
type WebP struct {
	frames    []image.Image
	durations []uint
}

// NewWebP creates an animated WebP encoder.
func NewWebP() *WebP {
	return &WebP{}
}

// AddFrame queues a frame with its display duration in milliseconds.
func (w *WebP) AddFrame(frame image.Image, delay time.Duration) error {
	w.frames = append(w.frames, frame)
	w.durations = append(w.durations, uint(delay/time.Millisecond))
	return nil
}

// Finish encodes all queued frames.
func (w *WebP) Finish() (*Resource, error) {
	if len(w.frames) == 0 {
		return nil, errors.New("webp: no frames")
	}
	ani := nativewebp.Animation{
		Images:          w.frames,
		Durations:       w.durations,
		Disposals:       make([]uint, len(w.frames)),
		LoopCount:       0,
		BackgroundColor: 0,
	}
	for i := range ani.Disposals {
		ani.Disposals[i] = 1 // dispose to background
	}

	var buf bytes.Buffer
	if err := nativewebp.EncodeAll(&buf, &ani, nil); err != nil {
		return nil, err
	}
	return &Resource{MIME: MIMEWebP, Data: buf.Bytes()}, nil
}
