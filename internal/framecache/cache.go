package framecache

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"partify/internal/crop"
	"partify/internal/geometry"
	"partify/internal/loader"
	"partify/internal/preprocess"
	"partify/internal/raster"
	"partify/internal/settings"

	"github.com/charmbracelet/log"
)

// ErrNoFrames is returned when settings produce nothing to render, e.g.
// an unknown wave style, blend mode or colour scheme.
var ErrNoFrames = errors.New("framecache: no frames rendered")

// Data is one complete rendering of the animation. It is never mutated
// after Build returns; consumers treat it as read-only.
type Data struct {
	Frames   []*image.NRGBA
	Bounds   []crop.Bounds // per frame
	Crop     crop.Bounds   // union of Bounds
	Sizing   preprocess.Sizing
	Settings settings.Settings
}

// Len is the number of frames.
func (d *Data) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Frames)
}

// Cropped returns frame i cut to the shared crop window.
func (d *Data) Cropped(i int) *image.NRGBA {
	return crop.Apply(d.Frames[i], d.Crop)
}

// Build renders every frame for img under s. Frames are synthesised by a
// pool of workers, each with its own scratch surface, and the result is
// returned only once all of them finish.
func Build(img *loader.Image, s settings.Settings, workers int) (*Data, error) {
	if img == nil || !img.Meta.Loaded {
		return nil, loader.ErrNotLoaded
	}
	transforms := s.Transforms()
	if len(transforms) == 0 {
		return nil, fmt.Errorf("%w: wave style %q", ErrNoFrames, s.WaveStyle)
	}
	if !s.BlendMode.Valid() {
		return nil, fmt.Errorf("%w: blend mode %q", ErrNoFrames, s.BlendMode)
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, geometry.FrameCount)

	sz := preprocess.SizingFor(img.Meta)
	staging := preprocess.Prepare(img.Pix, sz, s)

	data := &Data{
		Frames:   make([]*image.NRGBA, geometry.FrameCount),
		Bounds:   make([]crop.Bounds, geometry.FrameCount),
		Sizing:   sz,
		Settings: s,
	}
	var failed atomic.Bool

	frameChan := make(chan int, geometry.FrameCount)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			surface := raster.NewSurface(sz.CanvasWidth, sz.CanvasHeight)
			for i := range frameChan {
				if !raster.RenderFrame(i, surface, staging, s, transforms) {
					failed.Store(true)
					continue
				}
				data.Frames[i] = surface.Snapshot()
				data.Bounds[i] = crop.Of(data.Frames[i])
			}
		}()
	}
	for i := 0; i < geometry.FrameCount; i++ {
		frameChan <- i
	}
	close(frameChan)
	wg.Wait()

	if failed.Load() {
		return nil, fmt.Errorf("%w: colour scheme %q", ErrNoFrames, s.ColourScheme)
	}
	data.Crop = crop.Union(data.Bounds...)
	return data, nil
}

// Cache holds the most recent Data. Rebuilds publish a fully built value
// in one atomic store, so readers never see a partial cache.
type Cache struct {
	workers int
	logger  *log.Logger
	current atomic.Pointer[Data]
}

// New creates an empty cache. A nil logger uses log.Default().
func New(workers int, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{workers: workers, logger: logger}
}

// Rebuild renders img under s and publishes the result. On failure the
// cache is emptied so dependents see "not ready".
func (c *Cache) Rebuild(img *loader.Image, s settings.Settings) (*Data, error) {
	start := time.Now()
	data, err := Build(img, s, c.workers)
	if err != nil {
		c.current.Store(nil)
		return nil, err
	}
	c.current.Store(data)
	c.logger.Debug("frame cache rebuilt",
		"frames", data.Len(),
		"crop", data.Crop.Rect(),
		"elapsed", time.Since(start).Round(time.Microsecond))
	return data, nil
}

// Current returns the published data, or nil when not ready.
func (c *Cache) Current() *Data {
	return c.current.Load()
}

// Invalidate drops the published data.
func (c *Cache) Invalidate() {
	c.current.Store(nil)
}
