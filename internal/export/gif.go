package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"runtime"
	"sync"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
)

// MIMEGIF is the media type of GIF output.
const MIMEGIF = "image/gif"

// Pixels with less alpha than this become the transparent palette entry.
const alphaThreshold = 128

// GIF collects frames and writes a looping animated GIF with a
// transparent background. Frames are quantised in parallel on Finish.
type GIF struct {
	Workers int

	frames []image.Image
	delays []int
}

// NewGIF creates a GIF encoder using workers goroutines for quantisation.
func NewGIF(workers int) *GIF {
	return &GIF{Workers: workers}
}

// AddFrame queues a frame. delay is rounded to the format's 10ms units.
func (g *GIF) AddFrame(frame image.Image, delay time.Duration) error {
	if len(g.frames) > 0 && frame.Bounds().Size() != g.frames[0].Bounds().Size() {
		return errors.New("gif: frame size differs from first frame")
	}
	g.frames = append(g.frames, frame)
	g.delays = append(g.delays, int((delay+5*time.Millisecond)/(10*time.Millisecond)))
	return nil
}

// Finish quantises and encodes all queued frames.
func (g *GIF) Finish() (*Resource, error) {
	if len(g.frames) == 0 {
		return nil, errors.New("gif: no frames")
	}
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	paletted := make([]*image.Paletted, len(g.frames))
	frameChan := make(chan int, len(g.frames))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range frameChan {
				paletted[i] = quantizeFrame(g.frames[i])
			}
		}()
	}
	for i := range g.frames {
		frameChan <- i
	}
	close(frameChan)
	wg.Wait()

	size := g.frames[0].Bounds().Size()
	disposal := make([]byte, len(paletted))
	for i := range disposal {
		disposal[i] = gif.DisposalBackground
	}
	anim := &gif.GIF{
		Image:     paletted,
		Delay:     g.delays,
		Disposal:  disposal,
		LoopCount: 0,
		Config: image.Config{
			Width:  size.X,
			Height: size.Y,
		},
		BackgroundIndex: 0,
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, err
	}
	return &Resource{MIME: MIMEGIF, Data: buf.Bytes()}, nil
}

// quantizeFrame maps a frame onto at most 255 median-cut colours plus a
// transparent entry at index 0.
func quantizeFrame(src image.Image) *image.Paletted {
	b := src.Bounds()
	pal := make(color.Palette, 1, 256)
	pal[0] = color.Transparent
	pal = quantize.MedianCutQuantizer{}.Quantize(pal, src)
	// Transparent source pixels can seed a bucket; only index 0 may be clear.
	for i := 1; i < len(pal); i++ {
		c := color.NRGBAModel.Convert(pal[i]).(color.NRGBA)
		c.A = 255
		pal[i] = c
	}
	opaque := pal[1:]

	dst := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), pal)
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if c.A < alphaThreshold || len(opaque) == 0 {
				continue
			}
			c.A = 255
			dst.SetColorIndex(x, y, uint8(opaque.Index(c)+1))
		}
	}
	return dst
}
