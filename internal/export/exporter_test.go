package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"sync"
	"testing"
	"time"

	"partify/internal/framecache"
	"partify/internal/geometry"
	"partify/internal/loader"
	"partify/internal/settings"

	"github.com/charmbracelet/log"
)

type fakeEncoder struct {
	mu     sync.Mutex
	sizes  []image.Point
	delays []time.Duration
	done   int
	err    error
}

func (f *fakeEncoder) AddFrame(frame image.Image, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizes = append(f.sizes, frame.Bounds().Size())
	f.delays = append(f.delays, delay)
	return f.err
}

func (f *fakeEncoder) Finish() (*Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.done++
	return &Resource{MIME: MIMEGIF, Data: []byte("GIF89a")}, nil
}

func squareData(t *testing.T, s settings.Settings) *framecache.Data {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = 40, 160, 220, 255
	}
	data, err := framecache.Build(loader.FromImage(img, "test"), s, 2)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return data
}

func quiet() *Exporter {
	return New(log.New(io.Discard))
}

func TestExport_FeedsEveryFrame(t *testing.T) {
	s := settings.Default()
	data := squareData(t, s)
	enc := &fakeEncoder{}

	type result struct {
		res *Resource
		err error
	}
	got := make(chan result, 1)
	ok := quiet().Export(context.Background(), data, s, enc, func(r *Resource, err error) {
		got <- result{r, err}
	})
	if !ok {
		t.Fatal("expected export to start")
	}

	var r result
	select {
	case r = <-got:
	case <-time.After(5 * time.Second):
		t.Fatal("export did not complete")
	}
	if r.err != nil {
		t.Fatalf("export: %v", r.err)
	}
	if r.res == nil || r.res.Name != "party-classic-classic-overlay.gif" {
		t.Errorf("unexpected resource %+v", r.res)
	}

	if len(enc.delays) != geometry.FrameCount {
		t.Fatalf("expected %d frames, got %d", geometry.FrameCount, len(enc.delays))
	}
	want := image.Pt(data.Crop.Width(), data.Crop.Height())
	for i := range enc.delays {
		if enc.delays[i] != 50*time.Millisecond {
			t.Errorf("frame %d: expected 50ms delay, got %v", i, enc.delays[i])
		}
		if enc.sizes[i] != want {
			t.Errorf("frame %d: expected cropped size %v, got %v", i, want, enc.sizes[i])
		}
	}
	if enc.done != 1 {
		t.Errorf("expected one Finish call, got %d", enc.done)
	}
}

func TestExport_NoOps(t *testing.T) {
	e := quiet()
	called := false
	done := func(*Resource, error) { called = true }

	if e.Export(context.Background(), nil, settings.Default(), &fakeEncoder{}, done) {
		t.Error("expected no-op without frame data")
	}
	if e.Export(context.Background(), squareData(t, settings.Default()), settings.Default(), nil, done) {
		t.Error("expected no-op without encoder")
	}
	if called {
		t.Error("done must not be called for a no-op")
	}

	res, err := e.Run(context.Background(), nil, settings.Default(), &fakeEncoder{})
	if res != nil || err != nil {
		t.Errorf("expected (nil, nil), got (%v, %v)", res, err)
	}
}

func TestRun_EncoderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := quiet().Run(context.Background(), squareData(t, settings.Default()), settings.Default(), &fakeEncoder{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped encoder error, got %v", err)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := quiet().Run(ctx, squareData(t, settings.Default()), settings.Default(), &fakeEncoder{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGIF_RoundTrip(t *testing.T) {
	s := settings.Default()
	data := squareData(t, s)
	res, err := quiet().Run(context.Background(), data, s, NewGIF(2))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.MIME != MIMEGIF {
		t.Errorf("unexpected MIME %q", res.MIME)
	}

	anim, err := gif.DecodeAll(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(anim.Image) != geometry.FrameCount {
		t.Fatalf("expected %d frames, got %d", geometry.FrameCount, len(anim.Image))
	}
	if anim.LoopCount != 0 {
		t.Errorf("expected infinite loop, got %d", anim.LoopCount)
	}
	for i, d := range anim.Delay {
		if d != 5 {
			t.Errorf("frame %d: expected 5cs delay, got %d", i, d)
		}
	}
	if anim.Config.Width != data.Crop.Width() || anim.Config.Height != data.Crop.Height() {
		t.Errorf("unexpected canvas %dx%d", anim.Config.Width, anim.Config.Height)
	}
}

func TestGIF_TransparentBackground(t *testing.T) {
	frame := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	frame.SetNRGBA(1, 1, color.NRGBA{R: 255, A: 255})
	p := quantizeFrame(frame)
	if p.ColorIndexAt(0, 0) != 0 {
		t.Errorf("expected transparent index at empty pixel")
	}
	_, _, _, a := p.At(1, 1).RGBA()
	if a != 0xffff {
		t.Errorf("expected opaque pixel, got alpha %d", a)
	}
}

func TestGIF_RejectsMismatchedFrames(t *testing.T) {
	g := NewGIF(1)
	if err := g.AddFrame(image.NewNRGBA(image.Rect(0, 0, 2, 2)), FrameDelay); err != nil {
		t.Fatal(err)
	}
	if err := g.AddFrame(image.NewNRGBA(image.Rect(0, 0, 3, 2)), FrameDelay); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := NewGIF(1).Finish(); err == nil {
		t.Error("expected error with no frames")
	}
}

func TestWebP_Container(t *testing.T) {
	s := settings.Default()
	res, err := quiet().Run(context.Background(), squareData(t, s), s, NewWebP())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.MIME != MIMEWebP || res.Name != "party-classic-classic-overlay.webp" {
		t.Errorf("unexpected resource %q %q", res.MIME, res.Name)
	}
	if len(res.Data) < 12 || string(res.Data[0:4]) != "RIFF" || string(res.Data[8:12]) != "WEBP" {
		t.Errorf("output is not a RIFF/WEBP container")
	}
}

func TestNewEncoder(t *testing.T) {
	for _, f := range Formats {
		if _, err := NewEncoder(f, 1); err != nil {
			t.Errorf("%s: %v", f, err)
		}
	}
	if _, err := NewEncoder("apng", 1); err == nil {
		t.Error("expected error for unknown format")
	}
}
