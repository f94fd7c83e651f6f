package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// ErrUnknownFormat is returned when no decoder accepts the input.
var ErrUnknownFormat = errors.New("loader: unknown image format")

// The tga package registers itself with image.RegisterFormat under an empty
// magic string, which matches anything; depending on init order it can
// shadow every other format. Dispatch on magic here instead, with TGA last.
var decoders = []struct {
	name   string
	magic  string // '?' matches any byte
	decode func(io.Reader) (image.Image, error)
}{
	{"png", "\x89PNG\r\n\x1a\n", png.Decode},
	{"jpeg", "\xff\xd8", jpeg.Decode},
	{"gif", "GIF8", gif.Decode},
	{"bmp", "BM", bmp.Decode},
	{"webp", "RIFF????WEBP", webp.Decode},
}

func match(magic string, b []byte) bool {
	if len(b) < len(magic) {
		return false
	}
	for i := 0; i < len(magic); i++ {
		if magic[i] != '?' && magic[i] != b[i] {
			return false
		}
	}
	return true
}

// ErrNotLoaded is returned when a pipeline stage is asked to work on an
// image that never finished loading.
var ErrNotLoaded = errors.New("loader: image not loaded")

// Meta describes a loaded source image. It is replaced wholesale when a
// new image is selected.
type Meta struct {
	Loaded bool
	Width  int
	Height int
}

// Image is a decoded source image with its metadata.
type Image struct {
	Meta   Meta
	Pix    *image.NRGBA
	Format string
}

// Load reads and decodes an image file.
func Load(path string) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	img, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("loader: decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads PNG, JPEG, GIF, BMP, WebP or TGA. TGA has no magic
// number, so it is only tried when nothing else matches.
func Decode(r io.Reader) (*Image, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	for _, d := range decoders {
		if !match(d.magic, raw) {
			continue
		}
		src, err := d.decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.name, err)
		}
		return FromImage(src, d.name), nil
	}
	src, err := tga.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, err)
	}
	return FromImage(src, "tga"), nil
}

// FromImage wraps an already decoded image.
func FromImage(src image.Image, format string) *Image {
	pix := toNRGBA(src)
	b := pix.Bounds()
	return &Image{
		Meta: Meta{
			Loaded: b.Dx() > 0 && b.Dy() > 0,
			Width:  b.Dx(),
			Height: b.Dy(),
		},
		Pix:    pix,
		Format: format,
	}
}

// toNRGBA converts any image to a zero-origin NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(src)
}
