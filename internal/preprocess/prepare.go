package preprocess

import (
	"image"
	"image/color"
	"math"

	"partify/internal/settings"

	"github.com/disintegration/imaging"
)

// Standard luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Prepare produces the normalised staging bitmap: src fitted and centred on
// a canvas of sz, converted to grayscale, then contrast and brightness
// adjusted. Alpha is preserved.
func Prepare(src *image.NRGBA, sz Sizing, s settings.Settings) *image.NRGBA {
	canvas := imaging.New(sz.CanvasWidth, sz.CanvasHeight, color.NRGBA{})
	if src == nil || sz.ImageWidth == 0 || sz.ImageHeight == 0 {
		return canvas
	}

	placed := src
	b := src.Bounds()
	if b.Dx() != sz.ImageWidth || b.Dy() != sz.ImageHeight {
		placed = imaging.Resize(src, sz.ImageWidth, sz.ImageHeight, imaging.Lanczos)
	}
	canvas = imaging.Paste(canvas, placed, sz.ImageRect().Min)

	Normalize(canvas, s.Contrast, s.Brightness)
	return canvas
}

// Normalize converts img to grayscale in place and applies contrast in
// [-1, 1] and a brightness multiplier. Results saturate to [0, 255] on store.
func Normalize(img *image.NRGBA, contrast, brightness float64) {
	factor := ContrastFactor(contrast)
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		off := y * img.Stride
		for x := 0; x < b.Dx(); x++ {
			i := off + x*4
			luma := float64(img.Pix[i])*lumaR + float64(img.Pix[i+1])*lumaG + float64(img.Pix[i+2])*lumaB
			v := clamp8(brightness * (factor*(luma-128) + 128))
			img.Pix[i] = v
			img.Pix[i+1] = v
			img.Pix[i+2] = v
		}
	}
}

// ContrastFactor maps a contrast setting to the multiplier applied around
// mid-grey. Zero contrast gives a factor of exactly 1.
func ContrastFactor(contrast float64) float64 {
	return (255 + 254*contrast) / (255 - 254*contrast)
}

// clamp8 stores v the way a clamped byte array does: saturate, then round
// half to even.
func clamp8(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
