package preprocess

import (
	"image"
	"math"

	"partify/internal/loader"
)

// Fixed canvas. The authored transforms assume 200×200.
const (
	CanvasWidth  = 200
	CanvasHeight = 200

	// MaxImageWidth and MaxImageHeight bound the image region inside the
	// canvas, leaving room for the wobble.
	MaxImageWidth  = 128
	MaxImageHeight = 128
)

// Sizing places a source image on the canvas.
type Sizing struct {
	CanvasWidth  int
	CanvasHeight int
	ImageWidth   int
	ImageHeight  int
}

// SizingFor derives the canvas placement for meta. Images are scaled down
// to fit MaxImageWidth×MaxImageHeight and never scaled up.
func SizingFor(meta loader.Meta) Sizing {
	sz := Sizing{CanvasWidth: CanvasWidth, CanvasHeight: CanvasHeight}
	if meta.Width <= 0 || meta.Height <= 0 {
		return sz
	}
	w, h := float64(meta.Width), float64(meta.Height)
	scale := math.Min(1, math.Min(MaxImageWidth/w, MaxImageHeight/h))
	sz.ImageWidth = max(1, int(math.Round(w*scale)))
	sz.ImageHeight = max(1, int(math.Round(h*scale)))
	return sz
}

// ImageRect is the region of the canvas covered by the image, centred.
func (sz Sizing) ImageRect() image.Rectangle {
	x := (sz.CanvasWidth - sz.ImageWidth) / 2
	y := (sz.CanvasHeight - sz.ImageHeight) / 2
	return image.Rect(x, y, x+sz.ImageWidth, y+sz.ImageHeight)
}

// CanvasRect is the full canvas.
func (sz Sizing) CanvasRect() image.Rectangle {
	return image.Rect(0, 0, sz.CanvasWidth, sz.CanvasHeight)
}
