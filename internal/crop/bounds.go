package crop

import (
	"image"

	"github.com/disintegration/imaging"
)

// Bounds is a pixel rectangle with exclusive Right and Bottom.
// Left ≤ Right and Top ≤ Bottom always hold.
type Bounds struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Rect converts b to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

// Width is Right − Left.
func (b Bounds) Width() int { return b.Right - b.Left }

// Height is Bottom − Top.
func (b Bounds) Height() int { return b.Bottom - b.Top }

// Contains reports whether o lies entirely within b.
func (b Bounds) Contains(o Bounds) bool {
	return b.Top <= o.Top && b.Left <= o.Left && b.Right >= o.Right && b.Bottom >= o.Bottom
}

// Center is the single-pixel box reported for a fully transparent w×h
// surface.
func Center(w, h int) Bounds {
	return Bounds{Top: h / 2, Left: w / 2, Right: w/2 + 1, Bottom: h/2 + 1}
}

// Of scans the alpha channel of img and returns the smallest box holding
// every pixel with non-zero alpha, relative to img's origin.
func Of(img *image.NRGBA) Bounds {
	rb := img.Bounds()
	w, h := rb.Dx(), rb.Dy()

	minX, minY := w, h
	maxX, maxY := -1, -1
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			if row[x*4+3] == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < 0 {
		return Center(w, h)
	}
	return Bounds{Top: minY, Left: minX, Right: maxX + 1, Bottom: maxY + 1}
}

// OfImage rasterises any image to a scratch NRGBA surface and scans it.
func OfImage(img image.Image) Bounds {
	if n, ok := img.(*image.NRGBA); ok {
		return Of(n)
	}
	return Of(imaging.Clone(img))
}

// Union returns the smallest box containing every box in bs, so that no
// frame's silhouette is cropped away. It returns the zero Bounds for an
// empty list.
func Union(bs ...Bounds) Bounds {
	if len(bs) == 0 {
		return Bounds{}
	}
	u := bs[0]
	for _, b := range bs[1:] {
		u.Top = min(u.Top, b.Top)
		u.Left = min(u.Left, b.Left)
		u.Right = max(u.Right, b.Right)
		u.Bottom = max(u.Bottom, b.Bottom)
	}
	return u
}

// Apply returns the part of img inside b as a new zero-origin image.
func Apply(img image.Image, b Bounds) *image.NRGBA {
	return imaging.Crop(img, b.Rect().Add(img.Bounds().Min))
}
