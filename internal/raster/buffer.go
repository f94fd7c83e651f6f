package raster

import (
	"image"
	"image/color"
	"math"

	"partify/internal/geometry"
	"partify/internal/palette"

	"golang.org/x/image/draw"
)

// Composite selects how new pixels combine with the surface.
type Composite struct {
	Kind  CompositeKind
	Blend palette.BlendMode
}

// CompositeKind enumerates the compositing operators a Surface supports.
type CompositeKind int

const (
	// SourceOver paints the source over the destination.
	SourceOver CompositeKind = iota
	// BlendOver paints the source over the destination through a separable
	// blend function.
	BlendOver
	// DestinationIn keeps the destination only where the source is opaque.
	DestinationIn
)

// Replace is plain source-over painting.
var Replace = Composite{Kind: SourceOver}

// Mask keeps existing pixels only under the source's alpha.
var Mask = Composite{Kind: DestinationIn}

// BlendWith returns a blending composite for m.
func BlendWith(m palette.BlendMode) Composite {
	return Composite{Kind: BlendOver, Blend: m}
}

// Surface is an immediate-mode drawing target with a current transform and
// compositing operator. Pixels are stored non-premultiplied.
type Surface struct {
	Width  int
	Height int
	Pix    *image.NRGBA

	transform geometry.Matrix
	composite Composite
	scratch   *image.RGBA // premultiplied staging for transformed draws
}

// NewSurface allocates a transparent surface.
func NewSurface(w, h int) *Surface {
	r := image.Rect(0, 0, w, h)
	return &Surface{
		Width:     w,
		Height:    h,
		Pix:       image.NewNRGBA(r),
		transform: geometry.Identity(),
		composite: Replace,
		scratch:   image.NewRGBA(r),
	}
}

// Reset restores the identity transform and plain source-over painting.
func (s *Surface) Reset() {
	s.transform = geometry.Identity()
	s.composite = Replace
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	clear(s.Pix.Pix)
}

// SetTransform replaces the active coordinate transform.
func (s *Surface) SetTransform(m geometry.Matrix) {
	s.transform = m
}

// Transform returns the active coordinate transform.
func (s *Surface) Transform() geometry.Matrix {
	return s.transform
}

// SetComposite replaces the active compositing operator.
func (s *Surface) SetComposite(c Composite) {
	s.composite = c
}

// DrawImage paints src at the origin through the active transform.
func (s *Surface) DrawImage(src image.Image) {
	clear(s.scratch.Pix)
	if s.transform == geometry.Identity() {
		draw.Draw(s.scratch, s.scratch.Bounds(), src, src.Bounds().Min, draw.Over)
	} else {
		draw.BiLinear.Transform(s.scratch, s.transform.Aff3(), src, src.Bounds(), draw.Over, nil)
	}

	p := s.scratch.Pix
	for i := 0; i < len(p); i += 4 {
		s.compositePixel(i, float64(p[i]), float64(p[i+1]), float64(p[i+2]), float64(p[i+3]))
	}
}

// Fill paints c over the whole surface. Fills are not transformed since
// they always cover the full surface.
func (s *Surface) Fill(c color.NRGBA) {
	a := float64(c.A)
	k := a / 255
	r, g, b := float64(c.R)*k, float64(c.G)*k, float64(c.B)*k
	for i := 0; i < len(s.Pix.Pix); i += 4 {
		s.compositePixel(i, r, g, b, a)
	}
}

// compositePixel combines a premultiplied source pixel (0–255 scale) with
// the destination at byte offset i.
func (s *Surface) compositePixel(i int, sr, sg, sb, sa float64) {
	d := s.Pix.Pix[i : i+4 : i+4]
	as := sa / 255
	ad := float64(d[3]) / 255

	if s.composite.Kind == DestinationIn {
		d[3] = clamp8(ad * as * 255)
		if d[3] == 0 {
			d[0], d[1], d[2] = 0, 0, 0
		}
		return
	}

	if as == 0 {
		return
	}
	ao := as + ad*(1-as)
	cs := [3]float64{sr / sa, sg / sa, sb / sa}
	for k := 0; k < 3; k++ {
		cd := float64(d[k]) / 255
		bl := cs[k]
		if s.composite.Kind == BlendOver {
			bl = s.composite.Blend.Blend(cd, cs[k])
		}
		co := as*(1-ad)*cs[k] + as*ad*bl + (1-as)*ad*cd
		d[k] = clamp8(co / ao * 255)
	}
	d[3] = clamp8(ao * 255)
}

// Snapshot returns a copy of the surface pixels.
func (s *Surface) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(s.Pix.Rect)
	copy(out.Pix, s.Pix.Pix)
	return out
}

func clamp8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
