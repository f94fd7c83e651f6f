package raster

import (
	"image"

	"partify/internal/geometry"
	"partify/internal/palette"
	"partify/internal/settings"
)

// RenderFrame composites frame i into target:
//
//  1. plain painting, cleared surface
//  2. transform i (mod the table length) becomes active
//  3. the grayscale source is painted through it
//  4. the frame's wash colour is filled with the configured blend mode
//  5. the source is painted again as a destination-in mask through the
//     same transform, clipping the wash to the wobbling silhouette
//
// It returns false without touching target when there is nothing to draw
// with: an empty transform table or an unknown colour scheme.
func RenderFrame(i int, target *Surface, src *image.NRGBA, s settings.Settings, transforms []geometry.Matrix) bool {
	m, ok := geometry.At(transforms, i)
	if !ok {
		return false
	}
	wash, ok := palette.At(s.ColourScheme, i)
	if !ok {
		return false
	}

	target.Reset()
	target.Clear()

	target.SetTransform(m)
	target.DrawImage(src)

	target.SetComposite(BlendWith(s.BlendMode))
	target.Fill(wash)

	target.SetComposite(Mask)
	target.DrawImage(src)

	target.Reset()
	return true
}
