package preview

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
)

const halfBlock = "▀"

// Blocks draws img cols cells wide using upper half blocks, two pixel rows
// per terminal row. Transparent pixels are flattened onto bg.
func Blocks(img image.Image, cols int, bg color.NRGBA) string {
	b := img.Bounds()
	if cols <= 0 || b.Dx() == 0 || b.Dy() == 0 {
		return ""
	}
	rows := max(1, (b.Dy()*cols/b.Dx()+1)/2)
	scaled := resize.Resize(uint(cols), uint(rows*2), img, resize.Lanczos3)
	sb := scaled.Bounds()

	var out strings.Builder
	for r := 0; r < rows; r++ {
		if r > 0 {
			out.WriteByte('\n')
		}
		for c := 0; c < cols; c++ {
			top := flatten(scaled.At(sb.Min.X+c, sb.Min.Y+2*r), bg)
			bottom := flatten(scaled.At(sb.Min.X+c, sb.Min.Y+2*r+1), bg)
			out.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom))).
				Render(halfBlock))
		}
	}
	return out.String()
}

func flatten(c color.Color, bg color.NRGBA) color.NRGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	a := uint32(n.A)
	mix := func(fg, back uint8) uint8 {
		return uint8((uint32(fg)*a + uint32(back)*(255-a) + 127) / 255)
	}
	return color.NRGBA{R: mix(n.R, bg.R), G: mix(n.G, bg.G), B: mix(n.B, bg.B), A: 0xff}
}

func hex(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
