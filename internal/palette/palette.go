package palette

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"partify/internal/geometry"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrUnknownScheme is returned for a colour scheme name not in the table.
	ErrUnknownScheme = errors.New("palette: unknown colour scheme")
	// ErrUnknownBlend is returned for a blend mode name not in the table.
	ErrUnknownBlend = errors.New("palette: unknown blend mode")
)

// Scheme names a palette of per-frame wash colours.
type Scheme string

const (
	ClassicScheme Scheme = "classic"
	Kakapo        Scheme = "kakapo"
	Cockatoo      Scheme = "cockatoo"
	Galah         Scheme = "galah"
	King          Scheme = "king"
	Hyacinth      Scheme = "hyacinth"
)

// Schemes lists the colour schemes in display order.
var Schemes = []Scheme{ClassicScheme, Kakapo, Cockatoo, Galah, King, Hyacinth}

var schemeLabels = map[Scheme]string{
	ClassicScheme: "Classic",
	Kakapo:        "Kākāpō green",
	Cockatoo:      "Cockatoo white",
	Galah:         "Galah pink",
	King:          "King green+orange",
	Hyacinth:      "Hyacinth blue",
}

// Few enough that generating them is not worth it.
var schemeHex = map[Scheme][geometry.FrameCount]string{
	ClassicScheme: {"#ff6968", "#fe6cb7", "#ff68f7", "#ff8cff", "#d78cff", "#8bb5fe", "#87ffff", "#88ff89", "#fed689", "#ff8d8b"},
	Kakapo:        {"#53752e", "#678d31", "#74a145", "#94d64d", "#97e346", "#aaf757", "#93d64b", "#91bd62", "#84b352", "#48820a"},
	Cockatoo:      {"#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff", "#ffffff"},
	Galah:         {"#ff79f8", "#ff57cb", "#ff329a", "#ff0968", "#f60088", "#fa31ff", "#f72fa7", "#f34bc6", "#f48dff", "#f2a2ff"},
	King:          {"#549310", "#6bab12", "#f2be03", "#fc9e41", "#f57118", "#d17205", "#fa8d2d", "#ed881c", "#e5cf24", "#9aae04"},
	Hyacinth:      {"#46f6ff", "#007efe", "#009fff", "#0029c9", "#3b4ee4", "#5e72ff", "#0095ff", "#00b2ff", "#00ccff", "#00e2ff"},
}

var schemes = make(map[Scheme][]color.NRGBA, len(schemeHex))

func init() {
	for s, hexes := range schemeHex {
		cols := make([]color.NRGBA, len(hexes))
		for i, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				panic(fmt.Sprintf("palette: bad authored colour %q: %v", h, err))
			}
			r, g, b := c.RGB255()
			cols[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
		}
		schemes[s] = cols
	}
}

// Label returns the human-readable name of s.
func (s Scheme) Label() string {
	if l, ok := schemeLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseScheme resolves a case-insensitive colour scheme name.
func ParseScheme(name string) (Scheme, error) {
	s := Scheme(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := schemes[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return s, nil
}

// For returns the per-frame colours of s. The slice is a copy.
// An unknown scheme returns nil.
func For(s Scheme) []color.NRGBA {
	cols, ok := schemes[s]
	if !ok {
		return nil
	}
	out := make([]color.NRGBA, len(cols))
	copy(out, cols)
	return out
}

// At returns the wash colour for frame i of s, indexed cyclically.
func At(s Scheme, i int) (color.NRGBA, bool) {
	cols, ok := schemes[s]
	if !ok || len(cols) == 0 {
		return color.NRGBA{}, false
	}
	i %= len(cols)
	if i < 0 {
		i += len(cols)
	}
	return cols[i], true
}
