package palette

import (
	"fmt"
	"strings"
)

// BlendMode is the compositing rule used to lay the wash colour over the
// grayscale frame.
type BlendMode string

const (
	Overlay  BlendMode = "overlay"
	Lighten  BlendMode = "lighten"
	Multiply BlendMode = "multiply"
)

// BlendModes lists the available modes in display order.
var BlendModes = []BlendMode{Overlay, Lighten, Multiply}

var blendLabels = map[BlendMode]string{
	Overlay:  "Overlay",
	Lighten:  "Lighten",
	Multiply: "Multiply",
}

// Label returns the human-readable name of m.
func (m BlendMode) Label() string {
	if l, ok := blendLabels[m]; ok {
		return l
	}
	return string(m)
}

// Valid reports whether m is one of BlendModes.
func (m BlendMode) Valid() bool {
	_, ok := blendLabels[m]
	return ok
}

// ParseBlendMode resolves a case-insensitive blend mode name.
func ParseBlendMode(name string) (BlendMode, error) {
	m := BlendMode(strings.ToLower(strings.TrimSpace(name)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBlend, name)
	}
	return m, nil
}

// Blend applies the separable blend function of m to a backdrop channel
// cb and a source channel cs, both in [0, 1].
func (m BlendMode) Blend(cb, cs float64) float64 {
	switch m {
	case Multiply:
		return cb * cs
	case Lighten:
		if cb > cs {
			return cb
		}
		return cs
	case Overlay:
		// Hard light with the operands swapped.
		if cb <= 0.5 {
			return cs * 2 * cb
		}
		d := 2*cb - 1
		return cs + d - cs*d
	}
	return cs
}
