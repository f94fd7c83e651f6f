package geometry

import (
	"errors"
	"fmt"
	"strings"
)

// FrameCount is the length of the animation loop. Every style and every
// colour scheme defines exactly this many entries.
const FrameCount = 10

// ErrUnknownStyle is returned when a wave style name is not in the table.
var ErrUnknownStyle = errors.New("geometry: unknown wave style")

// Style selects one of the authored wobble animations.
type Style string

const (
	Classic  Style = "classic"
	Centered Style = "centered"
	Bounce   Style = "bounce"
)

// Styles lists the wave styles in display order.
var Styles = []Style{Classic, Centered, Bounce}

var styleLabels = map[Style]string{
	Classic:  "Classic",
	Centered: "Centered",
	Bounce:   "Bounce/bop",
}

// Label returns the human-readable name of s.
func (s Style) Label() string {
	if l, ok := styleLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseStyle resolves a case-insensitive wave style name.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := targets[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, name)
	}
	return s, nil
}

// Authored target transforms at magnitude 1 and vertical anchor 1.
// Hand-tuned against a 200×200 canvas; there is no formula behind them.
var targets = map[Style][FrameCount]Matrix{
	Classic: {
		{1, 0, 0, 1, 0, 0},
		{0.99375, 0, 0.16679, 0.95027, -30.3727, 7.245},
		{1.04125, 0, 0.2315, 0.8621, -50.84534, 20.088},
		{1.0, 0, 0.28054, 0.82325, -51.28815, 25.97},
		{0.94375, 0, 0.11371, 0.80963, -27.00883, 27.8},
		{0.91125, 0, 0.04853, 0.766, 9.24426, 34.19},
		{0.9825, 0, -0.17287, 0.70702, 25.55122, 42.85},
		{1.02125, 0, -0.2405, 0.77915, 34.20272, 32.26},
		{1.02375, 0, -0.28875, 0.8225, 46.15469, 26.16},
		{0.9975, 0, -0.1975, 0.91375, 30.20937, 12.71},
	},
	Centered: {
		{1, 0, 0, 1, 0, 0},
		{1, 0, 0.223, 0.944, -33.375, 8.43},
		{1, 0, 0.326, 0.84, -48.94, 23.813},
		{1, 0, 0.315, 0.75, -47.25, 37.3},
		{1, 0, 0.236, 0.685, -35.44, 47.25},
		{1, 0, 0, 0.66, 0, 50},
		{1, 0, -0.236, 0.685, 35.44, 47.25},
		{1, 0, -0.315, 0.75, 47.25, 37.3},
		{1, 0, -0.326, 0.84, 48.94, 23.813},
		{1, 0, -0.223, 0.944, 33.375, 8.43},
	},
	Bounce: {
		{0.947, 0, 0, 1.22, 5.35, -32.43},
		{0.952, 0, 0, 1.182, 4.85, -27.189},
		{0.97, 0, 0, 1.152, 3.01, -22.699},
		{1.002, 0, 0, 1.087, -0.167, -12.97},
		{1.062, 0, 0, 0.99, -6.187, 1.49},
		{1.122, 0, 0, 0.898, -12.207, 15.22},
		{1.15, 0, 0, 0.847, -15.05, 22.95},
		{1.167, 0, 0, 0.84, -16.72, 23.947},
		{1.127, 0, 0, 0.902, -12.71, 14.72},
		{0.98, 0, 0, 1.11, 2.17, -16.71},
	},
}

// Target returns the authored transform for frame i of style s.
func Target(s Style, i int) (Matrix, bool) {
	t, ok := targets[s]
	if !ok {
		return Matrix{}, false
	}
	return t[mod(i, FrameCount)], true
}

// Matrices returns one transform per frame for the given style.
//
// The linear coefficients are blended from the identity toward the
// authored target by magnitude; the translation scales directly by
// magnitude, and the vertical translation additionally by verticalAnchor.
// Magnitude 0 yields the identity for every frame and magnitude 1 with
// anchor 1 reproduces the authored table.
//
// An unknown style returns an empty slice.
func Matrices(s Style, verticalAnchor, magnitude float64) []Matrix {
	t, ok := targets[s]
	if !ok {
		return nil
	}
	id := Identity()
	out := make([]Matrix, FrameCount)
	for i, target := range t {
		var m Matrix
		for k := 0; k < 4; k++ {
			m[k] = id[k] - (id[k]-target[k])*magnitude
		}
		m[4] = target[4] * magnitude
		m[5] = target[5] * verticalAnchor * magnitude
		out[i] = m
	}
	return out
}

// At returns transforms[i mod len(transforms)]. Styles may define fewer
// entries than FrameCount. ok is false for an empty table.
func At(transforms []Matrix, i int) (Matrix, bool) {
	if len(transforms) == 0 {
		return Matrix{}, false
	}
	return transforms[mod(i, len(transforms))], true
}

func mod(i, n int) int {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}
