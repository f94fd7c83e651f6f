package geometry

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b Matrix) bool {
	for k := range a {
		if math.Abs(a[k]-b[k]) > eps {
			return false
		}
	}
	return true
}

func TestMatrices_ZeroMagnitudeIsIdentity(t *testing.T) {
	for _, s := range Styles {
		for _, anchor := range []float64{-0.65, 0, 1, 2} {
			ms := Matrices(s, anchor, 0)
			if len(ms) != FrameCount {
				t.Fatalf("%s: expected %d matrices, got %d", s, FrameCount, len(ms))
			}
			for i, m := range ms {
				if !near(m, Identity()) {
					t.Errorf("%s anchor=%v frame %d: expected identity, got %v", s, anchor, i, m)
				}
			}
		}
	}
}

func TestMatrices_UnitMagnitudeReproducesTargets(t *testing.T) {
	for _, s := range Styles {
		ms := Matrices(s, 1, 1)
		for i, m := range ms {
			want, ok := Target(s, i)
			if !ok {
				t.Fatalf("%s: no target for frame %d", s, i)
			}
			if !near(m, want) {
				t.Errorf("%s frame %d: expected %v, got %v", s, i, want, m)
			}
		}
	}
}

func TestMatrices_Interpolation(t *testing.T) {
	ms := Matrices(Centered, 0.5, 0.5)
	// Frame 5 of the centered style: scaleY 0.66, translateY 50.
	got := ms[5]
	want := Matrix{1, 0, 0, 1 - (1-0.66)*0.5, 0, 50 * 0.5 * 0.5}
	if !near(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestMatrices_Deterministic(t *testing.T) {
	a := Matrices(Bounce, 1.2, 0.8)
	b := Matrices(Bounce, 1.2, 0.8)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("frame %d differs between calls: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestMatrices_UnknownStyle(t *testing.T) {
	if ms := Matrices(Style("wiggle"), 1, 1); len(ms) != 0 {
		t.Errorf("expected empty table for unknown style, got %d entries", len(ms))
	}
	if _, err := ParseStyle("wiggle"); !errors.Is(err, ErrUnknownStyle) {
		t.Errorf("expected ErrUnknownStyle, got %v", err)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in   string
		want Style
	}{
		{"classic", Classic},
		{" Centered ", Centered},
		{"BOUNCE", Bounce},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if err != nil {
			t.Fatalf("ParseStyle(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAt_WrapsShortTables(t *testing.T) {
	short := []Matrix{Identity(), {2, 0, 0, 2, 0, 0}}
	for i := -3; i < 7; i++ {
		m, ok := At(short, i)
		if !ok {
			t.Fatal("expected ok for non-empty table")
		}
		if m != short[mod(i, 2)] {
			t.Errorf("At(%d) = %v", i, m)
		}
	}
	if _, ok := At(nil, 0); ok {
		t.Error("expected !ok for empty table")
	}
}

func TestMatrix_InverseRoundTrip(t *testing.T) {
	m, _ := Target(Classic, 3)
	inv := m.Inverse()
	x, y := m.Apply(37, 121)
	bx, by := inv.Apply(x, y)
	if math.Abs(bx-37) > eps || math.Abs(by-121) > eps {
		t.Errorf("round trip gave (%v, %v)", bx, by)
	}
}

func TestMatrix_Aff3Layout(t *testing.T) {
	m := Matrix{1, 2, 3, 4, 5, 6}
	a := m.Aff3()
	// x' = a00·x + a01·y + a02 must agree with Apply.
	x, y := m.Apply(7, 11)
	if ax := a[0]*7 + a[1]*11 + a[2]; ax != x {
		t.Errorf("x: %v vs %v", ax, x)
	}
	if ay := a[3]*7 + a[4]*11 + a[5]; ay != y {
		t.Errorf("y: %v vs %v", ay, y)
	}
}
