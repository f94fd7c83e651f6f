package geometry

import "golang.org/x/image/math/f64"

// Matrix is a 2×3 affine transform in canvas order:
// [scaleX, skewY, skewX, scaleY, translateX, translateY].
// A point (x, y) maps to (a·x + c·y + e, b·x + d·y + f).
// Value type for zero heap allocation.
type Matrix [6]float64

// Identity returns the transform that leaves every point in place.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Apply maps a point through m.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// Aff3 converts m to the row-major source-to-destination matrix used by
// golang.org/x/image/draw.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
}

// Det returns the determinant of the linear part.
func (m Matrix) Det() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Inverse returns the inverse transform, or the identity if m is singular.
func (m Matrix) Inverse() Matrix {
	d := m.Det()
	if d == 0 {
		return Identity()
	}
	invD := 1.0 / d
	a := m[3] * invD
	b := -m[1] * invD
	c := -m[2] * invD
	dd := m[0] * invD
	return Matrix{
		a, b, c, dd,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + dd*m[5]),
	}
}
