package larch

import (
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Matrix is a 2D affine transform.
//
//	| A  C  Tx |
//	| B  D  Ty |
//	| 0  0   1 |
//
// A point (x, y) maps to (A*x + C*y + Tx, B*x + D*y + Ty). The zero value is
// not the identity; use IdentityMatrix or Identity.
type Matrix struct {
	A, B, C, D, Tx, Ty float64
}

// IdentityMatrix returns the identity transform.
func IdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewMatrix returns a matrix with the given components.
func NewMatrix(a, b, c, d, tx, ty float64) Matrix {
	return Matrix{A: a, B: b, C: c, D: d, Tx: tx, Ty: ty}
}

// Identity resets m to the identity transform.
func (m *Matrix) Identity() {
	*m = Matrix{A: 1, D: 1}
}

// IsIdentity reports whether m is exactly the identity transform.
func (m Matrix) IsIdentity() bool {
	return m == Matrix{A: 1, D: 1}
}

// mul returns p * c: the transform that applies c first, then p.
func mul(p, c Matrix) Matrix {
	return Matrix{
		A:  p.A*c.A + p.C*c.B,
		B:  p.B*c.A + p.D*c.B,
		C:  p.A*c.C + p.C*c.D,
		D:  p.B*c.C + p.D*c.D,
		Tx: p.A*c.Tx + p.C*c.Ty + p.Tx,
		Ty: p.B*c.Tx + p.D*c.Ty + p.Ty,
	}
}

// Append post-concatenates o: the result applies m first, then o.
func (m *Matrix) Append(o Matrix) {
	*m = mul(o, *m)
}

// Prepend pre-concatenates o: the result applies o first, then m.
func (m *Matrix) Prepend(o Matrix) {
	*m = mul(*m, o)
}

// Translate appends a translation by (dx, dy).
func (m *Matrix) Translate(dx, dy float64) {
	m.Tx += dx
	m.Ty += dy
}

// Scale appends a scale by (sx, sy).
func (m *Matrix) Scale(sx, sy float64) {
	if sx != 1 {
		m.A *= sx
		m.C *= sx
		m.Tx *= sx
	}
	if sy != 1 {
		m.B *= sy
		m.D *= sy
		m.Ty *= sy
	}
}

// Rotate appends a rotation by angle radians (clockwise with Y down).
func (m *Matrix) Rotate(angle float64) {
	if angle == 0 {
		return
	}
	sin, cos := math.Sincos(angle)
	m.Append(Matrix{A: cos, B: sin, C: -sin, D: cos})
}

// Skew appends a skew. skewX tilts the Y axis and skewY tilts the X axis,
// both in radians.
func (m *Matrix) Skew(skewX, skewY float64) {
	sinX, cosX := math.Sincos(skewX)
	sinY, cosY := math.Sincos(skewY)
	m.Append(Matrix{A: cosY, B: sinY, C: -sinX, D: cosX})
}

// TransformPoint applies m to the point (x, y).
func (m Matrix) TransformPoint(x, y float64) Vec2 {
	return Vec2{
		X: m.A*x + m.C*y + m.Tx,
		Y: m.B*x + m.D*y + m.Ty,
	}
}

// TransformVector applies the linear part of m to (x, y), ignoring translation.
func (m Matrix) TransformVector(x, y float64) Vec2 {
	return Vec2{
		X: m.A*x + m.C*y,
		Y: m.B*x + m.D*y,
	}
}

// Determinant returns A*D - B*C.
func (m Matrix) Determinant() float64 {
	return m.A*m.D - m.B*m.C
}

// Invert replaces m with its inverse. It returns ErrSingularMatrix and
// leaves m untouched when the determinant is zero.
func (m *Matrix) Invert() error {
	inv, err := m.Inverted()
	if err != nil {
		return err
	}
	*m = inv
	return nil
}

// Inverted returns the inverse of m.
func (m Matrix) Inverted() (Matrix, error) {
	det := m.Determinant()
	if det == 0 {
		return Matrix{}, fmt.Errorf("larch: invert %v: %w", m, ErrSingularMatrix)
	}
	invDet := 1.0 / det
	a := m.D * invDet
	b := -m.B * invDet
	c := -m.C * invDet
	d := m.A * invDet
	return Matrix{
		A: a, B: b, C: c, D: d,
		Tx: -(a*m.Tx + c*m.Ty),
		Ty: -(b*m.Tx + d*m.Ty),
	}, nil
}

// ApproxEqual reports whether every component of m and o differs by at most eps.
func (m Matrix) ApproxEqual(o Matrix, eps float64) bool {
	return math.Abs(m.A-o.A) <= eps &&
		math.Abs(m.B-o.B) <= eps &&
		math.Abs(m.C-o.C) <= eps &&
		math.Abs(m.D-o.D) <= eps &&
		math.Abs(m.Tx-o.Tx) <= eps &&
		math.Abs(m.Ty-o.Ty) <= eps
}

// GeoM converts m into an ebiten.GeoM.
func (m Matrix) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(1, 0, m.B)
	g.SetElement(0, 1, m.C)
	g.SetElement(1, 1, m.D)
	g.SetElement(0, 2, m.Tx)
	g.SetElement(1, 2, m.Ty)
	return g
}

// String formats m as (a, b, c, d, tx, ty).
func (m Matrix) String() string {
	return fmt.Sprintf("(a=%g, b=%g, c=%g, d=%g, tx=%g, ty=%g)", m.A, m.B, m.C, m.D, m.Tx, m.Ty)
}

// --- Components ---

// TransformComponents is the decomposed form of a local transform.
//
// Composition order, applied to a local point:
//
//	Translate(-PivotX, -PivotY) -> Scale -> Skew -> Rotate -> Translate(X, Y)
//
// Skew tilts the axes: the X axis is turned by SkewY and the Y axis by SkewX,
// so a pure rotation is equivalent to SkewX == SkewY.
type TransformComponents struct {
	X, Y           float64
	PivotX, PivotY float64
	ScaleX, ScaleY float64
	Rotation       float64
	SkewX, SkewY   float64
}

// Matrix composes the components into an affine matrix.
func (tc TransformComponents) Matrix() Matrix {
	var m Matrix
	if tc.SkewX == 0 && tc.SkewY == 0 {
		if tc.Rotation == 0 {
			m = Matrix{A: tc.ScaleX, D: tc.ScaleY}
		} else {
			sin, cos := math.Sincos(tc.Rotation)
			m = Matrix{
				A: tc.ScaleX * cos,
				B: tc.ScaleX * sin,
				C: -tc.ScaleY * sin,
				D: tc.ScaleY * cos,
			}
		}
	} else {
		sinX, cosX := math.Sincos(tc.Rotation + tc.SkewX)
		sinY, cosY := math.Sincos(tc.Rotation + tc.SkewY)
		m = Matrix{
			A: tc.ScaleX * cosY,
			B: tc.ScaleX * sinY,
			C: -tc.ScaleY * sinX,
			D: tc.ScaleY * cosX,
		}
	}
	m.Tx = tc.X - (tc.PivotX*m.A + tc.PivotY*m.C)
	m.Ty = tc.Y - (tc.PivotX*m.B + tc.PivotY*m.D)
	return m
}

// Decompose recovers components whose Matrix reproduces m exactly (up to
// rounding). The result is canonical rather than unique: SkewY is always
// zero, any X-axis tilt is reported as Rotation, and the remaining shear as
// SkewX. Scales are never negative; reflections appear as a SkewX of π.
// Pivot is always zero.
func (m Matrix) Decompose() TransformComponents {
	return TransformComponents{
		X:        m.Tx,
		Y:        m.Ty,
		ScaleX:   m.ScaleX(),
		ScaleY:   m.ScaleY(),
		Rotation: m.Rotation(),
		SkewX:    m.SkewX(),
		SkewY:    m.SkewY(),
	}
}

// ScaleX returns the length of the transformed X axis.
func (m Matrix) ScaleX() float64 {
	return math.Hypot(m.A, m.B)
}

// ScaleY returns the length of the transformed Y axis.
func (m Matrix) ScaleY() float64 {
	return math.Hypot(m.C, m.D)
}

// Rotation returns the angle of the transformed X axis.
func (m Matrix) Rotation() float64 {
	return math.Atan2(m.B, m.A)
}

// SkewX returns the shear of the transformed Y axis relative to Rotation.
func (m Matrix) SkewX() float64 {
	return normalizeAngle(math.Atan2(-m.C, m.D) - m.Rotation())
}

// SkewY is always zero in the canonical decomposition; the X-axis tilt is
// reported by Rotation.
func (m Matrix) SkewY() float64 {
	return 0
}

// normalizeAngle maps an angle into (-π, π].
func normalizeAngle(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
