// Package camera implements the polymorphic camera model (spec component
// D): a tagged variant over {linear (CAHV), radial-polynomial (CAHVOR),
// entrance-pupil (CAHVORE), orthographic-GIS}, each projecting a 3-D point
// to a pixel and unprojecting a pixel + range back to a 3-D point.
//
// Each variant sits behind one interface the way internal/coord.Projection
// dispatches ToWGS84/FromWGS84 across its own named projections: Project
// and Unproject here play that role, and UnmarshalModel's kind-tag dispatch
// mirrors coord.ForEPSG's lookup-by-identifier shape.
package camera

import "math"

// Vec3 is a 3-D point or direction.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3   { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3   { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}
func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Vec2 is a 2-D pixel coordinate.
type Vec2 struct{ X, Y float64 }

// Mat3 is a row-major 3x3 matrix, used to solve the CAHV unprojection
// system (three dot-product constraints against the camera's A/H/V axes).
type Mat3 struct {
	rows [3]Vec3
}

func newMat3(row0, row1, row2 Vec3) Mat3 {
	return Mat3{rows: [3]Vec3{row0, row1, row2}}
}

func (m Mat3) determinant() float64 {
	a, b, c := m.rows[0], m.rows[1], m.rows[2]
	return a.X*(b.Y*c.Z-b.Z*c.Y) - a.Y*(b.X*c.Z-b.Z*c.X) + a.Z*(b.X*c.Y-b.Y*c.X)
}

// Solve returns x such that M x = rhs, via Cramer's rule. ok is false when
// M is singular (the camera's A/H/V axes are degenerate).
func (m Mat3) Solve(rhs Vec3) (x Vec3, ok bool) {
	det := m.determinant()
	if math.Abs(det) < 1e-12 {
		return Vec3{}, false
	}
	// Replace each column in turn with rhs and take the determinant ratio.
	col := func(m Mat3, colIdx int) Mat3 {
		out := m
		switch colIdx {
		case 0:
			out.rows[0].X, out.rows[1].X, out.rows[2].X = rhs.X, rhs.Y, rhs.Z
		case 1:
			out.rows[0].Y, out.rows[1].Y, out.rows[2].Y = rhs.X, rhs.Y, rhs.Z
		case 2:
			out.rows[0].Z, out.rows[1].Z, out.rows[2].Z = rhs.X, rhs.Y, rhs.Z
		}
		return out
	}
	mx := col(m, 0)
	my := col(m, 1)
	mz := col(m, 2)
	return Vec3{
		X: mx.determinant() / det,
		Y: my.determinant() / det,
		Z: mz.determinant() / det,
	}, true
}
