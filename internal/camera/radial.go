package camera

// RadialPolynomial is the JPL CAHVOR non-linear camera model: a CAHV linear
// core plus an optical axis O and radial distortion coefficients R
// (R[0]..R[2], applied to increasing powers of the normalized off-axis
// radius). Project first computes the underlying linear pixel, then
// displaces it radially around the optical-axis principal point; Unproject
// undoes the same displacement with a fixed-point iteration, since the
// distortion polynomial has no closed-form inverse, then solves the same
// linear system Linear.Unproject uses.
type RadialPolynomial struct {
	C Vec3       `json:"c"`
	A Vec3       `json:"a"`
	H Vec3       `json:"h"`
	V Vec3       `json:"v"`
	O Vec3       `json:"o"`
	R [3]float64 `json:"r"`
}

func (m *RadialPolynomial) Kind() string { return KindRadialPolynomial }

func (m *RadialPolynomial) linear() Linear {
	return Linear{C: m.C, A: m.A, H: m.H, V: m.V}
}

// focalScale is the characteristic pixel-per-unit-angle scale of H/V, used
// to turn a raw pixel offset into a dimensionless normalized radius before
// the R coefficients are applied (R is defined against a normalized radius,
// the same convention the underlying JPL CAHVOR model uses).
func (m *RadialPolynomial) focalScale() float64 {
	return (m.H.Length() + m.V.Length()) / 2
}

// distortionFactor returns the multiplicative radial scale for a ray at
// normalized squared radius rho2 (dimensionless, rho2 = 1 at one focal-
// length off-axis).
func (m *RadialPolynomial) distortionFactor(rho2 float64) float64 {
	return 1 + m.R[0]*rho2 + m.R[1]*rho2*rho2 + m.R[2]*rho2*rho2*rho2
}

func (m *RadialPolynomial) Project(point Vec3) (Vec2, bool) {
	lin := m.linear()
	pixel, ok := lin.Project(point)
	if !ok {
		return Vec2{}, false
	}
	principal, okp := lin.Project(m.C.Add(m.O))
	if !okp {
		principal = Vec2{}
	}
	scale := m.focalScale()
	dx, dy := pixel.X-principal.X, pixel.Y-principal.Y
	nx, ny := dx/scale, dy/scale
	f := m.distortionFactor(nx*nx + ny*ny)
	return Vec2{X: principal.X + dx*f, Y: principal.Y + dy*f}, true
}

// Unproject inverts the radial displacement with a fixed-point iteration
// before solving the same linear system Linear.Unproject uses.
func (m *RadialPolynomial) Unproject(pixel Vec2, distance float64) Vec3 {
	lin := m.linear()
	principal, okp := lin.Project(m.C.Add(m.O))
	if !okp {
		principal = Vec2{}
	}
	scale := m.focalScale()
	dx, dy := pixel.X-principal.X, pixel.Y-principal.Y
	ux, uy := dx, dy
	for i := 0; i < 8; i++ {
		nx, ny := ux/scale, uy/scale
		f := m.distortionFactor(nx*nx + ny*ny)
		if f == 0 {
			break
		}
		ux, uy = dx/f, dy/f
	}
	undistorted := Vec2{X: principal.X + ux, Y: principal.Y + uy}
	return lin.Unproject(undistorted, distance)
}

func (m *RadialPolynomial) Clone() Model {
	c := *m
	return &c
}
