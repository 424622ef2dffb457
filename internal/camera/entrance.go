package camera

// EntrancePupil is the JPL CAHVORE model: a RadialPolynomial core plus an
// entrance-pupil parameter E describing how the effective optical center
// shifts along the optical axis A as a function of the off-axis angle, and
// a Linearity parameter in [0,1] (0 = full entrance-pupil shift, 1 =
// shift suppressed, degrading to the plain CAHVOR/RadialPolynomial model),
// matching the spec's "entrance pupil" variant.
type EntrancePupil struct {
	C         Vec3       `json:"c"`
	A         Vec3       `json:"a"`
	H         Vec3       `json:"h"`
	V         Vec3       `json:"v"`
	O         Vec3       `json:"o"`
	R         [3]float64 `json:"r"`
	E         [3]float64 `json:"e"`
	Linearity float64    `json:"linearity"`
}

func (m *EntrancePupil) Kind() string { return KindEntrancePupil }

func (m *EntrancePupil) radial() RadialPolynomial {
	return RadialPolynomial{C: m.C, A: m.A, H: m.H, V: m.V, O: m.O, R: m.R}
}

func (m *EntrancePupil) shiftedRadial(shift float64) RadialPolynomial {
	r := m.radial()
	r.C = r.C.Add(m.A.Scale(shift))
	return r
}

// pupilShift returns the along-axis displacement of the effective camera
// center for a ray at normalized off-axis squared radius rho2 (relative to
// the underlying RadialPolynomial core), blended by Linearity: at
// Linearity=0 the shift follows the full E polynomial (a real
// entrance-pupil camera); at Linearity=1 the shift is suppressed entirely,
// degrading exactly to the underlying CAHVOR behavior.
func (m *EntrancePupil) pupilShift(rho2 float64) float64 {
	shift := m.E[0] + m.E[1]*rho2 + m.E[2]*rho2*rho2
	return shift * (1 - m.Linearity)
}

// rho2 computes the normalized squared off-axis radius of a pixel against
// the unshifted radial core's principal point, used to evaluate pupilShift.
func (m *EntrancePupil) rho2(r RadialPolynomial, pixel Vec2) float64 {
	lin := r.linear()
	principal, ok := lin.Project(m.C.Add(m.O))
	if !ok {
		principal = Vec2{}
	}
	scale := r.focalScale()
	dx, dy := pixel.X-principal.X, pixel.Y-principal.Y
	nx, ny := dx/scale, dy/scale
	return nx*nx + ny*ny
}

func (m *EntrancePupil) Project(point Vec3) (Vec2, bool) {
	r := m.radial()
	baseline, ok := r.Project(point)
	if !ok {
		return Vec2{}, false
	}
	shift := m.pupilShift(m.rho2(r, baseline))
	if shift == 0 {
		return baseline, true
	}
	return m.shiftedRadial(shift).Project(point)
}

func (m *EntrancePupil) Unproject(pixel Vec2, distance float64) Vec3 {
	r := m.radial()
	shift := m.pupilShift(m.rho2(r, pixel))
	return m.shiftedRadial(shift).Unproject(pixel, distance)
}

func (m *EntrancePupil) Clone() Model {
	c := *m
	return &c
}
