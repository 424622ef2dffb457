package camera

// Linear is the JPL CAHV linear camera model: a center C, optical axis A,
// and horizontal/vertical image-plane vectors H and V. Pixel coordinates
// are ratios of the point's projection onto H/V against its projection
// onto A, so Project is exact pinhole perspective and Unproject solves the
// inverse linear system exactly, with no iteration needed.
type Linear struct {
	C Vec3 `json:"c"`
	A Vec3 `json:"a"`
	H Vec3 `json:"h"`
	V Vec3 `json:"v"`
}

func (m *Linear) Kind() string { return KindLinear }

func (m *Linear) Project(point Vec3) (Vec2, bool) {
	p := point.Sub(m.C)
	gamma := p.Dot(m.A)
	if gamma <= 0 {
		return Vec2{}, false
	}
	alpha := p.Dot(m.H)
	beta := p.Dot(m.V)
	return Vec2{X: alpha / gamma, Y: beta / gamma}, true
}

// Unproject solves for the ray direction d satisfying d.A=1, d.H=u, d.V=v
// (the exact inverse of Project, since Project is invariant to positive
// scaling of the ray), normalizes d, then walks distance along it from C.
func (m *Linear) Unproject(pixel Vec2, distance float64) Vec3 {
	mat := newMat3(m.A, m.H, m.V)
	d, ok := mat.Solve(Vec3{X: 1, Y: pixel.X, Z: pixel.Y})
	if !ok {
		return m.C
	}
	return m.C.Add(d.Normalize().Scale(distance))
}

func (m *Linear) Clone() Model {
	c := *m
	return &c
}

// FrustumHull returns the apex (camera center) plus the four far-plane
// corners of the view frustum, a closed-form convex hull (5 points,
// apex + far rectangle) usable directly as a mesh clip volume.
func (m *Linear) FrustumHull(imageWidth, imageHeight int, nearRange, farRange float64) []Vec3 {
	corners := []Vec2{
		{X: 0, Y: 0},
		{X: float64(imageWidth), Y: 0},
		{X: float64(imageWidth), Y: float64(imageHeight)},
		{X: 0, Y: float64(imageHeight)},
	}
	hull := make([]Vec3, 0, 5)
	hull = append(hull, m.C)
	for _, c := range corners {
		hull = append(hull, m.Unproject(c, farRange))
	}
	_ = nearRange // near plane is not part of the hull; callers clip against it separately if needed
	return hull
}
