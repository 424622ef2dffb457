// Package mesh implements a triangle mesh plus a derived spatial index over
// its faces supporting clip, area, face-count, UV<->barycentric lookup,
// nearest-triangle search, and sub-sampling.
//
// The mesh/index split — a plain data type plus a derived index built on
// demand — keeps the mesh itself free of any persistent index, since a
// triangle mesh needs an actual spatial structure to answer nearest-face
// queries in better than linear time; that structure is gonum's
// spatial/kdtree, keyed on face centroids.
package mesh

import "math"

// Vec3 is a 3-D point or direction, kept local to this package rather than
// reusing camera.Vec3 — each package owns its own primitives so neither
// depends on the other.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3      { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3      { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}
func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

// Vec2 is a 2-D UV coordinate.
type Vec2 struct{ X, Y float64 }

func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }

// Color is an optional per-vertex RGBA color in [0,1].
type Color struct{ R, G, B, A float64 }

// Vertex carries position plus optional normal/color/UV attributes.
type Vertex struct {
	Position Vec3
	Normal   *Vec3
	Color    *Color
	UV       *Vec2
}

// Mesh is an unordered set of triangles (Faces) referencing a shared
// Vertices slice.
type Mesh struct {
	Vertices []Vertex
	Faces    [][3]int
}

// New returns an empty mesh.
func New() *Mesh { return &Mesh{} }

// Clone deep-copies the mesh.
func (m *Mesh) Clone() *Mesh {
	out := &Mesh{
		Vertices: append([]Vertex(nil), m.Vertices...),
		Faces:    append([][3]int(nil), m.Faces...),
	}
	for i, v := range m.Vertices {
		if v.Normal != nil {
			n := *v.Normal
			out.Vertices[i].Normal = &n
		}
		if v.Color != nil {
			c := *v.Color
			out.Vertices[i].Color = &c
		}
		if v.UV != nil {
			u := *v.UV
			out.Vertices[i].UV = &u
		}
	}
	return out
}

func (m *Mesh) FaceCount() int { return len(m.Faces) }
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

func (m *Mesh) faceVerts(f int) (a, b, c Vertex) {
	tri := m.Faces[f]
	return m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]
}

// Centroid returns the average position of a face's three vertices.
func (m *Mesh) Centroid(f int) Vec3 {
	a, b, c := m.faceVerts(f)
	return a.Position.Add(b.Position).Add(c.Position).Scale(1.0 / 3.0)
}

// TriangleArea returns a face's area in world space.
func (m *Mesh) TriangleArea(f int) float64 {
	a, b, c := m.faceVerts(f)
	e1 := b.Position.Sub(a.Position)
	e2 := c.Position.Sub(a.Position)
	return 0.5 * e1.Cross(e2).Length()
}

// Area sums TriangleArea over every face.
func (m *Mesh) Area() float64 {
	total := 0.0
	for f := range m.Faces {
		total += m.TriangleArea(f)
	}
	return total
}

// UVTriangleArea returns a face's area in UV space, or 0 if any of its
// vertices lack a UV.
func (m *Mesh) UVTriangleArea(f int) float64 {
	a, b, c := m.faceVerts(f)
	if a.UV == nil || b.UV == nil || c.UV == nil {
		return 0
	}
	e1 := b.UV.Sub(*a.UV)
	e2 := c.UV.Sub(*a.UV)
	return 0.5 * math.Abs(e1.X*e2.Y-e1.Y*e2.X)
}

// UVArea sums UVTriangleArea over every face.
func (m *Mesh) UVArea() float64 {
	total := 0.0
	for f := range m.Faces {
		total += m.UVTriangleArea(f)
	}
	return total
}

// MinMaxTriArea returns the smallest and largest face area in world space.
// Returns (0,0) for an empty mesh.
func (m *Mesh) MinMaxTriArea() (min, max float64) {
	if len(m.Faces) == 0 {
		return 0, 0
	}
	min = math.Inf(1)
	max = math.Inf(-1)
	for f := range m.Faces {
		a := m.TriangleArea(f)
		if a < min {
			min = a
		}
		if a > max {
			max = a
		}
	}
	return
}

// Barycentric returns the barycentric coordinates of world-space point p
// against face f's plane. ok is false when p doesn't project inside the
// triangle (within a small tolerance) or the triangle is degenerate.
func (m *Mesh) Barycentric(f int, p Vec3) (u, v, w float64, ok bool) {
	a, b, c := m.faceVerts(f)
	return barycentric(a.Position, b.Position, c.Position, p)
}

// UVBarycentric returns the barycentric coordinates of UV point uv against
// face f's UV triangle.
func (m *Mesh) UVBarycentric(f int, uv Vec2) (u, v, w float64, ok bool) {
	a, b, c := m.faceVerts(f)
	if a.UV == nil || b.UV == nil || c.UV == nil {
		return 0, 0, 0, false
	}
	return barycentric(
		Vec3{a.UV.X, a.UV.Y, 0},
		Vec3{b.UV.X, b.UV.Y, 0},
		Vec3{c.UV.X, c.UV.Y, 0},
		Vec3{uv.X, uv.Y, 0},
	)
}

func barycentric(a, b, c, p Vec3) (u, v, w float64, ok bool) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)
	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)
	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-15 {
		return 0, 0, 0, false
	}
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	const eps = 1e-6
	ok = u >= -eps && v >= -eps && w >= -eps
	return
}

// Subsample returns a new mesh keeping every stride-th face (uniform
// decimation), used by the Parent Builder when a merged mesh exceeds its
// target face budget and a cheap, index-preserving reduction is enough.
func (m *Mesh) Subsample(stride int) *Mesh {
	if stride <= 1 {
		return m.Clone()
	}
	out := &Mesh{Vertices: append([]Vertex(nil), m.Vertices...)}
	for i := 0; i < len(m.Faces); i += stride {
		out.Faces = append(out.Faces, m.Faces[i])
	}
	return out
}
