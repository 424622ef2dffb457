package mesh

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec3
}

// Contains reports whether p lies within the box (inclusive).
func (b Bounds) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		Min: Vec3{min3(b.Min.X, o.Min.X), min3(b.Min.Y, o.Min.Y), min3(b.Min.Z, o.Min.Z)},
		Max: Vec3{max3(b.Max.X, o.Max.X), max3(b.Max.Y, o.Max.Y), max3(b.Max.Z, o.Max.Z)},
	}
}

func min3(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max3(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// ComputeBounds returns the union bounding box of a set of points, used by
// the Tile Tree's bottom-up ComputeBounds (component F) over a tile's own
// mesh vertices.
func ComputeBounds(points []Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = Vec3{min3(b.Min.X, p.X), min3(b.Min.Y, p.Y), min3(b.Min.Z, p.Z)}
		b.Max = Vec3{max3(b.Max.X, p.X), max3(b.Max.Y, p.Y), max3(b.Max.Z, p.Z)}
	}
	return b
}

// MeshBounds returns the bounding box of every vertex position in m.
func (m *Mesh) MeshBounds() Bounds {
	points := make([]Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		points[i] = v.Position
	}
	return ComputeBounds(points)
}

// clipVertex is a polygon vertex carrying the same optional attributes as
// Vertex, used as the working representation during Sutherland-Hodgman
// clipping (a clipped polygon can have more or fewer vertices than a
// triangle, so it can't be stored as a Vertex slice directly).
type clipVertex struct {
	pos    Vec3
	normal *Vec3
	color  *Color
	uv     *Vec2
}

func toClipVertex(v Vertex) clipVertex {
	return clipVertex{pos: v.Position, normal: v.Normal, color: v.Color, uv: v.UV}
}

func lerpClipVertex(a, b clipVertex, t float64) clipVertex {
	out := clipVertex{pos: a.pos.Add(b.pos.Sub(a.pos).Scale(t))}
	if a.normal != nil && b.normal != nil {
		n := a.normal.Add(b.normal.Sub(*a.normal).Scale(t))
		out.normal = &n
	}
	if a.color != nil && b.color != nil {
		c := Color{
			R: a.color.R + (b.color.R-a.color.R)*t,
			G: a.color.G + (b.color.G-a.color.G)*t,
			B: a.color.B + (b.color.B-a.color.B)*t,
			A: a.color.A + (b.color.A-a.color.A)*t,
		}
		out.color = &c
	}
	if a.uv != nil && b.uv != nil {
		u := Vec2{X: a.uv.X + (b.uv.X-a.uv.X)*t, Y: a.uv.Y + (b.uv.Y-a.uv.Y)*t}
		out.uv = &u
	}
	return out
}

// clipAgainstPlane runs one Sutherland-Hodgman pass against a single axis-
// aligned plane. axis selects X/Y/Z (0/1/2); keepMax=true keeps the side
// coord<=value (used for the box's max faces), keepMax=false keeps
// coord>=value (used for the box's min faces).
func clipAgainstPlane(poly []clipVertex, axis int, value float64, keepMax bool) []clipVertex {
	if len(poly) == 0 {
		return nil
	}
	coordOf := func(p Vec3) float64 {
		switch axis {
		case 0:
			return p.X
		case 1:
			return p.Y
		default:
			return p.Z
		}
	}
	inside := func(v clipVertex) bool {
		c := coordOf(v.pos)
		if keepMax {
			return c <= value
		}
		return c >= value
	}

	var out []clipVertex
	n := len(poly)
	for i := 0; i < n; i++ {
		cur := poly[i]
		prev := poly[(i-1+n)%n]
		curIn := inside(cur)
		prevIn := inside(prev)
		if curIn {
			if !prevIn {
				t := intersectParam(coordOf(prev.pos), coordOf(cur.pos), value)
				out = append(out, lerpClipVertex(prev, cur, t))
			}
			out = append(out, cur)
		} else if prevIn {
			t := intersectParam(coordOf(prev.pos), coordOf(cur.pos), value)
			out = append(out, lerpClipVertex(prev, cur, t))
		}
	}
	return out
}

func intersectParam(a, b, value float64) float64 {
	if b == a {
		return 0
	}
	return (value - a) / (b - a)
}

// Clip returns a new mesh containing only the portion of m's geometry
// inside bounds, cutting any triangle that straddles a face of the box via
// Sutherland-Hodgman polygon clipping against each of the box's 6 planes,
// then fan-triangulating the resulting convex polygon.
func (m *Mesh) Clip(bounds Bounds) *Mesh {
	out := &Mesh{}
	for f := 0; f < m.FaceCount(); f++ {
		a, b, c := m.faceVerts(f)
		poly := []clipVertex{toClipVertex(a), toClipVertex(b), toClipVertex(c)}

		poly = clipAgainstPlane(poly, 0, bounds.Min.X, false)
		poly = clipAgainstPlane(poly, 0, bounds.Max.X, true)
		poly = clipAgainstPlane(poly, 1, bounds.Min.Y, false)
		poly = clipAgainstPlane(poly, 1, bounds.Max.Y, true)
		poly = clipAgainstPlane(poly, 2, bounds.Min.Z, false)
		poly = clipAgainstPlane(poly, 2, bounds.Max.Z, true)

		if len(poly) < 3 {
			continue
		}
		base := len(out.Vertices)
		for _, cv := range poly {
			out.Vertices = append(out.Vertices, Vertex{Position: cv.pos, Normal: cv.normal, Color: cv.color, UV: cv.uv})
		}
		for i := 1; i < len(poly)-1; i++ {
			out.Faces = append(out.Faces, [3]int{base, base + i, base + i + 1})
		}
	}
	return out
}
