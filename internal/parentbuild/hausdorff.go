package parentbuild

import "github.com/NASA-AMMOS/Landform-sub006/internal/mesh"

// hausdorffDistance estimates the one-directional Hausdorff distance from m
// to target: the maximum, over a sample of points on m, of each point's
// distance to its closest point on target. A true continuous Hausdorff
// distance would need to sample every point of m's surface; this instead
// samples each face's three vertices and centroid, refined with edge
// midpoints when a face's longest edge exceeds accuracy — accuracy (derived
// from Options.HausdorffRelativeAccuracy) is the threshold below which a
// face is considered small enough that its vertex/centroid samples already
// bound the true distance closely.
func hausdorffDistance(m, target *mesh.Mesh, accuracy float64) float64 {
	targetIndex := mesh.BuildIndex(target)
	maxDist := 0.0

	measure := func(p mesh.Vec3) {
		face, ok := targetIndex.NearestTriangle(p)
		if !ok {
			return
		}
		tri := target.Faces[face]
		a, b, c := target.Vertices[tri[0]].Position, target.Vertices[tri[1]].Position, target.Vertices[tri[2]].Position
		d := p.Sub(closestPointOnTriangle(p, a, b, c)).Length()
		if d > maxDist {
			maxDist = d
		}
	}

	for _, v := range m.Vertices {
		measure(v.Position)
	}
	for f := range m.Faces {
		tri := m.Faces[f]
		a, b, c := m.Vertices[tri[0]].Position, m.Vertices[tri[1]].Position, m.Vertices[tri[2]].Position
		measure(centroid3(a, b, c))
		if accuracy > 0 {
			if longestEdge(a, b, c) > accuracy {
				measure(midpoint(a, b))
				measure(midpoint(b, c))
				measure(midpoint(c, a))
			}
		}
	}
	return maxDist
}

func centroid3(a, b, c mesh.Vec3) mesh.Vec3 {
	return a.Add(b).Add(c).Scale(1.0 / 3.0)
}

func midpoint(a, b mesh.Vec3) mesh.Vec3 {
	return a.Add(b).Scale(0.5)
}

func longestEdge(a, b, c mesh.Vec3) float64 {
	ab := b.Sub(a).Length()
	bc := c.Sub(b).Length()
	ca := a.Sub(c).Length()
	max := ab
	if bc > max {
		max = bc
	}
	if ca > max {
		max = ca
	}
	return max
}

// closestPointOnTriangle returns the closest point to p on triangle (a,b,c),
// the standard clamped-barycentric algorithm (Ericson, Real-Time Collision
// Detection §5.1.5).
func closestPointOnTriangle(p, a, b, c mesh.Vec3) mesh.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}
