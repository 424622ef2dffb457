package mesh

import (
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// faceNode is a kdtree.Comparable wrapping a face centroid plus the face
// index it came from, so Index.Nearest can recover the originating face
// after the tree has reordered its backing slice during construction.
type faceNode struct {
	pos   Vec3
	face  int
}

func (f faceNode) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	o := c.(faceNode)
	return coord(f.pos, d) - coord(o.pos, d)
}

func (f faceNode) Dims() int { return 3 }

func (f faceNode) Distance(c kdtree.Comparable) float64 {
	o := c.(faceNode)
	dx, dy, dz := f.pos.X-o.pos.X, f.pos.Y-o.pos.Y, f.pos.Z-o.pos.Z
	return dx*dx + dy*dy + dz*dz
}

func coord(p Vec3, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// faceNodes implements kdtree.Interface over a slice of faceNode, using a
// full per-dimension sort to pick the median pivot rather than a linear
// quickselect — simpler to get right than the in-place partition schemes
// kdtree libraries usually use, at the cost of an extra log factor on
// index construction, which is fine here since indices are built once per
// tile's mesh rather than per query.
type faceNodes []faceNode

func (f faceNodes) Index(i int) kdtree.Comparable { return f[i] }
func (f faceNodes) Len() int                      { return len(f) }

func (f faceNodes) Pivot(d kdtree.Dim) int {
	sort.Slice(f, func(i, j int) bool { return coord(f[i].pos, d) < coord(f[j].pos, d) })
	return len(f) / 2
}

func (f faceNodes) Slice(start, end int) kdtree.Interface { return f[start:end] }

// Index is a spatial index over a Mesh's faces, keyed by face centroid,
// supporting nearest-triangle search (used by the Texture Baker to find
// which source triangle backs a destination UV sample).
type Index struct {
	mesh *Mesh
	tree *kdtree.Tree
}

// BuildIndex constructs a kdtree over the mesh's face centroids.
func BuildIndex(m *Mesh) *Index {
	nodes := make(faceNodes, m.FaceCount())
	for f := 0; f < m.FaceCount(); f++ {
		nodes[f] = faceNode{pos: m.Centroid(f), face: f}
	}
	tree := kdtree.New(nodes, true)
	return &Index{mesh: m, tree: tree}
}

// NearestTriangle returns the index of the face whose centroid is closest
// to p. ok is false for an empty mesh.
func (idx *Index) NearestTriangle(p Vec3) (face int, ok bool) {
	if idx.mesh.FaceCount() == 0 {
		return 0, false
	}
	got, _ := idx.tree.Nearest(faceNode{pos: p})
	return got.(faceNode).face, true
}

// NearestTriangleContaining first tries the face whose XYZ centroid is
// nearest to (uv.X, uv.Y, 0); if that face's UV triangle does not contain
// uv, it returns the first face in index order whose UV triangle does, and
// if none does, the nearest-centroid face with ok=false — used by the
// Texture Baker when resampling source textures into a destination UV
// layout.
func (idx *Index) NearestTriangleContaining(uv Vec2) (face int, u, v, w float64, ok bool) {
	centroidGuess, found := idx.NearestTriangle(Vec3{X: uv.X, Y: uv.Y, Z: 0})
	if !found {
		return 0, 0, 0, 0, false
	}
	if bu, bv, bw, ok := idx.mesh.UVBarycentric(centroidGuess, uv); ok {
		return centroidGuess, bu, bv, bw, true
	}
	// Fall back to a linear scan; the kdtree is built over XYZ centroids,
	// not UV space, so the nearest XYZ face is only a heuristic starting
	// point for the common case where UV layout tracks XYZ layout.
	for f := 0; f < idx.mesh.FaceCount(); f++ {
		if bu, bv, bw, ok := idx.mesh.UVBarycentric(f, uv); ok {
			return f, bu, bv, bw, true
		}
	}
	return centroidGuess, 0, 0, 0, false
}
