package tiletree

import (
	"github.com/paulmach/orb"

	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

// ComputeBounds recomputes every node's Bounds bottom-up: a leaf's Bounds is
// its OwnBounds (the bounding box of the mesh it carries); a parent's Bounds
// is the union of its children's Bounds, additionally unioned with its own
// mesh's bounds if it carries one too.
func (t *Tree) ComputeBounds() mesh.Bounds {
	var visit func(id string) mesh.Bounds
	visit = func(id string) mesh.Bounds {
		node := t.Nodes[id]

		if len(node.Children) == 0 {
			if node.OwnBounds != nil {
				node.Bounds = *node.OwnBounds
			}
			return node.Bounds
		}

		result := visit(node.Children[0])
		for _, cid := range node.Children[1:] {
			result = result.Union(visit(cid))
		}
		if node.OwnBounds != nil {
			result = result.Union(*node.OwnBounds)
		}
		node.Bounds = result
		return result
	}
	return visit(RootID)
}

// ScaleBounds grows (or shrinks) b by ratio around its own center, used to
// pad a search region before a containment/intersection test.
func ScaleBounds(b mesh.Bounds, ratio float64) mesh.Bounds {
	center := mesh.Vec3{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
		Z: (b.Min.Z + b.Max.Z) / 2,
	}
	half := mesh.Vec3{
		X: (b.Max.X - b.Min.X) / 2 * ratio,
		Y: (b.Max.Y - b.Min.Y) / 2 * ratio,
		Z: (b.Max.Z - b.Min.Z) / 2 * ratio,
	}
	return mesh.Bounds{
		Min: mesh.Vec3{X: center.X - half.X, Y: center.Y - half.Y, Z: center.Z - half.Z},
		Max: mesh.Vec3{X: center.X + half.X, Y: center.Y + half.Y, Z: center.Z + half.Z},
	}
}

func toOrbBound(b mesh.Bounds) orb.Bound {
	return orb.Bound{Min: orb.Point{b.Min.X, b.Min.Y}, Max: orb.Point{b.Max.X, b.Max.Y}}
}

// Intersects reports whether two axis-aligned boxes overlap (touching at a
// face counts as overlap). The horizontal (X/Y) footprint test is delegated
// to orb.Bound.Intersects, matching the footprint-bound primitive the
// watercolormap example repo uses throughout its own tile-coordinate math;
// the vertical (Z) extent, which orb's 2-D Bound has no notion of, is
// checked directly.
func Intersects(a, b mesh.Bounds) bool {
	if !toOrbBound(a).Intersects(toOrbBound(b)) {
		return false
	}
	return a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// FindNodesRequiredForParent returns every node in the tree that must be
// built before node's own parent geometry can be assembled: nodes whose
// bounds intersect node's children's union bounds (scaled by
// ChildBoundsSearchRatio), restricted to leaves or nodes at least one level
// deeper than node itself — a conservative superset of node's topological
// children, wide enough to catch neighboring tiles whose geometry bleeds
// across the nominal child boundary.
func (t *Tree) FindNodesRequiredForParent(node *Tile) []*Tile {
	if len(node.Children) == 0 {
		return nil
	}
	childUnion := t.Nodes[node.Children[0]].Bounds
	for _, cid := range node.Children[1:] {
		childUnion = childUnion.Union(t.Nodes[cid].Bounds)
	}
	search := ScaleBounds(childUnion, ChildBoundsSearchRatio)

	var required []*Tile
	for id, cand := range t.Nodes {
		if id == RootID {
			continue
		}
		if !(cand.Leaf || cand.Depth >= node.Depth+1) {
			continue
		}
		if !Intersects(cand.Bounds, search) {
			continue
		}
		required = append(required, cand)
	}
	return required
}
