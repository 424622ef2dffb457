// Package scheme implements tiling schemes: strategies that cut a tile's
// bounding box into 2, 4, or 8 child boxes along its own axes.
//
// Grounded on internal/coord's small-struct-per-strategy shape
// (internal/coord/projection.go's ForEPSG dispatch over named projections)
// generalized here into one Scheme interface with five implementations.
package scheme

import "github.com/NASA-AMMOS/Landform-sub006/internal/mesh"

// Scheme splits a bounding box into child boxes.
type Scheme interface {
	// Split returns the child boxes bounds should be divided into, or ok=false
	// if bounds is too small to split under this scheme's own rule.
	Split(bounds mesh.Bounds, minExtent float64) (children []mesh.Bounds, ok bool)
}

func extents(b mesh.Bounds) (dx, dy, dz float64) {
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z
}

func axisExtent(b mesh.Bounds, axis int) float64 {
	dx, dy, dz := extents(b)
	switch axis {
	case 0:
		return dx
	case 1:
		return dy
	default:
		return dz
	}
}

func maxAxis(b mesh.Bounds) int {
	dx, dy, dz := extents(b)
	axis, best := 0, dx
	if dy > best {
		axis, best = 1, dy
	}
	if dz > best {
		axis, best = 2, dz
	}
	return axis
}

func minAxis(b mesh.Bounds) int {
	dx, dy, dz := extents(b)
	axis, best := 0, dx
	if dy < best {
		axis, best = 1, dy
	}
	if dz < best {
		axis, best = 2, dz
	}
	return axis
}

// splitAlong cuts bounds in half along the given axis.
func splitAlong(b mesh.Bounds, axis int) (lo, hi mesh.Bounds) {
	lo, hi = b, b
	switch axis {
	case 0:
		mid := (b.Min.X + b.Max.X) / 2
		lo.Max.X, hi.Min.X = mid, mid
	case 1:
		mid := (b.Min.Y + b.Max.Y) / 2
		lo.Max.Y, hi.Min.Y = mid, mid
	default:
		mid := (b.Min.Z + b.Max.Z) / 2
		lo.Max.Z, hi.Min.Z = mid, mid
	}
	return lo, hi
}

// Binary splits along the tile's longest axis, skipping (ok=false) if that
// axis is already below 2·minExtent.
type Binary struct{}

func (Binary) Split(bounds mesh.Bounds, minExtent float64) ([]mesh.Bounds, bool) {
	axis := maxAxis(bounds)
	if axisExtent(bounds, axis) < 2*minExtent {
		return nil, false
	}
	lo, hi := splitAlong(bounds, axis)
	return []mesh.Bounds{lo, hi}, true
}

// QuadFixedAxis splits into 4 children across the plane perpendicular to a
// caller-chosen fixed axis (the two axes orthogonal to Axis are each
// halved).
type QuadFixedAxis struct {
	Axis int // the axis quads run perpendicular to; the other two axes are split
}

func quadSplitOtherTwo(bounds mesh.Bounds, skip int, minExtent float64) ([]mesh.Bounds, bool) {
	axes := []int{0, 1, 2}
	axes = append(axes[:skip], axes[skip+1:]...)
	a, b := axes[0], axes[1]
	if axisExtent(bounds, a) < 2*minExtent || axisExtent(bounds, b) < 2*minExtent {
		return nil, false
	}
	loA, hiA := splitAlong(bounds, a)
	var out []mesh.Bounds
	for _, half := range []mesh.Bounds{loA, hiA} {
		loB, hiB := splitAlong(half, b)
		out = append(out, loB, hiB)
	}
	return out, true
}

func (q QuadFixedAxis) Split(bounds mesh.Bounds, minExtent float64) ([]mesh.Bounds, bool) {
	return quadSplitOtherTwo(bounds, q.Axis, minExtent)
}

// QuadAuto splits perpendicular to the tile's shortest axis (its largest
// face), choosing that axis fresh for every bounds.
type QuadAuto struct{}

func (QuadAuto) Split(bounds mesh.Bounds, minExtent float64) ([]mesh.Bounds, bool) {
	return quadSplitOtherTwo(bounds, minAxis(bounds), minExtent)
}

// QuadWithFallback behaves like QuadAuto, but falls back to Binary when one
// of the two quad axes is below 2·minExtent rather than refusing to split
// at all.
type QuadWithFallback struct{}

func (QuadWithFallback) Split(bounds mesh.Bounds, minExtent float64) ([]mesh.Bounds, bool) {
	if children, ok := (QuadAuto{}).Split(bounds, minExtent); ok {
		return children, true
	}
	return (Binary{}).Split(bounds, minExtent)
}

// Oct splits into 8 children, halving all three axes at once; falls back
// to QuadWithFallback when any dimension is below 2·minExtent.
type Oct struct{}

func (Oct) Split(bounds mesh.Bounds, minExtent float64) ([]mesh.Bounds, bool) {
	dx, dy, dz := extents(bounds)
	if dx < 2*minExtent || dy < 2*minExtent || dz < 2*minExtent {
		return (QuadWithFallback{}).Split(bounds, minExtent)
	}
	loX, hiX := splitAlong(bounds, 0)
	var out []mesh.Bounds
	for _, halfX := range []mesh.Bounds{loX, hiX} {
		loY, hiY := splitAlong(halfX, 1)
		for _, halfXY := range []mesh.Bounds{loY, hiY} {
			loZ, hiZ := splitAlong(halfXY, 2)
			out = append(out, loZ, hiZ)
		}
	}
	return out, true
}
