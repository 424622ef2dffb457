package parentbuild

import (
	"math"

	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

// UpdateGeometricError computes a parent tile's geometric error: a
// parent's error is the one-directional Hausdorff distance from its own
// mesh to the union of its dependencies' meshes, plus the max dependency
// error; a parent with no mesh of its own (m is nil or empty) just takes the
// max dependency error; texture error, when enabled, can raise the result
// further. Leaves have no dependencies and so always resolve to 0 via the
// maxDepError branch.
func UpdateGeometricError(m *mesh.Mesh, deps []Dependency, bounds mesh.Bounds, opts Options) float64 {
	maxDepError := 0.0
	for _, d := range deps {
		if d.GeometricError > maxDepError {
			maxDepError = d.GeometricError
		}
	}

	if m == nil || m.FaceCount() == 0 {
		return maxDepError
	}

	depMerged := mergeGeometryOnly(deps)
	if depMerged.FaceCount() == 0 {
		return maxDepError
	}

	accuracy := opts.HausdorffRelativeAccuracy * maxDimension(bounds)
	if accuracy <= 0 {
		accuracy = 0.01 * maxDimension(bounds)
	}
	geo := hausdorffDistance(m, depMerged, accuracy) + maxDepError

	if opts.TextureErrorEnabled {
		if te := textureError(m, opts); te > geo {
			geo = te
		}
	}
	return geo
}

func maxDimension(b mesh.Bounds) float64 {
	ext := []float64{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
	max := 0.0
	for _, e := range ext {
		if e > max {
			max = e
		}
	}
	return max
}

// textureError computes TextureErrorMultiplier *
// sqrt(mesh-surface-area / pixel-footprint-area), with the per-texel
// footprint area derived from the same target-resolution formula used to
// size the baked atlas, so the two parts of step 6/7 agree on what
// "resolution" means for this tile.
func textureError(m *mesh.Mesh, opts Options) float64 {
	area := m.Area()
	if area <= 0 {
		return 0
	}
	res := targetResolution(m, opts)
	if res <= 0 {
		return 0
	}
	pixelFootprintArea := area / (res * res)
	if pixelFootprintArea <= 0 {
		return 0
	}
	return opts.TextureErrorMultiplier * math.Sqrt(area/pixelFootprintArea)
}
