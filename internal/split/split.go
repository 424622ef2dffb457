// Package split implements pluggable tile-subdivision predicates: each
// Criteria inspects a candidate tile's bounds (and the source
// geometry/observations that would back it) and reports whether the tile
// should be split further before being accepted as a leaf.
//
// Each predicate reads only its own parameters and the candidate's Context
// (bounds, source meshes, observations), composed behind an explicit
// Criteria interface so
// FaceSplitCriteria/AreaSplitCriteria/TextureSplitCriteria can be mixed and
// matched per tileset.
package split

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

// Reason names why a tile must be split; the zero value "" paired with
// ok=false means no split is required.
type Reason string

const (
	ReasonFaceCount Reason = "face_count_exceeded"
	ReasonArea      Reason = "area_exceeded"
	ReasonTexture   Reason = "texture_density_exceeded"
)

// Context bundles everything a Criteria might need. Meshes holds the
// per-source meshes contributing to this tile (unclipped); Mesh, when set,
// is their merge already clipped to Bounds (texture criteria works from the
// merged result; face/area criteria clip and sum each source mesh
// themselves).
type Context struct {
	Bounds       mesh.Bounds
	Meshes       []*mesh.Mesh
	Mesh         *mesh.Mesh
	Observations []Observation
}

// Observation is one source image's reprojectable footprint: Hull is its
// frustum hull (component D's FrustumHuller output, in the mesh package's
// vector space since split never needs camera.Model itself), and
// PixelDensityAt estimates the pixels/m² the observation resolves at a
// given surface point — the caller derives this from the concrete camera
// model (e.g. image resolution and ground sample distance at that point).
type Observation struct {
	Hull          []mesh.Vec3
	PixelDensityAt func(p mesh.Vec3) float64
}

// Criteria is a pluggable ShouldSplit predicate.
type Criteria interface {
	ShouldSplit(ctx Context) (Reason, bool)
}

func hullBounds(hull []mesh.Vec3) mesh.Bounds {
	return mesh.ComputeBounds(hull)
}

func toOrbBound(b mesh.Bounds) orb.Bound {
	return orb.Bound{Min: orb.Point{b.Min.X, b.Min.Y}, Max: orb.Point{b.Max.X, b.Max.Y}}
}

// intersects tests two axis-aligned boxes for overlap. The horizontal
// footprint test is delegated to orb.Bound.Intersects (the same bounds
// primitive the watercolormap example repo uses for its own tile/feature
// bounds), since a hull's footprint in the tile's local XY plane is exactly
// the kind of 2-D bound orb targets; the vertical extent is checked
// directly since orb.Bound has no Z component.
func intersects(a, b mesh.Bounds) bool {
	if !toOrbBound(a).Intersects(toOrbBound(b)) {
		return false
	}
	return a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// FaceSplitCriteria subdivides when the total clipped face count across
// every source mesh exceeds MaxFaces.
type FaceSplitCriteria struct {
	MaxFaces int
}

func (c FaceSplitCriteria) ShouldSplit(ctx Context) (Reason, bool) {
	total := 0
	for _, m := range ctx.Meshes {
		total += m.Clip(ctx.Bounds).FaceCount()
	}
	if total > c.MaxFaces {
		return ReasonFaceCount, true
	}
	return "", false
}

// AreaSplitCriteria subdivides when the total clipped mesh area across
// every source mesh exceeds MaxArea.
type AreaSplitCriteria struct {
	MaxArea float64
}

func (c AreaSplitCriteria) ShouldSplit(ctx Context) (Reason, bool) {
	total := 0.0
	for _, m := range ctx.Meshes {
		total += m.Clip(ctx.Bounds).Area()
	}
	if total > c.MaxArea {
		return ReasonArea, true
	}
	return "", false
}

// Mode selects how TextureSplitCriteria estimates observation pixel
// density against target texel density.
type Mode int

const (
	Approximate Mode = iota
	Backproject
)

// TextureSplitCriteria splits when the best observation's pixel density at
// a tile's surface samples exceeds its target texel density by more than
// MaxPixelsPerTexel.
type TextureSplitCriteria struct {
	MaxTexelsPerMeter        float64
	MinTileRes, MaxTileRes   float64
	RoundResolutionToPowerOf2 bool
	RespectMaxTexelsPerMeter bool
	MaxPixelsPerTexel        float64
	Mode                     Mode
	PercentPixelsToTest      float64 // (0,1], Backproject only
	PercentPixelsSatisfied   float64 // (0,1], Backproject only
}

func footprintArea(b mesh.Bounds) float64 {
	dx := b.Max.X - b.Min.X
	dy := b.Max.Y - b.Min.Y
	dz := b.Max.Z - b.Min.Z
	dims := []float64{dx, dy, dz}
	sort.Float64s(dims)
	// the two largest extents approximate the tile's ground footprint,
	// discarding the thinnest (typically vertical) axis.
	return dims[1] * dims[2]
}

func nextPowerOfTwo(x float64) float64 {
	if x <= 1 {
		return 1
	}
	return math.Pow(2, math.Ceil(math.Log2(x)))
}

func clampFloat(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// targetResolution computes the target texel resolution R for bounds,
// returning the clamped resolution plus whether texel-resolution is
// already the limiting factor (used for RespectMaxTexelsPerMeter's early
// exit).
func (c TextureSplitCriteria) targetResolution(bounds mesh.Bounds) (r float64, belowCeiling bool) {
	edge := math.Sqrt(footprintArea(bounds))
	raw := edge * c.MaxTexelsPerMeter
	belowCeiling = raw < c.MaxTileRes
	r = clampFloat(raw, c.MinTileRes, c.MaxTileRes)
	if c.RoundResolutionToPowerOf2 {
		r = nextPowerOfTwo(r)
	}
	return r, belowCeiling
}

func (c TextureSplitCriteria) ShouldSplit(ctx Context) (Reason, bool) {
	if ctx.Mesh == nil || ctx.Mesh.FaceCount() == 0 {
		return "", false
	}

	// Step 1: frustum-cull observations whose hull misses the tile bounds.
	var surviving []Observation
	for _, obs := range ctx.Observations {
		if len(obs.Hull) == 0 || intersects(hullBounds(obs.Hull), ctx.Bounds) {
			surviving = append(surviving, obs)
		}
	}
	if len(surviving) == 0 {
		return "", false
	}

	// Step 2: re-cull against the clipped mesh's own bounds (tighter than
	// the nominal tile bounds).
	meshBounds := ctx.Mesh.MeshBounds()
	var reculled []Observation
	for _, obs := range surviving {
		if len(obs.Hull) == 0 || intersects(hullBounds(obs.Hull), meshBounds) {
			reculled = append(reculled, obs)
		}
	}
	if len(reculled) == 0 {
		return "", false
	}

	// Step 3: target texel resolution.
	r, belowCeiling := c.targetResolution(ctx.Bounds)
	if c.RespectMaxTexelsPerMeter && belowCeiling {
		return "", false
	}
	meshArea := ctx.Mesh.Area()
	if meshArea <= 0 {
		return "", false
	}
	texelsPerM2 := 0.5 * r * r / meshArea

	samplePoints := samplePositions(ctx.Mesh, 25)

	switch c.Mode {
	case Backproject:
		return c.shouldSplitBackproject(reculled, samplePoints, texelsPerM2)
	default:
		return c.shouldSplitApproximate(reculled, samplePoints, texelsPerM2)
	}
}

// samplePositions returns up to n face-centroid sample points standing in
// for a set of central sampling rays — a tile's faces are the only surface
// samples available at split-decision time, before any texture has been
// baked, so centroids are the natural proxy.
func samplePositions(m *mesh.Mesh, n int) []mesh.Vec3 {
	faces := m.FaceCount()
	if faces == 0 {
		return nil
	}
	if faces <= n {
		out := make([]mesh.Vec3, faces)
		for f := 0; f < faces; f++ {
			out[f] = m.Centroid(f)
		}
		return out
	}
	stride := float64(faces) / float64(n)
	out := make([]mesh.Vec3, 0, n)
	for i := 0; i < n; i++ {
		f := int(float64(i) * stride)
		out = append(out, m.Centroid(f))
	}
	return out
}

func bestDensityAt(obs []Observation, p mesh.Vec3) (float64, bool) {
	best := 0.0
	found := false
	for _, o := range obs {
		if o.PixelDensityAt == nil {
			continue
		}
		d := o.PixelDensityAt(p)
		if !found || d > best {
			best = d
			found = true
		}
	}
	return best, found
}

func (c TextureSplitCriteria) shouldSplitApproximate(obs []Observation, samples []mesh.Vec3, texelsPerM2 float64) (Reason, bool) {
	worst, found := math.Inf(1), false
	for _, p := range samples {
		d, ok := bestDensityAt(obs, p)
		if !ok {
			continue
		}
		if d < worst {
			worst = d
		}
		found = true
	}
	if !found {
		return "", false
	}
	ratio := worst / texelsPerM2
	if ratio > c.MaxPixelsPerTexel {
		return ReasonTexture, true
	}
	return "", false
}

func (c TextureSplitCriteria) shouldSplitBackproject(obs []Observation, samples []mesh.Vec3, texelsPerM2 float64) (Reason, bool) {
	pct := c.PercentPixelsToTest
	if pct <= 0 || pct > 1 {
		pct = 1
	}
	testCount := int(math.Ceil(float64(len(samples)) * pct))
	if testCount > len(samples) {
		testCount = len(samples)
	}

	var densities []float64
	for _, p := range samples[:testCount] {
		if d, ok := bestDensityAt(obs, p); ok {
			densities = append(densities, d)
		}
	}
	if len(densities) == 0 {
		return "", false
	}
	sort.Float64s(densities)

	pctSatisfied := c.PercentPixelsSatisfied
	if pctSatisfied <= 0 || pctSatisfied > 1 {
		pctSatisfied = 1
	}
	idx := int(math.Ceil(float64(len(densities))*pctSatisfied)) - 1
	idx = int(clampFloat(float64(idx), 0, float64(len(densities)-1)))
	percentileDensity := densities[idx]

	ratio := percentileDensity / texelsPerM2
	if ratio > c.MaxPixelsPerTexel {
		return ReasonTexture, true
	}
	return "", false
}
