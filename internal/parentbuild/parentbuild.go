// Package parentbuild implements the parent tile builder: given a
// parent tile's dependency tiles (identified by internal/tiletree), it
// merges their geometry, clips and decimates it to the parent's own footprint,
// re-atlases a new UV layout, bakes the parent's texture from its
// dependencies' existing textures (component I), and updates the parent's
// geometric error.
package parentbuild

import (
	"image"
	"math"
	"sort"

	"github.com/NASA-AMMOS/Landform-sub006/internal/buildlog"
	"github.com/NASA-AMMOS/Landform-sub006/internal/geoerror"
	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
	"github.com/NASA-AMMOS/Landform-sub006/internal/texture"
)

// AtlasStrategy names one of the texture re-atlasing strategies available
// to a parent build.
type AtlasStrategy int

const (
	// Project re-UVs through a caller-supplied TextureProjector and crops a
	// patch of the projector's source image, rather than baking from
	// dependency textures.
	Project AtlasStrategy = iota
	// UVAtlas charts faces by dominant-normal-axis group (a simplified
	// multi-chart unwrap — see DESIGN.md for why a true seam-minimizing
	// unwrapper isn't used).
	UVAtlas
	// Heightmap flattens the mesh along its up axis (Z) into a single chart,
	// the natural choice for terrain-like, mostly-single-valued-in-Z meshes.
	Heightmap
	// Naive assigns one chart over the whole mesh's planar footprint
	// regardless of shape, the always-available fallback.
	Naive
	// Manifold unfolds disk-topology meshes (checked via Euler
	// characteristic) using the same single-plane projection as Heightmap;
	// falls back to UVAtlas when the mesh isn't a topological disk.
	Manifold
)

// DefaultVertexMergeEpsilon: vertices within this distance after clipping
// are merged into one.
const DefaultVertexMergeEpsilon = 0.002

// DefaultThinAxisExpandFactor is the factor applied to the clipping
// bounds' thinnest axis when it's under half the size of the other two, so
// a thin spire or pit isn't sliced off by an otherwise-correct clip.
const DefaultThinAxisExpandFactor = 2.0

// TextureProjector maps a world-space point to a normalized UV coordinate in
// an external reference image — e.g. an orthographic camera frame. Only used
// by the Project strategy.
type TextureProjector interface {
	Project(p mesh.Vec3) (u, v float64, ok bool)
}

// Dependency is one child tile contributing geometry and (optionally)
// texture to a parent build.
type Dependency struct {
	Mesh           *mesh.Mesh // retains its own UV, used as a Bake source
	Image          image.Image
	GeometricError float64
}

// Options parameterizes Build.
type Options struct {
	MaxFacesPerTile      int
	DecimateRatio        float64 // target face count after decimation = DecimateRatio * MaxFacesPerTile
	VertexMergeEpsilon   float64 // 0 means DefaultVertexMergeEpsilon
	ThinAxisExpandFactor float64 // 0 means DefaultThinAxisExpandFactor

	Strategy  AtlasStrategy
	Projector TextureProjector // required when Strategy == Project

	MaxTexelsPerMeter float64
	MinTileRes        float64
	MaxTileRes        float64

	PadWidth int // texture.Bake in-paint radius

	TextureErrorEnabled      bool
	TextureErrorMultiplier   float64 // scales textureError's contribution to geometric error
	HausdorffRelativeAccuracy float64 // Hausdorff sampling accuracy as a fraction of bounds extent

	Log *buildlog.Logger
}

// Result is the parent tile's newly built geometry and texture.
type Result struct {
	Mesh           *mesh.Mesh
	Bounds         mesh.Bounds
	Image          *image.RGBA
	Strategy       AtlasStrategy
	GeometricError float64
}

// Build runs the parent tile's multi-step construction: merge, clip,
// decimate, re-atlas, bake, and update geometric error.
func Build(deps []Dependency, opts Options) (*Result, error) {
	if len(deps) == 0 {
		return nil, geoerror.ErrNoSources
	}

	// 1. Union dependency bounds.
	bounds := mesh.ComputeBounds(allPositions(deps[0].Mesh))
	for _, d := range deps[1:] {
		bounds = bounds.Union(mesh.ComputeBounds(allPositions(d.Mesh)))
	}

	// 2. Merge dependency meshes, keeping positions and normals only.
	merged := mergeGeometryOnly(deps)

	// 3. Expand the clipping bounds along a too-thin axis.
	expanded := expandThinAxis(bounds, thinAxisExpandFactor(opts))

	// 4. Clip to the expanded bounds, then weld near-duplicate vertices.
	clipped := merged.Clip(expanded)
	clipped = mergeVertices(clipped, vertexMergeEpsilon(opts))

	// 5. Decimate if over budget.
	if opts.MaxFacesPerTile > 0 && clipped.FaceCount() > opts.MaxFacesPerTile {
		ratio := opts.DecimateRatio
		if ratio <= 0 {
			ratio = 1.0
		}
		target := int(ratio * float64(opts.MaxFacesPerTile))
		if target < 1 {
			target = 1
		}
		stride := (clipped.FaceCount() + target - 1) / target
		clipped = clipped.Subsample(stride)
		if opts.Log != nil {
			opts.Log.Debugf("decimated parent mesh from %d to %d faces (stride %d)", merged.FaceCount(), clipped.FaceCount(), stride)
		}
	}

	// 6. Texture.
	strategy := opts.Strategy
	if strategy == Project && opts.Projector == nil {
		strategy = UVAtlas
	}
	if strategy == Manifold && !isDiskTopology(clipped) {
		strategy = UVAtlas
	}

	resultMesh := clipped
	var atlasImage *image.RGBA
	targetRes := targetResolution(clipped, opts)

	switch strategy {
	case Project:
		assignProjectorUV(clipped, opts.Projector)
		clipper := texture.TexturedMeshClipper{MaxTileResolution: int(targetRes)}
		packed, err := clipper.ClipAndRepack(clipped, projectorSourceImage(opts.Projector, deps))
		if err != nil {
			return nil, err
		}
		resultMesh = packed.Mesh
		atlasImage = packed.Image
	default:
		assignProjectedUV(clipped, strategy, bounds)
		sources := make([]texture.SourcePair, 0, len(deps))
		for _, d := range deps {
			if d.Image != nil {
				sources = append(sources, texture.SourcePair{Mesh: d.Mesh, Image: d.Image})
			}
		}
		if len(sources) > 0 {
			res, err := texture.Bake(clipped, sources, texture.BakeOptions{
				Width: int(targetRes), Height: int(targetRes), PadWidth: opts.PadWidth, Log: opts.Log,
			})
			if err != nil {
				return nil, err
			}
			atlasImage = res.Image
		}
	}

	// 7. Geometric error.
	ge := UpdateGeometricError(resultMesh, deps, bounds, opts)

	return &Result{Mesh: resultMesh, Bounds: bounds, Image: atlasImage, Strategy: strategy, GeometricError: ge}, nil
}

func thinAxisExpandFactor(opts Options) float64 {
	if opts.ThinAxisExpandFactor > 0 {
		return opts.ThinAxisExpandFactor
	}
	return DefaultThinAxisExpandFactor
}

func vertexMergeEpsilon(opts Options) float64 {
	if opts.VertexMergeEpsilon > 0 {
		return opts.VertexMergeEpsilon
	}
	return DefaultVertexMergeEpsilon
}

func allPositions(m *mesh.Mesh) []mesh.Vec3 {
	out := make([]mesh.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position
	}
	return out
}

// mergeGeometryOnly concatenates every dependency's mesh, dropping UV and
// color but preserving normals.
func mergeGeometryOnly(deps []Dependency) *mesh.Mesh {
	out := &mesh.Mesh{}
	for _, d := range deps {
		base := len(out.Vertices)
		for _, v := range d.Mesh.Vertices {
			nv := mesh.Vertex{Position: v.Position}
			if v.Normal != nil {
				n := *v.Normal
				nv.Normal = &n
			}
			out.Vertices = append(out.Vertices, nv)
		}
		for _, f := range d.Mesh.Faces {
			out.Faces = append(out.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
		}
	}
	return out
}

// expandThinAxis widens a bounds' thinnest axis by factor when it is under
// half the extent of the other two axes, so a vertical spire or pit isn't
// sliced off by an otherwise-tight clip.
func expandThinAxis(b mesh.Bounds, factor float64) mesh.Bounds {
	ext := [3]float64{b.Max.X - b.Min.X, b.Max.Y - b.Min.Y, b.Max.Z - b.Min.Z}
	thin, other1, other2 := 0, 1, 2
	if ext[1] < ext[thin] {
		thin, other1, other2 = 1, 0, 2
	}
	if ext[2] < ext[thin] {
		thin, other1, other2 = 2, 0, 1
	}
	otherMin := ext[other1]
	if ext[other2] < otherMin {
		otherMin = ext[other2]
	}
	if otherMin == 0 || ext[thin] >= 0.5*otherMin {
		return b
	}
	center := [3]float64{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2, (b.Min.Z + b.Max.Z) / 2}
	// A perfectly flat dependency set (ext[thin] == 0, e.g. a single planar
	// tile) would otherwise expand to a zero-width half, re-clipping away
	// the very geometry this step exists to protect; floor the pre-factor
	// half-width at a small fraction of the other two axes so the expanded
	// box always has some depth to work with.
	preFactor := ext[thin] / 2
	if floor := 0.01 * otherMin; preFactor < floor {
		preFactor = floor
	}
	half := preFactor * factor
	out := b
	switch thin {
	case 0:
		out.Min.X, out.Max.X = center[0]-half, center[0]+half
	case 1:
		out.Min.Y, out.Max.Y = center[1]-half, center[1]+half
	default:
		out.Min.Z, out.Max.Z = center[2]-half, center[2]+half
	}
	return out
}

// mergeVertices welds vertices within epsilon of each other, grounded on
// clip.go's own tolerance-based approach to degenerate geometry — here a
// grid-bucket dedup (cell size eps, searching the 27 cells around each
// vertex) rather than a kd-tree, since eps is fixed and small and this runs
// once per parent build, not per query.
func mergeVertices(m *mesh.Mesh, eps float64) *mesh.Mesh {
	if eps <= 0 || len(m.Vertices) == 0 {
		return m
	}
	type key struct{ x, y, z int64 }
	cell := func(v float64) int64 { return int64(math.Floor(v / eps)) }
	buckets := make(map[key][]int)
	remap := make([]int, len(m.Vertices))
	out := &mesh.Mesh{}

	for i, v := range m.Vertices {
		k := key{cell(v.Position.X), cell(v.Position.Y), cell(v.Position.Z)}
		merged := -1
		// A vertex within eps of v can sit in any cell adjacent to k.
	search:
		for dx := int64(-1); dx <= 1; dx++ {
			for dy := int64(-1); dy <= 1; dy++ {
				for dz := int64(-1); dz <= 1; dz++ {
					for _, candidate := range buckets[key{k.x + dx, k.y + dy, k.z + dz}] {
						cv := out.Vertices[candidate].Position
						if math.Abs(cv.X-v.Position.X) <= eps && math.Abs(cv.Y-v.Position.Y) <= eps && math.Abs(cv.Z-v.Position.Z) <= eps {
							merged = candidate
							break search
						}
					}
				}
			}
		}
		if merged == -1 {
			merged = len(out.Vertices)
			out.Vertices = append(out.Vertices, v)
			buckets[k] = append(buckets[k], merged)
		}
		remap[i] = merged
	}
	for _, f := range m.Faces {
		nf := [3]int{remap[f[0]], remap[f[1]], remap[f[2]]}
		if nf[0] == nf[1] || nf[1] == nf[2] || nf[0] == nf[2] {
			continue // degenerate after welding
		}
		out.Faces = append(out.Faces, nf)
	}
	return out
}

// targetResolution computes an atlas side length as sqrt(parent mesh surface
// area) * MaxTexelsPerMeter, clamped to [MinTileRes, MaxTileRes] (16 and
// 2048 when unset) — the same square-root shape internal/split's
// TextureSplitCriteria uses to decide whether to split, though that one
// takes its area from the tile bounds' footprint rather than the mesh.
func targetResolution(m *mesh.Mesh, opts Options) float64 {
	area := m.Area()
	if area <= 0 {
		area = 1
	}
	edge := math.Sqrt(area)
	raw := edge * opts.MaxTexelsPerMeter
	lo, hi := opts.MinTileRes, opts.MaxTileRes
	if hi <= 0 {
		hi = 2048
	}
	if lo <= 0 {
		lo = 16
	}
	if raw < lo {
		raw = lo
	}
	if raw > hi {
		raw = hi
	}
	return raw
}

func assignProjectorUV(m *mesh.Mesh, projector TextureProjector) {
	for i := range m.Vertices {
		u, v, ok := projector.Project(m.Vertices[i].Position)
		if !ok {
			continue
		}
		uv := mesh.Vec2{X: u, Y: v}
		m.Vertices[i].UV = &uv
	}
}

func projectorSourceImage(projector TextureProjector, deps []Dependency) image.Image {
	for _, d := range deps {
		if d.Image != nil {
			return d.Image
		}
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}

// assignProjectedUV assigns every vertex a UV using the strategy chosen for
// non-projector atlasing.
func assignProjectedUV(m *mesh.Mesh, strategy AtlasStrategy, bounds mesh.Bounds) {
	switch strategy {
	case Heightmap, Manifold:
		projectPlanar(m, bounds, 2) // flatten along up axis (Z)
	case UVAtlas:
		chartByDominantNormal(m, bounds)
	default: // Naive
		projectPlanar(m, bounds, dominantFlattenAxis(bounds))
	}
}

// projectPlanar assigns a single chart spanning the whole mesh, normalizing
// the two axes other than skipAxis into [0,1].
func projectPlanar(m *mesh.Mesh, bounds mesh.Bounds, skipAxis int) {
	a1, a2 := otherAxes(skipAxis)
	min1, max1 := axisRange(bounds, a1)
	min2, max2 := axisRange(bounds, a2)
	span1, span2 := max1-min1, max2-min2
	if span1 == 0 {
		span1 = 1
	}
	if span2 == 0 {
		span2 = 1
	}
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		u := (axisValue(p, a1) - min1) / span1
		v := (axisValue(p, a2) - min2) / span2
		uv := mesh.Vec2{X: u, Y: v}
		m.Vertices[i].UV = &uv
	}
}

func dominantFlattenAxis(bounds mesh.Bounds) int {
	ext := [3]float64{bounds.Max.X - bounds.Min.X, bounds.Max.Y - bounds.Min.Y, bounds.Max.Z - bounds.Min.Z}
	thin := 0
	for i := 1; i < 3; i++ {
		if ext[i] < ext[thin] {
			thin = i
		}
	}
	return thin
}

func otherAxes(skip int) (int, int) {
	switch skip {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

func axisRange(b mesh.Bounds, axis int) (min, max float64) {
	switch axis {
	case 0:
		return b.Min.X, b.Max.X
	case 1:
		return b.Min.Y, b.Max.Y
	default:
		return b.Min.Z, b.Max.Z
	}
}

func axisValue(p mesh.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// chartByDominantNormal groups faces into up to 6 charts by which cube face
// their normal most points toward (+/-X, +/-Y, +/-Z), projects each chart
// planar like projectPlanar, then packs the (at most 6) charts into a 3x2
// grid of UV cells. A simplified stand-in for a true seam-minimizing
// multi-chart unwrapper (UVAtlas proper): good enough to give disjoint faces
// non-overlapping UV space without requiring a dedicated unwrapping library,
// whose absence from the example pack is documented in DESIGN.md.
func chartByDominantNormal(m *mesh.Mesh, bounds mesh.Bounds) {
	type faceChart struct {
		face  int
		chart int // 0..5
	}
	charts := make([]faceChart, len(m.Faces))
	used := make(map[int]bool)
	for f := range m.Faces {
		n := faceNormal(m, f)
		c := dominantCubeFace(n)
		charts[f] = faceChart{face: f, chart: c}
		used[c] = true
	}

	order := make([]int, 0, 6)
	for c := 0; c < 6; c++ {
		if used[c] {
			order = append(order, c)
		}
	}
	sort.Ints(order)
	cellOf := make(map[int]int, len(order))
	for i, c := range order {
		cellOf[c] = i
	}
	cols := 3
	if len(order) < 3 {
		cols = len(order)
	}
	if cols == 0 {
		cols = 1
	}
	rows := (len(order) + cols - 1) / cols
	if rows == 0 {
		rows = 1
	}

	perVertexChart := make(map[int]int)
	for _, fc := range charts {
		for _, vi := range m.Faces[fc.face] {
			perVertexChart[vi] = fc.chart
		}
	}
	for vi, c := range perVertexChart {
		skip := axisOfCubeFace(c)
		a1, a2 := otherAxes(skip)
		min1, max1 := axisRange(bounds, a1)
		min2, max2 := axisRange(bounds, a2)
		span1, span2 := max1-min1, max2-min2
		if span1 == 0 {
			span1 = 1
		}
		if span2 == 0 {
			span2 = 1
		}
		p := m.Vertices[vi].Position
		localU := (axisValue(p, a1) - min1) / span1
		localV := (axisValue(p, a2) - min2) / span2

		cell := cellOf[c]
		col := cell % cols
		row := cell / cols
		u := (float64(col) + localU) / float64(cols)
		v := (float64(row) + localV) / float64(rows)
		uv := mesh.Vec2{X: u, Y: v}
		m.Vertices[vi].UV = &uv
	}
}

func faceNormal(m *mesh.Mesh, f int) mesh.Vec3 {
	tri := m.Faces[f]
	a, b, c := m.Vertices[tri[0]].Position, m.Vertices[tri[1]].Position, m.Vertices[tri[2]].Position
	return b.Sub(a).Cross(c.Sub(a))
}

// dominantCubeFace returns 0..5 for +X,-X,+Y,-Y,+Z,-Z by whichever
// component of n has the largest magnitude.
func dominantCubeFace(n mesh.Vec3) int {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	if ax >= ay && ax >= az {
		if n.X >= 0 {
			return 0
		}
		return 1
	}
	if ay >= ax && ay >= az {
		if n.Y >= 0 {
			return 2
		}
		return 3
	}
	if n.Z >= 0 {
		return 4
	}
	return 5
}

func axisOfCubeFace(c int) int {
	switch c {
	case 0, 1:
		return 0
	case 2, 3:
		return 1
	default:
		return 2
	}
}

// isDiskTopology approximates a topological-disk check via Euler
// characteristic (V - E + F == 1, i.e. genus 0 with exactly one boundary
// loop): exact for a well-formed single-patch mesh, which is the case
// Manifold unfolding is meant for.
func isDiskTopology(m *mesh.Mesh) bool {
	if m.FaceCount() == 0 {
		return false
	}
	type edge struct{ a, b int }
	seen := make(map[edge]bool)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a > b {
				a, b = b, a
			}
			seen[edge{a, b}] = true
		}
	}
	v := m.VertexCount()
	e := len(seen)
	face := m.FaceCount()
	return v-e+face == 1
}
