package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

func unitSquareMesh() *mesh.Mesh {
	uv := func(x, y float64) *mesh.Vec2 { v := mesh.Vec2{X: x, Y: y}; return &v }
	return &mesh.Mesh{
		Vertices: []mesh.Vertex{
			{Position: mesh.Vec3{X: 0, Y: 0, Z: 0}, UV: uv(0, 0)},
			{Position: mesh.Vec3{X: 1, Y: 0, Z: 0}, UV: uv(1, 0)},
			{Position: mesh.Vec3{X: 1, Y: 1, Z: 0}, UV: uv(1, 1)},
			{Position: mesh.Vec3{X: 0, Y: 1, Z: 0}, UV: uv(0, 1)},
		},
		Faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

func fullBounds() mesh.Bounds {
	return mesh.Bounds{Min: mesh.Vec3{X: -1, Y: -1, Z: -1}, Max: mesh.Vec3{X: 2, Y: 2, Z: 1}}
}

func TestFaceSplitCriteriaTriggersOverLimit(t *testing.T) {
	ctx := Context{Bounds: fullBounds(), Meshes: []*mesh.Mesh{unitSquareMesh()}}
	reason, split := FaceSplitCriteria{MaxFaces: 1}.ShouldSplit(ctx)
	assert.True(t, split)
	assert.Equal(t, ReasonFaceCount, reason)
}

func TestFaceSplitCriteriaStaysUnderLimit(t *testing.T) {
	ctx := Context{Bounds: fullBounds(), Meshes: []*mesh.Mesh{unitSquareMesh()}}
	_, split := FaceSplitCriteria{MaxFaces: 10}.ShouldSplit(ctx)
	assert.False(t, split)
}

func TestAreaSplitCriteriaTriggersOverLimit(t *testing.T) {
	ctx := Context{Bounds: fullBounds(), Meshes: []*mesh.Mesh{unitSquareMesh()}}
	reason, split := AreaSplitCriteria{MaxArea: 0.5}.ShouldSplit(ctx)
	assert.True(t, split)
	assert.Equal(t, ReasonArea, reason)
}

func TestAreaSplitCriteriaStaysUnderLimit(t *testing.T) {
	ctx := Context{Bounds: fullBounds(), Meshes: []*mesh.Mesh{unitSquareMesh()}}
	_, split := AreaSplitCriteria{MaxArea: 5}.ShouldSplit(ctx)
	assert.False(t, split)
}

// TestTextureSplitApproximateModeMatchesScenario covers a 1m x 1m tile
// observed by a camera resolving far more pixels per square meter than the
// destination texel density can hold, so the criteria must call for a
// split.
func TestTextureSplitApproximateModeMatchesScenario(t *testing.T) {
	m := unitSquareMesh()
	hull := []mesh.Vec3{{X: -1, Y: -1, Z: 0}, {X: 2, Y: -1, Z: 0}, {X: 2, Y: 2, Z: 0}, {X: -1, Y: 2, Z: 0}, {X: 0.5, Y: 0.5, Z: 5}}
	obs := Observation{
		Hull: hull,
		// A 1000x1000-pixel image covering the full 1m x 1m square resolves
		// 1e6 pixels/m^2 — far more than a 256-texel tile's ~32768 texels/m^2
		// target, so the ratio comfortably exceeds MaxPixelsPerTexel.
		PixelDensityAt: func(p mesh.Vec3) float64 { return 1000 * 1000 },
	}
	ctx := Context{
		Bounds:       fullBounds(),
		Mesh:         m,
		Observations: []Observation{obs},
	}
	crit := TextureSplitCriteria{
		MaxTexelsPerMeter: 256,
		MinTileRes:        16,
		MaxTileRes:        256,
		MaxPixelsPerTexel: 2,
		Mode:              Approximate,
	}
	reason, ok := crit.ShouldSplit(ctx)
	require.True(t, ok)
	assert.Equal(t, ReasonTexture, reason)
}

func TestTextureSplitNoSplitWhenDensityIsSufficient(t *testing.T) {
	m := unitSquareMesh()
	hull := []mesh.Vec3{{X: -1, Y: -1, Z: 0}, {X: 2, Y: -1, Z: 0}, {X: 2, Y: 2, Z: 0}, {X: -1, Y: 2, Z: 0}, {X: 0.5, Y: 0.5, Z: 5}}
	obs := Observation{
		Hull:           hull,
		PixelDensityAt: func(p mesh.Vec3) float64 { return 100 },
	}
	ctx := Context{
		Bounds:       fullBounds(),
		Mesh:         m,
		Observations: []Observation{obs},
	}
	crit := TextureSplitCriteria{
		MaxTexelsPerMeter: 256,
		MinTileRes:        16,
		MaxTileRes:        256,
		MaxPixelsPerTexel: 1000,
		Mode:              Approximate,
	}
	_, ok := crit.ShouldSplit(ctx)
	assert.False(t, ok)
}

func TestTextureSplitCullsObservationsOutsideBounds(t *testing.T) {
	m := unitSquareMesh()
	farHull := []mesh.Vec3{{X: 100, Y: 100, Z: 5}, {X: 101, Y: 100, Z: 5}, {X: 101, Y: 101, Z: 5}, {X: 100, Y: 101, Z: 5}}
	obs := Observation{
		Hull:           farHull,
		PixelDensityAt: func(p mesh.Vec3) float64 { return 1e9 },
	}
	ctx := Context{
		Bounds:       fullBounds(),
		Mesh:         m,
		Observations: []Observation{obs},
	}
	crit := TextureSplitCriteria{
		MaxTexelsPerMeter: 256,
		MinTileRes:        16,
		MaxTileRes:        256,
		MaxPixelsPerTexel: 2,
		Mode:              Approximate,
	}
	_, ok := crit.ShouldSplit(ctx)
	assert.False(t, ok, "an observation whose hull never touches the tile must be culled out, regardless of its density")
}

func TestTextureSplitRespectsMaxTexelsPerMeterEarlyExit(t *testing.T) {
	m := unitSquareMesh()
	hull := []mesh.Vec3{{X: -1, Y: -1, Z: 0}, {X: 2, Y: -1, Z: 0}, {X: 2, Y: 2, Z: 0}, {X: -1, Y: 2, Z: 0}, {X: 0.5, Y: 0.5, Z: 5}}
	obs := Observation{
		Hull:           hull,
		PixelDensityAt: func(p mesh.Vec3) float64 { return 1e9 },
	}
	ctx := Context{
		Bounds:       fullBounds(),
		Mesh:         m,
		Observations: []Observation{obs},
	}
	crit := TextureSplitCriteria{
		MaxTexelsPerMeter:        1, // raw target resolution (1 texel/m * 3m footprint edge) stays well below MaxTileRes
		MinTileRes:               1,
		MaxTileRes:               256,
		MaxPixelsPerTexel:        2,
		RespectMaxTexelsPerMeter: true,
		Mode:                     Approximate,
	}
	_, ok := crit.ShouldSplit(ctx)
	assert.False(t, ok)
}

func TestTextureSplitBackprojectModeUsesPercentile(t *testing.T) {
	m := unitSquareMesh()
	hull := []mesh.Vec3{{X: -1, Y: -1, Z: 0}, {X: 2, Y: -1, Z: 0}, {X: 2, Y: 2, Z: 0}, {X: -1, Y: 2, Z: 0}, {X: 0.5, Y: 0.5, Z: 5}}
	obs := Observation{
		Hull:           hull,
		PixelDensityAt: func(p mesh.Vec3) float64 { return 1000 * 1000 },
	}
	ctx := Context{
		Bounds:       fullBounds(),
		Mesh:         m,
		Observations: []Observation{obs},
	}
	crit := TextureSplitCriteria{
		MaxTexelsPerMeter:      256,
		MinTileRes:             16,
		MaxTileRes:             256,
		MaxPixelsPerTexel:      2,
		Mode:                   Backproject,
		PercentPixelsToTest:    0.5,
		PercentPixelsSatisfied: 0.9,
	}
	reason, ok := crit.ShouldSplit(ctx)
	require.True(t, ok)
	assert.Equal(t, ReasonTexture, reason)
}
