package tiletree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

func leafAt(id string, min, max mesh.Vec3) *Tile {
	b := mesh.Bounds{Min: min, Max: max}
	return &Tile{ID: id, OwnBounds: &b}
}

func TestConnectByNameReconstructsRootAndIntermediates(t *testing.T) {
	leaves := []*Tile{
		leafAt("00", mesh.Vec3{X: 0, Y: 0, Z: 0}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
		leafAt("01", mesh.Vec3{X: 1, Y: 0, Z: 0}, mesh.Vec3{X: 2, Y: 1, Z: 0}),
		leafAt("02", mesh.Vec3{X: 0, Y: 1, Z: 0}, mesh.Vec3{X: 1, Y: 2, Z: 0}),
		leafAt("03", mesh.Vec3{X: 1, Y: 1, Z: 0}, mesh.Vec3{X: 2, Y: 2, Z: 0}),
		leafAt("10", mesh.Vec3{X: 2, Y: 0, Z: 0}, mesh.Vec3{X: 3, Y: 1, Z: 0}),
		leafAt("11", mesh.Vec3{X: 3, Y: 0, Z: 0}, mesh.Vec3{X: 4, Y: 1, Z: 0}),
		leafAt("12", mesh.Vec3{X: 2, Y: 1, Z: 0}, mesh.Vec3{X: 3, Y: 2, Z: 0}),
		leafAt("13", mesh.Vec3{X: 3, Y: 1, Z: 0}, mesh.Vec3{X: 4, Y: 2, Z: 0}),
	}
	tree := ConnectByName(leaves)

	root := tree.Get(RootID)
	require.NotNil(t, root)
	gotChildren := append([]string(nil), root.Children...)
	sort.Strings(gotChildren)
	assert.Equal(t, []string{"0", "1"}, gotChildren)
	assert.False(t, root.Leaf)

	n0 := tree.Get("0")
	require.NotNil(t, n0)
	assert.Equal(t, "root", n0.ParentID)
	assert.Equal(t, 1, n0.Depth)
	assert.False(t, n0.Leaf)
	gotN0Children := append([]string(nil), n0.Children...)
	sort.Strings(gotN0Children)
	assert.Equal(t, []string{"00", "01", "02", "03"}, gotN0Children)

	leaf := tree.Get("00")
	require.NotNil(t, leaf)
	assert.True(t, leaf.Leaf)
	assert.Equal(t, "0", leaf.ParentID)
	assert.Equal(t, 2, leaf.Depth)
}

func TestComputeBoundsUnionsBottomUp(t *testing.T) {
	leaves := []*Tile{
		leafAt("0", mesh.Vec3{X: 0, Y: 0, Z: 0}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
		leafAt("1", mesh.Vec3{X: 5, Y: 5, Z: 0}, mesh.Vec3{X: 6, Y: 6, Z: 0}),
	}
	tree := ConnectByName(leaves)
	rootBounds := tree.ComputeBounds()
	assert.Equal(t, mesh.Vec3{X: 0, Y: 0, Z: 0}, rootBounds.Min)
	assert.Equal(t, mesh.Vec3{X: 6, Y: 6, Z: 0}, rootBounds.Max)
}

func TestComputeBoundsIncludesParentsOwnMesh(t *testing.T) {
	leaves := []*Tile{
		leafAt("0", mesh.Vec3{X: 0, Y: 0, Z: 0}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
		leafAt("1", mesh.Vec3{X: 1, Y: 1, Z: 0}, mesh.Vec3{X: 2, Y: 2, Z: 0}),
	}
	tree := ConnectByName(leaves)
	skirt := mesh.Bounds{Min: mesh.Vec3{X: -1, Y: -1, Z: 0}, Max: mesh.Vec3{X: 0.5, Y: 0.5, Z: 0}}
	tree.Get(RootID).OwnBounds = &skirt

	rootBounds := tree.ComputeBounds()
	assert.Equal(t, mesh.Vec3{X: -1, Y: -1, Z: 0}, rootBounds.Min)
	assert.Equal(t, mesh.Vec3{X: 2, Y: 2, Z: 0}, rootBounds.Max)
}

func TestFindNodesRequiredForParentIncludesOverlappingNeighbor(t *testing.T) {
	// "0" has children "00","01" forming a 0..2 x 0..1 strip; a sibling "1"
	// leaf starts just past x=2 (at 2.02) and must show up once the search
	// bounds are padded by ChildBoundsSearchRatio.
	leaves := []*Tile{
		leafAt("00", mesh.Vec3{X: 0, Y: 0, Z: 0}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
		leafAt("01", mesh.Vec3{X: 1, Y: 0, Z: 0}, mesh.Vec3{X: 2, Y: 1, Z: 0}),
		leafAt("1", mesh.Vec3{X: 2.02, Y: 0, Z: 0}, mesh.Vec3{X: 3, Y: 1, Z: 0}),
	}
	tree := ConnectByName(leaves)
	tree.ComputeBounds()

	node0 := tree.Get("0")
	required := tree.FindNodesRequiredForParent(node0)

	ids := map[string]bool{}
	for _, r := range required {
		ids[r.ID] = true
	}
	assert.True(t, ids["00"])
	assert.True(t, ids["01"])
	assert.True(t, ids["1"], "sibling inside the padded search bounds must be included")
}

func TestFindNodesRequiredForParentExcludesDistantNode(t *testing.T) {
	leaves := []*Tile{
		leafAt("00", mesh.Vec3{X: 0, Y: 0, Z: 0}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
		leafAt("01", mesh.Vec3{X: 1, Y: 0, Z: 0}, mesh.Vec3{X: 2, Y: 1, Z: 0}),
		leafAt("1", mesh.Vec3{X: 100, Y: 100, Z: 0}, mesh.Vec3{X: 101, Y: 101, Z: 0}),
	}
	tree := ConnectByName(leaves)
	tree.ComputeBounds()

	required := tree.FindNodesRequiredForParent(tree.Get("0"))
	for _, r := range required {
		assert.NotEqual(t, "1", r.ID)
	}
}

func TestGeometricErrorIsZeroAtLeavesAndMonotonicUpward(t *testing.T) {
	leaves := []*Tile{
		leafAt("00", mesh.Vec3{}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
		leafAt("01", mesh.Vec3{}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
	}
	for _, l := range leaves {
		l.GeometricError = 0
	}
	tree := ConnectByName(leaves)
	tree.Get("0").GeometricError = 0.5
	tree.Get(RootID).GeometricError = 2.0

	for _, leaf := range leaves {
		assert.Equal(t, 0.0, leaf.GeometricError)
	}
	assert.Less(t, tree.Get("0").GeometricError, tree.Get(RootID).GeometricError)
}

func TestAncestorsAndDescendants(t *testing.T) {
	leaves := []*Tile{
		leafAt("00", mesh.Vec3{}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
		leafAt("01", mesh.Vec3{}, mesh.Vec3{X: 1, Y: 1, Z: 0}),
	}
	tree := ConnectByName(leaves)

	ancestors := tree.Ancestors("00")
	assert.Equal(t, []string{"0", RootID}, ancestors)

	descendants := tree.Descendants(RootID)
	sort.Strings(descendants)
	assert.Equal(t, []string{"0", "00", "01"}, descendants)

	assert.True(t, tree.IsDescendant("00", RootID))
	assert.True(t, tree.IsDescendant("00", "0"))
	assert.False(t, tree.IsDescendant("0", "00"))
}
