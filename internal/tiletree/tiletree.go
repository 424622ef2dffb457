// Package tiletree implements a recursive scene graph of bounded tiles,
// each identified by a digit-string id where every character indexes a
// child of the previous level ("root" is the reserved id of the
// topological root).
//
// The tree-of-named-nodes-with-synthesized-parents shape is grounded on
// pmtiles/internal's pyramid construction (internal/tile/generator.go in
// the geotiff2pmtiles repo), which walks top zoom level downward building
// each level's tiles from the one below; ConnectByName here runs the same
// idea in reverse, from arbitrary leaves back up to a synthesized root.
package tiletree

import (
	"sort"

	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

// RootID is the reserved id of the topological root.
const RootID = "root"

// ChildBoundsSearchRatio scales a parent's children's union bounds before
// testing which other tiles are required as build dependencies, via
// FindNodesRequiredForParent.
const ChildBoundsSearchRatio = 1.1

// Stats summarizes a tile's geometry and texture state.
type Stats struct {
	VertexCount int
	FaceCount   int
	PixelCount  int
	MeshArea    float64
	UVArea      float64
	MinTriArea  float64
	MaxTriArea  float64
	HasIndex    bool
}

// Tile is one node of the tree.
type Tile struct {
	ID       string
	ParentID string
	Depth    int
	Leaf     bool

	Bounds      mesh.Bounds  // union of this node's own mesh (if any) and all children
	OwnBounds   *mesh.Bounds // non-nil when this node directly owns mesh geometry
	SkirtBounds *mesh.Bounds

	GeometricError float64

	MeshBlobID  string
	ImageBlobID string
	IndexBlobID string

	DependencyIDs        []string
	ReverseDependencyIDs []string

	Stats Stats

	Children []string
}

// Tree is a set of Tiles connected by ParentID/Children, rooted at RootID.
type Tree struct {
	Nodes map[string]*Tile
}

// New returns an empty tree containing only the root node.
func New() *Tree {
	return &Tree{Nodes: map[string]*Tile{
		RootID: {ID: RootID, Depth: 0},
	}}
}

func parentIDOf(id string) string {
	if len(id) <= 1 {
		return RootID
	}
	return id[:len(id)-1]
}

// ConnectByName reconstructs a tree from a set of leaf tiles whose IDs are
// digit strings, synthesizing any missing parent.
func ConnectByName(leaves []*Tile) *Tree {
	t := New()
	for _, leaf := range leaves {
		leaf.Leaf = true
		leaf.Depth = len(leaf.ID)
		leaf.ParentID = parentIDOf(leaf.ID)
		t.Nodes[leaf.ID] = leaf
	}
	// Synthesize any missing ancestor, walking each leaf up to the root.
	for _, leaf := range leaves {
		id := leaf.ID
		for id != RootID {
			parentID := parentIDOf(id)
			if _, ok := t.Nodes[parentID]; !ok {
				t.Nodes[parentID] = &Tile{ID: parentID, ParentID: parentIDOf(parentID), Depth: len(parentID)}
			}
			id = parentID
		}
	}
	t.Nodes[RootID].ParentID = ""
	t.Nodes[RootID].Depth = 0

	// Rebuild every node's Children list and Leaf flag from scratch.
	for _, node := range t.Nodes {
		node.Children = nil
	}
	for id, node := range t.Nodes {
		if id == RootID {
			continue
		}
		parent := t.Nodes[node.ParentID]
		parent.Children = append(parent.Children, id)
	}
	for _, node := range t.Nodes {
		sort.Strings(node.Children)
		node.Leaf = len(node.Children) == 0
	}
	return t
}

// Get returns the node with the given id, or nil.
func (t *Tree) Get(id string) *Tile { return t.Nodes[id] }

// Ancestors returns id's parent chain, nearest first, ending at (and
// including) the root.
func (t *Tree) Ancestors(id string) []string {
	var chain []string
	cur := id
	for cur != "" {
		node, ok := t.Nodes[cur]
		if !ok {
			break
		}
		if cur != id {
			chain = append(chain, cur)
		}
		if cur == RootID {
			break
		}
		cur = node.ParentID
	}
	return chain
}

// Descendants returns every node id in the subtree rooted at id, not
// including id itself.
func (t *Tree) Descendants(id string) []string {
	var out []string
	var walk func(string)
	walk = func(cur string) {
		node, ok := t.Nodes[cur]
		if !ok {
			return
		}
		for _, c := range node.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// IsDescendant reports whether id descends from (or equals) ancestor.
func (t *Tree) IsDescendant(id, ancestor string) bool {
	if id == ancestor {
		return true
	}
	cur := id
	for cur != "" && cur != RootID {
		node, ok := t.Nodes[cur]
		if !ok {
			return false
		}
		if node.ParentID == ancestor {
			return true
		}
		cur = node.ParentID
	}
	return false
}
