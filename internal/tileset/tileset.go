// Package tileset walks a built internal/tiletree.Tree and emits the
// 3D-Tiles-style JSON descriptor tree (tileset.json) plus, separately, the
// scene manifest (scene.json — camera models, frame graph, site-drives,
// tileset refs).
//
// Grounded on other_examples/xiaolingis-gocesiumtiler's io-consumer.go
// (createTilesetJson): that function walks an octree node, building a
// Tileset{Asset, GeometricError, Root} envelope and one Child descriptor
// per surviving child, each carrying its own BoundingVolume/GeometricError/
// Refine/Content. This package generalizes that single-level walk (called
// once per on-disk directory, in a point-cloud pipeline) into one
// recursive walk over tiletree.Tree's full in-memory graph (a mesh
// pipeline, where a parent node can carry merged content of its own),
// and uses the box bounding-volume form (a center plus three half-axis
// vectors) rather than a WGS84 "region".
package tileset

import (
	"encoding/json"
	"fmt"

	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
	"github.com/NASA-AMMOS/Landform-sub006/internal/tiletree"
)

// Refine is always "REPLACE" in this pipeline: a tile's children fully
// supersede it at render time, the standard 3D Tiles LOD rule for
// re-baked (not additively streamed) content, unlike a point-cloud's "add"
// refinement where children only fill in detail the parent's own sparse
// points didn't cover.
const Refine = "REPLACE"

// GltfUpAxis is the up-axis declared in every emitted tileset.json.
const GltfUpAxis = "z"

// BoundingVolume carries the 12-number 3D Tiles box form:
// [cx,cy,cz, halfX.x,halfX.y,halfX.z, halfY.x,halfY.y,halfY.z, halfZ.x,halfZ.y,halfZ.z].
// An axis-aligned box (every tile bounds in this pipeline) has halfX,
// halfY, halfZ each aligned with one world axis, so only their diagonal
// entries are ever non-zero — still emitted in full per the 3D Tiles box form.
type BoundingVolume struct {
	Box [12]float64 `json:"box"`
}

// boxFromBounds converts an axis-aligned mesh.Bounds to the 3D Tiles box
// bounding-volume form.
func boxFromBounds(b mesh.Bounds) BoundingVolume {
	cx := (b.Min.X + b.Max.X) / 2
	cy := (b.Min.Y + b.Max.Y) / 2
	cz := (b.Min.Z + b.Max.Z) / 2
	hx := (b.Max.X - b.Min.X) / 2
	hy := (b.Max.Y - b.Min.Y) / 2
	hz := (b.Max.Z - b.Min.Z) / 2
	return BoundingVolume{Box: [12]float64{
		cx, cy, cz,
		hx, 0, 0,
		0, hy, 0,
		0, 0, hz,
	}}
}

// Content references a tile's on-disk payload ("<tile-id>.b3dm"). The payload bytes themselves are produced elsewhere
// (internal/texture's Bake output plus an encode.Encoder) — this package
// only names the reference, it doesn't author glTF/b3dm binary content (no
// pack example or dependency provides a glTF encoder; authoring one from
// scratch is out of scope for a JSON-tree serializer).
type Content struct {
	URI string `json:"uri"`
}

// Descriptor is one node of the tileset.json tree.
type Descriptor struct {
	BoundingVolume BoundingVolume `json:"boundingVolume"`
	GeometricError float64        `json:"geometricError"`
	Refine         string         `json:"refine,omitempty"`
	Content        *Content       `json:"content,omitempty"`
	Children       []*Descriptor  `json:"children,omitempty"`
}

// Asset is the tileset.json "asset" block.
type Asset struct {
	Version    string `json:"version"`
	GltfUpAxis string `json:"gltfUpAxis"`
}

// Document is the full tileset.json contents.
type Document struct {
	Asset          Asset      `json:"asset"`
	GeometricError float64    `json:"geometricError"`
	Root           Descriptor `json:"root"`
	// Transform is the root transform, identity by default: a row-major
	// 4x4 matrix, omitted entirely when nil, in which case a 3D Tiles
	// reader's own identity default applies.
	Transform []float64 `json:"transform,omitempty"`
}

// ContentURI derives a tile's content reference: the uniform ".b3dm"
// suffix applies regardless of Leaf. The descriptor walk attaches content
// only to tiles that are leaves or carry a MeshBlobID.
func ContentURI(tileID string) string {
	return tileID + ".b3dm"
}

// Build walks tree from tiletree.RootID and returns the tileset.json
// document. identityRootTransform, when true, emits an explicit 4x4
// identity matrix for Document.Transform rather than omitting it — useful
// for readers that don't apply 3D Tiles' own implicit identity default.
func Build(tree *tiletree.Tree, identityRootTransform bool) (*Document, error) {
	root, ok := tree.Nodes[tiletree.RootID]
	if !ok {
		return nil, fmt.Errorf("tileset.Build: tree has no %q node", tiletree.RootID)
	}
	desc, err := buildDescriptor(tree, root)
	if err != nil {
		return nil, err
	}
	doc := &Document{
		Asset:          Asset{Version: "1.0", GltfUpAxis: GltfUpAxis},
		GeometricError: root.GeometricError,
		Root:           *desc,
	}
	if identityRootTransform {
		doc.Transform = []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}
	}
	return doc, nil
}

func buildDescriptor(tree *tiletree.Tree, tile *tiletree.Tile) (*Descriptor, error) {
	desc := &Descriptor{
		BoundingVolume: boxFromBounds(tile.Bounds),
		GeometricError: tile.GeometricError,
		Refine:         Refine,
	}
	if tile.MeshBlobID != "" || tile.Leaf {
		desc.Content = &Content{URI: ContentURI(tile.ID)}
	}
	for _, childID := range tile.Children {
		child, ok := tree.Nodes[childID]
		if !ok {
			return nil, fmt.Errorf("tileset.Build: %q references missing child %q", tile.ID, childID)
		}
		childDesc, err := buildDescriptor(tree, child)
		if err != nil {
			return nil, err
		}
		desc.Children = append(desc.Children, childDesc)
	}
	return desc, nil
}

// Marshal renders doc as indented JSON (json.MarshalIndent with a tab
// indent), for a human-diffable tileset.json.
func Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "\t")
}
