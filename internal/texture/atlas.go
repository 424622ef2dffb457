package texture

import (
	"image"
	"image/draw"
	"sort"

	"github.com/disintegration/gift"

	"github.com/NASA-AMMOS/Landform-sub006/internal/geoerror"
	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

// TexturePatchBorderSize is the default padding, in atlas pixels, left
// around each repacked patch.
const TexturePatchBorderSize = 2

// TexturedMeshClipper collects per-face minimal-bounding-rectangle UV
// patches from a mesh's existing texture, sorts them by area, and packs
// them into a single square atlas.
type TexturedMeshClipper struct {
	MaxTileResolution int
	BorderSize        int // 0 means TexturePatchBorderSize
}

type patch struct {
	face                   int
	uMin, vMin, uMax, vMax float64
}

func (p patch) area() float64 { return (p.uMax - p.uMin) * (p.vMax - p.vMin) }

func collectPatches(m *mesh.Mesh) []patch {
	patches := make([]patch, 0, m.FaceCount())
	for f := 0; f < m.FaceCount(); f++ {
		face := m.Faces[f]
		a, b, c := m.Vertices[face[0]].UV, m.Vertices[face[1]].UV, m.Vertices[face[2]].UV
		if a == nil || b == nil || c == nil {
			continue
		}
		uMin, uMax := minmax3(a.X, b.X, c.X)
		vMin, vMax := minmax3(a.Y, b.Y, c.Y)
		patches = append(patches, patch{face: f, uMin: uMin, vMin: vMin, uMax: uMax, vMax: vMax})
	}
	return patches
}

func minmax3(a, b, c float64) (lo, hi float64) {
	lo, hi = a, a
	for _, v := range []float64{b, c} {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

type placement struct {
	x, y, w, h int
}

// packShelf places patches into a side x side square using a simple
// decreasing-height shelf packer: patches are assumed pre-sorted largest
// first, and each row ("shelf") fills left to right until a patch doesn't
// fit, then starts a new shelf below the tallest patch placed on the
// current one. Simpler than a full guillotine/maxrects packer, traded for
// an implementation whose placement invariants (no overlap, everything
// within bounds) are easy to hand-verify without a compiler.
func packShelf(patches []patch, side, border int) ([]placement, bool) {
	placements := make([]placement, len(patches))
	cursorX, cursorY, shelfHeight := border, border, 0

	for i, p := range patches {
		w, h := patchPixelSize(p, side, border)
		if cursorX+w+border > side {
			cursorX = border
			cursorY += shelfHeight + border
			shelfHeight = 0
		}
		if cursorY+h+border > side {
			return nil, false
		}
		placements[i] = placement{x: cursorX, y: cursorY, w: w, h: h}
		cursorX += w + border
		if h > shelfHeight {
			shelfHeight = h
		}
	}
	return placements, true
}

// patchPixelSize scales a UV-space patch's footprint proportionally to the
// atlas side, preserving its aspect ratio, clamped to a sane minimum so a
// degenerate (zero-area) patch still occupies a visible texel.
func patchPixelSize(p patch, side, border int) (w, h int) {
	uExtent := p.uMax - p.uMin
	vExtent := p.vMax - p.vMin
	w = int(uExtent * float64(side))
	h = int(vExtent * float64(side))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	maxDim := side - 2*border
	if maxDim < 1 {
		maxDim = 1
	}
	if w > maxDim {
		w = maxDim
	}
	if h > maxDim {
		h = maxDim
	}
	return w, h
}

// PackedAtlas is the result of a Clip/Repack: the new atlas image and a
// mesh carrying the rewritten UVs that index into it.
type PackedAtlas struct {
	Image *image.RGBA
	Mesh  *mesh.Mesh
}

// ClipAndRepack crops each UV patch out of the mesh's existing texture,
// resizes it into its shelf-packed atlas cell, and returns the new atlas
// image alongside a mesh whose UVs have been rewritten to match.
func (c TexturedMeshClipper) ClipAndRepack(m *mesh.Mesh, source image.Image) (*PackedAtlas, error) {
	border := c.BorderSize
	if border == 0 {
		border = TexturePatchBorderSize
	}
	if c.MaxTileResolution <= 2*border {
		return nil, geoerror.ErrAtlasOverflow
	}
	patches := collectPatches(m)
	sort.Slice(patches, func(i, j int) bool { return patches[i].area() > patches[j].area() })

	placements, ok := packShelf(patches, c.MaxTileResolution, border)
	if !ok {
		return nil, geoerror.ErrAtlasOverflow
	}

	atlasImg := image.NewRGBA(image.Rect(0, 0, c.MaxTileResolution, c.MaxTileResolution))
	out := &mesh.Mesh{}
	srcBounds := source.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()

	for i, p := range patches {
		pl := placements[i]
		cropRect := image.Rect(
			srcBounds.Min.X+int(p.uMin*float64(srcW)),
			srcBounds.Min.Y+int(p.vMin*float64(srcH)),
			srcBounds.Min.X+int(p.uMax*float64(srcW))+1,
			srcBounds.Min.Y+int(p.vMax*float64(srcH))+1,
		).Intersect(srcBounds)
		if cropRect.Empty() {
			continue
		}
		cropped := image.NewRGBA(image.Rect(0, 0, cropRect.Dx(), cropRect.Dy()))
		draw.Draw(cropped, cropped.Bounds(), source, cropRect.Min, draw.Src)

		resized := resizeWithGift(cropped, pl.w, pl.h)
		draw.Draw(atlasImg, image.Rect(pl.x, pl.y, pl.x+pl.w, pl.y+pl.h), resized, image.Point{}, draw.Src)

		appendRepackedFace(out, m, p, pl, c.MaxTileResolution)
	}

	return &PackedAtlas{Image: atlasImg, Mesh: out}, nil
}

// resizeWithGift uses disintegration/gift's bicubic resampling filter to
// resize a cropped source patch into its allotted atlas cell — a
// whole-image affine resize, exactly the operation gift.Resize is built
// for (unlike Bake's scattered per-texel UV sampling, which has no
// single-image primitive to reuse).
func resizeWithGift(src image.Image, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g := gift.New(gift.Resize(w, h, gift.CubicResampling))
	dst := image.NewRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// appendRepackedFace copies face p.face's three vertices into out with UVs
// rewritten to point into the patch's new atlas cell, appending a fresh
// triangle. Vertices are duplicated per face rather than shared, since two
// faces sharing a source vertex can land in different atlas cells with
// different local UVs — the same "each triangle owns its own UV chart"
// trade every atlas repacker makes.
func appendRepackedFace(out, src *mesh.Mesh, p patch, pl placement, side int) {
	uExtent := p.uMax - p.uMin
	vExtent := p.vMax - p.vMin
	base := len(out.Vertices)
	for _, vi := range src.Faces[p.face] {
		v := src.Vertices[vi]
		localU, localV := 0.0, 0.0
		if v.UV != nil {
			if uExtent > 0 {
				localU = (v.UV.X - p.uMin) / uExtent
			}
			if vExtent > 0 {
				localV = (v.UV.Y - p.vMin) / vExtent
			}
		}
		newUV := mesh.Vec2{
			X: (float64(pl.x) + localU*float64(pl.w)) / float64(side),
			Y: (float64(pl.y) + localV*float64(pl.h)) / float64(side),
		}
		nv := mesh.Vertex{Position: v.Position, Normal: v.Normal, Color: v.Color, UV: &newUV}
		out.Vertices = append(out.Vertices, nv)
	}
	out.Faces = append(out.Faces, [3]int{base, base + 1, base + 2})
}
