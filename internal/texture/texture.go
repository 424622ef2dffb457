// Package texture bakes and clips textures onto a mesh: resampling source
// imagery onto a target mesh's UV layout, in-painting unresolved texels,
// and repacking per-face patches into a new atlas.
//
// Its per-pixel rendering loop generalizes a 2-D CRS-remap sampling loop
// (iterate output pixels, map each to source coordinates, sample a source
// reader) into a 3-D mesh-UV remap: each output texel lifts through the
// target mesh's UV→barycentric map to a 3-D point, the nearest source
// triangle (found via a kd-tree-indexed, merged source mesh —
// internal/mesh.Index) supplies a source UV, and that UV is sampled from
// the source image.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/NASA-AMMOS/Landform-sub006/internal/buildlog"
	"github.com/NASA-AMMOS/Landform-sub006/internal/cog"
	"github.com/NASA-AMMOS/Landform-sub006/internal/encode"
	"github.com/NASA-AMMOS/Landform-sub006/internal/geoerror"
	"github.com/NASA-AMMOS/Landform-sub006/internal/mesh"
)

// LoadCOGImage opens the COG/GeoTIFF at path and reads the full extent of
// the given IFD level as an RGBA image, suitable for use as a
// SourcePair.Image in a Bake call. It closes the underlying file before
// returning, since the caller only needs the decoded pixels, not continued
// access to the source file.
func LoadCOGImage(path string, level int) (image.Image, error) {
	r, err := cog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture.LoadCOGImage: %w", err)
	}
	defer r.Close()

	if level < 0 || level >= r.IFDCount() {
		return nil, fmt.Errorf("texture.LoadCOGImage: level %d out of range [0,%d)", level, r.IFDCount())
	}

	img, err := r.ReadRegion(level, 0, 0, r.IFDWidth(level), r.IFDHeight(level))
	if err != nil {
		return nil, fmt.Errorf("texture.LoadCOGImage: %w", err)
	}
	return img, nil
}

// SourcePair is one (source mesh, source image, optional origin-index
// raster) contributing imagery to a bake.
type SourcePair struct {
	Mesh  *mesh.Mesh
	Image image.Image
	Index *IndexRaster // nil if this source carries no per-pixel origin index
}

// BakeOptions parameterizes a Bake call.
type BakeOptions struct {
	Width, Height int
	PadWidth      int // in-paint dilation radius for texels no source could resolve
	Log           *buildlog.Logger
}

// Result is the product of a Bake: the composited color texture, and, only
// when every source pair supplied an origin index, the merged origin-index
// raster — the origin index is emitted only if every source pair supplied
// one, since a partial index would misattribute texels from the sources
// that didn't.
type Result struct {
	Image       *image.RGBA
	Index       *IndexRaster
	ValidTexels int
	TotalTexels int
}

// mergedSource is the concatenation of every source pair's mesh into one
// mesh.Mesh, with a parallel slice recording which source pair each merged
// face came from — this lets a single mesh.Index (a kd-tree) serve queries
// across all sources at once, rather than querying each source mesh's own
// index separately and reconciling by hand.
type mergedSource struct {
	mesh       *mesh.Mesh
	index      *mesh.Index
	faceSource []int
}

func buildMergedSource(sources []SourcePair) mergedSource {
	merged := &mesh.Mesh{}
	var faceSource []int
	for si, s := range sources {
		base := len(merged.Vertices)
		merged.Vertices = append(merged.Vertices, s.Mesh.Vertices...)
		for _, f := range s.Mesh.Faces {
			merged.Faces = append(merged.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
			faceSource = append(faceSource, si)
		}
	}
	return mergedSource{mesh: merged, index: mesh.BuildIndex(merged), faceSource: faceSource}
}

// Bake resamples every source pair's imagery onto target's UV layout, one
// texel at a time, then in-paints any texel no source could resolve.
func Bake(target *mesh.Mesh, sources []SourcePair, opts BakeOptions) (*Result, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, geoerror.ErrInvalidDimensions
	}
	if len(sources) == 0 {
		return nil, geoerror.ErrNoSources
	}
	targetIndex := mesh.BuildIndex(target)
	merged := buildMergedSource(sources)

	allSourcesHaveIndex := true
	for _, s := range sources {
		if s.Index == nil {
			allSourcesHaveIndex = false
			break
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	valid := make([]bool, opts.Width*opts.Height)
	var outIndex *IndexRaster
	if allSourcesHaveIndex {
		outIndex = NewIndexRaster(opts.Width, opts.Height)
	}

	validCount := 0
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			u := (float64(x) + 0.5) / float64(opts.Width)
			v := (float64(y) + 0.5) / float64(opts.Height)

			face, bu, bv, bw, ok := targetIndex.NearestTriangleContaining(mesh.Vec2{X: u, Y: v})
			if !ok {
				continue
			}
			p := liftToWorld(target, face, bu, bv, bw)

			srcFace, found := merged.index.NearestTriangle(p)
			if !found {
				continue
			}
			si := merged.faceSource[srcFace]
			source := sources[si]
			su, sv, ok := sourceUV(merged.mesh, srcFace, p)
			if !ok {
				continue
			}

			out.Set(x, y, sampleBicubic(source.Image, su, sv))
			if outIndex != nil && source.Index != nil {
				row, col := source.Index.At(clampTexel(su, source.Index.Width), clampTexel(sv, source.Index.Height))
				outIndex.Set(x, y, row, col)
			}
			valid[y*opts.Width+x] = true
			validCount++
		}
	}

	if opts.PadWidth > 0 {
		inpaint(out, valid, opts.Width, opts.Height, opts.PadWidth)
	}
	opts.Log.Debugf("baked %d/%d texels valid before in-paint", validCount, opts.Width*opts.Height)

	return &Result{Image: out, Index: outIndex, ValidTexels: validCount, TotalTexels: opts.Width * opts.Height}, nil
}

// Encode compresses a bake's Result.Image into tile-content bytes using
// format (any of encode.NewEncoder's "jpeg"/"png"/"webp") at the given
// quality (ignored by "png"), returning the bytes and a file extension to
// write them under.
func Encode(result *Result, format string, quality int) (data []byte, ext string, err error) {
	enc, err := encode.NewEncoder(format, quality)
	if err != nil {
		return nil, "", fmt.Errorf("texture.Encode: %w", err)
	}
	data, err = enc.Encode(result.Image)
	if err != nil {
		return nil, "", fmt.Errorf("texture.Encode: %w", err)
	}
	return data, enc.FileExtension(), nil
}

func clampTexel(frac float64, dim int) int {
	px := int(frac * float64(dim))
	if px < 0 {
		return 0
	}
	if px >= dim {
		return dim - 1
	}
	return px
}

// liftToWorld reconstructs the 3-D point on face f of mesh m that has
// barycentric weights (bu,bv,bw).
func liftToWorld(m *mesh.Mesh, f int, bu, bv, bw float64) mesh.Vec3 {
	a, b, c := m.Vertices[m.Faces[f][0]].Position, m.Vertices[m.Faces[f][1]].Position, m.Vertices[m.Faces[f][2]].Position
	return mesh.Vec3{
		X: a.X*bu + b.X*bv + c.X*bw,
		Y: a.Y*bu + b.Y*bv + c.Y*bw,
		Z: a.Z*bu + b.Z*bv + c.Z*bw,
	}
}

// sourceUV projects world point p onto merged face srcFace's plane to find
// its barycentric weights, then interpolates that face's UVs. p is not
// guaranteed to lie exactly on the plane (it came from the nearest, not
// necessarily containing, triangle), so the barycentric weights are
// computed via the least-squares-equivalent 3-D formula (component E's
// Barycentric, which already tolerates small out-of-plane error) rather
// than requiring an exact planar hit.
func sourceUV(m *mesh.Mesh, f int, p mesh.Vec3) (u, v float64, ok bool) {
	bu, bv, bw, inside := m.Barycentric(f, p)
	if !inside {
		// Clamp to the triangle for points just outside it — still the best
		// nearby source UV available.
		bu, bv, bw = clampBarycentric(bu, bv, bw)
	}
	verts := m.Faces[f]
	uva, uvb, uvc := m.Vertices[verts[0]].UV, m.Vertices[verts[1]].UV, m.Vertices[verts[2]].UV
	if uva == nil || uvb == nil || uvc == nil {
		return 0, 0, false
	}
	return uva.X*bu + uvb.X*bv + uvc.X*bw, uva.Y*bu + uvb.Y*bv + uvc.Y*bw, true
}

func clampBarycentric(u, v, w float64) (float64, float64, float64) {
	u = math.Max(0, u)
	v = math.Max(0, v)
	w = math.Max(0, w)
	sum := u + v + w
	if sum == 0 {
		return 1, 0, 0
	}
	return u / sum, v / sum, w / sum
}

// inpaint fills texels Bake could not resolve by repeatedly dilating the
// valid region up to padWidth rounds, averaging each invalid texel's valid
// 8-neighbors — grounded on component C's Dilate window-walk shape,
// specialized here to also carry forward a color average rather than a
// boolean.
func inpaint(img *image.RGBA, valid []bool, w, h, padWidth int) {
	cur := append([]bool(nil), valid...)
	for round := 0; round < padWidth; round++ {
		next := append([]bool(nil), cur...)
		changed := false
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if cur[y*w+x] {
					continue
				}
				var rs, gs, bs, as, n int
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h || !cur[ny*w+nx] {
							continue
						}
						c := img.RGBAAt(nx, ny)
						rs += int(c.R)
						gs += int(c.G)
						bs += int(c.B)
						as += int(c.A)
						n++
					}
				}
				if n == 0 {
					continue
				}
				img.SetRGBA(x, y, color.RGBA{R: uint8(rs / n), G: uint8(gs / n), B: uint8(bs / n), A: uint8(as / n)})
				next[y*w+x] = true
				changed = true
			}
		}
		cur = next
		if !changed {
			break
		}
	}
}
