package texture

import (
	"bytes"
	"image"
	"image/color"
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

func redImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 20, B: 20, A: 255})
		}
	}
	return img
}

func TestBakeFillsEveryTexelFromASingleSource(t *testing.T) {
	target := unitSquareMesh()
	source := unitSquareMesh()
	img := redImage(8, 8)

	result, err := Bake(target, []SourcePair{{Mesh: source, Image: img}}, BakeOptions{Width: 8, Height: 8, PadWidth: 2})
	require.NoError(t, err)
	assert.Equal(t, 64, result.ValidTexels, "a full-coverage source mesh should resolve every output texel directly")

	c := result.Image.RGBAAt(4, 4)
	assert.InDelta(t, 200, int(c.R), 10)
}

func TestBakeOmitsIndexWhenAnySourceLacksOne(t *testing.T) {
	target := unitSquareMesh()
	source := unitSquareMesh()
	img := redImage(4, 4)

	result, err := Bake(target, []SourcePair{{Mesh: source, Image: img}}, BakeOptions{Width: 4, Height: 4})
	require.NoError(t, err)
	assert.Nil(t, result.Index)
}

func TestBakeEmitsIndexWhenEverySourceHasOne(t *testing.T) {
	target := unitSquareMesh()
	source := unitSquareMesh()
	img := redImage(4, 4)
	idx := NewIndexRaster(4, 4)
	idx.Set(0, 0, 7, 9)

	result, err := Bake(target, []SourcePair{{Mesh: source, Image: img, Index: idx}}, BakeOptions{Width: 4, Height: 4})
	require.NoError(t, err)
	require.NotNil(t, result.Index)
}

func TestBakeRejectsZeroDimensions(t *testing.T) {
	target := unitSquareMesh()
	_, err := Bake(target, []SourcePair{{Mesh: target, Image: redImage(1, 1)}}, BakeOptions{Width: 0, Height: 4})
	assert.Error(t, err)
}

func TestIndexRasterPNGRoundTrip(t *testing.T) {
	idx := NewIndexRaster(3, 2)
	idx.Set(0, 0, 5, 9)
	idx.Set(2, 1, 65535, 12345)

	var buf bytes.Buffer
	require.NoError(t, idx.EncodePNG(&buf))

	decoded, err := DecodeIndexRasterPNG(buf.Bytes())
	require.NoError(t, err)
	row, col := decoded.At(0, 0)
	assert.Equal(t, uint16(5), row)
	assert.Equal(t, uint16(9), col)
	row, col = decoded.At(2, 1)
	assert.Equal(t, uint16(65535), row)
	assert.Equal(t, uint16(12345), col)
}

// twoSmallPatchesMesh has two disjoint, small UV footprints (rather than
// unitSquareMesh's two triangles, whose bounding rectangles both span the
// full unit square), giving the shelf packer genuinely separate patches to
// place side by side.
func twoSmallPatchesMesh() *mesh.Mesh {
	uv := func(x, y float64) *mesh.Vec2 { v := mesh.Vec2{X: x, Y: y}; return &v }
	return &mesh.Mesh{
		Vertices: []mesh.Vertex{
			{Position: mesh.Vec3{X: 0, Y: 0, Z: 0}, UV: uv(0.0, 0.0)},
			{Position: mesh.Vec3{X: 1, Y: 0, Z: 0}, UV: uv(0.2, 0.0)},
			{Position: mesh.Vec3{X: 0, Y: 1, Z: 0}, UV: uv(0.0, 0.2)},
			{Position: mesh.Vec3{X: 2, Y: 0, Z: 0}, UV: uv(0.5, 0.5)},
			{Position: mesh.Vec3{X: 3, Y: 0, Z: 0}, UV: uv(0.7, 0.5)},
			{Position: mesh.Vec3{X: 2, Y: 1, Z: 0}, UV: uv(0.5, 0.7)},
		},
		Faces: [][3]int{{0, 1, 2}, {3, 4, 5}},
	}
}

func TestClipAndRepackPlacesEveryPatchWithinAtlasBounds(t *testing.T) {
	m := twoSmallPatchesMesh()
	src := redImage(16, 16)
	clipper := TexturedMeshClipper{MaxTileResolution: 32}

	packed, err := clipper.ClipAndRepack(m, src)
	require.NoError(t, err)
	assert.Equal(t, 2, packed.Mesh.FaceCount())

	b := packed.Image.Bounds()
	for _, v := range packed.Mesh.Vertices {
		require.NotNil(t, v.UV)
		px := v.UV.X * float64(b.Dx())
		py := v.UV.Y * float64(b.Dy())
		assert.GreaterOrEqual(t, px, -0.001)
		assert.LessOrEqual(t, px, float64(b.Dx())+0.001)
		assert.GreaterOrEqual(t, py, -0.001)
		assert.LessOrEqual(t, py, float64(b.Dy())+0.001)
	}
}

func TestClipAndRepackReportsOverflowWhenAtlasTooSmall(t *testing.T) {
	m := unitSquareMesh()
	src := redImage(16, 16)
	clipper := TexturedMeshClipper{MaxTileResolution: 2, BorderSize: 4}

	_, err := clipper.ClipAndRepack(m, src)
	assert.Error(t, err)
}

func TestEncodePNGRoundTrips(t *testing.T) {
	result := &Result{Image: redImage(4, 4)}

	data, ext, err := Encode(result, "png", 0)
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)
	assert.NotEmpty(t, data)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestEncodeUnsupportedFormatErrors(t *testing.T) {
	result := &Result{Image: redImage(2, 2)}
	_, _, err := Encode(result, "bogus", 0)
	assert.Error(t, err)
}
