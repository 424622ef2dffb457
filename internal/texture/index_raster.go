package texture

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/NASA-AMMOS/Landform-sub006/internal/geoerror"
)

// IndexRaster is the per-texel "origin index": which source observation
// (row) and which pixel within it (col) a baked texel was sampled from.
// Encoded losslessly as a 16-bit PNG since this module has no TIFF encoder
// available; only the R (row) and G (col) channels of an NRGBA64 image
// carry data, the B channel is zero and A is fully opaque, giving every
// general-purpose PNG viewer/decoder a valid image even though only 2 of
// its 4 channels mean anything here.
type IndexRaster struct {
	Width, Height int
	Row, Col      []uint16
}

// NewIndexRaster returns a zeroed index raster of the given size.
func NewIndexRaster(width, height int) *IndexRaster {
	return &IndexRaster{
		Width: width, Height: height,
		Row: make([]uint16, width*height),
		Col: make([]uint16, width*height),
	}
}

func (r *IndexRaster) offset(x, y int) int { return y*r.Width + x }

// At returns the source (row, col) recorded at pixel (x, y).
func (r *IndexRaster) At(x, y int) (row, col uint16) {
	i := r.offset(x, y)
	return r.Row[i], r.Col[i]
}

// Set records the source (row, col) for pixel (x, y).
func (r *IndexRaster) Set(x, y int, row, col uint16) {
	i := r.offset(x, y)
	r.Row[i] = row
	r.Col[i] = col
}

// EncodePNG writes r as a 16-bit-per-channel PNG.
func (r *IndexRaster) EncodePNG(w io.Writer) error {
	img := image.NewNRGBA64(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			row, col := r.At(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{R: row, G: col, B: 0, A: 0xFFFF})
		}
	}
	return png.Encode(w, img)
}

// DecodeIndexRasterPNG reads back an IndexRaster previously written by
// EncodePNG.
func DecodeIndexRasterPNG(data []byte) (*IndexRaster, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	nrgba, ok := img.(*image.NRGBA64)
	if !ok {
		return nil, geoerror.ErrFormatUnsupported
	}
	b := nrgba.Bounds()
	out := NewIndexRaster(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba.NRGBA64At(x, y)
			out.Set(x-b.Min.X, y-b.Min.Y, c.R, c.G)
		}
	}
	return out, nil
}
