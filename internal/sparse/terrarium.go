package sparse

import (
	"fmt"
	"image"
	"image/color"

	"github.com/NASA-AMMOS/Landform-sub006/internal/encode"
	"github.com/NASA-AMMOS/Landform-sub006/internal/raster"
)

// TerrariumCodec returns the Encode/Decode pair a single-band float32
// elevation sparse.Raster needs to spill chunks through a BlobStore, built
// on the Terrarium tile format (internal/encode/terrarium.go:
// ElevationToTerrarium/TerrariumToElevation, an RGB-packed-meters encoding
// used for web elevation tiles) rather than a raw float32 dump, so a chunk
// persisted by this package can also be opened as an ordinary PNG by
// anything that speaks Terrarium.
func TerrariumCodec() (encodeFn func(*raster.Raster[float32]) ([]byte, error), decodeFn func([]byte, int, int) (*raster.Raster[float32], error)) {
	enc := &encode.TerrariumEncoder{}

	encodeFn = func(c *raster.Raster[float32]) ([]byte, error) {
		if c.Bands() != 1 {
			return nil, fmt.Errorf("sparse.TerrariumCodec: encode requires a single-band raster, got %d bands", c.Bands())
		}
		w, h := c.Width(), c.Height()
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				v, err := c.At(0, row, col)
				if err != nil {
					return nil, fmt.Errorf("sparse.TerrariumCodec: encode: %w", err)
				}
				img.Set(col, row, encode.ElevationToTerrarium(float64(v)))
			}
		}
		return enc.Encode(img)
	}

	decodeFn = func(data []byte, w, h int) (*raster.Raster[float32], error) {
		img, err := encode.DecodeImage(data, "terrarium")
		if err != nil {
			return nil, fmt.Errorf("sparse.TerrariumCodec: decode: %w", err)
		}
		c, err := raster.New[float32](1, w, h)
		if err != nil {
			return nil, fmt.Errorf("sparse.TerrariumCodec: decode: %w", err)
		}
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				r, g, b, a := img.At(col, row).RGBA()
				px := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
				elev := encode.TerrariumToElevation(px)
				if err := c.Set(0, row, col, float32(elev)); err != nil {
					return nil, fmt.Errorf("sparse.TerrariumCodec: decode: %w", err)
				}
			}
		}
		return c, nil
	}
	return encodeFn, decodeFn
}
