package sparse

import (
	"testing"

	"github.com/NASA-AMMOS/Landform-sub006/internal/raster"
	"github.com/stretchr/testify/require"
)

func TestTerrariumCodecRoundTripsElevation(t *testing.T) {
	encodeFn, decodeFn := TerrariumCodec()

	src, err := raster.New[float32](1, 3, 2)
	require.NoError(t, err)
	want := [][]float32{{100.5, -200.25, 0}, {1234.0, -32768, 32767}}
	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			require.NoError(t, src.Set(0, row, col, want[row][col]))
		}
	}

	data, err := encodeFn(src)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, err := decodeFn(data, 3, 2)
	require.NoError(t, err)

	for row := 0; row < 2; row++ {
		for col := 0; col < 3; col++ {
			v, err := got.At(0, row, col)
			require.NoError(t, err)
			// Terrarium quantizes to 1/256 m; allow for that rounding.
			diff := float64(v) - float64(want[row][col])
			if diff < 0 {
				diff = -diff
			}
			if diff > 0.01 {
				t.Fatalf("row %d col %d: got %v, want ~%v", row, col, v, want[row][col])
			}
		}
	}
}

func TestTerrariumCodecRejectsMultiBandRaster(t *testing.T) {
	encodeFn, _ := TerrariumCodec()
	src, err := raster.New[float32](2, 2, 2)
	require.NoError(t, err)

	_, err = encodeFn(src)
	require.Error(t, err)
}
