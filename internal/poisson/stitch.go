package poisson

import (
	"github.com/NASA-AMMOS/Landform-sub006/internal/raster"
)

// Stitch runs Solve independently over every band of img (optionally
// converting to CIE L*a*b* first per params.ColorSpace, so the blend
// happens in a perceptually uniform space — the same RGBToLAB/LABToRGB
// component B built for exactly this use), using flags/sourceIndex (row-
// major, one entry per pixel) shared across all bands. A pixel without mask
// coverage (img.HasMask() && !img.IsValid) is forced to FlagNoData
// regardless of what the caller passed, since an invalid source pixel can't
// meaningfully seed or constrain the solve.
func Stitch(img *raster.Raster[float32], flags []CellFlag, sourceIndex []int, params Params) (*raster.Raster[float32], error) {
	w, h := img.Width(), img.Height()
	effFlags := append([]CellFlag(nil), flags...)
	if img.HasMask() {
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				if !img.IsValid(row, col) {
					effFlags[row*w+col] = FlagNoData
				}
			}
		}
	}

	working := img
	if params.ColorSpace == SpaceLAB || params.ColorSpace == SpaceLogLAB {
		lab, err := raster.RGBToLAB(img, params.ColorSpace == SpaceLogLAB)
		if err != nil {
			return nil, err
		}
		working = lab
	}

	out, err := raster.New[float32](working.Bands(), w, h)
	if err != nil {
		return nil, err
	}
	for band := 0; band < working.Bands(); band++ {
		u := make([]float64, w*h)
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				v, _ := working.At(band, row, col)
				u[row*w+col] = float64(v)
			}
		}
		solved := Solve(u, effFlags, sourceIndex, w, h, params)
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				out.Set(band, row, col, float32(solved[row*w+col]))
			}
		}
	}

	if params.ColorSpace == SpaceLAB || params.ColorSpace == SpaceLogLAB {
		return raster.LABToRGB(out, params.ColorSpace == SpaceLogLAB)
	}
	return out, nil
}
