package poisson

// resolveIndex maps a possibly out-of-range (row, col) to an in-range one
// according to mode; every mode resolves to some in-range cell.
func resolveIndex(row, col, w, h int, mode EdgeMode) (r, c int) {
	switch mode {
	case WrapCylinder:
		return clampInt(row, 0, h-1), wrapInt(col, w)
	case WrapTorus:
		return wrapInt(row, h), wrapInt(col, w)
	case WrapSphere:
		return resolveSphere(row, col, w, h)
	default: // Clamp
		return clampInt(row, 0, h-1), clampInt(col, 0, w-1)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrapInt(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// resolveSphere wraps columns normally; when a row index crosses the top or
// bottom edge it reflects back onto the grid and shifts the column by half
// the width, approximating "continuing over the pole onto the opposite
// meridian" for an equirectangular (lat/long) parameterization. A fully
// correct spherical wrap would need the true antipodal point for a
// non-equirectangular layout; this assumes equirectangular rows/cols, which
// is the layout every texture atlas in this pipeline actually uses.
func resolveSphere(row, col, w, h int) (r, c int) {
	c = wrapInt(col, w)
	if row < 0 {
		r = -row - 1
		c = wrapInt(c+w/2, w)
	} else if row >= h {
		r = 2*h - row - 1
		c = wrapInt(c+w/2, w)
	} else {
		r = row
	}
	r = clampInt(r, 0, h-1)
	return r, c
}

// neighborOffsets are the 4-connected stencil directions.
var neighborOffsets = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
