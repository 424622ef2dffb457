package raster

import "math"

// RGBToLAB converts a 3-band [0,1]-range RGB raster to CIE L*a*b*, used by
// the Poisson stitcher so that seam blending happens in a perceptually
// uniform space. useLogLuminance applies log1p to the L
// channel beforehand, which compresses the dynamic range of the high-
// contrast orbital/surface imagery this pipeline targets.
func RGBToLAB(src *Raster[float32], useLogLuminance bool) (*Raster[float32], error) {
	if src.Bands() != 3 {
		return nil, errBandCount(src.Bands())
	}
	out, err := New[float32](3, src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	for row := 0; row < src.Height(); row++ {
		for col := 0; col < src.Width(); col++ {
			r, _ := src.At(0, row, col)
			g, _ := src.At(1, row, col)
			b, _ := src.At(2, row, col)
			l, a, bb := rgbToLab(float64(r), float64(g), float64(b))
			if useLogLuminance {
				l = math.Log1p(l)
			}
			out.Set(0, row, col, float32(l))
			out.Set(1, row, col, float32(a))
			out.Set(2, row, col, float32(bb))
		}
	}
	if src.HasMask() {
		out.CreateMask()
		for row := 0; row < src.Height(); row++ {
			for col := 0; col < src.Width(); col++ {
				out.SetValid(row, col, src.IsValid(row, col))
			}
		}
	}
	return out, nil
}

// LABToRGB is the inverse of RGBToLAB. useLogLuminance must match the value
// passed to RGBToLAB for the forward conversion.
func LABToRGB(src *Raster[float32], useLogLuminance bool) (*Raster[float32], error) {
	if src.Bands() != 3 {
		return nil, errBandCount(src.Bands())
	}
	out, err := New[float32](3, src.Width(), src.Height())
	if err != nil {
		return nil, err
	}
	for row := 0; row < src.Height(); row++ {
		for col := 0; col < src.Width(); col++ {
			l, _ := src.At(0, row, col)
			a, _ := src.At(1, row, col)
			b, _ := src.At(2, row, col)
			lf := float64(l)
			if useLogLuminance {
				lf = math.Expm1(lf)
			}
			r, g, bb := labToRGB(lf, float64(a), float64(b))
			out.Set(0, row, col, float32(r))
			out.Set(1, row, col, float32(g))
			out.Set(2, row, col, float32(bb))
		}
	}
	return out, nil
}

func errBandCount(n int) error {
	return &bandCountError{n}
}

type bandCountError struct{ n int }

func (e *bandCountError) Error() string {
	return "raster.RGBToLAB/LABToRGB requires a 3-band raster"
}

// rgbToLab/labToRGB implement the standard sRGB -> CIE XYZ (D65) -> CIE
// L*a*b* pipeline. Inputs and outputs for RGB are gamma-encoded sRGB values
// in [0,1]; the sRGB transfer curve is undone before the XYZ step and
// reapplied on the way back.
func rgbToLab(r, g, b float64) (l, a, bb float64) {
	lin := func(c float64) float64 {
		if c <= 0.04045 {
			return c / 12.92
		}
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	rl, gl, bl := lin(r), lin(g), lin(b)

	x := rl*0.4124564 + gl*0.3575761 + bl*0.1804375
	y := rl*0.2126729 + gl*0.7151522 + bl*0.0721750
	z := rl*0.0193339 + gl*0.1191920 + bl*0.9503041

	const xn, yn, zn = 0.95047, 1.0, 1.08883
	f := func(t float64) float64 {
		const delta = 6.0 / 29.0
		if t > delta*delta*delta {
			return math.Cbrt(t)
		}
		return t/(3*delta*delta) + 4.0/29.0
	}
	fx, fy, fz := f(x/xn), f(y/yn), f(z/zn)

	l = 116*fy - 16
	a = 500 * (fx - fy)
	bb = 200 * (fy - fz)
	return
}

func labToRGB(l, a, b float64) (r, g, bl float64) {
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200

	const delta = 6.0 / 29.0
	finv := func(t float64) float64 {
		if t > delta {
			return t * t * t
		}
		return 3 * delta * delta * (t - 4.0/29.0)
	}
	const xn, yn, zn = 0.95047, 1.0, 1.08883
	x := xn * finv(fx)
	y := yn * finv(fy)
	z := zn * finv(fz)

	rl := x*3.2404542 + y*-1.5371385 + z*-0.4985314
	gl := x*-0.9692660 + y*1.8760108 + z*0.0415560
	bll := x*0.0556434 + y*-0.2040259 + z*1.0572252

	gamma := func(c float64) float64 {
		if c <= 0.0031308 {
			return 12.92 * c
		}
		return 1.055*math.Pow(c, 1/2.4) - 0.055
	}
	r, g, bl = gamma(rl), gamma(gl), gamma(bll)
	return
}
