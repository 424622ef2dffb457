package texture

import (
	"image"
	"image/color"
	"math"
)

// sampleBicubic samples img at normalized UV coordinates (u,v, both in
// [0,1], v measured from the top like image space) using a 4x4 Catmull-Rom
// convolution kernel. Bake needs to resample at an arbitrary scattered UV
// per output texel, which is a different operation from the whole-image
// affine resize gift.Resize performs (see internal/texture/atlas.go for
// where gift is actually wired in), so this kernel is authored directly
// against the standard Catmull-Rom cubic formula.
func sampleBicubic(img image.Image, u, v float64) color.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return color.RGBA{}
	}
	fx := u*float64(w) - 0.5
	fy := v*float64(h) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	var samples [4][4]color.RGBA
	for j := -1; j <= 2; j++ {
		for i := -1; i <= 2; i++ {
			samples[j+1][i+1] = clampedAt(img, b, x0+i, y0+j)
		}
	}

	var out [4]float64
	for ch := 0; ch < 4; ch++ {
		var colVals [4]float64
		for j := 0; j < 4; j++ {
			var px [4]float64
			for i := 0; i < 4; i++ {
				px[i] = channelOf(samples[j][i], ch)
			}
			colVals[j] = cubicInterp(px[0], px[1], px[2], px[3], tx)
		}
		out[ch] = cubicInterp(colVals[0], colVals[1], colVals[2], colVals[3], ty)
	}
	return color.RGBA{R: clampByte(out[0]), G: clampByte(out[1]), B: clampByte(out[2]), A: clampByte(out[3])}
}

func clampedAt(img image.Image, b image.Rectangle, x, y int) color.RGBA {
	if x < b.Min.X {
		x = b.Min.X
	}
	if x >= b.Max.X {
		x = b.Max.X - 1
	}
	if y < b.Min.Y {
		y = b.Min.Y
	}
	if y >= b.Max.Y {
		y = b.Max.Y - 1
	}
	r, g, bl, a := img.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(a >> 8)}
}

func channelOf(c color.RGBA, ch int) float64 {
	switch ch {
	case 0:
		return float64(c.R)
	case 1:
		return float64(c.G)
	case 2:
		return float64(c.B)
	default:
		return float64(c.A)
	}
}

// cubicInterp is the standard Catmull-Rom spline through 4 equally spaced
// samples, evaluated at parameter t in [0,1] between p1 and p2.
func cubicInterp(p0, p1, p2, p3, t float64) float64 {
	a := -0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3
	bb := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c := -0.5*p0 + 0.5*p2
	d := p1
	return a*t*t*t + bb*t*t + c*t + d
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
