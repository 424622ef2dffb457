package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDilateGrowsSinglePointToSquareWindow(t *testing.T) {
	r := NewRaster(32, 32, false)
	r.Set(10, 10, true)

	dilated := r.Dilate(3, 3)

	assert.Equal(t, 49, dilated.CountTrue()) // (2*3+1)^2
	for row := 7; row <= 13; row++ {
		for col := 7; col <= 13; col++ {
			assert.True(t, dilated.At(row, col), "expected (%d,%d) set", row, col)
		}
	}
	assert.False(t, dilated.At(6, 10))
	assert.False(t, dilated.At(10, 6))
}

func TestErodeOfSolidSquareKeepsOnlyInterior(t *testing.T) {
	r := NewRaster(32, 32, false)
	for row := 5; row <= 15; row++ {
		for col := 5; col <= 15; col++ {
			r.Set(row, col, true)
		}
	}
	eroded := r.Erode(1, 1)
	// every cell whose 3x3 window is fully inside [5,15]x[5,15] stays true
	assert.True(t, eroded.At(10, 10))
	assert.True(t, eroded.At(6, 6))
	assert.False(t, eroded.At(5, 5)) // window runs off the square's edge
}

func TestCloseFillsSmallGap(t *testing.T) {
	r := NewRaster(10, 10, false)
	for col := 2; col <= 7; col++ {
		r.Set(5, col, true)
	}
	r.Set(5, 5, false) // a one-cell gap in an otherwise solid run

	closed := r.Close(1, 1)
	assert.True(t, closed.At(5, 5))
}

func TestOpenRemovesIsolatedSinglePixel(t *testing.T) {
	r := NewRaster(16, 16, false)
	r.Set(8, 8, true)

	opened := r.Open(1, 1)
	assert.Equal(t, 0, opened.CountTrue())
}

func TestOpenPreservesLargeSolidRegion(t *testing.T) {
	r := NewRaster(16, 16, false)
	for row := 4; row <= 11; row++ {
		for col := 4; col <= 11; col++ {
			r.Set(row, col, true)
		}
	}
	opened := r.Open(1, 1)
	assert.True(t, opened.At(6, 6))
}

func TestSparseMaskRoundTripsThroughDenseRaster(t *testing.T) {
	m := NewSparseMask(100, 100)
	m.Set(3, 4, true)
	m.Set(90, 90, true)
	assert.Equal(t, 2, m.CountTrue())

	dense := m.ToRaster()
	assert.True(t, dense.At(3, 4))
	assert.True(t, dense.At(90, 90))
	assert.Equal(t, 2, dense.CountTrue())

	back := dense.ToSparseMask()
	assert.Equal(t, 2, back.CountTrue())
	assert.True(t, back.At(3, 4))
}
