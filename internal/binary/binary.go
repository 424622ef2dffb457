// Package binary implements a binary raster and mask: a W x H boolean grid
// with dilate/erode/open/close morphology, plus an alternate sparse
// hash-set representation for masks that are mostly false.
//
// The grid itself is a plain bounds-checked row-major slice with nested
// loops and no image/draw dependency; the dilate/erode morphology walks a
// clamped square window over that grid the same way a block-averaging pass
// walks a raster in fixed-size chunks.
package binary

import "fmt"

// Raster is a dense W x H boolean grid.
type Raster struct {
	width, height int
	bits          []bool
}

// NewRaster allocates a raster with every cell set to initial.
func NewRaster(width, height int, initial bool) *Raster {
	bits := make([]bool, width*height)
	if initial {
		for i := range bits {
			bits[i] = true
		}
	}
	return &Raster{width: width, height: height, bits: bits}
}

func (r *Raster) Width() int  { return r.width }
func (r *Raster) Height() int { return r.height }

func (r *Raster) inBounds(row, col int) bool {
	return row >= 0 && row < r.height && col >= 0 && col < r.width
}

func (r *Raster) At(row, col int) bool {
	if !r.inBounds(row, col) {
		return false
	}
	return r.bits[row*r.width+col]
}

func (r *Raster) Set(row, col int, v bool) {
	if !r.inBounds(row, col) {
		return
	}
	r.bits[row*r.width+col] = v
}

func (r *Raster) Clone() *Raster {
	return &Raster{width: r.width, height: r.height, bits: append([]bool(nil), r.bits...)}
}

// CountTrue returns the number of true cells.
func (r *Raster) CountTrue() int {
	n := 0
	for _, v := range r.bits {
		if v {
			n++
		}
	}
	return n
}

// Dilate grows every true cell into a (2*radiusRow+1) x (2*radiusCol+1)
// square window (Chebyshev-distance structuring element), returning a new
// raster: a cell is true in the output iff any cell within that window in
// the input is true.
func (r *Raster) Dilate(radiusRow, radiusCol int) *Raster {
	out := NewRaster(r.width, r.height, false)
	for row := 0; row < r.height; row++ {
		for col := 0; col < r.width; col++ {
			if r.anyTrueInWindow(row, col, radiusRow, radiusCol) {
				out.Set(row, col, true)
			}
		}
	}
	return out
}

func (r *Raster) anyTrueInWindow(row, col, radiusRow, radiusCol int) bool {
	for dr := -radiusRow; dr <= radiusRow; dr++ {
		rr := row + dr
		if rr < 0 || rr >= r.height {
			continue
		}
		for dc := -radiusCol; dc <= radiusCol; dc++ {
			cc := col + dc
			if cc < 0 || cc >= r.width {
				continue
			}
			if r.bits[rr*r.width+cc] {
				return true
			}
		}
	}
	return false
}

// Erode shrinks the true region: a cell is true in the output iff every
// cell within its (2*radiusRow+1) x (2*radiusCol+1) window is true in the
// input. Out-of-bounds neighbors count as false, so true regions touching
// the raster edge always erode there.
func (r *Raster) Erode(radiusRow, radiusCol int) *Raster {
	out := NewRaster(r.width, r.height, false)
	for row := 0; row < r.height; row++ {
		for col := 0; col < r.width; col++ {
			if r.allTrueInWindow(row, col, radiusRow, radiusCol) {
				out.Set(row, col, true)
			}
		}
	}
	return out
}

func (r *Raster) allTrueInWindow(row, col, radiusRow, radiusCol int) bool {
	for dr := -radiusRow; dr <= radiusRow; dr++ {
		rr := row + dr
		if rr < 0 || rr >= r.height {
			return false
		}
		for dc := -radiusCol; dc <= radiusCol; dc++ {
			cc := col + dc
			if cc < 0 || cc >= r.width || !r.bits[rr*r.width+cc] {
				return false
			}
		}
	}
	return true
}

// Open removes small true regions narrower than the structuring element:
// erode then dilate with the same radii.
func (r *Raster) Open(radiusRow, radiusCol int) *Raster {
	return r.Erode(radiusRow, radiusCol).Dilate(radiusRow, radiusCol)
}

// Close fills small false gaps narrower than the structuring element:
// dilate then erode with the same radii.
func (r *Raster) Close(radiusRow, radiusCol int) *Raster {
	return r.Dilate(radiusRow, radiusCol).Erode(radiusRow, radiusCol)
}

// SparseMask is the alternate hash-set representation for masks that are
// mostly false, used instead of Raster when the valid-cell count is a small
// fraction of width*height. The caller decides which representation to use
// — the two are never mixed within a single mask instance.
type SparseMask struct {
	width, height int
	set           map[int]struct{} // row*width+col -> present
}

// NewSparseMask allocates an all-false sparse mask.
func NewSparseMask(width, height int) *SparseMask {
	return &SparseMask{width: width, height: height, set: make(map[int]struct{})}
}

func (m *SparseMask) Width() int  { return m.width }
func (m *SparseMask) Height() int { return m.height }

func (m *SparseMask) At(row, col int) bool {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return false
	}
	_, ok := m.set[row*m.width+col]
	return ok
}

func (m *SparseMask) Set(row, col int, v bool) {
	if row < 0 || row >= m.height || col < 0 || col >= m.width {
		return
	}
	idx := row*m.width + col
	if v {
		m.set[idx] = struct{}{}
	} else {
		delete(m.set, idx)
	}
}

func (m *SparseMask) CountTrue() int { return len(m.set) }

// ToRaster densifies a sparse mask into a dense Raster.
func (m *SparseMask) ToRaster() *Raster {
	out := NewRaster(m.width, m.height, false)
	for idx := range m.set {
		out.bits[idx] = true
	}
	return out
}

// ToSparseMask compacts a dense raster into a sparse mask; useful when a
// Dilate/Erode pass has reduced the true-cell fraction back down.
func (r *Raster) ToSparseMask() *SparseMask {
	m := NewSparseMask(r.width, r.height)
	for idx, v := range r.bits {
		if v {
			m.set[idx] = struct{}{}
		}
	}
	return m
}

func (r *Raster) String() string {
	return fmt.Sprintf("binary.Raster(%dx%d, %d true)", r.width, r.height, r.CountTrue())
}
