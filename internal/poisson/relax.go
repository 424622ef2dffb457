package poisson

// rhsAt returns (lambdaEff, rhs) for cell (row,col): rhs = lambdaEff*u - divG,
// with lambdaEff zeroed for FlagGradientOnly (and, moot since the cell is
// never updated, FlagNoData).
func rhsAt(flag CellFlag, lambda, u, divG float64) (lambdaEff, rhs float64) {
	lambdaEff = lambda
	if flag == FlagGradientOnly || flag == FlagNoData {
		lambdaEff = 0
	}
	return lambdaEff, lambdaEff*u - divG
}

// relaxCell applies one Gauss-Seidel update to a single cell, returning the
// squared change. A HoldConstant cell is reset to u and reports the squared
// change of that reset; NoData cells and cells with no valid neighbors to
// reference are not updated and return 0.
func relaxCell(values []float64, flags []CellFlag, u, divG []float64, w, h, row, col int, lambda float64, mode EdgeMode) float64 {
	idx := row*w + col
	flag := flags[idx]
	if flag == FlagHoldConstant {
		old := values[idx]
		values[idx] = u[idx]
		d := values[idx] - old
		return d * d
	}
	if flag == FlagNoData {
		return 0
	}

	sum := 0.0
	count := 0
	for _, off := range neighborOffsets {
		nr, nc := resolveIndex(row+off[0], col+off[1], w, h, mode)
		nidx := nr*w + nc
		if flags[nidx] == FlagNoData {
			continue
		}
		sum += values[nidx]
		count++
	}
	if count == 0 {
		return 0
	}

	lambdaEff, rhs := rhsAt(flag, lambda, u[idx], divG[idx])
	old := values[idx]
	newVal := (sum - rhs) / (float64(count) + lambdaEff)
	values[idx] = newVal
	d := newVal - old
	return d * d
}

// gaussSeidelSweep runs one full relaxation pass using red-black ordering
// (all cells where (row+col) is even, then all where it's odd) so the two
// half-passes could run concurrently across rows — sequential here since
// the scheduler package owns this pipeline's actual parallelism, keeping
// the solver's math separate from its threading.
func gaussSeidelSweep(values []float64, flags []CellFlag, u, divG []float64, w, h int, lambda float64, mode EdgeMode) (sumSq float64) {
	for _, parity := range [2]int{0, 1} {
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				if (row+col)%2 != parity {
					continue
				}
				sumSq += relaxCell(values, flags, u, divG, w, h, row, col, lambda, mode)
			}
		}
	}
	return sumSq
}

// relax runs up to steps Gauss-Seidel sweeps, stopping early once
// sumSq/(w*h) < epsilon^2.
func relax(values []float64, flags []CellFlag, u, divG []float64, w, h, steps int, lambda, epsilon float64, mode EdgeMode) {
	n := float64(w * h)
	if n == 0 {
		return
	}
	epsSq := epsilon * epsilon
	for i := 0; i < steps; i++ {
		sumSq := gaussSeidelSweep(values, flags, u, divG, w, h, lambda, mode)
		if sumSq/n < epsSq {
			return
		}
	}
}

// divergence computes ∇·g for image, zeroing a gradient component wherever
// it would cross a seam between differing source indices: gradients across
// cells whose source index matches are preserved, across seams they are
// zeroed. g itself is the forward-difference gradient of image; this
// returns its discrete divergence directly, since g is never needed
// independently of its divergence.
func divergence(image []float64, sourceIndex []int, w, h int, mode EdgeMode) []float64 {
	gx := make([]float64, w*h)
	gy := make([]float64, w*h)
	at := func(row, col int) (int, float64, int) {
		r, c := resolveIndex(row, col, w, h, mode)
		idx := r*w + c
		return idx, image[idx], sourceIndex[idx]
	}
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := row*w + col
			_, vRight, srcRight := at(row, col+1)
			if srcRight == sourceIndex[idx] {
				gx[idx] = vRight - image[idx]
			}
			_, vDown, srcDown := at(row+1, col)
			if srcDown == sourceIndex[idx] {
				gy[idx] = vDown - image[idx]
			}
		}
	}

	div := make([]float64, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := row*w + col
			leftIdx, _, _ := at(row, col-1)
			upIdx, _, _ := at(row-1, col)
			div[idx] = (gx[idx] - gx[leftIdx]) + (gy[idx] - gy[upIdx])
		}
	}
	return div
}
