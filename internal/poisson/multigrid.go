package poisson

// Solve runs the multigrid outer loop over a single scalar band (u, the
// input/data-fidelity field) with the given per-cell flags and source
// indices (used to decide where ∇·g crosses a seam), and returns the
// blended result cropped back to the original w×h.
func Solve(u []float64, flags []CellFlag, sourceIndex []int, w, h int, params Params) []float64 {
	if params.Solver == SolverCG {
		divG := divergence(u, sourceIndex, w, h, params.EdgeMode)
		return cgSolve(u, flags, u, divG, w, h, params.Lambda, params.EdgeMode, params.CGMaxIterations, params.ResidualEpsilon)
	}
	p := padToPowerOfTwo(u, flags, sourceIndex, w, h)
	dataPyramid := buildDataPyramid(p.Values, p.Flags, p.SourceIndex, p.Width, p.Height, params.EdgeMode)

	guess := append([]float64(nil), p.Values...)

	iterations := params.MultigridIterations
	if iterations <= 0 {
		iterations = 1
	}
	steps := params.RelaxationSteps
	if steps <= 0 {
		steps = 1
	}

	for iter := 0; iter < iterations; iter++ {
		vcycle(guess, dataPyramid, params.Lambda, params.EdgeMode, steps)

		// Final full-resolution relax, whose residual also gates early
		// termination.
		full := dataPyramid[0]
		n := float64(full.Width * full.Height)
		epsSq := params.ResidualEpsilon * params.ResidualEpsilon
		sumSq := 0.0
		for s := 0; s < steps; s++ {
			sumSq = gaussSeidelSweep(guess, full.Flags, full.U, full.DivG, full.Width, full.Height, params.Lambda, params.EdgeMode)
			if n > 0 && sumSq/n < epsSq {
				break
			}
		}
		if n > 0 && sumSq/n < epsSq {
			break
		}
	}

	cropped := cropValues(guess, p.Width, p.Height, w, h)
	return cropped
}

// vcycle builds a guess pyramid by successive box-average downsampling of
// the current full-resolution guess (one level per dataPyramid entry),
// relaxes coarsest-to-finest, and at each step projects the correction
// (post-relax minus pre-relax) up to the next finer level via bilinear
// upsampling, accumulating corrections into guess in place.
func vcycle(guess []float64, dataPyramid []*dataLevel, lambda float64, mode EdgeMode, steps int) {
	levels := make([][]float64, len(dataPyramid))
	levels[0] = guess
	for i := 1; i < len(dataPyramid); i++ {
		prev := dataPyramid[i-1]
		cur := dataPyramid[i]
		levels[i] = downsampleGuess(levels[i-1], prev.Width, prev.Height, cur.Width, cur.Height)
	}

	for i := len(dataPyramid) - 1; i >= 0; i-- {
		lvl := dataPyramid[i]
		before := append([]float64(nil), levels[i]...)
		relax(levels[i], lvl.Flags, lvl.U, lvl.DivG, lvl.Width, lvl.Height, steps, lambda, 0, mode)

		if i == 0 {
			continue
		}
		delta := make([]float64, len(levels[i]))
		for k := range delta {
			delta[k] = levels[i][k] - before[k]
		}
		finer := dataPyramid[i-1]
		upsampled := bilinearUpsample(delta, lvl.Width, lvl.Height, finer.Width, finer.Height)
		for k := range levels[i-1] {
			levels[i-1][k] += upsampled[k]
		}
	}
	copy(guess, levels[0])
}

func cropValues(values []float64, pw, ph, w, h int) []float64 {
	out := make([]float64, w*h)
	for row := 0; row < h; row++ {
		copy(out[row*w:row*w+w], values[row*pw:row*pw+w])
	}
	return out
}
