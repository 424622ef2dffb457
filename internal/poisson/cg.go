package poisson

import "gonum.org/v1/gonum/mat"

// cgSolve is the conjugate-gradient alternative to the multigrid path,
// competitive on grids small enough to converge in a handful of iterations
// using a dense per-iteration matrix-vector multiply with the same
// neighbor-enumeration logic the Gauss-Seidel relax uses. This builds that
// multiply as a matrix-free operator over gonum's mat.VecDense rather than
// materializing a literal w*h x w*h
// mat.Dense: a single 512x512 band would need a 262144x262144 matrix,
// which is not something any real tile grid can afford to allocate. The
// "same neighbor-enumeration logic" requirement is met by reusing
// neighborOffsets/resolveIndex/rhsAt exactly as relaxCell does; only the
// update rule differs (CG's global descent vs. GS's per-cell sweep).
//
// HoldConstant cells are pinned to u and folded into the right-hand side
// of free cells that reference them as neighbors, rather than included as
// unknowns — the standard way to carry a Dirichlet-style constraint into
// an unconstrained CG solve without breaking the operator's symmetry.
// NoData cells are excluded entirely, matching relaxCell's stencil.
func cgSolve(values []float64, flags []CellFlag, u, divG []float64, w, h int, lambda float64, mode EdgeMode, maxIter int, epsilon float64) []float64 {
	out := append([]float64(nil), values...)
	for i, f := range flags {
		if f == FlagHoldConstant {
			out[i] = u[i]
		} else if f == FlagNoData {
			out[i] = 0
		}
	}

	sys := buildCGSystem(out, flags, u, divG, w, h, lambda, mode)
	n := len(sys.cells)
	if n == 0 {
		return out
	}

	x := mat.NewVecDense(n, nil)
	for k, idx := range sys.cells {
		x.SetVec(k, out[idx])
	}

	b := mat.NewVecDense(n, sys.b)
	r := mat.NewVecDense(n, nil)
	r.SubVec(b, sys.apply(x))
	p := mat.NewVecDense(n, nil)
	p.CopyVec(r)

	rsold := mat.Dot(r, r)
	epsSq := epsilon * epsilon * float64(n)

	iters := maxIter
	if iters <= 0 {
		iters = n
	}
	for iter := 0; iter < iters; iter++ {
		if rsold < epsSq {
			break
		}
		ap := sys.apply(p)
		denom := mat.Dot(p, ap)
		if denom == 0 {
			break
		}
		alpha := rsold / denom
		x.AddScaledVec(x, alpha, p)
		r.AddScaledVec(r, -alpha, ap)
		rsnew := mat.Dot(r, r)
		if rsnew < epsSq {
			p.CopyVec(r)
			rsold = rsnew
			break
		}
		beta := rsnew / rsold
		p.AddScaledVec(r, beta, p)
		rsold = rsnew
	}

	for k, idx := range sys.cells {
		out[idx] = x.AtVec(k)
	}
	return out
}

// cgSystem is the free-cell-only linear system A*x = b built from the full
// grid's flags/values: cells is the free index -> grid index map, count and
// lambdaEff are per-free-cell operator coefficients, neighbors is each free
// cell's list of free-neighbor local indices, and b is the resulting
// right-hand side (including folded-in HoldConstant neighbor contributions).
type cgSystem struct {
	cells     []int
	count     []float64
	lambdaEff []float64
	neighbors [][]int
	b         []float64
}

func buildCGSystem(values []float64, flags []CellFlag, u, divG []float64, w, h int, lambda float64, mode EdgeMode) *cgSystem {
	freeOf := make([]int, w*h)
	for i := range freeOf {
		freeOf[i] = -1
	}
	var cells []int
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			idx := row*w + col
			if flags[idx] == FlagNone || flags[idx] == FlagGradientOnly {
				freeOf[idx] = len(cells)
				cells = append(cells, idx)
			}
		}
	}

	sys := &cgSystem{
		cells:     cells,
		count:     make([]float64, len(cells)),
		lambdaEff: make([]float64, len(cells)),
		neighbors: make([][]int, len(cells)),
		b:         make([]float64, len(cells)),
	}

	for k, idx := range cells {
		row, col := idx/w, idx%w
		flag := flags[idx]
		lambdaEff, rhs := rhsAt(flag, lambda, u[idx], divG[idx])
		sys.lambdaEff[k] = lambdaEff

		count := 0.0
		fixedSum := 0.0
		var freeNeighbors []int
		for _, off := range neighborOffsets {
			nr, nc := resolveIndex(row+off[0], col+off[1], w, h, mode)
			nidx := nr*w + nc
			if flags[nidx] == FlagNoData {
				continue
			}
			count++
			if nf := freeOf[nidx]; nf >= 0 {
				freeNeighbors = append(freeNeighbors, nf)
			} else {
				fixedSum += values[nidx]
			}
		}
		sys.count[k] = count
		sys.neighbors[k] = freeNeighbors
		sys.b[k] = -rhs + fixedSum
	}
	return sys
}

// apply computes A*x for the system's implicit operator: (count_k +
// lambdaEff_k)*x_k - sum of free-neighbor x values, mirroring relaxCell's
// per-cell update rule rearranged into matrix form.
func (sys *cgSystem) apply(x *mat.VecDense) *mat.VecDense {
	out := mat.NewVecDense(len(sys.cells), nil)
	for k := range sys.cells {
		v := (sys.count[k] + sys.lambdaEff[k]) * x.AtVec(k)
		for _, nk := range sys.neighbors[k] {
			v -= x.AtVec(nk)
		}
		out.SetVec(k, v)
	}
	return out
}
