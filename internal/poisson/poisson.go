// Package poisson implements a screened-Poisson blend,
// ∇²f − λf = λu − ∇·g, solved over a single scalar band at a time via a
// multigrid Gauss-Seidel outer loop (with a conjugate-gradient alternative
// for smaller grids), used to remove seams between texture patches baked
// from different source observations.
//
// The multigrid pyramid is built by this package's own downsampling helpers
// (pyramid.go); internal/raster's RGBToLAB/LABToRGB supply the optional
// perceptual color space.
package poisson

// CellFlag marks a cell's role in the solve.
type CellFlag int

const (
	// FlagNone is a normal cell: full screened-Poisson equation applies.
	FlagNone CellFlag = iota
	// FlagHoldConstant freezes the cell to its input value; never updated.
	FlagHoldConstant
	// FlagGradientOnly omits the λ term, solving pure ∇²f = -∇·g for this
	// cell (a data-fidelity-free, gradient-only constraint).
	FlagGradientOnly
	// FlagNoData excludes the cell from the solve (never updated) and from
	// its neighbors' Laplacian stencils (contributes nothing to their sums).
	FlagNoData
)

// EdgeMode selects how a Laplacian stencil samples a neighbor that falls
// outside the grid.
type EdgeMode int

const (
	// Clamp replicates the nearest edge cell (a bounded, non-wrapping tile).
	Clamp EdgeMode = iota
	// WrapCylinder wraps columns (longitude) but clamps rows (no poles) —
	// an open cylinder, e.g. a full-longitude band that doesn't reach a pole.
	WrapCylinder
	// WrapSphere wraps columns and, at a row boundary, continues onto the
	// opposite hemisphere's column (a simplified equirectangular pole
	// handling — see DESIGN.md for why this isn't a literal antipodal
	// reflection).
	WrapSphere
	// WrapTorus wraps both rows and columns modulo the grid size.
	WrapTorus
)

// ColorSpace selects which space the solve itself runs in; input/output are
// always RGB.
type ColorSpace int

const (
	// SpaceNone solves directly in the input's own bands.
	SpaceNone ColorSpace = iota
	// SpaceLAB converts RGB to CIE L*a*b* before solving, and back after.
	SpaceLAB
	// SpaceLogLAB is SpaceLAB with the L channel's dynamic range compressed
	// via log1p before solving (internal/raster.RGBToLAB's useLogLuminance).
	SpaceLogLAB
)

// Solver selects which outer algorithm Solve dispatches to.
type Solver int

const (
	// SolverMultigrid is the default coarse-grid-correction V-cycle path.
	SolverMultigrid Solver = iota
	// SolverCG solves directly at full resolution via conjugate gradient,
	// competitive only on grids small enough for it to converge in few
	// iterations.
	SolverCG
)

// Params parameterizes a Solve call.
type Params struct {
	Lambda              float64
	ResidualEpsilon      float64
	RelaxationSteps      int
	MultigridIterations  int
	EdgeMode             EdgeMode
	ColorSpace           ColorSpace
	Solver              Solver
	// CGMaxIterations bounds the CG loop; <= 0 defaults to one iteration per
	// unknown, CG's standard worst-case convergence bound.
	CGMaxIterations int
}

// Grid is a single-band W×H scalar field with parallel flag and
// source-index planes, the unit of work one Solve call operates on.
type Grid struct {
	Width, Height int
	Values        []float64
	Flags         []CellFlag
	SourceIndex   []int // -1 where not applicable
}

// NewGrid allocates a zeroed grid of the given size.
func NewGrid(w, h int) *Grid {
	return &Grid{
		Width: w, Height: h,
		Values:      make([]float64, w*h),
		Flags:       make([]CellFlag, w*h),
		SourceIndex: make([]int, w*h),
	}
}

func (g *Grid) offset(row, col int) int { return row*g.Width + col }

func (g *Grid) at(row, col int) float64      { return g.Values[g.offset(row, col)] }
func (g *Grid) set(row, col int, v float64)  { g.Values[g.offset(row, col)] = v }
func (g *Grid) flagAt(row, col int) CellFlag { return g.Flags[g.offset(row, col)] }

// SolveGrid is Solve's Grid-shaped entry point, for callers that already
// have their scalar field packaged as a Grid (e.g. one band peeled off a
// Stitch call) rather than loose slices.
func (g *Grid) SolveGrid(params Params) *Grid {
	out := &Grid{Width: g.Width, Height: g.Height, Flags: g.Flags, SourceIndex: g.SourceIndex}
	out.Values = Solve(g.Values, g.Flags, g.SourceIndex, g.Width, g.Height, params)
	return out
}
