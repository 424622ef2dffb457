package poisson

import "testing"

func TestCropValues(t *testing.T) {
	padded := []float64{1, 2, 3, 9, 4, 5, 6, 9}
	out := cropValues(padded, 4, 2, 3, 2)
	want := []float64{1, 2, 3, 4, 5, 6}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v (full %v)", i, out[i], want[i], out)
		}
	}
}

func TestSolveAllHoldConstantReturnsInputUnchanged(t *testing.T) {
	u := []float64{1, 2, 3, 4}
	flags := []CellFlag{FlagHoldConstant, FlagHoldConstant, FlagHoldConstant, FlagHoldConstant}
	src := []int{0, 0, 0, 0}
	params := Params{Lambda: 1, ResidualEpsilon: 1e-6, RelaxationSteps: 2, MultigridIterations: 2, EdgeMode: Clamp}
	out := Solve(u, flags, src, 2, 2, params)
	for i := range u {
		if out[i] != u[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], u[i])
		}
	}
}

func TestBuildDataPyramidStopsAtSmallLevel(t *testing.T) {
	u := make([]float64, 8*8)
	flags := make([]CellFlag, 8*8)
	src := make([]int, 8*8)
	levels := buildDataPyramid(u, flags, src, 8, 8, Clamp)
	if len(levels) == 0 {
		t.Fatal("expected at least one level")
	}
	last := levels[len(levels)-1]
	if last.Width > 2 || last.Height > 2 {
		t.Fatalf("coarsest level is %dx%d, expected <= 2x2", last.Width, last.Height)
	}
	if levels[0].Width != 8 || levels[0].Height != 8 {
		t.Fatalf("finest level is %dx%d, want 8x8", levels[0].Width, levels[0].Height)
	}
}
