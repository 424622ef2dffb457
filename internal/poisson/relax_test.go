package poisson

import "testing"

func TestRhsAtGradientOnlyZeroesLambda(t *testing.T) {
	lambdaEff, rhs := rhsAt(FlagGradientOnly, 5, 10, 3)
	if lambdaEff != 0 {
		t.Fatalf("lambdaEff = %v, want 0", lambdaEff)
	}
	if rhs != -3 {
		t.Fatalf("rhs = %v, want -3", rhs)
	}
}

func TestRhsAtNormalCellKeepsLambda(t *testing.T) {
	lambdaEff, rhs := rhsAt(FlagNone, 5, 10, 3)
	if lambdaEff != 5 {
		t.Fatalf("lambdaEff = %v, want 5", lambdaEff)
	}
	if rhs != 47 {
		t.Fatalf("rhs = %v, want 47", rhs)
	}
}

func TestRelaxCellHoldConstantSetsToU(t *testing.T) {
	values := []float64{0, 0, 0, 0}
	flags := []CellFlag{FlagHoldConstant, FlagNone, FlagNone, FlagNone}
	u := []float64{9, 0, 0, 0}
	divG := []float64{0, 0, 0, 0}
	d2 := relaxCell(values, flags, u, divG, 2, 2, 0, 0, 1, Clamp)
	if values[0] != 9 {
		t.Fatalf("values[0] = %v, want 9", values[0])
	}
	if d2 != 81 {
		t.Fatalf("d2 = %v, want 81", d2)
	}
}

func TestRelaxCellNoDataNoOp(t *testing.T) {
	values := []float64{5, 0, 0, 0}
	flags := []CellFlag{FlagNoData, FlagNone, FlagNone, FlagNone}
	u := []float64{0, 0, 0, 0}
	divG := []float64{0, 0, 0, 0}
	d2 := relaxCell(values, flags, u, divG, 2, 2, 0, 0, 1, Clamp)
	if d2 != 0 {
		t.Fatalf("d2 = %v, want 0", d2)
	}
	if values[0] != 5 {
		t.Fatalf("values[0] changed to %v, want unchanged 5", values[0])
	}
}

func TestRelaxCellComputesExpectedValue(t *testing.T) {
	// 3x3 grid, center cell (1,1): 4 neighbors all valued 1, center starts at 0.
	values := []float64{1, 1, 1, 1, 0, 1, 1, 1, 1}
	flags := make([]CellFlag, 9)
	u := make([]float64, 9)
	divG := make([]float64, 9)
	u[4] = 2
	divG[4] = 1

	d2 := relaxCell(values, flags, u, divG, 3, 3, 1, 1, 2, Clamp)
	want := 1.0 / 6.0
	if diff := values[4] - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("values[4] = %v, want %v", values[4], want)
	}
	wantD2 := want * want
	if diff := d2 - wantD2; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("d2 = %v, want %v", d2, wantD2)
	}
}

func TestDivergenceZeroesAcrossSeam(t *testing.T) {
	image := []float64{1, 2, 10}
	sourceIndex := []int{0, 0, 1}
	div := divergence(image, sourceIndex, 3, 1, Clamp)
	want := []float64{0, -1, 0}
	for i := range want {
		if div[i] != want[i] {
			t.Fatalf("div[%d] = %v, want %v (full %v)", i, div[i], want[i], div)
		}
	}
}

func TestRelaxStopsAfterFirstSweepAtEquilibrium(t *testing.T) {
	// All cells HoldConstant and already equal to u: the first sweep produces
	// zero residual, so relax should stop well before the step budget.
	values := []float64{1, 2, 3, 4}
	flags := []CellFlag{FlagHoldConstant, FlagHoldConstant, FlagHoldConstant, FlagHoldConstant}
	u := []float64{1, 2, 3, 4}
	divG := make([]float64, 4)
	relax(values, flags, u, divG, 2, 2, 100, 1, 1e-6, Clamp)
	for i := range u {
		if values[i] != u[i] {
			t.Fatalf("values[%d] = %v, want %v", i, values[i], u[i])
		}
	}
}
