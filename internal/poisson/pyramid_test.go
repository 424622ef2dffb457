package poisson

import "testing"

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16}
	for in, want := range cases {
		if got := nextPowerOfTwo(in); got != want {
			t.Fatalf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestPadToPowerOfTwoPadsWithNoData(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6} // 3x2
	flags := make([]CellFlag, 6)
	src := []int{0, 0, 0, 1, 1, 1}
	p := padToPowerOfTwo(values, flags, src, 3, 2)
	if p.Width != 4 || p.Height != 2 {
		t.Fatalf("padded size = %dx%d, want 4x2", p.Width, p.Height)
	}
	if p.Flags[3] != FlagNoData || p.Flags[7] != FlagNoData {
		t.Fatalf("pad columns should be FlagNoData, got %v", p.Flags)
	}
	if p.SourceIndex[3] != -1 {
		t.Fatalf("pad source index = %d, want -1", p.SourceIndex[3])
	}
	if p.Values[0] != 1 || p.Values[4] != 4 {
		t.Fatalf("original values not preserved: %v", p.Values)
	}
}

func TestDownsampleLevelAveragesAndMajorityVotes(t *testing.T) {
	values := []float64{1, 3, 5, 7}
	flags := []CellFlag{FlagNone, FlagNone, FlagNone, FlagNone}
	src := []int{1, 1, 1, 2}
	outV, outF, outS := downsampleLevel(values, flags, src, 2, 2, 1, 1)
	if outV[0] != 4 {
		t.Fatalf("avg = %v, want 4", outV[0])
	}
	if outF[0] != FlagNone {
		t.Fatalf("flag = %v, want FlagNone", outF[0])
	}
	if outS[0] != 1 {
		t.Fatalf("majority source = %d, want 1", outS[0])
	}
}

func TestDownsampleLevelExcludesNoDataFromAverage(t *testing.T) {
	values := []float64{1, 3, 5, 7}
	flags := []CellFlag{FlagNone, FlagNoData, FlagNone, FlagNone}
	src := []int{1, 1, 1, 1}
	outV, outF, _ := downsampleLevel(values, flags, src, 2, 2, 1, 1)
	want := (1.0 + 5.0 + 7.0) / 3.0
	if diff := outV[0] - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("avg = %v, want %v", outV[0], want)
	}
	if outF[0] != FlagNone {
		t.Fatalf("mixed flags should collapse to FlagNone, got %v", outF[0])
	}
}

func TestMajorityPicksHighestCount(t *testing.T) {
	if got := majority(map[int]int{1: 3, 2: 1}); got != 1 {
		t.Fatalf("majority = %d, want 1", got)
	}
}

func TestBilinearUpsampleConstantFieldStaysConstant(t *testing.T) {
	out := bilinearUpsample([]float64{5}, 1, 1, 2, 2)
	for i, v := range out {
		if v != 5 {
			t.Fatalf("out[%d] = %v, want 5", i, v)
		}
	}
}

func TestDownsampleGuessBoxAverage(t *testing.T) {
	out := downsampleGuess([]float64{2, 4, 6, 8}, 2, 2, 1, 1)
	if out[0] != 5 {
		t.Fatalf("avg = %v, want 5", out[0])
	}
}
