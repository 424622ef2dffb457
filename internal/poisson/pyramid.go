package poisson

// nextPowerOfTwo returns the smallest power of two >= n (at least 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p *= 2
	}
	return p
}

// padded is a grid's value/flag/source-index planes padded out to a
// power-of-two size per side, with padding cells flagged FlagNoData so they
// never influence the solve.
type padded struct {
	Width, Height         int
	OrigWidth, OrigHeight int
	Values                []float64
	Flags                 []CellFlag
	SourceIndex           []int
}

func padToPowerOfTwo(values []float64, flags []CellFlag, sourceIndex []int, w, h int) *padded {
	pw, ph := nextPowerOfTwo(w), nextPowerOfTwo(h)
	p := &padded{
		Width: pw, Height: ph, OrigWidth: w, OrigHeight: h,
		Values:      make([]float64, pw*ph),
		Flags:       make([]CellFlag, pw*ph),
		SourceIndex: make([]int, pw*ph),
	}
	for i := range p.Flags {
		p.Flags[i] = FlagNoData
		p.SourceIndex[i] = -1
	}
	for row := 0; row < h; row++ {
		copy(p.Values[row*pw:row*pw+w], values[row*w:row*w+w])
		copy(p.Flags[row*pw:row*pw+w], flags[row*w:row*w+w])
		copy(p.SourceIndex[row*pw:row*pw+w], sourceIndex[row*w:row*w+w])
	}
	return p
}

func (p *padded) crop() (values []float64, flags []CellFlag, sourceIndex []int) {
	w, h := p.OrigWidth, p.OrigHeight
	values = make([]float64, w*h)
	flags = make([]CellFlag, w*h)
	sourceIndex = make([]int, w*h)
	for row := 0; row < h; row++ {
		copy(values[row*w:row*w+w], p.Values[row*p.Width:row*p.Width+w])
		copy(flags[row*w:row*w+w], p.Flags[row*p.Width:row*p.Width+w])
		copy(sourceIndex[row*w:row*w+w], p.SourceIndex[row*p.Width:row*p.Width+w])
	}
	return
}

// dataLevel is one level of the data pyramid: downsampled u/flags/source
// index, plus the divergence field freshly computed at that level's own
// resolution (rather than downsampling a fine divG, which would mix seam
// decisions made at a different resolution).
type dataLevel struct {
	Width, Height int
	U             []float64
	DivG          []float64
	Flags         []CellFlag
	SourceIndex   []int
}

// buildDataPyramid halves resolution (majority-vote source index, a flag
// kept only when all contributing cells share it, NO_DATA-aware
// box-average for values) down to a 2x2 (or smaller) level.
func buildDataPyramid(u []float64, flags []CellFlag, sourceIndex []int, w, h int, mode EdgeMode) []*dataLevel {
	levels := []*dataLevel{{
		Width: w, Height: h, U: append([]float64(nil), u...),
		DivG: divergence(u, sourceIndex, w, h, mode),
		Flags: append([]CellFlag(nil), flags...), SourceIndex: append([]int(nil), sourceIndex...),
	}}
	for {
		cur := levels[len(levels)-1]
		if cur.Width <= 2 && cur.Height <= 2 {
			break
		}
		nw, nh := halveDim(cur.Width), halveDim(cur.Height)
		nu, nflags, nsrc := downsampleLevel(cur.U, cur.Flags, cur.SourceIndex, cur.Width, cur.Height, nw, nh)
		levels = append(levels, &dataLevel{
			Width: nw, Height: nh, U: nu,
			DivG: divergence(nu, nsrc, nw, nh, mode),
			Flags: nflags, SourceIndex: nsrc,
		})
	}
	return levels
}

func halveDim(n int) int {
	if n <= 2 {
		return n
	}
	return n / 2
}

// downsampleLevel halves a w×h plane to nw×nh (each output cell covering a
// 2x2 — or 1-wide at odd boundaries — block of input cells): value is the
// average of non-NoData contributors, source index is whichever value is
// most common among contributors, and flags union — the coarse cell keeps
// a flag only when every contributor shares it (e.g. NO_DATA only if every
// contributor is NO_DATA), else FlagNone.
func downsampleLevel(values []float64, flags []CellFlag, sourceIndex []int, w, h, nw, nh int) ([]float64, []CellFlag, []int) {
	outV := make([]float64, nw*nh)
	outF := make([]CellFlag, nw*nh)
	outS := make([]int, nw*nh)

	for row := 0; row < nh; row++ {
		for col := 0; col < nw; col++ {
			r0, c0 := row*2, col*2
			sum, count := 0.0, 0
			counts := map[int]int{}
			allSameFlag := true
			var firstFlag CellFlag
			first := true
			for dr := 0; dr < 2; dr++ {
				for dc := 0; dc < 2; dc++ {
					sr, sc := r0+dr, c0+dc
					if sr >= h || sc >= w {
						continue
					}
					idx := sr*w + sc
					if flags[idx] != FlagNoData {
						sum += values[idx]
						count++
					}
					counts[sourceIndex[idx]]++
					if first {
						firstFlag = flags[idx]
						first = false
					} else if flags[idx] != firstFlag {
						allSameFlag = false
					}
				}
			}
			oidx := row*nw + col
			if count > 0 {
				outV[oidx] = sum / float64(count)
			}
			if allSameFlag && !first {
				outF[oidx] = firstFlag
			} else {
				outF[oidx] = FlagNone
			}
			outS[oidx] = majority(counts)
		}
	}
	return outV, outF, outS
}

func majority(counts map[int]int) int {
	best, bestCount := -1, -1
	for k, c := range counts {
		if c > bestCount {
			best, bestCount = k, c
		}
	}
	return best
}

// bilinearUpsample resizes src (sw×sh) to dw×dh via bilinear interpolation,
// used to project a coarse-level correction delta back onto a finer level.
func bilinearUpsample(src []float64, sw, sh, dw, dh int) []float64 {
	out := make([]float64, dw*dh)
	if sw == 1 && sh == 1 {
		for i := range out {
			out[i] = src[0]
		}
		return out
	}
	for row := 0; row < dh; row++ {
		fy := float64(row) / float64(maxInt(dh-1, 1)) * float64(sh-1)
		y0 := int(fy)
		y1 := minInt(y0+1, sh-1)
		ty := fy - float64(y0)
		for col := 0; col < dw; col++ {
			fx := float64(col) / float64(maxInt(dw-1, 1)) * float64(sw-1)
			x0 := int(fx)
			x1 := minInt(x0+1, sw-1)
			tx := fx - float64(x0)

			v00 := src[y0*sw+x0]
			v01 := src[y0*sw+x1]
			v10 := src[y1*sw+x0]
			v11 := src[y1*sw+x1]
			top := v00 + (v01-v00)*tx
			bot := v10 + (v11-v10)*tx
			out[row*dw+col] = top + (bot-top)*ty
		}
	}
	return out
}

// downsampleGuess box-averages a guess field from w×h down to nw×nh,
// simpler than downsampleLevel since a solution guess has no flags/source
// index of its own to respect.
func downsampleGuess(values []float64, w, h, nw, nh int) []float64 {
	out := make([]float64, nw*nh)
	for row := 0; row < nh; row++ {
		for col := 0; col < nw; col++ {
			r0, c0 := row*2, col*2
			sum, count := 0.0, 0
			for dr := 0; dr < 2; dr++ {
				for dc := 0; dc < 2; dc++ {
					sr, sc := r0+dr, c0+dc
					if sr >= h || sc >= w {
						continue
					}
					sum += values[sr*w+sc]
					count++
				}
			}
			if count > 0 {
				out[row*nw+col] = sum / float64(count)
			}
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
