package spectral

// Normalize rescales g into [0,1] with min-max normalization. A constant
// grid, or one without finite values, normalizes to all zeros; non-finite
// values map to 0.
func Normalize(g Grid) Grid {
	out := NewGrid(g.Width, g.Height)
	lo, hi, ok := MinMax(g.Data)
	if !ok || hi == lo {
		return out
	}
	span := hi - lo
	for i, v := range g.Data {
		if finite(v) {
			out.Data[i] = (v - lo) / span
		}
	}
	return out
}
