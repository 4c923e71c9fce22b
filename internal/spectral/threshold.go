package spectral

// Threshold keeps the values at or above the p-th percentile (p in [0,1])
// of g and replaces everything else, non-finite values included, with the
// minimum of g.
func Threshold(g Grid, p float64) Grid {
	out := g.Clone()
	vals := Finite(g.Data, nil)
	if len(vals) == 0 {
		return out
	}
	floor, _, _ := MinMax(vals)
	cut, _ := Percentile(vals, p)
	for i, v := range out.Data {
		if !finite(v) || v < cut {
			out.Data[i] = floor
		}
	}
	return out
}
