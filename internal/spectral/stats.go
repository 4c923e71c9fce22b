package spectral

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Finite returns the finite values of data that satisfy keep (nil keeps all).
func Finite(data []float64, keep func(float64) bool) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if finite(v) && (keep == nil || keep(v)) {
			out = append(out, v)
		}
	}
	return out
}

// MinMax returns the extremes of the finite values; ok is false when there
// are none.
func MinMax(data []float64) (lo, hi float64, ok bool) {
	vals := Finite(data, nil)
	if len(vals) == 0 {
		return 0, 0, false
	}
	return floats.Min(vals), floats.Max(vals), true
}

// Percentile returns the p-th quantile (p in [0,1]) of the finite values,
// interpolating linearly between the two closest ranks at (n-1)*p.
// p is clamped into [0,1]. ok is false when there are no finite values.
func Percentile(data []float64, p float64) (float64, bool) {
	vals := Finite(data, nil)
	if len(vals) == 0 {
		return 0, false
	}
	sort.Float64s(vals)
	return sortedPercentile(vals, p), true
}

// Percentiles computes several quantiles with a single sort.
func Percentiles(data []float64, ps ...float64) ([]float64, bool) {
	vals := Finite(data, nil)
	if len(vals) == 0 {
		return nil, false
	}
	sort.Float64s(vals)
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = sortedPercentile(vals, p)
	}
	return out, true
}

func sortedPercentile(sorted []float64, p float64) float64 {
	switch {
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
