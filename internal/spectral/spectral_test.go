package spectral

import (
	"math"
	"math/rand"
	"testing"

	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grid(w, h int, vals ...float64) Grid {
	return Grid{Width: w, Height: h, Data: vals}
}

func TestNDVIRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	nir, red := NewGrid(64, 64), NewGrid(64, 64)
	for i := range nir.Data {
		nir.Data[i] = rng.Float64() * 30000
		red.Data[i] = rng.Float64() * 30000
	}
	ndvi, err := NDVI(nir, red)
	require.NoError(t, err)
	for _, v := range ndvi.Data {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestNDVIZeroDenominator(t *testing.T) {
	ndvi, err := NDVI(grid(2, 1, 0, 3), grid(2, 1, 0, 1))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ndvi.Data[0]))
	assert.InDelta(t, 0.5, ndvi.Data[1], 1e-12)
}

func TestNDWIFormulas(t *testing.T) {
	green := grid(1, 1, 6)
	nir := grid(1, 1, 2)
	swir := grid(1, 1, 4)

	v, err := NDWI(NDWIGreenNIR, green, nir, swir)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, v.Data[0], 1e-9)

	v, err = NDWI(NDWIGreenSWIR, green, nir, swir)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, v.Data[0], 1e-9)

	_, err = NDWI(NDWIFormula(9), green, nir, swir)
	assert.ErrorIs(t, err, ErrUnknownFormula)
}

func TestNDBIEpsilonGuard(t *testing.T) {
	v, err := NDBI(grid(1, 1, 0), grid(1, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v.Data[0])
}

func TestShapeMismatch(t *testing.T) {
	_, err := NDVI(NewGrid(2, 2), NewGrid(3, 2))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestParseNDWIFormula(t *testing.T) {
	f, err := ParseNDWIFormula("green-nir")
	require.NoError(t, err)
	assert.Equal(t, NDWIGreenNIR, f)

	f, err = ParseNDWIFormula(" Green-SWIR ")
	require.NoError(t, err)
	assert.Equal(t, NDWIGreenSWIR, f)
	assert.Equal(t, "green-swir", f.String())

	_, err = ParseNDWIFormula("red-blue")
	assert.ErrorIs(t, err, ErrUnknownFormula)
}

func TestPercentileInterpolates(t *testing.T) {
	data := []float64{4, 1, 3, 2, math.NaN(), 5}
	p, ok := Percentile(data, 0.5)
	require.True(t, ok)
	assert.Equal(t, 3.0, p)

	p, _ = Percentile(data, 0.8)
	assert.InDelta(t, 4.2, p, 1e-12)

	p, _ = Percentile(data, 0)
	assert.Equal(t, 1.0, p)
	p, _ = Percentile(data, 1.5)
	assert.Equal(t, 5.0, p)

	_, ok = Percentile([]float64{math.Inf(1)}, 0.5)
	assert.False(t, ok)
}

func TestThresholdKeepsUpperValues(t *testing.T) {
	g := grid(5, 1, 0.1, 0.5, 0.9, 0.3, 0.7)
	out := Threshold(g, 0.5)
	assert.Equal(t, []float64{0.1, 0.5, 0.9, 0.1, 0.7}, out.Data)
	// input is not modified
	assert.Equal(t, 0.3, g.Data[3])
}

func TestThresholdEdgePercentiles(t *testing.T) {
	g := grid(4, 1, 2, 8, 4, 6)
	assert.Equal(t, g.Data, Threshold(g, 0).Data)
	assert.Equal(t, g.Data, Threshold(g, -1).Data)
	assert.Equal(t, []float64{2, 8, 2, 2}, Threshold(g, 1).Data)
}

func TestThresholdReplacesNonFinite(t *testing.T) {
	g := grid(3, 1, math.NaN(), 1, 5)
	out := Threshold(g, 0)
	assert.Equal(t, []float64{1, 1, 5}, out.Data)
}

func TestNormalizeRange(t *testing.T) {
	g := grid(4, 1, -3, 1, 5, 0)
	out := Normalize(g)
	assert.Equal(t, 0.0, out.Data[0])
	assert.Equal(t, 1.0, out.Data[2])
	for _, v := range out.Data {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.InDelta(t, 0.5, out.Data[1], 1e-12)
}

func TestNormalizeConstantIsZero(t *testing.T) {
	out := Normalize(grid(3, 1, 7, 7, 7))
	assert.Equal(t, []float64{0, 0, 0}, out.Data)

	out = Normalize(grid(2, 1, math.NaN(), math.NaN()))
	assert.Equal(t, []float64{0, 0}, out.Data)
}

func TestNormalizeNonFiniteMapsToZero(t *testing.T) {
	out := Normalize(grid(3, 1, 2, math.Inf(1), 4))
	assert.Equal(t, []float64{0, 0, 1}, out.Data)
}

func TestComputeIndices(t *testing.T) {
	// bands 1..6, only 3..6 matter
	bands := make([][]float64, 6)
	for i := range bands {
		bands[i] = []float64{float64(i + 1), float64(i + 1)}
	}
	src, err := raster.NewMemory(raster.Info{Width: 2, Height: 1}, bands)
	require.NoError(t, err)

	idx, err := ComputeIndices(src, DefaultBandRoles(), NDWIGreenSWIR)
	require.NoError(t, err)
	// NIR=5, RED=4, GREEN=3, SWIR=6
	assert.InDelta(t, 1.0/9, idx.NDVI.Data[0], 1e-9)
	assert.InDelta(t, -3.0/9, idx.NDWI.Data[0], 1e-9)
	assert.InDelta(t, 1.0/11, idx.NDBI.Data[1], 1e-9)
}

func TestComputeIndicesBandOutOfRange(t *testing.T) {
	src, err := raster.NewMemory(raster.Info{Width: 1, Height: 1}, [][]float64{{1}, {2}, {3}})
	require.NoError(t, err)
	_, err = ComputeIndices(src, DefaultBandRoles(), NDWIGreenNIR)
	assert.ErrorIs(t, err, ErrBandOutOfRange)
}
