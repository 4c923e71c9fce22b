package tiler

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	godal.RegisterAll()
	os.Exit(m.Run())
}

func TestPlanGrid(t *testing.T) {
	p, err := NewPlan(1300, 800, 640, 480)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Cols)
	assert.Equal(t, 2, p.Rows)
	assert.Equal(t, 6, p.Count())

	assert.Equal(t, raster.Window{X: 1280, Y: 0, Width: 20, Height: 480}, p.Window(2, 0))
	assert.Equal(t, raster.Window{X: 0, Y: 480, Width: 640, Height: 320}, p.Window(0, 1))
	assert.Equal(t, raster.Window{X: 1280, Y: 480, Width: 20, Height: 320}, p.Window(2, 1))
}

func TestPlanExactMultipleHasNoEdgeTiles(t *testing.T) {
	p, err := NewPlan(1280, 720, 640, 360)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Cols)
	assert.Equal(t, 2, p.Rows)
	for _, tile := range p.Tiles(raster.Identity) {
		assert.Equal(t, 640, tile.Window.Width)
		assert.Equal(t, 360, tile.Window.Height)
	}
}

func TestPlanInvalid(t *testing.T) {
	_, err := NewPlan(100, 100, 0, 10)
	assert.ErrorIs(t, err, ErrInvalidTileSize)
	_, err = NewPlan(0, 100, 10, 10)
	assert.ErrorIs(t, err, raster.ErrEmptyRaster)
}

func TestPlanCoverage(t *testing.T) {
	sizes := [][4]int{
		{1300, 800, 640, 480},
		{1, 1, 256, 256},
		{257, 255, 256, 256},
		{1000, 700, 100, 70},
		{37, 91, 5, 13},
	}
	for _, s := range sizes {
		w, h, tw, th := s[0], s[1], s[2], s[3]
		p, err := NewPlan(w, h, tw, th)
		require.NoError(t, err)

		hits := make([]int, w*h)
		tiles := p.Tiles(raster.Identity)
		for _, tile := range tiles {
			require.True(t, tile.Window.Within(w, h), "%v outside %dx%d", tile.Window, w, h)
			for y := tile.Window.Y; y < tile.Window.Y+tile.Window.Height; y++ {
				for x := tile.Window.X; x < tile.Window.X+tile.Window.Width; x++ {
					hits[y*w+x]++
				}
			}
		}
		for i, n := range hits {
			require.Equal(t, 1, n, "pixel %d covered %d times for %v", i, n, s)
		}
		assert.Equal(t, ((w+tw-1)/tw)*((h+th-1)/th), len(tiles))
	}
}

func TestTileTransforms(t *testing.T) {
	gt := raster.Affine{399960, 30, 0, 4000020, 0, -30}
	p, err := NewPlan(1300, 800, 640, 480)
	require.NoError(t, err)
	for _, tile := range p.Tiles(gt) {
		x, y := tile.Transform.Apply(0, 0)
		wx, wy := gt.Apply(float64(tile.Col*640), float64(tile.Row*480))
		assert.Equal(t, wx, x)
		assert.Equal(t, wy, y)
	}
}

func TestParseStrategyAndFormat(t *testing.T) {
	for in, want := range map[string]Strategy{"none": None, "tile": PerTileMinMax, "minmax": GlobalMinMax, "Percentile": GlobalPercentile} {
		got, err := ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseStrategy("histogram")
	assert.ErrorIs(t, err, ErrUnknownStrategy)

	f, err := ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	_, err = ParseFormat("jpeg")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncode8(t *testing.T) {
	got := Encode8([]float64{-5, 0, 50, 100, 200}, Range{Lo: 0, Hi: 100})
	assert.Equal(t, []uint8{0, 0, 127, 255, 255}, got)

	assert.Equal(t, []uint8{0, 0}, Encode8([]float64{3, 3}, Range{Lo: 3, Hi: 3}))
	assert.Equal(t, []uint8{12, 255}, Encode8([]float64{12.7, 300}, rawRange))
}

func TestComputeGlobalStats(t *testing.T) {
	band := make([]float64, 110)
	for i := 0; i < 100; i++ {
		band[i] = float64(i + 1)
	}
	src, err := raster.NewMemory(raster.Info{Width: 11, Height: 10}, [][]float64{band})
	require.NoError(t, err)

	stats, err := ComputeGlobalStats(context.Background(), src, []int{1}, GlobalMinMax, nil)
	require.NoError(t, err)
	assert.Equal(t, Range{Lo: 0, Hi: 100}, stats.Ranges[0])

	calls := 0
	stats, err = ComputeGlobalStats(context.Background(), src, []int{1}, GlobalPercentile, func() { calls++ })
	require.NoError(t, err)
	assert.InDelta(t, 2.98, stats.Ranges[0].Lo, 1e-9)
	assert.InDelta(t, 98.02, stats.Ranges[0].Hi, 1e-9)
	assert.Equal(t, 1, calls)

	_, err = ComputeGlobalStats(context.Background(), src, []int{1}, PerTileMinMax, nil)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

// stripes is a 4x2 single band raster whose left and right halves share the
// value 50.
func stripes(t *testing.T) raster.Source {
	src, err := raster.NewMemory(raster.Info{Width: 4, Height: 2},
		[][]float64{{0, 50, 50, 100, 0, 50, 50, 100}})
	require.NoError(t, err)
	return src
}

func readGray(t *testing.T, path string) *image.Gray {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok)
	return gray
}

func TestRunGlobalNormalizationSharesScale(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(context.Background(), stripes(t), Options{
		TileWidth: 2, TileHeight: 2, Format: PNG, Strategy: GlobalMinMax,
		OutputDir: dir, BaseName: "scene",
	})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	require.Len(t, res.Written, 2)
	require.NotNil(t, res.Stats)

	left := readGray(t, res.Written[0].Path)
	right := readGray(t, res.Written[1].Path)
	assert.Equal(t, filepath.Join(dir, "scene_tile_0_0.png"), res.Written[0].Path)
	assert.Equal(t, left.GrayAt(1, 0), right.GrayAt(0, 0))
	assert.Equal(t, uint8(127), left.GrayAt(1, 0).Y)
}

func TestRunPerTileNormalizationDiffers(t *testing.T) {
	res, err := Run(context.Background(), stripes(t), Options{
		TileWidth: 2, TileHeight: 2, Format: PNG, Strategy: PerTileMinMax,
		OutputDir: t.TempDir(), BaseName: "scene",
	})
	require.NoError(t, err)
	require.Len(t, res.Written, 2)
	assert.Nil(t, res.Stats)

	left := readGray(t, res.Written[0].Path)
	right := readGray(t, res.Written[1].Path)
	assert.Equal(t, uint8(255), left.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(0), right.GrayAt(0, 0).Y)
}

type memStore struct {
	entries map[string]GlobalStats
	sources map[string]string
}

func (m *memStore) Get(key string) (GlobalStats, bool) {
	s, ok := m.entries[key]
	return s, ok
}

func (m *memStore) Set(key, source string, s GlobalStats) error {
	m.entries[key] = s
	m.sources[key] = source
	return nil
}

func TestRunUsesStatsCache(t *testing.T) {
	store := &memStore{entries: map[string]GlobalStats{}, sources: map[string]string{}}
	opts := Options{
		TileWidth: 4, TileHeight: 2, Format: PNG, Strategy: GlobalMinMax,
		OutputDir: t.TempDir(), BaseName: "scene",
		StatsCache: store, StatsKey: "scene", StatsSource: "/data/scene.tif",
	}
	_, err := Run(context.Background(), stripes(t), opts)
	require.NoError(t, err)
	require.Contains(t, store.entries, "scene")
	assert.Equal(t, "/data/scene.tif", store.sources["scene"])
	assert.Equal(t, Range{Lo: 0, Hi: 100}, store.entries["scene"].Ranges[0])

	store.entries["scene"] = GlobalStats{Strategy: GlobalMinMax, Bands: []int{1}, Ranges: []Range{{Lo: 0, Hi: 50}}}
	res, err := Run(context.Background(), stripes(t), opts)
	require.NoError(t, err)
	img := readGray(t, res.Written[0].Path)
	assert.Equal(t, uint8(255), img.GrayAt(1, 0).Y)
}

func TestRunRGBPNG(t *testing.T) {
	src, err := raster.NewMemory(raster.Info{Width: 2, Height: 1},
		[][]float64{{10, 20}, {30, 40}, {50, 60}, {70, 80}})
	require.NoError(t, err)
	res, err := Run(context.Background(), src, Options{
		TileWidth: 2, TileHeight: 1, Format: PNG, OutputDir: t.TempDir(), BaseName: "rgb",
	})
	require.NoError(t, err)
	require.Len(t, res.Written, 1)

	f, err := os.Open(res.Written[0].Path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, a := img.At(1, 0).RGBA()
	assert.Equal(t, []uint32{20, 40, 60, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestRunRejectsTwoBandPNG(t *testing.T) {
	_, err := Run(context.Background(), stripes(t), Options{
		TileWidth: 2, TileHeight: 2, Format: PNG, Bands: []int{1, 1},
		OutputDir: t.TempDir(), BaseName: "scene",
	})
	assert.ErrorIs(t, err, ErrUnsupportedBandCount)
}

var errBadBlock = errors.New("bad block")

type flakySource struct {
	raster.Source
	bad raster.Window
}

func (f flakySource) ReadWindow(band int, w raster.Window) ([]float64, error) {
	if w == f.bad {
		return nil, errBadBlock
	}
	return f.Source.ReadWindow(band, w)
}

func TestRunFailedTileDoesNotAbortOthers(t *testing.T) {
	src := flakySource{Source: stripes(t), bad: raster.Window{X: 0, Y: 0, Width: 2, Height: 2}}
	res, err := Run(context.Background(), src, Options{
		TileWidth: 2, TileHeight: 2, Format: PNG, Workers: 2,
		OutputDir: t.TempDir(), BaseName: "scene",
	})
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)
	require.Len(t, res.Written, 1)
	assert.Equal(t, 1, res.Written[0].Col)
	assert.ErrorIs(t, res.Err(), errBadBlock)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, stripes(t), Options{
		TileWidth: 1, TileHeight: 1, Format: PNG, OutputDir: t.TempDir(), BaseName: "scene",
	})
	require.NoError(t, err)
	assert.Empty(t, res.Written)
	assert.Len(t, res.Failed, 8)
	assert.ErrorIs(t, res.Err(), context.Canceled)
}

func TestRunGeoTIFFEndToEnd(t *testing.T) {
	const w, h = 1300, 800
	bands := [][]float64{make([]float64, w*h), make([]float64, w*h)}
	for i := range bands[0] {
		bands[0][i] = float64(i % w)
		bands[1][i] = float64(i / w)
	}
	gt := raster.Affine{399960, 30, 0, 4000020, 0, -30}
	src, err := raster.NewMemory(raster.Info{Width: w, Height: h, DataType: godal.UInt16, Transform: gt}, bands)
	require.NoError(t, err)

	dir := t.TempDir()
	res, err := Run(context.Background(), src, Options{
		TileWidth: 640, TileHeight: 480, Format: GeoTIFF, Workers: 3,
		OutputDir: dir, BaseName: "LC08",
	})
	require.NoError(t, err)
	require.NoError(t, res.Err())
	assert.Equal(t, 3, res.Plan.Cols)
	assert.Equal(t, 2, res.Plan.Rows)
	require.Len(t, res.Written, 6)

	last := res.Written[5]
	assert.Equal(t, filepath.Join(dir, "LC08_tile_2_1.tif"), last.Path)

	ds, err := raster.Open(last.Path)
	require.NoError(t, err)
	defer ds.Close()
	info := ds.Info()
	assert.Equal(t, 20, info.Width)
	assert.Equal(t, 320, info.Height)
	assert.Equal(t, 2, info.Bands)
	assert.Equal(t, godal.UInt16, info.DataType)

	x, y := info.Transform.Apply(0, 0)
	wx, wy := gt.Apply(1280, 480)
	assert.InDelta(t, wx, x, 1e-6)
	assert.InDelta(t, wy, y, 1e-6)

	px, err := ds.ReadWindow(1, raster.Window{Width: 1, Height: 1})
	require.NoError(t, err)
	assert.Equal(t, 1280.0, px[0])
	py, err := ds.ReadWindow(2, raster.Window{Width: 1, Height: 1})
	require.NoError(t, err)
	assert.Equal(t, 480.0, py[0])
}
