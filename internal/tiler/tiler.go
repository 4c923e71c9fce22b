package tiler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"github.com/forest-guardian/landprep/internal/cache"
	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/gammazero/workerpool"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type Options struct {
	TileWidth, TileHeight int
	Format                Format
	Strategy              Strategy
	// Bands are 1-based. Empty selects every band for GeoTIFF, and the
	// first three (or the only one) for PNG.
	Bands     []int
	OutputDir string
	BaseName  string
	Workers   int
	Progress  bool

	// StatsCache and StatsKey, when both set, reuse global statistics
	// computed by an earlier run over the same input. StatsSource names
	// that input in new entries.
	StatsCache  cache.Store[GlobalStats]
	StatsKey    string
	StatsSource string
}

type TileOutput struct {
	Tile
	Path string
}

type TileError struct {
	Tile
	Err error
}

func (e TileError) Error() string {
	return fmt.Sprintf("tile %d,%d: %v", e.Col, e.Row, e.Err)
}

func (e TileError) Unwrap() error {
	return e.Err
}

type Result struct {
	Plan    Plan
	Stats   *GlobalStats
	Written []TileOutput
	Failed  []TileError
}

// Err joins the per-tile failures, nil when every tile was written.
func (r *Result) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func resolveBands(info raster.Info, opts Options) ([]int, error) {
	bands := opts.Bands
	if len(bands) == 0 {
		switch {
		case opts.Format == GeoTIFF:
			for b := 1; b <= info.Bands; b++ {
				bands = append(bands, b)
			}
		case info.Bands >= 3:
			bands = []int{1, 2, 3}
		default:
			bands = []int{1}
		}
	}
	for _, b := range bands {
		if b < 1 || b > info.Bands {
			return nil, fmt.Errorf("%w: band %d of %d", raster.ErrBandOutOfRange, b, info.Bands)
		}
	}
	if opts.Format == PNG && len(bands) != 1 && len(bands) != 3 {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedBandCount, len(bands))
	}
	return bands, nil
}

func (opts Options) globalStats(ctx context.Context, src raster.Source, bands []int) (*GlobalStats, error) {
	if opts.Format != PNG || !opts.Strategy.Global() {
		return nil, nil
	}
	useCache := opts.StatsCache != nil && opts.StatsKey != ""
	if useCache {
		if stats, ok := opts.StatsCache.Get(opts.StatsKey); ok && slices.Equal(stats.Bands, bands) && len(stats.Ranges) == len(bands) {
			log.Info("reusing cached statistics", zap.String("key", opts.StatsKey))
			return &stats, nil
		}
	}

	var progress func()
	if opts.Progress {
		bar := progressbar.Default(int64(len(bands)), "Computing "+opts.Strategy.String()+" statistics")
		defer bar.Finish()
		progress = func() { bar.Add(1) }
	}
	stats, err := ComputeGlobalStats(ctx, src, bands, opts.Strategy, progress)
	if err != nil {
		return nil, err
	}
	if useCache {
		if err := opts.StatsCache.Set(opts.StatsKey, opts.StatsSource, *stats); err != nil {
			log.Warn("failed to cache statistics", zap.Error(err))
		}
	}
	return stats, nil
}

// Run cuts src into tiles written under opts.OutputDir. Global statistics,
// when the strategy needs them, are computed before the first tile is
// read. A tile that fails is reported in the result and never stops the
// others; the returned error covers setup failures only.
func Run(ctx context.Context, src raster.Source, opts Options) (*Result, error) {
	info := src.Info()
	plan, err := NewPlan(info.Width, info.Height, opts.TileWidth, opts.TileHeight)
	if err != nil {
		return nil, err
	}
	bands, err := resolveBands(info, opts)
	if err != nil {
		return nil, err
	}
	if opts.Format == GeoTIFF && opts.Strategy != None {
		log.Warn("normalization is ignored for GeoTIFF tiles", zap.String("strategy", opts.Strategy.String()))
	}
	if err := os.MkdirAll(opts.OutputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", opts.OutputDir, err)
	}

	stats, err := opts.globalStats(ctx, src, bands)
	if err != nil {
		return nil, fmt.Errorf("failed to compute global statistics: %w", err)
	}

	tiles := plan.Tiles(info.Transform)
	result := &Result{Plan: plan, Stats: stats}
	log.Info("tiling raster",
		zap.String("base", opts.BaseName),
		zap.Int("cols", plan.Cols),
		zap.Int("rows", plan.Rows),
		zap.Int("tiles", len(tiles)),
		zap.String("format", opts.Format.String()))

	var bar *progressbar.ProgressBar
	if opts.Progress {
		bar = progressbar.Default(int64(len(tiles)), "Tiling "+opts.BaseName)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	wp := workerpool.New(workers)
	var mu sync.Mutex
	for _, tile := range tiles {
		wp.Submit(func() {
			var path string
			err := ctx.Err()
			if err == nil {
				path, err = writeTile(src, info, tile, bands, stats, opts)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Error("tile failed", zap.Int("col", tile.Col), zap.Int("row", tile.Row), zap.Error(err))
				result.Failed = append(result.Failed, TileError{Tile: tile, Err: err})
			} else {
				result.Written = append(result.Written, TileOutput{Tile: tile, Path: path})
			}
			if bar != nil {
				bar.Add(1)
			}
		})
	}
	wp.StopWait()
	if bar != nil {
		bar.Finish()
	}

	sort.Slice(result.Written, func(i, j int) bool {
		a, b := result.Written[i], result.Written[j]
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return result, nil
}

func writeTile(src raster.Source, info raster.Info, tile Tile, bands []int, stats *GlobalStats, opts Options) (string, error) {
	data := make([][]float64, len(bands))
	for i, b := range bands {
		d, err := src.ReadWindow(b, tile.Window)
		if err != nil {
			return "", err
		}
		data[i] = d
	}

	path := filepath.Join(opts.OutputDir, TileName(opts.BaseName, tile, opts.Format))
	if opts.Format == GeoTIFF {
		tileInfo := raster.Info{
			Width:     tile.Window.Width,
			Height:    tile.Window.Height,
			DataType:  info.DataType,
			CRS:       info.CRS,
			Transform: tile.Transform,
		}
		return path, raster.WriteGeoTIFF(path, tileInfo, data)
	}

	encoded := make([][]uint8, len(data))
	for i, d := range data {
		encoded[i] = Encode8(d, tileRange(d, i, stats, opts.Strategy))
	}
	img, err := Image(tile.Window.Width, tile.Window.Height, encoded)
	if err != nil {
		return "", err
	}
	return path, WritePNG(path, img)
}

func tileRange(data []float64, i int, stats *GlobalStats, strategy Strategy) Range {
	if stats != nil {
		return stats.Ranges[i]
	}
	return BandRange(data, strategy)
}
