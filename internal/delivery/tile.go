package delivery

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/forest-guardian/landprep/internal/cache"
	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/forest-guardian/landprep/output"
	"go.uber.org/zap"
)

type TileOptions struct {
	InputPath string
	OutputDir string
	// Tiler is the template applied to every input; OutputDir, BaseName and
	// the statistics cache are filled per file.
	Tiler tiler.Options
	// Index writes a GeoJSON footprint of the written tiles per input.
	Index bool
	// CacheDir enables the global statistics cache when set. Entries older
	// than CacheMaxAge are recomputed; zero keeps them forever.
	CacheDir    string
	CacheMaxAge time.Duration
}

func Tile(ctx context.Context, opts TileOptions) (*Report, error) {
	inputs, err := ListInputs(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(opts.OutputDir); err != nil {
		return nil, err
	}
	var statsCache *cache.FileCache[tiler.GlobalStats]
	if opts.CacheDir != "" {
		statsCache = cache.NewFileCache[tiler.GlobalStats](opts.CacheDir)
		statsCache.MaxAge = opts.CacheMaxAge
		log.Debug("statistics cache enabled", zap.String("dir", statsCache.Dir()), zap.Duration("max_age", statsCache.MaxAge))
	}
	return runBatch(ctx, "tile", inputs, func(ctx context.Context, input string) ([]string, error) {
		return tileFile(ctx, input, opts, statsCache)
	})
}

func tileFile(ctx context.Context, input string, opts TileOptions, statsCache *cache.FileCache[tiler.GlobalStats]) ([]string, error) {
	ds, err := raster.Open(input)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	to := opts.Tiler
	to.OutputDir = opts.OutputDir
	to.BaseName = baseName(input)
	if statsCache != nil {
		key, err := cache.FileKey(input, to.Strategy, fmt.Sprint(to.Bands))
		if err != nil {
			log.Warn("statistics cache disabled for input", zap.String("input", input), zap.Error(err))
		} else {
			to.StatsCache, to.StatsKey, to.StatsSource = statsCache, key, ds.Path()
		}
	}

	res, err := tiler.Run(ctx, ds, to)
	if err != nil {
		return nil, err
	}
	outputs := make([]string, 0, len(res.Written)+1)
	for _, w := range res.Written {
		outputs = append(outputs, w.Path)
	}

	if opts.Index && len(res.Written) > 0 {
		p := filepath.Join(opts.OutputDir, to.BaseName+"_tiles.geojson")
		if err := output.CreateTileIndexGeoJSON(res.Written, ds.Info().CRS, p); err != nil {
			return outputs, err
		}
		outputs = append(outputs, p)
	}

	if err := res.Err(); err != nil {
		return outputs, fmt.Errorf("%d of %d tiles failed: %w", len(res.Failed), res.Plan.Count(), err)
	}
	return outputs, nil
}
