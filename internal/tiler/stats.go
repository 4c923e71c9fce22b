package tiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/spectral"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Strategy selects how tiles are scaled into 8 bits.
type Strategy int

const (
	// None clips raw values into [0,255].
	None Strategy = iota
	// PerTileMinMax scales each tile against its own min/max.
	PerTileMinMax
	// GlobalMinMax scales every tile against the whole raster's min/max.
	GlobalMinMax
	// GlobalPercentile scales every tile against the whole raster's 2nd and
	// 98th percentiles of positive values.
	GlobalPercentile
)

const (
	lowPercentile  = 0.02
	highPercentile = 0.98
)

func (s Strategy) String() string {
	switch s {
	case None:
		return "none"
	case PerTileMinMax:
		return "tile"
	case GlobalMinMax:
		return "minmax"
	case GlobalPercentile:
		return "percentile"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

func (s Strategy) Global() bool {
	return s == GlobalMinMax || s == GlobalPercentile
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "tile", "per-tile":
		return PerTileMinMax, nil
	case "minmax", "global-minmax":
		return GlobalMinMax, nil
	case "percentile", "global-percentile":
		return GlobalPercentile, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Range is the [Lo,Hi] source interval mapped onto [0,255].
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

var rawRange = Range{Lo: 0, Hi: 255}

// GlobalStats holds one Range per selected band, computed over the whole
// raster before any tile is encoded.
type GlobalStats struct {
	Strategy Strategy `json:"strategy"`
	Bands    []int    `json:"bands"`
	Ranges   []Range  `json:"ranges"`
}

// BandRange returns the scaling range of one band under strategy. None
// keeps raw values, which Encode8 then clips into [0,255].
func BandRange(data []float64, strategy Strategy) Range {
	switch strategy {
	case PerTileMinMax, GlobalMinMax:
		lo, hi, ok := spectral.MinMax(data)
		if !ok {
			return Range{}
		}
		return Range{Lo: lo, Hi: hi}
	case GlobalPercentile:
		positive := spectral.Finite(data, func(v float64) bool { return v > 0 })
		p, ok := spectral.Percentiles(positive, lowPercentile, highPercentile)
		if !ok {
			return Range{}
		}
		return Range{Lo: p[0], Hi: p[1]}
	}
	return rawRange
}

// ComputeGlobalStats makes one full pass over the selected bands of src.
// Bands are read one after the other and reduced concurrently. progress,
// if not nil, is called once per finished band.
func ComputeGlobalStats(ctx context.Context, src raster.Source, bands []int, strategy Strategy, progress func()) (*GlobalStats, error) {
	if !strategy.Global() {
		return nil, fmt.Errorf("%w: %s is not a global strategy", ErrUnknownStrategy, strategy)
	}
	stats := &GlobalStats{
		Strategy: strategy,
		Bands:    append([]int(nil), bands...),
		Ranges:   make([]Range, len(bands)),
	}

	var g errgroup.Group
	g.SetLimit(2)
	for i, band := range bands {
		if err := ctx.Err(); err != nil {
			break
		}
		data, err := raster.ReadBand(src, band)
		if err != nil {
			g.Wait()
			return nil, fmt.Errorf("failed to read band %d for statistics: %w", band, err)
		}
		g.Go(func() error {
			stats.Ranges[i] = BandRange(data, strategy)
			log.Debug("band statistics", zap.Int("band", band), zap.String("strategy", strategy.String()),
				zap.Float64("lo", stats.Ranges[i].Lo), zap.Float64("hi", stats.Ranges[i].Hi))
			if progress != nil {
				progress()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}
