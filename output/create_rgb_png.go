package output

import (
	"context"
	"fmt"

	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/tiler"
	"go.uber.org/zap"
)

// CreateRGBPNG writes the whole raster as an 8-bit PNG. bands must hold one
// or three 1-based band numbers; empty picks 1,2,3 (or 1 for single-band
// rasters). The per-tile strategy is the same as minmax here since the
// image is a single tile.
func CreateRGBPNG(ctx context.Context, src raster.Source, bands []int, strategy tiler.Strategy, outputPath string) error {
	info := src.Info()
	if len(bands) == 0 {
		bands = []int{1}
		if info.Bands >= 3 {
			bands = []int{1, 2, 3}
		}
	}
	if len(bands) != 1 && len(bands) != 3 {
		return fmt.Errorf("%w: got %d", tiler.ErrUnsupportedBandCount, len(bands))
	}
	if strategy == tiler.PerTileMinMax {
		strategy = tiler.GlobalMinMax
	}

	encoded := make([][]uint8, len(bands))
	for i, b := range bands {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := raster.ReadBand(src, b)
		if err != nil {
			return err
		}
		r := tiler.BandRange(data, strategy)
		log.Debug("band range", zap.Int("band", b), zap.Float64("lo", r.Lo), zap.Float64("hi", r.Hi))
		encoded[i] = tiler.Encode8(data, r)
	}

	img, err := tiler.Image(info.Width, info.Height, encoded)
	if err != nil {
		return err
	}
	if err := tiler.WritePNG(outputPath, img); err != nil {
		return err
	}
	log.Info("png written", zap.String("path", outputPath), zap.Ints("bands", bands))
	return nil
}
