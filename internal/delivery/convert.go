package delivery

import (
	"context"
	"path/filepath"

	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/forest-guardian/landprep/output"
)

type PNGOptions struct {
	InputPath string
	OutputDir string
	Bands     []int
	Strategy  tiler.Strategy
}

// ConvertPNG renders every input raster as one 8-bit PNG.
func ConvertPNG(ctx context.Context, opts PNGOptions) (*Report, error) {
	inputs, err := ListInputs(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(opts.OutputDir); err != nil {
		return nil, err
	}
	return runBatch(ctx, "png", inputs, func(ctx context.Context, input string) ([]string, error) {
		ds, err := raster.Open(input)
		if err != nil {
			return nil, err
		}
		defer ds.Close()

		out := filepath.Join(opts.OutputDir, baseName(input)+".png")
		if err := output.CreateRGBPNG(ctx, ds, opts.Bands, opts.Strategy, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	})
}
