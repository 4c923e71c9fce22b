package delivery

import (
	"context"
	"path/filepath"

	"github.com/forest-guardian/landprep/internal/mask"
	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/forest-guardian/landprep/output"
)

const LegendFileName = "legend.csv"

type LabelOptions struct {
	InputPath string
	OutputDir string
	Format    tiler.Format
	Mask      mask.LabelOptions
	// Preview writes a colored rendering with a legend next to each mask.
	Preview bool
	// Counts writes per-class pixel counts next to each mask.
	Counts bool
}

// Label builds a land-cover mask for every input raster and writes the
// class legend once into the output directory.
func Label(ctx context.Context, opts LabelOptions) (*Report, error) {
	inputs, err := ListInputs(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(opts.OutputDir); err != nil {
		return nil, err
	}
	if err := output.CreateLegendCSV(filepath.Join(opts.OutputDir, LegendFileName)); err != nil {
		return nil, err
	}
	return runBatch(ctx, "label", inputs, func(ctx context.Context, input string) ([]string, error) {
		return labelFile(input, opts)
	})
}

func labelFile(input string, opts LabelOptions) ([]string, error) {
	ds, err := raster.Open(input)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	m, err := mask.Label(ds, opts.Mask)
	if err != nil {
		return nil, err
	}

	prefix := filepath.Join(opts.OutputDir, baseName(input)+"_mask")
	maskPath := prefix + "." + opts.Format.Ext()
	if opts.Format == tiler.PNG {
		err = output.CreateMaskPNG(m, maskPath)
	} else {
		err = output.CreateMaskGeoTIFF(m, ds.Info(), maskPath)
	}
	if err != nil {
		return nil, err
	}
	outputs := []string{maskPath}

	if opts.Preview {
		p := prefix + "_preview.png"
		if err := output.CreateMaskPreview(m, p); err != nil {
			return outputs, err
		}
		outputs = append(outputs, p)
	}
	if opts.Counts {
		p := prefix + "_counts.csv"
		if err := output.CreateClassCountsCSV(m, p); err != nil {
			return outputs, err
		}
		outputs = append(outputs, p)
	}
	return outputs, nil
}
