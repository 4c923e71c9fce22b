package delivery

import (
	"context"
	"path/filepath"

	"github.com/forest-guardian/landprep/internal/raster"
	"github.com/forest-guardian/landprep/internal/spectral"
	"github.com/forest-guardian/landprep/internal/tiler"
	"github.com/forest-guardian/landprep/output"
)

type IndexOptions struct {
	InputPath   string
	OutputDir   string
	Format      tiler.Format
	Roles       spectral.BandRoles
	NDWIFormula spectral.NDWIFormula
}

// Index writes the NDVI, NDWI and NDBI maps of every input raster as
// <name>_NDVI, <name>_NDWI and <name>_NDBI.
func Index(ctx context.Context, opts IndexOptions) (*Report, error) {
	inputs, err := ListInputs(opts.InputPath)
	if err != nil {
		return nil, err
	}
	if err := ensureDir(opts.OutputDir); err != nil {
		return nil, err
	}
	return runBatch(ctx, "index", inputs, func(ctx context.Context, input string) ([]string, error) {
		return indexFile(input, opts)
	})
}

func indexFile(input string, opts IndexOptions) ([]string, error) {
	ds, err := raster.Open(input)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	idx, err := spectral.ComputeIndices(ds, opts.Roles, opts.NDWIFormula)
	if err != nil {
		return nil, err
	}

	var outputs []string
	for _, m := range []struct {
		name string
		grid spectral.Grid
	}{
		{"NDVI", idx.NDVI},
		{"NDWI", idx.NDWI},
		{"NDBI", idx.NDBI},
	} {
		p := filepath.Join(opts.OutputDir, baseName(input)+"_"+m.name+"."+opts.Format.Ext())
		if opts.Format == tiler.PNG {
			err = output.CreateIndexPNG(m.grid, p)
		} else {
			err = output.CreateIndexGeoTIFF(m.grid, ds.Info(), p)
		}
		if err != nil {
			return outputs, err
		}
		outputs = append(outputs, p)
	}
	return outputs, nil
}
