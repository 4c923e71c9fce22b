package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forest-guardian/landprep/internal/log"
	"github.com/forest-guardian/landprep/internal/radiance"
	"github.com/forest-guardian/landprep/internal/raster"
	"go.uber.org/zap"
)

type RadianceOptions struct {
	MTLPath   string
	InputPath string
	// OutputPath is the output file for a single input, or a directory
	// receiving <name>_radiance.tif files for a directory input.
	OutputPath string
}

func Radiance(ctx context.Context, opts RadianceOptions) (*Report, error) {
	if _, err := os.Stat(opts.MTLPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, opts.MTLPath)
	}
	inputs, err := ListInputs(opts.InputPath)
	if err != nil {
		return nil, err
	}
	coeffs, err := radiance.ReadMTL(opts.MTLPath)
	if err != nil {
		return nil, err
	}
	log.Info("radiance coefficients loaded", zap.Ints("bands", coeffs.Bands()))

	toDir := isDir(opts.InputPath) || isDir(opts.OutputPath) || len(inputs) > 1
	if toDir {
		if err := ensureDir(opts.OutputPath); err != nil {
			return nil, err
		}
	} else if err := ensureDir(filepath.Dir(opts.OutputPath)); err != nil {
		return nil, err
	}

	return runBatch(ctx, "radiance", inputs, func(ctx context.Context, input string) ([]string, error) {
		out := opts.OutputPath
		if toDir {
			out = filepath.Join(opts.OutputPath, baseName(input)+"_radiance.tif")
		}
		ds, err := raster.Open(input)
		if err != nil {
			return nil, err
		}
		defer ds.Close()
		if _, err := radiance.Convert(ds, coeffs, out); err != nil {
			return nil, err
		}
		return []string{out}, nil
	})
}

func isDir(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
